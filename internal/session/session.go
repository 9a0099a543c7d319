// Package session aggregates the per-variant side-bet games of one round
// into a single unit: one roster, one configuration set, one combined
// settlement. Sessions are rebuilt from their action logs at any time;
// nothing here depends on incremental state.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MJE43/golf-sidebets-go/internal/games"
)

// ErrGameNotEnabled is returned when an operation names a variant the
// session was not configured to play.
var ErrGameNotEnabled = errors.New("game not enabled")

// Session is one round's worth of side bets: a roster and the enabled
// variants, each with its own append-only action log. A Session is not
// safe for concurrent use; callers serialize access.
type Session struct {
	ID        string
	Name      string
	CreatedAt time.Time
	Players   []string

	configs map[games.GameType]games.Config
	byType  map[games.GameType]games.Game
}

// New creates a session with the given roster, constructing every variant
// whose configuration is enabled. Configuration errors and unknown game
// types fail construction.
func New(name string, players []string, configs map[games.GameType]games.Config) (*Session, error) {
	s := &Session{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Players:   append([]string(nil), players...),
		configs:   make(map[games.GameType]games.Config, len(configs)),
		byType:    make(map[games.GameType]games.Game, len(configs)),
	}
	for gt, cfg := range configs {
		s.configs[gt] = cfg
		if !cfg.Enabled {
			continue
		}
		g, err := games.New(gt, s.Players, cfg)
		if err != nil {
			return nil, fmt.Errorf("configure %s: %w", gt, err)
		}
		s.byType[gt] = g
	}
	return s, nil
}

// Enabled returns the session's active game types in canonical order.
func (s *Session) Enabled() []games.GameType {
	out := make([]games.GameType, 0, len(s.byType))
	for _, gt := range games.List() {
		if _, ok := s.byType[gt]; ok {
			out = append(out, gt)
		}
	}
	return out
}

// Game returns the variant instance for the given type.
func (s *Session) Game(gt games.GameType) (games.Game, bool) {
	g, ok := s.byType[gt]
	return g, ok
}

// Configs returns a copy of the full configuration set, disabled variants
// included.
func (s *Session) Configs() map[games.GameType]games.Config {
	out := make(map[games.GameType]games.Config, len(s.configs))
	for gt, cfg := range s.configs {
		out[gt] = cfg
	}
	return out
}

// Record validates and appends an action to the named variant. The bool
// mirrors the variant's silent rejection; the error fires only when the
// variant is not enabled for this session.
func (s *Session) Record(gt games.GameType, a games.Action) (games.Action, bool, error) {
	g, ok := s.byType[gt]
	if !ok {
		return games.Action{}, false, fmt.Errorf("%w: %q", ErrGameNotEnabled, gt)
	}
	if !g.AddAction(a) {
		return games.Action{}, false, nil
	}
	log := g.Actions()
	return log[len(log)-1], true, nil
}

// Remove deletes an action from the named variant by id.
func (s *Session) Remove(gt games.GameType, id string) (bool, error) {
	g, ok := s.byType[gt]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrGameNotEnabled, gt)
	}
	return g.RemoveAction(id), nil
}

// Actions returns the named variant's log.
func (s *Session) Actions(gt games.GameType) ([]games.Action, error) {
	g, ok := s.byType[gt]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrGameNotEnabled, gt)
	}
	return g.Actions(), nil
}

// Summary settles the named variant.
func (s *Session) Summary(gt games.GameType) (games.BalanceMap, error) {
	g, ok := s.byType[gt]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrGameNotEnabled, gt)
	}
	return g.CalculateSummary(), nil
}

// Summaries settles every enabled variant.
func (s *Session) Summaries() map[games.GameType]games.BalanceMap {
	out := make(map[games.GameType]games.BalanceMap, len(s.byType))
	for gt, g := range s.byType {
		out[gt] = g.CalculateSummary()
	}
	return out
}

// Totals combines the settlements of every enabled variant into one
// balance per player. Zero-sum per variant implies zero-sum here.
func (s *Session) Totals() games.BalanceMap {
	totals := make(games.BalanceMap, len(s.Players))
	for _, p := range s.Players {
		totals[p] = decimal.Zero
	}
	for _, g := range s.byType {
		totals.AddInto(g.CalculateSummary())
	}
	return totals
}

// Stats returns the named variant's statistics object.
func (s *Session) Stats(gt games.GameType) (any, error) {
	g, ok := s.byType[gt]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrGameNotEnabled, gt)
	}
	return g.Stats(), nil
}
