package session

import (
	"fmt"
	"time"

	"github.com/MJE43/golf-sidebets-go/internal/games"
)

// Document is the portable shape of a session: its identity, roster,
// configuration set, and every variant's action log in append order. A
// session and its document round-trip losslessly; settlement is never
// stored, only recomputed.
type Document struct {
	ID        string                            `json:"id"`
	Name      string                            `json:"name"`
	CreatedAt time.Time                         `json:"created_at"`
	Players   []string                          `json:"players"`
	Configs   map[games.GameType]games.Config   `json:"configs"`
	Actions   map[games.GameType][]games.Action `json:"actions"`
}

// Export snapshots the session into a Document.
func (s *Session) Export() Document {
	doc := Document{
		ID:        s.ID,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
		Players:   append([]string(nil), s.Players...),
		Configs:   s.Configs(),
		Actions:   make(map[games.GameType][]games.Action, len(s.byType)),
	}
	for gt, g := range s.byType {
		doc.Actions[gt] = g.Actions()
	}
	return doc
}

// FromDocument rebuilds a session by replaying the document's logs through
// each variant's own validation. Stamped identities and timestamps are
// preserved. A rejected action means the document does not describe a
// state this configuration can reach, and fails the rebuild.
func FromDocument(doc Document) (*Session, error) {
	s, err := New(doc.Name, doc.Players, doc.Configs)
	if err != nil {
		return nil, err
	}
	if doc.ID != "" {
		s.ID = doc.ID
	}
	if !doc.CreatedAt.IsZero() {
		s.CreatedAt = doc.CreatedAt
	}

	for _, gt := range games.List() {
		log, ok := doc.Actions[gt]
		if !ok {
			continue
		}
		g, enabled := s.byType[gt]
		if !enabled {
			if len(log) > 0 {
				return nil, fmt.Errorf("%w: %q has %d recorded actions", ErrGameNotEnabled, gt, len(log))
			}
			continue
		}
		for _, a := range log {
			if !g.AddAction(a) {
				return nil, fmt.Errorf("replay %s: action %q rejected", gt, a.ID)
			}
		}
	}
	return s, nil
}
