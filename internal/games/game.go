package games

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// GameType identifies a side-bet variant.
type GameType string

const (
	GameMurph GameType = "murph"
	GameSkins GameType = "skins"
	GameKP    GameType = "kp"
	GameSnake GameType = "snake"
	GameWolf  GameType = "wolf"
)

// ErrUnknownGame is returned by New for a game type that is not registered.
var ErrUnknownGame = fmt.Errorf("unknown game type")

// Config holds the per-variant settings fixed at session start.
// Teams applies to Skins with four players, Rotation and HolesPerWolf to Wolf.
type Config struct {
	Enabled      bool            `json:"enabled"`
	BetAmount    decimal.Decimal `json:"bet_amount"`
	Teams        [][]string      `json:"teams,omitempty"`
	Rotation     []string        `json:"rotation,omitempty"`
	HolesPerWolf int             `json:"holes_per_wolf,omitempty"`
}

// GameSpec describes a variant's identity and roster bounds.
// MaxPlayers of 0 means no upper bound.
type GameSpec struct {
	ID         GameType `json:"id"`
	Name       string   `json:"name"`
	MinPlayers int      `json:"min_players"`
	MaxPlayers int      `json:"max_players"`
}

// Game is the capability set every variant implements: validate an action,
// append it to the variant's log, and settle the log into balances on demand.
// Settlement is a pure function of the log; reads never advance state.
type Game interface {
	// Spec returns metadata about the variant.
	Spec() GameSpec

	// ValidateAction reports whether the action is acceptable for this
	// variant given the roster and configuration.
	ValidateAction(a Action) bool

	// AddAction validates the action, stamps its identity and timestamp if
	// missing, and appends it to the log. Invalid actions are rejected
	// silently: the log is untouched and false is returned.
	AddAction(a Action) bool

	// RemoveAction deletes the logged action with the given id.
	RemoveAction(id string) bool

	// Actions returns a copy of the log in append order.
	Actions() []Action

	// CalculateSummary folds the log into a balance per roster player.
	// Balances sum to zero for any valid log over two or more players.
	CalculateSummary() BalanceMap

	// Stats returns the variant-specific statistics object.
	Stats() any
}

type factoryFunc func(players []string, cfg Config) (Game, error)

type registration struct {
	spec GameSpec
	fn   factoryFunc
}

// registry maps game types to their specs and factories. The variant set is
// closed: registration happens only in this package's init functions.
var registry = make(map[GameType]registration)

// gameOrder is the canonical listing order for List and Specs.
var gameOrder = []GameType{GameMurph, GameSkins, GameKP, GameSnake, GameWolf}

func register(spec GameSpec, fn factoryFunc) {
	registry[spec.ID] = registration{spec: spec, fn: fn}
}

// New constructs the variant for the given game type. Unknown types are a
// hard failure; invalid rosters or configurations are reported as errors by
// the variant's own factory.
func New(id GameType, players []string, cfg Config) (Game, error) {
	reg, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGame, id)
	}
	return reg.fn(players, cfg)
}

// List returns all registered game types in canonical order.
func List() []GameType {
	out := make([]GameType, 0, len(registry))
	for _, id := range gameOrder {
		if _, ok := registry[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Specs returns the metadata of all registered variants in canonical order.
func Specs() []GameSpec {
	out := make([]GameSpec, 0, len(registry))
	for _, id := range gameOrder {
		if reg, ok := registry[id]; ok {
			out = append(out, reg.spec)
		}
	}
	return out
}

// Known reports whether the game type is registered.
func Known(id GameType) bool {
	_, ok := registry[id]
	return ok
}

// checkRoster rejects duplicate player names; every other roster shape,
// including the degenerate empty and single-player rosters, is accepted.
func checkRoster(players []string) error {
	seen := make(map[string]struct{}, len(players))
	for _, p := range players {
		if p == "" {
			return fmt.Errorf("empty player name")
		}
		if _, dup := seen[p]; dup {
			return fmt.Errorf("duplicate player %q", p)
		}
		seen[p] = struct{}{}
	}
	return nil
}

// checkBet rejects negative bet amounts.
func checkBet(cfg Config) error {
	if cfg.BetAmount.IsNegative() {
		return fmt.Errorf("bet amount must not be negative, got %s", cfg.BetAmount)
	}
	return nil
}
