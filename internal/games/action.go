package games

import (
	"time"

	"github.com/google/uuid"
)

// Result tokens. Murph accepts two spellings per outcome; both are part of
// the interface and neither is normalized away on input.
const (
	ResultSuccess = "success"
	ResultMade    = "made"
	ResultFail    = "fail"
	ResultFailed  = "failed"

	ResultWolfWins    = "wolf_wins"
	ResultPartnersWin = "partners_win"
)

// Wolf choice tokens.
const (
	ChoiceLone    = "lone"
	ChoicePartner = "partner"
)

// SkinsCarryover is the Skins winner sentinel for an undecided hole.
const SkinsCarryover = "carryover"

// Skins team sentinels for four-player team mode.
const (
	TeamOne = "team1"
	TeamTwo = "team2"
)

// Holes per round.
const (
	FirstHole = 1
	LastHole  = 18
)

// Action is one recorded event for one hole of one variant. Which fields are
// mandatory depends on the variant; Hole always is. Actions are immutable
// once appended and are removed by ID only.
type Action struct {
	ID         string    `json:"id"`
	Hole       int       `json:"hole"`
	Player     string    `json:"player,omitempty"`
	Winner     string    `json:"winner,omitempty"`
	Result     string    `json:"result,omitempty"`
	Wolf       string    `json:"wolf,omitempty"`
	WolfChoice string    `json:"wolf_choice,omitempty"`
	Partner    string    `json:"partner,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// validHole reports whether h is a playable hole number.
func validHole(h int) bool {
	return h >= FirstHole && h <= LastHole
}

// actionLog is the append-only event sequence backing every variant.
type actionLog struct {
	actions []Action
}

// append stamps the action's identity and timestamp if absent and adds it to
// the log. Existing stamps are preserved so a restored action keeps its
// identity across export and import.
func (l *actionLog) append(a Action) Action {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	l.actions = append(l.actions, a)
	return a
}

// remove deletes the action with the given id, preserving order.
func (l *actionLog) remove(id string) bool {
	for i, a := range l.actions {
		if a.ID == id {
			l.actions = append(l.actions[:i], l.actions[i+1:]...)
			return true
		}
	}
	return false
}

// list returns a copy of the log in append order.
func (l *actionLog) list() []Action {
	out := make([]Action, len(l.actions))
	copy(out, l.actions)
	return out
}

// contains reports membership of name in players.
func contains(players []string, name string) bool {
	for _, p := range players {
		if p == name {
			return true
		}
	}
	return false
}
