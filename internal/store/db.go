package store

import (
	"context"
	"errors"
	"time"

	"github.com/MJE43/golf-sidebets-go/internal/games"
)

// ErrNotFound is returned when a session id has no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicateAction is returned when an action id is already stored for
// the same session and game.
var ErrDuplicateAction = errors.New("duplicate action")

// ErrDuplicateSession is returned when a session id is already stored.
var ErrDuplicateSession = errors.New("duplicate session")

// SessionRecord is the persisted shape of a session: identity, roster, and
// the full per-variant configuration set. Settlement is never stored; it is
// recomputed from the action log.
type SessionRecord struct {
	ID           string                          `json:"id"`
	Name         string                          `json:"name"`
	Players      []string                        `json:"players"`
	Configs      map[games.GameType]games.Config `json:"configs"`
	CreatedAt    time.Time                       `json:"created_at"`
	UpdatedAt    time.Time                       `json:"updated_at"`
	TotalActions int64                           `json:"total_actions"`
}

// DB is the persistence interface for sessions and their action logs.
type DB interface {
	Close() error
	Migrate(ctx context.Context) error

	CreateSession(ctx context.Context, rec SessionRecord) error
	GetSession(ctx context.Context, id string) (SessionRecord, error)
	ListSessions(ctx context.Context, limit, offset int) ([]SessionRecord, error)
	DeleteSession(ctx context.Context, id string) error

	AppendAction(ctx context.Context, sessionID string, gt games.GameType, a games.Action) error
	AppendActions(ctx context.Context, sessionID string, gt games.GameType, actions []games.Action) error
	DeleteAction(ctx context.Context, sessionID string, gt games.GameType, actionID string) (bool, error)
	ListActions(ctx context.Context, sessionID string) (map[games.GameType][]games.Action, error)
}
