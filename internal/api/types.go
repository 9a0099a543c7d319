package api

import (
	"github.com/MJE43/golf-sidebets-go/internal/games"
	"github.com/MJE43/golf-sidebets-go/internal/store"
)

// APIError represents a structured error response with context
type APIError struct {
	Type      string                 `json:"type"`
	Message   string                 `json:"message"`
	Context   map[string]interface{} `json:"context,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp string                 `json:"timestamp,omitempty"`
}

// Error implements the error interface
func (e APIError) Error() string {
	return e.Message
}

// Error types with proper categorization
const (
	// Input validation errors
	ErrTypeValidation    = "validation_error"
	ErrTypeInvalidConfig = "invalid_config"

	// Game-related errors
	ErrTypeGameNotFound   = "game_not_found"
	ErrTypeGameNotEnabled = "game_not_enabled"

	// Storage errors
	ErrTypeSessionNotFound = "session_not_found"
	ErrTypeDuplicate       = "duplicate_entry"

	// System errors
	ErrTypeTimeout            = "timeout"
	ErrTypeInternal           = "internal_error"
	ErrTypeServiceUnavailable = "service_unavailable"
)

// ErrorCategory represents error categories for monitoring
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryGame       ErrorCategory = "game"
	CategoryStorage    ErrorCategory = "storage"
	CategorySystem     ErrorCategory = "system"
	CategoryTimeout    ErrorCategory = "timeout"
)

// GetErrorCategory returns the category for an error type
func GetErrorCategory(errType string) ErrorCategory {
	switch errType {
	case ErrTypeValidation, ErrTypeInvalidConfig:
		return CategoryValidation
	case ErrTypeGameNotFound, ErrTypeGameNotEnabled:
		return CategoryGame
	case ErrTypeSessionNotFound, ErrTypeDuplicate:
		return CategoryStorage
	case ErrTypeTimeout:
		return CategoryTimeout
	default:
		return CategorySystem
	}
}

// VersionInfo contains service version information
type VersionInfo struct {
	ServiceVersion string `json:"service_version"`
	GitCommit      string `json:"git_commit,omitempty"`
	BuildTime      string `json:"build_time,omitempty"`
}

// CreateSessionRequest starts a new scoring session
type CreateSessionRequest struct {
	Name    string                          `json:"name"`
	Players []string                        `json:"players"`
	Configs map[games.GameType]games.Config `json:"configs"`
}

// SessionResponse wraps a single stored session
type SessionResponse struct {
	Session        store.SessionRecord `json:"session"`
	ServiceVersion string              `json:"service_version"`
}

// SessionListResponse lists stored sessions, most recently updated first
type SessionListResponse struct {
	Sessions       []store.SessionRecord `json:"sessions"`
	ServiceVersion string                `json:"service_version"`
}

// RecordActionRequest appends one action to a session's game log
type RecordActionRequest struct {
	Game   games.GameType `json:"game"`
	Action games.Action   `json:"action"`
}

// RecordActionResponse reports whether the action was accepted. A rejected
// action is not an HTTP error: the log is simply left untouched and the
// reason explains which validation it failed.
type RecordActionResponse struct {
	Accepted       bool                `json:"accepted"`
	Reason         string              `json:"reason,omitempty"`
	Action         *games.Action       `json:"action,omitempty"`
	ServiceVersion string              `json:"service_version"`
	Echo           RecordActionRequest `json:"echo"`
}

// RemoveActionResponse reports whether a logged action was deleted
type RemoveActionResponse struct {
	Removed        bool   `json:"removed"`
	ServiceVersion string `json:"service_version"`
}

// ActionsResponse returns a session's action logs keyed by game type
type ActionsResponse struct {
	SessionID      string                            `json:"session_id"`
	Actions        map[games.GameType][]games.Action `json:"actions"`
	ServiceVersion string                            `json:"service_version"`
}

// SummaryResponse carries the settlement of every enabled game plus the
// combined per-player totals
type SummaryResponse struct {
	SessionID      string                              `json:"session_id"`
	Games          map[games.GameType]games.BalanceMap `json:"games"`
	Totals         games.BalanceMap                    `json:"totals"`
	ServiceVersion string                              `json:"service_version"`
}

// StatsResponse carries one game's variant-specific statistics
type StatsResponse struct {
	SessionID      string         `json:"session_id"`
	Game           games.GameType `json:"game"`
	Stats          interface{}    `json:"stats"`
	ServiceVersion string         `json:"service_version"`
}

// GamesResponse represents the games metadata response
type GamesResponse struct {
	Games          []games.GameSpec `json:"games"`
	ServiceVersion string           `json:"service_version"`
}

// ImportResponse reports the outcome of a session import
type ImportResponse struct {
	SessionID       string `json:"session_id"`
	ActionsImported int    `json:"actions_imported"`
	ServiceVersion  string `json:"service_version"`
}
