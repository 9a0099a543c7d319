package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MJE43/golf-sidebets-go/internal/games"
	"github.com/MJE43/golf-sidebets-go/internal/session"
	"github.com/MJE43/golf-sidebets-go/internal/store"
)

// loadSession rebuilds a session from its stored record and action logs by
// replaying every log through the variants' own validation.
func (s *Server) loadSession(ctx context.Context, id string) (*session.Session, error) {
	rec, err := s.db.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	logs, err := s.db.ListActions(ctx, id)
	if err != nil {
		return nil, err
	}
	sess, err := session.FromDocument(session.Document{
		ID:        rec.ID,
		Name:      rec.Name,
		CreatedAt: rec.CreatedAt,
		Players:   rec.Players,
		Configs:   rec.Configs,
		Actions:   logs,
	})
	if err != nil {
		return nil, fmt.Errorf("rebuild session %s: %w", id, err)
	}
	return sess, nil
}

// writeSessionError maps a session load failure onto an HTTP response
func (s *Server) writeSessionError(w http.ResponseWriter, r *http.Request, sessionID string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, r, http.StatusNotFound, ErrTypeSessionNotFound,
			fmt.Sprintf("Session '%s' not found", sessionID), map[string]interface{}{
				"session_id": sessionID,
			})
		return
	}
	s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, err.Error(), map[string]interface{}{
		"session_id": sessionID,
	})
}

// handleCreateSession starts a new session with the given roster and game
// configuration set
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest

	// Parse JSON request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "Invalid JSON format", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	// Validate request
	if err := ValidateCreateSessionRequest(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, err.Error(), nil)
		return
	}

	// Construct the session; the variants validate their own configuration
	sess, err := session.New(req.Name, req.Players, req.Configs)
	if err != nil {
		if errors.Is(err, games.ErrUnknownGame) {
			s.writeError(w, r, http.StatusBadRequest, ErrTypeGameNotFound, err.Error(), map[string]interface{}{
				"available_games": games.List(),
			})
			return
		}
		s.writeError(w, r, http.StatusBadRequest, ErrTypeInvalidConfig, err.Error(), nil)
		return
	}

	if err := s.db.CreateSession(r.Context(), store.SessionRecord{
		ID:        sess.ID,
		Name:      sess.Name,
		Players:   sess.Players,
		Configs:   sess.Configs(),
		CreatedAt: sess.CreatedAt,
	}); err != nil {
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, err.Error(), nil)
		return
	}

	// Re-read for the canonical stored timestamps
	rec, err := s.db.GetSession(r.Context(), sess.ID)
	if err != nil {
		s.writeSessionError(w, r, sess.ID, err)
		return
	}

	s.logger.Info().
		Str("session_id", sess.ID).
		Int("players", len(sess.Players)).
		Int("games_enabled", len(sess.Enabled())).
		Msg("session created")

	s.writeJSON(w, http.StatusCreated, SessionResponse{
		Session:        rec,
		ServiceVersion: ServiceVersion,
	})
}

// handleListSessions returns stored sessions, most recently updated first
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	sessions, err := s.db.ListSessions(r.Context(), limit, offset)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, err.Error(), nil)
		return
	}
	if sessions == nil {
		sessions = []store.SessionRecord{}
	}

	s.writeJSON(w, http.StatusOK, SessionListResponse{
		Sessions:       sessions,
		ServiceVersion: ServiceVersion,
	})
}

// handleGetSession returns one stored session
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	rec, err := s.db.GetSession(r.Context(), sessionID)
	if err != nil {
		s.writeSessionError(w, r, sessionID, err)
		return
	}

	s.writeJSON(w, http.StatusOK, SessionResponse{
		Session:        rec,
		ServiceVersion: ServiceVersion,
	})
}

// handleDeleteSession removes a session and its action logs
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := s.db.DeleteSession(r.Context(), sessionID); err != nil {
		s.writeSessionError(w, r, sessionID, err)
		return
	}

	s.logger.Info().Str("session_id", sessionID).Msg("session deleted")

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"deleted":         true,
		"session_id":      sessionID,
		"service_version": ServiceVersion,
	})
}

// handleRecordAction validates an action against the named game and appends
// it to the session's log. An action the game refuses is reported with
// accepted=false, not an HTTP error; only unknown games and sessions are.
func (s *Server) handleRecordAction(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req RecordActionRequest

	// Parse JSON request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "Invalid JSON format", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	// Validate request
	if err := ValidateRecordActionRequest(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, err.Error(), nil)
		return
	}

	if !games.Known(req.Game) {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeGameNotFound,
			fmt.Sprintf("Game '%s' not found", req.Game), map[string]interface{}{
				"available_games": games.List(),
			})
		return
	}

	sess, err := s.loadSession(r.Context(), sessionID)
	if err != nil {
		s.writeSessionError(w, r, sessionID, err)
		return
	}

	stamped, accepted, err := sess.Record(req.Game, req.Action)
	if err != nil {
		// The game exists but this session does not play it
		s.writeError(w, r, http.StatusBadRequest, ErrTypeGameNotEnabled, err.Error(), map[string]interface{}{
			"enabled_games": sess.Enabled(),
		})
		return
	}

	if !accepted {
		s.logger.Info().
			Str("session_id", sessionID).
			Str("game", string(req.Game)).
			Int("hole", req.Action.Hole).
			Msg("action rejected")

		s.writeJSON(w, http.StatusOK, RecordActionResponse{
			Accepted:       false,
			Reason:         fmt.Sprintf("action failed %s validation", req.Game),
			ServiceVersion: ServiceVersion,
			Echo:           req,
		})
		return
	}

	if err := s.db.AppendAction(r.Context(), sessionID, req.Game, stamped); err != nil {
		if errors.Is(err, store.ErrDuplicateAction) {
			s.writeError(w, r, http.StatusConflict, ErrTypeDuplicate, err.Error(), map[string]interface{}{
				"action_id": stamped.ID,
			})
			return
		}
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, err.Error(), nil)
		return
	}

	s.logger.Info().
		Str("session_id", sessionID).
		Str("game", string(req.Game)).
		Str("action_id", stamped.ID).
		Int("hole", stamped.Hole).
		Msg("action recorded")

	s.writeJSON(w, http.StatusOK, RecordActionResponse{
		Accepted:       true,
		Action:         &stamped,
		ServiceVersion: ServiceVersion,
		Echo:           req,
	})
}

// handleRemoveAction deletes one logged action by id. Removing an id that
// was never logged reports removed=false.
func (s *Server) handleRemoveAction(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	actionID := chi.URLParam(r, "actionID")

	gt := games.GameType(r.URL.Query().Get("game"))
	if gt == "" {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "game query parameter is required", nil)
		return
	}
	if !games.Known(gt) {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeGameNotFound,
			fmt.Sprintf("Game '%s' not found", gt), map[string]interface{}{
				"available_games": games.List(),
			})
		return
	}

	if _, err := s.db.GetSession(r.Context(), sessionID); err != nil {
		s.writeSessionError(w, r, sessionID, err)
		return
	}

	removed, err := s.db.DeleteAction(r.Context(), sessionID, gt, actionID)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, err.Error(), nil)
		return
	}

	if removed {
		s.logger.Info().
			Str("session_id", sessionID).
			Str("game", string(gt)).
			Str("action_id", actionID).
			Msg("action removed")
	}

	s.writeJSON(w, http.StatusOK, RemoveActionResponse{
		Removed:        removed,
		ServiceVersion: ServiceVersion,
	})
}

// handleListActions returns the session's action logs, optionally filtered
// to one game
func (s *Server) handleListActions(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if _, err := s.db.GetSession(r.Context(), sessionID); err != nil {
		s.writeSessionError(w, r, sessionID, err)
		return
	}

	logs, err := s.db.ListActions(r.Context(), sessionID)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, err.Error(), nil)
		return
	}

	if filter := games.GameType(r.URL.Query().Get("game")); filter != "" {
		if !games.Known(filter) {
			s.writeError(w, r, http.StatusBadRequest, ErrTypeGameNotFound,
				fmt.Sprintf("Game '%s' not found", filter), map[string]interface{}{
					"available_games": games.List(),
				})
			return
		}
		filtered := make(map[games.GameType][]games.Action, 1)
		if log, ok := logs[filter]; ok {
			filtered[filter] = log
		}
		logs = filtered
	}

	s.writeJSON(w, http.StatusOK, ActionsResponse{
		SessionID:      sessionID,
		Actions:        logs,
		ServiceVersion: ServiceVersion,
	})
}

// handleSummary settles every enabled game and combines the results into
// per-player totals
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, err := s.loadSession(r.Context(), sessionID)
	if err != nil {
		s.writeSessionError(w, r, sessionID, err)
		return
	}

	s.writeJSON(w, http.StatusOK, SummaryResponse{
		SessionID:      sessionID,
		Games:          sess.Summaries(),
		Totals:         sess.Totals(),
		ServiceVersion: ServiceVersion,
	})
}

// handleStats returns one game's variant-specific statistics
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	gt := games.GameType(chi.URLParam(r, "game"))

	if !games.Known(gt) {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeGameNotFound,
			fmt.Sprintf("Game '%s' not found", gt), map[string]interface{}{
				"available_games": games.List(),
			})
		return
	}

	sess, err := s.loadSession(r.Context(), sessionID)
	if err != nil {
		s.writeSessionError(w, r, sessionID, err)
		return
	}

	stats, err := sess.Stats(gt)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeGameNotEnabled, err.Error(), map[string]interface{}{
			"enabled_games": sess.Enabled(),
		})
		return
	}

	s.writeJSON(w, http.StatusOK, StatsResponse{
		SessionID:      sessionID,
		Game:           gt,
		Stats:          stats,
		ServiceVersion: ServiceVersion,
	})
}

// handleExportSession snapshots the session as a portable document
func (s *Server) handleExportSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, err := s.loadSession(r.Context(), sessionID)
	if err != nil {
		s.writeSessionError(w, r, sessionID, err)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sessionID+".json"))
	s.writeJSON(w, http.StatusOK, sess.Export())
}

// handleImportSession restores a session from an exported document. The
// document's logs are replayed through game validation; a document this
// configuration could not have produced is rejected.
func (s *Server) handleImportSession(w http.ResponseWriter, r *http.Request) {
	var doc session.Document

	// Parse JSON request
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "Invalid JSON format", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	sess, err := session.FromDocument(doc)
	if err != nil {
		if errors.Is(err, games.ErrUnknownGame) {
			s.writeError(w, r, http.StatusBadRequest, ErrTypeGameNotFound, err.Error(), map[string]interface{}{
				"available_games": games.List(),
			})
			return
		}
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation,
			fmt.Sprintf("import rejected: %v", err), nil)
		return
	}

	if err := s.db.CreateSession(r.Context(), store.SessionRecord{
		ID:        sess.ID,
		Name:      sess.Name,
		Players:   sess.Players,
		Configs:   sess.Configs(),
		CreatedAt: sess.CreatedAt,
	}); err != nil {
		if errors.Is(err, store.ErrDuplicateSession) {
			s.writeError(w, r, http.StatusConflict, ErrTypeDuplicate, err.Error(), map[string]interface{}{
				"session_id": sess.ID,
			})
			return
		}
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, err.Error(), nil)
		return
	}

	imported := 0
	for _, gt := range sess.Enabled() {
		log, err := sess.Actions(gt)
		if err != nil {
			continue
		}
		if err := s.db.AppendActions(r.Context(), sess.ID, gt, log); err != nil {
			// Roll back the half-imported session before reporting failure
			_ = s.db.DeleteSession(r.Context(), sess.ID)
			s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, err.Error(), map[string]interface{}{
				"session_id": sess.ID,
				"game":       gt,
			})
			return
		}
		imported += len(log)
	}

	s.logger.Info().
		Str("session_id", sess.ID).
		Int("actions_imported", imported).
		Msg("session imported")

	s.writeJSON(w, http.StatusCreated, ImportResponse{
		SessionID:       sess.ID,
		ActionsImported: imported,
		ServiceVersion:  ServiceVersion,
	})
}

// handleListGames returns available games with their roster bounds
func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	gameSpecs := games.Specs()

	s.logger.Debug().Int("total_games", len(gameSpecs)).Msg("games listed")

	s.writeJSON(w, http.StatusOK, GamesResponse{
		Games:          gameSpecs,
		ServiceVersion: ServiceVersion,
	})
}
