package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/MJE43/golf-sidebets-go/internal/games"
)

// SQLiteDB implements DB on SQLite. Action rows carry the append order in
// an autoincrement column, so a session's logs always reload in the order
// they were recorded.
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (or creates) the database at path and runs migrations.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite is not concurrent for writes

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &SQLiteDB{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteDB) Close() error { return s.db.Close() }

// Migrate creates the schema.
func (s *SQLiteDB) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			players_json TEXT NOT NULL,
			configs_json TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at DESC);`,

		`CREATE TABLE IF NOT EXISTS actions (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			game_type TEXT NOT NULL,
			action_id TEXT NOT NULL,
			hole INTEGER NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			winner TEXT NOT NULL DEFAULT '',
			result TEXT NOT NULL DEFAULT '',
			wolf TEXT NOT NULL DEFAULT '',
			wolf_choice TEXT NOT NULL DEFAULT '',
			partner TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			UNIQUE(session_id, game_type, action_id),
			FOREIGN KEY(session_id) REFERENCES sessions(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_actions_session ON actions(session_id, game_type, seq);`,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, q := range stmts {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return tx.Commit()
}

// --------- Sessions ---------

// CreateSession inserts a session row.
func (s *SQLiteDB) CreateSession(ctx context.Context, rec SessionRecord) error {
	playersJSON, err := json.Marshal(rec.Players)
	if err != nil {
		return fmt.Errorf("encode players: %w", err)
	}
	configsJSON, err := json.Marshal(rec.Configs)
	if err != nil {
		return fmt.Errorf("encode configs: %w", err)
	}

	now := time.Now().UTC()
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions(id, name, players_json, configs_json, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, string(playersJSON), string(configsJSON), createdAt, now)
	if err != nil {
		if isConstraintErr(err) {
			return fmt.Errorf("session %s: %w", rec.ID, ErrDuplicateSession)
		}
		return err
	}
	return nil
}

// GetSession returns the session row including its action count.
func (s *SQLiteDB) GetSession(ctx context.Context, id string) (SessionRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT s.id, s.name, s.players_json, s.configs_json, s.created_at, s.updated_at,
		       COALESCE(a.cnt, 0)
		FROM sessions s
		LEFT JOIN (
			SELECT session_id, COUNT(*) AS cnt
			FROM actions WHERE session_id=? ) a
		ON s.id = a.session_id
		WHERE s.id=?`, id, id)

	rec, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return SessionRecord{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return rec, err
}

// ListSessions returns sessions ordered by last update, newest first.
func (s *SQLiteDB) ListSessions(ctx context.Context, limit, offset int) ([]SessionRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.name, s.players_json, s.configs_json, s.created_at, s.updated_at,
		       COALESCE(a.cnt, 0) AS total_actions
		FROM sessions s
		LEFT JOIN (
			SELECT session_id, COUNT(*) AS cnt
			FROM actions GROUP BY session_id
		) a ON s.id = a.session_id
		ORDER BY s.updated_at DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DeleteSession removes a session and its actions.
func (s *SQLiteDB) DeleteSession(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM actions WHERE session_id=?`, id); err != nil {
		tx.Rollback()
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id=?`, id)
	if err != nil {
		tx.Rollback()
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return err
	}
	if n == 0 {
		tx.Rollback()
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (SessionRecord, error) {
	var rec SessionRecord
	var playersJSON, configsJSON string
	if err := row.Scan(&rec.ID, &rec.Name, &playersJSON, &configsJSON,
		&rec.CreatedAt, &rec.UpdatedAt, &rec.TotalActions); err != nil {
		return SessionRecord{}, err
	}
	if err := json.Unmarshal([]byte(playersJSON), &rec.Players); err != nil {
		return SessionRecord{}, fmt.Errorf("decode players: %w", err)
	}
	if err := json.Unmarshal([]byte(configsJSON), &rec.Configs); err != nil {
		return SessionRecord{}, fmt.Errorf("decode configs: %w", err)
	}
	return rec, nil
}

// --------- Actions ---------

// AppendAction stores one action under (session, game). Idempotency key is
// (session_id, game_type, action_id).
func (s *SQLiteDB) AppendAction(ctx context.Context, sessionID string, gt games.GameType, a games.Action) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO actions(
			session_id, game_type, action_id, hole,
			player, winner, result, wolf, wolf_choice, partner, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, string(gt), a.ID, a.Hole,
		a.Player, a.Winner, a.Result, a.Wolf, a.WolfChoice, a.Partner, a.CreatedAt.UTC())
	if err != nil {
		if isConstraintErr(err) {
			return fmt.Errorf("action %s: %w", a.ID, ErrDuplicateAction)
		}
		return err
	}
	s.touch(ctx, sessionID)
	return nil
}

// AppendActions stores a batch of actions for one game in a single
// transaction, preserving slice order.
func (s *SQLiteDB) AppendActions(ctx context.Context, sessionID string, gt games.GameType, actions []games.Action) error {
	if len(actions) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO actions(
			session_id, game_type, action_id, hole,
			player, winner, result, wolf, wolf_choice, partner, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range actions {
		if _, err := stmt.ExecContext(ctx, sessionID, string(gt), a.ID, a.Hole,
			a.Player, a.Winner, a.Result, a.Wolf, a.WolfChoice, a.Partner, a.CreatedAt.UTC()); err != nil {
			if isConstraintErr(err) {
				return fmt.Errorf("action %s: %w", a.ID, ErrDuplicateAction)
			}
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.touch(ctx, sessionID)
	return nil
}

// DeleteAction removes one action by id. The bool reports whether a row
// was deleted.
func (s *SQLiteDB) DeleteAction(ctx context.Context, sessionID string, gt games.GameType, actionID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM actions WHERE session_id=? AND game_type=? AND action_id=?`,
		sessionID, string(gt), actionID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		s.touch(ctx, sessionID)
	}
	return n > 0, nil
}

// ListActions returns every action log of the session keyed by game type,
// each in append order.
func (s *SQLiteDB) ListActions(ctx context.Context, sessionID string) (map[games.GameType][]games.Action, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT game_type, action_id, hole, player, winner, result, wolf, wolf_choice, partner, created_at
		FROM actions
		WHERE session_id=?
		ORDER BY seq ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[games.GameType][]games.Action)
	for rows.Next() {
		var gt string
		var a games.Action
		if err := rows.Scan(&gt, &a.ID, &a.Hole, &a.Player, &a.Winner,
			&a.Result, &a.Wolf, &a.WolfChoice, &a.Partner, &a.CreatedAt); err != nil {
			return nil, err
		}
		out[games.GameType(gt)] = append(out[games.GameType(gt)], a)
	}
	return out, rows.Err()
}

// touch bumps the session's updated_at.
func (s *SQLiteDB) touch(ctx context.Context, sessionID string) {
	_, _ = s.db.ExecContext(ctx, `UPDATE sessions SET updated_at=? WHERE id=?`,
		time.Now().UTC(), sessionID)
}

func isConstraintErr(err error) bool {
	// modernc sqlite reports violations with messages containing
	// "constraint failed". Use substring match.
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "constraint failed") || strings.Contains(msg, "unique constraint")
}
