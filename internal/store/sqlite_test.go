package store

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/MJE43/golf-sidebets-go/internal/games"
)

func newTestDB(t *testing.T) *SQLiteDB {
	t.Helper()
	db, err := NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testRecord(id string) SessionRecord {
	return SessionRecord{
		ID:      id,
		Name:    "saturday game",
		Players: []string{"alice", "bob", "carol", "dave"},
		Configs: map[games.GameType]games.Config{
			games.GameMurph: {Enabled: true, BetAmount: decimal.NewFromInt(5)},
			games.GameWolf:  {Enabled: true, BetAmount: decimal.NewFromInt(3), HolesPerWolf: 2},
		},
	}
}

func TestSessionRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.CreateSession(ctx, testRecord("s1")); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	rec, err := db.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if rec.Name != "saturday game" {
		t.Errorf("expected name 'saturday game', got %q", rec.Name)
	}
	if len(rec.Players) != 4 || rec.Players[0] != "alice" {
		t.Errorf("expected 4 players starting with alice, got %v", rec.Players)
	}
	murph := rec.Configs[games.GameMurph]
	if !murph.Enabled || !murph.BetAmount.Equal(decimal.NewFromInt(5)) {
		t.Errorf("expected enabled murph at bet 5, got %+v", murph)
	}
	if rec.Configs[games.GameWolf].HolesPerWolf != 2 {
		t.Errorf("expected wolf holes_per_wolf 2, got %d", rec.Configs[games.GameWolf].HolesPerWolf)
	}
	if rec.TotalActions != 0 {
		t.Errorf("expected 0 actions, got %d", rec.TotalActions)
	}
	if rec.CreatedAt.IsZero() || rec.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	_, err = db.GetSession(ctx, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDuplicateSession(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.CreateSession(ctx, testRecord("s1")); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if err := db.CreateSession(ctx, testRecord("s1")); !errors.Is(err, ErrDuplicateSession) {
		t.Errorf("expected ErrDuplicateSession, got %v", err)
	}
}

func TestActionAppendAndList(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.CreateSession(ctx, testRecord("s1")); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	murphActions := []games.Action{
		{ID: "m1", Hole: 1, Player: "alice", Result: "made"},
		{ID: "m2", Hole: 3, Player: "bob", Result: "failed"},
	}
	for _, a := range murphActions {
		if err := db.AppendAction(ctx, "s1", games.GameMurph, a); err != nil {
			t.Fatalf("AppendAction failed: %v", err)
		}
	}
	wolfAction := games.Action{ID: "w1", Hole: 1, Wolf: "alice", WolfChoice: "lone", Result: "wolf_wins"}
	if err := db.AppendAction(ctx, "s1", games.GameWolf, wolfAction); err != nil {
		t.Fatalf("AppendAction failed: %v", err)
	}

	logs, err := db.ListActions(ctx, "s1")
	if err != nil {
		t.Fatalf("ListActions failed: %v", err)
	}
	if len(logs[games.GameMurph]) != 2 {
		t.Fatalf("expected 2 murph actions, got %d", len(logs[games.GameMurph]))
	}
	if logs[games.GameMurph][0].ID != "m1" || logs[games.GameMurph][1].ID != "m2" {
		t.Errorf("expected append order m1,m2, got %s,%s",
			logs[games.GameMurph][0].ID, logs[games.GameMurph][1].ID)
	}
	if got := logs[games.GameMurph][1]; got.Hole != 3 || got.Player != "bob" || got.Result != "failed" {
		t.Errorf("expected bob's failed call on hole 3, got %+v", got)
	}
	if len(logs[games.GameWolf]) != 1 {
		t.Fatalf("expected 1 wolf action, got %d", len(logs[games.GameWolf]))
	}
	if got := logs[games.GameWolf][0]; got.WolfChoice != "lone" || got.Result != "wolf_wins" {
		t.Errorf("expected lone wolf win, got %+v", got)
	}

	rec, err := db.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if rec.TotalActions != 3 {
		t.Errorf("expected 3 total actions, got %d", rec.TotalActions)
	}
}

func TestDuplicateAction(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.CreateSession(ctx, testRecord("s1")); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	a := games.Action{ID: "m1", Hole: 1, Player: "alice", Result: "made"}
	if err := db.AppendAction(ctx, "s1", games.GameMurph, a); err != nil {
		t.Fatalf("AppendAction failed: %v", err)
	}
	if err := db.AppendAction(ctx, "s1", games.GameMurph, a); !errors.Is(err, ErrDuplicateAction) {
		t.Errorf("expected ErrDuplicateAction, got %v", err)
	}

	// The same action id under another game is a distinct row.
	if err := db.AppendAction(ctx, "s1", games.GameKP, games.Action{ID: "m1", Hole: 3, Winner: "bob"}); err != nil {
		t.Errorf("expected distinct game to accept the id, got %v", err)
	}
}

func TestAppendActionsBatch(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.CreateSession(ctx, testRecord("s1")); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	batch := []games.Action{
		{ID: "k1", Hole: 3, Winner: "alice"},
		{ID: "k2", Hole: 8, Winner: "bob"},
		{ID: "k3", Hole: 12, Winner: "alice"},
	}
	if err := db.AppendActions(ctx, "s1", games.GameKP, batch); err != nil {
		t.Fatalf("AppendActions failed: %v", err)
	}

	logs, err := db.ListActions(ctx, "s1")
	if err != nil {
		t.Fatalf("ListActions failed: %v", err)
	}
	kps := logs[games.GameKP]
	if len(kps) != 3 {
		t.Fatalf("expected 3 KP actions, got %d", len(kps))
	}
	for i, want := range []string{"k1", "k2", "k3"} {
		if kps[i].ID != want {
			t.Errorf("expected %s at position %d, got %s", want, i, kps[i].ID)
		}
	}

	// A duplicate anywhere in the batch rolls the whole batch back.
	err = db.AppendActions(ctx, "s1", games.GameKP, []games.Action{
		{ID: "k4", Hole: 16, Winner: "bob"},
		{ID: "k2", Hole: 8, Winner: "bob"},
	})
	if !errors.Is(err, ErrDuplicateAction) {
		t.Fatalf("expected ErrDuplicateAction, got %v", err)
	}
	logs, _ = db.ListActions(ctx, "s1")
	if len(logs[games.GameKP]) != 3 {
		t.Errorf("expected rollback to keep 3 actions, got %d", len(logs[games.GameKP]))
	}
}

func TestDeleteAction(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.CreateSession(ctx, testRecord("s1")); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if err := db.AppendAction(ctx, "s1", games.GameMurph, games.Action{ID: "m1", Hole: 1, Player: "alice", Result: "made"}); err != nil {
		t.Fatalf("AppendAction failed: %v", err)
	}

	ok, err := db.DeleteAction(ctx, "s1", games.GameMurph, "m1")
	if err != nil {
		t.Fatalf("DeleteAction failed: %v", err)
	}
	if !ok {
		t.Error("expected deletion to report a removed row")
	}

	ok, err = db.DeleteAction(ctx, "s1", games.GameMurph, "m1")
	if err != nil {
		t.Fatalf("DeleteAction failed: %v", err)
	}
	if ok {
		t.Error("expected second deletion to report no row")
	}
}

func TestDeleteSession(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.CreateSession(ctx, testRecord("s1")); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if err := db.AppendAction(ctx, "s1", games.GameMurph, games.Action{ID: "m1", Hole: 1, Player: "alice", Result: "made"}); err != nil {
		t.Fatalf("AppendAction failed: %v", err)
	}

	if err := db.DeleteSession(ctx, "s1"); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := db.GetSession(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	logs, err := db.ListActions(ctx, "s1")
	if err != nil {
		t.Fatalf("ListActions failed: %v", err)
	}
	if len(logs) != 0 {
		t.Errorf("expected no surviving actions, got %d logs", len(logs))
	}

	if err := db.DeleteSession(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing session, got %v", err)
	}
}

func TestListSessionsOrder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	older := testRecord("older")
	newer := testRecord("newer")
	if err := db.CreateSession(ctx, older); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if err := db.CreateSession(ctx, newer); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	// Recording into the older session bumps it to the front.
	if err := db.AppendAction(ctx, "older", games.GameMurph, games.Action{ID: "m1", Hole: 1, Player: "alice", Result: "made"}); err != nil {
		t.Fatalf("AppendAction failed: %v", err)
	}

	list, err := db.ListSessions(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(list))
	}
	if list[0].ID != "older" {
		t.Errorf("expected recently-updated session first, got %q", list[0].ID)
	}
	if list[0].TotalActions != 1 {
		t.Errorf("expected 1 action on first session, got %d", list[0].TotalActions)
	}
}
