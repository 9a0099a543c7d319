package games

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

func mustGame(t *testing.T, id GameType, players []string, cfg Config) Game {
	t.Helper()
	g, err := New(id, players, cfg)
	if err != nil {
		t.Fatalf("New(%s) failed: %v", id, err)
	}
	return g
}

// checkBalances compares a settlement against expected whole amounts.
func checkBalances(t *testing.T, got BalanceMap, want map[string]int64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d balances, got %d", len(want), len(got))
	}
	for p, amt := range want {
		if !got[p].Equal(dec(amt)) {
			t.Errorf("expected %s balance %d, got %s", p, amt, got[p])
		}
	}
}

func TestGameRegistry(t *testing.T) {
	roster := map[GameType][]string{
		GameMurph: {"alice", "bob"},
		GameSkins: {"alice", "bob", "carol"},
		GameKP:    {"alice", "bob"},
		GameSnake: {"alice", "bob"},
		GameWolf:  {"alice", "bob", "carol", "dave"},
	}

	for _, id := range List() {
		g, err := New(id, roster[id], Config{BetAmount: dec(1)})
		if err != nil {
			t.Errorf("New(%s) failed: %v", id, err)
			continue
		}
		if got := g.Spec().ID; got != id {
			t.Errorf("expected spec ID %q, got %q", id, got)
		}
	}
}

func TestUnknownGameType(t *testing.T) {
	g, err := New("baccarat", []string{"alice", "bob"}, Config{})
	if err == nil {
		t.Fatal("expected error for unknown game type")
	}
	if !errors.Is(err, ErrUnknownGame) {
		t.Errorf("expected ErrUnknownGame, got %v", err)
	}
	if g != nil {
		t.Errorf("expected nil game, got %T", g)
	}
}

func TestListOrder(t *testing.T) {
	want := []GameType{GameMurph, GameSkins, GameKP, GameSnake, GameWolf}
	got := List()
	if len(got) != len(want) {
		t.Fatalf("expected %d game types, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %q at position %d, got %q", want[i], i, got[i])
		}
	}
}

func TestRosterErrors(t *testing.T) {
	if _, err := New(GameMurph, []string{"alice", "alice"}, Config{BetAmount: dec(1)}); err == nil {
		t.Error("expected error for duplicate player")
	}
	if _, err := New(GameMurph, []string{"alice", ""}, Config{BetAmount: dec(1)}); err == nil {
		t.Error("expected error for empty player name")
	}
	if _, err := New(GameMurph, []string{"alice", "bob"}, Config{BetAmount: dec(-1)}); err == nil {
		t.Error("expected error for negative bet amount")
	}
}

// Every variant must settle to exactly zero over two or more players, for
// any valid log.
func TestZeroSumInvariant(t *testing.T) {
	players := []string{"alice", "bob", "carol", "dave"}
	cfg := Config{BetAmount: dec(7)}

	cases := []struct {
		name    string
		id      GameType
		cfg     Config
		actions []Action
	}{
		{
			name: "murph mixed calls",
			id:   GameMurph,
			cfg:  cfg,
			actions: []Action{
				{Hole: 1, Player: "alice", Result: ResultSuccess},
				{Hole: 2, Player: "bob", Result: ResultFailed},
				{Hole: 3, Player: "carol", Result: ResultMade},
				{Hole: 18, Player: "dave", Result: ResultFail},
			},
		},
		{
			name: "skins individual with carryovers",
			id:   GameSkins,
			cfg:  cfg,
			actions: []Action{
				{Hole: 1, Winner: SkinsCarryover},
				{Hole: 2, Winner: SkinsCarryover},
				{Hole: 3, Winner: "bob"},
				{Hole: 4, Winner: "alice"},
				{Hole: 5, Winner: SkinsCarryover},
			},
		},
		{
			name: "skins team mode",
			id:   GameSkins,
			cfg: Config{
				BetAmount: dec(7),
				Teams:     [][]string{{"alice", "bob"}, {"carol", "dave"}},
			},
			actions: []Action{
				{Hole: 1, Winner: TeamOne},
				{Hole: 2, Winner: SkinsCarryover},
				{Hole: 3, Winner: TeamTwo},
			},
		},
		{
			name: "kp winners",
			id:   GameKP,
			cfg:  cfg,
			actions: []Action{
				{Hole: 3, Winner: "carol"},
				{Hole: 8, Winner: "carol"},
				{Hole: 12, Winner: "dave"},
			},
		},
		{
			name: "snake pot",
			id:   GameSnake,
			cfg:  cfg,
			actions: []Action{
				{Hole: 2, Player: "alice"},
				{Hole: 9, Player: "bob"},
				{Hole: 17, Player: "alice"},
			},
		},
		{
			name: "wolf all outcomes",
			id:   GameWolf,
			cfg:  cfg,
			actions: []Action{
				{Hole: 1, Wolf: "alice", WolfChoice: ChoiceLone, Result: ResultWolfWins},
				{Hole: 2, Wolf: "bob", WolfChoice: ChoiceLone, Result: ResultPartnersWin},
				{Hole: 3, Wolf: "carol", WolfChoice: ChoicePartner, Partner: "alice", Result: ResultWolfWins},
				{Hole: 4, Wolf: "dave", WolfChoice: ChoicePartner, Partner: "bob", Result: ResultPartnersWin},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := mustGame(t, tc.id, players, tc.cfg)
			for i, a := range tc.actions {
				if !g.AddAction(a) {
					t.Fatalf("action %d rejected", i)
				}
			}
			sum := g.CalculateSummary().Sum()
			if !sum.IsZero() {
				t.Errorf("expected zero sum, got %s", sum)
			}
		})
	}
}

// Settlement is a pure fold over the log: reading it twice must yield the
// same balances, with no counter advanced by the first read.
func TestSummaryIdempotence(t *testing.T) {
	g := mustGame(t, GameSkins, []string{"alice", "bob", "carol"}, Config{BetAmount: dec(2)})
	g.AddAction(Action{Hole: 1, Winner: SkinsCarryover})
	g.AddAction(Action{Hole: 2, Winner: "bob"})
	g.AddAction(Action{Hole: 3, Winner: SkinsCarryover})

	first := g.CalculateSummary()
	second := g.CalculateSummary()
	if len(first) != len(second) {
		t.Fatalf("expected %d balances on re-read, got %d", len(first), len(second))
	}
	for p, v := range first {
		if !second[p].Equal(v) {
			t.Errorf("expected %s balance %s on re-read, got %s", p, v, second[p])
		}
	}
}

func TestRejectedActionsLeaveLogUntouched(t *testing.T) {
	players := []string{"alice", "bob", "carol", "dave"}
	cases := []struct {
		name string
		id   GameType
		a    Action
	}{
		{"hole zero", GameMurph, Action{Hole: 0, Player: "alice", Result: ResultMade}},
		{"hole nineteen", GameMurph, Action{Hole: 19, Player: "alice", Result: ResultMade}},
		{"unknown caller", GameMurph, Action{Hole: 1, Player: "mallory", Result: ResultMade}},
		{"unknown winner", GameKP, Action{Hole: 3, Winner: "mallory"}},
		{"unknown snake", GameSnake, Action{Hole: 3, Player: "mallory"}},
		{"skins hole zero", GameSkins, Action{Hole: 0, Winner: "alice"}},
		{"wolf out of turn", GameWolf, Action{Hole: 1, Wolf: "bob", WolfChoice: ChoiceLone, Result: ResultWolfWins}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := mustGame(t, tc.id, players, Config{BetAmount: dec(1)})
			if g.ValidateAction(tc.a) {
				t.Error("expected validation to fail")
			}
			if g.AddAction(tc.a) {
				t.Error("expected AddAction to reject")
			}
			if n := len(g.Actions()); n != 0 {
				t.Errorf("expected empty log, got %d actions", n)
			}
		})
	}
}

func TestActionStamping(t *testing.T) {
	g := mustGame(t, GameKP, []string{"alice", "bob"}, Config{BetAmount: dec(1)})

	if !g.AddAction(Action{Hole: 3, Winner: "alice"}) {
		t.Fatal("expected action to be accepted")
	}
	stamped := g.Actions()[0]
	if stamped.ID == "" {
		t.Error("expected ID to be stamped")
	}
	if stamped.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be stamped")
	}

	// A restored action keeps its identity.
	if !g.AddAction(Action{ID: "kp-7", Hole: 7, Winner: "bob"}) {
		t.Fatal("expected action to be accepted")
	}
	if got := g.Actions()[1].ID; got != "kp-7" {
		t.Errorf("expected preserved ID 'kp-7', got %q", got)
	}
}

func TestRemoveAction(t *testing.T) {
	g := mustGame(t, GameMurph, []string{"alice", "bob"}, Config{BetAmount: dec(5)})
	g.AddAction(Action{Hole: 1, Player: "alice", Result: ResultMade})
	g.AddAction(Action{Hole: 2, Player: "bob", Result: ResultFailed})

	id := g.Actions()[0].ID
	if !g.RemoveAction(id) {
		t.Fatal("expected removal to succeed")
	}
	if g.RemoveAction(id) {
		t.Error("expected second removal to fail")
	}
	if g.RemoveAction("missing") {
		t.Error("expected removal of unknown id to fail")
	}

	rest := g.Actions()
	if len(rest) != 1 {
		t.Fatalf("expected 1 action after removal, got %d", len(rest))
	}
	if rest[0].Hole != 2 {
		t.Errorf("expected remaining action on hole 2, got %d", rest[0].Hole)
	}

	// Settlement reflects the shrunken log.
	checkBalances(t, g.CalculateSummary(), map[string]int64{"alice": 5, "bob": -5})
}

func TestBalanceMapAddInto(t *testing.T) {
	total := BalanceMap{"alice": dec(3), "bob": dec(-3)}
	total.AddInto(BalanceMap{"bob": dec(1), "carol": dec(-1)})

	checkBalances(t, total, map[string]int64{"alice": 3, "bob": -2, "carol": -1})
}
