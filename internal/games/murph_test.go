package games

import "testing"

func TestMurphSpec(t *testing.T) {
	g := mustGame(t, GameMurph, []string{"alice", "bob"}, Config{BetAmount: dec(1)})

	spec := g.Spec()
	if spec.ID != GameMurph {
		t.Errorf("expected ID 'murph', got '%s'", spec.ID)
	}
	if spec.Name != "Murph" {
		t.Errorf("expected name 'Murph', got '%s'", spec.Name)
	}
}

func TestMurphMadeCall(t *testing.T) {
	players := []string{"alice", "bob", "carol", "dave"}
	g := mustGame(t, GameMurph, players, Config{BetAmount: dec(5)})

	if !g.AddAction(Action{Hole: 7, Player: "alice", Result: ResultSuccess}) {
		t.Fatal("expected call to be accepted")
	}

	// Made call: caller collects the bet from each of the three others.
	checkBalances(t, g.CalculateSummary(), map[string]int64{
		"alice": 15,
		"bob":   -5,
		"carol": -5,
		"dave":  -5,
	})
}

func TestMurphMissedCall(t *testing.T) {
	players := []string{"alice", "bob", "carol", "dave"}
	g := mustGame(t, GameMurph, players, Config{BetAmount: dec(5)})

	g.AddAction(Action{Hole: 7, Player: "alice", Result: ResultFailed})

	checkBalances(t, g.CalculateSummary(), map[string]int64{
		"alice": -15,
		"bob":   5,
		"carol": 5,
		"dave":  5,
	})
}

// Both spellings of each outcome settle identically.
func TestMurphResultSynonyms(t *testing.T) {
	players := []string{"alice", "bob"}
	pairs := [][2]string{
		{ResultSuccess, ResultMade},
		{ResultFail, ResultFailed},
	}

	for _, pair := range pairs {
		a := mustGame(t, GameMurph, players, Config{BetAmount: dec(3)})
		b := mustGame(t, GameMurph, players, Config{BetAmount: dec(3)})
		a.AddAction(Action{Hole: 1, Player: "alice", Result: pair[0]})
		b.AddAction(Action{Hole: 1, Player: "alice", Result: pair[1]})

		left, right := a.CalculateSummary(), b.CalculateSummary()
		for _, p := range players {
			if !left[p].Equal(right[p]) {
				t.Errorf("%s vs %s: expected %s balance %s, got %s",
					pair[0], pair[1], p, left[p], right[p])
			}
		}
	}
}

func TestMurphRejectsUnknownResult(t *testing.T) {
	g := mustGame(t, GameMurph, []string{"alice", "bob"}, Config{BetAmount: dec(1)})

	for _, result := range []string{"", "birdie", "SUCCESS", ResultWolfWins} {
		if g.AddAction(Action{Hole: 1, Player: "alice", Result: result}) {
			t.Errorf("expected result %q to be rejected", result)
		}
	}
	if n := len(g.Actions()); n != 0 {
		t.Errorf("expected empty log, got %d actions", n)
	}
}

func TestMurphStats(t *testing.T) {
	g := mustGame(t, GameMurph, []string{"alice", "bob", "carol"}, Config{BetAmount: dec(2)})
	g.AddAction(Action{Hole: 1, Player: "alice", Result: ResultMade})
	g.AddAction(Action{Hole: 4, Player: "alice", Result: ResultFail})
	g.AddAction(Action{Hole: 9, Player: "bob", Result: ResultSuccess})
	g.AddAction(Action{Hole: 12, Player: "alice", Result: ResultSuccess})

	stats, ok := g.Stats().(MurphStats)
	if !ok {
		t.Fatalf("expected MurphStats, got %T", g.Stats())
	}
	if stats.Calls != 4 {
		t.Errorf("expected 4 calls, got %d", stats.Calls)
	}
	if stats.Made != 3 {
		t.Errorf("expected 3 made, got %d", stats.Made)
	}
	if stats.Failed != 1 {
		t.Errorf("expected 1 failed, got %d", stats.Failed)
	}
	if stats.MadeRate != 0.75 {
		t.Errorf("expected made rate 0.75, got %f", stats.MadeRate)
	}

	alice := stats.ByPlayer["alice"]
	if alice.Calls != 3 || alice.Made != 2 || alice.Failed != 1 {
		t.Errorf("expected alice 3/2/1, got %d/%d/%d", alice.Calls, alice.Made, alice.Failed)
	}
	carol := stats.ByPlayer["carol"]
	if carol.Calls != 0 {
		t.Errorf("expected carol with no calls, got %d", carol.Calls)
	}
}
