package games

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SkinsGame implements skins with carryover. Two or three players play
// individually; exactly four players with configured teams play two fixed
// two-player teams. An undecided hole carries its skin to the next decided
// hole.
type SkinsGame struct {
	players  []string
	cfg      Config
	teamMode bool
	log      actionLog
}

func newSkinsGame(players []string, cfg Config) (Game, error) {
	if err := checkRoster(players); err != nil {
		return nil, err
	}
	if err := checkBet(cfg); err != nil {
		return nil, err
	}
	g := &SkinsGame{players: players, cfg: cfg}
	if len(cfg.Teams) > 0 {
		if err := checkTeams(players, cfg.Teams); err != nil {
			return nil, err
		}
		g.teamMode = true
	}
	return g, nil
}

// checkTeams enforces the four-player team shape: two disjoint two-player
// teams covering the roster. Equal team sizes keep the cross-transfer
// zero-sum.
func checkTeams(players []string, teams [][]string) error {
	if len(players) != 4 {
		return fmt.Errorf("skins teams require exactly 4 players, got %d", len(players))
	}
	if len(teams) != 2 {
		return fmt.Errorf("skins requires exactly 2 teams, got %d", len(teams))
	}
	seen := make(map[string]struct{}, 4)
	for _, team := range teams {
		if len(team) != 2 {
			return fmt.Errorf("skins teams must have 2 members, got %d", len(team))
		}
		for _, p := range team {
			if !contains(players, p) {
				return fmt.Errorf("team member %q is not in the roster", p)
			}
			if _, dup := seen[p]; dup {
				return fmt.Errorf("player %q assigned to both teams", p)
			}
			seen[p] = struct{}{}
		}
	}
	return nil
}

var skinsSpec = GameSpec{
	ID:         GameSkins,
	Name:       "Skins",
	MinPlayers: 2,
	MaxPlayers: 4,
}

// Spec returns metadata about the Skins game.
func (g *SkinsGame) Spec() GameSpec {
	return skinsSpec
}

// ValidateAction requires a hole in range and a winner that is the carryover
// sentinel, a team sentinel in team mode, or a roster player otherwise.
func (g *SkinsGame) ValidateAction(a Action) bool {
	if !validHole(a.Hole) {
		return false
	}
	if a.Winner == SkinsCarryover {
		return true
	}
	if g.teamMode {
		return a.Winner == TeamOne || a.Winner == TeamTwo
	}
	return contains(g.players, a.Winner)
}

// AddAction validates, stamps, and appends. Invalid input is rejected
// silently.
func (g *SkinsGame) AddAction(a Action) bool {
	if !g.ValidateAction(a) {
		return false
	}
	g.log.append(a)
	return true
}

// RemoveAction deletes a logged hole result by id.
func (g *SkinsGame) RemoveAction(id string) bool {
	return g.log.remove(id)
}

// Actions returns a copy of the log.
func (g *SkinsGame) Actions() []Action {
	return g.log.list()
}

// CalculateSummary settles the log. The carry counter starts at 1, grows by
// one per carryover, and resets after every decided hole; it is threaded
// through the fold, never stored, so settlement stays a pure function of
// the log.
func (g *SkinsGame) CalculateSummary() BalanceMap {
	balances := newBalanceMap(g.players)
	counter := int64(1)

	for _, a := range g.log.actions {
		if a.Winner == SkinsCarryover {
			counter++
			continue
		}
		stake := g.cfg.BetAmount.Mul(decimal.NewFromInt(counter))
		if g.teamMode {
			winners := g.cfg.Teams[0]
			losers := g.cfg.Teams[1]
			if a.Winner == TeamTwo {
				winners, losers = losers, winners
			}
			// Full cross-transfer: every losing member pays the carried
			// stake, every winning member collects it.
			for _, p := range winners {
				balances.add(p, stake)
			}
			for _, p := range losers {
				balances.add(p, stake.Neg())
			}
		} else {
			for _, p := range g.players {
				if p == a.Winner {
					balances.add(p, stake.Mul(decimal.NewFromInt(int64(len(g.players)-1))))
				} else {
					balances.add(p, stake.Neg())
				}
			}
		}
		counter = 1
	}
	return balances
}

// SkinsStats summarizes decided holes, carryovers, and the live carry.
type SkinsStats struct {
	Decided    int             `json:"decided"`
	Carryovers int             `json:"carryovers"`
	Carry      int             `json:"carry"`
	CarryValue decimal.Decimal `json:"carry_value"`
	TeamMode   bool            `json:"team_mode"`
	Skins      map[string]int  `json:"skins"`
}

// Stats returns skin counts per winner (a win after n carryovers is worth
// n+1 skins) plus the carry currently at stake.
func (g *SkinsGame) Stats() any {
	s := SkinsStats{
		Carry:    1,
		TeamMode: g.teamMode,
		Skins:    make(map[string]int),
	}
	counter := 1
	for _, a := range g.log.actions {
		if a.Winner == SkinsCarryover {
			counter++
			s.Carryovers++
			continue
		}
		s.Decided++
		s.Skins[a.Winner] += counter
		counter = 1
	}
	s.Carry = counter
	s.CarryValue = g.cfg.BetAmount.Mul(decimal.NewFromInt(int64(counter)))
	return s
}

func init() {
	register(skinsSpec, newSkinsGame)
}
