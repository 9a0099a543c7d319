package games

import "github.com/shopspring/decimal"

// KPGame implements closest-to-pin: the winner of a hole collects the bet
// from every other player. One KP per par-3 hole is the convention, but any
// hole is accepted; duplicate prevention is the caller's choice, supported
// by HoleDecided.
type KPGame struct {
	players []string
	cfg     Config
	log     actionLog
}

func newKPGame(players []string, cfg Config) (Game, error) {
	if err := checkRoster(players); err != nil {
		return nil, err
	}
	if err := checkBet(cfg); err != nil {
		return nil, err
	}
	return &KPGame{players: players, cfg: cfg}, nil
}

var kpSpec = GameSpec{
	ID:         GameKP,
	Name:       "Closest to Pin",
	MinPlayers: 2,
	MaxPlayers: 0,
}

// Spec returns metadata about the KP game.
func (g *KPGame) Spec() GameSpec {
	return kpSpec
}

// ValidateAction requires a roster winner and a hole in range.
func (g *KPGame) ValidateAction(a Action) bool {
	return validHole(a.Hole) && contains(g.players, a.Winner)
}

// AddAction validates, stamps, and appends. Invalid input is rejected
// silently.
func (g *KPGame) AddAction(a Action) bool {
	if !g.ValidateAction(a) {
		return false
	}
	g.log.append(a)
	return true
}

// RemoveAction deletes a logged KP by id.
func (g *KPGame) RemoveAction(id string) bool {
	return g.log.remove(id)
}

// Actions returns a copy of the log.
func (g *KPGame) Actions() []Action {
	return g.log.list()
}

// HoleDecided reports whether the hole already has a recorded winner, for
// caller-side duplicate prevention.
func (g *KPGame) HoleDecided(hole int) bool {
	for _, a := range g.log.actions {
		if a.Hole == hole {
			return true
		}
	}
	return false
}

// OnHoles returns the logged KPs whose hole is in holes, typically the
// course's par-3 list.
func (g *KPGame) OnHoles(holes []int) []Action {
	var out []Action
	for _, a := range g.log.actions {
		for _, h := range holes {
			if a.Hole == h {
				out = append(out, a)
				break
			}
		}
	}
	return out
}

// CalculateSummary settles the log: each KP moves the bet from every other
// player to the winner.
func (g *KPGame) CalculateSummary() BalanceMap {
	balances := newBalanceMap(g.players)
	others := decimal.NewFromInt(int64(len(g.players) - 1))

	for _, a := range g.log.actions {
		for _, p := range g.players {
			if p == a.Winner {
				balances.add(p, g.cfg.BetAmount.Mul(others))
			} else {
				balances.add(p, g.cfg.BetAmount.Neg())
			}
		}
	}
	return balances
}

// KPStats summarizes recorded KPs.
type KPStats struct {
	Total    int            `json:"total"`
	ByPlayer map[string]int `json:"by_player"`
	ByHole   map[int]string `json:"by_hole"`
}

// Stats returns KP counts per player and the winner recorded for each hole.
// When a hole holds several KPs the latest one is reported for that hole.
func (g *KPGame) Stats() any {
	s := KPStats{
		ByPlayer: make(map[string]int, len(g.players)),
		ByHole:   make(map[int]string),
	}
	for _, p := range g.players {
		s.ByPlayer[p] = 0
	}
	for _, a := range g.log.actions {
		s.Total++
		s.ByPlayer[a.Winner]++
		s.ByHole[a.Hole] = a.Winner
	}
	return s
}

func init() {
	register(kpSpec, newKPGame)
}
