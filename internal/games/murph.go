package games

import "github.com/shopspring/decimal"

// MurphGame implements the call-shot side bet: a player calls a shot (a
// "Murph") and either makes it or misses it. A made call collects the bet
// from every other player; a missed call pays the bet to every other player.
type MurphGame struct {
	players []string
	cfg     Config
	log     actionLog
}

func newMurphGame(players []string, cfg Config) (Game, error) {
	if err := checkRoster(players); err != nil {
		return nil, err
	}
	if err := checkBet(cfg); err != nil {
		return nil, err
	}
	return &MurphGame{players: players, cfg: cfg}, nil
}

var murphSpec = GameSpec{
	ID:         GameMurph,
	Name:       "Murph",
	MinPlayers: 2,
	MaxPlayers: 0,
}

// Spec returns metadata about the Murph game.
func (g *MurphGame) Spec() GameSpec {
	return murphSpec
}

// murphResultMade reports whether the result token is a made call. Both
// spellings of each outcome are accepted; callers rely on either.
func murphResultMade(result string) (made, known bool) {
	switch result {
	case ResultSuccess, ResultMade:
		return true, true
	case ResultFail, ResultFailed:
		return false, true
	}
	return false, false
}

// ValidateAction requires a roster player, a hole in range, and one of the
// four accepted result tokens.
func (g *MurphGame) ValidateAction(a Action) bool {
	if !validHole(a.Hole) {
		return false
	}
	if !contains(g.players, a.Player) {
		return false
	}
	_, known := murphResultMade(a.Result)
	return known
}

// AddAction validates, stamps, and appends. Invalid input is rejected
// silently.
func (g *MurphGame) AddAction(a Action) bool {
	if !g.ValidateAction(a) {
		return false
	}
	g.log.append(a)
	return true
}

// RemoveAction deletes a logged call by id.
func (g *MurphGame) RemoveAction(id string) bool {
	return g.log.remove(id)
}

// Actions returns a copy of the log.
func (g *MurphGame) Actions() []Action {
	return g.log.list()
}

// CalculateSummary settles the log: a made call moves the bet from every
// other player to the caller, a missed call reverses the flow.
func (g *MurphGame) CalculateSummary() BalanceMap {
	balances := newBalanceMap(g.players)
	others := decimal.NewFromInt(int64(len(g.players) - 1))

	for _, a := range g.log.actions {
		made, _ := murphResultMade(a.Result)
		stake := g.cfg.BetAmount
		if !made {
			stake = stake.Neg()
		}
		for _, p := range g.players {
			if p == a.Player {
				balances.add(p, stake.Mul(others))
			} else {
				balances.add(p, stake.Neg())
			}
		}
	}
	return balances
}

// MurphStats summarizes recorded calls.
type MurphStats struct {
	Calls    int                         `json:"calls"`
	Made     int                         `json:"made"`
	Failed   int                         `json:"failed"`
	MadeRate float64                     `json:"made_rate"`
	ByPlayer map[string]MurphPlayerStats `json:"by_player"`
}

// MurphPlayerStats is one player's call record.
type MurphPlayerStats struct {
	Calls  int `json:"calls"`
	Made   int `json:"made"`
	Failed int `json:"failed"`
}

// Stats returns call counts and the made rate, overall and per player.
func (g *MurphGame) Stats() any {
	s := MurphStats{ByPlayer: make(map[string]MurphPlayerStats, len(g.players))}
	for _, p := range g.players {
		s.ByPlayer[p] = MurphPlayerStats{}
	}
	for _, a := range g.log.actions {
		line := s.ByPlayer[a.Player]
		line.Calls++
		s.Calls++
		if made, _ := murphResultMade(a.Result); made {
			line.Made++
			s.Made++
		} else {
			line.Failed++
			s.Failed++
		}
		s.ByPlayer[a.Player] = line
	}
	if s.Calls > 0 {
		s.MadeRate = float64(s.Made) / float64(s.Calls)
	}
	return s
}

func init() {
	register(murphSpec, newMurphGame)
}
