package games

import "github.com/shopspring/decimal"

// SnakeGame implements the snake pot: every recorded snake (a three-putt or
// equivalent penalty) grows a shared pot, and whoever holds the snake at
// settlement — the player on the most recent action — pays the whole pot,
// split evenly among the other players.
type SnakeGame struct {
	players []string
	cfg     Config
	log     actionLog
}

func newSnakeGame(players []string, cfg Config) (Game, error) {
	if err := checkRoster(players); err != nil {
		return nil, err
	}
	if err := checkBet(cfg); err != nil {
		return nil, err
	}
	return &SnakeGame{players: players, cfg: cfg}, nil
}

var snakeSpec = GameSpec{
	ID:         GameSnake,
	Name:       "Snake",
	MinPlayers: 2,
	MaxPlayers: 0,
}

// Spec returns metadata about the Snake game.
func (g *SnakeGame) Spec() GameSpec {
	return snakeSpec
}

// ValidateAction requires a roster player and a hole in range.
func (g *SnakeGame) ValidateAction(a Action) bool {
	return validHole(a.Hole) && contains(g.players, a.Player)
}

// AddAction validates, stamps, and appends. Invalid input is rejected
// silently.
func (g *SnakeGame) AddAction(a Action) bool {
	if !g.ValidateAction(a) {
		return false
	}
	g.log.append(a)
	return true
}

// RemoveAction deletes a logged snake by id.
func (g *SnakeGame) RemoveAction(id string) bool {
	return g.log.remove(id)
}

// Actions returns a copy of the log.
func (g *SnakeGame) Actions() []Action {
	return g.log.list()
}

// pot returns betAmount times the number of logged snakes.
func (g *SnakeGame) pot() decimal.Decimal {
	return g.cfg.BetAmount.Mul(decimal.NewFromInt(int64(len(g.log.actions))))
}

// CalculateSummary settles the pot onto the current holder. Each other
// player receives an even share; the holder owes the sum of the shares, so
// balances cancel exactly even when the division rounds. A sole player owes
// the pot with no offsetting credit — the accepted degenerate case.
func (g *SnakeGame) CalculateSummary() BalanceMap {
	balances := newBalanceMap(g.players)
	if len(g.log.actions) == 0 {
		return balances
	}
	holder := g.log.actions[len(g.log.actions)-1].Player
	pot := g.pot()

	if len(g.players) == 1 {
		balances.add(holder, pot.Neg())
		return balances
	}

	others := decimal.NewFromInt(int64(len(g.players) - 1))
	share := pot.Div(others)
	for _, p := range g.players {
		if p == holder {
			balances.add(p, share.Mul(others).Neg())
		} else {
			balances.add(p, share)
		}
	}
	return balances
}

// SnakeStats summarizes the pot and who holds the snake.
type SnakeStats struct {
	Pot      decimal.Decimal `json:"pot"`
	Count    int             `json:"count"`
	Holder   string          `json:"holder,omitempty"`
	ByPlayer map[string]int  `json:"by_player"`
}

// Stats returns the accumulated pot, per-player snake counts, and the
// current holder.
func (g *SnakeGame) Stats() any {
	s := SnakeStats{
		Pot:      g.pot(),
		Count:    len(g.log.actions),
		ByPlayer: make(map[string]int, len(g.players)),
	}
	for _, p := range g.players {
		s.ByPlayer[p] = 0
	}
	for _, a := range g.log.actions {
		s.ByPlayer[a.Player]++
	}
	if n := len(g.log.actions); n > 0 {
		s.Holder = g.log.actions[n-1].Player
	}
	return s
}

func init() {
	register(snakeSpec, newSnakeGame)
}
