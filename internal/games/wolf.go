package games

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// WolfGame implements the four-player Wolf rotation. A fixed rotation makes
// one player the Wolf for each contiguous block of HolesPerWolf holes; the
// Wolf plays the hole alone against the other three or picks a partner.
// Lone hands settle at triple stakes, partnered hands at single stakes.
type WolfGame struct {
	players      []string
	cfg          Config
	rotation     []string
	holesPerWolf int
	log          actionLog
}

const wolfPlayers = 4

func newWolfGame(players []string, cfg Config) (Game, error) {
	if err := checkRoster(players); err != nil {
		return nil, err
	}
	if err := checkBet(cfg); err != nil {
		return nil, err
	}
	if len(players) != wolfPlayers {
		return nil, fmt.Errorf("wolf requires exactly %d players, got %d", wolfPlayers, len(players))
	}

	rotation := cfg.Rotation
	if len(rotation) == 0 {
		rotation = append([]string(nil), players...)
	}
	if err := checkRotation(players, rotation); err != nil {
		return nil, err
	}

	holes := cfg.HolesPerWolf
	if holes == 0 {
		holes = 1
	}
	if holes < 0 {
		return nil, fmt.Errorf("holes per wolf must be positive, got %d", holes)
	}

	return &WolfGame{
		players:      players,
		cfg:          cfg,
		rotation:     rotation,
		holesPerWolf: holes,
	}, nil
}

// checkRotation requires the rotation to be a permutation of the roster.
func checkRotation(players, rotation []string) error {
	if len(rotation) != len(players) {
		return fmt.Errorf("rotation must list all %d players, got %d", len(players), len(rotation))
	}
	seen := make(map[string]struct{}, len(rotation))
	for _, p := range rotation {
		if !contains(players, p) {
			return fmt.Errorf("rotation player %q is not in the roster", p)
		}
		if _, dup := seen[p]; dup {
			return fmt.Errorf("rotation repeats player %q", p)
		}
		seen[p] = struct{}{}
	}
	return nil
}

var wolfSpec = GameSpec{
	ID:         GameWolf,
	Name:       "Wolf",
	MinPlayers: wolfPlayers,
	MaxPlayers: wolfPlayers,
}

// Spec returns metadata about the Wolf game.
func (g *WolfGame) Spec() GameSpec {
	return wolfSpec
}

// ExpectedWolf returns the rotation-assigned wolf for the hole. The block
// index wraps around the rotation so every hole through 18 has a wolf for
// any HolesPerWolf.
func (g *WolfGame) ExpectedWolf(hole int) string {
	if !validHole(hole) {
		return ""
	}
	idx := ((hole - 1) / g.holesPerWolf) % len(g.rotation)
	return g.rotation[idx]
}

// ValidateAction enforces the rotation: the named wolf must match the
// schedule for the hole, the choice must be lone or partner, and a
// partnered hand needs a distinct roster partner.
func (g *WolfGame) ValidateAction(a Action) bool {
	if !validHole(a.Hole) {
		return false
	}
	if a.Wolf != g.ExpectedWolf(a.Hole) {
		return false
	}
	if a.Result != ResultWolfWins && a.Result != ResultPartnersWin {
		return false
	}
	switch a.WolfChoice {
	case ChoiceLone:
		return true
	case ChoicePartner:
		return contains(g.players, a.Partner) && a.Partner != a.Wolf
	}
	return false
}

// AddAction validates, stamps, and appends. Invalid input is rejected
// silently.
func (g *WolfGame) AddAction(a Action) bool {
	if !g.ValidateAction(a) {
		return false
	}
	g.log.append(a)
	return true
}

// RemoveAction deletes a logged hand by id.
func (g *WolfGame) RemoveAction(id string) bool {
	return g.log.remove(id)
}

// Actions returns a copy of the log.
func (g *WolfGame) Actions() []Action {
	return g.log.list()
}

// CalculateSummary settles each hand. A lone wolf wins the bet from all
// three opponents or pays it to all three; a partnered wolf side wins or
// loses the bet per opposing player, one each. All four outcomes cancel
// exactly across the four players.
func (g *WolfGame) CalculateSummary() BalanceMap {
	balances := newBalanceMap(g.players)
	bet := g.cfg.BetAmount
	three := decimal.NewFromInt(3)

	for _, a := range g.log.actions {
		wolfSide := map[string]bool{a.Wolf: true}
		if a.WolfChoice == ChoicePartner {
			wolfSide[a.Partner] = true
		}

		wolfWon := a.Result == ResultWolfWins
		if a.WolfChoice == ChoiceLone {
			if wolfWon {
				balances.add(a.Wolf, bet.Mul(three))
			} else {
				balances.add(a.Wolf, bet.Mul(three).Neg())
			}
			for _, p := range g.players {
				if p == a.Wolf {
					continue
				}
				if wolfWon {
					balances.add(p, bet.Neg())
				} else {
					balances.add(p, bet)
				}
			}
			continue
		}

		for _, p := range g.players {
			switch {
			case wolfSide[p] && wolfWon:
				balances.add(p, bet)
			case wolfSide[p]:
				balances.add(p, bet.Neg())
			case wolfWon:
				balances.add(p, bet.Neg())
			default:
				balances.add(p, bet)
			}
		}
	}
	return balances
}

// WolfStats summarizes hands by choice and outcome plus the full schedule.
type WolfStats struct {
	Hands        int                 `json:"hands"`
	LoneHands    int                 `json:"lone_hands"`
	LoneWins     int                 `json:"lone_wins"`
	PartnerHands int                 `json:"partner_hands"`
	PartnerWins  int                 `json:"partner_wins"`
	Schedule     []string            `json:"schedule"`
	ByWolf       map[string]WolfLine `json:"by_wolf"`
}

// WolfLine is one player's record for the holes they were the wolf.
type WolfLine struct {
	Hands int `json:"hands"`
	Wins  int `json:"wins"`
}

// Stats returns hand counts by choice and outcome, the per-player wolf
// record, and the expected wolf for every hole.
func (g *WolfGame) Stats() any {
	s := WolfStats{
		Schedule: make([]string, LastHole),
		ByWolf:   make(map[string]WolfLine, len(g.players)),
	}
	for h := FirstHole; h <= LastHole; h++ {
		s.Schedule[h-1] = g.ExpectedWolf(h)
	}
	for _, p := range g.players {
		s.ByWolf[p] = WolfLine{}
	}
	for _, a := range g.log.actions {
		s.Hands++
		line := s.ByWolf[a.Wolf]
		line.Hands++
		won := a.Result == ResultWolfWins
		if won {
			line.Wins++
		}
		if a.WolfChoice == ChoiceLone {
			s.LoneHands++
			if won {
				s.LoneWins++
			}
		} else {
			s.PartnerHands++
			if won {
				s.PartnerWins++
			}
		}
		s.ByWolf[a.Wolf] = line
	}
	return s
}

func init() {
	register(wolfSpec, newWolfGame)
}
