package games

import "github.com/shopspring/decimal"

// BalanceMap maps player name to signed net amount. Every variant's
// settlement produces one entry per roster player, zero-initialized.
type BalanceMap map[string]decimal.Decimal

// newBalanceMap returns a map with a zero balance for every player.
func newBalanceMap(players []string) BalanceMap {
	b := make(BalanceMap, len(players))
	for _, p := range players {
		b[p] = decimal.Zero
	}
	return b
}

// add credits (or debits, for negative amounts) a player.
func (b BalanceMap) add(player string, amount decimal.Decimal) {
	b[player] = b[player].Add(amount)
}

// Sum returns the total of all balances. Zero for any valid settlement over
// two or more players.
func (b BalanceMap) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, v := range b {
		total = total.Add(v)
	}
	return total
}

// AddInto accumulates every balance in src into b. Players missing from b
// are created.
func (b BalanceMap) AddInto(src BalanceMap) {
	for p, v := range src {
		b[p] = b[p].Add(v)
	}
}
