// Package core holds the ledger domain: shifts, songs, pricing and earnings.
package core

import (
	"strconv"
)

// Rubles is an amount in whole rubles. Costs are never fractional.
type Rubles int64

// String formats the amount the way badges and stats show it, e.g. "3000 ₽".
func (r Rubles) String() string {
	return strconv.FormatInt(int64(r), 10) + " ₽"
}
