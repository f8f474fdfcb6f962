package viewprofit

import (
	"cmp"
	"slices"
)

// Share is a fund's part of the total net balance.
type Share struct {
	Name       string
	NetBalance float64
	Percent    float64
}

// Allocation computes each fund's share of the total.
//
// A fund weighs the maximum net balance it ever reached. Shares are sorted by
// name. With a null total, percents are 0.
func Allocation(funds map[string][]ReturnRow) []Share {
	shares := make([]Share, 0, len(funds))
	var total float64
	for name, rows := range funds {
		var highest float64
		for _, r := range rows {
			if finite(r.NetBalance) {
				highest = max(highest, r.NetBalance)
			}
		}
		shares = append(shares, Share{Name: name, NetBalance: highest})
		total += highest
	}
	slices.SortFunc(shares, func(a, b Share) int { return cmp.Compare(a.Name, b.Name) })
	if total == 0 {
		return shares
	}
	for i := range shares {
		shares[i].Percent = 100 * shares[i].NetBalance / total
	}
	return shares
}
