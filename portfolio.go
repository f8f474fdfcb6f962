package viewprofit

import "slices"

// AggregatePortfolio sums the raw rows of all funds month by month, and
// derives the portfolio returns from those sums, exactly as CalculateFund
// does for a single fund.
//
// The months are RecentMonths(k, funds...). A fund lacking a month
// contributes nothing to it. The portfolio percent is therefore a return on
// the total capital, not an average of the funds' percents.
//
// Rows are returned newest-first.
func AggregatePortfolio(funds []Series, k int, p FundParams) []ReturnRow {
	months := RecentMonths(k, funds...)
	slices.Reverse(months)

	rows := make([]FundRow, 0, len(months))
	for _, m := range months {
		row := FundRow{Month: m}
		for _, f := range funds {
			d, _ := f.Lookup(m, FieldDeposit)
			w, _ := f.Lookup(m, FieldWithdrawal)
			s, _ := f.Lookup(m, FieldStartingBalance)
			e, _ := f.Lookup(m, FieldEndingBalance)
			row.Deposit += d
			row.Withdrawal += w
			row.StartingBalance += s
			row.EndingBalance += e
		}
		rows = append(rows, row)
	}
	return CalculateFund(rows, p)
}
