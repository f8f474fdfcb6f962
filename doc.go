// Package viewprofit turns the monthly records of investment funds into
// return series and combines them into a portfolio.
//
// A fund records, every month, what was deposited, what was withdrawn and the
// balance at the start and at the end of the month. From those records, the
// package derives:
//   - Gross and net returns: the balance change not explained by flows, before
//     and after an income tax, in currency and in percent of the capital.
//   - Real returns: net percent returns deflated by an inflation benchmark.
//   - Accumulated returns: percents are compounded, amounts are summed.
//   - Portfolio: a synthetic fund whose records are the sums of all funds'
//     records, processed exactly like a fund.
//
// Records are read by collaborators (see packages tabular, pgsource and insee)
// and converted into Series. Statistics across series live in package stats.
//
// Everything is recomputed from the records, on demand: Workspace runs the
// whole pipeline and keeps the last successful Result.
package viewprofit
