package viewprofit

import (
	"math"

	"github.com/etnz/viewprofit/date"
)

// ReturnRow is a derived monthly row of a fund or of the portfolio.
type ReturnRow struct {
	Month           date.Month
	Deposit         float64
	Withdrawal      float64
	StartingBalance float64
	EndingBalance   float64

	AccumulatedDeposit    float64
	AccumulatedWithdrawal float64
	NetDeposit            float64

	GrossReturn     float64
	GrossReturnPerc float64
	NetReturn       float64
	NetReturnPerc   float64
	NetBalance      float64

	AccumulatedNetReturn      float64
	AccumulatedNetReturnPerc  float64
	RealReturnPerc            float64
	AccumulatedRealReturnPerc float64
}

// Get returns the value of the named field, and false for an unknown field.
func (r ReturnRow) Get(field string) (float64, bool) {
	switch field {
	case FieldDeposit:
		return r.Deposit, true
	case FieldWithdrawal:
		return r.Withdrawal, true
	case FieldStartingBalance:
		return r.StartingBalance, true
	case FieldEndingBalance:
		return r.EndingBalance, true
	case FieldAccumulatedDeposit:
		return r.AccumulatedDeposit, true
	case FieldAccumulatedWithdrawal:
		return r.AccumulatedWithdrawal, true
	case FieldNetDeposit:
		return r.NetDeposit, true
	case FieldGrossReturn:
		return r.GrossReturn, true
	case FieldGrossReturnPerc:
		return r.GrossReturnPerc, true
	case FieldNetReturn:
		return r.NetReturn, true
	case FieldNetReturnPerc:
		return r.NetReturnPerc, true
	case FieldNetBalance:
		return r.NetBalance, true
	case FieldAccumulatedNetReturn:
		return r.AccumulatedNetReturn, true
	case FieldAccumulatedNetReturnPerc:
		return r.AccumulatedNetReturnPerc, true
	case FieldRealReturnPerc:
		return r.RealReturnPerc, true
	case FieldAccumulatedRealReturnPerc:
		return r.AccumulatedRealReturnPerc, true
	}
	return 0, false
}

// ReturnFields lists the fields of a ReturnRow in display order.
var ReturnFields = []string{
	FieldDeposit, FieldWithdrawal, FieldStartingBalance, FieldEndingBalance,
	FieldAccumulatedDeposit, FieldAccumulatedWithdrawal, FieldNetDeposit,
	FieldGrossReturn, FieldGrossReturnPerc, FieldNetReturn, FieldNetReturnPerc, FieldNetBalance,
	FieldAccumulatedNetReturn, FieldAccumulatedNetReturnPerc,
	FieldRealReturnPerc, FieldAccumulatedRealReturnPerc,
}

// ReturnSeries converts derived rows into a Series carrying every ReturnFields.
func ReturnSeries(name string, kind Kind, rows []ReturnRow) Series {
	s := Series{Name: name, Kind: kind, Observations: make([]Observation, 0, len(rows))}
	for _, r := range rows {
		fields := make(map[string]float64, len(ReturnFields))
		for _, f := range ReturnFields {
			fields[f], _ = r.Get(f)
		}
		s.Observations = append(s.Observations, Observation{Month: r.Month, Fields: fields})
	}
	return s
}

// FundParams are the parameters of a fund calculation.
type FundParams struct {
	// IncomeTax is the percent of the gross return paid as tax.
	IncomeTax float64
	// Inflation is the monthly inflation percent. When nil, or when a month
	// is missing, the real return is the net return.
	Inflation *date.History[float64]
}

// CalculateFund derives the return rows of a fund from its raw rows.
//
// Rows are newest-first and so is the result. Every derived value is rebuilt
// from rows: nothing is patched. No rows return nil.
//
// A period without capital has a non finite return percent, it is reported as
// is and skipped by the accumulated percents.
func CalculateFund(rows []FundRow, p FundParams) []ReturnRow {
	if len(rows) == 0 {
		return nil
	}
	deposits := make([]float64, len(rows))
	withdrawals := make([]float64, len(rows))
	for i, r := range rows {
		deposits[i] = r.Deposit
		withdrawals[i] = r.Withdrawal
	}
	accDeposits := reverseCumulativeSum(deposits)
	accWithdrawals := reverseCumulativeSum(withdrawals)

	out := make([]ReturnRow, len(rows))
	netReturns := make([]float64, len(rows))
	netPercs := make([]float64, len(rows))
	realPercs := make([]float64, len(rows))
	for i, r := range rows {
		gross := GrossReturn(r.StartingBalance, r.EndingBalance, r.Deposit, r.Withdrawal)
		net := gross * (1 - p.IncomeTax/100)
		netPerc := ReturnPerc(net, r.StartingBalance, r.Deposit, r.Withdrawal)

		out[i] = ReturnRow{
			Month:                 r.Month,
			Deposit:               r.Deposit,
			Withdrawal:            r.Withdrawal,
			StartingBalance:       r.StartingBalance,
			EndingBalance:         r.EndingBalance,
			AccumulatedDeposit:    accDeposits[i],
			AccumulatedWithdrawal: accWithdrawals[i],
			NetDeposit:            accDeposits[i] - accWithdrawals[i],
			GrossReturn:           gross,
			GrossReturnPerc:       ReturnPerc(gross, r.StartingBalance, r.Deposit, r.Withdrawal),
			NetReturn:             net,
			NetReturnPerc:         netPerc,
			NetBalance:            r.EndingBalance - gross*p.IncomeTax/100,
			RealReturnPerc:        RealReturnPerc(netPerc, r.Month, p.Inflation),
		}
		netReturns[i] = net
		netPercs[i] = netPerc
		realPercs[i] = out[i].RealReturnPerc
	}

	accNet := reverseCumulativeSum(netReturns)
	accNetPerc := reverseAccumulate(netPercs)
	accRealPerc := reverseAccumulate(realPercs)
	for i := range out {
		out[i].AccumulatedNetReturn = accNet[i]
		out[i].AccumulatedNetReturnPerc = accNetPerc[i]
		out[i].AccumulatedRealReturnPerc = accRealPerc[i]
	}
	return out
}

// RealReturnPerc deflates a percent return by the inflation of the same month.
// Without inflation data for that month, perc is returned unchanged.
func RealReturnPerc(perc float64, m date.Month, inflation *date.History[float64]) float64 {
	if inflation == nil {
		return perc
	}
	infl, ok := inflation.Get(m)
	if !ok || math.IsNaN(infl) {
		return perc
	}
	return 100 * (perc - infl) / (100 + infl)
}
