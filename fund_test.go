package viewprofit

import (
	"math"
	"testing"

	"github.com/etnz/viewprofit/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoMonths is a fund opened in January with 1000 that earns 100 in February.
func twoMonths() []FundRow {
	return []FundRow{
		{Month: date.MustParse("2024-02"), StartingBalance: 1000, EndingBalance: 1100},
		{Month: date.MustParse("2024-01"), Deposit: 1000, EndingBalance: 1000},
	}
}

func TestCalculateFund_NoTax(t *testing.T) {
	rows := CalculateFund(twoMonths(), FundParams{})
	require.Len(t, rows, 2)

	feb, jan := rows[0], rows[1]
	assert.Equal(t, date.MustParse("2024-02"), feb.Month)
	assert.InDelta(t, 0, jan.NetReturnPerc, 1e-12)
	assert.InDelta(t, 100, feb.GrossReturn, 1e-12)
	assert.InDelta(t, 10, feb.NetReturnPerc, 1e-12)
	assert.InDelta(t, 10, feb.AccumulatedNetReturnPerc, 1e-12)
	assert.InDelta(t, 100, feb.AccumulatedNetReturn, 1e-12)

	// without inflation, real returns are net returns.
	assert.InDelta(t, 10, feb.RealReturnPerc, 1e-12)
	assert.InDelta(t, 10, feb.AccumulatedRealReturnPerc, 1e-12)

	for _, r := range rows {
		assert.InDelta(t, 1000, r.AccumulatedDeposit, 1e-12, r.Month.String())
		assert.InDelta(t, 1000, r.NetDeposit, 1e-12, r.Month.String())
	}
}

func TestCalculateFund_IncomeTax(t *testing.T) {
	rows := CalculateFund(twoMonths(), FundParams{IncomeTax: 50})
	require.Len(t, rows, 2)
	feb := rows[0]
	assert.InDelta(t, 100, feb.GrossReturn, 1e-12)
	assert.InDelta(t, 10, feb.GrossReturnPerc, 1e-12)
	assert.InDelta(t, 50, feb.NetReturn, 1e-12)
	assert.InDelta(t, 5, feb.NetReturnPerc, 1e-12)
	assert.InDelta(t, 1050, feb.NetBalance, 1e-12)
}

func TestCalculateFund_Inflation(t *testing.T) {
	inflation := new(date.History[float64]).Append(date.MustParse("2024-02"), 2)
	rows := CalculateFund(twoMonths(), FundParams{Inflation: inflation})
	require.Len(t, rows, 2)

	assert.InDelta(t, 100*(10-2)/102., rows[0].RealReturnPerc, 1e-9)
	assert.InDelta(t, 7.843, rows[0].RealReturnPerc, 1e-3)
	// January has no inflation: net return is used as is.
	assert.InDelta(t, rows[1].NetReturnPerc, rows[1].RealReturnPerc, 1e-12)
}

func TestCalculateFund_Accumulations(t *testing.T) {
	rows := []FundRow{
		{Month: date.MustParse("2024-04"), StartingBalance: 2310, Withdrawal: 310, EndingBalance: 2000},
		{Month: date.MustParse("2024-03"), StartingBalance: 1100, Deposit: 1000, EndingBalance: 2310},
		{Month: date.MustParse("2024-02"), StartingBalance: 1000, EndingBalance: 1100},
		{Month: date.MustParse("2024-01"), Deposit: 1000, EndingBalance: 1000},
	}
	got := CalculateFund(rows, FundParams{})
	require.Len(t, got, 4)

	assert.InDeltaSlice(t, []float64{2000, 2000, 1000, 1000}, field(got, FieldAccumulatedDeposit), 1e-9)
	assert.InDeltaSlice(t, []float64{310, 0, 0, 0}, field(got, FieldAccumulatedWithdrawal), 1e-9)
	assert.InDeltaSlice(t, []float64{1690, 2000, 1000, 1000}, field(got, FieldNetDeposit), 1e-9)
	assert.InDeltaSlice(t, []float64{0, 10, 10, 0}, field(got, FieldNetReturnPerc), 1e-9)
	assert.InDeltaSlice(t, []float64{310, 310, 100, 0}, field(got, FieldAccumulatedNetReturn), 1e-9)
	assert.InDeltaSlice(t, []float64{21, 21, 10, 0}, field(got, FieldAccumulatedNetReturnPerc), 1e-9)
}

func TestCalculateFund_NoCapital(t *testing.T) {
	rows := []FundRow{
		{Month: date.MustParse("2024-02"), StartingBalance: 1000, EndingBalance: 1100},
		{Month: date.MustParse("2024-01")},
	}
	got := CalculateFund(rows, FundParams{})
	require.Len(t, got, 2)
	assert.True(t, math.IsNaN(got[1].NetReturnPerc))
	assert.True(t, math.IsNaN(got[1].AccumulatedNetReturnPerc))
	assert.InDelta(t, 10, got[0].AccumulatedNetReturnPerc, 1e-9)
}

func TestCalculateFund_NoRows(t *testing.T) {
	assert.Nil(t, CalculateFund(nil, FundParams{IncomeTax: 30}))
}

func TestCalculateBenchmark(t *testing.T) {
	rows := []BenchmarkRow{
		{Month: date.MustParse("2024-03"), Value: 10},
		{Month: date.MustParse("2024-02"), Value: 10},
		{Month: date.MustParse("2024-01"), Value: 0},
	}
	got := CalculateBenchmark(rows)
	require.Len(t, got, 3)
	assert.InDelta(t, 21, got[0].Accumulated, 1e-9)
	assert.InDelta(t, 10, got[1].Accumulated, 1e-9)
	assert.InDelta(t, 0, got[2].Accumulated, 1e-9)

	h := InflationHistory(rows)
	v, ok := h.Get(date.MustParse("2024-02"))
	assert.True(t, ok)
	assert.Equal(t, 10.0, v)
}

func field(rows []ReturnRow, name string) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i], _ = r.Get(name)
	}
	return out
}
