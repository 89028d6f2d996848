package compact

import (
	"testing"
	"time"

	"price-tracker/core/catalog"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func nullDec(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

var base = time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC)

// row builds one ledger version: normalPrice "" means absent, closed rows
// end where the next version begins.
func row(seq int, normalPrice string, closed bool) catalog.LedgerRow {
	r := catalog.LedgerRow{
		ProductRecord: catalog.ProductRecord{
			DataSource:  "K-ruoka",
			NaturalKey:  "kahvi-500g",
			NamePrimary: strPtr("Juhla Mokka"),
		},
		ValidFrom: base.Add(time.Duration(seq) * time.Hour),
	}
	if normalPrice != "" {
		r.NormalPrice = nullDec(normalPrice)
	}
	if closed {
		end := base.Add(time.Duration(seq+1) * time.Hour)
		r.ValidTo = &end
	}
	return r
}

// TestCompact_RunLength tests the run-length grouping: versions priced
// 10, 10, 12, 12, 12, 10 compact into three intervals.
func TestCompact_RunLength(t *testing.T) {
	rows := []catalog.LedgerRow{
		row(0, "10", true),
		row(1, "10", true),
		row(2, "12", true),
		row(3, "12", true),
		row(4, "12", true),
		row(5, "10", false),
	}

	intervals := Compact(rows)
	require.Len(t, intervals, 3)

	assert.Equal(t, 2, intervals[0].Versions)
	assert.Equal(t, 3, intervals[1].Versions)
	assert.Equal(t, 1, intervals[2].Versions)

	// Intervals tile the input: each starts where the previous ended.
	assert.Equal(t, rows[0].ValidFrom, intervals[0].ValidFrom)
	assert.Equal(t, rows[1].ValidTo, intervals[0].ValidTo)
	assert.Equal(t, rows[2].ValidFrom, intervals[1].ValidFrom)
	assert.Equal(t, rows[4].ValidTo, intervals[1].ValidTo)

	// The last interval is open because the last row is current.
	assert.Nil(t, intervals[2].ValidTo)

	// Same nominal price on both ends, still two separate intervals.
	assert.True(t, intervals[0].EffectivePrice.Decimal.Equal(intervals[2].EffectivePrice.Decimal))
}

// TestCompact_TrailingZeros tests that 10 and 10.00 belong to the same
// interval.
func TestCompact_TrailingZeros(t *testing.T) {
	rows := []catalog.LedgerRow{
		row(0, "10", true),
		row(1, "10.00", false),
	}

	intervals := Compact(rows)
	require.Len(t, intervals, 1)
	assert.Equal(t, 2, intervals[0].Versions)
}

// TestCompact_NameDriftDoesNotSplit tests that a renamed product keeps one
// interval as long as the effective price holds, and the interval carries the
// first-seen name.
func TestCompact_NameDriftDoesNotSplit(t *testing.T) {
	r1 := row(0, "10", true)
	r2 := row(1, "10", false)
	r2.NamePrimary = strPtr("Juhla Mokka UTZ")

	intervals := Compact([]catalog.LedgerRow{r1, r2})
	require.Len(t, intervals, 1)
	assert.Equal(t, "Juhla Mokka", *intervals[0].NamePrimary)
	assert.Equal(t, 2, intervals[0].Versions)
}

// TestCompact_BatchPriceGroups tests that grouping follows the effective
// price: a batch discount starts a new interval even if the normal price is
// unchanged, and dropping the batch price ends it.
func TestCompact_BatchPriceGroups(t *testing.T) {
	r1 := row(0, "10", true)
	r2 := row(1, "10", true)
	r2.BatchPrice = nullDec("7.50")
	r3 := row(2, "10", false)

	intervals := Compact([]catalog.LedgerRow{r1, r2, r3})
	require.Len(t, intervals, 3)
	assert.True(t, intervals[1].EffectivePrice.Decimal.Equal(decimal.RequireFromString("7.50")))
}

// TestCompact_PricelessRows tests that rows without any price form their own
// interval with an absent effective price.
func TestCompact_PricelessRows(t *testing.T) {
	rows := []catalog.LedgerRow{
		row(0, "10", true),
		row(1, "", true),
		row(2, "", true),
		row(3, "10", false),
	}

	intervals := Compact(rows)
	require.Len(t, intervals, 3)
	assert.False(t, intervals[1].EffectivePrice.Valid)
	assert.Equal(t, 2, intervals[1].Versions)
}

// TestCompact_PricePerUnit tests the derived per-weight metric on the
// interval.
func TestCompact_PricePerUnit(t *testing.T) {
	r := row(0, "10", false)
	r.NetWeight = nullDec("0.5")

	intervals := Compact([]catalog.LedgerRow{r})
	require.Len(t, intervals, 1)
	require.True(t, intervals[0].PricePerUnit.Valid)
	assert.True(t, intervals[0].PricePerUnit.Decimal.Equal(decimal.RequireFromString("20")))

	// Zero weight yields no metric rather than a division error.
	r.NetWeight = nullDec("0")
	intervals = Compact([]catalog.LedgerRow{r})
	assert.False(t, intervals[0].PricePerUnit.Valid)
}

// TestCompact_Empty tests the trivial input.
func TestCompact_Empty(t *testing.T) {
	assert.Nil(t, Compact(nil))
}
