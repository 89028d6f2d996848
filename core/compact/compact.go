package compact

import (
	"time"

	"price-tracker/core/catalog"

	"github.com/shopspring/decimal"
)

// PriceInterval is one compacted validity interval during which a product's
// effective price was constant.
type PriceInterval struct {
	DataSource string `json:"data_source"`
	NaturalKey string `json:"natural_key"`

	// Descriptive fields are taken from the first row of the interval;
	// later name drift does not split intervals.
	NamePrimary   *string `json:"name_primary"`
	NameSecondary *string `json:"name_secondary"`

	NormalPrice       decimal.NullDecimal `json:"normal_price"`
	BatchPrice        decimal.NullDecimal `json:"batch_price"`
	BatchDiscountPct  decimal.NullDecimal `json:"batch_discount_pct"`
	BatchDiscountType *string             `json:"batch_discount_type"`

	NetWeight   decimal.NullDecimal `json:"net_weight"`
	ContentUnit *string             `json:"content_unit"`

	// EffectivePrice is the grouping value: the lesser of batch and normal
	// price for the rows of this interval.
	EffectivePrice decimal.NullDecimal `json:"effective_price"`

	// PricePerUnit is EffectivePrice divided by NetWeight, absent when the
	// weight is absent or zero.
	PricePerUnit decimal.NullDecimal `json:"price_per_unit"`

	ValidFrom time.Time  `json:"valid_from"`
	ValidTo   *time.Time `json:"valid_to"`

	// Versions counts the ledger rows collapsed into this interval.
	Versions int `json:"versions"`
}

// Compact scans rows ordered by valid_from and starts a new interval
// whenever the effective price differs from the previous row's. The input
// must contain rows of a single (data_source, natural_key); the output is
// ordered and covers every input row exactly once.
func Compact(rows []catalog.LedgerRow) []PriceInterval {
	if len(rows) == 0 {
		return nil
	}

	var intervals []PriceInterval
	for _, row := range rows {
		price, ok := catalog.EffectivePrice(row.ProductRecord)
		if len(intervals) > 0 && samePrice(intervals[len(intervals)-1].EffectivePrice, price, ok) {
			last := &intervals[len(intervals)-1]
			last.ValidTo = row.ValidTo
			last.Versions++
			continue
		}
		intervals = append(intervals, newInterval(row, price, ok))
	}
	return intervals
}

func newInterval(row catalog.LedgerRow, price decimal.Decimal, ok bool) PriceInterval {
	iv := PriceInterval{
		DataSource:        row.DataSource,
		NaturalKey:        row.NaturalKey,
		NamePrimary:       row.NamePrimary,
		NameSecondary:     row.NameSecondary,
		NormalPrice:       row.NormalPrice,
		BatchPrice:        row.BatchPrice,
		BatchDiscountPct:  row.BatchDiscountPct,
		BatchDiscountType: row.BatchDiscountType,
		NetWeight:         row.NetWeight,
		ContentUnit:       row.ContentUnit,
		EffectivePrice:    decimal.NullDecimal{Decimal: price, Valid: ok},
		ValidFrom:         row.ValidFrom,
		ValidTo:           row.ValidTo,
		Versions:          1,
	}
	if per, ok := catalog.PricePerUnit(row.ProductRecord); ok {
		iv.PricePerUnit = decimal.NullDecimal{Decimal: per, Valid: true}
	}
	return iv
}

// samePrice compares the running interval price with the next row's.
// decimal.Equal treats 10 and 10.00 as the same price.
func samePrice(prev decimal.NullDecimal, next decimal.Decimal, nextOK bool) bool {
	if prev.Valid != nextOK {
		return false
	}
	if !prev.Valid {
		return true
	}
	return prev.Decimal.Equal(next)
}
