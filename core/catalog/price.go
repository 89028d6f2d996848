package catalog

import "github.com/shopspring/decimal"

// EffectivePrice returns the price a customer actually pays for the record:
// the batch price when it is present and lower than the normal price,
// otherwise the normal price. The second return is false when neither price
// is present.
//
// This is the only place the rule is defined; read-side consumers must not
// reimplement it.
func EffectivePrice(r ProductRecord) (decimal.Decimal, bool) {
	if r.BatchPrice.Valid {
		if !r.NormalPrice.Valid || r.BatchPrice.Decimal.LessThan(r.NormalPrice.Decimal) {
			return r.BatchPrice.Decimal, true
		}
	}
	if r.NormalPrice.Valid {
		return r.NormalPrice.Decimal, true
	}
	return decimal.Decimal{}, false
}

// PricePerUnit derives the per-weight metric from the effective price divided
// by the net weight. It returns false when no effective price exists or the
// weight is absent or zero.
func PricePerUnit(r ProductRecord) (decimal.Decimal, bool) {
	price, ok := EffectivePrice(r)
	if !ok {
		return decimal.Decimal{}, false
	}
	if !r.NetWeight.Valid || r.NetWeight.Decimal.IsZero() {
		return decimal.Decimal{}, false
	}
	return price.DivRound(r.NetWeight.Decimal, 6), true
}
