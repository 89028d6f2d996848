package canonical

import (
	"strconv"
	"strings"

	"price-tracker/core/catalog"

	"github.com/shopspring/decimal"
)

// EncodingVersion is prefixed to every canonical encoding. Bump it whenever
// the field order, sentinel, separator, or numeric scale changes.
const EncodingVersion = "v1"

// separator joins the encoded fields. String values are escaped so the
// separator can never occur inside a field.
const separator = "||"

// nullSentinel marks an absent value. JSON can carry NUL (`"\u0000"`), so
// encString escapes it; an encoded string therefore never equals the
// sentinel.
const nullSentinel = "\x00"

// decimalScale is the fixed number of decimal places used when rendering
// numeric fields. Rendering is locale-independent by construction
// (shopspring/decimal emits plain ASCII digits and a dot).
const decimalScale = 4

// Encode renders the mutable fields of a product record into the canonical
// string form. DataSource and NaturalKey are identity, not content, and are
// deliberately excluded: the fingerprint answers "did this product's state
// change", not "which product is this".
func Encode(r catalog.ProductRecord) string {
	fields := []string{
		EncodingVersion,
		encString(r.NamePrimary),
		encString(r.NameSecondary),
		encBool(r.AvailableInStore),
		encBool(r.AvailableOnline),
		encDecimal(r.NetWeight),
		encString(r.ContentUnit),
		encString(r.ImageURL),
		encString(r.BrandName),
		encString(r.NormalPriceUnit),
		encDecimal(r.NormalPrice),
		encDecimal(r.BatchPrice),
		encDecimal(r.BatchDiscountPct),
		encString(r.BatchDiscountType),
		encInt(r.BatchDaysLeft),
	}
	return strings.Join(fields, separator)
}

var escaper = strings.NewReplacer(`\`, `\\`, `|`, `\|`, "\x00", `\0`)

func encString(v *string) string {
	if v == nil {
		return nullSentinel
	}
	return escaper.Replace(*v)
}

func encBool(v *bool) string {
	if v == nil {
		return nullSentinel
	}
	return strconv.FormatBool(*v)
}

func encDecimal(v decimal.NullDecimal) string {
	if !v.Valid {
		return nullSentinel
	}
	return v.Decimal.StringFixed(decimalScale)
}

func encInt(v *int) string {
	if v == nil {
		return nullSentinel
	}
	return strconv.Itoa(*v)
}
