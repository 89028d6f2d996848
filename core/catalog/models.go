package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRecord is the normalized, source-agnostic shape of one product as
// observed in a single fetch. Nullable fields use pointers or NullDecimal so
// that "absent" survives the round trip to the database unchanged.
type ProductRecord struct {
	// DataSource names the retailer this record was fetched from.
	DataSource string `gorm:"column:data_source;index:idx_source_current,priority:1;uniqueIndex:uq_source_key_from,priority:1" json:"data_source"`

	// NaturalKey is the source-provided product identifier, unique within
	// one data source only.
	NaturalKey string `gorm:"column:natural_key;index:idx_source_current,priority:2;uniqueIndex:uq_source_key_from,priority:2" json:"natural_key"`

	NamePrimary   *string `gorm:"column:name_primary" json:"name_primary"`
	NameSecondary *string `gorm:"column:name_secondary" json:"name_secondary"`

	AvailableInStore *bool `gorm:"column:available_in_store" json:"available_in_store"`
	AvailableOnline  *bool `gorm:"column:available_online" json:"available_online"`

	NetWeight   decimal.NullDecimal `gorm:"column:net_weight;type:decimal(12,4)" json:"net_weight"`
	ContentUnit *string             `gorm:"column:content_unit" json:"content_unit"`

	ImageURL  *string `gorm:"column:image_url" json:"image_url"`
	BrandName *string `gorm:"column:brand_name" json:"brand_name"`

	NormalPriceUnit *string             `gorm:"column:normal_price_unit" json:"normal_price_unit"`
	NormalPrice     decimal.NullDecimal `gorm:"column:normal_price;type:decimal(12,4)" json:"normal_price"`

	// BatchPrice is a temporary discounted price. When present it is
	// expected to be <= NormalPrice.
	BatchPrice        decimal.NullDecimal `gorm:"column:batch_price;type:decimal(12,4)" json:"batch_price"`
	BatchDiscountPct  decimal.NullDecimal `gorm:"column:batch_discount_pct;type:decimal(8,4)" json:"batch_discount_pct"`
	BatchDiscountType *string             `gorm:"column:batch_discount_type" json:"batch_discount_type"`
	BatchDaysLeft     *int                `gorm:"column:batch_days_left" json:"batch_days_left"`
}

// LedgerRow is one versioned state of a product. Rows are append-only: a row
// is inserted with a nil ValidTo, closed exactly once by setting ValidTo, and
// never deleted or otherwise mutated.
type LedgerRow struct {
	ID uint `gorm:"column:id;primaryKey;autoIncrement" json:"-"`

	ProductRecord `gorm:"embedded"`

	// ContentHash is the SHA-256 hex digest of the canonical encoding of
	// the mutable fields. Equal hashes mean "unchanged".
	ContentHash string `gorm:"column:content_hash;size:64" json:"content_hash"`

	// ValidFrom is the cycle timestamp at which this state became current.
	// The unique index on (data_source, natural_key, valid_from) is the
	// storage-level backstop for the at-most-one-version-per-cycle rule:
	// a cycle that raced past the source lock fails here instead of
	// writing a duplicate version.
	ValidFrom time.Time `gorm:"column:valid_from;uniqueIndex:uq_source_key_from,priority:3" json:"valid_from"`

	// ValidTo is nil while the row is current.
	ValidTo *time.Time `gorm:"column:valid_to;index:idx_source_current,priority:3" json:"valid_to"`
}

// TableName overrides the gorm table name for the ledger.
func (LedgerRow) TableName() string {
	return "product_price_ledger"
}

// IsCurrent reports whether the row is the open (current) version.
func (r LedgerRow) IsCurrent() bool {
	return r.ValidTo == nil
}
