// =============================================================================
// Kebab Dashboard - Transaction Records
// =============================================================================
//
// A Record is one purchased line item as returned by the backend's
// /DetailTransaksi endpoint. Records are immutable once decoded; the
// aggregator only reads them.
//
// The backend sends four optional product-name fields (kebab, snack, package,
// drink). They are collapsed into a single ProductRef at the ingestion
// boundary so the rest of the code never has to probe four fields.
//
// =============================================================================

package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PRODUCT REFERENCE
// =============================================================================

// ProductKind identifies which catalog a product name came from.
type ProductKind int

const (
	// KindUnknown means the record carried no product name at all.
	KindUnknown ProductKind = iota
	KindKebab
	KindSnack
	KindPackage
	KindDrink
)

// String returns the display label used in reports.
func (k ProductKind) String() string {
	switch k {
	case KindKebab:
		return "Kebab"
	case KindSnack:
		return "Snack"
	case KindPackage:
		return "Paket"
	case KindDrink:
		return "Minuman"
	default:
		return "-"
	}
}

// ProductRef is the tagged product a line item refers to.
type ProductRef struct {
	Kind ProductKind
	Name string
}

// IsZero reports whether the record had no product name.
func (p ProductRef) IsZero() bool {
	return p.Kind == KindUnknown || p.Name == ""
}

// Display returns the product name, or "-" when there is none.
func (p ProductRef) Display() string {
	if p.IsZero() {
		return "-"
	}
	return p.Name
}

// =============================================================================
// RECORD
// =============================================================================

// Record is a single line item.
type Record struct {
	// ID is the backend identifier, kept as text because the backend is not
	// consistent about numeric vs string ids.
	ID string

	// Timestamp is the order moment. Zero when the backend sent none or an
	// unparseable value; RawTimestamp keeps what was sent.
	Timestamp    time.Time
	RawTimestamp string

	// Customer is the display name of the buyer.
	Customer string

	// Product is whichever product-name field was populated.
	Product ProductRef

	// Quantity is not validated; zero and negative values pass through.
	Quantity int

	// Total is the line total.
	Total decimal.Decimal
}

// HasTimestamp reports whether the record carries a usable time.
func (r Record) HasTimestamp() bool {
	return !r.Timestamp.IsZero()
}
