// =============================================================================
// Kebab Dashboard - Record Checks
// =============================================================================
//
// Checks look for records that are well-typed but suspicious. They never
// reject or repair a record: aggregation runs over the data exactly as the
// backend sent it, and the issues are logged so the backend can be fixed.
//
// CHECKS:
//   - missing timestamp         (record falls out of every day filter)
//   - zero quantity             (unit price in exports becomes non-finite)
//   - negative quantity
//   - negative total
//   - missing customer name     (groups with other anonymous lines)
//   - missing product name      (record is skipped by the best seller list)
//
// =============================================================================

package transaction

import (
	"fmt"
	"strings"
)

// =============================================================================
// ISSUE TYPES
// =============================================================================

// Severity levels for issues.
const (
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Issue describes one suspicious field on one record.
type Issue struct {
	// Severity is SeverityWarning or SeverityInfo.
	Severity string

	// Field is the backend field name.
	Field string

	// Value is the offending value as text.
	Value string

	// Message is a human-readable description.
	Message string

	// RecordID is the backend id of the record.
	RecordID string

	// Index is the record's position in the source array.
	Index int
}

// Error implements the error interface.
func (e *Issue) Error() string {
	return fmt.Sprintf("[%s] record %d (id %s), field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity),
		e.Index,
		e.RecordID,
		e.Field,
		e.Message,
		e.Value,
	)
}

// =============================================================================
// CHECKS
// =============================================================================

// Check inspects every record and returns the issues found, in record order.
func Check(records []Record) []*Issue {
	var issues []*Issue
	for i := range records {
		issues = append(issues, CheckRecord(i, records[i])...)
	}
	return issues
}

// CheckRecord inspects a single record.
func CheckRecord(index int, r Record) []*Issue {
	var issues []*Issue

	add := func(severity, field, value, message string) {
		issues = append(issues, &Issue{
			Severity: severity,
			Field:    field,
			Value:    value,
			Message:  message,
			RecordID: r.ID,
			Index:    index,
		})
	}

	if r.RawTimestamp == "" {
		add(SeverityWarning, "tanggal_Transaksi", "", "missing timestamp")
	}

	switch {
	case r.Quantity == 0:
		add(SeverityWarning, "jumlah", "0", "zero quantity")
	case r.Quantity < 0:
		add(SeverityWarning, "jumlah", fmt.Sprint(r.Quantity), "negative quantity")
	}

	if r.Total.IsNegative() {
		add(SeverityWarning, "total_Harga", r.Total.String(), "negative total")
	}

	if strings.TrimSpace(r.Customer) == "" {
		add(SeverityInfo, "nama_Customer", "", "missing customer name")
	}

	if r.Product.IsZero() {
		add(SeverityInfo, "product", "", "no product name populated")
	}

	return issues
}
