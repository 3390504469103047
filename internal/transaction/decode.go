// =============================================================================
// Kebab Dashboard - Transaction Decoding
// =============================================================================
//
// Decode is the ingestion boundary for the backend's /DetailTransaksi
// response. The backend is loose about types, so:
//
//   id_Detail, jumlah, total_Harga  - JSON numbers or numeric strings
//   tanggal_Transaksi               - RFC3339 or zone-less local time
//   nama_Kebab / nama_Snack /
//   nama_Paket / nama_Minuman       - the first non-empty one is the product
//
// A non-numeric number is an error for the whole response. Everything else
// that looks wrong is kept and reported as an Issue.
//
// =============================================================================

package transaction

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrMalformedNumber is returned when a numeric field is neither a JSON
// number nor a string holding one.
var ErrMalformedNumber = errors.New("malformed number")

// timestampLayouts are tried in order. Layouts without a zone are read in
// the caller's location.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// wireRecord is the backend JSON shape.
type wireRecord struct {
	ID          looseString `json:"id_Detail"`
	Timestamp   string      `json:"tanggal_Transaksi"`
	Customer    string      `json:"nama_Customer"`
	KebabName   string      `json:"nama_Kebab"`
	SnackName   string      `json:"nama_Snack"`
	PackageName string      `json:"nama_Paket"`
	DrinkName   string      `json:"nama_Minuman"`
	Quantity    looseNumber `json:"jumlah"`
	Total       looseNumber `json:"total_Harga"`
}

// looseNumber accepts 12, 12.5, "12" and "12.5".
type looseNumber struct {
	raw   string
	value decimal.Decimal
	set   bool
}

func (n *looseNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	text := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return nil
		}
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrMalformedNumber, text)
	}
	n.raw, n.value, n.set = text, d, true
	return nil
}

// looseString accepts both 7 and "7".
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	*s = looseString(data)
	return nil
}

// Decode reads a JSON array of backend records.
//
// Numeric fields must be numeric (or numeric strings) and quantities must be
// whole numbers; anything else fails the whole batch. Records that are
// well-typed but suspicious are kept and reported as issues.
func Decode(r io.Reader, loc *time.Location) ([]Record, []*Issue, error) {
	if loc == nil {
		loc = time.Local
	}

	var wire []wireRecord
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, nil, fmt.Errorf("failed to decode transactions: %w", err)
	}

	records := make([]Record, 0, len(wire))
	var issues []*Issue

	for i, w := range wire {
		rec, recIssues, err := w.toRecord(i, loc)
		if err != nil {
			return nil, nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
		issues = append(issues, recIssues...)
	}

	issues = append(issues, Check(records)...)
	return records, issues, nil
}

func (w wireRecord) toRecord(index int, loc *time.Location) (Record, []*Issue, error) {
	rec := Record{
		ID:           string(w.ID),
		RawTimestamp: strings.TrimSpace(w.Timestamp),
		Customer:     w.Customer,
		Total:        w.Total.value,
	}

	if w.Quantity.set {
		if !w.Quantity.value.IsInteger() {
			return Record{}, nil, fmt.Errorf("%w: quantity %q is not a whole number", ErrMalformedNumber, w.Quantity.raw)
		}
		rec.Quantity = int(w.Quantity.value.IntPart())
	}

	var issues []*Issue

	if rec.RawTimestamp != "" {
		ts, err := ParseTimestamp(rec.RawTimestamp, loc)
		if err != nil {
			issues = append(issues, &Issue{
				Severity: SeverityWarning,
				Field:    "tanggal_Transaksi",
				Value:    rec.RawTimestamp,
				Message:  "unparseable timestamp",
				RecordID: rec.ID,
				Index:    index,
			})
		} else {
			rec.Timestamp = ts
		}
	}

	names := []ProductRef{
		{Kind: KindKebab, Name: w.KebabName},
		{Kind: KindSnack, Name: w.SnackName},
		{Kind: KindPackage, Name: w.PackageName},
		{Kind: KindDrink, Name: w.DrinkName},
	}
	populated := 0
	for _, ref := range names {
		if strings.TrimSpace(ref.Name) == "" {
			continue
		}
		populated++
		if rec.Product.IsZero() {
			rec.Product = ref
		}
	}
	if populated > 1 {
		issues = append(issues, &Issue{
			Severity: SeverityWarning,
			Field:    "product",
			Value:    rec.Product.Name,
			Message:  fmt.Sprintf("%d product names populated, using %s", populated, rec.Product.Kind),
			RecordID: rec.ID,
			Index:    index,
		})
	}

	return rec, issues, nil
}

// ParseTimestamp parses the backend's ISO timestamps. Values without a zone
// are interpreted in loc.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", value)
}
