// =============================================================================
// Kebab Dashboard - Catalog
// =============================================================================
//
// The catalog is the four product lists the backend manages: kebabs, snacks,
// drinks and meal packages. Every edit screen works the same way:
//
//   1. The form is opened in a FormMode: Creating, or Editing(id).
//   2. Validate rejects empty required fields locally (ErrMissingField).
//      Nothing is sent to the backend in that case.
//   3. Payload builds the request body for the mode; Editing adds the id.
//   4. The Service posts (create) or puts (update) it.
//
// The backend's field names are not consistent between resources
// (nama_Kebab, namaSnack, nama_Minuman, nama_Paket). Payloads always use the
// one name per resource listed on each model; decoding also accepts the
// variants seen in older responses.
//
// =============================================================================

package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrMissingField is returned when a required form field is empty.
	ErrMissingField = errors.New("all fields are required")

	// ErrUnknownReference is returned when a package names a kebab, snack
	// or drink that does not exist.
	ErrUnknownReference = errors.New("unknown catalog item")

	// ErrUnknownResource is returned for a resource name outside the catalog.
	ErrUnknownResource = errors.New("unknown catalog resource")
)

// FieldError names the first empty required field.
type FieldError struct {
	Resource string
	Field    string
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: field '%s' is required", e.Resource, e.Field)
}

// Unwrap returns ErrMissingField.
func (e *FieldError) Unwrap() error {
	return ErrMissingField
}

// =============================================================================
// FORM MODE
// =============================================================================

// FormMode is Creating or Editing(id).
type FormMode struct {
	editing bool
	id      int64
}

// Creating is the mode of a form for a new item.
func Creating() FormMode {
	return FormMode{}
}

// Editing is the mode of a form for the existing item id.
func Editing(id int64) FormMode {
	return FormMode{editing: true, id: id}
}

// ID returns the edited item id, or false when creating.
func (m FormMode) ID() (int64, bool) {
	return m.id, m.editing
}

// String returns "creating" or "editing(<id>)".
func (m FormMode) String() string {
	if m.editing {
		return fmt.Sprintf("editing(%d)", m.id)
	}
	return "creating"
}

// =============================================================================
// RESOURCES
// =============================================================================

// Backend resource names.
const (
	ResourceKebab   = "Kebab"
	ResourceSnack   = "Snack"
	ResourceDrink   = "Drink"
	ResourcePackage = "PaketMakanan"
)

// Resources lists the catalog resources in menu order.
var Resources = []string{ResourceKebab, ResourceSnack, ResourceDrink, ResourcePackage}

// ParseResource maps a URL slug ("kebab", "snack", "drink", "paket") or a
// backend resource name to the backend resource name.
func ParseResource(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kebab":
		return ResourceKebab, nil
	case "snack":
		return ResourceSnack, nil
	case "drink", "minuman":
		return ResourceDrink, nil
	case "paket", "paketmakanan", "package":
		return ResourcePackage, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownResource, s)
	}
}

// Item is one editable catalog entry.
type Item interface {
	// Resource is the backend resource name.
	Resource() string

	// Validate returns a *FieldError for the first empty required field.
	Validate() error

	// Payload is the request body for mode.
	Payload(mode FormMode) map[string]any
}

// NewItem returns an empty item for resource, ready to be decoded into.
func NewItem(resource string) (Item, error) {
	switch resource {
	case ResourceKebab:
		return &Kebab{}, nil
	case ResourceSnack:
		return &Snack{}, nil
	case ResourceDrink:
		return &Drink{}, nil
	case ResourcePackage:
		return &Package{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownResource, resource)
	}
}

// required checks fields in order and reports the first empty one.
type required struct {
	resource string
	err      error
}

func (r *required) text(field, value string) *required {
	if r.err == nil && strings.TrimSpace(value) == "" {
		r.err = &FieldError{Resource: r.resource, Field: field}
	}
	return r
}

// amount treats zero as empty, like an untouched form field.
func (r *required) amount(field string, value decimal.Decimal) *required {
	if r.err == nil && value.IsZero() {
		r.err = &FieldError{Resource: r.resource, Field: field}
	}
	return r
}

func (r *required) count(field string, value int) *required {
	if r.err == nil && value == 0 {
		r.err = &FieldError{Resource: r.resource, Field: field}
	}
	return r
}

func (r *required) id(field string, value int64) *required {
	if r.err == nil && value == 0 {
		r.err = &FieldError{Resource: r.resource, Field: field}
	}
	return r
}

// number renders a decimal as a bare JSON number.
func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
