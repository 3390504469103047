package catalog

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// =============================================================================
// KEBAB
// =============================================================================

// Kebab is a kebab menu entry.
type Kebab struct {
	ID       int64           `json:"id_Kebab"`
	Name     string          `json:"nama_Kebab"`
	Price    decimal.Decimal `json:"harga"`
	Size     string          `json:"size"`
	Level    int             `json:"level"`
	Stock    int             `json:"stock"`
	ImageURL string          `json:"imageUrl"`
}

// Resource implements Item.
func (k Kebab) Resource() string { return ResourceKebab }

// Validate implements Item. Level 0 is a valid spice level.
func (k Kebab) Validate() error {
	r := &required{resource: "kebab"}
	return r.text("nama_Kebab", k.Name).
		amount("harga", k.Price).
		text("size", k.Size).
		count("stock", k.Stock).
		text("imageUrl", k.ImageURL).err
}

// Payload implements Item.
func (k Kebab) Payload(mode FormMode) map[string]any {
	p := map[string]any{
		"nama_Kebab": k.Name,
		"harga":      number(k.Price),
		"size":       k.Size,
		"level":      k.Level,
		"stock":      k.Stock,
		"imageUrl":   k.ImageURL,
	}
	if id, ok := mode.ID(); ok {
		p["id_Kebab"] = id
	}
	return p
}

// =============================================================================
// SNACK
// =============================================================================

// Snack is a side dish. Payloads use "namaSnack".
type Snack struct {
	ID    int64           `json:"id_Snack"`
	Name  string          `json:"namaSnack"`
	Price decimal.Decimal `json:"harga"`
	Stock int             `json:"stock"`
	Image string          `json:"image"`
}

// UnmarshalJSON also accepts "nama_Snack".
func (s *Snack) UnmarshalJSON(data []byte) error {
	type plain Snack
	var v struct {
		plain
		AltName string `json:"nama_Snack"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Snack(v.plain)
	if s.Name == "" {
		s.Name = v.AltName
	}
	return nil
}

// Resource implements Item.
func (s Snack) Resource() string { return ResourceSnack }

// Validate implements Item.
func (s Snack) Validate() error {
	r := &required{resource: "snack"}
	return r.text("namaSnack", s.Name).
		amount("harga", s.Price).
		count("stock", s.Stock).
		text("image", s.Image).err
}

// Payload implements Item.
func (s Snack) Payload(mode FormMode) map[string]any {
	p := map[string]any{
		"namaSnack": s.Name,
		"harga":     number(s.Price),
		"stock":     s.Stock,
		"image":     s.Image,
	}
	if id, ok := mode.ID(); ok {
		p["id_Snack"] = id
	}
	return p
}

// =============================================================================
// DRINK
// =============================================================================

// Drink is a beverage. Payloads use "nama_Minuman".
type Drink struct {
	ID          int64           `json:"id_Drink"`
	Name        string          `json:"nama_Minuman"`
	Price       decimal.Decimal `json:"harga"`
	Temperature string          `json:"suhu"`
	Stock       int             `json:"stock"`
	Image       string          `json:"image"`
}

// UnmarshalJSON also accepts "namaMinuman".
func (d *Drink) UnmarshalJSON(data []byte) error {
	type plain Drink
	var v struct {
		plain
		AltName string `json:"namaMinuman"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*d = Drink(v.plain)
	if d.Name == "" {
		d.Name = v.AltName
	}
	return nil
}

// Resource implements Item.
func (d Drink) Resource() string { return ResourceDrink }

// Validate implements Item. The image is optional.
func (d Drink) Validate() error {
	r := &required{resource: "drink"}
	return r.text("nama_Minuman", d.Name).
		amount("harga", d.Price).
		text("suhu", d.Temperature).
		count("stock", d.Stock).err
}

// Payload implements Item.
func (d Drink) Payload(mode FormMode) map[string]any {
	p := map[string]any{
		"nama_Minuman": d.Name,
		"harga":        number(d.Price),
		"suhu":         d.Temperature,
		"stock":        d.Stock,
		"image":        d.Image,
	}
	if id, ok := mode.ID(); ok {
		p["id_Drink"] = id
	}
	return p
}

// =============================================================================
// PACKAGE
// =============================================================================

// Package bundles one kebab, one snack and one drink at a discount.
//
// The form picks the components by name; KebabName, SnackName and DrinkName
// carry that choice until the Service resolves them to ids.
type Package struct {
	ID       int64           `json:"id_Paket"`
	Name     string          `json:"nama_Paket"`
	KebabID  int64           `json:"id_Kebab"`
	SnackID  int64           `json:"id_Snack"`
	DrinkID  int64           `json:"id_Drink"`
	Price    decimal.Decimal `json:"harga_Paket"`
	Discount decimal.Decimal `json:"diskon"`
	Stock    int             `json:"stok"`
	Image    string          `json:"image"`

	KebabName string `json:"nama_Kebab,omitempty"`
	SnackName string `json:"nama_Snack,omitempty"`
	DrinkName string `json:"nama_Minuman,omitempty"`
}

// PriceAfterDiscount is price - price*discount/100.
func (p Package) PriceAfterDiscount() decimal.Decimal {
	return p.Price.Sub(p.Price.Mul(p.Discount).Div(decimal.NewFromInt(100)))
}

// Resource implements Item.
func (p Package) Resource() string { return ResourcePackage }

// Validate implements Item. Components may be given by id or by name.
func (p Package) Validate() error {
	r := &required{resource: "paket"}
	r.text("nama_Paket", p.Name).amount("harga_Paket", p.Price)
	if p.KebabName == "" {
		r.id("id_Kebab", p.KebabID)
	}
	if p.SnackName == "" {
		r.id("id_Snack", p.SnackID)
	}
	if p.DrinkName == "" {
		r.id("id_Drink", p.DrinkID)
	}
	return r.err
}

// Payload implements Item.
func (p Package) Payload(mode FormMode) map[string]any {
	payload := map[string]any{
		"nama_Paket":               p.Name,
		"id_Kebab":                 p.KebabID,
		"id_Snack":                 p.SnackID,
		"id_Drink":                 p.DrinkID,
		"harga_Paket":              number(p.Price),
		"diskon":                   number(p.Discount),
		"harga_Paket_After_Diskon": number(p.PriceAfterDiscount()),
		"stok":                     p.Stock,
		"image":                    p.Image,
	}
	if id, ok := mode.ID(); ok {
		payload["id_Paket"] = id
	}
	return payload
}
