package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxExactInt is the largest integer a float64 represents exactly.
const maxExactInt = 1 << 53

// ProductID is a product identifier in canonical string form.
// Numeric ids arrive as JSON numbers from some clients and as strings from
// others; both decode to the same ProductID.
type ProductID string

// NormalizeID returns the canonical form of a raw identifier.
// Integral numbers ("42", "42.0", " 042 ") collapse to "42"; anything else is trimmed.
func NormalizeID(raw string) ProductID {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return ProductID(s)
	}
	if f == math.Trunc(f) && math.Abs(f) < maxExactInt {
		return ProductID(strconv.FormatInt(int64(f), 10))
	}
	return ProductID(s)
}

func (id ProductID) String() string { return string(id) }

// IsZero reports whether the id is empty.
func (id ProductID) IsZero() bool { return id == "" }

func (id *ProductID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = NormalizeID(s)
		return nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		*id = NormalizeID(string(data))
		return nil
	default:
		return fmt.Errorf("product id: unsupported JSON value %s", data)
	}
}

// Price is an optional amount. WooCommerce sends prices as decimal strings,
// the storefront sends numbers; an absent or unparsable price is unset.
type Price struct {
	Amount float64
	Valid  bool
}

// NewPrice returns a set price.
func NewPrice(amount float64) Price {
	return Price{Amount: amount, Valid: true}
}

// ParsePrice parses a decimal string. Empty or malformed input yields an unset price.
func ParsePrice(s string) Price {
	s = strings.TrimSpace(s)
	if s == "" {
		return Price{}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Price{}
	}
	return NewPrice(f)
}

func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.Amount)
}

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = Price{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = ParsePrice(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		// booleans, objects and the like are treated as a missing price
		*p = Price{}
		return nil
	}
	*p = NewPrice(f)
	return nil
}

// Product is one entry of a store catalog snapshot.
type Product struct {
	ID       ProductID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Price    Price     `json:"price"`
	Currency string    `json:"currency"`
	Stock    *int      `json:"stock,omitempty"`
	Image    string    `json:"image,omitempty"`
	URL      string    `json:"url,omitempty"`
	Enabled  *bool     `json:"enabled,omitempty"`
}

// IsEnabled treats a missing flag as enabled.
func (p Product) IsEnabled() bool {
	return p.Enabled == nil || *p.Enabled
}

// ExcludeProduct returns the catalog without entries whose id equals id.
func ExcludeProduct(catalog []Product, id ProductID) []Product {
	out := make([]Product, 0, len(catalog))
	for _, p := range catalog {
		if p.ID == id {
			continue
		}
		out = append(out, p)
	}
	return out
}

// IndexCatalog maps each id to its first catalog entry.
func IndexCatalog(catalog []Product) map[ProductID]Product {
	idx := make(map[ProductID]Product, len(catalog))
	for _, p := range catalog {
		if p.ID.IsZero() {
			continue
		}
		if _, seen := idx[p.ID]; !seen {
			idx[p.ID] = p
		}
	}
	return idx
}
