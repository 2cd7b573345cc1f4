package models

import (
	"encoding/json"
	"time"
)

// AttributeType tags the kind of value carried in a Product's dynamic
// attribute map, so the optional feature extractor can coerce each
// entry to a double before imputation (per the numeric/boolean/text
// union named in design notes).
type AttributeType string

const (
	AttributeNumeric AttributeType = "numeric"
	AttributeBoolean AttributeType = "boolean"
	AttributeText    AttributeType = "text"
)

// AttributeValue is a single tagged attribute entry on a Product.
type AttributeValue struct {
	Type AttributeType `json:"type"`
	Num  float64       `json:"num,omitempty"`
	Bool bool          `json:"bool,omitempty"`
	Text string        `json:"text,omitempty"`
}

// Coerce returns the attribute's value coerced to a double, for
// feature-vector construction. Text attributes coerce to 0.
func (a AttributeValue) Coerce() float64 {
	switch a.Type {
	case AttributeNumeric:
		return a.Num
	case AttributeBoolean:
		if a.Bool {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// Product is an opaque catalog entry, immutable for the duration of a
// batch. Quantities and prices are not modeled — the core never reads
// them.
type Product struct {
	PID        string `gorm:"primaryKey;column:pid"`
	Category   string `gorm:"column:category"`
	Attributes string `gorm:"column:attributes"` // JSON-encoded map[string]AttributeValue
	CreatedAt  time.Time
}

// TableName overrides gorm's pluralization to keep the schema name
// stable.
func (Product) TableName() string { return "products" }

// GetAttributes decodes the JSON-encoded attribute map.
func (p *Product) GetAttributes() (map[string]AttributeValue, error) {
	if p.Attributes == "" {
		return map[string]AttributeValue{}, nil
	}
	var out map[string]AttributeValue
	if err := json.Unmarshal([]byte(p.Attributes), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetAttributes encodes and stores the attribute map.
func (p *Product) SetAttributes(attrs map[string]AttributeValue) error {
	data, err := json.Marshal(attrs)
	if err != nil {
		return err
	}
	p.Attributes = string(data)
	return nil
}
