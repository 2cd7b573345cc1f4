package models

import "time"

// Order is a buyer's purchase event: an identifier, a buyer id (the
// "contragent"), and a non-empty set of product ids. Immutable.
// Quantities and prices are not modeled.
type Order struct {
	OID       string    `gorm:"primaryKey;column:oid"`
	UID       string    `gorm:"column:uid;index"`
	PlacedAt  time.Time `gorm:"column:placed_at;index"`
	Products  []OrderProduct `gorm:"foreignKey:OID;references:OID"`
}

// TableName overrides gorm's pluralization to keep the schema name
// stable.
func (Order) TableName() string { return "orders" }

// ProductIDs returns the flat list of product ids this order contains.
func (o Order) ProductIDs() []string {
	ids := make([]string, len(o.Products))
	for i, p := range o.Products {
		ids[i] = p.PID
	}
	return ids
}

// OrderProduct is the order-to-product join row. Quantities and
// prices are intentionally not modeled; the core only cares about set
// membership.
type OrderProduct struct {
	OID string `gorm:"primaryKey;column:oid"`
	PID string `gorm:"primaryKey;column:pid;index"`
}

// TableName overrides gorm's pluralization to keep the schema name
// stable.
func (OrderProduct) TableName() string { return "order_products" }
