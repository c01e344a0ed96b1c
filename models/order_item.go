package models

import "github.com/shopspring/decimal"

// OrderItem is one order line. The table is append-only; there is no update
// or delete path. ProductID is a weak reference: it may point at a product
// that was never part of any catalog batch.
//
// UnitPriceAtOrder is the product's price captured at insertion time. It is
// never recomputed from the current catalog price.
type OrderItem struct {
	ID               uint            `gorm:"primaryKey"`
	OrderID          string          `gorm:"not null;index"`
	ProductID        string          `gorm:"not null;index"`
	Quantity         int             `gorm:"not null"`
	UnitPriceAtOrder decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (i *OrderItem) TableName() string {
	return "order_items"
}
