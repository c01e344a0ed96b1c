package models

import "time"

// Order is one order header. Rows are insert-if-absent: once stored, an
// order's customer and date are never overwritten by later ingestion runs.
type Order struct {
	OrderID    string    `gorm:"primaryKey"`
	CustomerID string    `gorm:"not null"`
	OrderDate  time.Time `gorm:"not null;index"`
}

func (o *Order) TableName() string {
	return "orders"
}
