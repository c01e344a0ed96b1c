package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Product is one harmonized catalog product. Exactly one live row exists per
// ProductID; an upsert refreshes every column except the id itself.
type Product struct {
	ProductID    string              `gorm:"primaryKey"`
	Name         string              `gorm:"not null"`
	Category     sql.NullString
	Brand        sql.NullString
	Price        decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	Rating       decimal.NullDecimal `gorm:"type:decimal(4,2)"`
	ReviewsCount int                 `gorm:"not null;default:0"`
}

func (p *Product) TableName() string {
	return "products"
}
