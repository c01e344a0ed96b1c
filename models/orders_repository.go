package models

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrdersRepository struct {
	db *gorm.DB
}

func NewOrdersRepository(db *gorm.DB) *OrdersRepository {
	return &OrdersRepository{
		db: db,
	}
}

// InsertBatch writes order headers and their line items in one transaction.
// Headers are insert-if-absent: an order_id already in the store keeps its
// original customer and date. Items are appended as-is, one row per line.
// A failure rolls back both tables together.
func (r *OrdersRepository) InsertBatch(orders []Order, items []OrderItem) (ordersInserted, itemsAppended int64, err error) {
	err = r.db.Transaction(func(tx *gorm.DB) error {
		if len(orders) > 0 {
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "order_id"}},
				DoNothing: true,
			}).Create(&orders)
			if res.Error != nil {
				return res.Error
			}
			ordersInserted = res.RowsAffected
		}
		if len(items) > 0 {
			res := tx.Create(&items)
			if res.Error != nil {
				return res.Error
			}
			itemsAppended = res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return ordersInserted, itemsAppended, nil
}

func (r *OrdersRepository) GetAllOrders() ([]Order, error) {
	var orders []Order
	if err := r.db.Order("order_id").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrdersRepository) GetAllItems() ([]OrderItem, error) {
	var items []OrderItem
	if err := r.db.Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
