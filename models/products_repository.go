package models

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductsRepository struct {
	db *gorm.DB
}

// ErrProductNotFound is returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

// UpsertBatch applies a cleaned catalog batch in a single statement: unseen
// ids are inserted, existing ids have every mutable column refreshed. Either
// the whole batch lands or none of it does.
func (r *ProductsRepository) UpsertBatch(products []Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "category", "brand", "price", "rating", "reviews_count",
		}),
	}).Create(&products).Error
}

func (r *ProductsRepository) GetAll() ([]Product, error) {
	var products []Product
	if err := r.db.Order("product_id").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductsRepository) GetByID(id string) (*Product, error) {
	var product Product
	if err := r.db.
		Where("product_id = ?", id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err // Other DB error
	}
	return &product, nil
}
