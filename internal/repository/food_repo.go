package repository

import (
	"context"

	"github.com/timmy/foodlens/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FoodRepository reads and seeds the foods table.
type FoodRepository struct {
	db *gorm.DB
}

// NewFoodRepository creates a new FoodRepository.
func NewFoodRepository(db *gorm.DB) *FoodRepository {
	return &FoodRepository{db: db}
}

// ListAll returns every food record ordered by id.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - []domain.FoodRecord: all rows.
//   - error: non-nil if the query fails.
func (r *FoodRepository) ListAll(ctx context.Context) ([]domain.FoodRecord, error) {
	var foods []domain.FoodRecord
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&foods).Error; err != nil {
		return nil, err
	}
	return foods, nil
}

// UpsertBatch inserts records, replacing existing rows with the same id.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - foods: records to write.
//   - batchSize: rows per INSERT statement.
// Returns:
//   - error: non-nil if any batch fails; the whole call runs in one transaction.
func (r *FoodRepository) UpsertBatch(ctx context.Context, foods []domain.FoodRecord, batchSize int) error {
	if len(foods) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).CreateInBatches(foods, batchSize).Error
	})
}

// Count returns the number of rows in the foods table.
func (r *FoodRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.FoodRecord{}).Count(&count).Error
	return count, err
}
