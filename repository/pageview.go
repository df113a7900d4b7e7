package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/goblog/models"
)

// PageViewRepository aggregates page views per day and path.
type PageViewRepository interface {
	Record(ctx context.Context, path string, at time.Time) error
	TotalForPath(ctx context.Context, path string) (int64, error)
}

type pageViewRepository struct {
	db *gorm.DB
}

// NewPageViewRepository creates a new PageViewRepository
func NewPageViewRepository(db *gorm.DB) PageViewRepository {
	return &pageViewRepository{db: db}
}

// Record increments the counter of path for the local day of at.
func (r *pageViewRepository) Record(ctx context.Context, path string, at time.Time) error {
	local := at.In(time.Local)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}, {Name: "path"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("count + 1"), "updated_at": at}),
	}).Create(&models.PageView{Date: day, Path: path, Count: 1, UpdatedAt: at}).Error
}

func (r *pageViewRepository) TotalForPath(ctx context.Context, path string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.PageView{}).
		Where("path = ?", path).
		Select("COALESCE(SUM(count), 0)").
		Scan(&total).Error
	return total, err
}
