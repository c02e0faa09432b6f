package repository

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/ratehub/store-rating-api/internal/domain/rating"
	"github.com/ratehub/store-rating-api/internal/models"
	"github.com/ratehub/store-rating-api/internal/store"
)

// UpsertRating is a single atomic INSERT ... ON CONFLICT keyed by the
// (user_id, store_id) unique index, so concurrent first submissions for
// the same pair cannot produce duplicates.
func (g *GormStore) UpsertRating(ctx context.Context, userID, storeID uint, value int) (*models.Rating, error) {
	row := models.Rating{
		UserID:  userID,
		StoreID: storeID,
		Value:   value,
	}
	err := g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "store_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"rating":     value,
				"updated_at": time.Now(),
			}),
		}).
		Create(&row).Error
	if err != nil {
		return nil, translate(err)
	}

	// Re-read so the returned row carries the surviving id and timestamps.
	return g.GetRating(ctx, userID, storeID)
}

func (g *GormStore) GetRating(ctx context.Context, userID, storeID uint) (*models.Rating, error) {
	var row models.Rating
	if err := g.db.WithContext(ctx).
		Where("user_id = ? AND store_id = ?", userID, storeID).
		First(&row).Error; err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

func (g *GormStore) DeleteRating(ctx context.Context, userID, storeID uint) (*models.Rating, error) {
	row, err := g.GetRating(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}
	if err := g.db.WithContext(ctx).Delete(&models.Rating{}, row.ID).Error; err != nil {
		return nil, translate(err)
	}
	return row, nil
}

func (g *GormStore) ListRatings(ctx context.Context) ([]store.RatingDetail, error) {
	var rows []store.RatingDetail
	err := g.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select(`ratings.*,
			u.name AS user_name,
			u.email AS user_email,
			s.name AS store_name,
			s.address AS store_address`).
		Joins("JOIN users u ON ratings.user_id = u.id").
		Joins("JOIN stores s ON ratings.store_id = s.id").
		Order("ratings.created_at DESC").
		Scan(&rows).Error
	return rows, translate(err)
}

func (g *GormStore) ListRatingsByStore(ctx context.Context, storeID uint) ([]store.RatingDetail, error) {
	var rows []store.RatingDetail
	err := g.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select("ratings.*, u.name AS user_name, u.email AS user_email").
		Joins("JOIN users u ON ratings.user_id = u.id").
		Where("ratings.store_id = ?", storeID).
		Order("ratings.created_at DESC").
		Scan(&rows).Error
	return rows, translate(err)
}

func (g *GormStore) ListRatingsByUser(ctx context.Context, userID uint) ([]store.RatingDetail, error) {
	var rows []store.RatingDetail
	err := g.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select("ratings.*, s.name AS store_name, s.address AS store_address").
		Joins("JOIN stores s ON ratings.store_id = s.id").
		Where("ratings.user_id = ?", userID).
		Order("ratings.created_at DESC").
		Scan(&rows).Error
	return rows, translate(err)
}

func (g *GormStore) StoreStats(ctx context.Context, storeID uint) (*rating.StoreStats, error) {
	var stats rating.StoreStats
	err := g.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select(`COUNT(*) AS total_ratings,
			COALESCE(AVG(rating), 0) AS average_rating,
			COUNT(CASE WHEN rating = 5 THEN 1 END) AS five_star,
			COUNT(CASE WHEN rating = 4 THEN 1 END) AS four_star,
			COUNT(CASE WHEN rating = 3 THEN 1 END) AS three_star,
			COUNT(CASE WHEN rating = 2 THEN 1 END) AS two_star,
			COUNT(CASE WHEN rating = 1 THEN 1 END) AS one_star`).
		Where("store_id = ?", storeID).
		Scan(&stats).Error
	if err != nil {
		return nil, translate(err)
	}
	return &stats, nil
}

func (g *GormStore) SystemStats(ctx context.Context) (*rating.SystemStats, error) {
	var stats rating.SystemStats
	err := g.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select(`COUNT(*) AS total_ratings,
			COALESCE(AVG(rating), 0) AS overall_average,
			COUNT(DISTINCT store_id) AS rated_stores,
			COUNT(DISTINCT user_id) AS active_raters`).
		Scan(&stats).Error
	if err != nil {
		return nil, translate(err)
	}
	return &stats, nil
}
