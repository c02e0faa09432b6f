package repository

import (
	"context"

	"github.com/ratehub/store-rating-api/internal/models"
	"github.com/ratehub/store-rating-api/internal/store"
)

const storeStatsSelect = `stores.*,
	u.name AS owner_name,
	COALESCE(AVG(r.rating), 0) AS average_rating,
	COUNT(r.rating) AS total_ratings`

func (g *GormStore) CreateStore(ctx context.Context, s *models.Store) error {
	return translate(g.db.WithContext(ctx).Create(s).Error)
}

func (g *GormStore) GetStoreByID(ctx context.Context, id uint) (*store.StoreWithStats, error) {
	var row store.StoreWithStats
	res := g.db.WithContext(ctx).
		Model(&models.Store{}).
		Select(storeStatsSelect).
		Joins("LEFT JOIN users u ON stores.owner_id = u.id").
		Joins("LEFT JOIN ratings r ON stores.id = r.store_id").
		Where("stores.id = ?", id).
		Group("stores.id, u.name").
		Scan(&row)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 || row.ID == 0 {
		return nil, store.ErrNotFound
	}
	return &row, nil
}

func (g *GormStore) ListStores(ctx context.Context) ([]store.StoreWithStats, error) {
	var rows []store.StoreWithStats
	err := g.db.WithContext(ctx).
		Model(&models.Store{}).
		Select(storeStatsSelect).
		Joins("LEFT JOIN users u ON stores.owner_id = u.id").
		Joins("LEFT JOIN ratings r ON stores.id = r.store_id").
		Group("stores.id, u.name").
		Order("stores.name").
		Scan(&rows).Error
	return rows, translate(err)
}

func (g *GormStore) ListStoresByOwner(ctx context.Context, ownerID uint) ([]store.StoreWithStats, error) {
	var rows []store.StoreWithStats
	err := g.db.WithContext(ctx).
		Model(&models.Store{}).
		Select(`stores.*,
			COALESCE(AVG(r.rating), 0) AS average_rating,
			COUNT(r.rating) AS total_ratings`).
		Joins("LEFT JOIN ratings r ON stores.id = r.store_id").
		Where("stores.owner_id = ?", ownerID).
		Group("stores.id").
		Order("stores.name").
		Scan(&rows).Error
	return rows, translate(err)
}

func (g *GormStore) ListStoresWithUserRating(ctx context.Context, userID uint) ([]store.StoreWithStats, error) {
	var rows []store.StoreWithStats
	err := g.db.WithContext(ctx).
		Model(&models.Store{}).
		Select(storeStatsSelect+", ur.rating AS user_rating").
		Joins("LEFT JOIN users u ON stores.owner_id = u.id").
		Joins("LEFT JOIN ratings r ON stores.id = r.store_id").
		Joins("LEFT JOIN ratings ur ON stores.id = ur.store_id AND ur.user_id = ?", userID).
		Group("stores.id, u.name, ur.rating").
		Order("stores.name").
		Scan(&rows).Error
	return rows, translate(err)
}

func (g *GormStore) SearchStores(ctx context.Context, term string) ([]store.StoreWithStats, error) {
	pattern := "%" + term + "%"
	var rows []store.StoreWithStats
	err := g.db.WithContext(ctx).
		Model(&models.Store{}).
		Select(storeStatsSelect).
		Joins("LEFT JOIN users u ON stores.owner_id = u.id").
		Joins("LEFT JOIN ratings r ON stores.id = r.store_id").
		Where("stores.name ILIKE ? OR stores.address ILIKE ?", pattern, pattern).
		Group("stores.id, u.name").
		Order("stores.name").
		Scan(&rows).Error
	return rows, translate(err)
}

// UpdateStore touches name/email/address only; ownership is immutable
// after creation.
func (g *GormStore) UpdateStore(ctx context.Context, s *models.Store) error {
	res := g.db.WithContext(ctx).
		Model(&models.Store{}).
		Where("id = ?", s.ID).
		Updates(map[string]any{
			"name":    s.Name,
			"email":   s.Email,
			"address": s.Address,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return translate(g.db.WithContext(ctx).First(s, s.ID).Error)
}

func (g *GormStore) DeleteStore(ctx context.Context, id uint) error {
	res := g.db.WithContext(ctx).Delete(&models.Store{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
