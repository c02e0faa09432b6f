package repository

import (
	"context"

	"github.com/ratehub/store-rating-api/internal/models"
	"github.com/ratehub/store-rating-api/internal/store"
)

// Store-owner rows are annotated with the aggregate over the stores they
// own; the CASE keeps the columns NULL for other roles.
const userStatsSelect = `users.*,
	CASE WHEN users.role = 'store_owner' THEN COALESCE(AVG(r.rating), 0) END AS store_average_rating,
	CASE WHEN users.role = 'store_owner' THEN COUNT(r.rating) END AS store_total_ratings`

func (g *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	return translate(g.db.WithContext(ctx).Create(user).Error)
}

func (g *GormStore) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := g.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (g *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := g.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (g *GormStore) ListUsers(ctx context.Context) ([]store.UserWithStats, error) {
	var users []store.UserWithStats
	err := g.db.WithContext(ctx).
		Model(&models.User{}).
		Select(userStatsSelect).
		Joins("LEFT JOIN stores s ON users.id = s.owner_id").
		Joins("LEFT JOIN ratings r ON s.id = r.store_id").
		Group("users.id").
		Order("users.created_at DESC").
		Scan(&users).Error
	return users, translate(err)
}

func (g *GormStore) UpdateUser(ctx context.Context, user *models.User) error {
	res := g.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"name":    user.Name,
			"email":   user.Email,
			"address": user.Address,
			"role":    user.Role,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return translate(g.db.WithContext(ctx).First(user, user.ID).Error)
}

func (g *GormStore) UpdateUserPassword(ctx context.Context, id uint, passwordHash string) error {
	res := g.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (g *GormStore) DeleteUser(ctx context.Context, id uint) error {
	// Owned stores and their ratings go with the user via the FK cascades.
	res := g.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (g *GormStore) SearchUsers(ctx context.Context, term string) ([]store.UserWithStats, error) {
	pattern := "%" + term + "%"
	var users []store.UserWithStats
	err := g.db.WithContext(ctx).
		Model(&models.User{}).
		Select(userStatsSelect).
		Joins("LEFT JOIN stores s ON users.id = s.owner_id").
		Joins("LEFT JOIN ratings r ON s.id = r.store_id").
		Where("users.name ILIKE ? OR users.email ILIKE ? OR users.address ILIKE ?", pattern, pattern, pattern).
		Group("users.id").
		Order("users.name").
		Scan(&users).Error
	return users, translate(err)
}

func (g *GormStore) UserStats(ctx context.Context) (*store.UserStats, error) {
	var stats store.UserStats
	err := g.db.WithContext(ctx).
		Model(&models.User{}).
		Select(`COUNT(*) AS total_users,
			COUNT(CASE WHEN role = 'user' THEN 1 END) AS regular_users,
			COUNT(CASE WHEN role = 'store_owner' THEN 1 END) AS store_owners,
			COUNT(CASE WHEN role = 'admin' THEN 1 END) AS admins`).
		Scan(&stats).Error
	if err != nil {
		return nil, translate(err)
	}
	return &stats, nil
}
