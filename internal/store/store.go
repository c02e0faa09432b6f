package store

import (
	"context"
	"errors"

	"github.com/ratehub/store-rating-api/internal/domain/rating"
	"github.com/ratehub/store-rating-api/internal/models"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// StoreWithStats is a store row annotated with its computed aggregate and,
// when requested for a specific caller, that caller's own rating value.
type StoreWithStats struct {
	models.Store
	OwnerName     string  `json:"owner_name"`
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int64   `json:"total_ratings"`
	UserRating    *int    `json:"user_rating,omitempty"`
}

// UserWithStats annotates store-owner rows with the aggregate over the
// stores they own. Both pointers are nil for non-owner roles.
type UserWithStats struct {
	models.User
	StoreAverageRating *float64 `json:"store_average_rating,omitempty"`
	StoreTotalRatings  *int64   `json:"store_total_ratings,omitempty"`
}

// RatingDetail joins a rating with the names shown in listings.
type RatingDetail struct {
	models.Rating
	UserName     string `json:"user_name,omitempty"`
	UserEmail    string `json:"user_email,omitempty"`
	StoreName    string `json:"store_name,omitempty"`
	StoreAddress string `json:"store_address,omitempty"`
}

type UserStats struct {
	TotalUsers   int64 `json:"total_users"`
	RegularUsers int64 `json:"regular_users"`
	StoreOwners  int64 `json:"store_owners"`
	Admins       int64 `json:"admins"`
}

// Store is the persistence boundary. Two implementations exist: the
// gorm/postgres one and a volatile in-memory demo store; one of them is
// selected at process start.
type Store interface {
	UserStore
	StoreDirectory
	RatingStore
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]UserWithStats, error)
	UpdateUser(ctx context.Context, user *models.User) error
	UpdateUserPassword(ctx context.Context, id uint, passwordHash string) error
	DeleteUser(ctx context.Context, id uint) error
	SearchUsers(ctx context.Context, term string) ([]UserWithStats, error)
	UserStats(ctx context.Context) (*UserStats, error)
}

type StoreDirectory interface {
	CreateStore(ctx context.Context, s *models.Store) error
	GetStoreByID(ctx context.Context, id uint) (*StoreWithStats, error)
	ListStores(ctx context.Context) ([]StoreWithStats, error)
	ListStoresByOwner(ctx context.Context, ownerID uint) ([]StoreWithStats, error)
	ListStoresWithUserRating(ctx context.Context, userID uint) ([]StoreWithStats, error)
	SearchStores(ctx context.Context, term string) ([]StoreWithStats, error)
	UpdateStore(ctx context.Context, s *models.Store) error
	DeleteStore(ctx context.Context, id uint) error
}

type RatingStore interface {
	// UpsertRating inserts or replaces the single rating for the
	// (user, store) pair in one atomic statement.
	UpsertRating(ctx context.Context, userID, storeID uint, value int) (*models.Rating, error)
	GetRating(ctx context.Context, userID, storeID uint) (*models.Rating, error)
	DeleteRating(ctx context.Context, userID, storeID uint) (*models.Rating, error)
	ListRatings(ctx context.Context) ([]RatingDetail, error)
	ListRatingsByStore(ctx context.Context, storeID uint) ([]RatingDetail, error)
	ListRatingsByUser(ctx context.Context, userID uint) ([]RatingDetail, error)
	StoreStats(ctx context.Context, storeID uint) (*rating.StoreStats, error)
	SystemStats(ctx context.Context) (*rating.SystemStats, error)
}
