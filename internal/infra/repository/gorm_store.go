package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/ratehub/store-rating-api/internal/store"
)

// GormStore is the postgres-backed implementation of store.Store.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// translate maps gorm errors onto the storage sentinel errors so callers
// never see raw driver codes.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return store.ErrDuplicateEmail
	default:
		return err
	}
}
