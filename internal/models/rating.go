package models

import "time"

// One rating per (user, store) pair, enforced by the composite unique index.
type Rating struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"not null;uniqueIndex:idx_ratings_user_store" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	StoreID uint  `gorm:"not null;uniqueIndex:idx_ratings_user_store" json:"store_id"`
	Store   Store `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Value int `gorm:"column:rating;not null" json:"rating"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
