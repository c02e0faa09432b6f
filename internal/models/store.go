package models

import "time"

type Store struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name    string `gorm:"size:255;not null" json:"name"`
	Email   string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Address string `gorm:"size:500;not null" json:"address"`

	OwnerID uint `gorm:"not null" json:"owner_id"`
	Owner   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
