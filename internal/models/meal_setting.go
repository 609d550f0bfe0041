package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MealTimeSetting is one configured meal slot of a user.
type MealTimeSetting struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	MealName  string    `gorm:"size:100;not null" json:"meal_name"`
	MealTime  string    `gorm:"size:8;not null" json:"meal_time"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	IsActive  bool      `gorm:"not null" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *MealTimeSetting) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
