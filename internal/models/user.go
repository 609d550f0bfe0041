package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`

	// Biometrics. Stored loosely; ProfileService normalizes them before use.
	BirthYear     int      `json:"birth_year"`
	Weight        float64  `json:"weight"`
	Height        float64  `json:"height"`
	Gender        string   `gorm:"size:16" json:"gender"`
	BodyFat       string   `gorm:"size:16" json:"body_fat"`
	TargetGoal    string   `gorm:"size:16" json:"target_goal"`
	TargetWeight  *float64 `json:"target_weight"`
	ActivityLevel string   `gorm:"size:16" json:"activity_level"`

	// DietaryRestrictions is a comma-separated list, e.g. "no pork, lactose free".
	DietaryRestrictions string `gorm:"type:text" json:"dietary_restrictions"`
	EatingType          string `gorm:"size:32" json:"eating_type"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
