package models

import (
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// UserFood is a dish a user created, usable inside plans with source "user".
type UserFood struct {
	ID          uuid.UUID        `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID      uuid.UUID        `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name        string           `gorm:"size:255;not null" json:"name"`
	Cal         float64          `gorm:"type:float" json:"cal"`
	Carb        float64          `gorm:"type:float" json:"carb"`
	Fat         float64          `gorm:"type:float" json:"fat"`
	Protein     float64          `gorm:"type:float" json:"protein"`
	Serving     string           `gorm:"size:100" json:"serving"`
	Ingredients JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	ImageKey    string           `gorm:"size:255" json:"-"`
	Embedding   pgvector.Vector  `gorm:"type:vector(3)" json:"-"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (f *UserFood) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
