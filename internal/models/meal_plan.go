package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Plan sources.
const (
	PlanSourceAI       = "ai"
	PlanSourceFallback = "fallback"
)

// MealPlan is a saved multi-day plan. The plan body is written atomically as one document.
type MealPlan struct {
	ID             uuid.UUID         `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID         uuid.UUID         `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Duration       int               `gorm:"not null" json:"duration"`
	Source         string            `gorm:"size:16;not null" json:"source"`
	FallbackReason string            `gorm:"size:64" json:"fallback_reason,omitempty"`
	Nutrition      NutritionDocument `gorm:"type:jsonb" json:"nutrition"`
	Plan           PlanDocument      `gorm:"type:jsonb;not null" json:"plan"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	DeletedAt      gorm.DeletedAt    `gorm:"index" json:"-"`
}

func (p *MealPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
