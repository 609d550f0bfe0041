package service

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/types"
	"gorm.io/gorm"
)

var clockPattern = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)

// MealSettingsService manages each user's meal schedule
type MealSettingsService struct {
	db *gorm.DB
}

var _ IMealSettingsService = (*MealSettingsService)(nil)

func NewMealSettingsService(db *gorm.DB) *MealSettingsService {
	return &MealSettingsService{db: db}
}

// ListSettings returns all rows of the user, active or not, in sort order.
func (s *MealSettingsService) ListSettings(ctx context.Context, userID uuid.UUID) ([]models.MealTimeSetting, error) {
	var settings []models.MealTimeSetting
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sort_order ASC, created_at ASC").
		Find(&settings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list meal settings: %w", err)
	}
	return settings, nil
}

// ReplaceSettings swaps the user's whole schedule in one transaction.
func (s *MealSettingsService) ReplaceSettings(ctx context.Context, userID uuid.UUID, inputs []types.MealSettingInput) ([]models.MealTimeSetting, error) {
	seen := make(map[string]bool, len(inputs))
	settings := make([]models.MealTimeSetting, 0, len(inputs))
	for i, in := range inputs {
		name := strings.TrimSpace(in.MealName)
		if name == "" {
			return nil, fmt.Errorf("%w: meal %d has no name", ErrInvalidMealSetting, i+1)
		}
		folded := strings.ToLower(name)
		if seen[folded] {
			return nil, fmt.Errorf("%w: duplicate meal name %q", ErrInvalidMealSetting, name)
		}
		seen[folded] = true

		if !clockPattern.MatchString(strings.TrimSpace(in.MealTime)) {
			return nil, fmt.Errorf("%w: meal %q has invalid time %q, expected HH:mm", ErrInvalidMealSetting, name, in.MealTime)
		}

		active := true
		if in.IsActive != nil {
			active = *in.IsActive
		}
		sortOrder := in.SortOrder
		if sortOrder == 0 {
			sortOrder = i + 1
		}

		settings = append(settings, models.MealTimeSetting{
			UserID:    userID,
			MealName:  name,
			MealTime:  nutrition.NormalizeMealTime(in.MealTime),
			SortOrder: sortOrder,
			IsActive:  active,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.MealTimeSetting{}).Error; err != nil {
			return err
		}
		if len(settings) == 0 {
			return nil
		}
		return tx.Create(&settings).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to replace meal settings: %w", err)
	}
	return settings, nil
}

// ResolveMealDefinitions returns the user's active meal schedule. Store failures
// degrade to the default three meals rather than failing the request.
func (s *MealSettingsService) ResolveMealDefinitions(ctx context.Context, userID uuid.UUID) nutrition.MealSlots {
	settings, err := s.ListSettings(ctx, userID)
	if err != nil {
		log.Printf("[MealSettingsService] Using default meals for user %s: %v", userID, err)
		return nutrition.DefaultMealSlots()
	}

	rows := make([]nutrition.MealSettingRow, 0, len(settings))
	for _, st := range settings {
		rows = append(rows, nutrition.MealSettingRow{
			MealName:  st.MealName,
			MealTime:  st.MealTime,
			SortOrder: st.SortOrder,
			IsActive:  st.IsActive,
		})
	}
	return nutrition.ResolveMealSlots(rows)
}
