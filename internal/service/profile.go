package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/types"
	"gorm.io/gorm"
)

// ProfileSnapshot is everything a planning request needs to know about the user.
type ProfileSnapshot struct {
	Profile             nutrition.UserProfileData `json:"profile"`
	DietaryRestrictions []string                  `json:"dietary_restrictions"`
	EatingType          string                    `json:"eating_type"`
}

// ProfileService handles user biometric profile operations
type ProfileService struct {
	db  *gorm.DB
	now func() time.Time
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db, now: time.Now}
}

// GetUser loads a user by ID.
func (s *ProfileService) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// GetSnapshot converts the stored user row into the calculator's profile.
// A missing weight, height or birth year is reported as a *nutrition.ConfigurationError.
func (s *ProfileService) GetSnapshot(ctx context.Context, userID uuid.UUID) (*ProfileSnapshot, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch {
	case user.BirthYear <= 0:
		return nil, &nutrition.ConfigurationError{Field: "birth_year", Reason: "is not set"}
	case user.Weight <= 0:
		return nil, &nutrition.ConfigurationError{Field: "weight", Reason: "is not set"}
	case user.Height <= 0:
		return nil, &nutrition.ConfigurationError{Field: "height", Reason: "is not set"}
	}

	goal := nutrition.ParseGoal(user.TargetGoal)
	targetWeight := user.Weight
	if goal != nutrition.GoalHealthy && user.TargetWeight != nil && *user.TargetWeight > 0 {
		targetWeight = *user.TargetWeight
	}

	return &ProfileSnapshot{
		Profile: nutrition.UserProfileData{
			Age:           nutrition.AgeFromBirthYear(user.BirthYear, s.now()),
			Weight:        user.Weight,
			Height:        user.Height,
			Gender:        nutrition.ParseGender(user.Gender),
			BodyFat:       nutrition.ParseBodyFat(user.BodyFat),
			TargetGoal:    goal,
			TargetWeight:  targetWeight,
			ActivityLevel: nutrition.ParseActivityLevel(user.ActivityLevel),
		},
		DietaryRestrictions: splitRestrictions(user.DietaryRestrictions),
		EatingType:          strings.TrimSpace(user.EatingType),
	}, nil
}

// UpdateBiometrics applies the non-nil fields of req.
func (s *ProfileService) UpdateBiometrics(ctx context.Context, userID uuid.UUID, req *types.BiometricsRequest) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.BirthYear != nil {
		user.BirthYear = *req.BirthYear
	}
	if req.Weight != nil {
		user.Weight = *req.Weight
	}
	if req.Height != nil {
		user.Height = *req.Height
	}
	if req.Gender != nil {
		user.Gender = string(nutrition.ParseGender(*req.Gender))
	}
	if req.BodyFat != nil {
		user.BodyFat = string(nutrition.ParseBodyFat(*req.BodyFat))
	}
	if req.TargetGoal != nil {
		user.TargetGoal = string(nutrition.ParseGoal(*req.TargetGoal))
	}
	if req.TargetWeight != nil {
		user.TargetWeight = req.TargetWeight
	}
	if req.ActivityLevel != nil {
		user.ActivityLevel = string(nutrition.ParseActivityLevel(*req.ActivityLevel))
	}
	if req.DietaryRestrictions != nil {
		user.DietaryRestrictions = strings.Join(splitRestrictions(strings.Join(req.DietaryRestrictions, ",")), ", ")
	}
	if req.EatingType != nil {
		user.EatingType = strings.TrimSpace(*req.EatingType)
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

func splitRestrictions(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
