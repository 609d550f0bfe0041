package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/testhelpers"
	"github.com/pageza/nutriplan/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSnapshot(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	user := testhelpers.CreateTestUser(t, db, "snap@example.com")
	svc := service.NewProfileService(db)

	snap, err := svc.GetSnapshot(context.Background(), user.ID)
	require.NoError(t, err)

	expectedAge := nutrition.AgeFromBirthYear(user.BirthYear, time.Now())
	assert.Equal(t, expectedAge, snap.Profile.Age)
	assert.Equal(t, 70.0, snap.Profile.Weight)
	assert.Equal(t, 170.0, snap.Profile.Height)
	assert.Equal(t, nutrition.GenderMale, snap.Profile.Gender)
	assert.Equal(t, nutrition.GoalHealthy, snap.Profile.TargetGoal)
	assert.Equal(t, nutrition.ActivityModerate, snap.Profile.ActivityLevel)
	assert.Equal(t, []string{"no pork", "lactose free"}, snap.DietaryRestrictions)
	assert.Equal(t, "omnivore", snap.EatingType)
}

func TestGetSnapshotTargetWeight(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	user := testhelpers.CreateTestUser(t, db, "target@example.com")
	svc := service.NewProfileService(db)
	ctx := context.Background()

	// healthy ignores the stored target
	target := 60.0
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{"target_weight": target}).Error)
	snap, err := svc.GetSnapshot(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 70.0, snap.Profile.TargetWeight)

	require.NoError(t, db.Model(user).Updates(map[string]interface{}{"target_goal": "decrease"}).Error)
	snap, err = svc.GetSnapshot(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, nutrition.GoalDecrease, snap.Profile.TargetGoal)
	assert.Equal(t, 60.0, snap.Profile.TargetWeight)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("target_weight", nil).Error)
	snap, err = svc.GetSnapshot(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 70.0, snap.Profile.TargetWeight)
}

func TestGetSnapshotDefaultsUnknownEnums(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	user := testhelpers.CreateTestUser(t, db, "enums@example.com")
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{
		"activity_level": "couch",
		"target_goal":    "bulk",
		"body_fat":       "",
		"gender":         "",
	}).Error)

	snap, err := service.NewProfileService(db).GetSnapshot(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, nutrition.ActivityModerate, snap.Profile.ActivityLevel)
	assert.Equal(t, nutrition.GoalHealthy, snap.Profile.TargetGoal)
	assert.Equal(t, nutrition.BodyFatUnknown, snap.Profile.BodyFat)
	assert.Equal(t, nutrition.GenderOther, snap.Profile.Gender)
}

func TestGetSnapshotIncompleteProfile(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := service.NewProfileService(db)

	for field, column := range map[string]string{"weight": "weight", "height": "height", "birth_year": "birth_year"} {
		t.Run(field, func(t *testing.T) {
			user := testhelpers.CreateTestUser(t, db, field+"@example.com")
			require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update(column, 0).Error)

			_, err := svc.GetSnapshot(context.Background(), user.ID)
			var cfgErr *nutrition.ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, field, cfgErr.Field)
		})
	}
}

func TestGetSnapshotUnknownUser(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	_, err := service.NewProfileService(db).GetSnapshot(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestUpdateBiometrics(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	user := testhelpers.CreateTestUser(t, db, "update@example.com")
	svc := service.NewProfileService(db)

	weight := 82.5
	goal := "Decrease"
	activity := "very_high"
	updated, err := svc.UpdateBiometrics(context.Background(), user.ID, &types.BiometricsRequest{
		Weight:              &weight,
		TargetGoal:          &goal,
		ActivityLevel:       &activity,
		DietaryRestrictions: []string{" halal ", "", "no shellfish"},
	})
	require.NoError(t, err)
	assert.Equal(t, 82.5, updated.Weight)
	assert.Equal(t, "decrease", updated.TargetGoal)
	assert.Equal(t, "very_high", updated.ActivityLevel)
	assert.Equal(t, "halal, no shellfish", updated.DietaryRestrictions)
	assert.Equal(t, 170.0, updated.Height)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, 82.5, stored.Weight)
}
