package api_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/router"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type testAPI struct {
	router *gin.Engine
	db     *gorm.DB
	llm    *testhelpers.FakeLLM
	auth   *service.AuthService
}

func setupAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupSQLiteDB(t)
	llm := &testhelpers.FakeLLM{Err: nutrition.ErrUpstreamUnavailable}
	auth := service.NewAuthService(db, testSecret)
	profiles := service.NewProfileService(db)
	mealSettings := service.NewMealSettingsService(db)
	planner := service.NewPlannerService(db, profiles, mealSettings, llm, testhelpers.NewMemoryDraftStore(), config.PlannerConfig{
		DefaultDuration: 7,
		MaxDuration:     30,
	})

	r := router.SetupRouter(router.Services{
		Auth:         auth,
		Profile:      profiles,
		MealSettings: mealSettings,
		Planner:      planner,
		Foods:        service.NewFoodService(db, nil),
	}, nil, []string{"http://localhost:3000"})

	return &testAPI{router: r, db: db, llm: llm, auth: auth}
}

// login creates a user with a complete profile and returns a bearer token for it.
func (a *testAPI) login(t *testing.T, email string) (*models.User, string) {
	t.Helper()
	user := testhelpers.CreateTestUser(t, a.db, email)
	token, err := a.auth.GenerateToken(user)
	require.NoError(t, err)
	return user, token
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
