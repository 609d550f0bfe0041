package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/types"
)

type MealSettingsHandler struct {
	mealSettings service.IMealSettingsService
}

func NewMealSettingsHandler(mealSettings service.IMealSettingsService) *MealSettingsHandler {
	return &MealSettingsHandler{mealSettings: mealSettings}
}

func (h *MealSettingsHandler) GetSettings(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	settings, err := h.mealSettings.ListSettings(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	slots := h.mealSettings.ResolveMealDefinitions(c.Request.Context(), userID)
	c.JSON(http.StatusOK, types.MealSettingsResponse{Settings: settings, Meals: slots.Meals})
}

func (h *MealSettingsHandler) ReplaceSettings(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.MealSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	settings, err := h.mealSettings.ReplaceSettings(c.Request.Context(), userID, req.Settings)
	if err != nil {
		respondError(c, err)
		return
	}
	slots := h.mealSettings.ResolveMealDefinitions(c.Request.Context(), userID)
	c.JSON(http.StatusOK, types.MealSettingsResponse{Settings: settings, Meals: slots.Meals})
}
