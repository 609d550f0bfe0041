package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/types"
)

// PlannerHandler serves nutrition targets, meal plans and dish suggestions.
type PlannerHandler struct {
	planner service.IPlannerService
}

func NewPlannerHandler(planner service.IPlannerService) *PlannerHandler {
	return &PlannerHandler{planner: planner}
}

func (h *PlannerHandler) GetRecommendation(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	rec, err := h.planner.Recommend(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *PlannerHandler) GeneratePlan(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var prefs nutrition.PlanPreferences
	// an empty body asks for the defaults
	if err := c.ShouldBindJSON(&prefs); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	result, err := h.planner.GeneratePlan(c.Request.Context(), userID, prefs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *PlannerHandler) GetDraft(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	result, err := h.planner.GetDraft(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *PlannerHandler) SaveDraft(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	plan, err := h.planner.SavePlan(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *PlannerHandler) ListPlans(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	plans, err := h.planner.ListPlans(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

func (h *PlannerHandler) SuggestFood(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var prefs types.FoodSuggestionPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	suggestion, err := h.planner.SuggestFood(c.Request.Context(), userID, prefs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, suggestion)
}
