package router

import (
	"github.com/gin-gonic/gin"
	"github.com/pageza/nutriplan/backend/internal/api"
	"github.com/pageza/nutriplan/backend/internal/middleware"
	"github.com/pageza/nutriplan/backend/internal/service"
)

// Services bundles everything the route table needs.
type Services struct {
	Auth         service.IAuthService
	Profile      service.IProfileService
	MealSettings service.IMealSettingsService
	Planner      service.IPlannerService
	Foods        service.IFoodService
}

// SetupRouter configures the application routes. limiter may be nil.
func SetupRouter(svcs Services, limiter *middleware.RateLimiter, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), middleware.ErrorHandler())
	router.Use(middleware.CORS(allowedOrigins))

	router.GET("/health", api.HealthCheck)

	authHandler := api.NewAuthHandler(svcs.Auth)
	profileHandler := api.NewProfileHandler(svcs.Profile)
	mealSettingsHandler := api.NewMealSettingsHandler(svcs.MealSettings)
	plannerHandler := api.NewPlannerHandler(svcs.Planner)
	foodHandler := api.NewFoodHandler(svcs.Foods)

	v1 := router.Group("/api/v1")
	v1.GET("/health", api.HealthCheck)

	// Auth routes
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(svcs.Auth))
	llmLimit := limiter.RateLimitMiddleware()
	{
		protected.GET("/profile/biometrics", profileHandler.GetBiometrics)
		protected.PUT("/profile/biometrics", profileHandler.UpdateBiometrics)

		protected.GET("/meal-settings", mealSettingsHandler.GetSettings)
		protected.PUT("/meal-settings", mealSettingsHandler.ReplaceSettings)

		protected.GET("/nutrition/recommendation", plannerHandler.GetRecommendation)

		plans := protected.Group("/meal-plans")
		{
			plans.GET("", plannerHandler.ListPlans)
			plans.POST("/generate", llmLimit, plannerHandler.GeneratePlan)
			plans.GET("/drafts/:id", plannerHandler.GetDraft)
			plans.POST("/drafts/:id/save", plannerHandler.SaveDraft)
		}

		foods := protected.Group("/foods")
		{
			foods.POST("", foodHandler.CreateFood)
			foods.GET("/search", foodHandler.SearchFoods)
			foods.POST("/suggest", llmLimit, plannerHandler.SuggestFood)
		}
	}

	return router
}
