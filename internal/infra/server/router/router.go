// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/clinic-finance/backend/internal/integration/entrypoint/controller"
	"github.com/clinic-finance/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                *gin.Engine
	healthController      *controller.HealthController
	categoryController    *controller.CategoryController
	transactionController *controller.TransactionController
	dashboardController   *controller.DashboardController
	assistantController   *controller.AssistantController
	assistantRateLimiter  *middleware.RateLimiter
	authMiddleware        *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	categoryController *controller.CategoryController,
	transactionController *controller.TransactionController,
	dashboardController *controller.DashboardController,
	assistantController *controller.AssistantController,
	assistantRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:      healthController,
		categoryController:    categoryController,
		transactionController: transactionController,
		dashboardController:   dashboardController,
		assistantController:   assistantController,
		assistantRateLimiter:  assistantRateLimiter,
		authMiddleware:        authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	r.engine = gin.New()
	r.engine.Use(gin.Recovery(), middleware.RequestID())

	// Setup routes
	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	if r.authMiddleware == nil {
		return
	}

	// API v1 group
	v1 := r.engine.Group("/api/v1")
	v1.Use(r.authMiddleware.Authenticate())
	{
		if r.categoryController != nil {
			v1.GET("/categories", r.categoryController.List)
		}

		if r.transactionController != nil {
			transactions := v1.Group("/transactions")
			{
				transactions.GET("", r.transactionController.List)
				transactions.POST("", r.transactionController.Create)
				transactions.PATCH("/:id", r.transactionController.Update)
				transactions.DELETE("/:id", r.transactionController.Delete)
			}
		}

		if r.dashboardController != nil {
			dashboard := v1.Group("/dashboard")
			{
				dashboard.GET("/metrics", r.dashboardController.GetMetrics)
				dashboard.GET("/categories", r.dashboardController.GetCategoryBreakdown)
				dashboard.GET("/doctors", r.dashboardController.GetDoctorBreakdown)
				dashboard.GET("/trends", r.dashboardController.GetDailyTrend)
			}
		}

		if r.assistantController != nil {
			assistant := v1.Group("/assistant")
			if r.assistantRateLimiter != nil {
				assistant.Use(r.assistantRateLimiter.Middleware())
			}
			{
				assistant.POST("/chat", r.assistantController.Chat)
				assistant.POST("/scan", r.assistantController.Scan)
			}
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
