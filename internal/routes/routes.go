package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ratehub/store-rating-api/internal/audit"
	"github.com/ratehub/store-rating-api/internal/auth"
	"github.com/ratehub/store-rating-api/internal/handlers"
	"github.com/ratehub/store-rating-api/internal/middleware"
	"github.com/ratehub/store-rating-api/internal/store"
	ucrating "github.com/ratehub/store-rating-api/internal/usecase/rating"
)

// RegisterRoutes wires handlers, use cases and middleware onto the
// engine. The storage implementation was chosen at process start.
func RegisterRoutes(
	r *gin.Engine,
	st store.Store,
	issuer *auth.Issuer,
	auditDispatcher *audit.Dispatcher,
	loginLimiter *middleware.LoginRateLimiter,
) {

	// ======================================================
	// USE CASES - RATINGS
	// ======================================================
	submitRatingUC := ucrating.NewSubmit(st, auditDispatcher)
	deleteRatingUC := ucrating.NewDelete(st, auditDispatcher)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(st, issuer, auditDispatcher)
	userHandler := handlers.NewUserHandler(st, auditDispatcher)
	storeHandler := handlers.NewStoreHandler(st, auditDispatcher)
	ratingHandler := handlers.NewRatingHandler(st, submitRatingUC, deleteRatingUC)

	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		authGroup := api.Group("/auth")
		authGroup.POST("/signup", loginLimiter.Handler(), authHandler.Signup)
		authGroup.POST("/login", loginLimiter.Handler(), authHandler.Login)

		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(issuer, st))
		{
			secured.PUT("/auth/update-password", authHandler.UpdatePassword)

			// ------------------------------
			// USERS
			// ------------------------------
			secured.GET("/users/profile", userHandler.Profile)
			secured.GET("/users", userHandler.List)
			secured.GET("/users/stats", userHandler.Stats)
			secured.GET("/users/search", userHandler.Search)
			secured.GET("/users/:id", userHandler.GetByID)
			secured.POST("/users", userHandler.Create)
			secured.PUT("/users/:id", userHandler.Update)
			secured.DELETE("/users/:id", userHandler.Delete)

			// ------------------------------
			// STORES
			// ------------------------------
			secured.GET("/stores", storeHandler.List)
			secured.GET("/stores/for-user", storeHandler.ForUser)
			secured.GET("/stores/my-stores", storeHandler.MyStores)
			secured.GET("/stores/my-store", storeHandler.MyStore)
			secured.GET("/stores/search", storeHandler.Search)
			secured.GET("/stores/:id", storeHandler.GetByID)
			secured.POST("/stores", storeHandler.Create)
			secured.PUT("/stores/:id", storeHandler.Update)
			secured.DELETE("/stores/:id", storeHandler.Delete)

			// ------------------------------
			// RATINGS
			// ------------------------------
			secured.GET("/ratings", ratingHandler.List)
			secured.GET("/ratings/stats", ratingHandler.Stats)
			secured.GET("/ratings/my-ratings", ratingHandler.MyRatings)
			secured.GET("/ratings/my-store-ratings", ratingHandler.MyStoreRatings)
			secured.GET("/ratings/store/:storeId", ratingHandler.StoreRatings)
			secured.POST("/ratings", ratingHandler.Submit)
			secured.DELETE("/ratings/store/:storeId", ratingHandler.Delete)
		}
	}
}
