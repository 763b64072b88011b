// Package router assembles the gin engine: global middleware, operational
// endpoints and the /api/v1 routes.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/catalog/internal/infrastructure/config"
	"github.com/xiebiao/catalog/internal/interface/http/dto"
	"github.com/xiebiao/catalog/internal/interface/http/handler"
	"github.com/xiebiao/catalog/internal/interface/http/middleware"
	"github.com/xiebiao/catalog/pkg/response"
)

// Handlers groups every HTTP handler so the injector can fill it in one step.
type Handlers struct {
	Auth     *handler.AuthHandler
	Category *handler.CategoryHandler
	Product  *handler.ProductHandler
	Movie    *handler.MovieHandler
	Event    *handler.EventHandler
	User     *handler.UserHandler
	Order    *handler.OrderHandler
}

// New builds the engine. Middleware order matters: Recovery first so a panic
// anywhere below still produces an envelope, Tracing before RequestLogger so
// log lines carry the trace id.
func New(cfg *config.Config, h *Handlers, auth *middleware.AuthMiddleware) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	dto.RegisterValidator()

	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.Tracing(),
		middleware.RequestLogger(),
		middleware.Metrics(),
	)

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong", "status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.Server.EnableSwagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	Register(r.Group("/api/v1"), h, auth)
	return r
}

// Register mounts the API on group.
func Register(v1 *gin.RouterGroup, h *Handlers, auth *middleware.AuthMiddleware) {
	requireAuth := auth.RequireAuth()

	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.POST("/logout", requireAuth, h.Auth.Logout)
	}

	categories := v1.Group("/categories")
	{
		categories.GET("", h.Category.List)
		categories.GET("/:id", h.Category.Get)
		categories.POST("", requireAuth, h.Category.Create)
		categories.PUT("/:id", requireAuth, h.Category.Update)
		categories.DELETE("/:id", requireAuth, h.Category.Delete)
	}

	products := v1.Group("/products")
	{
		products.GET("", h.Product.Search)
		products.GET("/count", h.Product.Count)
		products.GET("/:id", h.Product.Get)
		products.POST("", requireAuth, h.Product.Create)
		products.PUT("/:id", requireAuth, h.Product.Update)
		products.DELETE("/:id", requireAuth, h.Product.Delete)
	}

	// Movie reads are restricted to visitors and members, so the whole
	// area needs a principal.
	movies := v1.Group("", requireAuth)
	{
		movies.GET("/genres", h.Movie.Genres)
		movies.GET("/movies", h.Movie.Search)
		movies.GET("/movies/:id", h.Movie.Get)
		movies.GET("/movies/:id/reviews", h.Movie.Reviews)
		movies.POST("/reviews", h.Movie.CreateReview)
	}

	cities := v1.Group("/cities")
	{
		cities.GET("", h.Event.Cities)
		cities.POST("", requireAuth, h.Event.CreateCity)
	}

	events := v1.Group("/events")
	{
		events.GET("", h.Event.List)
		events.POST("", requireAuth, h.Event.Create)
		events.PUT("/:id", requireAuth, h.Event.Update)
	}

	users := v1.Group("/users")
	{
		users.POST("/signup", h.User.Signup)

		authed := users.Group("", requireAuth)
		authed.GET("/me", h.User.Me)
		authed.GET("", h.User.List)
		authed.POST("", h.User.Create)
		authed.GET("/:id", h.User.Get)
		authed.PUT("/:id", h.User.Update)
		authed.DELETE("/:id", h.User.Delete)
	}

	orders := v1.Group("/orders", requireAuth)
	{
		orders.POST("", h.Order.Create)
		orders.GET("/:id", h.Order.Get)
		orders.POST("/:id/pay", h.Order.Pay)
		orders.POST("/:id/cancel", h.Order.Cancel)
	}
}
