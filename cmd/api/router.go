package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smallbiz-backend/internal/shared/middleware"
	"smallbiz-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupImportRoutes(v1, c)
		setupDiscountRoutes(v1, c)
		setupEntityRoutes(v1, c)
	}

	return router
}

func setupImportRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := middleware.AuthMiddleware(c.JWTManager)

	imports := v1.Group("/imports")
	imports.Use(auth)
	{
		imports.POST("/:entityType", c.ImportHandler.Upload)
		imports.GET("", c.ImportHandler.List)
		imports.GET("/:id", c.ImportHandler.Get)
	}

	// Templates are downloadable without authentication so they can be
	// linked from help pages.
	v1.GET("/import-templates/:entityType", c.ImportHandler.Template)
}

func setupDiscountRoutes(v1 *gin.RouterGroup, c *container.Container) {
	rules := v1.Group("/discount-rules")
	rules.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		rules.POST("", c.DiscountHandler.Create)
		rules.GET("", c.DiscountHandler.List)
		rules.POST("/preview", c.DiscountHandler.Preview)
		rules.GET("/:id", c.DiscountHandler.Get)
		rules.PUT("/:id", c.DiscountHandler.Update)
		rules.DELETE("/:id", c.DiscountHandler.Delete)
	}
}

func setupEntityRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := middleware.AuthMiddleware(c.JWTManager)

	v1.GET("/products", auth, c.ProductHandler.List)
	v1.GET("/bills", auth, c.BillHandler.List)
	v1.GET("/customers", auth, c.CustomerHandler.List)
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		health := gin.H{
			"status":  "ok",
			"version": c.Config.App.Version,
		}

		if err := c.DB.Ping(ctx.Request.Context()); err != nil {
			health["status"] = "degraded"
			health["database"] = "down"
			ctx.JSON(http.StatusServiceUnavailable, health)
			return
		}
		health["database"] = "up"

		if err := c.Cache.Ping(ctx.Request.Context()); err != nil {
			health["cache"] = "down"
		} else {
			health["cache"] = "up"
		}

		ctx.JSON(http.StatusOK, health)
	}
}
