package router

import (
	"lookFeed/internal/rest"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupFeedRoutes(api *echo.Group, handler *rest.FeedHandler) {
	api.GET("/feed", handler.GetDiverseFeed)
}

func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler) {
	products := api.Group("/products")

	products.GET("/:id", handler.GetProductByID)
	products.POST("/:id/like", handler.LikeProduct)
	products.DELETE("/:id/like", handler.UnlikeProduct)
}

func SetupOpsRoutes(e *echo.Echo) {
	e.GET("/healthz", rest.Healthz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
