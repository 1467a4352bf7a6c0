package rest

import (
	"github.com/dfryer1193/apodwall/internal/middleware"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gallery engine with logging and panic recovery installed.
func NewRouter(images *ImageHandler) *gin.Engine {
	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))

	NewApi(router, images)
	return router
}

func NewApi(router *gin.Engine, images *ImageHandler) {
	router.GET("/healthz", images.Health)

	imagesV1 := router.Group("images/v1")
	{
		imagesV1.GET("/", images.ListImages)
		imagesV1.GET("/:hash", images.GetImage)
		imagesV1.GET("/:hash/raw", images.GetImageRaw)
	}
}
