package podcasts

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/podfeed/api/types"
)

// RegisterRoutes registers library routes
// Imports hit the network, so they share the feed rate limit
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies, importMiddleware gin.HandlerFunc) {
	router.POST("", importMiddleware, PostImport(deps))
	router.GET("", GetList(deps))
	router.GET("/by-url", GetByURL(deps))
	router.DELETE("/by-url", DeleteByURL(deps))
}
