package feeds

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/podfeed/api/types"
)

// RegisterRoutes registers feed routes
// Rate limiting is applied by the caller on the group
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// GET /api/v1/feeds?url= - Load a feed live
	router.GET("", Get(deps))
}
