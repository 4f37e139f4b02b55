package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/podfeed/api/types"
	apperrors "github.com/killallgit/podfeed/pkg/errors"
)

// Get handles health check requests. The library database is optional; a
// configured but unreachable database makes the service unhealthy.
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		response := gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}

		db := getDatabaseStatus(deps)
		if db["status"] == "error" {
			down := apperrors.New(apperrors.ErrCodeServiceDown, "database unreachable")
			status = down.GetHTTPCode()
			response["status"] = "unhealthy"
			response["code"] = down.Code
			response["message"] = down.Message
		}
		response["database"] = db

		c.JSON(status, response)
	}
}

// getDatabaseStatus returns the database connection status
func getDatabaseStatus(deps *types.Dependencies) gin.H {
	if deps == nil || deps.DB == nil || deps.DB.DB == nil {
		return gin.H{"status": "not configured", "connected": false}
	}

	if err := deps.DB.HealthCheck(); err != nil {
		return gin.H{"status": "error", "connected": false, "error": err.Error()}
	}

	return gin.H{"status": "connected", "connected": true}
}
