package version

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Version is set at build time with -ldflags "-X .../api/version.Version=..."
var Version = "dev"

// Get handles version requests
func Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":        "podfeed",
			"version":     Version,
			"description": "Podcast RSS feed loader with an optional disk cache",
			"status":      "running",
		})
	}
}
