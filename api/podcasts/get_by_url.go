package podcasts

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/podfeed/api/types"
)

// GetByURL returns a stored podcast with its episodes
// @Summary      Get a stored podcast by feed URL
// @Tags         podcasts
// @Produce      json
// @Param        url query string true "RSS feed URL" format(url)
// @Success      200 {object} types.PodcastResponse
// @Failure      404 {object} types.ErrorResponse
// @Router       /api/v1/podcasts/by-url [get]
func GetByURL(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		feedURL, ok := types.RequireQuery(c, "url")
		if !ok {
			return
		}

		podcast, err := deps.PodcastService.Get(c.Request.Context(), feedURL)
		if err != nil {
			types.SendError(c, err)
			return
		}

		types.SendSuccess(c, types.PodcastResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Stored podcast"},
			Podcast:      podcast,
		})
	}
}

// DeleteByURL removes a stored podcast
// @Summary      Delete a stored podcast by feed URL
// @Tags         podcasts
// @Param        url query string true "RSS feed URL" format(url)
// @Success      204
// @Failure      404 {object} types.ErrorResponse
// @Router       /api/v1/podcasts/by-url [delete]
func DeleteByURL(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		feedURL, ok := types.RequireQuery(c, "url")
		if !ok {
			return
		}

		if err := deps.PodcastService.Delete(c.Request.Context(), feedURL); err != nil {
			types.SendError(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}
