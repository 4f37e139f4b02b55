package podcasts

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/podfeed/api/types"
)

// PostImport loads a feed and stores it in the library
// @Summary      Import a podcast
// @Description  Load an RSS feed and store a snapshot of the podcast and its episodes
// @Tags         podcasts
// @Accept       json
// @Produce      json
// @Param        request body types.ImportPodcastRequest true "Feed to import"
// @Success      201 {object} types.PodcastResponse
// @Failure      400 {object} types.ErrorResponse
// @Failure      502 {object} types.ErrorResponse
// @Failure      504 {object} types.ErrorResponse
// @Router       /api/v1/podcasts [post]
func PostImport(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.ImportPodcastRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		var defaultMaxAge time.Duration
		var cacheDir string
		if deps.Config != nil {
			defaultMaxAge = deps.Config.Cache.MaxAge
			cacheDir = deps.Config.Cache.Dir
		}

		opts, err := types.LoadOptionsFromStrings(req.Timeout, req.CacheMaxAge, defaultMaxAge, cacheDir)
		if err != nil {
			types.SendError(c, err)
			return
		}

		podcast, err := deps.PodcastService.Import(c.Request.Context(), req.URL, opts...)
		if err != nil {
			types.SendError(c, err)
			return
		}

		types.SendCreated(c, types.PodcastResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Podcast imported"},
			Podcast:      podcast,
		})
	}
}
