package feeds

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/podfeed/api/types"
)

// SourceHeader tells the client whether the feed came from the disk cache
const SourceHeader = "X-Feed-Source"

// Get loads a feed and returns it as a podcast
// @Summary      Load a podcast feed
// @Description  Fetch an RSS feed, optionally through the disk cache, and return the podcast with its episodes
// @Tags         feeds
// @Produce      json
// @Param        url           query string true  "RSS feed URL" format(url)
// @Param        timeout       query string false "Network timeout as a Go duration" example(20s)
// @Param        cache_max_age query string false "Serve from the disk cache when younger than this" example(1h)
// @Success      200 {object} types.PodcastResponse
// @Failure      400 {object} types.ErrorResponse "Missing or invalid parameters"
// @Failure      422 {object} types.ErrorResponse "Feed could not be parsed"
// @Failure      502 {object} types.ErrorResponse "Feed host returned an error"
// @Failure      504 {object} types.ErrorResponse "Feed host timed out"
// @Router       /api/v1/feeds [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		feedURL, ok := types.RequireQuery(c, "url")
		if !ok {
			return
		}

		var defaultMaxAge time.Duration
		var cacheDir string
		if deps.Config != nil {
			defaultMaxAge = deps.Config.Cache.MaxAge
			cacheDir = deps.Config.Cache.Dir
		}

		opts, err := types.LoadOptionsFromStrings(c.Query("timeout"), c.Query("cache_max_age"), defaultMaxAge, cacheDir)
		if err != nil {
			types.SendError(c, err)
			return
		}

		result, err := deps.FeedLoader.Load(c.Request.Context(), feedURL, opts...)
		if err != nil {
			types.SendError(c, err)
			return
		}

		c.Header(SourceHeader, string(result.Source))
		c.JSON(http.StatusOK, types.PodcastResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Feed loaded"},
			Source:       string(result.Source),
			Podcast:      result.Podcast,
		})
	}
}
