package podcasts

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/podfeed/api/types"
)

// GetList returns stored podcasts, newest fetch first
// @Summary      List stored podcasts
// @Tags         podcasts
// @Produce      json
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Page size" default(20)
// @Success      200 {object} types.PodcastsResponse
// @Router       /api/v1/podcasts [get]
func GetList(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := types.ParseIntQuery(c, "page", 1)
		limit := types.ParseIntQuery(c, "limit", 20)

		records, total, err := deps.PodcastService.List(c.Request.Context(), page, limit)
		if err != nil {
			types.SendError(c, err)
			return
		}

		summaries := make([]types.PodcastSummary, 0, len(records))
		for _, r := range records {
			summaries = append(summaries, types.NewPodcastSummary(r))
		}

		types.SendSuccess(c, types.PodcastsResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Stored podcasts"},
			Podcasts:     summaries,
			Count:        len(summaries),
			Total:        total,
			Page:         page,
			Limit:        limit,
		})
	}
}
