package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/talentfest/judging-backend/internal/domain"
	"github.com/talentfest/judging-backend/internal/http/response"
	"github.com/talentfest/judging-backend/internal/platform/apierr"
	"github.com/talentfest/judging-backend/internal/platform/logger"
	"github.com/talentfest/judging-backend/internal/requestdata"
	"github.com/talentfest/judging-backend/internal/services"
	"github.com/talentfest/judging-backend/internal/types"
)

type LeaderboardHandler struct {
	log            *logger.Logger
	resultsService services.ResultsService
	configService  services.ScoringConfigService
}

func NewLeaderboardHandler(log *logger.Logger, resultsService services.ResultsService, configService services.ScoringConfigService) *LeaderboardHandler {
	return &LeaderboardHandler{
		log:            log.With("handler", "LeaderboardHandler"),
		resultsService: resultsService,
		configService:  configService,
	}
}

func (h *LeaderboardHandler) Get(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", errors.New("missing identity"))
		return
	}
	programID, err := uuid.Parse(c.Param("programID"))
	if err != nil {
		response.RespondFromError(c, apierr.BadRequest("INVALID_ID", errors.New("invalid program id")))
		return
	}

	if rd.Role != types.RoleAdmin {
		config, err := h.configService.Get(c.Request.Context(), programID)
		if err != nil {
			response.RespondFromError(c, err)
			return
		}
		if config.ResultVisibility == types.VisibilityAdminOnly {
			response.RespondFromError(c, domain.Errorf(domain.KindPermission,
				"results are not visible to judges for this program"))
			return
		}
	}

	useCache := c.Query("refresh") != "true"
	board, err := h.resultsService.CalculateLeaderboard(c.Request.Context(), programID, c.Query("category_value"), useCache)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, board)
}

// Invalidate drops the cached leaderboard so the next read recomputes,
// admin only.
func (h *LeaderboardHandler) Invalidate(c *gin.Context) {
	programID, err := uuid.Parse(c.Param("programID"))
	if err != nil {
		response.RespondFromError(c, apierr.BadRequest("INVALID_ID", errors.New("invalid program id")))
		return
	}
	if err := h.resultsService.InvalidateLeaderboard(c.Request.Context(), programID, c.Query("category_value")); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"invalidated": true})
}
