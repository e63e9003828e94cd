package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/talentfest/judging-backend/internal/http/response"
	"github.com/talentfest/judging-backend/internal/platform/apierr"
	"github.com/talentfest/judging-backend/internal/platform/logger"
	"github.com/talentfest/judging-backend/internal/requestdata"
	"github.com/talentfest/judging-backend/internal/services"
)

type ScoreHandler struct {
	log            *logger.Logger
	scoringService services.ScoringService
}

func NewScoreHandler(log *logger.Logger, scoringService services.ScoringService) *ScoreHandler {
	return &ScoreHandler{
		log:            log.With("handler", "ScoreHandler"),
		scoringService: scoringService,
	}
}

func (h *ScoreHandler) Submit(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", errors.New("missing identity"))
		return
	}

	var body struct {
		RegistrationID uuid.UUID             `json:"registration_id"`
		Scores         map[uuid.UUID]float64 `json:"scores"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondFromError(c, apierr.BadRequest("INVALID_BODY", err))
		return
	}

	entries, err := h.scoringService.SubmitScores(c.Request.Context(), rd.JudgeID, body.RegistrationID, body.Scores)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"entries": entries})
}

// Bulk accepts a batch of independent score items, each optionally on
// behalf of another judge, and answers 207 when outcomes are mixed.
func (h *ScoreHandler) Bulk(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", errors.New("missing identity"))
		return
	}

	var body struct {
		Items []services.BulkScoreItem `json:"items"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondFromError(c, apierr.BadRequest("INVALID_BODY", err))
		return
	}
	if len(body.Items) == 0 {
		response.RespondFromError(c, apierr.BadRequest("INVALID_BODY", errors.New("items is required")))
		return
	}
	for i := range body.Items {
		if body.Items[i].JudgeID == uuid.Nil {
			body.Items[i].JudgeID = rd.JudgeID
		}
	}

	result := h.scoringService.BulkUpsert(c.Request.Context(), body.Items)
	status := http.StatusOK
	if result.Failed > 0 && result.Succeeded > 0 {
		status = http.StatusMultiStatus
	} else if result.Failed > 0 {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, result)
}

func (h *ScoreHandler) ListMine(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", errors.New("missing identity"))
		return
	}

	programID := uuid.Nil
	if raw := c.Query("program_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			response.RespondFromError(c, apierr.BadRequest("INVALID_ID", errors.New("invalid program id")))
			return
		}
		programID = parsed
	}

	entries, err := h.scoringService.ListForJudge(c.Request.Context(), rd.JudgeID, programID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"entries": entries})
}

// ListForRegistration exposes the full revision history for one
// registration, admin only.
func (h *ScoreHandler) ListForRegistration(c *gin.Context) {
	registrationID, err := uuid.Parse(c.Param("registrationID"))
	if err != nil {
		response.RespondFromError(c, apierr.BadRequest("INVALID_ID", errors.New("invalid registration id")))
		return
	}
	entries, err := h.scoringService.ListForRegistration(c.Request.Context(), registrationID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"entries": entries})
}
