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
	"github.com/talentfest/judging-backend/internal/types"
)

type ConflictHandler struct {
	log             *logger.Logger
	conflictService services.ConflictService
}

func NewConflictHandler(log *logger.Logger, conflictService services.ConflictService) *ConflictHandler {
	return &ConflictHandler{
		log:             log.With("handler", "ConflictHandler"),
		conflictService: conflictService,
	}
}

func (h *ConflictHandler) Flag(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", errors.New("missing identity"))
		return
	}

	var body struct {
		JudgeID          uuid.UUID `json:"judge_id"`
		ParticipantID    uuid.UUID `json:"participant_id"`
		RelationshipType string    `json:"relationship_type"`
		Description      string    `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondFromError(c, apierr.BadRequest("INVALID_BODY", err))
		return
	}
	// Judges self-report their own conflicts; admins can flag on behalf
	// of any judge.
	judgeID := body.JudgeID
	if rd.Role != types.RoleAdmin || judgeID == uuid.Nil {
		judgeID = rd.JudgeID
	}

	flag, err := h.conflictService.Flag(c.Request.Context(),
		judgeID, body.ParticipantID, body.RelationshipType, body.Description, rd.JudgeID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, flag)
}

func (h *ConflictHandler) Review(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", errors.New("missing identity"))
		return
	}

	conflictID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondFromError(c, apierr.BadRequest("INVALID_ID", errors.New("invalid conflict id")))
		return
	}
	var body struct {
		Decision string `json:"decision"`
		Notes    string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondFromError(c, apierr.BadRequest("INVALID_BODY", err))
		return
	}

	flag, err := h.conflictService.Review(c.Request.Context(), conflictID, body.Decision, rd.JudgeID, body.Notes)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, flag)
}

func (h *ConflictHandler) List(c *gin.Context) {
	flags, err := h.conflictService.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"conflicts": flags})
}
