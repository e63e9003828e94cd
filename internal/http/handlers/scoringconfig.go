package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/talentfest/judging-backend/internal/http/response"
	"github.com/talentfest/judging-backend/internal/platform/apierr"
	"github.com/talentfest/judging-backend/internal/platform/logger"
	"github.com/talentfest/judging-backend/internal/services"
)

type ScoringConfigHandler struct {
	log           *logger.Logger
	configService services.ScoringConfigService
}

func NewScoringConfigHandler(log *logger.Logger, configService services.ScoringConfigService) *ScoringConfigHandler {
	return &ScoringConfigHandler{
		log:           log.With("handler", "ScoringConfigHandler"),
		configService: configService,
	}
}

func (h *ScoringConfigHandler) Upsert(c *gin.Context) {
	programID, err := uuid.Parse(c.Param("programID"))
	if err != nil {
		response.RespondFromError(c, apierr.BadRequest("INVALID_ID", errors.New("invalid program id")))
		return
	}
	var input services.ScoringConfigInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondFromError(c, apierr.BadRequest("INVALID_BODY", err))
		return
	}

	config, err := h.configService.Upsert(c.Request.Context(), programID, input)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, config)
}

func (h *ScoringConfigHandler) Get(c *gin.Context) {
	programID, err := uuid.Parse(c.Param("programID"))
	if err != nil {
		response.RespondFromError(c, apierr.BadRequest("INVALID_ID", errors.New("invalid program id")))
		return
	}
	config, err := h.configService.Get(c.Request.Context(), programID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"config":         config,
		"scoring_active": config.IsScoringActive(time.Now().UTC()),
	})
}
