package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/talentfest/judging-backend/internal/http/response"
	"github.com/talentfest/judging-backend/internal/platform/apierr"
	"github.com/talentfest/judging-backend/internal/platform/logger"
	"github.com/talentfest/judging-backend/internal/requestdata"
	"github.com/talentfest/judging-backend/internal/services"
)

type RubricHandler struct {
	log           *logger.Logger
	rubricService services.RubricService
}

func NewRubricHandler(log *logger.Logger, rubricService services.RubricService) *RubricHandler {
	return &RubricHandler{
		log:           log.With("handler", "RubricHandler"),
		rubricService: rubricService,
	}
}

func (h *RubricHandler) Create(c *gin.Context) {
	var input services.CreateRubricInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondFromError(c, apierr.BadRequest("INVALID_BODY", err))
		return
	}
	if rd := requestdata.GetRequestData(c.Request.Context()); rd != nil {
		input.CreatedBy = rd.JudgeID
	}

	rubric, err := h.rubricService.CreateRubric(c.Request.Context(), input)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, rubric)
}

func (h *RubricHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondFromError(c, apierr.BadRequest("INVALID_ID", errors.New("invalid rubric id")))
		return
	}
	rubric, err := h.rubricService.GetRubric(c.Request.Context(), id)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, rubric)
}

func (h *RubricHandler) ListByProgram(c *gin.Context) {
	programID, err := uuid.Parse(c.Param("programID"))
	if err != nil {
		response.RespondFromError(c, apierr.BadRequest("INVALID_ID", errors.New("invalid program id")))
		return
	}
	rubrics, err := h.rubricService.ListByProgram(c.Request.Context(), programID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"rubrics": rubrics})
}

func (h *RubricHandler) Clone(c *gin.Context) {
	sourceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondFromError(c, apierr.BadRequest("INVALID_ID", errors.New("invalid rubric id")))
		return
	}
	var body struct {
		TargetProgramID uuid.UUID `json:"target_program_id"`
		Name            string    `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondFromError(c, apierr.BadRequest("INVALID_BODY", err))
		return
	}

	clone, err := h.rubricService.CloneRubric(c.Request.Context(), sourceID, body.TargetProgramID, body.Name)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, clone)
}

// ForRegistration resolves which rubric a judge will score a
// registration against, so clients can render the scoring form.
func (h *RubricHandler) ForRegistration(c *gin.Context) {
	registrationID, err := uuid.Parse(c.Param("registrationID"))
	if err != nil {
		response.RespondFromError(c, apierr.BadRequest("INVALID_ID", errors.New("invalid registration id")))
		return
	}
	rubric, err := h.rubricService.GetForRegistrationID(c.Request.Context(), registrationID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, rubric)
}

func (h *RubricHandler) CreateCategory(c *gin.Context) {
	var body struct {
		Name      string `json:"name"`
		SortOrder int    `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondFromError(c, apierr.BadRequest("INVALID_BODY", err))
		return
	}
	category, err := h.rubricService.CreateCategory(c.Request.Context(), body.Name, body.SortOrder)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, category)
}

func (h *RubricHandler) ListCategories(c *gin.Context) {
	categories, err := h.rubricService.ListCategories(c.Request.Context())
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"categories": categories})
}
