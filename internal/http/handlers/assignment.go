package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/talentfest/judging-backend/internal/http/response"
	"github.com/talentfest/judging-backend/internal/platform/apierr"
	"github.com/talentfest/judging-backend/internal/platform/logger"
	"github.com/talentfest/judging-backend/internal/requestdata"
	"github.com/talentfest/judging-backend/internal/services"
)

type AssignmentHandler struct {
	log               *logger.Logger
	assignmentService services.AssignmentService
}

func NewAssignmentHandler(log *logger.Logger, assignmentService services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{
		log:               log.With("handler", "AssignmentHandler"),
		assignmentService: assignmentService,
	}
}

func (h *AssignmentHandler) Assign(c *gin.Context) {
	var body struct {
		ProgramID       uuid.UUID      `json:"program_id"`
		JudgeID         uuid.UUID      `json:"judge_id"`
		CategoryValue   string         `json:"category_value"`
		MaxParticipants *int           `json:"max_participants"`
		Metadata        datatypes.JSON `json:"metadata"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondFromError(c, apierr.BadRequest("INVALID_BODY", err))
		return
	}

	assignedBy := uuid.Nil
	if rd := requestdata.GetRequestData(c.Request.Context()); rd != nil {
		assignedBy = rd.JudgeID
	}

	assignment, err := h.assignmentService.Assign(c.Request.Context(),
		body.ProgramID, body.JudgeID, body.CategoryValue, body.MaxParticipants, body.Metadata, assignedBy)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, assignment)
}

func (h *AssignmentHandler) ListByProgram(c *gin.Context) {
	programID, err := uuid.Parse(c.Param("programID"))
	if err != nil {
		response.RespondFromError(c, apierr.BadRequest("INVALID_ID", errors.New("invalid program id")))
		return
	}
	assignments, err := h.assignmentService.ListByProgram(c.Request.Context(), programID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"assignments": assignments})
}

// Distribute previews how many unscored registrations each active judge
// would receive under an even split.
func (h *AssignmentHandler) Distribute(c *gin.Context) {
	programID, err := uuid.Parse(c.Param("programID"))
	if err != nil {
		response.RespondFromError(c, apierr.BadRequest("INVALID_ID", errors.New("invalid program id")))
		return
	}
	distribution, err := h.assignmentService.DistributeWorkload(c.Request.Context(), programID, c.Query("category_value"))
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"distribution": distribution})
}

func (h *AssignmentHandler) Completion(c *gin.Context) {
	assignmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondFromError(c, apierr.BadRequest("INVALID_ID", errors.New("invalid assignment id")))
		return
	}
	completion, err := h.assignmentService.Completion(c.Request.Context(), assignmentID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, completion)
}

func (h *AssignmentHandler) UpdateStatus(c *gin.Context) {
	assignmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondFromError(c, apierr.BadRequest("INVALID_ID", errors.New("invalid assignment id")))
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondFromError(c, apierr.BadRequest("INVALID_BODY", err))
		return
	}
	assignment, err := h.assignmentService.UpdateStatus(c.Request.Context(), assignmentID, body.Status)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, assignment)
}
