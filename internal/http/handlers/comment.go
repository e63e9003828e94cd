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

type CommentHandler struct {
	log            *logger.Logger
	commentService services.CommentService
}

func NewCommentHandler(log *logger.Logger, commentService services.CommentService) *CommentHandler {
	return &CommentHandler{
		log:            log.With("handler", "CommentHandler"),
		commentService: commentService,
	}
}

func (h *CommentHandler) Add(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", errors.New("missing identity"))
		return
	}

	registrationID, err := uuid.Parse(c.Param("registrationID"))
	if err != nil {
		response.RespondFromError(c, apierr.BadRequest("INVALID_ID", errors.New("invalid registration id")))
		return
	}
	var body struct {
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondFromError(c, apierr.BadRequest("INVALID_BODY", err))
		return
	}

	comment, err := h.commentService.Add(c.Request.Context(), rd.JudgeID, registrationID, body.Comment)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, comment)
}

// ListForRegistration returns all comments on a registration for admins
// and only the caller's own comments for judges.
func (h *CommentHandler) ListForRegistration(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", errors.New("missing identity"))
		return
	}

	registrationID, err := uuid.Parse(c.Param("registrationID"))
	if err != nil {
		response.RespondFromError(c, apierr.BadRequest("INVALID_ID", errors.New("invalid registration id")))
		return
	}

	var comments []*types.JudgeComment
	if rd.Role == types.RoleAdmin {
		comments, err = h.commentService.ListForRegistration(c.Request.Context(), registrationID)
	} else {
		comments, err = h.commentService.ListOwnForRegistration(c.Request.Context(), rd.JudgeID, registrationID)
	}
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"comments": comments})
}
