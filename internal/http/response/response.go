package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talentfest/judging-backend/internal/domain"
	"github.com/talentfest/judging-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondFromError maps typed engine errors onto HTTP statuses. Anything
// without a recognized kind is a 500 with a generic message so internal
// details never leak.
func RespondFromError(c *gin.Context, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		RespondError(c, ae.Status, ae.Code, ae)
		return
	}

	kind := domain.KindOf(err)
	switch kind {
	case domain.KindValidation, domain.KindScoreOutOfRange:
		RespondError(c, http.StatusBadRequest, string(kind), err)
	case domain.KindPermission:
		RespondError(c, http.StatusForbidden, string(kind), err)
	case domain.KindConflictOfInterest, domain.KindTemporal,
		domain.KindRevisionNotAllowed, domain.KindRevisionLimitExceeded:
		RespondError(c, http.StatusConflict, string(kind), err)
	case domain.KindNoRubric, domain.KindNotFound:
		RespondError(c, http.StatusNotFound, string(kind), err)
	default:
		RespondError(c, http.StatusInternalServerError, "INTERNAL_ERROR",
			errors.New("internal server error"))
	}
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
