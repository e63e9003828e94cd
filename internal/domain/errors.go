package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the machine-readable classification carried by every
// user-visible engine error. Handlers map kinds to HTTP statuses.
type ErrorKind string

const (
	KindValidation            ErrorKind = "VALIDATION_ERROR"
	KindScoreOutOfRange       ErrorKind = "SCORE_OUT_OF_RANGE"
	KindPermission            ErrorKind = "PERMISSION_ERROR"
	KindConflictOfInterest    ErrorKind = "CONFLICT_OF_INTEREST"
	KindTemporal              ErrorKind = "TEMPORAL_ERROR"
	KindRevisionNotAllowed    ErrorKind = "REVISION_NOT_ALLOWED"
	KindRevisionLimitExceeded ErrorKind = "REVISION_LIMIT_EXCEEDED"
	KindNoRubric              ErrorKind = "NO_RUBRIC"
	KindNotFound              ErrorKind = "NOT_FOUND"
)

type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

func Errorf(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the ErrorKind from an error chain, or "" when the
// error is not a domain error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
