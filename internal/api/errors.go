package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iplayapp/iplay-backend/internal/metrics"
	"github.com/iplayapp/iplay-backend/internal/observability"
)

type Code string

const (
	CodeInvalidArgument  Code = "invalid-argument"
	CodeNotFound         Code = "not-found"
	CodePermissionDenied Code = "permission-denied"
	CodeUnauthenticated  Code = "unauthenticated"
	CodeInternal         Code = "internal"
)

// OpError is a typed, caller-facing operation error.
type OpError struct {
	Code    Code
	Message string
}

func (e *OpError) Error() string { return string(e.Code) + ": " + e.Message }

func Errf(code Code, format string, args ...any) *OpError {
	return &OpError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func httpStatus(code Code) int {
	switch code {
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodePermissionDenied:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps an error onto the response envelope. Anything that is not
// an OpError is an infrastructure failure: reported, counted, and returned
// to the caller as a generic internal error.
func (s *Server) writeError(c *gin.Context, op string, err error) {
	var opErr *OpError
	if !errors.As(err, &opErr) {
		observability.CaptureErr(err)
		s.Log.Errorw("operation failed", "op", op, "err", err)
		opErr = &OpError{Code: CodeInternal, Message: "internal error"}
	}
	metrics.OpErrors.WithLabelValues(op, string(opErr.Code)).Inc()
	c.JSON(httpStatus(opErr.Code), gin.H{
		"error": gin.H{"code": string(opErr.Code), "message": opErr.Message},
	})
}
