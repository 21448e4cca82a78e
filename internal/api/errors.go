package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"dailyquest/internal/engine"
)

func statusFor(err error) int {
	var ce *engine.CommitError
	switch {
	case errors.Is(err, engine.ErrEmptyTitle), errors.Is(err, engine.ErrRangeTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrTaskNotFound), errors.Is(err, engine.ErrRewardNotFound), errors.Is(err, engine.ErrUnknownBlueprint):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrBlueprintUnavailable):
		return http.StatusConflict
	case errors.Is(err, engine.ErrSessionLocked):
		return http.StatusLocked
	case errors.Is(err, engine.ErrRewardExpired):
		return http.StatusGone
	case errors.As(err, &ce):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.log.Printf("[WARN] %s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(code, gin.H{"error": err.Error()})
}
