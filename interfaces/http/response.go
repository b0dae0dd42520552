package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"karaoke-browser/domain/model"
	"karaoke-browser/infrastructure/logger"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var providerErr *model.ProviderError
	switch {
	case errors.Is(err, model.ErrEmptyQuery), errors.Is(err, model.ErrInvalidVideo):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrSessionNotFound), errors.Is(err, model.ErrCategoryNotFound), errors.Is(err, model.ErrNoResults):
		return http.StatusNotFound
	case errors.Is(err, model.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, model.ErrCredentialsExhausted):
		return http.StatusServiceUnavailable
	case errors.As(err, &providerErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(ctx *gin.Context, err error, data any) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		logger.GetLogger().WithField("error", err).WithField("path", ctx.FullPath()).Error("Request failed")
	}
	body := gin.H{"success": false, "error": err.Error()}
	if data != nil {
		body["data"] = data
	}
	ctx.JSON(status, body)
}

func limitParam(ctx *gin.Context) int {
	limit, err := strconv.Atoi(ctx.Query("limit"))
	if err != nil {
		return 0
	}
	return limit
}
