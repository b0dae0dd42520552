package http

import (
	"net/http"

	"karaoke-browser/usecase"

	"github.com/gin-gonic/gin"
)

type IHealthHandler interface {
	Healthz(c *gin.Context)
}

type HealthHandler struct {
	karaokeUseCase usecase.IKaraokeUseCase
	components     map[string]string
}

// NewHealthHandler reports the wired backends alongside the credential pool size.
func NewHealthHandler(karaokeUseCase usecase.IKaraokeUseCase, components map[string]string) IHealthHandler {
	return &HealthHandler{karaokeUseCase: karaokeUseCase, components: components}
}

// Healthz returns OK for health checks
func (h *HealthHandler) Healthz(ctx *gin.Context) {
	status := h.karaokeUseCase.QuotaStatus()
	ctx.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"credentials": status.PoolSize,
		"components":  h.components,
	})
}
