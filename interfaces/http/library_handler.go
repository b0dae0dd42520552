package http

import (
	"net/http"

	"karaoke-browser/domain/dto"
	"karaoke-browser/infrastructure/logger"
	"karaoke-browser/interfaces/middleware"
	"karaoke-browser/usecase"

	"github.com/gin-gonic/gin"
)

// ILibraryHandler defines favorites and history HTTP handlers
type ILibraryHandler interface {
	ListFavorites(ctx *gin.Context)
	ToggleFavorite(ctx *gin.Context)
	ListHistory(ctx *gin.Context)
	RecordPlay(ctx *gin.Context)
	ClearHistory(ctx *gin.Context)
}

type LibraryHandler struct {
	libraryUseCase usecase.ILibraryUseCase
}

func NewLibraryHandler(libraryUseCase usecase.ILibraryUseCase) ILibraryHandler {
	return &LibraryHandler{libraryUseCase: libraryUseCase}
}

// ListFavorites handles GET /api/library/favorites
func (h *LibraryHandler) ListFavorites(ctx *gin.Context) {
	favs, err := h.libraryUseCase.ListFavorites(ctx.Request.Context(), ctx.GetString(middleware.UserIDKey), limitParam(ctx))
	if err != nil {
		respondError(ctx, err, nil)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": favs})
}

// ToggleFavorite handles POST /api/library/favorites
func (h *LibraryHandler) ToggleFavorite(ctx *gin.Context) {
	var req dto.PlayRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": ErrorUnmarshal})
		return
	}
	favorite, err := h.libraryUseCase.ToggleFavorite(ctx.Request.Context(), ctx.GetString(middleware.UserIDKey), req.Video)
	if err != nil {
		respondError(ctx, err, nil)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"video_id": req.Video.ExternalID, "favorite": favorite}})
}

// ListHistory handles GET /api/library/history
func (h *LibraryHandler) ListHistory(ctx *gin.Context) {
	hist, err := h.libraryUseCase.ListHistory(ctx.Request.Context(), ctx.GetString(middleware.UserIDKey), limitParam(ctx))
	if err != nil {
		respondError(ctx, err, nil)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": hist})
}

// RecordPlay handles POST /api/library/history
func (h *LibraryHandler) RecordPlay(ctx *gin.Context) {
	var req dto.PlayRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": ErrorUnmarshal})
		return
	}
	if err := h.libraryUseCase.RecordPlay(ctx.Request.Context(), ctx.GetString(middleware.UserIDKey), req.Video); err != nil {
		respondError(ctx, err, nil)
		return
	}
	ctx.JSON(http.StatusAccepted, gin.H{"success": true})
}

// ClearHistory handles DELETE /api/library/history
func (h *LibraryHandler) ClearHistory(ctx *gin.Context) {
	if err := h.libraryUseCase.ClearHistory(ctx.Request.Context(), ctx.GetString(middleware.UserIDKey)); err != nil {
		respondError(ctx, err, nil)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
