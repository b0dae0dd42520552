package http

import (
	"net/http"
	"strings"

	"karaoke-browser/domain/dto"
	"karaoke-browser/usecase"

	"github.com/gin-gonic/gin"
)

// IKaraokeHandler defines the browsing HTTP handlers
type IKaraokeHandler interface {
	Categories(ctx *gin.Context)
	CreateSession(ctx *gin.Context)
	GetSession(ctx *gin.Context)
	BrowseCategory(ctx *gin.Context)
	Search(ctx *gin.Context)
	LoadMore(ctx *gin.Context)
	Events(ctx *gin.Context)
	Quota(ctx *gin.Context)
}

// EventStreamer serves a session's live events to the client.
type EventStreamer interface {
	Serve(c *gin.Context, sessionID string)
}

// KaraokeHandler implements the browsing HTTP handlers
type KaraokeHandler struct {
	karaokeUseCase usecase.IKaraokeUseCase
	events         EventStreamer
}

// NewKaraokeHandler creates a new karaoke handler instance
func NewKaraokeHandler(karaokeUseCase usecase.IKaraokeUseCase, events EventStreamer) IKaraokeHandler {
	return &KaraokeHandler{karaokeUseCase: karaokeUseCase, events: events}
}

// Categories handles GET /api/categories
func (h *KaraokeHandler) Categories(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": h.karaokeUseCase.Categories()})
}

// CreateSession handles POST /api/sessions
func (h *KaraokeHandler) CreateSession(ctx *gin.Context) {
	snap := h.karaokeUseCase.CreateSession(ctx.Request.Context())
	ctx.JSON(http.StatusCreated, gin.H{"success": true, "data": snap})
}

// GetSession handles GET /api/sessions/:id
func (h *KaraokeHandler) GetSession(ctx *gin.Context) {
	snap, err := h.karaokeUseCase.Snapshot(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err, nil)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": snap})
}

// BrowseCategory handles POST /api/sessions/:id/category/:categoryId
func (h *KaraokeHandler) BrowseCategory(ctx *gin.Context) {
	snap, err := h.karaokeUseCase.BrowseCategory(ctx.Request.Context(), ctx.Param("id"), ctx.Param("categoryId"))
	if err != nil {
		respondError(ctx, err, snapshotOrNil(snap))
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": snap})
}

// Search handles POST /api/sessions/:id/search
func (h *KaraokeHandler) Search(ctx *gin.Context) {
	var req dto.SearchRequest
	// The query string is accepted too for plain form posts.
	if q := ctx.Query("q"); q != "" {
		req.Q = q
	} else if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "q is required"})
		return
	}
	if strings.TrimSpace(req.Q) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "q is required"})
		return
	}

	snap, err := h.karaokeUseCase.Search(ctx.Request.Context(), ctx.Param("id"), req.Q)
	if err != nil {
		respondError(ctx, err, snapshotOrNil(snap))
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": snap})
}

// LoadMore handles POST /api/sessions/:id/more
func (h *KaraokeHandler) LoadMore(ctx *gin.Context) {
	res, err := h.karaokeUseCase.LoadMore(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err, nil)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": res})
}

// Events handles GET /api/sessions/:id/events as a server-sent event stream
func (h *KaraokeHandler) Events(ctx *gin.Context) {
	id := ctx.Param("id")
	if _, err := h.karaokeUseCase.Snapshot(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err, nil)
		return
	}
	h.events.Serve(ctx, id)
}

// Quota handles GET /api/quota
func (h *KaraokeHandler) Quota(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": h.karaokeUseCase.QuotaStatus()})
}

func snapshotOrNil(snap dto.SessionSnapshot) any {
	if snap.SessionID == "" {
		return nil
	}
	return snap
}
