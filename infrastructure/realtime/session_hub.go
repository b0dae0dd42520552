package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"karaoke-browser/domain/model"
)

// SessionHub fans karaoke events out to SSE subscribers of a browsing session.
// Events without a session id go to every subscriber.
type SessionHub struct {
	mu       sync.RWMutex
	sessions map[string]map[chan model.KaraokeEvent]struct{}
}

func NewSessionHub() *SessionHub {
	return &SessionHub{sessions: make(map[string]map[chan model.KaraokeEvent]struct{})}
}

// Serve streams events for sessionID until the client goes away.
func (h *SessionHub) Serve(c *gin.Context, sessionID string) {
	if sessionID == "" {
		c.Status(http.StatusBadRequest)
		return
	}
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // disable nginx buffering

	ch := make(chan model.KaraokeEvent, 16)
	h.addSubscriber(sessionID, ch)
	defer h.removeSubscriber(sessionID, ch)

	// Initial comment to keep connection open
	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	c.Writer.Flush()

	for {
		select {
		case evt := <-ch:
			data, _ := json.Marshal(evt)
			_, _ = c.Writer.Write([]byte("event: " + evt.Type + "\n"))
			_, _ = c.Writer.Write([]byte("data: "))
			_, _ = c.Writer.Write(data)
			_, _ = c.Writer.Write([]byte("\n\n"))
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}

// Publish never blocks; a subscriber with a full buffer misses the event.
func (h *SessionHub) Publish(_ context.Context, evt model.KaraokeEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if evt.SessionID == "" {
		for _, subs := range h.sessions {
			deliver(subs, evt)
		}
		return nil
	}
	deliver(h.sessions[evt.SessionID], evt)
	return nil
}

// Subscribers reports how many streams are open for sessionID.
func (h *SessionHub) Subscribers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

func deliver(subs map[chan model.KaraokeEvent]struct{}, evt model.KaraokeEvent) {
	for ch := range subs {
		select { // non-blocking
		case ch <- evt:
		default:
		}
	}
}

func (h *SessionHub) addSubscriber(sessionID string, ch chan model.KaraokeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sessions[sessionID] == nil {
		h.sessions[sessionID] = make(map[chan model.KaraokeEvent]struct{})
	}
	h.sessions[sessionID][ch] = struct{}{}
}

func (h *SessionHub) removeSubscriber(sessionID string, ch chan model.KaraokeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs := h.sessions[sessionID]; subs != nil {
		delete(subs, ch)
		close(ch)
		if len(subs) == 0 {
			delete(h.sessions, sessionID)
		}
	}
}
