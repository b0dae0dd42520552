package dto

import "karaoke-browser/domain/model"

// VideoSearchRequest represents one provider search call made with a single credential
type VideoSearchRequest struct {
	Query     string
	PageToken string
	APIKey    string
}

// SearchRequest represents the body of a free-text search
type SearchRequest struct {
	Q string `json:"q" binding:"required"`
}

// PlayRequest represents a video the user started playing or toggled as favorite
type PlayRequest struct {
	Video model.VideoSummary `json:"video"`
}

// SessionSnapshot is the observable state of one browsing session
type SessionSnapshot struct {
	SessionID     string               `json:"session_id"`
	Query         string               `json:"query"`
	Category      model.Category       `json:"category"`
	Items         []model.VideoSummary `json:"items"`
	NextPageToken string               `json:"next_page_token,omitempty"`
	HasMore       bool                 `json:"has_more"`
	Loading       bool                 `json:"loading"`
	LoadingMore   bool                 `json:"loading_more"`
	Error         string               `json:"error,omitempty"`
	Generation    uint64               `json:"generation"`
	FromCache     bool                 `json:"from_cache"`
}

// LoadMoreResult reports what a load-more call did
type LoadMoreResult struct {
	Appended int             `json:"appended"`
	Skipped  bool            `json:"skipped"`
	Snapshot SessionSnapshot `json:"snapshot"`
}

// AnonymousSession is returned by anonymous sign-in
type AnonymousSession struct {
	UserID    string `json:"user_id"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}
