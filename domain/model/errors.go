package model

import (
	"errors"
	"fmt"
)

var (
	// ErrCredentialsExhausted indicates every credential in the pool failed with a quota or key error.
	ErrCredentialsExhausted = errors.New("all credentials exhausted")
	// ErrNoResults indicates a fresh search returned zero items.
	ErrNoResults = errors.New("no results found")
	// ErrSuperseded indicates a newer fresh fetch replaced the query this response belongs to.
	ErrSuperseded = errors.New("fetch superseded by a newer query")
	// ErrEmptyQuery indicates a blank search text.
	ErrEmptyQuery = errors.New("query is required")
	// ErrStoreFull indicates the local key-value store ran out of capacity.
	ErrStoreFull = errors.New("store capacity exceeded")
	// ErrSessionNotFound indicates an unknown or pruned browsing session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrCategoryNotFound indicates an unknown category id.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrUnauthenticated indicates a user-scoped write without a user.
	ErrUnauthenticated = errors.New("sign in required")
	// ErrInvalidVideo indicates a video without an external id.
	ErrInvalidVideo = errors.New("video id is required")
)

// DefaultProviderMessage is surfaced when the provider gives no message.
const DefaultProviderMessage = "error in the YouTube API"

// ProviderError is a non-OK response from the search provider.
type ProviderError struct {
	StatusCode int
	Reason     string
	Message    string
}

// Error returns the provider message verbatim so callers can surface it.
func (e *ProviderError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Reason != "" {
		return fmt.Sprintf("youtube api status=%d reason=%s", e.StatusCode, e.Reason)
	}
	return DefaultProviderMessage
}
