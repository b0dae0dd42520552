package model

import "time"

// Event types emitted by browsing sessions.
const (
	EventResultsReplaced      = "results_replaced"
	EventResultsAppended      = "results_appended"
	EventFetchFailed          = "fetch_failed"
	EventCredentialRotated    = "credential_rotated"
	EventCredentialsExhausted = "credentials_exhausted"
)

// KaraokeEvent describes a state change of a browsing session or of the
// credential pool.
type KaraokeEvent struct {
	Type            string    `json:"type"`
	SessionID       string    `json:"session_id,omitempty"`
	Query           string    `json:"query,omitempty"`
	Count           int       `json:"count,omitempty"`
	CredentialIndex int       `json:"credential_index,omitempty"`
	Message         string    `json:"message,omitempty"`
	At              time.Time `json:"at"`
}
