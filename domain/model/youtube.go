package model

import "time"

// VideoSummary represents a karaoke video as shown in the browser.
// JSON names match what the front end already renders.
type VideoSummary struct {
	ExternalID    string `json:"videoId"      bson:"videoId"`
	Title         string `json:"title"        bson:"title"`
	ChannelLabel  string `json:"channelTitle" bson:"channelTitle"`
	ThumbnailURL  string `json:"thumbnail"    bson:"thumbnail"`
	CategoryLabel string `json:"genre"        bson:"genre"`
}

// WithCategory returns a copy of the video labeled with the given category.
func (v VideoSummary) WithCategory(label string) VideoSummary {
	v.CategoryLabel = label
	return v
}

// SearchPage is one page of provider search results.
type SearchPage struct {
	Items         []VideoSummary `json:"items"`
	NextPageToken string         `json:"nextPageToken,omitempty"`
}

// CacheEntry is a cached first page for a query fingerprint.
type CacheEntry struct {
	Items             []VideoSummary `json:"videos"`
	ContinuationToken string         `json:"nextPageToken,omitempty"`
	ExpiresAt         time.Time      `json:"-"`
}

// Category is a browsable karaoke genre backed by a fixed search query.
type Category struct {
	ID    string `json:"id"    yaml:"id"`
	Name  string `json:"name"  yaml:"name"`
	Query string `json:"query" yaml:"query"`
}

// RotationStatus reports the credential pool state.
type RotationStatus struct {
	CurrentIndex int   `json:"current_index"`
	PoolSize     int   `json:"pool_size"`
	Rotations    int64 `json:"rotations"`
}
