package model

import "time"

// FavoriteRecord is a video a user marked as favorite
type FavoriteRecord struct {
	UserID  string       `json:"user_id"  bson:"userId"`
	Video   VideoSummary `json:"video"    bson:"video"`
	AddedAt time.Time    `json:"added_at" bson:"addedAt"`
}

// HistoryRecord is an append-only play log entry
type HistoryRecord struct {
	ID       string       `json:"id"        bson:"_id,omitempty"`
	UserID   string       `json:"user_id"   bson:"userId"`
	Video    VideoSummary `json:"video"     bson:"video"`
	PlayedAt time.Time    `json:"played_at" bson:"playedAt"`
}
