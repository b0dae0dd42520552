package usecase

import "karaoke-browser/domain/model"

// MergeVideos appends the incoming videos whose ExternalID is not already
// present. Order of both inputs is kept.
func MergeVideos(existing, incoming []model.VideoSummary) []model.VideoSummary {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	merged := make([]model.VideoSummary, 0, len(existing)+len(incoming))
	for _, v := range existing {
		seen[v.ExternalID] = struct{}{}
		merged = append(merged, v)
	}
	for _, v := range incoming {
		if _, dup := seen[v.ExternalID]; dup {
			continue
		}
		seen[v.ExternalID] = struct{}{}
		merged = append(merged, v)
	}
	return merged
}
