package repository

import (
	"context"

	"karaoke-browser/domain/dto"
	"karaoke-browser/domain/model"
)

// IVideoSearch defines the search provider. Non-OK responses are returned as
// *model.ProviderError; anything else is a transport failure.
type IVideoSearch interface {
	Search(ctx context.Context, req dto.VideoSearchRequest) (*model.SearchPage, error)
}
