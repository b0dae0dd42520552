package usecase_test

import (
	"context"
	"testing"
	"time"

	"karaoke-browser/domain/model"
	"karaoke-browser/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var song = model.VideoSummary{ExternalID: "abc", Title: "Muchacha ojos de papel", ChannelLabel: "Karaoke AR"}

func TestLibraryUseCase_ToggleFavorite(t *testing.T) {
	lib := new(MockLibrary)
	uc := usecase.NewLibraryUseCase(lib)
	ctx := context.Background()

	// Add when absent
	lib.On("IsFavorite", mock.Anything, "u1", "abc").Return(false, nil).Once()
	lib.On("AddFavorite", mock.Anything, "u1", song).Return(nil).Once()
	fav, err := uc.ToggleFavorite(ctx, "u1", song)
	require.NoError(t, err)
	assert.True(t, fav)

	// Remove when present
	lib.On("IsFavorite", mock.Anything, "u1", "abc").Return(true, nil).Once()
	lib.On("RemoveFavorite", mock.Anything, "u1", "abc").Return(nil).Once()
	fav, err = uc.ToggleFavorite(ctx, "u1", song)
	require.NoError(t, err)
	assert.False(t, fav)

	lib.AssertExpectations(t)
}

func TestLibraryUseCase_RequiresUserForWrites(t *testing.T) {
	lib := new(MockLibrary)
	uc := usecase.NewLibraryUseCase(lib)
	ctx := context.Background()

	_, err := uc.ToggleFavorite(ctx, "", song)
	assert.ErrorIs(t, err, model.ErrUnauthenticated)

	assert.NoError(t, uc.RecordPlay(ctx, "", song))
	assert.ErrorIs(t, uc.ClearHistory(ctx, ""), model.ErrUnauthenticated)

	favs, err := uc.ListFavorites(ctx, "", 10)
	require.NoError(t, err)
	assert.Empty(t, favs)

	lib.AssertNotCalled(t, "AddHistory", mock.Anything, mock.Anything, mock.Anything)
	lib.AssertNotCalled(t, "IsFavorite", mock.Anything, mock.Anything, mock.Anything)
}

func TestLibraryUseCase_RecordPlaySwallowsStoreErrors(t *testing.T) {
	lib := new(MockLibrary)
	uc := usecase.NewLibraryUseCase(lib)

	lib.On("AddHistory", mock.Anything, "u1", song).Return(assert.AnError).Once()
	assert.NoError(t, uc.RecordPlay(context.Background(), "u1", song))
	assert.ErrorIs(t, uc.RecordPlay(context.Background(), "u1", model.VideoSummary{}), model.ErrInvalidVideo)
	lib.AssertExpectations(t)
}

func TestLibraryUseCase_ListHistoryClampsLimit(t *testing.T) {
	lib := new(MockLibrary)
	uc := usecase.NewLibraryUseCase(lib)
	records := []model.HistoryRecord{{ID: "1", UserID: "u1", Video: song, PlayedAt: time.Now()}}

	lib.On("ListHistory", mock.Anything, "u1", 50).Return(records, nil).Once()
	lib.On("ListHistory", mock.Anything, "u1", 200).Return(records, nil).Once()

	got, err := uc.ListHistory(context.Background(), "u1", 0)
	require.NoError(t, err)
	assert.Equal(t, records, got)

	_, err = uc.ListHistory(context.Background(), "u1", 5000)
	require.NoError(t, err)
	lib.AssertExpectations(t)
}

func TestLibraryUseCase_ListFavoritesWrapsErrors(t *testing.T) {
	lib := new(MockLibrary)
	uc := usecase.NewLibraryUseCase(lib)

	lib.On("ListFavorites", mock.Anything, "u1", 20).Return(nil, assert.AnError).Once()
	_, err := uc.ListFavorites(context.Background(), "u1", 20)
	assert.ErrorIs(t, err, assert.AnError)
}
