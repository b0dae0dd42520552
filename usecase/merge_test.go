package usecase_test

import (
	"testing"

	"karaoke-browser/domain/model"
	"karaoke-browser/usecase"

	"github.com/stretchr/testify/assert"
)

func v(id string) model.VideoSummary {
	return model.VideoSummary{ExternalID: id}
}

func TestMergeVideos_Dedup(t *testing.T) {
	got := usecase.MergeVideos([]model.VideoSummary{v("a")}, []model.VideoSummary{v("a"), v("b")})
	assert.Equal(t, []model.VideoSummary{v("a"), v("b")}, got)
}

func TestMergeVideos_EmptyIncoming(t *testing.T) {
	a := []model.VideoSummary{v("a"), v("b")}
	assert.Equal(t, a, usecase.MergeVideos(a, nil))
	assert.Equal(t, a, usecase.MergeVideos(a, []model.VideoSummary{}))
}

func TestMergeVideos_Idempotent(t *testing.T) {
	a := []model.VideoSummary{v("a"), v("b")}
	b := []model.VideoSummary{v("c"), v("a"), v("d")}
	once := usecase.MergeVideos(a, b)
	assert.Equal(t, []model.VideoSummary{v("a"), v("b"), v("c"), v("d")}, once)
	assert.Equal(t, once, usecase.MergeVideos(once, b))
}

func TestMergeVideos_DuplicatesInsideIncoming(t *testing.T) {
	got := usecase.MergeVideos(nil, []model.VideoSummary{v("x"), v("y"), v("x")})
	assert.Equal(t, []model.VideoSummary{v("x"), v("y")}, got)
}

func TestMergeVideos_DoesNotMutateExisting(t *testing.T) {
	a := make([]model.VideoSummary, 1, 4)
	a[0] = v("a")
	_ = usecase.MergeVideos(a, []model.VideoSummary{v("b")})
	assert.Len(t, a, 1)
}
