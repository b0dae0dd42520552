package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"karaoke-browser/domain/dto"
	"karaoke-browser/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewYouTubeClient(context.Background(), &Config{
		Endpoint:   srv.URL + "/",
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)
	return c.(*Client)
}

func TestSearch_SendsQueryParameters(t *testing.T) {
	var got map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/youtube/v3/search", r.URL.Path)
		q := r.URL.Query()
		got = map[string]string{
			"part":            q.Get("part"),
			"maxResults":      q.Get("maxResults"),
			"q":               q.Get("q"),
			"type":            q.Get("type"),
			"videoEmbeddable": q.Get("videoEmbeddable"),
			"key":             q.Get("key"),
			"pageToken":       q.Get("pageToken"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[],"nextPageToken":""}`))
	})

	_, err := c.Search(context.Background(), dto.VideoSearchRequest{Query: "rock", PageToken: "T1", APIKey: "K2"})
	require.NoError(t, err)
	assert.Equal(t, "snippet", got["part"])
	assert.Equal(t, "12", got["maxResults"])
	assert.Equal(t, "rock karaoke", got["q"])
	assert.Equal(t, "video", got["type"])
	assert.Equal(t, "true", got["videoEmbeddable"])
	assert.Equal(t, "K2", got["key"])
	assert.Equal(t, "T1", got["pageToken"])
}

func TestSearch_MapsItems(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"nextPageToken": "NEXT",
			"items": [
				{"id":{"videoId":"a"},"snippet":{"title":"Song A","channelTitle":"Chan","thumbnails":{"high":{"url":"http://h/a"},"medium":{"url":"http://m/a"}}}},
				{"id":{"videoId":"b"},"snippet":{"title":"Song B","channelTitle":"Chan","thumbnails":{"medium":{"url":"http://m/b"}}}},
				{"id":{"channelId":"skip"},"snippet":{"title":"Not a video"}}
			]
		}`))
	})

	page, err := c.Search(context.Background(), dto.VideoSearchRequest{Query: "rock", APIKey: "K1"})
	require.NoError(t, err)
	assert.Equal(t, "NEXT", page.NextPageToken)
	require.Len(t, page.Items, 2)
	assert.Equal(t, model.VideoSummary{ExternalID: "a", Title: "Song A", ChannelLabel: "Chan", ThumbnailURL: "http://h/a"}, page.Items[0])
	assert.Equal(t, "http://m/b", page.Items[1].ThumbnailURL)
}

func TestSearch_ProviderErrorCarriesReason(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"The request cannot be completed because you have exceeded your quota.","errors":[{"reason":"quotaExceeded","domain":"youtube.quota"}]}}`))
	})

	_, err := c.Search(context.Background(), dto.VideoSearchRequest{Query: "rock", APIKey: "K1"})
	require.Error(t, err)
	var pe *model.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 403, pe.StatusCode)
	assert.Equal(t, "quotaExceeded", pe.Reason)
	assert.Contains(t, pe.Message, "exceeded your quota")
}

func TestSearch_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := NewYouTubeClient(context.Background(), &Config{Endpoint: url + "/"})
	require.NoError(t, err)

	_, err = c.Search(context.Background(), dto.VideoSearchRequest{Query: "rock", APIKey: "K1"})
	require.Error(t, err)
	var pe *model.ProviderError
	assert.False(t, errors.As(err, &pe))
}
