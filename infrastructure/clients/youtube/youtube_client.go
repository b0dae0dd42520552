package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"karaoke-browser/domain/dto"
	"karaoke-browser/domain/model"
	"karaoke-browser/domain/repository"
	"karaoke-browser/infrastructure/logger"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	defaultMaxResults  = 12
	defaultQuerySuffix = " karaoke"
	defaultTimeout     = 15 * time.Second
)

// Client represents the YouTube search client. The API key is chosen per
// call, so one client serves a whole credential pool.
type Client struct {
	service     *youtube.Service
	limiter     *rate.Limiter
	maxResults  int64
	querySuffix string
}

// Config represents YouTube search client configuration
type Config struct {
	// Endpoint overrides the API base URL (tests, proxies). Must end with "/".
	Endpoint          string
	MaxResults        int64
	QuerySuffix       string
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
	HTTPClient        *http.Client
}

// NewYouTubeClient creates a new YouTube search client
func NewYouTubeClient(ctx context.Context, config *Config) (repository.IVideoSearch, error) {
	if config == nil {
		config = &Config{}
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if config.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(config.Endpoint))
	}
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 1
	}

	maxResults := config.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	suffix := config.QuerySuffix
	if suffix == "" {
		suffix = defaultQuerySuffix
	}

	return &Client{
		service:     service,
		limiter:     rate.NewLimiter(limit, burst),
		maxResults:  maxResults,
		querySuffix: suffix,
	}, nil
}

// Search runs one search.list call with the credential in req.APIKey.
func (c *Client) Search(ctx context.Context, req dto.VideoSearchRequest) (*model.SearchPage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	call := c.service.Search.List([]string{"snippet"}).
		MaxResults(c.maxResults).
		Q(req.Query + c.querySuffix).
		Type("video").
		VideoEmbeddable("true").
		Context(ctx)

	if req.PageToken != "" {
		call = call.PageToken(req.PageToken)
	}

	response, err := call.Do(googleapi.QueryParameter("key", req.APIKey))
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return nil, toProviderError(apiErr)
		}
		return nil, fmt.Errorf("failed to search videos: %w", err)
	}

	page := &model.SearchPage{
		Items:         make([]model.VideoSummary, 0, len(response.Items)),
		NextPageToken: response.NextPageToken,
	}
	for _, item := range response.Items {
		if item == nil || item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		page.Items = append(page.Items, convertToVideoSummary(item))
	}

	logger.GetLogger().
		WithField("query", req.Query).
		WithField("items", len(page.Items)).
		WithField("hasNext", page.NextPageToken != "").
		Debug("YouTube search completed")
	return page, nil
}

func convertToVideoSummary(item *youtube.SearchResult) model.VideoSummary {
	video := model.VideoSummary{ExternalID: item.Id.VideoId}
	if item.Snippet == nil {
		return video
	}
	video.Title = item.Snippet.Title
	video.ChannelLabel = item.Snippet.ChannelTitle
	if thumbs := item.Snippet.Thumbnails; thumbs != nil {
		switch {
		case thumbs.High != nil && thumbs.High.Url != "":
			video.ThumbnailURL = thumbs.High.Url
		case thumbs.Medium != nil:
			video.ThumbnailURL = thumbs.Medium.Url
		}
	}
	return video
}

func toProviderError(apiErr *googleapi.Error) *model.ProviderError {
	pe := &model.ProviderError{
		StatusCode: apiErr.Code,
		Message:    strings.TrimSpace(apiErr.Message),
	}
	if len(apiErr.Errors) > 0 {
		pe.Reason = apiErr.Errors[0].Reason
		if pe.Message == "" {
			pe.Message = apiErr.Errors[0].Message
		}
	}
	return pe
}
