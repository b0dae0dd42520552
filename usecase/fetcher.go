package usecase

import (
	"context"
	"time"

	"karaoke-browser/domain/dto"
	"karaoke-browser/domain/model"
	"karaoke-browser/domain/repository"
	"karaoke-browser/infrastructure/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"
)

const (
	firstPageMarker = "first"
	// sharedFetchTimeout bounds a first-page chain that no caller can cancel.
	sharedFetchTimeout = 30 * time.Second
)

// Fingerprint is the cache key of one page of one query.
func Fingerprint(query, continuationToken string) string {
	if continuationToken == "" {
		continuationToken = firstPageMarker
	}
	return query + "_" + continuationToken
}

// IFetcher fetches result pages through the credential pool
type IFetcher interface {
	// FirstPage serves from the cache when it can, otherwise asks the provider
	// and caches a non-empty answer.
	FirstPage(ctx context.Context, sessionID, query string) (*model.SearchPage, bool, error)
	// NextPage always goes to the provider and is never cached.
	NextPage(ctx context.Context, sessionID, query, continuationToken string) (*model.SearchPage, error)
	RotationStatus() model.RotationStatus
}

// Fetcher is shared by every session; the rotation state and the cache are
// process wide.
type Fetcher struct {
	provider  repository.IVideoSearch
	cache     repository.IResultCache
	rotation  *RotationState
	publisher repository.IEventPublisher
	group     singleflight.Group
	now       func() time.Time

	sharedTimeout time.Duration
}

func NewFetcher(provider repository.IVideoSearch, cache repository.IResultCache, rotation *RotationState, publisher repository.IEventPublisher) *Fetcher {
	return &Fetcher{
		provider:  provider,
		cache:     cache,
		rotation:  rotation,
		publisher: publisher,
		now:       time.Now,

		sharedTimeout: sharedFetchTimeout,
	}
}

func (f *Fetcher) RotationStatus() model.RotationStatus {
	return f.rotation.Status()
}

func (f *Fetcher) FirstPage(ctx context.Context, sessionID, query string) (*model.SearchPage, bool, error) {
	fp := Fingerprint(query, "")
	if entry, ok := f.cache.Get(ctx, fp); ok {
		logger.GetLogger().WithField("fingerprint", fp).Debug("Result cache hit")
		return &model.SearchPage{Items: copyVideos(entry.Items), NextPageToken: entry.ContinuationToken}, true, nil
	}

	// Identical first-page requests in flight share one provider chain. The
	// chain outlives any single caller; each caller only waits on its own ctx.
	ch := f.group.DoChan(fp, func() (interface{}, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.sharedTimeout)
		defer cancel()
		page, err := f.search(shared, sessionID, query, "")
		if err != nil {
			return nil, err
		}
		if len(page.Items) == 0 {
			return nil, model.ErrNoResults
		}
		f.cache.Put(shared, fp, page.Items, page.NextPageToken)
		return page, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, false, res.Err
	}
	if res.Shared {
		logger.GetLogger().WithField("fingerprint", fp).Debug("Joined in-flight first page fetch")
	}
	page := res.Val.(*model.SearchPage)
	return &model.SearchPage{Items: copyVideos(page.Items), NextPageToken: page.NextPageToken}, false, nil
}

func (f *Fetcher) NextPage(ctx context.Context, sessionID, query, continuationToken string) (*model.SearchPage, error) {
	return f.search(ctx, sessionID, query, continuationToken)
}

// search walks the credential pool. Every index is tried at most once per
// chain, so a pool of N keys costs at most N provider calls.
func (f *Fetcher) search(ctx context.Context, sessionID, query, pageToken string) (*model.SearchPage, error) {
	ctx, span := otel.Tracer("karaoke-browser/usecase").Start(ctx, "Fetcher.search")
	defer span.End()
	span.SetAttributes(
		attribute.String("query", query),
		attribute.Bool("continuation", pageToken != ""),
	)

	pool := f.rotation.Pool()
	visited := make(map[int]struct{}, pool.Size())
	attempt := Attempt{Kind: FreshAttempt}
	for {
		idx := attempt.CredentialIndex
		if attempt.Kind == FreshAttempt {
			idx = f.rotation.Current()
		} else if _, seen := visited[idx]; seen {
			logger.GetLogger().
				WithField("query", query).
				WithField("poolSize", pool.Size()).
				Error("All credentials exhausted")
			f.publish(ctx, model.KaraokeEvent{
				Type:      model.EventCredentialsExhausted,
				SessionID: sessionID,
				Query:     query,
				Message:   model.ErrCredentialsExhausted.Error(),
			})
			span.SetStatus(codes.Error, model.ErrCredentialsExhausted.Error())
			return nil, model.ErrCredentialsExhausted
		}
		visited[idx] = struct{}{}

		page, err := f.provider.Search(ctx, dto.VideoSearchRequest{
			Query:     query,
			PageToken: pageToken,
			APIKey:    pool.Key(idx),
		})
		if err == nil {
			span.SetAttributes(attribute.Int("credential_index", idx), attribute.Int("items", len(page.Items)))
			return page, nil
		}

		verdict := ClassifyError(err)
		if verdict.Action == Terminal {
			logger.GetLogger().WithField("error", err).WithField("query", query).Warn("Search failed")
			span.RecordError(err)
			span.SetStatus(codes.Error, verdict.Message)
			return nil, err
		}

		next := f.rotation.Rotate(idx)
		f.publish(ctx, model.KaraokeEvent{
			Type:            model.EventCredentialRotated,
			SessionID:       sessionID,
			Query:           query,
			CredentialIndex: next,
			Message:         verdict.Message,
		})
		attempt = Attempt{Kind: RetryWithCredential, CredentialIndex: next}
	}
}

func (f *Fetcher) publish(ctx context.Context, evt model.KaraokeEvent) {
	if f.publisher == nil {
		return
	}
	evt.At = f.now()
	if err := f.publisher.Publish(ctx, evt); err != nil {
		logger.GetLogger().WithField("error", err).WithField("event", evt.Type).Warn("Failed to publish event")
	}
}

func copyVideos(in []model.VideoSummary) []model.VideoSummary {
	out := make([]model.VideoSummary, len(in))
	copy(out, in)
	return out
}
