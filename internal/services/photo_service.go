// Package services – PhotoService
//
// This file implements the best-effort place photo resolver. Photos are
// decoration: a missing photo must never block or fail itinerary display,
// so every failure mode (timeout, network error, bad status, malformed
// body, absent photo field) resolves to "no photo" and is at most logged.
//
// Results are cached per (placeName, destination) pair for an hour, with
// stale entries garbage-collected after a day. A new resolve for a pair
// that is already being fetched cancels the superseded fetch; resolves for
// different pairs are independent and run concurrently, each with its own
// timeout and retry budget.

package services

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-retry"
)

// Photo fetch policy.
const (
	photoCacheFresh   = time.Hour
	photoCacheSweep   = 24 * time.Hour
	photoFetchTimeout = 20 * time.Second
	photoMaxRetries   = 2
	photoBackoffBase  = 500 * time.Millisecond
	photoBackoffCap   = 3 * time.Second
)

// PhotoSource is the external photo-lookup contract. Lookup returns the
// photo URL for a free-text place query, or "" when the service has none.
// Implementations must honor ctx for cancellation and timeouts.
type PhotoSource interface {
	Lookup(ctx context.Context, query string) (string, error)
}

// PhotoService resolves and caches place photos.
type PhotoService struct {
	// Source is the external photo-lookup client.
	Source PhotoSource
	// Timeout bounds each fetch attempt. Defaults to 20s when zero.
	Timeout time.Duration

	cache *gocache.Cache

	mu       sync.Mutex
	inflight map[string]*photoFetch
}

// photoFetch is one in-flight lookup; the pointer doubles as its identity
// so a finished fetch only deregisters itself.
type photoFetch struct {
	cancel context.CancelFunc
}

// NewPhotoService constructs a PhotoService around the given source with
// the default cache and timeout policy.
func NewPhotoService(src PhotoSource) *PhotoService {
	return &PhotoService{
		Source:   src,
		Timeout:  photoFetchTimeout,
		cache:    gocache.New(photoCacheFresh, photoCacheSweep),
		inflight: make(map[string]*photoFetch),
	}
}

// Resolve returns the photo URL for the (placeName, destination) pair, or
// "" when no photo could be obtained. It never returns an error: photo
// resolution degrades silently by contract.
func (s *PhotoService) Resolve(ctx context.Context, placeName, destination string) string {
	if placeName == "" || destination == "" {
		return ""
	}

	key := placeName + "|" + destination
	if v, found := s.cache.Get(key); found {
		url, _ := v.(string)
		return url
	}

	// Supersede any fetch already running for this pair.
	fetchCtx, cancel := context.WithCancel(ctx)
	this := &photoFetch{cancel: cancel}
	s.mu.Lock()
	if prev, ok := s.inflight[key]; ok {
		prev.cancel()
	}
	s.inflight[key] = this
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		if s.inflight[key] == this {
			delete(s.inflight, key)
		}
		s.mu.Unlock()
		cancel()
	}()

	query := placeName + ", " + destination
	url := s.fetch(fetchCtx, query)

	// A superseded or torn-down fetch must not clobber the cache for the
	// fetch that replaced it.
	if fetchCtx.Err() == nil {
		s.cache.SetDefault(key, url)
	}
	return url
}

// fetch runs the lookup with the retry/backoff/timeout policy, returning
// "" on any failure.
func (s *PhotoService) fetch(ctx context.Context, query string) string {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = photoFetchTimeout
	}

	backoff := retry.WithMaxRetries(photoMaxRetries,
		retry.WithCappedDuration(photoBackoffCap,
			retry.NewExponential(photoBackoffBase)))

	var url string
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		u, err := s.Source.Lookup(attemptCtx, query)
		if err != nil {
			return retry.RetryableError(err)
		}
		url = u
		return nil
	})
	if err != nil {
		log.Debug().Err(err).Str("query", query).Msg("photo lookup failed, degrading to no photo")
		return ""
	}
	return url
}
