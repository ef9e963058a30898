package sources

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bedrijfslens/kvk-intel-api/internal/apperrors"
	"github.com/bedrijfslens/kvk-intel-api/internal/cache"
	"github.com/bedrijfslens/kvk-intel-api/internal/logger"
	"github.com/bedrijfslens/kvk-intel-api/internal/ratelimit"
)

// fetchFunc performs the actual upstream call. It returns the normalized
// value, whether the lookup found anything, and an error for any other
// failure.
type fetchFunc func(ctx context.Context) (interface{}, bool, error)

// Fetcher runs the shared per-source template: cache read, rate-limit
// reservation, upstream call, negative caching, cache write. Store errors
// are logged and treated as misses; they never fail the fetch.
type Fetcher struct {
	store   cache.Store
	limiter *ratelimit.Limiter
	log     *logger.Logger
	now     func() time.Time
}

// NewFetcher creates a fetcher on the shared store and limiter
func NewFetcher(store cache.Store, limiter *ratelimit.Limiter, log *logger.Logger) *Fetcher {
	return &Fetcher{store: store, limiter: limiter, log: log, now: time.Now}
}

// Fetch returns the raw normalized JSON for a lookup, whether it was served
// from cache, and an error. A nil payload with a nil error means the lookup
// definitively found nothing.
func (f *Fetcher) Fetch(ctx context.Context, category, identifier, source string, fn fetchFunc) (json.RawMessage, bool, error) {
	key := cache.Key(category, identifier)

	raw, ok, err := f.store.Get(ctx, key)
	if err != nil {
		f.log.Warn().Err(err).Str("bron", source).Msg("cache store onbereikbaar, lookup als miss behandeld")
	} else if ok {
		if envelope, err := cache.OpenEnvelope(raw); err == nil && !envelope.Expired(f.now()) {
			return envelope.Data, true, nil
		}
	}

	negKey := cache.NegativeKey(category, identifier)
	if _, ok, err := f.store.Get(ctx, negKey); err == nil && ok {
		return nil, true, nil
	}

	limit := ratelimit.LimitFor(source)
	reservation := f.limiter.CheckAndReserve(ctx, source, limit)
	if !reservation.Allowed {
		return nil, false, apperrors.RateLimited(source, reservation.RetryAfterSeconds(f.now()))
	}

	value, found, err := fn(ctx)
	if err != nil {
		if appErr, isApp := apperrors.As(err); isApp {
			return nil, false, appErr
		}
		return nil, false, apperrors.SourceError(source, "bron niet beschikbaar", err)
	}

	if !found {
		if err := f.store.Set(ctx, negKey, []byte(`{"notFound":true}`), cache.NegativeTTL); err != nil {
			f.log.Warn().Err(err).Str("bron", source).Msg("negatieve cache-entry niet geschreven")
		}
		return nil, false, nil
	}

	encoded, err := cache.WrapEnvelope(value, source, cache.TTL(category))
	if err != nil {
		return nil, false, apperrors.SourceError(source, "resultaat kon niet worden geserialiseerd", err)
	}
	if err := f.store.Set(ctx, key, encoded, cache.TTL(category)); err != nil {
		f.log.Warn().Err(err).Str("bron", source).Msg("cache-entry niet geschreven")
	}

	envelope, err := cache.OpenEnvelope(encoded)
	if err != nil {
		return nil, false, apperrors.SourceError(source, "resultaat kon niet worden geserialiseerd", err)
	}
	return envelope.Data, false, nil
}

// fetchTyped wraps Fetch with typed marshalling. A nil result with a nil
// error means the lookup found nothing.
func fetchTyped[T any](ctx context.Context, f *Fetcher, category, identifier, source string, fn func(ctx context.Context) (*T, bool, error)) (*T, bool, error) {
	raw, fromCache, err := f.Fetch(ctx, category, identifier, source, func(ctx context.Context) (interface{}, bool, error) {
		value, found, err := fn(ctx)
		if value == nil {
			return nil, found, err
		}
		return value, found, err
	})
	if err != nil || raw == nil {
		return nil, fromCache, err
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fromCache, apperrors.SourceError(source, "ongeldige cache-inhoud", err)
	}
	return &out, fromCache, nil
}
