package entities

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmcdole/instrumenta/internal/domain"
	"github.com/mmcdole/instrumenta/internal/query"
)

// Cache keys of the reference lists.
const (
	FamiliesKey     = "familles"
	EthnicGroupsKey = "groupes-ethniques"
	LocalitiesKey   = "localites"
	RhythmsKey      = "rythmes"
	MaterialsKey    = "materiaux"
)

// Reference data changes rarely; families and materials almost never.
const (
	FamiliesStaleTime     = 15 * time.Minute
	EthnicGroupsStaleTime = 10 * time.Minute
	LocalitiesStaleTime   = 10 * time.Minute
	RhythmsStaleTime      = 10 * time.Minute
	MaterialsStaleTime    = 15 * time.Minute
)

// Input is a create payload that can reject itself before any request.
type Input interface {
	Validate() error
}

// Resource is the cached list of one reference type and its create call.
type Resource[T any, In Input] struct {
	key       query.Key
	label     string
	staleTime time.Duration
	list      func(ctx context.Context) (domain.Page[T], error)
	create    func(ctx context.Context, in In) (domain.Response[T], error)
	cache     *query.Cache
	logger    *slog.Logger
}

func newResource[T any, In Input](
	cache *query.Cache,
	logger *slog.Logger,
	key, label string,
	staleTime time.Duration,
	list func(ctx context.Context) (domain.Page[T], error),
	create func(ctx context.Context, in In) (domain.Response[T], error),
) *Resource[T, In] {
	return &Resource[T, In]{
		key:       query.Key{key},
		label:     label,
		staleTime: staleTime,
		list:      list,
		create:    create,
		cache:     cache,
		logger:    logger,
	}
}

// Key is the single cache key of the list.
func (r *Resource[T, In]) Key() query.Key { return r.key }

// List returns every entity of the type. Successful lists are persisted.
func (r *Resource[T, In]) List(ctx context.Context) ([]T, error) {
	return query.Fetch(ctx, r.cache, r.key, query.Read(r.staleTime).Persisted(),
		func(ctx context.Context) ([]T, error) {
			page, err := r.list(ctx)
			if err != nil {
				return nil, err
			}
			return page.Items(), nil
		})
}

// Create adds an entity and marks the list stale.
func (r *Resource[T, In]) Create(ctx context.Context, in In) (T, error) {
	if err := in.Validate(); err != nil {
		var zero T
		return zero, err
	}
	resp, err := query.Mutate(ctx, r.cache, func(ctx context.Context) (domain.Response[T], error) {
		return r.create(ctx, in)
	})
	if err != nil {
		r.logger.Error("failed to create "+r.label, "error", err)
		var zero T
		return zero, err
	}
	r.cache.Invalidate(r.key)
	return resp.Data, nil
}

// Refetch drops freshness and reloads.
func (r *Resource[T, In]) Refetch(ctx context.Context) ([]T, error) {
	r.cache.Invalidate(r.key)
	return r.List(ctx)
}

func (r *Resource[T, In]) State() query.State {
	return r.cache.State(r.key)
}

// Cached returns the last good list without loading.
func (r *Resource[T, In]) Cached() ([]T, bool) {
	return query.Get[[]T](r.cache, r.key)
}
