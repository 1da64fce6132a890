package instruments

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mmcdole/instrumenta/internal/domain"
	"github.com/mmcdole/instrumenta/internal/query"
)

// Queries provides cached reads of instruments.
type Queries struct {
	client domain.InstrumentClient
	cache  *query.Cache
	logger *slog.Logger
}

// NewQueries creates a new Queries instance.
func NewQueries(client domain.InstrumentClient, cache *query.Cache, logger *slog.Logger) *Queries {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queries{client: client, cache: cache, logger: logger}
}

// List returns one page of instruments.
func (q *Queries) List(ctx context.Context, opts domain.ListOptions) (domain.Page[domain.Instrument], error) {
	return query.Fetch(ctx, q.cache, ListKey(opts), query.Read(ListStaleTime),
		func(ctx context.Context) (domain.Page[domain.Instrument], error) {
			return q.client.ListInstruments(ctx, opts)
		})
}

func (q *Queries) Get(ctx context.Context, id int64) (domain.Instrument, error) {
	if id <= 0 {
		return domain.Instrument{}, domain.ErrInvalidID
	}
	return query.Fetch(ctx, q.cache, DetailKey(id), query.Read(DetailStaleTime),
		func(ctx context.Context) (domain.Instrument, error) {
			resp, err := q.client.GetInstrument(ctx, id)
			return resp.Data, err
		})
}

// WithRelations returns the instrument and everything it is linked to.
func (q *Queries) WithRelations(ctx context.Context, id int64) (domain.InstrumentWithRelations, error) {
	if id <= 0 {
		return domain.InstrumentWithRelations{}, domain.ErrInvalidID
	}
	return query.Fetch(ctx, q.cache, RelationsKey(id), query.Read(RelationsStaleTime),
		func(ctx context.Context) (domain.InstrumentWithRelations, error) {
			resp, err := q.client.GetInstrumentRelations(ctx, id)
			return resp.Data, err
		})
}

func (q *Queries) Statistics(ctx context.Context) (domain.Statistics, error) {
	return query.Fetch(ctx, q.cache, StatisticsKey(), query.Read(StatisticsStaleTime),
		func(ctx context.Context) (domain.Statistics, error) {
			resp, err := q.client.InstrumentStatistics(ctx)
			return resp.Data, err
		})
}

// AdvancedSearch is disabled while no filter is set: it returns nothing
// and sends nothing.
func (q *Queries) AdvancedSearch(ctx context.Context, filters domain.SearchFilters) ([]domain.Instrument, error) {
	if filters.IsEmpty() {
		return nil, nil
	}
	return query.Fetch(ctx, q.cache, SearchKey(filters), query.Read(SearchStaleTime),
		func(ctx context.Context) ([]domain.Instrument, error) {
			resp, err := q.client.AdvancedSearch(ctx, filters)
			return resp.Data, err
		})
}

// ByFamily is disabled for an empty family.
func (q *Queries) ByFamily(ctx context.Context, family string) ([]domain.InstrumentFamily, error) {
	if strings.TrimSpace(family) == "" {
		return nil, nil
	}
	return query.Fetch(ctx, q.cache, ByFamilyKey(family), query.Read(GroupingStaleTime),
		func(ctx context.Context) ([]domain.InstrumentFamily, error) {
			resp, err := q.client.InstrumentsByFamily(ctx, family)
			return resp.Data, err
		})
}

// ByGroup is disabled for an empty group.
func (q *Queries) ByGroup(ctx context.Context, group string) ([]domain.InstrumentGroup, error) {
	if strings.TrimSpace(group) == "" {
		return nil, nil
	}
	return query.Fetch(ctx, q.cache, ByGroupKey(group), query.Read(GroupingStaleTime),
		func(ctx context.Context) ([]domain.InstrumentGroup, error) {
			resp, err := q.client.InstrumentsByGroup(ctx, group)
			return resp.Data, err
		})
}

// Similar returns instruments close to id; limit <= 0 uses DefaultSimilarLimit.
func (q *Queries) Similar(ctx context.Context, id int64, limit int) ([]domain.SimilarEntity, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidID
	}
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}
	return query.Fetch(ctx, q.cache, SimilarKey(id, limit), query.Read(SimilarStaleTime),
		func(ctx context.Context) ([]domain.SimilarEntity, error) {
			resp, err := q.client.SimilarInstruments(ctx, id, limit)
			return resp.Data, err
		})
}

// Cached returns the page held for opts without loading.
func (q *Queries) Cached(opts domain.ListOptions) (domain.Page[domain.Instrument], bool) {
	return query.Get[domain.Page[domain.Instrument]](q.cache, ListKey(opts))
}

// ListState exposes the cache state of the page for opts.
func (q *Queries) ListState(opts domain.ListOptions) query.State {
	return q.cache.State(ListKey(opts))
}
