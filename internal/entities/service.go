package entities

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sourcegraph/conc"

	"github.com/mmcdole/instrumenta/internal/domain"
	"github.com/mmcdole/instrumenta/internal/query"
)

// Service holds the five reference resources.
type Service struct {
	Families     *Resource[domain.Family, domain.CreateFamily]
	EthnicGroups *Resource[domain.EthnicGroup, domain.CreateEthnicGroup]
	Localities   *Resource[domain.Locality, domain.CreateLocality]
	Rhythms      *Resource[domain.Rhythm, domain.CreateRhythm]
	Materials    *Resource[domain.Material, domain.CreateMaterial]

	cache  *query.Cache
	logger *slog.Logger
}

// NewService creates a new Service instance.
func NewService(client domain.ReferenceClient, cache *query.Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Families: newResource(cache, logger, FamiliesKey, "family", FamiliesStaleTime,
			client.ListFamilies, client.CreateFamily),
		EthnicGroups: newResource(cache, logger, EthnicGroupsKey, "ethnic group", EthnicGroupsStaleTime,
			client.ListEthnicGroups, client.CreateEthnicGroup),
		Localities: newResource(cache, logger, LocalitiesKey, "locality", LocalitiesStaleTime,
			client.ListLocalities, client.CreateLocality),
		Rhythms: newResource(cache, logger, RhythmsKey, "rhythm", RhythmsStaleTime,
			client.ListRhythms, client.CreateRhythm),
		Materials: newResource(cache, logger, MaterialsKey, "material", MaterialsStaleTime,
			client.ListMaterials, client.CreateMaterial),
		cache:  cache,
		logger: logger,
	}
}

// Snapshot is the combined view of the reference lists.
type Snapshot struct {
	Families     []domain.Family
	EthnicGroups []domain.EthnicGroup
	Localities   []domain.Locality
	Rhythms      []domain.Rhythm
	Materials    []domain.Material

	IsLoading bool
	IsError   bool
	// Errors holds the failure of each list that could not be read, by key.
	Errors map[string]error
}

// Err returns one of the per-list errors, or nil.
func (s Snapshot) Err() error {
	for _, key := range []string{FamiliesKey, EthnicGroupsKey, LocalitiesKey, RhythmsKey, MaterialsKey} {
		if err := s.Errors[key]; err != nil {
			return err
		}
	}
	return nil
}

// All reads the five lists in parallel. A failed list falls back to the
// last good data of that list, or to an empty list.
func (s *Service) All(ctx context.Context) Snapshot {
	snap := Snapshot{Errors: make(map[string]error)}
	var mu sync.Mutex
	fail := func(key string, err error) {
		mu.Lock()
		snap.Errors[key] = err
		mu.Unlock()
	}

	var wg conc.WaitGroup
	wg.Go(func() { snap.Families = collect(ctx, s.Families, fail) })
	wg.Go(func() { snap.EthnicGroups = collect(ctx, s.EthnicGroups, fail) })
	wg.Go(func() { snap.Localities = collect(ctx, s.Localities, fail) })
	wg.Go(func() { snap.Rhythms = collect(ctx, s.Rhythms, fail) })
	wg.Go(func() { snap.Materials = collect(ctx, s.Materials, fail) })
	wg.Wait()

	status := s.Status()
	snap.IsLoading = status.IsLoading
	snap.IsError = status.IsError || len(snap.Errors) > 0
	return snap
}

func collect[T any, In Input](ctx context.Context, r *Resource[T, In], fail func(string, error)) []T {
	items, err := r.List(ctx)
	if err == nil {
		return items
	}
	fail(r.key.String(), err)
	if cached, ok := r.Cached(); ok {
		return cached
	}
	return []T{}
}

// Status aggregates the cache state of the five lists.
type Status struct {
	IsLoading bool
	IsError   bool
	States    map[string]query.State
}

func (s *Service) Status() Status {
	st := Status{States: make(map[string]query.State, 5)}
	for _, key := range s.keys() {
		state := s.cache.State(key)
		st.States[key.String()] = state
		st.IsLoading = st.IsLoading || state.Status == query.StatusLoading
		st.IsError = st.IsError || state.Status == query.StatusError
	}
	return st
}

func (s *Service) keys() []query.Key {
	return []query.Key{s.Families.Key(), s.EthnicGroups.Key(), s.Localities.Key(), s.Rhythms.Key(), s.Materials.Key()}
}

// RefetchAll reloads the five lists in the background. The returned
// channel is closed once every reload has settled.
func (s *Service) RefetchAll(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	refetch := func(name string, fn func(context.Context) error) func() {
		return func() {
			if err := fn(ctx); err != nil {
				s.logger.Warn("refetch failed", "resource", name, "error", err)
			}
		}
	}

	var wg conc.WaitGroup
	wg.Go(refetch(FamiliesKey, func(ctx context.Context) error { _, err := s.Families.Refetch(ctx); return err }))
	wg.Go(refetch(EthnicGroupsKey, func(ctx context.Context) error { _, err := s.EthnicGroups.Refetch(ctx); return err }))
	wg.Go(refetch(LocalitiesKey, func(ctx context.Context) error { _, err := s.Localities.Refetch(ctx); return err }))
	wg.Go(refetch(RhythmsKey, func(ctx context.Context) error { _, err := s.Rhythms.Refetch(ctx); return err }))
	wg.Go(refetch(MaterialsKey, func(ctx context.Context) error { _, err := s.Materials.Refetch(ctx); return err }))
	go func() {
		wg.Wait()
		close(done)
	}()
	return done
}
