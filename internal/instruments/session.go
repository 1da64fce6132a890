package instruments

import (
	"context"
	"sync"

	"github.com/mmcdole/instrumenta/internal/domain"
	"github.com/mmcdole/instrumenta/internal/search"
)

// SearchSession holds a search box: the raw term as typed, the debounced
// term used for requests, and the active filters.
type SearchSession struct {
	mu        sync.Mutex
	queries   *Queries
	term      string
	debounced string
	filters   domain.SearchFilters
	debouncer *search.Debouncer[string]
	onApply   func(term string)
}

// NewSearchSession creates a session. onApply, if set, runs each time the
// debounced term changes. A nil sched uses real timers.
func NewSearchSession(queries *Queries, sched search.Scheduler, onApply func(term string)) *SearchSession {
	s := &SearchSession{queries: queries, onApply: onApply}
	s.debouncer = search.NewDebouncer(search.DefaultDelay, s.apply, sched)
	return s
}

func (s *SearchSession) apply(term string) {
	s.mu.Lock()
	s.debounced = term
	onApply := s.onApply
	s.mu.Unlock()
	if onApply != nil {
		onApply(term)
	}
}

// SetTerm records a keystroke.
func (s *SearchSession) SetTerm(term string) {
	s.mu.Lock()
	s.term = term
	s.mu.Unlock()
	s.debouncer.Push(term)
}

func (s *SearchSession) Term() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.term
}

func (s *SearchSession) DebouncedTerm() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.debounced
}

// IsSearching reports whether the typed term has not been applied yet.
func (s *SearchSession) IsSearching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.term != s.debounced
}

func (s *SearchSession) Filters() domain.SearchFilters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// UpdateFilter changes one or more filters in place.
func (s *SearchSession) UpdateFilter(update func(f *domain.SearchFilters)) {
	s.mu.Lock()
	update(&s.filters)
	s.mu.Unlock()
}

func (s *SearchSession) SetFilters(filters domain.SearchFilters) {
	s.mu.Lock()
	s.filters = filters
	s.mu.Unlock()
}

func (s *SearchSession) ClearFilters() {
	s.SetFilters(domain.SearchFilters{})
}

// Options is the list request for the applied term and filters.
func (s *SearchSession) Options() domain.ListOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.ListOptions{Search: s.debounced, Filters: s.filters}
}

// Results lists instruments for the applied term and filters.
func (s *SearchSession) Results(ctx context.Context) (domain.Page[domain.Instrument], error) {
	return s.queries.List(ctx, s.Options())
}

// Close drops any pending keystroke.
func (s *SearchSession) Close() {
	s.debouncer.Stop()
}
