package instruments

import (
	"context"
	"testing"
	"time"

	"github.com/mmcdole/instrumenta/internal/domain"
	"github.com/mmcdole/instrumenta/internal/search/searchtest"
	"gotest.tools/v3/assert"
)

func TestSearchSessionDebouncesKeystrokes(t *testing.T) {
	svc, client, _ := newTestService(t, seed(3)...)
	sched := searchtest.New()
	var applied []string
	var appliedAt []time.Duration
	s := NewSearchSession(svc.Queries, sched, func(term string) {
		applied = append(applied, term)
		appliedAt = append(appliedAt, sched.Now())
	})
	defer s.Close()

	for i, term := range []string{"k", "ko", "kor", "kora"} {
		sched.AdvanceTo(time.Duration(i) * 50 * time.Millisecond)
		s.SetTerm(term)
	}
	assert.Assert(t, s.IsSearching())
	assert.Equal(t, s.DebouncedTerm(), "")

	sched.AdvanceTo(time.Second)
	assert.DeepEqual(t, applied, []string{"kora"})
	assert.DeepEqual(t, appliedAt, []time.Duration{450 * time.Millisecond})
	assert.Assert(t, !s.IsSearching())

	s.UpdateFilter(func(f *domain.SearchFilters) { f.Family = "Cordes" })
	_, err := s.Results(context.Background())
	assert.NilError(t, err)
	_, err = s.Results(context.Background())
	assert.NilError(t, err)

	assert.Equal(t, client.Calls("list"), 1)
	assert.Equal(t, client.lists[0].Search, "kora")
	assert.Equal(t, client.lists[0].Filters.Family, "Cordes")
}

func TestSearchSessionCloseDropsPendingTerm(t *testing.T) {
	svc, _, _ := newTestService(t)
	sched := searchtest.New()
	s := NewSearchSession(svc.Queries, sched, nil)

	s.SetTerm("sabar")
	s.Close()
	sched.Advance(time.Second)

	assert.Equal(t, s.DebouncedTerm(), "")
	s.SetFilters(domain.SearchFilters{Locality: "Dakar"})
	s.ClearFilters()
	assert.Assert(t, s.Filters().IsEmpty())
}
