package discovery

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mmcdole/instrumenta/internal/domain"
	"github.com/mmcdole/instrumenta/internal/query"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

type fakeClient struct {
	mu     sync.Mutex
	calls  map[string]int
	limits []int
	geo    []domain.GeographicParams
	err    error
}

func (f *fakeClient) record(op string, limit int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	f.limits = append(f.limits, limit)
	return f.err
}

func (f *fakeClient) GlobalSearch(ctx context.Context, q string, limit int) (domain.Response[domain.GlobalSearchResponse], error) {
	err := f.record("global", limit)
	return domain.Response[domain.GlobalSearchResponse]{Data: domain.GlobalSearchResponse{SearchTerm: q, TotalResults: 1}}, err
}

func (f *fakeClient) GeographicSearch(ctx context.Context, p domain.GeographicParams) (domain.Response[domain.GeographicSearchResponse], error) {
	f.mu.Lock()
	f.geo = append(f.geo, p)
	f.mu.Unlock()
	err := f.record("geographic", 0)
	var resp domain.Response[domain.GeographicSearchResponse]
	resp.Data.Results = []domain.GeographicSearchResult{{Locality: domain.Locality{Name: "Dakar"}, Distance: 3.2}}
	return resp, err
}

func (f *fakeClient) CulturalPatterns(ctx context.Context) (domain.Response[domain.CulturalPatternsResponse], error) {
	err := f.record("patterns", 0)
	var resp domain.Response[domain.CulturalPatternsResponse]
	resp.Data.Patterns = []domain.CulturalPattern{{Group: "Wolof"}}
	return resp, err
}

func (f *fakeClient) Centrality(ctx context.Context, limit int) (domain.Response[domain.CentralityResponse], error) {
	err := f.record("centrality", limit)
	return domain.Response[domain.CentralityResponse]{}, err
}

func (f *fakeClient) Recommendations(ctx context.Context, id int64, limit int) (domain.Response[domain.RecommendationsResponse], error) {
	err := f.record("recommendations", limit)
	return domain.Response[domain.RecommendationsResponse]{}, err
}

func (f *fakeClient) SimilarEntities(ctx context.Context, id int64, entityType string, limit int) (domain.Response[domain.SimilarEntitiesResponse], error) {
	err := f.record("similar", limit)
	var resp domain.Response[domain.SimilarEntitiesResponse]
	resp.Data.SimilarEntities = []domain.SimilarEntity{{Similarity: 0.8}}
	return resp, err
}

func noSleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

func newTestService() (*Service, *fakeClient) {
	client := &fakeClient{calls: make(map[string]int)}
	cache := query.New(query.Config{Sleep: noSleep})
	return NewService(client, cache, nil), client
}

func TestGlobalDisabledForBlankQuery(t *testing.T) {
	svc, client := newTestService()

	resp, err := svc.Global(context.Background(), "   ", 0)
	assert.NilError(t, err)
	assert.Check(t, resp == nil)
	assert.Equal(t, client.calls["global"], 0)
}

func TestDefaultLimitSharesEntry(t *testing.T) {
	svc, client := newTestService()
	ctx := context.Background()

	resp, err := svc.Global(ctx, "kora", 0)
	assert.NilError(t, err)
	assert.Equal(t, resp.SearchTerm, "kora")
	_, err = svc.Global(ctx, "kora", domain.DefaultGlobalLimit)
	assert.NilError(t, err)
	assert.Equal(t, client.calls["global"], 1)

	_, err = svc.Centrality(ctx, 0)
	assert.NilError(t, err)
	_, err = svc.Recommendations(ctx, 4, 0)
	assert.NilError(t, err)
	similar, err := svc.Similar(ctx, 4, "Instrument", 0)
	assert.NilError(t, err)
	assert.Check(t, is.Len(similar, 1))
	assert.DeepEqual(t, client.limits, []int{50, 20, 5, 10})
}

func TestGeographicDefaultsRadius(t *testing.T) {
	svc, client := newTestService()

	results, err := svc.Geographic(context.Background(), domain.GeographicParams{Lat: 14.69, Lng: -17.44})
	assert.NilError(t, err)
	assert.Equal(t, results[0].Locality.Name, "Dakar")
	assert.Equal(t, client.geo[0].Radius, float64(domain.DefaultGeographicRadius))

	_, err = svc.Geographic(context.Background(), domain.GeographicParams{Lat: 14.69, Lng: -17.44, Radius: 100})
	assert.NilError(t, err)
	assert.Equal(t, client.calls["geographic"], 1)
}

func TestInvalidIDs(t *testing.T) {
	svc, client := newTestService()
	_, err := svc.Recommendations(context.Background(), 0, 5)
	assert.ErrorIs(t, err, domain.ErrInvalidID)
	_, err = svc.Similar(context.Background(), -1, "", 5)
	assert.ErrorIs(t, err, domain.ErrInvalidID)
	assert.Equal(t, len(client.limits), 0)
}

func TestFailureIsRetriedThenReported(t *testing.T) {
	svc, client := newTestService()
	client.err = errors.New("graph unavailable")

	_, err := svc.CulturalPatterns(context.Background())
	assert.ErrorContains(t, err, "graph unavailable")
	assert.Equal(t, client.calls["patterns"], 1+query.ReadRetries)
}
