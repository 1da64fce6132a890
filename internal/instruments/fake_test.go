package instruments

import (
	"context"
	"sort"
	"sync"

	"github.com/mmcdole/instrumenta/internal/domain"
)

// fakeClient is an in-memory instrument API.
type fakeClient struct {
	mu     sync.Mutex
	items  map[int64]domain.Instrument
	nextID int64
	calls  map[string]int
	fail   map[string]error
	lists  []domain.ListOptions
}

func newFakeClient(items ...domain.Instrument) *fakeClient {
	f := &fakeClient{items: make(map[int64]domain.Instrument), calls: make(map[string]int), fail: make(map[string]error), nextID: 1}
	for _, it := range items {
		f.items[it.ID] = it
		if it.ID >= f.nextID {
			f.nextID = it.ID + 1
		}
	}
	return f
}

func (f *fakeClient) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.fail[op]
}

func (f *fakeClient) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeClient) sorted() []domain.Instrument {
	out := make([]domain.Instrument, 0, len(f.items))
	for _, it := range f.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeClient) ListInstruments(ctx context.Context, opts domain.ListOptions) (domain.Page[domain.Instrument], error) {
	if err := f.record("list"); err != nil {
		return domain.Page[domain.Instrument]{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, opts)
	all := f.sorted()
	page, limit := opts.Page, opts.Limit
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = len(all)
	}
	start := min((page-1)*limit, len(all))
	end := min(start+limit, len(all))
	return domain.NewPage(all[start:end], page, limit, len(all)), nil
}

func (f *fakeClient) GetInstrument(ctx context.Context, id int64) (domain.Response[domain.Instrument], error) {
	if err := f.record("get"); err != nil {
		return domain.Response[domain.Instrument]{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return domain.Response[domain.Instrument]{}, &domain.APIError{Status: 404, Message: "Instrument non trouvé"}
	}
	return domain.Response[domain.Instrument]{Success: true, Data: it}, nil
}

func (f *fakeClient) GetInstrumentRelations(ctx context.Context, id int64) (domain.Response[domain.InstrumentWithRelations], error) {
	if err := f.record("relations"); err != nil {
		return domain.Response[domain.InstrumentWithRelations]{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return domain.Response[domain.InstrumentWithRelations]{Success: true, Data: domain.InstrumentWithRelations{Instrument: f.items[id]}}, nil
}

func (f *fakeClient) CreateInstrument(ctx context.Context, in domain.CreateInstrument) (domain.Response[domain.Instrument], error) {
	if err := f.record("create"); err != nil {
		return domain.Response[domain.Instrument]{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	it := domain.Instrument{ID: f.nextID, Name: in.Name, Description: in.Description, CreationYear: in.CreationYear}
	f.nextID++
	f.items[it.ID] = it
	return domain.Response[domain.Instrument]{Success: true, Data: it}, nil
}

func (f *fakeClient) UpdateInstrument(ctx context.Context, id int64, in domain.UpdateInstrument) (domain.Response[domain.Instrument], error) {
	if err := f.record("update"); err != nil {
		return domain.Response[domain.Instrument]{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	it := f.items[id]
	if in.Name != nil {
		it.Name = *in.Name
	}
	if in.Description != nil {
		it.Description = *in.Description
	}
	f.items[id] = it
	return domain.Response[domain.Instrument]{Success: true, Data: it}, nil
}

func (f *fakeClient) DeleteInstrument(ctx context.Context, id int64) error {
	if err := f.record("delete"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

func (f *fakeClient) InstrumentStatistics(ctx context.Context) (domain.Response[domain.Statistics], error) {
	if err := f.record("statistics"); err != nil {
		return domain.Response[domain.Statistics]{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return domain.Response[domain.Statistics]{Success: true, Data: domain.Statistics{TotalInstruments: len(f.items)}}, nil
}

func (f *fakeClient) AdvancedSearch(ctx context.Context, filters domain.SearchFilters) (domain.Response[[]domain.Instrument], error) {
	if err := f.record("search"); err != nil {
		return domain.Response[[]domain.Instrument]{}, err
	}
	return domain.Response[[]domain.Instrument]{Success: true, Data: []domain.Instrument{}}, nil
}

func (f *fakeClient) InstrumentsByFamily(ctx context.Context, family string) (domain.Response[[]domain.InstrumentFamily], error) {
	if err := f.record("by-family"); err != nil {
		return domain.Response[[]domain.InstrumentFamily]{}, err
	}
	return domain.Response[[]domain.InstrumentFamily]{Success: true}, nil
}

func (f *fakeClient) InstrumentsByGroup(ctx context.Context, group string) (domain.Response[[]domain.InstrumentGroup], error) {
	if err := f.record("by-group"); err != nil {
		return domain.Response[[]domain.InstrumentGroup]{}, err
	}
	return domain.Response[[]domain.InstrumentGroup]{Success: true}, nil
}

func (f *fakeClient) SimilarInstruments(ctx context.Context, id int64, limit int) (domain.Response[[]domain.SimilarEntity], error) {
	if err := f.record("similar"); err != nil {
		return domain.Response[[]domain.SimilarEntity]{}, err
	}
	return domain.Response[[]domain.SimilarEntity]{Success: true, Data: make([]domain.SimilarEntity, limit)}, nil
}

var _ domain.InstrumentClient = (*fakeClient)(nil)
