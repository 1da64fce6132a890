package entities

import (
	"context"
	"sync"
	"time"

	"github.com/mmcdole/instrumenta/internal/domain"
)

type fakeClient struct {
	mu       sync.Mutex
	calls    map[string]int
	fail     map[string]error
	families []domain.Family
	groups   []domain.EthnicGroup
	places   []domain.Locality
	rhythms  []domain.Rhythm
	material []domain.Material
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		calls: make(map[string]int),
		fail:  make(map[string]error),
		families: []domain.Family{
			{ID: 1, Name: domain.FamilyStrings},
			{ID: 2, Name: domain.FamilyPercussion},
		},
		groups: []domain.EthnicGroup{
			{ID: 1, Name: "Wolof", Language: "wolof"},
			{ID: 2, Name: "Sérère"},
		},
		places:   []domain.Locality{{ID: 1, Name: "Dakar", Latitude: 14.69, Longitude: -17.44}},
		rhythms:  []domain.Rhythm{{ID: 1, Name: "Mbalax"}},
		material: []domain.Material{{ID: 1, Name: "Bois"}, {ID: 2, Name: "Peau de chèvre"}},
	}
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

func (f *fakeClient) setFail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[op] = err
}

func list[T any](f *fakeClient, op string, items *[]T) (domain.Page[T], error) {
	if err := f.record(op); err != nil {
		return domain.Page[T]{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]T(nil), (*items)...)
	return domain.NewPage(out, 1, len(out), len(out)), nil
}

func create[T any](f *fakeClient, op string, items *[]T, item T) (domain.Response[T], error) {
	if err := f.record(op); err != nil {
		return domain.Response[T]{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	*items = append(*items, item)
	return domain.Response[T]{Success: true, Data: item}, nil
}

func (f *fakeClient) ListFamilies(ctx context.Context) (domain.Page[domain.Family], error) {
	return list(f, "families", &f.families)
}

func (f *fakeClient) CreateFamily(ctx context.Context, in domain.CreateFamily) (domain.Response[domain.Family], error) {
	return create(f, "create-family", &f.families, domain.Family{ID: int64(len(f.families) + 1), Name: in.Name})
}

func (f *fakeClient) ListEthnicGroups(ctx context.Context) (domain.Page[domain.EthnicGroup], error) {
	return list(f, "groups", &f.groups)
}

func (f *fakeClient) CreateEthnicGroup(ctx context.Context, in domain.CreateEthnicGroup) (domain.Response[domain.EthnicGroup], error) {
	return create(f, "create-group", &f.groups, domain.EthnicGroup{ID: 99, Name: in.Name, Language: in.Language})
}

func (f *fakeClient) ListLocalities(ctx context.Context) (domain.Page[domain.Locality], error) {
	return list(f, "localities", &f.places)
}

func (f *fakeClient) CreateLocality(ctx context.Context, in domain.CreateLocality) (domain.Response[domain.Locality], error) {
	return create(f, "create-locality", &f.places, domain.Locality{ID: 99, Name: in.Name, Latitude: in.Latitude, Longitude: in.Longitude})
}

func (f *fakeClient) ListRhythms(ctx context.Context) (domain.Page[domain.Rhythm], error) {
	return list(f, "rhythms", &f.rhythms)
}

func (f *fakeClient) CreateRhythm(ctx context.Context, in domain.CreateRhythm) (domain.Response[domain.Rhythm], error) {
	return create(f, "create-rhythm", &f.rhythms, domain.Rhythm{ID: 99, Name: in.Name, TempoBPM: in.TempoBPM})
}

func (f *fakeClient) ListMaterials(ctx context.Context) (domain.Page[domain.Material], error) {
	return list(f, "materials", &f.material)
}

func (f *fakeClient) CreateMaterial(ctx context.Context, in domain.CreateMaterial) (domain.Response[domain.Material], error) {
	return create(f, "create-material", &f.material, domain.Material{ID: 99, Name: in.Name, Type: in.Type})
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
