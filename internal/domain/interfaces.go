package domain

import "context"

// Notifier surfaces transient, user-visible messages (toasts).
type Notifier interface {
	Success(message string)
	Error(message string)
}

// NopNotifier drops every message (for testing/batch operations).
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}

// InstrumentClient: network operations on instruments.
type InstrumentClient interface {
	ListInstruments(ctx context.Context, opts ListOptions) (Page[Instrument], error)
	GetInstrument(ctx context.Context, id int64) (Response[Instrument], error)
	GetInstrumentRelations(ctx context.Context, id int64) (Response[InstrumentWithRelations], error)
	CreateInstrument(ctx context.Context, in CreateInstrument) (Response[Instrument], error)
	UpdateInstrument(ctx context.Context, id int64, in UpdateInstrument) (Response[Instrument], error)
	DeleteInstrument(ctx context.Context, id int64) error
	InstrumentStatistics(ctx context.Context) (Response[Statistics], error)
	AdvancedSearch(ctx context.Context, filters SearchFilters) (Response[[]Instrument], error)
	InstrumentsByFamily(ctx context.Context, family string) (Response[[]InstrumentFamily], error)
	InstrumentsByGroup(ctx context.Context, group string) (Response[[]InstrumentGroup], error)
	SimilarInstruments(ctx context.Context, id int64, limit int) (Response[[]SimilarEntity], error)
}

// ReferenceClient: network operations on the low-churn reference entities.
type ReferenceClient interface {
	ListFamilies(ctx context.Context) (Page[Family], error)
	CreateFamily(ctx context.Context, in CreateFamily) (Response[Family], error)
	ListEthnicGroups(ctx context.Context) (Page[EthnicGroup], error)
	CreateEthnicGroup(ctx context.Context, in CreateEthnicGroup) (Response[EthnicGroup], error)
	ListLocalities(ctx context.Context) (Page[Locality], error)
	CreateLocality(ctx context.Context, in CreateLocality) (Response[Locality], error)
	ListRhythms(ctx context.Context) (Page[Rhythm], error)
	CreateRhythm(ctx context.Context, in CreateRhythm) (Response[Rhythm], error)
	ListMaterials(ctx context.Context) (Page[Material], error)
	CreateMaterial(ctx context.Context, in CreateMaterial) (Response[Material], error)
}

// RelationClient: network operations on typed edges.
type RelationClient interface {
	RelationTypes(ctx context.Context) (Response[[]RelationTypeInfo], error)
	RelationStatistics(ctx context.Context) (Response[RelationStatistics], error)
	EntityRelations(ctx context.Context, entityID int64) (Response[EntityRelations], error)
	CreateRelation(ctx context.Context, in CreateRelation) error
	ValidateRelation(ctx context.Context, in CreateRelation) (Response[ValidationResult], error)
	DeleteRelation(ctx context.Context, sourceID, targetID int64, relationType RelationType) error
}

// DiscoveryClient: the semantic search endpoints.
type DiscoveryClient interface {
	GlobalSearch(ctx context.Context, query string, limit int) (Response[GlobalSearchResponse], error)
	GeographicSearch(ctx context.Context, params GeographicParams) (Response[GeographicSearchResponse], error)
	CulturalPatterns(ctx context.Context) (Response[CulturalPatternsResponse], error)
	Centrality(ctx context.Context, limit int) (Response[CentralityResponse], error)
	Recommendations(ctx context.Context, entityID int64, limit int) (Response[RecommendationsResponse], error)
	SimilarEntities(ctx context.Context, entityID int64, entityType string, limit int) (Response[SimilarEntitiesResponse], error)
}

// HealthClient: side-channel checks on the unversioned root.
type HealthClient interface {
	ServerHealth(ctx context.Context) (ServerHealth, error)
	DatabaseHealth(ctx context.Context) (DatabaseHealth, error)
	TestConnection(ctx context.Context) bool
}
