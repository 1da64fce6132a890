package domain

// SearchResult is one hit of the global search.
type SearchResult struct {
	Entity Entity   `json:"entity"`
	Labels []string `json:"labels"`
	Name   string   `json:"name"`
	Type   string   `json:"type"`
}

// GlobalSearchResponse groups hits by entity type.
type GlobalSearchResponse struct {
	SearchTerm   string                    `json:"searchTerm"`
	TotalResults int                       `json:"totalResults"`
	Results      map[string][]SearchResult `json:"results"`
	AllResults   []SearchResult            `json:"allResults"`
}

// GeographicSearchResult is a locality near the searched point.
type GeographicSearchResult struct {
	Locality     Locality      `json:"localite"`
	Distance     float64       `json:"distance"`
	Instruments  []Instrument  `json:"instruments"`
	EthnicGroups []EthnicGroup `json:"groupesEthniques"`
	Rhythms      []Rhythm      `json:"rythmes"`
}

type GeographicSearchResponse struct {
	Results []GeographicSearchResult `json:"results"`
}

// SimilarEntity is an entity with its similarity score.
type SimilarEntity struct {
	Entity     Entity  `json:"entity"`
	Similarity float64 `json:"similarity"`
}

type SimilarEntitiesResponse struct {
	SimilarEntities []SimilarEntity `json:"similarEntities"`
}

// CulturalPattern ties a heritage to a group, a place and its instruments.
type CulturalPattern struct {
	Heritage    string   `json:"patrimoine"`
	Group       string   `json:"groupe"`
	Locality    string   `json:"localite"`
	Instruments []string `json:"instruments"`
	Rhythms     []string `json:"rythmes"`
	Materials   []string `json:"materiaux"`
	Families    []string `json:"familles"`
}

type CulturalPatternsResponse struct {
	Patterns []CulturalPattern `json:"patterns"`
}

// CentralityAnalysis is an entity ranked by graph centrality.
type CentralityAnalysis struct {
	Entity     Entity  `json:"entity"`
	Type       string  `json:"type"`
	Centrality float64 `json:"centrality"`
}

type CentralityResponse struct {
	CentralityAnalysis []CentralityAnalysis `json:"centralityAnalysis"`
}

// RecommendationsResponse is left loosely typed; the backend does not fix its shape.
type RecommendationsResponse struct {
	Recommendations []Entity `json:"recommendations"`
}
