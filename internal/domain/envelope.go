package domain

// Response is the envelope every non-paginated endpoint answers with.
type Response[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Pagination echoes the page that was served.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// Page is the envelope of list endpoints.
// Total is independent of len(Data.Data); Page*Limit may exceed it.
type Page[T any] struct {
	Success bool `json:"success"`
	Data    struct {
		Data  []T `json:"data"`
		Total int `json:"total"`
	} `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Items returns the entities of the page, never nil.
func (p Page[T]) Items() []T {
	if p.Data.Data == nil {
		return []T{}
	}
	return p.Data.Data
}

// Total prefers the pagination block and falls back to the data block.
func (p Page[T]) Total() int {
	if p.Pagination.Total > 0 {
		return p.Pagination.Total
	}
	return p.Data.Total
}

// NewPage builds a Page from items, mostly for tests and seeding.
func NewPage[T any](items []T, page, limit, total int) Page[T] {
	var p Page[T]
	p.Success = true
	p.Data.Data = items
	p.Data.Total = total
	p.Pagination = Pagination{Page: page, Limit: limit, Total: total}
	return p
}

// Statistics is GET /instruments/statistics.
type Statistics struct {
	TotalInstruments int      `json:"totalInstruments"`
	TotalFamilies    int      `json:"totalFamilles"`
	TotalLocalities  int      `json:"totalLocalites"`
	TotalMaterials   int      `json:"totalMateriaux"`
	Families         []string `json:"familles"`
	Localities       []string `json:"localites"`
	Materials        []string `json:"materiaux"`
}

// InstrumentFamily pairs an instrument with the family it was listed under.
type InstrumentFamily struct {
	Instrument Instrument `json:"instrument"`
	Family     Family     `json:"famille"`
}

// InstrumentGroup pairs an instrument with the ethnic group it was listed under.
type InstrumentGroup struct {
	Instrument  Instrument  `json:"instrument"`
	EthnicGroup EthnicGroup `json:"groupeEthnique"`
}

// ServerHealth is GET /health on the unversioned root.
type ServerHealth struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
}

// DatabaseHealth is GET /db-health on the unversioned root.
type DatabaseHealth struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Message  string `json:"message,omitempty"`
}
