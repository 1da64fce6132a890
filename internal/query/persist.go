package query

import (
	"encoding/json"
	"time"
)

// Persisted is the on-disk form of a successful result.
type Persisted struct {
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updatedAt"`
	StaleTime time.Duration   `json:"staleTime"`
}

// Persister is the durable tier behind the cache. Implementations must be
// safe for concurrent use.
type Persister interface {
	LoadQueries() (map[string]Persisted, error)
	SaveQuery(key string, q Persisted) error
	DeleteQueries(match func(key string) bool) error
}

// rawData holds a hydrated result until a typed read decodes it.
type rawData struct {
	raw json.RawMessage
}
