package instruments

import (
	"log/slog"

	"github.com/mmcdole/instrumenta/internal/domain"
	"github.com/mmcdole/instrumenta/internal/query"
)

// Service bundles instrument reads and writes.
type Service struct {
	*Queries
	*Commands
}

// NewService creates a new instrument service
func NewService(client domain.InstrumentClient, cache *query.Cache, logger *slog.Logger) *Service {
	return &Service{
		Queries:  NewQueries(client, cache, logger),
		Commands: NewCommands(client, cache, logger),
	}
}
