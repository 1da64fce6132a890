package instruments

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmcdole/instrumenta/internal/domain"
	"github.com/mmcdole/instrumenta/internal/query"
)

// Commands provides writes. Each write keeps the cache consistent with
// what the server now holds.
type Commands struct {
	client domain.InstrumentClient
	cache  *query.Cache
	logger *slog.Logger
}

// NewCommands creates a new Commands instance.
func NewCommands(client domain.InstrumentClient, cache *query.Cache, logger *slog.Logger) *Commands {
	if logger == nil {
		logger = slog.Default()
	}
	return &Commands{client: client, cache: cache, logger: logger}
}

// Create adds an instrument. Every list and the statistics go stale.
func (c *Commands) Create(ctx context.Context, in domain.CreateInstrument) (domain.Instrument, error) {
	if err := in.Validate(); err != nil {
		return domain.Instrument{}, err
	}
	resp, err := query.Mutate(ctx, c.cache, func(ctx context.Context) (domain.Response[domain.Instrument], error) {
		return c.client.CreateInstrument(ctx, in)
	})
	if err != nil {
		c.logger.Error("failed to create instrument", "error", err)
		return domain.Instrument{}, err
	}

	c.cache.Invalidate(AllKey())
	c.cache.Invalidate(StatisticsKey())
	c.logger.Debug("created instrument", "id", resp.Data.ID)
	return resp.Data, nil
}

// Update applies a partial update. The detail entry takes the server's
// answer and stays fresh; lists and the instrument's relations go stale.
func (c *Commands) Update(ctx context.Context, id int64, in domain.UpdateInstrument) (domain.Instrument, error) {
	if id <= 0 {
		return domain.Instrument{}, domain.ErrInvalidID
	}
	if err := in.Validate(); err != nil {
		return domain.Instrument{}, err
	}
	resp, err := query.Mutate(ctx, c.cache, func(ctx context.Context) (domain.Response[domain.Instrument], error) {
		return c.client.UpdateInstrument(ctx, id, in)
	})
	if err != nil {
		c.logger.Error("failed to update instrument", "id", id, "error", err)
		return domain.Instrument{}, err
	}

	c.cache.Invalidate(AllKey())
	c.cache.Invalidate(RelationsKey(id))
	c.cache.SetData(DetailKey(id), resp.Data)
	c.logger.Debug("updated instrument", "id", id)
	return resp.Data, nil
}

// Delete removes an instrument and forgets its detail entry.
func (c *Commands) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ErrInvalidID
	}
	_, err := query.Mutate(ctx, c.cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.client.DeleteInstrument(ctx, id)
	})
	if err != nil {
		c.logger.Error("failed to delete instrument", "id", id, "error", err)
		return fmt.Errorf("delete instrument %d: %w", id, err)
	}

	c.cache.Remove(DetailKey(id))
	c.cache.Invalidate(AllKey())
	c.cache.Invalidate(StatisticsKey())
	c.logger.Debug("deleted instrument", "id", id)
	return nil
}

// Refresh marks every instrument entry stale.
func (c *Commands) Refresh() {
	c.cache.Invalidate(AllKey())
}
