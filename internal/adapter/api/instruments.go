package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mmcdole/instrumenta/internal/domain"
)

func (c *Client) ListInstruments(ctx context.Context, opts domain.ListOptions) (domain.Page[domain.Instrument], error) {
	return get[domain.Page[domain.Instrument]](ctx, c, "/instruments", opts.Encode())
}

func (c *Client) GetInstrument(ctx context.Context, id int64) (domain.Response[domain.Instrument], error) {
	return get[domain.Response[domain.Instrument]](ctx, c, instrumentPath(id), nil)
}

func (c *Client) GetInstrumentRelations(ctx context.Context, id int64) (domain.Response[domain.InstrumentWithRelations], error) {
	return get[domain.Response[domain.InstrumentWithRelations]](ctx, c, instrumentPath(id)+"/relations", nil)
}

func (c *Client) CreateInstrument(ctx context.Context, in domain.CreateInstrument) (domain.Response[domain.Instrument], error) {
	resp, err := send[domain.Response[domain.Instrument]](ctx, c, http.MethodPost, "/instruments", in)
	if err != nil {
		return resp, err
	}
	c.succeed("Instrument created")
	return resp, nil
}

func (c *Client) UpdateInstrument(ctx context.Context, id int64, in domain.UpdateInstrument) (domain.Response[domain.Instrument], error) {
	resp, err := send[domain.Response[domain.Instrument]](ctx, c, http.MethodPut, instrumentPath(id), in)
	if err != nil {
		return resp, err
	}
	c.succeed("Instrument updated")
	return resp, nil
}

func (c *Client) DeleteInstrument(ctx context.Context, id int64) error {
	if err := c.do(ctx, request{method: http.MethodDelete, path: instrumentPath(id)}, nil); err != nil {
		return err
	}
	c.succeed("Instrument deleted")
	return nil
}

func (c *Client) InstrumentStatistics(ctx context.Context) (domain.Response[domain.Statistics], error) {
	return get[domain.Response[domain.Statistics]](ctx, c, "/instruments/statistics", nil)
}

// AdvancedSearch sends only the filters that are set.
func (c *Client) AdvancedSearch(ctx context.Context, filters domain.SearchFilters) (domain.Response[[]domain.Instrument], error) {
	q := url.Values{}
	filters.Encode(q)
	return get[domain.Response[[]domain.Instrument]](ctx, c, "/instruments/search", q)
}

func (c *Client) InstrumentsByFamily(ctx context.Context, family string) (domain.Response[[]domain.InstrumentFamily], error) {
	return get[domain.Response[[]domain.InstrumentFamily]](ctx, c, "/instruments/by-family/"+url.PathEscape(family), nil)
}

func (c *Client) InstrumentsByGroup(ctx context.Context, group string) (domain.Response[[]domain.InstrumentGroup], error) {
	return get[domain.Response[[]domain.InstrumentGroup]](ctx, c, "/instruments/by-group/"+url.PathEscape(group), nil)
}

func (c *Client) SimilarInstruments(ctx context.Context, id int64, limit int) (domain.Response[[]domain.SimilarEntity], error) {
	return get[domain.Response[[]domain.SimilarEntity]](ctx, c, instrumentPath(id)+"/similar", limitQuery(limit))
}

func instrumentPath(id int64) string {
	return "/instruments/" + strconv.FormatInt(id, 10)
}

