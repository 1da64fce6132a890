package api

import (
	"context"
	"net/http"

	"github.com/mmcdole/instrumenta/internal/domain"
)

// Reference collections. List endpoints are paginated envelopes even though
// the server returns every row.
const (
	pathFamilies     = "/familles"
	pathEthnicGroups = "/groupes-ethniques"
	pathLocalities   = "/localites"
	pathRhythms      = "/rythmes"
	pathMaterials    = "/materiaux"
)

func listAll[T any](ctx context.Context, c *Client, path string) (domain.Page[T], error) {
	return get[domain.Page[T]](ctx, c, path, nil)
}

func create[T any](ctx context.Context, c *Client, path string, in any, success string) (domain.Response[T], error) {
	resp, err := send[domain.Response[T]](ctx, c, http.MethodPost, path, in)
	if err != nil {
		return resp, err
	}
	c.succeed(success)
	return resp, nil
}

func (c *Client) ListFamilies(ctx context.Context) (domain.Page[domain.Family], error) {
	return listAll[domain.Family](ctx, c, pathFamilies)
}

func (c *Client) CreateFamily(ctx context.Context, in domain.CreateFamily) (domain.Response[domain.Family], error) {
	return create[domain.Family](ctx, c, pathFamilies, in, "Family created")
}

func (c *Client) ListEthnicGroups(ctx context.Context) (domain.Page[domain.EthnicGroup], error) {
	return listAll[domain.EthnicGroup](ctx, c, pathEthnicGroups)
}

func (c *Client) CreateEthnicGroup(ctx context.Context, in domain.CreateEthnicGroup) (domain.Response[domain.EthnicGroup], error) {
	return create[domain.EthnicGroup](ctx, c, pathEthnicGroups, in, "Ethnic group created")
}

func (c *Client) ListLocalities(ctx context.Context) (domain.Page[domain.Locality], error) {
	return listAll[domain.Locality](ctx, c, pathLocalities)
}

func (c *Client) CreateLocality(ctx context.Context, in domain.CreateLocality) (domain.Response[domain.Locality], error) {
	return create[domain.Locality](ctx, c, pathLocalities, in, "Locality created")
}

func (c *Client) ListRhythms(ctx context.Context) (domain.Page[domain.Rhythm], error) {
	return listAll[domain.Rhythm](ctx, c, pathRhythms)
}

func (c *Client) CreateRhythm(ctx context.Context, in domain.CreateRhythm) (domain.Response[domain.Rhythm], error) {
	return create[domain.Rhythm](ctx, c, pathRhythms, in, "Rhythm created")
}

func (c *Client) ListMaterials(ctx context.Context) (domain.Page[domain.Material], error) {
	return listAll[domain.Material](ctx, c, pathMaterials)
}

func (c *Client) CreateMaterial(ctx context.Context, in domain.CreateMaterial) (domain.Response[domain.Material], error) {
	return create[domain.Material](ctx, c, pathMaterials, in, "Material created")
}
