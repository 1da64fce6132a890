package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/mmcdole/instrumenta/internal/domain"
)

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func (c *Client) GlobalSearch(ctx context.Context, q string, limit int) (domain.Response[domain.GlobalSearchResponse], error) {
	params := limitQuery(orDefault(limit, domain.DefaultGlobalLimit))
	params.Set("q", q)
	return get[domain.Response[domain.GlobalSearchResponse]](ctx, c, "/search/global", params)
}

func (c *Client) GeographicSearch(ctx context.Context, p domain.GeographicParams) (domain.Response[domain.GeographicSearchResponse], error) {
	radius := p.Radius
	if radius <= 0 {
		radius = domain.DefaultGeographicRadius
	}
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(p.Lat, 'f', -1, 64))
	params.Set("lng", strconv.FormatFloat(p.Lng, 'f', -1, 64))
	params.Set("radius", strconv.FormatFloat(radius, 'f', -1, 64))
	return get[domain.Response[domain.GeographicSearchResponse]](ctx, c, "/search/geographic", params)
}

func (c *Client) CulturalPatterns(ctx context.Context) (domain.Response[domain.CulturalPatternsResponse], error) {
	return get[domain.Response[domain.CulturalPatternsResponse]](ctx, c, "/search/cultural-patterns", nil)
}

func (c *Client) Centrality(ctx context.Context, limit int) (domain.Response[domain.CentralityResponse], error) {
	return get[domain.Response[domain.CentralityResponse]](ctx, c, "/search/centrality", limitQuery(orDefault(limit, domain.DefaultCentralityLimit)))
}

func (c *Client) Recommendations(ctx context.Context, entityID int64, limit int) (domain.Response[domain.RecommendationsResponse], error) {
	path := fmt.Sprintf("/search/recommendations/%d", entityID)
	return get[domain.Response[domain.RecommendationsResponse]](ctx, c, path, limitQuery(orDefault(limit, domain.DefaultRecommendationsLimit)))
}

func (c *Client) SimilarEntities(ctx context.Context, entityID int64, entityType string, limit int) (domain.Response[domain.SimilarEntitiesResponse], error) {
	params := limitQuery(orDefault(limit, domain.DefaultSimilarEntitiesLimit))
	if entityType != "" {
		params.Set("type", entityType)
	}
	path := fmt.Sprintf("/search/similar/%d", entityID)
	return get[domain.Response[domain.SimilarEntitiesResponse]](ctx, c, path, params)
}
