// Package discovery caches the semantic search endpoints.
package discovery

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mmcdole/instrumenta/internal/domain"
	"github.com/mmcdole/instrumenta/internal/query"
)

// Resource is the root segment of every discovery cache key.
const Resource = "search"

// StaleTime applies to every discovery read.
const StaleTime = 5 * time.Minute

func GlobalKey(q string, limit int) query.Key { return query.Key{Resource, "global", q, limit} }

func GeographicKey(p domain.GeographicParams) query.Key {
	return query.Key{Resource, "geographic", p}
}

func CulturalPatternsKey() query.Key { return query.Key{Resource, "cultural-patterns"} }

func CentralityKey(limit int) query.Key { return query.Key{Resource, "centrality", limit} }

func RecommendationsKey(id int64, limit int) query.Key {
	return query.Key{Resource, "recommendations", id, limit}
}

func SimilarKey(id int64, entityType string, limit int) query.Key {
	return query.Key{Resource, "similar", id, entityType, limit}
}

// Service provides cached semantic searches. Defaults are applied before
// the key is built so that an omitted limit and the default limit share
// an entry.
type Service struct {
	client domain.DiscoveryClient
	cache  *query.Cache
	logger *slog.Logger
}

// NewService creates a new Service instance.
func NewService(client domain.DiscoveryClient, cache *query.Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, cache: cache, logger: logger}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// Global searches every entity kind. It is disabled for a blank query.
func (s *Service) Global(ctx context.Context, q string, limit int) (*domain.GlobalSearchResponse, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}
	limit = orDefault(limit, domain.DefaultGlobalLimit)
	resp, err := query.Fetch(ctx, s.cache, GlobalKey(q, limit), query.Read(StaleTime),
		func(ctx context.Context) (domain.GlobalSearchResponse, error) {
			resp, err := s.client.GlobalSearch(ctx, q, limit)
			return resp.Data, err
		})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Geographic returns localities around a point.
func (s *Service) Geographic(ctx context.Context, p domain.GeographicParams) ([]domain.GeographicSearchResult, error) {
	if p.Radius <= 0 {
		p.Radius = domain.DefaultGeographicRadius
	}
	return query.Fetch(ctx, s.cache, GeographicKey(p), query.Read(StaleTime),
		func(ctx context.Context) ([]domain.GeographicSearchResult, error) {
			resp, err := s.client.GeographicSearch(ctx, p)
			return resp.Data.Results, err
		})
}

func (s *Service) CulturalPatterns(ctx context.Context) ([]domain.CulturalPattern, error) {
	return query.Fetch(ctx, s.cache, CulturalPatternsKey(), query.Read(StaleTime),
		func(ctx context.Context) ([]domain.CulturalPattern, error) {
			resp, err := s.client.CulturalPatterns(ctx)
			return resp.Data.Patterns, err
		})
}

// Centrality ranks entities by how connected they are.
func (s *Service) Centrality(ctx context.Context, limit int) ([]domain.CentralityAnalysis, error) {
	limit = orDefault(limit, domain.DefaultCentralityLimit)
	return query.Fetch(ctx, s.cache, CentralityKey(limit), query.Read(StaleTime),
		func(ctx context.Context) ([]domain.CentralityAnalysis, error) {
			resp, err := s.client.Centrality(ctx, limit)
			return resp.Data.CentralityAnalysis, err
		})
}

func (s *Service) Recommendations(ctx context.Context, id int64, limit int) ([]domain.Entity, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidID
	}
	limit = orDefault(limit, domain.DefaultRecommendationsLimit)
	return query.Fetch(ctx, s.cache, RecommendationsKey(id, limit), query.Read(StaleTime),
		func(ctx context.Context) ([]domain.Entity, error) {
			resp, err := s.client.Recommendations(ctx, id, limit)
			return resp.Data.Recommendations, err
		})
}

// Similar returns entities close to id, optionally restricted to one type.
func (s *Service) Similar(ctx context.Context, id int64, entityType string, limit int) ([]domain.SimilarEntity, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidID
	}
	limit = orDefault(limit, domain.DefaultSimilarEntitiesLimit)
	return query.Fetch(ctx, s.cache, SimilarKey(id, entityType, limit), query.Read(StaleTime),
		func(ctx context.Context) ([]domain.SimilarEntity, error) {
			resp, err := s.client.SimilarEntities(ctx, id, entityType, limit)
			return resp.Data.SimilarEntities, err
		})
}
