package relations

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmcdole/instrumenta/internal/domain"
	"github.com/mmcdole/instrumenta/internal/instruments"
	"github.com/mmcdole/instrumenta/internal/query"
)

// Service provides cached relation reads and relation writes.
type Service struct {
	client domain.RelationClient
	cache  *query.Cache
	logger *slog.Logger
}

// NewService creates a new Service instance.
func NewService(client domain.RelationClient, cache *query.Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, cache: cache, logger: logger}
}

// Types returns the relation types with their constraints.
func (s *Service) Types(ctx context.Context) ([]domain.RelationTypeInfo, error) {
	return query.Fetch(ctx, s.cache, TypesKey(), query.Read(TypesStaleTime).Persisted(),
		func(ctx context.Context) ([]domain.RelationTypeInfo, error) {
			resp, err := s.client.RelationTypes(ctx)
			return resp.Data, err
		})
}

func (s *Service) Statistics(ctx context.Context) (domain.RelationStatistics, error) {
	return query.Fetch(ctx, s.cache, StatisticsKey(), query.Read(StatisticsStaleTime),
		func(ctx context.Context) (domain.RelationStatistics, error) {
			resp, err := s.client.RelationStatistics(ctx)
			return resp.Data, err
		})
}

// ForEntity returns the edges around one entity of any kind.
func (s *Service) ForEntity(ctx context.Context, id int64) (domain.EntityRelations, error) {
	if id <= 0 {
		return domain.EntityRelations{}, domain.ErrInvalidID
	}
	return query.Fetch(ctx, s.cache, EntityKey(id), query.Read(EntityStaleTime),
		func(ctx context.Context) (domain.EntityRelations, error) {
			resp, err := s.client.EntityRelations(ctx, id)
			return resp.Data, err
		})
}

// Validate asks the server whether in may be created. A refusal is a
// *domain.ValidationError.
func (s *Service) Validate(ctx context.Context, in domain.CreateRelation) error {
	if err := in.Validate(); err != nil {
		return err
	}
	resp, err := query.Mutate(ctx, s.cache, func(ctx context.Context) (domain.Response[domain.ValidationResult], error) {
		return s.client.ValidateRelation(ctx, in)
	})
	if err != nil {
		return err
	}
	if !resp.Data.Valid {
		reason := resp.Data.Error
		if reason == "" {
			reason = "rejected by server"
		}
		return &domain.ValidationError{Relation: in, Reason: reason}
	}
	return nil
}

// Create adds an edge. A local cardinality violation is logged but the
// request is still sent.
func (s *Service) Create(ctx context.Context, in domain.CreateRelation) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if err := s.precheck(in); err != nil {
		s.logger.Warn("relation may violate constraints", "type", in.Type, "source", in.SourceID, "target", in.TargetID, "reason", err)
	}

	_, err := query.Mutate(ctx, s.cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.client.CreateRelation(ctx, in)
	})
	if err != nil {
		s.logger.Error("failed to create relation", "type", in.Type, "error", err)
		return err
	}
	s.invalidate(in.SourceID, in.TargetID)
	return nil
}

// Delete removes the edge of type t between source and target.
func (s *Service) Delete(ctx context.Context, sourceID, targetID int64, t domain.RelationType) error {
	if sourceID <= 0 || targetID <= 0 {
		return domain.ErrInvalidID
	}
	_, err := query.Mutate(ctx, s.cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.client.DeleteRelation(ctx, sourceID, targetID, t)
	})
	if err != nil {
		s.logger.Error("failed to delete relation", "type", t, "error", err)
		return fmt.Errorf("delete relation %s %d->%d: %w", t, sourceID, targetID, err)
	}
	s.invalidate(sourceID, targetID)
	return nil
}

func (s *Service) invalidate(sourceID, targetID int64) {
	s.cache.Invalidate(AllKey())
	s.cache.Invalidate(instruments.RelationsKey(sourceID))
	s.cache.Invalidate(instruments.RelationsKey(targetID))
}

// precheck runs Check against whatever is already cached; it never loads.
func (s *Service) precheck(in domain.CreateRelation) error {
	types, _ := query.Get[[]domain.RelationTypeInfo](s.cache, TypesKey())
	var existing []domain.CreateRelation
	for _, id := range []int64{in.SourceID, in.TargetID} {
		if rel, ok := query.Get[domain.EntityRelations](s.cache, EntityKey(id)); ok {
			existing = append(existing, Edges(rel)...)
		}
	}
	return Check(constraintTable(types), existing, in)
}
