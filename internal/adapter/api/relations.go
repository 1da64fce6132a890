package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mmcdole/instrumenta/internal/domain"
)

func (c *Client) RelationTypes(ctx context.Context) (domain.Response[[]domain.RelationTypeInfo], error) {
	return get[domain.Response[[]domain.RelationTypeInfo]](ctx, c, "/relations/types", nil)
}

func (c *Client) RelationStatistics(ctx context.Context) (domain.Response[domain.RelationStatistics], error) {
	return get[domain.Response[domain.RelationStatistics]](ctx, c, "/relations/statistics", nil)
}

func (c *Client) EntityRelations(ctx context.Context, entityID int64) (domain.Response[domain.EntityRelations], error) {
	return get[domain.Response[domain.EntityRelations]](ctx, c, fmt.Sprintf("/relations/entity/%d", entityID), nil)
}

func (c *Client) CreateRelation(ctx context.Context, in domain.CreateRelation) error {
	if err := c.do(ctx, request{method: http.MethodPost, path: "/relations", body: in}, nil); err != nil {
		return err
	}
	c.succeed("Relation created")
	return nil
}

// ValidateRelation asks the server whether in would be accepted. It has no side effect.
func (c *Client) ValidateRelation(ctx context.Context, in domain.CreateRelation) (domain.Response[domain.ValidationResult], error) {
	return send[domain.Response[domain.ValidationResult]](ctx, c, http.MethodPost, "/relations/validate", in)
}

func (c *Client) DeleteRelation(ctx context.Context, sourceID, targetID int64, relationType domain.RelationType) error {
	path := fmt.Sprintf("/relations/%d/%d/%s", sourceID, targetID, url.PathEscape(string(relationType)))
	if err := c.do(ctx, request{method: http.MethodDelete, path: path}, nil); err != nil {
		return err
	}
	c.succeed("Relation deleted")
	return nil
}
