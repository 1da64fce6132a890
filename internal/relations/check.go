package relations

import (
	"fmt"

	"github.com/mmcdole/instrumenta/internal/domain"
)

// Check tests candidate against the cardinality of its type, given the
// edges already known around its endpoints. It is advisory: the server
// decides. A type without a constraint passes.
func Check(constraints map[domain.RelationType]domain.RelationConstraint, existing []domain.CreateRelation, candidate domain.CreateRelation) error {
	if err := candidate.Validate(); err != nil {
		return err
	}
	c, ok := constraints[candidate.Type]
	if !ok {
		return nil
	}

	for _, e := range existing {
		if e.Type != candidate.Type {
			continue
		}
		switch {
		case e.SourceID == candidate.SourceID && e.TargetID == candidate.TargetID:
			return &domain.ValidationError{Relation: candidate, Reason: "relation already exists"}
		case c.Cardinality.SourceUnique() && e.SourceID == candidate.SourceID:
			return &domain.ValidationError{
				Relation: candidate,
				Reason:   fmt.Sprintf("%s is %s: source %d already linked to %d", candidate.Type, c.Cardinality, e.SourceID, e.TargetID),
			}
		case c.Cardinality.TargetUnique() && e.TargetID == candidate.TargetID:
			return &domain.ValidationError{
				Relation: candidate,
				Reason:   fmt.Sprintf("%s is %s: target %d already linked from %d", candidate.Type, c.Cardinality, e.TargetID, e.SourceID),
			}
		}
	}
	return nil
}

// Edges flattens the relations fetched for one entity into directed edges.
func Edges(rel domain.EntityRelations) []domain.CreateRelation {
	self := rel.Entity.ID()
	out := make([]domain.CreateRelation, 0, len(rel.Relations.Outgoing)+len(rel.Relations.Incoming))
	for _, r := range rel.Relations.Outgoing {
		out = append(out, domain.CreateRelation{SourceID: self, TargetID: r.Entity.ID(), Type: r.Type})
	}
	for _, r := range rel.Relations.Incoming {
		out = append(out, domain.CreateRelation{SourceID: r.Entity.ID(), TargetID: self, Type: r.Type})
	}
	return out
}

func constraintTable(types []domain.RelationTypeInfo) map[domain.RelationType]domain.RelationConstraint {
	if len(types) == 0 {
		return domain.DefaultRelationConstraints()
	}
	table := make(map[domain.RelationType]domain.RelationConstraint, len(types))
	for _, t := range types {
		table[t.Type] = t.Constraints
	}
	return table
}
