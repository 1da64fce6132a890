package relations

import (
	"time"

	"github.com/mmcdole/instrumenta/internal/query"
)

// Resource is the root segment of every relation cache key.
const Resource = "relations"

const (
	TypesStaleTime      = 15 * time.Minute
	StatisticsStaleTime = 5 * time.Minute
	EntityStaleTime     = 5 * time.Minute
)

func AllKey() query.Key        { return query.Key{Resource} }
func TypesKey() query.Key      { return query.Key{Resource, "types"} }
func StatisticsKey() query.Key { return query.Key{Resource, "statistics"} }

// EntityKey is relations/entity/{id}.
func EntityKey(id int64) query.Key { return query.Key{Resource, "entity", id} }
