package instruments

import (
	"time"

	"github.com/mmcdole/instrumenta/internal/domain"
	"github.com/mmcdole/instrumenta/internal/query"
)

// Resource is the root segment of every instrument cache key.
const Resource = "instruments"

// Freshness per read.
const (
	ListStaleTime       = 5 * time.Minute
	DetailStaleTime     = 10 * time.Minute
	RelationsStaleTime  = 5 * time.Minute
	StatisticsStaleTime = 15 * time.Minute
	SearchStaleTime     = 5 * time.Minute
	GroupingStaleTime   = 10 * time.Minute
	SimilarStaleTime    = 15 * time.Minute

	DefaultSimilarLimit = 5
)

// AllKey prefixes every instrument entry.
func AllKey() query.Key { return query.Key{Resource} }

// ListKey is instruments/{opts}.
func ListKey(opts domain.ListOptions) query.Key { return query.Key{Resource, opts} }

// DetailKey is instruments/{id}.
func DetailKey(id int64) query.Key { return query.Key{Resource, id} }

// RelationsKey is instruments/{id}/relations.
func RelationsKey(id int64) query.Key { return query.Key{Resource, id, "relations"} }

// StatisticsKey is instruments/statistics.
func StatisticsKey() query.Key { return query.Key{Resource, "statistics"} }

// SearchKey is instruments/search/{filters}.
func SearchKey(filters domain.SearchFilters) query.Key {
	return query.Key{Resource, "search", filters}
}

// ByFamilyKey is instruments/by-family/{family}.
func ByFamilyKey(family string) query.Key { return query.Key{Resource, "by-family", family} }

// ByGroupKey is instruments/by-group/{group}.
func ByGroupKey(group string) query.Key { return query.Key{Resource, "by-group", group} }

// SimilarKey is instruments/{id}/similar/{limit}.
func SimilarKey(id int64, limit int) query.Key { return query.Key{Resource, id, "similar", limit} }
