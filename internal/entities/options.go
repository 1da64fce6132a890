package entities

import (
	"context"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Option is one choice of a filter drop-down.
type Option struct {
	Value string
	Label string
}

// FilterOptions are the choices offered for each instrument filter.
type FilterOptions struct {
	Families     []Option
	EthnicGroups []Option
	Localities   []Option
	Materials    []Option
}

// FilterOptions builds the filter choices from the reference lists.
// Filters match on names, so each option's value is the entity's name.
func (s *Service) FilterOptions(ctx context.Context) FilterOptions {
	snap := s.All(ctx)

	var opts FilterOptions
	for _, f := range snap.Families {
		opts.Families = append(opts.Families, Option{Value: string(f.Name), Label: string(f.Name)})
	}
	for _, g := range snap.EthnicGroups {
		label := g.Name
		if g.Language != "" {
			label += " (" + g.Language + ")"
		}
		opts.EthnicGroups = append(opts.EthnicGroups, Option{Value: g.Name, Label: label})
	}
	for _, l := range snap.Localities {
		opts.Localities = append(opts.Localities, Option{Value: l.Name, Label: l.Name})
	}
	for _, m := range snap.Materials {
		opts.Materials = append(opts.Materials, Option{Value: m.Name, Label: m.Name})
	}
	return opts
}

// MatchOptions narrows options to those whose label fuzzily contains q,
// closest first. An empty q keeps every option.
func MatchOptions(options []Option, q string) []Option {
	q = strings.TrimSpace(q)
	if q == "" {
		return options
	}

	labels := make([]string, len(options))
	for i, o := range options {
		labels[i] = o.Label
	}
	ranks := fuzzy.RankFindNormalizedFold(q, labels)
	sort.Stable(ranks)

	out := make([]Option, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, options[r.OriginalIndex])
	}
	return out
}
