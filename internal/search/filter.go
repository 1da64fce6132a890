package search

import (
	"strings"

	"github.com/mmcdole/instrumenta/internal/domain"
	"github.com/sahilm/fuzzy"
)

// Match is a filtered instrument with match metadata for highlighting.
type Match struct {
	Instrument     domain.Instrument
	MatchedIndexes []int // Rune positions in Instrument.Name
	Score          int   // Higher is better
}

// InstrumentIndex implements sahilm/fuzzy.Source over instrument names.
type InstrumentIndex struct {
	items      []domain.Instrument
	lowerNames []string // Pre-computed lowercase names
}

// NewInstrumentIndex indexes items. The slice is not copied.
func NewInstrumentIndex(items []domain.Instrument) *InstrumentIndex {
	lower := make([]string, len(items))
	for i, it := range items {
		lower[i] = strings.ToLower(it.Name)
	}
	return &InstrumentIndex{items: items, lowerNames: lower}
}

// String returns the lowercase name at index i (implements fuzzy.Source)
func (idx *InstrumentIndex) String(i int) string { return idx.lowerNames[i] }

// Len returns the number of items (implements fuzzy.Source)
func (idx *InstrumentIndex) Len() int { return len(idx.items) }

// Filter ranks the indexed instruments against query, best first.
// An empty query keeps every instrument in its original order.
func (idx *InstrumentIndex) Filter(query string) []Match {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		out := make([]Match, len(idx.items))
		for i, it := range idx.items {
			out[i] = Match{Instrument: it}
		}
		return out
	}

	matches := fuzzy.FindFrom(query, idx)
	out := make([]Match, len(matches))
	for i, m := range matches {
		out[i] = Match{
			Instrument:     idx.items[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return out
}

// FilterInstruments is a one-shot Filter over items.
func FilterInstruments(items []domain.Instrument, query string) []Match {
	return NewInstrumentIndex(items).Filter(query)
}
