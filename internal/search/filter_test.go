package search

import (
	"testing"

	"github.com/mmcdole/instrumenta/internal/domain"
	"gotest.tools/v3/assert"
)

func TestFilterInstruments(t *testing.T) {
	items := []domain.Instrument{
		{ID: 1, Name: "Kora"},
		{ID: 2, Name: "Balafon"},
		{ID: 3, Name: "Sabar"},
		{ID: 4, Name: "Xalam"},
	}

	matches := FilterInstruments(items, "KOR")
	assert.Equal(t, len(matches), 1)
	assert.Equal(t, matches[0].Instrument.ID, int64(1))
	assert.DeepEqual(t, matches[0].MatchedIndexes, []int{0, 1, 2})

	matches = FilterInstruments(items, "ba")
	assert.Assert(t, len(matches) >= 2)
	assert.Equal(t, matches[0].Instrument.Name, "Balafon")

	assert.Equal(t, len(FilterInstruments(items, "zzz")), 0)
}

func TestFilterEmptyQueryKeepsOrder(t *testing.T) {
	items := []domain.Instrument{{ID: 2, Name: "b"}, {ID: 1, Name: "a"}}
	matches := FilterInstruments(items, "  ")
	assert.Equal(t, len(matches), 2)
	assert.Equal(t, matches[0].Instrument.ID, int64(2))
}
