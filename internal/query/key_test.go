package query

import (
	"testing"

	"gotest.tools/v3/assert"
)

type listParams struct {
	Page   int    `json:"page,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Search string `json:"search,omitempty"`
}

func TestKeyString(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{"resource only", Key{"instruments"}, "instruments"},
		{"numeric id", Key{"instruments", int64(42)}, "instruments/42"},
		{"nested", Key{"instruments", 42, "relations"}, "instruments/42/relations"},
		{"escaped slash", Key{"instruments", "by-family", "Cordes/Vents"}, "instruments/by-family/Cordes%2FVents"},
		{"struct drops empty fields", Key{"instruments", listParams{Page: 1, Limit: 10}}, `instruments/{"limit":10,"page":1}`},
		{"empty struct", Key{"instruments", listParams{}}, "instruments/{}"},
		{"map sorted", Key{"x", map[string]any{"b": 1, "a": "y", "c": ""}}, `x/{"a":"y","b":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.key.String(), tt.want)
		})
	}
}

func TestKeyEqualParamsEqualKeys(t *testing.T) {
	a := Key{"search", map[string]any{"famille": "Cordes", "nom": "kora"}}
	b := Key{"search", map[string]any{"nom": "kora", "famille": "Cordes", "localite": ""}}
	assert.Equal(t, a.String(), b.String())
}

func TestKeyHasPrefix(t *testing.T) {
	assert.Assert(t, Key{"instruments", 42}.HasPrefix(Key{"instruments"}))
	assert.Assert(t, Key{"instruments"}.HasPrefix(Key{"instruments"}))
	assert.Assert(t, Key{"instruments", 42, "relations"}.HasPrefix(Key{"instruments", 42}))
	assert.Assert(t, !Key{"instruments-archive"}.HasPrefix(Key{"instruments"}))
	assert.Assert(t, !Key{"instruments", 420}.HasPrefix(Key{"instruments", 42}))
	assert.Assert(t, !Key{"families"}.HasPrefix(Key{"instruments"}))
}

func TestKeyAppendDoesNotAlias(t *testing.T) {
	base := make(Key, 1, 4)
	base[0] = "instruments"
	a := base.Append(1)
	b := base.Append(2)
	assert.Equal(t, a.String(), "instruments/1")
	assert.Equal(t, b.String(), "instruments/2")
}
