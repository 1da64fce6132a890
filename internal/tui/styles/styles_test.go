package styles

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, Truncate("Balafon", 10), "Balafon")
	assert.Equal(t, Truncate("Sabar de Thiès", 8), "Sabar...")
	assert.Equal(t, Truncate("Kora", 2), "Ko")
	assert.Equal(t, Truncate("Kora", 0), "")
}
