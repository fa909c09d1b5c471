package codegen

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFormat(t *testing.T) {
	fixed := func() time.Time { return time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC) }
	gen := New(fixed)

	code := gen.Generate(PrefixLaundry)
	require.Regexp(t, regexp.MustCompile(`^LAU-2025-[0-9A-F]{6}$`), code)
}

func TestGeneratePrefixes(t *testing.T) {
	gen := New(nil)
	assert.Contains(t, gen.Generate(PrefixMaintenance), "MNT-")
	assert.Contains(t, gen.Generate(PrefixPenalty), "PEN-")
}

func TestGenerateVaries(t *testing.T) {
	gen := New(nil)
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		seen[gen.Generate(PrefixLaundry)] = struct{}{}
	}
	// Collisions are possible but vanishingly unlikely in 100 draws.
	assert.Greater(t, len(seen), 95)
}
