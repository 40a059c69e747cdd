package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Format(t *testing.T) {
	gen := NewGenerator()

	for i := 0; i < 100; i++ {
		tok, err := gen.Generate()
		require.NoError(t, err)
		assert.Len(t, tok, Length)
		for _, r := range tok {
			assert.True(t, (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'),
				"unexpected character %q in token %q", r, tok)
		}
	}
}

func TestGenerate_Unique(t *testing.T) {
	gen := NewGenerator()

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		tok, err := gen.Generate()
		require.NoError(t, err)
		assert.False(t, seen[tok], "duplicate token %q", tok)
		seen[tok] = true
	}
}
