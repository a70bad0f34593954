package dictionary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorWord(t *testing.T) {
	g := NewGenerator(1)
	for i := 0; i < 100; i++ {
		word := g.Word()
		assert.NotEmpty(t, word)
	}
}

func TestGeneratorDeterministic(t *testing.T) {
	a := NewGenerator(42)
	b := NewGenerator(42)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Word(), b.Word())
	}
}

func TestGeneratorSynonyms(t *testing.T) {
	g := NewGenerator(7)
	for i := 0; i < 50; i++ {
		synonyms := g.Synonyms()
		assert.GreaterOrEqual(t, len(synonyms), 3)
		assert.LessOrEqual(t, len(synonyms), 5)

		seen := make(map[string]struct{})
		for _, s := range synonyms {
			_, dup := seen[s]
			assert.False(t, dup, "duplicate synonym %q", s)
			seen[s] = struct{}{}
		}
	}
}

func TestGeneratorExtend(t *testing.T) {
	d := Minimal()
	NewGenerator(3).Extend(d, fallbackMinEntries)

	assert.GreaterOrEqual(t, d.Len(), fallbackMinEntries)
	for _, headword := range d.Headwords() {
		require.NoError(t, d.Get(headword).Validate())
	}
}

func TestFallback(t *testing.T) {
	d := Fallback()
	assert.GreaterOrEqual(t, d.Len(), fallbackMinEntries)
	assert.True(t, d.Has("ilé"))
	assert.True(t, d.Has("jẹ"))
}
