package dictionary

import (
	"math/rand"
	"time"
)

// Yorùbá phoneme inventory used by the fallback generator. Tones are
// combining marks applied to the syllable vowel.
var (
	consonants = []string{
		"b", "d", "f", "g", "gb", "h", "j", "k", "l", "m",
		"n", "p", "r", "s", "ṣ", "t", "w", "y",
	}
	vowels = []string{"a", "e", "ẹ", "i", "o", "ọ", "u"}
	tones  = []string{"", "́", "̀"} // none, high, low
)

var generatedPOS = []PartOfSpeech{Noun, Verb, Adjective}

// Generator produces synthetic dictionary entries following Yorùbá
// phonotactics. It only exists to pad the fallback dictionary, the words
// carry no meaning.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Word builds one to three (consonant?)+vowel+tone syllables.
func (g *Generator) Word() string {
	syllables := 1 + g.rng.Intn(3)
	word := ""
	for i := 0; i < syllables; i++ {
		if g.rng.Float64() < 0.8 {
			word += consonants[g.rng.Intn(len(consonants))]
		}
		word += vowels[g.rng.Intn(len(vowels))]
		word += tones[g.rng.Intn(len(tones))]
	}
	return word
}

// Synonyms returns three to five distinct generated words.
func (g *Generator) Synonyms() []string {
	want := 3 + g.rng.Intn(3)
	seen := make(map[string]struct{}, want)
	synonyms := make([]string, 0, want)
	for len(synonyms) < want {
		word := g.Word()
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		synonyms = append(synonyms, word)
	}
	return synonyms
}

func (g *Generator) Entry() *Entry {
	return &Entry{
		Headword: g.Word(),
		POS:      generatedPOS[g.rng.Intn(len(generatedPOS))],
		Synonyms: g.Synonyms(),
	}
}

// Extend adds generated entries until the dictionary holds at least
// min entries.
func (g *Generator) Extend(d *Dictionary, min int) {
	for d.Len() < min {
		e := g.Entry()
		if d.Has(e.Headword) {
			continue
		}
		// Add can only fail on duplicates here, which Has excludes.
		_ = d.Add(e)
	}
}

// fallbackMinEntries is the floor for the generated fallback dictionary.
const fallbackMinEntries = 50

// Fallback returns the minimal built-in dictionary padded with generated
// entries. Used when no dictionary file can be loaded.
func Fallback() *Dictionary {
	d := Minimal()
	NewGenerator(time.Now().UnixNano()).Extend(d, fallbackMinEntries)
	return d
}
