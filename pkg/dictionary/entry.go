package dictionary

import (
	"errors"
	"fmt"
	"strings"
)

// PartOfSpeech is the grammatical category of a headword.
type PartOfSpeech string

const (
	Noun         PartOfSpeech = "noun"
	Verb         PartOfSpeech = "verb"
	Adjective    PartOfSpeech = "adjective"
	Adverb       PartOfSpeech = "adverb"
	Pronoun      PartOfSpeech = "pronoun"
	Preposition  PartOfSpeech = "preposition"
	Conjunction  PartOfSpeech = "conjunction"
	Interjection PartOfSpeech = "interjection"
	Other        PartOfSpeech = "other"
)

var knownPOS = map[PartOfSpeech]struct{}{
	Noun:         {},
	Verb:         {},
	Adjective:    {},
	Adverb:       {},
	Pronoun:      {},
	Preposition:  {},
	Conjunction:  {},
	Interjection: {},
	Other:        {},
}

// ParsePartOfSpeech maps a raw POS string to a known category.
// The lookup is case-insensitive, unknown values map to Other.
func ParsePartOfSpeech(raw string) PartOfSpeech {
	pos := PartOfSpeech(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := knownPOS[pos]; ok {
		return pos
	}
	return Other
}

// Example is a bilingual usage example for a headword.
type Example struct {
	Yoruba  string `json:"yorùbá"`
	English string `json:"en"`
}

// Entry is a single dictionary entry. Headword is the canonical key,
// Synonyms is an ordered, non-empty list of alternate words.
type Entry struct {
	Headword   string       `json:"headword"`
	POS        PartOfSpeech `json:"pos"`
	Synonyms   []string     `json:"synonyms"`
	Definition string       `json:"definition,omitempty"`
	Example    *Example     `json:"example,omitempty"`
}

var (
	ErrEmptyHeadword = errors.New("entry has empty headword")
	ErrNoSynonyms    = errors.New("entry has no synonyms")
)

func (e *Entry) Validate() error {
	if strings.TrimSpace(e.Headword) == "" {
		return ErrEmptyHeadword
	}
	if len(e.Synonyms) == 0 {
		return fmt.Errorf("entry %q: %w", e.Headword, ErrNoSynonyms)
	}
	return nil
}
