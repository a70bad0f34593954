package lookup

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/hbollon/go-edlib"

	"github.com/adetobi/yosyn/pkg/dictionary"
)

var ErrEmptyQuery = errors.New("empty query")

const (
	// DefaultMaxResults bounds a search when the caller passes no count.
	DefaultMaxResults = 3

	// synonymScanLimit caps the reverse synonym scan so worst-case
	// lookups stay bounded on generated dictionaries.
	synonymScanLimit = 1000

	// fuzzyMinSimilarity is the cutoff below which a headword is not
	// considered a match at all.
	fuzzyMinSimilarity = 0.6

	// rankPenalty decrements the reported score by rank position. This
	// is a heuristic placeholder, not a distance.
	rankPenalty = 0.1
)

// Normalize prepares a word for matching: lowercase and trimmed.
func Normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// Result is one ranked match for a query.
type Result struct {
	Rank       int               `json:"rank"`
	Similarity float64           `json:"similarity"`
	Entry      *dictionary.Entry `json:"entry"`
}

//go:generate go run github.com/vektra/mockery/cmd/mockery -name Searcher -output ../mocks/

type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
	Close(ctx context.Context) error
}

// Dict looks up queries against an in-memory dictionary: exact headword
// match first, then a reverse scan of synonym lists, then fuzzy string
// similarity over a (possibly sampled) subset of headwords.
type Dict struct {
	dict *dictionary.Dictionary

	// mu guards rng: searches run on concurrent server handlers and
	// rand.Rand is not safe for concurrent use.
	mu  sync.Mutex
	rng *rand.Rand
}

func NewDict(dict *dictionary.Dictionary) *Dict {
	return &Dict{
		dict: dict,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *Dict) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	q := Normalize(query)
	if q == "" {
		return nil, ErrEmptyQuery
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	if entry := s.dict.Get(q); entry != nil {
		return []Result{{Rank: 1, Similarity: 1.0, Entry: entry}}, nil
	}

	if entry := s.searchSynonyms(q); entry != nil {
		return []Result{{Rank: 1, Similarity: 1.0, Entry: entry}}, nil
	}

	return s.searchFuzzy(q, maxResults)
}

// searchSynonyms returns the parent entry of a word appearing in a
// synonym list, scanning at most synonymScanLimit entries in file order.
func (s *Dict) searchSynonyms(q string) *dictionary.Entry {
	checked := 0
	for _, headword := range s.dict.Headwords() {
		if checked >= synonymScanLimit {
			break
		}
		checked++
		entry := s.dict.Get(headword)
		for _, synonym := range entry.Synonyms {
			if Normalize(synonym) == q {
				return entry
			}
		}
	}
	return nil
}

// searchFuzzy returns up to maxResults headwords closest to q by string
// similarity. Scores fall by rank position, not by true distance.
func (s *Dict) searchFuzzy(q string, maxResults int) ([]Result, error) {
	matches, err := edlib.FuzzySearchSetThreshold(
		q, s.sampleKeys(), maxResults, fuzzyMinSimilarity, edlib.Levenshtein)
	if err != nil {
		return nil, fmt.Errorf("fuzzy search failed: %w", err)
	}

	var results []Result
	for _, match := range matches {
		if match == "" {
			continue // unfilled slot
		}
		rank := len(results) + 1
		results = append(results, Result{
			Rank:       rank,
			Similarity: 1.0 - rankPenalty*float64(rank-1),
			Entry:      s.dict.Get(match),
		})
	}
	return results, nil
}

func (s *Dict) Close(ctx context.Context) error {
	return nil
}
