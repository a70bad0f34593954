package main

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/adetobi/yosyn/pkg/dictionary"
	"github.com/adetobi/yosyn/pkg/lookup"
)

const defaultMaxResults = 5

// SearchResult is the flattened wire form of one match.
type SearchResult struct {
	Rank       int                     `json:"rank"`
	Similarity float64                 `json:"similarity"`
	Headword   string                  `json:"headword"`
	POS        dictionary.PartOfSpeech `json:"pos"`
	Synonyms   []string                `json:"synonyms"`
}

type ResponseSearch struct {
	Query          string         `json:"query"`
	Results        []SearchResult `json:"results"`
	DictionarySize int            `json:"dictionary_size"`
}

type ResponseError struct {
	Error string `json:"error"`
}

func toSearchResults(results []lookup.Result) []SearchResult {
	out := make([]SearchResult, 0, len(results))
	for _, r := range results {
		out = append(out, SearchResult{
			Rank:       r.Rank,
			Similarity: r.Similarity,
			Headword:   r.Entry.Headword,
			POS:        r.Entry.POS,
			Synonyms:   r.Entry.Synonyms,
		})
	}
	return out
}

func maxResultsParam(r *http.Request, name string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || n <= 0 {
		return defaultMaxResults
	}
	return n
}

func (s *Server) handleSearch() http.HandlerFunc {
	return s.searchWith("max_results", func(r *http.Request) lookup.Searcher {
		return s.searcher
	})
}

func (s *Server) handleSemantic() http.HandlerFunc {
	return s.searchWith("k", func(r *http.Request) lookup.Searcher {
		return s.semantic
	})
}

func (s *Server) searchWith(countParam string, pick func(*http.Request) lookup.Searcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		searcher := pick(r)
		if searcher == nil {
			s.respondJSON(w, &ResponseError{
				Error: "semantic index not configured",
			}, http.StatusServiceUnavailable)
			return
		}
		query := r.URL.Query().Get("query")
		if lookup.Normalize(query) == "" {
			s.respondJSON(w, &ResponseError{
				Error: "query parameter is required",
			}, http.StatusBadRequest)
			return
		}
		maxResults := maxResultsParam(r, countParam)

		results, err := searcher.Search(r.Context(), query, maxResults)
		if err != nil {
			if errors.Is(err, lookup.ErrEmptyQuery) {
				s.respondJSON(w, &ResponseError{
					Error: "query parameter is required",
				}, http.StatusBadRequest)
				return
			}
			s.logger.Error("search returned error",
				zap.Error(err),
				zap.String("query", query),
			)
			s.respondJSON(w, &ResponseError{
				Error: "internal error",
			}, http.StatusInternalServerError)
			return
		}
		s.respondJSON(w, &ResponseSearch{
			Query:          query,
			Results:        toSearchResults(results),
			DictionarySize: s.dict.Len(),
		}, http.StatusOK)
	}
}
