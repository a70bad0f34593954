package semantic

import (
	"context"
	"fmt"
	"strings"

	"github.com/adetobi/yosyn/pkg/lookup"
)

// Searcher answers lookup queries from the vector index: the query is
// embedded the same way the headwords were and matched by cosine
// similarity. It satisfies lookup.Searcher so callers can swap it in for
// the lexical path.
type Searcher struct {
	index    *Index
	embedder Embedder
}

func NewSearcher(index *Index, embedder Embedder) *Searcher {
	return &Searcher{
		index:    index,
		embedder: embedder,
	}
}

func (s *Searcher) Search(ctx context.Context, query string, maxResults int) ([]lookup.Result, error) {
	q := lookup.Normalize(query)
	if q == "" {
		return nil, lookup.ErrEmptyQuery
	}

	vectors, err := s.embedder.Embed(ctx, []string{q})
	if err != nil {
		return nil, fmt.Errorf("can not embed query: %w", err)
	}
	vec := vectors[0]
	NormalizeL2(vec)

	return s.index.Nearest(ctx, vec, maxResults)
}

func (s *Searcher) Close(ctx context.Context) error {
	var reasons []string
	if closer, ok := s.embedder.(interface{ Close(context.Context) error }); ok {
		if err := closer.Close(ctx); err != nil {
			reasons = append(reasons, "embedder close failed: "+err.Error())
		}
	}
	if err := s.index.Close(); err != nil {
		reasons = append(reasons, "index close failed: "+err.Error())
	}
	if len(reasons) > 0 {
		return fmt.Errorf("close failed because: %s", strings.Join(reasons, " AND "))
	}
	return nil
}
