package lookup

import (
	"context"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v2"
)

// Cached memoizes the results of another Searcher in a badger store.
// Storage failures degrade to pass-through lookups, they never fail a
// search.
type Cached struct {
	searcher Searcher
	storage  *Storage
}

func NewCached(searcher Searcher, storage *badger.DB) *Cached {
	return &Cached{
		searcher: searcher,
		storage:  &Storage{DB: storage},
	}
}

func (c *Cached) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	q := Normalize(query)
	if q == "" {
		return nil, ErrEmptyQuery
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	// Any read failure, not just a miss, falls through to a live lookup.
	cached, err := c.storage.GetResults(q, maxResults)
	if err == nil {
		return cached, nil
	}

	results, err := c.searcher.Search(ctx, q, maxResults)
	if err != nil {
		return nil, err
	}
	// Cache write failures are not fatal, the results are still good.
	_ = c.storage.PutResults(q, maxResults, results)
	return results, nil
}

func (c *Cached) Close(ctx context.Context) error {
	var reasons []string
	if err := c.searcher.Close(ctx); err != nil {
		reasons = append(reasons, "searcher close failed: "+err.Error())
	}
	if err := c.storage.Close(); err != nil {
		reasons = append(reasons, "storage close failed: "+err.Error())
	}
	if len(reasons) > 0 {
		return fmt.Errorf("close failed because: %s", strings.Join(reasons, " AND "))
	}
	return nil
}
