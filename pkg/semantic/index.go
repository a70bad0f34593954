package semantic

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"sync"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	"github.com/gammazero/workerpool"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/adetobi/yosyn/pkg/dictionary"
	"github.com/adetobi/yosyn/pkg/lookup"
)

// registerVec loads the sqlite-vec extension into every new connection.
var registerVec sync.Once

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id       INTEGER PRIMARY KEY,
	headword TEXT NOT NULL UNIQUE,
	entry    TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS embeddings (
	entry_id  INTEGER PRIMARY KEY REFERENCES entries(id),
	embedding BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS index_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Index is a flat vector index over dictionary headwords, stored in a
// sqlite database with the sqlite-vec extension. Search is exhaustive:
// every stored vector is compared against the query.
type Index struct {
	db     *sql.DB
	logger *zap.Logger

	model string
	dims  int
}

// Open opens (or creates) an index file.
func Open(path string, logger *zap.Logger) (*Index, error) {
	registerVec.Do(sqlite_vec.Auto)

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("can not open index: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("can not create index schema: %w", err)
	}
	ix := &Index{
		db:     db,
		logger: logger,
	}
	if err := ix.loadMeta(); err != nil {
		db.Close()
		return nil, err
	}
	return ix, nil
}

// OpenExisting opens an index for querying. Unlike Open it fails when
// the file does not exist or holds no entries, instead of silently
// creating an empty index.
func OpenExisting(path string, logger *zap.Logger) (*Index, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("can not open index: %w", err)
	}
	ix, err := Open(path, logger)
	if err != nil {
		return nil, err
	}
	count, err := ix.Count()
	if err != nil {
		ix.Close()
		return nil, err
	}
	if count == 0 {
		ix.Close()
		return nil, fmt.Errorf("index %s is empty, build it with yosyndex first", path)
	}
	return ix, nil
}

// ResolveModel picks the embedding model for querying an index: an
// empty request defaults to the model the index was built with, a
// conflicting request is an error because the similarities would be
// meaningless.
func ResolveModel(ix *Index, requested string) (string, error) {
	if requested == "" {
		return ix.Model(), nil
	}
	if ix.Model() != "" && requested != ix.Model() {
		return "", fmt.Errorf("index was built with model %q, not %q", ix.Model(), requested)
	}
	return requested, nil
}

func (ix *Index) loadMeta() error {
	rows, err := ix.db.Query(`SELECT key, value FROM index_meta`)
	if err != nil {
		return fmt.Errorf("can not read index metadata: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("can not scan index metadata: %w", err)
		}
		switch key {
		case "model":
			ix.model = value
		case "dimensions":
			ix.dims, _ = strconv.Atoi(value)
		}
	}
	return rows.Err()
}

// Model returns the embedding model the index was built with.
func (ix *Index) Model() string {
	return ix.model
}

// Dimensions returns the vector size of the index.
func (ix *Index) Dimensions() int {
	return ix.dims
}

// Count returns the number of indexed headwords.
func (ix *Index) Count() (int, error) {
	var count int
	if err := ix.db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&count); err != nil {
		return 0, fmt.Errorf("can not count entries: %w", err)
	}
	return count, nil
}

// BuildConfig tunes an index build.
type BuildConfig struct {
	// BatchSize is how many headwords are embedded per request.
	BatchSize int
	// MaxWorkers specifies how many workers dispatch embedding batches.
	// Zero value means it will be equal to number of logical CPU.
	MaxWorkers int
}

const defaultBatchSize = 32

// Build embeds every headword of dict and stores the entries and their
// normalized vectors, replacing any previous content.
func (ix *Index) Build(ctx context.Context, dict *dictionary.Dictionary, embedder Embedder, config *BuildConfig) error {
	if config == nil {
		config = &BuildConfig{}
	}
	batchSize := config.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	maxWorkers := config.MaxWorkers
	if maxWorkers < 1 {
		maxWorkers = runtime.NumCPU()
	}

	headwords := dict.Headwords()
	vectors := make([][]float32, len(headwords))

	pool := workerpool.New(maxWorkers)
	var mu sync.Mutex
	var firstErr error
	for start := 0; start < len(headwords); start += batchSize {
		end := start + batchSize
		if end > len(headwords) {
			end = len(headwords)
		}
		start, end := start, end
		pool.Submit(func() {
			mu.Lock()
			failed := firstErr != nil
			mu.Unlock()
			if failed {
				return
			}
			batch, err := embedder.Embed(ctx, headwords[start:end])
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("can not embed batch at %d: %w", start, err)
				}
				return
			}
			copy(vectors[start:end], batch)
		})
	}
	pool.StopWait()
	if firstErr != nil {
		return firstErr
	}

	dims := 0
	for i, vec := range vectors {
		if vec == nil {
			return fmt.Errorf("no embedding returned for %q", headwords[i])
		}
		if dims == 0 {
			dims = len(vec)
		}
		if len(vec) != dims {
			return fmt.Errorf("embedding dimension mismatch for %q: %d vs %d",
				headwords[i], len(vec), dims)
		}
		NormalizeL2(vec)
	}

	if err := ix.store(dict, headwords, vectors, embedder.Model(), dims); err != nil {
		return err
	}
	ix.model = embedder.Model()
	ix.dims = dims
	ix.logger.Info("built semantic index",
		zap.Int("entries", len(headwords)),
		zap.Int("dimensions", dims),
		zap.String("model", ix.model),
	)
	return nil
}

func (ix *Index) store(dict *dictionary.Dictionary, headwords []string, vectors [][]float32, model string, dims int) error {
	tx, err := ix.db.Begin()
	if err != nil {
		return fmt.Errorf("can not begin index transaction: %w", err)
	}
	defer tx.Rollback() // no-op after commit

	for _, stmt := range []string{
		`DELETE FROM embeddings`,
		`DELETE FROM entries`,
		`DELETE FROM index_meta`,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("can not clear index: %w", err)
		}
	}

	entryStmt, err := tx.Prepare(`INSERT INTO entries (id, headword, entry) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("can not prepare entry insert: %w", err)
	}
	defer entryStmt.Close()
	vecStmt, err := tx.Prepare(`INSERT INTO embeddings (entry_id, embedding) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("can not prepare embedding insert: %w", err)
	}
	defer vecStmt.Close()

	for i, headword := range headwords {
		raw, err := json.Marshal(dict.Get(headword))
		if err != nil {
			return fmt.Errorf("can not marshal entry %q: %w", headword, err)
		}
		if _, err := entryStmt.Exec(i+1, headword, raw); err != nil {
			return fmt.Errorf("can not insert entry %q: %w", headword, err)
		}
		if _, err := vecStmt.Exec(i+1, MarshalBlob(vectors[i])); err != nil {
			return fmt.Errorf("can not insert embedding %q: %w", headword, err)
		}
	}

	metaStmt, err := tx.Prepare(`INSERT INTO index_meta (key, value) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("can not prepare metadata insert: %w", err)
	}
	defer metaStmt.Close()
	meta := map[string]string{
		"model":      model,
		"dimensions": strconv.Itoa(dims),
	}
	for key, value := range meta {
		if _, err := metaStmt.Exec(key, value); err != nil {
			return fmt.Errorf("can not insert metadata %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("can not commit index transaction: %w", err)
	}
	return nil
}

// Nearest returns the k entries whose vectors are closest to query.
// Vectors are unit length, so the reported similarity is the cosine
// recovered from the L2 distance (cos = 1 - d²/2).
func (ix *Index) Nearest(ctx context.Context, query []float32, k int) ([]lookup.Result, error) {
	if len(query) == 0 {
		return nil, fmt.Errorf("empty query vector")
	}
	if k <= 0 {
		k = lookup.DefaultMaxResults
	}

	rows, err := ix.db.QueryContext(ctx, `
		SELECT e.entry, vec_distance_l2(m.embedding, ?) AS distance
		FROM embeddings m
		JOIN entries e ON e.id = m.entry_id
		ORDER BY distance
		LIMIT ?
	`, MarshalBlob(query), k)
	if err != nil {
		return nil, fmt.Errorf("nearest-neighbor query failed: %w", err)
	}
	defer rows.Close()

	var results []lookup.Result
	for rows.Next() {
		var raw []byte
		var distance float64
		if err := rows.Scan(&raw, &distance); err != nil {
			return nil, fmt.Errorf("can not scan search result: %w", err)
		}
		var entry dictionary.Entry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, fmt.Errorf("can not unmarshal stored entry: %w", err)
		}
		results = append(results, lookup.Result{
			Rank:       len(results) + 1,
			Similarity: 1.0 - distance*distance/2.0,
			Entry:      &entry,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("nearest-neighbor iteration failed: %w", err)
	}
	return results, nil
}

func (ix *Index) Close() error {
	return ix.db.Close()
}
