package lookup

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"
)

// keyType prefixes every storage key so different record kinds can share
// one badger database.
type keyType byte

const (
	queryKey keyType = iota + 1
)

func marshalKey(k string, t keyType) []byte {
	result := make([]byte, 0, len(k)+1)
	result = append(result, byte(t))
	return append(result, []byte(k)...)
}

func unmarshalKey(data []byte, expected keyType) (string, error) {
	if len(data) < 1 {
		return "", errors.New("key length must be at least 1")
	}
	if data[0] != byte(expected) {
		return "", fmt.Errorf("key type doesn't equal to expected type")
	}
	return string(data[1:]), nil
}

// resultKey identifies a cached result set: the result count is part of
// the key because it changes what a search returns.
func resultKey(query string, maxResults int) string {
	return fmt.Sprintf("%s\x00%d", query, maxResults)
}

// CachedConfig configures the badger store backing a Cached searcher.
type CachedConfig struct {
	// Path is the on-disk location of the store.
	Path string
	// InMemory keeps the store in memory, Path is ignored.
	InMemory bool
}

// OpenBadger opens the badger database described by conf.
func OpenBadger(conf *CachedConfig) (*badger.DB, error) {
	opts := badger.DefaultOptions(conf.Path).WithLogger(nil)
	if conf.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("can not open badger storage: %w", err)
	}
	return db, nil
}

// Storage persists search results in badger, JSON-encoded.
type Storage struct {
	DB *badger.DB
}

// GetResults returns the cached result set for a query, or
// badger.ErrKeyNotFound.
func (s *Storage) GetResults(query string, maxResults int) ([]Result, error) {
	key := marshalKey(resultKey(query, maxResults), queryKey)
	var results []Result
	err := s.DB.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &results)
		})
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// PutResults stores a result set for a query.
func (s *Storage) PutResults(query string, maxResults int, results []Result) error {
	value, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("can not marshal results: %w", err)
	}
	key := marshalKey(resultKey(query, maxResults), queryKey)
	return s.DB.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

func (s *Storage) Close() error {
	return s.DB.Close()
}
