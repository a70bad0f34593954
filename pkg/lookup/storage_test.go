package lookup

import (
	"context"
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adetobi/yosyn/pkg/dictionary"
)

func TestStorageKeys(t *testing.T) {
	testCases := map[string]struct {
		keyRaw   string
		expected []byte
	}{
		"query key": {
			keyRaw:   "key",
			expected: []byte{byte(queryKey), 'k', 'e', 'y'},
		},
		"query empty": {
			keyRaw:   "",
			expected: []byte{byte(queryKey)},
		},
	}
	for name := range testCases {
		tc := testCases[name]
		t.Run(name, func(t *testing.T) {
			binaryKey := marshalKey(tc.keyRaw, queryKey)
			assert.Equal(t, tc.expected, binaryKey)

			unmarshalled, err := unmarshalKey(binaryKey, queryKey)
			assert.NoError(t, err)
			assert.Equal(t, tc.keyRaw, unmarshalled)
		})
	}
	t.Run("empty data", func(t *testing.T) {
		_, err := unmarshalKey(nil, queryKey)
		assert.Error(t, err)
	})
}

func getStorage(t *testing.T) *Storage {
	t.Helper()
	db, err := OpenBadger(&CachedConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return &Storage{DB: db}
}

func TestStorageResults(t *testing.T) {
	storage := getStorage(t)
	results := []Result{
		{
			Rank:       1,
			Similarity: 1.0,
			Entry: &dictionary.Entry{
				Headword: "ilé",
				POS:      dictionary.Noun,
				Synonyms: []string{"ibùgbé", "ààfin"},
			},
		},
		{
			Rank:       2,
			Similarity: 0.9,
			Entry: &dictionary.Entry{
				Headword: "ilẹ̀",
				POS:      dictionary.Noun,
				Synonyms: []string{"orílẹ̀"},
			},
		},
	}

	t.Run("miss", func(t *testing.T) {
		_, err := storage.GetResults("ilé", 3)
		assert.ErrorIs(t, err, badger.ErrKeyNotFound)
	})
	t.Run("round trip", func(t *testing.T) {
		require.NoError(t, storage.PutResults("ilé", 3, results))
		got, err := storage.GetResults("ilé", 3)
		require.NoError(t, err)
		assert.Equal(t, results, got)
	})
	t.Run("result count is part of the key", func(t *testing.T) {
		_, err := storage.GetResults("ilé", 5)
		assert.ErrorIs(t, err, badger.ErrKeyNotFound)
	})
	t.Run("empty result sets round trip", func(t *testing.T) {
		require.NoError(t, storage.PutResults("xyz", 3, nil))
		got, err := storage.GetResults("xyz", 3)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func corruptValue(t *testing.T, storage *Storage, query string, maxResults int) {
	t.Helper()
	key := marshalKey(resultKey(query, maxResults), queryKey)
	err := storage.DB.Update(func(txn *badger.Txn) error {
		return txn.Set(key, []byte("{not json"))
	})
	require.NoError(t, err)
}

func TestStorageCorruptValue(t *testing.T) {
	storage := getStorage(t)
	corruptValue(t, storage, "ilé", 3)

	t.Run("get fails", func(t *testing.T) {
		_, err := storage.GetResults("ilé", 3)
		require.Error(t, err)
		assert.NotErrorIs(t, err, badger.ErrKeyNotFound)
	})
	t.Run("cached search falls through", func(t *testing.T) {
		cached := NewCached(NewDict(dictionary.Minimal()), storage.DB)
		results, err := cached.Search(context.TODO(), "ilé", 3)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "ilé", results[0].Entry.Headword)
	})
}
