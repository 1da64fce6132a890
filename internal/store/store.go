package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/instrumenta/internal/query"
	bolt "go.etcd.io/bbolt"
)

var bucketQueries = []byte("queries")

// QueryStore persists query results in BoltDB, keyed by canonical query key.
// It implements query.Persister.
type QueryStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// Encoded rows, mirrored from disk
	cache map[string][]byte
}

var _ query.Persister = (*QueryStore)(nil)

// NewQueryStore opens the store for one API server under baseCacheDir.
// An empty baseCacheDir keeps everything in memory.
func NewQueryStore(baseCacheDir, serverURL string) (*QueryStore, error) {
	if baseCacheDir == "" {
		return &QueryStore{cache: make(map[string][]byte)}, nil
	}

	dir := baseCacheDir
	if serverURL != "" {
		dir = filepath.Join(baseCacheDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "queries.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketQueries)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &QueryStore{db: db, cache: make(map[string][]byte)}, nil
}

// hashServerURL keeps caches of different API servers apart.
func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *QueryStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === query.Persister ===

// LoadQueries returns every stored row. Rows that no longer decode are skipped.
func (s *QueryStore) LoadQueries() (map[string]query.Persisted, error) {
	rows := make(map[string][]byte)
	if s.db == nil {
		s.mu.RLock()
		for k, v := range s.cache {
			rows[k] = v
		}
		s.mu.RUnlock()
	} else {
		err := s.db.View(func(tx *bolt.Tx) error {
			b := tx.Bucket(bucketQueries)
			if b == nil {
				return nil
			}
			return b.ForEach(func(k, v []byte) error {
				data := make([]byte, len(v))
				copy(data, v)
				rows[string(k)] = data
				return nil
			})
		})
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		for k, v := range rows {
			s.cache[k] = v
		}
		s.mu.Unlock()
	}

	out := make(map[string]query.Persisted, len(rows))
	for k, data := range rows {
		var p query.Persisted
		if json.Unmarshal(data, &p) != nil {
			continue
		}
		out[k] = p
	}
	return out, nil
}

func (s *QueryStore) SaveQuery(key string, q query.Persisted) error {
	data, err := json.Marshal(q)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketQueries).Put([]byte(key), data)
	})
}

// DeleteQueries removes every row whose key satisfies match.
func (s *QueryStore) DeleteQueries(match func(key string) bool) error {
	s.mu.Lock()
	for k := range s.cache {
		if match(k) {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketQueries)
		if b == nil {
			return nil
		}
		var doomed [][]byte
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			if match(string(k)) {
				doomed = append(doomed, append([]byte(nil), k...))
			}
		}
		for _, k := range doomed {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// === Lookups ===

// Has reports whether key is stored.
func (s *QueryStore) Has(key string) bool {
	s.mu.RLock()
	_, ok := s.cache[key]
	s.mu.RUnlock()
	if ok || s.db == nil {
		return ok
	}
	found := false
	s.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(bucketQueries).Get([]byte(key)) != nil
		return nil
	})
	return found
}

// Len is the number of stored rows.
func (s *QueryStore) Len() int {
	if s.db == nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return len(s.cache)
	}
	n := 0
	s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(bucketQueries).Stats().KeyN
		return nil
	})
	return n
}
