package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"github.com/omnimedia/omnihub/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketCatalog   = []byte("catalog")
	bucketPlayback  = []byte("playback")
	bucketPlaylists = []byte("playlists")
	bucketSession   = []byte("session")
	bucketSettings  = []byte("settings")
)

var allBuckets = [][]byte{bucketCatalog, bucketPlayback, bucketPlaylists, bucketSession, bucketSettings}

// Store is the persistent key/value adapter backing every page of the hub.
//
// Reads never fail to the caller: a missing key or a malformed value leaves
// the destination untouched and reports false. Writes are best effort:
// serialization or disk failures are logged and swallowed, callers are not
// notified.
type Store struct {
	db     *bolt.DB
	logger *slog.Logger

	mu sync.RWMutex
	// In-memory cache for hot-path reads (promoted on access). Doubles as
	// the whole store in memory-only mode.
	cache map[string][]byte
}

// Open opens (or creates) the durable store under dir.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "omnihub.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, logger: logger, cache: make(map[string][]byte)}, nil
}

// NewMemory returns a store with no persistence. Used for tab-scoped session
// data and in tests.
func NewMemory(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{logger: logger, cache: make(map[string][]byte)}
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *Store) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return s.decode(bucket, key, data, dest)
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return s.decode(bucket, key, data, dest)
}

// decode unmarshals into a staging value and copies to dest only on full
// success. Decoding straight into dest would let a record that is valid
// JSON with one mistyped field overwrite the caller's fallback before the
// error surfaces.
func (s *Store) decode(bucket []byte, key string, data []byte, dest interface{}) bool {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return false
	}
	staging := reflect.New(rv.Type().Elem())
	if err := json.Unmarshal(data, staging.Interface()); err != nil {
		s.logger.Warn("store read: malformed value", "bucket", string(bucket), "key", key, "error", err)
		return false
	}
	rv.Elem().Set(staging.Elem())
	return true
}

func (s *Store) set(bucket []byte, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("store write dropped", "bucket", string(bucket), "key", key, "error", err)
		return
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return // Memory-only mode
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
	if err != nil {
		s.logger.Warn("store write dropped", "bucket", string(bucket), "key", key, "error", err)
	}
}

func (s *Store) delete(bucket []byte, key string) {
	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	delete(s.cache, cacheKey)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

// SetRaw writes a pre-serialized value under a raw catalog key. Used by the
// importer so a validated payload is written exactly once, byte for byte.
func (s *Store) SetRaw(key string, data []byte) {
	cacheKey := string(bucketCatalog) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCatalog).Put([]byte(key), data)
	})
	if err != nil {
		s.logger.Warn("store write dropped", "bucket", "catalog", "key", key, "error", err)
	}
}

// === Catalog collections ===

// GetCollection reads a catalog collection into dest (a slice pointer).
// Missing or malformed collections leave dest untouched.
func (s *Store) GetCollection(name string, dest interface{}) bool {
	return s.get(bucketCatalog, name, dest)
}

// SaveCollection writes a catalog collection.
func (s *Store) SaveCollection(name string, value interface{}) {
	s.set(bucketCatalog, name, value)
}

// === Playback ===

type QueueSnapshot struct {
	Items   []domain.Track `json:"items"`
	Current int            `json:"currentIndex"`
}

func (s *Store) GetQueue() (QueueSnapshot, bool) {
	snap := QueueSnapshot{Current: -1}
	ok := s.get(bucketPlayback, "queue", &snap)
	return snap, ok
}

func (s *Store) SaveQueue(snap QueueSnapshot) {
	s.set(bucketPlayback, "queue", snap)
}

func (s *Store) GetCurrentTrack() (domain.Track, bool) {
	var t domain.Track
	ok := s.get(bucketPlayback, "current_track", &t)
	return t, ok
}

func (s *Store) SaveCurrentTrack(t domain.Track) {
	s.set(bucketPlayback, "current_track", t)
}

// PlayerPrefs are the transport toggles persisted across restarts.
type PlayerPrefs struct {
	Volume float64 `json:"volume"`
	Muted  bool    `json:"muted"`
	Loop   bool    `json:"loop"`
}

func (s *Store) GetPlayerPrefs() (PlayerPrefs, bool) {
	var p PlayerPrefs
	ok := s.get(bucketPlayback, "prefs", &p)
	return p, ok
}

func (s *Store) SavePlayerPrefs(p PlayerPrefs) {
	s.set(bucketPlayback, "prefs", p)
}

// === Playlists ===

func (s *Store) GetPlaylists() ([]domain.Playlist, bool) {
	var playlists []domain.Playlist
	ok := s.get(bucketPlaylists, "list", &playlists)
	return playlists, ok
}

func (s *Store) SavePlaylists(playlists []domain.Playlist) {
	s.set(bucketPlaylists, "list", playlists)
}

// === Session ===

func (s *Store) GetSession() (domain.Session, bool) {
	var sess domain.Session
	ok := s.get(bucketSession, "current", &sess)
	return sess, ok
}

func (s *Store) SaveSession(sess domain.Session) {
	s.set(bucketSession, "current", sess)
}

func (s *Store) ClearSession() {
	s.delete(bucketSession, "current")
}

// === Settings ===

func (s *Store) GetSettings() (domain.Settings, bool) {
	settings := domain.DefaultSettings()
	ok := s.get(bucketSettings, "current", &settings)
	settings.Normalize()
	return settings, ok
}

func (s *Store) SaveSettings(settings domain.Settings) {
	s.set(bucketSettings, "current", settings)
}

// === First-run marker ===

func (s *Store) Seeded() bool {
	var seeded bool
	s.get(bucketCatalog, "seeded", &seeded)
	return seeded
}

func (s *Store) MarkSeeded() {
	s.set(bucketCatalog, "seeded", true)
}
