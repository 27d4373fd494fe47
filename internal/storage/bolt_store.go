package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

var urlBucket = []byte("scraped_urls")

var errBucketMissing = errors.New("scraped_urls bucket missing")

// boltStore keeps one key per scraped URL whose value is its expiry as
// big-endian unix seconds.
type boltStore struct {
	db         *bolt.DB
	ttl        time.Duration
	sweepEvery time.Duration
	sweepMu    sync.Mutex
	lastSweep  atomic.Int64
	now        func() time.Time
}

// openBolt opens (creating if needed) the database file at path.
func openBolt(path string, opts Options) (Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(urlBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create %s bucket: %w", urlBucket, err)
	}

	s := &boltStore{
		db:         db,
		ttl:        opts.TTL,
		sweepEvery: opts.CleanupInterval,
		now:        time.Now,
	}
	s.lastSweep.Store(s.now().Unix())
	return s, nil
}

func (s *boltStore) Close() error {
	return s.db.Close()
}

// Seen reports whether url was marked less than TTL ago.
func (s *boltStore) Seen(url string) (bool, error) {
	now := s.now()
	if err := s.sweep(now); err != nil {
		return false, err
	}

	var fresh bool
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(urlBucket)
		if b == nil {
			return errBucketMissing
		}
		fresh = unexpired(b.Get(urlKey(url)), now)
		return nil
	})
	return fresh, err
}

// Mark records url as scraped now.
func (s *boltStore) Mark(url string) error {
	now := s.now()
	if err := s.sweep(now); err != nil {
		return err
	}

	var expiry [8]byte
	binary.BigEndian.PutUint64(expiry[:], uint64(now.Add(s.ttl).Unix()))
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(urlBucket)
		if b == nil {
			return errBucketMissing
		}
		return b.Put(urlKey(url), expiry[:])
	})
}

// sweep deletes expired keys at most once per cleanup interval.
func (s *boltStore) sweep(now time.Time) error {
	due := func() bool {
		return now.Sub(time.Unix(s.lastSweep.Load(), 0)) >= s.sweepEvery
	}
	if !due() {
		return nil
	}

	s.sweepMu.Lock()
	defer s.sweepMu.Unlock()
	if !due() {
		return nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(urlBucket)
		if b == nil {
			return errBucketMissing
		}
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if unexpired(v, now) {
				continue
			}
			if err := c.Delete(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sweep expired urls: %w", err)
	}
	s.lastSweep.Store(now.Unix())
	return nil
}

// unexpired reports whether value holds an expiry later than now.
func unexpired(value []byte, now time.Time) bool {
	if len(value) != 8 {
		return false
	}
	return int64(binary.BigEndian.Uint64(value)) > now.Unix()
}
