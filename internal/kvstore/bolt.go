// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package kvstore

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"time"

	bolt "go.etcd.io/bbolt"
)

// boltBucket holds every key of the store.
var boltBucket = []byte("kv")

// Bolt is a single-file Store backed by bbolt. Values are prefixed with an
// 8-byte big-endian expiry (unix nanoseconds, 0 = never).
type Bolt struct {
	db  *bolt.DB
	now func() time.Time
}

// OpenBolt opens (or creates) the database file at path.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bolt open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("bolt create bucket: %w", err)
	}
	slog.Info("bolt store opened", "path", path)
	return &Bolt{db: db, now: time.Now}, nil
}

func encodeBoltValue(value []byte, deadline time.Time) []byte {
	buf := make([]byte, 8+len(value))
	if !deadline.IsZero() {
		binary.BigEndian.PutUint64(buf[:8], uint64(deadline.UnixNano()))
	}
	copy(buf[8:], value)
	return buf
}

func decodeBoltValue(raw []byte) ([]byte, time.Time, error) {
	if len(raw) < 8 {
		return nil, time.Time{}, fmt.Errorf("bolt value too short (%d bytes)", len(raw))
	}
	var deadline time.Time
	if n := binary.BigEndian.Uint64(raw[:8]); n != 0 {
		deadline = time.Unix(0, int64(n))
	}
	out := make([]byte, len(raw)-8)
	copy(out, raw[8:])
	return out, deadline, nil
}

// Get returns the value for key.
func (b *Bolt) Get(_ context.Context, key string) ([]byte, error) {
	var (
		value    []byte
		deadline time.Time
		found    bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(boltBucket).Get([]byte(key))
		if raw == nil {
			return nil
		}
		var err error
		value, deadline, err = decodeBoltValue(raw)
		found = err == nil
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("bolt get %s: %w", key, err)
	}
	if !found || expired(deadline, b.now()) {
		return nil, ErrNotFound
	}
	return value, nil
}

// Set replaces the value for key in a single transaction.
func (b *Bolt) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	raw := encodeBoltValue(value, expiresAt(b.now(), ttl))
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Put([]byte(key), raw)
	})
	if err != nil {
		return fmt.Errorf("bolt set %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (b *Bolt) Delete(_ context.Context, key string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("bolt delete %s: %w", key, err)
	}
	return nil
}

// Sweep removes every expired entry.
func (b *Bolt) Sweep(_ context.Context) (int, error) {
	now := b.now()
	var n int
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(boltBucket)
		var stale [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			_, deadline, err := decodeBoltValue(v)
			if err != nil || expired(deadline, now) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		n = len(stale)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("bolt sweep: %w", err)
	}
	return n, nil
}

// Close closes the database file.
func (b *Bolt) Close() error {
	return b.db.Close()
}
