// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package kvstore is the storefront's persistent store: string keys mapped
// to whole-value blobs. Every write replaces the full value, so readers
// never observe a partial update. Backends: in-memory, bbolt file,
// PostgreSQL and Valkey.
package kvstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when a key is absent or expired.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is a string-keyed blob store. A ttl of zero means the value never
// expires.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Sweeper is implemented by backends that do not expire keys on their own.
// Sweep deletes expired entries and returns how many were removed.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// Backend names accepted by config.
const (
	BackendMemory   = "memory"
	BackendBolt     = "bolt"
	BackendPostgres = "postgres"
	BackendValkey   = "valkey"
)

// expiresAt converts a ttl into an absolute deadline. The zero time means
// no expiry.
func expiresAt(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}

// expired reports whether a deadline has passed.
func expired(deadline, now time.Time) bool {
	return !deadline.IsZero() && !now.Before(deadline)
}
