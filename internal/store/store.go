// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides typed access to the records the storefront keeps in
// the persistent key/value store. Each store struct wraps a kvstore.Store and
// reads or writes one whole JSON value per key.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tulasisilks/internal/kvstore"
)

// Keys of the persisted values.
const (
	KeyProducts         = "saree-shop-products"
	KeyProductsSnapshot = "saree-shop-products.snapshot"
	KeyTheme            = "saree-shop-theme"
	KeyStoreInfo        = "saree-shop-store-info"
	KeyCustomers        = "saree-shop-customers"
	KeyOrders           = "saree-shop-orders"
)

// loadJSON decodes the value at key into dst. It reports false when the key
// has never been written.
func loadJSON(ctx context.Context, kv kvstore.Store, key string, dst any) (bool, error) {
	raw, err := kv.Get(ctx, key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// saveJSON replaces the value at key with the JSON encoding of v.
func saveJSON(ctx context.Context, kv kvstore.Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, raw, 0); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
