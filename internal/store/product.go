// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"

	"tulasisilks/internal/kvstore"
	"tulasisilks/internal/models"
)

// ProductStore persists the whole product list as a single value.
type ProductStore struct {
	kv kvstore.Store
}

// NewProductStore returns a new ProductStore backed by the given kv store.
func NewProductStore(kv kvstore.Store) *ProductStore {
	return &ProductStore{kv: kv}
}

// Load returns the persisted product list. A store that has never been
// written yields an empty list.
func (s *ProductStore) Load(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if _, err := loadJSON(ctx, s.kv, KeyProducts, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// Save replaces the persisted product list.
func (s *ProductStore) Save(ctx context.Context, products []models.Product) error {
	if products == nil {
		products = []models.Product{}
	}
	return saveJSON(ctx, s.kv, KeyProducts, products)
}

// SaveSnapshot writes a backup copy of the list under its own key.
func (s *ProductStore) SaveSnapshot(ctx context.Context, products []models.Product) error {
	return saveJSON(ctx, s.kv, KeyProductsSnapshot, products)
}

// LoadSnapshot returns the last backup copy, or nil if none was taken.
func (s *ProductStore) LoadSnapshot(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if _, err := loadJSON(ctx, s.kv, KeyProductsSnapshot, &products); err != nil {
		return nil, err
	}
	return products, nil
}
