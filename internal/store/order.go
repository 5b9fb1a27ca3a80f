// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"sort"

	"tulasisilks/internal/kvstore"
	"tulasisilks/internal/models"
)

// OrderStore reads the order list. There is no checkout, so the only
// writer is the seed command.
type OrderStore struct {
	kv kvstore.Store
}

// NewOrderStore creates a new OrderStore.
func NewOrderStore(kv kvstore.Store) *OrderStore {
	return &OrderStore{kv: kv}
}

// List returns every order, newest first.
func (s *OrderStore) List(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	if _, err := loadJSON(ctx, s.kv, KeyOrders, &orders); err != nil {
		return nil, err
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// Replace overwrites the order list.
func (s *OrderStore) Replace(ctx context.Context, orders []models.Order) error {
	if orders == nil {
		orders = []models.Order{}
	}
	return saveJSON(ctx, s.kv, KeyOrders, orders)
}
