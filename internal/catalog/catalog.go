// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog owns the storefront's product list. A Manager keeps the
// single authoritative in-memory copy, applies add/update/remove under a
// lock, and flushes the whole list to its Persister after every change.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"tulasisilks/internal/models"
)

// ErrNotFound is returned by Update when no product has the given id.
var ErrNotFound = errors.New("product not found")

// Persister loads and saves the whole product list.
type Persister interface {
	Load(ctx context.Context) ([]models.Product, error)
	Save(ctx context.Context, products []models.Product) error
}

// Observer is told about every mutation attempt.
type Observer func(op string, err error)

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithObserver registers a mutation observer.
func WithObserver(o Observer) Option {
	return func(m *Manager) { m.observe = o }
}

// Manager holds the product list.
type Manager struct {
	mu       sync.RWMutex
	store    Persister
	products []models.Product
	now      func() time.Time
	observe  Observer
}

// New returns a Manager with an empty list. Call Load to read the persisted
// products.
func New(store Persister, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		products: []models.Product{},
		now:      time.Now,
		observe:  func(string, error) {},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load replaces the in-memory list with the persisted one.
func (m *Manager) Load(ctx context.Context) error {
	products, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	m.mu.Lock()
	m.products = products
	m.mu.Unlock()
	slog.Info("catalog loaded", "products", len(products))
	return nil
}

// Add assigns the next id, stamps both timestamps and appends the product.
// The draft is not validated here.
func (m *Manager) Add(ctx context.Context, d models.ProductDraft) (models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	p := models.Product{
		ID:          m.nextID(),
		Name:        d.Name,
		Category:    d.Category,
		Price:       d.Price,
		Image:       d.Image,
		Description: d.Description,
		InStock:     d.InStock,
		Slots:       d.Slots.Clone(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	next := make([]models.Product, len(m.products), len(m.products)+1)
	copy(next, m.products)
	next = append(next, p)

	if err := m.commit(ctx, "add", next); err != nil {
		return models.Product{}, err
	}
	return clone(p), nil
}

// Update merges patch over the product with the given id and refreshes
// updatedAt. Id and createdAt never change. A missing id leaves the list
// untouched and returns ErrNotFound.
func (m *Manager) Update(ctx context.Context, id int, patch models.ProductPatch) (models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		m.observe("update", ErrNotFound)
		return models.Product{}, fmt.Errorf("update product %d: %w", id, ErrNotFound)
	}

	prior := m.products[i]
	p := patch.Apply(prior)
	p.ID = prior.ID
	p.CreatedAt = prior.CreatedAt
	p.UpdatedAt = m.advance(prior.UpdatedAt)

	next := make([]models.Product, len(m.products))
	copy(next, m.products)
	next[i] = p

	if err := m.commit(ctx, "update", next); err != nil {
		return models.Product{}, err
	}
	return clone(p), nil
}

// Remove deletes the product with the given id. Removing an id that is not
// present is a no-op and does not touch the store. The result reports
// whether anything was removed.
func (m *Manager) Remove(ctx context.Context, id int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return false, nil
	}

	next := make([]models.Product, 0, len(m.products)-1)
	next = append(next, m.products[:i]...)
	next = append(next, m.products[i+1:]...)

	if err := m.commit(ctx, "remove", next); err != nil {
		return false, err
	}
	return true, nil
}

// Get returns the product with the given id.
func (m *Manager) Get(id int) (models.Product, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.indexOf(id)
	if i < 0 {
		return models.Product{}, false
	}
	return clone(m.products[i]), true
}

// Replace swaps the whole list for products, as when restoring a backup.
// Ids must be positive and unique; slots are copied.
func (m *Manager) Replace(ctx context.Context, products []models.Product) error {
	seen := make(map[int]struct{}, len(products))
	next := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.ID <= 0 {
			return fmt.Errorf("replace catalog: invalid id %d", p.ID)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("replace catalog: duplicate id %d", p.ID)
		}
		seen[p.ID] = struct{}{}
		next = append(next, clone(p))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commit(ctx, "replace", next)
}

// List returns a copy of every product in insertion order.
func (m *Manager) List() []models.Product {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Product, len(m.products))
	for i := range m.products {
		out[i] = clone(m.products[i])
	}
	return out
}

// Len returns the number of products.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.products)
}

// commit persists next and, only if that succeeds, makes it the current
// list. Must be called with m.mu held.
func (m *Manager) commit(ctx context.Context, op string, next []models.Product) error {
	if err := m.store.Save(ctx, next); err != nil {
		m.observe(op, err)
		return fmt.Errorf("%s product: %w", op, err)
	}
	m.products = next
	m.observe(op, nil)
	return nil
}

func (m *Manager) nextID() int {
	maxID := 0
	for i := range m.products {
		if m.products[i].ID > maxID {
			maxID = m.products[i].ID
		}
	}
	return maxID + 1
}

func (m *Manager) indexOf(id int) int {
	for i := range m.products {
		if m.products[i].ID == id {
			return i
		}
	}
	return -1
}

// advance returns the current time, or a microsecond past prior when the
// clock has not moved beyond it.
func (m *Manager) advance(prior time.Time) time.Time {
	now := m.now()
	if !now.After(prior) {
		return prior.Add(time.Microsecond)
	}
	return now
}

func clone(p models.Product) models.Product {
	p.Slots = p.Slots.Clone()
	return p
}
