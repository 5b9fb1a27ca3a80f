// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tulasisilks/internal/kvstore"
	"tulasisilks/internal/models"
)

// CustomerStore handles the customer list. The list is read and written
// whole, so updates are serialized with a mutex.
type CustomerStore struct {
	kv kvstore.Store
	mu sync.Mutex
}

// NewCustomerStore creates a new CustomerStore.
func NewCustomerStore(kv kvstore.Store) *CustomerStore {
	return &CustomerStore{kv: kv}
}

// List returns every customer matching the query (name, email or phone)
// and, unless status is empty, in the given status.
func (s *CustomerStore) List(ctx context.Context, query string, status models.CustomerStatus) ([]models.Customer, error) {
	all, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Customer, 0, len(all))
	for i := range all {
		if all[i].Matches(query) && all[i].HasStatus(status) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// FindByID returns a customer by id. Returns nil if not found.
func (s *CustomerStore) FindByID(ctx context.Context, id string) (*models.Customer, error) {
	all, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, nil
}

// FindByContact returns the customer with the given email or phone.
// Returns nil if not found.
func (s *CustomerStore) FindByContact(ctx context.Context, email, phone string) (*models.Customer, error) {
	all, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexByContact(all, email, phone); i >= 0 {
		return &all[i], nil
	}
	return nil, nil
}

// RecordLogin creates the customer on first login and refreshes lastLogin
// afterwards. The stored record is returned.
func (s *CustomerStore) RecordLogin(ctx context.Context, name, email, phone string, at time.Time) (*models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	i := indexByContact(all, email, phone)
	if i < 0 {
		all = append(all, models.Customer{
			ID:       uuid.NewString(),
			Name:     name,
			Email:    email,
			Phone:    phone,
			Status:   models.CustomerActive,
			JoinDate: at,
		})
		i = len(all) - 1
	}
	all[i].LastLogin = at

	if err := saveJSON(ctx, s.kv, KeyCustomers, all); err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	c := all[i]
	return &c, nil
}

// ToggleStatus flips a customer between active and blocked. Returns nil if
// the customer does not exist.
func (s *CustomerStore) ToggleStatus(ctx context.Context, id string) (*models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID != id {
			continue
		}
		all[i].Status = all[i].ToggledStatus()
		if err := saveJSON(ctx, s.kv, KeyCustomers, all); err != nil {
			return nil, fmt.Errorf("toggle customer %s: %w", id, err)
		}
		c := all[i]
		return &c, nil
	}
	return nil, nil
}

// Count returns the number of recorded customers.
func (s *CustomerStore) Count(ctx context.Context) (int, error) {
	all, err := s.load(ctx)
	return len(all), err
}

func (s *CustomerStore) load(ctx context.Context) ([]models.Customer, error) {
	var all []models.Customer
	if _, err := loadJSON(ctx, s.kv, KeyCustomers, &all); err != nil {
		return nil, err
	}
	return all, nil
}

func indexByContact(all []models.Customer, email, phone string) int {
	for i := range all {
		if email != "" && strings.EqualFold(all[i].Email, email) {
			return i
		}
		if phone != "" && all[i].Phone == phone {
			return i
		}
	}
	return -1
}
