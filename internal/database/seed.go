// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"tulasisilks/internal/models"
)

// SeedFile is the YAML layout of a starter catalog.
type SeedFile struct {
	Products []SeedProduct `yaml:"products"`
	Orders   []SeedOrder   `yaml:"orders"`
}

// SeedProduct is one product entry. Slots lists slot names such as
// "hero" or "limitedOffer".
type SeedProduct struct {
	Name        string   `yaml:"name"`
	Category    string   `yaml:"category"`
	Price       float64  `yaml:"price"`
	Image       string   `yaml:"image"`
	Description string   `yaml:"description"`
	InStock     *bool    `yaml:"inStock"`
	Slots       []string `yaml:"slots"`
}

// SeedOrder is one order entry.
type SeedOrder struct {
	ID         string    `yaml:"id"`
	CustomerID string    `yaml:"customerId"`
	Customer   string    `yaml:"customer"`
	Total      float64   `yaml:"total"`
	Status     string    `yaml:"status"`
	CreatedAt  time.Time `yaml:"createdAt"`
}

// Catalog is the part of the catalog manager the seeder writes through.
type Catalog interface {
	Len() int
	Add(ctx context.Context, d models.ProductDraft) (models.Product, error)
}

// Orders replaces the stored order list.
type Orders interface {
	List(ctx context.Context) ([]models.Order, error)
	Replace(ctx context.Context, orders []models.Order) error
}

// LoadSeedFile reads and validates a seed file.
func LoadSeedFile(path string) (*SeedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed read: %w", err)
	}
	return ParseSeed(raw)
}

// ParseSeed decodes seed YAML. Unknown slot names are rejected.
func ParseSeed(raw []byte) (*SeedFile, error) {
	var f SeedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("seed parse: %w", err)
	}
	for i, p := range f.Products {
		if p.Name == "" || p.Category == "" {
			return nil, fmt.Errorf("seed product %d: name and category are required", i+1)
		}
		for _, s := range p.Slots {
			if _, ok := models.ParseSlot(s); !ok {
				return nil, fmt.Errorf("seed product %q: unknown slot %q", p.Name, s)
			}
		}
	}
	return &f, nil
}

// Seed adds the file's products when the catalog is empty and its orders
// when no orders are stored. Running it twice changes nothing.
func Seed(ctx context.Context, f *SeedFile, catalog Catalog, orders Orders) error {
	if catalog.Len() > 0 {
		slog.Info("catalog already seeded, skipping products")
	} else {
		for _, p := range f.Products {
			if _, err := catalog.Add(ctx, p.draft()); err != nil {
				return fmt.Errorf("seed product %q: %w", p.Name, err)
			}
		}
		slog.Info("catalog seeded", "products", len(f.Products))
	}

	existing, err := orders.List(ctx)
	if err != nil {
		return fmt.Errorf("seed check orders: %w", err)
	}
	if len(existing) > 0 || len(f.Orders) == 0 {
		return nil
	}

	out := make([]models.Order, 0, len(f.Orders))
	for _, o := range f.Orders {
		out = append(out, models.Order{
			ID:         o.ID,
			CustomerID: o.CustomerID,
			Customer:   o.Customer,
			Total:      o.Total,
			Status:     models.OrderStatus(o.Status),
			CreatedAt:  o.CreatedAt,
		})
	}
	if err := orders.Replace(ctx, out); err != nil {
		return fmt.Errorf("seed orders: %w", err)
	}
	slog.Info("orders seeded", "orders", len(out))
	return nil
}

func (p SeedProduct) draft() models.ProductDraft {
	inStock := true
	if p.InStock != nil {
		inStock = *p.InStock
	}
	slots := models.Slots{}
	for _, s := range p.Slots {
		name, _ := models.ParseSlot(s)
		slots[name] = true
	}
	return models.ProductDraft{
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Image:       p.Image,
		Description: p.Description,
		InStock:     inStock,
		Slots:       slots,
	}
}
