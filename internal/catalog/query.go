// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"sort"
	"strings"

	"tulasisilks/internal/models"
)

// Query selects products by free text and exact category. Empty fields
// match everything.
type Query struct {
	Search   string
	Category string
}

// Filter returns the products whose name, description or category contain
// the search text (case-insensitive) and whose category equals
// q.Category. Order follows the list.
func (m *Manager) Filter(q Query) []models.Product {
	m.mu.RLock()
	defer m.mu.RUnlock()

	needle := strings.ToLower(q.Search)
	out := make([]models.Product, 0, len(m.products))
	for i := range m.products {
		p := &m.products[i]
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if needle != "" && !matchesText(p, needle) {
			continue
		}
		out = append(out, clone(*p))
	}
	return out
}

func matchesText(p *models.Product, needle string) bool {
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) ||
		strings.Contains(strings.ToLower(p.Category), needle)
}

// Counts holds the dashboard totals.
type Counts struct {
	Total        int `json:"total"`
	Hero         int `json:"hero"`
	Featured     int `json:"featured"`
	Categories   int `json:"categories"`
	Deals        int `json:"deals"`
	LimitedOffer int `json:"limitedOffer"`
	Blog         int `json:"blog"`
}

// Slot returns the count for one slot.
func (c Counts) Slot(s models.SlotName) int {
	switch s {
	case models.SlotHero:
		return c.Hero
	case models.SlotFeatured:
		return c.Featured
	case models.SlotCategories:
		return c.Categories
	case models.SlotDeals:
		return c.Deals
	case models.SlotLimitedOffer:
		return c.LimitedOffer
	case models.SlotBlog:
		return c.Blog
	}
	return 0
}

// Counts scans the list once per slot.
func (m *Manager) Counts() Counts {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c := Counts{Total: len(m.products)}
	for _, slot := range models.AllSlots {
		n := 0
		for i := range m.products {
			if m.products[i].Slots.Has(slot) {
				n++
			}
		}
		switch slot {
		case models.SlotHero:
			c.Hero = n
		case models.SlotFeatured:
			c.Featured = n
		case models.SlotCategories:
			c.Categories = n
		case models.SlotDeals:
			c.Deals = n
		case models.SlotLimitedOffer:
			c.LimitedOffer = n
		case models.SlotBlog:
			c.Blog = n
		}
	}
	return c
}

// InSlot returns the products flagged for slot, in list order.
func (m *Manager) InSlot(slot models.SlotName) []models.Product {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.Product{}
	for i := range m.products {
		if m.products[i].Slots.Has(slot) {
			out = append(out, clone(m.products[i]))
		}
	}
	return out
}

// Categories returns the distinct category names, sorted.
func (m *Manager) Categories() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	out := []string{}
	for i := range m.products {
		c := m.products[i].Category
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Sort orders for the shop listing.
const (
	SortFeatured  = "featured"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortNewest    = "newest"
)

// ShopOptions drive the shop listing.
type ShopOptions struct {
	Search     string
	Categories []string
	MinPrice   *float64
	MaxPrice   *float64
	Sort       string
}

// Shop filters by text, any of the given categories (case-insensitive) and
// an inclusive price range, then sorts. The featured order puts featured
// products first and otherwise keeps list order.
func (m *Manager) Shop(o ShopOptions) []models.Product {
	products := m.Filter(Query{Search: o.Search})

	wanted := make(map[string]struct{}, len(o.Categories))
	for _, c := range o.Categories {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			wanted[c] = struct{}{}
		}
	}

	out := products[:0]
	for _, p := range products {
		if len(wanted) > 0 {
			if _, ok := wanted[strings.ToLower(strings.TrimSpace(p.Category))]; !ok {
				continue
			}
		}
		if o.MinPrice != nil && p.Price < *o.MinPrice {
			continue
		}
		if o.MaxPrice != nil && p.Price > *o.MaxPrice {
			continue
		}
		out = append(out, p)
	}

	switch o.Sort {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].ID > out[j].ID
			}
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Slots.Has(models.SlotFeatured) && !out[j].Slots.Has(models.SlotFeatured)
		})
	}
	return out
}

// ValidSort reports whether s names a shop sort order. Empty is valid.
func ValidSort(s string) bool {
	switch s {
	case "", SortFeatured, SortPriceLow, SortPriceHigh, SortNewest:
		return true
	}
	return false
}
