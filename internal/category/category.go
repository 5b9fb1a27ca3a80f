// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package category derives category cards from a product list. Cards are
// recomputed on every call and never stored.
package category

import (
	"strings"

	"tulasisilks/internal/models"
	"tulasisilks/internal/slug"
)

// Description returns the generated blurb for a category card.
func Description(name string) string {
	return "Explore our collection of " + name + " sarees"
}

// Aggregate groups products by normalized category in one pass. The first
// spelling seen names the card, the first product flagged for the
// categories slot with an image supplies the picture, and cards come out in
// order of first appearance. Products without a category are skipped.
func Aggregate(products []models.Product) []models.Category {
	index := make(map[string]int)
	cards := []models.Category{}

	for i := range products {
		p := &products[i]
		if strings.TrimSpace(p.Category) == "" {
			continue
		}
		key := slug.Category(p.Category)

		j, ok := index[key]
		if !ok {
			name := strings.TrimSpace(p.Category)
			cards = append(cards, models.Category{
				Slug:        key,
				Name:        name,
				Description: Description(name),
			})
			j = len(cards) - 1
			index[key] = j
		}

		c := &cards[j]
		c.Count++
		if c.Image == "" && p.Image != "" && p.Slots.Has(models.SlotCategories) {
			c.Image = p.Image
		}
	}
	return cards
}

// Find returns the card for slug together with its products in list order.
// ok is false when no product maps to the slug.
func Find(products []models.Product, key string) (card models.Category, members []models.Product, ok bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, c := range Aggregate(products) {
		if c.Slug == key {
			card, ok = c, true
			break
		}
	}
	if !ok {
		return models.Category{}, nil, false
	}

	members = []models.Product{}
	for i := range products {
		if strings.TrimSpace(products[i].Category) != "" && slug.Category(products[i].Category) == key {
			members = append(members, products[i])
		}
	}
	return card, members, true
}
