// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the records persisted by the storefront and the
// core types used throughout the application.
package models

import (
	"encoding/json"
	"time"
)

// SlotName identifies a presentation slot a product can be shown in.
type SlotName string

const (
	SlotHero         SlotName = "hero"
	SlotFeatured     SlotName = "featured"
	SlotCategories   SlotName = "categories"
	SlotDeals        SlotName = "deals"
	SlotLimitedOffer SlotName = "limitedOffer"
	SlotBlog         SlotName = "blog"
)

// AllSlots lists every slot in display order.
var AllSlots = []SlotName{
	SlotHero, SlotFeatured, SlotCategories, SlotDeals, SlotLimitedOffer, SlotBlog,
}

// ParseSlot returns the slot with the given name.
func ParseSlot(s string) (SlotName, bool) {
	for _, slot := range AllSlots {
		if string(slot) == s {
			return slot, true
		}
	}
	return "", false
}

// Slots is the set of slots a product is flagged for. Flags are independent;
// the zero value is the empty set.
type Slots map[SlotName]bool

// NewSlots builds a set from the given slot names.
func NewSlots(names ...SlotName) Slots {
	s := make(Slots, len(names))
	for _, n := range names {
		s[n] = true
	}
	return s
}

// Has reports whether the slot is in the set.
func (s Slots) Has(name SlotName) bool {
	return s[name]
}

// Clone returns an independent copy containing only set members.
func (s Slots) Clone() Slots {
	out := make(Slots, len(s))
	for k, v := range s {
		if v {
			out[k] = true
		}
	}
	return out
}

// Product is one sellable saree. The JSON form keeps the storefront's flat
// showIn* booleans; in Go the flags are a Slots set.
type Product struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Image       string    `json:"image"`
	Description string    `json:"description"`
	InStock     bool      `json:"inStock"`
	Slots       Slots     `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// productWire is the external JSON shape of a product.
type productWire struct {
	ID                 int       `json:"id"`
	Name               string    `json:"name"`
	Category           string    `json:"category"`
	Price              float64   `json:"price"`
	Image              string    `json:"image"`
	Description        string    `json:"description"`
	InStock            bool      `json:"inStock"`
	ShowInHero         bool      `json:"showInHero"`
	ShowInFeatured     bool      `json:"showInFeatured"`
	ShowInCategories   bool      `json:"showInCategories"`
	ShowInDeals        bool      `json:"showInDeals"`
	ShowInLimitedOffer bool      `json:"showInLimitedOffer"`
	ShowInBlog         bool      `json:"showInBlog"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// flagRefs pairs each slot with its wire field.
func (w *productWire) flagRefs() map[SlotName]*bool {
	return map[SlotName]*bool{
		SlotHero:         &w.ShowInHero,
		SlotFeatured:     &w.ShowInFeatured,
		SlotCategories:   &w.ShowInCategories,
		SlotDeals:        &w.ShowInDeals,
		SlotLimitedOffer: &w.ShowInLimitedOffer,
		SlotBlog:         &w.ShowInBlog,
	}
}

// MarshalJSON writes the flat storefront representation.
func (p Product) MarshalJSON() ([]byte, error) {
	w := productWire{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Image:       p.Image,
		Description: p.Description,
		InStock:     p.InStock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for slot, ref := range w.flagRefs() {
		*ref = p.Slots.Has(slot)
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads the flat storefront representation.
func (p *Product) UnmarshalJSON(data []byte) error {
	var w productWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = Product{
		ID:          w.ID,
		Name:        w.Name,
		Category:    w.Category,
		Price:       w.Price,
		Image:       w.Image,
		Description: w.Description,
		InStock:     w.InStock,
		Slots:       Slots{},
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
	for slot, ref := range w.flagRefs() {
		if *ref {
			p.Slots[slot] = true
		}
	}
	return nil
}

// ProductDraft carries the admin-entered fields of a product that does not
// have an id yet.
type ProductDraft struct {
	Name        string
	Category    string
	Price       float64
	Image       string
	Description string
	InStock     bool
	Slots       Slots
}

// UnmarshalJSON reads a draft from the product JSON shape. inStock defaults
// to true when omitted, matching the admin form.
func (d *ProductDraft) UnmarshalJSON(data []byte) error {
	var patch ProductPatch
	if err := json.Unmarshal(data, &patch); err != nil {
		return err
	}
	applied := patch.Apply(Product{InStock: true, Slots: Slots{}})
	*d = ProductDraft{
		Name:        applied.Name,
		Category:    applied.Category,
		Price:       applied.Price,
		Image:       applied.Image,
		Description: applied.Description,
		InStock:     applied.InStock,
		Slots:       applied.Slots,
	}
	return nil
}

// ProductPatch holds the fields of an edit. Nil fields keep the prior value.
type ProductPatch struct {
	Name               *string  `json:"name,omitempty"`
	Category           *string  `json:"category,omitempty"`
	Price              *float64 `json:"price,omitempty"`
	Image              *string  `json:"image,omitempty"`
	Description        *string  `json:"description,omitempty"`
	InStock            *bool    `json:"inStock,omitempty"`
	ShowInHero         *bool    `json:"showInHero,omitempty"`
	ShowInFeatured     *bool    `json:"showInFeatured,omitempty"`
	ShowInCategories   *bool    `json:"showInCategories,omitempty"`
	ShowInDeals        *bool    `json:"showInDeals,omitempty"`
	ShowInLimitedOffer *bool    `json:"showInLimitedOffer,omitempty"`
	ShowInBlog         *bool    `json:"showInBlog,omitempty"`
}

// SetSlot records a slot flag change in the patch.
func (pp *ProductPatch) SetSlot(slot SlotName, on bool) {
	v := on
	switch slot {
	case SlotHero:
		pp.ShowInHero = &v
	case SlotFeatured:
		pp.ShowInFeatured = &v
	case SlotCategories:
		pp.ShowInCategories = &v
	case SlotDeals:
		pp.ShowInDeals = &v
	case SlotLimitedOffer:
		pp.ShowInLimitedOffer = &v
	case SlotBlog:
		pp.ShowInBlog = &v
	}
}

// IsEmpty reports whether the patch changes nothing.
func (pp ProductPatch) IsEmpty() bool {
	return pp == ProductPatch{}
}

// Apply merges the patch over p and returns the result. Id and timestamps
// are never touched.
func (pp ProductPatch) Apply(p Product) Product {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Category != nil {
		p.Category = *pp.Category
	}
	if pp.Price != nil {
		p.Price = *pp.Price
	}
	if pp.Image != nil {
		p.Image = *pp.Image
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
	if pp.InStock != nil {
		p.InStock = *pp.InStock
	}

	slots := p.Slots.Clone()
	for slot, flag := range map[SlotName]*bool{
		SlotHero:         pp.ShowInHero,
		SlotFeatured:     pp.ShowInFeatured,
		SlotCategories:   pp.ShowInCategories,
		SlotDeals:        pp.ShowInDeals,
		SlotLimitedOffer: pp.ShowInLimitedOffer,
		SlotBlog:         pp.ShowInBlog,
	} {
		if flag == nil {
			continue
		}
		if *flag {
			slots[slot] = true
		} else {
			delete(slots, slot)
		}
	}
	p.Slots = slots
	return p
}
