package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductJSONUsesFlatFlags(t *testing.T) {
	p := Product{
		ID:        4,
		Name:      "Mysore Silk",
		Category:  "Silk",
		Price:     3200,
		InStock:   true,
		Slots:     NewSlots(SlotHero, SlotDeals),
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, true, m["showInHero"])
	assert.Equal(t, true, m["showInDeals"])
	assert.Equal(t, false, m["showInBlog"])
	assert.NotContains(t, m, "Slots")

	var back Product
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, back.Slots.Has(SlotHero))
	assert.True(t, back.Slots.Has(SlotDeals))
	assert.False(t, back.Slots.Has(SlotFeatured))
	assert.Equal(t, p.CreatedAt, back.CreatedAt)
}

func TestProductUnmarshalAlwaysHasSlots(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"name":"x"}`), &p))
	assert.NotNil(t, p.Slots)
	assert.Empty(t, p.Slots)
}

func TestProductDraftDefaultsInStock(t *testing.T) {
	var d ProductDraft
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Gadwal","category":"Cotton","price":900,"showInFeatured":true}`), &d))
	assert.True(t, d.InStock)
	assert.Equal(t, "Gadwal", d.Name)
	assert.True(t, d.Slots.Has(SlotFeatured))

	require.NoError(t, json.Unmarshal([]byte(`{"name":"Gadwal","inStock":false}`), &d))
	assert.False(t, d.InStock)
}

func TestProductPatchApply(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	base := Product{
		ID: 9, Name: "Old", Category: "Silk", Price: 10,
		Slots: NewSlots(SlotHero), CreatedAt: created, UpdatedAt: created,
	}

	t.Run("empty patch keeps everything", func(t *testing.T) {
		var pp ProductPatch
		assert.True(t, pp.IsEmpty())
		got := pp.Apply(base)
		assert.Equal(t, base.Name, got.Name)
		assert.True(t, got.Slots.Has(SlotHero))
	})

	t.Run("fields and slots", func(t *testing.T) {
		name := "New"
		price := 25.5
		pp := ProductPatch{Name: &name, Price: &price}
		pp.SetSlot(SlotHero, false)
		pp.SetSlot(SlotBlog, true)
		assert.False(t, pp.IsEmpty())

		got := pp.Apply(base)
		assert.Equal(t, "New", got.Name)
		assert.Equal(t, 25.5, got.Price)
		assert.Equal(t, "Silk", got.Category)
		assert.False(t, got.Slots.Has(SlotHero))
		assert.True(t, got.Slots.Has(SlotBlog))
		assert.Equal(t, 9, got.ID)
		assert.Equal(t, created, got.CreatedAt)
	})

	t.Run("does not alias the prior slots", func(t *testing.T) {
		pp := ProductPatch{}
		pp.SetSlot(SlotDeals, true)
		_ = pp.Apply(base)
		assert.False(t, base.Slots.Has(SlotDeals))
	})
}

func TestParseSlot(t *testing.T) {
	s, ok := ParseSlot("limitedOffer")
	assert.True(t, ok)
	assert.Equal(t, SlotLimitedOffer, s)

	_, ok = ParseSlot("sidebar")
	assert.False(t, ok)
}

func TestSlotsCloneDropsFalseMembers(t *testing.T) {
	s := Slots{SlotHero: true, SlotBlog: false}
	c := s.Clone()
	assert.Len(t, c, 1)
	c[SlotDeals] = true
	assert.False(t, s.Has(SlotDeals))
}
