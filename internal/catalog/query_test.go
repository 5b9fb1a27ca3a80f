package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tulasisilks/internal/models"
)

func seeded(t *testing.T, drafts ...models.ProductDraft) *Manager {
	t.Helper()
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	m := New(&countingStore{}, WithClock(func() time.Time {
		now = now.Add(time.Minute)
		return now
	}))
	for _, d := range drafts {
		_, err := m.Add(context.Background(), d)
		require.NoError(t, err)
	}
	return m
}

func ids(products []models.Product) []int {
	out := make([]int, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestFilterWithoutPredicatesReturnsEverythingInOrder(t *testing.T) {
	m := seeded(t,
		draft("C", "Silk"),
		draft("A", "Cotton"),
		draft("B", "Silk"),
	)
	got := m.Filter(Query{})
	if diff := cmp.Diff(ids(m.List()), ids(got)); diff != "" {
		t.Errorf("order changed:\n%s", diff)
	}
}

func TestFilter(t *testing.T) {
	kanchi := draft("Kanchipuram Bridal", "Silk")
	kanchi.Description = "Temple border with zari"
	m := seeded(t,
		kanchi,
		draft("Chettinad Checks", "Cotton"),
		draft("Banarasi Zari", "Banarasi Silk"),
	)

	tests := []struct {
		name string
		q    Query
		want []int
	}{
		{"name substring any case", Query{Search: "CHETTI"}, []int{2}},
		{"description", Query{Search: "temple"}, []int{1}},
		{"category text", Query{Search: "silk"}, []int{1, 3}},
		{"text across fields", Query{Search: "zari"}, []int{1, 3}},
		{"exact category", Query{Category: "Silk"}, []int{1}},
		{"category is exact not substring", Query{Category: "silk"}, []int{}},
		{"both", Query{Search: "zari", Category: "Banarasi Silk"}, []int{3}},
		{"no match", Query{Search: "linen"}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(m.Filter(tt.q)))
		})
	}
}

func TestCountsHeroScenario(t *testing.T) {
	m := seeded(t,
		draft("In hero", "Silk", models.SlotHero),
		draft("Not in hero", "Silk"),
	)
	c := m.Counts()
	assert.Equal(t, 1, c.Hero)
	assert.Equal(t, 2, c.Total)
}

func TestCountsBoundedByTotal(t *testing.T) {
	m := seeded(t,
		draft("a", "Silk", models.AllSlots...),
		draft("b", "Silk", models.SlotFeatured, models.SlotDeals),
		draft("c", "Cotton"),
	)
	c := m.Counts()
	assert.Equal(t, m.Len(), c.Total)
	for _, slot := range models.AllSlots {
		assert.LessOrEqual(t, c.Slot(slot), c.Total, string(slot))
	}
	assert.Equal(t, 2, c.Featured)
	assert.Equal(t, 2, c.Deals)
	assert.Equal(t, 1, c.Blog)
	assert.Equal(t, 0, c.Slot("unknown"))
}

func TestCountsEmpty(t *testing.T) {
	assert.Equal(t, Counts{}, New(&countingStore{}).Counts())
}

func TestInSlot(t *testing.T) {
	m := seeded(t,
		draft("a", "Silk", models.SlotDeals),
		draft("b", "Silk"),
		draft("c", "Silk", models.SlotDeals, models.SlotBlog),
	)
	assert.Equal(t, []int{1, 3}, ids(m.InSlot(models.SlotDeals)))
	assert.Equal(t, []int{3}, ids(m.InSlot(models.SlotBlog)))
	assert.NotNil(t, m.InSlot(models.SlotHero))
	assert.Empty(t, m.InSlot(models.SlotHero))
}

func TestCategoriesSortedUnique(t *testing.T) {
	m := seeded(t,
		draft("a", "Silk"),
		draft("b", "Cotton"),
		draft("c", "Silk"),
		draft("d", ""),
	)
	assert.Equal(t, []string{"Cotton", "Silk"}, m.Categories())
}

func TestShop(t *testing.T) {
	cheap := draft("Cotton Daily", "Cotton")
	cheap.Price = 800
	mid := draft("Silk Festive", "Silk", models.SlotFeatured)
	mid.Price = 4500
	dear := draft("Bridal Kanchi", "silk ")
	dear.Price = 12000
	m := seeded(t, cheap, mid, dear)

	ptr := func(f float64) *float64 { return &f }

	tests := []struct {
		name string
		o    ShopOptions
		want []int
	}{
		{"default is featured first", ShopOptions{}, []int{2, 1, 3}},
		{"price low", ShopOptions{Sort: SortPriceLow}, []int{1, 2, 3}},
		{"price high", ShopOptions{Sort: SortPriceHigh}, []int{3, 2, 1}},
		{"newest", ShopOptions{Sort: SortNewest}, []int{3, 2, 1}},
		{"price range", ShopOptions{MinPrice: ptr(0), MaxPrice: ptr(10000), Sort: SortPriceLow}, []int{1, 2}},
		{"categories ignore case and spacing at edges", ShopOptions{Categories: []string{"SILK"}, Sort: SortPriceLow}, []int{2, 3}},
		{"multiple categories", ShopOptions{Categories: []string{"Cotton", "Silk"}, Sort: SortPriceLow}, []int{1, 2, 3}},
		{"search", ShopOptions{Search: "kanchi"}, []int{3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(m.Shop(tt.o)))
		})
	}
}

func TestValidSort(t *testing.T) {
	for _, s := range []string{"", "featured", "price-low", "price-high", "newest"} {
		assert.True(t, ValidSort(s), s)
	}
	assert.False(t, ValidSort("rating"))
}
