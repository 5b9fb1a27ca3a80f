package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tulasisilks/internal/kvstore"
	"tulasisilks/internal/models"
)

func TestProductStoreEmptyLoad(t *testing.T) {
	s := NewProductStore(kvstore.NewMemory())
	products, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestProductStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	s := NewProductStore(kv)

	in := []models.Product{
		{ID: 1, Name: "Kanchipuram Silk", Category: "Silk", Price: 5400, InStock: true, Slots: models.NewSlots(models.SlotHero)},
		{ID: 2, Name: "Chettinad Cotton", Category: "Cotton", Price: 1200, Slots: models.Slots{}},
	}
	require.NoError(t, s.Save(ctx, in))

	raw, err := kv.Get(ctx, KeyProducts)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"showInHero":true`)

	out, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Kanchipuram Silk", out[0].Name)
	assert.True(t, out[0].Slots.Has(models.SlotHero))
	assert.False(t, out[1].Slots.Has(models.SlotHero))
}

func TestProductStoreCorruptValue(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	require.NoError(t, kv.Set(ctx, KeyProducts, []byte("{not json"), 0))

	_, err := NewProductStore(kv).Load(ctx)
	assert.Error(t, err)
}

func TestProductStoreSnapshot(t *testing.T) {
	ctx := context.Background()
	s := NewProductStore(kvstore.NewMemory())

	snap, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap)

	require.NoError(t, s.SaveSnapshot(ctx, []models.Product{{ID: 3, Name: "Ikat"}}))
	snap, err = s.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap, 1)
	assert.Equal(t, 3, snap[0].ID)
}

func TestSiteSettingStoreTheme(t *testing.T) {
	ctx := context.Background()
	s := NewSiteSettingStore(kvstore.NewMemory())

	patch, err := s.Theme(ctx)
	require.NoError(t, err)
	assert.Nil(t, patch)

	require.NoError(t, s.SetTheme(ctx, models.Theme{PrimaryColor: "#123456", FontSize: 18}))
	patch, err = s.Theme(ctx)
	require.NoError(t, err)
	require.NotNil(t, patch)
	require.NotNil(t, patch.PrimaryColor)
	assert.Equal(t, "#123456", *patch.PrimaryColor)

	require.NoError(t, s.ResetTheme(ctx))
	patch, err = s.Theme(ctx)
	require.NoError(t, err)
	assert.Nil(t, patch)
}

func TestSiteSettingStoreStoreInfo(t *testing.T) {
	ctx := context.Background()
	s := NewSiteSettingStore(kvstore.NewMemory())

	info, err := s.StoreInfo(ctx)
	require.NoError(t, err)
	assert.Nil(t, info)

	require.NoError(t, s.SetStoreInfo(ctx, models.StoreInfo{StoreName: "Tulasi Silks", StoreZip: "517644"}))
	info, err = s.StoreInfo(ctx)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "517644", info.StoreZip)
}

func TestCustomerStoreRecordLogin(t *testing.T) {
	ctx := context.Background()
	s := NewCustomerStore(kvstore.NewMemory())
	first := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

	c, err := s.RecordLogin(ctx, "priya", "priya@example.com", "", first)
	require.NoError(t, err)
	assert.Equal(t, models.CustomerActive, c.Status)
	assert.Equal(t, first, c.JoinDate)

	later := first.Add(48 * time.Hour)
	again, err := s.RecordLogin(ctx, "priya", "PRIYA@example.com", "", later)
	require.NoError(t, err)
	assert.Equal(t, c.ID, again.ID, "same email maps to the same customer")
	assert.Equal(t, first, again.JoinDate)
	assert.Equal(t, later, again.LastLogin)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCustomerStoreListAndToggle(t *testing.T) {
	ctx := context.Background()
	s := NewCustomerStore(kvstore.NewMemory())
	now := time.Now()

	a, err := s.RecordLogin(ctx, "Lakshmi", "lakshmi@example.com", "", now)
	require.NoError(t, err)
	_, err = s.RecordLogin(ctx, "User-3261", "", "+919848313261", now)
	require.NoError(t, err)

	got, err := s.List(ctx, "lak", "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)

	got, err = s.List(ctx, "3261", "")
	require.NoError(t, err)
	require.Len(t, got, 1)

	toggled, err := s.ToggleStatus(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CustomerBlocked, toggled.Status)

	found, err := s.FindByContact(ctx, "lakshmi@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, models.CustomerBlocked, found.Status)

	toggled, err = s.ToggleStatus(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CustomerActive, toggled.Status)

	missing, err := s.ToggleStatus(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCustomerStoreListByStatus(t *testing.T) {
	ctx := context.Background()
	s := NewCustomerStore(kvstore.NewMemory())
	now := time.Now()

	lakshmi, err := s.RecordLogin(ctx, "Lakshmi", "lakshmi@example.com", "", now)
	require.NoError(t, err)
	_, err = s.RecordLogin(ctx, "Latha", "latha@example.com", "", now)
	require.NoError(t, err)
	_, err = s.RecordLogin(ctx, "Ravi", "ravi@example.com", "", now)
	require.NoError(t, err)
	_, err = s.ToggleStatus(ctx, lakshmi.ID)
	require.NoError(t, err)

	names := func(cs []models.Customer) []string {
		out := make([]string, len(cs))
		for i, c := range cs {
			out[i] = c.Name
		}
		return out
	}

	tests := []struct {
		query  string
		status models.CustomerStatus
		want   []string
	}{
		{"", "", []string{"Lakshmi", "Latha", "Ravi"}},
		{"", models.CustomerBlocked, []string{"Lakshmi"}},
		{"", models.CustomerActive, []string{"Latha", "Ravi"}},
		{"", models.CustomerInactive, []string{}},
		{"la", models.CustomerActive, []string{"Latha"}},
		{"ravi", models.CustomerBlocked, []string{}},
	}
	for _, tt := range tests {
		got, err := s.List(ctx, tt.query, tt.status)
		require.NoError(t, err)
		assert.ElementsMatch(t, tt.want, names(got), "q=%q status=%q", tt.query, tt.status)
	}
}

func TestOrderStoreNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewOrderStore(kvstore.NewMemory())

	orders, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)

	day := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Replace(ctx, []models.Order{
		{ID: "ORD-1", Total: 100, CreatedAt: day},
		{ID: "ORD-2", Total: 200, CreatedAt: day.Add(time.Hour)},
	}))
	orders, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "ORD-2", orders[0].ID)
}
