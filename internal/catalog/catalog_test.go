package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tulasisilks/internal/kvstore"
	"tulasisilks/internal/models"
	"tulasisilks/internal/store"
)

// countingStore records saves and can be told to fail.
type countingStore struct {
	mu    sync.Mutex
	saved [][]models.Product
	fail  error
}

func (s *countingStore) Load(context.Context) ([]models.Product, error) {
	return []models.Product{}, nil
}

func (s *countingStore) Save(_ context.Context, p []models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.saved = append(s.saved, p)
	return nil
}

func (s *countingStore) saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

// fixedClock returns the same instant on every call.
func fixedClock() func() time.Time {
	t := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func draft(name, category string, slots ...models.SlotName) models.ProductDraft {
	return models.ProductDraft{
		Name:     name,
		Category: category,
		Price:    1000,
		InStock:  true,
		Slots:    models.NewSlots(slots...),
	}
}

var productCmp = cmpopts.EquateEmpty()

func TestAddAssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	m := New(&countingStore{})

	var prev int
	for i := 0; i < 5; i++ {
		p, err := m.Add(ctx, draft("Saree", "Silk"))
		require.NoError(t, err)
		assert.Greater(t, p.ID, prev)
		prev = p.ID
	}
	assert.Equal(t, 5, prev)
}

func TestAddAfterRemoveUsesMaxPlusOne(t *testing.T) {
	ctx := context.Background()
	m := New(&countingStore{})

	for i := 0; i < 3; i++ {
		_, err := m.Add(ctx, draft("Saree", "Silk"))
		require.NoError(t, err)
	}
	_, err := m.Remove(ctx, 2)
	require.NoError(t, err)

	p, err := m.Add(ctx, draft("Another", "Cotton"))
	require.NoError(t, err)
	assert.Equal(t, 4, p.ID)

	_, err = m.Remove(ctx, 4)
	require.NoError(t, err)
	_, err = m.Remove(ctx, 3)
	require.NoError(t, err)
	p, err = m.Add(ctx, draft("Again", "Cotton"))
	require.NoError(t, err)
	assert.Equal(t, 2, p.ID)
}

func TestAddAllowsDuplicateNames(t *testing.T) {
	ctx := context.Background()
	m := New(&countingStore{})
	a, err := m.Add(ctx, draft("Pochampally", "Ikat"))
	require.NoError(t, err)
	b, err := m.Add(ctx, draft("Pochampally", "Ikat"))
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestAddStampsTimestamps(t *testing.T) {
	clock := fixedClock()
	m := New(&countingStore{}, WithClock(clock))
	p, err := m.Add(context.Background(), draft("Saree", "Silk"))
	require.NoError(t, err)
	assert.Equal(t, clock(), p.CreatedAt)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
}

func TestEmptyPatchOnlyAdvancesUpdatedAt(t *testing.T) {
	ctx := context.Background()
	m := New(&countingStore{}, WithClock(fixedClock()))

	added, err := m.Add(ctx, draft("Venkatagiri", "Cotton", models.SlotFeatured))
	require.NoError(t, err)

	updated, err := m.Update(ctx, added.ID, models.ProductPatch{})
	require.NoError(t, err)

	assert.True(t, updated.UpdatedAt.After(added.UpdatedAt), "updatedAt must advance even on a frozen clock")
	if diff := cmp.Diff(added, updated, productCmp, cmpopts.IgnoreFields(models.Product{}, "UpdatedAt")); diff != "" {
		t.Errorf("empty patch changed fields (-before +after):\n%s", diff)
	}
}

func TestUpdateMergesPatch(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	m := New(&countingStore{}, WithClock(func() time.Time { return now }))

	added, err := m.Add(ctx, draft("Old name", "Silk", models.SlotHero))
	require.NoError(t, err)

	now = now.Add(time.Hour)
	name := "New name"
	patch := models.ProductPatch{Name: &name}
	patch.SetSlot(models.SlotHero, false)
	patch.SetSlot(models.SlotDeals, true)

	got, err := m.Update(ctx, added.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, "New name", got.Name)
	assert.Equal(t, "Silk", got.Category)
	assert.Equal(t, added.CreatedAt, got.CreatedAt)
	assert.Equal(t, now, got.UpdatedAt)
	assert.False(t, got.Slots.Has(models.SlotHero))
	assert.True(t, got.Slots.Has(models.SlotDeals))

	stored, ok := m.Get(added.ID)
	require.True(t, ok)
	assert.Equal(t, "New name", stored.Name)
}

func TestUpdateMissingIDLeavesListUnchanged(t *testing.T) {
	ctx := context.Background()
	st := &countingStore{}
	m := New(st)

	_, err := m.Add(ctx, draft("A", "Silk"))
	require.NoError(t, err)
	_, err = m.Add(ctx, draft("B", "Cotton"))
	require.NoError(t, err)
	before := m.List()
	saves := st.saves()

	name := "ghost"
	_, err = m.Update(ctx, 99, models.ProductPatch{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)

	if diff := cmp.Diff(before, m.List(), productCmp); diff != "" {
		t.Errorf("list changed (-before +after):\n%s", diff)
	}
	assert.Equal(t, saves, st.saves(), "nothing persisted")
}

func TestRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := &countingStore{}
	m := New(st)

	a, err := m.Add(ctx, draft("A", "Silk"))
	require.NoError(t, err)
	_, err = m.Add(ctx, draft("B", "Silk"))
	require.NoError(t, err)

	removed, err := m.Remove(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	after := m.List()
	saves := st.saves()

	removed, err = m.Remove(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, saves, st.saves())
	if diff := cmp.Diff(after, m.List(), productCmp); diff != "" {
		t.Errorf("second remove changed list:\n%s", diff)
	}
}

func TestPersistFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	st := &countingStore{}
	m := New(st)

	a, err := m.Add(ctx, draft("A", "Silk"))
	require.NoError(t, err)
	before := m.List()

	boom := errors.New("quota exceeded")
	st.fail = boom

	_, err = m.Add(ctx, draft("B", "Silk"))
	assert.ErrorIs(t, err, boom)

	name := "renamed"
	_, err = m.Update(ctx, a.ID, models.ProductPatch{Name: &name})
	assert.ErrorIs(t, err, boom)

	_, err = m.Remove(ctx, a.ID)
	assert.ErrorIs(t, err, boom)

	if diff := cmp.Diff(before, m.List(), productCmp); diff != "" {
		t.Errorf("failed mutations leaked into the list:\n%s", diff)
	}
}

func TestEverySuccessfulMutationPersistsWholeList(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	ps := store.NewProductStore(kv)
	m := New(ps)

	a, err := m.Add(ctx, draft("A", "Silk", models.SlotHero))
	require.NoError(t, err)
	_, err = m.Add(ctx, draft("B", "Cotton"))
	require.NoError(t, err)
	price := 2500.0
	_, err = m.Update(ctx, a.ID, models.ProductPatch{Price: &price})
	require.NoError(t, err)

	persisted, err := ps.Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(m.List(), persisted, productCmp); diff != "" {
		t.Errorf("persisted list differs (-memory +store):\n%s", diff)
	}

	reloaded := New(ps)
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, 2, reloaded.Len())
	p, ok := reloaded.Get(a.ID)
	require.True(t, ok)
	assert.Equal(t, 2500.0, p.Price)
	assert.True(t, p.Slots.Has(models.SlotHero))
}

func TestReturnedProductsDoNotAliasState(t *testing.T) {
	ctx := context.Background()
	m := New(&countingStore{})
	p, err := m.Add(ctx, draft("A", "Silk", models.SlotHero))
	require.NoError(t, err)

	p.Slots[models.SlotBlog] = true
	list := m.List()
	list[0].Slots[models.SlotDeals] = true

	got, _ := m.Get(p.ID)
	assert.False(t, got.Slots.Has(models.SlotBlog))
	assert.False(t, got.Slots.Has(models.SlotDeals))
}

func TestConcurrentAddsGetDistinctIDs(t *testing.T) {
	ctx := context.Background()
	m := New(store.NewProductStore(kvstore.NewMemory()))

	const n = 20
	ids := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := m.Add(ctx, draft("Saree", "Silk"))
			if err == nil {
				ids <- p.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestObserverSeesMutations(t *testing.T) {
	ctx := context.Background()
	var ops []string
	m := New(&countingStore{}, WithObserver(func(op string, err error) {
		if err == nil {
			ops = append(ops, op)
		}
	}))

	p, err := m.Add(ctx, draft("A", "Silk"))
	require.NoError(t, err)
	_, err = m.Update(ctx, p.ID, models.ProductPatch{})
	require.NoError(t, err)
	_, err = m.Remove(ctx, p.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"add", "update", "remove"}, ops)
}

func TestReplaceSwapsWholeList(t *testing.T) {
	ctx := context.Background()
	st := &countingStore{}
	m := New(st)
	_, err := m.Add(ctx, draft("A", "Silk"))
	require.NoError(t, err)

	backup := []models.Product{
		{ID: 7, Name: "Paithani", Category: "Silk", Slots: models.NewSlots(models.SlotHero)},
		{ID: 3, Name: "Ikat", Category: "Cotton"},
	}
	require.NoError(t, m.Replace(ctx, backup))

	if diff := cmp.Diff(backup, m.List(), productCmp); diff != "" {
		t.Errorf("list after replace (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2, st.saves())

	// New ids continue past the restored maximum.
	p, err := m.Add(ctx, draft("B", "Silk"))
	require.NoError(t, err)
	assert.Equal(t, 8, p.ID)

	backup[0].Name = "mutated"
	got, _ := m.Get(7)
	assert.Equal(t, "Paithani", got.Name)
}

func TestReplaceRejectsBadIDs(t *testing.T) {
	ctx := context.Background()
	st := &countingStore{}
	m := New(st)
	_, err := m.Add(ctx, draft("A", "Silk"))
	require.NoError(t, err)
	before := m.List()

	tests := map[string][]models.Product{
		"zero id":      {{ID: 0, Name: "X"}},
		"negative id":  {{ID: -2, Name: "X"}},
		"duplicate id": {{ID: 4, Name: "X"}, {ID: 4, Name: "Y"}},
	}
	for name, products := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, m.Replace(ctx, products))
			if diff := cmp.Diff(before, m.List(), productCmp); diff != "" {
				t.Errorf("rejected replace changed the list:\n%s", diff)
			}
		})
	}
	assert.Equal(t, 1, st.saves())
}
