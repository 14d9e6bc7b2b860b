package cart

import (
	"testing"

	"github.com/bitebank/ordercore/internal/models"
	"github.com/bitebank/ordercore/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is an in-process SnapshotStore for tests.
type memoryStore struct {
	data map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string][]byte)}
}

func (m *memoryStore) Read(key string) ([]byte, bool, error) {
	data, ok := m.data[key]
	return data, ok, nil
}

func (m *memoryStore) Write(key string, data []byte) error {
	m.data[key] = data
	return nil
}

func (m *memoryStore) Delete(key string) error {
	delete(m.data, key)
	return nil
}

var _ storage.SnapshotStore = (*memoryStore)(nil)

func testRestaurant(id string) *models.Restaurant {
	return &models.Restaurant{ID: id, SlugName: id + "-slug", Name: "Restaurant " + id}
}

func testProduct(id string, priceCents int64) *models.Product {
	return &models.Product{ID: id, RestaurantID: "rest-1", Name: "Product " + id, BasePriceCents: priceCents}
}

func hydratedStore(t *testing.T, snapshot storage.SnapshotStore, confirm SwitchConfirmer) *Store {
	t.Helper()
	store := NewStore(snapshot, "cart", confirm)
	require.NoError(t, store.Hydrate())
	return store
}

func TestAddItemRejectsNonPositiveQty(t *testing.T) {
	store := hydratedStore(t, newMemoryStore(), nil)

	for _, qty := range []int{0, -1} {
		applied, err := store.AddItem(testRestaurant("rest-1"), testProduct("p1", 700), nil, qty)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
		assert.False(t, applied)
	}
	assert.Nil(t, store.State())
}

func TestMutationsRejectedBeforeHydration(t *testing.T) {
	store := NewStore(newMemoryStore(), "cart", nil)

	_, err := store.AddItem(testRestaurant("rest-1"), testProduct("p1", 700), nil, 1)
	assert.ErrorIs(t, err, ErrNotHydrated)
	_, err = store.RemoveItem("x")
	assert.ErrorIs(t, err, ErrNotHydrated)
	_, err = store.SetQty("x", 2)
	assert.ErrorIs(t, err, ErrNotHydrated)
	assert.ErrorIs(t, store.Clear(), ErrNotHydrated)
}

func TestAddItemMergesAdditively(t *testing.T) {
	store := hydratedStore(t, newMemoryStore(), nil)
	restaurant := testRestaurant("rest-1")
	product := testProduct("p1", 700)

	applied, err := store.AddItem(restaurant, product, nil, 1)
	require.NoError(t, err)
	require.True(t, applied)

	applied, err = store.AddItem(restaurant, product, nil, 2)
	require.NoError(t, err)
	require.True(t, applied)

	state := store.State()
	require.NotNil(t, state)
	require.Len(t, state.Items, 1)
	assert.Equal(t, 3, state.Items[0].Qty)
	assert.Equal(t, int64(2100), state.Items[0].ItemTotalCents)
}

func TestAddItemMergeIgnoresOptionOrder(t *testing.T) {
	store := hydratedStore(t, newMemoryStore(), nil)
	restaurant := testRestaurant("rest-1")
	product := testProduct("p1", 700)

	optionsA := []models.CartOption{
		{ItemID: "opt-cheese", PriceDeltaCents: 120},
		{ItemID: "opt-large", PriceDeltaCents: 250},
	}
	optionsB := []models.CartOption{
		{ItemID: "opt-large", PriceDeltaCents: 250},
		{ItemID: "opt-cheese", PriceDeltaCents: 120},
	}

	_, err := store.AddItem(restaurant, product, optionsA, 1)
	require.NoError(t, err)
	_, err = store.AddItem(restaurant, product, optionsB, 1)
	require.NoError(t, err)

	state := store.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, 2, state.Items[0].Qty)
	assert.Equal(t, int64(2140), state.Items[0].ItemTotalCents)
}

func TestAddItemDifferentOptionsNewLine(t *testing.T) {
	store := hydratedStore(t, newMemoryStore(), nil)
	restaurant := testRestaurant("rest-1")
	product := testProduct("p1", 700)

	_, err := store.AddItem(restaurant, product, nil, 1)
	require.NoError(t, err)
	_, err = store.AddItem(restaurant, product, []models.CartOption{{ItemID: "opt-large", PriceDeltaCents: 250}}, 1)
	require.NoError(t, err)

	state := store.State()
	require.Len(t, state.Items, 2)
}

func TestScenarioRepeatAddTotals(t *testing.T) {
	store := hydratedStore(t, newMemoryStore(), nil)
	restaurant := testRestaurant("rest-1")
	product := testProduct("prod-a", 700)

	_, err := store.AddItem(restaurant, product, nil, 1)
	require.NoError(t, err)
	_, err = store.AddItem(restaurant, product, nil, 1)
	require.NoError(t, err)

	state := store.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, 2, state.Items[0].Qty)
	assert.Equal(t, int64(1400), state.Items[0].ItemTotalCents)

	totals := store.Totals()
	assert.Equal(t, int64(1400), totals.SubtotalCents)
	assert.Equal(t, 2, totals.TotalItems)
}

func TestTotalsInvariantAcrossMutations(t *testing.T) {
	store := hydratedStore(t, newMemoryStore(), nil)
	restaurant := testRestaurant("rest-1")

	_, err := store.AddItem(restaurant, testProduct("p1", 700), nil, 2)
	require.NoError(t, err)
	_, err = store.AddItem(restaurant, testProduct("p2", 350), nil, 1)
	require.NoError(t, err)
	changed, err := store.SetQty("p2", 4)
	require.NoError(t, err)
	assert.True(t, changed)
	removed, err := store.RemoveItem("p1")
	require.NoError(t, err)
	assert.True(t, removed)

	state := store.State()
	require.NotNil(t, state)
	var subtotal int64
	var count int
	for _, item := range state.Items {
		subtotal += item.ItemTotalCents
		count += item.Qty
	}
	totals := store.Totals()
	assert.Equal(t, subtotal, totals.SubtotalCents)
	assert.Equal(t, count, totals.TotalItems)
	assert.Equal(t, int64(1400), totals.SubtotalCents)
	assert.Equal(t, 4, totals.TotalItems)
}

func TestRemoveLastItemCollapsesCart(t *testing.T) {
	snapshot := newMemoryStore()
	store := hydratedStore(t, snapshot, nil)

	_, err := store.AddItem(testRestaurant("rest-1"), testProduct("p1", 700), nil, 1)
	require.NoError(t, err)
	removed, err := store.RemoveItem("p1")
	require.NoError(t, err)
	assert.True(t, removed)

	assert.Nil(t, store.State())
	totals := store.Totals()
	assert.Equal(t, int64(0), totals.SubtotalCents)
	assert.Equal(t, 0, totals.TotalItems)

	_, found := snapshot.data["cart"]
	assert.False(t, found, "persisted snapshot key is deleted, not kept as an empty cart")
}

func TestSetQtyBelowOneRemoves(t *testing.T) {
	store := hydratedStore(t, newMemoryStore(), nil)

	_, err := store.AddItem(testRestaurant("rest-1"), testProduct("p1", 700), nil, 2)
	require.NoError(t, err)
	changed, err := store.SetQty("p1", 0)
	require.NoError(t, err)
	assert.True(t, changed, "removal via zero quantity counts as a change")

	assert.Nil(t, store.State())
}

func TestSetQtyUnknownKeyNoop(t *testing.T) {
	store := hydratedStore(t, newMemoryStore(), nil)

	_, err := store.AddItem(testRestaurant("rest-1"), testProduct("p1", 700), nil, 1)
	require.NoError(t, err)
	changed, err := store.SetQty("missing", 5)
	require.NoError(t, err)
	assert.False(t, changed)

	totals := store.Totals()
	assert.Equal(t, 1, totals.TotalItems)
}

func TestRemoveItemUnknownKeyNoop(t *testing.T) {
	store := hydratedStore(t, newMemoryStore(), nil)

	_, err := store.AddItem(testRestaurant("rest-1"), testProduct("p1", 700), nil, 1)
	require.NoError(t, err)
	removed, err := store.RemoveItem("missing")
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = store.RemoveItem("p1")
	require.NoError(t, err)
	assert.True(t, removed)

	// Cart is gone now, so a further removal reports nothing happened.
	removed, err = store.RemoveItem("p1")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRestaurantSwitchDeclinedIsNoop(t *testing.T) {
	store := hydratedStore(t, newMemoryStore(), DeclineSwitch)

	_, err := store.AddItem(testRestaurant("rest-1"), testProduct("p1", 700), nil, 1)
	require.NoError(t, err)

	applied, err := store.AddItem(testRestaurant("rest-2"), testProduct("p9", 500), nil, 1)
	require.NoError(t, err)
	assert.False(t, applied)

	state := store.State()
	require.NotNil(t, state)
	assert.Equal(t, "rest-1", state.RestaurantID)
	require.Len(t, state.Items, 1)
	assert.Equal(t, "p1", state.Items[0].ProductID)
}

func TestRestaurantSwitchConfirmedDiscardsCart(t *testing.T) {
	confirmed := 0
	confirm := func(current *models.CartState, next *models.Restaurant) bool {
		confirmed++
		return true
	}
	store := hydratedStore(t, newMemoryStore(), confirm)

	_, err := store.AddItem(testRestaurant("rest-1"), testProduct("p1", 700), nil, 1)
	require.NoError(t, err)

	applied, err := store.AddItem(testRestaurant("rest-2"), testProduct("p9", 500), nil, 1)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 1, confirmed)

	state := store.State()
	require.NotNil(t, state)
	assert.Equal(t, "rest-2", state.RestaurantID)
	require.Len(t, state.Items, 1)
	assert.Equal(t, "p9", state.Items[0].ProductID)
}

func TestClearDestroysCart(t *testing.T) {
	snapshot := newMemoryStore()
	store := hydratedStore(t, snapshot, nil)

	_, err := store.AddItem(testRestaurant("rest-1"), testProduct("p1", 700), nil, 1)
	require.NoError(t, err)
	require.NoError(t, store.Clear())

	assert.Nil(t, store.State())
	_, found := snapshot.data["cart"]
	assert.False(t, found)
}

func TestHydrationRestoresPersistedCart(t *testing.T) {
	snapshot := newMemoryStore()
	first := hydratedStore(t, snapshot, nil)

	_, err := first.AddItem(testRestaurant("rest-1"), testProduct("p1", 700), nil, 2)
	require.NoError(t, err)

	second := hydratedStore(t, snapshot, nil)
	state := second.State()
	require.NotNil(t, state)
	assert.Equal(t, "rest-1", state.RestaurantID)
	totals := second.Totals()
	assert.Equal(t, int64(1400), totals.SubtotalCents)
	assert.Equal(t, 2, totals.TotalItems)
}

func TestHydrationDiscardsCorruptSnapshot(t *testing.T) {
	snapshot := newMemoryStore()
	snapshot.data["cart"] = []byte("{not json")

	store := hydratedStore(t, snapshot, nil)
	assert.Nil(t, store.State())

	_, found := snapshot.data["cart"]
	assert.False(t, found, "corrupt snapshot is deleted")
}

func TestHydrationDiscardsInvariantViolatingSnapshot(t *testing.T) {
	snapshot := newMemoryStore()
	// Parseable JSON whose quantities break the cart invariants.
	snapshot.data["cart"] = []byte(`{"restaurant_id":"rest-1","items":[{"key":"p1","product_id":"p1","base_price_cents":700,"qty":0,"item_total_cents":0}]}`)

	store := hydratedStore(t, snapshot, nil)
	assert.Nil(t, store.State())
}

func TestHydrateIsIdempotent(t *testing.T) {
	snapshot := newMemoryStore()
	store := hydratedStore(t, snapshot, nil)

	_, err := store.AddItem(testRestaurant("rest-1"), testProduct("p1", 700), nil, 1)
	require.NoError(t, err)

	// A second Hydrate must not clobber the live cart.
	require.NoError(t, store.Hydrate())
	require.NotNil(t, store.State())
}

func TestStateReturnsCopy(t *testing.T) {
	store := hydratedStore(t, newMemoryStore(), nil)

	_, err := store.AddItem(testRestaurant("rest-1"), testProduct("p1", 700),
		[]models.CartOption{{ItemID: "opt-large", PriceDeltaCents: 250}}, 1)
	require.NoError(t, err)

	state := store.State()
	state.Items[0].Qty = 99
	state.Items[0].Options[0].PriceDeltaCents = 0

	fresh := store.State()
	assert.Equal(t, 1, fresh.Items[0].Qty)
	assert.Equal(t, int64(250), fresh.Items[0].Options[0].PriceDeltaCents)
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	fileStore, err := storage.NewFileStore(dir)
	require.NoError(t, err)

	store := hydratedStore(t, fileStore, nil)
	_, err = store.AddItem(testRestaurant("rest-1"), testProduct("p1", 700), nil, 3)
	require.NoError(t, err)

	reloaded := hydratedStore(t, fileStore, nil)
	totals := reloaded.Totals()
	assert.Equal(t, int64(2100), totals.SubtotalCents)
	assert.Equal(t, 3, totals.TotalItems)
}
