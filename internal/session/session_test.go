package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/bitebank/ordercore/internal/availability"
	"github.com/bitebank/ordercore/internal/cart"
	"github.com/bitebank/ordercore/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedMessage struct {
	topic string
	event map[string]interface{}
}

// captureOutput records every emitted audit event for assertions.
type captureOutput struct {
	messages []capturedMessage
	closed   bool
}

func (c *captureOutput) WriteMessage(topic string, msg []byte) error {
	var event map[string]interface{}
	if err := json.Unmarshal(msg, &event); err != nil {
		return err
	}
	c.messages = append(c.messages, capturedMessage{topic: topic, event: event})
	return nil
}

func (c *captureOutput) Close() error {
	c.closed = true
	return nil
}

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

func newTestSession(t *testing.T, confirm cart.SwitchConfirmer) (*Session, *captureOutput) {
	t.Helper()
	store := cart.NewStore(newMemoryStore(), "cart", confirm)
	require.NoError(t, store.Hydrate())

	output := &captureOutput{}
	sess := NewSession(store, availability.NewEvaluator(time.UTC), output)
	// 2025-01-10 20:00 UTC is a Friday evening.
	sess.WithClock(func() time.Time {
		return time.Date(2025, 1, 10, 20, 0, 0, 0, time.UTC)
	})
	return sess, output
}

func demoRestaurant() *models.Restaurant {
	return &models.Restaurant{
		ID:            "rest-1",
		Name:          "Demo Kitchen",
		SlugName:      "demo-kitchen",
		MinOrderCents: 1000,
		Hours: []models.RestaurantHours{
			{RestaurantID: "rest-1", DayOfWeek: 5, OpenTime: "19:00:00", CloseTime: "02:00:00"},
		},
	}
}

func demoProduct() *models.Product {
	return &models.Product{
		ID:             "prod-a",
		RestaurantID:   "rest-1",
		Name:           "Margherita Pizza",
		BasePriceCents: 700,
		OptionGroups: []models.OptionGroup{
			{
				ID:   "grp-size",
				Name: "Size",
				Items: []models.OptionItem{
					{ID: "opt-regular", GroupID: "grp-size", Name: "Regular", PriceDeltaCents: 0},
					{ID: "opt-large", GroupID: "grp-size", Name: "Large", PriceDeltaCents: 250},
				},
			},
		},
	}
}

func TestAddItemEmitsAuditEvent(t *testing.T) {
	sess, output := newTestSession(t, nil)

	applied, err := sess.AddItem(demoRestaurant(), demoProduct(), []string{"opt-large"}, 2)
	require.NoError(t, err)
	require.True(t, applied)

	require.Len(t, output.messages, 1)
	msg := output.messages[0]
	assert.Equal(t, TopicCartItemAdded, msg.topic)
	assert.Equal(t, "CartItemAdded", msg.event["eventType"])
	assert.Equal(t, "rest-1", msg.event["restaurantId"])
	assert.Equal(t, "prod-a:opt-large", msg.event["itemKey"])
	assert.Equal(t, float64(950), msg.event["unitPriceCents"])
	assert.Equal(t, float64(1900), msg.event["subtotalCents"])
	assert.Equal(t, float64(2), msg.event["totalItems"])
	assert.Equal(t, float64(time.Date(2025, 1, 10, 20, 0, 0, 0, time.UTC).Unix()), msg.event["timestamp"])
}

func TestDeclinedSwitchEmitsNothing(t *testing.T) {
	sess, output := newTestSession(t, cart.DeclineSwitch)

	_, err := sess.AddItem(demoRestaurant(), demoProduct(), nil, 1)
	require.NoError(t, err)

	other := &models.Restaurant{ID: "rest-2", Name: "Other Place"}
	applied, err := sess.AddItem(other, &models.Product{ID: "p9", BasePriceCents: 500}, nil, 1)
	require.NoError(t, err)
	assert.False(t, applied)

	assert.Len(t, output.messages, 1, "the declined addition is a no-op and leaves no audit trace")
}

func TestRemoveAndQtyEventsCarryTotals(t *testing.T) {
	sess, output := newTestSession(t, nil)
	restaurant := demoRestaurant()
	product := demoProduct()

	_, err := sess.AddItem(restaurant, product, nil, 2)
	require.NoError(t, err)
	require.NoError(t, sess.SetQty("prod-a", 5))
	require.NoError(t, sess.RemoveItem("prod-a"))

	require.Len(t, output.messages, 3)

	qtyEvent := output.messages[1]
	assert.Equal(t, TopicCartQtyChanged, qtyEvent.topic)
	assert.Equal(t, float64(5), qtyEvent.event["qty"])
	assert.Equal(t, float64(3500), qtyEvent.event["subtotalCents"])

	removeEvent := output.messages[2]
	assert.Equal(t, TopicCartItemRemoved, removeEvent.topic)
	assert.Equal(t, float64(0), removeEvent.event["subtotalCents"])
	assert.Equal(t, float64(0), removeEvent.event["totalItems"])
}

func TestSetQtyBelowOneAuditsAsRemoval(t *testing.T) {
	sess, output := newTestSession(t, nil)

	_, err := sess.AddItem(demoRestaurant(), demoProduct(), nil, 2)
	require.NoError(t, err)
	require.NoError(t, sess.SetQty("prod-a", 0))

	require.Len(t, output.messages, 2)
	last := output.messages[1]
	assert.Equal(t, TopicCartItemRemoved, last.topic)
	assert.Equal(t, "CartItemRemoved", last.event["eventType"])
	assert.Equal(t, "prod-a", last.event["itemKey"])
	assert.Equal(t, float64(0), last.event["totalItems"])
}

func TestNoopMutationsEmitNothing(t *testing.T) {
	sess, output := newTestSession(t, nil)

	_, err := sess.AddItem(demoRestaurant(), demoProduct(), nil, 1)
	require.NoError(t, err)

	require.NoError(t, sess.RemoveItem("unknown-key"))
	require.NoError(t, sess.SetQty("unknown-key", 3))
	require.NoError(t, sess.SetQty("unknown-key", 0))

	assert.Len(t, output.messages, 1, "mutations that left the cart untouched leave no audit trace")
}

func TestCheckEligibilityOpenRestaurant(t *testing.T) {
	sess, output := newTestSession(t, nil)
	restaurant := demoRestaurant()

	_, err := sess.AddItem(restaurant, demoProduct(), []string{"opt-large"}, 2)
	require.NoError(t, err)

	verdict := sess.CheckEligibility(restaurant)
	assert.True(t, verdict.Allowed)

	last := output.messages[len(output.messages)-1]
	assert.Equal(t, TopicEligibilityCheck, last.topic)
	assert.Equal(t, true, last.event["allowed"])
	assert.Equal(t, true, last.event["restaurantOpen"])
	assert.Equal(t, float64(1000), last.event["minOrderCents"])
}

func TestCheckEligibilityBlockedReasons(t *testing.T) {
	sess, output := newTestSession(t, nil)
	restaurant := demoRestaurant()
	// Closed override for the session's Friday.
	restaurant.Override = &models.RestaurantOverride{Date: "2025-01-10", IsClosed: true}

	_, err := sess.AddItem(restaurant, &models.Product{ID: "p1", BasePriceCents: 500}, nil, 1)
	require.NoError(t, err)

	verdict := sess.CheckEligibility(restaurant)
	assert.False(t, verdict.Allowed)
	assert.True(t, verdict.HasReason(models.ReasonRestaurantClosed))
	assert.True(t, verdict.HasReason(models.ReasonBelowMinOrder))

	last := output.messages[len(output.messages)-1]
	assert.Equal(t, false, last.event["allowed"])

	var reasons []string
	require.NoError(t, json.Unmarshal([]byte(last.event["reasons"].(string)), &reasons))
	assert.ElementsMatch(t, []string{models.ReasonRestaurantClosed, models.ReasonBelowMinOrder}, reasons)
}

func TestCloseClosesSink(t *testing.T) {
	sess, output := newTestSession(t, nil)
	require.NoError(t, sess.Close())
	assert.True(t, output.closed)
}

func TestGetSchemaKnownTopics(t *testing.T) {
	for _, topic := range []string{
		TopicCartItemAdded, TopicCartItemRemoved, TopicCartQtyChanged,
		TopicCartCleared, TopicEligibilityCheck,
	} {
		sh, err := GetSchema(topic)
		require.NoError(t, err, topic)
		assert.NotNil(t, sh)
	}

	_, err := GetSchema("unknown_events")
	assert.Error(t, err)
}
