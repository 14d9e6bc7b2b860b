package session

import (
	"fmt"
	"log"

	"github.com/xitongsys/parquet-go/schema"
)

const (
	TopicCartItemAdded    = "cart_item_added_events"
	TopicCartItemRemoved  = "cart_item_removed_events"
	TopicCartQtyChanged   = "cart_qty_changed_events"
	TopicCartCleared      = "cart_cleared_events"
	TopicEligibilityCheck = "eligibility_check_events"
)

// BaseEvent is the common structure for all session events
type BaseEvent struct {
	Timestamp    int64  `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	EventType    string `json:"eventType" parquet:"name=eventType,type=BYTE_ARRAY,convertedtype=UTF8"`
	RestaurantID string `json:"restaurantId,omitempty" parquet:"name=restaurantId,type=BYTE_ARRAY,convertedtype=UTF8"`
}

// CartItemAddedEvent records an item landing in (or merging into) the cart
type CartItemAddedEvent struct {
	BaseEvent
	ItemKey        string `json:"itemKey" parquet:"name=itemKey,type=BYTE_ARRAY,convertedtype=UTF8"`
	ProductID      string `json:"productId" parquet:"name=productId,type=BYTE_ARRAY,convertedtype=UTF8"`
	Qty            int64  `json:"qty" parquet:"name=qty,type=INT64"`
	UnitPriceCents int64  `json:"unitPriceCents" parquet:"name=unitPriceCents,type=INT64"`
	SubtotalCents  int64  `json:"subtotalCents" parquet:"name=subtotalCents,type=INT64"`
	TotalItems     int64  `json:"totalItems" parquet:"name=totalItems,type=INT64"`
}

// CartItemRemovedEvent records a line leaving the cart
type CartItemRemovedEvent struct {
	BaseEvent
	ItemKey       string `json:"itemKey" parquet:"name=itemKey,type=BYTE_ARRAY,convertedtype=UTF8"`
	SubtotalCents int64  `json:"subtotalCents" parquet:"name=subtotalCents,type=INT64"`
	TotalItems    int64  `json:"totalItems" parquet:"name=totalItems,type=INT64"`
}

// CartQtyChangedEvent records a quantity replacement on an existing line
type CartQtyChangedEvent struct {
	BaseEvent
	ItemKey       string `json:"itemKey" parquet:"name=itemKey,type=BYTE_ARRAY,convertedtype=UTF8"`
	Qty           int64  `json:"qty" parquet:"name=qty,type=INT64"`
	SubtotalCents int64  `json:"subtotalCents" parquet:"name=subtotalCents,type=INT64"`
	TotalItems    int64  `json:"totalItems" parquet:"name=totalItems,type=INT64"`
}

// CartClearedEvent records the cart being destroyed
type CartClearedEvent struct {
	BaseEvent
}

// EligibilityCheckEvent records a checkout-permission decision
type EligibilityCheckEvent struct {
	BaseEvent
	Allowed        bool   `json:"allowed" parquet:"name=allowed,type=BOOLEAN"`
	Reasons        string `json:"reasons" parquet:"name=reasons,type=BYTE_ARRAY,convertedtype=UTF8"`
	RestaurantOpen bool   `json:"restaurantOpen" parquet:"name=restaurantOpen,type=BOOLEAN"`
	SubtotalCents  int64  `json:"subtotalCents" parquet:"name=subtotalCents,type=INT64"`
	TotalItems     int64  `json:"totalItems" parquet:"name=totalItems,type=INT64"`
	MinOrderCents  int64  `json:"minOrderCents" parquet:"name=minOrderCents,type=INT64"`
}

// Event is implemented by every session event via the embedded BaseEvent.
type Event interface {
	EventTimestamp() int64
}

func (b BaseEvent) EventTimestamp() int64 { return b.Timestamp }

// NewEvent returns a fresh typed event for the topic, for decoding a
// serialized payload back into the shape the parquet schema was built from.
func NewEvent(topic string) (Event, error) {
	switch topic {
	case TopicCartItemAdded:
		return new(CartItemAddedEvent), nil
	case TopicCartItemRemoved:
		return new(CartItemRemovedEvent), nil
	case TopicCartQtyChanged:
		return new(CartQtyChangedEvent), nil
	case TopicCartCleared:
		return new(CartClearedEvent), nil
	case TopicEligibilityCheck:
		return new(EligibilityCheckEvent), nil
	default:
		return nil, fmt.Errorf("unknown event type: %s", topic)
	}
}

func GetSchema(eventType string) (*schema.SchemaHandler, error) {
	var sh *schema.SchemaHandler
	var err error

	switch eventType {
	case TopicCartItemAdded:
		sh, err = schema.NewSchemaHandlerFromStruct(new(CartItemAddedEvent))
	case TopicCartItemRemoved:
		sh, err = schema.NewSchemaHandlerFromStruct(new(CartItemRemovedEvent))
	case TopicCartQtyChanged:
		sh, err = schema.NewSchemaHandlerFromStruct(new(CartQtyChangedEvent))
	case TopicCartCleared:
		sh, err = schema.NewSchemaHandlerFromStruct(new(CartClearedEvent))
	case TopicEligibilityCheck:
		sh, err = schema.NewSchemaHandlerFromStruct(new(EligibilityCheckEvent))
	default:
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	if err != nil {
		log.Printf("Error creating schema for %s: %v", eventType, err)
		return nil, fmt.Errorf("error creating schema for %s: %w", eventType, err)
	}
	return sh, nil
}
