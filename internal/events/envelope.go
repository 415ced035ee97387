package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventEnvelope represents the shared envelope for v1 contracts.
type EventEnvelope struct {
	EventName     string    `json:"eventName"`
	EventVersion  int       `json:"eventVersion"`
	EventID       string    `json:"eventId"`
	CorrelationID string    `json:"correlationId,omitempty"`
	CausationID   string    `json:"causationId,omitempty"`
	Producer      string    `json:"producer"`
	PartitionKey  string    `json:"partitionKey"`
	Sequence      int64     `json:"sequence,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
	Schema        string    `json:"schema"`
}

func (e EventEnvelope) Validate(expectedName string, expectedVersion int) error {
	if e.EventName != expectedName {
		return fmt.Errorf("unexpected eventName %q", e.EventName)
	}
	if e.EventVersion != expectedVersion {
		return fmt.Errorf("unexpected eventVersion %d", e.EventVersion)
	}
	if e.PartitionKey == "" {
		return fmt.Errorf("missing partitionKey")
	}
	if e.EventID == "" {
		return fmt.Errorf("missing eventId")
	}
	return nil
}

type EventMeta struct {
	CorrelationID string
	CausationID   string
}

const (
	EventTypePurchaseRecorded = "PurchaseRecorded"
	purchaseRecordedSchema    = "storefront.purchase-recorded.v1"
)

// PurchaseRecordedPayload carries the purchase record exactly as it was
// appended to the history.
type PurchaseRecordedPayload struct {
	Position   int             `json:"position"`
	Record     json.RawMessage `json:"record"`
	RecordedAt time.Time       `json:"recordedAt"`
}

type PurchaseRecordedEvent struct {
	EventEnvelope
	Payload PurchaseRecordedPayload `json:"payload"`
}

// LegacyPurchaseRecorded is the flat shape published when enveloping is off.
type LegacyPurchaseRecorded struct {
	EventType string          `json:"eventType"`
	Position  int             `json:"position"`
	Record    json.RawMessage `json:"record"`
	Timestamp time.Time       `json:"timestamp"`
}
