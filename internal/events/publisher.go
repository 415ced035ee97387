package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/sequence"
)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type Publisher struct {
	ch                 channel
	seq                sequence.Sequencer
	publishEnveloped   bool
	producerIdentifier string
	now                func() time.Time
}

type PublisherOptions struct {
	PublishEnveloped bool
	Producer         string
}

func NewPublisher(conn *amqp.Connection, seq sequence.Sequencer, opts PublisherOptions) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareEventsExchange(ch); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}

	return newPublisher(ch, seq, opts), nil
}

func newPublisher(ch channel, seq sequence.Sequencer, opts PublisherOptions) *Publisher {
	producer := opts.Producer
	if producer == "" {
		producer = storefrontServiceName
	}
	return &Publisher{
		ch:                 ch,
		seq:                seq,
		publishEnveloped:   opts.PublishEnveloped,
		producerIdentifier: producer,
		now:                func() time.Time { return time.Now().UTC() },
	}
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

// PublishPurchaseRecorded announces that record was appended to the purchase
// history at the given zero-based position.
func (p *Publisher) PublishPurchaseRecorded(ctx context.Context, meta EventMeta, position int, record json.RawMessage) error {
	timestamp := p.now()

	if !p.publishEnveloped {
		body, err := json.Marshal(LegacyPurchaseRecorded{
			EventType: EventTypePurchaseRecorded,
			Position:  position,
			Record:    record,
			Timestamp: timestamp,
		})
		if err != nil {
			return fmt.Errorf("marshal PurchaseRecorded: %w", err)
		}
		return p.publishJSON(ctx, PurchaseRecordedRoutingKey, body)
	}

	seq, err := p.seq.NextSequence(ctx, purchaseHistoryPartitionKey)
	if err != nil {
		return fmt.Errorf("reserve sequence: %w", err)
	}

	if meta.CorrelationID == "" {
		meta.CorrelationID = uuid.NewString()
	}
	env := newPurchaseRecordedEvent(meta, seq, p.producerIdentifier, PurchaseRecordedPayload{
		Position:   position,
		Record:     record,
		RecordedAt: timestamp,
	}, timestamp)
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal PurchaseRecorded envelope: %w", err)
	}

	return p.publishJSON(ctx, PurchaseRecordedRoutingKey, body)
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

func newPurchaseRecordedEvent(meta EventMeta, seq int64, producer string, payload PurchaseRecordedPayload, occurredAt time.Time) PurchaseRecordedEvent {
	return PurchaseRecordedEvent{
		EventEnvelope: EventEnvelope{
			EventName:     EventTypePurchaseRecorded,
			EventVersion:  1,
			EventID:       uuid.NewString(),
			CorrelationID: meta.CorrelationID,
			CausationID:   meta.CausationID,
			Producer:      producer,
			PartitionKey:  purchaseHistoryPartitionKey,
			Sequence:      seq,
			OccurredAt:    occurredAt,
			Schema:        purchaseRecordedSchema,
		},
		Payload: payload,
	}
}
