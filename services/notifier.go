// services/notifier.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"restopos-backend/config"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Event names published on the pos_events exchange. Consumers treat
// them as re-fetch triggers, not as authoritative state.
const (
	EventOrderCreated  = "order:created"
	EventKitchenItems  = "kitchen:new-items"
	EventBarItems      = "bar:new-items"
	EventItemServed    = "order:item-served"
	EventStatusChanged = "order:status-changed"
	EventOrderPaid     = "order:paid"
	EventOrderCancelled = "order:cancelled"
	EventLowStock      = "inventory:low-stock"
)

// Notifier fans out state changes to role screens. Delivery is
// fire-and-forget, at most once; receivers reconcile by re-fetching.
type Notifier interface {
	Publish(businessID uuid.UUID, event string, payload interface{})
}

// RabbitNotifier publishes to the pos_events topic exchange with
// routing key "<businessId>.<event>".
type RabbitNotifier struct {
	mq  *config.RabbitMQ
	log *zap.Logger
}

func NewRabbitNotifier(mq *config.RabbitMQ, log *zap.Logger) *RabbitNotifier {
	return &RabbitNotifier{mq: mq, log: log}
}

func (n *RabbitNotifier) Publish(businessID uuid.UUID, event string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		n.log.Error("event payload not serializable", zap.String("event", event), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = n.mq.Channel.PublishWithContext(ctx,
		config.EventsExchange,
		fmt.Sprintf("%s.%s", businessID, event), // routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Transient,
			ContentType:  "application/json",
			Timestamp:    time.Now(),
			Body:         body,
		})
	if err != nil {
		// Lost events self-heal: screens re-fetch on reconnect.
		n.log.Warn("event publish failed", zap.String("event", event), zap.Error(err))
	}
}

// NopNotifier drops every event; used when no broker is configured.
type NopNotifier struct{}

func (NopNotifier) Publish(uuid.UUID, string, interface{}) {}

// RecordedEvent is one captured Publish call.
type RecordedEvent struct {
	BusinessID uuid.UUID
	Event      string
	Payload    []byte
}

// RecorderNotifier captures events in memory for tests.
type RecorderNotifier struct {
	Events []RecordedEvent
}

func (r *RecorderNotifier) Publish(businessID uuid.UUID, event string, payload interface{}) {
	body, _ := json.Marshal(payload)
	r.Events = append(r.Events, RecordedEvent{BusinessID: businessID, Event: event, Payload: body})
}

// Named returns the captured events matching the given name.
func (r *RecorderNotifier) Named(event string) []RecordedEvent {
	var out []RecordedEvent
	for _, e := range r.Events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}
