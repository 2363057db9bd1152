package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/phonebook/internal/domain"
	pkgkafka "github.com/utafrali/phonebook/pkg/kafka"
	"github.com/utafrali/phonebook/pkg/logger"
)

// Event types, also used as the domain.action part of the topic name.
const (
	EventAddressCreated = "address.created"
	EventAddressUpdated = "address.updated"
	EventAddressDeleted = "address.deleted"
)

// Kafka topics for address change events.
var (
	TopicAddressCreated = pkgkafka.Topic("address", "created")
	TopicAddressUpdated = pkgkafka.Topic("address", "updated")
	TopicAddressDeleted = pkgkafka.Topic("address", "deleted")
)

// AggregateTypeAddress is the aggregate type stamped on every event.
const AggregateTypeAddress = "address"

// SourcePhonebook identifies events originating from this service.
const SourcePhonebook = "phonebook"

// AddressData is the payload for address.created and address.updated.
type AddressData struct {
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
}

// AddressDeletedData is the payload for address.deleted.
type AddressDeletedData struct {
	PhoneNumber string `json:"phone_number"`
}

// Publisher announces address changes after they are committed to the store.
type Publisher interface {
	PublishAddressCreated(ctx context.Context, addr *domain.Address) error
	PublishAddressUpdated(ctx context.Context, addr *domain.Address) error
	PublishAddressDeleted(ctx context.Context, phone string) error
}

// EventWriter is satisfied by *pkgkafka.Producer.
type EventWriter interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes address events to Kafka, keyed by phone number.
type Producer struct {
	kafka  EventWriter
	logger *slog.Logger
}

var _ Publisher = (*Producer)(nil)

// NewProducer creates a new event producer for address events.
func NewProducer(kafka EventWriter, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishAddressCreated publishes an address.created event.
func (p *Producer) PublishAddressCreated(ctx context.Context, addr *domain.Address) error {
	return p.publish(ctx, TopicAddressCreated, EventAddressCreated, addr.PhoneNumber,
		AddressData{PhoneNumber: addr.PhoneNumber, Address: addr.Address})
}

// PublishAddressUpdated publishes an address.updated event.
func (p *Producer) PublishAddressUpdated(ctx context.Context, addr *domain.Address) error {
	return p.publish(ctx, TopicAddressUpdated, EventAddressUpdated, addr.PhoneNumber,
		AddressData{PhoneNumber: addr.PhoneNumber, Address: addr.Address})
}

// PublishAddressDeleted publishes an address.deleted event.
func (p *Producer) PublishAddressDeleted(ctx context.Context, phone string) error {
	return p.publish(ctx, TopicAddressDeleted, EventAddressDeleted, phone,
		AddressDeletedData{PhoneNumber: phone})
}

func (p *Producer) publish(ctx context.Context, topic, eventType, phone string, data any) error {
	event, err := pkgkafka.NewEvent(eventType, phone, AggregateTypeAddress, SourcePhonebook, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", eventType, err)
	}
	event.WithCorrelationID(logger.CorrelationIDFromContext(ctx))

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}

	p.logger.DebugContext(ctx, "published address event",
		slog.String("event_type", eventType),
		slog.String("phone_number", phone),
	)

	return nil
}

// NopPublisher discards events. It is used when Kafka is disabled.
type NopPublisher struct{}

var _ Publisher = NopPublisher{}

func (NopPublisher) PublishAddressCreated(context.Context, *domain.Address) error { return nil }
func (NopPublisher) PublishAddressUpdated(context.Context, *domain.Address) error { return nil }
func (NopPublisher) PublishAddressDeleted(context.Context, string) error          { return nil }
