package event

import (
	"context"
	"fmt"

	"github.com/hospos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// OutboxPublisher publishes domain events to the outbox within a transaction
type OutboxPublisher struct {
	serializer *EventSerializer
	db         *gorm.DB
}

// NewOutboxPublisher creates a new outbox publisher
func NewOutboxPublisher(serializer *EventSerializer) *OutboxPublisher {
	return &OutboxPublisher{
		serializer: serializer,
	}
}

// NewOutboxPublisherWithDB creates an outbox publisher with its own database
// handle. It can then serve as a shared.EventPublisher: events are written to
// the outbox table and the outbox processor relays them to the event bus.
func NewOutboxPublisherWithDB(db *gorm.DB, serializer *EventSerializer) *OutboxPublisher {
	return &OutboxPublisher{
		serializer: serializer,
		db:         db,
	}
}

// Publish implements shared.EventPublisher by writing events to the outbox
// table. Requires a publisher created with NewOutboxPublisherWithDB.
func (p *OutboxPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if p.db == nil {
		return fmt.Errorf("outbox publisher was created without a database handle")
	}
	return p.PublishWithTx(ctx, p.db, events...)
}

// PublishWithTx publishes events to the outbox within the provided transaction
// This ensures events are persisted atomically with the aggregate changes
func (p *OutboxPublisher) PublishWithTx(ctx context.Context, tx *gorm.DB, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, event := range events {
		payload, err := p.serializer.Serialize(event)
		if err != nil {
			return err
		}

		entry := shared.NewOutboxEntry(event.TenantID(), event, payload)
		entries = append(entries, entry)
	}

	repo := NewGormOutboxRepository(tx)
	return repo.Save(ctx, entries...)
}

// SaveEvents implements the shared.OutboxEventSaver interface
// It saves domain events to the outbox table within a transaction
func (p *OutboxPublisher) SaveEvents(ctx context.Context, txProvider interface{}, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, ok := txProvider.(*gorm.DB)
	if !ok {
		return fmt.Errorf("txProvider must be a *gorm.DB, got %T", txProvider)
	}

	return p.PublishWithTx(ctx, tx, events...)
}

// Ensure OutboxPublisher implements OutboxEventSaver and EventPublisher
var (
	_ shared.OutboxEventSaver = (*OutboxPublisher)(nil)
	_ shared.EventPublisher   = (*OutboxPublisher)(nil)
)
