package event

import (
	"github.com/hospos/backend/internal/domain/banking"
)

// RegisterAllEvents registers all domain event types with the serializer
// This is required for the OutboxProcessor to deserialize events from the outbox table
func RegisterAllEvents(serializer *EventSerializer) {
	// Banking domain - account events
	serializer.Register("BankAccountCreated", &banking.BankAccountCreatedEvent{})
	serializer.Register("BankAccountDeactivated", &banking.BankAccountDeactivatedEvent{})
	serializer.Register("LowBalanceAlert", &banking.LowBalanceAlertEvent{})

	// Banking domain - ledger events
	serializer.Register("LedgerEntryReconciled", &banking.LedgerEntryReconciledEvent{})
	serializer.Register("LedgerEntryUnreconciled", &banking.LedgerEntryUnreconciledEvent{})

	// Banking domain - statement and reconciliation events
	serializer.Register("StatementImported", &banking.StatementImportedEvent{})
	serializer.Register("ReconciliationCompleted", &banking.ReconciliationCompletedEvent{})

	// Banking domain - payment events
	serializer.Register("PaymentConfirmed", &banking.PaymentConfirmedEvent{})
}
