package banking

import (
	"github.com/google/uuid"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LedgerEntryReconciledEvent is raised when a ledger entry is matched to a
// statement line or manually reconciled. Payment-side handlers consume it to
// keep the linked payment's reconciliation status in sync.
type LedgerEntryReconciledEvent struct {
	shared.BaseDomainEvent
	EntryID          uuid.UUID            `json:"entry_id"`
	AccountID        uuid.UUID            `json:"bank_account_id"`
	Amount           decimal.Decimal      `json:"amount"`
	Direction        EntryDirection       `json:"direction"`
	Status           ReconciliationStatus `json:"status"`
	ReconciliationID *uuid.UUID           `json:"reconciliation_id,omitempty"`
	StatementLineID  *uuid.UUID           `json:"statement_line_id,omitempty"`
	PaymentID        *uuid.UUID           `json:"payment_id,omitempty"`
	ReconciledBy     *uuid.UUID           `json:"reconciled_by,omitempty"`
}

// EventType returns the event type name
func (e *LedgerEntryReconciledEvent) EventType() string {
	return "LedgerEntryReconciled"
}

// NewLedgerEntryReconciledEvent creates a new LedgerEntryReconciledEvent
func NewLedgerEntryReconciledEvent(entry *LedgerEntry) *LedgerEntryReconciledEvent {
	return &LedgerEntryReconciledEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("LedgerEntryReconciled", "LedgerEntry", entry.ID, entry.TenantID),
		EntryID:          entry.ID,
		AccountID:        entry.AccountID,
		Amount:           entry.Amount,
		Direction:        entry.Direction,
		Status:           entry.Status,
		ReconciliationID: entry.ReconciliationID,
		StatementLineID:  entry.StatementLineID,
		PaymentID:        entry.PaymentID,
		ReconciledBy:     entry.ReconciledBy,
	}
}

// LedgerEntryUnreconciledEvent is raised when a matched ledger entry is
// reverted to pending
type LedgerEntryUnreconciledEvent struct {
	shared.BaseDomainEvent
	EntryID   uuid.UUID  `json:"entry_id"`
	AccountID uuid.UUID  `json:"bank_account_id"`
	PaymentID *uuid.UUID `json:"payment_id,omitempty"`
}

// EventType returns the event type name
func (e *LedgerEntryUnreconciledEvent) EventType() string {
	return "LedgerEntryUnreconciled"
}

// NewLedgerEntryUnreconciledEvent creates a new LedgerEntryUnreconciledEvent
func NewLedgerEntryUnreconciledEvent(entry *LedgerEntry) *LedgerEntryUnreconciledEvent {
	return &LedgerEntryUnreconciledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("LedgerEntryUnreconciled", "LedgerEntry", entry.ID, entry.TenantID),
		EntryID:         entry.ID,
		AccountID:       entry.AccountID,
		PaymentID:       entry.PaymentID,
	}
}
