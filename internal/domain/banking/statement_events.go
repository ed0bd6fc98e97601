package banking

import (
	"time"

	"github.com/google/uuid"
	"github.com/hospos/backend/internal/domain/shared"
)

// StatementImportedEvent is raised when a bank statement is imported
type StatementImportedEvent struct {
	shared.BaseDomainEvent
	StatementID uuid.UUID `json:"statement_id"`
	AccountID   uuid.UUID `json:"account_id"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	LineCount   int       `json:"line_count"`
}

// EventType returns the event type name
func (e *StatementImportedEvent) EventType() string {
	return "StatementImported"
}

// NewStatementImportedEvent creates a new StatementImportedEvent
func NewStatementImportedEvent(s *BankStatement) *StatementImportedEvent {
	return &StatementImportedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("StatementImported", "BankStatement", s.ID, s.TenantID),
		StatementID:     s.ID,
		AccountID:       s.AccountID,
		PeriodStart:     s.PeriodStart,
		PeriodEnd:       s.PeriodEnd,
		LineCount:       len(s.Lines),
	}
}

// ReconciliationCompletedEvent is raised when a reconciliation session is
// completed
type ReconciliationCompletedEvent struct {
	shared.BaseDomainEvent
	ReconciliationID uuid.UUID `json:"reconciliation_id"`
	StatementID      uuid.UUID `json:"statement_id"`
	AccountID        uuid.UUID `json:"account_id"`
	MatchedCount     int       `json:"matched_count"`
	OutstandingCount int       `json:"outstanding_count"`
}

// EventType returns the event type name
func (e *ReconciliationCompletedEvent) EventType() string {
	return "ReconciliationCompleted"
}

// NewReconciliationCompletedEvent creates a new ReconciliationCompletedEvent
func NewReconciliationCompletedEvent(r *Reconciliation) *ReconciliationCompletedEvent {
	return &ReconciliationCompletedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("ReconciliationCompleted", "Reconciliation", r.ID, r.TenantID),
		ReconciliationID: r.ID,
		StatementID:      r.StatementID,
		AccountID:        r.AccountID,
		MatchedCount:     r.MatchedCount,
		OutstandingCount: r.OutstandingCount,
	}
}
