package banking

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hospos/backend/internal/domain/shared"
)

// ReconciliationState represents the lifecycle state of a reconciliation
// session
type ReconciliationState string

const (
	ReconciliationInProgress ReconciliationState = "IN_PROGRESS"
	ReconciliationCompleted  ReconciliationState = "COMPLETED"
)

// IsValid checks if the reconciliation state is valid
func (s ReconciliationState) IsValid() bool {
	return s == ReconciliationInProgress || s == ReconciliationCompleted
}

// String returns the string representation of ReconciliationState
func (s ReconciliationState) String() string {
	return string(s)
}

// UUIDList is a JSONB-backed list of UUIDs
type UUIDList []uuid.UUID

// Value implements driver.Valuer interface for GORM to store as JSONB
func (l UUIDList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (l *UUIDList) Scan(value interface{}) error {
	if value == nil {
		*l = UUIDList{}
		return nil
	}
	bytes, err := toBytes(value)
	if err != nil {
		return fmt.Errorf("failed to scan UUIDList: %w", err)
	}
	if len(bytes) == 0 {
		*l = UUIDList{}
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// Contains reports whether the list holds the given ID
func (l UUIDList) Contains(id uuid.UUID) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Remove returns a copy of the list without the given ID
func (l UUIDList) Remove(id uuid.UUID) UUIDList {
	result := make(UUIDList, 0, len(l))
	for _, v := range l {
		if v != id {
			result = append(result, v)
		}
	}
	return result
}

// Reconciliation tracks one matching session between a bank statement and
// the ledger. Its counters always satisfy matched + outstanding == total.
type Reconciliation struct {
	shared.TenantAggregateRoot
	StatementID      uuid.UUID           `json:"statement_id"`
	AccountID        uuid.UUID           `json:"account_id"`
	State            ReconciliationState `json:"state"`
	TotalCount       int                 `json:"total_count"`
	MatchedCount     int                 `json:"matched_count"`
	OutstandingCount int                 `json:"outstanding_count"`
	ClearedEntryIDs  UUIDList            `json:"cleared_entry_ids"`
	StartedBy        uuid.UUID           `json:"started_by"`
	CompletedAt      *time.Time          `json:"completed_at,omitempty"`
	CompletedBy      *uuid.UUID          `json:"completed_by,omitempty"`
	Notes            string              `json:"notes,omitempty"`
}

// NewReconciliation starts a reconciliation session over a statement with
// the given number of lines
func NewReconciliation(tenantID, statementID, accountID, startedBy uuid.UUID, totalLines int) (*Reconciliation, error) {
	if statementID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STATEMENT", "Statement ID cannot be empty")
	}
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}
	if totalLines <= 0 {
		return nil, shared.NewDomainError("INVALID_STATEMENT", "Statement has no lines to reconcile")
	}

	return &Reconciliation{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		StatementID:         statementID,
		AccountID:           accountID,
		State:               ReconciliationInProgress,
		TotalCount:          totalLines,
		MatchedCount:        0,
		OutstandingCount:    totalLines,
		ClearedEntryIDs:     UUIDList{},
		StartedBy:           startedBy,
	}, nil
}

// IsCompleted returns true once the session has been completed
func (r *Reconciliation) IsCompleted() bool {
	return r.State == ReconciliationCompleted
}

// RecordMatch adds a cleared entry and moves one line from outstanding to
// matched. Recording the same entry twice is a no-op.
func (r *Reconciliation) RecordMatch(entryID uuid.UUID) error {
	if r.IsCompleted() {
		return shared.NewDomainError("RECONCILIATION_COMPLETED", "Reconciliation session is already completed")
	}
	if r.ClearedEntryIDs.Contains(entryID) {
		return nil
	}
	if r.OutstandingCount <= 0 {
		return shared.NewDomainError("INVALID_STATE", "No outstanding lines left to match")
	}

	r.ClearedEntryIDs = append(r.ClearedEntryIDs, entryID)
	r.MatchedCount++
	r.OutstandingCount--
	r.Touch()
	r.IncrementVersion()

	return nil
}

// RecordUnmatch removes a cleared entry and moves one line back to
// outstanding
func (r *Reconciliation) RecordUnmatch(entryID uuid.UUID) error {
	if r.IsCompleted() {
		return shared.NewDomainError("RECONCILIATION_COMPLETED", "Reconciliation session is already completed")
	}
	if !r.ClearedEntryIDs.Contains(entryID) {
		return shared.NewDomainError("ENTRY_NOT_CLEARED", "Entry is not part of this reconciliation")
	}

	r.ClearedEntryIDs = r.ClearedEntryIDs.Remove(entryID)
	r.MatchedCount--
	r.OutstandingCount++
	r.Touch()
	r.IncrementVersion()

	return nil
}

// Complete finalizes the session. Outstanding lines are allowed; they remain
// visible in the summary for the next period.
func (r *Reconciliation) Complete(userID uuid.UUID, notes string) error {
	if r.IsCompleted() {
		return nil
	}

	now := time.Now()
	r.State = ReconciliationCompleted
	r.CompletedAt = &now
	r.CompletedBy = &userID
	r.Notes = notes
	r.Touch()
	r.IncrementVersion()

	r.AddDomainEvent(NewReconciliationCompletedEvent(r))

	return nil
}

// Rebuild recomputes the counters and cleared list from the authoritative
// statement lines. Used by the repair operation after partial failures.
func (r *Reconciliation) Rebuild(statement *BankStatement) error {
	if statement.ID != r.StatementID {
		return shared.NewDomainError("STATEMENT_MISMATCH", "Statement does not belong to this reconciliation")
	}

	cleared := UUIDList{}
	matched := 0
	for i := range statement.Lines {
		line := &statement.Lines[i]
		if line.Status.IsMatched() && line.MatchedEntryID != nil {
			cleared = append(cleared, *line.MatchedEntryID)
			matched++
		}
	}

	r.TotalCount = len(statement.Lines)
	r.MatchedCount = matched
	r.OutstandingCount = r.TotalCount - matched
	r.ClearedEntryIDs = cleared
	r.Touch()
	r.IncrementVersion()

	return nil
}
