package banking

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// StatementStatus represents the lifecycle state of a bank statement
type StatementStatus string

const (
	StatementStatusDraft       StatementStatus = "DRAFT"
	StatementStatusImported    StatementStatus = "IMPORTED"
	StatementStatusReconciling StatementStatus = "RECONCILING"
	StatementStatusReconciled  StatementStatus = "RECONCILED"
)

// IsValid checks if the statement status is valid
func (s StatementStatus) IsValid() bool {
	switch s {
	case StatementStatusDraft, StatementStatusImported, StatementStatusReconciling, StatementStatusReconciled:
		return true
	}
	return false
}

// String returns the string representation of StatementStatus
func (s StatementStatus) String() string {
	return string(s)
}

// LineStatus represents the matching state of a single statement line
type LineStatus string

const (
	LineStatusUnmatched       LineStatus = "UNMATCHED"
	LineStatusMatched         LineStatus = "MATCHED"
	LineStatusManuallyMatched LineStatus = "MANUALLY_MATCHED"
)

// IsValid checks if the line status is valid
func (s LineStatus) IsValid() bool {
	return s == LineStatusUnmatched || s == LineStatusMatched || s == LineStatusManuallyMatched
}

// IsMatched returns true for matched or manually matched lines
func (s LineStatus) IsMatched() bool {
	return s == LineStatusMatched || s == LineStatusManuallyMatched
}

// StatementLine is one bank-side movement inside an imported statement.
// Lines live inside the BankStatement aggregate and are stored as JSONB.
type StatementLine struct {
	ID             uuid.UUID       `json:"id"`
	LineNumber     int             `json:"line_number"`
	Date           time.Time       `json:"date"`
	Description    string          `json:"description"`
	Reference      string          `json:"reference,omitempty"`
	Amount         decimal.Decimal `json:"amount"` // signed: positive credit, negative debit
	Status         LineStatus      `json:"status"`
	MatchedEntryID *uuid.UUID      `json:"matched_entry_id,omitempty"`
	MatchedAt      *time.Time      `json:"matched_at,omitempty"`
}

// Direction returns the ledger direction implied by the line's sign
func (l StatementLine) Direction() EntryDirection {
	if l.Amount.IsNegative() {
		return DirectionDebit
	}
	return DirectionCredit
}

// AbsAmount returns the unsigned amount of the line
func (l StatementLine) AbsAmount() decimal.Decimal {
	return l.Amount.Abs()
}

// StatementLines is the JSONB-backed collection of statement lines
type StatementLines []StatementLine

// Value implements driver.Valuer interface for GORM to store as JSONB
func (l StatementLines) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (l *StatementLines) Scan(value interface{}) error {
	if value == nil {
		*l = StatementLines{}
		return nil
	}
	bytes, err := toBytes(value)
	if err != nil {
		return fmt.Errorf("failed to scan StatementLines: %w", err)
	}
	if len(bytes) == 0 {
		*l = StatementLines{}
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// BankStatement represents an imported bank statement for one account and
// period. Statements are created in IMPORTED state with their lines frozen;
// only line match status changes afterwards.
type BankStatement struct {
	shared.TenantAggregateRoot
	AccountID      uuid.UUID            `json:"account_id"`
	Currency       valueobject.Currency `json:"currency"`
	PeriodStart    time.Time            `json:"period_start"`
	PeriodEnd      time.Time            `json:"period_end"`
	OpeningBalance decimal.Decimal      `json:"opening_balance"`
	ClosingBalance decimal.Decimal      `json:"closing_balance"`
	Status         StatementStatus      `json:"status"`
	Lines          StatementLines       `json:"lines"`
	SourceFileName string               `json:"source_file_name,omitempty"`
	ReconciledAt   *time.Time           `json:"reconciled_at,omitempty"`
}

// StatementLineInput carries the raw data of one line during import
type StatementLineInput struct {
	Date        time.Time
	Description string
	Reference   string
	Amount      decimal.Decimal
}

// NewBankStatement imports a statement with its lines. Line numbers are
// assigned in input order starting from 1.
func NewBankStatement(
	tenantID uuid.UUID,
	accountID uuid.UUID,
	currency valueobject.Currency,
	periodStart, periodEnd time.Time,
	openingBalance, closingBalance decimal.Decimal,
	lines []StatementLineInput,
) (*BankStatement, error) {
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("Currency %q is not supported", currency))
	}
	if periodEnd.Before(periodStart) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period end cannot be before period start")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_STATEMENT", "Statement must contain at least one line")
	}

	statementLines := make(StatementLines, 0, len(lines))
	for i, input := range lines {
		if input.Description == "" {
			return nil, shared.NewDomainError("INVALID_LINE", fmt.Sprintf("Line %d has no description", i+1))
		}
		if input.Amount.IsZero() {
			return nil, shared.NewDomainError("INVALID_LINE", fmt.Sprintf("Line %d has zero amount", i+1))
		}
		statementLines = append(statementLines, StatementLine{
			ID:          uuid.New(),
			LineNumber:  i + 1,
			Date:        input.Date,
			Description: input.Description,
			Reference:   input.Reference,
			Amount:      input.Amount,
			Status:      LineStatusUnmatched,
		})
	}

	statement := &BankStatement{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		AccountID:           accountID,
		Currency:            currency,
		PeriodStart:         periodStart,
		PeriodEnd:           periodEnd,
		OpeningBalance:      openingBalance,
		ClosingBalance:      closingBalance,
		Status:              StatementStatusImported,
		Lines:               statementLines,
	}

	statement.AddDomainEvent(NewStatementImportedEvent(statement))

	return statement, nil
}

// WithSourceFileName records the name of the imported file
func (s *BankStatement) WithSourceFileName(name string) *BankStatement {
	s.SourceFileName = name
	return s
}

// BeginReconciliation moves the statement into RECONCILING. Calling it on a
// statement that is already reconciling is a no-op.
func (s *BankStatement) BeginReconciliation() error {
	switch s.Status {
	case StatementStatusReconciling:
		return nil
	case StatementStatusImported:
		s.Status = StatementStatusReconciling
		s.Touch()
		s.IncrementVersion()
		return nil
	case StatementStatusReconciled:
		return shared.NewDomainError("INVALID_STATE", "Statement is already reconciled")
	default:
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start reconciliation from status %s", s.Status))
	}
}

// MarkReconciled finalizes the statement
func (s *BankStatement) MarkReconciled() error {
	if s.Status == StatementStatusReconciled {
		return nil
	}
	if s.Status != StatementStatusReconciling {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete reconciliation from status %s", s.Status))
	}

	now := time.Now()
	s.Status = StatementStatusReconciled
	s.ReconciledAt = &now
	s.Touch()
	s.IncrementVersion()

	return nil
}

// FindLine returns the line with the given ID, or nil
func (s *BankStatement) FindLine(lineID uuid.UUID) *StatementLine {
	for i := range s.Lines {
		if s.Lines[i].ID == lineID {
			return &s.Lines[i]
		}
	}
	return nil
}

// MatchLine records that a line is matched to a ledger entry
func (s *BankStatement) MatchLine(lineID, entryID uuid.UUID, manual bool) error {
	if s.Status != StatementStatusReconciling {
		return shared.NewDomainError("INVALID_STATE", "Lines can only be matched while the statement is reconciling")
	}

	line := s.FindLine(lineID)
	if line == nil {
		return shared.NewDomainError("LINE_NOT_FOUND", "Statement line not found")
	}
	if line.Status.IsMatched() {
		if line.MatchedEntryID != nil && *line.MatchedEntryID == entryID {
			return nil
		}
		return shared.NewDomainError("LINE_ALREADY_MATCHED", "Statement line is already matched to another entry")
	}

	now := time.Now()
	if manual {
		line.Status = LineStatusManuallyMatched
	} else {
		line.Status = LineStatusMatched
	}
	line.MatchedEntryID = &entryID
	line.MatchedAt = &now
	s.Touch()
	s.IncrementVersion()

	return nil
}

// UnmatchLine reverts a matched line back to unmatched and returns the entry
// it was linked to
func (s *BankStatement) UnmatchLine(lineID uuid.UUID) (uuid.UUID, error) {
	if s.Status != StatementStatusReconciling {
		return uuid.Nil, shared.NewDomainError("INVALID_STATE", "Lines can only be unmatched while the statement is reconciling")
	}

	line := s.FindLine(lineID)
	if line == nil {
		return uuid.Nil, shared.NewDomainError("LINE_NOT_FOUND", "Statement line not found")
	}
	if !line.Status.IsMatched() || line.MatchedEntryID == nil {
		return uuid.Nil, shared.NewDomainError("LINE_NOT_MATCHED", "Statement line is not matched")
	}

	entryID := *line.MatchedEntryID
	line.Status = LineStatusUnmatched
	line.MatchedEntryID = nil
	line.MatchedAt = nil
	s.Touch()
	s.IncrementVersion()

	return entryID, nil
}

// MatchedLineCount returns how many lines are matched
func (s *BankStatement) MatchedLineCount() int {
	count := 0
	for i := range s.Lines {
		if s.Lines[i].Status.IsMatched() {
			count++
		}
	}
	return count
}

// UnmatchedLines returns the lines still waiting for a match
func (s *BankStatement) UnmatchedLines() []StatementLine {
	result := make([]StatementLine, 0)
	for i := range s.Lines {
		if !s.Lines[i].Status.IsMatched() {
			result = append(result, s.Lines[i])
		}
	}
	return result
}
