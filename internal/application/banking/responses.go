package banking

import (
	"time"

	"github.com/google/uuid"
	"github.com/hospos/backend/internal/domain/banking"
	"github.com/shopspring/decimal"
)

// AccountResponse represents a bank account in API responses
type AccountResponse struct {
	ID              uuid.UUID        `json:"id"`
	TenantID        uuid.UUID        `json:"tenant_id"`
	BankName        string           `json:"bank_name"`
	AccountNumber   string           `json:"account_number"`
	AccountType     string           `json:"account_type"`
	Currency        string           `json:"currency"`
	InitialBalance  decimal.Decimal  `json:"initial_balance"`
	CurrentBalance  decimal.Decimal  `json:"current_balance"`
	IsActive        bool             `json:"is_active"`
	AlertEnabled    bool             `json:"alert_enabled"`
	MinimumBalance  *decimal.Decimal `json:"minimum_balance,omitempty"`
	LastAlertSentAt *time.Time       `json:"last_alert_sent_at,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Version         int              `json:"version"`
}

func toAccountResponse(a *banking.BankAccount) *AccountResponse {
	return &AccountResponse{
		ID:              a.ID,
		TenantID:        a.TenantID,
		BankName:        a.BankName,
		AccountNumber:   a.AccountNumber,
		AccountType:     a.AccountType.String(),
		Currency:        string(a.Currency),
		InitialBalance:  a.InitialBalance,
		CurrentBalance:  a.CurrentBalance,
		IsActive:        a.IsActive,
		AlertEnabled:    a.AlertEnabled,
		MinimumBalance:  a.MinimumBalance,
		LastAlertSentAt: a.LastAlertSentAt,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
		Version:         a.Version,
	}
}

// LedgerEntryResponse represents a ledger entry in API responses
type LedgerEntryResponse struct {
	ID               uuid.UUID           `json:"id"`
	TenantID         uuid.UUID           `json:"tenant_id"`
	AccountID        uuid.UUID           `json:"account_id"`
	Direction        string              `json:"direction"`
	Channel          string              `json:"channel"`
	Amount           decimal.Decimal     `json:"amount"`
	SignedAmount     decimal.Decimal     `json:"signed_amount"`
	Currency         string              `json:"currency"`
	BalanceAfter     decimal.Decimal     `json:"balance_after"`
	Description      string              `json:"description"`
	Reference        string              `json:"reference,omitempty"`
	Counterpart      banking.Counterpart `json:"counterpart"`
	TransactionDate  time.Time           `json:"transaction_date"`
	BookingDate      time.Time           `json:"booking_date"`
	Status           string              `json:"status"`
	ReconciliationID *uuid.UUID          `json:"reconciliation_id,omitempty"`
	StatementLineID  *uuid.UUID          `json:"statement_line_id,omitempty"`
	PaymentID        *uuid.UUID          `json:"payment_id,omitempty"`
	TransferGroupID  *uuid.UUID          `json:"transfer_group_id,omitempty"`
	ReconciledAt     *time.Time          `json:"reconciled_at,omitempty"`
	Metadata         map[string]string   `json:"metadata,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
}

func toLedgerEntryResponse(e *banking.LedgerEntry) *LedgerEntryResponse {
	return &LedgerEntryResponse{
		ID:               e.ID,
		TenantID:         e.TenantID,
		AccountID:        e.AccountID,
		Direction:        e.Direction.String(),
		Channel:          e.Channel.String(),
		Amount:           e.Amount,
		SignedAmount:     e.SignedAmount(),
		Currency:         string(e.Currency),
		BalanceAfter:     e.BalanceAfter,
		Description:      e.Description,
		Reference:        e.Reference,
		Counterpart:      e.Counterpart,
		TransactionDate:  e.TransactionDate,
		BookingDate:      e.BookingDate,
		Status:           e.Status.String(),
		ReconciliationID: e.ReconciliationID,
		StatementLineID:  e.StatementLineID,
		PaymentID:        e.PaymentID,
		TransferGroupID:  e.TransferGroupID,
		ReconciledAt:     e.ReconciledAt,
		Metadata:         e.Metadata,
		CreatedAt:        e.CreatedAt,
	}
}

// StatementLineResponse represents one statement line in API responses
type StatementLineResponse struct {
	ID             uuid.UUID       `json:"id"`
	LineNumber     int             `json:"line_number"`
	Date           time.Time       `json:"date"`
	Description    string          `json:"description"`
	Reference      string          `json:"reference,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	MatchedEntryID *uuid.UUID      `json:"matched_entry_id,omitempty"`
	MatchedAt      *time.Time      `json:"matched_at,omitempty"`
}

// StatementResponse represents a bank statement in API responses
type StatementResponse struct {
	ID             uuid.UUID               `json:"id"`
	TenantID       uuid.UUID               `json:"tenant_id"`
	AccountID      uuid.UUID               `json:"account_id"`
	Currency       string                  `json:"currency"`
	PeriodStart    time.Time               `json:"period_start"`
	PeriodEnd      time.Time               `json:"period_end"`
	OpeningBalance decimal.Decimal         `json:"opening_balance"`
	ClosingBalance decimal.Decimal         `json:"closing_balance"`
	Status         string                  `json:"status"`
	Lines          []StatementLineResponse `json:"lines"`
	SourceFileName string                  `json:"source_file_name,omitempty"`
	ReconciledAt   *time.Time              `json:"reconciled_at,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
}

func toStatementResponse(s *banking.BankStatement) *StatementResponse {
	lines := make([]StatementLineResponse, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = StatementLineResponse{
			ID:             l.ID,
			LineNumber:     l.LineNumber,
			Date:           l.Date,
			Description:    l.Description,
			Reference:      l.Reference,
			Amount:         l.Amount,
			Status:         string(l.Status),
			MatchedEntryID: l.MatchedEntryID,
			MatchedAt:      l.MatchedAt,
		}
	}
	return &StatementResponse{
		ID:             s.ID,
		TenantID:       s.TenantID,
		AccountID:      s.AccountID,
		Currency:       string(s.Currency),
		PeriodStart:    s.PeriodStart,
		PeriodEnd:      s.PeriodEnd,
		OpeningBalance: s.OpeningBalance,
		ClosingBalance: s.ClosingBalance,
		Status:         s.Status.String(),
		Lines:          lines,
		SourceFileName: s.SourceFileName,
		ReconciledAt:   s.ReconciledAt,
		CreatedAt:      s.CreatedAt,
	}
}

// ReconciliationResponse represents a reconciliation session in API responses
type ReconciliationResponse struct {
	ID               uuid.UUID   `json:"id"`
	TenantID         uuid.UUID   `json:"tenant_id"`
	StatementID      uuid.UUID   `json:"statement_id"`
	AccountID        uuid.UUID   `json:"account_id"`
	State            string      `json:"state"`
	TotalCount       int         `json:"total_count"`
	MatchedCount     int         `json:"matched_count"`
	OutstandingCount int         `json:"outstanding_count"`
	ClearedEntryIDs  []uuid.UUID `json:"cleared_entry_ids"`
	CompletedAt      *time.Time  `json:"completed_at,omitempty"`
	Notes            string      `json:"notes,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
}

func toReconciliationResponse(r *banking.Reconciliation) *ReconciliationResponse {
	return &ReconciliationResponse{
		ID:               r.ID,
		TenantID:         r.TenantID,
		StatementID:      r.StatementID,
		AccountID:        r.AccountID,
		State:            r.State.String(),
		TotalCount:       r.TotalCount,
		MatchedCount:     r.MatchedCount,
		OutstandingCount: r.OutstandingCount,
		ClearedEntryIDs:  r.ClearedEntryIDs,
		CompletedAt:      r.CompletedAt,
		Notes:            r.Notes,
		CreatedAt:        r.CreatedAt,
	}
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID                 uuid.UUID           `json:"id"`
	TenantID           uuid.UUID           `json:"tenant_id"`
	Kind               string              `json:"kind"`
	Status             string              `json:"status"`
	Method             string              `json:"method"`
	Amount             decimal.Decimal     `json:"amount"`
	Currency           string              `json:"currency"`
	AccountID          *uuid.UUID          `json:"account_id,omitempty"`
	BankReference      string              `json:"bank_reference,omitempty"`
	IdempotencyKey     string              `json:"idempotency_key"`
	Counterpart        banking.Counterpart `json:"counterpart"`
	Description        string              `json:"description,omitempty"`
	LedgerEntryID      *uuid.UUID          `json:"ledger_entry_id,omitempty"`
	ReversalEntryID    *uuid.UUID          `json:"reversal_entry_id,omitempty"`
	Reconciled         bool                `json:"reconciled"`
	ReconciliationNote string              `json:"reconciliation_note,omitempty"`
	ConfirmedAt        *time.Time          `json:"confirmed_at,omitempty"`
	RefundedAt         *time.Time          `json:"refunded_at,omitempty"`
	VoidedAt           *time.Time          `json:"voided_at,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	Version            int                 `json:"version"`
}

func toPaymentResponse(p *banking.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:                 p.ID,
		TenantID:           p.TenantID,
		Kind:               p.Kind.String(),
		Status:             p.Status.String(),
		Method:             p.Method,
		Amount:             p.Amount,
		Currency:           string(p.Currency),
		AccountID:          p.AccountID,
		BankReference:      p.BankReference,
		IdempotencyKey:     p.IdempotencyKey,
		Counterpart:        p.Counterpart,
		Description:        p.Description,
		LedgerEntryID:      p.LedgerEntryID,
		ReversalEntryID:    p.ReversalEntryID,
		Reconciled:         p.Reconciled,
		ReconciliationNote: p.ReconciliationNote,
		ConfirmedAt:        p.ConfirmedAt,
		RefundedAt:         p.RefundedAt,
		VoidedAt:           p.VoidedAt,
		CreatedAt:          p.CreatedAt,
		Version:            p.Version,
	}
}
