package banking

import (
	"github.com/google/uuid"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentConfirmedEvent is raised when a payment is confirmed
type PaymentConfirmedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID       `json:"payment_id"`
	Kind          PaymentKind     `json:"kind"`
	Method        string          `json:"method"`
	Amount        decimal.Decimal `json:"amount"`
	AccountID     *uuid.UUID      `json:"account_id,omitempty"`
	LedgerEntryID *uuid.UUID      `json:"ledger_entry_id,omitempty"`
}

// EventType returns the event type name
func (e *PaymentConfirmedEvent) EventType() string {
	return "PaymentConfirmed"
}

// NewPaymentConfirmedEvent creates a new PaymentConfirmedEvent
func NewPaymentConfirmedEvent(p *Payment) *PaymentConfirmedEvent {
	return &PaymentConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentConfirmed", "Payment", p.ID, p.TenantID),
		PaymentID:       p.ID,
		Kind:            p.Kind,
		Method:          p.Method,
		Amount:          p.Amount,
		AccountID:       p.AccountID,
		LedgerEntryID:   p.LedgerEntryID,
	}
}

// LowBalanceAlertEvent is raised when an account balance drops to or below
// its configured minimum
type LowBalanceAlertEvent struct {
	shared.BaseDomainEvent
	AccountID      uuid.UUID       `json:"account_id"`
	BankName       string          `json:"bank_name"`
	AccountNumber  string          `json:"account_number"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	MinimumBalance decimal.Decimal `json:"minimum_balance"`
}

// EventType returns the event type name
func (e *LowBalanceAlertEvent) EventType() string {
	return "LowBalanceAlert"
}

// NewLowBalanceAlertEvent creates a new LowBalanceAlertEvent
func NewLowBalanceAlertEvent(a *BankAccount) *LowBalanceAlertEvent {
	minimum := decimal.Zero
	if a.MinimumBalance != nil {
		minimum = *a.MinimumBalance
	}
	return &LowBalanceAlertEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("LowBalanceAlert", "BankAccount", a.ID, a.TenantID),
		AccountID:       a.ID,
		BankName:        a.BankName,
		AccountNumber:   a.AccountNumber,
		CurrentBalance:  a.CurrentBalance,
		MinimumBalance:  minimum,
	}
}
