package banking

import (
	"github.com/google/uuid"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// BankAccountCreatedEvent is raised when a new bank account is registered
type BankAccountCreatedEvent struct {
	shared.BaseDomainEvent
	AccountID      uuid.UUID            `json:"account_id"`
	BankName       string               `json:"bank_name"`
	AccountNumber  string               `json:"account_number"`
	AccountType    AccountType          `json:"account_type"`
	Currency       valueobject.Currency `json:"currency"`
	InitialBalance decimal.Decimal      `json:"initial_balance"`
}

// EventType returns the event type name
func (e *BankAccountCreatedEvent) EventType() string {
	return "BankAccountCreated"
}

// NewBankAccountCreatedEvent creates a new BankAccountCreatedEvent
func NewBankAccountCreatedEvent(a *BankAccount) *BankAccountCreatedEvent {
	return &BankAccountCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BankAccountCreated", "BankAccount", a.ID, a.TenantID),
		AccountID:       a.ID,
		BankName:        a.BankName,
		AccountNumber:   a.AccountNumber,
		AccountType:     a.AccountType,
		Currency:        a.Currency,
		InitialBalance:  a.InitialBalance,
	}
}

// BankAccountDeactivatedEvent is raised when an account is deactivated
type BankAccountDeactivatedEvent struct {
	shared.BaseDomainEvent
	AccountID     uuid.UUID `json:"account_id"`
	AccountNumber string    `json:"account_number"`
}

// EventType returns the event type name
func (e *BankAccountDeactivatedEvent) EventType() string {
	return "BankAccountDeactivated"
}

// NewBankAccountDeactivatedEvent creates a new BankAccountDeactivatedEvent
func NewBankAccountDeactivatedEvent(a *BankAccount) *BankAccountDeactivatedEvent {
	return &BankAccountDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BankAccountDeactivated", "BankAccount", a.ID, a.TenantID),
		AccountID:       a.ID,
		AccountNumber:   a.AccountNumber,
	}
}
