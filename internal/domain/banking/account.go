package banking

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AccountType represents the kind of bank account
type AccountType string

const (
	AccountTypeChecking AccountType = "CHECKING"
	AccountTypeSavings  AccountType = "SAVINGS"
	AccountTypePayroll  AccountType = "PAYROLL"
	AccountTypeOther    AccountType = "OTHER"
)

// IsValid checks if the account type is valid
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypePayroll, AccountTypeOther:
		return true
	}
	return false
}

// String returns the string representation of AccountType
func (t AccountType) String() string {
	return string(t)
}

// BankAccount represents a bank account aggregate root.
// Its current balance mirrors the sum of the signed ledger amounts on top of
// the initial balance; every balance mutation goes through the ledger.
type BankAccount struct {
	shared.TenantAggregateRoot
	BankName        string               `json:"bank_name"`
	AccountNumber   string               `json:"account_number"`
	AccountType     AccountType          `json:"account_type"`
	Currency        valueobject.Currency `json:"currency"`
	InitialBalance  decimal.Decimal      `json:"initial_balance"`
	CurrentBalance  decimal.Decimal      `json:"current_balance"`
	IsActive        bool                 `json:"is_active"`
	AlertEnabled    bool                 `json:"alert_enabled"`
	MinimumBalance  *decimal.Decimal     `json:"minimum_balance,omitempty"`
	LastAlertSentAt *time.Time           `json:"last_alert_sent_at,omitempty"`
}

// NewBankAccount creates a new bank account with current balance seeded from
// the initial balance
func NewBankAccount(
	tenantID uuid.UUID,
	bankName string,
	accountNumber string,
	accountType AccountType,
	currency valueobject.Currency,
	initialBalance decimal.Decimal,
) (*BankAccount, error) {
	if bankName == "" {
		return nil, shared.NewDomainError("INVALID_BANK_NAME", "Bank name cannot be empty")
	}
	if len(bankName) > 200 {
		return nil, shared.NewDomainError("INVALID_BANK_NAME", "Bank name cannot exceed 200 characters")
	}
	if accountNumber == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NUMBER", "Account number cannot be empty")
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_TYPE", fmt.Sprintf("Account type %q is not valid", accountType))
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("Currency %q is not supported", currency))
	}

	account := &BankAccount{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BankName:            bankName,
		AccountNumber:       accountNumber,
		AccountType:         accountType,
		Currency:            currency,
		InitialBalance:      initialBalance,
		CurrentBalance:      initialBalance,
		IsActive:            true,
	}

	account.AddDomainEvent(NewBankAccountCreatedEvent(account))

	return account, nil
}

// UpdateDetails updates the mutable metadata fields. Balance is never touched
// here; balance changes always go through the ledger.
func (a *BankAccount) UpdateDetails(bankName, accountNumber string, accountType AccountType) error {
	if bankName == "" {
		return shared.NewDomainError("INVALID_BANK_NAME", "Bank name cannot be empty")
	}
	if accountNumber == "" {
		return shared.NewDomainError("INVALID_ACCOUNT_NUMBER", "Account number cannot be empty")
	}
	if !accountType.IsValid() {
		return shared.NewDomainError("INVALID_ACCOUNT_TYPE", fmt.Sprintf("Account type %q is not valid", accountType))
	}

	a.BankName = bankName
	a.AccountNumber = accountNumber
	a.AccountType = accountType
	a.Touch()
	a.IncrementVersion()

	return nil
}

// ConfigureAlert enables or disables low-balance alerting. When enabling, a
// minimum balance threshold is required.
func (a *BankAccount) ConfigureAlert(enabled bool, minimumBalance *decimal.Decimal) error {
	if enabled && minimumBalance == nil {
		return shared.NewDomainError("INVALID_THRESHOLD", "Minimum balance threshold is required when alerting is enabled")
	}

	a.AlertEnabled = enabled
	a.MinimumBalance = minimumBalance
	if !enabled {
		a.LastAlertSentAt = nil
	}
	a.Touch()
	a.IncrementVersion()

	return nil
}

// Activate marks the account active
func (a *BankAccount) Activate() {
	a.IsActive = true
	a.Touch()
	a.IncrementVersion()
}

// Deactivate marks the account inactive. Inactive accounts are excluded from
// balance aggregations but their ledger history remains.
func (a *BankAccount) Deactivate() {
	a.IsActive = false
	a.Touch()
	a.IncrementVersion()
	a.AddDomainEvent(NewBankAccountDeactivatedEvent(a))
}

// ApplyDelta adjusts the in-memory balance snapshot by a signed amount.
// The persistence layer performs the authoritative atomic increment; this
// keeps the loaded aggregate consistent with what was written.
func (a *BankAccount) ApplyDelta(delta decimal.Decimal) {
	a.CurrentBalance = a.CurrentBalance.Add(delta)
	a.Touch()
}

// BalanceMoney returns the current balance as Money
func (a *BankAccount) BalanceMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(a.CurrentBalance, a.Currency)
	return m
}

// HasSufficientFunds returns true if the current balance covers the amount
func (a *BankAccount) HasSufficientFunds(amount decimal.Decimal) bool {
	return a.CurrentBalance.GreaterThanOrEqual(amount)
}

// BelowAlertThreshold returns true when alerting applies and the balance is
// at or under the configured minimum
func (a *BankAccount) BelowAlertThreshold() bool {
	if !a.AlertEnabled || a.MinimumBalance == nil {
		return false
	}
	return a.CurrentBalance.LessThanOrEqual(*a.MinimumBalance)
}

// AlertDue returns true if no alert was sent within the debounce window
func (a *BankAccount) AlertDue(now time.Time, debounce time.Duration) bool {
	if a.LastAlertSentAt == nil {
		return true
	}
	return now.Sub(*a.LastAlertSentAt) >= debounce
}

// StampAlertSent records that a low-balance alert was emitted
func (a *BankAccount) StampAlertSent(at time.Time) {
	a.LastAlertSentAt = &at
	a.Touch()
}

// ClearAlertStamp resets the alert debounce stamp once the balance recovers
func (a *BankAccount) ClearAlertStamp() {
	a.LastAlertSentAt = nil
	a.Touch()
}
