package banking

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentKind distinguishes money collected from money paid out
type PaymentKind string

const (
	PaymentKindCollection   PaymentKind = "COLLECTION"   // customer pays us
	PaymentKindDisbursement PaymentKind = "DISBURSEMENT" // we pay a supplier
)

// IsValid checks if the payment kind is valid
func (k PaymentKind) IsValid() bool {
	return k == PaymentKindCollection || k == PaymentKindDisbursement
}

// String returns the string representation of PaymentKind
func (k PaymentKind) String() string {
	return string(k)
}

// EntryDirection returns the ledger direction a confirmed payment of this
// kind produces
func (k PaymentKind) EntryDirection() EntryDirection {
	if k == PaymentKindCollection {
		return DirectionCredit
	}
	return DirectionDebit
}

// PaymentStatus represents the lifecycle state of a payment
type PaymentStatus string

const (
	PaymentStatusDraft     PaymentStatus = "DRAFT"
	PaymentStatusConfirmed PaymentStatus = "CONFIRMED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
	PaymentStatusVoided    PaymentStatus = "VOIDED"
)

// IsValid checks if the payment status is valid
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusDraft, PaymentStatusConfirmed, PaymentStatusRefunded, PaymentStatusVoided:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// bankSettledMethods lists payment methods that settle through a bank
// account and therefore require a bank reference and produce ledger entries
var bankSettledMethods = map[string]bool{
	"wire":          true,
	"wire_transfer": true,
	"bank_transfer": true,
	"ach":           true,
	"card":          true,
	"mobile":        true,
	"mobile_wallet": true,
}

// IsBankSettledMethod reports whether the method settles through a bank
func IsBankSettledMethod(method string) bool {
	return bankSettledMethods[normalizeMethod(method)]
}

func normalizeMethod(method string) string {
	out := make([]rune, 0, len(method))
	for _, r := range method {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ' || r == '-':
			out = append(out, '_')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

// Payment represents a collection or disbursement flowing through the
// banking bridge. Confirmed bank-settled payments produce ledger entries;
// the reconciliation status tracks whether that entry has been cleared.
type Payment struct {
	shared.TenantAggregateRoot
	Kind               PaymentKind          `json:"kind"`
	Status             PaymentStatus        `json:"status"`
	Method             string               `json:"method"`
	Amount             decimal.Decimal      `json:"amount"`
	Currency           valueobject.Currency `json:"currency"`
	AccountID          *uuid.UUID           `json:"account_id,omitempty"`
	BankReference      string               `json:"bank_reference,omitempty"`
	IdempotencyKey     string               `json:"idempotency_key"`
	Counterpart        Counterpart          `json:"counterpart"`
	Description        string               `json:"description,omitempty"`
	LedgerEntryID      *uuid.UUID           `json:"ledger_entry_id,omitempty"`
	ReversalEntryID    *uuid.UUID           `json:"reversal_entry_id,omitempty"`
	Reconciled         bool                 `json:"reconciled"`
	ReconciliationNote string               `json:"reconciliation_note,omitempty"`
	ConfirmedAt        *time.Time           `json:"confirmed_at,omitempty"`
	RefundedAt         *time.Time           `json:"refunded_at,omitempty"`
	VoidedAt           *time.Time           `json:"voided_at,omitempty"`
}

// NewPayment creates a draft payment. Bank-settled methods require a target
// account and a bank reference.
func NewPayment(
	tenantID uuid.UUID,
	kind PaymentKind,
	method string,
	amount valueobject.Money,
	idempotencyKey string,
	accountID *uuid.UUID,
	bankReference string,
) (*Payment, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", fmt.Sprintf("Payment kind %q is not valid", kind))
	}
	if method == "" {
		return nil, shared.NewDomainError("INVALID_METHOD", "Payment method cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if idempotencyKey == "" {
		return nil, shared.NewDomainError("INVALID_IDEMPOTENCY_KEY", "Idempotency key cannot be empty")
	}
	if IsBankSettledMethod(method) {
		if accountID == nil || *accountID == uuid.Nil {
			return nil, shared.NewDomainError("ACCOUNT_REQUIRED", "Bank-settled payments require a bank account")
		}
		if bankReference == "" {
			return nil, shared.NewDomainError("REFERENCE_REQUIRED", "Bank-settled payments require a bank reference")
		}
	}

	payment := &Payment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Kind:                kind,
		Status:              PaymentStatusDraft,
		Method:              method,
		Amount:              amount.Amount(),
		Currency:            amount.CurrencyCode(),
		AccountID:           accountID,
		BankReference:       bankReference,
		IdempotencyKey:      idempotencyKey,
	}

	return payment, nil
}

// WithCounterpart sets the counterpart details
func (p *Payment) WithCounterpart(counterpart Counterpart) *Payment {
	p.Counterpart = counterpart
	return p
}

// WithDescription sets the free-form description
func (p *Payment) WithDescription(description string) *Payment {
	p.Description = description
	return p
}

// IsBankSettled reports whether this payment settles through a bank account
func (p *Payment) IsBankSettled() bool {
	return IsBankSettledMethod(p.Method)
}

// Money returns the payment amount as Money
func (p *Payment) Money() valueobject.Money {
	m, _ := valueobject.NewMoney(p.Amount, p.Currency)
	return m
}

// Confirm moves the payment from draft to confirmed, linking the ledger
// entry created for it when bank-settled
func (p *Payment) Confirm(ledgerEntryID *uuid.UUID) error {
	if p.Status == PaymentStatusConfirmed {
		return nil
	}
	if p.Status != PaymentStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm payment in status %s", p.Status))
	}
	if p.IsBankSettled() && ledgerEntryID == nil {
		return shared.NewDomainError("ENTRY_REQUIRED", "Bank-settled payments must be confirmed with a ledger entry")
	}

	now := time.Now()
	p.Status = PaymentStatusConfirmed
	p.LedgerEntryID = ledgerEntryID
	p.ConfirmedAt = &now
	p.Touch()
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentConfirmedEvent(p))

	return nil
}

// Refund moves a confirmed payment to refunded, linking the reversing entry
// when bank-settled
func (p *Payment) Refund(reversalEntryID *uuid.UUID) error {
	if p.Status != PaymentStatusConfirmed {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot refund payment in status %s", p.Status))
	}
	if p.IsBankSettled() && reversalEntryID == nil {
		return shared.NewDomainError("ENTRY_REQUIRED", "Bank-settled refunds must record a reversing ledger entry")
	}

	now := time.Now()
	p.Status = PaymentStatusRefunded
	p.ReversalEntryID = reversalEntryID
	p.RefundedAt = &now
	p.Touch()
	p.IncrementVersion()

	return nil
}

// Void cancels a draft payment before it was confirmed
func (p *Payment) Void() error {
	if p.Status == PaymentStatusVoided {
		return nil
	}
	if p.Status != PaymentStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot void payment in status %s", p.Status))
	}

	now := time.Now()
	p.Status = PaymentStatusVoided
	p.VoidedAt = &now
	p.Touch()
	p.IncrementVersion()

	return nil
}

// MarkReconciled flags the payment's ledger entry as cleared against a bank
// statement. Idempotent.
func (p *Payment) MarkReconciled() {
	if p.Reconciled {
		return
	}
	p.Reconciled = true
	p.Touch()
	p.IncrementVersion()
}

// MarkAutoReconciled flags the payment reconciled without statement matching,
// recording an audit note about why. Idempotent.
func (p *Payment) MarkAutoReconciled(note string) {
	if p.Reconciled {
		return
	}
	p.Reconciled = true
	p.ReconciliationNote = note
	p.Touch()
	p.IncrementVersion()
}

// MarkUnreconciled clears the reconciled flag. Idempotent.
func (p *Payment) MarkUnreconciled() {
	if !p.Reconciled {
		return
	}
	p.Reconciled = false
	p.Touch()
	p.IncrementVersion()
}
