package banking

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// EntryDirection represents the direction of a ledger entry
type EntryDirection string

const (
	DirectionCredit EntryDirection = "CREDIT" // money into the account
	DirectionDebit  EntryDirection = "DEBIT"  // money out of the account
)

// IsValid checks if the direction is valid
func (d EntryDirection) IsValid() bool {
	return d == DirectionCredit || d == DirectionDebit
}

// String returns the string representation of EntryDirection
func (d EntryDirection) String() string {
	return string(d)
}

// Opposite returns the reverse direction
func (d EntryDirection) Opposite() EntryDirection {
	if d == DirectionCredit {
		return DirectionDebit
	}
	return DirectionCredit
}

// EntryChannel represents how the money movement happened
type EntryChannel string

const (
	ChannelMobilePayment    EntryChannel = "MOBILE_PAYMENT"
	ChannelWireTransfer     EntryChannel = "WIRE_TRANSFER"
	ChannelCardTerminal     EntryChannel = "CARD_TERMINAL"
	ChannelATMDeposit       EntryChannel = "ATM_DEPOSIT"
	ChannelFee              EntryChannel = "FEE"
	ChannelInterest         EntryChannel = "INTEREST"
	ChannelManualAdjustment EntryChannel = "MANUAL_ADJUSTMENT"
	ChannelOther            EntryChannel = "OTHER"
)

// IsValid checks if the channel is valid
func (c EntryChannel) IsValid() bool {
	switch c {
	case ChannelMobilePayment, ChannelWireTransfer, ChannelCardTerminal,
		ChannelATMDeposit, ChannelFee, ChannelInterest, ChannelManualAdjustment, ChannelOther:
		return true
	}
	return false
}

// String returns the string representation of EntryChannel
func (c EntryChannel) String() string {
	return string(c)
}

// channelKeywords maps payment-method keywords to ledger channels. Lookup is
// case-insensitive substring matching, first hit wins.
var channelKeywords = []struct {
	keyword string
	channel EntryChannel
}{
	{"mobile", ChannelMobilePayment},
	{"wallet", ChannelMobilePayment},
	{"wire", ChannelWireTransfer},
	{"transfer", ChannelWireTransfer},
	{"ach", ChannelWireTransfer},
	{"card", ChannelCardTerminal},
	{"terminal", ChannelCardTerminal},
	{"pos", ChannelCardTerminal},
	{"atm", ChannelATMDeposit},
	{"deposit", ChannelATMDeposit},
	{"fee", ChannelFee},
	{"interest", ChannelInterest},
}

// ChannelFromPaymentMethod infers the ledger channel from a free-form payment
// method name. Unknown methods fall back to OTHER.
func ChannelFromPaymentMethod(method string) EntryChannel {
	normalized := strings.ToLower(strings.TrimSpace(method))
	for _, entry := range channelKeywords {
		if strings.Contains(normalized, entry.keyword) {
			return entry.channel
		}
	}
	return ChannelOther
}

// ReconciliationStatus represents the reconciliation state of a ledger entry
type ReconciliationStatus string

const (
	ReconStatusPending         ReconciliationStatus = "PENDING"
	ReconStatusMatched         ReconciliationStatus = "MATCHED"
	ReconStatusManuallyMatched ReconciliationStatus = "MANUALLY_MATCHED"
	ReconStatusRejected        ReconciliationStatus = "REJECTED"
	ReconStatusInReview        ReconciliationStatus = "IN_REVIEW"
)

// IsValid checks if the reconciliation status is valid
func (s ReconciliationStatus) IsValid() bool {
	switch s {
	case ReconStatusPending, ReconStatusMatched, ReconStatusManuallyMatched,
		ReconStatusRejected, ReconStatusInReview:
		return true
	}
	return false
}

// String returns the string representation of ReconciliationStatus
func (s ReconciliationStatus) String() string {
	return string(s)
}

// IsReconciled returns true for states that count as reconciled
func (s ReconciliationStatus) IsReconciled() bool {
	return s == ReconStatusMatched || s == ReconStatusManuallyMatched
}

// Counterpart holds the details of the other party of a movement.
// It is a value object within the LedgerEntry aggregate, stored as JSONB.
type Counterpart struct {
	Name          string `json:"name,omitempty"`
	TaxID         string `json:"tax_id,omitempty"`
	Phone         string `json:"phone,omitempty"`
	BankName      string `json:"bank_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	TerminalID    string `json:"terminal_id,omitempty"`
	CardNumber    string `json:"card_number,omitempty"`
	VoucherNumber string `json:"voucher_number,omitempty"`
}

// IsEmpty returns true when no counterpart detail is set
func (c Counterpart) IsEmpty() bool {
	return c == Counterpart{}
}

// Value implements driver.Valuer interface for GORM to store as JSONB
func (c Counterpart) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (c *Counterpart) Scan(value interface{}) error {
	if value == nil {
		*c = Counterpart{}
		return nil
	}
	bytes, err := toBytes(value)
	if err != nil {
		return fmt.Errorf("failed to scan Counterpart: %w", err)
	}
	if len(bytes) == 0 {
		*c = Counterpart{}
		return nil
	}
	return json.Unmarshal(bytes, c)
}

// EntryMetadata is a free-form key/value map stored as JSONB
type EntryMetadata map[string]string

// Value implements driver.Valuer interface for GORM to store as JSONB
func (m EntryMetadata) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (m *EntryMetadata) Scan(value interface{}) error {
	if value == nil {
		*m = EntryMetadata{}
		return nil
	}
	bytes, err := toBytes(value)
	if err != nil {
		return fmt.Errorf("failed to scan EntryMetadata: %w", err)
	}
	if len(bytes) == 0 {
		*m = EntryMetadata{}
		return nil
	}
	return json.Unmarshal(bytes, m)
}

func toBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New("unsupported type")
	}
}

// Metadata keys used by the banking services
const (
	MetaTransferPeerEntry = "transfer_peer_entry_id"
	MetaTransferPeerAcct  = "transfer_peer_account_id"
	MetaAdjustmentReason  = "adjustment_reason"
	MetaDeclaredAmount    = "declared_amount"
	MetaDeclaredReference = "declared_reference"
	MetaDeclaredDate      = "declared_date"
)

// LedgerEntry represents one append-only credit or debit record against a
// bank account. Entries are immutable except for their reconciliation
// linkage fields and metadata.
type LedgerEntry struct {
	shared.TenantAggregateRoot
	AccountID        uuid.UUID            `json:"account_id"`
	Direction        EntryDirection       `json:"direction"`
	Channel          EntryChannel         `json:"channel"`
	Amount           decimal.Decimal      `json:"amount"` // always positive
	Currency         valueobject.Currency `json:"currency"`
	BalanceAfter     decimal.Decimal      `json:"balance_after"`
	Description      string               `json:"description"`
	Reference        string               `json:"reference,omitempty"`
	Counterpart      Counterpart          `json:"counterpart"`
	TransactionDate  time.Time            `json:"transaction_date"`
	BookingDate      time.Time            `json:"booking_date"`
	Status           ReconciliationStatus `json:"status"`
	ReconciliationID *uuid.UUID           `json:"reconciliation_id,omitempty"`
	StatementLineID  *uuid.UUID           `json:"statement_line_id,omitempty"`
	PaymentID        *uuid.UUID           `json:"payment_id,omitempty"`
	TransferGroupID  *uuid.UUID           `json:"transfer_group_id,omitempty"`
	ReconciledAt     *time.Time           `json:"reconciled_at,omitempty"`
	ReconciledBy     *uuid.UUID           `json:"reconciled_by,omitempty"`
	Metadata         EntryMetadata        `json:"metadata"`
}

// NewLedgerEntry creates a new ledger entry with status pending and booking
// date defaulting to now
func NewLedgerEntry(
	tenantID uuid.UUID,
	accountID uuid.UUID,
	direction EntryDirection,
	channel EntryChannel,
	amount valueobject.Money,
	balanceAfter decimal.Decimal,
	description string,
) (*LedgerEntry, error) {
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", fmt.Sprintf("Direction %q is not valid", direction))
	}
	if !channel.IsValid() {
		return nil, shared.NewDomainError("INVALID_CHANNEL", fmt.Sprintf("Channel %q is not valid", channel))
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Entry amount must be positive")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}

	now := time.Now()
	entry := &LedgerEntry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		AccountID:           accountID,
		Direction:           direction,
		Channel:             channel,
		Amount:              amount.Amount(),
		Currency:            amount.CurrencyCode(),
		BalanceAfter:        balanceAfter,
		Description:         description,
		TransactionDate:     now,
		BookingDate:         now,
		Status:              ReconStatusPending,
		Metadata:            EntryMetadata{},
	}

	return entry, nil
}

// WithReference sets the external reference
func (e *LedgerEntry) WithReference(reference string) *LedgerEntry {
	e.Reference = reference
	return e
}

// WithCounterpart sets the counterpart details
func (e *LedgerEntry) WithCounterpart(counterpart Counterpart) *LedgerEntry {
	e.Counterpart = counterpart
	return e
}

// WithTransactionDate overrides the transaction date
func (e *LedgerEntry) WithTransactionDate(date time.Time) *LedgerEntry {
	e.TransactionDate = date
	return e
}

// WithPaymentID links the entry to an external payment
func (e *LedgerEntry) WithPaymentID(paymentID uuid.UUID) *LedgerEntry {
	e.PaymentID = &paymentID
	return e
}

// WithTransferGroupID links the entry to its transfer group
func (e *LedgerEntry) WithTransferGroupID(groupID uuid.UUID) *LedgerEntry {
	e.TransferGroupID = &groupID
	return e
}

// WithMetadata merges the given metadata keys into the entry
func (e *LedgerEntry) WithMetadata(metadata map[string]string) *LedgerEntry {
	if e.Metadata == nil {
		e.Metadata = EntryMetadata{}
	}
	for k, v := range metadata {
		e.Metadata[k] = v
	}
	return e
}

// SignedAmount returns the amount with its direction sign applied:
// positive for credits, negative for debits
func (e *LedgerEntry) SignedAmount() decimal.Decimal {
	if e.Direction == DirectionDebit {
		return e.Amount.Neg()
	}
	return e.Amount
}

// IsReconciled returns true for matched or manually matched entries
func (e *LedgerEntry) IsReconciled() bool {
	return e.Status.IsReconciled()
}

// MarkMatched links the entry to a reconciliation and statement line.
// Repeating the call with the same linkage is a no-op so downstream side
// effects are never duplicated.
func (e *LedgerEntry) MarkMatched(reconciliationID, statementLineID, userID uuid.UUID) error {
	if e.Status == ReconStatusMatched {
		if e.ReconciliationID != nil && *e.ReconciliationID == reconciliationID &&
			e.StatementLineID != nil && *e.StatementLineID == statementLineID {
			return nil
		}
		return shared.NewDomainError("ALREADY_MATCHED", "Ledger entry is already matched to another statement line")
	}
	if e.Status == ReconStatusManuallyMatched {
		return shared.NewDomainError("ALREADY_MATCHED", "Ledger entry was manually reconciled")
	}

	now := time.Now()
	e.Status = ReconStatusMatched
	e.ReconciliationID = &reconciliationID
	e.StatementLineID = &statementLineID
	e.ReconciledAt = &now
	e.ReconciledBy = &userID
	e.Touch()
	e.IncrementVersion()

	e.AddDomainEvent(NewLedgerEntryReconciledEvent(e))

	return nil
}

// MarkPending reverts a matched entry back to pending, clearing all
// reconciliation linkage. Already-pending entries are a no-op.
func (e *LedgerEntry) MarkPending() error {
	if e.Status == ReconStatusPending {
		return nil
	}
	if e.Status == ReconStatusManuallyMatched {
		return shared.NewDomainError("INVALID_STATE", "Manually reconciled entries cannot be reverted through the statement workflow")
	}

	e.AddDomainEvent(NewLedgerEntryUnreconciledEvent(e))

	e.Status = ReconStatusPending
	e.ReconciliationID = nil
	e.StatementLineID = nil
	e.ReconciledAt = nil
	e.ReconciledBy = nil
	e.Touch()
	e.IncrementVersion()

	return nil
}

// ManuallyReconcile marks the entry reconciled outside the statement
// workflow, recording the declared bank-side values for audit
func (e *LedgerEntry) ManuallyReconcile(declaredAmount decimal.Decimal, declaredReference string, declaredDate time.Time, userID uuid.UUID) error {
	if e.Status.IsReconciled() {
		return shared.NewDomainError("ALREADY_MATCHED", "Ledger entry is already reconciled")
	}

	now := time.Now()
	e.Status = ReconStatusManuallyMatched
	e.ReconciledAt = &now
	e.ReconciledBy = &userID
	e.WithMetadata(map[string]string{
		MetaDeclaredAmount:    declaredAmount.String(),
		MetaDeclaredReference: declaredReference,
		MetaDeclaredDate:      declaredDate.Format(time.RFC3339),
	})
	e.Touch()
	e.IncrementVersion()

	e.AddDomainEvent(NewLedgerEntryReconciledEvent(e))

	return nil
}
