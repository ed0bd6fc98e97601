package banking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Session is an opaque handle to a persistence transaction. The
// infrastructure layer supplies the concrete type; domain and application
// code only pass it through.
type Session any

// SessionManager runs a function inside a single persistence transaction.
// Errors returned from fn roll the transaction back.
type SessionManager interface {
	RunInSession(ctx context.Context, fn func(session Session) error) error
}

// BankAccountRepository defines the persistence interface for bank accounts.
// Find methods return (nil, nil) when no row matches.
type BankAccountRepository interface {
	Save(ctx context.Context, session Session, account *BankAccount) error
	Update(ctx context.Context, session Session, account *BankAccount) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*BankAccount, error)
	FindByIDInSession(ctx context.Context, session Session, tenantID, id uuid.UUID) (*BankAccount, error)
	FindByAccountNumber(ctx context.Context, tenantID uuid.UUID, accountNumber string) (*BankAccount, error)
	List(ctx context.Context, tenantID uuid.UUID, filter AccountFilter) (shared.Paginated[*BankAccount], error)
	ListActive(ctx context.Context, tenantID uuid.UUID) ([]*BankAccount, error)
	// AdjustBalance atomically increments the stored balance by delta and
	// returns false when a negative guard is requested and funds are short.
	AdjustBalance(ctx context.Context, session Session, tenantID, id uuid.UUID, delta decimal.Decimal, guardNonNegative bool) (bool, error)
	Delete(ctx context.Context, session Session, tenantID, id uuid.UUID) error
}

// AccountFilter narrows account list queries
type AccountFilter struct {
	shared.Filter
	AccountType *AccountType
	Currency    *string
	ActiveOnly  bool
}

// LedgerEntryFilter narrows ledger list queries
type LedgerEntryFilter struct {
	shared.Filter
	AccountID       *uuid.UUID
	Direction       *EntryDirection
	Channel         *EntryChannel
	Status          *ReconciliationStatus
	PaymentID       *uuid.UUID
	TransferGroupID *uuid.UUID
	Reference       string
	DateFrom        *time.Time
	DateTo          *time.Time
	AmountMin       *decimal.Decimal
	AmountMax       *decimal.Decimal
}

// LedgerEntryRepository defines the persistence interface for ledger entries
type LedgerEntryRepository interface {
	Save(ctx context.Context, session Session, entry *LedgerEntry) error
	Update(ctx context.Context, session Session, entry *LedgerEntry) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*LedgerEntry, error)
	FindByIDInSession(ctx context.Context, session Session, tenantID, id uuid.UUID) (*LedgerEntry, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*LedgerEntry, error)
	FindByPaymentID(ctx context.Context, tenantID, paymentID uuid.UUID) ([]*LedgerEntry, error)
	List(ctx context.Context, tenantID uuid.UUID, filter LedgerEntryFilter) (shared.Paginated[*LedgerEntry], error)
	// ListUnreconciled returns pending entries of an account within a date
	// window, used for match suggestion.
	ListUnreconciled(ctx context.Context, tenantID, accountID uuid.UUID, from, to time.Time) ([]*LedgerEntry, error)
	// SumSignedAmounts returns the sum of signed entry amounts for an
	// account, used by the balance repair check.
	SumSignedAmounts(ctx context.Context, tenantID, accountID uuid.UUID) (decimal.Decimal, error)
}

// BankStatementRepository defines the persistence interface for statements
type BankStatementRepository interface {
	Save(ctx context.Context, session Session, statement *BankStatement) error
	Update(ctx context.Context, session Session, statement *BankStatement) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*BankStatement, error)
	FindByIDInSession(ctx context.Context, session Session, tenantID, id uuid.UUID) (*BankStatement, error)
	List(ctx context.Context, tenantID uuid.UUID, accountID *uuid.UUID, filter shared.Filter) (shared.Paginated[*BankStatement], error)
	// FindOverlapping returns a statement of the same account whose period
	// overlaps the given window, or nil.
	FindOverlapping(ctx context.Context, tenantID, accountID uuid.UUID, periodStart, periodEnd time.Time) (*BankStatement, error)
}

// ReconciliationRepository defines the persistence interface for
// reconciliation sessions
type ReconciliationRepository interface {
	Save(ctx context.Context, session Session, reconciliation *Reconciliation) error
	Update(ctx context.Context, session Session, reconciliation *Reconciliation) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Reconciliation, error)
	FindByIDInSession(ctx context.Context, session Session, tenantID, id uuid.UUID) (*Reconciliation, error)
	FindByStatementID(ctx context.Context, tenantID, statementID uuid.UUID) (*Reconciliation, error)
	List(ctx context.Context, tenantID uuid.UUID, accountID *uuid.UUID, filter shared.Filter) (shared.Paginated[*Reconciliation], error)
}

// PaymentRepository defines the persistence interface for payments
type PaymentRepository interface {
	Save(ctx context.Context, session Session, payment *Payment) error
	Update(ctx context.Context, session Session, payment *Payment) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Payment, error)
	FindByIDInSession(ctx context.Context, session Session, tenantID, id uuid.UUID) (*Payment, error)
	FindByIdempotencyKey(ctx context.Context, tenantID uuid.UUID, key string) (*Payment, error)
	List(ctx context.Context, tenantID uuid.UUID, filter PaymentFilter) (shared.Paginated[*Payment], error)
}

// PaymentFilter narrows payment list queries
type PaymentFilter struct {
	shared.Filter
	Kind      *PaymentKind
	Status    *PaymentStatus
	Method    string
	AccountID *uuid.UUID
}

// Notification is an outbound operator message, e.g. a low balance alert
type Notification struct {
	TenantID uuid.UUID
	Severity string
	Title    string
	Body     string
	Metadata map[string]string
}

// NotificationSink delivers notifications to operators. Delivery is best
// effort; failures must not affect the triggering transaction.
type NotificationSink interface {
	Send(ctx context.Context, notification Notification) error
}
