package banking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hospos/backend/internal/domain/banking"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// stubSessionManager runs the callback directly without a real transaction
type stubSessionManager struct{}

func (stubSessionManager) RunInSession(ctx context.Context, fn func(session banking.Session) error) error {
	return fn(nil)
}

// MockBankAccountRepository is a mock implementation of BankAccountRepository
type MockBankAccountRepository struct {
	mock.Mock
}

func (m *MockBankAccountRepository) Save(ctx context.Context, session banking.Session, account *banking.BankAccount) error {
	args := m.Called(ctx, session, account)
	return args.Error(0)
}

func (m *MockBankAccountRepository) Update(ctx context.Context, session banking.Session, account *banking.BankAccount) error {
	args := m.Called(ctx, session, account)
	return args.Error(0)
}

func (m *MockBankAccountRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*banking.BankAccount, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*banking.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) FindByIDInSession(ctx context.Context, session banking.Session, tenantID, id uuid.UUID) (*banking.BankAccount, error) {
	args := m.Called(ctx, session, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*banking.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) FindByAccountNumber(ctx context.Context, tenantID uuid.UUID, accountNumber string) (*banking.BankAccount, error) {
	args := m.Called(ctx, tenantID, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*banking.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) List(ctx context.Context, tenantID uuid.UUID, filter banking.AccountFilter) (shared.Paginated[*banking.BankAccount], error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(shared.Paginated[*banking.BankAccount]), args.Error(1)
}

func (m *MockBankAccountRepository) ListActive(ctx context.Context, tenantID uuid.UUID) ([]*banking.BankAccount, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*banking.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) AdjustBalance(ctx context.Context, session banking.Session, tenantID, id uuid.UUID, delta decimal.Decimal, guardNonNegative bool) (bool, error) {
	args := m.Called(ctx, session, tenantID, id, delta, guardNonNegative)
	return args.Bool(0), args.Error(1)
}

func (m *MockBankAccountRepository) Delete(ctx context.Context, session banking.Session, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, session, tenantID, id)
	return args.Error(0)
}

// MockLedgerEntryRepository is a mock implementation of LedgerEntryRepository
type MockLedgerEntryRepository struct {
	mock.Mock
}

func (m *MockLedgerEntryRepository) Save(ctx context.Context, session banking.Session, entry *banking.LedgerEntry) error {
	args := m.Called(ctx, session, entry)
	return args.Error(0)
}

func (m *MockLedgerEntryRepository) Update(ctx context.Context, session banking.Session, entry *banking.LedgerEntry) error {
	args := m.Called(ctx, session, entry)
	return args.Error(0)
}

func (m *MockLedgerEntryRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*banking.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*banking.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntryRepository) FindByIDInSession(ctx context.Context, session banking.Session, tenantID, id uuid.UUID) (*banking.LedgerEntry, error) {
	args := m.Called(ctx, session, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*banking.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntryRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*banking.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*banking.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntryRepository) FindByPaymentID(ctx context.Context, tenantID, paymentID uuid.UUID) ([]*banking.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*banking.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntryRepository) List(ctx context.Context, tenantID uuid.UUID, filter banking.LedgerEntryFilter) (shared.Paginated[*banking.LedgerEntry], error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(shared.Paginated[*banking.LedgerEntry]), args.Error(1)
}

func (m *MockLedgerEntryRepository) ListUnreconciled(ctx context.Context, tenantID, accountID uuid.UUID, from, to time.Time) ([]*banking.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*banking.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntryRepository) SumSignedAmounts(ctx context.Context, tenantID, accountID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockBankStatementRepository is a mock implementation of BankStatementRepository
type MockBankStatementRepository struct {
	mock.Mock
}

func (m *MockBankStatementRepository) Save(ctx context.Context, session banking.Session, statement *banking.BankStatement) error {
	args := m.Called(ctx, session, statement)
	return args.Error(0)
}

func (m *MockBankStatementRepository) Update(ctx context.Context, session banking.Session, statement *banking.BankStatement) error {
	args := m.Called(ctx, session, statement)
	return args.Error(0)
}

func (m *MockBankStatementRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*banking.BankStatement, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*banking.BankStatement), args.Error(1)
}

func (m *MockBankStatementRepository) FindByIDInSession(ctx context.Context, session banking.Session, tenantID, id uuid.UUID) (*banking.BankStatement, error) {
	args := m.Called(ctx, session, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*banking.BankStatement), args.Error(1)
}

func (m *MockBankStatementRepository) List(ctx context.Context, tenantID uuid.UUID, accountID *uuid.UUID, filter shared.Filter) (shared.Paginated[*banking.BankStatement], error) {
	args := m.Called(ctx, tenantID, accountID, filter)
	return args.Get(0).(shared.Paginated[*banking.BankStatement]), args.Error(1)
}

func (m *MockBankStatementRepository) FindOverlapping(ctx context.Context, tenantID, accountID uuid.UUID, periodStart, periodEnd time.Time) (*banking.BankStatement, error) {
	args := m.Called(ctx, tenantID, accountID, periodStart, periodEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*banking.BankStatement), args.Error(1)
}

// MockReconciliationRepository is a mock implementation of ReconciliationRepository
type MockReconciliationRepository struct {
	mock.Mock
}

func (m *MockReconciliationRepository) Save(ctx context.Context, session banking.Session, reconciliation *banking.Reconciliation) error {
	args := m.Called(ctx, session, reconciliation)
	return args.Error(0)
}

func (m *MockReconciliationRepository) Update(ctx context.Context, session banking.Session, reconciliation *banking.Reconciliation) error {
	args := m.Called(ctx, session, reconciliation)
	return args.Error(0)
}

func (m *MockReconciliationRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*banking.Reconciliation, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*banking.Reconciliation), args.Error(1)
}

func (m *MockReconciliationRepository) FindByIDInSession(ctx context.Context, session banking.Session, tenantID, id uuid.UUID) (*banking.Reconciliation, error) {
	args := m.Called(ctx, session, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*banking.Reconciliation), args.Error(1)
}

func (m *MockReconciliationRepository) FindByStatementID(ctx context.Context, tenantID, statementID uuid.UUID) (*banking.Reconciliation, error) {
	args := m.Called(ctx, tenantID, statementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*banking.Reconciliation), args.Error(1)
}

func (m *MockReconciliationRepository) List(ctx context.Context, tenantID uuid.UUID, accountID *uuid.UUID, filter shared.Filter) (shared.Paginated[*banking.Reconciliation], error) {
	args := m.Called(ctx, tenantID, accountID, filter)
	return args.Get(0).(shared.Paginated[*banking.Reconciliation]), args.Error(1)
}

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Save(ctx context.Context, session banking.Session, payment *banking.Payment) error {
	args := m.Called(ctx, session, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) Update(ctx context.Context, session banking.Session, payment *banking.Payment) error {
	args := m.Called(ctx, session, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*banking.Payment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*banking.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByIDInSession(ctx context.Context, session banking.Session, tenantID, id uuid.UUID) (*banking.Payment, error) {
	args := m.Called(ctx, session, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*banking.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByIdempotencyKey(ctx context.Context, tenantID uuid.UUID, key string) (*banking.Payment, error) {
	args := m.Called(ctx, tenantID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*banking.Payment), args.Error(1)
}

func (m *MockPaymentRepository) List(ctx context.Context, tenantID uuid.UUID, filter banking.PaymentFilter) (shared.Paginated[*banking.Payment], error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(shared.Paginated[*banking.Payment]), args.Error(1)
}

// MockNotificationSink is a mock implementation of NotificationSink
type MockNotificationSink struct {
	mock.Mock
}

func (m *MockNotificationSink) Send(ctx context.Context, notification banking.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, eventID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
