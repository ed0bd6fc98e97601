package handler

import (
	"context"
	"time"

	bankingapp "github.com/hospos/backend/internal/application/banking"
	"github.com/hospos/backend/internal/domain/banking"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/domain/shared/valueobject"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// testTenantID is the tenant the test router authenticates every request as
var testTenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// stubSessionManager runs the callback without a real transaction
type stubSessionManager struct{}

func (stubSessionManager) RunInSession(ctx context.Context, fn func(session banking.Session) error) error {
	return fn(nil)
}

// MockBankAccountRepository implements banking.BankAccountRepository for testing
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

// MockLedgerEntryRepository implements banking.LedgerEntryRepository for testing
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
	return args.Get(0).([]*banking.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntryRepository) FindByPaymentID(ctx context.Context, tenantID, paymentID uuid.UUID) ([]*banking.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, paymentID)
	return args.Get(0).([]*banking.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntryRepository) List(ctx context.Context, tenantID uuid.UUID, filter banking.LedgerEntryFilter) (shared.Paginated[*banking.LedgerEntry], error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(shared.Paginated[*banking.LedgerEntry]), args.Error(1)
}

func (m *MockLedgerEntryRepository) ListUnreconciled(ctx context.Context, tenantID, accountID uuid.UUID, from, to time.Time) ([]*banking.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, accountID, from, to)
	return args.Get(0).([]*banking.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntryRepository) SumSignedAmounts(ctx context.Context, tenantID, accountID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockBankStatementRepository implements banking.BankStatementRepository for testing
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

// MockReconciliationRepository implements banking.ReconciliationRepository for testing
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

// MockPaymentRepository implements banking.PaymentRepository for testing
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

// Test setup helpers

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	// Test authentication middleware that sets JWT context values
	router.Use(func(c *gin.Context) {
		setJWTContext(c, testTenantID, uuid.New())
		c.Next()
	})
	return router
}

func setupBankAccountHandler(accountRepo *MockBankAccountRepository, entryRepo *MockLedgerEntryRepository) *BankAccountHandler {
	accountService := bankingapp.NewAccountService(accountRepo, entryRepo, stubSessionManager{}, nil, nil, zap.NewNop())
	ledgerService := bankingapp.NewLedgerService(accountRepo, entryRepo, stubSessionManager{}, nil, nil, zap.NewNop())
	return NewBankAccountHandler(accountService, ledgerService)
}

func setupLedgerHandler(accountRepo *MockBankAccountRepository, entryRepo *MockLedgerEntryRepository) *LedgerHandler {
	ledgerService := bankingapp.NewLedgerService(accountRepo, entryRepo, stubSessionManager{}, nil, nil, zap.NewNop())
	return NewLedgerHandler(ledgerService)
}

func setupTransferHandler(accountRepo *MockBankAccountRepository, entryRepo *MockLedgerEntryRepository, enabled bool) *TransferHandler {
	ledgerService := bankingapp.NewLedgerService(accountRepo, entryRepo, stubSessionManager{}, nil, nil, zap.NewNop())
	transferService := bankingapp.NewTransferService(accountRepo, ledgerService, stubSessionManager{}, nil, zap.NewNop(), enabled)
	return NewTransferHandler(transferService)
}

func setupPaymentHandler(paymentRepo *MockPaymentRepository, accountRepo *MockBankAccountRepository, entryRepo *MockLedgerEntryRepository) *PaymentHandler {
	ledgerService := bankingapp.NewLedgerService(accountRepo, entryRepo, stubSessionManager{}, nil, nil, zap.NewNop())
	paymentService := bankingapp.NewPaymentService(paymentRepo, accountRepo, ledgerService, stubSessionManager{}, nil, nil, zap.NewNop())
	return NewPaymentHandler(paymentService)
}

func setupReconciliationHandler(
	accountRepo *MockBankAccountRepository,
	entryRepo *MockLedgerEntryRepository,
	statementRepo *MockBankStatementRepository,
	reconRepo *MockReconciliationRepository,
) *ReconciliationHandler {
	reconciliationService := bankingapp.NewReconciliationService(
		accountRepo, entryRepo, statementRepo, reconRepo, stubSessionManager{}, nil, zap.NewNop())
	return NewReconciliationHandler(reconciliationService)
}

// Fixtures

func createTestBankAccount(tenantID uuid.UUID, balance int64) *banking.BankAccount {
	account, _ := banking.NewBankAccount(tenantID, "Test Bank", "ACC-"+uuid.NewString()[:8],
		banking.AccountTypeChecking, valueobject.USD, decimal.NewFromInt(balance))
	account.ClearDomainEvents()
	return account
}

func createTestLedgerEntry(tenantID, accountID uuid.UUID, amount int64) *banking.LedgerEntry {
	money, _ := valueobject.NewMoney(decimal.NewFromInt(amount), valueobject.USD)
	entry, _ := banking.NewLedgerEntry(tenantID, accountID, banking.DirectionCredit,
		banking.ChannelCardTerminal, money, decimal.NewFromInt(amount), "test settlement")
	entry.ClearDomainEvents()
	return entry
}

func createTestPayment(tenantID uuid.UUID, key string) *banking.Payment {
	money, _ := valueobject.NewMoney(decimal.NewFromInt(50), valueobject.USD)
	payment, _ := banking.NewPayment(tenantID, banking.PaymentKindCollection, "CASH", money, key, nil, "")
	payment.ClearDomainEvents()
	return payment
}
