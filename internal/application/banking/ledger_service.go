package banking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hospos/backend/internal/domain/banking"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LedgerService provides application-level ledger operations. Every entry
// creation pairs the append with the matching balance increment inside one
// transaction.
type LedgerService struct {
	accountRepo banking.BankAccountRepository
	entryRepo   banking.LedgerEntryRepository
	sessions    banking.SessionManager
	publisher   shared.EventPublisher
	alerts      *AlertService
	logger      *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	accountRepo banking.BankAccountRepository,
	entryRepo banking.LedgerEntryRepository,
	sessions banking.SessionManager,
	publisher shared.EventPublisher,
	alerts *AlertService,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		sessions:    sessions,
		publisher:   publisher,
		alerts:      alerts,
		logger:      logger,
	}
}

// CreateEntryInput carries the data for recording a ledger entry
type CreateEntryInput struct {
	AccountID       uuid.UUID
	Direction       string
	Channel         string
	Amount          decimal.Decimal // positive
	Description     string
	Reference       string
	Counterpart     banking.Counterpart
	TransactionDate *time.Time
	PaymentID       *uuid.UUID
	Metadata        map[string]string
}

// CreateEntry records a movement against an account. Debits are guarded:
// the balance check runs inside the same transaction as the increment, so
// concurrent debits cannot overdraw the account.
func (s *LedgerService) CreateEntry(ctx context.Context, tenantID uuid.UUID, input CreateEntryInput) (*LedgerEntryResponse, error) {
	direction := banking.EntryDirection(input.Direction)
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Direction must be CREDIT or DEBIT")
	}

	var entry *banking.LedgerEntry
	var account *banking.BankAccount

	err := s.sessions.RunInSession(ctx, func(session banking.Session) error {
		var err error
		account, entry, err = s.appendEntry(ctx, session, tenantID, input)
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.alerts != nil {
		s.alerts.CheckAccount(ctx, account)
	}

	return toLedgerEntryResponse(entry), nil
}

// appendEntry performs the guarded balance increment plus entry insert
// within the caller's session. Shared by CreateEntry, transfers, and the
// payment bridge.
func (s *LedgerService) appendEntry(ctx context.Context, session banking.Session, tenantID uuid.UUID, input CreateEntryInput) (*banking.BankAccount, *banking.LedgerEntry, error) {
	direction := banking.EntryDirection(input.Direction)

	account, err := s.accountRepo.FindByIDInSession(ctx, session, tenantID, input.AccountID)
	if err != nil {
		return nil, nil, err
	}
	if account == nil {
		return nil, nil, shared.NewDomainError("NOT_FOUND", "Bank account not found")
	}
	if !account.IsActive {
		return nil, nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Cannot record entries against an inactive account")
	}

	amount, err := valueobject.NewMoney(input.Amount, account.Currency)
	if err != nil {
		return nil, nil, err
	}
	if !amount.IsPositive() {
		return nil, nil, shared.NewDomainError("INVALID_AMOUNT", "Entry amount must be positive")
	}

	delta := input.Amount
	guard := false
	if direction == banking.DirectionDebit {
		delta = input.Amount.Neg()
		guard = true
	}

	ok, err := s.accountRepo.AdjustBalance(ctx, session, tenantID, input.AccountID, delta, guard)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, shared.ErrInsufficientBalance
	}
	account.ApplyDelta(delta)

	entry, err := banking.NewLedgerEntry(
		tenantID,
		input.AccountID,
		direction,
		banking.EntryChannel(input.Channel),
		amount,
		account.CurrentBalance,
		input.Description,
	)
	if err != nil {
		return nil, nil, err
	}

	entry.WithReference(input.Reference).WithCounterpart(input.Counterpart)
	if input.TransactionDate != nil {
		entry.WithTransactionDate(*input.TransactionDate)
	}
	if input.PaymentID != nil {
		entry.WithPaymentID(*input.PaymentID)
	}
	if len(input.Metadata) > 0 {
		entry.WithMetadata(input.Metadata)
	}

	if err := s.entryRepo.Save(ctx, session, entry); err != nil {
		return nil, nil, err
	}

	return account, entry, nil
}

// GetEntry returns a ledger entry by ID
func (s *LedgerService) GetEntry(ctx context.Context, tenantID, id uuid.UUID) (*LedgerEntryResponse, error) {
	entry, err := s.entryRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Ledger entry not found")
	}
	return toLedgerEntryResponse(entry), nil
}

// ListEntries lists ledger entries with filtering and pagination
func (s *LedgerService) ListEntries(ctx context.Context, tenantID uuid.UUID, filter banking.LedgerEntryFilter) (shared.Paginated[*LedgerEntryResponse], error) {
	page, err := s.entryRepo.List(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[*LedgerEntryResponse]{}, err
	}

	responses := make([]*LedgerEntryResponse, len(page.Items))
	for i, entry := range page.Items {
		responses[i] = toLedgerEntryResponse(entry)
	}
	return shared.NewPaginated(responses, page.Total, page.Page, page.PageSize), nil
}

// ManualReconcileInput carries the declared bank-side values for a manual
// reconciliation
type ManualReconcileInput struct {
	DeclaredAmount    decimal.Decimal
	DeclaredReference string
	DeclaredDate      time.Time
	PerformedBy       uuid.UUID
}

// ManualReconcile marks an entry reconciled outside the statement workflow
func (s *LedgerService) ManualReconcile(ctx context.Context, tenantID, entryID uuid.UUID, input ManualReconcileInput) (*LedgerEntryResponse, error) {
	entry, err := s.entryRepo.FindByID(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Ledger entry not found")
	}

	if err := entry.ManuallyReconcile(input.DeclaredAmount, input.DeclaredReference, input.DeclaredDate, input.PerformedBy); err != nil {
		return nil, err
	}

	err = s.sessions.RunInSession(ctx, func(session banking.Session) error {
		return s.entryRepo.Update(ctx, session, entry)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, entry.GetDomainEvents())
	entry.ClearDomainEvents()

	s.logger.Info("ledger entry manually reconciled",
		zap.String("tenant_id", tenantID.String()),
		zap.String("entry_id", entryID.String()),
		zap.String("performed_by", input.PerformedBy.String()),
	)

	return toLedgerEntryResponse(entry), nil
}

// VerifyBalanceResult reports whether an account's stored balance matches
// its ledger
type VerifyBalanceResult struct {
	AccountID       uuid.UUID       `json:"account_id"`
	StoredBalance   decimal.Decimal `json:"stored_balance"`
	ComputedBalance decimal.Decimal `json:"computed_balance"`
	Drift           decimal.Decimal `json:"drift"`
	Consistent      bool            `json:"consistent"`
}

// VerifyBalance recomputes initial + sum(signed entries) and compares it
// against the stored balance
func (s *LedgerService) VerifyBalance(ctx context.Context, tenantID, accountID uuid.UUID) (*VerifyBalanceResult, error) {
	account, err := s.accountRepo.FindByID(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Bank account not found")
	}

	sum, err := s.entryRepo.SumSignedAmounts(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}

	computed := account.InitialBalance.Add(sum)
	drift := account.CurrentBalance.Sub(computed)

	return &VerifyBalanceResult{
		AccountID:       accountID,
		StoredBalance:   account.CurrentBalance,
		ComputedBalance: computed,
		Drift:           drift,
		Consistent:      drift.IsZero(),
	}, nil
}

func (s *LedgerService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}
