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

// AccountService provides application-level bank account operations
type AccountService struct {
	accountRepo banking.BankAccountRepository
	entryRepo   banking.LedgerEntryRepository
	sessions    banking.SessionManager
	publisher   shared.EventPublisher
	alerts      *AlertService
	logger      *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(
	accountRepo banking.BankAccountRepository,
	entryRepo banking.LedgerEntryRepository,
	sessions banking.SessionManager,
	publisher shared.EventPublisher,
	alerts *AlertService,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		sessions:    sessions,
		publisher:   publisher,
		alerts:      alerts,
		logger:      logger,
	}
}

// CreateAccountInput carries the data for opening a bank account
type CreateAccountInput struct {
	BankName       string
	AccountNumber  string
	AccountType    string
	Currency       string
	InitialBalance decimal.Decimal
	AlertEnabled   bool
	MinimumBalance *decimal.Decimal
}

// CreateAccount registers a new bank account
func (s *AccountService) CreateAccount(ctx context.Context, tenantID uuid.UUID, input CreateAccountInput) (*AccountResponse, error) {
	existing, err := s.accountRepo.FindByAccountNumber(ctx, tenantID, input.AccountNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_ACCOUNT", "An account with this number already exists")
	}

	account, err := banking.NewBankAccount(
		tenantID,
		input.BankName,
		input.AccountNumber,
		banking.AccountType(input.AccountType),
		valueobject.Currency(input.Currency),
		input.InitialBalance,
	)
	if err != nil {
		return nil, err
	}

	if input.AlertEnabled {
		if err := account.ConfigureAlert(true, input.MinimumBalance); err != nil {
			return nil, err
		}
	}

	err = s.sessions.RunInSession(ctx, func(session banking.Session) error {
		return s.accountRepo.Save(ctx, session, account)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, account.GetDomainEvents())
	account.ClearDomainEvents()

	s.logger.Info("bank account created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("account_id", account.ID.String()),
		zap.String("bank_name", account.BankName),
	)

	return toAccountResponse(account), nil
}

// GetAccount returns an account by ID
func (s *AccountService) GetAccount(ctx context.Context, tenantID, id uuid.UUID) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Bank account not found")
	}
	return toAccountResponse(account), nil
}

// ListAccounts lists accounts with filtering and pagination
func (s *AccountService) ListAccounts(ctx context.Context, tenantID uuid.UUID, filter banking.AccountFilter) (shared.Paginated[*AccountResponse], error) {
	page, err := s.accountRepo.List(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[*AccountResponse]{}, err
	}

	responses := make([]*AccountResponse, len(page.Items))
	for i, account := range page.Items {
		responses[i] = toAccountResponse(account)
	}
	return shared.NewPaginated(responses, page.Total, page.Page, page.PageSize), nil
}

// UpdateAccountInput carries updatable account metadata
type UpdateAccountInput struct {
	BankName      string
	AccountNumber string
	AccountType   string
}

// UpdateAccount updates account metadata. Balance fields cannot be changed
// here; use AdjustBalance.
func (s *AccountService) UpdateAccount(ctx context.Context, tenantID, id uuid.UUID, input UpdateAccountInput) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Bank account not found")
	}

	if input.AccountNumber != account.AccountNumber {
		duplicate, err := s.accountRepo.FindByAccountNumber(ctx, tenantID, input.AccountNumber)
		if err != nil {
			return nil, err
		}
		if duplicate != nil {
			return nil, shared.NewDomainError("DUPLICATE_ACCOUNT", "An account with this number already exists")
		}
	}

	if err := account.UpdateDetails(input.BankName, input.AccountNumber, banking.AccountType(input.AccountType)); err != nil {
		return nil, err
	}

	err = s.sessions.RunInSession(ctx, func(session banking.Session) error {
		return s.accountRepo.Update(ctx, session, account)
	})
	if err != nil {
		return nil, err
	}

	return toAccountResponse(account), nil
}

// ConfigureAlertInput carries low-balance alert settings
type ConfigureAlertInput struct {
	Enabled        bool
	MinimumBalance *decimal.Decimal
}

// ConfigureAlert updates the low-balance alert settings of an account
func (s *AccountService) ConfigureAlert(ctx context.Context, tenantID, id uuid.UUID, input ConfigureAlertInput) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Bank account not found")
	}

	if err := account.ConfigureAlert(input.Enabled, input.MinimumBalance); err != nil {
		return nil, err
	}

	err = s.sessions.RunInSession(ctx, func(session banking.Session) error {
		return s.accountRepo.Update(ctx, session, account)
	})
	if err != nil {
		return nil, err
	}

	if s.alerts != nil {
		s.alerts.CheckAccount(ctx, account)
	}

	return toAccountResponse(account), nil
}

// DeactivateAccount soft-disables an account while keeping its ledger
// history intact
func (s *AccountService) DeactivateAccount(ctx context.Context, tenantID, id uuid.UUID) error {
	account, err := s.accountRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if account == nil {
		return shared.NewDomainError("NOT_FOUND", "Bank account not found")
	}
	if !account.IsActive {
		return nil
	}

	account.Deactivate()

	err = s.sessions.RunInSession(ctx, func(session banking.Session) error {
		return s.accountRepo.Update(ctx, session, account)
	})
	if err != nil {
		return err
	}

	s.publishEvents(ctx, account.GetDomainEvents())
	account.ClearDomainEvents()

	return nil
}

// ActivateAccount re-enables a deactivated account
func (s *AccountService) ActivateAccount(ctx context.Context, tenantID, id uuid.UUID) error {
	account, err := s.accountRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if account == nil {
		return shared.NewDomainError("NOT_FOUND", "Bank account not found")
	}
	if account.IsActive {
		return nil
	}

	account.Activate()

	return s.sessions.RunInSession(ctx, func(session banking.Session) error {
		return s.accountRepo.Update(ctx, session, account)
	})
}

// DeleteAccount removes an account that has no ledger history. Accounts
// with entries must be deactivated instead.
func (s *AccountService) DeleteAccount(ctx context.Context, tenantID, id uuid.UUID) error {
	account, err := s.accountRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if account == nil {
		return shared.NewDomainError("NOT_FOUND", "Bank account not found")
	}

	filter := banking.LedgerEntryFilter{AccountID: &id}
	filter.PageSize = 1
	entries, err := s.entryRepo.List(ctx, tenantID, filter)
	if err != nil {
		return err
	}
	if entries.Total > 0 {
		return shared.NewDomainError("ACCOUNT_HAS_ENTRIES", "Accounts with ledger history cannot be deleted, deactivate instead")
	}

	return s.sessions.RunInSession(ctx, func(session banking.Session) error {
		return s.accountRepo.Delete(ctx, session, tenantID, id)
	})
}

// AdjustBalanceInput carries a manual balance adjustment
type AdjustBalanceInput struct {
	Delta       decimal.Decimal // signed: positive credit, negative debit
	Reason      string
	Reference   string
	PerformedBy uuid.UUID
}

// AdjustBalance applies a manual adjustment. The adjustment always goes
// through the ledger so the balance invariant holds.
func (s *AccountService) AdjustBalance(ctx context.Context, tenantID, id uuid.UUID, input AdjustBalanceInput) (*LedgerEntryResponse, error) {
	if input.Delta.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Adjustment delta cannot be zero")
	}
	if input.Reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Adjustment reason is required")
	}

	direction := banking.DirectionCredit
	if input.Delta.IsNegative() {
		direction = banking.DirectionDebit
	}

	var entry *banking.LedgerEntry
	var account *banking.BankAccount

	err := s.sessions.RunInSession(ctx, func(session banking.Session) error {
		var err error
		account, err = s.accountRepo.FindByIDInSession(ctx, session, tenantID, id)
		if err != nil {
			return err
		}
		if account == nil {
			return shared.NewDomainError("NOT_FOUND", "Bank account not found")
		}
		if !account.IsActive {
			return shared.NewDomainError("ACCOUNT_INACTIVE", "Cannot adjust an inactive account")
		}

		ok, err := s.accountRepo.AdjustBalance(ctx, session, tenantID, id, input.Delta, false)
		if err != nil {
			return err
		}
		if !ok {
			return shared.ErrConcurrencyConflict
		}
		account.ApplyDelta(input.Delta)

		amount, err := valueobject.NewMoney(input.Delta.Abs(), account.Currency)
		if err != nil {
			return err
		}

		entry, err = banking.NewLedgerEntry(
			tenantID,
			id,
			direction,
			banking.ChannelManualAdjustment,
			amount,
			account.CurrentBalance,
			input.Reason,
		)
		if err != nil {
			return err
		}
		entry.WithReference(input.Reference).WithMetadata(map[string]string{
			banking.MetaAdjustmentReason: input.Reason,
		})

		return s.entryRepo.Save(ctx, session, entry)
	})
	if err != nil {
		return nil, err
	}

	if s.alerts != nil {
		s.alerts.CheckAccount(ctx, account)
	}

	s.logger.Info("manual balance adjustment applied",
		zap.String("tenant_id", tenantID.String()),
		zap.String("account_id", id.String()),
		zap.String("delta", input.Delta.String()),
		zap.String("entry_id", entry.ID.String()),
	)

	return toLedgerEntryResponse(entry), nil
}

// CurrencySummary aggregates balances of active accounts per currency
type CurrencySummary struct {
	Currency     string          `json:"currency"`
	AccountCount int             `json:"account_count"`
	TotalBalance decimal.Decimal `json:"total_balance"`
}

// AccountsSummary is the dashboard view over all active accounts
type AccountsSummary struct {
	TotalAccounts int               `json:"total_accounts"`
	BelowMinimum  int               `json:"below_minimum"`
	ByCurrency    []CurrencySummary `json:"by_currency"`
	GeneratedAt   time.Time         `json:"generated_at"`
}

// GetSummary aggregates active account balances per currency
func (s *AccountService) GetSummary(ctx context.Context, tenantID uuid.UUID) (*AccountsSummary, error) {
	accounts, err := s.accountRepo.ListActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	byCurrency := make(map[string]*CurrencySummary)
	order := make([]string, 0)
	belowMinimum := 0

	for _, account := range accounts {
		code := string(account.Currency)
		summary, ok := byCurrency[code]
		if !ok {
			summary = &CurrencySummary{Currency: code, TotalBalance: decimal.Zero}
			byCurrency[code] = summary
			order = append(order, code)
		}
		summary.AccountCount++
		summary.TotalBalance = summary.TotalBalance.Add(account.CurrentBalance)
		if account.BelowAlertThreshold() {
			belowMinimum++
		}
	}

	result := &AccountsSummary{
		TotalAccounts: len(accounts),
		BelowMinimum:  belowMinimum,
		ByCurrency:    make([]CurrencySummary, 0, len(order)),
		GeneratedAt:   time.Now(),
	}
	for _, code := range order {
		result.ByCurrency = append(result.ByCurrency, *byCurrency[code])
	}

	return result, nil
}

func (s *AccountService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}
