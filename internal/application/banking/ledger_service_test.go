package banking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hospos/backend/internal/domain/banking"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLedgerService(accountRepo *MockBankAccountRepository, entryRepo *MockLedgerEntryRepository, publisher *MockEventPublisher) *LedgerService {
	var pub shared.EventPublisher
	if publisher != nil {
		pub = publisher
	}
	return NewLedgerService(accountRepo, entryRepo, stubSessionManager{}, pub, nil, zap.NewNop())
}

func buildEntry(t *testing.T, tenantID, accountID uuid.UUID, direction banking.EntryDirection, amount int64) *banking.LedgerEntry {
	t.Helper()
	money, err := valueobject.NewMoney(decimal.NewFromInt(amount), valueobject.USD)
	require.NoError(t, err)
	entry, err := banking.NewLedgerEntry(tenantID, accountID, direction, banking.ChannelWireTransfer, money, decimal.NewFromInt(amount), "supplier payment")
	require.NoError(t, err)
	entry.ClearDomainEvents()
	return entry
}

func TestLedgerService_CreateEntry(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("credit increments balance without guard", func(t *testing.T) {
		accountRepo := new(MockBankAccountRepository)
		entryRepo := new(MockLedgerEntryRepository)
		service := newLedgerService(accountRepo, entryRepo, nil)

		account := buildAccount(t, tenantID, 1000)
		accountRepo.On("FindByIDInSession", ctx, mock.Anything, tenantID, account.ID).Return(account, nil)
		accountRepo.On("AdjustBalance", ctx, mock.Anything, tenantID, account.ID, decimal.NewFromInt(500), false).Return(true, nil)
		entryRepo.On("Save", ctx, mock.Anything, mock.AnythingOfType("*banking.LedgerEntry")).Return(nil)

		resp, err := service.CreateEntry(ctx, tenantID, CreateEntryInput{
			AccountID:   account.ID,
			Direction:   "CREDIT",
			Channel:     "CARD_TERMINAL",
			Amount:      decimal.NewFromInt(500),
			Description: "card settlement batch",
		})
		require.NoError(t, err)

		assert.Equal(t, "CREDIT", resp.Direction)
		assert.Equal(t, "CARD_TERMINAL", resp.Channel)
		assert.True(t, resp.SignedAmount.Equal(decimal.NewFromInt(500)))
		assert.True(t, resp.BalanceAfter.Equal(decimal.NewFromInt(1500)))
		assert.Equal(t, "PENDING", resp.Status)
		accountRepo.AssertExpectations(t)
		entryRepo.AssertExpectations(t)
	})

	t.Run("debit decrements balance with guard", func(t *testing.T) {
		accountRepo := new(MockBankAccountRepository)
		entryRepo := new(MockLedgerEntryRepository)
		service := newLedgerService(accountRepo, entryRepo, nil)

		account := buildAccount(t, tenantID, 1000)
		accountRepo.On("FindByIDInSession", ctx, mock.Anything, tenantID, account.ID).Return(account, nil)
		accountRepo.On("AdjustBalance", ctx, mock.Anything, tenantID, account.ID, decimal.NewFromInt(-800), true).Return(true, nil)
		entryRepo.On("Save", ctx, mock.Anything, mock.AnythingOfType("*banking.LedgerEntry")).Return(nil)

		resp, err := service.CreateEntry(ctx, tenantID, CreateEntryInput{
			AccountID:   account.ID,
			Direction:   "DEBIT",
			Channel:     "WIRE_TRANSFER",
			Amount:      decimal.NewFromInt(800),
			Description: "rent payment",
		})
		require.NoError(t, err)

		assert.True(t, resp.SignedAmount.Equal(decimal.NewFromInt(-800)))
		assert.True(t, resp.BalanceAfter.Equal(decimal.NewFromInt(200)))
		accountRepo.AssertExpectations(t)
	})

	t.Run("debit exceeding balance is rejected", func(t *testing.T) {
		accountRepo := new(MockBankAccountRepository)
		entryRepo := new(MockLedgerEntryRepository)
		service := newLedgerService(accountRepo, entryRepo, nil)

		account := buildAccount(t, tenantID, 100)
		accountRepo.On("FindByIDInSession", ctx, mock.Anything, tenantID, account.ID).Return(account, nil)
		accountRepo.On("AdjustBalance", ctx, mock.Anything, tenantID, account.ID, decimal.NewFromInt(-500), true).Return(false, nil)

		_, err := service.CreateEntry(ctx, tenantID, CreateEntryInput{
			AccountID:   account.ID,
			Direction:   "DEBIT",
			Channel:     "WIRE_TRANSFER",
			Amount:      decimal.NewFromInt(500),
			Description: "rent payment",
		})
		assert.ErrorIs(t, err, shared.ErrInsufficientBalance)
		entryRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid direction", func(t *testing.T) {
		service := newLedgerService(new(MockBankAccountRepository), new(MockLedgerEntryRepository), nil)

		_, err := service.CreateEntry(ctx, tenantID, CreateEntryInput{
			AccountID:   uuid.New(),
			Direction:   "SIDEWAYS",
			Channel:     "OTHER",
			Amount:      decimal.NewFromInt(10),
			Description: "x",
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_DIRECTION", domainErr.Code)
	})

	t.Run("inactive account is rejected", func(t *testing.T) {
		accountRepo := new(MockBankAccountRepository)
		service := newLedgerService(accountRepo, new(MockLedgerEntryRepository), nil)

		account := buildAccount(t, tenantID, 1000)
		account.Deactivate()
		accountRepo.On("FindByIDInSession", ctx, mock.Anything, tenantID, account.ID).Return(account, nil)

		_, err := service.CreateEntry(ctx, tenantID, CreateEntryInput{
			AccountID:   account.ID,
			Direction:   "CREDIT",
			Channel:     "OTHER",
			Amount:      decimal.NewFromInt(10),
			Description: "x",
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_INACTIVE", domainErr.Code)
	})

	t.Run("unknown account", func(t *testing.T) {
		accountRepo := new(MockBankAccountRepository)
		service := newLedgerService(accountRepo, new(MockLedgerEntryRepository), nil)

		id := uuid.New()
		accountRepo.On("FindByIDInSession", ctx, mock.Anything, tenantID, id).Return(nil, nil)

		_, err := service.CreateEntry(ctx, tenantID, CreateEntryInput{
			AccountID:   id,
			Direction:   "CREDIT",
			Channel:     "OTHER",
			Amount:      decimal.NewFromInt(10),
			Description: "x",
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})

	t.Run("non-positive amount is rejected", func(t *testing.T) {
		accountRepo := new(MockBankAccountRepository)
		service := newLedgerService(accountRepo, new(MockLedgerEntryRepository), nil)

		account := buildAccount(t, tenantID, 1000)
		accountRepo.On("FindByIDInSession", ctx, mock.Anything, tenantID, account.ID).Return(account, nil)

		_, err := service.CreateEntry(ctx, tenantID, CreateEntryInput{
			AccountID:   account.ID,
			Direction:   "CREDIT",
			Channel:     "OTHER",
			Amount:      decimal.Zero,
			Description: "x",
		})
		assert.Error(t, err)
	})
}

func TestLedgerService_ManualReconcile(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	performedBy := uuid.New()

	t.Run("marks entry manually matched and publishes event", func(t *testing.T) {
		entryRepo := new(MockLedgerEntryRepository)
		publisher := new(MockEventPublisher)
		service := newLedgerService(new(MockBankAccountRepository), entryRepo, publisher)

		entry := buildEntry(t, tenantID, uuid.New(), banking.DirectionDebit, 300)
		entryRepo.On("FindByID", ctx, tenantID, entry.ID).Return(entry, nil)
		entryRepo.On("Update", ctx, mock.Anything, entry).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		declaredDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
		resp, err := service.ManualReconcile(ctx, tenantID, entry.ID, ManualReconcileInput{
			DeclaredAmount:    decimal.NewFromInt(300),
			DeclaredReference: "BNK-88412",
			DeclaredDate:      declaredDate,
			PerformedBy:       performedBy,
		})
		require.NoError(t, err)

		assert.Equal(t, "MANUALLY_MATCHED", resp.Status)
		assert.NotNil(t, resp.ReconciledAt)
		assert.Equal(t, "300", resp.Metadata[banking.MetaDeclaredAmount])
		assert.Equal(t, "BNK-88412", resp.Metadata[banking.MetaDeclaredReference])
		publisher.AssertExpectations(t)
	})

	t.Run("already reconciled entry is rejected", func(t *testing.T) {
		entryRepo := new(MockLedgerEntryRepository)
		service := newLedgerService(new(MockBankAccountRepository), entryRepo, nil)

		entry := buildEntry(t, tenantID, uuid.New(), banking.DirectionCredit, 100)
		require.NoError(t, entry.MarkMatched(uuid.New(), uuid.New(), performedBy))
		entryRepo.On("FindByID", ctx, tenantID, entry.ID).Return(entry, nil)

		_, err := service.ManualReconcile(ctx, tenantID, entry.ID, ManualReconcileInput{
			DeclaredAmount: decimal.NewFromInt(100),
			DeclaredDate:   time.Now(),
			PerformedBy:    performedBy,
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_MATCHED", domainErr.Code)
	})

	t.Run("unknown entry", func(t *testing.T) {
		entryRepo := new(MockLedgerEntryRepository)
		service := newLedgerService(new(MockBankAccountRepository), entryRepo, nil)

		id := uuid.New()
		entryRepo.On("FindByID", ctx, tenantID, id).Return(nil, nil)

		_, err := service.ManualReconcile(ctx, tenantID, id, ManualReconcileInput{
			DeclaredAmount: decimal.NewFromInt(100),
			DeclaredDate:   time.Now(),
			PerformedBy:    performedBy,
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})
}

func TestLedgerService_VerifyBalance(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("consistent ledger", func(t *testing.T) {
		accountRepo := new(MockBankAccountRepository)
		entryRepo := new(MockLedgerEntryRepository)
		service := newLedgerService(accountRepo, entryRepo, nil)

		account := buildAccount(t, tenantID, 1000)
		account.ApplyDelta(decimal.NewFromInt(250))
		accountRepo.On("FindByID", ctx, tenantID, account.ID).Return(account, nil)
		entryRepo.On("SumSignedAmounts", ctx, tenantID, account.ID).Return(decimal.NewFromInt(250), nil)

		result, err := service.VerifyBalance(ctx, tenantID, account.ID)
		require.NoError(t, err)

		assert.True(t, result.Consistent)
		assert.True(t, result.Drift.IsZero())
		assert.True(t, result.ComputedBalance.Equal(decimal.NewFromInt(1250)))
	})

	t.Run("drift is reported", func(t *testing.T) {
		accountRepo := new(MockBankAccountRepository)
		entryRepo := new(MockLedgerEntryRepository)
		service := newLedgerService(accountRepo, entryRepo, nil)

		account := buildAccount(t, tenantID, 1000)
		accountRepo.On("FindByID", ctx, tenantID, account.ID).Return(account, nil)
		entryRepo.On("SumSignedAmounts", ctx, tenantID, account.ID).Return(decimal.NewFromInt(-75), nil)

		result, err := service.VerifyBalance(ctx, tenantID, account.ID)
		require.NoError(t, err)

		assert.False(t, result.Consistent)
		assert.True(t, result.ComputedBalance.Equal(decimal.NewFromInt(925)))
		assert.True(t, result.Drift.Equal(decimal.NewFromInt(75)))
	})

	t.Run("unknown account", func(t *testing.T) {
		accountRepo := new(MockBankAccountRepository)
		service := newLedgerService(accountRepo, new(MockLedgerEntryRepository), nil)

		id := uuid.New()
		accountRepo.On("FindByID", ctx, tenantID, id).Return(nil, nil)

		_, err := service.VerifyBalance(ctx, tenantID, id)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})
}

func TestLedgerService_ListEntries(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	entryRepo := new(MockLedgerEntryRepository)
	service := newLedgerService(new(MockBankAccountRepository), entryRepo, nil)

	entries := []*banking.LedgerEntry{
		buildEntry(t, tenantID, uuid.New(), banking.DirectionCredit, 100),
		buildEntry(t, tenantID, uuid.New(), banking.DirectionDebit, 40),
	}
	entryRepo.On("List", ctx, tenantID, mock.Anything).Return(
		shared.NewPaginated(entries, 2, 1, 20), nil)

	page, err := service.ListEntries(ctx, tenantID, banking.LedgerEntryFilter{})
	require.NoError(t, err)

	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Items, 2)
	assert.True(t, page.Items[0].SignedAmount.Equal(decimal.NewFromInt(100)))
	assert.True(t, page.Items[1].SignedAmount.Equal(decimal.NewFromInt(-40)))
}
