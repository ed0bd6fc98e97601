package banking

import (
	"context"

	"github.com/google/uuid"
	"github.com/hospos/backend/internal/domain/banking"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TransferService moves money between two accounts of the same tenant.
// Both legs commit in a single transaction; the funds check runs inside it.
type TransferService struct {
	accountRepo banking.BankAccountRepository
	ledger      *LedgerService
	sessions    banking.SessionManager
	alerts      *AlertService
	logger      *zap.Logger
	enabled     bool
}

// NewTransferService creates a new TransferService
func NewTransferService(
	accountRepo banking.BankAccountRepository,
	ledger *LedgerService,
	sessions banking.SessionManager,
	alerts *AlertService,
	logger *zap.Logger,
	enabled bool,
) *TransferService {
	return &TransferService{
		accountRepo: accountRepo,
		ledger:      ledger,
		sessions:    sessions,
		alerts:      alerts,
		logger:      logger,
		enabled:     enabled,
	}
}

// TransferInput carries the data for an internal transfer
type TransferInput struct {
	FromAccountID uuid.UUID
	ToAccountID   uuid.UUID
	Amount        decimal.Decimal
	Description   string
	Reference     string
}

// TransferResponse returns both legs of a completed transfer
type TransferResponse struct {
	TransferGroupID uuid.UUID            `json:"transfer_group_id"`
	DebitEntry      *LedgerEntryResponse `json:"debit_entry"`
	CreditEntry     *LedgerEntryResponse `json:"credit_entry"`
}

// Transfer debits the source account and credits the destination atomically.
// Either both ledger entries and both balance updates commit, or none do.
func (s *TransferService) Transfer(ctx context.Context, tenantID uuid.UUID, input TransferInput) (*TransferResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "transfer", "create",
		telemetry.WithAttribute(telemetry.SpanAttrSourceAccountID, input.FromAccountID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrTargetAccountID, input.ToAccountID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrAmount, input.Amount.String()),
	)
	defer span.End()

	if !s.enabled {
		return nil, shared.ErrFeatureDisabled
	}
	if input.FromAccountID == input.ToAccountID {
		return nil, shared.NewDomainError("SAME_ACCOUNT", "Source and destination accounts must differ")
	}
	if !input.Amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Transfer amount must be positive")
	}
	if input.Description == "" {
		input.Description = "Internal transfer"
	}

	groupID := uuid.New()
	var debitEntry, creditEntry *banking.LedgerEntry
	var fromAccount, toAccount *banking.BankAccount

	err := s.sessions.RunInSession(ctx, func(session banking.Session) error {
		from, err := s.accountRepo.FindByIDInSession(ctx, session, tenantID, input.FromAccountID)
		if err != nil {
			return err
		}
		if from == nil {
			return shared.NewDomainError("NOT_FOUND", "Source account not found")
		}
		to, err := s.accountRepo.FindByIDInSession(ctx, session, tenantID, input.ToAccountID)
		if err != nil {
			return err
		}
		if to == nil {
			return shared.NewDomainError("NOT_FOUND", "Destination account not found")
		}
		if from.Currency != to.Currency {
			return shared.NewDomainError("CURRENCY_MISMATCH", "Transfers require both accounts to share a currency")
		}

		metadata := map[string]string{
			banking.MetaTransferPeerAcct: input.ToAccountID.String(),
		}

		fromAccount, debitEntry, err = s.ledger.appendEntry(ctx, session, tenantID, CreateEntryInput{
			AccountID:   input.FromAccountID,
			Direction:   banking.DirectionDebit.String(),
			Channel:     banking.ChannelWireTransfer.String(),
			Amount:      input.Amount,
			Description: input.Description,
			Reference:   input.Reference,
			Metadata:    metadata,
		})
		if err != nil {
			return err
		}
		debitEntry.WithTransferGroupID(groupID)

		toAccount, creditEntry, err = s.ledger.appendEntry(ctx, session, tenantID, CreateEntryInput{
			AccountID:   input.ToAccountID,
			Direction:   banking.DirectionCredit.String(),
			Channel:     banking.ChannelWireTransfer.String(),
			Amount:      input.Amount,
			Description: input.Description,
			Reference:   input.Reference,
			Metadata: map[string]string{
				banking.MetaTransferPeerAcct:  input.FromAccountID.String(),
				banking.MetaTransferPeerEntry: debitEntry.ID.String(),
			},
		})
		if err != nil {
			return err
		}
		creditEntry.WithTransferGroupID(groupID)

		debitEntry.WithMetadata(map[string]string{
			banking.MetaTransferPeerEntry: creditEntry.ID.String(),
		})

		// Re-persist the linkage set after both legs exist.
		if err := s.ledger.entryRepo.Update(ctx, session, debitEntry); err != nil {
			return err
		}
		return s.ledger.entryRepo.Update(ctx, session, creditEntry)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrTransferGroupID, groupID.String())

	// Both balances moved; both accounts get an alert evaluation.
	if s.alerts != nil {
		s.alerts.CheckAccount(ctx, fromAccount)
		s.alerts.CheckAccount(ctx, toAccount)
	}

	s.logger.Info("internal transfer completed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("transfer_group_id", groupID.String()),
		zap.String("from_account_id", input.FromAccountID.String()),
		zap.String("to_account_id", input.ToAccountID.String()),
		zap.String("amount", input.Amount.String()),
	)

	return &TransferResponse{
		TransferGroupID: groupID,
		DebitEntry:      toLedgerEntryResponse(debitEntry),
		CreditEntry:     toLedgerEntryResponse(creditEntry),
	}, nil
}
