package banking

import (
	"context"

	"github.com/google/uuid"
	"github.com/hospos/backend/internal/domain/banking"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/domain/shared/valueobject"
	"github.com/hospos/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentService bridges external collections and disbursements into the
// ledger. Creation is idempotent on (tenant, idempotency key): retried
// requests return the original payment instead of creating a duplicate.
type PaymentService struct {
	paymentRepo   banking.PaymentRepository
	accountRepo   banking.BankAccountRepository
	ledger        *LedgerService
	sessions      banking.SessionManager
	publisher     shared.EventPublisher
	alerts        *AlertService
	logger        *zap.Logger
	autoReconcile bool
}

// PaymentServiceOption configures a PaymentService
type PaymentServiceOption func(*PaymentService)

// WithPaymentAutoReconcile stamps account-carrying payments reconciled at
// confirmation time, bypassing statement matching
func WithPaymentAutoReconcile(enabled bool) PaymentServiceOption {
	return func(s *PaymentService) {
		s.autoReconcile = enabled
	}
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo banking.PaymentRepository,
	accountRepo banking.BankAccountRepository,
	ledger *LedgerService,
	sessions banking.SessionManager,
	publisher shared.EventPublisher,
	alerts *AlertService,
	logger *zap.Logger,
	opts ...PaymentServiceOption,
) *PaymentService {
	s := &PaymentService{
		paymentRepo: paymentRepo,
		accountRepo: accountRepo,
		ledger:      ledger,
		sessions:    sessions,
		publisher:   publisher,
		alerts:      alerts,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreatePaymentInput carries the data for registering a payment
type CreatePaymentInput struct {
	Kind           string
	Method         string
	Amount         decimal.Decimal
	Currency       string
	IdempotencyKey string
	AccountID      *uuid.UUID
	BankReference  string
	Counterpart    banking.Counterpart
	Description    string
}

// CreatePaymentResult wraps the payment and whether it was newly created
type CreatePaymentResult struct {
	Payment *PaymentResponse `json:"payment"`
	Created bool             `json:"created"`
}

// CreatePayment registers a draft payment. Replaying the same idempotency
// key returns the existing payment with Created=false.
func (s *PaymentService) CreatePayment(ctx context.Context, tenantID uuid.UUID, input CreatePaymentInput) (*CreatePaymentResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "create",
		telemetry.WithAttribute(telemetry.SpanAttrPaymentMethod, input.Method),
		telemetry.WithAttribute(telemetry.SpanAttrIdempotencyKey, input.IdempotencyKey),
	)
	defer span.End()

	if input.IdempotencyKey == "" {
		return nil, shared.NewDomainError("INVALID_IDEMPOTENCY_KEY", "Idempotency key is required")
	}

	existing, err := s.paymentRepo.FindByIdempotencyKey(ctx, tenantID, input.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &CreatePaymentResult{Payment: toPaymentResponse(existing), Created: false}, nil
	}

	amount, err := valueobject.NewMoney(input.Amount, valueobject.Currency(input.Currency))
	if err != nil {
		return nil, err
	}

	if input.AccountID != nil {
		account, err := s.accountRepo.FindByID(ctx, tenantID, *input.AccountID)
		if err != nil {
			return nil, err
		}
		if account == nil {
			return nil, shared.NewDomainError("NOT_FOUND", "Bank account not found")
		}
		if account.Currency != amount.CurrencyCode() {
			return nil, shared.NewDomainError("CURRENCY_MISMATCH", "Payment currency does not match the account")
		}
	}

	payment, err := banking.NewPayment(
		tenantID,
		banking.PaymentKind(input.Kind),
		input.Method,
		amount,
		input.IdempotencyKey,
		input.AccountID,
		input.BankReference,
	)
	if err != nil {
		return nil, err
	}
	payment.WithCounterpart(input.Counterpart).WithDescription(input.Description)

	err = s.sessions.RunInSession(ctx, func(session banking.Session) error {
		return s.paymentRepo.Save(ctx, session, payment)
	})
	if err != nil {
		// A concurrent request with the same key may have won the insert.
		if winner, findErr := s.paymentRepo.FindByIdempotencyKey(ctx, tenantID, input.IdempotencyKey); findErr == nil && winner != nil {
			return &CreatePaymentResult{Payment: toPaymentResponse(winner), Created: false}, nil
		}
		return nil, err
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrPaymentID, payment.ID.String())

	s.logger.Info("payment created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("payment_id", payment.ID.String()),
		zap.String("kind", payment.Kind.String()),
		zap.String("method", payment.Method),
	)

	return &CreatePaymentResult{Payment: toPaymentResponse(payment), Created: true}, nil
}

// GetPayment returns a payment by ID
func (s *PaymentService) GetPayment(ctx context.Context, tenantID, id uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Payment not found")
	}
	return toPaymentResponse(payment), nil
}

// ListPayments lists payments with filtering and pagination
func (s *PaymentService) ListPayments(ctx context.Context, tenantID uuid.UUID, filter banking.PaymentFilter) (shared.Paginated[*PaymentResponse], error) {
	page, err := s.paymentRepo.List(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[*PaymentResponse]{}, err
	}

	responses := make([]*PaymentResponse, len(page.Items))
	for i, payment := range page.Items {
		responses[i] = toPaymentResponse(payment)
	}
	return shared.NewPaginated(responses, page.Total, page.Page, page.PageSize), nil
}

// ConfirmPayment settles a draft payment. Bank-settled payments produce a
// ledger entry and balance update in the same transaction as the status
// change.
func (s *PaymentService) ConfirmPayment(ctx context.Context, tenantID, id uuid.UUID) (*PaymentResponse, error) {
	var payment *banking.Payment
	var account *banking.BankAccount
	var entry *banking.LedgerEntry

	err := s.sessions.RunInSession(ctx, func(session banking.Session) error {
		var err error
		payment, err = s.paymentRepo.FindByIDInSession(ctx, session, tenantID, id)
		if err != nil {
			return err
		}
		if payment == nil {
			return shared.NewDomainError("NOT_FOUND", "Payment not found")
		}
		if payment.Status == banking.PaymentStatusConfirmed {
			return nil
		}

		var entryID *uuid.UUID
		if payment.IsBankSettled() {
			account, entry, err = s.ledger.appendEntry(ctx, session, tenantID, CreateEntryInput{
				AccountID:   *payment.AccountID,
				Direction:   payment.Kind.EntryDirection().String(),
				Channel:     banking.ChannelFromPaymentMethod(payment.Method).String(),
				Amount:      payment.Amount,
				Description: paymentDescription(payment),
				Reference:   payment.BankReference,
				Counterpart: payment.Counterpart,
				PaymentID:   &payment.ID,
			})
			if err != nil {
				return err
			}
			entryID = &entry.ID
		}

		if err := payment.Confirm(entryID); err != nil {
			return err
		}
		if s.autoReconcile && payment.AccountID != nil {
			payment.MarkAutoReconciled("auto-reconciled on confirmation")
		}
		return s.paymentRepo.Update(ctx, session, payment)
	})
	if err != nil {
		return nil, err
	}

	if s.alerts != nil && account != nil {
		s.alerts.CheckAccount(ctx, account)
	}

	s.publishEvents(ctx, payment.GetDomainEvents())
	payment.ClearDomainEvents()

	return toPaymentResponse(payment), nil
}

// RefundPayment reverses a confirmed payment. The original ledger entry is
// never mutated; a reversing entry in the opposite direction is appended.
func (s *PaymentService) RefundPayment(ctx context.Context, tenantID, id uuid.UUID, reason string) (*PaymentResponse, error) {
	var payment *banking.Payment
	var account *banking.BankAccount

	err := s.sessions.RunInSession(ctx, func(session banking.Session) error {
		var err error
		payment, err = s.paymentRepo.FindByIDInSession(ctx, session, tenantID, id)
		if err != nil {
			return err
		}
		if payment == nil {
			return shared.NewDomainError("NOT_FOUND", "Payment not found")
		}

		var reversalID *uuid.UUID
		if payment.IsBankSettled() {
			description := "Refund: " + paymentDescription(payment)
			if reason != "" {
				description = description + " (" + reason + ")"
			}

			var reversal *banking.LedgerEntry
			account, reversal, err = s.ledger.appendEntry(ctx, session, tenantID, CreateEntryInput{
				AccountID:   *payment.AccountID,
				Direction:   payment.Kind.EntryDirection().Opposite().String(),
				Channel:     banking.ChannelFromPaymentMethod(payment.Method).String(),
				Amount:      payment.Amount,
				Description: description,
				Reference:   payment.BankReference,
				Counterpart: payment.Counterpart,
				PaymentID:   &payment.ID,
			})
			if err != nil {
				return err
			}
			reversalID = &reversal.ID
		}

		if err := payment.Refund(reversalID); err != nil {
			return err
		}
		return s.paymentRepo.Update(ctx, session, payment)
	})
	if err != nil {
		return nil, err
	}

	if s.alerts != nil && account != nil {
		s.alerts.CheckAccount(ctx, account)
	}

	s.logger.Info("payment refunded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("payment_id", id.String()),
	)

	return toPaymentResponse(payment), nil
}

// VoidPayment cancels a draft payment before confirmation
func (s *PaymentService) VoidPayment(ctx context.Context, tenantID, id uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Payment not found")
	}

	if err := payment.Void(); err != nil {
		return nil, err
	}

	err = s.sessions.RunInSession(ctx, func(session banking.Session) error {
		return s.paymentRepo.Update(ctx, session, payment)
	})
	if err != nil {
		return nil, err
	}

	return toPaymentResponse(payment), nil
}

func paymentDescription(p *banking.Payment) string {
	if p.Description != "" {
		return p.Description
	}
	if p.Kind == banking.PaymentKindCollection {
		return "Customer collection via " + p.Method
	}
	return "Supplier disbursement via " + p.Method
}

func (s *PaymentService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}
