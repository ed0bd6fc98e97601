package banking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hospos/backend/internal/domain/banking"
	"github.com/hospos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// paymentSyncTTL bounds how long processed event IDs are remembered
const paymentSyncTTL = 24 * time.Hour

// PaymentReconciliationHandler keeps payments in sync with their ledger
// entries: when an entry linked to a payment is reconciled or unreconciled,
// the payment's reconciled flag follows. Processing is idempotent per event.
type PaymentReconciliationHandler struct {
	paymentRepo banking.PaymentRepository
	sessions    banking.SessionManager
	idempotency shared.IdempotencyStore
	logger      *zap.Logger
}

// NewPaymentReconciliationHandler creates a new PaymentReconciliationHandler
func NewPaymentReconciliationHandler(
	paymentRepo banking.PaymentRepository,
	sessions banking.SessionManager,
	idempotency shared.IdempotencyStore,
	logger *zap.Logger,
) *PaymentReconciliationHandler {
	return &PaymentReconciliationHandler{
		paymentRepo: paymentRepo,
		sessions:    sessions,
		idempotency: idempotency,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *PaymentReconciliationHandler) EventTypes() []string {
	return []string{"LedgerEntryReconciled", "LedgerEntryUnreconciled"}
}

// Handle processes reconciliation events for entries linked to payments
func (h *PaymentReconciliationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.idempotency != nil {
		fresh, err := h.idempotency.MarkProcessed(ctx, event.EventID().String(), paymentSyncTTL)
		if err != nil {
			h.logger.Warn("idempotency check failed, processing anyway",
				zap.String("event_id", event.EventID().String()),
				zap.Error(err),
			)
		} else if !fresh {
			return nil
		}
	}

	switch e := event.(type) {
	case *banking.LedgerEntryReconciledEvent:
		if e.PaymentID == nil {
			return nil
		}
		return h.syncPayment(ctx, event, *e.PaymentID, true)
	case *banking.LedgerEntryUnreconciledEvent:
		if e.PaymentID == nil {
			return nil
		}
		return h.syncPayment(ctx, event, *e.PaymentID, false)
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
}

func (h *PaymentReconciliationHandler) syncPayment(ctx context.Context, event shared.DomainEvent, paymentID uuid.UUID, reconciled bool) error {
	payment, err := h.paymentRepo.FindByID(ctx, event.TenantID(), paymentID)
	if err != nil {
		return fmt.Errorf("failed to load payment: %w", err)
	}
	if payment == nil {
		h.logger.Warn("reconciliation event references unknown payment",
			zap.String("event_id", event.EventID().String()),
		)
		return nil
	}

	if payment.Reconciled == reconciled {
		return nil
	}

	if reconciled {
		payment.MarkReconciled()
	} else {
		payment.MarkUnreconciled()
	}

	err = h.sessions.RunInSession(ctx, func(session banking.Session) error {
		return h.paymentRepo.Update(ctx, session, payment)
	})
	if err != nil {
		return fmt.Errorf("failed to update payment reconciliation flag: %w", err)
	}

	h.logger.Info("payment reconciliation flag updated",
		zap.String("payment_id", payment.ID.String()),
		zap.Bool("reconciled", reconciled),
	)

	return nil
}

// Ensure PaymentReconciliationHandler implements shared.EventHandler
var _ shared.EventHandler = (*PaymentReconciliationHandler)(nil)
