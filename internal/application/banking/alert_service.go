package banking

import (
	"context"
	"time"

	"github.com/hospos/backend/internal/domain/banking"
	"github.com/hospos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultAlertDebounce is the minimum interval between low-balance alerts
// for the same account.
const DefaultAlertDebounce = 6 * time.Hour

// AlertService watches account balances and notifies operators when an
// account drops to or below its configured minimum. Delivery is best
// effort: alert failures never affect the transaction that moved the money.
type AlertService struct {
	accountRepo banking.BankAccountRepository
	sessions    banking.SessionManager
	sink        banking.NotificationSink
	publisher   shared.EventPublisher
	logger      *zap.Logger
	debounce    time.Duration
	now         func() time.Time
}

// AlertServiceOption is a functional option for configuring AlertService
type AlertServiceOption func(*AlertService)

// WithAlertDebounce overrides the debounce window between repeated alerts
func WithAlertDebounce(d time.Duration) AlertServiceOption {
	return func(s *AlertService) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithAlertClock overrides the clock, used in tests
func WithAlertClock(now func() time.Time) AlertServiceOption {
	return func(s *AlertService) {
		s.now = now
	}
}

// NewAlertService creates a new AlertService
func NewAlertService(
	accountRepo banking.BankAccountRepository,
	sessions banking.SessionManager,
	sink banking.NotificationSink,
	publisher shared.EventPublisher,
	logger *zap.Logger,
	opts ...AlertServiceOption,
) *AlertService {
	s := &AlertService{
		accountRepo: accountRepo,
		sessions:    sessions,
		sink:        sink,
		publisher:   publisher,
		logger:      logger,
		debounce:    DefaultAlertDebounce,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckAccount inspects the account balance after a movement and emits a
// low-balance alert when due. Errors are logged and swallowed.
func (s *AlertService) CheckAccount(ctx context.Context, account *banking.BankAccount) {
	if account == nil || !account.AlertEnabled {
		return
	}

	if !account.BelowAlertThreshold() {
		if account.LastAlertSentAt != nil {
			account.ClearAlertStamp()
			s.persistStamp(ctx, account)
		}
		return
	}

	if !account.AlertDue(s.now(), s.debounce) {
		return
	}

	event := banking.NewLowBalanceAlertEvent(account)
	notification := banking.Notification{
		TenantID: account.TenantID,
		Severity: "warning",
		Title:    "Low balance alert",
		Body: "Account " + account.AccountNumber + " at " + account.BankName +
			" is at " + account.CurrentBalance.String() + " " + string(account.Currency) +
			", below the configured minimum of " + event.MinimumBalance.String(),
		Metadata: map[string]string{
			"account_id":      account.ID.String(),
			"current_balance": account.CurrentBalance.String(),
			"minimum_balance": event.MinimumBalance.String(),
		},
	}

	if err := s.sink.Send(ctx, notification); err != nil {
		s.logger.Error("failed to deliver low balance alert",
			zap.String("account_id", account.ID.String()),
			zap.Error(err),
		)
		return
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish low balance alert event",
				zap.String("account_id", account.ID.String()),
				zap.Error(err),
			)
		}
	}

	account.StampAlertSent(s.now())
	s.persistStamp(ctx, account)

	s.logger.Info("low balance alert sent",
		zap.String("account_id", account.ID.String()),
		zap.String("current_balance", account.CurrentBalance.String()),
	)
}

func (s *AlertService) persistStamp(ctx context.Context, account *banking.BankAccount) {
	err := s.sessions.RunInSession(ctx, func(session banking.Session) error {
		return s.accountRepo.Update(ctx, session, account)
	})
	if err != nil {
		s.logger.Warn("failed to persist alert stamp",
			zap.String("account_id", account.ID.String()),
			zap.Error(err),
		)
	}
}
