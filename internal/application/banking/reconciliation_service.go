package banking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hospos/backend/internal/domain/banking"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultSuggestionWindowDays bounds how far a candidate entry's date may
// sit from the statement line date during match suggestion.
const DefaultSuggestionWindowDays = 5

// ReconciliationService drives the statement import and matching workflow
type ReconciliationService struct {
	accountRepo   banking.BankAccountRepository
	entryRepo     banking.LedgerEntryRepository
	statementRepo banking.BankStatementRepository
	reconRepo     banking.ReconciliationRepository
	sessions      banking.SessionManager
	publisher     shared.EventPublisher
	logger        *zap.Logger
	windowDays    int
}

// ReconciliationServiceOption is a functional option for configuring
// ReconciliationService
type ReconciliationServiceOption func(*ReconciliationService)

// WithSuggestionWindowDays overrides the date window for match suggestion
func WithSuggestionWindowDays(days int) ReconciliationServiceOption {
	return func(s *ReconciliationService) {
		if days > 0 {
			s.windowDays = days
		}
	}
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(
	accountRepo banking.BankAccountRepository,
	entryRepo banking.LedgerEntryRepository,
	statementRepo banking.BankStatementRepository,
	reconRepo banking.ReconciliationRepository,
	sessions banking.SessionManager,
	publisher shared.EventPublisher,
	logger *zap.Logger,
	opts ...ReconciliationServiceOption,
) *ReconciliationService {
	s := &ReconciliationService{
		accountRepo:   accountRepo,
		entryRepo:     entryRepo,
		statementRepo: statementRepo,
		reconRepo:     reconRepo,
		sessions:      sessions,
		publisher:     publisher,
		logger:        logger,
		windowDays:    DefaultSuggestionWindowDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StatementLineInput carries one raw statement line during import
type StatementLineInput struct {
	Date        time.Time
	Description string
	Reference   string
	Amount      decimal.Decimal
}

// ImportStatementInput carries the data of a statement import
type ImportStatementInput struct {
	AccountID      uuid.UUID
	PeriodStart    time.Time
	PeriodEnd      time.Time
	OpeningBalance decimal.Decimal
	ClosingBalance decimal.Decimal
	Lines          []StatementLineInput
	SourceFileName string
}

// ImportStatement records a bank statement for later reconciliation.
// Overlapping periods for the same account are rejected.
func (s *ReconciliationService) ImportStatement(ctx context.Context, tenantID uuid.UUID, input ImportStatementInput) (*StatementResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, tenantID, input.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Bank account not found")
	}

	overlap, err := s.statementRepo.FindOverlapping(ctx, tenantID, input.AccountID, input.PeriodStart, input.PeriodEnd)
	if err != nil {
		return nil, err
	}
	if overlap != nil {
		return nil, shared.NewDomainError("PERIOD_OVERLAP", "A statement already covers part of this period")
	}

	lines := make([]banking.StatementLineInput, len(input.Lines))
	for i, l := range input.Lines {
		lines[i] = banking.StatementLineInput{
			Date:        l.Date,
			Description: l.Description,
			Reference:   l.Reference,
			Amount:      l.Amount,
		}
	}

	statement, err := banking.NewBankStatement(
		tenantID,
		input.AccountID,
		account.Currency,
		input.PeriodStart,
		input.PeriodEnd,
		input.OpeningBalance,
		input.ClosingBalance,
		lines,
	)
	if err != nil {
		return nil, err
	}
	statement.WithSourceFileName(input.SourceFileName)

	err = s.sessions.RunInSession(ctx, func(session banking.Session) error {
		return s.statementRepo.Save(ctx, session, statement)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, statement.GetDomainEvents())
	statement.ClearDomainEvents()

	s.logger.Info("bank statement imported",
		zap.String("tenant_id", tenantID.String()),
		zap.String("statement_id", statement.ID.String()),
		zap.String("account_id", input.AccountID.String()),
		zap.Int("line_count", len(statement.Lines)),
	)

	return toStatementResponse(statement), nil
}

// GetStatement returns a statement by ID
func (s *ReconciliationService) GetStatement(ctx context.Context, tenantID, id uuid.UUID) (*StatementResponse, error) {
	statement, err := s.statementRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if statement == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Bank statement not found")
	}
	return toStatementResponse(statement), nil
}

// ListStatements lists statements, optionally scoped to one account
func (s *ReconciliationService) ListStatements(ctx context.Context, tenantID uuid.UUID, accountID *uuid.UUID, filter shared.Filter) (shared.Paginated[*StatementResponse], error) {
	page, err := s.statementRepo.List(ctx, tenantID, accountID, filter)
	if err != nil {
		return shared.Paginated[*StatementResponse]{}, err
	}

	responses := make([]*StatementResponse, len(page.Items))
	for i, statement := range page.Items {
		responses[i] = toStatementResponse(statement)
	}
	return shared.NewPaginated(responses, page.Total, page.Page, page.PageSize), nil
}

// StartReconciliation opens a matching session over an imported statement.
// Starting twice returns the existing session.
func (s *ReconciliationService) StartReconciliation(ctx context.Context, tenantID, statementID, startedBy uuid.UUID) (*ReconciliationResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "reconciliation", "start",
		telemetry.WithAttribute(telemetry.SpanAttrStatementID, statementID.String()),
	)
	defer span.End()

	existing, err := s.reconRepo.FindByStatementID(ctx, tenantID, statementID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return toReconciliationResponse(existing), nil
	}

	statement, err := s.statementRepo.FindByID(ctx, tenantID, statementID)
	if err != nil {
		return nil, err
	}
	if statement == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Bank statement not found")
	}

	if err := statement.BeginReconciliation(); err != nil {
		return nil, err
	}

	recon, err := banking.NewReconciliation(tenantID, statementID, statement.AccountID, startedBy, len(statement.Lines))
	if err != nil {
		return nil, err
	}

	err = s.sessions.RunInSession(ctx, func(session banking.Session) error {
		if err := s.statementRepo.Update(ctx, session, statement); err != nil {
			return err
		}
		return s.reconRepo.Save(ctx, session, recon)
	})
	if err != nil {
		return nil, err
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrReconciliationID, recon.ID.String())

	s.logger.Info("reconciliation started",
		zap.String("tenant_id", tenantID.String()),
		zap.String("statement_id", statementID.String()),
		zap.String("reconciliation_id", recon.ID.String()),
	)

	return toReconciliationResponse(recon), nil
}

// GetReconciliation returns a reconciliation session by ID
func (s *ReconciliationService) GetReconciliation(ctx context.Context, tenantID, id uuid.UUID) (*ReconciliationResponse, error) {
	recon, err := s.reconRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if recon == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Reconciliation not found")
	}
	return toReconciliationResponse(recon), nil
}

// MatchLineInput identifies the line and entry to link
type MatchLineInput struct {
	LineID      uuid.UUID
	EntryID     uuid.UUID
	PerformedBy uuid.UUID
	Manual      bool
}

// MatchLine links a statement line to a ledger entry. The line, the entry,
// and the session counters update atomically.
func (s *ReconciliationService) MatchLine(ctx context.Context, tenantID, reconciliationID uuid.UUID, input MatchLineInput) (*ReconciliationResponse, error) {
	var recon *banking.Reconciliation
	var entry *banking.LedgerEntry

	err := s.sessions.RunInSession(ctx, func(session banking.Session) error {
		var err error
		recon, err = s.reconRepo.FindByIDInSession(ctx, session, tenantID, reconciliationID)
		if err != nil {
			return err
		}
		if recon == nil {
			return shared.NewDomainError("NOT_FOUND", "Reconciliation not found")
		}

		statement, err := s.statementRepo.FindByIDInSession(ctx, session, tenantID, recon.StatementID)
		if err != nil {
			return err
		}
		if statement == nil {
			return shared.NewDomainError("NOT_FOUND", "Bank statement not found")
		}

		entry, err = s.entryRepo.FindByIDInSession(ctx, session, tenantID, input.EntryID)
		if err != nil {
			return err
		}
		if entry == nil {
			return shared.NewDomainError("NOT_FOUND", "Ledger entry not found")
		}

		line := statement.FindLine(input.LineID)
		if line == nil {
			return shared.NewDomainError("LINE_NOT_FOUND", "Statement line not found")
		}

		if entry.AccountID != statement.AccountID {
			return shared.NewDomainError("ACCOUNT_MISMATCH", "Entry belongs to a different account than the statement")
		}
		if !input.Manual {
			if !line.AbsAmount().Equal(entry.Amount) {
				return shared.NewDomainError("AMOUNT_MISMATCH", "Line and entry amounts differ")
			}
			if line.Direction() != entry.Direction {
				return shared.NewDomainError("DIRECTION_MISMATCH", "Line and entry directions differ")
			}
		}

		if err := statement.MatchLine(input.LineID, input.EntryID, input.Manual); err != nil {
			return err
		}
		if err := entry.MarkMatched(reconciliationID, input.LineID, input.PerformedBy); err != nil {
			return err
		}
		if err := recon.RecordMatch(input.EntryID); err != nil {
			return err
		}

		if err := s.statementRepo.Update(ctx, session, statement); err != nil {
			return err
		}
		if err := s.entryRepo.Update(ctx, session, entry); err != nil {
			return err
		}
		return s.reconRepo.Update(ctx, session, recon)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, entry.GetDomainEvents())
	entry.ClearDomainEvents()

	return toReconciliationResponse(recon), nil
}

// UnmatchLine reverts a matched statement line, returning the entry to
// pending and decrementing the session counters
func (s *ReconciliationService) UnmatchLine(ctx context.Context, tenantID, reconciliationID, lineID uuid.UUID) (*ReconciliationResponse, error) {
	var recon *banking.Reconciliation
	var entry *banking.LedgerEntry

	err := s.sessions.RunInSession(ctx, func(session banking.Session) error {
		var err error
		recon, err = s.reconRepo.FindByIDInSession(ctx, session, tenantID, reconciliationID)
		if err != nil {
			return err
		}
		if recon == nil {
			return shared.NewDomainError("NOT_FOUND", "Reconciliation not found")
		}

		statement, err := s.statementRepo.FindByIDInSession(ctx, session, tenantID, recon.StatementID)
		if err != nil {
			return err
		}
		if statement == nil {
			return shared.NewDomainError("NOT_FOUND", "Bank statement not found")
		}

		entryID, err := statement.UnmatchLine(lineID)
		if err != nil {
			return err
		}

		entry, err = s.entryRepo.FindByIDInSession(ctx, session, tenantID, entryID)
		if err != nil {
			return err
		}
		if entry == nil {
			return shared.NewDomainError("NOT_FOUND", "Ledger entry not found")
		}

		if err := entry.MarkPending(); err != nil {
			return err
		}
		if err := recon.RecordUnmatch(entryID); err != nil {
			return err
		}

		if err := s.statementRepo.Update(ctx, session, statement); err != nil {
			return err
		}
		if err := s.entryRepo.Update(ctx, session, entry); err != nil {
			return err
		}
		return s.reconRepo.Update(ctx, session, recon)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, entry.GetDomainEvents())
	entry.ClearDomainEvents()

	return toReconciliationResponse(recon), nil
}

// CompleteReconciliation finalizes the session and its statement.
// Outstanding lines are allowed and stay reported in the summary.
func (s *ReconciliationService) CompleteReconciliation(ctx context.Context, tenantID, reconciliationID, completedBy uuid.UUID, notes string) (*ReconciliationResponse, error) {
	var recon *banking.Reconciliation

	err := s.sessions.RunInSession(ctx, func(session banking.Session) error {
		var err error
		recon, err = s.reconRepo.FindByIDInSession(ctx, session, tenantID, reconciliationID)
		if err != nil {
			return err
		}
		if recon == nil {
			return shared.NewDomainError("NOT_FOUND", "Reconciliation not found")
		}

		statement, err := s.statementRepo.FindByIDInSession(ctx, session, tenantID, recon.StatementID)
		if err != nil {
			return err
		}
		if statement == nil {
			return shared.NewDomainError("NOT_FOUND", "Bank statement not found")
		}

		if err := recon.Complete(completedBy, notes); err != nil {
			return err
		}
		if err := statement.MarkReconciled(); err != nil {
			return err
		}

		if err := s.statementRepo.Update(ctx, session, statement); err != nil {
			return err
		}
		return s.reconRepo.Update(ctx, session, recon)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, recon.GetDomainEvents())
	recon.ClearDomainEvents()

	s.logger.Info("reconciliation completed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("reconciliation_id", reconciliationID.String()),
		zap.Int("matched", recon.MatchedCount),
		zap.Int("outstanding", recon.OutstandingCount),
	)

	return toReconciliationResponse(recon), nil
}

// MatchSuggestion pairs an unmatched line with candidate ledger entries
type MatchSuggestion struct {
	Line       StatementLineResponse  `json:"line"`
	Candidates []*LedgerEntryResponse `json:"candidates"`
}

// SuggestMatches proposes pending entries for each unmatched line of the
// statement. Candidates must match amount and direction and fall within the
// date window; exact reference matches sort first.
func (s *ReconciliationService) SuggestMatches(ctx context.Context, tenantID, reconciliationID uuid.UUID) ([]MatchSuggestion, error) {
	recon, err := s.reconRepo.FindByID(ctx, tenantID, reconciliationID)
	if err != nil {
		return nil, err
	}
	if recon == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Reconciliation not found")
	}

	statement, err := s.statementRepo.FindByID(ctx, tenantID, recon.StatementID)
	if err != nil {
		return nil, err
	}
	if statement == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Bank statement not found")
	}

	window := time.Duration(s.windowDays) * 24 * time.Hour
	from := statement.PeriodStart.Add(-window)
	to := statement.PeriodEnd.Add(window)

	pending, err := s.entryRepo.ListUnreconciled(ctx, tenantID, statement.AccountID, from, to)
	if err != nil {
		return nil, err
	}

	suggestions := make([]MatchSuggestion, 0)
	claimed := make(map[uuid.UUID]bool)

	for _, line := range statement.UnmatchedLines() {
		candidates := make([]*banking.LedgerEntry, 0)
		for _, entry := range pending {
			if claimed[entry.ID] {
				continue
			}
			if !entry.Amount.Equal(line.AbsAmount()) || entry.Direction != line.Direction() {
				continue
			}
			gap := entry.TransactionDate.Sub(line.Date)
			if gap < 0 {
				gap = -gap
			}
			if gap > window {
				continue
			}
			candidates = append(candidates, entry)
		}
		if len(candidates) == 0 {
			continue
		}

		// Exact reference matches first, then closest date.
		sortCandidates(candidates, line)

		// A single unambiguous candidate is taken off the table for
		// subsequent lines.
		if len(candidates) == 1 {
			claimed[candidates[0].ID] = true
		}

		responses := make([]*LedgerEntryResponse, len(candidates))
		for i, entry := range candidates {
			responses[i] = toLedgerEntryResponse(entry)
		}
		suggestions = append(suggestions, MatchSuggestion{
			Line: StatementLineResponse{
				ID:          line.ID,
				LineNumber:  line.LineNumber,
				Date:        line.Date,
				Description: line.Description,
				Reference:   line.Reference,
				Amount:      line.Amount,
				Status:      string(line.Status),
			},
			Candidates: responses,
		})
	}

	return suggestions, nil
}

func sortCandidates(candidates []*banking.LedgerEntry, line banking.StatementLine) {
	score := func(e *banking.LedgerEntry) (int, time.Duration) {
		refRank := 1
		if line.Reference != "" && e.Reference == line.Reference {
			refRank = 0
		}
		gap := e.TransactionDate.Sub(line.Date)
		if gap < 0 {
			gap = -gap
		}
		return refRank, gap
	}
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0; j-- {
			aRank, aGap := score(candidates[j])
			bRank, bGap := score(candidates[j-1])
			if aRank < bRank || (aRank == bRank && aGap < bGap) {
				candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
			} else {
				break
			}
		}
	}
}

// RepairReconciliation rebuilds the session counters and entry linkage from
// the statement lines after a partial failure left them inconsistent
func (s *ReconciliationService) RepairReconciliation(ctx context.Context, tenantID, reconciliationID uuid.UUID) (*ReconciliationResponse, error) {
	var recon *banking.Reconciliation

	err := s.sessions.RunInSession(ctx, func(session banking.Session) error {
		var err error
		recon, err = s.reconRepo.FindByIDInSession(ctx, session, tenantID, reconciliationID)
		if err != nil {
			return err
		}
		if recon == nil {
			return shared.NewDomainError("NOT_FOUND", "Reconciliation not found")
		}

		statement, err := s.statementRepo.FindByIDInSession(ctx, session, tenantID, recon.StatementID)
		if err != nil {
			return err
		}
		if statement == nil {
			return shared.NewDomainError("NOT_FOUND", "Bank statement not found")
		}

		if err := recon.Rebuild(statement); err != nil {
			return err
		}

		// Align entry statuses with the statement lines.
		for i := range statement.Lines {
			line := &statement.Lines[i]
			if line.MatchedEntryID == nil {
				continue
			}
			entry, err := s.entryRepo.FindByIDInSession(ctx, session, tenantID, *line.MatchedEntryID)
			if err != nil {
				return err
			}
			if entry == nil || entry.IsReconciled() {
				continue
			}
			if err := entry.MarkMatched(reconciliationID, line.ID, recon.StartedBy); err != nil {
				return err
			}
			if err := s.entryRepo.Update(ctx, session, entry); err != nil {
				return err
			}
			entry.ClearDomainEvents()
		}

		return s.reconRepo.Update(ctx, session, recon)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reconciliation repaired",
		zap.String("tenant_id", tenantID.String()),
		zap.String("reconciliation_id", reconciliationID.String()),
		zap.Int("matched", recon.MatchedCount),
		zap.Int("outstanding", recon.OutstandingCount),
	)

	return toReconciliationResponse(recon), nil
}

func (s *ReconciliationService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}
