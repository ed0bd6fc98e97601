package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hospos/backend/internal/domain/banking"
	"github.com/hospos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// BankAccountModel is the persistence model for bank accounts
type BankAccountModel struct {
	TenantAggregateModel
	BankName        string           `gorm:"size:200;not null"`
	AccountNumber   string           `gorm:"size:64;not null;uniqueIndex:idx_bank_accounts_tenant_number,composite:tenant_id"`
	AccountType     string           `gorm:"size:20;not null"`
	Currency        string           `gorm:"size:3;not null"`
	InitialBalance  decimal.Decimal  `gorm:"type:decimal(20,4);not null"`
	CurrentBalance  decimal.Decimal  `gorm:"type:decimal(20,4);not null"`
	IsActive        bool             `gorm:"not null;default:true;index"`
	AlertEnabled    bool             `gorm:"not null;default:false"`
	MinimumBalance  *decimal.Decimal `gorm:"type:decimal(20,4)"`
	LastAlertSentAt *time.Time
}

// TableName returns the table name for BankAccountModel
func (BankAccountModel) TableName() string {
	return "bank_accounts"
}

// ToDomain converts BankAccountModel to domain BankAccount
func (m *BankAccountModel) ToDomain() *banking.BankAccount {
	return &banking.BankAccount{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		BankName:            m.BankName,
		AccountNumber:       m.AccountNumber,
		AccountType:         banking.AccountType(m.AccountType),
		Currency:            valueobject.Currency(m.Currency),
		InitialBalance:      m.InitialBalance,
		CurrentBalance:      m.CurrentBalance,
		IsActive:            m.IsActive,
		AlertEnabled:        m.AlertEnabled,
		MinimumBalance:      m.MinimumBalance,
		LastAlertSentAt:     m.LastAlertSentAt,
	}
}

// FromDomain populates BankAccountModel from domain BankAccount
func (m *BankAccountModel) FromDomain(a *banking.BankAccount) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.BankName = a.BankName
	m.AccountNumber = a.AccountNumber
	m.AccountType = a.AccountType.String()
	m.Currency = string(a.Currency)
	m.InitialBalance = a.InitialBalance
	m.CurrentBalance = a.CurrentBalance
	m.IsActive = a.IsActive
	m.AlertEnabled = a.AlertEnabled
	m.MinimumBalance = a.MinimumBalance
	m.LastAlertSentAt = a.LastAlertSentAt
}

// LedgerEntryModel is the persistence model for ledger entries
type LedgerEntryModel struct {
	TenantAggregateModel
	AccountID        uuid.UUID             `gorm:"type:uuid;not null;index"`
	Direction        string                `gorm:"size:10;not null"`
	Channel          string                `gorm:"size:30;not null;index"`
	Amount           decimal.Decimal       `gorm:"type:decimal(20,4);not null"`
	Currency         string                `gorm:"size:3;not null"`
	BalanceAfter     decimal.Decimal       `gorm:"type:decimal(20,4);not null"`
	Description      string                `gorm:"size:500;not null"`
	Reference        string                `gorm:"size:200;index"`
	Counterpart      banking.Counterpart   `gorm:"type:jsonb"`
	TransactionDate  time.Time             `gorm:"not null;index"`
	BookingDate      time.Time             `gorm:"not null"`
	Status           string                `gorm:"size:20;not null;index"`
	ReconciliationID *uuid.UUID            `gorm:"type:uuid;index"`
	StatementLineID  *uuid.UUID            `gorm:"type:uuid"`
	PaymentID        *uuid.UUID            `gorm:"type:uuid;index"`
	TransferGroupID  *uuid.UUID            `gorm:"type:uuid;index"`
	ReconciledAt     *time.Time
	ReconciledBy     *uuid.UUID            `gorm:"type:uuid"`
	Metadata         banking.EntryMetadata `gorm:"type:jsonb"`
}

// TableName returns the table name for LedgerEntryModel
func (LedgerEntryModel) TableName() string {
	return "bank_ledger_entries"
}

// ToDomain converts LedgerEntryModel to domain LedgerEntry
func (m *LedgerEntryModel) ToDomain() *banking.LedgerEntry {
	return &banking.LedgerEntry{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		AccountID:           m.AccountID,
		Direction:           banking.EntryDirection(m.Direction),
		Channel:             banking.EntryChannel(m.Channel),
		Amount:              m.Amount,
		Currency:            valueobject.Currency(m.Currency),
		BalanceAfter:        m.BalanceAfter,
		Description:         m.Description,
		Reference:           m.Reference,
		Counterpart:         m.Counterpart,
		TransactionDate:     m.TransactionDate,
		BookingDate:         m.BookingDate,
		Status:              banking.ReconciliationStatus(m.Status),
		ReconciliationID:    m.ReconciliationID,
		StatementLineID:     m.StatementLineID,
		PaymentID:           m.PaymentID,
		TransferGroupID:     m.TransferGroupID,
		ReconciledAt:        m.ReconciledAt,
		ReconciledBy:        m.ReconciledBy,
		Metadata:            m.Metadata,
	}
}

// FromDomain populates LedgerEntryModel from domain LedgerEntry
func (m *LedgerEntryModel) FromDomain(e *banking.LedgerEntry) {
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	m.AccountID = e.AccountID
	m.Direction = e.Direction.String()
	m.Channel = e.Channel.String()
	m.Amount = e.Amount
	m.Currency = string(e.Currency)
	m.BalanceAfter = e.BalanceAfter
	m.Description = e.Description
	m.Reference = e.Reference
	m.Counterpart = e.Counterpart
	m.TransactionDate = e.TransactionDate
	m.BookingDate = e.BookingDate
	m.Status = e.Status.String()
	m.ReconciliationID = e.ReconciliationID
	m.StatementLineID = e.StatementLineID
	m.PaymentID = e.PaymentID
	m.TransferGroupID = e.TransferGroupID
	m.ReconciledAt = e.ReconciledAt
	m.ReconciledBy = e.ReconciledBy
	m.Metadata = e.Metadata
}

// BankStatementModel is the persistence model for bank statements
type BankStatementModel struct {
	TenantAggregateModel
	AccountID      uuid.UUID              `gorm:"type:uuid;not null;index"`
	Currency       string                 `gorm:"size:3;not null"`
	PeriodStart    time.Time              `gorm:"not null;index"`
	PeriodEnd      time.Time              `gorm:"not null;index"`
	OpeningBalance decimal.Decimal        `gorm:"type:decimal(20,4);not null"`
	ClosingBalance decimal.Decimal        `gorm:"type:decimal(20,4);not null"`
	Status         string                 `gorm:"size:20;not null;index"`
	Lines          banking.StatementLines `gorm:"type:jsonb"`
	SourceFileName string                 `gorm:"size:255"`
	ReconciledAt   *time.Time
}

// TableName returns the table name for BankStatementModel
func (BankStatementModel) TableName() string {
	return "bank_statements"
}

// ToDomain converts BankStatementModel to domain BankStatement
func (m *BankStatementModel) ToDomain() *banking.BankStatement {
	return &banking.BankStatement{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		AccountID:           m.AccountID,
		Currency:            valueobject.Currency(m.Currency),
		PeriodStart:         m.PeriodStart,
		PeriodEnd:           m.PeriodEnd,
		OpeningBalance:      m.OpeningBalance,
		ClosingBalance:      m.ClosingBalance,
		Status:              banking.StatementStatus(m.Status),
		Lines:               m.Lines,
		SourceFileName:      m.SourceFileName,
		ReconciledAt:        m.ReconciledAt,
	}
}

// FromDomain populates BankStatementModel from domain BankStatement
func (m *BankStatementModel) FromDomain(s *banking.BankStatement) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.AccountID = s.AccountID
	m.Currency = string(s.Currency)
	m.PeriodStart = s.PeriodStart
	m.PeriodEnd = s.PeriodEnd
	m.OpeningBalance = s.OpeningBalance
	m.ClosingBalance = s.ClosingBalance
	m.Status = s.Status.String()
	m.Lines = s.Lines
	m.SourceFileName = s.SourceFileName
	m.ReconciledAt = s.ReconciledAt
}

// ReconciliationModel is the persistence model for reconciliation sessions
type ReconciliationModel struct {
	TenantAggregateModel
	StatementID      uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex"`
	AccountID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	State            string           `gorm:"size:20;not null;index"`
	TotalCount       int              `gorm:"not null"`
	MatchedCount     int              `gorm:"not null"`
	OutstandingCount int              `gorm:"not null"`
	ClearedEntryIDs  banking.UUIDList `gorm:"type:jsonb"`
	StartedBy        uuid.UUID        `gorm:"type:uuid;not null"`
	CompletedAt      *time.Time
	CompletedBy      *uuid.UUID `gorm:"type:uuid"`
	Notes            string     `gorm:"size:1000"`
}

// TableName returns the table name for ReconciliationModel
func (ReconciliationModel) TableName() string {
	return "bank_reconciliations"
}

// ToDomain converts ReconciliationModel to domain Reconciliation
func (m *ReconciliationModel) ToDomain() *banking.Reconciliation {
	return &banking.Reconciliation{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		StatementID:         m.StatementID,
		AccountID:           m.AccountID,
		State:               banking.ReconciliationState(m.State),
		TotalCount:          m.TotalCount,
		MatchedCount:        m.MatchedCount,
		OutstandingCount:    m.OutstandingCount,
		ClearedEntryIDs:     m.ClearedEntryIDs,
		StartedBy:           m.StartedBy,
		CompletedAt:         m.CompletedAt,
		CompletedBy:         m.CompletedBy,
		Notes:               m.Notes,
	}
}

// FromDomain populates ReconciliationModel from domain Reconciliation
func (m *ReconciliationModel) FromDomain(r *banking.Reconciliation) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.StatementID = r.StatementID
	m.AccountID = r.AccountID
	m.State = r.State.String()
	m.TotalCount = r.TotalCount
	m.MatchedCount = r.MatchedCount
	m.OutstandingCount = r.OutstandingCount
	m.ClearedEntryIDs = r.ClearedEntryIDs
	m.StartedBy = r.StartedBy
	m.CompletedAt = r.CompletedAt
	m.CompletedBy = r.CompletedBy
	m.Notes = r.Notes
}

// PaymentModel is the persistence model for payments
type PaymentModel struct {
	TenantAggregateModel
	Kind               string              `gorm:"size:20;not null;index"`
	Status             string              `gorm:"size:20;not null;index"`
	Method             string              `gorm:"size:50;not null"`
	Amount             decimal.Decimal     `gorm:"type:decimal(20,4);not null"`
	Currency           string              `gorm:"size:3;not null"`
	AccountID          *uuid.UUID          `gorm:"type:uuid;index"`
	BankReference      string              `gorm:"size:200"`
	IdempotencyKey     string              `gorm:"size:128;not null;uniqueIndex:idx_payments_tenant_idem,composite:tenant_id"`
	Counterpart        banking.Counterpart `gorm:"type:jsonb"`
	Description        string              `gorm:"size:500"`
	LedgerEntryID      *uuid.UUID          `gorm:"type:uuid"`
	ReversalEntryID    *uuid.UUID          `gorm:"type:uuid"`
	Reconciled         bool                `gorm:"not null;default:false;index"`
	ReconciliationNote string              `gorm:"size:500"`
	ConfirmedAt        *time.Time
	RefundedAt         *time.Time
	VoidedAt           *time.Time
}

// TableName returns the table name for PaymentModel
func (PaymentModel) TableName() string {
	return "bank_payments"
}

// ToDomain converts PaymentModel to domain Payment
func (m *PaymentModel) ToDomain() *banking.Payment {
	return &banking.Payment{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Kind:                banking.PaymentKind(m.Kind),
		Status:              banking.PaymentStatus(m.Status),
		Method:              m.Method,
		Amount:              m.Amount,
		Currency:            valueobject.Currency(m.Currency),
		AccountID:           m.AccountID,
		BankReference:       m.BankReference,
		IdempotencyKey:      m.IdempotencyKey,
		Counterpart:         m.Counterpart,
		Description:         m.Description,
		LedgerEntryID:       m.LedgerEntryID,
		ReversalEntryID:     m.ReversalEntryID,
		Reconciled:          m.Reconciled,
		ReconciliationNote:  m.ReconciliationNote,
		ConfirmedAt:         m.ConfirmedAt,
		RefundedAt:          m.RefundedAt,
		VoidedAt:            m.VoidedAt,
	}
}

// FromDomain populates PaymentModel from domain Payment
func (m *PaymentModel) FromDomain(p *banking.Payment) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Kind = p.Kind.String()
	m.Status = p.Status.String()
	m.Method = p.Method
	m.Amount = p.Amount
	m.Currency = string(p.Currency)
	m.AccountID = p.AccountID
	m.BankReference = p.BankReference
	m.IdempotencyKey = p.IdempotencyKey
	m.Counterpart = p.Counterpart
	m.Description = p.Description
	m.LedgerEntryID = p.LedgerEntryID
	m.ReversalEntryID = p.ReversalEntryID
	m.Reconciled = p.Reconciled
	m.ReconciliationNote = p.ReconciliationNote
	m.ConfirmedAt = p.ConfirmedAt
	m.RefundedAt = p.RefundedAt
	m.VoidedAt = p.VoidedAt
}
