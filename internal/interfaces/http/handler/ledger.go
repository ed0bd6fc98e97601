package handler

import (
	"time"

	bankingapp "github.com/hospos/backend/internal/application/banking"
	"github.com/hospos/backend/internal/domain/banking"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerHandler handles ledger entry API endpoints
type LedgerHandler struct {
	BaseHandler
	ledgerService *bankingapp.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService *bankingapp.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
	}
}

// CounterpartRequest carries the counterpart details of a movement
// @Description Counterpart details of a bank movement
type CounterpartRequest struct {
	Name          string `json:"name" binding:"max=200" example:"Fresh Produce GmbH"`
	TaxID         string `json:"tax_id" binding:"max=50"`
	Phone         string `json:"phone" binding:"max=50"`
	BankName      string `json:"bank_name" binding:"max=200"`
	AccountNumber string `json:"account_number" binding:"max=64"`
	TerminalID    string `json:"terminal_id" binding:"max=64"`
	CardNumber    string `json:"card_number" binding:"max=32"`
	VoucherNumber string `json:"voucher_number" binding:"max=64"`
}

func (r CounterpartRequest) toDomain() banking.Counterpart {
	return banking.Counterpart{
		Name:          r.Name,
		TaxID:         r.TaxID,
		Phone:         r.Phone,
		BankName:      r.BankName,
		AccountNumber: r.AccountNumber,
		TerminalID:    r.TerminalID,
		CardNumber:    r.CardNumber,
		VoucherNumber: r.VoucherNumber,
	}
}

// CreateLedgerEntryRequest represents a request to record a ledger entry
// @Description Request body for recording a ledger entry
type CreateLedgerEntryRequest struct {
	AccountID       string              `json:"account_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Direction       string              `json:"direction" binding:"required,oneof=CREDIT DEBIT" example:"CREDIT"`
	Channel         string              `json:"channel" binding:"required" example:"MOBILE_PAYMENT"`
	Amount          float64             `json:"amount" binding:"required,gt=0" example:"129.90"`
	Description     string              `json:"description" binding:"required,min=1,max=500" example:"Lunch service card settlements"`
	Reference       string              `json:"reference" binding:"max=200" example:"SETTLE-2026-08-1142"`
	Counterpart     *CounterpartRequest `json:"counterpart"`
	TransactionDate *time.Time          `json:"transaction_date"`
	Metadata        map[string]string   `json:"metadata"`
}

// ManualReconcileRequest represents a manual reconciliation of an entry
// @Description Request body for manually reconciling a ledger entry
type ManualReconcileRequest struct {
	DeclaredAmount    float64   `json:"declared_amount" binding:"required,gt=0" example:"129.90"`
	DeclaredReference string    `json:"declared_reference" binding:"required,min=1,max=200" example:"SETTLE-2026-08-1142"`
	DeclaredDate      time.Time `json:"declared_date" binding:"required"`
}

// ListLedgerEntriesQuery carries the query filters for listing entries
type ListLedgerEntriesQuery struct {
	AccountID       string     `form:"account_id" binding:"omitempty,uuid"`
	Direction       string     `form:"direction" binding:"omitempty,oneof=CREDIT DEBIT"`
	Channel         string     `form:"channel"`
	Status          string     `form:"status"`
	PaymentID       string     `form:"payment_id" binding:"omitempty,uuid"`
	TransferGroupID string     `form:"transfer_group_id" binding:"omitempty,uuid"`
	Reference       string     `form:"reference"`
	Search          string     `form:"search" binding:"max=200"`
	DateFrom        *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo          *time.Time `form:"date_to" time_format:"2006-01-02"`
	AmountMin       *float64   `form:"amount_min"`
	AmountMax       *float64   `form:"amount_max"`
	SortBy          string     `form:"sort_by"`
	SortOrder       string     `form:"sort_order" binding:"omitempty,oneof=asc desc ASC DESC"`
	Page            int        `form:"page"`
	PageSize        int        `form:"page_size"`
}

// Create godoc
// @ID           createLedgerEntry
// @Summary      Record a ledger entry
// @Description  Append a credit or debit movement to an account. Debits that would overdraw the account are rejected.
// @Tags         bank-ledger
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        request body CreateLedgerEntryRequest true "Ledger entry request"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/ledger/entries [post]
func (h *LedgerHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req CreateLedgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	input := bankingapp.CreateEntryInput{
		AccountID:       accountID,
		Direction:       req.Direction,
		Channel:         req.Channel,
		Amount:          decimal.NewFromFloat(req.Amount),
		Description:     req.Description,
		Reference:       req.Reference,
		TransactionDate: req.TransactionDate,
		Metadata:        req.Metadata,
	}
	if req.Counterpart != nil {
		input.Counterpart = req.Counterpart.toDomain()
	}

	entry, err := h.ledgerService.CreateEntry(c.Request.Context(), tenantID, input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, entry)
}

// GetByID godoc
// @ID           getLedgerEntryById
// @Summary      Get ledger entry by ID
// @Tags         bank-ledger
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Entry ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/ledger/entries/{id} [get]
func (h *LedgerHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}

	entry, err := h.ledgerService.GetEntry(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entry)
}

// List godoc
// @ID           listLedgerEntries
// @Summary      List ledger entries
// @Description  Retrieve a paginated list of ledger entries with filtering
// @Tags         bank-ledger
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        account_id query string false "Account ID" format(uuid)
// @Param        direction query string false "Direction" Enums(CREDIT, DEBIT)
// @Param        channel query string false "Channel" Enums(MOBILE_PAYMENT, WIRE_TRANSFER, CARD_TERMINAL, ATM_DEPOSIT, FEE, INTEREST, MANUAL_ADJUSTMENT, OTHER)
// @Param        status query string false "Reconciliation status" Enums(PENDING, MATCHED, MANUALLY_MATCHED, REJECTED, IN_REVIEW)
// @Param        reference query string false "Exact reference match"
// @Param        search query string false "Free-text search across description, reference and counterpart name"
// @Param        date_from query string false "Transaction date lower bound" format(date)
// @Param        date_to query string false "Transaction date upper bound" format(date)
// @Param        amount_min query number false "Minimum amount"
// @Param        amount_max query number false "Maximum amount"
// @Param        sort_by query string false "Sort field" Enums(transaction_date, booking_date, amount, created_at, status, reference)
// @Param        sort_order query string false "Sort direction" Enums(asc, desc)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{meta=dto.Meta}
// @Security     BearerAuth
// @Router       /banking/ledger/entries [get]
func (h *LedgerHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var query ListLedgerEntriesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter, err := query.toFilter()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.ledgerService.ListEntries(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

func (q ListLedgerEntriesQuery) toFilter() (banking.LedgerEntryFilter, error) {
	filter := banking.LedgerEntryFilter{
		Reference: q.Reference,
		DateFrom:  q.DateFrom,
		DateTo:    q.DateTo,
	}
	filter.Page = q.Page
	filter.PageSize = q.PageSize
	filter.Search = q.Search
	filter.OrderBy = q.SortBy
	filter.OrderDir = q.SortOrder

	if q.AccountID != "" {
		id, err := uuid.Parse(q.AccountID)
		if err != nil {
			return filter, err
		}
		filter.AccountID = &id
	}
	if q.PaymentID != "" {
		id, err := uuid.Parse(q.PaymentID)
		if err != nil {
			return filter, err
		}
		filter.PaymentID = &id
	}
	if q.TransferGroupID != "" {
		id, err := uuid.Parse(q.TransferGroupID)
		if err != nil {
			return filter, err
		}
		filter.TransferGroupID = &id
	}
	if q.Direction != "" {
		d := banking.EntryDirection(q.Direction)
		filter.Direction = &d
	}
	if q.Channel != "" {
		ch := banking.EntryChannel(q.Channel)
		filter.Channel = &ch
	}
	if q.Status != "" {
		st := banking.ReconciliationStatus(q.Status)
		filter.Status = &st
	}
	if q.AmountMin != nil {
		filter.AmountMin = toDecimalPtr(*q.AmountMin)
	}
	if q.AmountMax != nil {
		filter.AmountMax = toDecimalPtr(*q.AmountMax)
	}
	return filter, nil
}

// ManualReconcile godoc
// @ID           manualReconcileLedgerEntry
// @Summary      Manually reconcile a ledger entry
// @Description  Mark an entry reconciled outside the statement workflow. The declared amount, reference and date must match the entry.
// @Tags         bank-ledger
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Entry ID" format(uuid)
// @Param        request body ManualReconcileRequest true "Declared bank-side values"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/ledger/entries/{id}/reconcile [post]
func (h *LedgerHandler) ManualReconcile(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}

	var req ManualReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	userID, _ := getUserID(c)

	entry, err := h.ledgerService.ManualReconcile(c.Request.Context(), tenantID, id, bankingapp.ManualReconcileInput{
		DeclaredAmount:    decimal.NewFromFloat(req.DeclaredAmount),
		DeclaredReference: req.DeclaredReference,
		DeclaredDate:      req.DeclaredDate,
		PerformedBy:       userID,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entry)
}
