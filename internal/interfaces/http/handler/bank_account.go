package handler

import (
	bankingapp "github.com/hospos/backend/internal/application/banking"
	"github.com/hospos/backend/internal/domain/banking"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// BankAccountHandler handles bank account API endpoints
type BankAccountHandler struct {
	BaseHandler
	accountService *bankingapp.AccountService
	ledgerService  *bankingapp.LedgerService
}

// NewBankAccountHandler creates a new BankAccountHandler
func NewBankAccountHandler(accountService *bankingapp.AccountService, ledgerService *bankingapp.LedgerService) *BankAccountHandler {
	return &BankAccountHandler{
		accountService: accountService,
		ledgerService:  ledgerService,
	}
}

// CreateBankAccountRequest represents a request to open a bank account
// @Description Request body for opening a bank account
type CreateBankAccountRequest struct {
	BankName       string   `json:"bank_name" binding:"required,min=1,max=200" example:"First National"`
	AccountNumber  string   `json:"account_number" binding:"required,min=4,max=64" example:"DE89370400440532013000"`
	AccountType    string   `json:"account_type" binding:"required,oneof=CHECKING SAVINGS PAYROLL OTHER" example:"CHECKING"`
	Currency       string   `json:"currency" binding:"required,len=3" example:"EUR"`
	InitialBalance float64  `json:"initial_balance" binding:"gte=0" example:"2500.00"`
	AlertEnabled   bool     `json:"alert_enabled" example:"true"`
	MinimumBalance *float64 `json:"minimum_balance" binding:"omitempty,gte=0" example:"500.00"`
}

// UpdateBankAccountRequest represents a request to update account metadata
// @Description Request body for updating bank account details
type UpdateBankAccountRequest struct {
	BankName      string `json:"bank_name" binding:"required,min=1,max=200" example:"First National"`
	AccountNumber string `json:"account_number" binding:"required,min=4,max=64" example:"DE89370400440532013000"`
	AccountType   string `json:"account_type" binding:"required,oneof=CHECKING SAVINGS PAYROLL OTHER" example:"SAVINGS"`
}

// ConfigureAlertRequest represents a request to change low-balance alerting
// @Description Request body for configuring the low-balance alert
type ConfigureAlertRequest struct {
	Enabled        bool     `json:"enabled" example:"true"`
	MinimumBalance *float64 `json:"minimum_balance" binding:"omitempty,gte=0" example:"500.00"`
}

// AdjustBalanceRequest represents a manual balance adjustment
// @Description Request body for a manual balance adjustment
type AdjustBalanceRequest struct {
	Delta     float64 `json:"delta" binding:"required" example:"-42.50"`
	Reason    string  `json:"reason" binding:"required,min=1,max=500" example:"Cash drawer correction"`
	Reference string  `json:"reference" binding:"max=200" example:"ADJ-2026-017"`
}

// ListBankAccountsQuery carries the query filters for listing accounts
type ListBankAccountsQuery struct {
	AccountType string `form:"account_type" binding:"omitempty,oneof=CHECKING SAVINGS PAYROLL OTHER"`
	Currency    string `form:"currency" binding:"omitempty,len=3"`
	ActiveOnly  bool   `form:"active_only"`
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
}

// Create godoc
// @ID           createBankAccount
// @Summary      Open a bank account
// @Description  Register a new bank account for the tenant
// @Tags         bank-accounts
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        request body CreateBankAccountRequest true "Account creation request"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/accounts [post]
func (h *BankAccountHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := bankingapp.CreateAccountInput{
		BankName:       req.BankName,
		AccountNumber:  req.AccountNumber,
		AccountType:    req.AccountType,
		Currency:       req.Currency,
		InitialBalance: decimal.NewFromFloat(req.InitialBalance),
		AlertEnabled:   req.AlertEnabled,
	}
	if req.MinimumBalance != nil {
		d := decimal.NewFromFloat(*req.MinimumBalance)
		input.MinimumBalance = &d
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), tenantID, input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, account)
}

// GetByID godoc
// @ID           getBankAccountById
// @Summary      Get bank account by ID
// @Tags         bank-accounts
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Account ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/accounts/{id} [get]
func (h *BankAccountHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	account, err := h.accountService.GetAccount(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, account)
}

// List godoc
// @ID           listBankAccounts
// @Summary      List bank accounts
// @Description  Retrieve a paginated list of bank accounts with filtering
// @Tags         bank-accounts
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        account_type query string false "Account type" Enums(CHECKING, SAVINGS, PAYROLL, OTHER)
// @Param        currency query string false "ISO 4217 currency code"
// @Param        active_only query boolean false "Only active accounts"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{meta=dto.Meta}
// @Security     BearerAuth
// @Router       /banking/accounts [get]
func (h *BankAccountHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var query ListBankAccountsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := banking.AccountFilter{
		ActiveOnly: query.ActiveOnly,
	}
	filter.Page = query.Page
	filter.PageSize = query.PageSize
	if query.AccountType != "" {
		t := banking.AccountType(query.AccountType)
		filter.AccountType = &t
	}
	if query.Currency != "" {
		filter.Currency = &query.Currency
	}

	page, err := h.accountService.ListAccounts(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update godoc
// @ID           updateBankAccount
// @Summary      Update bank account details
// @Description  Update account metadata. Balances cannot be changed here.
// @Tags         bank-accounts
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Account ID" format(uuid)
// @Param        request body UpdateBankAccountRequest true "Account update request"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/accounts/{id} [put]
func (h *BankAccountHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var req UpdateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), tenantID, id, bankingapp.UpdateAccountInput{
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		AccountType:   req.AccountType,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, account)
}

// ConfigureAlert godoc
// @ID           configureBankAccountAlert
// @Summary      Configure low-balance alert
// @Tags         bank-accounts
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Account ID" format(uuid)
// @Param        request body ConfigureAlertRequest true "Alert configuration"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/accounts/{id}/alert [put]
func (h *BankAccountHandler) ConfigureAlert(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var req ConfigureAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := bankingapp.ConfigureAlertInput{Enabled: req.Enabled}
	if req.MinimumBalance != nil {
		d := decimal.NewFromFloat(*req.MinimumBalance)
		input.MinimumBalance = &d
	}

	account, err := h.accountService.ConfigureAlert(c.Request.Context(), tenantID, id, input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, account)
}

// Activate godoc
// @ID           activateBankAccount
// @Summary      Activate a bank account
// @Tags         bank-accounts
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Account ID" format(uuid)
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/accounts/{id}/activate [post]
func (h *BankAccountHandler) Activate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	if err := h.accountService.ActivateAccount(c.Request.Context(), tenantID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Deactivate godoc
// @ID           deactivateBankAccount
// @Summary      Deactivate a bank account
// @Description  Deactivated accounts reject new ledger entries but keep their history
// @Tags         bank-accounts
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Account ID" format(uuid)
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/accounts/{id}/deactivate [post]
func (h *BankAccountHandler) Deactivate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	if err := h.accountService.DeactivateAccount(c.Request.Context(), tenantID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Delete godoc
// @ID           deleteBankAccount
// @Summary      Delete a bank account
// @Description  Only accounts without ledger entries can be deleted
// @Tags         bank-accounts
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Account ID" format(uuid)
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/accounts/{id} [delete]
func (h *BankAccountHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), tenantID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Summary godoc
// @ID           getBankAccountsSummary
// @Summary      Treasury summary
// @Description  Aggregate active account balances per currency
// @Tags         bank-accounts
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /banking/accounts/summary [get]
func (h *BankAccountHandler) Summary(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	summary, err := h.accountService.GetSummary(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// AdjustBalance godoc
// @ID           adjustBankAccountBalance
// @Summary      Manually adjust the account balance
// @Description  Records a MANUAL_ADJUSTMENT ledger entry; the balance never changes without one
// @Tags         bank-accounts
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Account ID" format(uuid)
// @Param        request body AdjustBalanceRequest true "Adjustment request"
// @Success      201 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/accounts/{id}/adjust [post]
func (h *BankAccountHandler) AdjustBalance(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var req AdjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	userID, _ := getUserID(c)

	entry, err := h.accountService.AdjustBalance(c.Request.Context(), tenantID, id, bankingapp.AdjustBalanceInput{
		Delta:       decimal.NewFromFloat(req.Delta),
		Reason:      req.Reason,
		Reference:   req.Reference,
		PerformedBy: userID,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, entry)
}

// VerifyBalance godoc
// @ID           verifyBankAccountBalance
// @Summary      Verify the stored balance against the ledger
// @Description  Recomputes initial balance plus the signed sum of all entries and reports drift
// @Tags         bank-accounts
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Account ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/accounts/{id}/verify-balance [get]
func (h *BankAccountHandler) VerifyBalance(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	result, err := h.ledgerService.VerifyBalance(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
