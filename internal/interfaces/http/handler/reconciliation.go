package handler

import (
	"time"

	bankingapp "github.com/hospos/backend/internal/application/banking"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReconciliationHandler handles statement import and reconciliation endpoints
type ReconciliationHandler struct {
	BaseHandler
	reconciliationService *bankingapp.ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler
func NewReconciliationHandler(reconciliationService *bankingapp.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{
		reconciliationService: reconciliationService,
	}
}

// StatementLineRequest carries one raw line of an imported statement
// @Description One line of a bank statement
type StatementLineRequest struct {
	Date        time.Time `json:"date" binding:"required"`
	Description string    `json:"description" binding:"required,min=1,max=500" example:"CARD SETTLEMENT 1142"`
	Reference   string    `json:"reference" binding:"max=200" example:"SETTLE-2026-08-1142"`
	Amount      float64   `json:"amount" binding:"required" example:"129.90"`
}

// ImportStatementRequest represents a statement import
// @Description Request body for importing a bank statement
type ImportStatementRequest struct {
	AccountID      string                 `json:"account_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	PeriodStart    time.Time              `json:"period_start" binding:"required"`
	PeriodEnd      time.Time              `json:"period_end" binding:"required"`
	OpeningBalance float64                `json:"opening_balance" example:"2500.00"`
	ClosingBalance float64                `json:"closing_balance" example:"3804.50"`
	Lines          []StatementLineRequest `json:"lines" binding:"required,min=1,dive"`
	SourceFileName string                 `json:"source_file_name" binding:"max=255" example:"statement-2026-08.csv"`
}

// MatchLineRequest represents a statement line to ledger entry match
// @Description Request body for matching a statement line to a ledger entry
type MatchLineRequest struct {
	LineID  string `json:"line_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440010"`
	EntryID string `json:"entry_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440011"`
	Manual  bool   `json:"manual" example:"false"`
}

// CompleteReconciliationRequest represents the completion of a session
// @Description Request body for completing a reconciliation session
type CompleteReconciliationRequest struct {
	Notes string `json:"notes" binding:"max=1000" example:"August close, two fees outstanding"`
}

// Import godoc
// @ID           importBankStatement
// @Summary      Import a bank statement
// @Description  Record a statement for later reconciliation. Periods overlapping an existing statement of the same account are rejected.
// @Tags         bank-reconciliation
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        request body ImportStatementRequest true "Statement import request"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/statements [post]
func (h *ReconciliationHandler) Import(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req ImportStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	lines := make([]bankingapp.StatementLineInput, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = bankingapp.StatementLineInput{
			Date:        l.Date,
			Description: l.Description,
			Reference:   l.Reference,
			Amount:      decimal.NewFromFloat(l.Amount),
		}
	}

	statement, err := h.reconciliationService.ImportStatement(c.Request.Context(), tenantID, bankingapp.ImportStatementInput{
		AccountID:      accountID,
		PeriodStart:    req.PeriodStart,
		PeriodEnd:      req.PeriodEnd,
		OpeningBalance: decimal.NewFromFloat(req.OpeningBalance),
		ClosingBalance: decimal.NewFromFloat(req.ClosingBalance),
		Lines:          lines,
		SourceFileName: req.SourceFileName,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, statement)
}

// GetStatement godoc
// @ID           getBankStatementById
// @Summary      Get bank statement by ID
// @Tags         bank-reconciliation
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Statement ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/statements/{id} [get]
func (h *ReconciliationHandler) GetStatement(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid statement ID")
		return
	}

	statement, err := h.reconciliationService.GetStatement(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, statement)
}

// ListStatements godoc
// @ID           listBankStatements
// @Summary      List bank statements
// @Tags         bank-reconciliation
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        account_id query string false "Account ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{meta=dto.Meta}
// @Security     BearerAuth
// @Router       /banking/statements [get]
func (h *ReconciliationHandler) ListStatements(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var query struct {
		AccountID string `form:"account_id" binding:"omitempty,uuid"`
		Page      int    `form:"page"`
		PageSize  int    `form:"page_size"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var accountID *uuid.UUID
	if query.AccountID != "" {
		id, err := uuid.Parse(query.AccountID)
		if err != nil {
			h.BadRequest(c, "Invalid account ID")
			return
		}
		accountID = &id
	}

	filter := shared.Filter{Page: query.Page, PageSize: query.PageSize}
	page, err := h.reconciliationService.ListStatements(c.Request.Context(), tenantID, accountID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Start godoc
// @ID           startReconciliation
// @Summary      Start a reconciliation session
// @Description  Open a reconciliation session for an imported statement. A statement can only have one session.
// @Tags         bank-reconciliation
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Statement ID" format(uuid)
// @Success      201 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/statements/{id}/reconcile [post]
func (h *ReconciliationHandler) Start(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	statementID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid statement ID")
		return
	}

	userID, _ := getUserID(c)

	recon, err := h.reconciliationService.StartReconciliation(c.Request.Context(), tenantID, statementID, userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, recon)
}

// GetByID godoc
// @ID           getReconciliationById
// @Summary      Get reconciliation session by ID
// @Tags         bank-reconciliation
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Reconciliation ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/reconciliations/{id} [get]
func (h *ReconciliationHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid reconciliation ID")
		return
	}

	recon, err := h.reconciliationService.GetReconciliation(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, recon)
}

// MatchLine godoc
// @ID           matchStatementLine
// @Summary      Match a statement line to a ledger entry
// @Description  Link a statement line with a pending ledger entry. Amount, direction and account must agree.
// @Tags         bank-reconciliation
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Reconciliation ID" format(uuid)
// @Param        request body MatchLineRequest true "Match request"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/reconciliations/{id}/match [post]
func (h *ReconciliationHandler) MatchLine(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	reconciliationID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid reconciliation ID")
		return
	}

	var req MatchLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lineID, err := uuid.Parse(req.LineID)
	if err != nil {
		h.BadRequest(c, "Invalid line ID")
		return
	}
	entryID, err := uuid.Parse(req.EntryID)
	if err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}

	userID, _ := getUserID(c)

	recon, err := h.reconciliationService.MatchLine(c.Request.Context(), tenantID, reconciliationID, bankingapp.MatchLineInput{
		LineID:      lineID,
		EntryID:     entryID,
		PerformedBy: userID,
		Manual:      req.Manual,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, recon)
}

// UnmatchLine godoc
// @ID           unmatchStatementLine
// @Summary      Undo a statement line match
// @Description  Release the line and return its entry to pending. Only allowed while the session is in progress.
// @Tags         bank-reconciliation
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Reconciliation ID" format(uuid)
// @Param        lineId path string true "Statement line ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/reconciliations/{id}/lines/{lineId}/unmatch [post]
func (h *ReconciliationHandler) UnmatchLine(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	reconciliationID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid reconciliation ID")
		return
	}

	lineID, err := parseUUIDParam(c, "lineId")
	if err != nil {
		h.BadRequest(c, "Invalid line ID")
		return
	}

	recon, err := h.reconciliationService.UnmatchLine(c.Request.Context(), tenantID, reconciliationID, lineID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, recon)
}

// Complete godoc
// @ID           completeReconciliation
// @Summary      Complete a reconciliation session
// @Description  Close the session. Unmatched lines stay outstanding and are counted in the result.
// @Tags         bank-reconciliation
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Reconciliation ID" format(uuid)
// @Param        request body CompleteReconciliationRequest false "Completion notes"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/reconciliations/{id}/complete [post]
func (h *ReconciliationHandler) Complete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	reconciliationID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid reconciliation ID")
		return
	}

	var req CompleteReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.BadRequest(c, err.Error())
		return
	}

	userID, _ := getUserID(c)

	recon, err := h.reconciliationService.CompleteReconciliation(c.Request.Context(), tenantID, reconciliationID, userID, req.Notes)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, recon)
}

// Suggest godoc
// @ID           suggestReconciliationMatches
// @Summary      Suggest matches for unmatched lines
// @Description  Propose candidate ledger entries per unmatched line based on amount, direction and date proximity. Exact reference matches sort first.
// @Tags         bank-reconciliation
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Reconciliation ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/reconciliations/{id}/suggestions [get]
func (h *ReconciliationHandler) Suggest(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	reconciliationID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid reconciliation ID")
		return
	}

	suggestions, err := h.reconciliationService.SuggestMatches(c.Request.Context(), tenantID, reconciliationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, suggestions)
}

// Repair godoc
// @ID           repairReconciliation
// @Summary      Repair reconciliation counters
// @Description  Recompute the session counters from the statement lines when they have drifted
// @Tags         bank-reconciliation
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Reconciliation ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/reconciliations/{id}/repair [post]
func (h *ReconciliationHandler) Repair(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	reconciliationID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid reconciliation ID")
		return
	}

	recon, err := h.reconciliationService.RepairReconciliation(c.Request.Context(), tenantID, reconciliationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, recon)
}
