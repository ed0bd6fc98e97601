package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// Common allowed sort fields for entities with base fields
// These are the common fields present in most entities

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// BankAccountSortFields contains allowed sort fields for bank accounts
var BankAccountSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"bank_name":       true,
	"account_number":  true,
	"account_type":    true,
	"currency":        true,
	"current_balance": true,
	"is_active":       true,
}

// LedgerEntrySortFields contains allowed sort fields for ledger entries
var LedgerEntrySortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"transaction_date": true,
	"booking_date":     true,
	"direction":        true,
	"channel":          true,
	"amount":           true,
	"balance_after":    true,
	"status":           true,
	"reference":        true,
}

// BankStatementSortFields contains allowed sort fields for bank statements
var BankStatementSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"period_start": true,
	"period_end":   true,
	"status":       true,
}

// ReconciliationSortFields contains allowed sort fields for reconciliation sessions
var ReconciliationSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"state":        true,
	"completed_at": true,
}

// PaymentSortFields contains allowed sort fields for payments
var PaymentSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"kind":       true,
	"status":     true,
	"method":     true,
	"amount":     true,
}
