package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hospos/backend/internal/domain/banking"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormBankAccountRepository implements BankAccountRepository using GORM
type GormBankAccountRepository struct {
	db *gorm.DB
}

// NewGormBankAccountRepository creates a new GormBankAccountRepository
func NewGormBankAccountRepository(db *gorm.DB) *GormBankAccountRepository {
	return &GormBankAccountRepository{db: db}
}

// Save creates a new bank account
func (r *GormBankAccountRepository) Save(ctx context.Context, session banking.Session, account *banking.BankAccount) error {
	var model models.BankAccountModel
	model.FromDomain(account)
	return sessionDB(session, r.db).WithContext(ctx).Create(&model).Error
}

// Update persists changes to an existing bank account
func (r *GormBankAccountRepository) Update(ctx context.Context, session banking.Session, account *banking.BankAccount) error {
	var model models.BankAccountModel
	model.FromDomain(account)
	return sessionDB(session, r.db).WithContext(ctx).Save(&model).Error
}

// FindByID finds a bank account by ID within a tenant
func (r *GormBankAccountRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*banking.BankAccount, error) {
	return r.FindByIDInSession(ctx, nil, tenantID, id)
}

// FindByIDInSession finds a bank account by ID inside an open session
func (r *GormBankAccountRepository) FindByIDInSession(ctx context.Context, session banking.Session, tenantID, id uuid.UUID) (*banking.BankAccount, error) {
	var model models.BankAccountModel
	if err := sessionDB(session, r.db).WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAccountNumber finds a bank account by its account number
func (r *GormBankAccountRepository) FindByAccountNumber(ctx context.Context, tenantID uuid.UUID, accountNumber string) (*banking.BankAccount, error) {
	var model models.BankAccountModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND account_number = ?", tenantID, accountNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List lists bank accounts with filtering and pagination
func (r *GormBankAccountRepository) List(ctx context.Context, tenantID uuid.UUID, filter banking.AccountFilter) (shared.Paginated[*banking.BankAccount], error) {
	var accountModels []models.BankAccountModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.BankAccountModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*banking.BankAccount]{}, err
	}

	orderBy := ValidateSortField(filter.OrderBy, BankAccountSortFields, "bank_name")
	if err := query.
		Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).
		Order("account_number ASC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&accountModels).Error; err != nil {
		return shared.Paginated[*banking.BankAccount]{}, err
	}

	accounts := make([]*banking.BankAccount, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = model.ToDomain()
	}
	return shared.NewPaginated(accounts, total, filter.Page, filter.Limit()), nil
}

// ListActive returns all active accounts of a tenant
func (r *GormBankAccountRepository) ListActive(ctx context.Context, tenantID uuid.UUID) ([]*banking.BankAccount, error) {
	var accountModels []models.BankAccountModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("bank_name ASC, account_number ASC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}
	accounts := make([]*banking.BankAccount, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = model.ToDomain()
	}
	return accounts, nil
}

// AdjustBalance atomically increments the stored balance by delta. When
// guardNonNegative is set the update only applies while the resulting
// balance stays non-negative; the boolean reports whether a row was updated.
func (r *GormBankAccountRepository) AdjustBalance(ctx context.Context, session banking.Session, tenantID, id uuid.UUID, delta decimal.Decimal, guardNonNegative bool) (bool, error) {
	query := sessionDB(session, r.db).WithContext(ctx).
		Model(&models.BankAccountModel{}).
		Where("tenant_id = ? AND id = ?", tenantID, id)
	if guardNonNegative {
		query = query.Where("current_balance + ? >= 0", delta)
	}

	result := query.Updates(map[string]interface{}{
		"current_balance": gorm.Expr("current_balance + ?", delta),
		"updated_at":      time.Now(),
	})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes a bank account
func (r *GormBankAccountRepository) Delete(ctx context.Context, session banking.Session, tenantID, id uuid.UUID) error {
	return sessionDB(session, r.db).WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.BankAccountModel{}).Error
}

// applyFilter applies filter options to the query
func (r *GormBankAccountRepository) applyFilter(query *gorm.DB, filter banking.AccountFilter) *gorm.DB {
	if filter.AccountType != nil {
		query = query.Where("account_type = ?", filter.AccountType.String())
	}
	if filter.Currency != nil {
		query = query.Where("currency = ?", *filter.Currency)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	return query
}

// Ensure GormBankAccountRepository implements BankAccountRepository
var _ banking.BankAccountRepository = (*GormBankAccountRepository)(nil)
