package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hospos/backend/internal/domain/banking"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBankStatementRepository implements BankStatementRepository using GORM
type GormBankStatementRepository struct {
	db *gorm.DB
}

// NewGormBankStatementRepository creates a new GormBankStatementRepository
func NewGormBankStatementRepository(db *gorm.DB) *GormBankStatementRepository {
	return &GormBankStatementRepository{db: db}
}

// Save creates a new bank statement
func (r *GormBankStatementRepository) Save(ctx context.Context, session banking.Session, statement *banking.BankStatement) error {
	var model models.BankStatementModel
	model.FromDomain(statement)
	return sessionDB(session, r.db).WithContext(ctx).Create(&model).Error
}

// Update persists changes to an existing bank statement
func (r *GormBankStatementRepository) Update(ctx context.Context, session banking.Session, statement *banking.BankStatement) error {
	var model models.BankStatementModel
	model.FromDomain(statement)
	return sessionDB(session, r.db).WithContext(ctx).Save(&model).Error
}

// FindByID finds a bank statement by ID within a tenant
func (r *GormBankStatementRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*banking.BankStatement, error) {
	return r.FindByIDInSession(ctx, nil, tenantID, id)
}

// FindByIDInSession finds a bank statement by ID inside an open session
func (r *GormBankStatementRepository) FindByIDInSession(ctx context.Context, session banking.Session, tenantID, id uuid.UUID) (*banking.BankStatement, error) {
	var model models.BankStatementModel
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

// List lists bank statements, optionally scoped to one account
func (r *GormBankStatementRepository) List(ctx context.Context, tenantID uuid.UUID, accountID *uuid.UUID, filter shared.Filter) (shared.Paginated[*banking.BankStatement], error) {
	var statementModels []models.BankStatementModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.BankStatementModel{}).
		Where("tenant_id = ?", tenantID)
	if accountID != nil {
		query = query.Where("account_id = ?", *accountID)
	}

	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*banking.BankStatement]{}, err
	}

	orderBy := ValidateSortField(filter.OrderBy, BankStatementSortFields, "period_start")
	if err := query.
		Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&statementModels).Error; err != nil {
		return shared.Paginated[*banking.BankStatement]{}, err
	}

	statements := make([]*banking.BankStatement, len(statementModels))
	for i, model := range statementModels {
		statements[i] = model.ToDomain()
	}
	return shared.NewPaginated(statements, total, filter.Page, filter.Limit()), nil
}

// FindOverlapping returns a statement of the same account whose period
// overlaps the given window, or nil when the window is free
func (r *GormBankStatementRepository) FindOverlapping(ctx context.Context, tenantID, accountID uuid.UUID, periodStart, periodEnd time.Time) (*banking.BankStatement, error) {
	var model models.BankStatementModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND account_id = ?", tenantID, accountID).
		Where("period_start <= ? AND period_end >= ?", periodEnd, periodStart).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Ensure GormBankStatementRepository implements BankStatementRepository
var _ banking.BankStatementRepository = (*GormBankStatementRepository)(nil)
