package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hospos/backend/internal/domain/banking"
	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormReconciliationRepository implements ReconciliationRepository using GORM
type GormReconciliationRepository struct {
	db *gorm.DB
}

// NewGormReconciliationRepository creates a new GormReconciliationRepository
func NewGormReconciliationRepository(db *gorm.DB) *GormReconciliationRepository {
	return &GormReconciliationRepository{db: db}
}

// Save creates a new reconciliation session
func (r *GormReconciliationRepository) Save(ctx context.Context, session banking.Session, reconciliation *banking.Reconciliation) error {
	var model models.ReconciliationModel
	model.FromDomain(reconciliation)
	return sessionDB(session, r.db).WithContext(ctx).Create(&model).Error
}

// Update persists changes to an existing reconciliation session
func (r *GormReconciliationRepository) Update(ctx context.Context, session banking.Session, reconciliation *banking.Reconciliation) error {
	var model models.ReconciliationModel
	model.FromDomain(reconciliation)
	return sessionDB(session, r.db).WithContext(ctx).Save(&model).Error
}

// FindByID finds a reconciliation session by ID within a tenant
func (r *GormReconciliationRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*banking.Reconciliation, error) {
	return r.FindByIDInSession(ctx, nil, tenantID, id)
}

// FindByIDInSession finds a reconciliation session by ID inside an open session
func (r *GormReconciliationRepository) FindByIDInSession(ctx context.Context, session banking.Session, tenantID, id uuid.UUID) (*banking.Reconciliation, error) {
	var model models.ReconciliationModel
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

// FindByStatementID finds the reconciliation session of a statement
func (r *GormReconciliationRepository) FindByStatementID(ctx context.Context, tenantID, statementID uuid.UUID) (*banking.Reconciliation, error) {
	var model models.ReconciliationModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND statement_id = ?", tenantID, statementID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List lists reconciliation sessions, optionally scoped to one account
func (r *GormReconciliationRepository) List(ctx context.Context, tenantID uuid.UUID, accountID *uuid.UUID, filter shared.Filter) (shared.Paginated[*banking.Reconciliation], error) {
	var reconModels []models.ReconciliationModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.ReconciliationModel{}).
		Where("tenant_id = ?", tenantID)
	if accountID != nil {
		query = query.Where("account_id = ?", *accountID)
	}

	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*banking.Reconciliation]{}, err
	}

	orderBy := ValidateSortField(filter.OrderBy, ReconciliationSortFields, "created_at")
	if err := query.
		Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&reconModels).Error; err != nil {
		return shared.Paginated[*banking.Reconciliation]{}, err
	}

	reconciliations := make([]*banking.Reconciliation, len(reconModels))
	for i, model := range reconModels {
		reconciliations[i] = model.ToDomain()
	}
	return shared.NewPaginated(reconciliations, total, filter.Page, filter.Limit()), nil
}

// Ensure GormReconciliationRepository implements ReconciliationRepository
var _ banking.ReconciliationRepository = (*GormReconciliationRepository)(nil)
