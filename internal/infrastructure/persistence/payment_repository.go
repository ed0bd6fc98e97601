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

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Save creates a new payment. The unique index on (tenant_id,
// idempotency_key) rejects concurrent duplicates at the database level.
func (r *GormPaymentRepository) Save(ctx context.Context, session banking.Session, payment *banking.Payment) error {
	var model models.PaymentModel
	model.FromDomain(payment)
	return sessionDB(session, r.db).WithContext(ctx).Create(&model).Error
}

// Update persists changes to an existing payment
func (r *GormPaymentRepository) Update(ctx context.Context, session banking.Session, payment *banking.Payment) error {
	var model models.PaymentModel
	model.FromDomain(payment)
	return sessionDB(session, r.db).WithContext(ctx).Save(&model).Error
}

// FindByID finds a payment by ID within a tenant
func (r *GormPaymentRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*banking.Payment, error) {
	return r.FindByIDInSession(ctx, nil, tenantID, id)
}

// FindByIDInSession finds a payment by ID inside an open session
func (r *GormPaymentRepository) FindByIDInSession(ctx context.Context, session banking.Session, tenantID, id uuid.UUID) (*banking.Payment, error) {
	var model models.PaymentModel
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

// FindByIdempotencyKey finds a payment by its idempotency key
func (r *GormPaymentRepository) FindByIdempotencyKey(ctx context.Context, tenantID uuid.UUID, key string) (*banking.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND idempotency_key = ?", tenantID, key).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List lists payments with filtering and pagination
func (r *GormPaymentRepository) List(ctx context.Context, tenantID uuid.UUID, filter banking.PaymentFilter) (shared.Paginated[*banking.Payment], error) {
	var paymentModels []models.PaymentModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*banking.Payment]{}, err
	}

	orderBy := ValidateSortField(filter.OrderBy, PaymentSortFields, "created_at")
	if err := query.
		Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&paymentModels).Error; err != nil {
		return shared.Paginated[*banking.Payment]{}, err
	}

	payments := make([]*banking.Payment, len(paymentModels))
	for i, model := range paymentModels {
		payments[i] = model.ToDomain()
	}
	return shared.NewPaginated(payments, total, filter.Page, filter.Limit()), nil
}

// applyFilter applies filter options to the query
func (r *GormPaymentRepository) applyFilter(query *gorm.DB, filter banking.PaymentFilter) *gorm.DB {
	if filter.Kind != nil {
		query = query.Where("kind = ?", filter.Kind.String())
	}
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.Method != "" {
		query = query.Where("method = ?", filter.Method)
	}
	if filter.AccountID != nil {
		query = query.Where("account_id = ?", *filter.AccountID)
	}
	return query
}

// Ensure GormPaymentRepository implements PaymentRepository
var _ banking.PaymentRepository = (*GormPaymentRepository)(nil)
