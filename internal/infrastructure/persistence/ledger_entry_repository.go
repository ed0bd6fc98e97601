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

// GormLedgerEntryRepository implements LedgerEntryRepository using GORM
type GormLedgerEntryRepository struct {
	db *gorm.DB
}

// NewGormLedgerEntryRepository creates a new GormLedgerEntryRepository
func NewGormLedgerEntryRepository(db *gorm.DB) *GormLedgerEntryRepository {
	return &GormLedgerEntryRepository{db: db}
}

// Save creates a new ledger entry
func (r *GormLedgerEntryRepository) Save(ctx context.Context, session banking.Session, entry *banking.LedgerEntry) error {
	var model models.LedgerEntryModel
	model.FromDomain(entry)
	return sessionDB(session, r.db).WithContext(ctx).Create(&model).Error
}

// Update persists changes to an existing ledger entry
func (r *GormLedgerEntryRepository) Update(ctx context.Context, session banking.Session, entry *banking.LedgerEntry) error {
	var model models.LedgerEntryModel
	model.FromDomain(entry)
	return sessionDB(session, r.db).WithContext(ctx).Save(&model).Error
}

// FindByID finds a ledger entry by ID within a tenant
func (r *GormLedgerEntryRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*banking.LedgerEntry, error) {
	return r.FindByIDInSession(ctx, nil, tenantID, id)
}

// FindByIDInSession finds a ledger entry by ID inside an open session
func (r *GormLedgerEntryRepository) FindByIDInSession(ctx context.Context, session banking.Session, tenantID, id uuid.UUID) (*banking.LedgerEntry, error) {
	var model models.LedgerEntryModel
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

// FindByIDs finds ledger entries by a set of IDs
func (r *GormLedgerEntryRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*banking.LedgerEntry, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var entryModels []models.LedgerEntryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return toDomainEntries(entryModels), nil
}

// FindByPaymentID finds all ledger entries linked to a payment
func (r *GormLedgerEntryRepository) FindByPaymentID(ctx context.Context, tenantID, paymentID uuid.UUID) ([]*banking.LedgerEntry, error) {
	var entryModels []models.LedgerEntryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND payment_id = ?", tenantID, paymentID).
		Order("booking_date ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return toDomainEntries(entryModels), nil
}

// List lists ledger entries with filtering and pagination
func (r *GormLedgerEntryRepository) List(ctx context.Context, tenantID uuid.UUID, filter banking.LedgerEntryFilter) (shared.Paginated[*banking.LedgerEntry], error) {
	var entryModels []models.LedgerEntryModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.LedgerEntryModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*banking.LedgerEntry]{}, err
	}

	orderBy := ValidateSortField(filter.OrderBy, LedgerEntrySortFields, "transaction_date")
	if err := query.
		Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&entryModels).Error; err != nil {
		return shared.Paginated[*banking.LedgerEntry]{}, err
	}

	return shared.NewPaginated(toDomainEntries(entryModels), total, filter.Page, filter.Limit()), nil
}

// ListUnreconciled returns pending entries of an account within a date window
func (r *GormLedgerEntryRepository) ListUnreconciled(ctx context.Context, tenantID, accountID uuid.UUID, from, to time.Time) ([]*banking.LedgerEntry, error) {
	var entryModels []models.LedgerEntryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND account_id = ? AND status = ?", tenantID, accountID, banking.ReconStatusPending.String()).
		Where("transaction_date >= ? AND transaction_date <= ?", from, to).
		Order("transaction_date ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return toDomainEntries(entryModels), nil
}

// SumSignedAmounts returns the signed sum of all entry amounts for an account
func (r *GormLedgerEntryRepository) SumSignedAmounts(ctx context.Context, tenantID, accountID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.LedgerEntryModel{}).
		Select("COALESCE(SUM(CASE WHEN direction = ? THEN -amount ELSE amount END), 0) as total", banking.DirectionDebit.String()).
		Where("tenant_id = ? AND account_id = ?", tenantID, accountID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// applyFilter applies filter options to the query
func (r *GormLedgerEntryRepository) applyFilter(query *gorm.DB, filter banking.LedgerEntryFilter) *gorm.DB {
	if filter.AccountID != nil {
		query = query.Where("account_id = ?", *filter.AccountID)
	}
	if filter.Direction != nil {
		query = query.Where("direction = ?", filter.Direction.String())
	}
	if filter.Channel != nil {
		query = query.Where("channel = ?", filter.Channel.String())
	}
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.PaymentID != nil {
		query = query.Where("payment_id = ?", *filter.PaymentID)
	}
	if filter.TransferGroupID != nil {
		query = query.Where("transfer_group_id = ?", *filter.TransferGroupID)
	}
	if filter.Reference != "" {
		query = query.Where("reference = ?", filter.Reference)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"description ILIKE ? OR reference ILIKE ? OR counterpart->>'name' ILIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filter.DateFrom != nil {
		query = query.Where("transaction_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("transaction_date <= ?", *filter.DateTo)
	}
	if filter.AmountMin != nil {
		query = query.Where("amount >= ?", *filter.AmountMin)
	}
	if filter.AmountMax != nil {
		query = query.Where("amount <= ?", *filter.AmountMax)
	}
	return query
}

func toDomainEntries(entryModels []models.LedgerEntryModel) []*banking.LedgerEntry {
	entries := make([]*banking.LedgerEntry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = model.ToDomain()
	}
	return entries
}

// Ensure GormLedgerEntryRepository implements LedgerEntryRepository
var _ banking.LedgerEntryRepository = (*GormLedgerEntryRepository)(nil)
