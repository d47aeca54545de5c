package products

import (
	"context"

	"gorm.io/gorm"

	"github.com/nexobuy/nexobuy-backend/pkg/db/models"
)

// Repository manages persistence for the catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, product *models.Product) error
	Find(ctx context.Context, productID int64) (*models.Product, error)
	Save(ctx context.Context, product *models.Product) error
	ListAll(ctx context.Context, limit, offset int) ([]models.Product, error)
	ListByVendor(ctx context.Context, vendorOrgID int64, limit, offset int) ([]models.Product, error)

	FindUnit(ctx context.Context, unitID int64) (*models.Unit, error)
	ListUnits(ctx context.Context) ([]models.Unit, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a catalog repository bound to the database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *repository) Find(ctx context.Context, productID int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, productID).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) Save(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *repository) ListAll(ctx context.Context, limit, offset int) ([]models.Product, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&models.Product{}), limit, offset)
}

func (r *repository) ListByVendor(ctx context.Context, vendorOrgID int64, limit, offset int) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).Where("vendor_org_id = ?", vendorOrgID)
	return r.list(ctx, query, limit, offset)
}

func (r *repository) list(ctx context.Context, query *gorm.DB, limit, offset int) ([]models.Product, error) {
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var products []models.Product
	if err := query.Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) FindUnit(ctx context.Context, unitID int64) (*models.Unit, error) {
	var unit models.Unit
	if err := r.db.WithContext(ctx).First(&unit, unitID).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *repository) ListUnits(ctx context.Context) ([]models.Unit, error) {
	var units []models.Unit
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}
