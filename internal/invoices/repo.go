package invoices

import (
	"context"

	"gorm.io/gorm"

	"github.com/nexobuy/nexobuy-backend/pkg/db/models"
)

// Repository manages persistence for invoices.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, invoice *models.Invoice) error
	Find(ctx context.Context, invoiceID int64) (*models.Invoice, error)
	Delete(ctx context.Context, invoiceID int64) error
	FindOrder(ctx context.Context, orderID int64) (*models.Order, error)
	// VendorHasItems reports whether the order carries at least one item
	// backed by one of the vendor's products.
	VendorHasItems(ctx context.Context, orderID, vendorOrgID int64) (bool, error)

	ListForCompany(ctx context.Context, companyOrgID int64, limit, offset int) ([]models.Invoice, error)
	ListForVendor(ctx context.Context, vendorOrgID int64, limit, offset int) ([]models.Invoice, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.Invoice, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an invoice repository bound to the database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *repository) Find(ctx context.Context, invoiceID int64) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.WithContext(ctx).First(&invoice, invoiceID).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *repository) Delete(ctx context.Context, invoiceID int64) error {
	return r.db.WithContext(ctx).Delete(&models.Invoice{}, invoiceID).Error
}

func (r *repository) FindOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, orderID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) VendorHasItems(ctx context.Context, orderID, vendorOrgID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("order_items.order_id = ? AND products.vendor_org_id = ?", orderID, vendorOrgID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) ListForCompany(ctx context.Context, companyOrgID int64, limit, offset int) ([]models.Invoice, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Joins("JOIN orders ON orders.id = invoices.order_id").
		Where("orders.company_org_id = ?", companyOrgID)
	return r.list(query, limit, offset)
}

func (r *repository) ListForVendor(ctx context.Context, vendorOrgID int64, limit, offset int) ([]models.Invoice, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Distinct("invoices.*").
		Joins("JOIN orders ON orders.id = invoices.order_id").
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("products.vendor_org_id = ?", vendorOrgID)
	return r.list(query, limit, offset)
}

func (r *repository) ListAll(ctx context.Context, limit, offset int) ([]models.Invoice, error) {
	return r.list(r.db.WithContext(ctx).Model(&models.Invoice{}), limit, offset)
}

func (r *repository) list(query *gorm.DB, limit, offset int) ([]models.Invoice, error) {
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var out []models.Invoice
	if err := query.Order("invoices.id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
