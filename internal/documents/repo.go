package documents

import (
	"context"

	"gorm.io/gorm"

	"github.com/nexobuy/nexobuy-backend/pkg/db/models"
)

// Repository manages persistence for order documents.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, doc *models.OrderDocument) error
	Find(ctx context.Context, documentID int64) (*models.OrderDocument, error)
	Delete(ctx context.Context, documentID int64) error
	FindOrder(ctx context.Context, orderID int64) (*models.Order, error)
	VendorHasItems(ctx context.Context, orderID, vendorOrgID int64) (bool, error)

	ListForCompany(ctx context.Context, companyOrgID, orderID int64, limit, offset int) ([]models.OrderDocument, error)
	ListForVendor(ctx context.Context, vendorOrgID, orderID int64, limit, offset int) ([]models.OrderDocument, error)
	ListAll(ctx context.Context, orderID int64, limit, offset int) ([]models.OrderDocument, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a document repository bound to the database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, doc *models.OrderDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *repository) Find(ctx context.Context, documentID int64) (*models.OrderDocument, error) {
	var doc models.OrderDocument
	if err := r.db.WithContext(ctx).First(&doc, documentID).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *repository) Delete(ctx context.Context, documentID int64) error {
	return r.db.WithContext(ctx).Delete(&models.OrderDocument{}, documentID).Error
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

func (r *repository) ListForCompany(ctx context.Context, companyOrgID, orderID int64, limit, offset int) ([]models.OrderDocument, error) {
	query := r.db.WithContext(ctx).
		Model(&models.OrderDocument{}).
		Joins("JOIN orders ON orders.id = order_documents.order_id").
		Where("orders.company_org_id = ?", companyOrgID)
	return r.list(query, orderID, limit, offset)
}

func (r *repository) ListForVendor(ctx context.Context, vendorOrgID, orderID int64, limit, offset int) ([]models.OrderDocument, error) {
	query := r.db.WithContext(ctx).
		Model(&models.OrderDocument{}).
		Distinct("order_documents.*").
		Joins("JOIN orders ON orders.id = order_documents.order_id").
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("products.vendor_org_id = ?", vendorOrgID)
	return r.list(query, orderID, limit, offset)
}

func (r *repository) ListAll(ctx context.Context, orderID int64, limit, offset int) ([]models.OrderDocument, error) {
	return r.list(r.db.WithContext(ctx).Model(&models.OrderDocument{}), orderID, limit, offset)
}

func (r *repository) list(query *gorm.DB, orderID int64, limit, offset int) ([]models.OrderDocument, error) {
	if orderID != 0 {
		query = query.Where("order_documents.order_id = ?", orderID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var out []models.OrderDocument
	if err := query.Order("order_documents.id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
