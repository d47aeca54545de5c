package orderitems

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nexobuy/nexobuy-backend/pkg/db/models"
)

// Repository manages persistence for order items and their audit trail.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindOrder(ctx context.Context, orderID int64) (*models.Order, error)
	FindProduct(ctx context.Context, productID int64) (*models.Product, error)

	CreateItem(ctx context.Context, item *models.OrderItem) error
	FindItem(ctx context.Context, itemID int64) (*models.OrderItem, error)
	// FindItemForUpdate locks the row until the surrounding transaction ends.
	FindItemForUpdate(ctx context.Context, itemID int64) (*models.OrderItem, error)
	SaveItem(ctx context.Context, item *models.OrderItem) error
	ListItems(ctx context.Context, orderID int64, limit, offset int) ([]models.OrderItem, error)
	ListProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error)
	ListOrderIDsForCompany(ctx context.Context, companyOrgID int64) ([]int64, error)

	AppendHistory(ctx context.Context, entry *models.OrderItemHistory) error
	ListHistory(ctx context.Context, itemID int64) ([]models.OrderItemHistory, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an order item repository bound to the database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, orderID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindProduct(ctx context.Context, productID int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, productID).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) CreateItem(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) FindItem(ctx context.Context, itemID int64) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := r.db.WithContext(ctx).First(&item, itemID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindItemForUpdate(ctx context.Context, itemID int64) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&item, itemID).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) SaveItem(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *repository) ListItems(ctx context.Context, orderID int64, limit, offset int) ([]models.OrderItem, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderItem{})
	if orderID != 0 {
		query = query.Where("order_id = ?", orderID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var items []models.OrderItem
	if err := query.Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) ListOrderIDsForCompany(ctx context.Context, companyOrgID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("company_org_id = ?", companyOrgID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repository) AppendHistory(ctx context.Context, entry *models.OrderItemHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListHistory(ctx context.Context, itemID int64) ([]models.OrderItemHistory, error) {
	var entries []models.OrderItemHistory
	err := r.db.WithContext(ctx).
		Where("order_item_id = ?", itemID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
