package pricing

import (
	"context"

	"gorm.io/gorm"

	"github.com/nexobuy/nexobuy-backend/pkg/db/models"
)

// Repository manages persistence for products and pricing rules.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindProduct(ctx context.Context, productID int64) (*models.Product, error)

	FindActiveZoneRule(ctx context.Context, productID int64, zoneCode string) (*models.ZoneRule, error)
	FindBestTierRule(ctx context.Context, productID int64, quantity int) (*models.TierRule, error)

	ListZoneRules(ctx context.Context, productID int64) ([]models.ZoneRule, error)
	FindZoneRule(ctx context.Context, ruleID int64) (*models.ZoneRule, error)
	CreateZoneRule(ctx context.Context, rule *models.ZoneRule) error
	UpdateZoneRule(ctx context.Context, rule *models.ZoneRule) error
	DeleteZoneRule(ctx context.Context, ruleID int64) error

	ListTierRules(ctx context.Context, productID int64) ([]models.TierRule, error)
	FindTierRule(ctx context.Context, ruleID int64) (*models.TierRule, error)
	CreateTierRule(ctx context.Context, rule *models.TierRule) error
	UpdateTierRule(ctx context.Context, rule *models.TierRule) error
	DeleteTierRule(ctx context.Context, ruleID int64) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a pricing repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindProduct(ctx context.Context, productID int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, productID).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindActiveZoneRule returns the active rule for the exact zone code. The
// unique constraint keeps one rule per (product, zone); legacy duplicates
// resolve to the newest id.
func (r *repository) FindActiveZoneRule(ctx context.Context, productID int64, zoneCode string) (*models.ZoneRule, error) {
	var rule models.ZoneRule
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND zone_code = ? AND active = ?", productID, zoneCode, true).
		Order("id DESC").
		First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// FindBestTierRule returns the active tier with the highest threshold that the
// quantity satisfies.
func (r *repository) FindBestTierRule(ctx context.Context, productID int64, quantity int) (*models.TierRule, error) {
	var rule models.TierRule
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND min_qty <= ? AND active = ?", productID, quantity, true).
		Order("min_qty DESC, id DESC").
		First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *repository) ListZoneRules(ctx context.Context, productID int64) ([]models.ZoneRule, error) {
	var rules []models.ZoneRule
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("zone_code ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *repository) FindZoneRule(ctx context.Context, ruleID int64) (*models.ZoneRule, error) {
	var rule models.ZoneRule
	if err := r.db.WithContext(ctx).First(&rule, ruleID).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *repository) CreateZoneRule(ctx context.Context, rule *models.ZoneRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *repository) UpdateZoneRule(ctx context.Context, rule *models.ZoneRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

func (r *repository) DeleteZoneRule(ctx context.Context, ruleID int64) error {
	return r.db.WithContext(ctx).Delete(&models.ZoneRule{}, ruleID).Error
}

func (r *repository) ListTierRules(ctx context.Context, productID int64) ([]models.TierRule, error) {
	var rules []models.TierRule
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("min_qty ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *repository) FindTierRule(ctx context.Context, ruleID int64) (*models.TierRule, error) {
	var rule models.TierRule
	if err := r.db.WithContext(ctx).First(&rule, ruleID).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *repository) CreateTierRule(ctx context.Context, rule *models.TierRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *repository) UpdateTierRule(ctx context.Context, rule *models.TierRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

func (r *repository) DeleteTierRule(ctx context.Context, ruleID int64) error {
	return r.db.WithContext(ctx).Delete(&models.TierRule{}, ruleID).Error
}
