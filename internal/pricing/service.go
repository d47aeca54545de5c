package pricing

import (
	"context"
	stderr "errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nexobuy/nexobuy-backend/pkg/db"
	"github.com/nexobuy/nexobuy-backend/pkg/db/models"
	"github.com/nexobuy/nexobuy-backend/pkg/enums"
	"github.com/nexobuy/nexobuy-backend/pkg/errors"
)

var oneHundred = decimal.NewFromInt(100)

// Service resolves unit prices and manages per-product pricing rules.
type Service interface {
	// Resolve computes the effective unit price for a (product, quantity,
	// zone) tuple against the rules visible at call time.
	Resolve(ctx context.Context, input ResolveInput) (*PriceQuote, error)
	// ResolveWithTx is Resolve evaluated inside a caller-owned transaction,
	// so order item creation prices against the rules it commits with.
	ResolveWithTx(ctx context.Context, tx *gorm.DB, input ResolveInput) (*PriceQuote, error)

	ListZoneRules(ctx context.Context, actor Actor, productID int64) ([]models.ZoneRule, error)
	CreateZoneRule(ctx context.Context, actor Actor, productID int64, input ZoneRuleInput) (*models.ZoneRule, error)
	UpdateZoneRule(ctx context.Context, actor Actor, ruleID int64, input ZoneRuleInput) (*models.ZoneRule, error)
	DeleteZoneRule(ctx context.Context, actor Actor, ruleID int64) error

	ListTierRules(ctx context.Context, actor Actor, productID int64) ([]models.TierRule, error)
	CreateTierRule(ctx context.Context, actor Actor, productID int64, input TierRuleInput) (*models.TierRule, error)
	UpdateTierRule(ctx context.Context, actor Actor, ruleID int64, input TierRuleInput) (*models.TierRule, error)
	DeleteTierRule(ctx context.Context, actor Actor, ruleID int64) error
}

type service struct {
	repo Repository
}

// NewService wires a pricing service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New(errors.CodeInternal, "pricing: repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Resolve(ctx context.Context, input ResolveInput) (*PriceQuote, error) {
	return s.resolve(ctx, s.repo, input)
}

func (s *service) ResolveWithTx(ctx context.Context, tx *gorm.DB, input ResolveInput) (*PriceQuote, error) {
	return s.resolve(ctx, s.repo.WithTx(tx), input)
}

func (s *service) resolve(ctx context.Context, repo Repository, input ResolveInput) (*PriceQuote, error) {
	if input.Quantity < 1 {
		return nil, errors.New(errors.CodeValidation, "quantity must be at least 1")
	}

	product, err := repo.FindProduct(ctx, input.ProductID)
	if err != nil {
		if stderr.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "product not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "load product")
	}

	quote := &PriceQuote{BasePrice: product.BasePrice}
	price := product.BasePrice

	if input.ZoneCode != nil && *input.ZoneCode != "" {
		rule, err := repo.FindActiveZoneRule(ctx, input.ProductID, *input.ZoneCode)
		if err != nil && !stderr.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(errors.CodeInternal, err, "load zone rule")
		}
		if rule != nil {
			price = applyAdjustment(price, rule.Kind, rule.Amount)
			quote.ZoneApplied = true
			quote.ZoneCode = &rule.ZoneCode
			amount := rule.Amount
			quote.ZoneAmount = &amount
			quote.ZoneIsPercent = rule.Kind == enums.AdjustmentKindPercent
		}
	}

	tier, err := repo.FindBestTierRule(ctx, input.ProductID, input.Quantity)
	if err != nil && !stderr.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(errors.CodeInternal, err, "load tier rule")
	}
	if tier != nil {
		price = applyAdjustment(price, tier.Kind, tier.Amount)
		quote.TierApplied = true
		minQty := tier.MinQty
		quote.TierMinQty = &minQty
		amount := tier.Amount
		quote.TierAmount = &amount
		quote.TierIsPercent = tier.Kind == enums.AdjustmentKindPercent
	}

	if price.IsNegative() {
		price = decimal.Zero
	}

	quote.UnitPrice = price.Round(2)
	quote.PricingSource = enums.CombinePricingSource(quote.ZoneApplied, quote.TierApplied)
	return quote, nil
}

// applyAdjustment stacks a single rule onto the running price. Percent rules
// scale the running value, absolute rules add a signed delta. Rounding is
// deferred until after the full chain has been applied.
func applyAdjustment(current decimal.Decimal, kind enums.AdjustmentKind, amount decimal.Decimal) decimal.Decimal {
	if kind == enums.AdjustmentKindPercent {
		return current.Mul(oneHundred.Add(amount)).Div(oneHundred)
	}
	return current.Add(amount)
}

func (s *service) ListZoneRules(ctx context.Context, actor Actor, productID int64) ([]models.ZoneRule, error) {
	if _, err := s.ownedProduct(ctx, actor, productID); err != nil {
		return nil, err
	}
	rules, err := s.repo.ListZoneRules(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "list zone rules")
	}
	return rules, nil
}

func (s *service) CreateZoneRule(ctx context.Context, actor Actor, productID int64, input ZoneRuleInput) (*models.ZoneRule, error) {
	if err := validateRule(input.ZoneCode == "", input.Kind, input.Amount); err != nil {
		return nil, err
	}
	if _, err := s.ownedProduct(ctx, actor, productID); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindActiveZoneRule(ctx, productID, input.ZoneCode)
	if err != nil && !stderr.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(errors.CodeInternal, err, "check zone rule")
	}
	if existing != nil {
		return nil, errors.New(errors.CodeConflict, "zone rule already exists for this zone").
			WithDetails(map[string]any{"zone_code": input.ZoneCode})
	}

	rule := &models.ZoneRule{
		ProductID: productID,
		ZoneCode:  input.ZoneCode,
		Kind:      input.Kind,
		Amount:    input.Amount,
		Active:    input.Active,
	}
	if err := s.repo.CreateZoneRule(ctx, rule); err != nil {
		if db.IsUniqueViolation(err, "ux_zone_rules_product_zone") {
			return nil, errors.New(errors.CodeConflict, "zone rule already exists for this zone").
				WithDetails(map[string]any{"zone_code": input.ZoneCode})
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "create zone rule")
	}
	return rule, nil
}

func (s *service) UpdateZoneRule(ctx context.Context, actor Actor, ruleID int64, input ZoneRuleInput) (*models.ZoneRule, error) {
	if err := validateRule(input.ZoneCode == "", input.Kind, input.Amount); err != nil {
		return nil, err
	}

	rule, err := s.repo.FindZoneRule(ctx, ruleID)
	if err != nil {
		if stderr.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "zone rule not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "load zone rule")
	}
	if _, err := s.ownedProduct(ctx, actor, rule.ProductID); err != nil {
		return nil, err
	}

	if input.ZoneCode != rule.ZoneCode {
		existing, err := s.repo.FindActiveZoneRule(ctx, rule.ProductID, input.ZoneCode)
		if err != nil && !stderr.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(errors.CodeInternal, err, "check zone rule")
		}
		if existing != nil && existing.ID != rule.ID {
			return nil, errors.New(errors.CodeConflict, "zone rule already exists for this zone").
				WithDetails(map[string]any{"zone_code": input.ZoneCode})
		}
	}

	rule.ZoneCode = input.ZoneCode
	rule.Kind = input.Kind
	rule.Amount = input.Amount
	rule.Active = input.Active
	if err := s.repo.UpdateZoneRule(ctx, rule); err != nil {
		if db.IsUniqueViolation(err, "ux_zone_rules_product_zone") {
			return nil, errors.New(errors.CodeConflict, "zone rule already exists for this zone").
				WithDetails(map[string]any{"zone_code": input.ZoneCode})
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "update zone rule")
	}
	return rule, nil
}

func (s *service) DeleteZoneRule(ctx context.Context, actor Actor, ruleID int64) error {
	rule, err := s.repo.FindZoneRule(ctx, ruleID)
	if err != nil {
		if stderr.Is(err, gorm.ErrRecordNotFound) {
			return errors.New(errors.CodeNotFound, "zone rule not found")
		}
		return errors.Wrap(errors.CodeInternal, err, "load zone rule")
	}
	if _, err := s.ownedProduct(ctx, actor, rule.ProductID); err != nil {
		return err
	}
	if err := s.repo.DeleteZoneRule(ctx, ruleID); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "delete zone rule")
	}
	return nil
}

func (s *service) ListTierRules(ctx context.Context, actor Actor, productID int64) ([]models.TierRule, error) {
	if _, err := s.ownedProduct(ctx, actor, productID); err != nil {
		return nil, err
	}
	rules, err := s.repo.ListTierRules(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "list tier rules")
	}
	return rules, nil
}

func (s *service) CreateTierRule(ctx context.Context, actor Actor, productID int64, input TierRuleInput) (*models.TierRule, error) {
	if err := validateRule(input.MinQty < 1, input.Kind, input.Amount); err != nil {
		return nil, err
	}
	if _, err := s.ownedProduct(ctx, actor, productID); err != nil {
		return nil, err
	}

	rule := &models.TierRule{
		ProductID: productID,
		MinQty:    input.MinQty,
		Kind:      input.Kind,
		Amount:    input.Amount,
		Active:    input.Active,
	}
	if err := s.repo.CreateTierRule(ctx, rule); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "create tier rule")
	}
	return rule, nil
}

func (s *service) UpdateTierRule(ctx context.Context, actor Actor, ruleID int64, input TierRuleInput) (*models.TierRule, error) {
	if err := validateRule(input.MinQty < 1, input.Kind, input.Amount); err != nil {
		return nil, err
	}

	rule, err := s.repo.FindTierRule(ctx, ruleID)
	if err != nil {
		if stderr.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "tier rule not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "load tier rule")
	}
	if _, err := s.ownedProduct(ctx, actor, rule.ProductID); err != nil {
		return nil, err
	}

	rule.MinQty = input.MinQty
	rule.Kind = input.Kind
	rule.Amount = input.Amount
	rule.Active = input.Active
	if err := s.repo.UpdateTierRule(ctx, rule); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "update tier rule")
	}
	return rule, nil
}

func (s *service) DeleteTierRule(ctx context.Context, actor Actor, ruleID int64) error {
	rule, err := s.repo.FindTierRule(ctx, ruleID)
	if err != nil {
		if stderr.Is(err, gorm.ErrRecordNotFound) {
			return errors.New(errors.CodeNotFound, "tier rule not found")
		}
		return errors.Wrap(errors.CodeInternal, err, "load tier rule")
	}
	if _, err := s.ownedProduct(ctx, actor, rule.ProductID); err != nil {
		return err
	}
	if err := s.repo.DeleteTierRule(ctx, ruleID); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "delete tier rule")
	}
	return nil
}

// ownedProduct loads the product and checks the actor is an administrative
// member of the vendor org that owns it.
func (s *service) ownedProduct(ctx context.Context, actor Actor, productID int64) (*models.Product, error) {
	product, err := s.repo.FindProduct(ctx, productID)
	if err != nil {
		if stderr.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "product not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "load product")
	}
	if actor.OrgType != enums.OrgTypeVendor || !actor.Role.IsAdministrative() {
		return nil, errors.New(errors.CodeForbidden, "pricing rules require a vendor admin")
	}
	if product.VendorOrgID != actor.OrgID {
		return nil, errors.New(errors.CodeForbidden, "product belongs to another vendor")
	}
	return product, nil
}

func validateRule(badTarget bool, kind enums.AdjustmentKind, amount decimal.Decimal) error {
	if badTarget {
		return errors.New(errors.CodeValidation, "invalid rule target")
	}
	if !kind.IsValid() {
		return errors.New(errors.CodeValidation, "invalid adjustment kind")
	}
	if kind == enums.AdjustmentKindPercent && amount.LessThanOrEqual(oneHundred.Neg()) {
		return errors.New(errors.CodeValidation, "percent adjustment cannot be -100% or lower")
	}
	return nil
}
