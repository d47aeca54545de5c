package pricing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nexobuy/nexobuy-backend/pkg/db/models"
	"github.com/nexobuy/nexobuy-backend/pkg/enums"
	pkgerrors "github.com/nexobuy/nexobuy-backend/pkg/errors"
)

type stubPricingRepo struct {
	product   *models.Product
	zoneRules []models.ZoneRule
	tierRules []models.TierRule
	created   []any
}

func (s *stubPricingRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubPricingRepo) FindProduct(ctx context.Context, productID int64) (*models.Product, error) {
	if s.product == nil || s.product.ID != productID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.product, nil
}

func (s *stubPricingRepo) FindActiveZoneRule(ctx context.Context, productID int64, zoneCode string) (*models.ZoneRule, error) {
	var found *models.ZoneRule
	for i := range s.zoneRules {
		rule := &s.zoneRules[i]
		if rule.ProductID == productID && rule.ZoneCode == zoneCode && rule.Active {
			if found == nil || rule.ID > found.ID {
				found = rule
			}
		}
	}
	if found == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return found, nil
}

func (s *stubPricingRepo) FindBestTierRule(ctx context.Context, productID int64, quantity int) (*models.TierRule, error) {
	var best *models.TierRule
	for i := range s.tierRules {
		rule := &s.tierRules[i]
		if rule.ProductID != productID || !rule.Active || rule.MinQty > quantity {
			continue
		}
		if best == nil || rule.MinQty > best.MinQty || (rule.MinQty == best.MinQty && rule.ID > best.ID) {
			best = rule
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return best, nil
}

func (s *stubPricingRepo) ListZoneRules(ctx context.Context, productID int64) ([]models.ZoneRule, error) {
	return s.zoneRules, nil
}

func (s *stubPricingRepo) FindZoneRule(ctx context.Context, ruleID int64) (*models.ZoneRule, error) {
	for i := range s.zoneRules {
		if s.zoneRules[i].ID == ruleID {
			return &s.zoneRules[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPricingRepo) CreateZoneRule(ctx context.Context, rule *models.ZoneRule) error {
	rule.ID = int64(len(s.zoneRules) + 1)
	s.zoneRules = append(s.zoneRules, *rule)
	s.created = append(s.created, rule)
	return nil
}

func (s *stubPricingRepo) UpdateZoneRule(ctx context.Context, rule *models.ZoneRule) error {
	for i := range s.zoneRules {
		if s.zoneRules[i].ID == rule.ID {
			s.zoneRules[i] = *rule
		}
	}
	return nil
}

func (s *stubPricingRepo) DeleteZoneRule(ctx context.Context, ruleID int64) error { return nil }

func (s *stubPricingRepo) ListTierRules(ctx context.Context, productID int64) ([]models.TierRule, error) {
	return s.tierRules, nil
}

func (s *stubPricingRepo) FindTierRule(ctx context.Context, ruleID int64) (*models.TierRule, error) {
	for i := range s.tierRules {
		if s.tierRules[i].ID == ruleID {
			return &s.tierRules[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPricingRepo) CreateTierRule(ctx context.Context, rule *models.TierRule) error {
	rule.ID = int64(len(s.tierRules) + 1)
	s.tierRules = append(s.tierRules, *rule)
	s.created = append(s.created, rule)
	return nil
}

func (s *stubPricingRepo) UpdateTierRule(ctx context.Context, rule *models.TierRule) error { return nil }

func (s *stubPricingRepo) DeleteTierRule(ctx context.Context, ruleID int64) error { return nil }

func testProduct(base string) *models.Product {
	return &models.Product{
		ID:          1,
		VendorOrgID: 10,
		Name:        "Test SKU",
		BasePrice:   decimal.RequireFromString(base),
		IsActive:    true,
	}
}

func vendorAdmin() Actor {
	return Actor{UserID: 1, OrgID: 10, OrgType: enums.OrgTypeVendor, Role: enums.MemberRoleAdmin}
}

func strptr(s string) *string { return &s }

func TestResolveBaseOnly(t *testing.T) {
	repo := &stubPricingRepo{product: testProduct("100.00")}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}

	quote, err := svc.Resolve(context.Background(), ResolveInput{ProductID: 1, Quantity: 1})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if !quote.UnitPrice.Equal(decimal.RequireFromString("100.00")) {
		t.Fatalf("expected 100.00 got %s", quote.UnitPrice)
	}
	if quote.PricingSource != enums.PricingSourceBase {
		t.Fatalf("expected base source got %s", quote.PricingSource)
	}
}

func TestResolveZoneAndTierStack(t *testing.T) {
	repo := &stubPricingRepo{
		product: testProduct("100.00"),
		zoneRules: []models.ZoneRule{{
			ID: 1, ProductID: 1, ZoneCode: "NORTH",
			Kind: enums.AdjustmentKindPercent, Amount: decimal.RequireFromString("10"), Active: true,
		}},
		tierRules: []models.TierRule{{
			ID: 1, ProductID: 1, MinQty: 10,
			Kind: enums.AdjustmentKindPercent, Amount: decimal.RequireFromString("10"), Active: true,
		}},
	}
	svc, _ := NewService(repo)

	quote, err := svc.Resolve(context.Background(), ResolveInput{ProductID: 1, Quantity: 10, ZoneCode: strptr("NORTH")})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	// 100 * 1.10 * 1.10 = 121, rounded once at the end.
	if !quote.UnitPrice.Equal(decimal.RequireFromString("121.00")) {
		t.Fatalf("expected 121.00 got %s", quote.UnitPrice)
	}
	if quote.PricingSource != enums.PricingSourceZoneTier {
		t.Fatalf("expected zone+tier source got %s", quote.PricingSource)
	}
}

func TestResolveBestTierWins(t *testing.T) {
	repo := &stubPricingRepo{
		product: testProduct("50.00"),
		tierRules: []models.TierRule{
			{ID: 1, ProductID: 1, MinQty: 5, Kind: enums.AdjustmentKindAbsolute, Amount: decimal.RequireFromString("-1"), Active: true},
			{ID: 2, ProductID: 1, MinQty: 20, Kind: enums.AdjustmentKindAbsolute, Amount: decimal.RequireFromString("-5"), Active: true},
			{ID: 3, ProductID: 1, MinQty: 50, Kind: enums.AdjustmentKindAbsolute, Amount: decimal.RequireFromString("-10"), Active: true},
		},
	}
	svc, _ := NewService(repo)

	quote, err := svc.Resolve(context.Background(), ResolveInput{ProductID: 1, Quantity: 25})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if !quote.UnitPrice.Equal(decimal.RequireFromString("45.00")) {
		t.Fatalf("expected 45.00 got %s", quote.UnitPrice)
	}
	if quote.TierMinQty == nil || *quote.TierMinQty != 20 {
		t.Fatalf("expected min_qty 20 tier got %+v", quote.TierMinQty)
	}
}

func TestResolveInactiveRulesIgnored(t *testing.T) {
	repo := &stubPricingRepo{
		product: testProduct("100.00"),
		zoneRules: []models.ZoneRule{{
			ID: 1, ProductID: 1, ZoneCode: "NORTH",
			Kind: enums.AdjustmentKindAbsolute, Amount: decimal.RequireFromString("25"), Active: false,
		}},
		tierRules: []models.TierRule{{
			ID: 1, ProductID: 1, MinQty: 1,
			Kind: enums.AdjustmentKindAbsolute, Amount: decimal.RequireFromString("-25"), Active: false,
		}},
	}
	svc, _ := NewService(repo)

	quote, err := svc.Resolve(context.Background(), ResolveInput{ProductID: 1, Quantity: 5, ZoneCode: strptr("NORTH")})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if !quote.UnitPrice.Equal(decimal.RequireFromString("100.00")) {
		t.Fatalf("expected 100.00 got %s", quote.UnitPrice)
	}
	if quote.PricingSource != enums.PricingSourceBase {
		t.Fatalf("expected base source got %s", quote.PricingSource)
	}
}

func TestResolveClampsAtZero(t *testing.T) {
	repo := &stubPricingRepo{
		product: testProduct("5.00"),
		tierRules: []models.TierRule{{
			ID: 1, ProductID: 1, MinQty: 1,
			Kind: enums.AdjustmentKindAbsolute, Amount: decimal.RequireFromString("-20"), Active: true,
		}},
	}
	svc, _ := NewService(repo)

	quote, err := svc.Resolve(context.Background(), ResolveInput{ProductID: 1, Quantity: 1})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if !quote.UnitPrice.IsZero() {
		t.Fatalf("expected 0 got %s", quote.UnitPrice)
	}
}

func TestResolveRoundsHalfUpOnce(t *testing.T) {
	// 10.005 would round to 10.01 only when rounding happens after the chain.
	repo := &stubPricingRepo{
		product: testProduct("10.00"),
		tierRules: []models.TierRule{{
			ID: 1, ProductID: 1, MinQty: 1,
			Kind: enums.AdjustmentKindPercent, Amount: decimal.RequireFromString("0.05"), Active: true,
		}},
	}
	svc, _ := NewService(repo)

	quote, err := svc.Resolve(context.Background(), ResolveInput{ProductID: 1, Quantity: 1})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if !quote.UnitPrice.Equal(decimal.RequireFromString("10.01")) {
		t.Fatalf("expected 10.01 got %s", quote.UnitPrice)
	}
}

func TestResolveRejectsBadQuantity(t *testing.T) {
	svc, _ := NewService(&stubPricingRepo{product: testProduct("10.00")})

	_, err := svc.Resolve(context.Background(), ResolveInput{ProductID: 1, Quantity: 0})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestResolveUnknownProduct(t *testing.T) {
	svc, _ := NewService(&stubPricingRepo{})

	_, err := svc.Resolve(context.Background(), ResolveInput{ProductID: 42, Quantity: 1})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestCreateZoneRuleDuplicateZone(t *testing.T) {
	repo := &stubPricingRepo{
		product: testProduct("10.00"),
		zoneRules: []models.ZoneRule{{
			ID: 1, ProductID: 1, ZoneCode: "WEST",
			Kind: enums.AdjustmentKindAbsolute, Amount: decimal.RequireFromString("1"), Active: true,
		}},
	}
	svc, _ := NewService(repo)

	_, err := svc.CreateZoneRule(context.Background(), vendorAdmin(), 1, ZoneRuleInput{
		ZoneCode: "WEST",
		Kind:     enums.AdjustmentKindAbsolute,
		Amount:   decimal.RequireFromString("2"),
		Active:   true,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict got %v", err)
	}
}

func TestCreateZoneRuleRequiresVendorAdmin(t *testing.T) {
	svc, _ := NewService(&stubPricingRepo{product: testProduct("10.00")})

	basic := Actor{UserID: 2, OrgID: 10, OrgType: enums.OrgTypeVendor, Role: enums.MemberRoleUser}
	_, err := svc.CreateZoneRule(context.Background(), basic, 1, ZoneRuleInput{
		ZoneCode: "EAST",
		Kind:     enums.AdjustmentKindAbsolute,
		Amount:   decimal.RequireFromString("2"),
		Active:   true,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden got %v", err)
	}
}

func TestCreateZoneRuleOtherVendorForbidden(t *testing.T) {
	svc, _ := NewService(&stubPricingRepo{product: testProduct("10.00")})

	other := Actor{UserID: 3, OrgID: 99, OrgType: enums.OrgTypeVendor, Role: enums.MemberRoleAdmin}
	_, err := svc.CreateZoneRule(context.Background(), other, 1, ZoneRuleInput{
		ZoneCode: "EAST",
		Kind:     enums.AdjustmentKindAbsolute,
		Amount:   decimal.RequireFromString("2"),
		Active:   true,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden got %v", err)
	}
}

func TestCreateTierRuleRejectsBadMinQty(t *testing.T) {
	svc, _ := NewService(&stubPricingRepo{product: testProduct("10.00")})

	_, err := svc.CreateTierRule(context.Background(), vendorAdmin(), 1, TierRuleInput{
		MinQty: 0,
		Kind:   enums.AdjustmentKindAbsolute,
		Amount: decimal.RequireFromString("-1"),
		Active: true,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestResolveUnmatchedZoneStillAppliesTier(t *testing.T) {
	repo := &stubPricingRepo{
		product: testProduct("100.00"),
		zoneRules: []models.ZoneRule{
			{ID: 1, ProductID: 1, ZoneCode: "NORTH", Kind: enums.AdjustmentKindPercent, Amount: decimal.RequireFromString("10"), Active: true},
		},
		tierRules: []models.TierRule{
			{ID: 1, ProductID: 1, MinQty: 10, Kind: enums.AdjustmentKindAbsolute, Amount: decimal.RequireFromString("-5"), Active: true},
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}

	quote, err := svc.Resolve(context.Background(), ResolveInput{ProductID: 1, Quantity: 12, ZoneCode: strptr("SOUTH")})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if quote.ZoneApplied {
		t.Fatalf("expected no zone match for SOUTH")
	}
	if !quote.TierApplied {
		t.Fatalf("expected tier to apply at quantity 12")
	}
	if !quote.UnitPrice.Equal(decimal.RequireFromString("95.00")) {
		t.Fatalf("expected tier-only price 95.00 got %s", quote.UnitPrice)
	}
	if quote.PricingSource != enums.PricingSourceTier {
		t.Fatalf("expected tier source got %s", quote.PricingSource)
	}
}
