package orderitems

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nexobuy/nexobuy-backend/internal/pricing"
	"github.com/nexobuy/nexobuy-backend/pkg/db/models"
	"github.com/nexobuy/nexobuy-backend/pkg/enums"
	pkgerrors "github.com/nexobuy/nexobuy-backend/pkg/errors"
)

type stubItemsRepo struct {
	order    *models.Order
	products map[int64]*models.Product
	items    map[int64]*models.OrderItem
	history  []models.OrderItemHistory
	nextID   int64
}

func (s *stubItemsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubItemsRepo) FindOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	if s.order == nil || s.order.ID != orderID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.order, nil
}

func (s *stubItemsRepo) FindProduct(ctx context.Context, productID int64) (*models.Product, error) {
	product, ok := s.products[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (s *stubItemsRepo) CreateItem(ctx context.Context, item *models.OrderItem) error {
	s.nextID++
	item.ID = s.nextID
	if s.items == nil {
		s.items = make(map[int64]*models.OrderItem)
	}
	s.items[item.ID] = item
	return nil
}

func (s *stubItemsRepo) FindItem(ctx context.Context, itemID int64) (*models.OrderItem, error) {
	item, ok := s.items[itemID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (s *stubItemsRepo) FindItemForUpdate(ctx context.Context, itemID int64) (*models.OrderItem, error) {
	return s.FindItem(ctx, itemID)
}

func (s *stubItemsRepo) SaveItem(ctx context.Context, item *models.OrderItem) error {
	s.items[item.ID] = item
	return nil
}

func (s *stubItemsRepo) ListItems(ctx context.Context, orderID int64, limit, offset int) ([]models.OrderItem, error) {
	var out []models.OrderItem
	for _, item := range s.items {
		if orderID == 0 || item.OrderID == orderID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *stubItemsRepo) ListProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if product, ok := s.products[id]; ok {
			out = append(out, *product)
		}
	}
	return out, nil
}

func (s *stubItemsRepo) ListOrderIDsForCompany(ctx context.Context, companyOrgID int64) ([]int64, error) {
	if s.order != nil && s.order.CompanyOrgID == companyOrgID {
		return []int64{s.order.ID}, nil
	}
	return nil, nil
}

func (s *stubItemsRepo) AppendHistory(ctx context.Context, entry *models.OrderItemHistory) error {
	entry.ID = int64(len(s.history) + 1)
	s.history = append(s.history, *entry)
	return nil
}

func (s *stubItemsRepo) ListHistory(ctx context.Context, itemID int64) ([]models.OrderItemHistory, error) {
	var out []models.OrderItemHistory
	for i := len(s.history) - 1; i >= 0; i-- {
		if s.history[i].OrderItemID == itemID {
			out = append(out, s.history[i])
		}
	}
	return out, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubResolver struct {
	quote *pricing.PriceQuote
	err   error
	calls int
}

func (s *stubResolver) ResolveWithTx(ctx context.Context, tx *gorm.DB, input pricing.ResolveInput) (*pricing.PriceQuote, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.quote, nil
}

func newTestRepo() *stubItemsRepo {
	return &stubItemsRepo{
		order: &models.Order{ID: 1, CompanyOrgID: 20, Status: enums.OrderStatusOpen},
		products: map[int64]*models.Product{
			7: {ID: 7, VendorOrgID: 10, Name: "Bulk Widget", BasePrice: decimal.RequireFromString("100.00"), IsActive: true},
		},
	}
}

func companyAdmin() Actor {
	return Actor{UserID: 1, OrgID: 20, OrgType: enums.OrgTypeCompany, Role: enums.MemberRoleAdmin}
}

func vendorAdminActor() Actor {
	return Actor{UserID: 2, OrgID: 10, OrgType: enums.OrgTypeVendor, Role: enums.MemberRoleAdmin}
}

func quoteOf(price string, source enums.PricingSource) *pricing.PriceQuote {
	return &pricing.PriceQuote{
		BasePrice:     decimal.RequireFromString("100.00"),
		UnitPrice:     decimal.RequireFromString(price),
		PricingSource: source,
	}
}

func TestCreateItemFreezesResolvedPrice(t *testing.T) {
	repo := newTestRepo()
	resolver := &stubResolver{quote: quoteOf("121.00", enums.PricingSourceZoneTier)}
	svc, err := NewService(repo, stubTxRunner{}, resolver)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}

	zone := "NORTH"
	view, err := svc.Create(context.Background(), companyAdmin(), CreateInput{
		OrderID:   1,
		ProductID: 7,
		Quantity:  10,
		ZoneCode:  &zone,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if resolver.calls != 1 {
		t.Fatalf("expected one resolver call got %d", resolver.calls)
	}
	if view.CalculatedUnitPrice == nil || !view.CalculatedUnitPrice.Equal(decimal.RequireFromString("121.00")) {
		t.Fatalf("unexpected calculated price %+v", view.CalculatedUnitPrice)
	}
	if view.FinalUnitPrice == nil || !view.FinalUnitPrice.Equal(decimal.RequireFromString("121.00")) {
		t.Fatalf("unexpected final price %+v", view.FinalUnitPrice)
	}
	if view.PricingSource != enums.PricingSourceZoneTier {
		t.Fatalf("unexpected pricing source %s", view.PricingSource)
	}
	if view.Status != enums.ItemStatusPending {
		t.Fatalf("expected pending status got %s", view.Status)
	}
	if len(repo.history) != 1 {
		t.Fatalf("expected one history entry got %d", len(repo.history))
	}
	entry := repo.history[0]
	if entry.OldPrice != nil || entry.NewPrice == nil || !entry.NewPrice.Equal(decimal.RequireFromString("121.00")) {
		t.Fatalf("unexpected initial history prices %+v", entry)
	}
}

func TestCreateItemRequiresCompanyAdmin(t *testing.T) {
	svc, _ := NewService(newTestRepo(), stubTxRunner{}, &stubResolver{quote: quoteOf("100.00", enums.PricingSourceBase)})

	cases := []Actor{
		{UserID: 1, OrgID: 10, OrgType: enums.OrgTypeVendor, Role: enums.MemberRoleAdmin},
		{UserID: 1, OrgID: 20, OrgType: enums.OrgTypeCompany, Role: enums.MemberRoleUser},
	}
	for _, actor := range cases {
		_, err := svc.Create(context.Background(), actor, CreateInput{OrderID: 1, ProductID: 7, Quantity: 1})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
			t.Fatalf("expected forbidden for %+v got %v", actor, err)
		}
	}
}

func TestCreateItemOtherCompanyForbidden(t *testing.T) {
	svc, _ := NewService(newTestRepo(), stubTxRunner{}, &stubResolver{quote: quoteOf("100.00", enums.PricingSourceBase)})

	other := Actor{UserID: 1, OrgID: 99, OrgType: enums.OrgTypeCompany, Role: enums.MemberRoleAdmin}
	_, err := svc.Create(context.Background(), other, CreateInput{OrderID: 1, ProductID: 7, Quantity: 1})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden got %v", err)
	}
}

func TestCreateItemClosedOrder(t *testing.T) {
	repo := newTestRepo()
	repo.order.Status = enums.OrderStatusCompleted
	svc, _ := NewService(repo, stubTxRunner{}, &stubResolver{quote: quoteOf("100.00", enums.PricingSourceBase)})

	_, err := svc.Create(context.Background(), companyAdmin(), CreateInput{OrderID: 1, ProductID: 7, Quantity: 1})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}
}

func TestCreateItemRejectsBadQuantity(t *testing.T) {
	svc, _ := NewService(newTestRepo(), stubTxRunner{}, &stubResolver{quote: quoteOf("100.00", enums.PricingSourceBase)})

	_, err := svc.Create(context.Background(), companyAdmin(), CreateInput{OrderID: 1, ProductID: 7, Quantity: 0})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func seedItem(repo *stubItemsRepo) *models.OrderItem {
	item := &models.OrderItem{
		OrderID:             1,
		ProductID:           7,
		Name:                "Bulk Widget",
		Quantity:            10,
		CalculatedUnitPrice: decimal.RequireFromString("121.00"),
		FinalUnitPrice:      decimal.RequireFromString("121.00"),
		PricingSource:       enums.PricingSourceZoneTier,
		Status:              enums.ItemStatusPending,
	}
	_ = repo.CreateItem(context.Background(), item)
	return item
}

func TestUpdateStatusAppendsHistory(t *testing.T) {
	repo := newTestRepo()
	item := seedItem(repo)
	svc, _ := NewService(repo, stubTxRunner{}, &stubResolver{})

	view, err := svc.UpdateStatus(context.Background(), vendorAdminActor(), UpdateStatusInput{
		ItemID: item.ID,
		Status: enums.ItemStatusOutForDelivery,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if view.Status != enums.ItemStatusOutForDelivery {
		t.Fatalf("expected out for delivery got %s", view.Status)
	}
	if len(repo.history) != 1 {
		t.Fatalf("expected one history entry got %d", len(repo.history))
	}
	entry := repo.history[0]
	if entry.Status != enums.ItemStatusOutForDelivery {
		t.Fatalf("unexpected history entry %+v", entry)
	}
	want := decimal.RequireFromString("121.00")
	if entry.OldPrice == nil || entry.NewPrice == nil {
		t.Fatalf("status entry must snapshot the price, got %+v", entry)
	}
	if !entry.OldPrice.Equal(want) || !entry.NewPrice.Equal(want) {
		t.Fatalf("expected old=new=%s got old=%s new=%s", want, entry.OldPrice, entry.NewPrice)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	repo := newTestRepo()
	item := seedItem(repo)
	svc, _ := NewService(repo, stubTxRunner{}, &stubResolver{})

	_, err := svc.UpdateStatus(context.Background(), vendorAdminActor(), UpdateStatusInput{
		ItemID: item.ID,
		Status: enums.ItemStatus("Lost"),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestUpdateStatusOtherVendorForbidden(t *testing.T) {
	repo := newTestRepo()
	item := seedItem(repo)
	svc, _ := NewService(repo, stubTxRunner{}, &stubResolver{})

	other := Actor{UserID: 3, OrgID: 99, OrgType: enums.OrgTypeVendor, Role: enums.MemberRoleAdmin}
	_, err := svc.UpdateStatus(context.Background(), other, UpdateStatusInput{
		ItemID: item.ID,
		Status: enums.ItemStatusDelivered,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden got %v", err)
	}
}

func TestOverridePriceKeepsResolutionRecord(t *testing.T) {
	repo := newTestRepo()
	item := seedItem(repo)
	svc, _ := NewService(repo, stubTxRunner{}, &stubResolver{})

	view, err := svc.OverridePrice(context.Background(), vendorAdminActor(), OverridePriceInput{
		ItemID:   item.ID,
		NewPrice: decimal.RequireFromString("110.00"),
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if view.FinalUnitPrice == nil || !view.FinalUnitPrice.Equal(decimal.RequireFromString("110.00")) {
		t.Fatalf("unexpected final price %+v", view.FinalUnitPrice)
	}
	if view.CalculatedUnitPrice == nil || !view.CalculatedUnitPrice.Equal(decimal.RequireFromString("121.00")) {
		t.Fatalf("calculated price must not change, got %+v", view.CalculatedUnitPrice)
	}
	if view.PricingSource != enums.PricingSourceZoneTier {
		t.Fatalf("pricing source must not change, got %s", view.PricingSource)
	}
	if len(repo.history) != 1 {
		t.Fatalf("expected one history entry got %d", len(repo.history))
	}
	entry := repo.history[0]
	if entry.OldPrice == nil || !entry.OldPrice.Equal(decimal.RequireFromString("121.00")) {
		t.Fatalf("unexpected old price %+v", entry.OldPrice)
	}
	if entry.NewPrice == nil || !entry.NewPrice.Equal(decimal.RequireFromString("110.00")) {
		t.Fatalf("unexpected new price %+v", entry.NewPrice)
	}
	if entry.Reason == nil || *entry.Reason != "Manual override" {
		t.Fatalf("unexpected reason %+v", entry.Reason)
	}
}

func TestOverridePriceRejectsNegative(t *testing.T) {
	repo := newTestRepo()
	item := seedItem(repo)
	svc, _ := NewService(repo, stubTxRunner{}, &stubResolver{})

	_, err := svc.OverridePrice(context.Background(), vendorAdminActor(), OverridePriceInput{
		ItemID:   item.ID,
		NewPrice: decimal.RequireFromString("-1"),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestOverridePriceRequiresVendorAdmin(t *testing.T) {
	repo := newTestRepo()
	item := seedItem(repo)
	svc, _ := NewService(repo, stubTxRunner{}, &stubResolver{})

	basic := Actor{UserID: 4, OrgID: 10, OrgType: enums.OrgTypeVendor, Role: enums.MemberRoleUser}
	_, err := svc.OverridePrice(context.Background(), basic, OverridePriceInput{
		ItemID:   item.ID,
		NewPrice: decimal.RequireFromString("50.00"),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden got %v", err)
	}
	if len(repo.history) != 0 {
		t.Fatalf("rejected override must not write history, got %d entries", len(repo.history))
	}
}

func TestListRedactsPricesForVendorBasicUsers(t *testing.T) {
	repo := newTestRepo()
	seedItem(repo)
	svc, _ := NewService(repo, stubTxRunner{}, &stubResolver{})

	basic := Actor{UserID: 4, OrgID: 10, OrgType: enums.OrgTypeVendor, Role: enums.MemberRoleUser}
	views, err := svc.List(context.Background(), basic, ListInput{OrderID: 1})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected one item got %d", len(views))
	}
	if views[0].CalculatedUnitPrice != nil || views[0].FinalUnitPrice != nil {
		t.Fatalf("expected redacted prices got %+v", views[0])
	}
}

func TestListScopesVendorToOwnProducts(t *testing.T) {
	repo := newTestRepo()
	seedItem(repo)
	repo.products[8] = &models.Product{ID: 8, VendorOrgID: 99, Name: "Foreign", BasePrice: decimal.RequireFromString("10.00"), IsActive: true}
	foreign := &models.OrderItem{
		OrderID: 1, ProductID: 8, Name: "Foreign", Quantity: 1,
		CalculatedUnitPrice: decimal.RequireFromString("10.00"),
		FinalUnitPrice:      decimal.RequireFromString("10.00"),
		PricingSource:       enums.PricingSourceBase,
		Status:              enums.ItemStatusPending,
	}
	_ = repo.CreateItem(context.Background(), foreign)
	svc, _ := NewService(repo, stubTxRunner{}, &stubResolver{})

	views, err := svc.List(context.Background(), vendorAdminActor(), ListInput{OrderID: 1})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(views) != 1 || views[0].ProductID != 7 {
		t.Fatalf("expected only own product items got %+v", views)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	repo := newTestRepo()
	item := seedItem(repo)
	svc, _ := NewService(repo, stubTxRunner{}, &stubResolver{})

	if _, err := svc.UpdateStatus(context.Background(), vendorAdminActor(), UpdateStatusInput{
		ItemID: item.ID, Status: enums.ItemStatusOutForDelivery,
	}); err != nil {
		t.Fatalf("status update failed: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), vendorAdminActor(), UpdateStatusInput{
		ItemID: item.ID, Status: enums.ItemStatusDelivered,
	}); err != nil {
		t.Fatalf("status update failed: %v", err)
	}

	entries, err := svc.History(context.Background(), vendorAdminActor(), item.ID)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected two entries got %d", len(entries))
	}
	if entries[0].Status != enums.ItemStatusDelivered || entries[1].Status != enums.ItemStatusOutForDelivery {
		t.Fatalf("expected newest first got %+v", entries)
	}
}

func TestUpdateStatusRepeatedDeliveredAppendsEachTime(t *testing.T) {
	repo := newTestRepo()
	item := seedItem(repo)
	svc, _ := NewService(repo, stubTxRunner{}, &stubResolver{})

	for i := 0; i < 2; i++ {
		if _, err := svc.UpdateStatus(context.Background(), vendorAdminActor(), UpdateStatusInput{
			ItemID: item.ID,
			Status: enums.ItemStatusDelivered,
		}); err != nil {
			t.Fatalf("delivery %d failed: %v", i+1, err)
		}
	}

	if len(repo.history) != 2 {
		t.Fatalf("expected two history entries got %d", len(repo.history))
	}
	price := decimal.RequireFromString("121.00")
	for _, entry := range repo.history {
		if entry.Status != enums.ItemStatusDelivered {
			t.Fatalf("expected Delivered entry got %s", entry.Status)
		}
		if entry.OldPrice == nil || entry.NewPrice == nil ||
			!entry.OldPrice.Equal(price) || !entry.NewPrice.Equal(price) {
			t.Fatalf("status entry must carry old=new=%s, got %+v", price, entry)
		}
	}

	stored, err := repo.FindItem(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if !stored.FinalUnitPrice.Equal(decimal.RequireFromString("121.00")) {
		t.Fatalf("status churn must not move prices, got %s", stored.FinalUnitPrice)
	}
	if !stored.CalculatedUnitPrice.Equal(decimal.RequireFromString("121.00")) {
		t.Fatalf("status churn must not move calculated price, got %s", stored.CalculatedUnitPrice)
	}
}
