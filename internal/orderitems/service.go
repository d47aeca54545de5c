package orderitems

import (
	"context"
	stderr "errors"

	"gorm.io/gorm"

	"github.com/nexobuy/nexobuy-backend/internal/pricing"
	"github.com/nexobuy/nexobuy-backend/pkg/db/models"
	"github.com/nexobuy/nexobuy-backend/pkg/enums"
	"github.com/nexobuy/nexobuy-backend/pkg/errors"
)

const (
	initialPricingReason = "Initial auto pricing"
	overrideReason       = "Manual override"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type priceResolver interface {
	ResolveWithTx(ctx context.Context, tx *gorm.DB, input pricing.ResolveInput) (*pricing.PriceQuote, error)
}

// Service defines the order item lifecycle: creation with automatic pricing,
// status transitions, price overrides, and the audit trail behind them.
type Service interface {
	Create(ctx context.Context, actor Actor, input CreateInput) (*ItemView, error)
	Get(ctx context.Context, actor Actor, itemID int64) (*ItemView, error)
	List(ctx context.Context, actor Actor, input ListInput) ([]ItemView, error)
	UpdateStatus(ctx context.Context, actor Actor, input UpdateStatusInput) (*ItemView, error)
	OverridePrice(ctx context.Context, actor Actor, input OverridePriceInput) (*ItemView, error)
	History(ctx context.Context, actor Actor, itemID int64) ([]HistoryView, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	resolver priceResolver
}

// NewService wires an order item service.
func NewService(repo Repository, tx txRunner, resolver priceResolver) (Service, error) {
	if repo == nil {
		return nil, errors.New(errors.CodeInternal, "orderitems: repo is required")
	}
	if tx == nil {
		return nil, errors.New(errors.CodeInternal, "orderitems: tx runner is required")
	}
	if resolver == nil {
		return nil, errors.New(errors.CodeInternal, "orderitems: price resolver is required")
	}
	return &service{repo: repo, tx: tx, resolver: resolver}, nil
}

// Create adds a line to an order. The unit price is resolved against the rules
// visible inside the same transaction the item commits in, so a rule change
// racing the creation can never produce a price no rule set ever justified.
func (s *service) Create(ctx context.Context, actor Actor, input CreateInput) (*ItemView, error) {
	if actor.OrgType != enums.OrgTypeCompany {
		return nil, errors.New(errors.CodeForbidden, "only companies add order items")
	}
	if !actor.Role.IsAdministrative() {
		return nil, errors.New(errors.CodeForbidden, "order items require an admin role")
	}
	if input.Quantity < 1 {
		return nil, errors.New(errors.CodeValidation, "quantity must be at least 1")
	}

	var item *models.OrderItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if stderr.Is(err, gorm.ErrRecordNotFound) {
				return errors.New(errors.CodeNotFound, "order not found")
			}
			return errors.Wrap(errors.CodeInternal, err, "load order")
		}
		if order.CompanyOrgID != actor.OrgID {
			return errors.New(errors.CodeForbidden, "order belongs to another company")
		}
		if order.Status != enums.OrderStatusOpen {
			return errors.New(errors.CodeStateConflict, "order is no longer open")
		}

		product, err := repo.FindProduct(ctx, input.ProductID)
		if err != nil {
			if stderr.Is(err, gorm.ErrRecordNotFound) {
				return errors.New(errors.CodeNotFound, "product not found")
			}
			return errors.Wrap(errors.CodeInternal, err, "load product")
		}
		if !product.IsActive {
			return errors.New(errors.CodeValidation, "product is not active")
		}

		quote, err := s.resolver.ResolveWithTx(ctx, tx, pricing.ResolveInput{
			ProductID: input.ProductID,
			Quantity:  input.Quantity,
			ZoneCode:  input.ZoneCode,
		})
		if err != nil {
			return err
		}

		name := product.Name
		if input.Name != nil && *input.Name != "" {
			name = *input.Name
		}
		item = &models.OrderItem{
			OrderID:             input.OrderID,
			ProductID:           input.ProductID,
			Name:                name,
			Quantity:            input.Quantity,
			ZoneCode:            input.ZoneCode,
			CalculatedUnitPrice: quote.UnitPrice,
			FinalUnitPrice:      quote.UnitPrice,
			PricingSource:       quote.PricingSource,
			Status:              enums.ItemStatusPending,
		}
		if err := repo.CreateItem(ctx, item); err != nil {
			return errors.Wrap(errors.CodeInternal, err, "create order item")
		}

		reason := initialPricingReason
		newPrice := item.FinalUnitPrice
		entry := &models.OrderItemHistory{
			OrderItemID: item.ID,
			Status:      item.Status,
			NewPrice:    &newPrice,
			Reason:      &reason,
		}
		if err := repo.AppendHistory(ctx, entry); err != nil {
			return errors.Wrap(errors.CodeInternal, err, "record item history")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view := NewItemView(item, actor)
	return &view, nil
}

func (s *service) Get(ctx context.Context, actor Actor, itemID int64) (*ItemView, error) {
	item, err := s.repo.FindItem(ctx, itemID)
	if err != nil {
		if stderr.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "order item not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "load order item")
	}
	if err := s.authorizeRead(ctx, actor, item); err != nil {
		return nil, err
	}
	view := NewItemView(item, actor)
	return &view, nil
}

// List returns items scoped to the actor's organization: companies see lines
// on their own orders, vendors see lines for their own products.
func (s *service) List(ctx context.Context, actor Actor, input ListInput) ([]ItemView, error) {
	items, err := s.repo.ListItems(ctx, input.OrderID, input.Limit, input.Offset)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "list order items")
	}

	switch actor.OrgType {
	case enums.OrgTypeCompany:
		orderIDs, err := s.repo.ListOrderIDsForCompany(ctx, actor.OrgID)
		if err != nil {
			return nil, errors.Wrap(errors.CodeInternal, err, "scope order items")
		}
		allowed := make(map[int64]struct{}, len(orderIDs))
		for _, id := range orderIDs {
			allowed[id] = struct{}{}
		}
		items = filterItems(items, func(item *models.OrderItem) bool {
			_, ok := allowed[item.OrderID]
			return ok
		})
	case enums.OrgTypeVendor:
		productIDs := make([]int64, 0, len(items))
		seen := make(map[int64]struct{}, len(items))
		for i := range items {
			if _, ok := seen[items[i].ProductID]; !ok {
				seen[items[i].ProductID] = struct{}{}
				productIDs = append(productIDs, items[i].ProductID)
			}
		}
		products, err := s.repo.ListProductsByIDs(ctx, productIDs)
		if err != nil {
			return nil, errors.Wrap(errors.CodeInternal, err, "scope order items")
		}
		allowed := make(map[int64]struct{}, len(products))
		for i := range products {
			if products[i].VendorOrgID == actor.OrgID {
				allowed[products[i].ID] = struct{}{}
			}
		}
		items = filterItems(items, func(item *models.OrderItem) bool {
			_, ok := allowed[item.ProductID]
			return ok
		})
	}

	views := make([]ItemView, 0, len(items))
	for i := range items {
		views = append(views, NewItemView(&items[i], actor))
	}
	return views, nil
}

// UpdateStatus moves an item through its lifecycle and appends an audit entry.
// Vendors drive fulfillment, so only members of the owning vendor may call it.
func (s *service) UpdateStatus(ctx context.Context, actor Actor, input UpdateStatusInput) (*ItemView, error) {
	if actor.OrgType != enums.OrgTypeVendor {
		return nil, errors.New(errors.CodeForbidden, "only vendors update item status")
	}
	if !input.Status.IsValid() {
		return nil, errors.New(errors.CodeValidation, "invalid item status").
			WithDetails(map[string]any{"status": string(input.Status)})
	}

	var item *models.OrderItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var err error
		item, err = repo.FindItemForUpdate(ctx, input.ItemID)
		if err != nil {
			if stderr.Is(err, gorm.ErrRecordNotFound) {
				return errors.New(errors.CodeNotFound, "order item not found")
			}
			return errors.Wrap(errors.CodeInternal, err, "load order item")
		}
		if err := s.checkVendorOwnsProduct(ctx, repo, actor, item.ProductID); err != nil {
			return err
		}

		item.Status = input.Status
		if err := repo.SaveItem(ctx, item); err != nil {
			return errors.Wrap(errors.CodeInternal, err, "update order item")
		}
		// Status entries snapshot the price even though it does not move.
		price := item.FinalUnitPrice
		entry := &models.OrderItemHistory{
			OrderItemID: item.ID,
			Status:      input.Status,
			OldPrice:    &price,
			NewPrice:    &price,
		}
		if err := repo.AppendHistory(ctx, entry); err != nil {
			return errors.Wrap(errors.CodeInternal, err, "record item history")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view := NewItemView(item, actor)
	return &view, nil
}

// OverridePrice replaces the final unit price. The calculated price and the
// pricing source stay untouched so the original resolution remains auditable.
func (s *service) OverridePrice(ctx context.Context, actor Actor, input OverridePriceInput) (*ItemView, error) {
	if actor.OrgType != enums.OrgTypeVendor {
		return nil, errors.New(errors.CodeForbidden, "only vendors override pricing")
	}
	if !actor.Role.IsAdministrative() {
		return nil, errors.New(errors.CodeForbidden, "price override requires an admin role")
	}
	if input.NewPrice.IsNegative() {
		return nil, errors.New(errors.CodeValidation, "price cannot be negative")
	}

	var item *models.OrderItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var err error
		item, err = repo.FindItemForUpdate(ctx, input.ItemID)
		if err != nil {
			if stderr.Is(err, gorm.ErrRecordNotFound) {
				return errors.New(errors.CodeNotFound, "order item not found")
			}
			return errors.Wrap(errors.CodeInternal, err, "load order item")
		}
		if err := s.checkVendorOwnsProduct(ctx, repo, actor, item.ProductID); err != nil {
			return err
		}

		oldPrice := item.FinalUnitPrice
		newPrice := input.NewPrice.Round(2)
		item.FinalUnitPrice = newPrice
		if err := repo.SaveItem(ctx, item); err != nil {
			return errors.Wrap(errors.CodeInternal, err, "update order item")
		}

		reason := overrideReason
		if input.Reason != nil && *input.Reason != "" {
			reason = *input.Reason
		}
		entry := &models.OrderItemHistory{
			OrderItemID: item.ID,
			Status:      item.Status,
			OldPrice:    &oldPrice,
			NewPrice:    &newPrice,
			Reason:      &reason,
		}
		if err := repo.AppendHistory(ctx, entry); err != nil {
			return errors.Wrap(errors.CodeInternal, err, "record item history")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view := NewItemView(item, actor)
	return &view, nil
}

// History returns the item's audit entries, newest first.
func (s *service) History(ctx context.Context, actor Actor, itemID int64) ([]HistoryView, error) {
	item, err := s.repo.FindItem(ctx, itemID)
	if err != nil {
		if stderr.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "order item not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "load order item")
	}
	if err := s.authorizeRead(ctx, actor, item); err != nil {
		return nil, err
	}

	entries, err := s.repo.ListHistory(ctx, itemID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "list item history")
	}
	views := make([]HistoryView, 0, len(entries))
	for i := range entries {
		views = append(views, NewHistoryView(&entries[i], actor))
	}
	return views, nil
}

// authorizeRead admits the platform owner, the company the order belongs to,
// and the vendor that owns the product.
func (s *service) authorizeRead(ctx context.Context, actor Actor, item *models.OrderItem) error {
	switch actor.OrgType {
	case enums.OrgTypeAppOwner:
		return nil
	case enums.OrgTypeCompany:
		order, err := s.repo.FindOrder(ctx, item.OrderID)
		if err != nil {
			return errors.Wrap(errors.CodeInternal, err, "load order")
		}
		if order.CompanyOrgID != actor.OrgID {
			return errors.New(errors.CodeForbidden, "order belongs to another company")
		}
		return nil
	case enums.OrgTypeVendor:
		return s.checkVendorOwnsProduct(ctx, s.repo, actor, item.ProductID)
	default:
		return errors.New(errors.CodeForbidden, "access denied")
	}
}

func (s *service) checkVendorOwnsProduct(ctx context.Context, repo Repository, actor Actor, productID int64) error {
	product, err := repo.FindProduct(ctx, productID)
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "load product")
	}
	if product.VendorOrgID != actor.OrgID {
		return errors.New(errors.CodeForbidden, "product belongs to another vendor")
	}
	return nil
}

func filterItems(items []models.OrderItem, keep func(*models.OrderItem) bool) []models.OrderItem {
	filtered := items[:0]
	for i := range items {
		if keep(&items[i]) {
			filtered = append(filtered, items[i])
		}
	}
	return filtered
}
