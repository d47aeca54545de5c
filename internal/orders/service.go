package orders

import (
	"context"
	stderr "errors"

	"gorm.io/gorm"

	"github.com/nexobuy/nexobuy-backend/pkg/db/models"
	"github.com/nexobuy/nexobuy-backend/pkg/enums"
	"github.com/nexobuy/nexobuy-backend/pkg/errors"
	"github.com/nexobuy/nexobuy-backend/pkg/pagination"
)

// Service defines order aggregate operations. Line-level work lives with the
// order item service.
type Service interface {
	Create(ctx context.Context, actor Actor, input CreateInput) (*OrderView, error)
	Get(ctx context.Context, actor Actor, orderID int64) (*OrderView, error)
	List(ctx context.Context, actor Actor, input ListInput) (*OrderPage, error)
	UpdateStatus(ctx context.Context, actor Actor, input UpdateStatusInput) (*OrderView, error)
}

type service struct {
	repo Repository
}

// NewService wires an order service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New(errors.CodeInternal, "orders: repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, actor Actor, input CreateInput) (*OrderView, error) {
	if actor.OrgType != enums.OrgTypeCompany {
		return nil, errors.New(errors.CodeForbidden, "only companies place orders")
	}
	if !actor.Role.IsAdministrative() {
		return nil, errors.New(errors.CodeForbidden, "placing orders requires an admin role")
	}

	order := &models.Order{
		CompanyOrgID:   actor.OrgID,
		PlacedByUserID: actor.UserID,
		Reference:      input.Reference,
		Status:         enums.OrderStatusOpen,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "create order")
	}
	view := NewOrderView(order)
	return &view, nil
}

func (s *service) Get(ctx context.Context, actor Actor, orderID int64) (*OrderView, error) {
	order, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := authorizeOrderRead(actor, order); err != nil {
		return nil, err
	}
	view := NewOrderView(order)
	return &view, nil
}

func (s *service) List(ctx context.Context, actor Actor, input ListInput) (*OrderPage, error) {
	if actor.OrgType != enums.OrgTypeCompany {
		return nil, errors.New(errors.CodeForbidden, "order listing is company scoped")
	}

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, errors.New(errors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(input.Pagination.Limit)

	rows, err := s.repo.ListByCompany(ctx, actor.OrgID, cursor, limit+1)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "list orders")
	}

	page := &OrderPage{Orders: make([]OrderView, 0, len(rows))}
	if len(rows) > limit {
		last := rows[limit-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		page.NextCursor = &next
		rows = rows[:limit]
	}
	for i := range rows {
		page.Orders = append(page.Orders, NewOrderView(&rows[i]))
	}
	return page, nil
}

// UpdateStatus closes or reopens an order. Items on a non-open order can no
// longer be added, so completing an order freezes its composition.
func (s *service) UpdateStatus(ctx context.Context, actor Actor, input UpdateStatusInput) (*OrderView, error) {
	if actor.OrgType != enums.OrgTypeCompany || !actor.Role.IsAdministrative() {
		return nil, errors.New(errors.CodeForbidden, "order status updates require a company admin")
	}
	if !input.Status.IsValid() {
		return nil, errors.New(errors.CodeValidation, "invalid order status").
			WithDetails(map[string]any{"status": string(input.Status)})
	}

	order, err := s.find(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.CompanyOrgID != actor.OrgID {
		return nil, errors.New(errors.CodeForbidden, "order belongs to another company")
	}

	order.Status = input.Status
	if err := s.repo.Save(ctx, order); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "update order")
	}
	view := NewOrderView(order)
	return &view, nil
}

func (s *service) find(ctx context.Context, orderID int64) (*models.Order, error) {
	order, err := s.repo.Find(ctx, orderID)
	if err != nil {
		if stderr.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "order not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "load order")
	}
	return order, nil
}

func authorizeOrderRead(actor Actor, order *models.Order) error {
	if actor.OrgType == enums.OrgTypeAppOwner {
		return nil
	}
	if actor.OrgType == enums.OrgTypeCompany && order.CompanyOrgID == actor.OrgID {
		return nil
	}
	return errors.New(errors.CodeForbidden, "access denied")
}
