package invoices

import (
	"context"
	stderr "errors"
	"strings"

	"gorm.io/gorm"

	"github.com/nexobuy/nexobuy-backend/pkg/db/models"
	"github.com/nexobuy/nexobuy-backend/pkg/enums"
	"github.com/nexobuy/nexobuy-backend/pkg/errors"
)

// Service defines invoice operations. Invoices are admin-only billing records
// scoped to the orders an organization can see.
type Service interface {
	Create(ctx context.Context, actor Actor, input CreateInput) (*InvoiceView, error)
	Get(ctx context.Context, actor Actor, invoiceID int64) (*InvoiceView, error)
	List(ctx context.Context, actor Actor, input ListInput) ([]InvoiceView, error)
	Delete(ctx context.Context, actor Actor, invoiceID int64) error
}

type service struct {
	repo Repository
}

// NewService wires an invoice service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New(errors.CodeInternal, "invoices: repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, actor Actor, input CreateInput) (*InvoiceView, error) {
	if !actor.Role.IsAdministrative() {
		return nil, errors.New(errors.CodeForbidden, "invoices require an admin role")
	}
	if strings.TrimSpace(input.FileURL) == "" {
		return nil, errors.New(errors.CodeValidation, "file_url is required")
	}

	order, err := s.findOrder(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOrderAccess(ctx, actor, order); err != nil {
		return nil, err
	}

	invoice := &models.Invoice{
		OrderID:         order.ID,
		FileURL:         strings.TrimSpace(input.FileURL),
		CreatedByUserID: actor.UserID,
	}
	if err := s.repo.Create(ctx, invoice); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "create invoice")
	}
	view := NewInvoiceView(invoice)
	return &view, nil
}

func (s *service) Get(ctx context.Context, actor Actor, invoiceID int64) (*InvoiceView, error) {
	if !actor.Role.IsAdministrative() {
		return nil, errors.New(errors.CodeForbidden, "invoices require an admin role")
	}

	invoice, err := s.find(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	order, err := s.findOrder(ctx, invoice.OrderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOrderAccess(ctx, actor, order); err != nil {
		return nil, err
	}
	view := NewInvoiceView(invoice)
	return &view, nil
}

func (s *service) List(ctx context.Context, actor Actor, input ListInput) ([]InvoiceView, error) {
	if !actor.Role.IsAdministrative() {
		return nil, errors.New(errors.CodeForbidden, "invoices require an admin role")
	}

	var (
		rows []models.Invoice
		err  error
	)
	switch actor.OrgType {
	case enums.OrgTypeCompany:
		rows, err = s.repo.ListForCompany(ctx, actor.OrgID, input.Limit, input.Offset)
	case enums.OrgTypeVendor:
		rows, err = s.repo.ListForVendor(ctx, actor.OrgID, input.Limit, input.Offset)
	default:
		rows, err = s.repo.ListAll(ctx, input.Limit, input.Offset)
	}
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "list invoices")
	}

	views := make([]InvoiceView, 0, len(rows))
	for i := range rows {
		views = append(views, NewInvoiceView(&rows[i]))
	}
	return views, nil
}

func (s *service) Delete(ctx context.Context, actor Actor, invoiceID int64) error {
	if !actor.Role.IsAdministrative() {
		return errors.New(errors.CodeForbidden, "invoices require an admin role")
	}

	invoice, err := s.find(ctx, invoiceID)
	if err != nil {
		return err
	}
	order, err := s.findOrder(ctx, invoice.OrderID)
	if err != nil {
		return err
	}
	if err := s.authorizeOrderAccess(ctx, actor, order); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, invoiceID); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "delete invoice")
	}
	return nil
}

func (s *service) find(ctx context.Context, invoiceID int64) (*models.Invoice, error) {
	invoice, err := s.repo.Find(ctx, invoiceID)
	if err != nil {
		if stderr.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "invoice not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "load invoice")
	}
	return invoice, nil
}

func (s *service) findOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		if stderr.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "order not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "load order")
	}
	return order, nil
}

func (s *service) authorizeOrderAccess(ctx context.Context, actor Actor, order *models.Order) error {
	switch actor.OrgType {
	case enums.OrgTypeAppOwner:
		return nil
	case enums.OrgTypeCompany:
		if order.CompanyOrgID == actor.OrgID {
			return nil
		}
	case enums.OrgTypeVendor:
		ok, err := s.repo.VendorHasItems(ctx, order.ID, actor.OrgID)
		if err != nil {
			return errors.Wrap(errors.CodeInternal, err, "check vendor items")
		}
		if ok {
			return nil
		}
	}
	return errors.New(errors.CodeForbidden, "invoice is not visible to your organization")
}
