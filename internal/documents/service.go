package documents

import (
	"context"
	stderr "errors"
	"strings"

	"gorm.io/gorm"

	"github.com/nexobuy/nexobuy-backend/pkg/db/models"
	"github.com/nexobuy/nexobuy-backend/pkg/enums"
	"github.com/nexobuy/nexobuy-backend/pkg/errors"
)

// Service defines order document operations. Like invoices, documents are
// admin-only records scoped to the orders an organization can see.
type Service interface {
	Create(ctx context.Context, actor Actor, input CreateInput) (*DocumentView, error)
	Get(ctx context.Context, actor Actor, documentID int64) (*DocumentView, error)
	List(ctx context.Context, actor Actor, input ListInput) ([]DocumentView, error)
	Delete(ctx context.Context, actor Actor, documentID int64) error
}

type service struct {
	repo Repository
}

// NewService wires a document service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New(errors.CodeInternal, "documents: repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, actor Actor, input CreateInput) (*DocumentView, error) {
	if !actor.Role.IsAdministrative() {
		return nil, errors.New(errors.CodeForbidden, "documents require an admin role")
	}
	if !input.Kind.IsValid() {
		return nil, errors.New(errors.CodeValidation, "invalid document kind").
			WithDetails(map[string]any{"kind": string(input.Kind)})
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

	doc := &models.OrderDocument{
		OrderID:          order.ID,
		Kind:             input.Kind,
		FileURL:          strings.TrimSpace(input.FileURL),
		UploadedByUserID: actor.UserID,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "create document")
	}
	view := NewDocumentView(doc)
	return &view, nil
}

func (s *service) Get(ctx context.Context, actor Actor, documentID int64) (*DocumentView, error) {
	if !actor.Role.IsAdministrative() {
		return nil, errors.New(errors.CodeForbidden, "documents require an admin role")
	}

	doc, err := s.find(ctx, documentID)
	if err != nil {
		return nil, err
	}
	order, err := s.findOrder(ctx, doc.OrderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOrderAccess(ctx, actor, order); err != nil {
		return nil, err
	}
	view := NewDocumentView(doc)
	return &view, nil
}

func (s *service) List(ctx context.Context, actor Actor, input ListInput) ([]DocumentView, error) {
	if !actor.Role.IsAdministrative() {
		return nil, errors.New(errors.CodeForbidden, "documents require an admin role")
	}

	var (
		rows []models.OrderDocument
		err  error
	)
	switch actor.OrgType {
	case enums.OrgTypeCompany:
		rows, err = s.repo.ListForCompany(ctx, actor.OrgID, input.OrderID, input.Limit, input.Offset)
	case enums.OrgTypeVendor:
		rows, err = s.repo.ListForVendor(ctx, actor.OrgID, input.OrderID, input.Limit, input.Offset)
	default:
		rows, err = s.repo.ListAll(ctx, input.OrderID, input.Limit, input.Offset)
	}
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "list documents")
	}

	views := make([]DocumentView, 0, len(rows))
	for i := range rows {
		views = append(views, NewDocumentView(&rows[i]))
	}
	return views, nil
}

func (s *service) Delete(ctx context.Context, actor Actor, documentID int64) error {
	if !actor.Role.IsAdministrative() {
		return errors.New(errors.CodeForbidden, "documents require an admin role")
	}

	doc, err := s.find(ctx, documentID)
	if err != nil {
		return err
	}
	order, err := s.findOrder(ctx, doc.OrderID)
	if err != nil {
		return err
	}
	if err := s.authorizeOrderAccess(ctx, actor, order); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, documentID); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "delete document")
	}
	return nil
}

func (s *service) find(ctx context.Context, documentID int64) (*models.OrderDocument, error) {
	doc, err := s.repo.Find(ctx, documentID)
	if err != nil {
		if stderr.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "document not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "load document")
	}
	return doc, nil
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
	return errors.New(errors.CodeForbidden, "document is not visible to your organization")
}
