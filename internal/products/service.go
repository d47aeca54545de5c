package products

import (
	"context"
	stderr "errors"

	"gorm.io/gorm"

	"github.com/nexobuy/nexobuy-backend/pkg/db/models"
	"github.com/nexobuy/nexobuy-backend/pkg/enums"
	"github.com/nexobuy/nexobuy-backend/pkg/errors"
)

// Service defines catalog operations. Vendors manage their own listings;
// companies browse everything.
type Service interface {
	Create(ctx context.Context, actor Actor, input CreateInput) (*ProductView, error)
	Get(ctx context.Context, actor Actor, productID int64) (*ProductView, error)
	Update(ctx context.Context, actor Actor, input UpdateInput) (*ProductView, error)
	List(ctx context.Context, actor Actor, input ListInput) ([]ProductView, error)
	ListUnits(ctx context.Context) ([]UnitView, error)
}

type service struct {
	repo Repository
}

// NewService wires a catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New(errors.CodeInternal, "products: repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, actor Actor, input CreateInput) (*ProductView, error) {
	if actor.OrgType != enums.OrgTypeVendor {
		return nil, errors.New(errors.CodeForbidden, "only vendors create products")
	}
	if !actor.Role.IsAdministrative() {
		return nil, errors.New(errors.CodeForbidden, "product changes require an admin role")
	}
	if input.Name == "" {
		return nil, errors.New(errors.CodeValidation, "name is required")
	}
	if input.BasePrice.IsNegative() {
		return nil, errors.New(errors.CodeValidation, "base price cannot be negative")
	}
	if _, err := s.repo.FindUnit(ctx, input.UnitID); err != nil {
		if stderr.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeValidation, "invalid unit selection")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "load unit")
	}

	product := &models.Product{
		VendorOrgID: actor.OrgID,
		Name:        input.Name,
		Description: input.Description,
		BasePrice:   input.BasePrice.Round(2),
		UnitID:      input.UnitID,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "create product")
	}
	view := NewProductView(product)
	return &view, nil
}

func (s *service) Get(ctx context.Context, actor Actor, productID int64) (*ProductView, error) {
	product, err := s.find(ctx, productID)
	if err != nil {
		return nil, err
	}
	if actor.OrgType == enums.OrgTypeVendor && product.VendorOrgID != actor.OrgID {
		return nil, errors.New(errors.CodeForbidden, "product belongs to another vendor")
	}
	view := NewProductView(product)
	return &view, nil
}

// Update applies a partial edit. Base price changes affect future resolutions
// only; prices already frozen on order items stay as captured.
func (s *service) Update(ctx context.Context, actor Actor, input UpdateInput) (*ProductView, error) {
	if actor.OrgType != enums.OrgTypeVendor || !actor.Role.IsAdministrative() {
		return nil, errors.New(errors.CodeForbidden, "product changes require a vendor admin")
	}

	product, err := s.find(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product.VendorOrgID != actor.OrgID {
		return nil, errors.New(errors.CodeForbidden, "product belongs to another vendor")
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, errors.New(errors.CodeValidation, "name is required")
		}
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.BasePrice != nil {
		if input.BasePrice.IsNegative() {
			return nil, errors.New(errors.CodeValidation, "base price cannot be negative")
		}
		product.BasePrice = input.BasePrice.Round(2)
	}
	if input.UnitID != nil {
		if _, err := s.repo.FindUnit(ctx, *input.UnitID); err != nil {
			if stderr.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.New(errors.CodeValidation, "invalid unit selection")
			}
			return nil, errors.Wrap(errors.CodeInternal, err, "load unit")
		}
		product.UnitID = *input.UnitID
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "update product")
	}
	view := NewProductView(product)
	return &view, nil
}

func (s *service) List(ctx context.Context, actor Actor, input ListInput) ([]ProductView, error) {
	var (
		rows []models.Product
		err  error
	)
	if actor.OrgType == enums.OrgTypeVendor {
		rows, err = s.repo.ListByVendor(ctx, actor.OrgID, input.Limit, input.Offset)
	} else {
		rows, err = s.repo.ListAll(ctx, input.Limit, input.Offset)
	}
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "list products")
	}

	views := make([]ProductView, 0, len(rows))
	for i := range rows {
		views = append(views, NewProductView(&rows[i]))
	}
	return views, nil
}

func (s *service) ListUnits(ctx context.Context) ([]UnitView, error) {
	units, err := s.repo.ListUnits(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "list units")
	}
	views := make([]UnitView, 0, len(units))
	for i := range units {
		views = append(views, NewUnitView(&units[i]))
	}
	return views, nil
}

func (s *service) find(ctx context.Context, productID int64) (*models.Product, error) {
	product, err := s.repo.Find(ctx, productID)
	if err != nil {
		if stderr.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "product not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "load product")
	}
	return product, nil
}
