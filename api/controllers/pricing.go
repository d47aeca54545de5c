package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nexobuy/nexobuy-backend/api/middleware"
	"github.com/nexobuy/nexobuy-backend/api/responses"
	"github.com/nexobuy/nexobuy-backend/api/validators"
	pricingsvc "github.com/nexobuy/nexobuy-backend/internal/pricing"
	"github.com/nexobuy/nexobuy-backend/pkg/enums"
	pkgerrors "github.com/nexobuy/nexobuy-backend/pkg/errors"
	"github.com/nexobuy/nexobuy-backend/pkg/logger"
)

func pricingActor(identity middleware.Identity) pricingsvc.Actor {
	return pricingsvc.Actor{
		UserID:  identity.UserID,
		OrgID:   identity.OrgID,
		OrgType: identity.OrgType,
		Role:    identity.Role,
	}
}

type previewPriceRequest struct {
	ProductID int64   `json:"product_id" validate:"required,min=1"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
	ZoneCode  *string `json:"zone_code,omitempty"`
}

// PreviewPrice resolves the effective unit price for a product, quantity and
// optional delivery zone without writing anything.
func PreviewPrice(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := requireIdentity(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload previewPriceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Resolve(r.Context(), pricingsvc.ResolveInput{
			ProductID: payload.ProductID,
			Quantity:  payload.Quantity,
			ZoneCode:  payload.ZoneCode,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}

type zoneRuleRequest struct {
	ZoneCode string          `json:"zone_code" validate:"required"`
	Kind     string          `json:"kind" validate:"required"`
	Amount   decimal.Decimal `json:"amount"`
	Active   *bool           `json:"active,omitempty"`
}

func (req zoneRuleRequest) toInput() (pricingsvc.ZoneRuleInput, error) {
	kind, err := enums.ParseAdjustmentKind(strings.TrimSpace(req.Kind))
	if err != nil {
		return pricingsvc.ZoneRuleInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid adjustment kind")
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	return pricingsvc.ZoneRuleInput{
		ZoneCode: strings.TrimSpace(req.ZoneCode),
		Kind:     kind,
		Amount:   req.Amount,
		Active:   active,
	}, nil
}

// ListZoneRules returns a product's zone adjustments for its owning vendor.
func ListZoneRules(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := pathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rules, err := svc.ListZoneRules(r.Context(), pricingActor(identity), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rules)
	}
}

// CreateZoneRule adds a zone adjustment to a vendor's own product.
func CreateZoneRule(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := pathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload zoneRuleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rule, err := svc.CreateZoneRule(r.Context(), pricingActor(identity), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, rule)
	}
}

// UpdateZoneRule rewrites an existing zone adjustment.
func UpdateZoneRule(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ruleID, err := pathID(r, "ruleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload zoneRuleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rule, err := svc.UpdateZoneRule(r.Context(), pricingActor(identity), ruleID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rule)
	}
}

// DeleteZoneRule removes a zone adjustment.
func DeleteZoneRule(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ruleID, err := pathID(r, "ruleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteZoneRule(r.Context(), pricingActor(identity), ruleID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type tierRuleRequest struct {
	MinQty int             `json:"min_qty" validate:"required,min=1"`
	Kind   string          `json:"kind" validate:"required"`
	Amount decimal.Decimal `json:"amount"`
	Active *bool           `json:"active,omitempty"`
}

func (req tierRuleRequest) toInput() (pricingsvc.TierRuleInput, error) {
	kind, err := enums.ParseAdjustmentKind(strings.TrimSpace(req.Kind))
	if err != nil {
		return pricingsvc.TierRuleInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid adjustment kind")
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	return pricingsvc.TierRuleInput{
		MinQty: req.MinQty,
		Kind:   kind,
		Amount: req.Amount,
		Active: active,
	}, nil
}

// ListTierRules returns a product's quantity tiers for its owning vendor.
func ListTierRules(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := pathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rules, err := svc.ListTierRules(r.Context(), pricingActor(identity), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rules)
	}
}

// CreateTierRule adds a quantity tier to a vendor's own product.
func CreateTierRule(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := pathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload tierRuleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rule, err := svc.CreateTierRule(r.Context(), pricingActor(identity), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, rule)
	}
}

// UpdateTierRule rewrites an existing quantity tier.
func UpdateTierRule(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ruleID, err := pathID(r, "ruleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload tierRuleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rule, err := svc.UpdateTierRule(r.Context(), pricingActor(identity), ruleID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rule)
	}
}

// DeleteTierRule removes a quantity tier.
func DeleteTierRule(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ruleID, err := pathID(r, "ruleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteTierRule(r.Context(), pricingActor(identity), ruleID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
