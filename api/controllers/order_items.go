package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nexobuy/nexobuy-backend/api/middleware"
	"github.com/nexobuy/nexobuy-backend/api/responses"
	"github.com/nexobuy/nexobuy-backend/api/validators"
	itemsvc "github.com/nexobuy/nexobuy-backend/internal/orderitems"
	"github.com/nexobuy/nexobuy-backend/pkg/enums"
	pkgerrors "github.com/nexobuy/nexobuy-backend/pkg/errors"
	"github.com/nexobuy/nexobuy-backend/pkg/logger"
)

func itemActor(identity middleware.Identity) itemsvc.Actor {
	return itemsvc.Actor{
		UserID:  identity.UserID,
		OrgID:   identity.OrgID,
		OrgType: identity.OrgType,
		Role:    identity.Role,
	}
}

type createOrderItemRequest struct {
	OrderID   int64   `json:"order_id" validate:"required,min=1"`
	ProductID int64   `json:"product_id" validate:"required,min=1"`
	Name      *string `json:"name,omitempty"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
	ZoneCode  *string `json:"zone_code,omitempty"`
}

// CreateOrderItem adds an item to an open order and freezes its resolved price.
func CreateOrderItem(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createOrderItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Create(r.Context(), itemActor(identity), itemsvc.CreateInput{
			OrderID:   payload.OrderID,
			ProductID: payload.ProductID,
			Name:      payload.Name,
			Quantity:  payload.Quantity,
			ZoneCode:  payload.ZoneCode,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// GetOrderItem returns a single item visible to the caller.
func GetOrderItem(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := pathID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Get(r.Context(), itemActor(identity), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

// ListOrderItems returns items scoped to the caller's organization. Company
// members see their own orders, vendor members their own products.
func ListOrderItems(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1_000_000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var orderID int64
		if raw := strings.TrimSpace(r.URL.Query().Get("order_id")); raw != "" {
			orderID, err = validators.ParsePathID(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		items, err := svc.List(r.Context(), itemActor(identity), itemsvc.ListInput{
			OrderID: orderID,
			Limit:   limit,
			Offset:  offset,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}

type updateItemStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateOrderItemStatus moves an item through its fulfillment lifecycle.
func UpdateOrderItemStatus(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := pathID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateItemStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseItemStatus(strings.TrimSpace(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item status"))
			return
		}

		item, err := svc.UpdateStatus(r.Context(), itemActor(identity), itemsvc.UpdateStatusInput{
			ItemID: itemID,
			Status: status,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

type overridePriceRequest struct {
	NewPrice decimal.Decimal `json:"new_price"`
	Reason   *string         `json:"reason,omitempty"`
}

// OverrideOrderItemPrice replaces an item's final unit price by hand. The
// original resolution stays on the item for audit.
func OverrideOrderItemPrice(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := pathID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload overridePriceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.OverridePrice(r.Context(), itemActor(identity), itemsvc.OverridePriceInput{
			ItemID:   itemID,
			NewPrice: payload.NewPrice,
			Reason:   payload.Reason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

// OrderItemHistory lists an item's audit trail, newest first.
func OrderItemHistory(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := pathID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.History(r.Context(), itemActor(identity), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, entries)
	}
}
