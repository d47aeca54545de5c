package controllers

import (
	"net/http"

	"github.com/nexobuy/nexobuy-backend/api/middleware"
	"github.com/nexobuy/nexobuy-backend/api/responses"
	"github.com/nexobuy/nexobuy-backend/api/validators"
	invoicesvc "github.com/nexobuy/nexobuy-backend/internal/invoices"
	"github.com/nexobuy/nexobuy-backend/pkg/logger"
)

func invoiceActor(identity middleware.Identity) invoicesvc.Actor {
	return invoicesvc.Actor{
		UserID:  identity.UserID,
		OrgID:   identity.OrgID,
		OrgType: identity.OrgType,
		Role:    identity.Role,
	}
}

type createInvoiceRequest struct {
	OrderID int64  `json:"order_id" validate:"required,min=1"`
	FileURL string `json:"file_url" validate:"required,url"`
}

// CreateInvoice attaches a billing record to an order the caller can see.
func CreateInvoice(svc invoicesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createInvoiceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invoice, err := svc.Create(r.Context(), invoiceActor(identity), invoicesvc.CreateInput{
			OrderID: payload.OrderID,
			FileURL: payload.FileURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, invoice)
	}
}

// GetInvoice returns a single invoice visible to the caller.
func GetInvoice(svc invoicesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invoiceID, err := pathID(r, "invoiceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invoice, err := svc.Get(r.Context(), invoiceActor(identity), invoiceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, invoice)
	}
}

// ListInvoices returns the invoices on orders the caller's org is party to.
func ListInvoices(svc invoicesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 100, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1_000_000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invoices, err := svc.List(r.Context(), invoiceActor(identity), invoicesvc.ListInput{
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, invoices)
	}
}

// DeleteInvoice removes an invoice from an order the caller can see.
func DeleteInvoice(svc invoicesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invoiceID, err := pathID(r, "invoiceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), invoiceActor(identity), invoiceID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"message": "invoice deleted"})
	}
}
