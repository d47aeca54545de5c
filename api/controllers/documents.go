package controllers

import (
	"net/http"
	"strings"

	"github.com/nexobuy/nexobuy-backend/api/middleware"
	"github.com/nexobuy/nexobuy-backend/api/responses"
	"github.com/nexobuy/nexobuy-backend/api/validators"
	docsvc "github.com/nexobuy/nexobuy-backend/internal/documents"
	"github.com/nexobuy/nexobuy-backend/pkg/enums"
	pkgerrors "github.com/nexobuy/nexobuy-backend/pkg/errors"
	"github.com/nexobuy/nexobuy-backend/pkg/logger"
)

func documentActor(identity middleware.Identity) docsvc.Actor {
	return docsvc.Actor{
		UserID:  identity.UserID,
		OrgID:   identity.OrgID,
		OrgType: identity.OrgType,
		Role:    identity.Role,
	}
}

type createDocumentRequest struct {
	OrderID int64  `json:"order_id" validate:"required,min=1"`
	Kind    string `json:"kind" validate:"required"`
	FileURL string `json:"file_url" validate:"required,url"`
}

// CreateDocument attaches paperwork to an order the caller can see.
func CreateDocument(svc docsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createDocumentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParseDocumentKind(strings.TrimSpace(payload.Kind))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid document kind"))
			return
		}

		doc, err := svc.Create(r.Context(), documentActor(identity), docsvc.CreateInput{
			OrderID: payload.OrderID,
			Kind:    kind,
			FileURL: payload.FileURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, doc)
	}
}

// GetDocument returns a single document visible to the caller.
func GetDocument(svc docsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		documentID, err := pathID(r, "documentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		doc, err := svc.Get(r.Context(), documentActor(identity), documentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, doc)
	}
}

// ListDocuments returns order paperwork visible to the caller, optionally
// narrowed by order_id.
func ListDocuments(svc docsvc.Service, logg *logger.Logger) http.HandlerFunc {
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
		orderID, err := validators.ParseQueryInt(r, "order_id", 0, 0, 1<<31)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		docs, err := svc.List(r.Context(), documentActor(identity), docsvc.ListInput{
			OrderID: int64(orderID),
			Limit:   limit,
			Offset:  offset,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, docs)
	}
}

// DeleteDocument removes paperwork from an order the caller can see.
func DeleteDocument(svc docsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		documentID, err := pathID(r, "documentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), documentActor(identity), documentID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"message": "document deleted"})
	}
}
