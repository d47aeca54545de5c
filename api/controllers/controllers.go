package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nexobuy/nexobuy-backend/api/middleware"
	"github.com/nexobuy/nexobuy-backend/api/validators"
	pkgerrors "github.com/nexobuy/nexobuy-backend/pkg/errors"
)

func requireIdentity(ctx context.Context) (middleware.Identity, error) {
	identity, ok := middleware.IdentityFromContext(ctx)
	if !ok {
		return middleware.Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "caller identity missing")
	}
	return identity, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	return validators.ParsePathID(chi.URLParam(r, name))
}
