package controllers

import (
	"net/http"

	"github.com/arleipolo/storefront-backend/api/responses"
	"github.com/arleipolo/storefront-backend/api/validators"
	contactsvc "github.com/arleipolo/storefront-backend/internal/contact"
	pkgerrors "github.com/arleipolo/storefront-backend/pkg/errors"
	"github.com/arleipolo/storefront-backend/pkg/logger"
)

// SubmitContact forwards a contact form submission to the shop inbox.
func SubmitContact(svc contactsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contact service unavailable"))
			return
		}

		var payload contactsvc.Input
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Submit(r.Context(), payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "sent"})
	}
}
