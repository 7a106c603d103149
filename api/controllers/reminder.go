package controllers

import (
	"net/http"

	"github.com/arleipolo/storefront-backend/api/responses"
	"github.com/arleipolo/storefront-backend/api/validators"
	remindersvc "github.com/arleipolo/storefront-backend/internal/reminder"
	pkgerrors "github.com/arleipolo/storefront-backend/pkg/errors"
	"github.com/arleipolo/storefront-backend/pkg/logger"
)

// SendCartReminder dispatches a cart reminder email for the posted snapshot.
func SendCartReminder(svc remindersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reminder service unavailable"))
			return
		}

		var payload remindersvc.SendInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Send(r.Context(), payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "sent"})
	}
}
