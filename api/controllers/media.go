package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arleipolo/storefront-backend/api/responses"
	mediasvc "github.com/arleipolo/storefront-backend/internal/media"
	pkgerrors "github.com/arleipolo/storefront-backend/pkg/errors"
	"github.com/arleipolo/storefront-backend/pkg/logger"
)

const maxUploadBytes = 10 << 20

// UploadMedia accepts a multipart image upload and pushes it to the CDN.
func UploadMedia(svc mediasvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file field is required"))
			return
		}
		defer file.Close()

		asset, err := svc.Upload(r.Context(), file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, asset)
	}
}

// DestroyMedia removes an asset from the CDN by public id.
func DestroyMedia(svc mediasvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		if err := svc.Destroy(r.Context(), chi.URLParam(r, "publicID")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
