package media

import (
	"context"
	"fmt"
	"io"

	"github.com/arleipolo/storefront-backend/pkg/config"
	pkgerrors "github.com/arleipolo/storefront-backend/pkg/errors"
	"github.com/arleipolo/storefront-backend/pkg/logger"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Asset describes an uploaded CDN asset.
type Asset struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// Service wraps the image CDN boundary.
type Service interface {
	Upload(ctx context.Context, file io.Reader) (*Asset, error)
	Destroy(ctx context.Context, publicID string) error
}

type service struct {
	cld    *cloudinary.Cloudinary
	folder string
	logg   *logger.Logger
}

// NewService connects to Cloudinary using the configured URL.
func NewService(cfg config.MediaConfig, logg *logger.Logger) (Service, error) {
	if cfg.CloudinaryURL == "" {
		return nil, fmt.Errorf("cloudinary url is required")
	}
	cld, err := cloudinary.NewFromURL(cfg.CloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to cloudinary: %w", err)
	}
	return &service{cld: cld, folder: cfg.UploadFolder, logg: logg}, nil
}

func (s *service) Upload(ctx context.Context, file io.Reader) (*Asset, error) {
	resp, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{Folder: s.folder})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "image upload failed")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "public_id", resp.PublicID), "image uploaded")
	}
	return &Asset{URL: resp.SecureURL, PublicID: resp.PublicID}, nil
}

func (s *service) Destroy(ctx context.Context, publicID string) error {
	if publicID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "public id is required")
	}
	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "image delete failed")
	}
	return nil
}
