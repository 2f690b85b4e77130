// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package upload stores listing images in object storage.

An image is accepted only when it is an image/* file of at most 5 MiB. Each
upload gets a fresh object path, so a stored object is never overwritten and
its public URL can be cached forever.
*/
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/toikana/marketplace/internal/catalog"
	"github.com/toikana/marketplace/internal/platform/apperr"
	"github.com/toikana/marketplace/internal/platform/i18n"
	"github.com/toikana/marketplace/internal/platform/objstore"
	"github.com/toikana/marketplace/internal/platform/sec"
	"github.com/toikana/marketplace/pkg/media"
	"github.com/toikana/marketplace/pkg/slug"
	"github.com/toikana/marketplace/pkg/uuid"
)

// CacheControl is sent with every stored image.
const CacheControl = "public, max-age=31536000, immutable"

// Image describes a file received from a client.
type Image struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Result is returned to the client after a successful upload.
type Result struct {
	URL         string `json:"url"`
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Service implements the image upload use case.
type Service struct {
	store  objstore.Store
	bucket string
	logger *slog.Logger
}

// NewService constructs an upload [Service] writing to bucket.
func NewService(store objstore.Store, bucket string, logger *slog.Logger) *Service {
	return &Service{store: store, bucket: bucket, logger: logger}
}

// ObjectPath builds "<kind>/<owner>/<uuid>[-<slug>]<ext>".
func ObjectPath(kind catalog.Kind, ownerID, filename, contentType string) string {
	name := uuid.New()
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	if readable := slug.From(base); readable != "" {
		name += "-" + readable
	}
	return path.Join(kind.String(), ownerID, name+media.Extension(contentType))
}

// CheckError maps a media rejection to a localized validation error.
func CheckError(lang i18n.Language, err error) error {
	bundle := i18n.DefaultBundle()
	switch {
	case errors.Is(err, media.ErrTooLarge):
		return apperr.ValidationError(bundle.T(lang, i18n.KeyImageTooLarge, media.MaxImageSizeMB))
	case errors.Is(err, media.ErrEmpty):
		return apperr.ValidationError(bundle.T(lang, i18n.KeyImageEmpty))
	case errors.Is(err, media.ErrNotImage):
		return apperr.ValidationError(bundle.T(lang, i18n.KeyImageNotImage))
	}
	return err
}

/*
Upload validates and stores one listing image.

Parameters:
  - context: context.Context
  - principal: *sec.Principal (partner or admin)
  - kind: catalog.Kind (object folder)
  - image: Image

Returns:
  - *Result: Public URL and object path
  - error: Validation (size, type) or storage failures
*/
func (service *Service) Upload(context context.Context, principal *sec.Principal, kind catalog.Kind, image Image) (*Result, error) {
	if err := media.CheckImage(image.Size, image.ContentType); err != nil {
		return nil, err
	}

	objectPath := ObjectPath(kind, principal.ID, image.Filename, image.ContentType)

	url, err := service.store.Upload(context, service.bucket, objectPath, image.Body, objstore.UploadOptions{
		ContentType:  image.ContentType,
		CacheControl: CacheControl,
		Upsert:       false,
	})
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("upload_service_store_failed: %w", err)).WithKey(i18n.KeyImageUploadFail)
	}

	service.logger.InfoContext(context, "image_uploaded",
		slog.String("path", objectPath),
		slog.Int64("size", image.Size),
		slog.String("owner_id", principal.ID),
	)

	return &Result{URL: url, Path: objectPath, ContentType: image.ContentType, Size: image.Size}, nil
}
