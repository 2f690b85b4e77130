// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/toikana/marketplace/internal/catalog"
	"github.com/toikana/marketplace/internal/platform/i18n"
	"github.com/toikana/marketplace/internal/upload"
	"github.com/toikana/marketplace/pkg/media"
)

// CheckImage applies the listing image rules locally. The returned
// [UploadError] carries the translation key of the reason.
func CheckImage(size int64, contentType string) error {
	switch err := media.CheckImage(size, contentType); {
	case err == nil:
		return nil
	case errors.Is(err, media.ErrTooLarge):
		return &UploadError{Reason: i18n.KeyImageTooLarge, Cause: err}
	case errors.Is(err, media.ErrEmpty):
		return &UploadError{Reason: i18n.KeyImageEmpty, Cause: err}
	default:
		return &UploadError{Reason: i18n.KeyImageNotImage, Cause: err}
	}
}

// UploadImage stores one listing image and returns its public URL.
func (c *Client) UploadImage(ctx context.Context, kind catalog.Kind, filename, contentType string, data []byte) (*upload.Result, error) {
	if err := CheckImage(int64(len(data)), contentType); err != nil {
		return nil, err
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField(upload.FieldKind, kind.String()); err != nil {
		return nil, &UploadError{Reason: i18n.KeyImageUploadFail, Cause: err}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, upload.FieldFile, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, &UploadError{Reason: i18n.KeyImageUploadFail, Cause: err}
	}
	if _, err := part.Write(data); err != nil {
		return nil, &UploadError{Reason: i18n.KeyImageUploadFail, Cause: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &UploadError{Reason: i18n.KeyImageUploadFail, Cause: err}
	}

	var result upload.Result
	err = c.do(ctx, call{
		method:      http.MethodPost,
		path:        "/uploads/",
		raw:         body.Bytes(),
		contentType: writer.FormDataContentType(),
		out:         &result,
		auth:        true,
	})
	if err != nil {
		return nil, &UploadError{Reason: i18n.KeyImageUploadFail, Cause: err}
	}
	return &result, nil
}
