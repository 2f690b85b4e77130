// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upload

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/toikana/marketplace/internal/catalog"
	"github.com/toikana/marketplace/internal/platform/apperr"
	"github.com/toikana/marketplace/internal/platform/ctxutil"
	"github.com/toikana/marketplace/internal/platform/middleware"
	requestutil "github.com/toikana/marketplace/internal/platform/request"
	"github.com/toikana/marketplace/internal/platform/respond"
	"github.com/toikana/marketplace/internal/platform/validate"
	"github.com/toikana/marketplace/pkg/media"
)

// Form field names.
const (
	FieldFile = "file"
	FieldKind = "kind"
)

// multipartOverhead leaves room for the form fields around the file.
const multipartOverhead = 1 << 20

// sniffLength is the number of bytes inspected by content sniffing.
const sniffLength = 512

// Handler implements the upload endpoint.
type Handler struct {
	uploadService *Service
	roles         middleware.RoleLookup
}

// NewHandler constructs an upload [Handler].
func NewHandler(service *Service, roles middleware.RoleLookup) *Handler {
	return &Handler{uploadService: service, roles: roles}
}

// Routes returns a [chi.Router] with POST / (partner, admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRoles(handler.roles, catalog.Managers...))
	router.Post("/", handler.upload)
	return router
}

/*
POST /api/v1/uploads.

Request:
  - multipart/form-data: file (the image), kind (places | artists | rentals)

Response:
  - 201: Result
  - 400: Missing file, not an image, or larger than 5 MiB
  - 403: Role is not partner or admin
*/
func (handler *Handler) upload(writer http.ResponseWriter, request *http.Request) {
	lang := requestutil.Language(request)
	request.Body = http.MaxBytesReader(writer, request.Body, media.MaxImageSize+multipartOverhead)

	if err := request.ParseMultipartForm(media.MaxImageSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(writer, request, CheckError(lang, media.ErrTooLarge))
			return
		}
		respond.Error(writer, request, validate.In(lang).Required(FieldFile, "").Err())
		return
	}

	kind, ok := catalog.ParseKind(request.FormValue(FieldKind))
	if !ok {
		respond.Error(writer, request, validate.In(lang).OneOf(FieldKind, request.FormValue(FieldKind), catalog.KindStrings()...).Err())
		return
	}

	file, header, err := request.FormFile(FieldFile)
	if err != nil {
		respond.Error(writer, request, validate.In(lang).Required(FieldFile, "").Err())
		return
	}
	defer file.Close()

	head := make([]byte, sniffLength)
	read, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}
	head = head[:read]

	image := Image{
		Filename:    header.Filename,
		ContentType: media.DetectContentType(header.Filename, head),
		Size:        header.Size,
		Body:        io.MultiReader(bytes.NewReader(head), file),
	}

	if err := media.CheckImage(image.Size, image.ContentType); err != nil {
		respond.Error(writer, request, CheckError(lang, err))
		return
	}

	result, err := handler.uploadService.Upload(request.Context(), ctxutil.GetPrincipal(request.Context()), kind, image)
	if err != nil {
		respond.Error(writer, request, CheckError(lang, err))
		return
	}

	respond.Created(writer, result)
}
