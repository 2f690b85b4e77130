// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/toikana/marketplace/internal/platform/apperr"
	"github.com/toikana/marketplace/internal/platform/ctxutil"
	"github.com/toikana/marketplace/internal/platform/middleware"
	requestutil "github.com/toikana/marketplace/internal/platform/request"
	"github.com/toikana/marketplace/internal/platform/respond"
	"github.com/toikana/marketplace/internal/platform/sec"
	"github.com/toikana/marketplace/internal/platform/validate"
)

// maxBodyBytes bounds a listing payload.
const maxBodyBytes = 1 << 20

// Managers may reach the catalog write endpoints.
var Managers = []sec.Role{sec.RolePartner, sec.RoleAdmin}

// Handler implements the HTTP layer of one catalog kind.
type Handler[T Item] struct {
	catalogService *Service[T]
	roles          middleware.RoleLookup
	create         func() T
}

// NewHandler constructs a catalog [Handler]. create returns an empty entity for decoding.
func NewHandler[T Item](service *Service[T], roles middleware.RoleLookup, create func() T) *Handler[T] {
	return &Handler[T]{catalogService: service, roles: roles, create: create}
}

// Routes returns a [chi.Router] for the kind.
//
// # Endpoints
//   - GET    /      : Whole collection, optional ?q= and ?sort=.
//   - GET    /mine  : Caller's own listings (partner, admin).
//   - GET    /{id}  : One listing.
//   - POST   /      : Create (partner, admin).
//   - PATCH  /{id}  : Update (owner or admin).
//   - DELETE /{id}  : Delete (owner or admin).
func (handler *Handler[T]) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRoles(handler.roles, Managers...))
		r.Get("/mine", handler.mine)
		r.Post("/", handler.createItem)
		r.Patch("/{id}", handler.updateItem)
		r.Delete("/{id}", handler.deleteItem)
	})

	return router
}

/*
GET /api/v1/{kind}?q=&sort=.

Response:
  - 200: []T (never null)
*/
func (handler *Handler[T]) list(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	items, err := handler.catalogService.List(request.Context(), query.Get(QuerySearch), ParseSort(query.Get(QuerySort)))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, items)
}

/*
GET /api/v1/{kind}/{id}.

Response:
  - 200: T
  - 404: Unknown or malformed id
*/
func (handler *Handler[T]) get(writer http.ResponseWriter, request *http.Request) {
	item, err := handler.catalogService.Get(request.Context(), requestutil.ID(request, FieldID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, item)
}

// GET /api/v1/{kind}/mine.
func (handler *Handler[T]) mine(writer http.ResponseWriter, request *http.Request) {
	items, err := handler.catalogService.Mine(request.Context(), ctxutil.GetPrincipal(request.Context()))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, items)
}

/*
POST /api/v1/{kind}.

Request:
  - body: T (owner_id, rating and timestamps are ignored)

Response:
  - 201: T
  - 400: Validation failure
  - 403: Role is not partner or admin
*/
func (handler *Handler[T]) createItem(writer http.ResponseWriter, request *http.Request) {
	item := handler.create()
	if err := requestutil.DecodeJSON(request, item); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.catalogService.Create(request.Context(), ctxutil.GetPrincipal(request.Context()), item)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
PATCH /api/v1/{kind}/{id}.

Description: Fields present in the body replace the stored values; absent
fields are kept. A JSON null clears an optional shadow field.

Response:
  - 200: T
  - 403: Not the owner
  - 404: Unknown listing
*/
func (handler *Handler[T]) updateItem(writer http.ResponseWriter, request *http.Request) {
	patch, err := io.ReadAll(io.LimitReader(request.Body, maxBodyBytes))
	if err != nil || !json.Valid(patch) {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	updated, err := handler.catalogService.Update(
		request.Context(),
		ctxutil.GetPrincipal(request.Context()),
		requestutil.ID(request, FieldID),
		func(item T) error {
			decoder := json.NewDecoder(bytes.NewReader(patch))
			if err := decoder.Decode(item); err != nil {
				return apperr.ValidationError("Invalid JSON payload").WithCause(err)
			}
			return nil
		},
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
DELETE /api/v1/{kind}/{id}.

Response:
  - 204: Removed
  - 403: Not the owner
  - 404: Unknown listing
*/
func (handler *Handler[T]) deleteItem(writer http.ResponseWriter, request *http.Request) {
	if err := handler.catalogService.Delete(request.Context(), ctxutil.GetPrincipal(request.Context()), requestutil.ID(request, FieldID)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
