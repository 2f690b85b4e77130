// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/toikana/marketplace/internal/platform/ctxutil"
	"github.com/toikana/marketplace/internal/platform/i18n"
	"github.com/toikana/marketplace/internal/platform/middleware"
	requestutil "github.com/toikana/marketplace/internal/platform/request"
	"github.com/toikana/marketplace/internal/platform/respond"
	"github.com/toikana/marketplace/internal/platform/sec"
	"github.com/toikana/marketplace/internal/platform/validate"
	"github.com/toikana/marketplace/pkg/pagination"
)

// Handler implements the HTTP layer for profiles and the admin user procedures.
type Handler struct {
	profileService *Service
}

// NewHandler constructs a new profile [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{profileService: service}
}

// RegisterRoutes mounts the profile endpoints on router.
//
// # Endpoints
//   - GET   /me                    : Own profile (any signed-in identity).
//   - PATCH /me                    : Update own self-service fields.
//   - GET   /admin/users           : Every user with email (admin).
//   - PATCH /admin/users/{id}/role : Change a user's role (admin).
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.getMe)
		r.Patch("/me", handler.updateMe)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRoles(handler.profileService, sec.RoleAdmin))
		r.Get("/admin/users", handler.listUsers)
		r.Patch("/admin/users/{id}/role", handler.changeRole)
	})
}

/*
GET /api/v1/me.

Response:
  - 200: Profile
  - 401: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.profileService.GetMe(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

/*
PATCH /api/v1/me.

Request:
  - body: Patch (partial JSON)

Response:
  - 200: Profile
  - 400: Invalid phone, URL or name length
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Patch
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.profileService.UpdateMe(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

/*
GET /api/v1/admin/users?page=&limit=.

Response:
  - 200: Paginated []UserSummary
  - 403: Caller is not an admin
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	users, total, err := handler.profileService.ListUsers(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

/*
PATCH /api/v1/admin/users/{id}/role.

Request:
  - body: {"role": "user" | "partner" | "admin"}

Response:
  - 200: Profile
  - 400: Unknown role
  - 403: Not an admin, or changing one's own role
  - 404: Unknown profile
*/
func (handler *Handler) changeRole(writer http.ResponseWriter, request *http.Request) {
	targetID := requestutil.ID(request, FieldID)

	var input changeRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	role, ok := sec.ParseRole(input.Role)

	validator := validate.In(requestutil.Language(request))
	validator.UUID(FieldID, targetID).
		Custom(FieldRole, !ok, i18n.KeyValidateOneOf, strings.Join(sec.Roles(sec.AllRoles()...).Strings(), ", "))

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.profileService.ChangeRole(request.Context(), ctxutil.GetPrincipal(request.Context()), targetID, role)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}
