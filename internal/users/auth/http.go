// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/toikana/marketplace/internal/platform/apperr"
	"github.com/toikana/marketplace/internal/platform/constants"
	"github.com/toikana/marketplace/internal/platform/i18n"
	"github.com/toikana/marketplace/internal/platform/middleware"
	requestutil "github.com/toikana/marketplace/internal/platform/request"
	"github.com/toikana/marketplace/internal/platform/respond"
	"github.com/toikana/marketplace/internal/platform/sec"
	"github.com/toikana/marketplace/internal/platform/validate"
)

// # Definitions & Constructors

// HandlerOptions tunes transport details that differ between environments.
type HandlerOptions struct {
	// PasswordResetURL is used when a forgot-password request names no redirect.
	PasswordResetURL string

	// SecureCookies marks the refresh cookie Secure (disabled for plain-HTTP development).
	SecureCookies bool
}

// Handler implements authentication-related HTTP endpoints.
type Handler struct {
	authService *Service
	options     HandlerOptions
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service, options HandlerOptions) *Handler {
	return &Handler{authService: service, options: options}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST  /register        : Creates an identity and signs it in.
//   - POST  /login           : Authenticates and returns tokens.
//   - POST  /logout          : Revokes the refresh session.
//   - POST  /refresh         : Rotates the refresh token.
//   - GET   /session         : Returns the signed-in identity.
//   - POST  /forgot-password : Sends a reset link.
//   - POST  /reset-password  : Completes a reset with its token.
//   - PATCH /password        : Sets a new password for the signed-in identity.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)
	router.Post("/refresh", handler.refresh)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password", handler.resetPassword)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/session", handler.session)
		r.Patch("/password", handler.updatePassword)
	})

	return router
}

// # Request & Response Payloads

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email      string `json:"email"`
	RedirectTo string `json:"redirect_to"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type updatePasswordRequest struct {
	Password string `json:"password"`
}

// SessionResponse is returned by register, login and refresh.
type SessionResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type"`
	ExpiresIn    int64         `json:"expires_in"`
	User         *sec.Identity `json:"user"`
}

func newSessionResponse(session *LoginSession) SessionResponse {
	handle := session.Identity.Handle()
	return SessionResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(AccessTokenTTL / time.Second),
		User:         &handle,
	}
}

/*
Register creates an identity and signs it in.

POST /api/v1/auth/register

Request:
  - Body: registerRequest (Email, Password, DisplayName)

Response:
  - 201: SessionResponse
  - 400: Validation failure (email shape, password shorter than 8)
  - 409: Email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := validate.In(requestutil.Language(request))
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, sec.MinPasswordLength).
		Custom(FieldPassword, len(input.Password) > sec.MaxPasswordBytes, i18n.KeyValidateMaxLen, sec.MaxPasswordBytes).
		MaxLen(FieldDisplayName, input.DisplayName, DisplayNameMaxLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.SignUp(request.Context(), RegisterInput{
		Email:       input.Email,
		Password:    input.Password,
		DisplayName: input.DisplayName,
	}, request.UserAgent(), middleware.ClientIP(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setRefreshCookie(writer, session)
	respond.Created(writer, newSessionResponse(session))
}

/*
Login authenticates an identity and establishes a session.

POST /api/v1/auth/login

Response:
  - 200: SessionResponse (refresh token also set as an HttpOnly cookie)
  - 401: Invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := validate.In(requestutil.Language(request))
	validator.Required(FieldEmail, input.Email).Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:     input.Email,
		Password:  input.Password,
		UserAgent: request.UserAgent(),
		IPAddress: middleware.ClientIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setRefreshCookie(writer, session)
	respond.OK(writer, newSessionResponse(session))
}

/*
Logout terminates the current session.

POST /api/v1/auth/logout

Response:
  - 204: Session terminated (also when no session was presented)
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if token := refreshTokenFrom(request); token != "" {
		if err := handler.authService.Logout(request.Context(), token); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    "",
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   -1,
		Secure:   handler.options.SecureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	respond.NoContent(writer)
}

/*
Refresh rotates the refresh token and issues a new access token.

POST /api/v1/auth/refresh

Request:
  - Cookie refresh_token, or header X-Refresh-Token

Response:
  - 200: SessionResponse
  - 401: Missing or invalid refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	token := refreshTokenFrom(request)
	if token == "" {
		respond.Error(writer, request, apperr.Unauthorized("Missing refresh token").WithKey(i18n.KeyErrUnauthorized))
		return
	}

	session, err := handler.authService.RefreshSession(request.Context(), token, request.UserAgent(), middleware.ClientIP(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setRefreshCookie(writer, session)
	respond.OK(writer, newSessionResponse(session))
}

/*
Session returns the signed-in identity.

GET /api/v1/auth/session

Response:
  - 200: {"user": Identity}
  - 401: Not signed in, or the identity no longer exists
*/
func (handler *Handler) session(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	identity, err := handler.authService.CurrentIdentity(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handle := identity.Handle()
	respond.OK(writer, map[string]any{FieldUser: &handle})
}

/*
ForgotPassword initiates password recovery.

POST /api/v1/auth/forgot-password

Response:
  - 200: Generic acknowledgement (identical for unknown emails)
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.RedirectTo == "" {
		input.RedirectTo = handler.options.PasswordResetURL
	}

	validator := validate.In(requestutil.Language(request))
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		URL(FieldRedirectTo, input.RedirectTo)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.RequestPasswordReset(request.Context(), input.Email, input.RedirectTo); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: i18n.DefaultBundle().T(requestutil.Language(request), i18n.KeyAuthResetSent),
	})
}

/*
ResetPassword completes password recovery.

POST /api/v1/auth/reset-password

Response:
  - 200: Password updated; all sessions revoked
  - 404: Token invalid or expired
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := validate.In(requestutil.Language(request))
	validator.Required(FieldToken, input.Token).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, sec.MinPasswordLength).
		Custom(FieldPassword, len(input.Password) > sec.MaxPasswordBytes, i18n.KeyValidateMaxLen, sec.MaxPasswordBytes)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), input.Token, input.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: i18n.DefaultBundle().T(requestutil.Language(request), i18n.KeyAuthPasswordUpdated),
	})
}

/*
UpdatePassword sets a new password for the signed-in identity.

PATCH /api/v1/auth/password

Response:
  - 200: Password updated; other sessions revoked
  - 400: Password shorter than 8
*/
func (handler *Handler) updatePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updatePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := validate.In(requestutil.Language(request))
	validator.Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, sec.MinPasswordLength).
		Custom(FieldPassword, len(input.Password) > sec.MaxPasswordBytes, i18n.KeyValidateMaxLen, sec.MaxPasswordBytes)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.UpdatePassword(request.Context(), userID, input.Password, refreshTokenFrom(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: i18n.DefaultBundle().T(requestutil.Language(request), i18n.KeyAuthPasswordUpdated),
	})
}

// # Helpers

func (handler *Handler) setRefreshCookie(writer http.ResponseWriter, session *LoginSession) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    session.RefreshToken,
		Path:     constants.RefreshTokenCookiePath,
		Expires:  session.RefreshTokenExpiresAt,
		Secure:   handler.options.SecureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// refreshTokenFrom reads the refresh token from the cookie, then the header
// used by non-browser clients.
func refreshTokenFrom(request *http.Request) string {
	if cookie, err := request.Cookie(constants.RefreshTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return request.Header.Get(constants.HeaderRefreshToken)
}
