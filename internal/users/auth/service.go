// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/toikana/marketplace/internal/platform/apperr"
	"github.com/toikana/marketplace/internal/platform/events"
	"github.com/toikana/marketplace/internal/platform/i18n"
	"github.com/toikana/marketplace/internal/platform/metrics"
	"github.com/toikana/marketplace/internal/platform/sec"
	"github.com/toikana/marketplace/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating access tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT for the identity.
	GenerateAccessToken(userID, email string, timeToLive time.Duration) (string, error)
}

// Service implements the authentication use cases.
type Service struct {
	identityRepository   IdentityRepository
	sessionRepository    SessionRepository
	resetTokenRepository ResetTokenRepository
	tokenProvider        TokenProvider
	publisher            events.Publisher
	logger               *slog.Logger
	now                  func() time.Time
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	identityRepo IdentityRepository,
	sessionRepo SessionRepository,
	resetRepo ResetTokenRepository,
	tokenProv TokenProvider,
	publisher events.Publisher,
	logger *slog.Logger,
) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Service{
		identityRepository:   identityRepo,
		sessionRepository:    sessionRepo,
		resetTokenRepository: resetRepo,
		tokenProvider:        tokenProv,
		publisher:            publisher,
		logger:               logger,
		now:                  time.Now,
	}
}

// errRejected marks a refused attempt in the auth metrics.
var errRejected = errors.New("auth_rejected")

// errInvalidCredentials is deliberately identical for unknown emails and wrong passwords.
func errInvalidCredentials() error {
	return apperr.Unauthorized("Invalid login credentials").WithKey(i18n.KeyErrInvalidCredentials)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// # Registration Flow

// RegisterInput holds the data required to create an identity.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

/*
Register validates, hashes, and persists a brand new identity.

Description: The database trigger creates the matching profile with the
default 'user' role; the display name seeds the profile's full name.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *Identity: Created entity
  - err: Conflict (if the email exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*Identity, error) {
	email := normalizeEmail(input.Email)

	if _, err := service.identityRepository.FindByEmail(context, email); err == nil {
		metrics.ObserveAuth("register", errRejected)
		return nil, apperr.Conflict("Email is already registered").WithKey(i18n.KeyErrEmailTaken)
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	identity := &Identity{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hashedPassword,
		DisplayName:  strings.TrimSpace(input.DisplayName),
	}

	if err := service.identityRepository.Create(context, identity); err != nil {
		metrics.ObserveAuth("register", err)
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	metrics.ObserveAuth("register", nil)
	service.logger.InfoContext(context, "identity_registered", slog.String("identity_id", identity.ID))
	return identity, nil
}

// SignUp registers an identity and opens its first session.
func (service *Service) SignUp(context context.Context, input RegisterInput, userAgent, ipAddress string) (*LoginSession, error) {
	identity, err := service.Register(context, input)
	if err != nil {
		return nil, err
	}
	return service.openSession(context, identity, userAgent, ipAddress)
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

// LoginSession represents a successfully established session.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	Identity              *Identity
}

/*
Login validates credentials and issues security tokens.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session identifiers
  - err: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	identity, err := service.identityRepository.FindByEmail(context, normalizeEmail(input.Email))
	if err != nil {
		metrics.ObserveAuth("login", err)
		if apperr.IsNotFound(err) {
			return nil, errInvalidCredentials()
		}
		return nil, err
	}

	// bcrypt comparison is constant-time.
	if !sec.CheckPasswordHash(input.Password, identity.PasswordHash) {
		metrics.ObserveAuth("login", errRejected)
		return nil, errInvalidCredentials()
	}

	session, err := service.openSession(context, identity, input.UserAgent, input.IPAddress)
	metrics.ObserveAuth("login", err)
	return session, err
}

// openSession issues an access token and persists a fresh refresh session.
func (service *Service) openSession(context context.Context, identity *Identity, userAgent, ipAddress string) (*LoginSession, error) {
	accessToken, err := service.tokenProvider.GenerateAccessToken(identity.ID, identity.Email, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	expiresAt := service.now().Add(RefreshTokenTTL)
	session := &Session{
		ID:         uuid.New(),
		IdentityID: identity.ID,
		TokenHash:  sec.HashToken(refreshToken),
		UserAgent:  userAgent,
		IPAddress:  ipAddress,
		ExpiresAt:  expiresAt,
	}

	if err := service.sessionRepository.Create(context, session); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
		Identity:              identity,
	}, nil
}

/*
Logout permanently revokes the session behind a refresh token.

Description: Idempotent; an unknown or already revoked token is a success.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - err: Revocation failures
*/
func (service *Service) Logout(context context.Context, refreshToken string) error {
	session, err := service.sessionRepository.FindByTokenHash(context, sec.HashToken(refreshToken))
	if err != nil {
		return nil
	}

	if err := service.sessionRepository.Revoke(context, session.ID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	metrics.ObserveAuth("logout", nil)
	return nil
}

// # Session Management

/*
RefreshSession implements refresh token rotation.

Description: The presented token is revoked before a new pair is issued, so a
replayed token is rejected.

Parameters:
  - context: context.Context
  - refreshToken: string
  - userAgent: string
  - ipAddress: string

Returns:
  - *LoginSession: New session credentials
  - err: Unauthorized or storage failures
*/
func (service *Service) RefreshSession(context context.Context, refreshToken, userAgent, ipAddress string) (*LoginSession, error) {
	session, err := service.sessionRepository.FindByTokenHash(context, sec.HashToken(refreshToken))
	if err != nil {
		metrics.ObserveAuth("refresh", err)
		return nil, apperr.Unauthorized("Invalid or expired refresh token").WithKey(i18n.KeyErrUnauthorized)
	}

	if err := service.sessionRepository.Revoke(context, session.ID); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_revoke_failed: %w", err)
	}

	identity, err := service.identityRepository.FindByID(context, session.IdentityID)
	if err != nil {
		return nil, apperr.Unauthorized("Identity no longer exists").WithKey(i18n.KeyErrUnauthorized)
	}

	next, err := service.openSession(context, identity, userAgent, ipAddress)
	metrics.ObserveAuth("refresh", err)
	return next, err
}

// CurrentIdentity returns the identity behind a verified access token.
func (service *Service) CurrentIdentity(context context.Context, identityID string) (*Identity, error) {
	identity, err := service.identityRepository.FindByID(context, identityID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Identity no longer exists").WithKey(i18n.KeyErrUnauthorized)
		}
		return nil, err
	}
	return identity, nil
}

// PurgeExpiredSessions deletes expired refresh sessions.
func (service *Service) PurgeExpiredSessions(context context.Context) error {
	removed, err := service.sessionRepository.DeleteExpired(context)
	if err != nil {
		return fmt.Errorf("auth_service_purge_sessions_failed: %w", err)
	}
	if removed > 0 {
		service.logger.InfoContext(context, "expired_sessions_purged", slog.Int64("count", removed))
	}
	return nil
}

// # Password Recovery

// PasswordResetRequested is the payload of the reset event consumed by the mailer.
type PasswordResetRequested struct {
	IdentityID string    `json:"identity_id"`
	Email      string    `json:"email"`
	Link       string    `json:"link"`
	ExpiresAt  time.Time `json:"expires_at"`
}

/*
RequestPasswordReset initiates the forgot-password flow.

Description: Stores a reset token and publishes the reset link for delivery.
Unknown emails succeed silently so the endpoint cannot enumerate accounts.

Parameters:
  - context: context.Context
  - email: string
  - redirectTo: string (client page that receives ?token=)

Returns:
  - err: Generation or storage errors
*/
func (service *Service) RequestPasswordReset(context context.Context, email, redirectTo string) error {
	identity, err := service.identityRepository.FindByEmail(context, normalizeEmail(email))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil
		}
		return err
	}

	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	if err := service.resetTokenRepository.Set(context, token, identity.ID, ResetTokenTTL); err != nil {
		return fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	link, err := resetLink(redirectTo, token)
	if err != nil {
		return apperr.ValidationError("Invalid redirect URL").WithCause(err)
	}

	events.PublishQuietly(context, service.publisher, service.logger, events.New(
		events.TypePasswordResetRequested,
		identity.ID,
		PasswordResetRequested{
			IdentityID: identity.ID,
			Email:      identity.Email,
			Link:       link,
			ExpiresAt:  service.now().Add(ResetTokenTTL),
		},
	))

	metrics.ObserveAuth("forgot_password", nil)
	return nil
}

// resetLink appends the token to the redirect URL's query.
func resetLink(redirectTo, token string) (string, error) {
	parsed, err := url.Parse(redirectTo)
	if err != nil {
		return "", err
	}
	query := parsed.Query()
	query.Set(FieldToken, token)
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Verifies the token, stores the new hash, revokes every session of
the identity and burns the token.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string

Returns:
  - err: NotFound (bad token) or update failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {
	identityID, err := service.resetTokenRepository.Get(context, token)
	if err != nil {
		return err
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	if err := service.identityRepository.UpdatePassword(context, identityID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}

	if err := service.sessionRepository.RevokeAll(context, identityID); err != nil {
		service.logger.WarnContext(context, "reset_password_revoke_failed", slog.String("error", err.Error()))
	}
	_ = service.resetTokenRepository.Delete(context, token)

	metrics.ObserveAuth("reset_password", nil)
	return nil
}

/*
UpdatePassword sets a new password for the signed-in identity.

Description: Every other session is revoked; the session that made the call
(identified by its refresh token, when present) stays valid.

Parameters:
  - context: context.Context
  - identityID: string
  - newPassword: string
  - currentRefreshToken: string (may be empty)

Returns:
  - err: Storage failures
*/
func (service *Service) UpdatePassword(context context.Context, identityID, newPassword, currentRefreshToken string) error {
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_update_password_hash_failed: %w", err)
	}

	if err := service.identityRepository.UpdatePassword(context, identityID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_update_password_failed: %w", err)
	}

	if currentRefreshToken != "" {
		if session, err := service.sessionRepository.FindByTokenHash(context, sec.HashToken(currentRefreshToken)); err == nil {
			_ = service.sessionRepository.RevokeOthers(context, identityID, session.ID)
			return nil
		}
	}

	_ = service.sessionRepository.RevokeAll(context, identityID)
	return nil
}
