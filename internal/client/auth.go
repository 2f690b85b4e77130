// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/toikana/marketplace/internal/platform/constants"
	"github.com/toikana/marketplace/internal/platform/sec"
)

// # Auth State Notifications

// AuthEvent names an auth state transition.
type AuthEvent string

const (
	EventSignedIn       AuthEvent = "SIGNED_IN"
	EventSignedOut      AuthEvent = "SIGNED_OUT"
	EventUserUpdated    AuthEvent = "USER_UPDATED"
	EventTokenRefreshed AuthEvent = "TOKEN_REFRESHED"
)

// AuthChange is delivered to every [Client.OnAuthStateChange] listener.
// Session is nil for [EventSignedOut].
type AuthChange struct {
	Event   AuthEvent
	Session *Session
}

// OnAuthStateChange registers listener and returns its unsubscribe function.
//
// Listeners run on the goroutine that caused the transition, after the new
// session has been stored.
func (c *Client) OnAuthStateChange(listener func(AuthChange)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = listener
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Client) emit(event AuthEvent, session *Session) {
	c.mu.Lock()
	ids := make([]int, 0, len(c.listeners))
	for id := range c.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	listeners := make([]func(AuthChange), 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, c.listeners[id])
	}
	c.mu.Unlock()

	var copied *Session
	if session != nil {
		value := *session
		copied = &value
	}

	for _, listener := range listeners {
		listener(AuthChange{Event: event, Session: copied})
	}
}

// # Session Handle

type sessionResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	User         sec.Identity `json:"user"`
}

func (c *Client) toSession(response sessionResponse) *Session {
	return &Session{
		AccessToken:  response.AccessToken,
		RefreshToken: response.RefreshToken,
		ExpiresAt:    c.now().Add(time.Duration(response.ExpiresIn) * time.Second),
		User:         response.User,
	}
}

func (c *Client) current() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// load reads the persisted handle once per process.
func (c *Client) load(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	if c.loaded {
		session := c.session
		c.mu.Unlock()
		return session, nil
	}
	c.mu.Unlock()

	session, err := c.tokens.Load(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "load_session", Cause: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		c.session = session
		c.loaded = true
	}
	return c.session, nil
}

func (c *Client) store(ctx context.Context, session *Session) error {
	c.mu.Lock()
	c.session = session
	c.loaded = true
	c.mu.Unlock()

	if session == nil {
		return c.tokens.Clear(ctx)
	}
	return c.tokens.Save(ctx, session)
}

func (c *Client) expired(session *Session) bool {
	return !c.now().Before(session.ExpiresAt.Add(-refreshLeeway))
}

// activeSession returns a session whose access token is still valid.
func (c *Client) activeSession(ctx context.Context) (*Session, error) {
	session, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNoSession
	}
	if c.expired(session) {
		return c.refresh(ctx, session)
	}
	return session, nil
}

// refresh rotates the refresh token of stale. A rejected token signs the
// client out.
func (c *Client) refresh(ctx context.Context, stale *Session) (*Session, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	session := c.current()
	if session == nil {
		return nil, ErrNoSession
	}
	// Another caller rotated while we waited.
	if session != stale && !c.expired(session) {
		return session, nil
	}

	header := http.Header{}
	header.Set(constants.HeaderRefreshToken, session.RefreshToken)

	status, body, err := c.send(ctx, call{method: http.MethodPost, path: "/auth/refresh", header: header}, nil, "")
	if err != nil {
		return nil, err
	}

	var response sessionResponse
	if err := decode(status, body, &response); err != nil {
		if status == http.StatusUnauthorized {
			c.logger.Info("session_expired", slog.String("user_id", session.User.ID))
			_ = c.store(ctx, nil)
			c.emit(EventSignedOut, nil)
		}
		return nil, err
	}

	rotated := c.toSession(response)
	if err := c.store(ctx, rotated); err != nil {
		return nil, &PersistenceError{Op: "save_session", Cause: err}
	}
	c.emit(EventTokenRefreshed, rotated)
	return rotated, nil
}

// # Auth Operations

// GetSession returns the persisted session, rotating an expired access token.
// It returns nil without error when nobody is signed in.
func (c *Client) GetSession(ctx context.Context) (*Session, error) {
	session, err := c.activeSession(ctx)
	switch {
	case err == nil:
		return session, nil
	case errors.Is(err, ErrNoSession), IsUnauthorized(err):
		return nil, nil
	default:
		return nil, err
	}
}

// SignIn authenticates with email and password.
func (c *Client) SignIn(ctx context.Context, email, password string) error {
	var response sessionResponse
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   map[string]string{"email": email, "password": password},
		out:    &response,
	})
	if err != nil {
		return err
	}
	return c.open(ctx, response)
}

// SignUp registers a new identity and signs it in. displayName is stored as
// the profile's full name.
func (c *Client) SignUp(ctx context.Context, email, password, displayName string) error {
	var response sessionResponse
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/register",
		body:   map[string]string{"email": email, "password": password, "display_name": displayName},
		out:    &response,
	})
	if err != nil {
		return err
	}
	return c.open(ctx, response)
}

func (c *Client) open(ctx context.Context, response sessionResponse) error {
	session := c.toSession(response)
	if err := c.store(ctx, session); err != nil {
		return &PersistenceError{Op: "save_session", Cause: err}
	}
	c.emit(EventSignedIn, session)
	return nil
}

// SignOut revokes the refresh session and forgets it locally. The local
// handle is cleared even when the server cannot be reached.
func (c *Client) SignOut(ctx context.Context) error {
	session, err := c.load(ctx)
	if err != nil {
		return err
	}

	var remoteErr error
	if session != nil {
		header := http.Header{}
		header.Set(constants.HeaderRefreshToken, session.RefreshToken)
		remoteErr = c.do(ctx, call{method: http.MethodPost, path: "/auth/logout", header: header})
	}

	if err := c.store(ctx, nil); err != nil {
		return &PersistenceError{Op: "clear_session", Cause: err}
	}
	c.emit(EventSignedOut, nil)

	if remoteErr != nil {
		c.logger.Warn("remote_logout_failed", slog.Any("error", remoteErr))
	}
	return nil
}

// RequestPasswordReset asks the server to send a reset link. redirectTo may
// be empty to use the server default.
func (c *Client) RequestPasswordReset(ctx context.Context, email, redirectTo string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/forgot-password",
		body:   map[string]string{"email": email, "redirect_to": redirectTo},
	})
}

// ResetPasswordWithToken completes a reset started by [Client.RequestPasswordReset].
func (c *Client) ResetPasswordWithToken(ctx context.Context, token, password string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/reset-password",
		body:   map[string]string{"token": token, "password": password},
	})
}

// UpdatePassword sets a new password for the signed-in identity. The current
// session stays valid; other sessions are revoked by the server.
func (c *Client) UpdatePassword(ctx context.Context, password string) error {
	session, err := c.activeSession(ctx)
	if err != nil {
		return err
	}

	header := http.Header{}
	header.Set(constants.HeaderRefreshToken, session.RefreshToken)
	err = c.do(ctx, call{
		method: http.MethodPatch,
		path:   "/auth/password",
		body:   map[string]string{"password": password},
		header: header,
		auth:   true,
	})
	if err != nil {
		return err
	}

	c.emit(EventUserUpdated, c.current())
	return nil
}
