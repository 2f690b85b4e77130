// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session is the client's single source of truth for who is signed in
and with which role.

# Lifecycle

	store := session.NewStore(auth, profiles, logger) // Loading() == true
	store.Initialize(ctx)                           // subscribe, then check the persisted session
	defer store.Close()                             // unsubscribe

Auth operations return only an error: the resulting state arrives through the
auth state-change subscription, never through the call's return value.

A Profile is never held without an Identity; clearing the Identity clears the
Profile in the same transition.
*/
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/toikana/marketplace/internal/client"
	"github.com/toikana/marketplace/internal/platform/sec"
	"github.com/toikana/marketplace/internal/users/profile"
)

// Authenticator is the auth collaborator.
type Authenticator interface {
	GetSession(ctx context.Context) (*client.Session, error)
	OnAuthStateChange(listener func(client.AuthChange)) (unsubscribe func())
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password, displayName string) error
	SignOut(ctx context.Context) error
	RequestPasswordReset(ctx context.Context, email, redirectTo string) error
	UpdatePassword(ctx context.Context, password string) error
}

// Profiles reads and writes the signed-in identity's profile.
type Profiles interface {
	GetProfile(ctx context.Context) (*profile.Profile, error)
	UpdateProfile(ctx context.Context, patch profile.Patch) (*profile.Profile, error)
}

// State is an immutable snapshot of the store.
type State struct {
	Loading  bool
	Identity *sec.Identity
	Profile  *profile.Profile
}

// Principal returns the authorization view of the profile, or nil.
func (state State) Principal() *sec.Principal {
	if state.Profile == nil {
		return nil
	}
	return state.Profile.Principal()
}

// ErrNotSignedIn is returned by operations that need an identity.
var ErrNotSignedIn = errors.New("session: not signed in")

// Store holds the session state.
type Store struct {
	auth     Authenticator
	profiles Profiles
	logger   *slog.Logger

	mu          sync.Mutex
	ctx         context.Context
	state       State
	listeners   map[int]func(State)
	nextID      int
	unsubscribe func()
}

// NewStore constructs a [Store] in the loading state.
func NewStore(auth Authenticator, profiles Profiles, logger *slog.Logger) *Store {
	return &Store{
		auth:      auth,
		profiles:  profiles,
		logger:    logger,
		ctx:       context.Background(),
		state:     State{Loading: true},
		listeners: make(map[int]func(State)),
	}
}

// State returns the current snapshot.
func (store *Store) State() State {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.state
}

// Subscribe registers listener for every state change.
func (store *Store) Subscribe(listener func(State)) (unsubscribe func()) {
	store.mu.Lock()
	id := store.nextID
	store.nextID++
	store.listeners[id] = listener
	store.mu.Unlock()

	return func() {
		store.mu.Lock()
		delete(store.listeners, id)
		store.mu.Unlock()
	}
}

/*
Initialize subscribes to auth state changes and then restores the persisted
session.

Loading stays true until the session lookup and, when a session exists, the
first profile fetch have both completed. A failed profile fetch leaves the
Identity set and the Profile empty.
*/
func (store *Store) Initialize(ctx context.Context) error {
	store.mu.Lock()
	store.ctx = context.WithoutCancel(ctx)
	store.mu.Unlock()

	// Subscribe first so no notification is lost during the lookup.
	unsubscribe := store.auth.OnAuthStateChange(store.handle)
	store.mu.Lock()
	store.unsubscribe = unsubscribe
	store.mu.Unlock()

	session, err := store.auth.GetSession(ctx)
	if err != nil {
		store.logger.WarnContext(ctx, "session_lookup_failed", slog.Any("error", err))
		store.set(func(state *State) { state.Loading = false })
		return &client.AuthError{Cause: err}
	}

	if session == nil {
		store.set(func(state *State) {
			state.Loading = false
			state.Identity, state.Profile = nil, nil
		})
		return nil
	}

	identity := session.Identity()
	store.set(func(state *State) { state.Identity = identity })

	fetched := store.fetchProfile(ctx, identity.ID)
	store.set(func(state *State) {
		state.Loading = false
		if state.Identity != nil && state.Identity.ID == identity.ID {
			state.Profile = fetched
		}
	})
	return nil
}

// Close ends the auth subscription.
func (store *Store) Close() {
	store.mu.Lock()
	unsubscribe := store.unsubscribe
	store.unsubscribe = nil
	store.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// handle reacts to auth state notifications.
func (store *Store) handle(change client.AuthChange) {
	store.mu.Lock()
	ctx := store.ctx
	store.mu.Unlock()

	switch change.Event {
	case client.EventSignedIn:
		identity := change.Session.Identity()
		store.set(func(state *State) {
			if state.Identity == nil || state.Identity.ID != identity.ID {
				state.Profile = nil
			}
			state.Identity = identity
		})
		store.applyProfile(identity.ID, store.fetchProfile(ctx, identity.ID))

	case client.EventSignedOut:
		store.set(func(state *State) {
			state.Identity, state.Profile = nil, nil
		})

	case client.EventUserUpdated, client.EventTokenRefreshed:
		if change.Session == nil {
			return
		}
		identity := change.Session.Identity()
		store.set(func(state *State) {
			if state.Identity != nil && state.Identity.ID != identity.ID {
				state.Profile = nil
			}
			state.Identity = identity
		})
	}
}

func (store *Store) fetchProfile(ctx context.Context, identityID string) *profile.Profile {
	fetched, err := store.profiles.GetProfile(ctx)
	if err != nil {
		store.logger.WarnContext(ctx, "profile_fetch_failed",
			slog.String("user_id", identityID),
			slog.Any("error", err),
		)
		return nil
	}
	return fetched
}

// applyProfile stores fetched only when identityID is still signed in.
func (store *Store) applyProfile(identityID string, fetched *profile.Profile) {
	if fetched == nil {
		return
	}
	store.set(func(state *State) {
		if state.Identity != nil && state.Identity.ID == identityID {
			state.Profile = fetched
		}
	})
}

// set applies mutate under the lock and notifies listeners with the result.
func (store *Store) set(mutate func(state *State)) {
	store.mu.Lock()
	mutate(&store.state)
	if store.state.Identity == nil {
		store.state.Profile = nil
	}
	snapshot := store.state
	listeners := make([]func(State), 0, len(store.listeners))
	for _, listener := range store.listeners {
		listeners = append(listeners, listener)
	}
	store.mu.Unlock()

	for _, listener := range listeners {
		listener(snapshot)
	}
}

// # Auth Operations

// SignIn delegates to the authenticator.
func (store *Store) SignIn(ctx context.Context, email, password string) error {
	return wrap(store.auth.SignIn(ctx, email, password))
}

// SignUp registers with displayName stored as the profile's full name.
func (store *Store) SignUp(ctx context.Context, email, password, displayName string) error {
	return wrap(store.auth.SignUp(ctx, email, password, displayName))
}

// SignOut ends the session.
func (store *Store) SignOut(ctx context.Context) error {
	return wrap(store.auth.SignOut(ctx))
}

// RequestPasswordReset sends a reset link to email.
func (store *Store) RequestPasswordReset(ctx context.Context, email, redirectTo string) error {
	return wrap(store.auth.RequestPasswordReset(ctx, email, redirectTo))
}

// ResetPassword sets a new password for the signed-in identity.
func (store *Store) ResetPassword(ctx context.Context, newPassword string) error {
	return wrap(store.auth.UpdatePassword(ctx, newPassword))
}

/*
UpdateProfile persists patch on the current identity's profile and re-fetches
the stored profile.

The local state changes only after both calls succeed; any failure returns an
[client.AuthError] and leaves the previous profile in place.
*/
func (store *Store) UpdateProfile(ctx context.Context, patch profile.Patch) error {
	identity := store.State().Identity
	if identity == nil {
		return &client.AuthError{Cause: ErrNotSignedIn}
	}

	if _, err := store.profiles.UpdateProfile(ctx, patch); err != nil {
		return &client.AuthError{Cause: err}
	}

	fetched, err := store.profiles.GetProfile(ctx)
	if err != nil {
		return &client.AuthError{Cause: err}
	}

	store.applyProfile(identity.ID, fetched)
	return nil
}

// Refresh re-fetches the current profile, e.g. after an admin changed the role.
func (store *Store) Refresh(ctx context.Context) error {
	identity := store.State().Identity
	if identity == nil {
		return nil
	}

	fetched, err := store.profiles.GetProfile(ctx)
	if err != nil {
		return &client.AuthError{Cause: err}
	}
	store.applyProfile(identity.ID, fetched)
	return nil
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	var authErr *client.AuthError
	if errors.As(err, &authErr) {
		return err
	}
	return &client.AuthError{Cause: err}
}
