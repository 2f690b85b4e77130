// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/toikana/marketplace/internal/platform/localstore"
	"github.com/toikana/marketplace/internal/platform/sec"
)

// Session is the persisted session handle.
type Session struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    time.Time    `json:"expires_at"`
	User         sec.Identity `json:"user"`
}

// Identity returns a copy of the signed-in identity.
func (s *Session) Identity() *sec.Identity {
	if s == nil {
		return nil
	}
	identity := s.User
	return &identity
}

// TokenStore persists the session handle between runs.
type TokenStore interface {
	// Load returns nil without error when no session was saved.
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Clear(ctx context.Context) error
}

// LocalTokens keeps the session in the client's local store.
type LocalTokens struct {
	Store *localstore.Store
}

// Load implements [TokenStore].
func (tokens LocalTokens) Load(ctx context.Context) (*Session, error) {
	var session Session
	if err := tokens.Store.Get(ctx, localstore.KeySession, &session); err != nil {
		if errors.Is(err, localstore.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// Save implements [TokenStore].
func (tokens LocalTokens) Save(ctx context.Context, session *Session) error {
	return tokens.Store.Put(ctx, localstore.KeySession, session)
}

// Clear implements [TokenStore].
func (tokens LocalTokens) Clear(ctx context.Context) error {
	return tokens.Store.Delete(ctx, localstore.KeySession)
}

// MemoryTokens forgets the session when the process exits.
type MemoryTokens struct {
	mu      sync.Mutex
	session *Session
}

// Load implements [TokenStore].
func (tokens *MemoryTokens) Load(context.Context) (*Session, error) {
	tokens.mu.Lock()
	defer tokens.mu.Unlock()
	if tokens.session == nil {
		return nil, nil
	}
	copied := *tokens.session
	return &copied, nil
}

// Save implements [TokenStore].
func (tokens *MemoryTokens) Save(_ context.Context, session *Session) error {
	tokens.mu.Lock()
	defer tokens.mu.Unlock()
	copied := *session
	tokens.session = &copied
	return nil
}

// Clear implements [TokenStore].
func (tokens *MemoryTokens) Clear(context.Context) error {
	tokens.mu.Lock()
	defer tokens.mu.Unlock()
	tokens.session = nil
	return nil
}
