// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/toikana/marketplace/internal/platform/apperr"
	"github.com/toikana/marketplace/internal/platform/events"
	"github.com/toikana/marketplace/internal/users/auth"
)

// # In-memory repositories

type memoryIdentities struct {
	mu   sync.Mutex
	byID map[string]*auth.Identity
}

func newMemoryIdentities() *memoryIdentities {
	return &memoryIdentities{byID: map[string]*auth.Identity{}}
}

func (store *memoryIdentities) FindByID(_ context.Context, id string) (*auth.Identity, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if identity, ok := store.byID[id]; ok {
		copied := *identity
		return &copied, nil
	}
	return nil, apperr.NotFound("Identity")
}

func (store *memoryIdentities) FindByEmail(_ context.Context, email string) (*auth.Identity, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, identity := range store.byID {
		if strings.EqualFold(identity.Email, email) {
			copied := *identity
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Identity")
}

func (store *memoryIdentities) Create(_ context.Context, identity *auth.Identity) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, existing := range store.byID {
		if strings.EqualFold(existing.Email, identity.Email) {
			return apperr.Conflict("Email is already registered")
		}
	}
	identity.CreatedAt = time.Now()
	identity.UpdatedAt = identity.CreatedAt
	copied := *identity
	store.byID[identity.ID] = &copied
	return nil
}

func (store *memoryIdentities) UpdatePassword(_ context.Context, identityID, newHash string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	identity, ok := store.byID[identityID]
	if !ok {
		return apperr.NotFound("Identity")
	}
	identity.PasswordHash = newHash
	return nil
}

type memorySessions struct {
	mu       sync.Mutex
	sessions map[string]*auth.Session
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: map[string]*auth.Session{}}
}

func (store *memorySessions) Create(_ context.Context, session *auth.Session) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	copied := *session
	store.sessions[session.ID] = &copied
	return nil
}

func (store *memorySessions) FindByTokenHash(_ context.Context, tokenHash string) (*auth.Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, session := range store.sessions {
		if session.TokenHash == tokenHash && !session.IsRevoked && session.ExpiresAt.After(time.Now()) {
			copied := *session
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Session")
}

func (store *memorySessions) Revoke(_ context.Context, sessionID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if session, ok := store.sessions[sessionID]; ok {
		session.IsRevoked = true
	}
	return nil
}

func (store *memorySessions) RevokeAll(_ context.Context, identityID string) error {
	return store.RevokeOthers(context.Background(), identityID, "")
}

func (store *memorySessions) RevokeOthers(_ context.Context, identityID, currentSessionID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	for id, session := range store.sessions {
		if session.IdentityID == identityID && id != currentSessionID {
			session.IsRevoked = true
		}
	}
	return nil
}

func (store *memorySessions) DeleteExpired(_ context.Context) (int64, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	var removed int64
	for id, session := range store.sessions {
		if session.ExpiresAt.Before(time.Now()) {
			delete(store.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func (store *memorySessions) active(identityID string) int {
	store.mu.Lock()
	defer store.mu.Unlock()
	count := 0
	for _, session := range store.sessions {
		if session.IdentityID == identityID && !session.IsRevoked {
			count++
		}
	}
	return count
}

type memoryResetTokens struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newMemoryResetTokens() *memoryResetTokens {
	return &memoryResetTokens{tokens: map[string]string{}}
}

func (store *memoryResetTokens) Set(_ context.Context, token, identityID string, _ time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.tokens[token] = identityID
	return nil
}

func (store *memoryResetTokens) Get(_ context.Context, token string) (string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if identityID, ok := store.tokens[token]; ok {
		return identityID, nil
	}
	return "", apperr.NotFound("Reset token")
}

func (store *memoryResetTokens) Delete(_ context.Context, token string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.tokens, token)
	return nil
}

type stubTokens struct{}

func (stubTokens) GenerateAccessToken(userID, _ string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("access-%s-%d", userID, int(ttl.Seconds())), nil
}

// # Fixture

type fixture struct {
	service    *auth.Service
	identities *memoryIdentities
	sessions   *memorySessions
	resets     *memoryResetTokens
	recorder   *events.Recorder
}

func newFixture() *fixture {
	f := &fixture{
		identities: newMemoryIdentities(),
		sessions:   newMemorySessions(),
		resets:     newMemoryResetTokens(),
		recorder:   &events.Recorder{},
	}
	f.service = auth.NewService(f.identities, f.sessions, f.resets, stubTokens{}, f.recorder, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return f
}
