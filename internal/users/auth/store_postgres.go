// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/toikana/marketplace/internal/platform/apperr"
	"github.com/toikana/marketplace/internal/platform/database/schema"
	"github.com/toikana/marketplace/internal/platform/dberr"
	"github.com/toikana/marketplace/internal/platform/i18n"
)

// # Identity Repository

// PostgresIdentityRepository implements [IdentityRepository] using pgx.
type PostgresIdentityRepository struct {
	pool *pgxpool.Pool
}

// NewIdentityRepository creates a new PostgreSQL implementation of [IdentityRepository].
func NewIdentityRepository(pool *pgxpool.Pool) *PostgresIdentityRepository {
	return &PostgresIdentityRepository{pool: pool}
}

var identityColumns = strings.Join(schema.AuthIdentity.Columns(), ", ")

func scanIdentity(row interface{ Scan(dest ...any) error }) (*Identity, error) {
	identity := &Identity{}
	err := row.Scan(
		&identity.ID,
		&identity.Email,
		&identity.PasswordHash,
		&identity.DisplayName,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	)
	return identity, err
}

/*
Create persists a new identity into auth.identity.

Description: The profile row is created by the identity_created trigger inside
the same statement, so a successful insert always leaves exactly one profile.

Parameters:
  - context: context.Context
  - identity: *Identity

Returns:
  - error: Conflict on duplicate email, or connectivity errors
*/
func (repository *PostgresIdentityRepository) Create(context context.Context, identity *Identity) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6)`,
		schema.AuthIdentity.Table, identityColumns)

	now := time.Now()
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = now
	}
	identity.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		identity.ID,
		identity.Email,
		identity.PasswordHash,
		identity.DisplayName,
		identity.CreatedAt,
		identity.UpdatedAt,
	)
	if err != nil {
		wrapped := dberr.Wrap(err, "postgres_identity_repo_create")
		if apperr.HasCode(wrapped, apperr.CodeConflict) {
			return apperr.Conflict("Email is already registered").WithKey(i18n.KeyErrEmailTaken).WithCause(err)
		}
		return wrapped
	}

	return nil
}

// FindByEmail retrieves an identity by email, ignoring case.
func (repository *PostgresIdentityRepository) FindByEmail(context context.Context, email string) (*Identity, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE LOWER(%s) = LOWER($1)`,
		identityColumns, schema.AuthIdentity.Table, schema.AuthIdentity.Email)

	identity, err := scanIdentity(repository.pool.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_identity_repo_find_by_email")
	}
	return identity, nil
}

// FindByID retrieves an identity by primary key.
func (repository *PostgresIdentityRepository) FindByID(context context.Context, id string) (*Identity, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		identityColumns, schema.AuthIdentity.Table, schema.AuthIdentity.ID)

	identity, err := scanIdentity(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_identity_repo_find_by_id")
	}
	return identity, nil
}

// UpdatePassword updates only the password hash.
func (repository *PostgresIdentityRepository) UpdatePassword(context context.Context, identityID, newHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.AuthIdentity.Table, schema.AuthIdentity.PasswordHash, schema.AuthIdentity.UpdatedAt, schema.AuthIdentity.ID)

	tag, err := repository.pool.Exec(context, query, identityID, newHash)
	if err != nil {
		return dberr.Wrap(err, "postgres_identity_repo_update_password")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// # Session Repository

// PostgresSessionRepository implements [SessionRepository].
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new PostgreSQL implementation of [SessionRepository].
func NewSessionRepository(pool *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

/*
Create persists a new session record into auth.session.

Parameters:
  - context: context.Context
  - session: *Session

Returns:
  - error: Storage failures
*/
func (repository *PostgresSessionRepository) Create(context context.Context, session *Session) error {
	table := schema.AuthSession
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		table.Table, table.ID, table.IdentityID, table.TokenHash, table.UserAgent, table.IPAddress,
		table.ExpiresAt, table.IsRevoked, table.CreatedAt)

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		session.ID,
		session.IdentityID,
		session.TokenHash,
		session.UserAgent,
		session.IPAddress,
		session.ExpiresAt,
		session.IsRevoked,
		session.CreatedAt,
	)
	return dberr.Wrap(err, "postgres_session_repo_create")
}

// FindByTokenHash resolves a refresh token hash into an active session.
func (repository *PostgresSessionRepository) FindByTokenHash(context context.Context, tokenHash string) (*Session, error) {
	table := schema.AuthSession
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = FALSE AND %s > NOW()`,
		table.ID, table.IdentityID, table.TokenHash, table.UserAgent, table.IPAddress,
		table.ExpiresAt, table.IsRevoked, table.CreatedAt,
		table.Table,
		table.TokenHash, table.IsRevoked, table.ExpiresAt)

	session := &Session{}
	err := repository.pool.QueryRow(context, query, tokenHash).Scan(
		&session.ID,
		&session.IdentityID,
		&session.TokenHash,
		&session.UserAgent,
		&session.IPAddress,
		&session.ExpiresAt,
		&session.IsRevoked,
		&session.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_session_repo_find")
	}

	return session, nil
}

// Revoke marks a specific session as revoked.
func (repository *PostgresSessionRepository) Revoke(context context.Context, sessionID string) error {
	table := schema.AuthSession
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE, %s = NOW() WHERE %s = $1`,
		table.Table, table.IsRevoked, table.RevokedAt, table.ID)

	_, err := repository.pool.Exec(context, query, sessionID)
	return dberr.Wrap(err, "postgres_session_repo_revoke")
}

// RevokeAll marks all active sessions of an identity as revoked.
func (repository *PostgresSessionRepository) RevokeAll(context context.Context, identityID string) error {
	table := schema.AuthSession
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE, %s = NOW() WHERE %s = $1 AND %s = FALSE`,
		table.Table, table.IsRevoked, table.RevokedAt, table.IdentityID, table.IsRevoked)

	_, err := repository.pool.Exec(context, query, identityID)
	return dberr.Wrap(err, "postgres_session_repo_revoke_all")
}

// RevokeOthers revokes all active sessions of an identity except one.
func (repository *PostgresSessionRepository) RevokeOthers(context context.Context, identityID, currentSessionID string) error {
	table := schema.AuthSession
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE, %s = NOW() WHERE %s = $1 AND %s != $2 AND %s = FALSE`,
		table.Table, table.IsRevoked, table.RevokedAt, table.IdentityID, table.ID, table.IsRevoked)

	_, err := repository.pool.Exec(context, query, identityID, currentSessionID)
	return dberr.Wrap(err, "postgres_session_repo_revoke_others")
}

// DeleteExpired removes sessions past their expiry and reports how many went.
func (repository *PostgresSessionRepository) DeleteExpired(context context.Context) (int64, error) {
	table := schema.AuthSession
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s <= NOW()`, table.Table, table.ExpiresAt)

	tag, err := repository.pool.Exec(context, query)
	if err != nil {
		return 0, dberr.Wrap(err, "postgres_session_repo_delete_expired")
	}
	return tag.RowsAffected(), nil
}
