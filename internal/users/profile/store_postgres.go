// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/toikana/marketplace/internal/platform/postgres"
	"github.com/toikana/marketplace/internal/platform/database/schema"
	"github.com/toikana/marketplace/internal/platform/dberr"
	"github.com/toikana/marketplace/internal/platform/sec"
	"github.com/toikana/marketplace/pkg/pagination"
)

// # Repository Implementation

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db postgres.Querier
}

// NewRepository creates a new Postgres implementation for profile management.
func NewRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var profileColumns = strings.Join(schema.UsersProfile.Columns(), ", ")

func scanProfile(row pgx.Row) (*Profile, error) {
	profile := &Profile{}
	err := row.Scan(
		&profile.ID,
		&profile.Role,
		&profile.FullName,
		&profile.Phone,
		&profile.AvatarURL,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// FindByID retrieves a profile row from users.profile.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		profileColumns, schema.UsersProfile.Table, schema.UsersProfile.ID)

	profile, err := scanProfile(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "profile_find_by_id")
	}
	return profile, nil
}

/*
Update modifies the self-service fields of a profile.

Description: Only the fields present in the patch are written. Empty strings
are stored as NULL so a cleared phone reads back as absent.

Parameters:
  - context: context.Context
  - id: string
  - patch: Patch

Returns:
  - *Profile: The stored row
  - error: dberr-classified failures
*/
func (repository *PostgresRepository) Update(context context.Context, id string, patch Patch) (*Profile, error) {
	assignments := []string{fmt.Sprintf("%s = NOW()", schema.UsersProfile.UpdatedAt)}
	args := []any{id}

	set := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		assignments = append(assignments, fmt.Sprintf("%s = NULLIF($%d, '')", column, len(args)))
	}
	set(schema.UsersProfile.FullName, patch.FullName)
	set(schema.UsersProfile.Phone, patch.Phone)
	set(schema.UsersProfile.AvatarURL, patch.AvatarURL)

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $1 RETURNING %s`,
		schema.UsersProfile.Table, strings.Join(assignments, ", "), schema.UsersProfile.ID, profileColumns)

	profile, err := scanProfile(repository.db.QueryRow(context, query, args...))
	if err != nil {
		return nil, dberr.Wrap(err, "profile_update")
	}
	return profile, nil
}

/*
List returns a page of profiles joined with their identity email.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []*UserSummary: The page
  - int: Total number of profiles
  - error: dberr-classified failures
*/
func (repository *PostgresRepository) List(context context.Context, params pagination.Params) ([]*UserSummary, int, error) {
	p, i := schema.UsersProfile, schema.AuthIdentity

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, p.Table)
	if err := repository.db.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "profile_count")
	}

	query := fmt.Sprintf(`
		SELECT p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, i.%s
		FROM %s p
		JOIN %s i ON i.%s = p.%s
		ORDER BY p.%s DESC, p.%s
		LIMIT $1 OFFSET $2`,
		p.ID, p.Role, p.FullName, p.Phone, p.AvatarURL, p.CreatedAt, p.UpdatedAt, i.Email,
		p.Table,
		i.Table, i.ID, p.ID,
		p.CreatedAt, p.ID,
	)

	rows, err := repository.db.Query(context, query, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "profile_list")
	}
	defer rows.Close()

	users := make([]*UserSummary, 0, params.Limit)
	for rows.Next() {
		user := &UserSummary{}
		if err := rows.Scan(
			&user.ID, &user.Role, &user.FullName, &user.Phone, &user.AvatarURL,
			&user.CreatedAt, &user.UpdatedAt, &user.Email,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "profile_list_scan")
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "profile_list_rows")
	}

	return users, total, nil
}

// SetRole updates the role column; the CHECK constraint rejects unknown roles.
func (repository *PostgresRepository) SetRole(context context.Context, id string, role sec.Role) (*Profile, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1 RETURNING %s`,
		schema.UsersProfile.Table, schema.UsersProfile.Role, schema.UsersProfile.UpdatedAt,
		schema.UsersProfile.ID, profileColumns)

	profile, err := scanProfile(repository.db.QueryRow(context, query, id, string(role)))
	if err != nil {
		return nil, dberr.Wrap(err, "profile_set_role")
	}
	return profile, nil
}
