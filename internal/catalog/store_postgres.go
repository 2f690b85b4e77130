// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/toikana/marketplace/internal/platform/database/schema"
	"github.com/toikana/marketplace/internal/platform/dberr"
	"github.com/toikana/marketplace/internal/platform/postgres"
)

// # Table Mapping

// variant maps one kind onto its table and its kind-specific columns.
type variant[T Item] struct {
	table   string
	columns []string
	create  func() T
	targets func(item T) []any
	values  func(item T) []any
}

var venueVariant = variant[*Venue]{
	table:   schema.CatalogPlaces.Table,
	columns: schema.CatalogPlaces.Columns(),
	create:  func() *Venue { return &Venue{} },
	targets: func(v *Venue) []any { return []any{&v.Address, &v.AddressKG, &v.AddressRU, &v.Capacity} },
	values:  func(v *Venue) []any { return []any{v.Address, v.AddressKG, v.AddressRU, v.Capacity} },
}

var artistVariant = variant[*Artist]{
	table:   schema.CatalogArtists.Table,
	columns: schema.CatalogArtists.Columns(),
	create:  func() *Artist { return &Artist{} },
	targets: func(a *Artist) []any {
		return []any{&a.Genre, &a.GenreKG, &a.GenreRU, &a.Experience, &a.ExperienceKG, &a.ExperienceRU}
	},
	values: func(a *Artist) []any {
		return []any{a.Genre, a.GenreKG, a.GenreRU, a.Experience, a.ExperienceKG, a.ExperienceRU}
	},
}

var rentalVariant = variant[*Rental]{
	table:   schema.CatalogRentals.Table,
	columns: schema.CatalogRentals.Columns(),
	create:  func() *Rental { return &Rental{} },
	targets: func(r *Rental) []any { return []any{&r.Specs, &r.SpecsKG, &r.SpecsRU} },
	values:  func(r *Rental) []any { return []any{r.Specs, r.SpecsKG, r.SpecsRU} },
}

func listingTargets(l *Listing) []any {
	return []any{
		&l.ID, &l.OwnerID,
		&l.Name, &l.NameKG, &l.NameRU,
		&l.Description, &l.DescriptionKG, &l.DescriptionRU,
		&l.Price, &l.Rating, &l.ImageURL,
		&l.CreatedAt, &l.UpdatedAt,
	}
}

// listingValues follows schema.Listing.Mutable().
func listingValues(l *Listing) []any {
	return []any{l.Name, l.NameKG, l.NameRU, l.Description, l.DescriptionKG, l.DescriptionRU, l.Price, l.ImageURL}
}

// # Repository Implementation

// PostgresStore implements [Store] for one kind using pgx.
type PostgresStore[T Item] struct {
	pool    *pgxpool.Pool
	variant variant[T]
	columns string
}

func newPostgresStore[T Item](pool *pgxpool.Pool, v variant[T]) *PostgresStore[T] {
	return &PostgresStore[T]{
		pool:    pool,
		variant: v,
		columns: strings.Join(append(schema.Listing.Columns(), v.columns...), ", "),
	}
}

// NewVenueStore creates the catalog.places repository.
func NewVenueStore(pool *pgxpool.Pool) *PostgresStore[*Venue] {
	return newPostgresStore(pool, venueVariant)
}

// NewArtistStore creates the catalog.artists repository.
func NewArtistStore(pool *pgxpool.Pool) *PostgresStore[*Artist] {
	return newPostgresStore(pool, artistVariant)
}

// NewRentalStore creates the catalog.rentals repository.
func NewRentalStore(pool *pgxpool.Pool) *PostgresStore[*Rental] {
	return newPostgresStore(pool, rentalVariant)
}

func (repository *PostgresStore[T]) scan(row pgx.Row) (T, error) {
	item := repository.variant.create()
	targets := append(listingTargets(item.Base()), repository.variant.targets(item)...)
	if err := row.Scan(targets...); err != nil {
		var zero T
		return zero, err
	}
	return item, nil
}

func (repository *PostgresStore[T]) query(context context.Context, db postgres.Querier, query string, args ...any) ([]T, error) {
	rows, err := db.Query(context, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		item, err := repository.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// List returns every row of the table.
func (repository *PostgresStore[T]) List(context context.Context) ([]T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s DESC, %s`,
		repository.columns, repository.variant.table, schema.Listing.CreatedAt, schema.Listing.ID)

	items, err := repository.query(context, repository.pool, query)
	if err != nil {
		return nil, dberr.Wrap(err, "catalog_list")
	}
	return items, nil
}

// ListByOwner returns the rows created by ownerID.
func (repository *PostgresStore[T]) ListByOwner(context context.Context, ownerID string) ([]T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC, %s`,
		repository.columns, repository.variant.table, schema.Listing.OwnerID, schema.Listing.CreatedAt, schema.Listing.ID)

	items, err := repository.query(context, repository.pool, query, ownerID)
	if err != nil {
		return nil, dberr.Wrap(err, "catalog_list_by_owner")
	}
	return items, nil
}

// FindByID retrieves a single row.
func (repository *PostgresStore[T]) FindByID(context context.Context, id string) (T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		repository.columns, repository.variant.table, schema.Listing.ID)

	item, err := repository.scan(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return item, dberr.Wrap(err, "catalog_find_by_id")
	}
	return item, nil
}

func (repository *PostgresStore[T]) lock(context context.Context, tx pgx.Tx, id string) (T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`,
		repository.columns, repository.variant.table, schema.Listing.ID)
	return repository.scan(tx.QueryRow(context, query, id))
}

/*
Create inserts a new row.

Parameters:
  - context: context.Context
  - item: T (ID and OwnerID set by the service)

Returns:
  - error: dberr-classified failures
*/
func (repository *PostgresStore[T]) Create(context context.Context, item T) error {
	base := item.Base()
	columns := append([]string{schema.Listing.ID, schema.Listing.OwnerID}, schema.Listing.Mutable()...)
	columns = append(columns, repository.variant.columns...)

	args := append([]any{base.ID, base.OwnerID}, listingValues(base)...)
	args = append(args, repository.variant.values(item)...)

	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING %s, %s, %s`,
		repository.variant.table, strings.Join(columns, ", "), strings.Join(placeholders, ", "),
		schema.Listing.Rating, schema.Listing.CreatedAt, schema.Listing.UpdatedAt)

	err := repository.pool.QueryRow(context, query, args...).Scan(&base.Rating, &base.CreatedAt, &base.UpdatedAt)
	return dberr.Wrap(err, "catalog_create")
}

// Update locks the row, applies mutate and writes the mutable columns back.
func (repository *PostgresStore[T]) Update(context context.Context, id string, mutate func(item T) error) (T, error) {
	var updated T

	err := postgres.InTx(context, repository.pool, func(tx pgx.Tx) error {
		item, err := repository.lock(context, tx, id)
		if err != nil {
			return dberr.Wrap(err, "catalog_update_lock")
		}

		if err := mutate(item); err != nil {
			return err
		}

		columns := append(schema.Listing.Mutable(), repository.variant.columns...)
		args := append([]any{id}, listingValues(item.Base())...)
		args = append(args, repository.variant.values(item)...)

		assignments := make([]string, 0, len(columns)+1)
		for i, column := range columns {
			assignments = append(assignments, fmt.Sprintf("%s = $%d", column, i+2))
		}
		assignments = append(assignments, fmt.Sprintf("%s = NOW()", schema.Listing.UpdatedAt))

		query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $1 RETURNING %s`,
			repository.variant.table, strings.Join(assignments, ", "), schema.Listing.ID, schema.Listing.UpdatedAt)

		if err := tx.QueryRow(context, query, args...).Scan(&item.Base().UpdatedAt); err != nil {
			return dberr.Wrap(err, "catalog_update")
		}

		updated = item
		return nil
	})

	return updated, err
}

// Delete locks the row, asks check and removes it.
func (repository *PostgresStore[T]) Delete(context context.Context, id string, check func(item T) error) (T, error) {
	var removed T

	err := postgres.InTx(context, repository.pool, func(tx pgx.Tx) error {
		item, err := repository.lock(context, tx, id)
		if err != nil {
			return dberr.Wrap(err, "catalog_delete_lock")
		}

		if err := check(item); err != nil {
			return err
		}

		query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, repository.variant.table, schema.Listing.ID)
		if _, err := tx.Exec(context, query, id); err != nil {
			return dberr.Wrap(err, "catalog_delete")
		}

		removed = item
		return nil
	})

	return removed, err
}
