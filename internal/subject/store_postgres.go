// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

package subject

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abcscribe/abcscribe/internal/platform/apperr"
	"github.com/abcscribe/abcscribe/internal/platform/dberr"
)

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// # CRUD

/*
Create persists a new subject record.

Parameters:
  - context: context.Context
  - subject: *Subject

Returns:
  - error: apperr.Conflict on a duplicate name for the user, or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, subject *Subject) error {
	const query = `
		INSERT INTO subjects (id, user_id, name, date_of_birth, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	now := time.Now()
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = now
	}
	subject.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		subject.ID,
		subject.UserID,
		subject.Name,
		subject.DateOfBirth,
		subject.Notes,
		subject.CreatedAt,
		subject.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "subject", "A subject with this name already exists")
	}

	return nil
}

/*
FindByID retrieves the user's subject by primary key.

Description: The WHERE clause carries both keys, so another tenant's subject
is indistinguishable from a missing one.

Parameters:
  - context: context.Context
  - userID: string
  - id: string

Returns:
  - *Subject: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, userID, id string) (*Subject, error) {
	const query = `
		SELECT id, user_id, name, date_of_birth, notes, created_at, updated_at
		FROM subjects
		WHERE user_id = $1 AND id = $2`

	subject := &Subject{}
	err := repository.pool.QueryRow(context, query, userID, id).Scan(
		&subject.ID,
		&subject.UserID,
		&subject.Name,
		&subject.DateOfBirth,
		&subject.Notes,
		&subject.CreatedAt,
		&subject.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Subject")
		}
		return nil, fmt.Errorf("postgres_subject_repo_find_failed: %w", err)
	}

	return subject, nil
}

/*
Update persists changes to a subject's mutable fields.

Parameters:
  - context: context.Context
  - subject: *Subject

Returns:
  - error: apperr.NotFound, apperr.Conflict, or persistence failures
*/
func (repository *PostgresRepository) Update(context context.Context, subject *Subject) error {
	const query = `
		UPDATE subjects
		SET name = $3, date_of_birth = $4, notes = $5, updated_at = now()
		WHERE user_id = $1 AND id = $2`

	tag, err := repository.pool.Exec(context, query,
		subject.UserID,
		subject.ID,
		subject.Name,
		subject.DateOfBirth,
		subject.Notes,
	)

	if err != nil {
		return dberr.Wrap(err, "subject", "A subject with this name already exists")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Subject")
	}

	return nil
}

/*
Delete removes the user's subject. Observations cascade at the schema level.

Parameters:
  - context: context.Context
  - userID: string
  - id: string

Returns:
  - error: apperr.NotFound or persistence failures
*/
func (repository *PostgresRepository) Delete(context context.Context, userID, id string) error {
	const query = `DELETE FROM subjects WHERE user_id = $1 AND id = $2`

	tag, err := repository.pool.Exec(context, query, userID, id)
	if err != nil {
		return fmt.Errorf("postgres_subject_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Subject")
	}

	return nil
}

// # Search Engine

/*
Search returns the user's subjects matching the filter, each with its
observation count.

Description: Utilizes a dynamic SQL strings.Builder to construct the filtered
query. The tenant predicate is ALWAYS the first condition; every optional
predicate folds in behind it with positional arguments.

Parameters:
  - context: context.Context
  - userID: string
  - filter: Filter

Returns:
  - []*Subject: Matching subjects in sort order
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) Search(context context.Context, userID string, filter Filter) ([]*Subject, error) {

	// Query build initialization
	var queryBuilder strings.Builder
	args := []any{userID}
	argID := 2

	// Observations are joined unconditionally: the count is part of every
	// search row, and zero-observation subjects survive via LEFT JOIN.
	queryBuilder.WriteString(`
		SELECT s.id, s.user_id, s.name, s.date_of_birth, s.notes, s.created_at, s.updated_at,
		       COUNT(o.id) AS observations_count
		FROM subjects s
		LEFT JOIN observations o ON o.subject_id = s.id AND o.user_id = s.user_id
		WHERE s.user_id = $1`)

	// Apply Filters (Dynamic WHERE clause construction)
	argID = appendPredicates(&queryBuilder, &args, argID, filter)

	// Aggregate per subject
	queryBuilder.WriteString(" GROUP BY s.id")

	// Minimum observations gate rides on the aggregate
	if filter.MinObservations != nil {
		queryBuilder.WriteString(fmt.Sprintf(" HAVING COUNT(o.id) >= $%d", argID))
		args = append(args, *filter.MinObservations)
		argID++
	}

	// Deterministic ordering
	queryBuilder.WriteString(" ORDER BY " + orderClause(filter.SortBy, filter.SortDirection))

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("postgres_subject_repo_search_failed: %w", err)
	}
	defer rows.Close()

	subjects := []*Subject{}
	for rows.Next() {
		subject := &Subject{}
		if err := rows.Scan(
			&subject.ID,
			&subject.UserID,
			&subject.Name,
			&subject.DateOfBirth,
			&subject.Notes,
			&subject.CreatedAt,
			&subject.UpdatedAt,
			&subject.ObservationsCount,
		); err != nil {
			return nil, fmt.Errorf("postgres_subject_repo_scan_failed: %w", err)
		}
		subjects = append(subjects, subject)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_subject_repo_rows_failed: %w", err)
	}

	return subjects, nil
}

/*
CountAll returns the user's total number of subjects, ignoring filters.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - int: Total count
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) CountAll(context context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM subjects WHERE user_id = $1`

	var count int
	if err := repository.pool.QueryRow(context, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_subject_repo_count_failed: %w", err)
	}

	return count, nil
}

/*
CountFiltered returns how many of the user's subjects match the filter.

Description: Re-applies the exact search predicates as an inner query and
counts the surviving groups, so the number always agrees with Search.

Parameters:
  - context: context.Context
  - userID: string
  - filter: Filter

Returns:
  - int: Filtered count
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) CountFiltered(context context.Context, userID string, filter Filter) (int, error) {

	var queryBuilder strings.Builder
	args := []any{userID}
	argID := 2

	queryBuilder.WriteString(`
		SELECT COUNT(*) FROM (
			SELECT s.id
			FROM subjects s
			LEFT JOIN observations o ON o.subject_id = s.id AND o.user_id = s.user_id
			WHERE s.user_id = $1`)

	argID = appendPredicates(&queryBuilder, &args, argID, filter)

	queryBuilder.WriteString(" GROUP BY s.id")

	if filter.MinObservations != nil {
		queryBuilder.WriteString(fmt.Sprintf(" HAVING COUNT(o.id) >= $%d", argID))
		args = append(args, *filter.MinObservations)
		argID++
	}

	queryBuilder.WriteString(") matched")

	var count int
	if err := repository.pool.QueryRow(context, queryBuilder.String(), args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_subject_repo_count_filtered_failed: %w", err)
	}

	return count, nil
}

// # Builder Internals

// appendPredicates folds the optional row-level filters into the query and
// returns the next positional argument index.
func appendPredicates(queryBuilder *strings.Builder, args *[]any, argID int, filter Filter) int {

	// Name search: case-insensitive substring match with escaped wildcards
	if filter.Query != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND LOWER(s.name) LIKE LOWER($%d)", argID))
		*args = append(*args, "%"+escapeLike(filter.Query)+"%")
		argID++
	}

	// Date-of-birth range: inclusive, applied only when both bounds exist
	if filter.StartDate != nil && filter.EndDate != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND s.date_of_birth >= $%d AND s.date_of_birth <= $%d", argID, argID+1))
		*args = append(*args, *filter.StartDate, *filter.EndDate)
		argID += 2
	}

	return argID
}

// escapeLike neutralizes LIKE wildcards in user-supplied search text.
//
// Backslash must be escaped FIRST or the later escapes would double up.
func escapeLike(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `%`, `\%`)
	value = strings.ReplaceAll(value, `_`, `\_`)
	return value
}

// orderClause maps the public sort vocabulary onto SQL.
//
// Unknown sort keys fall back to newest-first; unknown directions fall back
// to ascending. Only whitelisted snippets ever reach the query text.
func orderClause(sortBy, direction string) string {
	dir := "ASC"
	if strings.EqualFold(direction, SortDesc) {
		dir = "DESC"
	}

	switch sortBy {
	case SortByName:
		return "LOWER(s.name) " + dir
	case SortByDateOfBirth:
		// NULL birthdays sort to the far future so they land last ascending
		return "COALESCE(s.date_of_birth, '9999-12-31'::date) " + dir
	case SortByObservationsCount:
		return "COUNT(o.id) " + dir
	default:
		return "s.created_at DESC"
	}
}
