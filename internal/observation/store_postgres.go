// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

package observation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abcscribe/abcscribe/internal/platform/apperr"
)

// observationColumns is the canonical select list shared by every lookup.
const observationColumns = `id, user_id, subject_id, setting_id, observed_at, antecedent, behavior, consequence, notes, created_at, updated_at`

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Create persists a new observation record.

Parameters:
  - context: context.Context
  - observation: *Observation

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) Create(context context.Context, observation *Observation) error {
	const query = `
		INSERT INTO observations (
			id, user_id, subject_id, setting_id, observed_at,
			antecedent, behavior, consequence, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	now := time.Now()
	if observation.CreatedAt.IsZero() {
		observation.CreatedAt = now
	}
	observation.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		observation.ID,
		observation.UserID,
		observation.SubjectID,
		observation.SettingID,
		observation.ObservedAt,
		observation.Antecedent,
		observation.Behavior,
		observation.Consequence,
		observation.Notes,
		observation.CreatedAt,
		observation.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_observation_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves the user's observation by primary key.

Parameters:
  - context: context.Context
  - userID: string
  - id: string

Returns:
  - *Observation: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, userID, id string) (*Observation, error) {
	query := `SELECT ` + observationColumns + ` FROM observations WHERE user_id = $1 AND id = $2`

	observation := &Observation{}
	err := repository.pool.QueryRow(context, query, userID, id).Scan(
		&observation.ID,
		&observation.UserID,
		&observation.SubjectID,
		&observation.SettingID,
		&observation.ObservedAt,
		&observation.Antecedent,
		&observation.Behavior,
		&observation.Consequence,
		&observation.Notes,
		&observation.CreatedAt,
		&observation.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Observation")
		}
		return nil, fmt.Errorf("postgres_observation_repo_find_failed: %w", err)
	}

	return observation, nil
}

/*
ListBySubject returns a newest-first page of a subject's observations.

Description: A window function carries the subject's total alongside each row
so the page and its count come from one round trip.

Parameters:
  - context: context.Context
  - userID: string
  - subjectID: string
  - limit: int
  - offset: int

Returns:
  - []*Observation: Page of observations
  - int: Total observations for the subject
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) ListBySubject(context context.Context, userID, subjectID string, limit, offset int) ([]*Observation, int, error) {
	query := `
		SELECT ` + observationColumns + `, COUNT(*) OVER() AS total_count
		FROM observations
		WHERE user_id = $1 AND subject_id = $2
		ORDER BY observed_at DESC, id DESC
		LIMIT $3 OFFSET $4`

	rows, err := repository.pool.Query(context, query, userID, subjectID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_observation_repo_list_failed: %w", err)
	}
	defer rows.Close()

	observations := []*Observation{}
	total := 0
	for rows.Next() {
		observation := &Observation{}
		if err := rows.Scan(
			&observation.ID,
			&observation.UserID,
			&observation.SubjectID,
			&observation.SettingID,
			&observation.ObservedAt,
			&observation.Antecedent,
			&observation.Behavior,
			&observation.Consequence,
			&observation.Notes,
			&observation.CreatedAt,
			&observation.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_observation_repo_scan_failed: %w", err)
		}
		observations = append(observations, observation)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_observation_repo_rows_failed: %w", err)
	}

	return observations, total, nil
}

/*
Update persists changes to an observation's mutable fields.

Parameters:
  - context: context.Context
  - observation: *Observation

Returns:
  - error: apperr.NotFound or persistence failures
*/
func (repository *PostgresRepository) Update(context context.Context, observation *Observation) error {
	const query = `
		UPDATE observations
		SET setting_id = $3, observed_at = $4, antecedent = $5, behavior = $6,
		    consequence = $7, notes = $8, updated_at = now()
		WHERE user_id = $1 AND id = $2`

	tag, err := repository.pool.Exec(context, query,
		observation.UserID,
		observation.ID,
		observation.SettingID,
		observation.ObservedAt,
		observation.Antecedent,
		observation.Behavior,
		observation.Consequence,
		observation.Notes,
	)

	if err != nil {
		return fmt.Errorf("postgres_observation_repo_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Observation")
	}

	return nil
}

/*
Delete removes the user's observation.

Parameters:
  - context: context.Context
  - userID: string
  - id: string

Returns:
  - error: apperr.NotFound or persistence failures
*/
func (repository *PostgresRepository) Delete(context context.Context, userID, id string) error {
	const query = `DELETE FROM observations WHERE user_id = $1 AND id = $2`

	tag, err := repository.pool.Exec(context, query, userID, id)
	if err != nil {
		return fmt.Errorf("postgres_observation_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Observation")
	}

	return nil
}
