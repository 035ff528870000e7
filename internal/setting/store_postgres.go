package setting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abcscribe/abcscribe/internal/platform/apperr"
	"github.com/abcscribe/abcscribe/internal/platform/dberr"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (repository *PostgresRepository) Create(context context.Context, setting *Setting) error {
	const query = `
		INSERT INTO settings (id, user_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	now := time.Now()
	if setting.CreatedAt.IsZero() {
		setting.CreatedAt = now
	}
	setting.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		setting.ID,
		setting.UserID,
		setting.Name,
		setting.Description,
		setting.CreatedAt,
		setting.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "setting", "A setting with this name already exists")
	}
	return nil
}

func (repository *PostgresRepository) List(context context.Context, userID string) ([]*Setting, error) {
	const query = `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM settings
		WHERE user_id = $1
		ORDER BY LOWER(name) ASC`

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_setting_repo_list_failed: %w", err)
	}
	defer rows.Close()

	settings := []*Setting{}
	for rows.Next() {
		setting := &Setting{}
		if err := rows.Scan(
			&setting.ID,
			&setting.UserID,
			&setting.Name,
			&setting.Description,
			&setting.CreatedAt,
			&setting.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres_setting_repo_scan_failed: %w", err)
		}
		settings = append(settings, setting)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_setting_repo_rows_failed: %w", err)
	}

	return settings, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, userID, id string) (*Setting, error) {
	const query = `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM settings
		WHERE user_id = $1 AND id = $2`

	setting := &Setting{}
	err := repository.pool.QueryRow(context, query, userID, id).Scan(
		&setting.ID,
		&setting.UserID,
		&setting.Name,
		&setting.Description,
		&setting.CreatedAt,
		&setting.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Setting")
		}
		return nil, fmt.Errorf("postgres_setting_repo_find_failed: %w", err)
	}

	return setting, nil
}

func (repository *PostgresRepository) Update(context context.Context, setting *Setting) error {
	const query = `
		UPDATE settings
		SET name = $3, description = $4, updated_at = now()
		WHERE user_id = $1 AND id = $2`

	tag, err := repository.pool.Exec(context, query,
		setting.UserID,
		setting.ID,
		setting.Name,
		setting.Description,
	)
	if err != nil {
		return dberr.Wrap(err, "setting", "A setting with this name already exists")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Setting")
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, userID, id string) error {
	const query = `DELETE FROM settings WHERE user_id = $1 AND id = $2`

	tag, err := repository.pool.Exec(context, query, userID, id)
	if err != nil {
		return fmt.Errorf("postgres_setting_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Setting")
	}
	return nil
}
