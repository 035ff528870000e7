// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

package journal

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

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// # Entries

/*
CreateEntry persists a new journal entry record.

Parameters:
  - context: context.Context
  - entry: *JournalEntry

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) CreateEntry(context context.Context, entry *JournalEntry) error {
	const query = `
		INSERT INTO journal_entries (
			id, user_id, occurred_at, antecedent, behavior, consequence, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	now := time.Now()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		entry.ID,
		entry.UserID,
		entry.OccurredAt,
		entry.Antecedent,
		entry.Behavior,
		entry.Consequence,
		entry.CreatedAt,
		entry.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_journal_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindEntryByID retrieves the user's entry with its tags loaded.

Parameters:
  - context: context.Context
  - userID: string
  - id: string

Returns:
  - *JournalEntry: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) FindEntryByID(context context.Context, userID, id string) (*JournalEntry, error) {
	const query = `
		SELECT id, user_id, occurred_at, antecedent, behavior, consequence, created_at, updated_at
		FROM journal_entries
		WHERE user_id = $1 AND id = $2`

	entry := &JournalEntry{}
	err := repository.pool.QueryRow(context, query, userID, id).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.OccurredAt,
		&entry.Antecedent,
		&entry.Behavior,
		&entry.Consequence,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Journal entry")
		}
		return nil, fmt.Errorf("postgres_journal_repo_find_failed: %w", err)
	}

	tags, err := repository.tagsForEntries(context, []string{entry.ID})
	if err != nil {
		return nil, err
	}
	entry.Tags = tags[entry.ID]
	if entry.Tags == nil {
		entry.Tags = []*Tag{}
	}

	return entry, nil
}

/*
ListEntries returns a newest-first page of the user's entries with tags.

Parameters:
  - context: context.Context
  - userID: string
  - limit: int
  - offset: int

Returns:
  - []*JournalEntry: Page of entries
  - int: The user's total entry count
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) ListEntries(context context.Context, userID string, limit, offset int) ([]*JournalEntry, int, error) {
	const query = `
		SELECT id, user_id, occurred_at, antecedent, behavior, consequence, created_at, updated_at,
		       COUNT(*) OVER() AS total_count
		FROM journal_entries
		WHERE user_id = $1
		ORDER BY occurred_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_journal_repo_list_failed: %w", err)
	}
	defer rows.Close()

	entries := []*JournalEntry{}
	entryIDs := []string{}
	total := 0
	for rows.Next() {
		entry := &JournalEntry{Tags: []*Tag{}}
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.OccurredAt,
			&entry.Antecedent,
			&entry.Behavior,
			&entry.Consequence,
			&entry.CreatedAt,
			&entry.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_journal_repo_scan_failed: %w", err)
		}
		entries = append(entries, entry)
		entryIDs = append(entryIDs, entry.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_journal_repo_rows_failed: %w", err)
	}

	// Hydrate tags for the whole page in one query
	if len(entryIDs) > 0 {
		tagsByEntry, err := repository.tagsForEntries(context, entryIDs)
		if err != nil {
			return nil, 0, err
		}
		for _, entry := range entries {
			if tags, ok := tagsByEntry[entry.ID]; ok {
				entry.Tags = tags
			}
		}
	}

	return entries, total, nil
}

/*
UpdateEntry persists changes to an entry's narrative fields.

Parameters:
  - context: context.Context
  - entry: *JournalEntry

Returns:
  - error: apperr.NotFound or persistence failures
*/
func (repository *PostgresRepository) UpdateEntry(context context.Context, entry *JournalEntry) error {
	const query = `
		UPDATE journal_entries
		SET occurred_at = $3, antecedent = $4, behavior = $5, consequence = $6, updated_at = now()
		WHERE user_id = $1 AND id = $2`

	tag, err := repository.pool.Exec(context, query,
		entry.UserID,
		entry.ID,
		entry.OccurredAt,
		entry.Antecedent,
		entry.Behavior,
		entry.Consequence,
	)

	if err != nil {
		return fmt.Errorf("postgres_journal_repo_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Journal entry")
	}

	return nil
}

/*
DeleteEntry removes the user's entry. Tag links cascade at the schema level.

Parameters:
  - context: context.Context
  - userID: string
  - id: string

Returns:
  - error: apperr.NotFound or persistence failures
*/
func (repository *PostgresRepository) DeleteEntry(context context.Context, userID, id string) error {
	const query = `DELETE FROM journal_entries WHERE user_id = $1 AND id = $2`

	tag, err := repository.pool.Exec(context, query, userID, id)
	if err != nil {
		return fmt.Errorf("postgres_journal_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Journal entry")
	}

	return nil
}

/*
ReplaceEntryTags atomically rewrites the entry's tag set inside a transaction.

Description: The unique (entry_id, tag_id) constraint plus ON CONFLICT DO
NOTHING collapses duplicate tag IDs into a single link.

Parameters:
  - context: context.Context
  - entryID: string
  - tagIDs: []string

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) ReplaceEntryTags(context context.Context, entryID string, tagIDs []string) error {
	tx, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_journal_repo_tx_failed: %w", err)
	}
	defer tx.Rollback(context)

	if _, err := tx.Exec(context, `DELETE FROM journal_entry_tags WHERE entry_id = $1`, entryID); err != nil {
		return fmt.Errorf("postgres_journal_repo_unlink_failed: %w", err)
	}

	const link = `
		INSERT INTO journal_entry_tags (entry_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT (entry_id, tag_id) DO NOTHING`

	for _, tagID := range tagIDs {
		if _, err := tx.Exec(context, link, entryID, tagID); err != nil {
			return fmt.Errorf("postgres_journal_repo_link_failed: %w", err)
		}
	}

	if err := tx.Commit(context); err != nil {
		return fmt.Errorf("postgres_journal_repo_commit_failed: %w", err)
	}

	return nil
}

// tagsForEntries loads tags for a batch of entry IDs, keyed by entry.
func (repository *PostgresRepository) tagsForEntries(context context.Context, entryIDs []string) (map[string][]*Tag, error) {
	const query = `
		SELECT jt.entry_id, t.id, t.user_id, t.name, t.created_at
		FROM journal_entry_tags jt
		JOIN tags t ON t.id = jt.tag_id
		WHERE jt.entry_id = ANY($1)
		ORDER BY LOWER(t.name) ASC`

	rows, err := repository.pool.Query(context, query, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("postgres_journal_repo_tags_failed: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]*Tag)
	for rows.Next() {
		var entryID string
		tag := &Tag{}
		if err := rows.Scan(&entryID, &tag.ID, &tag.UserID, &tag.Name, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres_journal_repo_tags_scan_failed: %w", err)
		}
		result[entryID] = append(result[entryID], tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_journal_repo_tags_rows_failed: %w", err)
	}

	return result, nil
}

// # Tags

/*
ListTags returns all of the user's tags ordered by name.
*/
func (repository *PostgresRepository) ListTags(context context.Context, userID string) ([]*Tag, error) {
	const query = `
		SELECT id, user_id, name, created_at
		FROM tags
		WHERE user_id = $1
		ORDER BY LOWER(name) ASC`

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_tag_repo_list_failed: %w", err)
	}
	defer rows.Close()

	tags := []*Tag{}
	for rows.Next() {
		tag := &Tag{}
		if err := rows.Scan(&tag.ID, &tag.UserID, &tag.Name, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres_tag_repo_scan_failed: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_tag_repo_rows_failed: %w", err)
	}

	return tags, nil
}

/*
FindTagByName returns the user's tag matching the name, case-insensitively.
*/
func (repository *PostgresRepository) FindTagByName(context context.Context, userID, name string) (*Tag, error) {
	const query = `
		SELECT id, user_id, name, created_at
		FROM tags
		WHERE user_id = $1 AND lower(name) = lower($2)`

	tag := &Tag{}
	err := repository.pool.QueryRow(context, query, userID, name).Scan(
		&tag.ID, &tag.UserID, &tag.Name, &tag.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Tag")
		}
		return nil, fmt.Errorf("postgres_tag_repo_find_failed: %w", err)
	}

	return tag, nil
}

/*
CreateTag persists a new tag record.
*/
func (repository *PostgresRepository) CreateTag(context context.Context, tag *Tag) error {
	const query = `
		INSERT INTO tags (id, user_id, name, created_at)
		VALUES ($1, $2, $3, $4)`

	if tag.CreatedAt.IsZero() {
		tag.CreatedAt = time.Now()
	}

	if _, err := repository.pool.Exec(context, query, tag.ID, tag.UserID, tag.Name, tag.CreatedAt); err != nil {
		return dberr.Wrap(err, "tag", "A tag with this name already exists")
	}

	return nil
}

/*
DeleteTag removes the user's tag. Entry links cascade at the schema level.
*/
func (repository *PostgresRepository) DeleteTag(context context.Context, userID, id string) error {
	const query = `DELETE FROM tags WHERE user_id = $1 AND id = $2`

	tag, err := repository.pool.Exec(context, query, userID, id)
	if err != nil {
		return fmt.Errorf("postgres_tag_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Tag")
	}

	return nil
}
