// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

package journal

import "context"

// Repository defines tenant-scoped data access for journal entries and tags.
type Repository interface {

	// # Entries

	// CreateEntry persists a new entry. Tag links are written separately via
	// ReplaceEntryTags.
	CreateEntry(context context.Context, entry *JournalEntry) error

	// FindEntryByID returns the user's entry with its tags loaded.
	FindEntryByID(context context.Context, userID, id string) (*JournalEntry, error)

	// ListEntries returns a newest-first page of the user's entries, tags
	// included, along with the user's total.
	ListEntries(context context.Context, userID string, limit, offset int) ([]*JournalEntry, int, error)

	// UpdateEntry persists changes to an entry's narrative fields.
	UpdateEntry(context context.Context, entry *JournalEntry) error

	// DeleteEntry removes the user's entry; tag links cascade.
	DeleteEntry(context context.Context, userID, id string) error

	// ReplaceEntryTags atomically rewrites the entry's tag set. Duplicate
	// tag IDs collapse to one link.
	ReplaceEntryTags(context context.Context, entryID string, tagIDs []string) error

	// # Tags

	// ListTags returns all of the user's tags ordered by name.
	ListTags(context context.Context, userID string) ([]*Tag, error)

	// FindTagByName returns the user's tag matching the name, case-insensitively.
	FindTagByName(context context.Context, userID, name string) (*Tag, error)

	// CreateTag persists a new tag.
	CreateTag(context context.Context, tag *Tag) error

	// DeleteTag removes the user's tag and its entry links.
	DeleteTag(context context.Context, userID, id string) error
}
