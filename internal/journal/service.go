// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

package journal

import (
	"context"
	"strings"
	"time"

	"github.com/abcscribe/abcscribe/internal/platform/apperr"
	"github.com/abcscribe/abcscribe/pkg/slice"
	"github.com/abcscribe/abcscribe/pkg/uuid"
)

// Service implements journal entry and tag use cases.
type Service struct {
	repo Repository
}

// NewService constructs a new [Service].
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// EntryInput holds the writable fields of a journal entry.
type EntryInput struct {
	OccurredAt  time.Time
	Antecedent  string
	Behavior    string
	Consequence string
	TagNames    []string
}

/*
CreateEntry persists a new entry and attaches its tags.

Description: Unknown tag names are created on the fly; duplicate names in the
input collapse to one tag.

Parameters:
  - context: context.Context
  - userID: string
  - input: EntryInput

Returns:
  - *JournalEntry: Created entity with tags loaded
  - error: Persistence failures
*/
func (service *Service) CreateEntry(context context.Context, userID string, input EntryInput) (*JournalEntry, error) {
	entry := &JournalEntry{
		ID:          uuid.New(),
		UserID:      userID,
		OccurredAt:  input.OccurredAt,
		Antecedent:  input.Antecedent,
		Behavior:    input.Behavior,
		Consequence: input.Consequence,
	}

	if err := service.repo.CreateEntry(context, entry); err != nil {
		return nil, err
	}

	tags, err := service.ensureTags(context, userID, input.TagNames)
	if err != nil {
		return nil, err
	}
	if err := service.linkTags(context, entry, tags); err != nil {
		return nil, err
	}

	return entry, nil
}

// GetEntry returns the user's entry with tags.
func (service *Service) GetEntry(context context.Context, userID, id string) (*JournalEntry, error) {
	return service.repo.FindEntryByID(context, userID, id)
}

// ListEntries returns a newest-first page of the user's entries.
func (service *Service) ListEntries(context context.Context, userID string, limit, offset int) ([]*JournalEntry, int, error) {
	return service.repo.ListEntries(context, userID, limit, offset)
}

// UpdateEntry overwrites the entry's narrative fields and its tag set.
func (service *Service) UpdateEntry(context context.Context, userID, id string, input EntryInput) (*JournalEntry, error) {
	entry, err := service.repo.FindEntryByID(context, userID, id)
	if err != nil {
		return nil, err
	}

	entry.OccurredAt = input.OccurredAt
	entry.Antecedent = input.Antecedent
	entry.Behavior = input.Behavior
	entry.Consequence = input.Consequence

	if err := service.repo.UpdateEntry(context, entry); err != nil {
		return nil, err
	}

	tags, err := service.ensureTags(context, userID, input.TagNames)
	if err != nil {
		return nil, err
	}
	if err := service.linkTags(context, entry, tags); err != nil {
		return nil, err
	}

	return entry, nil
}

// DeleteEntry removes the user's entry; tag links cascade.
func (service *Service) DeleteEntry(context context.Context, userID, id string) error {
	return service.repo.DeleteEntry(context, userID, id)
}

// # Tags

// ListTags returns all of the user's tags.
func (service *Service) ListTags(context context.Context, userID string) ([]*Tag, error) {
	return service.repo.ListTags(context, userID)
}

// CreateTag persists a standalone tag.
func (service *Service) CreateTag(context context.Context, userID, name string) (*Tag, error) {
	tag := &Tag{
		ID:     uuid.New(),
		UserID: userID,
		Name:   strings.TrimSpace(name),
	}
	if err := service.repo.CreateTag(context, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// DeleteTag removes the user's tag everywhere it is attached.
func (service *Service) DeleteTag(context context.Context, userID, id string) error {
	return service.repo.DeleteTag(context, userID, id)
}

// ensureTags resolves tag names to tags, creating unknown ones. Names are
// trimmed and de-duplicated case-insensitively before lookup.
func (service *Service) ensureTags(context context.Context, userID string, names []string) ([]*Tag, error) {
	seen := make(map[string]bool)
	tags := []*Tag{}

	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true

		tag, err := service.repo.FindTagByName(context, userID, name)
		if err == nil {
			tags = append(tags, tag)
			continue
		}
		if !apperr.IsAppError(err) {
			return nil, err
		}

		created, err := service.CreateTag(context, userID, name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, created)
	}

	return tags, nil
}

// linkTags rewrites the entry's tag links and mirrors them on the entity.
func (service *Service) linkTags(context context.Context, entry *JournalEntry, tags []*Tag) error {
	tagIDs := slice.Map(tags, func(tag *Tag) string { return tag.ID })

	if err := service.repo.ReplaceEntryTags(context, entry.ID, tagIDs); err != nil {
		return err
	}

	entry.Tags = tags
	return nil
}
