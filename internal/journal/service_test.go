// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

package journal_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abcscribe/abcscribe/internal/journal"
	"github.com/abcscribe/abcscribe/internal/platform/apperr"
)

// fakeRepo is an in-memory journal.Repository.
type fakeRepo struct {
	mu      sync.Mutex
	entries map[string]*journal.JournalEntry
	tags    map[string]*journal.Tag
	links   map[string]map[string]bool // entry ID -> set of tag IDs
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		entries: make(map[string]*journal.JournalEntry),
		tags:    make(map[string]*journal.Tag),
		links:   make(map[string]map[string]bool),
	}
}

func (r *fakeRepo) CreateEntry(_ context.Context, entry *journal.JournalEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *entry
	r.entries[entry.ID] = &clone
	return nil
}

func (r *fakeRepo) hydrate(entry *journal.JournalEntry) *journal.JournalEntry {
	clone := *entry
	clone.Tags = []*journal.Tag{}
	for tagID := range r.links[entry.ID] {
		if tag, ok := r.tags[tagID]; ok {
			tagClone := *tag
			clone.Tags = append(clone.Tags, &tagClone)
		}
	}
	return &clone
}

func (r *fakeRepo) FindEntryByID(_ context.Context, userID, id string) (*journal.JournalEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.entries[id]; ok && entry.UserID == userID {
		return r.hydrate(entry), nil
	}
	return nil, apperr.NotFound("Journal entry")
}

func (r *fakeRepo) ListEntries(_ context.Context, userID string, limit, offset int) ([]*journal.JournalEntry, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := []*journal.JournalEntry{}
	for _, entry := range r.entries {
		if entry.UserID == userID {
			matched = append(matched, r.hydrate(entry))
		}
	}
	total := len(matched)
	if offset >= total {
		return []*journal.JournalEntry{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (r *fakeRepo) UpdateEntry(_ context.Context, entry *journal.JournalEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.entries[entry.ID]
	if !ok || existing.UserID != entry.UserID {
		return apperr.NotFound("Journal entry")
	}
	clone := *entry
	r.entries[entry.ID] = &clone
	return nil
}

func (r *fakeRepo) DeleteEntry(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.entries[id]; ok && entry.UserID == userID {
		delete(r.entries, id)
		delete(r.links, id)
		return nil
	}
	return apperr.NotFound("Journal entry")
}

func (r *fakeRepo) ReplaceEntryTags(_ context.Context, entryID string, tagIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := make(map[string]bool)
	for _, id := range tagIDs {
		set[id] = true
	}
	r.links[entryID] = set
	return nil
}

func (r *fakeRepo) ListTags(_ context.Context, userID string) ([]*journal.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tags := []*journal.Tag{}
	for _, tag := range r.tags {
		if tag.UserID == userID {
			clone := *tag
			tags = append(tags, &clone)
		}
	}
	return tags, nil
}

func (r *fakeRepo) FindTagByName(_ context.Context, userID, name string) (*journal.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tag := range r.tags {
		if tag.UserID == userID && strings.EqualFold(tag.Name, name) {
			clone := *tag
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Tag")
}

func (r *fakeRepo) CreateTag(_ context.Context, tag *journal.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.tags {
		if existing.UserID == tag.UserID && strings.EqualFold(existing.Name, tag.Name) {
			return apperr.Conflict("A tag with this name already exists")
		}
	}
	clone := *tag
	r.tags[tag.ID] = &clone
	return nil
}

func (r *fakeRepo) DeleteTag(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tag, ok := r.tags[id]; ok && tag.UserID == userID {
		delete(r.tags, id)
		for _, set := range r.links {
			delete(set, id)
		}
		return nil
	}
	return apperr.NotFound("Tag")
}

func sampleEntry(tagNames ...string) journal.EntryInput {
	return journal.EntryInput{
		OccurredAt:  time.Now().Add(-time.Hour),
		Antecedent:  "Loud assembly announcement over the speakers",
		Behavior:    "Covered ears and rocked in place",
		Consequence: "Moved to the quiet corner with headphones",
		TagNames:    tagNames,
	}
}

/*
TestService_CreateEntry_TagsOnDemand verifies tag creation and de-duplication.
*/
func TestService_CreateEntry_TagsOnDemand(t *testing.T) {
	repo := newFakeRepo()
	service := journal.NewService(repo)

	// 1. Unknown names become tags; duplicates collapse case-insensitively
	entry, err := service.CreateEntry(context.Background(), "user-a", sampleEntry("sensory", "School", "SENSORY"))
	require.NoError(t, err)
	assert.Len(t, entry.Tags, 2)

	tags, err := service.ListTags(context.Background(), "user-a")
	require.NoError(t, err)
	assert.Len(t, tags, 2)

	// 2. A second entry reuses the existing tags instead of minting new ones
	_, err = service.CreateEntry(context.Background(), "user-a", sampleEntry("sensory"))
	require.NoError(t, err)

	tags, err = service.ListTags(context.Background(), "user-a")
	require.NoError(t, err)
	assert.Len(t, tags, 2)
}

/*
TestService_UpdateEntry_RewritesTags verifies the tag set is replaced, not merged.
*/
func TestService_UpdateEntry_RewritesTags(t *testing.T) {
	repo := newFakeRepo()
	service := journal.NewService(repo)

	entry, err := service.CreateEntry(context.Background(), "user-a", sampleEntry("home", "evening"))
	require.NoError(t, err)

	input := sampleEntry("school")
	updated, err := service.UpdateEntry(context.Background(), "user-a", entry.ID, input)
	require.NoError(t, err)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "school", updated.Tags[0].Name)

	// The detached tags still exist for the user, just not on this entry
	tags, err := service.ListTags(context.Background(), "user-a")
	require.NoError(t, err)
	assert.Len(t, tags, 3)
}

/*
TestService_Entry_Ownership verifies tenant scoping on reads and writes.
*/
func TestService_Entry_Ownership(t *testing.T) {
	repo := newFakeRepo()
	service := journal.NewService(repo)

	entry, err := service.CreateEntry(context.Background(), "user-a", sampleEntry())
	require.NoError(t, err)

	_, err = service.GetEntry(context.Background(), "user-b", entry.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	err = service.DeleteEntry(context.Background(), "user-b", entry.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	require.NoError(t, service.DeleteEntry(context.Background(), "user-a", entry.ID))
}

/*
TestService_DeleteTag verifies detach-everywhere semantics.
*/
func TestService_DeleteTag(t *testing.T) {
	repo := newFakeRepo()
	service := journal.NewService(repo)

	entry, err := service.CreateEntry(context.Background(), "user-a", sampleEntry("transient"))
	require.NoError(t, err)
	require.Len(t, entry.Tags, 1)

	require.NoError(t, service.DeleteTag(context.Background(), "user-a", entry.Tags[0].ID))

	reloaded, err := service.GetEntry(context.Background(), "user-a", entry.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Tags)
}
