// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

package subject_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abcscribe/abcscribe/internal/platform/apperr"
	"github.com/abcscribe/abcscribe/internal/subject"
)

// fakeRepo is an in-memory Repository that mimics the tenant-scoped and
// filtering behavior of the real store closely enough for service tests.
type fakeRepo struct {
	mu       sync.Mutex
	subjects map[string]*subject.Subject
	counts   map[string]int // observation count per subject ID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		subjects: make(map[string]*subject.Subject),
		counts:   make(map[string]int),
	}
}

func (r *fakeRepo) Create(_ context.Context, s *subject.Subject) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.subjects {
		if existing.UserID == s.UserID && strings.EqualFold(existing.Name, s.Name) {
			return apperr.Conflict("A subject with this name already exists")
		}
	}
	clone := *s
	r.subjects[s.ID] = &clone
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, userID, id string) (*subject.Subject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.subjects[id]; ok && s.UserID == userID {
		clone := *s
		return &clone, nil
	}
	return nil, apperr.NotFound("Subject")
}

func (r *fakeRepo) Update(_ context.Context, s *subject.Subject) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.subjects[s.ID]
	if !ok || existing.UserID != s.UserID {
		return apperr.NotFound("Subject")
	}
	clone := *s
	r.subjects[s.ID] = &clone
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.subjects[id]; ok && s.UserID == userID {
		delete(r.subjects, id)
		return nil
	}
	return apperr.NotFound("Subject")
}

func (r *fakeRepo) matches(s *subject.Subject, filter subject.Filter) bool {
	if filter.Query != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(filter.Query)) {
		return false
	}
	if filter.StartDate != nil && filter.EndDate != nil {
		if s.DateOfBirth == nil || s.DateOfBirth.Before(*filter.StartDate) || s.DateOfBirth.After(*filter.EndDate) {
			return false
		}
	}
	if filter.MinObservations != nil && r.counts[s.ID] < *filter.MinObservations {
		return false
	}
	return true
}

func (r *fakeRepo) Search(_ context.Context, userID string, filter subject.Filter) ([]*subject.Subject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []*subject.Subject{}
	for _, s := range r.subjects {
		if s.UserID == userID && r.matches(s, filter) {
			clone := *s
			clone.ObservationsCount = r.counts[s.ID]
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (r *fakeRepo) CountAll(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, s := range r.subjects {
		if s.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeRepo) CountFiltered(_ context.Context, userID string, filter subject.Filter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, s := range r.subjects {
		if s.UserID == userID && r.matches(s, filter) {
			count++
		}
	}
	return count, nil
}

func newServiceFixture(t *testing.T) (*subject.Service, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	return subject.NewService(repo), repo
}

func date(value string) *time.Time {
	parsed, _ := time.Parse("2006-01-02", value)
	return &parsed
}

/*
TestService_CRUD verifies create, ownership scoping, update, and delete.
*/
func TestService_CRUD(t *testing.T) {
	service, _ := newServiceFixture(t)

	created, err := service.Create(context.Background(), "user-a", subject.Input{
		Name:        "  Jamie  ",
		DateOfBirth: date("2015-04-02"),
		Notes:       "morning sessions",
	})
	require.NoError(t, err)

	// 1. Name is trimmed on the way in
	assert.Equal(t, "Jamie", created.Name)

	// 2. Another user's lookups behave like the record does not exist
	_, err = service.Get(context.Background(), "user-b", created.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	// 3. Duplicate names within the owner are rejected
	_, err = service.Create(context.Background(), "user-a", subject.Input{Name: "jamie"})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	// 4. Update and delete round-trip for the owner
	updated, err := service.Update(context.Background(), "user-a", created.ID, subject.Input{Name: "Jamie R"})
	require.NoError(t, err)
	assert.Equal(t, "Jamie R", updated.Name)

	require.NoError(t, service.Delete(context.Background(), "user-a", created.ID))
	_, err = service.Get(context.Background(), "user-a", created.ID)
	assert.Error(t, err)
}

/*
TestService_Search verifies the counters and filter plumbing.
*/
func TestService_Search(t *testing.T) {
	service, repo := newServiceFixture(t)

	jamie, err := service.Create(context.Background(), "user-a", subject.Input{Name: "Jamie", DateOfBirth: date("2015-04-02")})
	require.NoError(t, err)
	_, err = service.Create(context.Background(), "user-a", subject.Input{Name: "Morgan", DateOfBirth: date("2018-09-20")})
	require.NoError(t, err)
	_, err = service.Create(context.Background(), "user-b", subject.Input{Name: "Jamie"})
	require.NoError(t, err)

	repo.counts[jamie.ID] = 3

	// 1. No filters: everything owned by the user, counters agree
	result, err := service.Search(context.Background(), "user-a", subject.Filter{})
	require.NoError(t, err)
	assert.Len(t, result.Subjects, 2)
	assert.Equal(t, 2, result.TotalCount)
	assert.Equal(t, 2, result.FilteredCount)

	// 2. Name filter narrows FilteredCount but never TotalCount
	result, err = service.Search(context.Background(), "user-a", subject.Filter{Query: "jam"})
	require.NoError(t, err)
	require.Len(t, result.Subjects, 1)
	assert.Equal(t, "Jamie", result.Subjects[0].Name)
	assert.Equal(t, 3, result.Subjects[0].ObservationsCount)
	assert.Equal(t, 2, result.TotalCount)
	assert.Equal(t, 1, result.FilteredCount)

	// 3. Minimum-observations filter
	min := 2
	result, err = service.Search(context.Background(), "user-a", subject.Filter{MinObservations: &min})
	require.NoError(t, err)
	require.Len(t, result.Subjects, 1)
	assert.Equal(t, jamie.ID, result.Subjects[0].ID)

	// 4. DOB range is inclusive on both ends
	result, err = service.Search(context.Background(), "user-a", subject.Filter{
		StartDate: date("2015-04-02"),
		EndDate:   date("2015-04-02"),
	})
	require.NoError(t, err)
	require.Len(t, result.Subjects, 1)
	assert.Equal(t, jamie.ID, result.Subjects[0].ID)
}
