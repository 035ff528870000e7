// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

package observation_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abcscribe/abcscribe/internal/observation"
	"github.com/abcscribe/abcscribe/internal/platform/apperr"
	"github.com/abcscribe/abcscribe/internal/subject"
)

// fakeRepo is an in-memory observation.Repository.
type fakeRepo struct {
	mu           sync.Mutex
	observations map[string]*observation.Observation
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{observations: make(map[string]*observation.Observation)}
}

func (r *fakeRepo) Create(_ context.Context, o *observation.Observation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *o
	r.observations[o.ID] = &clone
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, userID, id string) (*observation.Observation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.observations[id]; ok && o.UserID == userID {
		clone := *o
		return &clone, nil
	}
	return nil, apperr.NotFound("Observation")
}

func (r *fakeRepo) ListBySubject(_ context.Context, userID, subjectID string, limit, offset int) ([]*observation.Observation, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := []*observation.Observation{}
	for _, o := range r.observations {
		if o.UserID == userID && o.SubjectID == subjectID {
			clone := *o
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ObservedAt.After(matched[j].ObservedAt) })
	total := len(matched)
	if offset >= total {
		return []*observation.Observation{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (r *fakeRepo) Update(_ context.Context, o *observation.Observation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.observations[o.ID]
	if !ok || existing.UserID != o.UserID {
		return apperr.NotFound("Observation")
	}
	clone := *o
	r.observations[o.ID] = &clone
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.observations[id]; ok && o.UserID == userID {
		delete(r.observations, id)
		return nil
	}
	return apperr.NotFound("Observation")
}

// fakeSubjects serves a fixed set of owned subjects.
type fakeSubjects struct {
	owned map[string]string // subject ID -> owning user ID
}

func (s *fakeSubjects) Get(_ context.Context, userID, id string) (*subject.Subject, error) {
	if owner, ok := s.owned[id]; ok && owner == userID {
		return &subject.Subject{ID: id, UserID: userID}, nil
	}
	return nil, apperr.NotFound("Subject")
}

func newObservationFixture(t *testing.T, ownedSettings map[string]string) (*observation.Service, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	subjects := &fakeSubjects{owned: map[string]string{
		"subj-a": "user-a",
		"subj-b": "user-b",
	}}
	verifier := observation.SettingVerifierFunc(func(_ context.Context, userID, settingID string) error {
		if owner, ok := ownedSettings[settingID]; ok && owner == userID {
			return nil
		}
		return apperr.NotFound("Setting")
	})
	return observation.NewService(repo, subjects, verifier), repo
}

func sampleInput(observedAt time.Time) observation.Input {
	return observation.Input{
		ObservedAt:  observedAt,
		Antecedent:  "Asked to transition activities",
		Behavior:    "Left the seat and paced",
		Consequence: "Given a two-minute warning",
	}
}

/*
TestService_Create verifies the two ownership edges.
*/
func TestService_Create(t *testing.T) {
	settings := map[string]string{"set-a": "user-a"}
	service, _ := newObservationFixture(t, settings)

	// 1. Owned subject, no setting
	created, err := service.Create(context.Background(), "user-a", "subj-a", sampleInput(time.Now().Add(-time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, "subj-a", created.SubjectID)

	// 2. Someone else's subject reads as not found
	_, err = service.Create(context.Background(), "user-a", "subj-b", sampleInput(time.Now()))
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	// 3. A setting owned by another user is rejected the same way
	foreign := "set-z"
	input := sampleInput(time.Now())
	input.SettingID = &foreign
	_, err = service.Create(context.Background(), "user-a", "subj-a", input)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	// 4. An owned setting is accepted
	owned := "set-a"
	input.SettingID = &owned
	_, err = service.Create(context.Background(), "user-a", "subj-a", input)
	assert.NoError(t, err)
}

/*
TestService_List verifies newest-first ordering and paging.
*/
func TestService_List(t *testing.T) {
	service, _ := newObservationFixture(t, nil)

	base := time.Now().Add(-24 * time.Hour)
	for i := 0; i < 3; i++ {
		_, err := service.Create(context.Background(), "user-a", "subj-a", sampleInput(base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}

	// 1. Newest first, total independent of page size
	page, total, err := service.List(context.Background(), "user-a", "subj-a", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 2)
	assert.True(t, page[0].ObservedAt.After(page[1].ObservedAt))

	// 2. Second page holds the remainder
	page, total, err = service.List(context.Background(), "user-a", "subj-a", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, page, 1)

	// 3. Listing under a foreign subject is a not-found, not an empty page
	_, _, err = service.List(context.Background(), "user-a", "subj-b", 10, 0)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestService_GetScopedToSubject verifies the nested-route ownership check.
*/
func TestService_GetScopedToSubject(t *testing.T) {
	service, _ := newObservationFixture(t, nil)

	created, err := service.Create(context.Background(), "user-a", "subj-a", sampleInput(time.Now().Add(-time.Hour)))
	require.NoError(t, err)

	// Fetching through the wrong subject path reads as not found
	_, err = service.Get(context.Background(), "user-a", "subj-b", created.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	found, err := service.Get(context.Background(), "user-a", "subj-a", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}
