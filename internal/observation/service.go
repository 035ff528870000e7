// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

package observation

import (
	"context"
	"time"

	"github.com/abcscribe/abcscribe/internal/platform/apperr"
	"github.com/abcscribe/abcscribe/internal/subject"
	"github.com/abcscribe/abcscribe/pkg/uuid"
)

// SubjectDirectory resolves a user's subject. Satisfied by the subject service.
type SubjectDirectory interface {
	Get(context context.Context, userID, id string) (*subject.Subject, error)
}

// SettingVerifier confirms a setting exists and belongs to the user.
// Satisfied by the setting service's Get method via [SettingVerifierFunc].
type SettingVerifier interface {
	Verify(context context.Context, userID, settingID string) error
}

// SettingVerifierFunc adapts a function to the [SettingVerifier] interface.
type SettingVerifierFunc func(context context.Context, userID, settingID string) error

// Verify calls the wrapped function.
func (fn SettingVerifierFunc) Verify(context context.Context, userID, settingID string) error {
	return fn(context, userID, settingID)
}

// Service implements observation use cases.
//
// Every write re-checks the two ownership edges: the subject must belong to
// the acting user, and a referenced setting must too. A failed check reads as
// not-found, never forbidden.
type Service struct {
	repo     Repository
	subjects SubjectDirectory
	settings SettingVerifier
}

// NewService constructs a new [Service].
func NewService(repo Repository, subjects SubjectDirectory, settings SettingVerifier) *Service {
	return &Service{
		repo:     repo,
		subjects: subjects,
		settings: settings,
	}
}

// Input holds the writable fields of an observation.
type Input struct {
	SettingID   *string
	ObservedAt  time.Time
	Antecedent  string
	Behavior    string
	Consequence string
	Notes       string
}

/*
Create records a new observation under the user's subject.

Parameters:
  - context: context.Context
  - userID: string
  - subjectID: string
  - input: Input

Returns:
  - *Observation: Created entity
  - error: apperr.NotFound (subject or setting not owned) or persistence failures
*/
func (service *Service) Create(context context.Context, userID, subjectID string, input Input) (*Observation, error) {

	// The owning subject must exist for this user.
	if _, err := service.subjects.Get(context, userID, subjectID); err != nil {
		return nil, err
	}

	// A referenced setting must belong to the same user.
	if err := service.verifySetting(context, userID, input.SettingID); err != nil {
		return nil, err
	}

	observation := &Observation{
		ID:          uuid.New(),
		UserID:      userID,
		SubjectID:   subjectID,
		SettingID:   input.SettingID,
		ObservedAt:  input.ObservedAt,
		Antecedent:  input.Antecedent,
		Behavior:    input.Behavior,
		Consequence: input.Consequence,
		Notes:       input.Notes,
	}

	if err := service.repo.Create(context, observation); err != nil {
		return nil, err
	}

	return observation, nil
}

// Get returns the user's observation, confirming it hangs off the given subject.
func (service *Service) Get(context context.Context, userID, subjectID, id string) (*Observation, error) {
	observation, err := service.repo.FindByID(context, userID, id)
	if err != nil {
		return nil, err
	}
	if observation.SubjectID != subjectID {
		return nil, apperr.NotFound("Observation")
	}
	return observation, nil
}

/*
List returns a newest-first page of the subject's observations.

Parameters:
  - context: context.Context
  - userID: string
  - subjectID: string
  - limit: int
  - offset: int

Returns:
  - []*Observation: Page of observations
  - int: Total observations for the subject
  - error: apperr.NotFound (subject not owned) or retrieval failures
*/
func (service *Service) List(context context.Context, userID, subjectID string, limit, offset int) ([]*Observation, int, error) {
	if _, err := service.subjects.Get(context, userID, subjectID); err != nil {
		return nil, 0, err
	}
	return service.repo.ListBySubject(context, userID, subjectID, limit, offset)
}

// Update overwrites the observation's writable fields.
func (service *Service) Update(context context.Context, userID, subjectID, id string, input Input) (*Observation, error) {
	observation, err := service.Get(context, userID, subjectID, id)
	if err != nil {
		return nil, err
	}

	if err := service.verifySetting(context, userID, input.SettingID); err != nil {
		return nil, err
	}

	observation.SettingID = input.SettingID
	observation.ObservedAt = input.ObservedAt
	observation.Antecedent = input.Antecedent
	observation.Behavior = input.Behavior
	observation.Consequence = input.Consequence
	observation.Notes = input.Notes

	if err := service.repo.Update(context, observation); err != nil {
		return nil, err
	}

	return observation, nil
}

// Delete removes the user's observation.
func (service *Service) Delete(context context.Context, userID, subjectID, id string) error {
	if _, err := service.Get(context, userID, subjectID, id); err != nil {
		return err
	}
	return service.repo.Delete(context, userID, id)
}

// verifySetting checks the optional setting reference.
func (service *Service) verifySetting(context context.Context, userID string, settingID *string) error {
	if settingID == nil || *settingID == "" {
		return nil
	}
	return service.settings.Verify(context, userID, *settingID)
}
