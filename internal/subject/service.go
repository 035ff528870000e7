// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

package subject

import (
	"context"
	"strings"
	"time"

	"github.com/abcscribe/abcscribe/pkg/uuid"
)

// Service implements subject use cases on top of the repository.
//
// All operations take the acting user's ID explicitly; nothing here reads
// ambient state.
type Service struct {
	repo Repository
}

// NewService constructs a new [Service].
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Input holds the writable fields of a subject.
type Input struct {
	Name        string
	DateOfBirth *time.Time
	Notes       string
}

// Create persists a new subject for the user.
func (service *Service) Create(context context.Context, userID string, input Input) (*Subject, error) {
	subject := &Subject{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        strings.TrimSpace(input.Name),
		DateOfBirth: input.DateOfBirth,
		Notes:       input.Notes,
	}

	if err := service.repo.Create(context, subject); err != nil {
		return nil, err
	}

	return subject, nil
}

// Get returns the user's subject or apperr.NotFound.
func (service *Service) Get(context context.Context, userID, id string) (*Subject, error) {
	return service.repo.FindByID(context, userID, id)
}

// Update overwrites the subject's writable fields.
func (service *Service) Update(context context.Context, userID, id string, input Input) (*Subject, error) {
	subject, err := service.repo.FindByID(context, userID, id)
	if err != nil {
		return nil, err
	}

	subject.Name = strings.TrimSpace(input.Name)
	subject.DateOfBirth = input.DateOfBirth
	subject.Notes = input.Notes

	if err := service.repo.Update(context, subject); err != nil {
		return nil, err
	}

	return subject, nil
}

// Delete removes the user's subject and, by schema cascade, its observations.
func (service *Service) Delete(context context.Context, userID, id string) error {
	return service.repo.Delete(context, userID, id)
}

/*
Search runs the subject query engine.

Description: Executes the filtered search plus the two independent counters.
The result's TotalCount ignores every filter; FilteredCount agrees with the
returned rows.

Parameters:
  - context: context.Context
  - userID: string
  - filter: Filter

Returns:
  - *SearchResult: Subjects plus counters
  - error: Database retrieval failures
*/
func (service *Service) Search(context context.Context, userID string, filter Filter) (*SearchResult, error) {
	subjects, err := service.repo.Search(context, userID, filter)
	if err != nil {
		return nil, err
	}

	total, err := service.repo.CountAll(context, userID)
	if err != nil {
		return nil, err
	}

	filtered, err := service.repo.CountFiltered(context, userID, filter)
	if err != nil {
		return nil, err
	}

	return &SearchResult{
		Subjects:      subjects,
		TotalCount:    total,
		FilteredCount: filtered,
	}, nil
}
