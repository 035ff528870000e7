// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

package observation

import "context"

// Repository defines tenant-scoped data access for observations.
type Repository interface {

	/*
		Create persists a new observation.

		Parameters:
		  - context: context.Context
		  - observation: *Observation

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, observation *Observation) error

	/*
		FindByID returns the user's observation with the given ID.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - id: string

		Returns:
		  - *Observation: Hydrated entity
		  - error: apperr.NotFound or database errors
	*/
	FindByID(context context.Context, userID, id string) (*Observation, error)

	/*
		ListBySubject returns a newest-first page of a subject's observations
		together with the subject's total.

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
	ListBySubject(context context.Context, userID, subjectID string, limit, offset int) ([]*Observation, int, error)

	/*
		Update persists changes to an observation's mutable fields.

		Parameters:
		  - context: context.Context
		  - observation: *Observation

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	Update(context context.Context, observation *Observation) error

	/*
		Delete removes the user's observation.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - id: string

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	Delete(context context.Context, userID, id string) error
}
