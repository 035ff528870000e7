// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

package subject

import "context"

// Repository defines the data access contract for subjects.
//
// Every method is tenant-scoped: a userID that does not own the row behaves
// exactly like a missing row.
type Repository interface {

	/*
		Create persists a new subject.

		Parameters:
		  - context: context.Context
		  - subject: *Subject

		Returns:
		  - error: apperr.Conflict on duplicate name, or persistence failures
	*/
	Create(context context.Context, subject *Subject) error

	/*
		FindByID returns the user's subject with the given ID.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - id: string

		Returns:
		  - *Subject: Hydrated entity
		  - error: apperr.NotFound or database errors
	*/
	FindByID(context context.Context, userID, id string) (*Subject, error)

	/*
		Update persists changes to a subject's mutable fields.

		Parameters:
		  - context: context.Context
		  - subject: *Subject

		Returns:
		  - error: apperr.NotFound, apperr.Conflict, or persistence failures
	*/
	Update(context context.Context, subject *Subject) error

	/*
		Delete removes the user's subject and cascades to its observations.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - id: string

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	Delete(context context.Context, userID, id string) error

	/*
		Search returns the user's subjects matching the filter, each carrying
		its observation count.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - filter: Filter

		Returns:
		  - []*Subject: Matching subjects in sort order
		  - error: Database retrieval failures
	*/
	Search(context context.Context, userID string, filter Filter) ([]*Subject, error)

	/*
		CountAll returns the user's total number of subjects, ignoring filters.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - int: Total count
		  - error: Database retrieval failures
	*/
	CountAll(context context.Context, userID string) (int, error)

	/*
		CountFiltered returns how many of the user's subjects match the filter.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - filter: Filter

		Returns:
		  - int: Filtered count
		  - error: Database retrieval failures
	*/
	CountFiltered(context context.Context, userID string, filter Filter) (int, error)
}
