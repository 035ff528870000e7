// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

/*
Package subject implements the tracked-subject domain of ABCScribe.

A subject is a person (or animal) a user observes. Every subject belongs to
exactly one user; all reads and writes are tenant-scoped, and the package's
search engine supports filtering by name, date-of-birth range, and minimum
observation count.
*/
package subject

import "time"

// # Domain Entities

// Subject represents a person being tracked by a user.
type Subject struct {
	ID          string     `json:"id"`
	UserID      string     `json:"-"` // Tenant key. Never serialized.
	Name        string     `json:"name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Notes       string     `json:"notes,omitempty"`

	// ObservationsCount is populated by search queries only.
	ObservationsCount int `json:"observations_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Sorting Vocabulary

// Recognized sort keys. Anything else falls back to newest-first.
const (
	SortByName              = "name"
	SortByDateOfBirth       = "date_of_birth"
	SortByObservationsCount = "observations_count"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// Filter captures the optional search predicates for a subject query.
//
// Nil or zero fields mean "not filtered". StartDate and EndDate only apply
// when BOTH are present; the range is inclusive.
type Filter struct {
	Query           string
	StartDate       *time.Time
	EndDate         *time.Time
	MinObservations *int
	SortBy          string
	SortDirection   string
}

// SearchResult bundles a page of subjects with the two counters the API
// exposes: the user's total subjects and how many survived the filters.
type SearchResult struct {
	Subjects      []*Subject
	TotalCount    int
	FilteredCount int
}

// # Field Identifiers

const (
	FieldName        = "name"
	FieldDateOfBirth = "date_of_birth"
	FieldNotes       = "notes"
)
