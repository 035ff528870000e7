// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

/*
Package journal implements the ABC journal domain.

A journal entry is a free-standing Antecedent/Behavior/Consequence reflection
(not tied to a subject) that can be labeled with the user's tags. Tags are
created on demand when entries reference unknown names.
*/
package journal

import "time"

// JournalEntry is one dated ABC reflection with its attached tags.
type JournalEntry struct {
	ID     string `json:"id"`
	UserID string `json:"-"`

	OccurredAt  time.Time `json:"occurred_at"`
	Antecedent  string    `json:"antecedent"`
	Behavior    string    `json:"behavior"`
	Consequence string    `json:"consequence"`

	Tags []*Tag `json:"tags"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tag is a user-scoped label. Names are unique per user, at most 50 characters.
type Tag struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// # Validation Bounds

const (
	// NarrativeMinLen and NarrativeMaxLen bound each A/B/C narrative field.
	NarrativeMinLen = 10
	NarrativeMaxLen = 1000

	// TagNameMaxLen bounds tag names.
	TagNameMaxLen = 50
)

// # Field Identifiers

const (
	FieldOccurredAt  = "occurred_at"
	FieldAntecedent  = "antecedent"
	FieldBehavior    = "behavior"
	FieldConsequence = "consequence"
	FieldTags        = "tags"
	FieldTagName     = "name"
)
