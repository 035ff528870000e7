// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

/*
Package observation implements the ABC observation domain.

An observation records one Antecedent/Behavior/Consequence incident about a
subject, optionally anchored to a setting. Observations are owned by a user,
always reached through the owning subject, and listed newest-first.
*/
package observation

import "time"

// Observation is a single recorded ABC incident.
type Observation struct {
	ID        string  `json:"id"`
	UserID    string  `json:"-"`
	SubjectID string  `json:"subject_id"`
	SettingID *string `json:"setting_id,omitempty"`

	ObservedAt  time.Time `json:"observed_at"`
	Antecedent  string    `json:"antecedent"`
	Behavior    string    `json:"behavior"`
	Consequence string    `json:"consequence"`
	Notes       string    `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Field Identifiers

const (
	FieldObservedAt  = "observed_at"
	FieldAntecedent  = "antecedent"
	FieldBehavior    = "behavior"
	FieldConsequence = "consequence"
	FieldNotes       = "notes"
	FieldSettingID   = "setting_id"
)
