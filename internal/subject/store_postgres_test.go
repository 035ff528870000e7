// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

package subject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
TestEscapeLike verifies wildcard neutralization, backslash first.
*/
func TestEscapeLike(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "Jamie", "Jamie"},
		{"percent escaped", "100%", `100\%`},
		{"underscore escaped", "a_b", `a\_b`},
		{"backslash escaped", `a\b`, `a\\b`},
		{"backslash before wildcards", `\%_`, `\\\%\_`},
		{"empty", "", ""},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, escapeLike(testCase.input))
		})
	}
}

/*
TestOrderClause verifies the sort whitelist and its fallbacks.
*/
func TestOrderClause(t *testing.T) {
	cases := []struct {
		name      string
		sortBy    string
		direction string
		want      string
	}{
		{"name ascending", SortByName, SortAsc, "LOWER(s.name) ASC"},
		{"name descending", SortByName, SortDesc, "LOWER(s.name) DESC"},
		{"dob nulls last ascending", SortByDateOfBirth, SortAsc, "COALESCE(s.date_of_birth, '9999-12-31'::date) ASC"},
		{"observation count", SortByObservationsCount, SortDesc, "COUNT(o.id) DESC"},
		{"unknown key falls back to newest-first", "password_hash", SortAsc, "s.created_at DESC"},
		{"unknown direction falls back to ascending", SortByName, "sideways", "LOWER(s.name) ASC"},
		{"direction is case-insensitive", SortByName, "DESC", "LOWER(s.name) DESC"},
		{"empty everything", "", "", "s.created_at DESC"},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, orderClause(testCase.sortBy, testCase.direction))
		})
	}
}
