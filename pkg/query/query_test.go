package query_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abcscribe/abcscribe/pkg/query"
)

func TestOptionalInt(t *testing.T) {
	assert.Nil(t, query.OptionalInt(""))
	assert.Nil(t, query.OptionalInt("three"))

	n := query.OptionalInt("3")
	require.NotNil(t, n)
	assert.Equal(t, 3, *n)
}

func TestOptionalDate(t *testing.T) {
	assert.Nil(t, query.OptionalDate(""))
	assert.Nil(t, query.OptionalDate("2024-13-40"))

	d := query.OptionalDate("2024-06-01")
	require.NotNil(t, d)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), *d)
}

func TestStringSlice(t *testing.T) {
	assert.Nil(t, query.StringSlice(""))
	assert.Equal(t, []string{"school", "home"}, query.StringSlice(" school ,, home "))
}
