package database

import (
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
)

func TestGenerateMetadataID(t *testing.T) {
	// Ensure ids derive from the month, week and symbol.
	date := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, generateMetadataID(date, "AAPL"), "March-Week-2-AAPL")

	// Ensure signals in the same week share an id.
	next := date.AddDate(0, 0, 1)
	assert.Equal(t, generateMetadataID(next, "AAPL"), generateMetadataID(date, "AAPL"))
}

func TestNullableFloat(t *testing.T) {
	// Ensure a missing value maps to a sql null.
	assert.Equal(t, nullableFloat(nil), nil)

	v := 42.5
	assert.Equal(t, nullableFloat(&v), any(42.5))
}
