package mileage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odolog/odolog/internal/models"
)

func d(t *testing.T, s string) models.Date {
	t.Helper()
	date, err := models.ParseDate(s)
	require.NoError(t, err)
	return date
}

func reading(id, vehicleID int64, date string, odometer int64) models.Reading {
	parsed, _ := models.ParseDate(date)
	return models.Reading{ID: id, VehicleID: vehicleID, Date: parsed, Odometer: odometer}
}

func TestValidateEmptyHistory(t *testing.T) {
	// First reading for a vehicle is always accepted
	result := Validate(nil, 1, d(t, "2026-03-15"), 12345, 0)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Error)
	assert.Nil(t, result.MinValue)
	assert.Nil(t, result.MaxValue)
}

func TestValidateIgnoresOtherVehicles(t *testing.T) {
	history := []models.Reading{
		reading(1, 2, "2026-01-31", 99999),
	}

	result := Validate(history, 1, d(t, "2026-02-28"), 100, 0)
	assert.True(t, result.Valid)
}

func TestValidateBackfillBetweenReadings(t *testing.T) {
	// A historical reading between two existing ones must be compared
	// against its chronological neighbors, not the latest reading
	history := []models.Reading{
		reading(1, 1, "2025-01-31", 10000),
		reading(2, 1, "2026-01-31", 78000),
	}

	result := Validate(history, 1, d(t, "2025-06-30"), 40000, 0)
	assert.True(t, result.Valid)
	require.NotNil(t, result.MinValue)
	require.NotNil(t, result.MaxValue)
	assert.Equal(t, int64(10000), *result.MinValue)
	assert.Equal(t, int64(78000), *result.MaxValue)

	result = Validate(history, 1, d(t, "2025-06-30"), 9000, 0)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Error, "10000")
	assert.Contains(t, result.Error, "2025-01-31")
}

func TestValidateBelowPredecessor(t *testing.T) {
	history := []models.Reading{
		reading(1, 1, "2026-01-31", 50000),
	}

	result := Validate(history, 1, d(t, "2026-02-28"), 49999, 0)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Error, "below")
	assert.Contains(t, result.Error, "50000")
	require.NotNil(t, result.MinValue)
	assert.Equal(t, int64(50000), *result.MinValue)
	assert.Nil(t, result.MaxValue)
}

func TestValidateAboveSuccessor(t *testing.T) {
	history := []models.Reading{
		reading(1, 1, "2026-06-30", 50000),
	}

	result := Validate(history, 1, d(t, "2026-01-31"), 50001, 0)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Error, "above")
	assert.Contains(t, result.Error, "2026-06-30")
	require.NotNil(t, result.MaxValue)
	assert.Equal(t, int64(50000), *result.MaxValue)
}

func TestValidateEqualityAllowed(t *testing.T) {
	// Non-decreasing, not strictly increasing: equal values pass on both sides
	history := []models.Reading{
		reading(1, 1, "2026-01-31", 50000),
		reading(2, 1, "2026-03-31", 50000),
	}

	result := Validate(history, 1, d(t, "2026-02-28"), 50000, 0)
	assert.True(t, result.Valid)
}

func TestValidateDuplicateDate(t *testing.T) {
	history := []models.Reading{
		reading(1, 1, "2025-01-31", 10000),
		reading(2, 1, "2026-01-31", 78000),
	}

	// Duplicate date is its own error, not a range error
	result := Validate(history, 1, d(t, "2026-01-31"), 78000, 0)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Error, "already exists")
	assert.Contains(t, result.Error, "2026-01-31")
}

func TestValidateExcludeIDForEdits(t *testing.T) {
	history := []models.Reading{
		reading(1, 1, "2026-01-31", 50000),
		reading(2, 1, "2026-02-28", 51000),
	}

	// Editing reading 2 in place must not conflict with itself
	result := Validate(history, 1, d(t, "2026-02-28"), 50500, 2)
	assert.True(t, result.Valid)

	// Without the exclusion the same candidate is a duplicate
	result = Validate(history, 1, d(t, "2026-02-28"), 50500, 0)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Error, "already exists")
}

func TestValidateInconsistentNeighbors(t *testing.T) {
	// Predecessor above successor should be impossible, but the validator
	// must evaluate both bounds without crashing
	history := []models.Reading{
		reading(1, 1, "2026-01-31", 60000),
		reading(2, 1, "2026-03-31", 50000),
	}

	result := Validate(history, 1, d(t, "2026-02-28"), 55000, 0)
	assert.False(t, result.Valid)
	require.NotNil(t, result.MinValue)
	require.NotNil(t, result.MaxValue)
	assert.Equal(t, int64(60000), *result.MinValue)
	assert.Equal(t, int64(50000), *result.MaxValue)
}

func TestValidateMalformedInput(t *testing.T) {
	result := Validate(nil, 1, models.Date{}, 100, 0)
	assert.False(t, result.Valid)

	result = Validate(nil, 1, d(t, "2026-01-31"), -1, 0)
	assert.False(t, result.Valid)
}

func TestValidateIdempotent(t *testing.T) {
	history := []models.Reading{
		reading(1, 1, "2025-01-31", 10000),
		reading(2, 1, "2026-01-31", 78000),
	}

	first := Validate(history, 1, d(t, "2025-06-30"), 9000, 0)
	second := Validate(history, 1, d(t, "2025-06-30"), 9000, 0)
	assert.Equal(t, first, second)
}

func TestValidateDoesNotMutateHistory(t *testing.T) {
	history := []models.Reading{
		reading(2, 1, "2026-01-31", 78000),
		reading(1, 1, "2025-01-31", 10000),
	}

	Validate(history, 1, d(t, "2025-06-30"), 40000, 0)

	assert.Equal(t, int64(2), history[0].ID)
	assert.Equal(t, int64(1), history[1].ID)
}
