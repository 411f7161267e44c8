package mileage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odolog/odolog/internal/models"
)

func TestMonthlyMileageEmpty(t *testing.T) {
	assert.Empty(t, MonthlyMileage(nil, 1, nil))
}

func TestMonthlyMileageFirstReadingNoBaseline(t *testing.T) {
	// Scenario: a single reading with no baseline has no anchor, delta 0
	history := []models.Reading{
		reading(1, 3, "2026-01-31", 5000),
	}

	periods := MonthlyMileage(history, 3, nil)
	require.Len(t, periods, 1)
	assert.Equal(t, "2026-01", periods[0].Key)
	assert.Equal(t, int64(0), periods[0].Distance)
	assert.Equal(t, int64(5000), periods[0].Odometer)
	assert.Nil(t, periods[0].PrevOdometer)
}

func TestMonthlyMileageBaselineSameMonth(t *testing.T) {
	// Baseline anchors the first reading only when tracking started
	// in the same calendar month
	history := []models.Reading{
		reading(1, 2, "2026-01-31", 45800),
	}
	baseline := &models.Baseline{InitialOdometer: 45000, TrackingStart: d(t, "2026-01-01")}

	periods := MonthlyMileage(history, 2, baseline)
	require.Len(t, periods, 1)
	assert.Equal(t, int64(800), periods[0].Distance)
	require.NotNil(t, periods[0].PrevOdometer)
	assert.Equal(t, int64(45000), *periods[0].PrevOdometer)
}

func TestMonthlyMileageBaselineDifferentMonth(t *testing.T) {
	history := []models.Reading{
		reading(1, 2, "2026-03-31", 45800),
	}
	baseline := &models.Baseline{InitialOdometer: 45000, TrackingStart: d(t, "2026-01-01")}

	periods := MonthlyMileage(history, 2, baseline)
	require.Len(t, periods, 1)
	assert.Equal(t, int64(0), periods[0].Distance)
}

func TestMonthlyMileageDeltas(t *testing.T) {
	history := []models.Reading{
		reading(3, 1, "2026-03-31", 12400),
		reading(1, 1, "2026-01-31", 10000),
		reading(2, 1, "2026-02-28", 11200),
	}

	periods := MonthlyMileage(history, 1, nil)
	require.Len(t, periods, 3)

	assert.Equal(t, []string{"2026-01", "2026-02", "2026-03"},
		[]string{periods[0].Key, periods[1].Key, periods[2].Key})
	assert.Equal(t, int64(0), periods[0].Distance)
	assert.Equal(t, int64(1200), periods[1].Distance)
	assert.Equal(t, int64(1200), periods[2].Distance)
	require.NotNil(t, periods[2].PrevOdometer)
	assert.Equal(t, int64(11200), *periods[2].PrevOdometer)
}

func TestMonthlyMileageClampsNegativeDelta(t *testing.T) {
	// Invariant violations from unvalidated imports degrade to zero,
	// never to negative mileage
	history := []models.Reading{
		reading(1, 1, "2026-01-31", 10000),
		reading(2, 1, "2026-02-28", 9000),
	}

	periods := MonthlyMileage(history, 1, nil)
	require.Len(t, periods, 2)
	assert.Equal(t, int64(0), periods[1].Distance)
}

func TestYearToDateNoReadingsInYear(t *testing.T) {
	history := []models.Reading{
		reading(1, 1, "2025-06-30", 40000),
	}

	assert.Equal(t, int64(0), YearToDate(history, 1, 2026, nil))
}

func TestYearToDateSingleReadingNoAnchor(t *testing.T) {
	// Scenario: no baseline, one in-year reading carries no computable delta
	history := []models.Reading{
		reading(1, 3, "2026-01-31", 5000),
	}
	assert.Equal(t, int64(0), YearToDate(history, 3, 2026, nil))

	// Scenario: baseline whose tracking start falls in the query year
	history = []models.Reading{
		reading(1, 2, "2026-01-31", 45800),
	}
	baseline := &models.Baseline{InitialOdometer: 45000, TrackingStart: d(t, "2026-01-01")}
	assert.Equal(t, int64(800), YearToDate(history, 2, 2026, baseline))

	// Baseline from an earlier year is conservatively ignored
	baseline = &models.Baseline{InitialOdometer: 45000, TrackingStart: d(t, "2024-01-01")}
	assert.Equal(t, int64(0), YearToDate(history, 2, 2026, baseline))
}

func TestYearToDateWithAnchor(t *testing.T) {
	// The anchor is the latest reading strictly before the year start
	history := []models.Reading{
		reading(1, 1, "2025-11-30", 38000),
		reading(2, 1, "2025-12-31", 40000),
		reading(3, 1, "2026-03-31", 43500),
	}

	assert.Equal(t, int64(3500), YearToDate(history, 1, 2026, nil))
}

func TestYearToDateMultipleReadingsNoAnchor(t *testing.T) {
	history := []models.Reading{
		reading(1, 1, "2026-01-31", 10000),
		reading(2, 1, "2026-02-28", 11200),
		reading(3, 1, "2026-06-30", 14000),
	}

	assert.Equal(t, int64(4000), YearToDate(history, 1, 2026, nil))
}

func TestMonthlySumMatchesYearToDate(t *testing.T) {
	// Round-trip: for a single-year history with no baseline the summed
	// monthly deltas telescope to the year-to-date figure
	history := []models.Reading{
		reading(1, 1, "2026-01-15", 20000),
		reading(2, 1, "2026-02-15", 20900),
		reading(3, 1, "2026-04-15", 22400),
		reading(4, 1, "2026-07-15", 25000),
	}

	var sum int64
	for _, p := range MonthlyMileage(history, 1, nil) {
		sum += p.Distance
	}

	assert.Equal(t, YearToDate(history, 1, 2026, nil), sum)
}

func TestSummarize(t *testing.T) {
	today := d(t, "2026-06-15")
	history := []models.Reading{
		reading(1, 1, "2026-03-31", 10000),
		reading(2, 1, "2026-04-30", 11200),
		reading(3, 1, "2026-06-10", 13000),
	}

	summary := Summarize(history, 1, nil, today)

	assert.Equal(t, int64(3000), summary.YearToDate)
	assert.Equal(t, int64(1800), summary.CurrentMonth)
	// 1200 + 1800 over the 12-month window
	assert.InDelta(t, 250.0, summary.MonthlyAverage, 0.001)
}
