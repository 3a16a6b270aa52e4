package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veritrip/internal/models/response_models"
	"veritrip/pkg/googleplaces"
)

// weekAll builds a Sunday-first week with the same schedule text per day.
func weekAll(schedule string) []string {
	days := []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	week := make([]string, 7)
	for i, d := range days {
		week[i] = d + ": " + schedule
	}
	return week
}

func placeWithHours(hours []string) *response_models.VerifiedPlace {
	return &response_models.VerifiedPlace{
		Name:           "Test Place",
		BusinessStatus: googleplaces.BusinessStatusOperational,
		OpeningHours:   hours,
	}
}

// 2026-08-31 is a Monday.
func mondayAt(hour, minute int) time.Time {
	return time.Date(2026, 8, 31, hour, minute, 0, 0, time.UTC)
}

func TestCheckAvailability_NoHoursData(t *testing.T) {
	svc := NewAvailabilityService()

	check := svc.CheckAvailability(placeWithHours(nil), mondayAt(10, 0))

	assert.Equal(t, response_models.AvailabilityUnknown, check.Status)
	assert.InDelta(t, 0.3, check.Confidence, 1e-9)
	assert.Contains(t, check.Recommendation, "Verify hours")
}

func TestCheckAvailability_PermanentlyClosed(t *testing.T) {
	svc := NewAvailabilityService()
	place := placeWithHours(weekAll("9:00 AM – 5:00 PM"))
	place.BusinessStatus = googleplaces.BusinessStatusClosedPermanently

	check := svc.CheckAvailability(place, mondayAt(10, 0))

	assert.Equal(t, response_models.AvailabilityClosed, check.Status)
	assert.True(t, check.Critical)
	assert.InDelta(t, 1.0, check.Confidence, 1e-9)
}

func TestCheckAvailability_TemporarilyClosed(t *testing.T) {
	svc := NewAvailabilityService()
	place := placeWithHours(weekAll("9:00 AM – 5:00 PM"))
	place.BusinessStatus = googleplaces.BusinessStatusClosedTemporarily

	check := svc.CheckAvailability(place, mondayAt(10, 0))

	assert.Equal(t, response_models.AvailabilityClosed, check.Status)
	assert.True(t, check.Critical)
	assert.InDelta(t, 0.9, check.Confidence, 1e-9)
}

func TestCheckAvailability_MissingWeekdayEntry(t *testing.T) {
	svc := NewAvailabilityService()
	place := placeWithHours([]string{"Sunday: 9:00 AM – 5:00 PM"})

	check := svc.CheckAvailability(place, mondayAt(10, 0))

	assert.Equal(t, response_models.AvailabilityUnknown, check.Status)
	assert.InDelta(t, 0.2, check.Confidence, 1e-9)
	assert.Contains(t, check.Reason, "Monday")
}

func TestCheckAvailability_ClosedDayPrefersNextDay(t *testing.T) {
	svc := NewAvailabilityService()
	hours := weekAll("9:00 AM – 5:00 PM")
	hours[0] = "Sunday: Closed"
	place := placeWithHours(hours)

	// 2026-08-30 is a Sunday.
	check := svc.CheckAvailability(place, time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC))

	assert.Equal(t, response_models.AvailabilityClosed, check.Status)
	assert.True(t, check.Critical)
	assert.InDelta(t, 0.95, check.Confidence, 1e-9)
	require.NotNil(t, check.Alternatives)
	assert.Equal(t, "Monday", check.Alternatives.Day, "next open day wins over other open days")
	assert.Len(t, check.Alternatives.OpenDays, 6)
}

func TestCheckAvailability_ClosedDayFallsBackToPreviousDay(t *testing.T) {
	svc := NewAvailabilityService()
	hours := weekAll("Closed")
	hours[6] = "Saturday: 9:00 AM – 5:00 PM"
	place := placeWithHours(hours)

	// Sunday closed, Monday closed too; Saturday (previous day) is open.
	check := svc.CheckAvailability(place, time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC))

	require.NotNil(t, check.Alternatives)
	assert.Equal(t, "Saturday", check.Alternatives.Day)
	assert.Equal(t, []string{"Saturday"}, check.Alternatives.OpenDays)
}

func TestCheckAvailability_AlwaysOpen(t *testing.T) {
	svc := NewAvailabilityService()
	place := placeWithHours(weekAll("Open 24 hours"))

	check := svc.CheckAvailability(place, mondayAt(3, 0))

	assert.Equal(t, response_models.AvailabilityOpen, check.Status)
	assert.InDelta(t, 1.0, check.Confidence, 1e-9)
}

func TestCheckAvailability_UnparseableHours(t *testing.T) {
	svc := NewAvailabilityService()
	place := placeWithHours(weekAll("hours vary by season"))

	check := svc.CheckAvailability(place, mondayAt(10, 0))

	assert.Equal(t, response_models.AvailabilityUnknown, check.Status)
	assert.InDelta(t, 0.3, check.Confidence, 1e-9)
	assert.Contains(t, check.Reason, "hours vary by season", "raw text kept for diagnostics")
}

func TestCheckAvailability_OpenWithinRange(t *testing.T) {
	svc := NewAvailabilityService()
	place := placeWithHours(weekAll("9:00 AM – 6:00 PM"))

	check := svc.CheckAvailability(place, mondayAt(10, 0))

	assert.Equal(t, response_models.AvailabilityOpen, check.Status)
	assert.InDelta(t, 0.95, check.Confidence, 1e-9)
	assert.Empty(t, check.Warning)
}

func TestCheckAvailability_ClosingSoonBoundary(t *testing.T) {
	svc := NewAvailabilityService()
	place := placeWithHours(weekAll("9:00 AM – 6:00 PM"))

	t.Run("exactly 30 minutes left is fine", func(t *testing.T) {
		check := svc.CheckAvailability(place, mondayAt(17, 30))
		assert.Equal(t, response_models.AvailabilityOpen, check.Status)
		assert.Empty(t, check.Warning)
		assert.InDelta(t, 0.95, check.Confidence, 1e-9)
	})

	t.Run("29 minutes left warns", func(t *testing.T) {
		check := svc.CheckAvailability(place, mondayAt(17, 31))
		assert.Equal(t, response_models.AvailabilityOpen, check.Status)
		assert.NotEmpty(t, check.Warning)
		assert.InDelta(t, 0.7, check.Confidence, 1e-9)
	})
}

func TestCheckAvailability_MultiRangeGapSuggestsNextRange(t *testing.T) {
	svc := NewAvailabilityService()
	place := placeWithHours(weekAll("11:00 AM – 2:00 PM, 6:00 PM – 10:00 PM"))

	check := svc.CheckAvailability(place, mondayAt(16, 0))

	assert.Equal(t, response_models.AvailabilityClosed, check.Status)
	assert.True(t, check.Critical)
	assert.InDelta(t, 0.9, check.Confidence, 1e-9)
	require.NotNil(t, check.Alternatives)
	assert.Equal(t, "18:00", check.Alternatives.Time, "next range's open, not the first range")
	assert.Equal(t, "Opening time", check.Alternatives.Reason)
	assert.Equal(t, "2026-08-31", check.Alternatives.Date)
}

func TestCheckAvailability_AfterLastRangeSuggestsNextDay(t *testing.T) {
	svc := NewAvailabilityService()
	place := placeWithHours(weekAll("9:00 AM – 6:00 PM"))

	check := svc.CheckAvailability(place, mondayAt(21, 0))

	assert.Equal(t, response_models.AvailabilityClosed, check.Status)
	require.NotNil(t, check.Alternatives)
	assert.Equal(t, "09:00", check.Alternatives.Time)
	assert.Equal(t, "2026-09-01", check.Alternatives.Date)
	assert.Equal(t, "Next day opening time", check.Alternatives.Reason)
}

func TestCheckAvailability_Idempotent(t *testing.T) {
	svc := NewAvailabilityService()
	place := placeWithHours(weekAll("11:00 AM – 2:00 PM, 6:00 PM – 10:00 PM"))
	at := mondayAt(16, 0)

	first := svc.CheckAvailability(place, at)
	second := svc.CheckAvailability(place, at)

	assert.Equal(t, first, second)
}

func TestCheckBatchAndReport(t *testing.T) {
	svc := NewAvailabilityService()

	openPlace := placeWithHours(weekAll("9:00 AM – 6:00 PM"))
	closingSoon := placeWithHours(weekAll("9:00 AM – 6:00 PM"))
	closedPlace := placeWithHours(weekAll("9:00 AM – 11:00 AM"))
	closedPlace.Name = "Early Bird Cafe"
	unknownPlace := &response_models.VerifiedPlace{Name: "Mystery Spot"}

	visits := []ScheduledVisit{
		{Place: openPlace, ScheduledAt: mondayAt(10, 0)},
		{Place: closingSoon, ScheduledAt: mondayAt(17, 45)},
		{Place: closedPlace, ScheduledAt: mondayAt(15, 0)},
		{Place: unknownPlace, ScheduledAt: mondayAt(10, 0)},
	}

	buckets := svc.CheckBatch(visits)
	assert.Len(t, buckets.Available, 1)
	assert.Len(t, buckets.Warnings, 1)
	assert.Len(t, buckets.Unavailable, 1)
	assert.Len(t, buckets.Unknown, 1)

	report := svc.BuildReport(buckets)
	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 2, report.Available, "warnings still count as available")
	assert.Equal(t, 1, report.Unavailable)
	assert.Equal(t, 1, report.Unknown)
	assert.Equal(t, 1, report.Warnings)

	require.Len(t, report.CriticalIssues, 1)
	assert.Equal(t, "Early Bird Cafe", report.CriticalIssues[0].PlaceName)

	require.Len(t, report.Recommendations, 3, "high, medium and low co-occur")
	assert.Equal(t, "high", report.Recommendations[0].Priority)
	assert.Equal(t, "medium", report.Recommendations[1].Priority)
	assert.Equal(t, "low", report.Recommendations[2].Priority)
}
