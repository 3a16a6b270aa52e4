package services

import (
	"fmt"
	"time"

	"veritrip/internal/models/response_models"
	"veritrip/pkg/googleplaces"
)

// If fewer than this many minutes remain until closing, the visit is still
// possible but gets flagged.
const closingSoonMinutes = 30

type ScheduledVisit struct {
	Place       *response_models.VerifiedPlace
	ScheduledAt time.Time
}

type CheckedVisit struct {
	Place       *response_models.VerifiedPlace
	ScheduledAt time.Time
	Check       response_models.AvailabilityCheck
}

type AvailabilityBuckets struct {
	Available   []CheckedVisit
	Warnings    []CheckedVisit
	Unavailable []CheckedVisit
	Unknown     []CheckedVisit
}

type AvailabilityServiceInterface interface {
	CheckAvailability(place *response_models.VerifiedPlace, scheduledAt time.Time) response_models.AvailabilityCheck
	CheckBatch(visits []ScheduledVisit) AvailabilityBuckets
	BuildReport(buckets AvailabilityBuckets) response_models.AvailabilityReport
}

type AvailabilityService struct{}

func NewAvailabilityService() AvailabilityServiceInterface {
	return &AvailabilityService{}
}

// CheckAvailability is a pure function of its inputs: no I/O, no mutation.
// The first matching rule wins.
func (a *AvailabilityService) CheckAvailability(place *response_models.VerifiedPlace, scheduledAt time.Time) response_models.AvailabilityCheck {
	if place == nil || len(place.OpeningHours) == 0 {
		return response_models.AvailabilityCheck{
			Status:         response_models.AvailabilityUnknown,
			Confidence:     0.3,
			Reason:         "No opening hours data",
			Recommendation: "Verify hours before visiting",
		}
	}

	switch place.BusinessStatus {
	case googleplaces.BusinessStatusClosedPermanently:
		return response_models.AvailabilityCheck{
			Status:         response_models.AvailabilityClosed,
			Confidence:     1.0,
			Critical:       true,
			Reason:         "Permanently closed",
			Recommendation: "Remove from itinerary and pick a replacement",
		}
	case googleplaces.BusinessStatusClosedTemporarily:
		return response_models.AvailabilityCheck{
			Status:         response_models.AvailabilityClosed,
			Confidence:     0.9,
			Critical:       true,
			Reason:         "Temporarily closed",
			Recommendation: "Confirm reopening before visiting",
		}
	}

	day := scheduledAt.Weekday()
	schedule, ok := scheduleFor(place.OpeningHours, day)
	if !ok {
		return response_models.AvailabilityCheck{
			Status:         response_models.AvailabilityUnknown,
			Confidence:     0.2,
			Reason:         fmt.Sprintf("No schedule entry for %s", day),
			Recommendation: "Verify hours before visiting",
		}
	}

	if isClosedText(schedule) {
		alt := alternativeDays(place.OpeningHours, day)
		rec := "Reschedule to another day"
		if alt != nil && alt.Day != "" {
			rec = "Reschedule to " + alt.Day
		}
		return response_models.AvailabilityCheck{
			Status:         response_models.AvailabilityClosed,
			Confidence:     0.95,
			Critical:       true,
			Reason:         fmt.Sprintf("Closed on %s", day),
			Recommendation: rec,
			Alternatives:   alt,
		}
	}

	if isAlwaysOpenText(schedule) {
		return response_models.AvailabilityCheck{
			Status:     response_models.AvailabilityOpen,
			Confidence: 1.0,
			Reason:     "Open 24 hours",
		}
	}

	ranges := parseTimeRanges(schedule)
	if len(ranges) == 0 {
		return response_models.AvailabilityCheck{
			Status:         response_models.AvailabilityUnknown,
			Confidence:     0.3,
			Reason:         fmt.Sprintf("Could not parse hours: %q", schedule),
			Recommendation: "Verify hours before visiting",
		}
	}

	mins := scheduledAt.Hour()*60 + scheduledAt.Minute()
	for _, r := range ranges {
		if !withinRange(r, mins) {
			continue
		}
		remaining := minutesUntilClose(r, mins)
		if remaining < closingSoonMinutes {
			return response_models.AvailabilityCheck{
				Status:         response_models.AvailabilityOpen,
				Confidence:     0.7,
				Reason:         fmt.Sprintf("Open, but closes at %s", formatMinutes(r.close)),
				Warning:        fmt.Sprintf("Only %d minutes until closing", remaining),
				Recommendation: "Visit earlier to leave enough time",
			}
		}
		return response_models.AvailabilityCheck{
			Status:     response_models.AvailabilityOpen,
			Confidence: 0.95,
			Reason:     fmt.Sprintf("Open until %s", formatMinutes(r.close)),
		}
	}

	alt := alternativeTime(place.OpeningHours, ranges, scheduledAt)
	rec := "Reschedule this visit"
	if alt != nil {
		rec = fmt.Sprintf("Reschedule to %s on %s", alt.Time, alt.Date)
	}
	return response_models.AvailabilityCheck{
		Status:         response_models.AvailabilityClosed,
		Confidence:     0.9,
		Critical:       true,
		Reason:         fmt.Sprintf("Closed at %s on %s", formatMinutes(mins), day),
		Recommendation: rec,
		Alternatives:   alt,
	}
}

// alternativeDays prefers the next day, then the previous day, then the first
// open day in Sunday-first order.
func alternativeDays(hours []string, closedDay time.Weekday) *response_models.Alternatives {
	isOpen := func(d time.Weekday) bool {
		s, ok := scheduleFor(hours, d)
		return ok && !isClosedText(s)
	}

	var openDays []string
	for i := 0; i < 7; i++ {
		d := time.Weekday(i)
		if d == closedDay {
			continue
		}
		if isOpen(d) {
			openDays = append(openDays, d.String())
		}
	}
	if len(openDays) == 0 {
		return nil
	}

	next := time.Weekday((int(closedDay) + 1) % 7)
	prev := time.Weekday((int(closedDay) + 6) % 7)

	chosen := openDays[0]
	switch {
	case isOpen(next):
		chosen = next.String()
	case isOpen(prev):
		chosen = prev.String()
	}
	return &response_models.Alternatives{Day: chosen, OpenDays: openDays}
}

// alternativeTime walks the parsed ranges in order; the first range opening
// after the requested time wins. Failing that, the next calendar day's first
// range is suggested.
func alternativeTime(hours []string, ranges []timeRange, scheduledAt time.Time) *response_models.Alternatives {
	mins := scheduledAt.Hour()*60 + scheduledAt.Minute()
	for _, r := range ranges {
		if r.open > mins {
			return &response_models.Alternatives{
				Time:   formatMinutes(r.open),
				Date:   scheduledAt.Format("2006-01-02"),
				Reason: "Opening time",
			}
		}
	}

	next := scheduledAt.AddDate(0, 0, 1)
	schedule, ok := scheduleFor(hours, next.Weekday())
	if !ok || isClosedText(schedule) {
		return nil
	}
	if isAlwaysOpenText(schedule) {
		return &response_models.Alternatives{
			Time:   "00:00",
			Date:   next.Format("2006-01-02"),
			Reason: "Next day opening time",
		}
	}
	nextRanges := parseTimeRanges(schedule)
	if len(nextRanges) == 0 {
		return nil
	}
	return &response_models.Alternatives{
		Time:   formatMinutes(nextRanges[0].open),
		Date:   next.Format("2006-01-02"),
		Reason: "Next day opening time",
	}
}

func (a *AvailabilityService) CheckBatch(visits []ScheduledVisit) AvailabilityBuckets {
	var buckets AvailabilityBuckets
	for _, v := range visits {
		checked := CheckedVisit{
			Place:       v.Place,
			ScheduledAt: v.ScheduledAt,
			Check:       a.CheckAvailability(v.Place, v.ScheduledAt),
		}
		switch {
		case checked.Check.Status == response_models.AvailabilityOpen && checked.Check.Warning != "":
			buckets.Warnings = append(buckets.Warnings, checked)
		case checked.Check.Status == response_models.AvailabilityOpen:
			buckets.Available = append(buckets.Available, checked)
		case checked.Check.Status == response_models.AvailabilityClosed:
			buckets.Unavailable = append(buckets.Unavailable, checked)
		default:
			buckets.Unknown = append(buckets.Unknown, checked)
		}
	}
	return buckets
}

func (a *AvailabilityService) BuildReport(buckets AvailabilityBuckets) response_models.AvailabilityReport {
	report := response_models.AvailabilityReport{
		Total:       len(buckets.Available) + len(buckets.Warnings) + len(buckets.Unavailable) + len(buckets.Unknown),
		Available:   len(buckets.Available) + len(buckets.Warnings),
		Unavailable: len(buckets.Unavailable),
		Unknown:     len(buckets.Unknown),
		Warnings:    len(buckets.Warnings),
	}

	for _, v := range buckets.Unavailable {
		if !v.Check.Critical {
			continue
		}
		name := ""
		if v.Place != nil {
			name = v.Place.Name
		}
		report.CriticalIssues = append(report.CriticalIssues, response_models.CriticalIssue{
			PlaceName:      name,
			ScheduledAt:    v.ScheduledAt.Format("2006-01-02 15:04"),
			Reason:         v.Check.Reason,
			Recommendation: v.Check.Recommendation,
		})
	}

	if report.Unavailable > 0 {
		report.Recommendations = append(report.Recommendations, response_models.ReportRecommendation{
			Priority: "high",
			Message:  fmt.Sprintf("%d places are closed at their scheduled time; reschedule or replace them", report.Unavailable),
		})
	}
	if report.Warnings > 0 {
		report.Recommendations = append(report.Recommendations, response_models.ReportRecommendation{
			Priority: "medium",
			Message:  fmt.Sprintf("%d visits fall close to closing time; consider earlier starts", report.Warnings),
		})
	}
	if report.Unknown > 0 {
		report.Recommendations = append(report.Recommendations, response_models.ReportRecommendation{
			Priority: "low",
			Message:  fmt.Sprintf("%d places have unverified hours; confirm before visiting", report.Unknown),
		})
	}
	return report
}
