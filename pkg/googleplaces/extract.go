package googleplaces

// NormalizeHours reshapes provider opening hours for the availability engine.
// Google emits weekday_text Monday-first; the engine indexes by time.Weekday,
// so the rows are re-ordered Sunday-first. Anything other than exactly seven
// rows is treated as no data.
func NormalizeHours(details *PlaceDetails) Hours {
	if details == nil || details.OpeningHours == nil {
		return Hours{}
	}
	oh := details.OpeningHours
	hours := Hours{Periods: oh.Periods, OpenNow: oh.OpenNow}

	if len(oh.WeekdayText) == 7 {
		sundayFirst := make([]string, 7)
		for w := 0; w < 7; w++ {
			sundayFirst[w] = oh.WeekdayText[(w+6)%7]
		}
		hours.WeekdayText = sundayFirst
	}
	return hours
}

// TopReviews keeps the provider's relevance order and caps at max.
func TopReviews(details *PlaceDetails, max int) []Review {
	if details == nil || len(details.Reviews) == 0 {
		return nil
	}
	if len(details.Reviews) <= max {
		return details.Reviews
	}
	return details.Reviews[:max]
}
