package response_models

type AvailabilityStatus string

const (
	AvailabilityOpen    AvailabilityStatus = "open"
	AvailabilityClosed  AvailabilityStatus = "closed"
	AvailabilityUnknown AvailabilityStatus = "unknown"
)

// Alternatives carries whichever suggestion applies: a better weekday when the
// whole day is closed, or a better start time when only the hour is wrong.
type Alternatives struct {
	Day      string   `json:"day,omitempty"`
	OpenDays []string `json:"open_days,omitempty"`
	Time     string   `json:"time,omitempty"`
	Date     string   `json:"date,omitempty"`
	Reason   string   `json:"reason,omitempty"`
}

type AvailabilityCheck struct {
	Status         AvailabilityStatus `json:"status"`
	Confidence     float64            `json:"confidence"`
	Reason         string             `json:"reason"`
	Recommendation string             `json:"recommendation,omitempty"`
	Alternatives   *Alternatives      `json:"alternatives,omitempty"`
	Critical       bool               `json:"critical,omitempty"`
	Warning        string             `json:"warning,omitempty"`
}

type CriticalIssue struct {
	PlaceName      string `json:"place_name"`
	ScheduledAt    string `json:"scheduled_at"`
	Reason         string `json:"reason"`
	Recommendation string `json:"recommendation,omitempty"`
}

type ReportRecommendation struct {
	Priority string `json:"priority"`
	Message  string `json:"message"`
}

type AvailabilityReport struct {
	Total           int                    `json:"total"`
	Available       int                    `json:"available"`
	Unavailable     int                    `json:"unavailable"`
	Unknown         int                    `json:"unknown"`
	Warnings        int                    `json:"warnings"`
	CriticalIssues  []CriticalIssue        `json:"critical_issues"`
	Recommendations []ReportRecommendation `json:"recommendations"`
}
