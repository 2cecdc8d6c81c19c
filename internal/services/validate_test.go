package services

import (
	"errors"
	"testing"
	"time"

	"github.com/tebi-travel/go-trip-backend/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// today used across the date tests; an arbitrary fixed Wednesday.
var today = date(2026, time.April, 1)

func reasonOf(t *testing.T, err error) string {
	t.Helper()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
	}
	return ve.Reason
}

func TestValidateDateRange_Valid(t *testing.T) {
	cases := map[string]struct {
		start, end time.Time
	}{
		"same day":            {today, today},
		"starts today":        {today, today.AddDate(0, 0, 3)},
		"full six days":       {date(2026, time.April, 10), date(2026, time.April, 15)},
		"exactly 2 years out": {today.AddDate(2, 0, 0), today.AddDate(2, 0, 2)},
	}
	for name, tc := range cases {
		if _, _, err := ValidateDateRange(tc.start, tc.end, today); err != nil {
			t.Errorf("%s: unexpected error %v", name, err)
		}
	}
}

func TestValidateDateRange_Reasons(t *testing.T) {
	cases := map[string]struct {
		start, end time.Time
		want       string
	}{
		"yesterday":         {today.AddDate(0, 0, -1), today, ReasonDateTooEarly},
		"beyond 2 years":    {today.AddDate(2, 0, 1), today.AddDate(2, 0, 2), ReasonDateTooFar},
		"end before start":  {today.AddDate(0, 0, 5), today.AddDate(0, 0, 2), ReasonEndBeforeStart},
		"seven day span":    {today, today.AddDate(0, 0, 6), ReasonTripTooLong},
		"past and backward": {today.AddDate(0, 0, -3), today.AddDate(0, 0, -5), ReasonDateTooEarly},
	}
	for name, tc := range cases {
		_, _, err := ValidateDateRange(tc.start, tc.end, today)
		if err == nil {
			t.Errorf("%s: expected error", name)
			continue
		}
		if got := reasonOf(t, err); got != tc.want {
			t.Errorf("%s: reason = %q; want %q", name, got, tc.want)
		}
	}
}

func TestValidateDateRange_IgnoresTimeOfDay(t *testing.T) {
	// Start late tonight, "today" early this morning: still valid.
	start := time.Date(2026, time.April, 1, 23, 59, 0, 0, time.UTC)
	now := time.Date(2026, time.April, 1, 0, 1, 0, 0, time.UTC)
	if _, _, err := ValidateDateRange(start, start, now); err != nil {
		t.Fatalf("same calendar day rejected: %v", err)
	}

	// Span measured on truncated days: 5-day difference with awkward clock
	// times is still within policy.
	end := time.Date(2026, time.April, 6, 0, 1, 0, 0, time.UTC)
	if _, _, err := ValidateDateRange(start, end, now); err != nil {
		t.Fatalf("six-day inclusive trip rejected: %v", err)
	}
}

func TestValidateDateRange_MixedLocations(t *testing.T) {
	// A wire date parses to midnight UTC while the server clock runs west of
	// UTC: the same calendar day, but the UTC instant is earlier than local
	// midnight. A trip starting today must still be valid.
	west := time.FixedZone("UTC-5", -5*60*60)
	start := time.Date(2026, time.August, 27, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, time.August, 27, 10, 0, 0, 0, west)
	if _, _, err := ValidateDateRange(start, start.AddDate(0, 0, 2), now); err != nil {
		t.Fatalf("trip starting today rejected on a west-of-UTC clock: %v", err)
	}

	// Yesterday is still yesterday across locations.
	past := time.Date(2026, time.August, 26, 23, 0, 0, 0, time.UTC)
	_, _, err := ValidateDateRange(past, past, now)
	if err == nil {
		t.Fatal("yesterday accepted")
	}
	if got := reasonOf(t, err); got != ReasonDateTooEarly {
		t.Fatalf("reason = %q; want %q", got, ReasonDateTooEarly)
	}

	// East of UTC the local calendar can be a day ahead; a start carrying
	// that offset counts as its own calendar day, not the UTC one.
	east := time.FixedZone("UTC+13", 13*60*60)
	ahead := time.Date(2026, time.August, 28, 0, 30, 0, 0, east)
	if _, _, err := ValidateDateRange(ahead, ahead, now); err != nil {
		t.Fatalf("tomorrow-in-its-own-zone rejected: %v", err)
	}
}

func TestValidateRequest_OrderAndFields(t *testing.T) {
	valid := domain.TripRequest{
		Destination:  "Paris, France",
		StartDate:    today,
		EndDate:      today.AddDate(0, 0, 2),
		Budget:       domain.BudgetMid,
		TravelStyles: []domain.TravelStyle{domain.StyleRelax},
	}
	if err := ValidateRequest(valid, today); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	cases := map[string]struct {
		mutate func(*domain.TripRequest)
		want   string
	}{
		"blank destination": {
			func(r *domain.TripRequest) { r.Destination = "   " },
			ReasonBadDestination,
		},
		"bad dates win over bad budget": {
			func(r *domain.TripRequest) { r.StartDate = today.AddDate(0, 0, -1); r.Budget = "Platinum" },
			ReasonDateTooEarly,
		},
		"unknown budget": {
			func(r *domain.TripRequest) { r.Budget = "Platinum" },
			ReasonBadBudget,
		},
		"three styles": {
			func(r *domain.TripRequest) {
				r.TravelStyles = []domain.TravelStyle{domain.StyleRelax, domain.StyleNature, domain.StyleNightlife}
			},
			ReasonBadStyles,
		},
		"unknown style": {
			func(r *domain.TripRequest) { r.TravelStyles = []domain.TravelStyle{"Spelunking"} },
			ReasonBadStyles,
		},
	}
	for name, tc := range cases {
		req := valid
		req.TravelStyles = append([]domain.TravelStyle(nil), valid.TravelStyles...)
		tc.mutate(&req)

		err := ValidateRequest(req, today)
		if err == nil {
			t.Errorf("%s: expected error", name)
			continue
		}
		if got := reasonOf(t, err); got != tc.want {
			t.Errorf("%s: reason = %q; want %q", name, got, tc.want)
		}
	}
}

func TestValidateRequest_NoStylesIsFine(t *testing.T) {
	req := domain.TripRequest{
		Destination: "Tokyo, Japan",
		StartDate:   today,
		EndDate:     today.AddDate(0, 0, 1),
		Budget:      domain.BudgetHigh,
	}
	if err := ValidateRequest(req, today); err != nil {
		t.Fatalf("style-less request rejected: %v", err)
	}
}

func TestNormalizeDestination(t *testing.T) {
	cases := map[string]string{
		"paris,  france":        "Paris, France",
		"  new   york , usa ":   "New York, Usa",
		"NYC":                   "NYC",
		"Tokyo, Japan":          "Tokyo, Japan",
		"lisbon":                "Lisbon",
		"McMurdo Station":       "McMurdo Station",
		" , ":                   "",
		"rio de janeiro,brazil": "Rio De Janeiro, Brazil",
	}
	for in, want := range cases {
		if got := NormalizeDestination(in); got != want {
			t.Errorf("NormalizeDestination(%q) = %q; want %q", in, got, want)
		}
	}
}
