// Trip request validation.
//
// ValidateRequest gates every generation attempt: destination, date window,
// budget tier and style selection are checked before any quota is consumed
// or any external call is made. Date rules are evaluated in a fixed order
// against a caller-supplied "today" so the checks stay pure and testable.

package services

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tebi-travel/go-trip-backend/internal/domain"
)

const (
	// maxTripSpanDays is the largest allowed difference between end and
	// start date. A span of 5 is a 6-calendar-day trip inclusive.
	maxTripSpanDays = 5

	// maxStartHorizonYears is how far into the future a trip may start.
	maxStartHorizonYears = 2
)

// ValidateDateRange checks a proposed trip window against policy. Rules
// apply in order and the first failure wins:
//
//  1. start before today
//  2. start more than two years out
//  3. end before start
//  4. span longer than six calendar days inclusive
//
// All comparisons are between calendar dates, never instants: each value is
// reduced to its own Y-M-D (in its own location) before comparing, so a
// UTC-parsed request date and a local-clock "today" cannot skew the boundary.
// A trip starting today is always valid regardless of server zone.
//
// On success the pair is returned unchanged. Pure; no I/O.
func ValidateDateRange(start, end, today time.Time) (time.Time, time.Time, error) {
	day := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	s, e, now := day(start), day(end), day(today)

	if s.Before(now) {
		return start, end, newValidationError(ReasonDateTooEarly, "Please select a date from today onwards.")
	}
	if s.After(now.AddDate(maxStartHorizonYears, 0, 0)) {
		return start, end, newValidationError(ReasonDateTooFar, "Trips can start up to 2 years from today. Please choose a closer date.")
	}
	if e.Before(s) {
		return start, end, newValidationError(ReasonEndBeforeStart, "End date cannot be before start date.")
	}
	if int(e.Sub(s).Hours()/24) > maxTripSpanDays {
		return start, end, newValidationError(ReasonTripTooLong, "Maximum trip duration is 6 days.")
	}
	return start, end, nil
}

// ValidateRequest checks a full trip request against policy. The date window
// is validated with ValidateDateRange; destination, budget and styles are
// checked afterwards so date errors surface first, matching the order the
// form reports them.
func ValidateRequest(req domain.TripRequest, today time.Time) error {
	if strings.TrimSpace(req.Destination) == "" {
		return newValidationError(ReasonBadDestination, "Please enter a destination.")
	}
	if _, _, err := ValidateDateRange(req.StartDate, req.EndDate, today); err != nil {
		return err
	}
	if !req.Budget.Valid() {
		return newValidationError(ReasonBadBudget, "Please choose a budget level.")
	}
	if len(req.TravelStyles) > domain.MaxTravelStyles {
		return newValidationError(ReasonBadStyles, "Please pick at most 2 travel styles.")
	}
	for _, s := range req.TravelStyles {
		if !s.Valid() {
			return newValidationError(ReasonBadStyles, "Unknown travel style: "+string(s))
		}
	}
	return nil
}

// destinationCaser title-cases free-typed destination parts.
var destinationCaser = cases.Title(language.English)

// NormalizeDestination tidies a free-typed destination so the generation
// fingerprint is stable for the same logical input: whitespace is collapsed,
// comma-separated parts are trimmed, and all-lowercase parts are title-cased
// ("paris,  france" becomes "Paris, France"). Mixed-case input is left
// alone so names like "NYC" survive.
func NormalizeDestination(s string) string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Join(strings.Fields(p), " ")
		if p == "" {
			continue
		}
		if p == strings.ToLower(p) {
			p = destinationCaser.String(p)
		}
		out = append(out, p)
	}
	return strings.Join(out, ", ")
}
