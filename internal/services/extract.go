// Response extraction and validation.
//
// The generator is asked for pure JSON but, being a free-text model, it may
// wrap the object in markdown fences or surround it with prose. Extraction
// tolerates both; validation then checks the shape. Only missing top-level
// keys are fatal: length mismatches (short itineraries, fewer than three
// hotels) are accepted as degraded results because the generator is not
// under this system's control.

package services

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tebi-travel/go-trip-backend/internal/domain"
)

// expectedHotels is how many hotel recommendations the prompt asks for.
const expectedHotels = 3

var errNoJSONObject = errors.New("no JSON object in response")

// ExtractJSONObject slices the first JSON object out of a free-text
// generator response. It strips leading/trailing markdown code fences
// (with or without a language tag) and then cuts from the first '{' to the
// last '}'. The returned string is not guaranteed to parse; it is only the
// best candidate found.
func ExtractJSONObject(raw string) (string, error) {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		// Drop a language tag like "json" on the opening fence.
		if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.ContainsAny(s[:i], "{}") {
			s = s[i+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end == -1 || end <= start {
		return "", errNoJSONObject
	}
	return s[start : end+1], nil
}

// DecodeTripContent extracts and validates a TripContent from a raw
// generator response. wantDays is the computed trip length; itinerary and
// weather lengths are checked against it leniently (logged, not rejected).
// Missing required top-level keys or unparseable JSON produce a
// GenerationParseError carrying the raw text.
func DecodeTripContent(raw string, wantDays int) (*domain.TripContent, error) {
	candidate, err := ExtractJSONObject(raw)
	if err != nil {
		return nil, &GenerationParseError{Raw: raw, Err: err}
	}

	// Check key presence before decoding so a structurally valid object with
	// missing sections fails as a parse error rather than yielding a
	// half-empty trip.
	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &top); err != nil {
		return nil, &GenerationParseError{Raw: raw, Err: err}
	}
	for _, key := range []string{"itinerary", "hotels", "packingList", "weather"} {
		if _, ok := top[key]; !ok {
			return nil, &GenerationParseError{Raw: raw, Err: errors.New("missing key " + key)}
		}
	}

	var content domain.TripContent
	if err := json.Unmarshal([]byte(candidate), &content); err != nil {
		return nil, &GenerationParseError{Raw: raw, Err: err}
	}

	if len(content.Itinerary) != wantDays {
		log.Warn().
			Int("want_days", wantDays).
			Int("got_days", len(content.Itinerary)).
			Msg("generator returned unexpected itinerary length; accepting")
	}
	if len(content.Hotels) != expectedHotels {
		log.Debug().Int("hotels", len(content.Hotels)).Msg("generator returned unexpected hotel count")
	}
	if len(content.Weather) != wantDays {
		log.Debug().Int("weather", len(content.Weather)).Msg("generator returned unexpected weather length")
	}

	return &content, nil
}
