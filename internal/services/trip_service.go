// Package services – TripService
//
// This file implements the trip generation cache. Given a validated
// TripRequest it returns a TripContent, guaranteeing at most one external
// generation call in flight per request fingerprint and caching successful
// results for the lifetime of the process (results are stable artifacts of
// their exact request; there is no TTL).
//
// Concurrent callers with the same fingerprint join the in-flight call and
// all observe the same result or the same failure. A waiter abandoning the
// join (context cancellation) does not abort the underlying call: other
// waiters, and the cache, still get the result.
//
// Observability: Generate is OpenTelemetry-instrumented; spans carry the
// destination, day count and cache outcome.

package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tebi-travel/go-trip-backend/internal/domain"
)

// Generator is the external generative-text contract consumed by
// TripService. Implementations must honor ctx for cancellation.
type Generator interface {
	// Complete sends prompt to the generation endpoint and returns the raw
	// generated text.
	Complete(ctx context.Context, prompt string) (string, error)
}

// generation is one in-flight external call. Waiters block on done; content
// and err are set exactly once before done is closed.
type generation struct {
	done    chan struct{}
	content *domain.TripContent
	err     error
	waiters int
}

// TripService resolves trip requests from cache or by calling the external
// generator, deduplicating concurrent identical requests.
type TripService struct {
	// Gen is the external generation client.
	Gen Generator

	mu       sync.Mutex // guards results and inflight
	results  map[string]*domain.TripContent
	inflight map[string]*generation
}

// NewTripService constructs a TripService around the given generator.
func NewTripService(gen Generator) *TripService {
	return &TripService{
		Gen:      gen,
		results:  make(map[string]*domain.TripContent),
		inflight: make(map[string]*generation),
	}
}

// Cached returns the completed result for req's fingerprint, if any. It
// never triggers a generation.
func (s *TripService) Cached(req domain.TripRequest) (*domain.TripContent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.results[req.Fingerprint()]
	return c, ok
}

// Generate resolves req to a TripContent. Completed results are returned
// immediately; a request whose fingerprint is already in flight joins that
// call; otherwise a single external call is issued, its result validated,
// cached, and broadcast to every waiter.
//
// Failures are ErrGenerationTransport (endpoint unreachable or non-success
// status) or *GenerationParseError (no valid trip in the response). Failures
// are not cached: a later identical request issues a fresh call.
func (s *TripService) Generate(ctx context.Context, req domain.TripRequest) (*domain.TripContent, error) {
	tr := otel.Tracer("services/TripService")
	ctx, span := tr.Start(ctx, "Generate",
		trace.WithAttributes(
			attribute.String("trip.destination", req.Destination),
			attribute.Int("trip.days", req.Days()),
		),
	)
	defer span.End()

	fp := req.Fingerprint()

	s.mu.Lock()
	if c, ok := s.results[fp]; ok {
		s.mu.Unlock()
		span.SetAttributes(attribute.String("trip.cache", "hit"))
		return c, nil
	}
	if g, ok := s.inflight[fp]; ok {
		g.waiters++
		s.mu.Unlock()
		span.SetAttributes(attribute.String("trip.cache", "join"))
		select {
		case <-g.done:
			return g.content, g.err
		case <-ctx.Done():
			// The underlying call keeps running for the other waiters.
			return nil, ctx.Err()
		}
	}
	g := &generation{done: make(chan struct{}), waiters: 1}
	s.inflight[fp] = g
	s.mu.Unlock()
	span.SetAttributes(attribute.String("trip.cache", "miss"))

	// Detach the external call from this waiter's cancellation: the join
	// contract promises one shared call whose result outlives any single
	// caller.
	callCtx := context.WithoutCancel(ctx)
	content, err := s.generate(callCtx, req)

	s.mu.Lock()
	if err == nil {
		s.results[fp] = content
	}
	delete(s.inflight, fp)
	s.mu.Unlock()

	g.content, g.err = content, err
	close(g.done)
	if g.waiters > 1 {
		log.Debug().Int("waiters", g.waiters).Str("fingerprint", fp).Msg("generation fanned out to joined waiters")
	}
	return content, err
}

// generate performs the external call and validates the response.
func (s *TripService) generate(ctx context.Context, req domain.TripRequest) (*domain.TripContent, error) {
	text, err := s.Gen.Complete(ctx, BuildPrompt(req))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationTransport, err)
	}
	return DecodeTripContent(text, req.Days())
}

// promptTemplate is the generation prompt. The placeholders are, in order:
// destination, day count, start label, end label, budget, styles, day count,
// budget, destination, styles, day count, destination, weather start,
// weather end.
const promptTemplate = `Create a trip plan for %s (%d days, %s - %s, %s budget, %s style).

Return ONLY valid JSON:
{
  "itinerary": [{
    "day": 1,
    "date": "Monday, April 3",
    "morning": {"description": "Visit...", "placeName": "Specific Place Name"},
    "afternoon": {"description": "Explore...", "placeName": "Specific Place Name"},
    "evening": {"description": "Dine at...", "placeName": "Specific Place Name"},
    "locationName": "Main Area"
  }],
  "hotels": [{"name": "Hotel", "description": "Why recommended", "location": "Area", "estimatedPrice": "$XX-YY/night"}],
  "packingList": {
    "essentials": ["Passport", "Phone charger", "Medications"],
    "clothing": ["Light jacket", "Comfortable shoes"],
    "extras": ["Camera", "Travel adapter"]
  },
  "weather": [{
    "date": "Mon, Apr 3",
    "condition": "Sunny",
    "icon": "sun",
    "tempHigh": 75,
    "tempLow": 65,
    "summary": "Clear skies, perfect for sightseeing."
  }]
}

Rules:
- %d days itinerary
- 3 hotels for %s budget (Low=$50-100, Mid=$100-200, High=$200-400, Luxe=$400+)
- Packing list organized into essentials (4-5 items), clothing (4-5 items), extras (3-4 items)
- REAL placeName that exists on Google Maps in %s
- Match %s style
- Images will be fetched separately
- Format dates: "Weekday, Month Day"
- Weather: Provide %d daily weather entries for %s from %s to %s. Each entry should have:
  * date (short format: "Mon, Apr 3")
  * condition ("Sunny", "Cloudy", "Rainy", "Partly Cloudy")
  * icon ("sun" for sunny/clear, "cloud" for cloudy/overcast, "rain" for rainy, "partly-cloudy" for partly cloudy)
  * tempHigh (number in Fahrenheit)
  * tempLow (number in Fahrenheit)
  * summary (1-2 sentences about the weather and how it affects activities)

JSON only, no markdown.`

// BuildPrompt renders the deterministic generation prompt for req: same
// request, same prompt, byte for byte.
func BuildPrompt(req domain.TripRequest) string {
	days := req.Days()

	styleNames := make([]string, len(req.TravelStyles))
	for i, st := range req.TravelStyles {
		styleNames[i] = string(st)
	}
	styles := strings.Join(styleNames, ", ")
	if styles == "" {
		styles = "any"
	}

	return fmt.Sprintf(promptTemplate,
		req.Destination,
		days,
		req.StartDate.Format("Jan 2"),
		req.EndDate.Format("Jan 2"),
		req.Budget,
		styles,
		days,
		req.Budget,
		req.Destination,
		styles,
		days,
		req.Destination,
		req.StartDate.Format("Monday, January 2, 2006"),
		req.EndDate.Format("Monday, January 2, 2006"),
	)
}
