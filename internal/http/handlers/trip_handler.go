// Trip HTTP handlers.
//
// This file exposes the generation side of the API:
//   - POST /trips/generate     (validate, spend quota, generate or serve cached)
//   - GET  /trips/quota        (remaining daily allowance)
//   - GET  /places/photo       (best-effort place photo lookup)
//   - GET  /cities/suggestions (destination autocomplete)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tebi-travel/go-trip-backend/internal/domain"
	"github.com/tebi-travel/go-trip-backend/internal/http/middleware"
	"github.com/tebi-travel/go-trip-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// TripGenerator resolves trip requests to generated content, serving repeats
// from cache. Implementations must be safe for concurrent use and honor the
// provided context for cancellation and timeouts.
type TripGenerator interface {
	// Cached returns the completed result for the request, if any, without
	// triggering a generation.
	Cached(req domain.TripRequest) (*domain.TripContent, bool)
	// Generate resolves the request, issuing at most one external call per
	// request identity.
	Generate(ctx context.Context, req domain.TripRequest) (*domain.TripContent, error)
}

// QuotaKeeper tracks the per-day generation allowance.
type QuotaKeeper interface {
	// CanGenerate reports whether at least one generation remains today.
	CanGenerate() bool
	// Increment records one spent generation.
	Increment(ctx context.Context)
	// GenerationsLeft returns how many generations remain today.
	GenerationsLeft() int
	// MaxPerDay returns the configured daily allowance.
	MaxPerDay() int
}

// PhotoResolver resolves a place within a destination to a photo URL, or ""
// when no photo could be obtained.
type PhotoResolver interface {
	Resolve(ctx context.Context, placeName, destination string) string
}

// CitySuggester serves destination autocomplete queries.
type CitySuggester interface {
	Suggest(query string) []services.CitySuggestion
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for trip generation, quota, photos,
// suggestions and saved trips. It depends on abstract service interfaces to
// keep transport concerns separate from business logic.
type Handlers struct {
	tripSvc    TripGenerator
	quotaSvc   QuotaKeeper
	photoSvc   PhotoResolver
	suggestSvc CitySuggester
	savedSvc   SavedTripStore
}

// New constructs a Handlers instance bound to the given services.
func New(tripSvc TripGenerator, quotaSvc QuotaKeeper, photoSvc PhotoResolver, suggestSvc CitySuggester, savedSvc SavedTripStore) *Handlers {
	return &Handlers{
		tripSvc:    tripSvc,
		quotaSvc:   quotaSvc,
		photoSvc:   photoSvc,
		suggestSvc: suggestSvc,
		savedSvc:   savedSvc,
	}
}

//
// DTOs
//

// GenerateTripRequest is the JSON payload for generating a trip.
type GenerateTripRequest struct {
	// Destination is the free-typed place the trip is for.
	Destination string `json:"destination" binding:"required"`
	// StartDate and EndDate accept "2006-01-02" or RFC 3339.
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	// Budget is one of Low, Mid, High, Luxe.
	Budget string `json:"budget" binding:"required"`
	// TravelStyles holds up to two style names.
	TravelStyles []string `json:"travel_styles"`
}

// GenerateTripResponse wraps a generated trip with quota bookkeeping.
type GenerateTripResponse struct {
	Trip            *domain.TripContent `json:"trip"`
	GenerationsLeft int                 `json:"generations_left"`
	Cached          bool                `json:"cached"`
}

// QuotaResponse reports the remaining daily generation allowance.
type QuotaResponse struct {
	GenerationsLeft int  `json:"generations_left"`
	CanGenerate     bool `json:"can_generate"`
	MaxPerDay       int  `json:"max_per_day"`
}

// PhotoLookupResponse carries the resolved photo URL; PhotoURL is null when
// no photo could be obtained.
type PhotoLookupResponse struct {
	Place       string  `json:"place"`
	Destination string  `json:"destination"`
	PhotoURL    *string `json:"photo_url"`
}

// SuggestionsResponse wraps autocomplete matches.
type SuggestionsResponse struct {
	Suggestions []services.CitySuggestion `json:"suggestions"`
}

//
// Helpers
//

// parseDate accepts a calendar date as "2006-01-02" or a full RFC 3339
// timestamp (the time-of-day is ignored downstream).
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// toTripRequest converts the wire payload to the domain request, normalizing
// the destination. Dates must already be parsed.
func toTripRequest(req GenerateTripRequest, start, end time.Time) domain.TripRequest {
	styles := make([]domain.TravelStyle, 0, len(req.TravelStyles))
	for _, s := range req.TravelStyles {
		styles = append(styles, domain.TravelStyle(strings.TrimSpace(s)))
	}
	return domain.TripRequest{
		Destination:  services.NormalizeDestination(req.Destination),
		StartDate:    start,
		EndDate:      end,
		Budget:       domain.Budget(strings.TrimSpace(req.Budget)),
		TravelStyles: styles,
	}
}

//
// Handlers
//

// GenerateTrip handles POST /trips/generate.
//
// Flow: bind and validate the payload, serve a cached result for free, gate
// on the daily quota, spend one generation, call the generator, and return
// the trip with the remaining allowance. Validation failures answer 400 with
// the service-level reason code; an exhausted quota answers 429; generator
// failures answer 502.
func (h *Handlers) GenerateTrip(c *gin.Context) {
	var req GenerateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	start, okStart := parseDate(req.StartDate)
	end, okEnd := parseDate(req.EndDate)
	if !okStart || !okEnd {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "dates must be YYYY-MM-DD or RFC 3339")
		return
	}

	tripReq := toTripRequest(req, start, end)
	if err := services.ValidateRequest(tripReq, time.Now()); err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			fail(c, http.StatusBadRequest, ve.Reason, ve.Message)
			return
		}
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()

	// Repeats of an already-completed request are free: no quota spend.
	if content, found := h.tripSvc.Cached(tripReq); found {
		ok(c, http.StatusOK, GenerateTripResponse{
			Trip:            content,
			GenerationsLeft: h.quotaSvc.GenerationsLeft(),
			Cached:          true,
		})
		return
	}

	if !h.quotaSvc.CanGenerate() {
		fail(c, http.StatusTooManyRequests, ErrCodeGenerationLimit,
			"Daily generation limit reached. Try again tomorrow.")
		return
	}
	h.quotaSvc.Increment(ctx)

	content, err := h.tripSvc.Generate(ctx, tripReq)
	if err != nil {
		lg := middleware.LoggerFrom(c)
		var pe *services.GenerationParseError
		if errors.As(err, &pe) {
			lg.Error().Err(err).Str("raw", truncateRaw(pe.Raw)).Msg("generation returned unparseable content")
		} else {
			lg.Error().Err(err).Msg("generation failed")
		}
		fail(c, http.StatusBadGateway, ErrCodeGenerationFailed,
			"Trip generation failed. Please try again.")
		return
	}

	ok(c, http.StatusOK, GenerateTripResponse{
		Trip:            content,
		GenerationsLeft: h.quotaSvc.GenerationsLeft(),
	})
}

// GetQuota handles GET /trips/quota.
func (h *Handlers) GetQuota(c *gin.Context) {
	ok(c, http.StatusOK, QuotaResponse{
		GenerationsLeft: h.quotaSvc.GenerationsLeft(),
		CanGenerate:     h.quotaSvc.CanGenerate(),
		MaxPerDay:       h.quotaSvc.MaxPerDay(),
	})
}

// GetPlacePhoto handles GET /places/photo?place=…&destination=….
//
// Photo lookup is best-effort by contract: the endpoint always answers 200
// with photo_url null when no photo could be obtained, so clients render a
// placeholder instead of an error.
func (h *Handlers) GetPlacePhoto(c *gin.Context) {
	place := strings.TrimSpace(c.Query("place"))
	destination := strings.TrimSpace(c.Query("destination"))
	if place == "" || destination == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "place and destination query parameters are required")
		return
	}

	resp := PhotoLookupResponse{Place: place, Destination: destination}
	if url := h.photoSvc.Resolve(c.Request.Context(), place, destination); url != "" {
		resp.PhotoURL = &url
	}
	ok(c, http.StatusOK, resp)
}

// SuggestCities handles GET /cities/suggestions?q=….
func (h *Handlers) SuggestCities(c *gin.Context) {
	matches := h.suggestSvc.Suggest(c.Query("q"))
	if matches == nil {
		matches = []services.CitySuggestion{}
	}
	ok(c, http.StatusOK, SuggestionsResponse{Suggestions: matches})
}

// truncateRaw bounds how much raw generator output lands in a log line.
func truncateRaw(s string) string {
	const max = 2048
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
