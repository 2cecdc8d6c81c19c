// Saved-trip HTTP handlers.
//
// This file exposes REST endpoints for the saved-trip collection:
//   - GET    /trips/saved      (list, most recent first)
//   - POST   /trips/saved      (save a generated trip)
//   - GET    /trips/saved/:id  (fetch one)
//   - DELETE /trips/saved/:id  (remove; unknown ids are a no-op)
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tebi-travel/go-trip-backend/internal/domain"
	"github.com/tebi-travel/go-trip-backend/internal/services"
)

// SavedTripStore defines the saved-trip collection operations consumed by
// HTTP handlers. Implementations must be safe for concurrent use and honor
// the provided context.
type SavedTripStore interface {
	// List returns all saved trips, most recently saved first.
	List(ctx context.Context) ([]domain.SavedTrip, error)
	// Get returns the saved trip with the given id, or ErrSavedTripNotFound.
	Get(ctx context.Context, id string) (*domain.SavedTrip, error)
	// Save persists a request/content pair under a fresh id.
	Save(ctx context.Context, req domain.TripRequest, content domain.TripContent) (*domain.SavedTrip, error)
	// Delete removes the trip with the given id; unknown ids are a no-op.
	Delete(ctx context.Context, id string) error
	// IsSaved reports whether a logical duplicate already exists.
	IsSaved(ctx context.Context, destination, startDate, endDate string, itinerary []domain.DayPlan) (bool, error)
}

// SaveTripRequest is the JSON payload for saving a generated trip.
type SaveTripRequest struct {
	Destination  string             `json:"destination" binding:"required"`
	StartDate    string             `json:"start_date" binding:"required"`
	EndDate      string             `json:"end_date" binding:"required"`
	Budget       string             `json:"budget" binding:"required"`
	TravelStyles []string           `json:"travel_styles"`
	Trip         domain.TripContent `json:"trip" binding:"required"`
}

// ListSavedTripsResponse wraps the saved-trip collection.
type ListSavedTripsResponse struct {
	Trips []domain.SavedTrip `json:"trips"`
}

// ListSavedTrips handles GET /trips/saved.
func (h *Handlers) ListSavedTrips(c *gin.Context) {
	trips, err := h.savedSvc.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not load saved trips")
		return
	}
	if trips == nil {
		trips = []domain.SavedTrip{}
	}
	ok(c, http.StatusOK, ListSavedTripsResponse{Trips: trips})
}

// GetSavedTrip handles GET /trips/saved/:id.
func (h *Handlers) GetSavedTrip(c *gin.Context) {
	trip, err := h.savedSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrSavedTripNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "saved trip not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not load saved trip")
		return
	}
	ok(c, http.StatusOK, trip)
}

// SaveTrip handles POST /trips/saved.
//
// A logical duplicate (same destination, same dates, structurally identical
// itinerary) answers 409 without inserting.
func (h *Handlers) SaveTrip(c *gin.Context) {
	var req SaveTripRequest
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

	styles := make([]domain.TravelStyle, 0, len(req.TravelStyles))
	for _, s := range req.TravelStyles {
		styles = append(styles, domain.TravelStyle(strings.TrimSpace(s)))
	}
	tripReq := domain.TripRequest{
		Destination:  services.NormalizeDestination(req.Destination),
		StartDate:    start,
		EndDate:      end,
		Budget:       domain.Budget(strings.TrimSpace(req.Budget)),
		TravelStyles: styles,
	}

	ctx := c.Request.Context()
	dup, err := h.savedSvc.IsSaved(ctx,
		tripReq.Destination,
		start.Format(time.DateOnly),
		end.Format(time.DateOnly),
		req.Trip.Itinerary,
	)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeSaveFailed, "could not check saved trips")
		return
	}
	if dup {
		fail(c, http.StatusConflict, ErrCodeConflict, "this trip is already saved")
		return
	}

	saved, err := h.savedSvc.Save(ctx, tripReq, req.Trip)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeSaveFailed, "could not save trip")
		return
	}
	ok(c, http.StatusCreated, saved)
}

// DeleteSavedTrip handles DELETE /trips/saved/:id. Deleting an unknown id
// succeeds: the end state (trip absent) is what the client asked for.
func (h *Handlers) DeleteSavedTrip(c *gin.Context) {
	if err := h.savedSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not delete saved trip")
		return
	}
	noContent(c)
}
