// Package services – SavedTripService
//
// This file implements the saved-trip store: the durable collection of
// results the user chose to keep. The whole collection is persisted as one
// JSON blob; every mutation rewrites it. Duplicate prevention is a
// cross-component contract: callers are expected to gate saves with
// IsSaved, while Save itself inserts whatever it is given.

package services

import (
	"context"
	"encoding/json"
	"reflect"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tebi-travel/go-trip-backend/internal/domain"
)

// savedTripsKey is the fixed KV key the collection is persisted under.
const savedTripsKey = "saved_trips"

// SavedTripService owns the persisted saved-trip collection. The persisted
// list is the durable source of truth; every read goes back to the store.
type SavedTripService struct {
	kv KVStore

	// now and newID are injectable for tests.
	now   func() time.Time
	newID func() string
}

// NewSavedTripService constructs a SavedTripService backed by kv.
func NewSavedTripService(kv KVStore) *SavedTripService {
	return &SavedTripService{
		kv:    kv,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// load reads and decodes the persisted collection. An absent key is an
// empty collection, not an error.
func (s *SavedTripService) load(ctx context.Context) ([]domain.SavedTrip, error) {
	raw, found, err := s.kv.Get(ctx, savedTripsKey)
	if err != nil {
		return nil, &PersistenceError{Op: "load saved trips", Err: err}
	}
	if !found {
		return []domain.SavedTrip{}, nil
	}
	var trips []domain.SavedTrip
	if err := json.Unmarshal(raw, &trips); err != nil {
		return nil, &PersistenceError{Op: "decode saved trips", Err: err}
	}
	return trips, nil
}

// persist writes the full collection back to the store.
func (s *SavedTripService) persist(ctx context.Context, trips []domain.SavedTrip) error {
	raw, err := json.Marshal(trips)
	if err == nil {
		err = s.kv.Put(ctx, savedTripsKey, raw)
	}
	if err != nil {
		return &PersistenceError{Op: "persist saved trips", Err: err}
	}
	return nil
}

// List returns all saved trips, most recently saved first.
func (s *SavedTripService) List(ctx context.Context) ([]domain.SavedTrip, error) {
	trips, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(trips, func(i, j int) bool {
		return trips[i].SavedAt.After(trips[j].SavedAt)
	})
	return trips, nil
}

// Get returns the saved trip with the given id, or ErrSavedTripNotFound.
func (s *SavedTripService) Get(ctx context.Context, id string) (*domain.SavedTrip, error) {
	trips, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range trips {
		if trips[i].ID == id {
			return &trips[i], nil
		}
	}
	return nil, ErrSavedTripNotFound
}

// Save assigns a fresh id and timestamp to the given request/content pair,
// prepends it to the collection, and persists the result. It does not check
// for duplicates; that is the caller's contract via IsSaved.
func (s *SavedTripService) Save(ctx context.Context, req domain.TripRequest, content domain.TripContent) (*domain.SavedTrip, error) {
	trips, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	trip := domain.SavedTrip{
		ID:           s.newID(),
		Destination:  req.Destination,
		StartDate:    req.StartDate.Format(time.DateOnly),
		EndDate:      req.EndDate.Format(time.DateOnly),
		Budget:       string(req.Budget),
		TravelStyles: req.StylesJoined(),
		Trip:         content,
		SavedAt:      s.now(),
	}
	trips = append([]domain.SavedTrip{trip}, trips...)

	if err := s.persist(ctx, trips); err != nil {
		return nil, err
	}
	return &trip, nil
}

// Delete removes the saved trip with the given id and persists the updated
// collection. An unknown id is a successful no-op.
func (s *SavedTripService) Delete(ctx context.Context, id string) error {
	trips, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := trips[:0]
	for _, t := range trips {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(trips) {
		return nil
	}
	return s.persist(ctx, kept)
}

// IsSaved reports whether the collection already holds a logical duplicate:
// same destination, same start and end dates, and a structurally identical
// itinerary. The check runs before insert by contract, never after.
func (s *SavedTripService) IsSaved(ctx context.Context, destination, startDate, endDate string, itinerary []domain.DayPlan) (bool, error) {
	trips, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	for _, t := range trips {
		if t.Destination == destination &&
			t.StartDate == startDate &&
			t.EndDate == endDate &&
			reflect.DeepEqual(t.Trip.Itinerary, itinerary) {
			return true, nil
		}
	}
	return false, nil
}
