package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tebi-travel/go-trip-backend/internal/domain"
)

func newSavedService(kv KVStore) *SavedTripService {
	s := NewSavedTripService(kv)
	var seq int
	s.newID = func() string {
		seq++
		return fmt.Sprintf("trip-%d", seq)
	}
	clock := time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return s
}

func sampleContent() domain.TripContent {
	return domain.TripContent{
		Itinerary: []domain.DayPlan{{
			Day:          1,
			Date:         "Friday, April 3",
			Morning:      domain.TimeSlot{Description: "Visit the Louvre", PlaceName: "Louvre Museum"},
			Afternoon:    domain.TimeSlot{Description: "Walk the Tuileries", PlaceName: "Tuileries Garden"},
			Evening:      domain.TimeSlot{Description: "Dine in Le Marais", PlaceName: "Chez Janou"},
			LocationName: "1st Arrondissement",
		}},
		Hotels: []domain.HotelRec{{Name: "Hotel A", Location: "1st", EstimatedPrice: "$120-150/night"}},
		PackingList: domain.PackingList{
			Essentials: []string{"Passport"},
			Clothing:   []string{"Jacket"},
			Extras:     []string{"Camera"},
		},
		Weather: []domain.DayWeather{{Date: "Fri, Apr 3", Condition: "Sunny", Icon: domain.IconSun, TempHigh: 64, TempLow: 48}},
	}
}

func TestSavedTrips_SaveListDeleteRoundTrip(t *testing.T) {
	kv := newFakeKV()
	s := newSavedService(kv)
	ctx := context.Background()

	req := parisRequest()
	saved, err := s.Save(ctx, req, sampleContent())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID == "" || saved.SavedAt.IsZero() {
		t.Fatalf("save did not assign id/timestamp: %+v", saved)
	}
	if saved.StartDate != "2026-04-03" || saved.EndDate != "2026-04-04" {
		t.Fatalf("dates = %q/%q; want 2026-04-03/2026-04-04", saved.StartDate, saved.EndDate)
	}
	if saved.TravelStyles != "Relax,Food Trip" {
		t.Fatalf("styles = %q; want %q", saved.TravelStyles, "Relax,Food Trip")
	}

	trips, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(trips) != 1 || trips[0].ID != saved.ID {
		t.Fatalf("list = %+v; want exactly the saved trip", trips)
	}

	if err := s.Delete(ctx, saved.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	trips, err = s.List(ctx)
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(trips) != 0 {
		t.Fatalf("list after delete has %d trips; want 0", len(trips))
	}
}

func TestSavedTrips_ListOrdersByMostRecent(t *testing.T) {
	kv := newFakeKV()
	s := newSavedService(kv)
	ctx := context.Background()

	first, _ := s.Save(ctx, parisRequest(), sampleContent())

	later := parisRequest()
	later.Destination = "Tokyo, Japan"
	second, err := s.Save(ctx, later, sampleContent())
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	trips, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(trips) != 2 || trips[0].ID != second.ID || trips[1].ID != first.ID {
		t.Fatalf("list order = [%s %s]; want newest first", trips[0].ID, trips[1].ID)
	}
}

func TestSavedTrips_GetByID(t *testing.T) {
	kv := newFakeKV()
	s := newSavedService(kv)
	ctx := context.Background()

	saved, _ := s.Save(ctx, parisRequest(), sampleContent())

	got, err := s.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Destination != "Paris, France" {
		t.Fatalf("got destination %q", got.Destination)
	}

	if _, err := s.Get(ctx, "nope"); !errors.Is(err, ErrSavedTripNotFound) {
		t.Fatalf("get unknown id error = %v; want ErrSavedTripNotFound", err)
	}
}

func TestSavedTrips_DeleteUnknownIDIsNoOp(t *testing.T) {
	kv := newFakeKV()
	s := newSavedService(kv)
	ctx := context.Background()

	s.Save(ctx, parisRequest(), sampleContent())
	putsBefore := kv.puts

	if err := s.Delete(ctx, "does-not-exist"); err != nil {
		t.Fatalf("delete unknown id: %v", err)
	}
	if kv.puts != putsBefore {
		t.Fatalf("no-op delete rewrote the collection")
	}

	trips, _ := s.List(ctx)
	if len(trips) != 1 {
		t.Fatalf("collection changed by no-op delete")
	}
}

func TestSavedTrips_IsSavedMatchesDeepEquality(t *testing.T) {
	kv := newFakeKV()
	s := newSavedService(kv)
	ctx := context.Background()

	content := sampleContent()
	s.Save(ctx, parisRequest(), content)

	dup, err := s.IsSaved(ctx, "Paris, France", "2026-04-03", "2026-04-04", content.Itinerary)
	if err != nil {
		t.Fatalf("issaved: %v", err)
	}
	if !dup {
		t.Fatalf("identical trip not reported as saved")
	}

	// Same destination and dates but a different itinerary is a new trip.
	other := sampleContent()
	other.Itinerary[0].Morning.PlaceName = "Musee d'Orsay"
	dup, err = s.IsSaved(ctx, "Paris, France", "2026-04-03", "2026-04-04", other.Itinerary)
	if err != nil {
		t.Fatalf("issaved: %v", err)
	}
	if dup {
		t.Fatalf("different itinerary reported as duplicate")
	}

	// Different dates are never a duplicate.
	dup, _ = s.IsSaved(ctx, "Paris, France", "2026-04-10", "2026-04-11", content.Itinerary)
	if dup {
		t.Fatalf("different dates reported as duplicate")
	}
}

func TestSavedTrips_PersistenceErrorsAreTyped(t *testing.T) {
	kv := newFakeKV()
	kv.getErr = errors.New("disk gone")
	s := newSavedService(kv)

	var pe *PersistenceError
	if _, err := s.List(context.Background()); !errors.As(err, &pe) {
		t.Fatalf("list error = %T; want *PersistenceError", err)
	}

	kv.getErr = nil
	kv.putErr = errors.New("readonly fs")
	if _, err := s.Save(context.Background(), parisRequest(), sampleContent()); !errors.As(err, &pe) {
		t.Fatalf("save error type; want *PersistenceError")
	}
}
