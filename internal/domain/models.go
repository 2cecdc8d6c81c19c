// Package domain defines the core data model for trip generation: the
// immutable trip request with its cache fingerprint, the generated trip
// content as returned by the AI generator, saved trips, and the persisted
// daily rate-limit state.
//
// TripContent and its nested types use the camelCase JSON field names of the
// generation contract (the generator is asked to return exactly this shape),
// so the same structs decode the AI response and serialize API responses.
package domain

import (
	"strings"
	"time"
)

// Budget is the price tier a trip is planned against.
type Budget string

// Budget tiers, ordered cheapest to most expensive.
const (
	BudgetLow  Budget = "Low"
	BudgetMid  Budget = "Mid"
	BudgetHigh Budget = "High"
	BudgetLuxe Budget = "Luxe"
)

// Valid reports whether b is one of the known budget tiers.
func (b Budget) Valid() bool {
	switch b {
	case BudgetLow, BudgetMid, BudgetHigh, BudgetLuxe:
		return true
	}
	return false
}

// PriceBand returns the nightly hotel price band used when prompting the
// generator for hotel recommendations in this tier.
func (b Budget) PriceBand() string {
	switch b {
	case BudgetLow:
		return "$50-100"
	case BudgetMid:
		return "$100-200"
	case BudgetHigh:
		return "$200-400"
	case BudgetLuxe:
		return "$400+"
	}
	return ""
}

// TravelStyle describes the kind of trip the user wants.
type TravelStyle string

// Selectable travel styles.
const (
	StyleRelax     TravelStyle = "Relax"
	StyleAdventure TravelStyle = "Adventure"
	StyleFoodTrip  TravelStyle = "Food Trip"
	StyleAesthetic TravelStyle = "Aesthetic"
	StyleNightlife TravelStyle = "Nightlife"
	StyleNature    TravelStyle = "Nature"
)

// MaxTravelStyles caps how many styles a single request may combine.
const MaxTravelStyles = 2

// Valid reports whether s is one of the known travel styles.
func (s TravelStyle) Valid() bool {
	switch s {
	case StyleRelax, StyleAdventure, StyleFoodTrip, StyleAesthetic, StyleNightlife, StyleNature:
		return true
	}
	return false
}

// TripRequest is the immutable input to trip generation. Dates are calendar
// dates; any time-of-day component is ignored.
type TripRequest struct {
	Destination  string
	StartDate    time.Time
	EndDate      time.Time
	Budget       Budget
	TravelStyles []TravelStyle
}

// Days returns the trip length in calendar days, inclusive of both endpoints
// (a same-day trip is 1 day).
func (r TripRequest) Days() int {
	start := truncateToDay(r.StartDate)
	end := truncateToDay(r.EndDate)
	return int(end.Sub(start).Hours()/24) + 1
}

// Fingerprint returns the deterministic identity of the request, used as the
// generation cache and dedup key. Styles contribute in submitted order, so
// the same styles in a different order are a different fingerprint.
func (r TripRequest) Fingerprint() string {
	return strings.Join([]string{
		r.Destination,
		truncateToDay(r.StartDate).Format(time.DateOnly),
		truncateToDay(r.EndDate).Format(time.DateOnly),
		string(r.Budget),
		r.StylesJoined(),
	}, "|")
}

// StylesJoined returns the travel styles comma-joined in submitted order,
// the representation used on the wire and in saved trips.
func (r TripRequest) StylesJoined() string {
	styles := make([]string, len(r.TravelStyles))
	for i, s := range r.TravelStyles {
		styles[i] = string(s)
	}
	return strings.Join(styles, ",")
}

// truncateToDay reduces t to its calendar date: the Y-M-D it carries in its
// own location, re-anchored at UTC midnight. Anchoring every date in the same
// frame keeps Days and Fingerprint stable when a request mixes plain dates
// with offset-bearing timestamps.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// TimeSlot is one part of a day (morning, afternoon or evening).
type TimeSlot struct {
	Description string `json:"description"`
	PlaceName   string `json:"placeName"`
}

// DayPlan is the itinerary for a single trip day.
type DayPlan struct {
	Day          int      `json:"day"`
	Date         string   `json:"date"`
	Morning      TimeSlot `json:"morning"`
	Afternoon    TimeSlot `json:"afternoon"`
	Evening      TimeSlot `json:"evening"`
	LocationName string   `json:"locationName"`
}

// HotelRec is a single hotel recommendation.
type HotelRec struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Location       string `json:"location"`
	EstimatedPrice string `json:"estimatedPrice"`
}

// WeatherIcon is the pictogram hint attached to a daily forecast.
type WeatherIcon string

// Weather icons the generator may return.
const (
	IconSun          WeatherIcon = "sun"
	IconCloud        WeatherIcon = "cloud"
	IconRain         WeatherIcon = "rain"
	IconPartlyCloudy WeatherIcon = "partly-cloudy"
)

// DayWeather is the forecast for a single trip day.
type DayWeather struct {
	Date      string      `json:"date"`
	Condition string      `json:"condition"`
	Icon      WeatherIcon `json:"icon"`
	TempHigh  int         `json:"tempHigh"`
	TempLow   int         `json:"tempLow"`
	Summary   string      `json:"summary"`
}

// PackingList groups suggested items by category.
type PackingList struct {
	Essentials []string `json:"essentials"`
	Clothing   []string `json:"clothing"`
	Extras     []string `json:"extras"`
}

// TripContent is the full generated result for one TripRequest. It is
// treated as immutable once validated.
type TripContent struct {
	Itinerary   []DayPlan    `json:"itinerary"`
	Hotels      []HotelRec   `json:"hotels"`
	PackingList PackingList  `json:"packingList"`
	Weather     []DayWeather `json:"weather"`
}

// RateLimitState is the persisted daily generation counter. Date is a
// calendar-day key ("YYYY-M-D", no zero padding); Count is the number of
// generations already used on that day.
type RateLimitState struct {
	Count int    `json:"count"`
	Date  string `json:"date"`
}

// StateEntry is one persisted application-state document: a fixed key and a
// JSON value. The rate-limit counter and the saved-trip collection each live
// under one key.
type StateEntry struct {
	Key       string    `json:"key"        gorm:"type:varchar(64);primaryKey"`
	Value     string    `json:"-"          gorm:"type:text;not null"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the state table name regardless of GORM pluralization.
func (StateEntry) TableName() string { return "app_state" }

// SavedTrip is a user-selected generation result persisted by the saved-trip
// store. The request fields are kept alongside the content so a saved trip
// can be rendered without regenerating.
type SavedTrip struct {
	ID           string      `json:"id"`
	Destination  string      `json:"destination"`
	StartDate    string      `json:"start_date"`
	EndDate      string      `json:"end_date"`
	Budget       string      `json:"budget"`
	TravelStyles string      `json:"travel_styles"`
	Trip         TripContent `json:"trip"`
	SavedAt      time.Time   `json:"saved_at"`
}
