// Package services – SuggestService
//
// City autocomplete over a built-in list of popular destinations. Purely
// in-memory; the list is small enough that a substring scan per keystroke
// is fine.

package services

import (
	"fmt"
	"strings"
)

// maxSuggestions caps how many matches a single query returns.
const maxSuggestions = 10

// CitySuggestion is one autocomplete match. FullText is the canonical
// "City, Country" label; CityName is just the city part.
type CitySuggestion struct {
	ID       string `json:"id"`
	CityName string `json:"city_name"`
	FullText string `json:"full_text"`
}

// SuggestService serves destination autocomplete queries.
type SuggestService struct {
	cities []string
	max    int
}

// NewSuggestService constructs a SuggestService over the built-in popular
// city list.
func NewSuggestService() *SuggestService {
	return &SuggestService{cities: popularCities, max: maxSuggestions}
}

// Suggest returns up to ten cities whose label contains the query,
// case-insensitively. A blank query returns nothing.
func (s *SuggestService) Suggest(query string) []CitySuggestion {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	out := make([]CitySuggestion, 0, s.max)
	for _, city := range s.cities {
		if !strings.Contains(strings.ToLower(city), q) {
			continue
		}
		name, _, _ := strings.Cut(city, ", ")
		out = append(out, CitySuggestion{
			ID:       fmt.Sprintf("%s-%d", name, len(out)),
			CityName: name,
			FullText: city,
		})
		if len(out) >= s.max {
			break
		}
	}
	return out
}

// popularCities is the curated destination list offered by autocomplete.
var popularCities = []string{
	"Amsterdam, Netherlands",
	"Athens, Greece",
	"Auckland, New Zealand",
	"Bali, Indonesia",
	"Bangkok, Thailand",
	"Barcelona, Spain",
	"Beijing, China",
	"Berlin, Germany",
	"Boston, USA",
	"Budapest, Hungary",
	"Buenos Aires, Argentina",
	"Cairo, Egypt",
	"Cancun, Mexico",
	"Cape Town, South Africa",
	"Chicago, USA",
	"Copenhagen, Denmark",
	"Dubai, UAE",
	"Dublin, Ireland",
	"Edinburgh, Scotland",
	"Florence, Italy",
	"Hanoi, Vietnam",
	"Havana, Cuba",
	"Ho Chi Minh City, Vietnam",
	"Hong Kong, China",
	"Honolulu, USA",
	"Istanbul, Turkey",
	"Jakarta, Indonesia",
	"Kyoto, Japan",
	"Las Vegas, USA",
	"Lisbon, Portugal",
	"London, UK",
	"Los Angeles, USA",
	"Madrid, Spain",
	"Manila, Philippines",
	"Marrakech, Morocco",
	"Melbourne, Australia",
	"Mexico City, Mexico",
	"Miami, USA",
	"Milan, Italy",
	"Montreal, Canada",
	"Moscow, Russia",
	"Mumbai, India",
	"Munich, Germany",
	"Nairobi, Kenya",
	"New Delhi, India",
	"New Orleans, USA",
	"New York, USA",
	"Nice, France",
	"Osaka, Japan",
	"Oslo, Norway",
	"Paris, France",
	"Phuket, Thailand",
	"Prague, Czech Republic",
	"Queenstown, New Zealand",
	"Reykjavik, Iceland",
	"Rio de Janeiro, Brazil",
	"Rome, Italy",
	"San Francisco, USA",
	"Santorini, Greece",
	"Seattle, USA",
	"Seoul, South Korea",
	"Seville, Spain",
	"Shanghai, China",
	"Singapore, Singapore",
	"Stockholm, Sweden",
	"Sydney, Australia",
	"Taipei, Taiwan",
	"Tokyo, Japan",
	"Toronto, Canada",
	"Vancouver, Canada",
	"Venice, Italy",
	"Vienna, Austria",
	"Warsaw, Poland",
	"Zurich, Switzerland",
}
