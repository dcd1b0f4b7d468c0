package findcare

import (
	"sort"
	"strings"

	"github.com/healthagg/healthagg/internal/domain/geo"
	"github.com/healthagg/healthagg/internal/domain/provider"
)

// Relevance weights. The theoretical maximum for a single provider is 135.
const (
	weightNameMatch      = 50
	weightSpecialtyMatch = 40
	weightCategoryMatch  = 30
	weightContactInfo    = 10
	weightOpeningHours   = 5
)

// Rank converts raw map entities into an ordered, length-limited provider
// list. Unnamed entities and entities without resolvable coordinates are
// dropped. The returned total counts the survivors before truncation.
func Rank(elements []provider.Element, origin geo.Point, query string, limit int) ([]provider.CareProvider, int) {
	queryLower := strings.ToLower(query)
	queryWords := strings.Fields(queryLower)

	providers := make([]provider.CareProvider, 0, len(elements))
	for i := range elements {
		e := &elements[i]
		name := e.Name()
		if name == "" {
			continue
		}
		lat, lon, ok := e.Location()
		if !ok {
			continue
		}

		category := e.Category()
		specialty := e.Specialty()
		phone := e.Phone()
		website := e.Website()
		hours := e.Tags["opening_hours"]

		providers = append(providers, provider.CareProvider{
			ID:           e.ID,
			Name:         name,
			Type:         category,
			Specialty:    specialty,
			Address:      e.Address(),
			Phone:        phone,
			Website:      website,
			OpeningHours: hours,
			DistanceKm:   geo.RoundKm1(geo.Haversine(origin, geo.Point{Lat: lat, Lon: lon})),
			Lat:          lat,
			Lon:          lon,
			Relevance:    score(queryLower, queryWords, name, specialty, category, phone, website, hours),
			Operator:     e.Tags["operator"],
			Emergency:    e.Tags["emergency"] == "yes",
		})
	}

	sort.SliceStable(providers, func(i, j int) bool {
		if providers[i].Relevance != providers[j].Relevance {
			return providers[i].Relevance > providers[j].Relevance
		}
		return providers[i].DistanceKm < providers[j].DistanceKm
	})

	total := len(providers)
	if limit > 0 && len(providers) > limit {
		providers = providers[:limit]
	}
	return providers, total
}

func score(
	queryLower string, queryWords []string,
	name, specialty string, category provider.Category,
	phone, website, hours string,
) int {
	s := 0

	nameLower := strings.ToLower(name)
	for _, w := range queryWords {
		if strings.Contains(nameLower, w) {
			s += weightNameMatch
			break
		}
	}

	if specialty != "" {
		specialtyLower := strings.ToLower(specialty)
		for _, w := range queryWords {
			if strings.Contains(specialtyLower, w) {
				s += weightSpecialtyMatch
				break
			}
		}
	}

	if queryLower != "" && strings.Contains(queryLower, strings.ToLower(string(category))) {
		s += weightCategoryMatch
	}

	if phone != "" || website != "" {
		s += weightContactInfo
	}
	if hours != "" {
		s += weightOpeningHours
	}

	return s
}
