// Package provider defines the care-provider view model and the raw
// map-data entities it is derived from.
package provider

import "strings"

// Category is the fixed classification of a care provider, derived from
// map-data attributes via priority rules.
type Category string

const (
	Hospital     Category = "Hospital"
	Clinic       Category = "Clinic"
	Doctor       Category = "Doctor"
	Pharmacy     Category = "Pharmacy"
	Dentist      Category = "Dentist"
	Laboratory   Category = "Laboratory"
	EyeCare      Category = "Eye Care"
	MentalHealth Category = "Mental Health"
	Generic      Category = "Healthcare"
)

// Center is an area centroid reported by the map-data service.
type Center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Element is a raw geo-tagged entity as returned by the map-data
// service. It lives only for the duration of one request. Point
// geometry carries lat/lon directly; area geometry carries a computed
// centroid instead.
type Element struct {
	ID     int64             `json:"id"`
	Type   string            `json:"type"`
	Lat    float64           `json:"lat,omitempty"`
	Lon    float64           `json:"lon,omitempty"`
	Center *Center           `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

// Name returns the name tag, empty if the entity is unnamed.
func (e *Element) Name() string { return e.Tags["name"] }

// Location resolves the entity's point: direct lat/lon for nodes,
// centroid for areas. ok is false when the entity has neither.
func (e *Element) Location() (lat, lon float64, ok bool) {
	if e.Lat != 0 || e.Lon != 0 {
		return e.Lat, e.Lon, true
	}
	if e.Center != nil {
		return e.Center.Lat, e.Center.Lon, true
	}
	return 0, 0, false
}

// Specialty returns the first non-empty specialty tag variant.
func (e *Element) Specialty() string {
	for _, k := range []string{"healthcare:speciality", "speciality", "specialty"} {
		if v := e.Tags[k]; v != "" {
			return v
		}
	}
	return ""
}

// Phone returns the phone tag, preferring the plain key over contact:phone.
func (e *Element) Phone() string {
	if v := e.Tags["phone"]; v != "" {
		return v
	}
	return e.Tags["contact:phone"]
}

// Website returns the website tag, preferring the plain key over contact:website.
func (e *Element) Website() string {
	if v := e.Tags["website"]; v != "" {
		return v
	}
	return e.Tags["contact:website"]
}

// Address composes a display address from the addr:* tags, empty when none are set.
func (e *Element) Address() string {
	var parts []string
	for _, k := range []string{"addr:street", "addr:housenumber", "addr:city", "addr:postcode"} {
		if v := e.Tags[k]; v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

// categoryRule maps amenity/healthcare tag values to a category.
// Order is the fixed priority: hospital > clinic > doctor > pharmacy >
// dentist > laboratory > eye care > mental health.
var categoryRules = []struct {
	amenity    string
	healthcare string
	category   Category
}{
	{"hospital", "hospital", Hospital},
	{"clinic", "clinic", Clinic},
	{"doctors", "doctor", Doctor},
	{"pharmacy", "", Pharmacy},
	{"dentist", "dentist", Dentist},
	{"laboratory", "laboratory", Laboratory},
	{"", "optometrist", EyeCare},
	{"", "psychotherapist", MentalHealth},
	{"", "counselling", MentalHealth},
}

// CategoryFromTags derives the provider category from the amenity and
// healthcare tags. Unrecognized entities fall back to the generic
// Healthcare category.
func CategoryFromTags(tags map[string]string) Category {
	amenity := tags["amenity"]
	healthcare := tags["healthcare"]
	for _, r := range categoryRules {
		if r.amenity != "" && amenity == r.amenity {
			return r.category
		}
		if r.healthcare != "" && healthcare == r.healthcare {
			return r.category
		}
	}
	return Generic
}

// Category derives the category of the element.
func (e *Element) Category() Category { return CategoryFromTags(e.Tags) }

// CareProvider is the ranked per-request view of a raw element. It is
// constructed fresh for each request and never persisted.
type CareProvider struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Type         Category `json:"type"`
	Specialty    string   `json:"specialty,omitempty"`
	Address      string   `json:"address,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	Website      string   `json:"website,omitempty"`
	OpeningHours string   `json:"openingHours,omitempty"`
	DistanceKm   float64  `json:"distance"`
	Lat          float64  `json:"lat"`
	Lon          float64  `json:"lon"`
	Relevance    int      `json:"relevance"`
	Operator     string   `json:"operator,omitempty"`
	Emergency    bool     `json:"emergency"`
}
