package findcare

import (
	"strconv"
	"strings"

	"github.com/healthagg/healthagg/internal/domain/geo"
)

// queryTimeoutSec is the timeout stated in the query payload; the map-data
// service enforces it, the caller only propagates context cancellation.
const queryTimeoutSec = 15

// clause is one "match entities of this tag within the radius" term.
type clause struct {
	elem  string // node or way
	key   string
	value string
}

// baseClauses are always present: hospitals and clinics, both point and
// area representations.
var baseClauses = []clause{
	{"node", "amenity", "hospital"},
	{"way", "amenity", "hospital"},
	{"node", "amenity", "clinic"},
	{"way", "amenity", "clinic"},
}

// keywordClauses adds specialty categories when the search text contains
// any of the trigger words. Triggers are substring matches, so broader
// text like "medication" still selects the pharmacy set.
var keywordClauses = []struct {
	words   []string
	clauses []clause
}{
	{
		words: []string{"doctor", "physician", "specialist"},
		clauses: []clause{
			{"node", "amenity", "doctors"},
			{"node", "healthcare", "doctor"},
			{"way", "amenity", "doctors"},
		},
	},
	{
		words: []string{"lab", "test", "diagnostic", "pathology", "blood"},
		clauses: []clause{
			{"node", "healthcare", "laboratory"},
			{"way", "healthcare", "laboratory"},
			{"node", "amenity", "laboratory"},
		},
	},
	{
		words: []string{"pharmacy", "medicine", "med", "drug"},
		clauses: []clause{
			{"node", "amenity", "pharmacy"},
			{"way", "amenity", "pharmacy"},
		},
	},
	{
		words: []string{"dentist", "dental", "tooth"},
		clauses: []clause{
			{"node", "amenity", "dentist"},
			{"way", "amenity", "dentist"},
		},
	},
	{
		words: []string{"eye", "optician", "vision", "ophthalmol"},
		clauses: []clause{
			{"node", "healthcare", "optometrist"},
			{"node", "shop", "optician"},
		},
	},
	{
		words: []string{"mental", "psychiatr", "psycholog", "counsel", "therap"},
		clauses: []clause{
			{"node", "healthcare", "psychotherapist"},
			{"node", "healthcare", "counselling"},
		},
	},
}

// fallbackClauses keep a bare search useful when no specialty keyword
// matched: a generic mix of doctors, pharmacies, and labs.
var fallbackClauses = []clause{
	{"node", "amenity", "doctors"},
	{"node", "amenity", "pharmacy"},
	{"node", "healthcare", "laboratory"},
}

// BuildQuery composes the map-data query for a point, radius in meters,
// and free-text search phrase.
func BuildQuery(p geo.Point, radiusMeters int, text string) string {
	clauses := make([]clause, 0, len(baseClauses)+4)
	clauses = append(clauses, baseClauses...)

	lower := strings.ToLower(text)
	for _, kc := range keywordClauses {
		for _, w := range kc.words {
			if strings.Contains(lower, w) {
				clauses = append(clauses, kc.clauses...)
				break
			}
		}
	}

	if len(clauses) <= len(baseClauses) {
		clauses = append(clauses, fallbackClauses...)
	}

	around := "(around:" + strconv.Itoa(radiusMeters) + "," +
		strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," +
		strconv.FormatFloat(p.Lon, 'f', -1, 64) + ")"

	var b strings.Builder
	b.WriteString("[out:json][timeout:" + strconv.Itoa(queryTimeoutSec) + "];\n(\n")
	for _, c := range clauses {
		b.WriteString("  " + c.elem + `["` + c.key + `"="` + c.value + `"]` + around + ";\n")
	}
	b.WriteString(");\nout center body;")
	return b.String()
}
