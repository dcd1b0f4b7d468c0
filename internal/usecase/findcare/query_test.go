package findcare

import (
	"strings"
	"testing"

	"github.com/healthagg/healthagg/internal/domain/geo"
)

var testPoint = geo.Point{Lat: 12.97, Lon: 77.59}

func TestBuildQuery_AlwaysIncludesBaseCategories(t *testing.T) {
	ql := BuildQuery(testPoint, 10000, "dentist")

	for _, want := range []string{
		`node["amenity"="hospital"]`,
		`way["amenity"="hospital"]`,
		`node["amenity"="clinic"]`,
		`way["amenity"="clinic"]`,
	} {
		if !strings.Contains(ql, want) {
			t.Errorf("query missing base clause %s:\n%s", want, ql)
		}
	}
	if !strings.Contains(ql, "(around:10000,12.97,77.59)") {
		t.Errorf("query missing around filter:\n%s", ql)
	}
	if !strings.Contains(ql, "[out:json][timeout:15];") {
		t.Errorf("query missing header:\n%s", ql)
	}
	if !strings.Contains(ql, "out center body;") {
		t.Errorf("query missing output directive:\n%s", ql)
	}
}

func TestBuildQuery_KeywordSelectsSpecialtyClauses(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  string
	}{
		{"dentist", "dentist near me", `node["amenity"="dentist"]`},
		{"doctor", "find a doctor", `node["amenity"="doctors"]`},
		{"lab", "blood test lab", `node["healthcare"="laboratory"]`},
		{"pharmacy substring", "medication refill", `node["amenity"="pharmacy"]`},
		{"eye", "eye checkup", `node["healthcare"="optometrist"]`},
		{"mental", "therapy session", `node["healthcare"="psychotherapist"]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ql := BuildQuery(testPoint, 5000, tc.query)
			if !strings.Contains(ql, tc.want) {
				t.Errorf("query for %q missing %s:\n%s", tc.query, tc.want, ql)
			}
		})
	}
}

func TestBuildQuery_NoKeywordFallsBackToGenericMix(t *testing.T) {
	for _, q := range []string{"", "somewhere nearby"} {
		ql := BuildQuery(testPoint, 10000, q)

		for _, want := range []string{
			`node["amenity"="doctors"]`,
			`node["amenity"="pharmacy"]`,
			`node["healthcare"="laboratory"]`,
		} {
			if !strings.Contains(ql, want) {
				t.Errorf("fallback query for %q missing %s:\n%s", q, want, ql)
			}
		}
	}
}

func TestBuildQuery_SpecialtyMatchSuppressesFallback(t *testing.T) {
	ql := BuildQuery(testPoint, 10000, "dentist")

	if strings.Contains(ql, `node["amenity"="pharmacy"]`) {
		t.Errorf("dentist query must not carry the generic fallback mix:\n%s", ql)
	}
}

func TestBuildQuery_CaseInsensitive(t *testing.T) {
	ql := BuildQuery(testPoint, 10000, "DENTIST")
	if !strings.Contains(ql, `node["amenity"="dentist"]`) {
		t.Errorf("uppercase query must still match:\n%s", ql)
	}
}
