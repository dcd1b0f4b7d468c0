package provider

import "testing"

func TestCategoryFromTags_Priority(t *testing.T) {
	cases := []struct {
		name string
		tags map[string]string
		want Category
	}{
		{"amenity hospital", map[string]string{"amenity": "hospital"}, Hospital},
		{"healthcare hospital", map[string]string{"healthcare": "hospital"}, Hospital},
		{"clinic", map[string]string{"amenity": "clinic"}, Clinic},
		{"amenity doctors", map[string]string{"amenity": "doctors"}, Doctor},
		{"healthcare doctor", map[string]string{"healthcare": "doctor"}, Doctor},
		{"pharmacy", map[string]string{"amenity": "pharmacy"}, Pharmacy},
		{"dentist", map[string]string{"amenity": "dentist"}, Dentist},
		{"healthcare laboratory", map[string]string{"healthcare": "laboratory"}, Laboratory},
		{"amenity laboratory", map[string]string{"amenity": "laboratory"}, Laboratory},
		{"optometrist", map[string]string{"healthcare": "optometrist"}, EyeCare},
		{"psychotherapist", map[string]string{"healthcare": "psychotherapist"}, MentalHealth},
		{"counselling", map[string]string{"healthcare": "counselling"}, MentalHealth},
		{"unknown tags", map[string]string{"shop": "optician"}, Generic},
		{"no tags", map[string]string{}, Generic},
		// hospital wins over any lower-priority tag on the same entity
		{"hospital beats pharmacy", map[string]string{"amenity": "hospital", "healthcare": "pharmacy"}, Hospital},
		{"hospital healthcare beats dentist amenity", map[string]string{"amenity": "dentist", "healthcare": "hospital"}, Hospital},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CategoryFromTags(tc.tags); got != tc.want {
				t.Errorf("CategoryFromTags(%v) = %q, want %q", tc.tags, got, tc.want)
			}
		})
	}
}

func TestElementLocation(t *testing.T) {
	node := Element{Lat: 12.97, Lon: 77.59}
	if lat, lon, ok := node.Location(); !ok || lat != 12.97 || lon != 77.59 {
		t.Errorf("node location = (%v, %v, %v)", lat, lon, ok)
	}

	way := Element{Center: &Center{Lat: 13.0, Lon: 77.6}}
	if lat, lon, ok := way.Location(); !ok || lat != 13.0 || lon != 77.6 {
		t.Errorf("way location = (%v, %v, %v)", lat, lon, ok)
	}

	bare := Element{}
	if _, _, ok := bare.Location(); ok {
		t.Error("element without point or centroid must not resolve a location")
	}
}

func TestElementTagAccessors(t *testing.T) {
	e := Element{Tags: map[string]string{
		"name":                  "City Dental Studio",
		"healthcare:speciality": "orthodontics",
		"contact:phone":         "+91 80 1234",
		"website":               "https://dental.example",
		"addr:street":           "MG Road",
		"addr:city":             "Bengaluru",
		"addr:postcode":         "560001",
	}}

	if e.Name() != "City Dental Studio" {
		t.Errorf("Name = %q", e.Name())
	}
	if e.Specialty() != "orthodontics" {
		t.Errorf("Specialty = %q", e.Specialty())
	}
	if e.Phone() != "+91 80 1234" {
		t.Errorf("Phone = %q", e.Phone())
	}
	if e.Website() != "https://dental.example" {
		t.Errorf("Website = %q", e.Website())
	}
	if want := "MG Road, Bengaluru, 560001"; e.Address() != want {
		t.Errorf("Address = %q, want %q", e.Address(), want)
	}
}

func TestElementSpecialty_Precedence(t *testing.T) {
	e := Element{Tags: map[string]string{
		"speciality": "cardiology",
		"specialty":  "ignored",
	}}
	if e.Specialty() != "cardiology" {
		t.Errorf("Specialty = %q, want cardiology", e.Specialty())
	}
}
