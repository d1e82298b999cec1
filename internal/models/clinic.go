package models

// ClinicCategory is one of the four fixed marker categories on the clinic map.
type ClinicCategory string

const (
	ClinicCategoryNGO        ClinicCategory = "NGO"
	ClinicCategoryGovernment ClinicCategory = "Government"
	ClinicCategoryPrivate    ClinicCategory = "Private"
	ClinicCategoryUser       ClinicCategory = "User"
)

// markerIcons maps each category to its map marker style.
var markerIcons = map[ClinicCategory]string{
	ClinicCategoryNGO:        "http://maps.google.com/mapfiles/ms/icons/green-dot.png",
	ClinicCategoryGovernment: "http://maps.google.com/mapfiles/ms/icons/red-dot.png",
	ClinicCategoryPrivate:    "http://maps.google.com/mapfiles/ms/icons/blue-dot.png",
	ClinicCategoryUser:       "http://maps.google.com/mapfiles/ms/icons/yellow-dot.png",
}

// MarkerIcon returns the marker icon URL for the category. Unknown categories
// fall back to the private-clinic marker.
func (c ClinicCategory) MarkerIcon() string {
	if icon, ok := markerIcons[c]; ok {
		return icon
	}
	return markerIcons[ClinicCategoryPrivate]
}

// LatLng is a geographic coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Clinic is one care provider returned by the clinic-search service. Clinics
// are rendered as map markers and never persisted.
type Clinic struct {
	Category ClinicCategory `json:"category"`
	Name     string         `json:"name"`
	PlaceID  string         `json:"place_id"`
	Address  string         `json:"address,omitempty"`
	Phone    string         `json:"phone,omitempty"`
	Website  string         `json:"website,omitempty"`
	Rating   float64        `json:"rating,omitempty"`
	Location LatLng         `json:"location"`
	Hours    []string       `json:"hours,omitempty"`
}
