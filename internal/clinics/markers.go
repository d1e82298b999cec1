package clinics

import (
	"github.com/adermis/adermis/internal/models"
)

// Marker is one map marker in the payload handed to the page script.
type Marker struct {
	Title    string        `json:"title"`
	Category string        `json:"category"`
	Icon     string        `json:"icon"`
	Location models.LatLng `json:"location"`
	Address  string        `json:"address,omitempty"`
	Phone    string        `json:"phone,omitempty"`
	Website  string        `json:"website,omitempty"`
	Rating   float64       `json:"rating,omitempty"`
}

// BuildMarkers converts a clinic result set plus the user's own position into
// the complete replacement marker set for the map. It is pure: each call
// rebuilds the whole set, so redrawing is idempotent and markers from a prior
// result can never leak into the next.
func BuildMarkers(results []models.Clinic, userLocation models.LatLng) []Marker {
	markers := make([]Marker, 0, len(results)+1)
	for _, clinic := range results {
		markers = append(markers, Marker{
			Title:    clinic.Name,
			Category: string(clinic.Category),
			Icon:     clinic.Category.MarkerIcon(),
			Location: clinic.Location,
			Address:  clinic.Address,
			Phone:    clinic.Phone,
			Website:  clinic.Website,
			Rating:   clinic.Rating,
		})
	}
	markers = append(markers, Marker{
		Title:    "You are here",
		Category: string(models.ClinicCategoryUser),
		Icon:     models.ClinicCategoryUser.MarkerIcon(),
		Location: userLocation,
	})
	return markers
}
