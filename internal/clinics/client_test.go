package clinics

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adermis/adermis/internal/journey"
	"github.com/adermis/adermis/internal/models"
	"github.com/adermis/adermis/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func TestFind(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/find_clinics", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, map[string]any{
			"disease":  "Eczema",
			"location": map[string]any{"lat": 40.0, "lng": -74.0},
			"range":    float64(5),
		}, payload)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"clinics": [
			{"category": "NGO", "name": "Skin Care Trust", "place_id": "p1", "location": {"lat": 40.01, "lng": -74.01}},
			{"category": "Government", "name": "City Hospital", "place_id": "p2", "rating": 4.2, "location": {"lat": 40.02, "lng": -74.02}}
		]}`))
	}))
	defer backend.Close()

	client := NewClient(backend.URL, testhelpers.NewLogger(io.Discard))
	results, err := client.Find(context.Background(), "Eczema", models.LatLng{Lat: 40.0, Lng: -74.0})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, models.ClinicCategoryNGO, results[0].Category)
	require.Equal(t, "City Hospital", results[1].Name)
	require.InDelta(t, 4.2, results[1].Rating, 0.001)
}

func TestFindBackendFailure(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer backend.Close()

	client := NewClient(backend.URL, testhelpers.NewLogger(io.Discard))
	_, err := client.Find(context.Background(), "Eczema", models.LatLng{Lat: 40.0, Lng: -74.0})
	require.ErrorIs(t, err, journey.ErrNetworkFailure)
}

func TestBuildMarkers(t *testing.T) {
	user := models.LatLng{Lat: 40.0, Lng: -74.0}
	first := BuildMarkers([]models.Clinic{
		{Category: models.ClinicCategoryNGO, Name: "Skin Care Trust", Location: models.LatLng{Lat: 40.01, Lng: -74.01}},
		{Category: models.ClinicCategoryPrivate, Name: "Derma Clinic", Location: models.LatLng{Lat: 40.02, Lng: -74.02}},
	}, user)

	require.Len(t, first, 3)
	require.Equal(t, "http://maps.google.com/mapfiles/ms/icons/green-dot.png", first[0].Icon)
	require.Equal(t, "http://maps.google.com/mapfiles/ms/icons/blue-dot.png", first[1].Icon)
	require.Equal(t, "You are here", first[2].Title)
	require.Equal(t, "http://maps.google.com/mapfiles/ms/icons/yellow-dot.png", first[2].Icon)

	// A second result set replaces the marker set entirely.
	second := BuildMarkers([]models.Clinic{
		{Category: models.ClinicCategoryGovernment, Name: "City Hospital", Location: models.LatLng{Lat: 41.0, Lng: -75.0}},
	}, user)
	require.Len(t, second, 2)
	require.Equal(t, "City Hospital", second[0].Title)
	for _, marker := range second {
		require.NotEqual(t, "Skin Care Trust", marker.Title)
		require.NotEqual(t, "Derma Clinic", marker.Title)
	}
}

func TestBuildMarkersEmptyResult(t *testing.T) {
	markers := BuildMarkers(nil, models.LatLng{Lat: 40.0, Lng: -74.0})
	require.Len(t, markers, 1)
	require.Equal(t, "You are here", markers[0].Title)
}
