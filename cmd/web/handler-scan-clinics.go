package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/adermis/adermis/internal/clinics"
	"github.com/adermis/adermis/internal/errors"
	"github.com/adermis/adermis/internal/journey"
	"github.com/adermis/adermis/internal/models"
)

type clinicsTemplateData struct {
	BaseTemplateData

	HasCondition bool
	Condition    string
	Searched     bool
	Clinics      []models.Clinic
	MarkersJSON  string
}

// clinicsPage shows the clinic search once a diagnosis exists. Without one
// there is nothing to search for, so the page explains the missing step
// instead of asking for the visitor's location.
func (app *application) clinicsPage(w http.ResponseWriter, r *http.Request) {
	result, ok := app.journey.Result(r.Context())

	data := clinicsTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		HasCondition:     ok && result.Condition != "",
		Condition:        result.Condition,
	}
	app.render(w, r, http.StatusOK, "clinics", data)
}

func (app *application) clinicsSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result, ok := app.journey.Result(ctx)
	if !ok || result.Condition == "" {
		app.flash(r, "Complete a scan first so we can find clinics for your condition.")
		http.Redirect(w, r, "/clinics", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	lat, latErr := strconv.ParseFloat(r.PostForm.Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(r.PostForm.Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		app.flash(r, "We couldn't read your location. Allow location access or enter coordinates manually.")
		http.Redirect(w, r, "/clinics", http.StatusSeeOther)
		return
	}
	location := models.LatLng{Lat: lat, Lng: lng}

	results, err := app.clinics.Find(ctx, result.Condition, location)
	if err != nil {
		if errors.Is(err, journey.ErrNetworkFailure) {
			app.flash(r, "The clinic search is unavailable right now. Please try again.")
			app.logger.LogAttrs(ctx, slog.LevelWarn, "clinic search failed", errors.SlogError(err))
			http.Redirect(w, r, "/clinics", http.StatusSeeOther)
			return
		}
		app.serverError(w, r, errors.Wrap(err, "find clinics"))
		return
	}

	markers := clinics.BuildMarkers(results, location)
	markersJSON, err := json.Marshal(markers)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "marshal markers"))
		return
	}

	data := clinicsTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		HasCondition:     true,
		Condition:        result.Condition,
		Searched:         true,
		Clinics:          results,
		MarkersJSON:      string(markersJSON),
	}
	app.render(w, r, http.StatusOK, "clinics", data)
}
