package main

import (
	"net/http"
	"slices"

	"github.com/adermis/adermis/internal/contexthelpers"
	"github.com/adermis/adermis/internal/errors"
	"github.com/adermis/adermis/internal/models"
)

// The dashboard shows the most recent scans; the history page has the rest.
const recentScanLimit = 10

type dashboardTemplateData struct {
	BaseTemplateData

	User  *models.User
	Stats models.ScanStats
	Scans []models.Scan
}

func (app *application) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := contexthelpers.AuthenticatedUserID(ctx)

	user, err := app.users.Get(ctx, userID)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "get user"))
		return
	}

	stats, err := app.scans.Stats(ctx, userID)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "scan stats"))
		return
	}

	scans, err := app.scans.Latest(ctx, userID, recentScanLimit)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "latest scans"))
		return
	}

	data := dashboardTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		User:             user,
		Stats:            stats,
		Scans:            scans,
	}
	app.render(w, r, http.StatusOK, "dashboard", data)
}

type historyTemplateData struct {
	BaseTemplateData

	Scans      []models.Scan
	Severity   string
	Severities []models.Severity
}

// dashboardHistory lists the user's full scan history newest first, optionally
// narrowed to one severity bucket.
func (app *application) dashboardHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := contexthelpers.AuthenticatedUserID(ctx)

	scans, err := app.scans.Latest(ctx, userID, 0)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "scan history"))
		return
	}

	severities := []models.Severity{models.SeverityLow, models.SeverityMedium, models.SeverityHigh}
	severity := r.URL.Query().Get("severity")
	if slices.Contains(severities, models.Severity(severity)) {
		scans = slices.DeleteFunc(scans, func(scan models.Scan) bool {
			return scan.Severity != models.Severity(severity)
		})
	} else {
		severity = ""
	}

	data := historyTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Scans:            scans,
		Severity:         severity,
		Severities:       severities,
	}
	app.render(w, r, http.StatusOK, "history", data)
}
