package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/adermis/adermis/internal/contexthelpers"
	"github.com/adermis/adermis/internal/errors"
	"github.com/adermis/adermis/internal/journey"
	"github.com/adermis/adermis/internal/models"
	"github.com/adermis/adermis/internal/treatment"
)

type scanAnalysisTemplateData struct {
	BaseTemplateData

	Result       models.AnalysisResult
	HasTreatment bool
	Treatment    []treatment.Section
}

// scanAnalyze sends the collected input to the inference service. The
// in-flight guard makes repeated submissions from impatient double clicks
// collapse into one backend call.
func (app *application) scanAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	input := app.journey.Input(ctx)

	if !input.HasContent() {
		app.flash(r, "Add a photo or describe your skin concern first.")
		http.Redirect(w, r, "/scan", http.StatusSeeOther)
		return
	}

	if !app.journey.BeginAnalysis(ctx) {
		app.flash(r, "Your analysis is already in progress. Give it a moment.")
		http.Redirect(w, r, "/scan", http.StatusSeeOther)
		return
	}
	defer app.journey.EndAnalysis(ctx)

	var image []byte
	if input.ImageToken != "" {
		if data, _, ok := app.images.Get(input.ImageToken); ok {
			image = data
		}
	}

	description := input.TextDescription
	if len(input.SelectedConcerns) > 0 {
		description = strings.TrimSpace(
			description + "\nReported concerns: " + strings.Join(input.SelectedConcerns, ", "))
	}

	result, err := app.inference.Analyze(ctx, image, input.ImageName, description)
	if err != nil {
		switch {
		case errors.Is(err, journey.ErrInputMissing):
			app.flash(r, "Add a photo or describe your skin concern first.")
		case errors.Is(err, journey.ErrEmptyResult):
			app.flash(r, "The analysis found nothing conclusive. Try a clearer, well-lit photo.")
		case errors.Is(err, journey.ErrNetworkFailure):
			app.flash(r, "The analysis service is unreachable right now. Please try again.")
		default:
			app.serverError(w, r, errors.Wrap(err, "analyze scan"))
			return
		}
		app.logger.LogAttrs(ctx, slog.LevelWarn, "analysis failed", errors.SlogError(err))
		http.Redirect(w, r, "/scan", http.StatusSeeOther)
		return
	}

	// A new result starts a fresh diagnosis; any treatment from a previous
	// analysis no longer applies.
	app.journey.SetResult(ctx, result)
	app.journey.SetTreatment(ctx, "")
	http.Redirect(w, r, "/scan/analysis", http.StatusSeeOther)
}

func (app *application) scanAnalysisPage(w http.ResponseWriter, r *http.Request) {
	result, ok := app.journey.Result(r.Context())
	if !ok {
		app.flash(r, "Start with a scan to see your analysis.")
		http.Redirect(w, r, "/scan", http.StatusSeeOther)
		return
	}

	treatmentText := app.journey.Treatment(r.Context())
	data := scanAnalysisTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Result:           result,
		HasTreatment:     treatmentText != "",
		Treatment:        treatment.Parse(treatmentText),
	}
	app.render(w, r, http.StatusOK, "scan-analysis", data)
}

// scanFollowUp submits the follow-up answers for the final treatment plan and
// records the scan in the history of a signed-in user.
func (app *application) scanFollowUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result, ok := app.journey.Result(ctx)
	if !ok {
		app.flash(r, "Start with a scan before answering follow-up questions.")
		http.Redirect(w, r, "/scan", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	answers := make(map[string]string, len(result.FollowUpQuestions))
	for i, question := range result.FollowUpQuestions {
		answers[question] = strings.TrimSpace(r.PostForm.Get(fmt.Sprintf("answer-%d", i)))
	}

	treatmentText, err := app.inference.FinalDiagnosis(ctx, result, answers)
	if err != nil {
		// The analysis result stays untouched so the user can retry.
		app.flash(r, "We couldn't build your treatment plan. Please try again.")
		app.logger.LogAttrs(ctx, slog.LevelWarn, "final diagnosis failed", errors.SlogError(err))
		http.Redirect(w, r, "/scan/analysis", http.StatusSeeOther)
		return
	}
	app.journey.SetTreatment(ctx, treatmentText)

	if userID := contexthelpers.AuthenticatedUserID(ctx); userID != 0 {
		if _, recordErr := app.scans.Record(ctx, userID, result); recordErr != nil {
			// History is best effort; the treatment plan must still reach the user.
			app.logger.Warn("could not record scan", errors.SlogError(recordErr))
		}
	}

	http.Redirect(w, r, "/scan/analysis", http.StatusSeeOther)
}

// scanReset discards the whole journey so the next scan starts clean.
func (app *application) scanReset(w http.ResponseWriter, r *http.Request) {
	input := app.journey.Input(r.Context())
	if input.ImageToken != "" {
		app.images.Remove(input.ImageToken)
	}
	app.journey.Reset(r.Context())
	http.Redirect(w, r, "/scan", http.StatusSeeOther)
}
