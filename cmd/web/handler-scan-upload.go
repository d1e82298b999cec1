package main

import (
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/adermis/adermis/internal/errors"
	"github.com/adermis/adermis/internal/models"
)

const maxUploadBytes = 10 << 20 // 10 MiB

type scanUploadTemplateData struct {
	BaseTemplateData

	Input    models.ScanInput
	Concerns []string
	HasImage bool
}

func (app *application) scanUploadPage(w http.ResponseWriter, r *http.Request) {
	input := app.journey.Input(r.Context())

	hasImage := false
	if input.ImageToken != "" {
		_, _, hasImage = app.images.Get(input.ImageToken)
	}

	data := scanUploadTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Input:            input,
		Concerns:         models.Concerns,
		HasImage:         hasImage,
	}
	app.render(w, r, http.StatusOK, "scan-upload", data)
}

// scanUploadSubmit collects the photo, the text description and the selected
// concern tags. Each field replaces its previous value; earlier input from the
// same journey is otherwise kept.
func (app *application) scanUploadSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+4096)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		app.flash(r, "That image is too large. Please upload one under 10 MB.")
		http.Redirect(w, r, "/scan", http.StatusSeeOther)
		return
	}

	input := app.journey.Input(r.Context())
	input.TextDescription = strings.TrimSpace(r.PostForm.Get("description"))
	input.SelectedConcerns = nil
	for _, concern := range r.PostForm["concerns"] {
		// Only the predefined tags are accepted; anything else is dropped.
		if slices.Contains(models.Concerns, concern) {
			input.SelectedConcerns = append(input.SelectedConcerns, concern)
		}
	}

	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		// No new photo; keep the existing one.
	case err != nil:
		app.serverError(w, r, errors.Wrap(err, "read image form file"))
		return
	default:
		defer func() {
			_ = file.Close()
		}()
		// CSRF verification may have parsed the form before the body size
		// guard above, so the limit is enforced on the part as well.
		if header.Size > maxUploadBytes {
			app.flash(r, "That image is too large. Please upload one under 10 MB.")
			http.Redirect(w, r, "/scan", http.StatusSeeOther)
			return
		}
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			app.serverError(w, r, errors.Wrap(readErr, "read image bytes"))
			return
		}

		contentType := http.DetectContentType(data)
		if !allowedImageType(contentType) {
			app.flash(r, "Only JPEG, PNG and GIF images are supported.")
			http.Redirect(w, r, "/scan", http.StatusSeeOther)
			return
		}

		if input.ImageToken != "" {
			app.images.Remove(input.ImageToken)
		}
		token, putErr := app.images.Put(data, contentType)
		if putErr != nil {
			app.serverError(w, r, errors.Wrap(putErr, "cache image"))
			return
		}
		input.ImageToken = token
		input.ImageName = header.Filename
	}

	app.journey.SetInput(r.Context(), input)
	http.Redirect(w, r, "/scan", http.StatusSeeOther)
}

// scanImage serves the cached upload back to the page for the preview.
func (app *application) scanImage(w http.ResponseWriter, r *http.Request) {
	input := app.journey.Input(r.Context())
	if input.ImageToken == "" {
		app.notFound(w, r)
		return
	}

	data, contentType, ok := app.images.Get(input.ImageToken)
	if !ok {
		app.notFound(w, r)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}

func allowedImageType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif":
		return true
	}
	return false
}
