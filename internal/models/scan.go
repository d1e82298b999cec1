package models

import (
	"strings"
	"time"
)

// Concerns is the fixed set of symptom tags offered on the upload page.
var Concerns = []string{
	"Persistent redness",
	"Itching or burning sensation",
	"Dry, scaly patches",
	"Bumps or blisters",
	"Changes in skin color",
	"Unusual moles or growths",
	"Sudden skin sensitivity",
}

// ScanInput is the in-progress scan input collected on the upload page.
//
// The image bytes themselves live in the server-side upload cache; the session
// only carries the cache token so that the cookie stays small.
type ScanInput struct {
	ImageToken       string
	ImageName        string
	TextDescription  string
	SelectedConcerns []string
}

// HasContent reports whether the input is sufficient for analysis. At least
// one of image or text description is required.
func (in ScanInput) HasContent() bool {
	return in.ImageToken != "" || strings.TrimSpace(in.TextDescription) != ""
}

// HasConcern reports whether the given tag is selected.
func (in ScanInput) HasConcern(concern string) bool {
	for _, c := range in.SelectedConcerns {
		if c == concern {
			return true
		}
	}
	return false
}

// AnalysisResult is the primary diagnosis derived from the inference response.
// It is immutable once stored; a new analysis replaces it wholesale.
type AnalysisResult struct {
	Condition         string
	Confidence        int
	Severity          Severity
	Description       string
	Recommendations   []string
	FollowUpQuestions []string
}

// Scan is one persisted scan-history row shown on the dashboard.
type Scan struct {
	ID         string
	UserID     int64
	Condition  string
	Confidence int
	Severity   Severity
	Created    time.Time
}

// ScanStats summarises a user's scan history for the dashboard.
type ScanStats struct {
	TotalScans    int
	LastCondition string
	LastScan      time.Time
}
