package inference

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/adermis/adermis/internal/journey"
	"github.com/adermis/adermis/internal/models"
	"github.com/adermis/adermis/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func TestAnalyze(t *testing.T) {
	var calls atomic.Int64
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.Equal(t, "/api/analyze", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "itchy red patch", r.FormValue("description"))

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		require.Equal(t, "captured-image.jpg", header.Filename)
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		require.Equal(t, []byte{0xff, 0xd8, 0xff}, data)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"predictions": [{"disease": "Eczema", "score": 0.92}, {"disease": "Tinea", "score": 0.35}],
			"followup_questions": ["How long have you had the rash?"]
		}`))
	}))
	defer backend.Close()

	client := NewClient(backend.URL, testhelpers.NewLogger(io.Discard))
	result, err := client.Analyze(context.Background(), []byte{0xff, 0xd8, 0xff}, "captured-image.jpg", "itchy red patch")
	require.NoError(t, err)

	require.Equal(t, "Eczema", result.Condition)
	require.Equal(t, 92, result.Confidence)
	require.Equal(t, models.SeverityHigh, result.Severity)
	require.Equal(t, "The analysis indicates a likelihood of Eczema.", result.Description)
	require.NotEmpty(t, result.Recommendations)
	require.Equal(t, []string{"How long have you had the rash?"}, result.FollowUpQuestions)
	require.Equal(t, int64(1), calls.Load())
}

func TestAnalyzeInputMissing(t *testing.T) {
	var calls atomic.Int64
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	client := NewClient(backend.URL, testhelpers.NewLogger(io.Discard))
	_, err := client.Analyze(context.Background(), nil, "", "")
	require.ErrorIs(t, err, journey.ErrInputMissing)

	// No request may be issued for missing input.
	require.Equal(t, int64(0), calls.Load())
}

func TestAnalyzeEmptyPredictions(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predictions": []}`))
	}))
	defer backend.Close()

	client := NewClient(backend.URL, testhelpers.NewLogger(io.Discard))
	_, err := client.Analyze(context.Background(), nil, "", "some description")

	// An empty prediction list is not a success and not a network failure.
	require.ErrorIs(t, err, journey.ErrEmptyResult)
	require.NotErrorIs(t, err, journey.ErrNetworkFailure)
}

func TestAnalyzeBackendFailure(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer backend.Close()

	client := NewClient(backend.URL, testhelpers.NewLogger(io.Discard))
	_, err := client.Analyze(context.Background(), nil, "", "some description")
	require.ErrorIs(t, err, journey.ErrNetworkFailure)
}

func TestAnalyzeConfidenceRounding(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predictions": [{"disease": "Psoriasis", "score": 0.505}]}`))
	}))
	defer backend.Close()

	client := NewClient(backend.URL, testhelpers.NewLogger(io.Discard))
	result, err := client.Analyze(context.Background(), nil, "", "scaly patches")
	require.NoError(t, err)
	require.Equal(t, 51, result.Confidence)
	require.Equal(t, models.SeverityMedium, result.Severity)
}

func TestFinalDiagnosis(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/final-diagnosis", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.Contains(t, string(body), `"condition":"Eczema"`)
		require.Contains(t, string(body), `"user_answers":{"How long?":"Two weeks"}`)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"treatment": "**Diagnosis:** mild eczema"}`))
	}))
	defer backend.Close()

	client := NewClient(backend.URL, testhelpers.NewLogger(io.Discard))
	result := models.AnalysisResult{Condition: "Eczema", Confidence: 92, Severity: models.SeverityHigh}
	treatment, err := client.FinalDiagnosis(context.Background(), result, map[string]string{"How long?": "Two weeks"})
	require.NoError(t, err)
	require.Equal(t, "**Diagnosis:** mild eczema", treatment)
}

func TestFinalDiagnosisFailure(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer backend.Close()

	client := NewClient(backend.URL, testhelpers.NewLogger(io.Discard))
	_, err := client.FinalDiagnosis(context.Background(), models.AnalysisResult{Condition: "Eczema"}, nil)
	require.ErrorIs(t, err, journey.ErrFollowUpFailed)
}
