package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/adermis/adermis/internal/e2etest"
	"github.com/stretchr/testify/require"
)

// fakeBackend stands in for the inference and clinic-search service. Call
// counters let tests assert that certain user actions never reach the network.
type fakeBackend struct {
	server *httptest.Server

	analyzeCalls   atomic.Int32
	diagnosisCalls atomic.Int32
	clinicCalls    atomic.Int32
	chatCalls      atomic.Int32

	// emptyPredictions makes /api/analyze return no predictions.
	emptyPredictions atomic.Bool
	// lastDescription records the description field of the latest analyze call.
	lastDescription atomic.Value
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyze", func(w http.ResponseWriter, r *http.Request) {
		fb.analyzeCalls.Add(1)
		require.NoError(t, r.ParseMultipartForm(32<<20))
		fb.lastDescription.Store(r.FormValue("description"))

		predictions := []map[string]any{{"disease": "Eczema", "score": 0.87}}
		if fb.emptyPredictions.Load() {
			predictions = nil
		}
		writeJSON(t, w, map[string]any{
			"predictions":        predictions,
			"followup_questions": []string{"How long have you had it?", "Does it itch at night?"},
		})
	})
	mux.HandleFunc("POST /api/final-diagnosis", func(w http.ResponseWriter, r *http.Request) {
		fb.diagnosisCalls.Add(1)
		writeJSON(t, w, map[string]any{
			"treatment": "**Overview**\nA mild flare that should settle with consistent care.\n" +
				"**Daily care**\n* Moisturise twice a day\n* Avoid hot showers\n" +
				"**See a doctor if**\n* The rash spreads or oozes",
		})
	})
	mux.HandleFunc("POST /api/find_clinics", func(w http.ResponseWriter, r *http.Request) {
		fb.clinicCalls.Add(1)
		writeJSON(t, w, map[string]any{
			"clinics": []map[string]any{
				{
					"category": "NGO",
					"name":     "Skin Care Trust",
					"place_id": "p1",
					"address":  "12 Harbour Road",
					"location": map[string]float64{"lat": 40.01, "lng": -74.01},
				},
				{
					"category": "Private",
					"name":     "Derma Clinic",
					"place_id": "p2",
					"address":  "3 Mill Lane",
					"rating":   4.5,
					"location": map[string]float64{"lat": 39.99, "lng": -73.98},
				},
			},
		})
	})
	// The OpenAI-compatible endpoint for the women's health assistant.
	mux.HandleFunc("POST /v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		fb.chatCalls.Add(1)
		writeJSON(t, w, map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "Stay hydrated and rest. See a doctor if the pain is severe."}},
			},
		})
	})

	fb.server = httptest.NewServer(mux)
	t.Cleanup(fb.server.Close)
	return fb
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

// startTestServer boots the real application against the fake backend and an
// in-memory database.
func startTestServer(t *testing.T) (*e2etest.Server, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend(t)

	lookupEnv := func(key string) (string, bool) {
		switch key {
		case "ADERMIS_ADDR":
			return "localhost:0", true
		case "ADERMIS_PPROF_PORT":
			return ":0", true
		case "ADERMIS_SQLITE_URL":
			return ":memory:", true
		case "ADERMIS_BACKEND_URL":
			return backend.server.URL, true
		case "ADERMIS_OPENAI_BASE_URL":
			return backend.server.URL + "/v1", true
		default:
			return "", false
		}
	}

	server, err := e2etest.StartServer(context.Background(), io.Discard, lookupEnv, run)
	require.NoError(t, err)
	return server, backend
}
