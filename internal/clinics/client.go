// Package clinics is the HTTP client for the external clinic-search service
// and the marker-set construction for the clinic map.
package clinics

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/adermis/adermis/internal/errors"
	"github.com/adermis/adermis/internal/journey"
	"github.com/adermis/adermis/internal/models"
)

// SearchRangeKm is the fixed search radius sent with every lookup.
const SearchRangeKm = 5

type searchRequest struct {
	Disease  string        `json:"disease"`
	Location models.LatLng `json:"location"`
	Range    int           `json:"range"`
}

type searchResponse struct {
	Clinics []models.Clinic `json:"clinics"`
}

type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewClient creates a clinic-search client for the backend at baseURL.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	requestTimeout := 15 * time.Second
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: requestTimeout},
		logger:  logger.With("source", "clinics.Client"),
	}
}

// Find queries nearby care providers for the condition around the location.
// Transport failures and non-2xx responses map to journey.ErrNetworkFailure.
// An empty clinic list is a valid response, not an error; the map simply shows
// only the user's own position.
func (c *Client) Find(ctx context.Context, disease string, location models.LatLng) ([]models.Clinic, error) {
	payload := searchRequest{
		Disease:  disease,
		Location: location,
		Range:    SearchRangeKm,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "marshal clinic search request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/find_clinics", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "create clinic search request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(journey.ErrNetworkFailure, "clinic search request", errors.SlogError(err))
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Error("could not close response body", errors.SlogError(closeErr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrap(journey.ErrNetworkFailure, "clinic search status",
			slog.Int("status", resp.StatusCode))
	}

	var parsed searchResponse
	if err = json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(journey.ErrNetworkFailure, "decode clinic search response",
			errors.SlogError(err))
	}
	return parsed.Clinics, nil
}
