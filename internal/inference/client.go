// Package inference is the HTTP client for the external skin-condition
// inference service. The service owns the ML models; this client only shapes
// requests and classifies failures.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/adermis/adermis/internal/errors"
	"github.com/adermis/adermis/internal/journey"
	"github.com/adermis/adermis/internal/models"
)

// Prediction is one ranked condition candidate from the inference service.
type Prediction struct {
	Disease string  `json:"disease"`
	Score   float64 `json:"score"`
}

type analyzeResponse struct {
	Predictions       []Prediction `json:"predictions"`
	FollowupQuestions []string     `json:"followup_questions"`
}

// resultWire mirrors models.AnalysisResult on the follow-up endpoint's wire format.
type resultWire struct {
	Condition         string   `json:"condition"`
	Confidence        int      `json:"confidence"`
	Severity          string   `json:"severity"`
	Description       string   `json:"description"`
	Recommendations   []string `json:"recommendations"`
	FollowUpQuestions []string `json:"followUpQuestions,omitempty"`
}

type finalDiagnosisRequest struct {
	Predictions resultWire        `json:"predictions"`
	UserAnswers map[string]string `json:"user_answers"`
}

type finalDiagnosisResponse struct {
	Treatment string `json:"treatment"`
}

// defaultRecommendations accompany every fresh analysis; the condition-specific
// advice comes later from the follow-up treatment plan.
var defaultRecommendations = []string{
	"Consult with a dermatologist for a definitive diagnosis.",
	"Consider additional tests if symptoms persist.",
	"Maintain a healthy skincare routine.",
}

type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewClient creates an inference client for the backend at baseURL, e.g.
// "http://localhost:5000".
func NewClient(baseURL string, logger *slog.Logger) *Client {
	requestTimeout := 30 * time.Second // Model inference is slow.
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: requestTimeout},
		logger:  logger.With("source", "inference.Client"),
	}
}

// Analyze submits the scan input to the inference service and converts the
// top-ranked prediction into an AnalysisResult.
//
// It returns journey.ErrInputMissing without issuing any request when both
// image and description are empty, journey.ErrNetworkFailure when no usable
// response comes back, and journey.ErrEmptyResult when the service responds
// with an empty prediction list.
func (c *Client) Analyze(
	ctx context.Context,
	image []byte,
	imageName string,
	description string,
) (models.AnalysisResult, error) {
	if len(image) == 0 && description == "" {
		return models.AnalysisResult{}, journey.ErrInputMissing
	}

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	if len(image) > 0 {
		part, err := writer.CreateFormFile("image", imageName)
		if err != nil {
			return models.AnalysisResult{}, errors.Wrap(err, "create image form file")
		}
		if _, err = part.Write(image); err != nil {
			return models.AnalysisResult{}, errors.Wrap(err, "write image form file")
		}
	}
	if description != "" {
		if err := writer.WriteField("description", description); err != nil {
			return models.AnalysisResult{}, errors.Wrap(err, "write description field")
		}
	}
	if err := writer.Close(); err != nil {
		return models.AnalysisResult{}, errors.Wrap(err, "close multipart writer")
	}

	var parsed analyzeResponse
	if err := c.post(ctx, "/api/analyze", writer.FormDataContentType(), body, &parsed); err != nil {
		return models.AnalysisResult{}, errors.Wrap(journey.ErrNetworkFailure, "analyze request",
			errors.SlogError(err))
	}

	if len(parsed.Predictions) == 0 {
		return models.AnalysisResult{}, journey.ErrEmptyResult
	}

	primary := parsed.Predictions[0]
	confidence := int(math.Round(primary.Score * 100))
	result := models.AnalysisResult{
		Condition:         primary.Disease,
		Confidence:        confidence,
		Severity:          models.SeverityForConfidence(confidence),
		Description:       fmt.Sprintf("The analysis indicates a likelihood of %s.", primary.Disease),
		Recommendations:   defaultRecommendations,
		FollowUpQuestions: parsed.FollowupQuestions,
	}
	return result, nil
}

// FinalDiagnosis sends the analysis result and the user's follow-up answers to
// the service and returns the free-text treatment plan.
//
// Failures are reported as journey.ErrFollowUpFailed so the caller leaves the
// previously stored treatment untouched.
func (c *Client) FinalDiagnosis(
	ctx context.Context,
	result models.AnalysisResult,
	answers map[string]string,
) (string, error) {
	payload := finalDiagnosisRequest{
		Predictions: resultWire{
			Condition:         result.Condition,
			Confidence:        result.Confidence,
			Severity:          string(result.Severity),
			Description:       result.Description,
			Recommendations:   result.Recommendations,
			FollowUpQuestions: result.FollowUpQuestions,
		},
		UserAnswers: answers,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "marshal final diagnosis request")
	}

	var parsed finalDiagnosisResponse
	if err = c.post(ctx, "/api/final-diagnosis", "application/json", bytes.NewReader(body), &parsed); err != nil {
		return "", errors.Wrap(journey.ErrFollowUpFailed, "final diagnosis request", errors.SlogError(err))
	}
	if parsed.Treatment == "" {
		return "", errors.Wrap(journey.ErrFollowUpFailed, "empty treatment in response")
	}
	return parsed.Treatment, nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "create request", slog.String("path", path))
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "do request", slog.String("path", path))
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Error("could not close response body", errors.SlogError(closeErr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return errors.New("unexpected status code",
			slog.String("path", path), slog.Int("status", resp.StatusCode))
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response", slog.String("path", path))
	}
	return nil
}
