package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/scenecast/server/internal/domain"
)

var (
	ErrUnavailable       = errors.New("analyzer unavailable")
	ErrMalformedResponse = errors.New("malformed analyzer response")
)

// Client calls the external language-model service that turns free text into
// a structured scene analysis. The service is a black box: it may fail or
// return malformed data, and both surface as recoverable errors the caller
// reports back to the UI without touching playback state.
type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type analyzeRequest struct {
	Text string `json:"text"`
}

func (c *Client) Analyze(ctx context.Context, text string) (domain.Analysis, error) {
	body, err := json.Marshal(analyzeRequest{Text: text})
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("failed to marshal analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("failed to create analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Analysis{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var analysis domain.Analysis
	if err := json.NewDecoder(resp.Body).Decode(&analysis); err != nil {
		return domain.Analysis{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	if err := validateAnalysis(&analysis); err != nil {
		return domain.Analysis{}, err
	}

	return analysis, nil
}

func validateAnalysis(analysis *domain.Analysis) error {
	if analysis.Title == "" {
		return fmt.Errorf("%w: empty title", ErrMalformedResponse)
	}

	switch analysis.SuggestedStructure {
	case domain.SceneTemplatePresentation, domain.SceneTemplateMindmap, domain.SceneTemplateTimeline:
	default:
		return fmt.Errorf("%w: unknown structure %q", ErrMalformedResponse, analysis.SuggestedStructure)
	}

	return nil
}
