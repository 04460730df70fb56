package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPAnalyzer posts requests to a remote analysis service that answers
// with an Analysis JSON body.
type HTTPAnalyzer struct {
	URL    string
	client *http.Client
}

// NewHTTPAnalyzer returns an analyzer targeting url.
func NewHTTPAnalyzer(url string, timeout time.Duration) *HTTPAnalyzer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPAnalyzer{URL: url, client: &http.Client{Timeout: timeout}}
}

func (a *HTTPAnalyzer) Analyze(ctx context.Context, req Request) (Analysis, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return Analysis{}, err
	}
	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.URL, bytes.NewReader(payload))
	if err != nil {
		return Analysis{}, err
	}
	hreq.Header.Set("Content-Type", "application/json")
	resp, err := a.client.Do(hreq)
	if err != nil {
		return Analysis{}, fmt.Errorf("analysis request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Analysis{}, fmt.Errorf("analysis service returned %s: %s", resp.Status, bytes.TrimSpace(body))
	}
	var out Analysis
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Analysis{}, fmt.Errorf("decode analysis: %w", err)
	}
	if _, err := ParseRisk(string(out.OverallRisk)); err != nil {
		return Analysis{}, err
	}
	return out, nil
}
