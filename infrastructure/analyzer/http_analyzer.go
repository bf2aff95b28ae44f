// Package analyzer adapts the external scoring service to the IdeaAnalyzer
// port. The service owns prompt construction and model selection; this client
// only carries the request over HTTP and decodes the verdict.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"ideaforge-backend/application/ports"
	pkgerrors "ideaforge-backend/pkg/errors"
)

// HTTPAnalyzer calls the scoring service over HTTP
type HTTPAnalyzer struct {
	client   *http.Client
	endpoint string
	logger   *zap.Logger
}

// NewHTTPAnalyzer creates an analyzer client for the given endpoint
func NewHTTPAnalyzer(endpoint string, timeout time.Duration, logger *zap.Logger) *HTTPAnalyzer {
	return &HTTPAnalyzer{
		client:   &http.Client{Timeout: timeout},
		endpoint: endpoint,
		logger:   logger,
	}
}

type analyzeRequest struct {
	UserID string  `json:"user_id"`
	Text   string  `json:"text"`
	Locale string  `json:"locale"`
	Track  *string `json:"track,omitempty"`
}

type analyzeResponse struct {
	Score       int      `json:"score"`
	Feedback    *string  `json:"feedback,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Analyze submits text for scoring and returns the raw verdict. The score is
// returned as-is; callers normalize it.
func (a *HTTPAnalyzer) Analyze(ctx context.Context, req ports.AnalysisRequest) (*ports.AnalysisResult, error) {
	body := analyzeRequest{
		UserID: req.UserID.String(),
		Text:   req.Text,
		Locale: req.Locale.Code(),
	}
	if req.Track != nil {
		track := string(*req.Track)
		body.Track = &track
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to encode analyzer request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to build analyzer request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.NewUnavailableError("analyzer call", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		a.logger.Warn("analyzer returned non-OK status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", snippet),
		)
		if resp.StatusCode >= 500 {
			return nil, pkgerrors.NewUnavailableError("analyzer call", fmt.Errorf("status %d", resp.StatusCode)).
				WithDetail("status", resp.StatusCode)
		}
		return nil, pkgerrors.NewInternalError(fmt.Sprintf("analyzer rejected request with status %d", resp.StatusCode))
	}

	var decoded analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to decode analyzer response")
	}

	return &ports.AnalysisResult{
		RawScore:    decoded.Score,
		Feedback:    decoded.Feedback,
		Suggestions: decoded.Suggestions,
	}, nil
}
