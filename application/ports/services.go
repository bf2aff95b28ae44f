package ports

import (
	"context"

	"ideaforge-backend/domain/core/valueobjects"
	"ideaforge-backend/domain/events"
)

// AnalysisRequest is what the external analyzer is asked to evaluate
type AnalysisRequest struct {
	UserID valueobjects.UserID
	Text   string
	Locale valueobjects.Locale

	// Track is set only for hackathon-project analyses
	Track *valueobjects.HackathonTrack
}

// AnalysisResult is the analyzer's verdict. RawScore is on whatever scale
// the analyzer emits; callers normalize it before constructing a Score.
type AnalysisResult struct {
	RawScore    int
	Feedback    *string
	Suggestions []string
}

// IdeaAnalyzer is the outbound port to the external scoring model
type IdeaAnalyzer interface {
	// Analyze evaluates the request text and returns a scored result
	Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error)
}

// EventPublisher publishes domain events to the event bus
type EventPublisher interface {
	// Publish sends a single domain event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple domain events
	PublishBatch(ctx context.Context, evts []events.DomainEvent) error
}
