package models

import (
	"time"

	"github.com/google/uuid"
)

// StatusSuccess is the only status a successful generation reports
const StatusSuccess = "success"

// GenerationRequest is a single test-generation job
type GenerationRequest struct {
	Code      string `json:"code"`
	Language  string `json:"language"`
	Framework string `json:"framework"`
}

// GenerationResult is returned to the caller; coverage is omitted when
// estimation is disabled
type GenerationResult struct {
	Tests    string `json:"tests"`
	Coverage *int   `json:"coverage,omitempty"`
	Status   string `json:"status"`
}

// EventStatus is the outcome recorded in a GenerationEvent
type EventStatus string

const (
	EventStatusSuccess EventStatus = "success"
	EventStatusFailed  EventStatus = "failed"
	EventStatusTimeout EventStatus = "timeout"
)

// GenerationEvent is published to the event bus once per generation attempt
type GenerationEvent struct {
	ID        uuid.UUID   `json:"id"`
	RequestID string      `json:"request_id,omitempty"`
	Language  string      `json:"language"`
	Framework string      `json:"framework"`
	Model     string      `json:"model"`
	Coverage  *int        `json:"coverage,omitempty"`
	LatencyMs int64       `json:"latency_ms"`
	Cached    bool        `json:"cached"`
	Status    EventStatus `json:"status"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// LanguageInfo describes the estimator rules for one language
type LanguageInfo struct {
	Language      string   `json:"language"`
	CommentMarker string   `json:"comment_marker"`
	TestPatterns  []string `json:"test_patterns"`
}
