// Package testgen turns a code snippet into generated unit tests by way of a
// completion service, with an optional coverage estimate.
package testgen

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/testgen/api/internal/cache"
	"github.com/testgen/api/internal/coverage"
	"github.com/testgen/api/internal/eventbus"
	"github.com/testgen/api/internal/llm"
	"github.com/testgen/api/internal/models"
	"github.com/testgen/api/internal/telemetry"
)

// Fixed sampling parameters for every completion call.
const (
	Temperature = 0.7
	MaxTokens   = 2000

	DefaultTimeout = 30 * time.Second
)

var tracer = otel.Tracer("github.com/testgen/api/internal/testgen")

// Options configures a Service. Zero values pick the defaults.
type Options struct {
	Model           string
	Timeout         time.Duration
	CoverageEnabled bool
	Cache           cache.Cache
	Events          eventbus.Publisher
}

// Service generates tests for one request at a time; it holds no
// per-request state and is safe for concurrent use.
type Service struct {
	provider llm.Provider
	model    string
	timeout  time.Duration
	coverage bool
	cache    cache.Cache
	events   eventbus.Publisher
	logger   *zap.Logger
}

// NewService creates a service around provider.
func NewService(provider llm.Provider, opts Options, logger *zap.Logger) *Service {
	s := &Service{
		provider: provider,
		model:    opts.Model,
		timeout:  opts.Timeout,
		coverage: opts.CoverageEnabled,
		cache:    opts.Cache,
		events:   opts.Events,
		logger:   logger,
	}
	if s.timeout <= 0 {
		s.timeout = DefaultTimeout
	}
	if s.cache == nil {
		s.cache = cache.Nop{}
	}
	if s.events == nil {
		s.events = eventbus.Nop{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Timeout returns the per-request deadline applied to the completion call.
func (s *Service) Timeout() time.Duration { return s.timeout }

// CoverageEnabled reports whether results carry a coverage estimate.
func (s *Service) CoverageEnabled() bool { return s.coverage }

// Generate builds the prompt, calls the completion service once and returns
// the generated tests. Failures of the completion service are returned as
// *GenerationError.
func (s *Service) Generate(ctx context.Context, req models.GenerationRequest) (*models.GenerationResult, error) {
	ctx, span := tracer.Start(ctx, "testgen.Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("testgen.language", req.Language),
		attribute.String("testgen.framework", req.Framework),
		attribute.Int("testgen.code_bytes", len(req.Code)),
	)

	start := time.Now()
	key := cache.Key(req, s.model)
	lang := coverage.ParseLanguage(req.Language)

	if cached, ok := s.lookup(ctx, key); ok {
		telemetry.Generations.WithLabelValues(lang.String(), "cached").Inc()
		s.publish(ctx, req, cached, time.Since(start), true, nil)
		return cached, nil
	}

	tests, err := s.complete(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		outcome := "failed"
		var genErr *GenerationError
		if errors.As(err, &genErr) && genErr.IsTimeout() {
			outcome = "timeout"
		}
		telemetry.Generations.WithLabelValues(lang.String(), outcome).Inc()
		s.publish(ctx, req, nil, time.Since(start), false, err)
		return nil, err
	}

	result := &models.GenerationResult{
		Tests:  tests,
		Status: models.StatusSuccess,
	}
	if s.coverage {
		score := coverage.Estimate(req.Code, tests, lang)
		result.Coverage = &score
		telemetry.CoverageEstimates.Observe(float64(score))
		span.SetAttributes(attribute.Int("testgen.coverage", score))
	}

	if err := s.cache.Set(ctx, key, result); err != nil {
		s.logger.Warn("failed to cache generation result", zap.Error(err))
	}

	telemetry.Generations.WithLabelValues(lang.String(), "success").Inc()
	s.publish(ctx, req, result, time.Since(start), false, nil)

	return result, nil
}

func (s *Service) complete(ctx context.Context, req models.GenerationRequest) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	resp, err := s.provider.Complete(callCtx, llm.Request{
		Prompt:       BuildPrompt(req),
		SystemPrompt: SystemPrompt,
		Model:        s.model,
		MaxTokens:    MaxTokens,
		Temperature:  llm.Float(Temperature),
	})
	telemetry.ProviderLatency.WithLabelValues(s.provider.Name()).Observe(time.Since(start).Seconds())

	if err != nil {
		// a parent cancellation is not our deadline
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return "", &GenerationError{Err: err, Timeout: s.timeout}
		}
		return "", &GenerationError{Err: err}
	}

	s.logger.Debug("completion received",
		zap.String("provider", s.provider.Name()),
		zap.String("model", resp.Model),
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
	)

	return resp.Content, nil
}

func (s *Service) lookup(ctx context.Context, key string) (*models.GenerationResult, bool) {
	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache lookup failed", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	// the cached entry may predate a change of COVERAGE_ENABLED
	if !s.coverage {
		cached.Coverage = nil
	} else if cached.Coverage == nil {
		return nil, false
	}
	return cached, true
}

func (s *Service) publish(ctx context.Context, req models.GenerationRequest, result *models.GenerationResult, latency time.Duration, cached bool, genErr error) {
	event := models.GenerationEvent{
		ID:        uuid.New(),
		RequestID: telemetry.RequestIDFromContext(ctx),
		Language:  req.Language,
		Framework: req.Framework,
		Model:     s.model,
		LatencyMs: latency.Milliseconds(),
		Cached:    cached,
		Status:    models.EventStatusSuccess,
		Timestamp: time.Now().UTC(),
	}
	subject := eventbus.SubjectGenerated

	if result != nil {
		event.Coverage = result.Coverage
	}
	if genErr != nil {
		subject = eventbus.SubjectFailed
		event.Status = models.EventStatusFailed
		event.Error = genErr.Error()
		var ge *GenerationError
		if errors.As(genErr, &ge) && ge.IsTimeout() {
			event.Status = models.EventStatusTimeout
		}
	}

	// publish even when the request context was cancelled
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	if err := s.events.Publish(pubCtx, subject, event); err != nil {
		s.logger.Warn("failed to publish generation event",
			zap.String("subject", subject),
			zap.Error(err),
		)
	}
}
