package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/testgen/api/internal/coverage"
	"github.com/testgen/api/internal/middleware"
	"github.com/testgen/api/internal/models"
	"github.com/testgen/api/internal/testgen"
)

var tracer = otel.Tracer("github.com/testgen/api/internal/handlers")

// GenerationHandler handles test generation endpoints
type GenerationHandler struct {
	service *testgen.Service
	logger  *zap.Logger
}

// NewGenerationHandler creates a new generation handler
func NewGenerationHandler(service *testgen.Service, logger *zap.Logger) *GenerationHandler {
	return &GenerationHandler{service: service, logger: logger}
}

// GenerateTestsRequest is the request body for generating tests. Every field
// must be present as a string; empty strings are accepted.
type GenerateTestsRequest struct {
	Code      *string `json:"code"`
	Language  *string `json:"language"`
	Framework *string `json:"framework"`
}

func (r GenerateTestsRequest) toModel() (models.GenerationRequest, error) {
	fields := []struct {
		name  string
		value *string
	}{
		{"code", r.Code},
		{"language", r.Language},
		{"framework", r.Framework},
	}
	for _, f := range fields {
		if f.value == nil {
			return models.GenerationRequest{}, testgen.InvalidInput("field required: %s", f.name)
		}
	}
	return models.GenerationRequest{
		Code:      *r.Code,
		Language:  *r.Language,
		Framework: *r.Framework,
	}, nil
}

// EstimateCoverageRequest is the request body for a standalone estimate
type EstimateCoverageRequest struct {
	Code     string `json:"code"`
	Tests    string `json:"tests"`
	Language string `json:"language"`
}

// GenerateTests generates unit tests for a code snippet
//
//	@Summary	Generate unit tests
//	@Tags		generation
//	@Accept		json
//	@Produce	json
//	@Param		request	body		GenerateTestsRequest	true	"Code to test"
//	@Success	200		{object}	models.GenerationResult
//	@Failure	422		{object}	middleware.ErrorResponse
//	@Failure	500		{object}	middleware.ErrorResponse
//	@Failure	504		{object}	middleware.ErrorResponse
//	@Router		/api/generate-tests [post]
func (h *GenerationHandler) GenerateTests(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "GenerateTests")
	defer span.End()

	var body GenerateTestsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		middleware.UnprocessableEntity(c, err.Error())
		return
	}

	req, err := body.toModel()
	if err != nil {
		middleware.UnprocessableEntity(c, err.Error())
		return
	}

	result, err := h.service.Generate(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.Error(err)

		var genErr *testgen.GenerationError
		if errors.As(err, &genErr) && genErr.IsTimeout() {
			h.logger.Warn("generation timed out",
				zap.String("request_id", middleware.GetRequestID(c)),
				zap.Duration("timeout", genErr.Timeout),
			)
			middleware.GatewayTimeout(c, err.Error())
			return
		}

		h.logger.Error("generation failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("language", req.Language),
			zap.Error(err),
		)
		middleware.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, result)
}

// EstimateCoverage scores existing tests without calling the completion
// service
//
//	@Summary	Estimate coverage
//	@Tags		generation
//	@Accept		json
//	@Produce	json
//	@Param		request	body		EstimateCoverageRequest	true	"Code and tests"
//	@Success	200		{object}	coverage.Stats
//	@Failure	422		{object}	middleware.ErrorResponse
//	@Router		/api/estimate-coverage [post]
func (h *GenerationHandler) EstimateCoverage(c *gin.Context) {
	var req EstimateCoverageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.UnprocessableEntity(c, err.Error())
		return
	}

	stats := coverage.Analyze(req.Code, req.Tests, coverage.ParseLanguage(req.Language))
	c.JSON(http.StatusOK, stats)
}

// ListLanguages describes the languages the coverage estimator has rules for
//
//	@Summary	Supported languages
//	@Tags		generation
//	@Produce	json
//	@Success	200	{array}	models.LanguageInfo
//	@Router		/api/languages [get]
func (h *GenerationHandler) ListLanguages(c *gin.Context) {
	out := make([]models.LanguageInfo, 0, len(coverage.Supported))
	for _, lang := range coverage.Supported {
		out = append(out, models.LanguageInfo{
			Language:      lang.String(),
			CommentMarker: lang.CommentMarker(),
			TestPatterns:  lang.TestPatterns(),
		})
	}
	c.JSON(http.StatusOK, out)
}
