package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/hpungsan/voc/internal/analysis"
	"github.com/hpungsan/voc/internal/config"
	"github.com/hpungsan/voc/internal/errors"
	"github.com/hpungsan/voc/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	engine *analysis.Engine
	cfg    *config.Config
	logger *zap.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(engine *analysis.Engine, cfg *config.Config, logger *zap.Logger) *Handlers {
	return &Handlers{engine: engine, cfg: cfg, logger: logger}
}

// AnalyzeRequest represents the arguments for voc_analyze.
type AnalyzeRequest struct {
	Text     string   `json:"text,omitempty"`
	Comments []string `json:"comments,omitempty"`
	Workers  int      `json:"workers,omitempty"`
}

// ClassifyRequest represents the arguments for voc_classify.
type ClassifyRequest struct {
	Comment string `json:"comment"`
}

// HandleAnalyze handles the voc_analyze tool call.
func (h *Handlers) HandleAnalyze(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AnalyzeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	start := time.Now()
	result, err := ops.Analyze(ctx, h.engine, h.cfg, ops.AnalyzeInput{
		Text:     input.Text,
		Comments: input.Comments,
		Workers:  input.Workers,
	})
	if err != nil {
		return h.fail("voc_analyze", err), nil
	}

	h.logger.Info("batch analyzed",
		zap.String("run_id", result.RunID),
		zap.Int("total", result.Total),
		zap.Int("invalid", result.Invalid),
		zap.Duration("elapsed", time.Since(start)),
	)
	return successResult(result)
}

// HandleClassify handles the voc_classify tool call.
func (h *Handlers) HandleClassify(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ClassifyRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Classify(h.engine, h.cfg, ops.ClassifyInput{Comment: input.Comment})
	if err != nil {
		return h.fail("voc_classify", err), nil
	}

	return successResult(result)
}

// HandleTaxonomy handles the voc_taxonomy tool call.
func (h *Handlers) HandleTaxonomy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(ops.DescribeTaxonomy(h.engine))
}

// fail logs a failed tool call and converts the error into a result.
func (h *Handlers) fail(tool string, err error) *mcp.CallToolResult {
	h.logger.Warn("tool call failed", zap.String("tool", tool), zap.Error(err))
	return errorResult(err)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are never exposed.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var vocErr *errors.VOCError
	if stderrors.As(err, &vocErr) {
		errorObj := map[string]any{
			"code":    vocErr.Code,
			"message": err.Error(),
			"status":  vocErr.Status,
		}
		if err == vocErr {
			errorObj["message"] = vocErr.Message
		}
		if vocErr.Code != errors.ErrInternal && vocErr.Details != nil {
			errorObj["details"] = vocErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
