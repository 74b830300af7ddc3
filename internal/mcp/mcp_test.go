package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/hpungsan/voc/internal/analysis"
	"github.com/hpungsan/voc/internal/config"
	"github.com/hpungsan/voc/internal/errors"
	"github.com/hpungsan/voc/internal/taxonomy"
)

func testSetup(t *testing.T) (*analysis.Engine, *config.Config) {
	t.Helper()
	return analysis.New(taxonomy.Default()), config.DefaultConfig()
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func TestHandleAnalyze(t *testing.T) {
	engine, cfg := testSetup(t)
	cfg.MaxComments = 3

	h := NewHandlers(engine, cfg, zap.NewNop())
	ctx := context.Background()

	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		errorCode string
		wantTotal int
	}{
		{
			name:      "text input",
			args:      map[string]any{"text": "应用闪退\n\n界面很丑"},
			wantTotal: 2,
		},
		{
			name:      "comment list",
			args:      map[string]any{"comments": []any{"会员太贵", "？？？"}},
			wantTotal: 2,
		},
		{
			name:      "parallel workers",
			args:      map[string]any{"text": "应用闪退\n会员太贵\n界面很丑", "workers": 4},
			wantTotal: 3,
		},
		{
			name:      "no input",
			args:      map[string]any{},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name:      "both inputs",
			args:      map[string]any{"text": "a", "comments": []any{"b"}},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name:      "wrong argument type",
			args:      map[string]any{"comments": "not a list"},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name:      "batch too large",
			args:      map[string]any{"text": "a\nb\nc\nd"},
			wantError: true,
			errorCode: "BATCH_TOO_LARGE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandleAnalyze(ctx, makeRequest(tt.args))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.wantError {
				if !result.IsError {
					t.Fatalf("expected error result, got success")
				}
				assertErrorCode(t, result, tt.errorCode)
				return
			}

			output := parseOutput(t, result)
			if got := int(output["total"].(float64)); got != tt.wantTotal {
				t.Errorf("total = %d, want %d", got, tt.wantTotal)
			}
			if output["run_id"] == "" {
				t.Error("run_id should be set")
			}
			report, _ := output["report"].(string)
			if !strings.Contains(report, "---") {
				t.Errorf("report missing separator: %q", report)
			}
		})
	}
}

func TestHandleAnalyze_RecordFields(t *testing.T) {
	engine, cfg := testSetup(t)
	h := NewHandlers(engine, cfg, zap.NewNop())

	result, err := h.HandleAnalyze(context.Background(), makeRequest(map[string]any{
		"text": "充值后钱扣了但VIP没到账！",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := parseOutput(t, result)
	records := output["records"].([]any)
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	rec := records[0].(map[string]any)
	want := map[string]any{
		"id":         float64(1),
		"category":   "3-商业化",
		"sentiment":  "3分（中立）",
		"urgency":    "P0（高危）",
		"core_issue": "了但没",
		"summary":    "充值后钱扣了但VIP",
		"original":   "充值后钱扣了但VIP没到账！",
	}
	for k, v := range want {
		if rec[k] != v {
			t.Errorf("%s = %v, want %v", k, rec[k], v)
		}
	}

	categories := output["categories"].([]any)
	if len(categories) != 1 {
		t.Fatalf("categories = %d, want 1", len(categories))
	}
	if got := categories[0].(map[string]any)["highest_urgency"]; got != "P0（高危）" {
		t.Errorf("highest_urgency = %v", got)
	}
}

func TestHandleClassify(t *testing.T) {
	engine, cfg := testSetup(t)
	h := NewHandlers(engine, cfg, zap.NewNop())
	ctx := context.Background()

	result, err := h.HandleClassify(ctx, makeRequest(map[string]any{"comment": "应用卡顿严重，体验很差"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	output := parseOutput(t, result)
	if output["category"] != "1-功能稳定性" {
		t.Errorf("category = %v", output["category"])
	}
	if output["urgency"] != "P1（重要）" {
		t.Errorf("urgency = %v", output["urgency"])
	}
	if output["invalid"] != false {
		t.Errorf("invalid = %v, want false", output["invalid"])
	}

	result, err = h.HandleClassify(ctx, makeRequest(map[string]any{"comment": "..."}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	output = parseOutput(t, result)
	if output["category"] != taxonomy.InvalidLabel || output["invalid"] != true {
		t.Errorf("invalid comment classified as %v", output["category"])
	}

	result, err = h.HandleClassify(ctx, makeRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertErrorCode(t, result, "INVALID_REQUEST")
}

func TestHandleTaxonomy(t *testing.T) {
	engine, cfg := testSetup(t)
	h := NewHandlers(engine, cfg, zap.NewNop())

	result, err := h.HandleTaxonomy(context.Background(), makeRequest(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	output := parseOutput(t, result)
	if output["invalid_label"] != taxonomy.InvalidLabel {
		t.Errorf("invalid_label = %v", output["invalid_label"])
	}
	if got := len(output["categories"].([]any)); got != 5 {
		t.Errorf("categories = %d, want 5", got)
	}
	if got := len(output["urgencies"].([]any)); got != 3 {
		t.Errorf("urgencies = %d, want 3", got)
	}
}

func TestServerRegistration(t *testing.T) {
	engine, cfg := testSetup(t)

	s := NewServer(engine, cfg, zap.NewNop(), "test")
	tools := s.ListTools()
	if tools == nil {
		t.Fatal("expected tools to be registered, got nil")
	}

	expectedTools := []string{"voc_analyze", "voc_classify", "voc_taxonomy"}
	if len(tools) != len(expectedTools) {
		t.Errorf("registered tool count = %d, want %d", len(tools), len(expectedTools))
	}
	for _, name := range expectedTools {
		if _, ok := tools[name]; !ok {
			t.Errorf("missing registered tool: %s", name)
		}
	}
}

func TestServerRegistration_WithDisabledTools(t *testing.T) {
	engine, cfg := testSetup(t)

	// Duplicates should be handled gracefully (map lookup)
	cfg.DisabledTools = []string{"voc_taxonomy", "voc_taxonomy"}
	s := NewServer(engine, cfg, zap.NewNop(), "test")
	tools := s.ListTools()

	if len(tools) != 2 {
		t.Errorf("registered tool count = %d, want 2", len(tools))
	}
	if _, ok := tools["voc_taxonomy"]; ok {
		t.Error("disabled tool voc_taxonomy should not be registered")
	}
}

func TestServerRegistration_AllToolsDisabled(t *testing.T) {
	engine, cfg := testSetup(t)

	cfg.DisabledTools = AllToolNames()
	s := NewServer(engine, cfg, zap.NewNop(), "test")

	if tools := s.ListTools(); len(tools) != 0 {
		t.Errorf("registered tool count = %d, want 0 (all disabled)", len(tools))
	}
}

func TestValidateDisabledTools(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		wantLen int
	}{
		{"all valid", []string{"voc_analyze", "voc_taxonomy"}, 0},
		{"one unknown", []string{"voc_analyze", "fake_tool"}, 1},
		{"all unknown", []string{"foo", "bar", "baz"}, 3},
		{"empty list", []string{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unknown := ValidateDisabledTools(tt.input)
			if len(unknown) != tt.wantLen {
				t.Errorf("ValidateDisabledTools() returned %d unknown, want %d", len(unknown), tt.wantLen)
			}
		})
	}
}

func TestAllToolNames(t *testing.T) {
	names := AllToolNames()
	want := []string{"voc_analyze", "voc_classify", "voc_taxonomy"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("AllToolNames() = %v, want %v", names, want)
	}
}

func TestErrorResult_InternalDoesNotExposeDetails(t *testing.T) {
	r := errorResult(errors.NewInternal(fmt.Errorf("open /tmp/secret.yaml: permission denied")))
	if !r.IsError {
		t.Fatal("expected IsError=true")
	}

	errObj := errorObject(t, r)
	if errObj["code"] != string(errors.ErrInternal) {
		t.Fatalf("code=%v, want %v", errObj["code"], errors.ErrInternal)
	}
	if _, ok := errObj["details"]; ok {
		t.Fatal("expected INTERNAL errors to omit details")
	}
	if strings.Contains(errObj["message"].(string), "secret") {
		t.Fatal("INTERNAL message leaked the cause")
	}
}

func TestErrorResult_PlainError(t *testing.T) {
	errObj := errorObject(t, errorResult(context.Canceled))
	if errObj["code"] != string(errors.ErrInternal) {
		t.Errorf("code=%v, want %v", errObj["code"], errors.ErrInternal)
	}
	if errObj["message"] != "an internal error occurred" {
		t.Errorf("message=%v", errObj["message"])
	}
}

func TestErrorResult_WrappedErrorPreservesContext(t *testing.T) {
	wrapped := fmt.Errorf("comments: %w", errors.NewBatchTooLarge(10, 11))

	errObj := errorObject(t, errorResult(wrapped))
	if errObj["code"] != string(errors.ErrBatchTooLarge) {
		t.Errorf("code=%v, want %v", errObj["code"], errors.ErrBatchTooLarge)
	}
	if msg := errObj["message"].(string); !strings.Contains(msg, "comments:") {
		t.Errorf("message should contain wrapper context, got: %s", msg)
	}
	if _, ok := errObj["details"]; !ok {
		t.Error("expected non-INTERNAL errors to include details when present")
	}
}

// Helper functions

// parseOutput extracts and unmarshals the JSON output from an MCP result.
func parseOutput(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractErrorMessage(result))
	}
	var output map[string]any
	if err := json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &output); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return output
}

func errorObject(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &payload); err != nil {
		t.Fatalf("failed to unmarshal error payload: %v", err)
	}
	errObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Fatal("no error object in payload")
	}
	return errObj
}

func assertErrorCode(t *testing.T, result *mcp.CallToolResult, expectedCode string) {
	t.Helper()

	if !result.IsError {
		t.Errorf("expected IsError=true")
		return
	}
	if len(result.Content) == 0 {
		t.Errorf("no content in error result")
		return
	}
	if code, _ := errorObject(t, result)["code"].(string); code != expectedCode {
		t.Errorf("got error code %q, want %q", code, expectedCode)
	}
}

func extractErrorMessage(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return "<no content>"
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return "<not text content>"
	}

	return text.Text
}
