package mcp

import "github.com/mark3labs/mcp-go/mcp"

var analyzeToolDef = mcp.NewTool("voc_analyze",
	mcp.WithDescription("Analyze a batch of user comments. Each comment is categorized, "+
		"scored for sentiment (1-5), ranked for urgency (P0-P2) and reduced to a short core issue. "+
		"Returns per-comment records, per-category aggregates and a markdown report "+
		"(summary table, then detail table). Provide either text (one comment per line) or comments."),
	mcp.WithString("text",
		mcp.Description("Pasted comments, one per line. Blank lines are ignored."),
	),
	mcp.WithArray("comments",
		mcp.Description("Comments as a list. Mutually exclusive with text."),
		mcp.WithStringItems(),
	),
	mcp.WithNumber("workers",
		mcp.Description("Parallel workers for large batches (default from config)."),
		mcp.Min(0),
	),
	mcp.WithReadOnlyHintAnnotation(true),
)

var classifyToolDef = mcp.NewTool("voc_classify",
	mcp.WithDescription("Analyze a single comment and return its category, sentiment, "+
		"urgency, core issue and summary."),
	mcp.WithString("comment",
		mcp.Required(),
		mcp.Description("The comment text."),
	),
	mcp.WithReadOnlyHintAnnotation(true),
)

var taxonomyToolDef = mcp.NewTool("voc_taxonomy",
	mcp.WithDescription("Describe the active taxonomy: categories with their trigger keywords, "+
		"sentiment levels and urgency tiers."),
	mcp.WithReadOnlyHintAnnotation(true),
)
