// Package report renders analysis results as the two-table markdown report
// and converts it for the hosts that display it.
package report

import (
	"strconv"
	"strings"

	"github.com/hpungsan/voc/internal/analysis"
)

// Separator joins the summary and detail tables.
const Separator = "\n\n---\n\n"

const (
	summaryHeader      = "| 问题分类 | 出现次数 | 情感均分 | 最高紧迫度 | 典型槽点(3-5字) |"
	summaryRule        = "|---------|---------|---------|-----------|---------------|"
	summaryPlaceholder = "| 无数据 | 0 | 0.0 | - | - |"

	detailHeader      = "| ID | 一级分类 | 情感分数 | 紧迫度 | 核心槽点 | 原文摘要（前10字） |"
	detailRule        = "|----|---------|---------|-------|---------|-----------------|"
	detailPlaceholder = "| - | - | - | - | - | - |"
)

// SummaryTable renders one row per category aggregate, in the given order.
func SummaryTable(aggs []analysis.CategoryAggregate) string {
	lines := []string{summaryHeader, summaryRule}
	if len(aggs) == 0 {
		return strings.Join(append(lines, summaryPlaceholder), "\n")
	}
	for _, a := range aggs {
		lines = append(lines, row(
			a.Category,
			strconv.Itoa(a.Count),
			strconv.FormatFloat(a.AvgSentiment, 'f', 1, 64),
			a.HighestUrgency,
			a.TypicalIssue,
		))
	}
	return strings.Join(lines, "\n")
}

// DetailTable renders one row per record, in input order.
func DetailTable(records []analysis.Record) string {
	lines := []string{detailHeader, detailRule}
	if len(records) == 0 {
		return strings.Join(append(lines, detailPlaceholder), "\n")
	}
	for _, r := range records {
		lines = append(lines, row(
			strconv.Itoa(r.ID),
			r.Category,
			r.Sentiment,
			r.Urgency,
			r.CoreIssue,
			r.Summary,
		))
	}
	return strings.Join(lines, "\n")
}

// Render produces the full report: summary table, separator, detail table.
func Render(aggs []analysis.CategoryAggregate, records []analysis.Record) string {
	return SummaryTable(aggs) + Separator + DetailTable(records)
}

// Split separates a rendered report back into its two tables.
func Split(report string) (summary, detail string, ok bool) {
	return strings.Cut(report, Separator)
}

func row(cells ...string) string {
	var b strings.Builder
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(escapeCell(c))
		b.WriteString(" |")
	}
	return b.String()
}

// escapeCell keeps cell text from breaking the table grid.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}
