package report

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// markdown converts reports with GFM tables enabled. Raw HTML in comments
// is not passed through.
var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// HTML converts a markdown report to an HTML fragment.
func HTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
