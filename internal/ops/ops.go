package ops

import (
	"crypto/rand"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/voc/internal/config"
	"github.com/hpungsan/voc/internal/errors"
)

// lineBreaks normalizes CRLF and CR line endings before splitting.
var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// SplitComments turns pasted text into the engine's input contract:
// one trimmed, non-empty comment per line, in order.
func SplitComments(text string) []string {
	return cleanComments(strings.Split(lineBreaks.Replace(text), "\n"))
}

// cleanComments trims every comment and drops blank ones.
func cleanComments(lines []string) []string {
	comments := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			comments = append(comments, line)
		}
	}
	return comments
}

// checkBatch enforces the configured batch limits. A zero limit disables it.
func checkBatch(cfg *config.Config, comments []string) error {
	if len(comments) == 0 {
		return errors.NewInvalidRequest("no comments found: provide at least one non-empty line")
	}
	if cfg.MaxComments > 0 && len(comments) > cfg.MaxComments {
		return errors.NewBatchTooLarge(cfg.MaxComments, len(comments))
	}
	if cfg.MaxCommentChars > 0 {
		for i, c := range comments {
			if n := utf8.RuneCountInString(c); n > cfg.MaxCommentChars {
				return errors.NewCommentTooLarge(i+1, cfg.MaxCommentChars, n)
			}
		}
	}
	return nil
}

// newRunID returns a fresh ULID identifying one analysis run.
func newRunID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
