package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/hpungsan/voc/internal/analysis"
	"github.com/hpungsan/voc/internal/config"
	"github.com/hpungsan/voc/internal/errors"
	"github.com/hpungsan/voc/internal/ops"
	"github.com/hpungsan/voc/internal/report"
	"github.com/hpungsan/voc/internal/web"
)

// maxStdinBytes caps how much piped input a command will read.
const maxStdinBytes = 16 << 20

// deps carries what the commands need once config is loaded.
// It is nil when only help or version output is requested.
type deps struct {
	cfg    *config.Config
	engine *analysis.Engine
	logger *zap.Logger
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp(d *deps) *cli.App {
	app := &cli.App{
		Name:    "voc",
		Usage:   "Voice-of-customer comment triage",
		Version: Version,
		Commands: []*cli.Command{
			analyzeCmd(d),
			classifyCmd(d),
			taxonomyCmd(d),
			serveCmd(d),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// analyzeCmd creates the analyze command.
func analyzeCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Analyze comments (one per line) from stdin, --file or --sample",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Read comments from a file"},
			&cli.BoolFlag{Name: "sample", Usage: "Analyze the built-in sample comments"},
			&cli.StringFlag{Name: "format", Aliases: []string{"o"}, Value: report.FormatMarkdown, Usage: "Output format: markdown|json|yaml|html"},
			&cli.StringFlag{Name: "out", Usage: "Write output to a file instead of stdout"},
			&cli.IntFlag{Name: "workers", Usage: "Parallel workers (default from config)"},
		},
		Action: func(c *cli.Context) error {
			format := c.String("format")
			if !report.ValidFormat(format) {
				return outputError(errors.NewInvalidRequest(fmt.Sprintf("unknown format %q", format)))
			}

			text, err := commentText(c)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Analyze(c.Context, d.engine, d.cfg, ops.AnalyzeInput{
				Text:    text,
				Workers: c.Int("workers"),
			})
			if err != nil {
				return outputError(err)
			}

			return writeOutput(c, c.String("out"), func(w io.Writer) error {
				return writeAnalysis(w, format, output)
			})
		},
	}
}

// classifyCmd creates the classify command.
func classifyCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:      "classify",
		Usage:     "Analyze a single comment",
		ArgsUsage: "<comment>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"o"}, Value: report.FormatJSON, Usage: "Output format: json|yaml"},
		},
		Action: func(c *cli.Context) error {
			comment := strings.Join(c.Args().Slice(), " ")
			if comment == "" && stdinHasData() {
				text, err := readStdin(maxStdinBytes)
				if err != nil {
					return outputError(err)
				}
				comment = text
			}

			output, err := ops.Classify(d.engine, d.cfg, ops.ClassifyInput{Comment: comment})
			if err != nil {
				return outputError(err)
			}

			return outputStructured(c, c.String("format"), output)
		},
	}
}

// taxonomyCmd creates the taxonomy command.
func taxonomyCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "taxonomy",
		Usage: "Print the active taxonomy",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"o"}, Value: report.FormatYAML, Usage: "Output format: json|yaml"},
		},
		Action: func(c *cli.Context) error {
			return outputStructured(c, c.String("format"), ops.DescribeTaxonomy(d.engine))
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to bind"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8080, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			port := c.Int("port")
			if port < 1 || port > 65535 {
				return outputError(errors.NewInvalidRequest(fmt.Sprintf("invalid port %d", port)))
			}
			srv := web.NewServer(d.engine, d.cfg, d.logger, Version, c.String("bind"), port)
			if err := web.Run(srv, d.logger); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// Helper functions

// commentText resolves the analyze input: --sample, then --file, then stdin.
func commentText(c *cli.Context) (string, error) {
	switch {
	case c.Bool("sample"):
		return ops.SampleText(), nil
	case c.String("file") != "":
		data, err := os.ReadFile(c.String("file"))
		if err != nil {
			if os.IsNotExist(err) {
				return "", errors.NewNotFound(c.String("file"))
			}
			return "", errors.NewInternal(err)
		}
		return string(data), nil
	case stdinHasData():
		return readStdin(maxStdinBytes)
	default:
		return "", errors.NewInvalidRequest("comments must be piped via stdin, or use --file or --sample")
	}
}

// writeAnalysis renders an analysis in the requested format.
func writeAnalysis(w io.Writer, format string, output *ops.AnalyzeOutput) error {
	switch format {
	case report.FormatMarkdown:
		_, err := io.WriteString(w, output.Report+"\n")
		return err
	case report.FormatHTML:
		html, err := report.HTML(output.Report)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, html)
		return err
	default:
		return report.Encode(w, format, output)
	}
}

// writeOutput sends command output to path, or to the app writer when path is empty.
func writeOutput(c *cli.Context, path string, write func(io.Writer) error) error {
	if path == "" {
		if err := write(c.App.Writer); err != nil {
			return outputError(errors.NewInternal(err))
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return outputError(errors.NewInternal(err))
	}
	if err := write(f); err != nil {
		f.Close()
		return outputError(errors.NewInternal(err))
	}
	if err := f.Close(); err != nil {
		return outputError(errors.NewInternal(err))
	}
	return nil
}

// outputStructured writes v as JSON or YAML.
func outputStructured(c *cli.Context, format string, v any) error {
	if format != report.FormatJSON && format != report.FormatYAML {
		return outputError(errors.NewInvalidRequest(fmt.Sprintf("unknown format %q", format)))
	}
	if err := report.Encode(c.App.Writer, format, v); err != nil {
		return outputError(errors.NewInternal(err))
	}
	return nil
}

// outputError formats error for CLI.
func outputError(err error) error {
	if vErr, ok := err.(*errors.VOCError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", vErr.Code, vErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin, up to maxBytes.
func readStdin(maxBytes int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(os.Stdin, maxBytes+1))
	if err != nil {
		return "", errors.NewInternal(err)
	}
	if int64(len(data)) > maxBytes {
		return "", errors.NewInvalidRequest(fmt.Sprintf("stdin exceeds %d bytes", maxBytes))
	}
	return strings.TrimSpace(string(data)), nil
}
