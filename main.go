package main

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mcncl/gostache/internal/config"
	"github.com/mcncl/gostache/internal/errors"
	"github.com/mcncl/gostache/internal/formatter"
	"github.com/mcncl/gostache/internal/models"
	"github.com/mcncl/gostache/internal/mustache"
	"github.com/mcncl/gostache/internal/parser"
	"github.com/mcncl/gostache/internal/partials"
	"github.com/mcncl/gostache/internal/watch"
)

// CLI defines the command-line interface
var CLI struct {
	Template    string `help:"Path to the template file." short:"t" type:"path"`
	Input       string `help:"Path to the JSON or YAML data file. If not specified, reads JSON from stdin." short:"i" type:"path"`
	Output      string `help:"Path to the output file. If not specified, writes to stdout." short:"o" type:"path"`
	Partials    string `help:"Directory partials are loaded from. Defaults to the template's directory." short:"p" type:"path"`
	Config      string `help:"Path to a config file. Defaults to the nearest .gostache.yml." short:"c" type:"path"`
	Markdown    bool   `help:"Convert the rendered Markdown to HTML." short:"m"`
	Sanitize    bool   `help:"Remove unsafe HTML from the output." short:"s"`
	Watch       bool   `help:"Render again whenever the template, data or a partial changes." short:"w"`
	Debug       bool   `help:"Enable debug logging." short:"d"`
	Verbose     bool   `help:"Log progress messages such as watched file changes." short:"V"`
	Version     bool   `help:"Show version information." short:"v"`
	Interactive bool   `help:"Read JSON data interactively until Ctrl+D." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
	Logger *slog.Logger
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("gostache"),
		kong.Description("Render Mustache templates with JSON or YAML data"),
		kong.UsageOnError(),
	)

	_, err := parser.Parse(os.Args[1:])
	if err != nil {
		// Usage has already been shown by kong.UsageOnError()
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("gostache version %s\n", Version)
		return
	}

	ctx, err := newContext()
	if err == nil {
		if CLI.Watch {
			err = runWatch(ctx)
		} else {
			err = run(ctx)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: gostache --help\n")
		os.Exit(1)
	}
}

// newContext loads the configuration and sets up logging
func newContext() (*Context, error) {
	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	cfg, err := config.LoadConfigWithCLI(configPath, CLI.Partials, CLI.Markdown, CLI.Sanitize, CLI.Debug, CLI.Verbose)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to load '%s'", configPath), err)
	}
	return &Context{
		Debug:  cfg.Dev.Debug,
		Config: cfg,
		Logger: newLogger(os.Stderr, cfg.Dev.LogLevel()),
	}, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// run renders the template once
func run(ctx *Context) error {
	dir, err := partialsDir(ctx.Config)
	if err != nil {
		return err
	}
	return render(ctx, os.DirFS(dir))
}

// render executes the main program logic, loading partials from fsys
func render(ctx *Context, fsys fs.FS) error {
	logger := ctx.logger()

	// 1. Read the template
	tmpl, err := readTemplate(CLI.Template)
	if err != nil {
		return err
	}

	// 2. Parse the data context
	doc, err := parseInput()
	if err != nil {
		return err
	}
	logger.Debug("data loaded", slog.String("format", string(doc.Format)))

	// 3. Render
	renderer := mustache.New(
		mustache.WithLoader(partials.NewFSLoader(fsys, logger)),
		mustache.WithPartialSuffix(ctx.Config.Partials.Extension),
		mustache.WithHTMLEscape(ctx.Config.Escaping.HTML),
		mustache.WithMaxPartialDepth(ctx.Config.Partials.MaxDepth),
		mustache.WithLogger(logger),
	)
	output, err := renderer.Render(tmpl, doc.Root)
	if err != nil {
		if stderrors.Is(err, mustache.ErrPartialDepth) {
			return errors.NewPartialError(err.Error(), err)
		}
		return errors.NewTemplateError(fmt.Sprintf("failed to render '%s'", CLI.Template), err)
	}

	// 4. Post-process the output if requested
	f := formatter.NewFormatter(
		formatter.WithMarkdown(ctx.Config.Output.Markdown),
		formatter.WithSanitize(ctx.Config.Output.Sanitize),
	)
	output, err = f.Format(output)
	if err != nil {
		return errors.NewFormatError("failed to format output", err)
	}

	// 5. Output the result
	return writeOutput(output)
}

func (ctx *Context) logger() *slog.Logger {
	if ctx.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return ctx.Logger
}

// partialsDir returns the partial base path: the configured directory or
// the template's own directory
func partialsDir(cfg *config.Config) (string, error) {
	if cfg.Partials.Dir != "" {
		return cfg.Partials.Dir, nil
	}
	if CLI.Template == "" {
		return "", errors.NewInputError("no template provided", errors.ErrNoTemplate)
	}
	return filepath.Dir(CLI.Template), nil
}

// readTemplate reads the template file
func readTemplate(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.NewInputError("no template provided", errors.ErrNoTemplate)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewInputError(fmt.Sprintf("template '%s' not found", path), errors.ErrFileNotFound)
		}
		return "", errors.NewInputError(fmt.Sprintf("failed to read template '%s'", path), err)
	}
	return string(data), nil
}

// parseInput reads the data context from file or stdin
func parseInput() (models.Document, error) {
	if CLI.Input != "" {
		return parser.ParseFile(CLI.Input)
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return models.Document{}, errors.NewInputError("failed to access stdin", err)
	}

	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped)
		if CLI.Interactive {
			return readInteractiveInput()
		}
		return models.Document{}, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	jsonData, err := io.ReadAll(os.Stdin)
	if err != nil {
		return models.Document{}, errors.NewInputError("failed to read from stdin", err)
	}

	if len(jsonData) == 0 {
		return models.Document{}, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	return parser.ParseString(string(jsonData))
}

// writeOutput writes the rendered text to file or stdout
func writeOutput(output string) error {
	if CLI.Output != "" {
		err := os.WriteFile(CLI.Output, []byte(output), 0644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(os.Stderr, "Rendered output written to %s\n", CLI.Output)
		return nil
	}

	if _, err := io.WriteString(os.Stdout, output); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput lets users paste JSON data and signal completion
// with Ctrl+D (EOF)
func readInteractiveInput() (models.Document, error) {
	fmt.Fprintln(os.Stderr, "gostache interactive mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON data below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(os.Stdin)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		jsonBuilder.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.Document{}, errors.NewInputError("error reading input", err)
		}
	}

	jsonData := jsonBuilder.String()
	if len(jsonData) == 0 {
		return models.Document{}, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nRendering...")
	return parser.ParseString(jsonData)
}

// runWatch renders once and again after every change until interrupted
func runWatch(ctx *Context) error {
	if CLI.Input == "" {
		return errors.NewInputError("watch mode needs a data file", errors.ErrNoInput)
	}
	dir, err := partialsDir(ctx.Config)
	if err != nil {
		return err
	}

	fsys, err := watch.NewFS(dir)
	if err != nil {
		return errors.NewInputError("failed to start watching", err)
	}
	defer fsys.Close()

	for _, path := range []string{CLI.Template, CLI.Input} {
		if err := fsys.Add(path); err != nil {
			return errors.NewInputError(fmt.Sprintf("failed to watch '%s'", path), err)
		}
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return watchLoop(sigCtx, ctx, fsys)
}

func watchLoop(sigCtx context.Context, ctx *Context, fsys *watch.FS) error {
	logger := ctx.logger()
	renderOnce := func() {
		if err := render(ctx, fsys); err != nil {
			logger.Error("render failed", slog.String("error", errors.UserFriendlyError(err)))
		}
	}

	renderOnce()
	for {
		select {
		case <-sigCtx.Done():
			return nil
		case name := <-fsys.Changed():
			logger.Info("file changed", slog.String("path", name))
			renderOnce()
		case err := <-fsys.Errors:
			logger.Warn("watch error", slog.Any("error", err))
		}
	}
}
