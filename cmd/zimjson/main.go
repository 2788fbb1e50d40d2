package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/zimjson"
	"github.com/fwojciec/zimjson/goquery"
	"github.com/fwojciec/zimjson/htmltomarkdown"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

const usage = "usage: zimjson <input-archive-path> <output-json-path> [<max-objects>]"

// Main represents the program.
type Main struct {
	// Collaborators used by the pipeline. Set before calling Run().
	Inspector zimjson.Inspector
	Converter zimjson.Converter
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Inspector: goquery.NewInspector(),
		Converter: htmltomarkdown.NewConverter(),
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("zimjson"),
		kong.Description("Extract a bounded JSON projection of a ZIM archive"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags. A bare "help" is an input path like any other.
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		fmt.Fprintln(stderr, usage)
		return err
	}

	cfg := &Config{}
	if cli.Config != "" {
		if cfg, err = LoadConfig(cli.Config); err != nil {
			return err
		}
	}

	limit, err := resolveMaxObjects(cli.MaxObjects, cfg)
	if err != nil {
		fmt.Fprintln(stderr, usage)
		return err
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	if cli.Verbose {
		level = slog.LevelDebug
	}

	sqlitePath := cli.SQLite
	if sqlitePath == "" {
		sqlitePath = cfg.SQLite
	}

	deps := &Dependencies{
		Ctx:       ctx,
		Stdout:    stdout,
		Stderr:    stderr,
		Logger:    slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
		Inspector: m.Inspector,
		Converter: m.Converter,
	}

	cmd := &ExtractCmd{
		Input:         cli.Input,
		Output:        cli.Output,
		MaxObjects:    limit,
		SkipMimeTypes: cfg.SkipMimeTypes,
		SQLite:        sqlitePath,
	}
	return cmd.Run(deps)
}

// ParseMaxObjects parses the max-objects argument as a positive integer.
func ParseMaxObjects(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, zimjson.Errorf(zimjson.EINVALID, "max-objects must be a positive integer, got %q", s)
	}
	return n, nil
}

// resolveMaxObjects applies argument, then config, then the default.
func resolveMaxObjects(arg string, cfg *Config) (int, error) {
	if arg != "" {
		return ParseMaxObjects(arg)
	}
	if cfg.MaxObjects > 0 {
		return cfg.MaxObjects, nil
	}
	return zimjson.DefaultMaxObjects, nil
}
