package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/zimjson/zim"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Output      string `arg:"" optional:"" default:"sample.zim" help:"Output ZIM path"`
	Compression string `short:"c" default:"zstd" enum:"zstd,xz,none" help:"Cluster compression (zstd, xz, none)"`
}

var compressions = map[string]zim.Compression{
	"zstd": zim.CompressionZstd,
	"xz":   zim.CompressionXZ,
	"none": zim.CompressionNone,
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("zimgen"),
		kong.Description("Generate a sample ZIM archive with an article, image, category and redirect"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	w, err := zim.NewSampleWriter()
	if err != nil {
		return err
	}
	w.Compression = compressions[cli.Compression]

	if err := w.WriteFile(cli.Output); err != nil {
		return fmt.Errorf("failed to write %q: %w", cli.Output, err)
	}
	fmt.Fprintf(stderr, "Wrote %s\n", cli.Output)
	return nil
}
