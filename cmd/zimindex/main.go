package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/zimjson"
	"github.com/fwojciec/zimjson/sqlite"
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
type Main struct {
	// SQLite database opened by Run.
	DB *sqlite.DB

	// Index used by the commands.
	Index zimjson.RecordIndex
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("zimindex"),
		kong.Description("Query extraction runs indexed by zimjson --sqlite"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'zimindex --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Opening a missing path would create an empty database.
	if _, err := os.Stat(cli.DB); err != nil {
		fmt.Fprintln(stderr, "Hint: Run 'zimjson --sqlite <path> ...' to index an archive first")
		return zimjson.Errorf(zimjson.ENOTFOUND, "database %q not found", cli.DB)
	}

	m.DB = sqlite.NewDB(cli.DB)
	if err := m.DB.Open(); err != nil {
		return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
	}
	defer m.Close()

	m.Index = sqlite.NewRecordIndex(m.DB)
	deps.Index = m.Index

	return kongCtx.Run(deps)
}
