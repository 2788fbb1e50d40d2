package main

import (
	"context"
	"io"

	"github.com/fwojciec/zimjson"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Index  zimjson.RecordIndex
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB string `name:"db" env:"ZIMJSON_SQLITE" required:"" help:"SQLite database written by zimjson --sqlite"`

	Runs    RunsCmd    `cmd:"" help:"List committed extraction runs"`
	Records RecordsCmd `cmd:"" help:"List records of a run"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct{}

// RecordsCmd is the "records" subcommand.
type RecordsCmd struct {
	RunID  string `name:"run" help:"Run id (default: most recent run)"`
	Type   string `help:"Only records of this type (article, category, image, page, ...)"`
	Path   string `help:"Only the record with this path"`
	Limit  int    `help:"Maximum number of records to list"`
	Offset int    `help:"Number of records to skip"`

	JSON     bool `name:"json" help:"Print records as a JSON array"`
	Markdown bool `help:"Print the Markdown rendition of each record"`
}
