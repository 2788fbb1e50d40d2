package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/zimjson"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Inspector zimjson.Inspector
	Converter zimjson.Converter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Input      string `arg:"" help:"Path to the input ZIM archive"`
	Output     string `arg:"" help:"Path of the JSON file to write"`
	MaxObjects string `arg:"" optional:"" name:"max-objects" help:"Maximum number of records to extract (default 40)"`

	Config  string `env:"ZIMJSON_CONFIG" help:"YAML config file"`
	SQLite  string `name:"sqlite" env:"ZIMJSON_SQLITE" help:"Also index records into this SQLite database"`
	Verbose bool   `short:"v" help:"Enable debug logging"`
}
