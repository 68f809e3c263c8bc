package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/isocert"
	isohttp "github.com/fwojciec/isocert/http"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx            context.Context
	Stdout         io.Writer
	Stderr         io.Writer
	Logger         *slog.Logger
	Config         Config
	Certifications isocert.CertificationService
	Search         isocert.SearchService
	Server         *isohttp.Server
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config   string `help:"Path to YAML config file" env:"ISOCERT_CONFIG" type:"path"`
	LogLevel string `help:"Log level (debug, info, warn, error); overrides config" name:"log-level"`
	Browser  bool   `help:"Fetch company websites with headless Chrome"`

	Search SearchCmd `cmd:"" help:"Look up ISO certifications for a company"`
	Seed   SeedCmd   `cmd:"" help:"Load sample certifications into the database"`
	Serve  ServeCmd  `cmd:"" help:"Serve the search API over HTTP"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Company string `arg:"" help:"Company name (Korean or English)"`
	JSON    bool   `help:"Print the raw JSON result"`
}

// SeedCmd is the "seed" subcommand.
type SeedCmd struct {
	Force bool `short:"f" help:"Seed even if the database already has records"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `help:"Listen address (overrides config)"`
}
