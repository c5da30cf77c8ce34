package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/va6996/amadeus-mcp/bootstrap"
	"github.com/va6996/amadeus-mcp/config"
	"github.com/va6996/amadeus-mcp/log"
)

// CLI is the command line of the amadeus-mcp binary
type CLI struct {
	Config   string `help:"Path to a YAML config file. Missing files are ignored." default:"config.yaml" type:"path"`
	LogLevel string `help:"Override the configured log level (debug, info, warn, error)."`

	Serve ServeCmd `cmd:"" default:"1" help:"Serve the MCP tools over stdio."`
	Tools ToolsCmd `cmd:"" help:"Print the tool definitions as JSON."`
	Call  CallCmd  `cmd:"" help:"Invoke one tool and print its result."`
	Smoke SmokeCmd `cmd:"" help:"Run every search once against the configured Amadeus host."`
}

// runContext is bound into every command's Run method
type runContext struct {
	ctx context.Context
	app *bootstrap.App
	in  io.Reader
	out io.Writer
}

func main() {
	// Load .env if present
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("amadeus-mcp"),
		kong.Description("MCP server exposing Amadeus flight, city, activity and hotel search."),
		kong.UsageOnError(),
	)

	cfg, err := config.LoadFile(cli.Config)
	if err != nil {
		log.Fatalf(ctx, "Failed to load config: %v", err)
	}
	if cli.LogLevel != "" {
		cfg.Server.LogLevel = cli.LogLevel
	}
	log.Init(cfg.Server.LogLevel)

	app, err := bootstrap.Setup(ctx, cfg)
	if err != nil {
		log.Fatalf(ctx, "Setup failed: %v", err)
	}

	if err := kctx.Run(&runContext{ctx: ctx, app: app, in: os.Stdin, out: os.Stdout}); err != nil {
		log.Errorf(ctx, "%s failed: %v", kctx.Command(), err)
		os.Exit(1)
	}
}
