package bootstrap

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/genkit"
	"github.com/mark3labs/mcp-go/server"
	"github.com/va6996/amadeus-mcp/config"
	"github.com/va6996/amadeus-mcp/log"
	"github.com/va6996/amadeus-mcp/plugins/amadeus"
	"github.com/va6996/amadeus-mcp/plugins/currency"
	"github.com/va6996/amadeus-mcp/tools"
)

// App holds the initialized components of the application
type App struct {
	Config     *config.Config
	Rates      *currency.RateTable
	Updater    *currency.Updater
	Amadeus    *amadeus.Client
	Genkit     *genkit.Genkit
	Registry   *tools.Registry
	Dispatcher *tools.Dispatcher
	MCP        *server.MCPServer
}

// Option tweaks the components Setup builds, mostly for tests.
type Option func(*options)

type options struct {
	clientOpts  []amadeus.ClientOption
	updaterOpts []currency.UpdaterOption
	credentials tools.CredentialsLoader
}

// WithClientOptions forwards options to the Amadeus client.
func WithClientOptions(opts ...amadeus.ClientOption) Option {
	return func(o *options) { o.clientOpts = append(o.clientOpts, opts...) }
}

// WithUpdaterOptions forwards options to the exchange rate updater.
func WithUpdaterOptions(opts ...currency.UpdaterOption) Option {
	return func(o *options) { o.updaterOpts = append(o.updaterOpts, opts...) }
}

// WithCredentials replaces the environment as the credentials source for
// both the dispatcher check and the Amadeus client.
func WithCredentials(fn tools.CredentialsLoader) Option {
	return func(o *options) { o.credentials = fn }
}

// Setup initializes the application components based on the configuration
func Setup(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := &options{credentials: config.LoadCredentials}
	for _, opt := range opts {
		opt(o)
	}

	// 1. Exchange rates
	rates := currency.NewRateTable(nil)
	updaterOpts := append([]currency.UpdaterOption{
		currency.WithInterval(cfg.Currency.RefreshInterval),
	}, o.updaterOpts...)
	updater := currency.NewUpdater(rates, cfg.Currency.RatesURL, updaterOpts...)
	if cfg.Currency.Timeout > 0 {
		updater.HTTPClient.Timeout = cfg.Currency.Timeout
	}

	// 2. Amadeus client and its tools
	clientOpts := append([]amadeus.ClientOption{
		amadeus.WithCredentials(amadeus.CredentialsFunc(o.credentials)),
	}, o.clientOpts...)
	client := amadeus.NewClient(cfg.Amadeus, rates, clientOpts...)

	gk := genkit.Init(ctx)
	registry := tools.NewRegistry()
	if err := amadeus.RegisterTools(client, gk, registry); err != nil {
		return nil, fmt.Errorf("failed to register Amadeus tools: %w", err)
	}

	// 3. Dispatcher and MCP server. Calls to names mcp-go does not know are
	// answered by HandleMessage and ServeStdio.
	dispatcher := tools.NewDispatcher(registry, o.credentials, updater)

	s := server.NewMCPServer(
		cfg.Server.Name,
		cfg.Server.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	dispatcher.Attach(s)

	log.Infof(ctx, "Registered %d tools against %s", len(registry.GetTools()), client.BaseURL)

	return &App{
		Config:     cfg,
		Rates:      rates,
		Updater:    updater,
		Amadeus:    client,
		Genkit:     gk,
		Registry:   registry,
		Dispatcher: dispatcher,
		MCP:        s,
	}, nil
}
