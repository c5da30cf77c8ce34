package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/va6996/amadeus-mcp/config"
	reqcontext "github.com/va6996/amadeus-mcp/context"
	"github.com/va6996/amadeus-mcp/log"
	"github.com/xeipuuv/gojsonschema"
)

// CredentialsLoader reads credentials at call time.
type CredentialsLoader func() (config.Credentials, error)

// RateRefresher brings exchange rates up to date before a call.
type RateRefresher interface {
	RefreshIfStale(ctx context.Context) error
}

// Dispatcher turns a tool invocation into a text result. It never returns
// a Go error: every failure becomes an error-flagged "Error: ..." payload.
type Dispatcher struct {
	registry    *Registry
	credentials CredentialsLoader
	rates       RateRefresher
}

// NewDispatcher wires a dispatcher. A nil loader reads the environment; a
// nil refresher skips the rate refresh.
func NewDispatcher(registry *Registry, credentials CredentialsLoader, rates RateRefresher) *Dispatcher {
	if credentials == nil {
		credentials = config.LoadCredentials
	}
	return &Dispatcher{
		registry:    registry,
		credentials: credentials,
		rates:       rates,
	}
}

// Call dispatches name with args.
func (d *Dispatcher) Call(ctx context.Context, name string, args map[string]any) *mcp.CallToolResult {
	text, err := d.Run(ctx, name, args)
	if err != nil {
		return mcp.NewToolResultError("Error: " + err.Error())
	}
	return mcp.NewToolResultText(text)
}

// Run is Call without the result wrapping: it returns the pretty printed
// payload, or the error as is so callers can test it with errors.As.
func (d *Dispatcher) Run(ctx context.Context, name string, args map[string]any) (string, error) {
	ctx = reqcontext.EnsureRequestID(ctx)
	ctx = reqcontext.WithToolName(ctx, name)
	start := time.Now()

	result, err := d.call(ctx, name, args)
	if err != nil {
		log.Errorf(ctx, "Tool call failed after %s: %v", time.Since(start), err)
		return "", err
	}

	text, err := encodeResult(result)
	if err != nil {
		log.Errorf(ctx, "Failed to encode tool result: %v", err)
		return "", fmt.Errorf("failed to encode result: %w", err)
	}

	log.Infof(ctx, "Tool call completed in %s", time.Since(start))
	return text, nil
}

// encodeResult pretty prints v with a 2-space indent. Upstream strings are
// kept as sent, so '&', '<' and '>' are not escaped.
func encodeResult(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func (d *Dispatcher) call(ctx context.Context, name string, args map[string]any) (any, error) {
	if err := d.checkCredentials(); err != nil {
		return nil, err
	}

	if d.rates != nil {
		if err := d.rates.RefreshIfStale(ctx); err != nil {
			log.Warnf(ctx, "Failed to refresh exchange rates, using cached values: %v", err)
		}
	}

	tool, ok := d.registry.Lookup(name)
	if !ok {
		return nil, &UnknownToolError{Name: name}
	}

	if args == nil {
		args = map[string]any{}
	}
	if err := validate(tool, args); err != nil {
		return nil, err
	}

	log.Debugf(ctx, "Executing tool with %d arguments", len(args))
	return tool.Execute(ctx, args)
}

func (d *Dispatcher) checkCredentials() error {
	creds, err := d.credentials()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	var missing []string
	if creds.APIKey == "" {
		missing = append(missing, "AMADEUS_API_KEY")
	}
	if creds.APISecret == "" {
		missing = append(missing, "AMADEUS_API_SECRET")
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	return nil
}

func validate(tool *Tool, args map[string]any) error {
	result, err := tool.Schema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return &ValidationError{Tool: tool.Name(), Reasons: []string{err.Error()}}
	}
	if result.Valid() {
		return nil
	}
	reasons := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		reasons = append(reasons, e.String())
	}
	return &ValidationError{Tool: tool.Name(), Reasons: reasons}
}

// Handler adapts the dispatcher to an mcp-go tool handler.
func (d *Dispatcher) Handler() server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return d.Call(ctx, req.Params.Name, req.GetArguments()), nil
	}
}

// Attach registers every tool of the registry on s, routed through d.
func (d *Dispatcher) Attach(s *server.MCPServer) {
	handler := d.Handler()
	for _, t := range d.registry.GetTools() {
		s.AddTool(t.Definition, handler)
	}
}
