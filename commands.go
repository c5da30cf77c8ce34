package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// ServeCmd runs the stdio MCP server
type ServeCmd struct{}

func (c *ServeCmd) Run(rc *runContext) error {
	err := rc.app.ServeStdio(rc.ctx, rc.in, rc.out)
	if err != nil && !errors.Is(err, rc.ctx.Err()) {
		return fmt.Errorf("stdio transport: %w", err)
	}
	return nil
}

// ToolsCmd prints the advertised tool definitions
type ToolsCmd struct{}

func (c *ToolsCmd) Run(rc *runContext) error {
	b, err := json.MarshalIndent(rc.app.Registry.Definitions(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode tool definitions: %w", err)
	}
	fmt.Fprintln(rc.out, string(b))
	return nil
}

// CallCmd dispatches a single tool call, the same way the server does
type CallCmd struct {
	Tool string `arg:"" help:"Tool name, e.g. get_city."`
	Args string `arg:"" optional:"" default:"{}" help:"Tool arguments as a JSON object."`
}

func (c *CallCmd) Run(rc *runContext) error {
	var args map[string]any
	if err := json.Unmarshal([]byte(c.Args), &args); err != nil {
		return fmt.Errorf("arguments must be a JSON object: %w", err)
	}

	result := rc.app.Dispatcher.Call(rc.ctx, c.Tool, args)
	fmt.Fprintln(rc.out, resultText(result))
	if result.IsError {
		return fmt.Errorf("tool %s returned an error", c.Tool)
	}
	return nil
}

// resultText joins the text parts of a tool result
func resultText(result *mcp.CallToolResult) string {
	var text string
	for _, content := range result.Content {
		if tc, ok := content.(mcp.TextContent); ok {
			text += tc.Text
		}
	}
	return text
}
