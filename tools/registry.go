package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/firebase/genkit/go/ai"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/xeipuuv/gojsonschema"
)

// ToolExecutor is the function signature for executing a tool
type ToolExecutor func(ctx context.Context, args map[string]any) (any, error)

// Tool pairs an MCP definition with its compiled input schema and executor.
// Genkit is set for tools built with DefineTool.
type Tool struct {
	Definition mcp.Tool
	Schema     *gojsonschema.Schema
	Execute    ToolExecutor
	Genkit     ai.Tool
}

// Name returns the tool name.
func (t *Tool) Name() string {
	return t.Definition.Name
}

// Registry manages the registration of MCP tools
type Registry struct {
	executors map[string]*Tool
}

// NewRegistry creates a new tool registry
func NewRegistry() *Registry {
	return &Registry{
		executors: make(map[string]*Tool),
	}
}

// Register adds a tool to the registry with its executor. The definition's
// input schema is compiled once here and used to validate every call.
func (r *Registry) Register(def mcp.Tool, executor ToolExecutor) error {
	return r.register(def, nil, executor)
}

func (r *Registry) register(def mcp.Tool, gt ai.Tool, executor ToolExecutor) error {
	if def.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if _, exists := r.executors[def.Name]; exists {
		return fmt.Errorf("tool already registered: %s", def.Name)
	}

	raw := def.RawInputSchema
	if len(raw) == 0 {
		b, err := json.Marshal(def.InputSchema)
		if err != nil {
			return fmt.Errorf("marshal input schema for %s: %w", def.Name, err)
		}
		raw = b
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("compile input schema for %s: %w", def.Name, err)
	}

	r.executors[def.Name] = &Tool{Definition: def, Schema: schema, Execute: executor, Genkit: gt}
	return nil
}

// GetTools returns all registered tools ordered by name
func (r *Registry) GetTools() []*Tool {
	out := make([]*Tool, 0, len(r.executors))
	for _, t := range r.executors {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Definitions returns the MCP definitions of all registered tools
func (r *Registry) Definitions() []mcp.Tool {
	tools := r.GetTools()
	defs := make([]mcp.Tool, 0, len(tools))
	for _, t := range tools {
		defs = append(defs, t.Definition)
	}
	return defs
}

// GenkitTools returns the genkit side of every tool built with DefineTool,
// ordered by name, for use with ai.WithTools.
func (r *Registry) GenkitTools() []ai.Tool {
	var out []ai.Tool
	for _, t := range r.GetTools() {
		if t.Genkit != nil {
			out = append(out, t.Genkit)
		}
	}
	return out
}

// Lookup finds a tool by name
func (r *Registry) Lookup(name string) (*Tool, bool) {
	t, ok := r.executors[name]
	return t, ok
}
