package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/invopop/jsonschema"
	"github.com/mark3labs/mcp-go/mcp"
)

// SchemaFor reflects the JSON schema of v's type. Required properties come
// from `jsonschema:"required"` tags; descriptions from jsonschema_description.
func SchemaFor(v any) (json.RawMessage, error) {
	r := jsonschema.Reflector{
		DoNotReference:             true,
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: true,
		AllowAdditionalProperties:  true,
	}
	schema := r.Reflect(v)
	schema.Version = ""

	b, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return b, nil
}

// DefineTool defines fn as a genkit tool on gk and registers it with r.
// The MCP input schema is reflected from In; the raw argument map is decoded
// into In before fn runs.
func DefineTool[In any](gk *genkit.Genkit, r *Registry, name, description string, fn func(ctx context.Context, input *In) (any, error), opts ...mcp.ToolOption) error {
	if _, exists := r.Lookup(name); exists {
		return fmt.Errorf("tool already registered: %s", name)
	}

	schema, err := SchemaFor(new(In))
	if err != nil {
		return fmt.Errorf("define %s: %w", name, err)
	}

	gt := genkit.DefineTool[*In, any](
		gk,
		name,
		description,
		func(ctx *ai.ToolContext, input *In) (any, error) {
			return fn(ctx, input)
		},
	)

	gdef := gt.Definition()
	def := mcp.NewToolWithRawSchema(gdef.Name, gdef.Description, schema)
	for _, opt := range opts {
		opt(&def)
	}

	return r.register(def, gt, func(ctx context.Context, args map[string]any) (any, error) {
		in := new(In)
		b, err := json.Marshal(args)
		if err != nil {
			return nil, fmt.Errorf("failed to encode arguments: %w", err)
		}
		if err := json.Unmarshal(b, in); err != nil {
			return nil, fmt.Errorf("failed to parse arguments: %w", err)
		}
		return fn(ctx, in)
	})
}
