package tools

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(context.Context, map[string]any) (any, error) { return "ok", nil }

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()
	assert.NotNil(t, reg)
	assert.Empty(t, reg.GetTools())
}

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry()

	def := mcp.NewTool("zeta", mcp.WithDescription("last"), mcp.WithString("q", mcp.Required()))
	require.NoError(t, reg.Register(def, noop))
	require.NoError(t, reg.Register(mcp.NewTool("alpha"), noop))

	tools := reg.GetTools()
	require.Len(t, tools, 2)
	assert.Equal(t, "alpha", tools[0].Name())
	assert.Equal(t, "zeta", tools[1].Name())
	assert.NotNil(t, tools[1].Schema)

	defs := reg.Definitions()
	assert.Equal(t, "zeta", defs[1].Name)

	tool, ok := reg.Lookup("zeta")
	require.True(t, ok)
	out, err := tool.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)

	assert.Nil(t, tool.Genkit)
	assert.Empty(t, reg.GenkitTools())
}

func TestRegistry_RegisterErrors(t *testing.T) {
	reg := NewRegistry()
	assert.Error(t, reg.Register(mcp.Tool{}, noop))

	require.NoError(t, reg.Register(mcp.NewTool("dup"), noop))
	err := reg.Register(mcp.NewTool("dup"), noop)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	bad := mcp.NewToolWithRawSchema("bad", "", []byte(`{"type": 12}`))
	assert.Error(t, reg.Register(bad, noop))
}
