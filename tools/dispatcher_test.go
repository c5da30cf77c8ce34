package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/firebase/genkit/go/genkit"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/va6996/amadeus-mcp/config"
	reqcontext "github.com/va6996/amadeus-mcp/context"
)

type stubRefresher struct {
	calls int
	err   error
}

func (s *stubRefresher) RefreshIfStale(context.Context) error {
	s.calls++
	return s.err
}

func staticCredentials(key, secret string) CredentialsLoader {
	return func() (config.Credentials, error) {
		return config.Credentials{APIKey: key, APISecret: secret}, nil
	}
}

func newTestDispatcher(t *testing.T, creds CredentialsLoader, rates RateRefresher) *Dispatcher {
	t.Helper()
	reg := NewRegistry()
	require.NoError(t, DefineTool(genkit.Init(context.Background()), reg, "greet", "Greets someone",
		func(ctx context.Context, in *greetInput) (any, error) {
			if in.Name == "boom" {
				return nil, errors.New("upstream exploded")
			}
			return json.RawMessage(`{"greeting":"hello ` + in.Name + `","requestId":"` + reqcontext.RequestIDFromContext(ctx) + `"}`), nil
		}))
	return NewDispatcher(reg, creds, rates)
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return textContent.Text
}

func TestDispatcherSuccess(t *testing.T) {
	rates := &stubRefresher{}
	d := newTestDispatcher(t, staticCredentials("id", "secret"), rates)

	ctx := reqcontext.WithRequestID(context.Background(), "req-7")
	result := d.Call(ctx, "greet", map[string]any{"name": "Ada"})
	assert.False(t, result.IsError)
	assert.Equal(t, "{\n  \"greeting\": \"hello Ada\",\n  \"requestId\": \"req-7\"\n}", resultText(t, result))
	assert.Equal(t, 1, rates.calls)
}

func TestDispatcherKeepsUpstreamCharacters(t *testing.T) {
	d := newTestDispatcher(t, staticCredentials("id", "secret"), nil)

	ctx := reqcontext.WithRequestID(context.Background(), "req-8")
	result := d.Call(ctx, "greet", map[string]any{"name": "Louvre & <Tuileries>"})
	assert.False(t, result.IsError)
	assert.Equal(t, "{\n  \"greeting\": \"hello Louvre & <Tuileries>\",\n  \"requestId\": \"req-8\"\n}", resultText(t, result))
}

func TestDispatcherMissingCredentials(t *testing.T) {
	rates := &stubRefresher{}
	d := newTestDispatcher(t, staticCredentials("id", ""), rates)

	result := d.Call(context.Background(), "greet", map[string]any{"name": "Ada"})
	assert.True(t, result.IsError)
	assert.Equal(t, "Error: configuration error: AMADEUS_API_SECRET environment variables must be set", resultText(t, result))
	assert.Zero(t, rates.calls)

	d = newTestDispatcher(t, staticCredentials("", ""), nil)
	result = d.Call(context.Background(), "greet", map[string]any{"name": "Ada"})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "AMADEUS_API_KEY and AMADEUS_API_SECRET")
}

func TestDispatcherRunReturnsTypedErrors(t *testing.T) {
	d := newTestDispatcher(t, staticCredentials("", "secret"), nil)

	_, err := d.Run(context.Background(), "greet", map[string]any{"name": "Ada"})
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, []string{"AMADEUS_API_KEY"}, cfgErr.Missing)

	d = newTestDispatcher(t, staticCredentials("id", "secret"), nil)
	_, err = d.Run(context.Background(), "get_weather", nil)
	var unknownErr *UnknownToolError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "get_weather", unknownErr.Name)

	text, err := d.Run(context.Background(), "greet", map[string]any{"name": "Ada"})
	require.NoError(t, err)
	assert.Contains(t, text, "\"greeting\": \"hello Ada\"")
}

func TestDispatcherCredentialsLoaderError(t *testing.T) {
	d := newTestDispatcher(t, func() (config.Credentials, error) {
		return config.Credentials{}, errors.New("env unreadable")
	}, nil)

	result := d.Call(context.Background(), "greet", map[string]any{"name": "Ada"})
	assert.True(t, result.IsError)
	assert.Equal(t, "Error: configuration error: env unreadable", resultText(t, result))
}

func TestDispatcherUnknownTool(t *testing.T) {
	d := newTestDispatcher(t, staticCredentials("id", "secret"), nil)

	result := d.Call(context.Background(), "get_weather", nil)
	assert.True(t, result.IsError)
	assert.Equal(t, "Error: unknown tool: get_weather", resultText(t, result))
}

func TestDispatcherInvalidArguments(t *testing.T) {
	d := newTestDispatcher(t, staticCredentials("id", "secret"), nil)

	result := d.Call(context.Background(), "greet", nil)
	assert.True(t, result.IsError)
	text := resultText(t, result)
	assert.Contains(t, text, "Error: invalid arguments for greet:")
	assert.Contains(t, text, "name is required")

	result = d.Call(context.Background(), "greet", map[string]any{"name": "Ada", "times": 1.5})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "times")
}

func TestDispatcherToolError(t *testing.T) {
	d := newTestDispatcher(t, staticCredentials("id", "secret"), nil)

	result := d.Call(context.Background(), "greet", map[string]any{"name": "boom"})
	assert.True(t, result.IsError)
	assert.Equal(t, "Error: upstream exploded", resultText(t, result))
}

func TestDispatcherSwallowsRefreshError(t *testing.T) {
	rates := &stubRefresher{err: errors.New("rates down")}
	d := newTestDispatcher(t, staticCredentials("id", "secret"), rates)

	result := d.Call(context.Background(), "greet", map[string]any{"name": "Ada"})
	assert.False(t, result.IsError)
	assert.NotContains(t, resultText(t, result), "rates down")
	assert.Equal(t, 1, rates.calls)
}

func TestDispatcherHandler(t *testing.T) {
	d := newTestDispatcher(t, staticCredentials("id", "secret"), nil)

	req := mcp.CallToolRequest{}
	req.Params.Name = "greet"
	req.Params.Arguments = map[string]any{"name": "Linus"}

	result, err := d.Handler()(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &payload))
	assert.Equal(t, "hello Linus", payload["greeting"])
	assert.Len(t, payload["requestId"], 36)
}
