package bootstrap

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/va6996/amadeus-mcp/log"
)

// toolCall is the part of a tools/call request the router reads.
type toolCall struct {
	ID     *mcp.RequestId `json:"id"`
	Method string         `json:"method"`
	Params struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	} `json:"params"`
}

// unknownToolCall reports whether raw is a tools/call request for a name the
// registry does not hold. mcp-go rejects those with a protocol error before
// any handler runs.
func (a *App) unknownToolCall(raw []byte) (*toolCall, bool) {
	var call toolCall
	if err := json.Unmarshal(raw, &call); err != nil {
		return nil, false
	}
	if call.Method != string(mcp.MethodToolsCall) || call.ID == nil {
		return nil, false
	}
	if _, ok := a.Registry.Lookup(call.Params.Name); ok {
		return nil, false
	}
	return &call, true
}

func (a *App) dispatch(ctx context.Context, call *toolCall) mcp.JSONRPCMessage {
	result := a.Dispatcher.Call(ctx, call.Params.Name, call.Params.Arguments)
	return mcp.NewJSONRPCResultResponse(*call.ID, result)
}

// HandleMessage handles one JSON-RPC message. Calls to unregistered tools are
// answered by the dispatcher; everything else goes to the MCP server.
func (a *App) HandleMessage(ctx context.Context, raw json.RawMessage) mcp.JSONRPCMessage {
	if call, ok := a.unknownToolCall(raw); ok {
		return a.dispatch(ctx, call)
	}
	return a.MCP.HandleMessage(ctx, raw)
}

// route copies in line by line to mcpIn, replying on out to calls for
// unregistered tools instead of forwarding them.
func (a *App) route(ctx context.Context, in io.Reader, mcpIn *io.PipeWriter, out io.Writer) {
	reader := bufio.NewReader(in)
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			if call, ok := a.unknownToolCall(line); ok {
				go a.reply(ctx, out, call)
			} else if _, werr := mcpIn.Write(line); werr != nil {
				return
			}
		}
		if err != nil {
			mcpIn.CloseWithError(err)
			return
		}
	}
}

func (a *App) reply(ctx context.Context, out io.Writer, call *toolCall) {
	b, err := json.Marshal(a.dispatch(ctx, call))
	if err != nil {
		log.Errorf(ctx, "Failed to encode tool response: %v", err)
		return
	}
	if _, err := out.Write(append(b, '\n')); err != nil {
		log.Errorf(ctx, "Failed to write tool response: %v", err)
	}
}

// syncWriter serializes writes so that lines from the router and from mcp-go
// never interleave.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
