package bootstrap

import (
	"context"
	"io"
	stdlog "log"

	"github.com/mark3labs/mcp-go/server"
	"github.com/va6996/amadeus-mcp/log"
)

// ServeStdio runs the MCP server over the given streams until ctx is done or
// in is closed. Input passes through route first, so every tools/call ends
// up in the dispatcher.
func (a *App) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	errWriter := log.Writer()
	defer errWriter.Close()

	w := &syncWriter{w: out}
	mcpIn, routed := io.Pipe()
	defer mcpIn.Close()
	go a.route(ctx, in, routed, w)

	stdio := server.NewStdioServer(a.MCP)
	stdio.SetErrorLogger(stdlog.New(errWriter, "", 0))

	log.Infof(ctx, "%s %s running on stdio", a.Config.Server.Name, a.Config.Server.Version)
	return stdio.Listen(ctx, mcpIn, w)
}
