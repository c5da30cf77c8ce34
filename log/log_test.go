package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	reqcontext "github.com/va6996/amadeus-mcp/context"
)

func TestInfofIncludesRequestAndTool(t *testing.T) {
	var buf bytes.Buffer
	Init("debug")
	SetOutput(&buf)
	defer SetOutput(&bytes.Buffer{})

	ctx := reqcontext.WithRequestID(context.Background(), "req-1")
	ctx = reqcontext.WithToolName(ctx, "get_city")
	Infof(ctx, "searching %s", "Paris")

	out := buf.String()
	assert.Contains(t, out, "[INFO]")
	assert.Contains(t, out, "searching Paris")
	assert.Contains(t, out, "[req:req-1]")
	assert.Contains(t, out, "tool=get_city")
	assert.Contains(t, out, "log_test.go:")
}

func TestInitUnknownLevel(t *testing.T) {
	Init("chatty")
	assert.Equal(t, logrus.InfoLevel, Logger.GetLevel())

	Init("warn")
	assert.Equal(t, logrus.WarnLevel, Logger.GetLevel())
	Init("info")
}
