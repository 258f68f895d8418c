package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	reqctx "github.com/va6996/ainews/context"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	Init()
	SetOutput(&buf)
	t.Cleanup(func() {
		Init()
		SetOutput(logrus.StandardLogger().Out)
	})
	return &buf
}

func TestInfof_IncludesRequestAndSession(t *testing.T) {
	buf := captureOutput(t)

	ctx := reqctx.WithRequestID(context.Background(), "req-42")
	ctx = reqctx.WithSessionID(ctx, "chat-7")
	Infof(ctx, "fetched %d items", 3)

	out := buf.String()
	assert.Contains(t, out, "[INFO]")
	assert.Contains(t, out, "fetched 3 items")
	assert.Contains(t, out, "[req:req-42]")
	assert.Contains(t, out, "[session:chat-7]")
	assert.Contains(t, out, "log_test.go")
}

func TestDebugf_FilteredAtInfo(t *testing.T) {
	buf := captureOutput(t)

	Debugf(context.Background(), "hidden")
	assert.Empty(t, buf.String())

	require.NoError(t, SetLevelName("debug"))
	Debugf(context.Background(), "visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestSetLevelName_Invalid(t *testing.T) {
	assert.Error(t, SetLevelName("chatty"))
}

func TestWithField_SortedExtraFields(t *testing.T) {
	buf := captureOutput(t)

	WithField(context.Background(), "tool", "arxiv").WithField("count", 2).Info("done")

	assert.Contains(t, buf.String(), "done count=2 tool=arxiv")
}
