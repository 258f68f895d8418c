package context

import (
	stdctx "context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestID_RoundTrip(t *testing.T) {
	id := NewRequestID()
	assert.NotEmpty(t, id)

	ctx := WithRequestID(stdctx.Background(), id)
	assert.Equal(t, id, RequestIDFromContext(ctx))
	assert.Empty(t, SessionIDFromContext(ctx))
}

func TestSessionID_RoundTrip(t *testing.T) {
	ctx := WithSessionID(stdctx.Background(), "session-1")
	ctx = WithRequestID(ctx, "req-1")

	assert.Equal(t, "session-1", SessionIDFromContext(ctx))
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
}

func TestFromContext_Missing(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(stdctx.Background()))
	assert.Empty(t, RequestIDFromContext(nil)) //nolint:staticcheck
}
