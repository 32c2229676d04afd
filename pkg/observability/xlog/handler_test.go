package xlog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xrotlog/pkg/context/xctx"
)

// errHandler Handle 总是失败
type errHandler struct {
	slog.Handler
	err error
}

func (h errHandler) Handle(context.Context, slog.Record) error { return h.err }

func newRecord(level slog.Level, msg string) slog.Record {
	return slog.NewRecord(time.Now(), level, msg, 0)
}

// =============================================================================
// FanoutHandler
// =============================================================================

func TestNewFanoutHandler_Empty(t *testing.T) {
	_, err := NewFanoutHandler()
	assert.ErrorIs(t, err, ErrNilHandler)

	_, err = NewFanoutHandler(nil, nil)
	assert.ErrorIs(t, err, ErrNilHandler)
}

func TestFanoutHandler_WritesEverySink(t *testing.T) {
	var a, b bytes.Buffer
	h, err := NewFanoutHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewJSONHandler(&b, nil),
	)
	require.NoError(t, err)

	require.NoError(t, h.Handle(context.Background(), newRecord(slog.LevelInfo, "hello")))
	assert.Contains(t, a.String(), "msg=hello")
	assert.Contains(t, b.String(), `"msg":"hello"`)
}

func TestFanoutHandler_SinkLevels(t *testing.T) {
	var debug, errOnly bytes.Buffer
	h, err := NewFanoutHandler(
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&errOnly, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	require.NoError(t, err)

	ctx := context.Background()
	assert.True(t, h.Enabled(ctx, slog.LevelDebug))
	require.NoError(t, h.Handle(ctx, newRecord(slog.LevelInfo, "info")))

	assert.Contains(t, debug.String(), "msg=info")
	assert.Empty(t, errOnly.String())
}

func TestFanoutHandler_FailureDoesNotStopOthers(t *testing.T) {
	boom := errors.New("disk full")
	var ok bytes.Buffer
	h, err := NewFanoutHandler(
		errHandler{Handler: slog.NewTextHandler(&bytes.Buffer{}, nil), err: boom},
		slog.NewTextHandler(&ok, nil),
	)
	require.NoError(t, err)

	err = h.Handle(context.Background(), newRecord(slog.LevelInfo, "still here"))
	require.ErrorIs(t, err, boom)
	assert.Contains(t, ok.String(), "still here")
}

func TestFanoutHandler_WithAttrsAndGroup(t *testing.T) {
	var a, b bytes.Buffer
	h, err := NewFanoutHandler(slog.NewTextHandler(&a, nil), slog.NewTextHandler(&b, nil))
	require.NoError(t, err)

	derived := h.WithAttrs([]slog.Attr{slog.String("svc", "x")}).WithGroup("g")
	r := newRecord(slog.LevelInfo, "m")
	r.AddAttrs(slog.Int("n", 1))
	require.NoError(t, derived.Handle(context.Background(), r))

	for _, out := range []string{a.String(), b.String()} {
		assert.Contains(t, out, "svc=x")
		assert.Contains(t, out, "g.n=1")
	}
}

// =============================================================================
// EnrichHandler
// =============================================================================

func TestNewEnrichHandler_Nil(t *testing.T) {
	_, err := NewEnrichHandler(nil)
	assert.ErrorIs(t, err, ErrNilHandler)
}

func TestEnrichHandler_InjectsContextFields(t *testing.T) {
	var buf bytes.Buffer
	h, err := NewEnrichHandler(slog.NewTextHandler(&buf, nil))
	require.NoError(t, err)

	ctx, err := xctx.WithRunID(context.Background(), "run-1")
	require.NoError(t, err)
	ctx, err = xctx.WithTraceID(ctx, "4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)

	require.NoError(t, h.Handle(ctx, newRecord(slog.LevelInfo, "m")))
	out := buf.String()
	assert.Contains(t, out, "run_id=run-1")
	assert.Contains(t, out, "trace_id=4bf92f3577b34da6a3ce929d0e0e4736")
}

func TestEnrichHandler_EmptyContext(t *testing.T) {
	var buf bytes.Buffer
	h, err := NewEnrichHandler(slog.NewTextHandler(&buf, nil))
	require.NoError(t, err)

	require.NoError(t, h.Handle(context.Background(), newRecord(slog.LevelInfo, "m")))
	assert.NotContains(t, buf.String(), "run_id")
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}
