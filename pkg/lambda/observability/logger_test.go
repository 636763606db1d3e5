package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lerrors "github.com/randalmurphal/lambda/pkg/lambda/errors"
)

func newCapture() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	h := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(h), buf
}

func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		out = append(out, rec)
	}
	return out
}

func TestLogHelpers(t *testing.T) {
	logger, buf := newCapture()

	LogCompile(logger, "a+b", 1.5)
	LogCompileError(logger, "a+", &lerrors.SyntaxError{Pos: 2, Expected: "expression", Found: "end of input"})
	LogCacheHit(logger, "a+b")
	LogEval(logger, "a+b", 0.25)
	LogEvalError(logger, "1/0", &lerrors.ArithmeticError{Op: "/", Err: lerrors.ErrDivideByZero})

	recs := records(t, buf)
	require.Len(t, recs, 5)

	assert.Equal(t, "expression compiled", recs[0]["msg"])
	assert.Equal(t, "DEBUG", recs[0]["level"])
	assert.Equal(t, 1.5, recs[0]["duration_ms"])

	assert.Equal(t, "WARN", recs[1]["level"])
	assert.Contains(t, recs[1]["error"], "syntax error at position 2")

	assert.Equal(t, "expression cache hit", recs[2]["msg"])
	assert.Equal(t, "expression evaluated", recs[3]["msg"])

	assert.Equal(t, "ERROR", recs[4]["level"])
	assert.Equal(t, "evaluate", recs[4]["phase"])
	assert.Equal(t, "1/0", recs[4]["expr"])
}

func TestLogHelpers_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		LogCompile(nil, "x", 1)
		LogCompileError(nil, "x", errors.New("e"))
		LogCacheHit(nil, "x")
		LogEval(nil, "x", 1)
		LogEvalError(nil, "x", errors.New("e"))
	})
	assert.Nil(t, EnrichLogger(nil, "x"))
}

func TestEnrichLogger(t *testing.T) {
	logger, buf := newCapture()
	EnrichLogger(logger, "pi * 2").Info("hello")

	recs := records(t, buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "pi * 2", recs[0]["expr"])
}

func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	time.Sleep(2 * time.Millisecond)
	assert.GreaterOrEqual(t, done(), 2.0)
}
