package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lerrors "github.com/randalmurphal/lambda/pkg/lambda/errors"
)

type exitCode struct{ code int }

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	exit := func(code int) { panic(exitCode{code}) }

	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(exitCode); !ok {
					panic(r)
				}
			}
		}()
		err = Run(context.Background(), &stdout, &stderr, exit, args...)
	}()
	return stdout.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestEval(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "arithmetic",
			args: []string{"eval", "(1 + 2) * 3"},
			want: "9",
		},
		{
			name: "vars are expressions",
			args: []string{"eval", "price * qty", "--var", "price=2.5", "--var", "qty=4"},
			want: "10",
		},
		{
			name: "later var sees earlier",
			args: []string{"eval", `greeting + ", " + name`, "--var", `greeting="hello"`, "--var", "name=greeting.ToUpper()"},
			want: "hello, HELLO",
		},
		{
			name: "list",
			args: []string{"eval", `[1, "a", true, [2]]`},
			want: `[1, "a", true, [2]]`,
		},
		{
			name: "dictionary",
			args: []string{"eval", `{"b": 2, "a": "x"}`},
			want: `{"a": "x", "b": 2}`,
		},
		{
			name: "null",
			args: []string{"eval", "nothing"},
			want: "null",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestEval_VarsFileAndConfig(t *testing.T) {
	cfg := writeFile(t, "lambda.yaml", `
cache:
  capacity: 16
vars:
  base: 100
  unit: cm
`)
	vars := writeFile(t, "vars.json", `{"base": 10, "scale": 3}`)

	out, err := run(t, "--config", cfg, "eval", `(base * scale + extra) + unit`, "--vars", vars, "--var", "extra=1")
	require.NoError(t, err)
	assert.Equal(t, "31cm\n", out)
}

func TestEval_Errors(t *testing.T) {
	_, err := run(t, "eval", "1 +")
	require.Error(t, err)
	assert.True(t, lerrors.IsCompileError(err))

	_, err = run(t, "eval", "1 / 0")
	var arith *lerrors.ArithmeticError
	assert.ErrorAs(t, err, &arith)

	_, err = run(t, "eval", "x", "--var", "novalue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want name=expression")

	_, err = run(t, "eval", "x", "--var", "x=(")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--var x")
}

func TestCheck(t *testing.T) {
	out, err := run(t, "check", `a.b(c)[0] > 1 ? "x" : -y`)
	require.NoError(t, err)
	assert.Equal(t, `((a.b(c)[0] > 1) ? "x" : (-y))`+"\n", out)

	_, err = run(t, "check", `"unterminated`)
	assert.True(t, lerrors.IsCompileError(err))
}

func TestBench(t *testing.T) {
	out, err := run(t, "bench", "x * 2 + 1", "-n", "50", "--var", "x=3")
	require.NoError(t, err)
	assert.Contains(t, out, "result:     7\n")
	assert.Contains(t, out, "iterations: 50\n")
	// --var x=3 and the benchmarked expression are each compiled once.
	assert.Contains(t, out, "compiles:   2\n")
	assert.Contains(t, out, "cache hits: 50\n")
}

func TestBench_Profile(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "bench", "1 + 1", "-n", "10", "--profile", "mem", "--profile-dir", dir)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, strings.Join(names, " "), "mem.pprof")
}

func TestBench_Validate(t *testing.T) {
	_, err := run(t, "bench", "1", "-n", "0")
	assert.Error(t, err)

	_, err = run(t, "bench", "1", "--profile", "disk")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown profile mode")
}

func TestLogLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := Run(context.Background(), &stdout, &stderr, func(int) {}, "--log-level", "debug", "--log-format", "json", "eval", "1")
	require.NoError(t, err)
	assert.Contains(t, stderr.String(), `"msg":"expression compiled"`)

	_, err = run(t, "--log-level", "verbose", "eval", "1")
	assert.Error(t, err)
}

func TestConfig_LogSection(t *testing.T) {
	cfg := writeFile(t, "lambda.yaml", "log:\n  level: debug\n  format: json\neval:\n  timeout: 5s\n")

	var stdout, stderr bytes.Buffer
	err := Run(context.Background(), &stdout, &stderr, func(int) {}, "--config", cfg, "eval", "1 + 1")
	require.NoError(t, err)
	assert.Equal(t, "2\n", stdout.String())
	assert.Contains(t, stderr.String(), `"eval_timeout":5000000000`)

	stderr.Reset()
	err = Run(context.Background(), &stdout, &stderr, func(int) {}, "--config", cfg, "--log-format", "text", "eval", "1")
	require.NoError(t, err)
	assert.Contains(t, stderr.String(), "msg=\"engine initialized\"")
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "null", Format(nil))
	assert.Equal(t, "text", Format("text"))
	assert.Equal(t, "1.5", Format(1.5))
	assert.Equal(t, `["a", null]`, Format([]any{"a", nil}))
	assert.Equal(t, `{"k": [1, 2]}`, Format(map[string]any{"k": []int{1, 2}}))
}
