package lambda

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/lambda/pkg/lambda/invoke"
)

// testClass is a host object exposing getters, a field and methods.
type testClass struct {
	FldTrue bool
	touched int
}

func (t *testClass) IntProp() int { return 1 }

func (t *testClass) StrProp() string { return "str" }

func (t *testClass) Format(s string, arg1 any, arg2 int) (string, error) {
	return invoke.Format(s, arg1, arg2)
}

// Touch records that it ran.
func (t *testClass) Touch() bool {
	t.touched++
	return true
}

func testVars(obj *testClass) map[string]any {
	return map[string]any{
		"pi":      decimal.RequireFromString("3.14"),
		"one":     decimal.NewFromInt(1),
		"two":     2,
		"test":    "test",
		"now":     time.Now(),
		"testObj": obj,
	}
}

func requireDecimal(t *testing.T, want string, got any) {
	t.Helper()
	d, ok := got.(decimal.Decimal)
	require.True(t, ok, "expected decimal.Decimal, got %T (%v)", got, got)
	assert.True(t, decimal.RequireFromString(want).Equal(d), "want %s, got %s", want, d)
}
