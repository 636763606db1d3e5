package template

import "github.com/randalmurphal/lambda/pkg/lambda"

// MissingAction specifies how to handle placeholders whose value is null.
type MissingAction int

const (
	// MissingKeep keeps the placeholder as-is.
	// This is the default behavior.
	MissingKeep MissingAction = iota

	// MissingEmpty replaces the placeholder with an empty string.
	MissingEmpty

	// MissingError returns an *UndefinedVariableError naming every
	// placeholder that had no value.
	MissingError
)

// Option configures an Expander.
type Option func(*Expander)

// WithEngine sets the engine used for ${expr} placeholders.
//
// Default: lambda.Default()
func WithEngine(engine *lambda.Engine) Option {
	return func(e *Expander) {
		if engine != nil {
			e.engine = engine
		}
	}
}

// WithMissingAction sets how missing values are handled.
//
// Default: MissingKeep (keep placeholder as-is)
//
// Example:
//
//	exp := NewExpander(WithMissingAction(MissingError))
//	_, err := exp.Expand("${missing}", nil)
//	// err: "undefined variable: missing"
func WithMissingAction(action MissingAction) Option {
	return func(e *Expander) {
		e.missingAction = action
	}
}

// WithBraceStyle enables or disables ${expr} expansion.
//
// Default: true (enabled)
func WithBraceStyle(enabled bool) Option {
	return func(e *Expander) {
		e.braceStyle = enabled
	}
}

// WithDollarStyle enables or disables $name expansion.
//
// Default: true (enabled)
//
// Example:
//
//	exp := NewExpander(WithDollarStyle(false))
//	result, _ := exp.Expand("$name", map[string]any{"name": "World"})
//	// result: "$name" (not expanded)
func WithDollarStyle(enabled bool) Option {
	return func(e *Expander) {
		e.dollarStyle = enabled
	}
}
