/*
Package lambda evaluates small dynamically typed expressions against
caller-supplied variables.

# Overview

An expression such as

	pi > one && 0 < one ? (1+8)/3 + 1*two : 0

is parsed once into a tree, cached by its source text, and evaluated with a
single tree walk. Numbers are arbitrary-precision decimals
(github.com/shopspring/decimal), so 0.1+0.2 is exactly 0.3.

The language has literals (numbers, "strings" without escapes, true, false,
[lists] and {key: value} dictionaries), variables, member access, method
calls, indexers, calls of function values, unary - and !, arithmetic
+ - * / %, comparisons == != < > <= >=, logical && || (also spelled and, or)
with short-circuiting, non-short-circuit & |, and the ternary c ? a : b.
There are no loops, assignments or user-defined functions.

# Basic Usage

	v, err := lambda.Eval("price * qty", map[string]any{"price": 2.5, "qty": 4})
	// v is decimal.Decimal 10

Use an Engine to control caching and observability:

	eng := lambda.New(
	    lambda.WithLogger(logger),
	    lambda.WithMetrics(true),
	    lambda.WithCache(cache.NewLRU[ast.Node](512)),
	)
	v, err := eng.EvalContext(ctx, `"Hello, " + user.Name.ToUpper()`, lambda.MapVars{"user": u})

# Semantics

Variables that are not defined evaluate to null. "+" concatenates when either
side is a string. Comparisons order null below every other value and convert
between kinds when needed, so 3.14 == true holds because 3.14 converts to
true. Wherever a boolean is needed, null is false and other values are
converted: zero is false and any other number is true.

Members resolve against host values through the invoke package: exported Go
methods and fields, builtins such as "abc".Length and now.Year, or hosts
implementing invoke.Reflectable.

# Errors

Every failure is one typed error from the errors package: *LexError and
*SyntaxError while compiling, and *NullTargetError, *MissingMemberError,
*ArgumentConversionError, *InvocationError, *IncomparableTypesError,
*ArithmeticError or *RankMismatchError while evaluating. Failed compiles are
never cached.

# Thread Safety

An Engine and its cache are safe for concurrent use. Evaluation only reads
the compiled tree and the caller's Vars.
*/
package lambda
