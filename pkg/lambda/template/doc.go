/*
Package template expands expressions embedded in strings.

# Patterns

Two patterns are recognised:

  - ${expr} evaluates expr with a lambda.Engine and inserts the result
  - $name inserts the variable name as-is

Any expression is allowed inside braces, including method calls, string
literals and dictionary literals:

	exp := template.NewExpander()
	s, err := exp.Expand(`Total: ${price * qty} (${name.ToUpper()})`, map[string]any{
	    "price": 2.5, "qty": 4, "name": "widget",
	})
	// s: "Total: 10 (WIDGET)"

A doubled dollar sign $$ produces a literal $.

# Missing Values

A placeholder whose value is null is handled by the MissingAction. By
default it is kept as-is:

	s, _ := template.NewExpander().Expand("Hello ${user}", nil)
	// s: "Hello ${user}"

	exp := template.NewExpander(template.WithMissingAction(template.MissingError))
	_, err := exp.Expand("Hello $user", nil)
	// err: "undefined variable: user"

Evaluation errors are always returned as *ExpressionError, whatever the
MissingAction.

# Thread Safety

Expander is safe for concurrent use after construction.
*/
package template
