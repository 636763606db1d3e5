// Package cli contains the command line interface for lambda.
//
// # Usage
//
//	lambda eval 'price * qty' --var price=2.5 --var qty=4
//	lambda check 'a.b(c)[0] > 1 ? "x" : "y"'
//	lambda bench 'x * 2 + 1' -n 100000 --var x=3 --profile=cpu
//
// Variables given with --var are expressions, evaluated in order against
// the variables defined before them:
//
//	lambda eval 'greeting + ", " + name' --var 'greeting="hello"' --var 'name=greeting.ToUpper()'
//
// A --vars file (YAML or JSON) and the vars section of the --config file
// provide plain values. Later sources win: config, then --vars, then --var.
//
// # Global Options
//
//   - --config: YAML or JSON engine configuration
//   - --log-level: Set minimum log level (debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
package cli
