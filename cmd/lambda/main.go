// Command lambda evaluates expressions from the command line.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/randalmurphal/lambda/internal/cli"
)

func main() {
	if err := cli.Run(context.Background(), os.Stdout, os.Stderr, os.Exit, os.Args[1:]...); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", cli.Name, err)
		os.Exit(1)
	}
}
