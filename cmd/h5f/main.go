// Command h5f checks HTML forms against the constraints declared on their
// inputs, either from values given on the command line or by asking for
// each field interactively.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCmd(newApp(os.Stdout, os.Stderr))
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Err != nil {
				fmt.Fprintln(os.Stderr, exitErr.Err)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
