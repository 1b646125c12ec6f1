// Local stand-in for the drive client, used by the e2e tests and for
// trying drivecheck without a remote account.
//
// Usage: fakedrive init; fakedrive push -piped a.txt < a.txt; ...
package main

import (
	"fmt"
	"os"

	"github.com/tonimelisma/drivecheck/internal/fakedrive"
)

func main() {
	quirks, err := fakedrive.ParseQuirks(os.Getenv(fakedrive.EnvQuirks))
	if err != nil {
		fmt.Fprintf(os.Stderr, "fakedrive: %v\n", err)
		os.Exit(2)
	}

	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fakedrive: %v\n", err)
		os.Exit(1)
	}

	os.Exit(fakedrive.Main(os.Args[1:], dir, os.Stdin, os.Stdout, os.Stderr, quirks))
}
