package main

import (
	"errors"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// The transcript already shows which checks failed.
		if errors.Is(err, errChecksFailed) {
			os.Exit(1)
		}

		exitOnError(err)
	}
}
