package main

import (
	"fmt"
	"os"

	"lob/internal/cli"
	"lob/internal/loberr"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Compilation diagnostics arrive pre-formatted; print them bare.
		if loberr.IsCompilation(err) {
			fmt.Fprintln(os.Stderr, loberr.Message(err))
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}
