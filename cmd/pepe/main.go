package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, FmtCLIError, err)
		os.Exit(ExitCodeError)
	}
}
