package main

import (
	"fmt"
	"os"
)

var version = "dev"

func main() {
	cmd := newRootCommand(os.Args[1:], nil)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
