package main

import (
	"fmt"
	"os"

	"opticshop/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "opticctl:", err)
		os.Exit(1)
	}
}
