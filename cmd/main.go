package main

import (
	"os"
)

func main() {
	rootCmd := buildRootCommand()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
