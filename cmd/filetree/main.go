// Package main provides the entry point for the filetree CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/filetree/cmd/filetree/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
