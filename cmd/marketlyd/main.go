// Package main is the entry point for the marketly server.
package main

import (
	"os"

	"github.com/tgrenier/marketly/cmd/marketlyd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
