// Package main provides the ngsistore CLI: tenant registry maintenance and
// a write-request ingestion entry point for the storage write path.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
