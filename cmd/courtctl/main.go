package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ZanzyTHEbar/court-compare/internal/analysis"
	"github.com/ZanzyTHEbar/court-compare/internal/dataset"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode separates bad data (2) and unknown players (3) from other failures.
func exitCode(err error) int {
	var schemaErr *dataset.SchemaError
	var notFound *analysis.PlayerNotFoundError
	switch {
	case errors.As(err, &schemaErr):
		return 2
	case errors.As(err, &notFound):
		return 3
	default:
		return 1
	}
}
