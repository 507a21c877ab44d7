package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/theogf/peeplab/internal/cli"
)

func main() {
	logger, err := newFileLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: cannot initialize logger: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	cli.Execute()
}
