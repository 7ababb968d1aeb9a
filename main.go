// Package main is the entry point for the sgen CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/eykd/stringgen-go/cmd"
)

func main() {
	// Cancelled on SIGINT so an in-progress motion pass stops promptly.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprint(os.Stderr, cmd.FormatError(err))
		cancel()
		os.Exit(cmd.ExitCodeFromError(err))
	}
}
