package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"notes_e2e/infrastructure/config"
	"notes_e2e/presentation/terminal"
)

func main() {
	interactive := flag.Bool("i", false, "read page names from stdin instead of auditing every page once")
	asJSON := flag.Bool("json", false, "print the audit as JSON")
	flag.Parse()

	cfg, err := config.FromEnvironment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(2)
	}

	termInterface, err := terminal.NewTerminalInterface(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, termInterface, *interactive, *asJSON)
	stop()
	termInterface.Close()
	os.Exit(code)
}

func run(ctx context.Context, termInterface *terminal.TerminalInterface, interactive, asJSON bool) int {
	if interactive {
		if err := termInterface.Interactive(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 2
		}
		return 0
	}

	broken, err := termInterface.Run(ctx, asJSON)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	if broken {
		return 1
	}
	return 0
}
