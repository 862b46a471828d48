package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

const version = "0.1.0"

// errUsage marks errors that should print the usage text.
var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout)
	stop()

	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
	case errors.Is(err, errUsage):
		fmt.Fprintf(os.Stderr, "%v\n\n", err)
		printUsage(os.Stderr)
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "drugnet: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no command given", errUsage)
	}

	command, rest := args[0], args[1:]
	switch command {
	case "build":
		return runBuild(ctx, rest, stdout)
	case "train":
		return runTrain(ctx, rest, stdout)
	case "fetch-population":
		return runFetchPopulation(ctx, rest, stdout)
	case "serve":
		return runServe(ctx, rest, stdout)
	case "best":
		return runBest(ctx, rest, stdout)
	case "help", "--help", "-h":
		printUsage(stdout)
		return nil
	case "version", "--version", "-v":
		fmt.Fprintf(stdout, "drugnet %s\n", version)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func printUsage(w io.Writer) {
	usage := `drugnet - drug trafficking networks from seizure records

Usage:
  drugnet <command> [options]

Available Commands:
  build             Build, assemble and export the networks of every configured drug
  train             Train the link-prediction baselines on exported graphs
  fetch-population  Download the 15-64 population table
  serve             Serve exported graphs over GraphQL, with /metrics and /healthz
  best              Print the best test AUC stored for a run key
  help              Show this help message
  version           Show version information

Use "drugnet <command> -h" for the options of a command.
`
	fmt.Fprint(w, usage)
}
