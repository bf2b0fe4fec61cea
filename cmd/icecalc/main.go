package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"Floe/internal/calc/lindqvist"
	"Floe/internal/cli"
	"Floe/internal/observability"
	"Floe/internal/prompt"
	"Floe/internal/scenario"
)

func main() {
	if err := run(os.Stdin, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(in io.Reader, out, errOut io.Writer, args []string) error {
	cfg, shouldExit, err := cli.Parse(args, out)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logger := observability.NewLoggerTo(errOut, cfg.LogLevel, cfg.LogFormat)

	if cfg.ScenarioPath != "" {
		return runScenarios(out, cfg.ScenarioPath)
	}

	session := prompt.NewSession(in, out, logger)
	if cfg.Once {
		return session.RunOnce()
	}
	return session.RunMenu()
}

func runScenarios(out io.Writer, path string) error {
	scenarios, err := scenario.Load(path)
	if err != nil {
		return err
	}
	if len(scenarios) == 0 {
		return &cli.ExitError{Code: 1, Message: fmt.Sprintf("no scenarios found in %s", path)}
	}
	for _, s := range scenarios {
		res, err := lindqvist.Calculate(s.Input)
		if err != nil {
			return fmt.Errorf("scenario %q: %w", s.Name, err)
		}
		fmt.Fprintf(out, "%s: %s\n", s.Name, lindqvist.FormatKN(res))
	}
	return nil
}
