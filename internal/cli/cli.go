// Package cli parses the icecalc command line and translates it into a
// Config. Process concerns such as exit codes are carried by ExitError.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// ExitError is an error that carries the process exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

type Config struct {
	Once         bool
	ScenarioPath string
	LogLevel     string
	LogFormat    string
}

// Parse processes command-line arguments. It returns the Config, whether the
// program should exit cleanly (help was requested), or an ExitError.
func Parse(args []string, output io.Writer) (*Config, bool, error) {
	flagSet := flag.NewFlagSet("icecalc", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
icecalc - level ice resistance (Lindqvist) and bow design ice load calculator.

Usage:
  icecalc [options] [SCENARIO_PATH]

Without a scenario path the calculator runs interactively.

Options:
`)
		flagSet.PrintDefaults()
	}

	once := flagSet.Bool("once", false, "Run a single interactive resistance calculation instead of the menu.")
	scenarioFlag := flagSet.String("scenario", "", "Path to a scenario .hcl file or directory.")
	logLevel := flagSet.String("log-level", "warn", "Logging level: 'debug', 'info', 'warn' or 'error'.")
	logFormat := flagSet.String("log-format", "text", "Log output format: 'text' or 'json'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := *scenarioFlag
	if path == "" && flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	if path != "" && *once {
		return nil, false, &ExitError{Code: 2, Message: "-once cannot be combined with a scenario path"}
	}

	format := strings.ToLower(*logFormat)
	if format != "text" && format != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	level := strings.ToLower(*logLevel)
	switch level {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	return &Config{
		Once:         *once,
		ScenarioPath: path,
		LogLevel:     level,
		LogFormat:    format,
	}, false, nil
}
