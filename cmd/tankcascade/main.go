// Command tankcascade reads a tank cascade from standard input and prints the
// time at which the last tank spills and the time at which every tank is full.
//
// Input is whitespace separated: the tank count, the inflow rate, then one
// capacity per tank.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/tank-cascade/internal/calculator"
	"github.com/eugenenazirov/tank-cascade/internal/cli"
	"github.com/eugenenazirov/tank-cascade/internal/validation"
)

const defaultLogLevel = "warn"

func main() {
	kingpinApp := kingpin.New("tankcascade", "Tank Cascade - prints spill and full timings for a tank cascade read from stdin")
	flags := cli.RegisterFlags(kingpinApp, defaultLogLevel)

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	_, logger, err := cli.Bootstrap(flags, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}

	code := run(os.Stdin, os.Stdout, os.Stderr, logger)
	_ = logger.Sync()
	os.Exit(code)
}

// run executes one invocation and returns the process exit status.
func run(stdin io.Reader, stdout, stderr io.Writer, logger *zap.Logger) int {
	tokens, err := readTokens(stdin)
	if err != nil {
		fmt.Fprintf(stderr, "Input error: %v\n", err)
		return 1
	}

	system, err := validation.ParseTokens(tokens)
	if err != nil {
		logger.Debug("input rejected", zap.Int("tokens", len(tokens)), zap.Error(err))
		fmt.Fprintf(stderr, "Input error: %v\n", err)
		return 1
	}

	result, err := calculator.New().Timings(system)
	if err != nil {
		fmt.Fprintf(stderr, "Input error: %v\n", err)
		return 1
	}

	logger.Debug("timings computed",
		zap.Int("tank_count", system.TankCount),
		zap.Int64("inflow_rate", system.InflowRate),
		zap.Int64("spill_time", result.SpillTime),
		zap.Int64("full_time", result.FullTime),
	)

	if _, err := fmt.Fprintf(stdout, "%d %d\n", result.SpillTime, result.FullTime); err != nil {
		logger.Error("failed to write result", zap.Error(err))
		return 1
	}
	return 0
}

func readTokens(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	scanner.Split(bufio.ScanWords)

	var tokens []string
	for scanner.Scan() {
		tokens = append(tokens, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return tokens, nil
}
