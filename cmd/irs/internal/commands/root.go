// Package commands implements the irs command line tool: schedule, price, calibrate
// and roll swaps read as JSON or YAML, writing JSON to stdout.
package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/meenmo/ratekit/config"
	"github.com/meenmo/ratekit/logger"
	"github.com/meenmo/ratekit/metrics"
)

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	inputPath     string
	configPath    string
	metricsFile   string
	holidays      []string
	holidayRanges []string

	metrics *metrics.Metrics
}

// Run executes the irs command line and returns the process exit code. Failures are
// reported on stdout as {"error": "..."} with exit code 1.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		return writeError(stdout, err.Error())
	}
	return 0
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "irs",
		Short: "Interest rate swap schedules, pricing and curve calibration",
		Long: `irs reads a trade file (JSON or YAML) describing a curve and one or more
swaps, and writes JSON to stdout.

Commands:
  schedule   payment periods of every swap
  price      present values of every swap against the curve
  calibrate  bootstrap one curve pillar per swap so that it prices at par
  roll       advance the curve by business days`,
		SilenceErrors:      true,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.inputPath, "input", "i", "", "trade file (JSON or YAML); stdin when empty")
	flags.StringVar(&a.configPath, "config", "", "solver/calibration config (.yaml, .yml or .toml)")
	flags.StringVar(&a.metricsFile, "metrics-file", "", "write prometheus metrics in textfile format on exit")
	flags.StringArrayVar(&a.holidays, "holiday", nil, "extra holiday JUR=YYYY-MM-DD (repeatable)")
	flags.StringArrayVar(&a.holidayRanges, "holiday-range", nil, "extra holidays JUR=FROM..TO, inclusive (repeatable)")

	root.AddCommand(
		a.scheduleCommand(),
		a.priceCommand(),
		a.calibrateCommand(),
		a.rollCommand(),
	)
	return root
}

func (a *app) setup(*cobra.Command, []string) error {
	cfg := config.GetConfig()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		config.SetConfig(loaded)
		cfg = loaded
	}

	l, err := logger.New(cfg.Log, a.stderr)
	if err != nil {
		return err
	}
	logger.Set(l)

	a.metrics = metrics.New(prometheus.NewRegistry())
	return nil
}

func (a *app) teardown(*cobra.Command, []string) error {
	if a.metricsFile == "" {
		return nil
	}
	if err := a.metrics.WriteTextfile(a.metricsFile); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

type errorOutput struct {
	Error string `json:"error"`
}

func writeError(stdout io.Writer, msg string) int {
	outputBytes, _ := json.Marshal(errorOutput{Error: msg})
	fmt.Fprintln(stdout, string(outputBytes))
	return 1
}

func writeJSON(stdout io.Writer, v any) error {
	outputBytes, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, string(outputBytes))
	return err
}
