// Command hpp checks the prediction service and requests price estimates from
// the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"houseprice/internal/config"
	"houseprice/internal/logger"
)

// Version is set at build time
var Version = "dev"

// Exit codes
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitUsage)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "hpp",
		Usage:   "house price prediction client",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "base-url",
				Usage:   "prediction service base URL",
				EnvVars: []string{"PREDICTOR_BASE_URL"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
				Usage: "log level: debug, info, warn, error",
			},
		},
		Commands: []*cli.Command{
			statusCommand(),
			predictCommand(),
		},
	}
}

// loadConfig reads the environment and applies command line overrides
func loadConfig(c *cli.Context) (*config.Config, logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, cli.Exit(err.Error(), ExitUsage)
	}
	if u := c.String("base-url"); u != "" {
		cfg.Predictor.BaseURL = u
		if err := cfg.Validate(); err != nil {
			return nil, nil, cli.Exit(err.Error(), ExitUsage)
		}
	}

	log, err := logger.NewConsole(c.String("log-level"))
	if err != nil {
		return nil, nil, cli.Exit(err.Error(), ExitUsage)
	}
	return cfg, log, nil
}
