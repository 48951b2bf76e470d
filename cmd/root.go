// Package cmd defines and implements the CLI commands for the brightdata
// executable.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	brightdata "github.com/JakeFAU/brightdata-go"
	"github.com/JakeFAU/brightdata-go/internal/logging"
	"github.com/JakeFAU/brightdata-go/pkg/config"
)

var (
	cfgFile    string
	apiKey     string
	outputMode string
	outputFile string
	timeout    time.Duration
	verbose    bool
)

// clientKeyType is the key for storing the Client in the context.
type clientKeyType string

const clientKey clientKeyType = "client"

// newClient is the client factory. It's a variable so tests can replace it
// with a factory returning a stubbed client.
var newClient = func(cfg config.Config, token string, logger *zap.Logger) (*brightdata.Client, error) {
	opts := []brightdata.Option{
		brightdata.WithConfig(cfg),
		brightdata.WithLogger(logger),
	}
	if token != "" {
		opts = append(opts, brightdata.WithToken(token))
	}
	return brightdata.New(opts...)
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brightdata",
		Short: "Scrape pages and search results through the Bright Data API.",
		Long: `brightdata is a command-line front-end for the Bright Data scraping and
SERP APIs. Subcommands under "scrape" and "search" map one-to-one onto SDK
operations; any failed operation yields a non-zero exit code.`,
		SilenceUsage: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logging.InitLogger(verbose)

			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if timeout > 0 {
				cfg.HTTP.TimeoutSeconds = int(timeout / time.Second)
			}

			client, err := newClient(cfg, apiKey, logging.L)
			if err != nil {
				return fmt.Errorf("initialize client: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), clientKey, client))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	cmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API token (overrides environment)")
	cmd.PersistentFlags().StringVarP(&outputMode, "output", "o", "json", "output format: json|pretty|minimal")
	cmd.PersistentFlags().StringVar(&outputFile, "output-file", "", "write results to a file as JSON")
	cmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "per-operation timeout (e.g. 90s)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newNamespaceCmd("scrape", "Scrape pages through the unlocker and dataset APIs"))
	cmd.AddCommand(newNamespaceCmd("search", "Query SERP engines and discovery datasets"))
	cmd.AddCommand(newZonesCmd())
	cmd.AddCommand(newAccountCmd())

	return cmd
}

// resolveClient retrieves the client injected by PersistentPreRunE.
func resolveClient(ctx context.Context) (*brightdata.Client, error) {
	client, ok := ctx.Value(clientKey).(*brightdata.Client)
	if !ok || client == nil {
		return nil, fmt.Errorf("client not initialized")
	}
	return client, nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
