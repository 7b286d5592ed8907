// Command netconvert converts delimited network traffic exports into a
// single XLSX workbook, one sheet per protocol, with Pareto-style
// traffic-concentration columns.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"netconvert/adapters/excel"
	"netconvert/domain/table"
	"netconvert/internal/config"
	"netconvert/internal/pipeline"
	"netconvert/internal/testkit"
	"netconvert/ui"
)

func main() {
	// Optional .env next to the binary; absence is fine.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "netconvert",
		Short: "Convert delimited network traffic exports to an XLSX workbook",
	}

	rootCmd.AddCommand(
		newConvertCmd(),
		newServeCmd(),
		newSelfTestCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig layers defaults, the optional TOML file, and environment
// overrides.
func loadConfig(configPath string) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.LoadFile(configPath, cfg)
		if err != nil {
			return cfg, err
		}
	}
	return config.FromEnv(cfg), nil
}

func newConvertCmd() *cobra.Command {
	var output string
	var configPath string
	var noQuotes bool
	var onEmpty string

	cmd := &cobra.Command{
		Use:   "convert [files or directories...]",
		Short: "Convert exports into one workbook, one sheet per protocol",
		Long: `Convert delimited network exports (Ethernet/IPv4/IPv6/TCP/UDP) into a
single XLSX workbook. Directories are scanned non-recursively for
.txt/.csv/.tsv files in lexical order.

Example: netconvert convert captures/ extra_tcp.csv -o traffic.xlsx`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if noQuotes {
				cfg.QuoteAware = false
			}
			if output != "" {
				cfg.OutputPath = output
			}

			paths, err := pipeline.ResolveInputs(args)
			if err != nil {
				return err
			}

			converter := pipeline.NewConverter(cfg)
			report, err := converter.ConvertBatch(paths)
			if err != nil {
				var batchErr *table.BatchError
				if errors.As(err, &batchErr) {
					return handleEmptyBatch(onEmpty, cfg)
				}
				return err
			}

			if len(report.Sheets) > 0 {
				writer := excel.NewWriter(excel.DefaultWriterConfig())
				if err := writer.Write(report.Sheets, cfg.OutputPath); err != nil {
					return err
				}
				fmt.Printf("Wrote %d sheet(s) to %s\n", len(report.Sheets), cfg.OutputPath)
			}

			// One skip summary at the end, never aborting the run.
			if len(report.Skipped) > 0 {
				fmt.Printf("Skipped %d file(s):\n", len(report.Skipped))
				for _, skip := range report.Skipped {
					fmt.Printf("  %s: %s\n", skip.Path, skip.Reason)
				}
			}
			if len(report.Sheets) == 0 {
				return fmt.Errorf("no sheets produced: all %d file(s) were skipped", len(report.Skipped))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output workbook path (default converted.xlsx)")
	cmd.Flags().StringVar(&configPath, "config", "", "optional TOML config file")
	cmd.Flags().BoolVar(&noQuotes, "no-quotes", false, "disable CSV quote handling")
	cmd.Flags().StringVar(&onEmpty, "on-empty", "error", "policy when no input files resolve: error, serve, selftest, ignore")

	return cmd
}

// handleEmptyBatch applies the configured empty-input policy.
func handleEmptyBatch(policy string, cfg config.Config) error {
	switch policy {
	case "ignore":
		log.Printf("[netconvert] no input files resolved; nothing to do")
		return nil
	case "serve":
		log.Printf("[netconvert] no input files resolved; opening the picker UI")
		return ui.NewServer(cfg).ListenAndServe()
	case "selftest":
		log.Printf("[netconvert] no input files resolved; running self-test")
		return testkit.SelfTest(cfg, "")
	default:
		return fmt.Errorf("no input files resolved for conversion")
	}
}

func newServeCmd() *cobra.Command {
	var addr string
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local file-picker page",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.ListenAddr = addr
			}
			return ui.NewServer(cfg).ListenAndServe()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8090)")
	cmd.Flags().StringVar(&configPath, "config", "", "optional TOML config file")

	return cmd
}

func newSelfTestCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Convert generated sample exports and verify the pipeline invariants",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig("")
			if err != nil {
				return err
			}
			if err := testkit.SelfTest(cfg, output); err != nil {
				return err
			}
			fmt.Println("self-test passed")
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "keep the self-test workbook at this path")

	return cmd
}
