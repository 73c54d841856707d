package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dyike/StockAnalyzer/config"
	"github.com/dyike/StockAnalyzer/internal/dataflows"
)

const version = "v1.0.0"

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(config.DefaultConfig())
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stockanalyzer",
		Short: "StockAnalyzer - daily return analysis for stock tickers",
		Long: `StockAnalyzer downloads the daily price history of one or two tickers from
Alpha Vantage, cleans it, computes daily return statistics and plots the closing
price and cumulative return. When the free API quota is exhausted it falls back to
a bundled IBM dataset.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if path, _ := cmd.Flags().GetString("config"); path != "" {
				if err := cfg.LoadFile(path); err != nil {
					return err
				}
			}
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				cfg.Debug = true
			}
			setupLogging(cmd.ErrOrStderr(), cfg.Debug)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default behavior: start interactive mode
			return runInteractiveMode(cmd, cfg)
		},
	}

	rootCmd.AddCommand(newAnalyzeCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(cfg))

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("config", "", "YAML configuration file path")

	return rootCmd
}

func setupLogging(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// newAnalyzeCmd creates the analyze command
func newAnalyzeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [TICKER] [TICKER2]",
		Short: "Analyze daily returns for one or two tickers",
		Long: `Fetch the daily time series for each ticker, print the return statistics and
write the closing price and cumulative return charts to the results directory.
Example: stockanalyzer analyze AAPL MSFT --save`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			save, _ := cmd.Flags().GetBool("save")
			noOpen, _ := cmd.Flags().GetBool("no-open")

			tickers := args
			if len(tickers) == 0 {
				ticker, err := PromptForTicker()
				if err != nil {
					return err
				}
				tickers = []string{ticker}
			}

			return runAnalyzeCommand(cmd, cfg, tickers, AnalyzeOptions{
				SaveCSV:    save,
				OpenCharts: cfg.OpenCharts && !noOpen,
			})
		},
	}

	cmd.Flags().Bool("save", false, "Write the daily table to CSV")
	cmd.Flags().Bool("no-open", false, "Do not open the charts in a browser")

	return cmd
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "StockAnalyzer %s\n", version)
			fmt.Fprintln(cmd.OutOrStdout(), "Daily return analysis for Alpha Vantage time series")
		},
	}
}

// newConfigCmd creates the config command
func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(cmd.OutOrStdout(), cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and the fallback dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(cmd.OutOrStdout(), cfg)
		},
	})

	return configCmd
}

// runAnalyzeCommand executes the analysis for every ticker
func runAnalyzeCommand(cmd *cobra.Command, cfg *config.Config, tickers []string, opts AnalyzeOptions) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	out := cmd.OutOrStdout()
	analyzer := NewAnalyzer(cfg, opts, out)
	_, err := NewBatchManager(analyzer, out).Run(cmd.Context(), tickers)
	return err
}

// showConfig displays the current configuration
func showConfig(w io.Writer, cfg *config.Config) {
	printSection(w, "📋 Current StockAnalyzer Configuration")
	printKeyValue(w, "Project Directory", cfg.ProjectDir)
	printKeyValue(w, "Results Directory", cfg.ResultsDir)
	printKeyValue(w, "API Base URL", cfg.BaseURL)
	printKeyValue(w, "API Key", maskSecret(cfg.APIKey))
	timeout := "none"
	if cfg.RequestTimeout > 0 {
		timeout = cfg.RequestTimeout.String()
	}
	printKeyValue(w, "Request Timeout", timeout)
	printKeyValue(w, "Fallback File", cfg.FallbackFile)
	printKeyValue(w, "Fallback Symbol", cfg.FallbackSymbol)
	printKeyValue(w, "Open Charts", cfg.OpenCharts)
	printKeyValue(w, "Debug Mode", cfg.Debug)
}

// validateConfig validates the configuration and the fallback dataset
func validateConfig(w io.Writer, cfg *config.Config) error {
	printSection(w, "🔍 Validating StockAnalyzer Configuration")

	settingsErr := cfg.Validate()
	printCheck(w, "Settings", settingsErr)

	dirErr := cfg.EnsureDirectories()
	printCheck(w, "Results directory", dirErr)

	// A missing fixture only matters once the quota runs out.
	_, fixtureErr := dataflows.LoadFixture(cfg.FallbackFile)
	printCheck(w, "Fallback dataset", fixtureErr)

	if settingsErr != nil {
		return settingsErr
	}
	return dirErr
}

// runInteractiveMode asks for the tickers and options, then runs the analysis
func runInteractiveMode(cmd *cobra.Command, cfg *config.Config) error {
	DisplayWelcomeBanner(cmd.OutOrStdout())

	first, err := PromptForTicker()
	if err != nil {
		return err
	}
	tickers := []string{first}

	second, err := PromptForSecondTicker()
	if err != nil {
		return err
	}
	if second != "" {
		tickers = append(tickers, second)
	}

	save, err := PromptForSave()
	if err != nil {
		return err
	}

	return runAnalyzeCommand(cmd, cfg, tickers, AnalyzeOptions{SaveCSV: save, OpenCharts: cfg.OpenCharts})
}
