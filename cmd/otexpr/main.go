// Package main provides otexpr, a developer CLI that renders the DynamoDB
// command a OneTable model operation translates to.
package main

import (
	"context"
	"fmt"
	"os"

	onetable "github.com/cloudxsgmbh/onetable-expr"
	"github.com/cloudxsgmbh/onetable-expr/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version information (set at build time).
var Version = "0.1.0"

type configKey struct{}

var cfgFile string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "otexpr",
		Short:   "Translate OneTable model operations into DynamoDB commands",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./otexpr.yaml)")
	rootCmd.PersistentFlags().StringP("schema", "s", "", "Path to the schema document (YAML or JSON)")
	rootCmd.PersistentFlags().String("table", "", "DynamoDB table name")
	rootCmd.PersistentFlags().StringP("model", "m", "", "Model name")
	rootCmd.PersistentFlags().String("index", "", "Index to target")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (text|json)")
	rootCmd.PersistentFlags().String("dotenv", "", "Environment file to load (default: .env)")

	_ = rootCmd.RegisterFlagCompletionFunc("log-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.LogText, config.LogJSON}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newTranslateCommand())
	rootCmd.AddCommand(newModelsCommand())
	return rootCmd
}

func getConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return &config.Config{Table: "onetable", Index: "primary", LogFormat: config.LogText}
}

// newLogger picks the table logger for the configured log format. The
// returned func flushes buffered output.
func newLogger(cfg *config.Config) (onetable.Logger, func(), error) {
	if cfg.LogFormat != config.LogJSON {
		return onetable.NewSlogLogger(cfg.Verbose), func() {}, nil
	}
	zc := zap.NewProductionConfig()
	if cfg.Verbose {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	zl, err := zc.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return onetable.ZapLogger{L: zl}, func() { _ = zl.Sync() }, nil
}

// openTable loads the configured schema into a Table without a client.
func openTable(cfg *config.Config) (*onetable.Table, func(), error) {
	if cfg.Schema == "" {
		return nil, nil, fmt.Errorf("no schema given (use --schema or %sSCHEMA)", config.EnvPrefix)
	}
	schema, err := onetable.LoadSchemaFile(cfg.Schema)
	if err != nil {
		return nil, nil, err
	}
	logger, flush, err := newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	table, err := onetable.NewTable(onetable.TableParams{
		Name:    cfg.Table,
		Schema:  schema,
		Logger:  logger,
		Verbose: cfg.Verbose,
	})
	if err != nil {
		flush()
		return nil, nil, err
	}
	return table, flush, nil
}

func newModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models of the schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, flush, err := openTable(getConfig(cmd.Context()))
			if err != nil {
				return err
			}
			defer flush()
			for _, name := range table.ListModels() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
