package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/josephlewis42/bfkit/core/config"
	"github.com/josephlewis42/bfkit/core/lint"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	cfgPath   string
	debug     bool
	colorMode string

	logger = zap.NewNop()
)

func loadConfig() (*config.Configuration, error) {
	configuration, err := config.LoadOrDefault(afero.NewOsFs(), cfgPath)
	if err != nil {
		return nil, fmt.Errorf("couldn't load config: %w", err)
	}

	if err := configuration.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return configuration, nil
}

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// rootCmd represents the base command when called without any subcommands,
// which lints the configured target.
var rootCmd = &cobra.Command{
	Use:   "bfkit",
	Short: "Brainfuck interpreter and lint gate",
	Long: `Runs the project's lint gate (the docstring checker, the style checker
and the linter, in that order) against the configured target, or interprets
Brainfuck programs.`,
	Args: cobra.ExactArgs(0),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = newLogger()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLint(cmd, args)
	},
	// Errors are printed once by Execute, lint failures not at all.
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	// The failing tool already explained itself, exit with its status.
	var exitErr *lint.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}

	cobra.CheckErr(err)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log debug information to stderr")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", colorAuto, "colorize the output (always|auto|never)")
	addLintFlags(rootCmd)
}
