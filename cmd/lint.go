package cmd

import (
	"context"
	"time"

	"github.com/josephlewis42/bfkit/core/config"
	"github.com/josephlewis42/bfkit/core/lint"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var lintTimeout time.Duration

// lintCmd runs the lint gate
var lintCmd = &cobra.Command{
	Use:   "lint [TARGET]",
	Short: "Run the docstring checker, style checker and linter against a file.",
	Long: `Runs each configured step in order against TARGET (the configured target
if omitted). The first step that fails stops the run and its exit status
becomes bfkit's.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLint,
}

func addLintFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&lintTimeout, "timeout", 0, "stop the run after this long (e.g. 30s, 2m), 0 for no limit")
}

func pipeline(cfg *config.Configuration) []lint.Step {
	var steps []lint.Step
	for _, step := range cfg.Lint.Steps {
		steps = append(steps, lint.Step{
			Name:    step.Name,
			Run:     step.Run,
			Disable: step.Disable,
		})
	}
	return steps
}

func lintTarget(cfg *config.Configuration, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Target
}

func runLint(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	trace, err := traceColor()
	if err != nil {
		return err
	}

	executor := &lint.ExecExecutor{
		Stdin:  cmd.InOrStdin(),
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	}
	runner := lint.NewRunner(pipeline(cfg), executor, cmd.ErrOrStderr(), logger)
	runner.TraceColor = trace

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if lintTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, lintTimeout)
		defer cancel()
	}

	target := lintTarget(cfg, args)
	logger.Debug("linting", zap.String("target", target), zap.Int("steps", len(runner.Steps)))
	return runner.Run(ctx, target)
}

func init() {
	rootCmd.AddCommand(lintCmd)
	addLintFlags(lintCmd)
}
