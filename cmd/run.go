package cmd

import (
	"fmt"
	"os"

	"github.com/josephlewis42/bfkit/core/bf"
	"github.com/josephlewis42/bfkit/core/config"
	"github.com/josephlewis42/bfkit/core/repl"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runStepByStep  bool
	runWindowSize  int
	runHeadMargin  int
	runShowMemory  bool
	runVerbose     bool
	runPrintRaw    bool
	runFreshMemory bool
	runRate        float64
)

// runCmd interprets Brainfuck
var runCmd = &cobra.Command{
	Use:   "run [FILE]...",
	Short: "Interpret Brainfuck files, or start a prompt if none are given.",
	Long: `Evaluates each FILE in order with a shared memory tape. Without files
an interactive bf> prompt is started, exit it with Ctrl-D or Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		opts := interpreterOptions(cmd, cfg)
		opts.FromFile = len(args) > 0
		if !opts.FromFile {
			return runPrompt(cmd, opts)
		}

		interp := bf.New(opts, cmd.OutOrStdout(), bf.NewLineReader(cmd.InOrStdin()))
		interp.SetRate(runRate)
		for i, name := range args {
			if runFreshMemory && i > 0 {
				interp.Reset()
			}

			source, err := cfg.ReadFile(name)
			if err != nil {
				return err
			}

			steps, err := interp.Evaluate(string(source))
			logger.Debug("evaluated file", zap.String("file", name), zap.Int("steps", steps), zap.Error(err))
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}
		return nil
	},
}

// interpreterOptions merges flags over the configured interpreter defaults.
func interpreterOptions(cmd *cobra.Command, cfg *config.Configuration) bf.Options {
	opts := bf.Options{
		StepByStep: runStepByStep,
		ShowMemory: runShowMemory,
		WindowSize: cfg.Interpreter.WindowSize,
		Margin:     cfg.Interpreter.HeadMargin,
		Verbose:    runVerbose,
		PrintRaw:   runPrintRaw,
		ChunkSize:  cfg.Interpreter.ChunkSize,
	}

	if cmd.Flags().Changed("print-window") {
		opts.WindowSize = runWindowSize
	}
	if cmd.Flags().Changed("head-margin") {
		opts.Margin = runHeadMargin
	}
	return opts
}

func runPrompt(cmd *cobra.Command, opts bf.Options) error {
	prompt, closer, err := repl.NewTerminal(opts, os.Stdin, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	prompt.Interpreter.SetRate(runRate)
	return prompt.Run()
}

func init() {
	rootCmd.AddCommand(runCmd)

	flags := runCmd.Flags()
	flags.BoolVarP(&runStepByStep, "step-by-step", "s", false, "execute each instruction one by one, waiting for enter to continue to the next")
	flags.IntVarP(&runWindowSize, "print-window", "w", bf.DefaultWindowSize, "size of the window of memory cells that will be printed")
	flags.IntVarP(&runHeadMargin, "head-margin", "m", bf.DefaultMargin, "minimum number of cells away the head needs to be to shift the print window")
	flags.BoolVarP(&runShowMemory, "show-memory", "M", false, "print contents of memory near the head at each execution step")
	flags.BoolVarP(&runVerbose, "verbose", "v", false, "print a description of each instruction executed")
	flags.BoolVarP(&runPrintRaw, "print-raw", "r", false, "print the numeric value of cells instead of characters")
	flags.BoolVar(&runFreshMemory, "fresh-memory", false, "clear memory before each file")
	flags.Float64Var(&runRate, "rate", 0, "maximum instructions per second, 0 for no limit")
}
