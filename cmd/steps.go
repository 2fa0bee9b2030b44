package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/josephlewis42/bfkit/core/lint"
	"github.com/spf13/cobra"
)

// stepsCmd shows the lint pipeline
var stepsCmd = &cobra.Command{
	Use:   "steps [TARGET]",
	Short: "Show the commands the lint gate would run, in order.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		runner := lint.NewRunner(pipeline(cfg), nil, nil, logger)
		argvs, err := runner.Resolve(lintTarget(cfg, args))
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
		for i, argv := range argvs {
			fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, runner.Steps[i].Name, strings.Join(argv, " "))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(stepsCmd)
}
