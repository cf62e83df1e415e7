package service

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"yatube/app/config"
)

// Version is reported by the version command
const Version = "1.0.0"

// loadConfig is replaced in tests
var loadConfig = config.Load

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "yatube [command] [flags]",
		Short:         "Yatube: a small blogging platform",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newInitCmd(),
		newCleanCmd(),
		newBackupCmd(),
		newRestoreCmd(),
		newCacheCmd(),
		newGroupCmd(),
		newUserCmd(),
		newPostCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "yatube version %s\n", Version)
			},
		},
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(args []string) int {
	root := NewRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		printError(root.ErrOrStderr(), "Error: %v", err)
		return 1
	}
	return 0
}

func printSuccess(w io.Writer, format string, args ...interface{}) {
	color.New(color.FgHiGreen, color.Bold).Fprintf(w, "✅ "+format+"\n", args...)
}

func printError(w io.Writer, format string, args ...interface{}) {
	color.New(color.FgHiRed, color.Bold).Fprintf(w, format+"\n", args...)
}

// confirm asks prompt on out and reads the answer from in. yes skips the
// question.
func confirm(cmd *cobra.Command, prompt string, yes bool) bool {
	if yes {
		return true
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	var response string
	fmt.Fscanln(cmd.InOrStdin(), &response)
	return response == "y" || response == "Y"
}
