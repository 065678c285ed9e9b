package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "regform-cli",
	Short: "Regform CLI tool",
	Long: `Regform CLI drives the registration form without a browser.

Available commands:
  submit    Fill in the form and submit it to the auth endpoint
  version   Print the CLI version

Use "regform-cli [command] --help" for more information about a specific command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute executes the root command
func Execute() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}

// execute runs the root command and prints its error. A failed submission
// has already printed the form's message, so it is not repeated.
func execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errSubmissionFailed) {
		rootCmd.PrintErrln("Error:", err)
	}
	return err
}
