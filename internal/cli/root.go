// Package cli defines the cobra command tree. The default command starts the
// interactive shell.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"vibesh/internal/display"
	"vibesh/internal/shell"
	"vibesh/internal/version"
)

var showBanner bool

var rootCmd = &cobra.Command{
	Use:   "vibesh",
	Short: "AI-augmented interactive shell",
	Long: `Vibesh is an interactive shell that builds small programs from plain
descriptions, inspects the screen, and answers questions, while passing
ordinary commands through to the system shell.`,
	Version:      fmt.Sprintf("%s (commit %s, built %s)", version.Version, version.CommitSHA, version.BuildDate),
	SilenceUsage: true,
	RunE:         runShell,
}

func runShell(cmd *cobra.Command, args []string) error {
	if showBanner {
		fmt.Println(display.Banner())
		return nil
	}

	s, err := shell.New(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to start shell: %w", err)
	}
	return s.Run(cmd.Context())
}

func init() {
	rootCmd.Flags().BoolVar(&showBanner, "banner", false, "print the banner and exit")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
