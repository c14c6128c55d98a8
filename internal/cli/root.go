package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "m2settings",
		Short: "Resolve Maven settings into effective repository declarations",
		Long: `M2settings reads the Maven global, user and security settings documents
and resolves them against a list of repository declarations.

Resolution:
  - merges the user document over the global one and decrypts credentials
  - activates profiles and applies their properties and repositories
  - substitutes repositories with the effective mirror
  - attaches server credentials to matching repositories`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(NewResolveCmd())
	rootCmd.AddCommand(NewEncryptCmd())

	return rootCmd
}
