// Package cli implements the offline dietplan command.
package cli

import (
	"github.com/spf13/cobra"
)

var profilePath string

var rootCmd = &cobra.Command{
	Use:           "dietplan",
	Short:         "Compute nutrition targets, build week plans and render reports offline",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&profilePath, "profile", "p", "profile.toml", "client profile TOML file")
	rootCmd.AddCommand(initCmd, targetsCmd, templateCmd, renderCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
