// Package cli defines the cobra command tree for comment-service.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "comment-service",
		Short:         "Comment API with an audit journal",
		Long:          "HTTP API for creating, listing, paginating and updating comments. Every create and update is recorded in the logs journal.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newVersionCmd(),
	)

	return root
}
