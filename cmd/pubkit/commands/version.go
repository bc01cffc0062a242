package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/pubkit/internal/build"
)

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application and resolution tool versions",
		Run: func(cmd *cobra.Command, _ []string) {
			version := build.Version
			if build.Commit != "" {
				version += " (" + build.Commit + ")"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pubkit version %s\n", version)

			// The tool may be absent; its version is printed only when known.
			if version, err := c.app.ToolVersion(cmd.Context()); err == nil && version != "" {
				fmt.Fprintln(cmd.OutOrStdout(), version)
			}
		},
	}
}
