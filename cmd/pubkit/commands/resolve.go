package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [name...]",
		Short: "Resolve package names to pinned versions",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, _ := cmd.Flags().GetString("from")
			warm, _ := cmd.Flags().GetBool("warm")

			names := args
			if from != "" {
				data, err := os.ReadFile(from) //nolint:gosec // Path is a user-provided CLI argument.
				if err != nil {
					return zerr.Wrap(err, "failed to read source file")
				}
				names = append(names, c.app.ScanImports([]string{string(data)})...)
			}
			if len(names) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}

			// The tool version is informational; resolution proceeds without it.
			if version, err := c.app.ToolVersion(cmd.Context()); err == nil && version != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), version)
			}

			set, err := c.app.Resolve(cmd.Context(), names)
			if err != nil {
				return err
			}
			if warm {
				if err := c.app.Warm(cmd.Context(), set); err != nil {
					return err
				}
			}
			for _, ref := range set.Refs() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ref.Name, ref.Version)
			}
			return nil
		},
	}
	cmd.Flags().String("from", "", "Scan a Dart source file and resolve its package imports")
	cmd.Flags().BoolP("warm", "w", false, "Fetch the resolved packages into the cache")
	return cmd
}
