package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/pubkit/internal/core/domain"
)

func (c *CLI) newReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <reference>",
		Short: "Print a package file addressed by a package: reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := domain.ParseReference(args[0])
			if err != nil {
				return err
			}

			set, err := c.app.Resolve(cmd.Context(), []string{ref.Package})
			if err != nil {
				return err
			}

			content, err := c.app.ReadContent(cmd.Context(), set, args[0])
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(content)
			return err
		},
	}
}
