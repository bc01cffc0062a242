package commands

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"go.trai.ch/pubkit/internal/adapters/fs"
	"go.trai.ch/zerr"
)

func (c *CLI) newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <path>...",
		Short: "List package imports found in Dart sources",
		Long:  "Scan Dart source files for package imports. Directory arguments are walked for .dart files.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			walker := fs.NewWalker()

			var sources []string
			for _, arg := range args {
				info, err := os.Stat(arg)
				if err != nil {
					return zerr.Wrap(err, "failed to read source path")
				}
				paths := []string{arg}
				if info.IsDir() {
					paths = slices.Collect(walker.WalkSources(arg))
				}
				for _, path := range paths {
					data, err := os.ReadFile(path) //nolint:gosec // Paths are user-provided CLI arguments.
					if err != nil {
						return zerr.Wrap(err, "failed to read source file")
					}
					sources = append(sources, string(data))
				}
			}

			for _, name := range c.app.ScanImports(sources) {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
