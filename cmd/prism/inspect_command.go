package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"prism/internal/imageio"
)

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE [FILE...]",
		Short: "Print image metadata without opening a viewer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(args))
			failed := 0
			for _, arg := range args {
				img, err := imageio.Load(arg, "")
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "prism: cannot load %s: %v\n", arg, err)
					failed++
					continue
				}
				size := img.Size()
				rows = append(rows, []string{
					img.Name,
					strings.ToUpper(img.Format),
					fmt.Sprintf("%dx%d", size.X, size.Y),
					img.Orientation.String(),
				})
			}

			if len(rows) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"File", "Format", "Size", "Orientation"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
				))
			}
			if failed > 0 {
				return runtimeErr(fmt.Errorf("failed to inspect %d of %d files", failed, len(args)))
			}
			return nil
		},
	}
}
