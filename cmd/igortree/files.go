package main

import (
	"fmt"
	"github.com/spf13/cobra"
)

// NewFilesCommand creates the files command
func NewFilesCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List discovered procedure files in loading order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			factory := opts.factory()
			roots, err := factory.Locate()
			if err != nil {
				return err
			}
			discovery, err := factory.Discover(cmd.Context(), roots)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, candidate := range discovery.Candidates {
				fmt.Fprintf(out, "%s %s\n", rootLabel(candidate.Root), candidate.Path)
			}
			for _, candidate := range discovery.Shadowed {
				state := "same"
				if candidate.Differs {
					state = "differs"
				}
				warningColor.Fprintf(out, "%s %s (shadowed, %s)\n", rootLabel(candidate.Root), candidate.Path, state)
			}
			return nil
		},
	}
}
