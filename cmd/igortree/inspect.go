package main

import (
	"github.com/spf13/cobra"
	"github.com/viant/igortree/inspector/graph"
)

// NewInspectCommand creates the inspect command
func NewInspectCommand(opts *RootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print the tree of a single procedure file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			emitter, err := graph.NewEmitter(format)
			if err != nil {
				return err
			}
			roots, err := opts.factory().Locate()
			if err != nil {
				return err
			}
			opts.config.UserProcedures = roots.User
			opts.config.IgorProcedures = roots.Igor
			node, err := opts.factory().InspectFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			data, err := emitter.Emit(node)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text|tree|yaml)")
	return cmd
}
