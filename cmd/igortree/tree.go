package main

import (
	"fmt"
	"github.com/spf13/cobra"
	"github.com/viant/igortree/inspector/graph"
)

// NewTreeCommand creates the tree command
func NewTreeCommand(opts *RootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "tree [procedure]",
		Short: "Print the procedure tree or one top-level procedure",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			emitter, err := graph.NewEmitter(format)
			if err != nil {
				return err
			}
			project, err := opts.inspectProject(cmd.Context())
			if err != nil {
				return err
			}
			node := project.Root
			if len(args) == 1 {
				if node = project.Root.Child(graph.NormalizeName(args[0])); node == nil {
					return fmt.Errorf("procedure %q not found", args[0])
				}
			}
			data, err := emitter.Emit(node)
			if err != nil {
				return err
			}
			opts.warnMissing(cmd, project)
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text|tree|yaml)")
	return cmd
}
