package main

import (
	"context"
	"fmt"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/viant/igortree/inspector"
	"github.com/viant/igortree/inspector/graph"
	"github.com/viant/igortree/inspector/repository"
	"log/slog"
)

// RootOptions holds global flags for all commands
type RootOptions struct {
	ConfigURL string
	User      string
	Igor      string
	Verbose   bool
	NoColor   bool

	config *graph.Config
	logger *slog.Logger
}

// NewRootCommand creates the igortree command
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	cmd := &cobra.Command{
		Use:           "igortree",
		Short:         "Igor Pro procedure tree",
		Long:          "Builds the include and function tree of Igor Pro procedure files.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init(cmd)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.ConfigURL, "config", "", "config file (yaml or toml)")
	cmd.PersistentFlags().StringVar(&opts.User, "user", "", "User Procedures folder")
	cmd.PersistentFlags().StringVar(&opts.Igor, "igor", "", "Igor Procedures folder")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	cmd.AddCommand(NewTreeCommand(opts))
	cmd.AddCommand(NewFilesCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))

	return cmd
}

func (o *RootOptions) init(cmd *cobra.Command) error {
	if o.NoColor {
		color.NoColor = true
	}
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	o.logger = slog.New(handler).With("run", uuid.NewString())

	o.config = graph.DefaultConfig()
	if o.ConfigURL != "" {
		config, err := graph.LoadConfig(cmd.Context(), o.ConfigURL)
		if err != nil {
			return err
		}
		o.config = config
	}
	if o.User != "" {
		o.config.UserProcedures = o.User
	}
	if o.Igor != "" {
		o.config.IgorProcedures = o.Igor
	}
	return nil
}

func (o *RootOptions) factory() *inspector.Factory {
	return inspector.NewFactory(o.config, o.logger)
}

func (o *RootOptions) inspectProject(ctx context.Context) (*inspector.Project, error) {
	factory := o.factory()
	roots, err := factory.Locate()
	if err != nil {
		return nil, err
	}
	o.logger.Debug("procedure roots", "user", roots.User, "igor", roots.Igor)
	return factory.InspectProject(ctx, roots)
}

var warningColor = color.New(color.FgYellow)

func (o *RootOptions) warnMissing(cmd *cobra.Command, project *inspector.Project) {
	for _, missing := range project.Missing {
		warningColor.Fprintf(cmd.ErrOrStderr(), "warning: %s:%d includes missing procedure %q\n",
			missing.Procedure, missing.Line, missing.Name)
	}
}

func rootLabel(kind repository.RootKind) string {
	return fmt.Sprintf("[%s]", kind)
}
