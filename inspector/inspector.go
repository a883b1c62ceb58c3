package inspector

import (
	"context"
	"fmt"
	"github.com/viant/afs"
	"github.com/viant/igortree/inspector/graph"
	"github.com/viant/igortree/inspector/igor"
	"github.com/viant/igortree/inspector/repository"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// Inspector provides an interface for inspecting procedure sources
type Inspector interface {
	// InspectSource scans procedure text held in memory
	InspectSource(ctx context.Context, name string, src []byte) (*graph.Node, error)

	// InspectFile scans a procedure file and the procedures it includes
	InspectFile(ctx context.Context, filename string) (*graph.Node, error)

	// InspectFiles scans candidate files ordered by priority and links them under a root node
	InspectFiles(ctx context.Context, files []string) (*igor.Result, error)
}

// Project represents a built procedure tree with its discovery
type Project struct {
	Roots     *repository.Roots
	Discovery *repository.Discovery
	*igor.Result
}

// Factory creates inspectors and runs discovery for a config
type Factory struct {
	config *graph.Config
	fs     afs.Service
	logger *slog.Logger
}

// NewFactory creates a new inspector factory with the given config
func NewFactory(config *graph.Config, logger *slog.Logger) *Factory {
	if config == nil {
		config = graph.DefaultConfig()
	}
	config.Init()
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Factory{
		config: config,
		fs:     afs.New(),
		logger: logger,
	}
}

// GetInspector returns an inspector based on file extension
func (f *Factory) GetInspector(filename string) (Inspector, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == strings.ToLower(f.config.Extension) {
		return f.newInspector(f.config)
	}
	return nil, fmt.Errorf("unsupported file type: %s", ext)
}

// InspectFile is a convenience method that gets the appropriate inspector and inspects the file
func (f *Factory) InspectFile(ctx context.Context, filename string) (*graph.Node, error) {
	inspector, err := f.GetInspector(filename)
	if err != nil {
		return nil, err
	}
	return inspector.InspectFile(ctx, filename)
}

// Locate returns search roots for the factory config
func (f *Factory) Locate() (*repository.Roots, error) {
	return repository.New().Locate(f.config)
}

// Discover enumerates candidate files of the roots
func (f *Factory) Discover(ctx context.Context, roots *repository.Roots) (*repository.Discovery, error) {
	return repository.NewDiscoverer(f.config, f.fs, f.logger).Discover(ctx, roots)
}

// InspectProject discovers procedure files in the roots and builds their tree
func (f *Factory) InspectProject(ctx context.Context, roots *repository.Roots) (*Project, error) {
	discovery, err := f.Discover(ctx, roots)
	if err != nil {
		return nil, err
	}
	f.logger.Debug("procedures discovered",
		"candidates", len(discovery.Candidates),
		"shadowed", len(discovery.Shadowed))
	config := *f.config
	config.UserProcedures = roots.User
	config.IgorProcedures = roots.Igor
	inspector, err := f.newInspector(&config)
	if err != nil {
		return nil, err
	}
	result, err := inspector.InspectFiles(ctx, discovery.Paths())
	if err != nil {
		return nil, err
	}
	return &Project{Roots: roots, Discovery: discovery, Result: result}, nil
}

func (f *Factory) newInspector(config *graph.Config) (*igor.Inspector, error) {
	return igor.NewInspector(config, igor.WithFS(f.fs), igor.WithLogger(f.logger))
}
