package repository

import (
	"context"
	"fmt"
	ignore "github.com/sabhiram/go-gitignore"
	"github.com/viant/afs"
	"github.com/viant/igortree/inspector/graph"
	"golang.org/x/sync/errgroup"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
)

// Discoverer enumerates procedure files in the search roots
type Discoverer struct {
	config *graph.Config
	fs     afs.Service
	logger *slog.Logger
}

// NewDiscoverer creates a discoverer, nil fs and logger fall back to defaults
func NewDiscoverer(config *graph.Config, fs afs.Service, logger *slog.Logger) *Discoverer {
	if config == nil {
		config = graph.DefaultConfig()
	}
	config.Init()
	if fs == nil {
		fs = afs.New()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Discoverer{config: config, fs: fs, logger: logger}
}

// Discover lists both roots and returns candidates deduplicated by procedure name,
// user procedures take priority over igor procedures
func (d *Discoverer) Discover(ctx context.Context, roots *Roots) (*Discovery, error) {
	kinds := []RootKind{UserProcedures, IgorProcedures}
	locations := []string{roots.User, roots.Igor}
	listed := make([][]*Candidate, len(locations))

	group, groupCtx := errgroup.WithContext(ctx)
	for i := range locations {
		i := i
		group.Go(func() error {
			candidates, err := d.list(groupCtx, locations[i], kinds[i])
			if err != nil {
				return err
			}
			listed[i] = candidates
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	result := &Discovery{}
	winners := make(map[string]*Candidate)
	for _, candidates := range listed {
		for _, candidate := range candidates {
			winner, ok := winners[candidate.Name]
			if !ok {
				winners[candidate.Name] = candidate
				result.Candidates = append(result.Candidates, candidate)
				continue
			}
			if err := d.compare(ctx, winner, candidate); err != nil {
				return nil, err
			}
			d.logger.Info("procedure shadowed",
				"name", candidate.Name,
				"path", candidate.Path,
				"by", winner.Path,
				"differs", candidate.Differs)
			result.Shadowed = append(result.Shadowed, candidate)
		}
	}
	return result, nil
}

// list returns procedure files of a root sorted by name, a missing root is empty
func (d *Discoverer) list(ctx context.Context, location string, kind RootKind) ([]*Candidate, error) {
	if location == "" {
		return nil, nil
	}
	exists, err := d.fs.Exists(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", location, err)
	}
	if !exists {
		d.logger.Debug("procedure root not found", "root", kind, "path", location)
		return nil, nil
	}
	objects, err := d.fs.List(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", location, err)
	}
	matcher, err := d.ignoreMatcher(ctx, location)
	if err != nil {
		return nil, err
	}
	var candidates []*Candidate
	for _, object := range objects {
		if object.IsDir() {
			continue
		}
		name := object.Name()
		if !HasExtension(name, d.config.Extension) {
			continue
		}
		if matcher != nil && matcher.MatchesPath(name) {
			d.logger.Debug("procedure ignored", "root", kind, "name", name)
			continue
		}
		candidates = append(candidates, &Candidate{
			Name: graph.Stem(name),
			Path: graph.JoinLocation(location, name),
			Root: kind,
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Path < candidates[j].Path
	})
	return candidates, nil
}

// ignoreMatcher compiles the root ignore file, only local roots are supported
func (d *Discoverer) ignoreMatcher(ctx context.Context, location string) (*ignore.GitIgnore, error) {
	if d.config.IgnoreFile == "" || strings.Contains(location, "://") {
		return nil, nil
	}
	ignoreFile := filepath.Join(location, d.config.IgnoreFile)
	exists, err := d.fs.Exists(ctx, ignoreFile)
	if err != nil || !exists {
		return nil, err
	}
	matcher, err := ignore.CompileIgnoreFile(ignoreFile)
	if err != nil {
		return nil, fmt.Errorf("failed to compile ignore file %s: %w", ignoreFile, err)
	}
	return matcher, nil
}

// compare hashes a shadowed copy and the copy that won
func (d *Discoverer) compare(ctx context.Context, winner, shadowed *Candidate) error {
	for _, candidate := range []*Candidate{winner, shadowed} {
		if candidate.Hash != 0 {
			continue
		}
		data, err := d.fs.DownloadWithURL(ctx, candidate.Path)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", candidate.Path, err)
		}
		if candidate.Hash, err = graph.Hash(data); err != nil {
			return err
		}
	}
	shadowed.Differs = winner.Hash != shadowed.Hash
	return nil
}

// HasExtension checks file extension ignoring case
func HasExtension(name, ext string) bool {
	return strings.EqualFold(filepath.Ext(name), ext)
}
