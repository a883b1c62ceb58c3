package igor

import (
	"context"
	"errors"
	"fmt"
	"github.com/viant/afs"
	"github.com/viant/igortree/inspector/graph"
	"io"
	"log/slog"
	"strings"
)

// ErrCycleDetected is returned when procedures include each other
var ErrCycleDetected = errors.New("include cycle detected")

// Inspector builds procedure trees from Igor Pro procedure files
type Inspector struct {
	config  *graph.Config
	fs      afs.Service
	logger  *slog.Logger
	matcher *matcher
}

// Option configures an Inspector
type Option func(*Inspector)

// WithFS sets the file service used to read procedures
func WithFS(fs afs.Service) Option {
	return func(i *Inspector) {
		i.fs = fs
	}
}

// WithLogger sets the build logger
func WithLogger(logger *slog.Logger) Option {
	return func(i *Inspector) {
		i.logger = logger
	}
}

// NewInspector creates an Inspector for the given config
func NewInspector(config *graph.Config, options ...Option) (*Inspector, error) {
	if config == nil {
		config = graph.DefaultConfig()
	}
	config.Init()
	m, err := newMatcher(config)
	if err != nil {
		return nil, err
	}
	ret := &Inspector{
		config:  config,
		matcher: m,
	}
	for _, option := range options {
		option(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	if ret.logger == nil {
		ret.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return ret, nil
}

// Config returns inspector config
func (i *Inspector) Config() *graph.Config {
	return i.config
}

// MissingInclude records an include that was replaced by a placeholder
type MissingInclude struct {
	Procedure string // Including procedure
	Name      string // Included procedure name
	Line      int
}

// Result holds a build outcome
type Result struct {
	Root    *graph.Node
	Built   map[string]*graph.Node // Procedures by stem, placeholders excluded
	Missing []*MissingInclude
}

// BuildTree builds the procedure tree for candidate files ordered by priority
func (i *Inspector) BuildTree(ctx context.Context, files []string) (*graph.Node, error) {
	result, err := i.InspectFiles(ctx, files)
	if err != nil {
		return nil, err
	}
	return result.Root, nil
}

// InspectFiles scans candidate files and links them under a synthetic root
func (i *Inspector) InspectFiles(ctx context.Context, files []string) (*Result, error) {
	b := i.newBuild(ctx)
	root := graph.NewProcedure(graph.RootName)
	for _, file := range files {
		node, ok := b.built[graph.Stem(file)]
		if !ok {
			var err error
			if node, err = b.scanFile(file); err != nil {
				return nil, err
			}
		}
		if err := root.AddChild(node); err != nil {
			return nil, err
		}
	}
	i.logger.Debug("procedure tree built",
		"files", len(files),
		"procedures", len(b.built),
		"missing", len(b.missing))
	return &Result{Root: root, Built: b.built, Missing: b.missing}, nil
}

// InspectFile scans a single procedure file resolving its includes
func (i *Inspector) InspectFile(ctx context.Context, filename string) (*graph.Node, error) {
	return i.newBuild(ctx).scanFile(filename)
}

// InspectSource scans procedure source held in memory, includes are resolved on disk
func (i *Inspector) InspectSource(ctx context.Context, name string, src []byte) (*graph.Node, error) {
	b := i.newBuild(ctx)
	name = graph.Stem(name)
	b.push(name)
	node, err := b.scanSource(name, "", src)
	if err != nil {
		return nil, err
	}
	b.built[name] = node
	return node, nil
}

func (i *Inspector) newBuild(ctx context.Context) *build {
	return &build{
		Inspector: i,
		ctx:       ctx,
		built:     make(map[string]*graph.Node),
		onStack:   make(map[string]bool),
	}
}

// build holds state of a single tree construction, it is not safe for concurrent use
type build struct {
	*Inspector
	ctx     context.Context
	built   map[string]*graph.Node
	stack   []string
	onStack map[string]bool
	missing []*MissingInclude
}

func (b *build) push(stem string) {
	b.stack = append(b.stack, stem)
	b.onStack[stem] = true
}

func (b *build) pop() {
	stem := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	delete(b.onStack, stem)
}

func (b *build) scanFile(location string) (*graph.Node, error) {
	stem := graph.Stem(location)
	if b.onStack[stem] {
		return nil, fmt.Errorf("%w: %s", ErrCycleDetected, b.chain(stem))
	}
	b.push(stem)
	defer b.pop()
	b.logger.Debug("scanning procedure", "name", stem, "path", location)
	data, err := b.fs.DownloadWithURL(b.ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", location, err)
	}
	node, err := b.scanSource(stem, location, data)
	if err != nil {
		return nil, err
	}
	b.built[stem] = node
	return node, nil
}

func (b *build) scanSource(stem, location string, data []byte) (*graph.Node, error) {
	node := graph.NewProcedure(stem)
	node.Path = location
	hash, err := graph.Hash(data)
	if err != nil {
		return nil, fmt.Errorf("failed to hash %s: %w", stem, err)
	}
	node.Hash = hash
	for idx, line := range splitLines(data) {
		lineNumber := idx + 1
		if includeName, ok := b.matcher.matchInclude(line); ok {
			child, err := b.resolveInclude(stem, includeName, lineNumber)
			if err != nil {
				return nil, err
			}
			if err = node.AddChild(child); err != nil {
				return nil, err
			}
			continue
		}
		if functionName, ok := b.matcher.matchFunction(line); ok {
			if err := node.AddChild(graph.NewFunction(functionName, lineNumber)); err != nil {
				return nil, err
			}
		}
	}
	return node, nil
}

// resolveInclude returns the cached, freshly scanned or placeholder procedure for an include,
// the cache and scan stack are keyed by stem since include text may carry a relative path
func (b *build) resolveInclude(stem, includeName string, line int) (*graph.Node, error) {
	key := graph.Stem(includeName)
	if cached, ok := b.built[key]; ok {
		return cached, nil
	}
	if b.onStack[key] {
		return nil, fmt.Errorf("%w: %s", ErrCycleDetected, b.chain(key))
	}
	if location := b.includeLocation(includeName); location != "" {
		exists, err := b.fs.Exists(b.ctx, location)
		if err != nil {
			return nil, fmt.Errorf("failed to check include %s: %w", location, err)
		}
		if exists {
			return b.scanFile(location)
		}
	}
	b.logger.Warn("include not found", "procedure", stem, "include", includeName, "line", line)
	b.missing = append(b.missing, &MissingInclude{Procedure: stem, Name: includeName, Line: line})
	placeholder := graph.NewProcedure(key)
	placeholder.Placeholder = true
	return placeholder, nil
}

// includeLocation returns include candidate path, includes resolve against the primary root only
func (b *build) includeLocation(includeName string) string {
	if b.config.UserProcedures == "" {
		return ""
	}
	return graph.JoinLocation(b.config.UserProcedures, includeName+b.config.Extension)
}

func (b *build) chain(stem string) string {
	start := 0
	for idx, candidate := range b.stack {
		if candidate == stem {
			start = idx
			break
		}
	}
	return strings.Join(append(append([]string{}, b.stack[start:]...), stem), " -> ")
}
