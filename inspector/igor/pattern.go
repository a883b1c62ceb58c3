package igor

import (
	"fmt"
	"github.com/viant/igortree/inspector/graph"
	"regexp"
	"strings"
)

// matcher recognizes directive lines
type matcher struct {
	function *regexp.Regexp
	include  *regexp.Regexp
	ext      string
}

func newMatcher(config *graph.Config) (*matcher, error) {
	function, err := compilePattern("function", config.FunctionPattern)
	if err != nil {
		return nil, err
	}
	include, err := compilePattern("include", config.IncludePattern)
	if err != nil {
		return nil, err
	}
	return &matcher{function: function, include: include, ext: config.Extension}, nil
}

func compilePattern(name, pattern string) (*regexp.Regexp, error) {
	expr, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid %s pattern %q: %w", name, pattern, err)
	}
	if expr.NumSubexp() < 1 {
		return nil, fmt.Errorf("invalid %s pattern %q: missing capture group", name, pattern)
	}
	return expr, nil
}

// matchInclude returns the included procedure name without extension
func (m *matcher) matchInclude(line string) (string, bool) {
	match := m.include.FindStringSubmatch(line)
	if match == nil || match[1] == "" {
		return "", false
	}
	name := match[1]
	if strings.HasSuffix(strings.ToLower(name), strings.ToLower(m.ext)) {
		name = name[:len(name)-len(m.ext)]
	}
	return graph.NormalizeName(name), true
}

// matchFunction returns the defined function name
func (m *matcher) matchFunction(line string) (string, bool) {
	match := m.function.FindStringSubmatch(line)
	if match == nil || match[1] == "" {
		return "", false
	}
	return match[1], true
}
