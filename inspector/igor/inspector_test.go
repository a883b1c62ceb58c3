package igor_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/igortree/inspector/graph"
	"github.com/viant/igortree/inspector/igor"
)

type corpus struct {
	user string
	igor string
}

func newCorpus(t *testing.T, user, igorFiles map[string]string) *corpus {
	t.Helper()
	base := t.TempDir()
	ret := &corpus{
		user: filepath.Join(base, "User Procedures"),
		igor: filepath.Join(base, "Igor Procedures"),
	}
	writeFiles(t, ret.user, user)
	writeFiles(t, ret.igor, igorFiles)
	return ret
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
}

func (c *corpus) inspector(t *testing.T, config *graph.Config) *igor.Inspector {
	t.Helper()
	if config == nil {
		config = graph.DefaultConfig()
	}
	config.UserProcedures = c.user
	config.IgorProcedures = c.igor
	inspector, err := igor.NewInspector(config)
	require.NoError(t, err)
	return inspector
}

func names(nodes []*graph.Node) []string {
	var result []string
	for _, node := range nodes {
		result = append(result, node.Name)
	}
	return result
}

func TestInspector_InspectFiles(t *testing.T) {
	c := newCorpus(t, map[string]string{
		"root.ipf": "#pragma rtGlobals=3\nFunction foo()\nEnd\n#include \"lib\"\n",
		"lib.ipf":  "Function bar()\nEnd\n",
	}, nil)
	result, err := c.inspector(t, nil).InspectFiles(context.Background(), []string{
		filepath.Join(c.user, "root.ipf"),
		filepath.Join(c.user, "lib.ipf"),
	})
	require.NoError(t, err)

	root := result.Root
	assert.Equal(t, graph.RootName, root.Name)
	assert.Nil(t, root.Index)
	assert.Equal(t, []string{"root", "lib"}, names(root.Children))

	rootProc := root.Children[0]
	assert.Equal(t, graph.KindProcedure, rootProc.Kind)
	assert.Nil(t, rootProc.Index)
	assert.Equal(t, filepath.Join(c.user, "root.ipf"), rootProc.Path)
	assert.NotZero(t, rootProc.Hash)
	assert.Equal(t, []string{"foo", "lib"}, names(rootProc.Children))

	foo := rootProc.Children[0]
	assert.Equal(t, graph.KindFunction, foo.Kind)
	require.NotNil(t, foo.Index)
	assert.Equal(t, 2, *foo.Index)

	lib := rootProc.Children[1]
	assert.Equal(t, graph.KindProcedure, lib.Kind)
	assert.Equal(t, []string{"bar"}, names(lib.Children))
	assert.Same(t, lib, root.Children[1], "top-level file already built by an include is attached, not rescanned")
	assert.Same(t, lib, result.Built["lib"])
	assert.Len(t, result.Built, 2)
	assert.Empty(t, result.Missing)
}

func TestInspector_SharedInclude(t *testing.T) {
	c := newCorpus(t, map[string]string{
		"a.ipf": "Function shared()\nEnd\n",
		"b.ipf": "#include \"a\"\nFunction b1()\nEnd\n",
		"c.ipf": "#include \"a\"\nFunction c1()\nEnd\n",
	}, nil)
	result, err := c.inspector(t, nil).InspectFiles(context.Background(), []string{
		filepath.Join(c.user, "b.ipf"),
		filepath.Join(c.user, "c.ipf"),
	})
	require.NoError(t, err)

	b := result.Root.Child("b")
	cNode := result.Root.Child("c")
	require.NotNil(t, b)
	require.NotNil(t, cNode)
	aFromB := b.Child("a")
	aFromC := cNode.Child("a")
	require.NotNil(t, aFromB)
	assert.Same(t, aFromB, aFromC)
	assert.Same(t, aFromB, result.Built["a"])

	count := 0
	result.Root.Walk(func(node *graph.Node, depth int) bool {
		if node.Name == "a" {
			count++
		}
		return true
	})
	assert.Equal(t, 1, count)
}

func TestInspector_RelativeIncludeIsShared(t *testing.T) {
	c := newCorpus(t, map[string]string{
		"a.ipf": "Function shared()\nEnd\n",
		"b.ipf": "#include \"a\"\n",
		"c.ipf": "#include \"./a\"\n",
	}, nil)
	result, err := c.inspector(t, nil).InspectFiles(context.Background(), []string{
		filepath.Join(c.user, "b.ipf"),
		filepath.Join(c.user, "c.ipf"),
		filepath.Join(c.user, "a.ipf"),
	})
	require.NoError(t, err)

	aFromB := result.Root.Child("b").Child("a")
	aFromC := result.Root.Child("c").Child("a")
	require.NotNil(t, aFromB)
	assert.Same(t, aFromB, aFromC)
	assert.Same(t, aFromB, result.Root.Child("a"))
	assert.Len(t, result.Built, 3)
}

func TestInspector_MissingInclude(t *testing.T) {
	c := newCorpus(t, map[string]string{
		"main.ipf": "Function run()\nEnd\n\n#include \"ghost\"\n",
	}, nil)
	result, err := c.inspector(t, nil).InspectFiles(context.Background(), []string{filepath.Join(c.user, "main.ipf")})
	require.NoError(t, err)

	main := result.Root.Child("main")
	require.NotNil(t, main)
	ghost := main.Child("ghost")
	require.NotNil(t, ghost)
	assert.Equal(t, graph.KindProcedure, ghost.Kind)
	assert.Nil(t, ghost.Index)
	assert.Empty(t, ghost.Children)
	assert.True(t, ghost.Placeholder)
	assert.NotContains(t, result.Built, "ghost")
	require.Len(t, result.Missing, 1)
	assert.EqualValues(t, &igor.MissingInclude{Procedure: "main", Name: "ghost", Line: 4}, result.Missing[0])
}

func TestInspector_PlaceholderIsNotCached(t *testing.T) {
	c := newCorpus(t, map[string]string{
		"main.ipf": "#include \"late\"\n",
	}, map[string]string{
		"late.ipf": "Function fromIgor()\nEnd\n",
	})
	result, err := c.inspector(t, nil).InspectFiles(context.Background(), []string{
		filepath.Join(c.user, "main.ipf"),
		filepath.Join(c.igor, "late.ipf"),
	})
	require.NoError(t, err)

	placeholder := result.Root.Child("main").Child("late")
	require.NotNil(t, placeholder)
	assert.True(t, placeholder.Placeholder, "includes never resolve against the igor procedures root")

	late := result.Root.Child("late")
	require.NotNil(t, late)
	assert.NotSame(t, placeholder, late)
	assert.False(t, late.Placeholder)
	assert.Equal(t, []string{"fromIgor"}, names(late.Children))
	assert.Same(t, late, result.Built["late"])
}

func TestInspector_LineIndex(t *testing.T) {
	c := newCorpus(t, map[string]string{
		"main.ipf": "#pragma rtGlobals=3\n\n// helpers\n\nFunction fifth()\nEnd\n",
	}, nil)
	node, err := c.inspector(t, nil).InspectFile(context.Background(), filepath.Join(c.user, "main.ipf"))
	require.NoError(t, err)
	require.Len(t, node.Children, 1)
	require.NotNil(t, node.Children[0].Index)
	assert.Equal(t, 5, *node.Children[0].Index)
}

func TestInspector_Cycle(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		start string
		chain string
	}{
		{
			name: "mutual include",
			files: map[string]string{
				"a.ipf": "#include \"b\"\n",
				"b.ipf": "#include \"a\"\n",
			},
			start: "a.ipf",
			chain: "a -> b -> a",
		},
		{
			name: "self include",
			files: map[string]string{
				"self.ipf": "Function f()\nEnd\n#include \"self\"\n",
			},
			start: "self.ipf",
			chain: "self -> self",
		},
		{
			name: "indirect",
			files: map[string]string{
				"top.ipf": "#include \"a\"\n",
				"a.ipf":   "#include \"b\"\n",
				"b.ipf":   "#include \"c\"\n",
				"c.ipf":   "#include \"a\"\n",
			},
			start: "top.ipf",
			chain: "a -> b -> c -> a",
		},
		{
			name: "relative self include",
			files: map[string]string{
				"a.ipf": "#include \"./a\"\n",
			},
			start: "a.ipf",
			chain: "a -> a",
		},
		{
			name: "relative mutual include",
			files: map[string]string{
				"a.ipf": "#include \"./b\"\n",
				"b.ipf": "#include \"./a.ipf\"\n",
			},
			start: "a.ipf",
			chain: "a -> b -> a",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCorpus(t, tt.files, nil)
			result, err := c.inspector(t, nil).InspectFiles(context.Background(), []string{filepath.Join(c.user, tt.start)})
			assert.ErrorIs(t, err, igor.ErrCycleDetected)
			assert.ErrorContains(t, err, tt.chain)
			assert.Nil(t, result)
		})
	}
}

func TestInspector_DiamondIsNotACycle(t *testing.T) {
	c := newCorpus(t, map[string]string{
		"top.ipf":   "#include \"left\"\n#include \"right\"\n",
		"left.ipf":  "#include \"base\"\n",
		"right.ipf": "#include \"base\"\n",
		"base.ipf":  "Function b()\nEnd\n",
	}, nil)
	node, err := c.inspector(t, nil).InspectFile(context.Background(), filepath.Join(c.user, "top.ipf"))
	require.NoError(t, err)
	assert.Same(t, node.Child("left").Child("base"), node.Child("right").Child("base"))
}

func TestInspector_ReadError(t *testing.T) {
	c := newCorpus(t, map[string]string{
		"main.ipf": "Function run()\nEnd\n",
	}, nil)
	result, err := c.inspector(t, nil).InspectFiles(context.Background(), []string{
		filepath.Join(c.user, "main.ipf"),
		filepath.Join(c.user, "gone.ipf"),
	})
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestInspector_ScanRules(t *testing.T) {
	tests := []struct {
		name    string
		source  []byte
		config  *graph.Config
		want    []string
		wantErr bool
	}{
		{
			name:   "definitions must start the line",
			source: []byte("  Function indented()\nFunction first()\nstatic Function hidden()\nFunctionless\nFunction\tsecond(a, b)\n"),
			want:   []string{"first", "second"},
		},
		{
			name:   "crlf line endings",
			source: []byte("Function one()\r\nEnd\r\nFunction two()\r\n"),
			want:   []string{"one", "two"},
		},
		{
			name:   "classic mac line endings",
			source: []byte("Function one()\rEnd\rFunction two()\r"),
			want:   []string{"one", "two"},
		},
		{
			name:   "windows-1252 text",
			source: []byte("// R\xe9sum\xe9 helpers\nFunction legacy()\nEnd\n"),
			want:   []string{"legacy"},
		},
		{
			name:   "byte order mark",
			source: []byte("\xef\xbb\xbfFunction first()\nEnd\n"),
			want:   []string{"first"},
		},
		{
			name:   "include with extension",
			source: []byte("#include \"ghost.ipf\"\n#include <WaveMetrics>\n#include\n"),
			want:   []string{"ghost"},
		},
		{
			name: "custom function pattern",
			config: &graph.Config{
				FunctionPattern: `(?i)^(?:static\s+|threadsafe\s+)*function(?:/\w+)?\s+(\w+)`,
			},
			source: []byte("static Function hidden()\nThreadSafe Function worker()\nFunction/S text()\nMacro m()\n"),
			want:   []string{"hidden", "worker", "text"},
		},
		{
			name:    "pattern without capture group",
			config:  &graph.Config{IncludePattern: `^#include`},
			wantErr: true,
		},
		{
			name:    "malformed pattern",
			config:  &graph.Config{FunctionPattern: `^Function\s+(\w+`},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inspector, err := igor.NewInspector(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			node, err := inspector.InspectSource(context.Background(), "main", tt.source)
			require.NoError(t, err)
			assert.Equal(t, "main", node.Name)
			assert.Equal(t, tt.want, names(node.Children))
		})
	}
}

func TestInspector_IncludeNameNormalization(t *testing.T) {
	c := newCorpus(t, map[string]string{
		"Caf\u00e9 Tools.ipf": "Function brew()\nEnd\n",
		"main.ipf":            "#include \"Caf\xe9 Tools\"\n",
	}, nil)
	node, err := c.inspector(t, nil).InspectFile(context.Background(), filepath.Join(c.user, "main.ipf"))
	require.NoError(t, err)
	require.Len(t, node.Children, 1)
	include := node.Children[0]
	assert.Equal(t, "Caf\u00e9 Tools", include.Name)
	assert.False(t, include.Placeholder)
	assert.Equal(t, []string{"brew"}, names(include.Children))
}

func TestInspector_InspectSource(t *testing.T) {
	c := newCorpus(t, map[string]string{
		"lib.ipf":  "Function helper()\nEnd\n",
		"loop.ipf": "#include \"main\"\n",
	}, nil)
	inspector := c.inspector(t, nil)

	node, err := inspector.InspectSource(context.Background(), "main.ipf", []byte("#include \"lib\"\nFunction run()\nEnd\n"))
	require.NoError(t, err)
	assert.Equal(t, "main", node.Name)
	assert.Equal(t, []string{"lib", "run"}, names(node.Children))

	_, err = inspector.InspectSource(context.Background(), "main.ipf", []byte("#include \"loop\"\n"))
	assert.ErrorIs(t, err, igor.ErrCycleDetected)
	assert.ErrorContains(t, err, "main -> loop -> main")
}

func TestInspector_Reentrant(t *testing.T) {
	c := newCorpus(t, map[string]string{
		"main.ipf": "#include \"lib\"\n",
		"lib.ipf":  "Function f()\nEnd\n",
	}, nil)
	inspector := c.inspector(t, nil)
	files := []string{filepath.Join(c.user, "main.ipf")}
	first, err := inspector.InspectFiles(context.Background(), files)
	require.NoError(t, err)
	second, err := inspector.InspectFiles(context.Background(), files)
	require.NoError(t, err)
	assert.NotSame(t, first.Built["lib"], second.Built["lib"])
	assert.Equal(t, first.Root.Render(0), second.Root.Render(0))
}
