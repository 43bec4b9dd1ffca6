package format_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/dialects/ansi"
	"github.com/leapstack-labs/leaplint/pkg/format"
	"github.com/leapstack-labs/leaplint/pkg/lexer"
	"github.com/leapstack-labs/leaplint/pkg/parser"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

func parse(t *testing.T, sql string) *segment.Tree {
	t.Helper()
	reg, err := dialect.NewRegistry(ansi.ANSI)
	require.NoError(t, err)
	d, err := reg.Resolve("ansi")
	require.NoError(t, err)
	toks, err := lexer.Lex(sql, d.LexerConfig())
	require.NoError(t, err)
	return parser.Parse(toks, d).Tree
}

func countNodes(n *format.Node) int {
	total := 1
	for _, c := range n.Children {
		total += countNodes(c)
	}
	return total
}

func TestText(t *testing.T) {
	tree := parse(t, "select 1\nfrom t")
	out := format.Text(tree, format.Options{})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")

	assert.Equal(t, "[L:  1, P:  1] | file:", lines[0])
	assert.Len(t, lines, countNodes(format.Build(tree, format.Options{})))
	assert.Contains(t, out, `"select"`)
	assert.Contains(t, out, "[L:  2, P:  1] | ")
	assert.Contains(t, out, `"\n"`, "newlines are quoted")

	var keyword string
	for _, l := range lines {
		if strings.Contains(l, `"from"`) {
			keyword = l
		}
	}
	require.NotEmpty(t, keyword)
	assert.Contains(t, keyword, "keyword:")
}

func TestText_AlignsLeafValues(t *testing.T) {
	out := format.Text(parse(t, "select a, b from t"), format.Options{CodeOnly: true})
	col := -1
	for _, l := range strings.Split(out, "\n") {
		i := strings.Index(l, `"`)
		if i < 0 {
			continue
		}
		if col < 0 {
			col = i
		}
		assert.Equal(t, col, i, "line %q", l)
	}
}

func TestBuild_CodeOnly(t *testing.T) {
	tree := parse(t, "select  a -- note\nfrom t")
	var types []string
	var walk func(n *format.Node)
	walk = func(n *format.Node) {
		types = append(types, n.Type)
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(format.Build(tree, format.Options{CodeOnly: true}))

	for _, trivia := range []string{"whitespace", "newline", "comment", parser.TypeEndOfFile} {
		assert.NotContains(t, types, trivia)
	}
	assert.Contains(t, types, parser.TypeKeyword)
}

func TestStructuredFormats(t *testing.T) {
	tree := parse(t, "select a as b from t;\n")
	want := format.Build(tree, format.Options{})

	y, err := format.YAML(tree, format.Options{})
	require.NoError(t, err)
	assert.Contains(t, string(y), `raw: "\n"`)
	assert.Contains(t, string(y), `raw: " "`)
	var fromYAML format.Node
	require.NoError(t, yaml.Unmarshal(y, &fromYAML))
	if diff := cmp.Diff(want, &fromYAML); diff != "" {
		t.Errorf("yaml mismatch (-want +got):\n%s", diff)
	}

	j, err := format.JSON(tree, format.Options{})
	require.NoError(t, err)
	var fromJSON format.Node
	require.NoError(t, json.Unmarshal(j, &fromJSON))
	if diff := cmp.Diff(want, &fromJSON); diff != "" {
		t.Errorf("json mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite(t *testing.T) {
	tree := parse(t, "select 1")
	for _, f := range format.Formats {
		var buf bytes.Buffer
		require.NoError(t, format.Write(&buf, tree, f, format.Options{}), f)
		assert.NotEmpty(t, buf.String(), f)
	}

	err := format.Write(&bytes.Buffer{}, tree, "xml", format.Options{})
	assert.ErrorContains(t, err, `unknown format "xml"`)
}
