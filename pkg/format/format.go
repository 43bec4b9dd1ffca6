// Package format renders segment trees for inspection.
//
// The text form lists one segment per line with its position and is meant
// for people. The YAML and JSON forms nest children under their parent.
package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leaplint/pkg/segment"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Formats lists the accepted format names.
var Formats = []string{FormatText, FormatYAML, FormatJSON}

// Options control which segments are rendered.
type Options struct {
	// CodeOnly drops whitespace, newline, comment and end-of-file leaves.
	CodeOnly bool
}

// Node is a serializable view of one segment. Leaves carry Raw; branches
// carry Children.
type Node struct {
	Type     string  `json:"type" yaml:"type"`
	Raw      string  `json:"raw,omitempty" yaml:"raw,omitempty"`
	Line     int     `json:"line" yaml:"line"`
	Column   int     `json:"column" yaml:"column"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// MarshalYAML emits Raw double-quoted so whitespace-only leaves such as
// "\n" survive a round trip.
func (n *Node) MarshalYAML() (any, error) {
	m := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, v *yaml.Node) {
		m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, v)
	}
	add("type", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n.Type})
	if n.Raw != "" {
		add("raw", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Style: yaml.DoubleQuotedStyle, Value: n.Raw})
	}
	add("line", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(n.Line)})
	add("column", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(n.Column)})
	if len(n.Children) > 0 {
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, c := range n.Children {
			var cn yaml.Node
			if err := cn.Encode(c); err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, &cn)
		}
		add("children", seq)
	}
	return m, nil
}

// Build converts tree into nodes.
func Build(tree *segment.Tree, opts Options) *Node {
	positions := tree.Positions()
	var build func(id segment.ID) *Node
	build = func(id segment.ID) *Node {
		s := tree.Get(id)
		start := positions.Start(id)
		n := &Node{Type: s.Type, Line: start.Line, Column: start.Column}
		if s.IsLeaf() {
			n.Raw = s.Raw
			return n
		}
		n.Children = []*Node{}
		for _, c := range s.Children {
			if opts.CodeOnly {
				if cs := tree.Get(c); cs.IsLeaf() && !cs.IsCode() {
					continue
				}
			}
			n.Children = append(n.Children, build(c))
		}
		return n
	}
	return build(tree.Root)
}

// Text renders tree as an indented listing.
func Text(tree *segment.Tree, opts Options) string {
	root := Build(tree, opts)
	p := newPrinter(typeColumn(root, 0))
	p.node(root)
	return p.String()
}

// typeColumn returns the width needed to align leaf values.
func typeColumn(n *Node, depth int) int {
	w := depth*indentSize + len(n.Type) + 2
	for _, c := range n.Children {
		w = max(w, typeColumn(c, depth+1))
	}
	return w
}

// YAML renders tree as a YAML document.
func YAML(tree *segment.Tree, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Build(tree, opts)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JSON renders tree as indented JSON.
func JSON(tree *segment.Tree, opts Options) ([]byte, error) {
	return json.MarshalIndent(Build(tree, opts), "", "  ")
}

// Write renders tree to w in the named format.
func Write(w io.Writer, tree *segment.Tree, format string, opts Options) error {
	var out []byte
	switch format {
	case FormatText, "":
		out = []byte(Text(tree, opts))
	case FormatYAML:
		b, err := YAML(tree, opts)
		if err != nil {
			return err
		}
		out = b
	case FormatJSON:
		b, err := JSON(tree, opts)
		if err != nil {
			return err
		}
		out = append(b, '\n')
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	_, err := w.Write(out)
	return err
}
