package format

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

const indentSize = 4

// Printer writes the indented text form of a node tree.
type Printer struct {
	output      *bytes.Buffer
	depth       int
	atLineStart bool
	typeWidth   int
}

func newPrinter(typeWidth int) *Printer {
	return &Printer{
		output:      &bytes.Buffer{},
		atLineStart: true,
		typeWidth:   typeWidth,
	}
}

// String returns the formatted output.
func (p *Printer) String() string {
	return strings.TrimRight(p.output.String(), "\n") + "\n"
}

func (p *Printer) write(s string) {
	if p.atLineStart && len(s) > 0 && s[0] != '\n' {
		p.writeIndent()
	}
	p.output.WriteString(s)
	p.atLineStart = false
}

func (p *Printer) writeln() {
	p.output.WriteByte('\n')
	p.atLineStart = true
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.depth*indentSize; i++ {
		p.output.WriteByte(' ')
	}
	p.atLineStart = false
}

func (p *Printer) indent() {
	p.depth++
}

func (p *Printer) dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

// node prints n and its children, one per line. Each line starts with the
// position, so indentation begins after a fixed-width prefix.
func (p *Printer) node(n *Node) {
	p.output.WriteString(fmt.Sprintf("[L:%3d, P:%3d] | ", n.Line, n.Column))
	p.atLineStart = true
	if n.Children == nil {
		label := n.Type + ":"
		pad := p.typeWidth - p.depth*indentSize - len(label)
		p.write(label + strings.Repeat(" ", max(pad, 1)) + strconv.Quote(n.Raw))
		p.writeln()
		return
	}
	p.write(n.Type + ":")
	p.writeln()
	p.indent()
	for _, c := range n.Children {
		p.node(c)
	}
	p.dedent()
}
