package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
)

// Diff writes a unified diff between before and after. Lines are colored
// when the renderer emits color. It reports whether the texts differ.
func (r *Renderer) Diff(path, before, after string) (bool, error) {
	if before == after {
		return false, nil
	}
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	})
	if err != nil {
		return true, fmt.Errorf("diff %s: %w", path, err)
	}
	writeDiff(r.out, text, r.Colored())
	return true, nil
}

func writeDiff(w io.Writer, text string, colored bool) {
	header := color.New(color.Bold)
	hunk := color.New(color.FgCyan)
	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)
	for _, c := range []*color.Color{header, hunk, added, removed} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			_, _ = header.Fprint(w, line)
		case strings.HasPrefix(line, "@@"):
			_, _ = hunk.Fprint(w, line)
		case strings.HasPrefix(line, "+"):
			_, _ = added.Fprint(w, line)
		case strings.HasPrefix(line, "-"):
			_, _ = removed.Fprint(w, line)
		default:
			_, _ = io.WriteString(w, line)
		}
	}
	if !strings.HasSuffix(text, "\n") {
		_, _ = io.WriteString(w, "\n")
	}
}
