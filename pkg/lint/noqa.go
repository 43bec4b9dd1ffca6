package lint

import (
	"sort"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/segment"
	"github.com/leapstack-labs/leaplint/pkg/token"
)

// noqaDirective is one parsed inline suppression comment.
//
//	-- noqa                      suppress every rule on this line
//	-- noqa: LT01,CP*            suppress the listed rules on this line
//	-- noqa: disable=LT01        suppress LT01 from this line on
//	-- noqa: enable=all          lift range suppressions from this line on
type noqaDirective struct {
	line   int
	rules  []string // empty means all rules
	ranged bool
	enable bool
}

// Suppressions answers whether a violation is silenced by a noqa comment.
type Suppressions struct {
	lines  map[int][]noqaDirective
	ranges []noqaDirective
}

// ParseSuppressions scans the comments of a tree for noqa directives.
func ParseSuppressions(tree *segment.Tree, positions *segment.Positions) *Suppressions {
	s := &Suppressions{lines: make(map[int][]noqaDirective)}
	for _, id := range tree.Leaves(tree.Root) {
		seg := tree.Get(id)
		if seg.Kind != token.Comment {
			continue
		}
		d, ok := parseNoqa(seg.Raw)
		if !ok {
			continue
		}
		d.line = positions.Start(id).Line
		if d.ranged {
			s.ranges = append(s.ranges, d)
		} else {
			s.lines[d.line] = append(s.lines[d.line], d)
		}
	}
	sort.SliceStable(s.ranges, func(i, j int) bool { return s.ranges[i].line < s.ranges[j].line })
	return s
}

// Suppressed reports whether ruleID is silenced on line.
func (s *Suppressions) Suppressed(ruleID string, line int) bool {
	if s == nil {
		return false
	}
	for _, d := range s.lines[line] {
		if matchesRule(d.rules, ruleID) {
			return true
		}
	}
	off := false
	for _, d := range s.ranges {
		if d.line > line {
			break
		}
		if matchesRule(d.rules, ruleID) {
			off = !d.enable
		}
	}
	return off
}

func parseNoqa(raw string) (noqaDirective, bool) {
	body := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(body, "--"):
		body = body[2:]
	case strings.HasPrefix(body, "#"):
		body = body[1:]
	case strings.HasPrefix(body, "//"):
		body = body[2:]
	case strings.HasPrefix(body, "/*"):
		body = strings.TrimSuffix(body[2:], "*/")
	}
	body = strings.TrimSpace(body)
	if len(body) < 4 || !strings.EqualFold(body[:4], "noqa") {
		return noqaDirective{}, false
	}
	rest := strings.TrimSpace(body[4:])
	if rest == "" {
		return noqaDirective{}, true
	}
	if !strings.HasPrefix(rest, ":") {
		return noqaDirective{}, false
	}
	rest = strings.TrimSpace(rest[1:])

	var d noqaDirective
	lower := strings.ToLower(rest)
	switch {
	case strings.HasPrefix(lower, "disable="):
		d.ranged = true
		rest = rest[len("disable="):]
	case strings.HasPrefix(lower, "enable="):
		d.ranged, d.enable = true, true
		rest = rest[len("enable="):]
	}
	for _, part := range strings.Split(rest, ",") {
		part = normalizeID(part)
		if part == "" {
			continue
		}
		if part == "ALL" {
			d.rules = nil
			break
		}
		d.rules = append(d.rules, part)
	}
	return d, true
}

func matchesRule(patterns []string, ruleID string) bool {
	if len(patterns) == 0 {
		return true
	}
	id := normalizeID(ruleID)
	for _, p := range patterns {
		if prefix, ok := strings.CutSuffix(p, "*"); ok {
			if strings.HasPrefix(id, prefix) {
				return true
			}
			continue
		}
		if p == id {
			return true
		}
	}
	return false
}
