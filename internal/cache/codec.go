package cache

import (
	"fmt"

	"github.com/klauspost/compress/snappy"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/linter"
	"github.com/leapstack-labs/leaplint/pkg/parser"
	"github.com/leapstack-labs/leaplint/pkg/token"
)

// payloadVersion is bumped whenever the entry layout changes.
const payloadVersion = 1

type entry struct {
	Version     int          `msgpack:"ver"`
	Dialect     string       `msgpack:"dialect"`
	Violations  []violation  `msgpack:"violations"`
	ParseErrors []parseError `msgpack:"parse_errors"`
	Suppressed  int          `msgpack:"suppressed"`
}

type violation struct {
	RuleID   string `msgpack:"rule"`
	Severity int    `msgpack:"sev"`
	Message  string `msgpack:"msg"`
	Span     [6]int `msgpack:"span"`
}

type parseError struct {
	Pos     [3]int `msgpack:"pos"`
	Message string `msgpack:"msg"`
}

func encode(r *linter.LintReport) ([]byte, error) {
	e := entry{Version: payloadVersion, Dialect: r.Dialect, Suppressed: r.Suppressed}
	for _, v := range r.Violations {
		e.Violations = append(e.Violations, violation{
			RuleID:   v.RuleID,
			Severity: int(v.Severity),
			Message:  v.Message,
			Span: [6]int{
				v.Span.Start.Line, v.Span.Start.Column, v.Span.Start.Offset,
				v.Span.End.Line, v.Span.End.Column, v.Span.End.Offset,
			},
		})
	}
	for _, pe := range r.ParseErrors {
		e.ParseErrors = append(e.ParseErrors, parseError{
			Pos:     [3]int{pe.Pos.Line, pe.Pos.Column, pe.Pos.Offset},
			Message: pe.Message,
		})
	}
	b, err := msgpack.Marshal(&e)
	if err != nil {
		return nil, err
	}
	return snappy.Encode(nil, b), nil
}

func decode(payload []byte) (*linter.LintReport, error) {
	b, err := snappy.Decode(nil, payload)
	if err != nil {
		return nil, fmt.Errorf("snappy decode: %w", err)
	}
	var e entry
	if err := msgpack.Unmarshal(b, &e); err != nil {
		return nil, fmt.Errorf("msgpack decode: %w", err)
	}
	if e.Version != payloadVersion {
		return nil, fmt.Errorf("cache entry version %d, want %d", e.Version, payloadVersion)
	}

	r := &linter.LintReport{Dialect: e.Dialect, Suppressed: e.Suppressed, Violations: []lint.Violation{}}
	for _, v := range e.Violations {
		r.Violations = append(r.Violations, lint.Violation{
			RuleID:   v.RuleID,
			Severity: core.Severity(v.Severity),
			Message:  v.Message,
			Span: token.Span{
				Start: token.Position{Line: v.Span[0], Column: v.Span[1], Offset: v.Span[2]},
				End:   token.Position{Line: v.Span[3], Column: v.Span[4], Offset: v.Span[5]},
			},
		})
	}
	for _, pe := range e.ParseErrors {
		r.ParseErrors = append(r.ParseErrors, &parser.ParseError{
			Pos:     token.Position{Line: pe.Pos[0], Column: pe.Pos[1], Offset: pe.Pos[2]},
			Message: pe.Message,
		})
	}
	return r, nil
}
