package dialect

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/leapstack-labs/leaplint/pkg/grammar"
	"github.com/leapstack-labs/leaplint/pkg/lexer"
)

// StatementRule is the rule every dialect must define. The parser matches it
// repeatedly at the top level of a file.
const StatementRule = "statement"

// Info describes a registered dialect.
type Info struct {
	Name   string `json:"name" yaml:"name"`
	Parent string `json:"parent,omitempty" yaml:"parent,omitempty"`
}

// Registry holds resolved dialects. It is immutable once constructed and
// safe for concurrent use.
type Registry struct {
	dialects map[string]*Dialect
	infos    []Info
}

// NewRegistry composes every definition along its inheritance chain,
// root first, and validates the result.
func NewRegistry(defs ...*Definition) (*Registry, error) {
	byName := make(map[string]*Definition, len(defs))
	for _, def := range defs {
		if _, dup := byName[def.Name]; dup {
			return nil, fmt.Errorf("dialect %q registered twice", def.Name)
		}
		byName[def.Name] = def
	}

	c := &composer{defs: byName, done: make(map[string]*Dialect)}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	r := &Registry{dialects: make(map[string]*Dialect, len(names))}
	for _, name := range names {
		d, err := c.compose(name, nil)
		if err != nil {
			return nil, err
		}
		if err := validate(d); err != nil {
			return nil, err
		}
		r.dialects[name] = d
		r.infos = append(r.infos, Info{Name: d.name, Parent: d.parent})
	}
	return r, nil
}

// Resolve returns the dialect with the given name (case-insensitive).
func (r *Registry) Resolve(name string) (*Dialect, error) {
	d, ok := r.dialects[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, &UnknownDialectError{Name: name}
	}
	return d, nil
}

// List returns every dialect sorted by name.
func (r *Registry) List() []Info {
	return append([]Info(nil), r.infos...)
}

type composer struct {
	defs map[string]*Definition
	done map[string]*Dialect
}

// compose resolves name after its parents. stack holds the names currently
// being composed and detects cycles.
func (c *composer) compose(name string, stack []string) (*Dialect, error) {
	if d, ok := c.done[name]; ok {
		return d, nil
	}
	for i, s := range stack {
		if s == name {
			path := append(append([]string(nil), stack[i:]...), name)
			return nil, &CycleError{Path: path}
		}
	}
	def, ok := c.defs[name]
	if !ok {
		return nil, &UnknownDialectError{Name: name}
	}

	var parent *Dialect
	if def.Parent != "" {
		if _, ok := c.defs[def.Parent]; !ok {
			return nil, fmt.Errorf("dialect %q extends unknown dialect %q", name, def.Parent)
		}
		p, err := c.compose(def.Parent, append(stack, name))
		if err != nil {
			return nil, err
		}
		parent = p
	}

	d, err := apply(def, parent)
	if err != nil {
		return nil, err
	}
	c.done[name] = d
	return d, nil
}

// apply layers def on top of parent: replacements, then insertions,
// then keyword patches, then lexer patches.
func apply(def *Definition, parent *Dialect) (*Dialect, error) {
	rules := map[string]grammar.Expr{}
	reserved := map[string]bool{}
	unreserved := map[string]bool{}
	cfg := lexer.DefaultConfig()
	chain := []string{def.Name}

	if parent != nil {
		for _, r := range parent.rules {
			rules[r.Name] = r.Expr
		}
		for k := range parent.reserved {
			reserved[k] = true
		}
		for k := range parent.keywords {
			if !parent.reserved[k] {
				unreserved[k] = true
			}
		}
		cfg = parent.lexCfg.Clone()
		chain = append(parent.Chain(), def.Name)
	}

	for _, r := range def.replace {
		if _, ok := rules[r.name]; !ok {
			return nil, fmt.Errorf("dialect %q replaces rule %q which is not inherited", def.Name, r.name)
		}
		rules[r.name] = r.expr
	}
	for _, r := range def.insert {
		if _, ok := rules[r.name]; ok {
			return nil, fmt.Errorf("dialect %q inserts rule %q which already exists; use Replace", def.Name, r.name)
		}
		rules[r.name] = r.expr
	}

	for _, w := range def.reserved {
		reserved[w] = true
		delete(unreserved, w)
	}
	for _, w := range def.unreserved {
		if !reserved[w] {
			unreserved[w] = true
		}
	}
	// Every keyword the grammar spells out lexes as a keyword.
	for _, e := range rules {
		for _, w := range grammar.Keywords(e) {
			if !reserved[w] {
				unreserved[w] = true
			}
		}
	}
	for _, w := range def.removed {
		delete(reserved, w)
		delete(unreserved, w)
	}

	for _, patch := range def.lexer {
		patch(&cfg)
	}
	keywords := make(map[string]bool, len(reserved)+len(unreserved))
	for k := range reserved {
		keywords[k] = true
	}
	for k := range unreserved {
		keywords[k] = true
	}
	cfg.Keywords = keywords

	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)

	d := &Dialect{
		name:     def.Name,
		parent:   def.Parent,
		chain:    chain,
		rules:    make([]Rule, len(names)),
		index:    make(map[string]int, len(names)),
		reserved: reserved,
		keywords: keywords,
		lexCfg:   cfg,
	}
	for i, name := range names {
		d.rules[i] = Rule{Index: i, Name: name, Expr: rules[name], Transparent: strings.HasPrefix(name, "_")}
		d.index[name] = i
	}
	return d, nil
}

func validate(d *Dialect) error {
	if _, ok := d.index[StatementRule]; !ok {
		return fmt.Errorf("dialect %q does not define the %q rule", d.name, StatementRule)
	}
	for _, r := range d.rules {
		for _, ref := range grammar.Refs(r.Expr) {
			if _, ok := d.index[ref]; !ok {
				return &DanglingRefError{Dialect: d.name, Rule: r.Name, Ref: ref}
			}
		}
	}
	return nil
}

// =============================================================================
// Process-wide registry
// =============================================================================

var (
	defsMu  sync.Mutex
	defs    []*Definition
	built   bool
	once    sync.Once
	global  *Registry
	initErr error
)

// Register adds a definition to the process-wide registry.
// Called by dialect packages in their init() functions. Registering after
// the registry has been built panics.
func Register(def *Definition) {
	defsMu.Lock()
	defer defsMu.Unlock()
	if built {
		panic(fmt.Sprintf("dialect %q registered after the registry was built", def.Name))
	}
	defs = append(defs, def)
}

// Default builds the process-wide registry on first use and returns it.
func Default() (*Registry, error) {
	once.Do(func() {
		defsMu.Lock()
		defer defsMu.Unlock()
		built = true
		global, initErr = NewRegistry(defs...)
	})
	return global, initErr
}

// Resolve looks a dialect up in the process-wide registry.
func Resolve(name string) (*Dialect, error) {
	r, err := Default()
	if err != nil {
		return nil, err
	}
	return r.Resolve(name)
}

// List returns all dialects of the process-wide registry.
func List() []Info {
	r, err := Default()
	if err != nil {
		return nil
	}
	return r.List()
}
