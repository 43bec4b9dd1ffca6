package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leaplint/internal/cli/config"
)

// fieldDescriptions documents each configuration key.
var fieldDescriptions = map[string]string{
	"dialect":        "SQL dialect used to parse files",
	"output":         "Output format: auto, text, markdown or json",
	"verbose":        "Enable debug logging",
	"no_color":       "Disable colored output",
	"workers":        "Files linted in parallel; 0 uses one per CPU",
	"max_iterations": "Upper bound on lint and fix passes per file",
	"extensions":     "File extensions linted when a directory is given",
	"exclude":        "Gitignore-style patterns skipped during discovery",
	"rules":          "Per-rule settings keyed by rule ID: enabled, severity, params",
	"cache.enabled":  "Reuse lint results for unchanged files",
	"cache.path":     "Cache database location, relative to the project root",
	"custom_rules":   "Starlark files defining additional rules",
}

type configField struct {
	key      string
	typ      string
	defValue string
}

// configFields lists the keys of config.Config with their defaults,
// descending into nested structs.
func configFields() []configField {
	var fields []configField
	var walk func(prefix string, v reflect.Value)
	walk = func(prefix string, v reflect.Value) {
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			tag := f.Tag.Get("koanf")
			if tag == "" || tag == "-" {
				continue
			}
			key := prefix + tag
			if f.Type.Kind() == reflect.Struct {
				walk(key+".", v.Field(i))
				continue
			}
			fields = append(fields, configField{
				key:      key,
				typ:      typeName(f.Type),
				defValue: defaultValue(v.Field(i)),
			})
		}
	}
	walk("", reflect.ValueOf(*config.Default()))
	return fields
}

func typeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Slice:
		return "list of " + typeName(t.Elem())
	case reflect.Map:
		return "map"
	default:
		return t.Kind().String()
	}
}

func defaultValue(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Slice, reflect.Map:
		if v.Len() == 0 {
			return "-"
		}
	case reflect.String:
		if v.String() == "" {
			return "-"
		}
	}
	return InlineCode(fmt.Sprint(v.Interface()))
}

// generateConfigDocs generates the configuration reference page.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "leaplint configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	var names []string
	for _, n := range config.ConfigFileNames {
		names = append(names, InlineCode(n))
	}
	w.Paragraph(fmt.Sprintf("leaplint reads the first of %s found in the working directory or its parents. Run %s to create one.",
		strings.Join(names, ", "), InlineCode("leaplint init")))

	w.Header(2, "Settings")
	var rows [][]string
	for _, f := range configFields() {
		rows = append(rows, []string{InlineCode(f.key), f.typ, f.defValue, fieldDescriptions[f.key]})
	}
	w.Table([]string{"Key", "Type", "Default", "Description"}, rows)

	w.Header(2, "Defaults")
	data, err := yaml.Marshal(config.Default())
	if err != nil {
		return fmt.Errorf("failed to encode defaults: %w", err)
	}
	w.CodeBlock("yaml", string(data))

	w.Header(2, "Ignoring Files")
	w.Paragraph(fmt.Sprintf("Paths matching patterns in %s are skipped during discovery. The syntax is the same as %s.",
		InlineCode(config.IgnoreFile), InlineCode(".gitignore")))

	if err := os.WriteFile(filepath.Join(outDir, "configuration.md"), w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated configuration.md")
	return nil
}
