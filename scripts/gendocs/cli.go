package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/leaplint/internal/cli"
	"github.com/leapstack-labs/leaplint/internal/cli/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// generateCLIDocs generates CLI documentation from Cobra commands.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rootCmd := cli.NewRootCmd()

	if err := generateCLIIndex(rootCmd, outDir); err != nil {
		return fmt.Errorf("failed to generate index: %w", err)
	}
	log.Printf("  Generated index.md")

	for _, cmd := range visibleCommands(rootCmd) {
		if err := generateCommandPage(cmd, outDir); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", cmd.Name(), err)
		}
		log.Printf("  Generated %s.md", cmd.Name())
	}

	return nil
}

// generateCLIIndex generates the CLI overview page.
func generateCLIIndex(rootCmd *cobra.Command, outDir string) error {
	w := NewMarkdownWriter()

	w.Frontmatter("CLI Reference", "Command-line interface reference for leaplint")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph("leaplint lints and fixes SQL files across dialects from the command line.")

	w.Header(2, "Installation")
	w.CodeBlock("bash", "go install github.com/leapstack-labs/leaplint/cmd/leaplint@latest")

	w.Header(2, "Basic Usage")
	w.CodeBlock("bash", "leaplint <command> [options]")

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range visibleCommands(rootCmd) {
		link := fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), cmd.Name())
		rows = append(rows, []string{link, cleanDescription(cmd.Short)})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Options")
	w.Paragraph("These flags are available for all commands:")
	writeFlagsTable(w, rootCmd.PersistentFlags())

	w.Header(2, "Environment Variables")
	w.Paragraph(fmt.Sprintf("Every configuration key can be set with the %s prefix. A double underscore separates nested keys.", InlineCode(config.EnvPrefix)))
	w.Table([]string{"Variable", "Description"}, [][]string{
		{InlineCode(config.EnvPrefix + "DIALECT"), "Default dialect"},
		{InlineCode(config.EnvPrefix + "OUTPUT"), "Output format: auto, text, markdown, json"},
		{InlineCode(config.EnvPrefix + "MAX_ITERATIONS"), "Fix loop iteration limit"},
		{InlineCode(config.EnvPrefix + "CACHE__ENABLED"), "Enable the lint result cache"},
		{InlineCode(config.EnvPrefix + "CACHE__PATH"), "Lint result cache location"},
	})
	w.Paragraph("Command-line flags take precedence over environment variables, which take precedence over the config file.")

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode("0"), "Success, no issues found"},
		{InlineCode("1"), "Issues found, a file needs fixing, or an error (check stderr)"},
	})

	w.Header(2, "Getting Help")
	w.CodeBlock("bash", `# General help
leaplint help
leaplint --help

# Command-specific help
leaplint lint --help`)

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}

// visibleCommands returns the documented subcommands of root.
func visibleCommands(root *cobra.Command) []*cobra.Command {
	var cmds []*cobra.Command
	for _, cmd := range root.Commands() {
		if cmd.Hidden || cmd.Name() == "help" || cmd.Name() == "__complete" {
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

// generateCommandPage generates documentation for a top-level command.
// Subcommands are documented as sections of their parent's page.
func generateCommandPage(cmd *cobra.Command, outDir string) error {
	w := NewMarkdownWriter()

	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	writeCommandBody(w, cmd, 2)

	for _, sub := range visibleCommands(cmd) {
		w.Header(2, cmd.Name()+" "+sub.Name())
		writeCommandBody(w, sub, 3)
	}

	if related := relatedCommands(cmd); len(related) > 0 {
		w.Header(2, "See Also")
		w.BulletList(related)
	}

	return os.WriteFile(filepath.Join(outDir, cmd.Name()+".md"), w.Bytes(), 0600)
}

// writeCommandBody writes the description, usage, flags and examples of
// cmd with section headers at level.
func writeCommandBody(w *MarkdownWriter, cmd *cobra.Command, level int) {
	desc := cmd.Long
	if desc == "" {
		desc = cmd.Short
	}
	w.Paragraph(desc)

	w.Header(level, "Usage")
	use := cmd.UseLine()
	if cmd.HasAvailableSubCommands() {
		use = cmd.CommandPath() + " <subcommand> [options]"
	}
	w.CodeBlock("bash", use)

	if len(cmd.Aliases) > 0 {
		w.Header(level, "Aliases")
		var aliases []string
		for _, alias := range cmd.Aliases {
			aliases = append(aliases, InlineCode(alias))
		}
		w.BulletList(aliases)
	}

	if cmd.HasAvailableLocalFlags() {
		w.Header(level, "Options")
		writeFlagsTable(w, cmd.LocalFlags())
	}

	if cmd.Example != "" {
		w.Header(level, "Examples")
		w.CodeBlock("bash", dedent(cmd.Example))
	}
}

// relatedCommands links the sibling commands of cmd that share one of its
// flags, which is how lint, fix and doctor relate.
func relatedCommands(cmd *cobra.Command) []string {
	if !cmd.HasParent() {
		return nil
	}
	var out []string
	for _, sib := range visibleCommands(cmd.Parent()) {
		if sib == cmd {
			continue
		}
		shared := false
		cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
			if f.Name != "format" && sib.LocalFlags().Lookup(f.Name) != nil {
				shared = true
			}
		})
		if shared {
			out = append(out, fmt.Sprintf("[%s](/cli/%s): %s", InlineCode(sib.Name()), sib.Name(), cleanDescription(sib.Short)))
		}
	}
	return out
}

// writeFlagsTable writes a table of the visible flags.
func writeFlagsTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		option := InlineCode("--" + f.Name)
		if f.Shorthand != "" {
			option = InlineCode("-"+f.Shorthand) + ", " + option
		}
		def := "-"
		if f.DefValue != "" && f.DefValue != "[]" && f.DefValue != "0" && f.DefValue != "false" {
			def = InlineCode(f.DefValue)
		}
		rows = append(rows, []string{option, flagType(f), def, cleanDescription(f.Usage)})
	})
	w.Table([]string{"Option", "Type", "Default", "Description"}, rows)
}

// flagType names the value a flag takes.
func flagType(f *pflag.Flag) string {
	switch t := f.Value.Type(); t {
	case "bool":
		return "flag"
	case "stringSlice":
		return "list"
	default:
		return t
	}
}

// dedent removes the common leading whitespace of example text.
func dedent(text string) string {
	lines := strings.Split(strings.Trim(text, "\n"), "\n")
	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	for i, line := range lines {
		if len(line) >= indent && indent > 0 {
			lines[i] = line[indent:]
		}
	}
	return strings.Join(lines, "\n")
}
