package commands

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leaplint/internal/cli/config"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Force  bool
	Format string // yaml or toml
}

const ignoreTemplate = `# Paths leaplint skips, in .gitignore syntax.
target/
dbt_packages/
`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	opts := &InitOptions{}
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a leaplint config file",
		Long: `Write a leaplint config file with the default settings and a
.leaplintignore file into dir (default: the current directory).`,
		Example: `  # Create leaplint.yaml here
  leaplint init

  # Create leaplint.toml in another project
  leaplint init --format toml ../warehouse`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite an existing config file")
	cmd.Flags().StringVar(&opts.Format, "format", "yaml", "Config file format: yaml, toml")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, opts *InitOptions) error {
	cc := NewCommandContext(cmd)

	var name string
	switch opts.Format {
	case "yaml", "yml":
		name = "leaplint.yaml"
	case "toml":
		name = "leaplint.toml"
	default:
		return fmt.Errorf("unknown config format %q: want yaml or toml", opts.Format)
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	if !opts.Force {
		for _, existing := range config.ConfigFileNames {
			if _, err := os.Stat(filepath.Join(dir, existing)); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", filepath.Join(dir, existing))
			}
		}
	}

	data, err := renderDefaultConfig(opts.Format)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	cc.Renderer.Success("Created " + path)

	ignorePath := filepath.Join(dir, config.IgnoreFile)
	if _, err := os.Stat(ignorePath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(ignorePath, []byte(ignoreTemplate), 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", ignorePath, err)
		}
		cc.Renderer.Success("Created " + ignorePath)
	}

	cc.Renderer.Println("")
	cc.Renderer.Println("Next steps:")
	cc.Renderer.Println("  leaplint rules      # browse the available rules")
	cc.Renderer.Println("  leaplint lint       # lint the SQL files below this directory")
	return nil
}

// renderDefaultConfig encodes the default settings in the given format.
func renderDefaultConfig(format string) ([]byte, error) {
	def := config.Default()

	var buf bytes.Buffer
	buf.WriteString("# leaplint configuration\n")
	buf.WriteString("# Settings may also be given as LEAPLINT_* environment variables or flags.\n\n")

	if format == "toml" {
		enc := toml.NewEncoder(&buf)
		if err := enc.Encode(def); err != nil {
			return nil, fmt.Errorf("failed to encode config: %w", err)
		}
		return buf.Bytes(), nil
	}

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(def); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
