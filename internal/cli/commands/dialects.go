package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/pkg/linter"
)

// dialectJSON is the JSON shape of one dialect.
type dialectJSON struct {
	Name   string `json:"name"`
	Parent string `json:"parent,omitempty"`
}

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	var outFormat string

	cmd := &cobra.Command{
		Use:   "dialects",
		Short: "List supported SQL dialects",
		Long:  `List the registered SQL dialects and the dialect each one extends.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			cc.WithFormat(cmd, outFormat)
			r := cc.Renderer

			infos := linter.New().ListDialects()

			if r.EffectiveMode() == output.ModeJSON {
				out := make([]dialectJSON, 0, len(infos))
				for _, info := range infos {
					out = append(out, dialectJSON{Name: info.Name, Parent: info.Parent})
				}
				return r.JSON(out)
			}

			rows := make([][]string, 0, len(infos))
			for _, info := range infos {
				parent := info.Parent
				if parent == "" {
					parent = "-"
				}
				rows = append(rows, []string{info.Name, parent})
			}
			r.Table([]string{"Dialect", "Extends"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFormat, "format", "f", "", "Output format: text, markdown, json")
	return cmd
}

// DialectNames lists the registered dialect names for completion.
func DialectNames() []string {
	infos := linter.New().ListDialects()
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	return names
}
