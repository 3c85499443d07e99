package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/composer-link/composer-link/internal/platform"
	"github.com/composer-link/composer-link/internal/registry"
)

const newRequirementLabel = "(new)"

// linkedEntry is one link as shown by the linked command.
type linkedEntry struct {
	Name               string  `json:"name" yaml:"name"`
	Path               string  `json:"path" yaml:"path"`
	OriginalConstraint *string `json:"originalConstraint" yaml:"originalConstraint"`
	WasNewRequirement  bool    `json:"wasNewRequirement" yaml:"wasNewRequirement"`
	RequireSection     string  `json:"requireSection" yaml:"requireSection"`
	Installed          bool    `json:"installed" yaml:"installed"`
}

func (c *CLI) linkedCommand() *cobra.Command {
	var (
		asJSON bool
		format string
	)

	cmd := &cobra.Command{
		Use:   "linked",
		Short: "List linked packages",
		Long: `List the packages currently linked into this project, the constraint each
one had before linking, and whether vendor/ holds a symlink to the local copy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				format = "json"
			}

			p, err := c.openProject(cmd)
			if err != nil {
				return err
			}

			records := p.engine.Linked()
			entries := make([]linkedEntry, 0, len(records))
			for _, r := range records {
				entries = append(entries, newLinkedEntry(r, p.settings.VendorDir))
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetEscapeHTML(false)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(entries); err != nil {
					return fmt.Errorf("encoding yaml: %w", err)
				}
				return enc.Close()
			case "table", "":
				if len(entries) == 0 {
					printInfo(out, "No linked packages")
					return nil
				}
				renderLinkedTable(out, entries)
				return nil
			default:
				return fmt.Errorf("unknown format %q: expected table, json, or yaml", format)
			}
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output in JSON format")
	cmd.Flags().StringVar(&format, "format", "table", "output format (table, json, yaml)")
	return cmd
}

func newLinkedEntry(r registry.Record, vendorDir string) linkedEntry {
	return linkedEntry{
		Name:               r.Name,
		Path:               r.Path,
		OriginalConstraint: r.OriginalConstraint,
		WasNewRequirement:  r.WasNewRequirement,
		RequireSection:     r.RequireSection.String(),
		Installed:          platform.PointsTo(filepath.Join(vendorDir, filepath.FromSlash(r.Name)), r.Path),
	}
}

func renderLinkedTable(w io.Writer, entries []linkedEntry) {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		constraint := newRequirementLabel
		if e.OriginalConstraint != nil {
			constraint = *e.OriginalConstraint
		}
		installed := iconError
		if e.Installed {
			installed = iconSuccess
		}
		rows = append(rows, []string{e.Name, e.Path, constraint, e.RequireSection, installed})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Package", "Path", "Original Constraint", "Section", "Installed").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader.Padding(0, 1)
			}
			if col == 0 {
				return styleCell.Foreground(colorCyan)
			}
			return styleCell
		})

	fmt.Fprintln(w, t.Render())
}
