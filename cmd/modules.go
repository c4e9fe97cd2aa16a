package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shinyvision/vimagento/internal/workspace"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var modulesEditableOnly bool

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List the modules found in the project",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace(afero.NewOsFs())
		if err != nil {
			return err
		}
		return printModules(cmd, ws, modulesEditableOnly)
	},
}

func init() {
	modulesCmd.Flags().BoolVar(&modulesEditableOnly, "editable", false, "only list modules of the code roots")
	rootCmd.AddCommand(modulesCmd)
}

func loadWorkspace(fs afero.Fs) (*workspace.Workspace, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	ws := workspace.New(fs, cfg)
	ws.Load()
	return ws, nil
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func printModules(cmd *cobra.Command, ws *workspace.Workspace, editableOnly bool) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("MODULE", "KIND", "DIRECTORY").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, m := range ws.Modules.Modules() {
		if editableOnly && !m.Editable {
			continue
		}
		kind := "vendor"
		if m.Editable {
			kind = "editable"
		}
		t.Row(m.Name, kind, m.Dir)
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return err
}
