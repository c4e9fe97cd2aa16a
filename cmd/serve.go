package cmd

import (
	"github.com/shinyvision/vimagento/internal/server"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the language server on stdio",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return server.NewServer(cfg, afero.NewOsFs()).Run()
}
