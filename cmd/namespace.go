package cmd

import (
	"fmt"

	"github.com/shinyvision/vimagento/internal/naming"
	"github.com/spf13/cobra"
)

var namespaceFlags struct {
	module     string
	dir        string
	class      string
	path       string
	defaultDir string
}

// namespaceCmd exposes the name resolution rules used by the generators.
var namespaceCmd = &cobra.Command{
	Use:   "namespace",
	Short: "Print the namespace and class name derived from a module and directory",
	Example: `  vimagento namespace --module Acme_Checkout --dir Plugin/Catalog --class ProductPlugin
  vimagento namespace --module Acme_Checkout --path app/code/Acme/Checkout/Model/Resolver/Cart`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNamespace(cmd)
	},
}

func init() {
	namespaceCmd.Flags().StringVar(&namespaceFlags.module, "module", "", "module name, e.g. Acme_Checkout")
	namespaceCmd.Flags().StringVar(&namespaceFlags.dir, "dir", "", "directory relative to the module")
	namespaceCmd.Flags().StringVar(&namespaceFlags.class, "class", "", "class name")
	namespaceCmd.Flags().StringVar(&namespaceFlags.path, "path", "", "suggest the module relative directory for this path")
	namespaceCmd.Flags().StringVar(&namespaceFlags.defaultDir, "default-dir", "Model/Resolver", "directory suggested when --path is outside the module")
	namespaceCmd.MarkFlagRequired("module")
	rootCmd.AddCommand(namespaceCmd)
}

func runNamespace(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	dir := namespaceFlags.dir
	if namespaceFlags.path != "" {
		dir = naming.SuggestModuleDirectory(namespaceFlags.path, namespaceFlags.module, namespaceFlags.defaultDir)
		fmt.Fprintf(out, "directory: %s\n", dir)
	}

	ns, err := naming.NamespaceForModule(namespaceFlags.module, dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "namespace: %s\n", ns)
	if namespaceFlags.class != "" {
		fmt.Fprintf(out, "class: %s\n", naming.ClassFQN(ns, namespaceFlags.class))
	}
	return nil
}
