package cmd

import (
	"fmt"

	"github.com/shinyvision/vimagento/internal/magento"
	"github.com/shinyvision/vimagento/internal/wizard"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate Magento boilerplate",
}

var pluginInput wizard.PluginInput

var generatePluginCmd = &cobra.Command{
	Use:   "plugin",
	Short: "Create an interceptor for a public method and register it in di.xml",
	Example: `  vimagento generate plugin --target 'Magento\Catalog\Model\Product' --method getName \
      --module Acme_Checkout --type after --area frontend`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace(afero.NewOsFs())
		if err != nil {
			return err
		}
		res, err := ws.CreatePlugin(pluginInput)
		if err != nil {
			return reportError(cmd, err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "created %s\n", res.FQN)
		fmt.Fprintf(out, "  %s\n  %s\n", res.ClassPath, res.DiPath)
		return nil
	},
}

var (
	resolverInput   wizard.GraphQlResolverInput
	resolverBaseDir string
)

var generateResolverCmd = &cobra.Command{
	Use:     "graphql-resolver",
	Aliases: []string{"resolver"},
	Short:   "Create a GraphQL resolver class",
	Example: `  vimagento generate graphql-resolver --from app/code/Acme/Checkout/Model/Resolver --class Cart`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace(afero.NewOsFs())
		if err != nil {
			return err
		}
		path, fqn, err := ws.CreateGraphQlResolver(resolverBaseDir, resolverInput)
		if err != nil {
			return reportError(cmd, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n  %s\n", fqn, path)
		return nil
	},
}

func init() {
	f := generatePluginCmd.Flags()
	f.StringVar(&pluginInput.TargetClass, "target", "", "class to intercept")
	f.StringVar(&pluginInput.TargetMethod, "method", "", "method to intercept")
	f.StringVar(&pluginInput.Type, "type", string(magento.PluginAround), "before, after or around")
	f.StringVar(&pluginInput.Module, "module", "", "module receiving the plugin (default: default_module)")
	f.StringVar(&pluginInput.Area, "area", "", "configuration area (default: plugin_area)")
	f.StringVar(&pluginInput.Directory, "dir", "", "directory relative to the module (default: plugin_dir)")
	f.StringVar(&pluginInput.ClassName, "class", "", "plugin class name (default: <Target>Plugin)")
	f.StringVar(&pluginInput.Name, "name", "", "plugin name in di.xml (default: <module>_<class>)")
	f.StringVar(&pluginInput.SortOrder, "sort-order", "", "sortOrder attribute")
	generatePluginCmd.MarkFlagRequired("target")
	generatePluginCmd.MarkFlagRequired("method")

	r := generateResolverCmd.Flags()
	r.StringVar(&resolverBaseDir, "from", "", "directory the resolver is created from; selects the module and suggests --dir")
	r.StringVar(&resolverInput.ClassName, "class", "", "resolver class name")
	r.StringVar(&resolverInput.Module, "module", "", "module (default: module owning --from)")
	r.StringVar(&resolverInput.Directory, "dir", "", "directory relative to the module")
	generateResolverCmd.MarkFlagRequired("class")

	generateCmd.AddCommand(generatePluginCmd, generateResolverCmd)
	rootCmd.AddCommand(generateCmd)
}

// reportError prints each field of a validation error on its own line.
func reportError(cmd *cobra.Command, err error) error {
	verr, ok := wizard.AsValidationError(err)
	if !ok {
		return err
	}
	for _, f := range verr.Fields {
		fmt.Fprintf(cmd.ErrOrStderr(), "  --%s: %s\n", flagFor(f.Field), f.Message)
	}
	return fmt.Errorf("invalid input")
}

var fieldFlags = map[string]string{
	wizard.FieldClassName:    "class",
	wizard.FieldDirectory:    "dir",
	wizard.FieldModule:       "module",
	wizard.FieldType:         "type",
	wizard.FieldArea:         "area",
	wizard.FieldSortOrder:    "sort-order",
	wizard.FieldName:         "name",
	wizard.FieldTargetClass:  "target",
	wizard.FieldTargetMethod: "method",
}

func flagFor(field string) string {
	if f, ok := fieldFlags[field]; ok {
		return f
	}
	return field
}
