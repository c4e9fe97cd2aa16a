package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/shinyvision/vimagento/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tliron/commonlog"
)

var (
	cfgFile   string
	verbosity int
	logFile   string
)

// rootCmd represents the base command when called without any subcommands.
// Editors usually start it without arguments, so it serves LSP on stdio.
var rootCmd = &cobra.Command{
	Use:   "vimagento",
	Short: "Magento 2 language server and code generator",
	Long: `vimagento is a language server for Magento 2 projects. It resolves
classes and methods referenced from XML configuration and generates plugins
and GraphQL resolvers, from the editor or from the command line.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var path *string
		if logFile != "" {
			path = &logFile
		}
		commonlog.Configure(verbosity, path)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .vimagento.yaml in the workspace root)")
	rootCmd.PersistentFlags().IntVarP(&verbosity, "verbosity", "v", 1, "log verbosity (0 notice, 1 info, 2 debug)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "Magento project root")
	rootCmd.PersistentFlags().StringSlice("code-root", []string{"app/code"}, "directories holding editable modules")
	rootCmd.PersistentFlags().String("vendor-dir", "vendor", "composer vendor directory")
	rootCmd.PersistentFlags().String("php", "php", "php binary used to read the composer autoloader")

	viper.BindPFlag("workspace_root", rootCmd.PersistentFlags().Lookup("workspace"))
	viper.BindPFlag("code_roots", rootCmd.PersistentFlags().Lookup("code-root"))
	viper.BindPFlag("vendor_dir", rootCmd.PersistentFlags().Lookup("vendor-dir"))
	viper.BindPFlag("php_path", rootCmd.PersistentFlags().Lookup("php"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// VIMAGENTO_DEFAULT_MODULE, VIMAGENTO_VENDOR_DIR, ...
	viper.SetEnvPrefix("VIMAGENTO")
	viper.AutomaticEnv()

	defaults := config.NewConfig()
	viper.SetDefault("plugin_area", defaults.PluginArea)
	viper.SetDefault("plugin_dir", defaults.PluginDir)
	viper.SetDefault("store_size", defaults.StoreSize)
	viper.SetDefault("default_module", "")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if root := viper.GetString("workspace_root"); root != "" {
			viper.AddConfigPath(root)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".vimagento")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	}
}

// loadConfig builds the configuration from flags, environment and config file.
func loadConfig() (*config.Config, error) {
	cfg := config.NewConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("could not decode configuration: %w", err)
	}
	return cfg, nil
}
