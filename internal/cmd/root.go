// Package cmd provides all Cobra commands for the strata CLI.
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stratacfg/strata/internal/utils/config"
	"github.com/stratacfg/strata/internal/utils/version"
)

var (
	cfgFile     string
	debug       bool
	searchPaths []string
	cfg         *config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "strata",
	Short: "Compose hierarchical configuration trees from a search path",
	Long: `strata composes a configuration document out of a mandatory
framework document, an optional primary config, their defaults lists, and
any overrides supplied on the command line.

It provides commands for:
  - Composing a configuration and printing the result
  - Listing the groups and options available on a search path
  - Reporting build and version information`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $XDG_CONFIG_HOME/strata/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false,
		"enable debug-level logging")
	rootCmd.PersistentFlags().StringSliceVarP(&searchPaths, "search-path", "p", nil,
		"configuration directory to search (repeatable, first hit wins; overrides the config file's search_path)")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(composeCmd)
	rootCmd.AddCommand(groupsCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		cfg = config.DefaultConfig()
	}

	if debug {
		cfg.Debug = true
	}
	if len(searchPaths) > 0 {
		cfg.SearchPath = searchPaths
	}
}

// initLogging configures the standard logrus logger every collaborator
// (composer, resolver, store) falls back to when it isn't handed its own
// *logrus.Entry.
func initLogging() {
	logrus.SetFormatter(&prefixed.TextFormatter{
		FullTimestamp: true,
	})
	if cfg != nil && cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

// versionCmd represents the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print detailed version information including build metadata.`,
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Get()
		short, _ := cmd.Flags().GetBool("short")
		if short {
			fmt.Println(info.Short())
		} else {
			fmt.Println(info.String())
		}
	},
}

func init() {
	versionCmd.Flags().BoolP("short", "s", false, "print only the version number")
}

// GetConfig returns the loaded configuration.
func GetConfig() *config.Config {
	return cfg
}
