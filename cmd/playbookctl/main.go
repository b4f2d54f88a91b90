// Command playbookctl exposes the versioning core's six operations over a
// command-line surface for local validation/merging of exported playbook
// JSON, without running the HTTP service.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/playbook-graph/versioning-core/cmd/playbookctl/clilog"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

var (
	cfgFile  string
	logLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "playbookctl",
	Short: "Inspect, transform, and merge playbook graphs from the command line",
	Long: `playbookctl - Playbook Graph Versioning CLI

Exposes the same six operations the HTTP service wraps:
  linear-to-graph, graph-to-linear, validate, normalize,
  common-ancestor, merge

Useful for validating or merging an exported playbook without standing
up the HTTP service.`,
	Version:           Version,
	PersistentPreRunE: initConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.playbookctl.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	rootCmd.SetVersionTemplate(`playbookctl {{.Version}}
Build time: ` + BuildTime + `
`)

	rootCmd.AddCommand(linearToGraphCmd)
	rootCmd.AddCommand(graphToLinearCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(commonAncestorCmd)
}

func initConfig(cmd *cobra.Command, args []string) error {
	clilog.Init(logLevel)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".playbookctl")
	}

	viper.SetEnvPrefix("PLAYBOOKCTL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("read config: %w", err)
		}
		clilog.L().Debug("no config file found, using flags/env only")
	}
	return nil
}
