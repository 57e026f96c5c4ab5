// Package cmd contains all the commands included in the binary file.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCommand enables all children commands to read flags from CLI flags, environment variables prefixed with COVERWALK, or config.yaml (in that order).
func NewRootCommand() *cobra.Command {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("COVERWALK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	configPaths := []string{"/etc/coverwalk", "$HOME/.coverwalk", "."}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	return &cobra.Command{
		Use:   "coverwalk",
		Short: "An anytime search for the shortest walk that visits every node of a graph",
		Long: `An anytime search for the shortest walk that visits every node of a graph.

coverwalk explores walks from a start node to an end node depth first across all cores, keeps
the frontier on disk once it outgrows memory, and records every walk that is shorter than the
best one found so far. It runs until it is interrupted.`,
		SilenceUsage: true,
	}
}
