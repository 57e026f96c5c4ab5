package main

import (
	"os"

	"github.com/coverwalk/coverwalk/cmd"
	"github.com/coverwalk/coverwalk/cmd/search"
)

func main() {
	rootCmd := cmd.NewRootCommand()

	searchCmd := search.NewSearchCommand()
	rootCmd.AddCommand(searchCmd)

	historyCmd := cmd.NewHistoryCommand()
	rootCmd.AddCommand(historyCmd)

	versionCmd := cmd.NewVersionCommand()
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
