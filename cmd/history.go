package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/coverwalk/coverwalk/cmd/util"
	"github.com/coverwalk/coverwalk/pkg/storage"
	"github.com/coverwalk/coverwalk/pkg/storage/sqlite"
	"github.com/coverwalk/coverwalk/pkg/storage/textfile"
)

const (
	historyDBFlag   = "history-db"
	historyDBConf   = "results.historyDB"
	runIDFlag       = "run-id"
	runIDConf       = "history.runID"
	pageSizeFlag    = "page-size"
	pageSizeConf    = "history.pageSize"
	defaultPageSize = storage.DefaultPageSize
)

var errMissingHistoryDB = errors.New("a history database is required, set 'results.historyDB' or --history-db")

// NewHistoryCommand returns the command that lists recorded solutions, newest first.
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List solutions recorded in the history database",
		Long:  "List solutions recorded in the history database, newest first.",
		RunE:  history,
		Args:  cobra.NoArgs,
	}

	flags := cmd.Flags()
	flags.String(historyDBFlag, "", "the SQLite uri of the solution history")
	flags.String(runIDFlag, "", "only list solutions of this run")
	flags.Int(pageSizeFlag, defaultPageSize, "the maximum number of solutions to list")

	cmd.PreRun = bindHistoryFlagsFunc(flags)

	return cmd
}

func bindHistoryFlagsFunc(flags *pflag.FlagSet) func(*cobra.Command, []string) {
	return func(_ *cobra.Command, _ []string) {
		util.MustBindPFlag(historyDBConf, flags.Lookup(historyDBFlag))
		util.MustBindEnv(historyDBConf, "COVERWALK_RESULTS_HISTORYDB", "COVERWALK_RESULTS_HISTORY_DB")

		util.MustBindPFlag(runIDConf, flags.Lookup(runIDFlag))
		util.MustBindPFlag(pageSizeConf, flags.Lookup(pageSizeFlag))
	}
}

func history(cmd *cobra.Command, _ []string) error {
	if err := viper.ReadInConfig(); err != nil && !errors.As(err, &viper.ConfigFileNotFoundError{}) {
		return fmt.Errorf("failed to load config: %w", err)
	}

	uri := viper.GetString(historyDBConf)
	if uri == "" {
		return errMissingHistoryDB
	}

	ds, err := sqlite.New(uri)
	if err != nil {
		return err
	}
	defer ds.Close()

	solutions, err := ds.ListSolutions(cmd.Context(), storage.ListOptions{
		RunID:    viper.GetString(runIDConf),
		PageSize: viper.GetInt(pageSizeConf),
	})
	if err != nil {
		return fmt.Errorf("list solutions: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, s := range solutions {
		if _, err := fmt.Fprintln(out, textfile.FormatLine(s)); err != nil {
			return err
		}
	}
	return nil
}
