package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestMustBindPFlag(t *testing.T) {
	t.Cleanup(viper.Reset)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("graph-path", "default.csv", "")
	MustBindPFlag("graph.path", flags.Lookup("graph-path"))
	require.Equal(t, "default.csv", viper.GetString("graph.path"))

	require.NoError(t, flags.Parse([]string{"--graph-path", "other.csv"}))
	require.Equal(t, "other.csv", viper.GetString("graph.path"))

	require.Panics(t, func() { MustBindPFlag("missing", nil) })
}

func TestMustBindEnv(t *testing.T) {
	t.Cleanup(viper.Reset)

	t.Setenv("COVERWALK_TEST_KEY", "value")
	MustBindEnv("test.key", "COVERWALK_TEST_KEY")
	require.Equal(t, "value", viper.GetString("test.key"))

	require.Panics(t, func() { MustBindEnv() })
}

func TestPrepareTempConfigFile(t *testing.T) {
	PrepareTempConfigFile(t, "graph:\n  path: x.csv\n")

	b, err := os.ReadFile(filepath.Join(os.Getenv("HOME"), ".coverwalk", "config.yaml"))
	require.NoError(t, err)
	require.Equal(t, "graph:\n  path: x.csv\n", string(b))
}
