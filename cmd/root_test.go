package cmd

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStdout runs fn and returns everything it wrote to stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func TestRunCommand_PrintsMetricsToStdout(t *testing.T) {
	// GIVEN a headless run over a fixed workload with randomness disabled
	rootCmd.SetArgs([]string{
		"run", "--ticks", "20", "--procs", "2", "--burst", "3",
		"--block-probability", "0", "--seed", "42",
	})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.PersistentFlags().Lookup("seed").Changed = false
		rootCmd.PersistentFlags().Lookup("block-probability").Changed = false
	})

	// WHEN the CLI executes
	output := captureStdout(t, func() {
		require.NoError(t, rootCmd.Execute())
	})

	// THEN the aggregated metrics appear on stdout
	assert.Contains(t, output, "Simulation Metrics")
	assert.Contains(t, output, "Total Processes      : 2")
	assert.Contains(t, output, "Terminated           : 2")
}

func TestRunCommand_WritesCSVFiles(t *testing.T) {
	prefix := t.TempDir() + "/result"
	rootCmd.SetArgs([]string{
		"run", "--ticks", "20", "--procs", "1", "--burst", "3",
		"--block-probability", "0", "--csv", prefix,
	})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.PersistentFlags().Lookup("block-probability").Changed = false
		csvPrefix = ""
	})

	_ = captureStdout(t, func() {
		require.NoError(t, rootCmd.Execute())
	})

	procs, err := os.ReadFile(prefix + "_processes.csv")
	require.NoError(t, err)
	assert.Contains(t, string(procs), "pid,name,state")
	assert.Contains(t, string(procs), "TERMINATED")

	metrics, err := os.ReadFile(prefix + "_metrics.csv")
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "context_switches")
}
