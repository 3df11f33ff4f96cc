package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocksage/sage/internal/api"
	"github.com/stocksage/sage/internal/tui"
)

func TestUICommandDescription(t *testing.T) {
	var uiCmd *cobra.Command
	for _, c := range rootCmd.Commands() {
		if c.Name() == "ui" {
			uiCmd = c
			break
		}
	}
	require.NotNil(t, uiCmd)
	assert.Equal(t, "ui", uiCmd.Use)
	assert.Contains(t, uiCmd.Short, "Interactive")
	assert.NotNil(t, uiCmd.PreRunE)
}

func TestUICmd_StartsModelAndLogsToFile(t *testing.T) {
	dir := t.TempDir()
	prefsPath := filepath.Join(dir, "ui.yaml")
	require.NoError(t, tui.SaveConfig(prefsPath, &tui.UIConfig{LastSector: "Hydropower"}))

	var started tea.Model
	opts := &uiOptions{
		client:    api.NewClient("http://localhost:5000", nil),
		logLevel:  "info",
		interval:  10 * time.Second,
		prefsPath: prefsPath,
		logPath:   filepath.Join(dir, "logs", "ui.log"),
		start: func(cmd *cobra.Command, model tea.Model) error {
			started = model
			return nil
		},
	}

	_, _, err := execute(newUICmd(opts))
	require.NoError(t, err)

	require.NotNil(t, started)
	assert.IsType(t, tui.Model{}, started)

	data, err := os.ReadFile(opts.logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "starting ui")
}

func TestUICmd_UnreadablePrefsAreIgnored(t *testing.T) {
	dir := t.TempDir()
	prefsPath := filepath.Join(dir, "ui.yaml")
	require.NoError(t, os.WriteFile(prefsPath, []byte("last_sector: [oops"), 0600))

	opts := &uiOptions{
		client:    api.NewClient("http://localhost:5000", nil),
		logLevel:  "info",
		prefsPath: prefsPath,
		logPath:   filepath.Join(dir, "ui.log"),
		start:     func(*cobra.Command, tea.Model) error { return nil },
	}

	_, _, err := execute(newUICmd(opts))
	require.NoError(t, err)

	data, err := os.ReadFile(opts.logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ignoring unreadable ui preferences")
}

func TestUICmd_BadLogLevel(t *testing.T) {
	opts := &uiOptions{
		client:   api.NewClient("http://localhost:5000", nil),
		logLevel: "loud",
		logPath:  filepath.Join(t.TempDir(), "ui.log"),
		start:    func(*cobra.Command, tea.Model) error { return nil },
	}

	_, _, err := execute(newUICmd(opts))
	require.Error(t, err)
}
