package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHistoryCSV = `Date,Open,Close
2023-12-29,2100,2099.5
2024-01-01,2100,2100.00
2024-01-02,2110,2120.50
01/15/2024,2130,2090.25
2024-02-01,2140,2150.75
not-a-date,1,1
2024-02-02,2150,oops
`

func writeHistoryFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "NEPSE.csv")
	require.NoError(t, os.WriteFile(path, []byte(testHistoryCSV), 0600))
	return path
}

func TestHistoryCmd_TableAndSummary(t *testing.T) {
	path := writeHistoryFile(t)

	out, _, err := execute(newHistoryCmd(&historyOptions{file: path, sinceYear: 2024}))
	require.NoError(t, err)

	assert.NotContains(t, out, "2023-12-29")
	assert.Contains(t, out, "2024-01-01")
	assert.Contains(t, out, "jan")
	assert.Contains(t, out, "feb")
	assert.Contains(t, out, "2024-01-01 to 2024-02-01 (4 days)")
	assert.Contains(t, out, "2090.25 on 2024-01-15")
	assert.Contains(t, out, "2150.75 on 2024-02-01")
	assert.Contains(t, out, "+50.75 (+2.42%)")
	assert.Contains(t, out, "Skipped rows:")
}

func TestHistoryCmd_SinceFlagOverridesConfig(t *testing.T) {
	path := writeHistoryFile(t)

	out, _, err := execute(newHistoryCmd(&historyOptions{file: path, sinceYear: 2024}), "--since", "2023")
	require.NoError(t, err)
	assert.Contains(t, out, "2023-12-29")
}

func TestHistoryCmd_Last(t *testing.T) {
	path := writeHistoryFile(t)

	out, _, err := execute(newHistoryCmd(&historyOptions{sinceYear: 2024}), "--file", path, "--last", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "2024-02-01")
	assert.NotContains(t, out, "2024-01-02  ")
	// The summary still covers the whole series.
	assert.Contains(t, out, "(4 days)")
}

func TestHistoryCmd_JSON(t *testing.T) {
	path := writeHistoryFile(t)

	out, _, err := execute(newHistoryCmd(&historyOptions{file: path, sinceYear: 2024, jsonMode: true}))
	require.NoError(t, err)

	var result struct {
		Points []struct {
			Date  string `json:"date"`
			Label string `json:"label"`
		} `json:"points"`
		Skipped int `json:"skipped"`
		Summary struct {
			Days int `json:"days"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Points, 4)
	assert.Equal(t, "2024-01-01", result.Points[0].Date)
	assert.Equal(t, "jan", result.Points[0].Label)
	assert.Equal(t, "", result.Points[1].Label)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, 4, result.Summary.Days)
}

func TestHistoryCmd_NoRowsSinceYear(t *testing.T) {
	path := writeHistoryFile(t)

	out, _, err := execute(newHistoryCmd(&historyOptions{file: path, sinceYear: 2030}))
	require.NoError(t, err)
	assert.Contains(t, out, "No history since 2030")
}

func TestHistoryCmd_MissingFile(t *testing.T) {
	_, _, err := execute(newHistoryCmd(&historyOptions{file: filepath.Join(t.TempDir(), "missing.csv")}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open history file")
}
