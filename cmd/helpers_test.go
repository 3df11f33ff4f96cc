package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/stocksage/sage/internal/api"
	"github.com/stocksage/sage/internal/keyring"
	"github.com/stocksage/sage/internal/session"
	"github.com/stocksage/sage/pkg/sageapi"
)

// mockPasswordReader is a test double for password input. Each call to
// ReadPassword returns the next password.
type mockPasswordReader struct {
	passwords  []string
	err        error
	isTerminal bool
	reads      int
}

func newMockPasswordReader(isTerminal bool, passwords ...string) *mockPasswordReader {
	return &mockPasswordReader{
		passwords:  passwords,
		isTerminal: isTerminal,
	}
}

func (m *mockPasswordReader) WithError(err error) *mockPasswordReader {
	m.err = err
	return m
}

func (m *mockPasswordReader) ReadPassword() (string, error) {
	m.reads++
	if m.err != nil {
		return "", m.err
	}
	if m.reads > len(m.passwords) {
		return "", nil
	}
	return m.passwords[m.reads-1], nil
}

func (m *mockPasswordReader) IsTerminal() bool {
	return m.isTerminal
}

// mockPrompt is a test double for interactive prompts.
type mockPrompt struct {
	selections []int    // Which option to select for each call
	callIndex  int      // Current call index
	lines      []string // Lines to return for ReadLine calls
	lineIndex  int      // Current line index
	prompts    []string // Prompts passed to ReadLine
}

func newMockPrompt(selections ...int) *mockPrompt {
	return &mockPrompt{selections: selections}
}

func (m *mockPrompt) WithLines(lines ...string) *mockPrompt {
	m.lines = lines
	return m
}

func (m *mockPrompt) SelectOption(options []string) (int, error) {
	if m.callIndex >= len(m.selections) {
		return 0, errors.New("no more mock selections")
	}
	idx := m.selections[m.callIndex]
	m.callIndex++
	return idx, nil
}

func (m *mockPrompt) ReadLine(prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.lineIndex >= len(m.lines) {
		return "", nil // Default to empty/skip
	}
	line := m.lines[m.lineIndex]
	m.lineIndex++
	return line, nil
}

// writeJSON encodes v as a JSON response body.
func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

// newTestServer starts an httptest server that is closed with the test.
func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

// newTestSession builds a session manager against baseURL. A non-empty
// token is stored as if the user had signed in before.
func newTestSession(t *testing.T, baseURL, token string) (*session.Manager, *api.Client, *keyring.MockStore) {
	t.Helper()
	store := keyring.NewMockStore()
	cachePath := filepath.Join(t.TempDir(), "session.json")
	if token != "" {
		store.WithData(keyring.ServiceName, keyring.KeyToken, token)
		require.NoError(t, session.SaveUser(cachePath, &sageapi.User{FullName: "Asha Rai", Email: "asha@example.com"}))
	}

	client := api.NewClient(baseURL, nil)
	m := session.NewManager(store, cachePath, client)
	_, err := m.Load()
	require.NoError(t, err)
	return m, client, store
}

// execute runs cmd with args and returns stdout and stderr.
func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
