package cmd

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocksage/sage/internal/api"
	"github.com/stocksage/sage/pkg/sageapi"
)

func returnsServer(t *testing.T) *api.Client {
	t.Helper()
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stock-returns", r.URL.Path)
		writeJSON(t, w, http.StatusOK, []map[string]any{
			{"symbol": "LOW", "current_price": 100, "predicted_price": 101, "expected_return": 1.0},
			{"symbol": "HIGH", "current_price": 100, "predicted_price": 120, "expected_return": 20.0},
			{"symbol": "MID", "current_price": "1,000", "predicted_price": "1,050", "expected_return": "5", "is_mock": true},
		})
	})
	return api.NewClient(server.URL, nil)
}

func TestReturnsCmd_SortedDescending(t *testing.T) {
	out, _, err := execute(newReturnsCmd(&predictOptions{client: returnsServer(t)}))
	require.NoError(t, err)

	high := strings.Index(out, "HIGH")
	mid := strings.Index(out, "MID")
	low := strings.Index(out, "LOW")
	assert.Less(t, high, mid)
	assert.Less(t, mid, low)
	assert.Contains(t, out, "sample data")
}

func TestReturnsCmd_Top(t *testing.T) {
	out, _, err := execute(newReturnsCmd(&predictOptions{client: returnsServer(t), jsonMode: true}), "--top", "2")
	require.NoError(t, err)

	var rows []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "HIGH", rows[0]["Symbol"])
	assert.Equal(t, "MID", rows[1]["Symbol"])
}

func TestReturnsCmd_Empty(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []any{})
	})

	out, _, err := execute(newReturnsCmd(&predictOptions{client: api.NewClient(server.URL, nil)}))
	require.NoError(t, err)
	assert.Contains(t, out, "No stock returns available")
}

func TestPredictCmd(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/predict/NABIL", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{
			"symbol":          "NABIL",
			"current_price":   "500.00",
			"predicted_price": "550.00",
			"expected_return": 10,
			"horizon":         "30d",
		})
	})

	out, _, err := execute(newPredictCmd(&predictOptions{client: api.NewClient(server.URL, nil)}), "nabil")
	require.NoError(t, err)

	assert.Contains(t, out, "NABIL")
	assert.Contains(t, out, "550")
	assert.Contains(t, out, "30d")
}

func TestPredictCmd_NotFound(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]string{"error": "unknown symbol"})
	})

	_, _, err := execute(newPredictCmd(&predictOptions{client: api.NewClient(server.URL, nil)}), "XYZ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown symbol")
}

func TestAnalyzeCmd_SendsText(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/analyze", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req sageapi.AnalyzeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "NABIL", req.Symbol)
		assert.Equal(t, "profits up", req.Text)

		writeJSON(t, w, http.StatusOK, map[string]any{
			"symbol":    "NABIL",
			"sentiment": "positive",
			"score":     0.82,
			"summary":   "Outlook is good",
		})
	})

	out, _, err := execute(newAnalyzeCmd(&predictOptions{client: api.NewClient(server.URL, nil)}), "nabil", "--text", "  profits up ")
	require.NoError(t, err)

	assert.Contains(t, out, "positive")
	assert.Contains(t, out, "0.82")
	assert.Contains(t, out, "Outlook is good")
}

func TestPredictCmd_RequiresSymbol(t *testing.T) {
	_, _, err := execute(newPredictCmd(&predictOptions{client: api.NewClient("http://127.0.0.1:1", nil)}))
	require.Error(t, err)
}
