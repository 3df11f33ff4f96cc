package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/stocksage/sage/pkg/sageapi"
)

func TestClient_Companies(t *testing.T) {
	tests := []struct {
		name           string
		statusCode     int
		responseBody   string
		wantErr        bool
		wantErrContain string
		validate       func(t *testing.T, companies []Company)
	}{
		{
			name:       "comma formatted numbers",
			statusCode: 200,
			responseBody: `[
				{
					"symbol": "NABIL",
					"name": "Nabil Bank Limited",
					"sector": "Commercial Bank",
					"listed_shares": "270,569,873",
					"market_price": "1,234.50",
					"as_of": "2024-11-28"
				}
			]`,
			validate: func(t *testing.T, companies []Company) {
				require.Len(t, companies, 1)
				assert.Equal(t, "NABIL", companies[0].Symbol)
				assert.Equal(t, "Commercial Bank", companies[0].Sector)
				assert.Equal(t, 1234.5, companies[0].MarketPrice.Float64())
				assert.Equal(t, float64(270569873), companies[0].ListedShares.Float64())
				assert.False(t, companies[0].PaidUp.Valid)
			},
		},
		{
			name:         "empty list",
			statusCode:   200,
			responseBody: `[]`,
			validate: func(t *testing.T, companies []Company) {
				assert.Empty(t, companies)
			},
		},
		{
			name:           "server error",
			statusCode:     500,
			responseBody:   `{"error": "database unavailable"}`,
			wantErr:        true,
			wantErrContain: "database unavailable",
		},
		{
			name:           "malformed body",
			statusCode:     200,
			responseBody:   `{"symbol":`,
			wantErr:        true,
			wantErrContain: "failed to parse response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/companies", r.URL.Path)
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer server.Close()

			companies, err := NewClient(server.URL, nil).Companies(context.Background())

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "failed to fetch companies")
				assert.Contains(t, err.Error(), tt.wantErrContain)
				return
			}

			require.NoError(t, err)
			tt.validate(t, companies)
		})
	}
}

func TestClient_Sectors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sectors", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id": "1", "name": "Hydro Power"}, {"id": "2", "name": "Finance"}]`))
	}))
	defer server.Close()

	sectors, err := NewClient(server.URL, nil).Sectors(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []Sector{{ID: "1", Name: "Hydro Power"}, {ID: "2", Name: "Finance"}}, sectors)
}

func TestClient_News(t *testing.T) {
	tests := []struct {
		name         string
		category     Category
		wantQuery    string
		wantCategory Category
	}{
		{name: "default is all", category: "", wantQuery: "all", wantCategory: ""},
		{name: "market", category: sageapi.CategoryMarket, wantQuery: "market", wantCategory: sageapi.CategoryMarket},
		{name: "corporate", category: sageapi.CategoryCorporate, wantQuery: "corporate", wantCategory: sageapi.CategoryCorporate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/news", r.URL.Path)
				assert.Equal(t, tt.wantQuery, r.URL.Query().Get("category"))
				_, _ = w.Write([]byte(`[{"title": "NEPSE gains", "content": "<p>Up</p>", "url": "https://x", "date": "2024-11-28", "source": "x"}]`))
			}))
			defer server.Close()

			items, err := NewClient(server.URL, nil).News(context.Background(), tt.category)

			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, "NEPSE gains", items[0].Title)
			assert.Equal(t, tt.wantCategory, items[0].Category)
		})
	}
}

func TestClient_MarketSummary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/market-summary", r.URL.Path)
		_, _ = w.Write([]byte(`{"heading": "Market Summary as of 2024-11-28", "summary": {"Total Turnover Rs:": "5,123,456,789.00", "Total Traded Shares": "12,345,678"}}`))
	}))
	defer server.Close()

	summary, err := NewClient(server.URL, nil).MarketSummary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Market Summary as of 2024-11-28", summary.Heading)
	entries := summary.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "Total Traded Shares", entries[0].Key)
}

func TestClient_StockReturns(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stock-returns", r.URL.Path)
		_, _ = w.Write([]byte(`[{"symbol": "NABIL", "current_price": 500, "predicted_price": 550, "expected_return": 10, "is_mock": true}]`))
	}))
	defer server.Close()

	returns, err := NewClient(server.URL, nil).StockReturns(context.Background())

	require.NoError(t, err)
	require.Len(t, returns, 1)
	assert.Equal(t, 10.0, returns[0].ExpectedReturn.Float64())
	assert.True(t, returns[0].IsMock)
}

func TestClient_Predict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/predict/NABIL", r.URL.Path)
		_, _ = w.Write([]byte(`{"symbol": "NABIL", "current_price": "500", "predicted_price": "520.5", "expected_return": "4.1"}`))
	}))
	defer server.Close()

	prediction, err := NewClient(server.URL, nil).Predict(context.Background(), " nabil ")

	require.NoError(t, err)
	assert.Equal(t, "NABIL", prediction.Symbol)
	assert.Equal(t, 520.5, prediction.PredictedPrice.Float64())
}

func TestClient_Predict_Validation(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer server.Close()

	_, err := NewClient(server.URL, nil).Predict(context.Background(), "  ")

	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Zero(t, hits)
}

func TestClient_Predict_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "Unknown symbol"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, nil).Predict(context.Background(), "XYZ")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
	assert.Contains(t, err.Error(), "prediction for XYZ")
}

func TestClient_Analyze(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/analyze", r.URL.Path)

		body, _ := io.ReadAll(r.Body)
		var req AnalyzeRequest
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "NABIL", req.Symbol)
		assert.Equal(t, "strong quarter", req.Text)

		_, _ = w.Write([]byte(`{"symbol": "NABIL", "sentiment": "positive", "score": 0.82, "summary": "Bullish"}`))
	}))
	defer server.Close()

	analysis, err := NewClient(server.URL, nil).Analyze(context.Background(), AnalyzeRequest{Symbol: "nabil", Text: "strong quarter"})

	require.NoError(t, err)
	assert.Equal(t, "positive", analysis.Sentiment)
	assert.Equal(t, 0.82, analysis.Score.Float64())
}

func catalogueServer(t *testing.T, sectorsStatus int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/companies":
			_, _ = w.Write([]byte(`[{"symbol": "NABIL", "name": "Nabil Bank", "sector": "Commercial Bank"}]`))
		case "/api/sectors":
			w.WriteHeader(sectorsStatus)
			if sectorsStatus == http.StatusOK {
				_, _ = w.Write([]byte(`[{"id": "1", "name": "Commercial Bank"}, {"id": "2", "name": "Hotels"}]`))
				return
			}
			_, _ = w.Write([]byte(`{"error": "catalogue offline"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestClient_CompaniesWithSectors(t *testing.T) {
	server := catalogueServer(t, http.StatusOK)

	companies, sectors, err := NewClient(server.URL, nil).CompaniesWithSectors(context.Background())
	require.NoError(t, err)

	require.Len(t, companies, 1)
	assert.Equal(t, "NABIL", companies[0].Symbol)
	assert.Equal(t, []Sector{{ID: "1", Name: "Commercial Bank"}, {ID: "2", Name: "Hotels"}}, sectors)
}

func TestClient_CompaniesWithSectors_CatalogueOptional(t *testing.T) {
	server := catalogueServer(t, http.StatusServiceUnavailable)
	core, logs := observer.New(zap.WarnLevel)

	companies, sectors, err := NewClient(server.URL, nil).
		WithLogger(zap.New(core)).
		CompaniesWithSectors(context.Background())
	require.NoError(t, err)

	assert.Len(t, companies, 1)
	assert.Empty(t, sectors)
	require.Equal(t, 1, logs.FilterMessage("sector catalogue unavailable").Len())
}

func TestClient_CompaniesWithSectors_CompaniesRequired(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/companies" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	_, _, err := NewClient(server.URL, nil).CompaniesWithSectors(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch companies")
}
