package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/stocksage/sage/pkg/sageapi"
)

// Companies retrieves every listed company.
func (c *Client) Companies(ctx context.Context) ([]Company, error) {
	companies, err := getJSON[[]Company](ctx, c, "/api/companies", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch companies: %w", err)
	}
	return companies, nil
}

// Sectors retrieves the sector catalogue.
func (c *Client) Sectors(ctx context.Context) ([]Sector, error) {
	sectors, err := getJSON[[]Sector](ctx, c, "/api/sectors", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sectors: %w", err)
	}
	return sectors, nil
}

// CompaniesWithSectors loads the company list and the sector catalogue in
// parallel. The catalogue is optional: if it fails the error is logged and
// an empty catalogue returned alongside the companies.
func (c *Client) CompaniesWithSectors(ctx context.Context) ([]Company, []Sector, error) {
	var companies []Company
	var sectors []Sector

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		companies, err = c.Companies(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		sectors, err = c.Sectors(gctx)
		if err != nil {
			c.logger().Warn("sector catalogue unavailable", zap.Error(err))
			sectors = nil
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return companies, sectors, nil
}

// News retrieves news articles for a category. An empty category means all.
// Items without a category inherit the requested one.
func (c *Client) News(ctx context.Context, category Category) ([]NewsItem, error) {
	if category == "" {
		category = sageapi.CategoryAll
	}
	items, err := getJSON[[]NewsItem](ctx, c, "/api/news", map[string]string{
		"category": string(category),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s news: %w", category, err)
	}
	if category != sageapi.CategoryAll {
		for i := range items {
			if items[i].Category == "" {
				items[i].Category = category
			}
		}
	}
	return items, nil
}

// MarketSummary retrieves the latest market summary table.
func (c *Client) MarketSummary(ctx context.Context) (*MarketSummary, error) {
	summary, err := getJSON[MarketSummary](ctx, c, "/api/market-summary", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch market summary: %w", err)
	}
	return &summary, nil
}

// StockReturns retrieves predicted returns for the tracked symbols.
func (c *Client) StockReturns(ctx context.Context) ([]StockReturn, error) {
	returns, err := getJSON[[]StockReturn](ctx, c, "/api/stock-returns", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stock returns: %w", err)
	}
	return returns, nil
}

// Predict retrieves the price prediction for a symbol.
func (c *Client) Predict(ctx context.Context, symbol string) (*Prediction, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, &ValidationError{Field: "symbol", Reason: "is required"}
	}

	prediction, err := getJSON[Prediction](ctx, c, "/api/predict/"+url.PathEscape(symbol), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prediction for %s: %w", symbol, err)
	}
	return &prediction, nil
}

// Analyze submits a symbol (and optional text) for sentiment analysis.
func (c *Client) Analyze(ctx context.Context, req AnalyzeRequest) (*Analysis, error) {
	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if req.Symbol == "" {
		return nil, &ValidationError{Field: "symbol", Reason: "is required"}
	}

	analysis, err := sendJSON[Analysis](ctx, c, http.MethodPost, "/api/analyze", req)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze %s: %w", req.Symbol, err)
	}
	return &analysis, nil
}
