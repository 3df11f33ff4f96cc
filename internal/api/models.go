package api

import "github.com/stocksage/sage/pkg/sageapi"

// =============================================================================
// Listing Types (aliased from pkg/sageapi)
// =============================================================================

type (
	Company  = sageapi.Company
	Sector   = sageapi.Sector
	NewsItem = sageapi.NewsItem
	Category = sageapi.Category
)

// =============================================================================
// Market Types (aliased from pkg/sageapi)
// =============================================================================

type (
	MarketSummary  = sageapi.MarketSummary
	StockReturn    = sageapi.StockReturn
	Prediction     = sageapi.Prediction
	AnalyzeRequest = sageapi.AnalyzeRequest
	Analysis       = sageapi.Analysis
)

// =============================================================================
// Account Types (aliased from pkg/sageapi)
// =============================================================================

type (
	User            = sageapi.User
	LoginRequest    = sageapi.LoginRequest
	LoginResponse   = sageapi.LoginResponse
	RegisterRequest = sageapi.RegisterRequest
	MessageResponse = sageapi.MessageResponse
	AuthStatus      = sageapi.AuthStatus
	ProfileUpdate   = sageapi.ProfileUpdate
	Settings        = sageapi.Settings
	ContactMessage  = sageapi.ContactMessage
)
