package api

import "github.com/stocksage/sage/pkg/sageapi"

// Error types (aliased from pkg/sageapi)
type (
	APIError         = sageapi.APIError
	UnreachableError = sageapi.UnreachableError
	ParseError       = sageapi.ParseError
	ValidationError  = sageapi.ValidationError
)

var (
	// CheckResponse converts a non-2xx response into an *APIError.
	CheckResponse = sageapi.CheckResponse
	// DecodeJSON decodes a response body, failing with a *ParseError.
	DecodeJSON = sageapi.DecodeJSON

	IsUnauthorized = sageapi.IsUnauthorized
	IsUnreachable  = sageapi.IsUnreachable
	IsValidation   = sageapi.IsValidation
)
