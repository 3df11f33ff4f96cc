package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckResponse_ErrorField(t *testing.T) {
	resp := &http.Response{
		StatusCode: 404,
		Body:       io.NopCloser(bytes.NewReader([]byte(`{"error": "market-summary-1.json file not found"}`))),
	}

	err := CheckResponse(resp)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, "market-summary-1.json file not found", apiErr.Message)
}

func TestDecodeJSON_ParseError(t *testing.T) {
	resp := &http.Response{
		StatusCode: 200,
		Body:       io.NopCloser(bytes.NewReader([]byte(`<html>`))),
	}

	var out []Company
	err := DecodeJSON(resp, &out)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "response", parseErr.What)
}

func TestErrorHelpers_Wrapped(t *testing.T) {
	unauthorized := fmt.Errorf("outer: %w", &APIError{StatusCode: 401})
	unreachable := fmt.Errorf("outer: %w", &UnreachableError{URL: "http://x", Err: io.EOF})
	invalid := fmt.Errorf("outer: %w", &ValidationError{Field: "email", Reason: "is required"})

	assert.True(t, IsUnauthorized(unauthorized))
	assert.False(t, IsUnauthorized(unreachable))
	assert.True(t, IsUnreachable(unreachable))
	assert.True(t, IsValidation(invalid))
	assert.False(t, IsValidation(unauthorized))
}
