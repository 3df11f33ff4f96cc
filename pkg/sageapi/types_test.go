package sageapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input   string
		want    Category
		wantErr bool
	}{
		{input: "", want: CategoryAll},
		{input: "all", want: CategoryAll},
		{input: " Market ", want: CategoryMarket},
		{input: "CORPORATE", want: CategoryCorporate},
		{input: "company", want: CategoryCompany},
		{input: "sports", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategory_Title(t *testing.T) {
	assert.Equal(t, "Market", CategoryMarket.Title())
	assert.Equal(t, "All", Category("").Title())
}

func TestMarketSummary_Entries(t *testing.T) {
	m := MarketSummary{
		Heading: "Market Summary As of 2025-04-17",
		Summary: map[string]string{
			"Total Turnover Rs:":  "5,123,456,789.00",
			"Total Traded Shares": "12,345,678",
			"Market Cap Rs:":      "4,321,000,000,000",
		},
	}

	entries := m.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "Market Cap Rs:", entries[0].Key)
	assert.Equal(t, "Total Traded Shares", entries[1].Key)
	assert.Equal(t, "Total Turnover Rs:", entries[2].Key)
}
