package upstream

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// AlphaVantageClient talks to the AlphaVantage stock API.
type AlphaVantageClient struct {
	client  *Client
	baseURL string
	apiKey  string
}

// NewAlphaVantageClient builds an AlphaVantage client.
func NewAlphaVantageClient(client *Client, baseURL, apiKey string) *AlphaVantageClient {
	return &AlphaVantageClient{client: client, baseURL: baseURL, apiKey: apiKey}
}

// QuoteItem is one row of the movers listing. All numeric fields arrive
// as strings and may be "None" or "-".
type QuoteItem struct {
	Ticker           string `json:"ticker"`
	Price            string `json:"price"`
	ChangeAmount     string `json:"change_amount"`
	ChangePercentage string `json:"change_percentage"`
	Volume           string `json:"volume"`
}

// TopMoversResponse is the TOP_GAINERS_LOSERS payload. A rate-limited
// request returns a JSON body without these keys, leaving all slices nil.
type TopMoversResponse struct {
	TopGainers         []QuoteItem `json:"top_gainers"`
	TopLosers          []QuoteItem `json:"top_losers"`
	MostActivelyTraded []QuoteItem `json:"most_actively_traded"`
}

// OverviewResponse is the OVERVIEW payload: company profile and
// financials, everything stringly typed.
type OverviewResponse struct {
	Symbol               string `json:"Symbol"`
	AssetType            string `json:"AssetType"`
	Name                 string `json:"Name"`
	Description          string `json:"Description"`
	Exchange             string `json:"Exchange"`
	Sector               string `json:"Sector"`
	Industry             string `json:"Industry"`
	Country              string `json:"Country"`
	MarketCapitalization string `json:"MarketCapitalization"`
	EBITDA               string `json:"EBITDA"`
	PERatio              string `json:"PERatio"`
	EPS                  string `json:"EPS"`
	Beta                 string `json:"Beta"`
	DividendYield        string `json:"DividendYield"`
	ProfitMargin         string `json:"ProfitMargin"`
	RevenueTTM           string `json:"RevenueTTM"`
	High52Week           string `json:"52WeekHigh"`
	Low52Week            string `json:"52WeekLow"`
	AnalystTargetPrice   string `json:"AnalystTargetPrice"`
}

// TopMovers fetches the gainers/losers/most-active listing.
func (a *AlphaVantageClient) TopMovers(ctx context.Context) (*TopMoversResponse, error) {
	endpoint := fmt.Sprintf("%s/query?function=TOP_GAINERS_LOSERS&apikey=%s", a.baseURL, a.apiKey)

	var out TopMoversResponse
	if err := a.client.GetJSON(ctx, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Overview fetches the company overview for one ticker.
func (a *AlphaVantageClient) Overview(ctx context.Context, ticker string) (*OverviewResponse, error) {
	endpoint := fmt.Sprintf("%s/query?function=OVERVIEW&symbol=%s&apikey=%s",
		a.baseURL, url.QueryEscape(ticker), a.apiKey)

	var out OverviewResponse
	if err := a.client.GetJSON(ctx, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Passthrough proxies an arbitrary AlphaVantage GET for the cached proxy
// routes, appending the API key.
func (a *AlphaVantageClient) Passthrough(ctx context.Context, pathAndQuery string) ([]byte, error) {
	sep := "?"
	if strings.Contains(pathAndQuery, "?") {
		sep = "&"
	}
	return a.client.Get(ctx, a.baseURL+pathAndQuery+sep+"apikey="+a.apiKey, nil)
}

// SafeFloat parses a provider numeric string. "None", "-", empty, and
// garbage all yield nil instead of an error.
func SafeFloat(val string) *float64 {
	cleaned := cleanNumeric(val)
	if cleaned == "" {
		return nil
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil
	}
	return &f
}

// SafeInt parses a provider integer string, truncating any fractional
// part.
func SafeInt(val string) *int64 {
	cleaned := cleanNumeric(val)
	if cleaned == "" {
		return nil
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil
	}
	i := int64(f)
	return &i
}

func cleanNumeric(val string) string {
	if val == "" || val == "None" || val == "-" {
		return ""
	}
	var b strings.Builder
	for _, r := range val {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
