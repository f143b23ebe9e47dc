package model

import "time"

// Stock is a cached equity record. Quote fields (price, change, volume)
// are refreshed on every list cycle; overview fields (company profile and
// financials) move on their own, much slower clock tracked by
// OverviewCachedAt. Rows are never deleted: an expired stock is still a
// valid backfill candidate.
type Stock struct {
	Ticker string `json:"ticker"`

	// Quote fields, short TTL.
	Price     *float64 `json:"price"`
	ChangeAmt *float64 `json:"changeAmt"`
	ChangePct *string  `json:"changePct"` // kept as provider string, e.g. "10.5%"
	Volume    *int64   `json:"volume"`

	// Overview fields, long TTL.
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Exchange      *string  `json:"exchange"`
	Sector        *string  `json:"sector"`
	Industry      *string  `json:"industry"`
	AssetType     *string  `json:"assetType"`
	Country       *string  `json:"country"`
	MarketCap     *int64   `json:"marketCap"`
	EBITDA        *int64   `json:"ebitda"`
	PERatio       *float64 `json:"peRatio"`
	EPS           *float64 `json:"eps"`
	Beta          *float64 `json:"beta"`
	DividendYield *float64 `json:"divYield"`
	ProfitMargin  *float64 `json:"profitMargin"`
	RevenueTTM    *int64   `json:"revenueTTM"`
	High52Week    *float64 `json:"high52Week"`
	Low52Week     *float64 `json:"low52Week"`
	AnalystTarget *float64 `json:"analystTarget"`

	CachedAt         time.Time  `json:"cachedAt"`
	ExpireAt         time.Time  `json:"expireAt"`
	OverviewCachedAt *time.Time `json:"overviewCachedAt"`
}

// StockList is the cached ordering of tickers for one market category
// (top_gainers, top_losers, most_actively_traded).
type StockList struct {
	Category string    `json:"category"`
	Tickers  []string  `json:"tickers"`
	CachedAt time.Time `json:"cachedAt"`
	ExpireAt time.Time `json:"expireAt"`
}

// MarketStatus is the aggregate market read model served to the frontend.
// Source tells the caller where the data came from: "db" or "api".
type MarketStatus struct {
	TopGainers         []Stock `json:"top_gainers"`
	TopLosers          []Stock `json:"top_losers"`
	MostActivelyTraded []Stock `json:"most_actively_traded"`
	Source             string  `json:"source"`
}
