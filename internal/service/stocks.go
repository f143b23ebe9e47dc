package service

import (
	"context"
	"log"
	"time"

	"pulsehub-api/internal/metrics"
	"pulsehub-api/internal/model"
	"pulsehub-api/internal/repository"
	"pulsehub-api/internal/upstream"
)

// Market categories served by GetMarketStatus. The gainers list is the
// freshness sentinel: all three are written in the same cycle, so one
// expiry check covers them.
const (
	categoryGainers = "top_gainers"
	categoryLosers  = "top_losers"
	categoryActive  = "most_actively_traded"
)

// StockService caches AlphaVantage market data. Quote fields refresh
// with every list cycle; overview fields refresh lazily on detail reads
// under their own much longer TTL.
type StockService struct {
	repo *repository.StockRepo
	av   *upstream.AlphaVantageClient

	listTTL     time.Duration
	overviewTTL time.Duration
}

// NewStockService creates the stock orchestrator.
func NewStockService(repo *repository.StockRepo, av *upstream.AlphaVantageClient, listTTL, overviewTTL time.Duration) *StockService {
	return &StockService{repo: repo, av: av, listTTL: listTTL, overviewTTL: overviewTTL}
}

// GetMarketStatus returns the three market lists, from the store when the
// cached lists are fresh and from the API otherwise. A rate-limited
// upstream (payload without the movers keys) yields empty lists, not an
// error; transport failures propagate.
func (s *StockService) GetMarketStatus(ctx context.Context) (*model.MarketStatus, error) {
	now := time.Now()

	gainers, err := s.repo.GetList(ctx, categoryGainers)
	if err != nil {
		return nil, err
	}

	if gainers != nil && gainers.ExpireAt.After(now) {
		return s.statusFromStore(ctx, gainers)
	}

	log.Printf("[StockService] Fetching fresh market movers")
	metrics.ListRefreshes.WithLabelValues("stocks").Inc()

	movers, err := s.av.TopMovers(ctx)
	if err != nil {
		return nil, err
	}

	if movers.TopGainers == nil {
		// API limit reached; the payload is a note, not data.
		log.Printf("[StockService] No movers in response, likely rate limited")
		return &model.MarketStatus{
			TopGainers:         []model.Stock{},
			TopLosers:          []model.Stock{},
			MostActivelyTraded: []model.Stock{},
			Source:             model.SourceAPI,
		}, nil
	}

	gainerTickers, err := s.refreshList(ctx, categoryGainers, movers.TopGainers, now)
	if err != nil {
		return nil, err
	}
	loserTickers, err := s.refreshList(ctx, categoryLosers, movers.TopLosers, now)
	if err != nil {
		return nil, err
	}
	activeTickers, err := s.refreshList(ctx, categoryActive, movers.MostActivelyTraded, now)
	if err != nil {
		return nil, err
	}

	all := append(append(append([]string{}, gainerTickers...), loserTickers...), activeTickers...)
	stocks, err := s.repo.GetByTickers(ctx, all)
	if err != nil {
		return nil, err
	}

	byTicker := indexStocks(stocks)
	return &model.MarketStatus{
		TopGainers:         orderStocks(gainerTickers, byTicker),
		TopLosers:          orderStocks(loserTickers, byTicker),
		MostActivelyTraded: orderStocks(activeTickers, byTicker),
		Source:             model.SourceAPI,
	}, nil
}

func (s *StockService) statusFromStore(ctx context.Context, gainers *model.StockList) (*model.MarketStatus, error) {
	losers, err := s.repo.GetList(ctx, categoryLosers)
	if err != nil {
		return nil, err
	}
	active, err := s.repo.GetList(ctx, categoryActive)
	if err != nil {
		return nil, err
	}

	all := append([]string{}, gainers.Tickers...)
	if losers != nil {
		all = append(all, losers.Tickers...)
	}
	if active != nil {
		all = append(all, active.Tickers...)
	}

	stocks, err := s.repo.GetByTickers(ctx, all)
	if err != nil {
		return nil, err
	}

	byTicker := indexStocks(stocks)
	status := &model.MarketStatus{
		TopGainers: orderStocks(gainers.Tickers, byTicker),
		Source:     model.SourceDB,
	}
	if losers != nil {
		status.TopLosers = orderStocks(losers.Tickers, byTicker)
	} else {
		status.TopLosers = []model.Stock{}
	}
	if active != nil {
		status.MostActivelyTraded = orderStocks(active.Tickers, byTicker)
	} else {
		status.MostActivelyTraded = []model.Stock{}
	}
	return status, nil
}

// refreshList upserts the quote rows for one movers listing and persists
// the list ordering. Detail enrichment per ticker is best-effort: a rate
// limited overview call must not abort the whole list.
func (s *StockService) refreshList(ctx context.Context, category string, items []upstream.QuoteItem, now time.Time) ([]string, error) {
	tickers := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))

	for _, item := range items {
		if item.Ticker == "" || seen[item.Ticker] {
			continue
		}
		seen[item.Ticker] = true
		tickers = append(tickers, item.Ticker)

		stock := &model.Stock{
			Ticker:    item.Ticker,
			Price:     upstream.SafeFloat(item.Price),
			ChangeAmt: upstream.SafeFloat(item.ChangeAmount),
			Volume:    upstream.SafeInt(item.Volume),
			CachedAt:  now,
			ExpireAt:  now.Add(s.listTTL),
		}
		if item.ChangePercentage != "" {
			pct := item.ChangePercentage
			stock.ChangePct = &pct
		}

		if err := s.repo.UpsertQuote(ctx, stock); err != nil {
			return nil, err
		}

		// The movers listing carries no company profile; enrich from the
		// overview endpoint, which itself checks the store first.
		if _, err := s.GetStockDetails(ctx, item.Ticker); err != nil {
			log.Printf("[StockService] Failed to fetch details for %s: %v", item.Ticker, err)
		}
	}

	list := &model.StockList{
		Category: category,
		Tickers:  tickers,
		CachedAt: now,
		ExpireAt: now.Add(s.listTTL),
	}
	if err := s.repo.SaveList(ctx, list); err != nil {
		return nil, err
	}
	return tickers, nil
}

// GetStockDetails returns one stock with overview data, fetching fresh
// overview fields only when overviewCachedAt has aged past its TTL.
// Quote fields already in the row are never touched by this path.
func (s *StockService) GetStockDetails(ctx context.Context, ticker string) (*model.Stock, error) {
	if ticker == "" {
		return nil, nil
	}
	now := time.Now()

	existing, err := s.repo.GetByTicker(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.OverviewCachedAt != nil &&
		existing.OverviewCachedAt.Add(s.overviewTTL).After(now) {
		return existing, nil
	}

	log.Printf("[StockService] Fetching overview for %s", ticker)
	overview, err := s.av.Overview(ctx, ticker)
	if err != nil {
		return nil, err
	}

	// Empty payload means rate limit or unknown symbol; serve what we
	// have, stale or not.
	if overview.Symbol == "" {
		log.Printf("[StockService] No overview data returned for %s", ticker)
		return existing, nil
	}

	stock := overviewToStock(overview, now, now.Add(s.listTTL))
	if err := s.repo.UpsertOverview(ctx, stock); err != nil {
		return nil, err
	}

	return s.repo.GetByTicker(ctx, overview.Symbol)
}

// overviewToStock converts the provider overview payload into the entity
// shape at the boundary.
func overviewToStock(o *upstream.OverviewResponse, cachedAt, expireAt time.Time) *model.Stock {
	overviewCachedAt := cachedAt
	return &model.Stock{
		Ticker:           o.Symbol,
		Name:             optString(o.Name),
		Description:      optString(o.Description),
		Exchange:         optString(o.Exchange),
		Sector:           optString(o.Sector),
		Industry:         optString(o.Industry),
		AssetType:        optString(o.AssetType),
		Country:          optString(o.Country),
		MarketCap:        upstream.SafeInt(o.MarketCapitalization),
		EBITDA:           upstream.SafeInt(o.EBITDA),
		PERatio:          upstream.SafeFloat(o.PERatio),
		EPS:              upstream.SafeFloat(o.EPS),
		Beta:             upstream.SafeFloat(o.Beta),
		DividendYield:    upstream.SafeFloat(o.DividendYield),
		ProfitMargin:     upstream.SafeFloat(o.ProfitMargin),
		RevenueTTM:       upstream.SafeInt(o.RevenueTTM),
		High52Week:       upstream.SafeFloat(o.High52Week),
		Low52Week:        upstream.SafeFloat(o.Low52Week),
		AnalystTarget:    upstream.SafeFloat(o.AnalystTargetPrice),
		CachedAt:         cachedAt,
		ExpireAt:         expireAt,
		OverviewCachedAt: &overviewCachedAt,
	}
}

func optString(s string) *string {
	if s == "" || s == "None" {
		return nil
	}
	return &s
}

func indexStocks(stocks []model.Stock) map[string]model.Stock {
	byTicker := make(map[string]model.Stock, len(stocks))
	for _, s := range stocks {
		byTicker[s.Ticker] = s
	}
	return byTicker
}

// orderStocks maps tickers back to stock records preserving list order,
// silently dropping tickers with no stored record.
func orderStocks(tickers []string, byTicker map[string]model.Stock) []model.Stock {
	out := make([]model.Stock, 0, len(tickers))
	for _, t := range tickers {
		if s, ok := byTicker[t]; ok {
			out = append(out, s)
		}
	}
	return out
}
