package repository

import (
	"context"
	"database/sql"
	"fmt"

	"pulsehub-api/internal/model"
)

// StockRepo persists stocks and their category lists. Quote and overview
// writes are deliberately separate statements: each touches only its own
// columns so the two freshness clocks never reset each other.
type StockRepo struct {
	db *sql.DB
	d  dialect
}

// NewStockRepo creates a stock repository on the shared store.
func NewStockRepo(s *Store) *StockRepo {
	return &StockRepo{db: s.db, d: s.d}
}

const stockColumns = `ticker, price, change_amt, change_pct, volume,
	name, description, exchange, sector, industry, asset_type, country,
	market_cap, ebitda, pe_ratio, eps, beta, div_yield, profit_margin,
	revenue_ttm, high_52_week, low_52_week, analyst_target,
	cached_at, expire_at, overview_cached_at`

// UpsertQuote writes the list-cycle quote fields for a ticker. Overview
// columns are untouched on conflict.
func (r *StockRepo) UpsertQuote(ctx context.Context, s *model.Stock) error {
	query := r.d.upsert("stocks", "ticker",
		[]string{"ticker", "price", "change_amt", "change_pct", "volume", "cached_at", "expire_at"},
		[]string{"price", "change_amt", "change_pct", "volume", "cached_at", "expire_at"})

	_, err := r.db.ExecContext(ctx, query,
		s.Ticker, nullFloat(s.Price), nullFloat(s.ChangeAmt), nullString(s.ChangePct),
		nullInt(s.Volume), s.CachedAt.UTC(), s.ExpireAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert quote for %s: %w", s.Ticker, err)
	}
	return nil
}

// UpsertOverview writes the slow-changing company fields for a ticker and
// bumps only overview_cached_at. Quote columns are untouched on conflict.
func (r *StockRepo) UpsertOverview(ctx context.Context, s *model.Stock) error {
	overviewCols := []string{"name", "description", "exchange", "sector", "industry",
		"asset_type", "country", "market_cap", "ebitda", "pe_ratio", "eps", "beta",
		"div_yield", "profit_margin", "revenue_ttm", "high_52_week", "low_52_week",
		"analyst_target", "overview_cached_at"}

	insertCols := append([]string{"ticker"}, overviewCols...)
	insertCols = append(insertCols, "cached_at", "expire_at")

	query := r.d.upsert("stocks", "ticker", insertCols, overviewCols)

	var overviewAt sql.NullTime
	if s.OverviewCachedAt != nil {
		overviewAt = sql.NullTime{Time: s.OverviewCachedAt.UTC(), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		s.Ticker,
		nullString(s.Name), nullString(s.Description), nullString(s.Exchange),
		nullString(s.Sector), nullString(s.Industry), nullString(s.AssetType),
		nullString(s.Country), nullInt(s.MarketCap), nullInt(s.EBITDA),
		nullFloat(s.PERatio), nullFloat(s.EPS), nullFloat(s.Beta),
		nullFloat(s.DividendYield), nullFloat(s.ProfitMargin), nullInt(s.RevenueTTM),
		nullFloat(s.High52Week), nullFloat(s.Low52Week), nullFloat(s.AnalystTarget),
		overviewAt,
		s.CachedAt.UTC(), s.ExpireAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert overview for %s: %w", s.Ticker, err)
	}
	return nil
}

// GetByTicker returns one stock, or nil if unknown.
func (r *StockRepo) GetByTicker(ctx context.Context, ticker string) (*model.Stock, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+stockColumns+" FROM stocks WHERE ticker = ?", ticker)

	s, err := scanStock(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stock %s: %w", ticker, err)
	}
	return s, nil
}

// GetByTickers returns all stocks matching the given tickers, in no
// particular order.
func (r *StockRepo) GetByTickers(ctx context.Context, tickers []string) ([]model.Stock, error) {
	if len(tickers) == 0 {
		return nil, nil
	}

	args := make([]any, len(tickers))
	for i, t := range tickers {
		args[i] = t
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+stockColumns+" FROM stocks WHERE ticker IN ("+inPlaceholders(len(tickers))+")", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stocks: %w", err)
	}
	defer rows.Close()

	var out []model.Stock
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// GetList returns the cached list for a market category, or nil if none
// has ever been stored.
func (r *StockRepo) GetList(ctx context.Context, category string) (*model.StockList, error) {
	var (
		l   model.StockList
		raw string
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT category, tickers, cached_at, expire_at FROM stock_lists WHERE category = ?",
		category).Scan(&l.Category, &raw, &l.CachedAt, &l.ExpireAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stock list %s: %w", category, err)
	}

	l.Tickers, err = decodeIDs[string](raw)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// SaveList fully overwrites the list for a category.
func (r *StockRepo) SaveList(ctx context.Context, l *model.StockList) error {
	raw, err := encodeIDs(l.Tickers)
	if err != nil {
		return err
	}

	query := r.d.upsert("stock_lists", "category",
		[]string{"category", "tickers", "cached_at", "expire_at"},
		[]string{"tickers", "cached_at", "expire_at"})

	if _, err := r.db.ExecContext(ctx, query, l.Category, raw, l.CachedAt.UTC(), l.ExpireAt.UTC()); err != nil {
		return fmt.Errorf("failed to save stock list %s: %w", l.Category, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStock(row rowScanner) (*model.Stock, error) {
	var (
		s          model.Stock
		price      sql.NullFloat64
		changeAmt  sql.NullFloat64
		changePct  sql.NullString
		volume     sql.NullInt64
		name       sql.NullString
		desc       sql.NullString
		exchange   sql.NullString
		sector     sql.NullString
		industry   sql.NullString
		assetType  sql.NullString
		country    sql.NullString
		marketCap  sql.NullInt64
		ebitda     sql.NullInt64
		peRatio    sql.NullFloat64
		eps        sql.NullFloat64
		beta       sql.NullFloat64
		divYield   sql.NullFloat64
		margin     sql.NullFloat64
		revenue    sql.NullInt64
		high52     sql.NullFloat64
		low52      sql.NullFloat64
		target     sql.NullFloat64
		overviewAt sql.NullTime
	)

	err := row.Scan(&s.Ticker, &price, &changeAmt, &changePct, &volume,
		&name, &desc, &exchange, &sector, &industry, &assetType, &country,
		&marketCap, &ebitda, &peRatio, &eps, &beta, &divYield, &margin,
		&revenue, &high52, &low52, &target,
		&s.CachedAt, &s.ExpireAt, &overviewAt)
	if err != nil {
		return nil, err
	}

	s.Price = floatPtr(price)
	s.ChangeAmt = floatPtr(changeAmt)
	s.ChangePct = stringPtr(changePct)
	s.Volume = intPtr(volume)
	s.Name = stringPtr(name)
	s.Description = stringPtr(desc)
	s.Exchange = stringPtr(exchange)
	s.Sector = stringPtr(sector)
	s.Industry = stringPtr(industry)
	s.AssetType = stringPtr(assetType)
	s.Country = stringPtr(country)
	s.MarketCap = intPtr(marketCap)
	s.EBITDA = intPtr(ebitda)
	s.PERatio = floatPtr(peRatio)
	s.EPS = floatPtr(eps)
	s.Beta = floatPtr(beta)
	s.DividendYield = floatPtr(divYield)
	s.ProfitMargin = floatPtr(margin)
	s.RevenueTTM = intPtr(revenue)
	s.High52Week = floatPtr(high52)
	s.Low52Week = floatPtr(low52)
	s.AnalystTarget = floatPtr(target)
	s.OverviewCachedAt = timePtr(overviewAt)

	return &s, nil
}
