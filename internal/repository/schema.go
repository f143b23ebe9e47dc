package repository

func (sqliteDialect) schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS stocks (
			ticker TEXT PRIMARY KEY,
			price REAL,
			change_amt REAL,
			change_pct TEXT,
			volume INTEGER,
			name TEXT,
			description TEXT,
			exchange TEXT,
			sector TEXT,
			industry TEXT,
			asset_type TEXT,
			country TEXT,
			market_cap INTEGER,
			ebitda INTEGER,
			pe_ratio REAL,
			eps REAL,
			beta REAL,
			div_yield REAL,
			profit_margin REAL,
			revenue_ttm INTEGER,
			high_52_week REAL,
			low_52_week REAL,
			analyst_target REAL,
			cached_at DATETIME NOT NULL,
			expire_at DATETIME NOT NULL,
			overview_cached_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS stock_lists (
			category TEXT PRIMARY KEY,
			tickers TEXT NOT NULL,
			cached_at DATETIME NOT NULL,
			expire_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS movies (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			overview TEXT NOT NULL DEFAULT '',
			tagline TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT '',
			runtime INTEGER NOT NULL DEFAULT 0,
			imdb_id TEXT NOT NULL DEFAULT '',
			homepage TEXT NOT NULL DEFAULT '',
			budget INTEGER NOT NULL DEFAULT 0,
			revenue INTEGER NOT NULL DEFAULT 0,
			poster_path TEXT,
			backdrop_path TEXT,
			media_type TEXT NOT NULL DEFAULT 'movie',
			release_date DATETIME,
			original_lang TEXT NOT NULL DEFAULT '',
			original_title TEXT NOT NULL DEFAULT '',
			vote_average REAL NOT NULL DEFAULT 0,
			vote_count INTEGER NOT NULL DEFAULT 0,
			popularity REAL NOT NULL DEFAULT 0,
			genres TEXT NOT NULL DEFAULT '[]',
			cached_at DATETIME NOT NULL,
			expire_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_movies_popularity ON movies(popularity DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_movies_release_date ON movies(release_date)`,
		`CREATE TABLE IF NOT EXISTS movie_lists (
			category TEXT PRIMARY KEY,
			movie_ids TEXT NOT NULL,
			min_date TEXT NOT NULL DEFAULT '',
			max_date TEXT NOT NULL DEFAULT '',
			cached_at DATETIME NOT NULL,
			expire_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS news_articles (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '',
			source_name TEXT NOT NULL DEFAULT '',
			source_url TEXT NOT NULL DEFAULT '',
			author TEXT,
			image_url TEXT,
			published_at DATETIME NOT NULL,
			categories TEXT NOT NULL DEFAULT '[]',
			cached_at DATETIME NOT NULL,
			expire_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_news_published ON news_articles(published_at DESC)`,
		`CREATE TABLE IF NOT EXISTS news_lists (
			category TEXT PRIMARY KEY,
			article_ids TEXT NOT NULL,
			cached_at DATETIME NOT NULL,
			expire_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS music_tracks (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			artist TEXT NOT NULL DEFAULT '',
			image TEXT NOT NULL DEFAULT '',
			audio TEXT NOT NULL DEFAULT '',
			duration INTEGER NOT NULL DEFAULT 0,
			share_url TEXT NOT NULL DEFAULT '',
			license TEXT NOT NULL DEFAULT '',
			released_date TEXT NOT NULL DEFAULT '',
			cached_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS music_lists (
			category TEXT PRIMARY KEY,
			track_ids TEXT NOT NULL,
			cached_at DATETIME NOT NULL,
			expire_at DATETIME NOT NULL
		)`,
	}
}

func (mysqlDialect) schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS stocks (
			ticker VARCHAR(32) PRIMARY KEY,
			price DOUBLE,
			change_amt DOUBLE,
			change_pct VARCHAR(32),
			volume BIGINT,
			name TEXT,
			description TEXT,
			exchange VARCHAR(64),
			sector VARCHAR(128),
			industry VARCHAR(128),
			asset_type VARCHAR(64),
			country VARCHAR(64),
			market_cap BIGINT,
			ebitda BIGINT,
			pe_ratio DOUBLE,
			eps DOUBLE,
			beta DOUBLE,
			div_yield DOUBLE,
			profit_margin DOUBLE,
			revenue_ttm BIGINT,
			high_52_week DOUBLE,
			low_52_week DOUBLE,
			analyst_target DOUBLE,
			cached_at DATETIME(3) NOT NULL,
			expire_at DATETIME(3) NOT NULL,
			overview_cached_at DATETIME(3)
		)`,
		`CREATE TABLE IF NOT EXISTS stock_lists (
			category VARCHAR(64) PRIMARY KEY,
			tickers TEXT NOT NULL,
			cached_at DATETIME(3) NOT NULL,
			expire_at DATETIME(3) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS movies (
			id BIGINT PRIMARY KEY,
			title TEXT NOT NULL,
			overview TEXT NOT NULL,
			tagline TEXT NOT NULL,
			status VARCHAR(64) NOT NULL DEFAULT '',
			runtime INT NOT NULL DEFAULT 0,
			imdb_id VARCHAR(32) NOT NULL DEFAULT '',
			homepage TEXT NOT NULL,
			budget BIGINT NOT NULL DEFAULT 0,
			revenue BIGINT NOT NULL DEFAULT 0,
			poster_path TEXT,
			backdrop_path TEXT,
			media_type VARCHAR(16) NOT NULL DEFAULT 'movie',
			release_date DATETIME(3),
			original_lang VARCHAR(16) NOT NULL DEFAULT '',
			original_title TEXT NOT NULL,
			vote_average DOUBLE NOT NULL DEFAULT 0,
			vote_count BIGINT NOT NULL DEFAULT 0,
			popularity DOUBLE NOT NULL DEFAULT 0,
			genres TEXT NOT NULL,
			cached_at DATETIME(3) NOT NULL,
			expire_at DATETIME(3) NOT NULL,
			INDEX idx_movies_popularity (popularity),
			INDEX idx_movies_release_date (release_date)
		)`,
		`CREATE TABLE IF NOT EXISTS movie_lists (
			category VARCHAR(64) PRIMARY KEY,
			movie_ids TEXT NOT NULL,
			min_date VARCHAR(16) NOT NULL DEFAULT '',
			max_date VARCHAR(16) NOT NULL DEFAULT '',
			cached_at DATETIME(3) NOT NULL,
			expire_at DATETIME(3) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS news_articles (
			id VARCHAR(16) PRIMARY KEY,
			url VARCHAR(768) NOT NULL UNIQUE,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			content MEDIUMTEXT NOT NULL,
			source_name VARCHAR(255) NOT NULL DEFAULT '',
			source_url VARCHAR(768) NOT NULL DEFAULT '',
			author VARCHAR(255),
			image_url TEXT,
			published_at DATETIME(3) NOT NULL,
			categories TEXT NOT NULL,
			cached_at DATETIME(3) NOT NULL,
			expire_at DATETIME(3) NOT NULL,
			INDEX idx_news_published (published_at)
		)`,
		`CREATE TABLE IF NOT EXISTS news_lists (
			category VARCHAR(64) PRIMARY KEY,
			article_ids TEXT NOT NULL,
			cached_at DATETIME(3) NOT NULL,
			expire_at DATETIME(3) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS music_tracks (
			id VARCHAR(32) PRIMARY KEY,
			title TEXT NOT NULL,
			artist TEXT NOT NULL,
			image TEXT NOT NULL,
			audio TEXT NOT NULL,
			duration INT NOT NULL DEFAULT 0,
			share_url TEXT NOT NULL,
			license TEXT NOT NULL,
			released_date VARCHAR(32) NOT NULL DEFAULT '',
			cached_at DATETIME(3) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS music_lists (
			category VARCHAR(64) PRIMARY KEY,
			track_ids TEXT NOT NULL,
			cached_at DATETIME(3) NOT NULL,
			expire_at DATETIME(3) NOT NULL
		)`,
	}
}
