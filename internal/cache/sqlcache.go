package cache

import (
	"context"
	"database/sql"
	"log"
	"math/rand"
	"sync"
	"time"

	"pulsehub-api/internal/metrics"
)

// SQLCache stores cache entries in a table on the shared relational
// store. Expired rows are never returned; they are removed by a
// probabilistic sweep piggybacked on normal Get/Set traffic, which keeps
// eviction cost amortized without a scheduled job. The sweep probability
// trades sweep frequency against per-call overhead.
type SQLCache struct {
	db *sql.DB

	getSQL    string
	upsertSQL string
	deleteSQL string
	sweepSQL  string

	sweepProb float64
	mu        sync.Mutex
	rng       *rand.Rand

	// sweeping deduplicates concurrent sweeps; overlapping deletes are
	// harmless but wasteful.
	sweeping sync.Mutex
}

const (
	sqliteCacheSchema = `CREATE TABLE IF NOT EXISTS cache (
		key TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expire_at DATETIME NOT NULL,
		created_at DATETIME NOT NULL
	)`
	// "key" is a reserved word in MySQL, hence the backticks.
	mysqlCacheSchema = "CREATE TABLE IF NOT EXISTS cache (" +
		"`key` VARCHAR(512) PRIMARY KEY, " +
		"data MEDIUMBLOB NOT NULL, " +
		"expire_at DATETIME(3) NOT NULL, " +
		"created_at DATETIME(3) NOT NULL)"
)

// NewSQLCache creates the database-backed cache on an existing handle.
// driver selects the DDL dialect ("sqlite" or "mysql"). sweepProbability
// is the chance any Get/Set call triggers a background sweep.
func NewSQLCache(db *sql.DB, driver string, sweepProbability float64) (*SQLCache, error) {
	c := &SQLCache{
		db:        db,
		sweepProb: sweepProbability,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	schema := sqliteCacheSchema
	keyCol := "key"
	if driver == "mysql" {
		schema = mysqlCacheSchema
		keyCol = "`key`"
	}

	c.getSQL = "SELECT data, expire_at FROM cache WHERE " + keyCol + " = ?"
	c.deleteSQL = "DELETE FROM cache WHERE " + keyCol + " = ?"
	c.sweepSQL = "DELETE FROM cache WHERE expire_at <= ?"
	if driver == "mysql" {
		c.upsertSQL = "INSERT INTO cache (" + keyCol + ", data, expire_at, created_at) VALUES (?, ?, ?, ?) " +
			"ON DUPLICATE KEY UPDATE data = VALUES(data), expire_at = VALUES(expire_at), created_at = VALUES(created_at)"
	} else {
		c.upsertSQL = "INSERT INTO cache (key, data, expire_at, created_at) VALUES (?, ?, ?, ?) " +
			"ON CONFLICT(key) DO UPDATE SET data = excluded.data, expire_at = excluded.expire_at, created_at = excluded.created_at"
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}
	return c, nil
}

// Get retrieves a value by key. Rows past their expiry are treated as
// misses even if not yet swept.
func (c *SQLCache) Get(ctx context.Context, key string) ([]byte, error) {
	var (
		data     []byte
		expireAt time.Time
	)
	err := c.db.QueryRowContext(ctx, c.getSQL, key).Scan(&data, &expireAt)
	if err == sql.ErrNoRows {
		metrics.CacheMisses.WithLabelValues("db").Inc()
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	c.maybeSweep()

	if !expireAt.After(time.Now()) {
		metrics.CacheMisses.WithLabelValues("db").Inc()
		return nil, ErrCacheMiss
	}

	metrics.CacheHits.WithLabelValues("db").Inc()
	return data, nil
}

// Set upserts a value with the given TTL.
func (c *SQLCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := time.Now().UTC()
	if _, err := c.db.ExecContext(ctx, c.upsertSQL, key, value, now.Add(ttl), now); err != nil {
		return err
	}

	c.maybeSweep()
	return nil
}

// Delete removes a value by key.
func (c *SQLCache) Delete(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, c.deleteSQL, key)
	return err
}

// maybeSweep fires a detached cleanup of all expired rows with
// probability sweepProb. The caller's response path never waits on it and
// sweep failures never propagate: correctness relies on the read-time
// expiry check, so sweeping is pure housekeeping.
func (c *SQLCache) maybeSweep() {
	c.mu.Lock()
	hit := c.rng.Float64() < c.sweepProb
	c.mu.Unlock()
	if !hit {
		return
	}

	go func() {
		if !c.sweeping.TryLock() {
			return
		}
		defer c.sweeping.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		res, err := c.db.ExecContext(ctx, c.sweepSQL, time.Now().UTC())
		if err != nil {
			metrics.CacheSweepFailures.Inc()
			log.Printf("[SQLCache] Sweep failed: %v", err)
			return
		}

		metrics.CacheSweeps.Inc()
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			log.Printf("[SQLCache] Swept %d expired entries", n)
		}
	}()
}
