package store

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

const (
	DEFAULT_MAX_OPEN_CONNS     = 10
	DEFAULT_MAX_IDLE_CONNS     = 2
	DEFAULT_CONN_MAX_LIFETIME  = 30 * time.Minute
	DEFAULT_CONN_MAX_IDLE_TIME = 5 * time.Minute

	// Postgres caps a statement at 65535 bind parameters
	maxBindParams = 65535
)

// PoolConfig sizes the connection pool. Zero values take the defaults.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// WithDefaults fills zero values and keeps idle connections within the open limit
func (c PoolConfig) WithDefaults() PoolConfig {
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = DEFAULT_MAX_OPEN_CONNS
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = DEFAULT_MAX_IDLE_CONNS
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = DEFAULT_CONN_MAX_LIFETIME
	}
	if c.ConnMaxIdleTime <= 0 {
		c.ConnMaxIdleTime = DEFAULT_CONN_MAX_IDLE_TIME
	}
	c.MaxIdleConns = min(c.MaxIdleConns, c.MaxOpenConns)
	return c
}

// ConfigureConnectionPool applies cfg to the sql.DB behind db
func ConfigureConnectionPool(db *gorm.DB, cfg PoolConfig) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	cfg = cfg.WithDefaults()
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return nil
}

// batchSize returns how many rows of the given column count fit in one INSERT.
// A set page yields a few hundred editions, so this is normally len(rows).
func batchSize(rows int, columns int) int {
	if rows <= 0 {
		return 1
	}
	return min(max(maxBindParams/columns, 1), rows)
}
