package db

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const pgUndefinedTable = "42P01"

// PoolStats is the pool section of the database health response.
type PoolStats struct {
	TotalConns      int32  `json:"total_conns"`
	IdleConns       int32  `json:"idle_conns"`
	AcquiredConns   int32  `json:"acquired_conns"`
	MaxConns        int32  `json:"max_conns"`
	AcquireCount    int64  `json:"acquire_count"`
	AcquireDuration string `json:"acquire_duration"`
}

func GetPoolStats(pool *pgxpool.Pool) *PoolStats {
	stat := pool.Stat()
	return &PoolStats{
		TotalConns:      stat.TotalConns(),
		IdleConns:       stat.IdleConns(),
		AcquiredConns:   stat.AcquiredConns(),
		MaxConns:        stat.MaxConns(),
		AcquireCount:    stat.AcquireCount(),
		AcquireDuration: stat.AcquireDuration().String(),
	}
}

// Health is the body of GET /health/db.
type Health struct {
	Status        string     `json:"status"`
	SchemaVersion int        `json:"schemaVersion"`
	Pool          *PoolStats `json:"pool,omitempty"`
}

const (
	HealthOK          = "healthy"
	HealthUnreachable = "unreachable"
	HealthUnmigrated  = "unmigrated"
)

type healthProbe interface {
	Ping(ctx context.Context) error
	SchemaVersion(ctx context.Context) (int, error)
	Stats() *PoolStats
}

type poolProbe struct {
	pool *pgxpool.Pool
}

func (p poolProbe) Ping(ctx context.Context) error { return p.pool.Ping(ctx) }

func (p poolProbe) Stats() *PoolStats { return GetPoolStats(p.pool) }

// SchemaVersion returns the highest applied migration, or 0 before the first
// `migrate up`.
func (p poolProbe) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	err := p.pool.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM _migrations`).Scan(&v)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
		return 0, nil
	}
	return v, err
}

// HealthHandler reports whether the database answers and has been migrated.
// Failures are logged; the response carries only the state.
func HealthHandler(pool *pgxpool.Pool, logger zerolog.Logger) echo.HandlerFunc {
	return healthHandler(poolProbe{pool: pool}, logger)
}

func healthHandler(p healthProbe, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		h := checkHealth(ctx, p, logger)
		status := http.StatusOK
		if h.Status != HealthOK {
			status = http.StatusServiceUnavailable
		}
		return c.JSON(status, h)
	}
}

func checkHealth(ctx context.Context, p healthProbe, logger zerolog.Logger) *Health {
	h := &Health{Pool: p.Stats()}
	if err := p.Ping(ctx); err != nil {
		logger.Error().Err(err).Msg("database health check failed")
		h.Status = HealthUnreachable
		return h
	}
	v, err := p.SchemaVersion(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("read schema version")
		h.Status = HealthUnreachable
		return h
	}
	h.SchemaVersion = v
	if v == 0 {
		logger.Warn().Msg("database has no applied migrations; run `frontdesk-server migrate up`")
		h.Status = HealthUnmigrated
		return h
	}
	h.Status = HealthOK
	return h
}
