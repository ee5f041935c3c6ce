package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrUnknownCounter is returned when no id_counter row exists for a name.
var ErrUnknownCounter = errors.New("unknown counter")

// Counter hands out monotonically increasing numbers from the id_counter
// table. The UPDATE takes a row lock, so concurrent callers serialize on the
// row and never observe the same value. A reservation made inside a rolled
// back transaction is released with it.
type Counter struct {
	pool *pgxpool.Pool
}

func NewCounter(pool *pgxpool.Pool) *Counter {
	return &Counter{pool: pool}
}

// Next reserves and returns the next value of the named counter.
func (c *Counter) Next(ctx context.Context, name string) (int64, error) {
	var v int64
	err := Conn(ctx, c.pool).QueryRow(ctx,
		`UPDATE id_counter SET value = value + 1 WHERE name = $1 RETURNING value`, name,
	).Scan(&v)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: %s", ErrUnknownCounter, name)
		}
		return 0, fmt.Errorf("reserve %s counter: %w", name, err)
	}
	return v, nil
}

// Current returns the last value handed out without reserving a new one.
func (c *Counter) Current(ctx context.Context, name string) (int64, error) {
	var v int64
	err := Conn(ctx, c.pool).QueryRow(ctx,
		`SELECT value FROM id_counter WHERE name = $1`, name,
	).Scan(&v)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: %s", ErrUnknownCounter, name)
		}
		return 0, fmt.Errorf("read %s counter: %w", name, err)
	}
	return v, nil
}
