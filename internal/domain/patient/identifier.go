package patient

import (
	"context"
	"fmt"
)

// CounterName is the id_counter row that numbers patients.
const CounterName = "patient"

// FormatPatientID renders the display identifier: PAT- followed by n
// zero-padded to five digits. Numbers past 99999 keep all their digits.
func FormatPatientID(n int64) string {
	return fmt.Sprintf("PAT-%05d", n)
}

// Sequence reserves numbers from a named monotonic counter. *db.Counter
// implements it.
type Sequence interface {
	Next(ctx context.Context, name string) (int64, error)
}

// Allocator hands out patient identifiers. Each call reserves a fresh
// number, so two callers never receive the same identifier while the
// reservation is held, and numbers are not reused after deletes.
type Allocator struct {
	seq Sequence
}

func NewAllocator(seq Sequence) *Allocator {
	return &Allocator{seq: seq}
}

// Next reserves the next identifier. Call it inside the transaction that
// inserts the patient so a failed insert releases the number.
func (a *Allocator) Next(ctx context.Context) (string, error) {
	n, err := a.seq.Next(ctx, CounterName)
	if err != nil {
		return "", fmt.Errorf("allocate patient id: %w", err)
	}
	if n < 1 {
		return "", fmt.Errorf("allocate patient id: counter returned %d", n)
	}
	return FormatPatientID(n), nil
}
