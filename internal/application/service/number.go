package service

import (
	"context"
	"fmt"
	"time"
)

// nextDocumentNumber produces the next {PREFIX}/{YYYY}/{MM}/{NNNN} document
// number by counting documents created since the start of the current month.
// Concurrent creates can race to the same number; the unique constraint on
// the number column is the backstop, surfaced to callers as a conflict.
func nextDocumentNumber(ctx context.Context, prefix string, now time.Time, countSince func(context.Context, time.Time) (int64, error)) (string, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	count, err := countSince(ctx, monthStart)
	if err != nil {
		return "", fmt.Errorf("failed to count documents for numbering: %w", err)
	}
	return fmt.Sprintf("%s/%d/%02d/%04d", prefix, now.Year(), int(now.Month()), count+1), nil
}
