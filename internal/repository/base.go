// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"bazaar/internal/models"
)

// opTimeout bounds every store operation so callers surface TIMEOUT instead of
// hanging on store-level I/O.
var opTimeout = 5 * time.Second

// SetOpTimeout configures the per-operation store deadline. Called once at bootstrap.
func SetOpTimeout(d time.Duration) {
	if d > 0 {
		opTimeout = d
	}
}

// storeCtx derives the per-operation context. Caller cancellation propagates
// through the parent, so abandoned queries release their resources.
func storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, opTimeout)
}

// translate maps store-level failures onto the application error taxonomy.
// Record-not-found passes through untouched; services decide what absence means.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return models.NewTimeoutError(err)
	}
	return err
}

// isUniqueViolation matches duplicate-key failures across postgres and sqlite.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}
