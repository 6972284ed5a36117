package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Its-SakshamR/Bus-Reservation/internal/repository"
)

// runInTx runs fn inside one transaction.  Any error from fn rolls the
// whole transaction back; nil commits it.  Transient store failures come
// back wrapped in ErrStoreUnavailable.
func runInTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrStoreUnavailable, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return storeErr(err)
	}
	// A failed commit leaves the outcome unknown to us; report it as
	// transient so the caller re-reads state before retrying.
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrStoreUnavailable, err)
	}
	committed = true
	return nil
}

// storeErr wraps transient failures in ErrStoreUnavailable and passes
// everything else through untouched.
func storeErr(err error) error {
	if err == nil || errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	if repository.IsUnavailable(err) {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return err
}
