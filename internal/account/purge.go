// Package account removes a user together with everything they own.
package account

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/garnizeh/jobboard/internal/jobs"
	"github.com/garnizeh/jobboard/internal/storage"
	"github.com/garnizeh/jobboard/pkg/repository"
)

// blobWorkers bounds concurrent object-store deletes during a purge.
const blobWorkers = 4

// Purger deletes an account in dependency order: bridge rows, blobs and
// file rows, applications, statuses, then the user row.
type Purger struct {
	accounts repository.AccountRepo
	files    repository.FileRepo
	store    storage.Store
	logger   *slog.Logger
}

func NewPurger(accounts repository.AccountRepo, files repository.FileRepo, store storage.Store, logger *slog.Logger) *Purger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Purger{accounts: accounts, files: files, store: store, logger: logger}
}

// Purge is idempotent: running it again for a removed user is a no-op.
// A blob that cannot be removed is logged and left behind; the purge
// carries on so the account never stays half-deleted in the database.
func (p *Purger) Purge(ctx context.Context, userID int64) error {
	files, err := p.files.ListFiles(ctx, userID)
	if err != nil {
		return fmt.Errorf("list files: %w", err)
	}

	if err := p.accounts.DeleteAllLinks(ctx, userID); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(blobWorkers)
	for _, f := range files {
		key, ok := storage.OwnedKey(p.store, userID, f.URL)
		if !ok {
			p.logger.Warn("file url does not map to an object key; blob skipped",
				slog.Int64("user_id", userID), slog.Int64("file_id", f.ID), slog.String("url", f.URL))
			continue
		}
		g.Go(func() error {
			if err := p.store.Remove(gctx, key); err != nil {
				p.logger.Error("remove blob", slog.String("key", key), slog.Any("err", err))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := p.accounts.DeleteAllFiles(ctx, userID); err != nil {
		return err
	}
	if err := p.accounts.DeleteAllApplications(ctx, userID); err != nil {
		return err
	}
	if err := p.accounts.DeleteAllStatuses(ctx, userID); err != nil {
		return err
	}
	if err := p.accounts.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("delete user %d: %w", userID, err)
	}

	p.logger.Info("account purged", slog.Int64("user_id", userID), slog.Int("files", len(files)))
	return nil
}

// Handler adapts Purge to the job queue.
func (p *Purger) Handler() jobs.Handler {
	return func(ctx context.Context, j *jobs.Job) error {
		var payload jobs.AccountPurgePayload
		if err := json.Unmarshal(j.Payload, &payload); err != nil {
			return fmt.Errorf("decode purge payload: %w", err)
		}
		if payload.UserID <= 0 {
			return fmt.Errorf("purge payload has no user id")
		}
		return p.Purge(ctx, payload.UserID)
	}
}
