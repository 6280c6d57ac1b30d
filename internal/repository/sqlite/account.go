package sqlite

import (
	"context"
	"fmt"
)

// The Delete*All methods back account removal. They are separate statements
// so the caller controls the order: links, files, applications, statuses,
// then the user row.

func (r *SQLiteRepo) DeleteAllLinks(ctx context.Context, userID int64) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM file_applications WHERE file_id IN (SELECT id FROM files WHERE user_id = ?) OR application_id IN (SELECT id FROM applications WHERE user_id = ?)`, userID, userID)
	if err != nil {
		return fmt.Errorf("delete links of user %d: %w", userID, err)
	}
	return nil
}

func (r *SQLiteRepo) DeleteAllFiles(ctx context.Context, userID int64) error {
	if _, err := r.conn.Exec(ctx, `DELETE FROM files WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete files of user %d: %w", userID, err)
	}
	return nil
}

func (r *SQLiteRepo) DeleteAllApplications(ctx context.Context, userID int64) error {
	if _, err := r.conn.Exec(ctx, `DELETE FROM applications WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete applications of user %d: %w", userID, err)
	}
	return nil
}

func (r *SQLiteRepo) DeleteAllStatuses(ctx context.Context, userID int64) error {
	if _, err := r.conn.Exec(ctx, `DELETE FROM statuses WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete statuses of user %d: %w", userID, err)
	}
	return nil
}
