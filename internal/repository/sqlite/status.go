package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/garnizeh/jobboard/pkg/models"
	"github.com/garnizeh/jobboard/pkg/repository"
)

// MaxStatusTitle bounds the length of a column title, in runes.
const MaxStatusTitle = 50

// DefaultStatuses are created for every new user, in board order.
var DefaultStatuses = []string{"Wishlist", "Applied", "Interview", "Offer", "Rejected"}

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", repository.Invalid("name", "is required")
	}
	if utf8.RuneCountInString(title) > MaxStatusTitle {
		return "", repository.Invalid("name", "must be at most %d characters", MaxStatusTitle)
	}
	return title, nil
}

func scanStatus(row scanner) (*models.Status, error) {
	var s models.Status
	if err := row.Scan(&s.ID, &s.UserID, &s.Title, &s.Order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *SQLiteRepo) ListStatuses(ctx context.Context, userID int64) ([]models.Status, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, user_id, title, sort_order FROM statuses WHERE user_id = ? ORDER BY sort_order, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Status{}
	for rows.Next() {
		s, err := scanStatus(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) GetStatus(ctx context.Context, id, userID int64) (*models.Status, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, user_id, title, sort_order FROM statuses WHERE id = ? AND user_id = ?`, id, userID)
	return scanStatus(row)
}

// GetStatusByTitle returns the first column (in board order) with title.
func (r *SQLiteRepo) GetStatusByTitle(ctx context.Context, title string, userID int64) (*models.Status, error) {
	return statusByTitle(ctx, r.conn.GetConn(), title, userID)
}

func statusByTitle(ctx context.Context, q querier, title string, userID int64) (*models.Status, error) {
	row := q.QueryRowContext(ctx, `SELECT id, user_id, title, sort_order FROM statuses WHERE title = ? AND user_id = ? ORDER BY sort_order, id LIMIT 1`, strings.TrimSpace(title), userID)
	return scanStatus(row)
}

// CreateStatus appends a column after the user's current last one. Ranks are
// never renumbered on delete, so gaps are expected.
func (r *SQLiteRepo) CreateStatus(ctx context.Context, userID int64, title string) (*models.Status, error) {
	title, err := normalizeTitle(title)
	if err != nil {
		return nil, err
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO statuses (user_id, title, sort_order, created) VALUES (?, ?, (SELECT COALESCE(MAX(sort_order), 0) + 1 FROM statuses WHERE user_id = ?), ?)`, userID, title, userID, now())
	if err != nil {
		return nil, fmt.Errorf("insert status: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return r.GetStatus(ctx, id, userID)
}

func (r *SQLiteRepo) CreateDefaultStatuses(ctx context.Context, userID int64) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		ts := now()
		for i, title := range DefaultStatuses {
			if _, err := tx.ExecContext(ctx, `INSERT INTO statuses (user_id, title, sort_order, created) VALUES (?, ?, ?, ?)`, userID, title, i+1, ts); err != nil {
				return fmt.Errorf("insert default status %q: %w", title, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepo) RenameStatus(ctx context.Context, id, userID int64, title string) (*models.Status, error) {
	title, err := normalizeTitle(title)
	if err != nil {
		return nil, err
	}

	res, err := r.conn.Exec(ctx, `UPDATE statuses SET title = ? WHERE id = ? AND user_id = ?`, title, id, userID)
	if err != nil {
		return nil, fmt.Errorf("rename status: %w", err)
	}
	if err := affectedOrNotFound(res); err != nil {
		return nil, err
	}

	return r.GetStatus(ctx, id, userID)
}

// DeleteStatus removes an empty column. Applications are never reassigned
// here: a column that still holds any returns ErrConflict.
func (r *SQLiteRepo) DeleteStatus(ctx context.Context, id, userID int64) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := scanStatus(tx.QueryRowContext(ctx, `SELECT id, user_id, title, sort_order FROM statuses WHERE id = ? AND user_id = ?`, id, userID)); err != nil {
			return err
		}

		var cards int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM applications WHERE status_id = ? AND user_id = ?`, id, userID).Scan(&cards); err != nil {
			return fmt.Errorf("count applications: %w", err)
		}
		if cards > 0 {
			return repository.ConflictError(fmt.Sprintf("status still holds %d application(s); move them before deleting it", cards))
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM statuses WHERE id = ? AND user_id = ?`, id, userID)
		if err != nil {
			return fmt.Errorf("delete status: %w", err)
		}
		return affectedOrNotFound(res)
	})
}

// ReorderStatuses stores a complete ordering of the user's columns. order
// must be a permutation of the user's status ids: unknown or foreign ids are
// ErrNotFound, duplicates or missing ids are a validation error.
func (r *SQLiteRepo) ReorderStatuses(ctx context.Context, userID int64, order []int64) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT id FROM statuses WHERE user_id = ?`, userID)
		if err != nil {
			return fmt.Errorf("list status ids: %w", err)
		}
		owned := make(map[int64]bool)
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return err
			}
			owned[id] = true
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		seen := make(map[int64]bool, len(order))
		for _, id := range order {
			if !owned[id] {
				return repository.ErrNotFound
			}
			if seen[id] {
				return repository.Invalid("order", "status %d listed more than once", id)
			}
			seen[id] = true
		}
		if len(seen) != len(owned) {
			return repository.Invalid("order", "must list all %d statuses, got %d", len(owned), len(seen))
		}

		for i, id := range order {
			if _, err := tx.ExecContext(ctx, `UPDATE statuses SET sort_order = ? WHERE id = ? AND user_id = ?`, i+1, id, userID); err != nil {
				return fmt.Errorf("update status order: %w", err)
			}
		}
		return nil
	})
}
