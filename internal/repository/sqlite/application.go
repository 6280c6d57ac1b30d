package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/garnizeh/jobboard/pkg/models"
	"github.com/garnizeh/jobboard/pkg/repository"
)

const applicationColumns = `id, user_id, status_id, company, position, deadline, date_applied, location, url, notes, salary, color, company_logo, favourite, created, updated`

func scanApplication(row scanner) (*models.Application, error) {
	var a models.Application
	if err := row.Scan(&a.ID, &a.UserID, &a.StageID, &a.Company, &a.Position, &a.Deadline, &a.DateApplied,
		&a.Location, &a.URL, &a.Notes, &a.Salary, &a.Color, &a.CompanyLogo, &a.Favourite, &a.Created, &a.Updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *SQLiteRepo) ListApplications(ctx context.Context, userID int64) ([]models.Application, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+applicationColumns+` FROM applications WHERE user_id = ? ORDER BY created, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) GetApplication(ctx context.Context, id, userID int64) (*models.Application, error) {
	return getApplication(ctx, r.conn.GetConn(), id, userID)
}

func getApplication(ctx context.Context, q querier, id, userID int64) (*models.Application, error) {
	row := q.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = ? AND user_id = ?`, id, userID)
	return scanApplication(row)
}

func statusOwned(ctx context.Context, q querier, statusID, userID int64) (*models.Status, error) {
	return scanStatus(q.QueryRowContext(ctx, `SELECT id, user_id, title, sort_order FROM statuses WHERE id = ? AND user_id = ?`, statusID, userID))
}

func (r *SQLiteRepo) CreateApplication(ctx context.Context, a *models.Application) (*models.Application, error) {
	if a == nil {
		return nil, fmt.Errorf("application is nil")
	}
	a.Company = strings.TrimSpace(a.Company)
	a.Position = strings.TrimSpace(a.Position)
	if a.Company == "" {
		return nil, repository.Invalid("company", "is required")
	}
	if a.Position == "" {
		return nil, repository.Invalid("position", "is required")
	}
	if a.StageID <= 0 {
		return nil, repository.Invalid("status", "is required")
	}

	var created *models.Application
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := statusOwned(ctx, tx, a.StageID, a.UserID); err != nil {
			return err
		}

		ts := now()
		res, err := tx.ExecContext(ctx, `INSERT INTO applications (user_id, status_id, company, position, deadline, date_applied, location, url, notes, salary, color, company_logo, favourite, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.UserID, a.StageID, a.Company, a.Position, a.Deadline, a.DateApplied, a.Location, a.URL, a.Notes, a.Salary, a.Color, a.CompanyLogo, a.Favourite, ts, ts)
		if err != nil {
			return fmt.Errorf("insert application: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}

		created, err = getApplication(ctx, tx, id, a.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func coalesce[T any](v *T, existing T) T {
	if v != nil {
		return *v
	}
	return existing
}

// UpdateApplication applies a partial update: every nil field keeps the
// stored value. The target column is resolved from StageID when present and
// from StageName otherwise; when both are sent and disagree, StageID wins.
func (r *SQLiteRepo) UpdateApplication(ctx context.Context, id, userID int64, p *models.ApplicationPatch) (*models.Application, error) {
	if p == nil {
		p = &models.ApplicationPatch{}
	}
	if p.Company != nil && strings.TrimSpace(*p.Company) == "" {
		return nil, repository.Invalid("company", "must not be empty")
	}
	if p.Position != nil && strings.TrimSpace(*p.Position) == "" {
		return nil, repository.Invalid("position", "must not be empty")
	}

	var updated *models.Application
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		cur, err := getApplication(ctx, tx, id, userID)
		if err != nil {
			return err
		}

		stageID := cur.StageID
		switch {
		case p.StageID != nil:
			st, err := statusOwned(ctx, tx, *p.StageID, userID)
			if err != nil {
				return err
			}
			if p.StageName != nil && strings.TrimSpace(*p.StageName) != st.Title {
				r.logger.Warn("stage name does not match stage id; using id",
					"application_id", id, "stage_id", st.ID, "stage_title", st.Title, "stage_name", *p.StageName)
			}
			stageID = st.ID
		case p.StageName != nil:
			st, err := statusByTitle(ctx, tx, *p.StageName, userID)
			if err != nil {
				return err
			}
			stageID = st.ID
		}

		_, err = tx.ExecContext(ctx, `UPDATE applications SET status_id = ?, company = ?, position = ?, deadline = ?, date_applied = ?, location = ?, url = ?, notes = ?, salary = ?, color = ?, company_logo = ?, favourite = ?, updated = ? WHERE id = ? AND user_id = ?`,
			stageID,
			strings.TrimSpace(coalesce(p.Company, cur.Company)),
			strings.TrimSpace(coalesce(p.Position, cur.Position)),
			coalesce(p.Deadline, cur.Deadline),
			coalesce(p.DateApplied, cur.DateApplied),
			coalesce(p.Location, cur.Location),
			coalesce(p.URL, cur.URL),
			coalesce(p.Notes, cur.Notes),
			coalesce(p.Salary, cur.Salary),
			coalesce(p.Color, cur.Color),
			coalesce(p.CompanyLogo, cur.CompanyLogo),
			coalesce(p.Favourite, cur.Favourite),
			now(), id, userID)
		if err != nil {
			return fmt.Errorf("update application: %w", err)
		}

		updated, err = getApplication(ctx, tx, id, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *SQLiteRepo) ToggleFavourite(ctx context.Context, id, userID int64) (*models.Application, error) {
	res, err := r.conn.Exec(ctx, `UPDATE applications SET favourite = 1 - favourite, updated = ? WHERE id = ? AND user_id = ?`, now(), id, userID)
	if err != nil {
		return nil, fmt.Errorf("toggle favourite: %w", err)
	}
	if err := affectedOrNotFound(res); err != nil {
		return nil, err
	}

	return r.GetApplication(ctx, id, userID)
}

// DeleteApplication removes the application together with the bridge rows
// that link files to it; the files themselves are kept.
func (r *SQLiteRepo) DeleteApplication(ctx context.Context, id, userID int64) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getApplication(ctx, tx, id, userID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM file_applications WHERE application_id = ?`, id); err != nil {
			return fmt.Errorf("delete application links: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM applications WHERE id = ? AND user_id = ?`, id, userID)
		if err != nil {
			return fmt.Errorf("delete application: %w", err)
		}
		return affectedOrNotFound(res)
	})
}
