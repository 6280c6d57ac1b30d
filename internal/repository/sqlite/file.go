package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/garnizeh/jobboard/pkg/models"
	"github.com/garnizeh/jobboard/pkg/repository"
)

const fileSelect = `SELECT f.id, f.user_id, f.type_id, f.url, f.name, f.extension, f.description, f.created, COALESCE(GROUP_CONCAT(fa.application_id), '')
FROM files f LEFT JOIN file_applications fa ON fa.file_id = f.id`

func scanFile(row scanner) (*models.File, error) {
	var f models.File
	var ids string
	if err := row.Scan(&f.ID, &f.UserID, &f.TypeID, &f.URL, &f.Name, &f.Extension, &f.Description, &f.Created, &ids); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	f.ApplicationIDs = []int64{}
	for _, s := range strings.Split(ids, ",") {
		if s == "" {
			continue
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse linked application id %q: %w", s, err)
		}
		f.ApplicationIDs = append(f.ApplicationIDs, id)
	}
	slices.Sort(f.ApplicationIDs)

	return &f, nil
}

func (r *SQLiteRepo) ListFileTypes(ctx context.Context) ([]models.FileType, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, code, name FROM file_types ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.FileType{}
	for rows.Next() {
		var t models.FileType
		if err := rows.Scan(&t.ID, &t.Code, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) GetFileType(ctx context.Context, id int64) (*models.FileType, error) {
	var t models.FileType
	if err := r.conn.QueryRow(ctx, `SELECT id, code, name FROM file_types WHERE id = ?`, id).Scan(&t.ID, &t.Code, &t.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListFiles returns every file of the user with its linked application ids
// aggregated from the bridge table.
func (r *SQLiteRepo) ListFiles(ctx context.Context, userID int64) ([]models.File, error) {
	rows, err := r.conn.QueryRows(ctx, fileSelect+` WHERE f.user_id = ? GROUP BY f.id ORDER BY f.created DESC, f.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.File{}
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) GetFile(ctx context.Context, id, userID int64) (*models.File, error) {
	return getFile(ctx, r.conn.GetConn(), id, userID)
}

func getFile(ctx context.Context, q querier, id, userID int64) (*models.File, error) {
	return scanFile(q.QueryRowContext(ctx, fileSelect+` WHERE f.id = ? AND f.user_id = ? GROUP BY f.id`, id, userID))
}

func dedupeIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// applicationsOwned fails with ErrNotFound unless every id is an application
// of userID.
func applicationsOwned(ctx context.Context, q querier, userID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	for _, id := range ids {
		if id <= 0 {
			return repository.Invalid("applicationIds", "invalid id %d", id)
		}
	}
	args := make([]any, 0, len(ids)+1)
	args = append(args, userID)
	for _, id := range ids {
		args = append(args, id)
	}

	var n int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(1) FROM applications WHERE user_id = ? AND id IN (`+placeholders(len(ids))+`)`, args...).Scan(&n); err != nil {
		return fmt.Errorf("check application ownership: %w", err)
	}
	if n != len(ids) {
		return repository.ErrNotFound
	}
	return nil
}

// insertLinks writes the bridge rows. The insert itself is scoped to the
// user's applications, so a foreign id can never be linked.
func insertLinks(ctx context.Context, q querier, userID int64, links []models.FileApplicationLink) error {
	for _, l := range links {
		if _, err := q.ExecContext(ctx, `INSERT OR IGNORE INTO file_applications (file_id, application_id) SELECT ?, id FROM applications WHERE id = ? AND user_id = ?`, l.FileID, l.ApplicationID, userID); err != nil {
			return fmt.Errorf("insert link %d-%d: %w", l.FileID, l.ApplicationID, err)
		}
	}
	return nil
}

func validateFile(f *models.File) error {
	f.Name = strings.TrimSpace(f.Name)
	f.URL = strings.TrimSpace(f.URL)
	if f.Name == "" {
		return repository.Invalid("name", "is required")
	}
	if f.URL == "" {
		return repository.Invalid("url", "is required")
	}
	if f.TypeID <= 0 {
		return repository.Invalid("typeId", "is required")
	}
	return nil
}

// CreateFile stores the metadata row and then the bridge rows. These are two
// separate writes: a failure between them leaves a file with no links, which
// the caller can repair with ReplaceLinks.
func (r *SQLiteRepo) CreateFile(ctx context.Context, f *models.File) (*models.File, error) {
	if f == nil {
		return nil, fmt.Errorf("file is nil")
	}
	if err := validateFile(f); err != nil {
		return nil, err
	}
	if _, err := r.GetFileType(ctx, f.TypeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.Invalid("typeId", "unknown file type %d", f.TypeID)
		}
		return nil, err
	}
	ids := dedupeIDs(f.ApplicationIDs)
	conn := r.conn.GetConn()
	if err := applicationsOwned(ctx, conn, f.UserID, ids); err != nil {
		return nil, err
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO files (user_id, type_id, url, name, extension, description, created) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.UserID, f.TypeID, f.URL, f.Name, f.Extension, f.Description, now())
	if err != nil {
		return nil, fmt.Errorf("insert file: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	if err := insertLinks(ctx, conn, f.UserID, models.File{ID: id, ApplicationIDs: ids}.Links()); err != nil {
		r.logger.Error("file stored without links", "file_id", id, "err", err)
		return nil, err
	}

	return r.GetFile(ctx, id, f.UserID)
}

// UpdateFile coalesces metadata fields and, when p.ApplicationIDs is set,
// replaces the file's whole link set.
func (r *SQLiteRepo) UpdateFile(ctx context.Context, id, userID int64, p *models.FilePatch) (*models.File, error) {
	if p == nil {
		p = &models.FilePatch{}
	}
	cur, err := r.GetFile(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return nil, repository.Invalid("name", "must not be empty")
	}
	if p.TypeID != nil {
		if _, err := r.GetFileType(ctx, *p.TypeID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, repository.Invalid("typeId", "unknown file type %d", *p.TypeID)
			}
			return nil, err
		}
	}

	if _, err := r.conn.Exec(ctx, `UPDATE files SET type_id = ?, name = ?, description = ? WHERE id = ? AND user_id = ?`,
		coalesce(p.TypeID, cur.TypeID), strings.TrimSpace(coalesce(p.Name, cur.Name)), coalesce(p.Description, cur.Description), id, userID); err != nil {
		return nil, fmt.Errorf("update file: %w", err)
	}

	if p.ApplicationIDs != nil {
		if err := r.ReplaceLinks(ctx, id, userID, *p.ApplicationIDs); err != nil {
			return nil, err
		}
	}

	return r.GetFile(ctx, id, userID)
}

// ReplaceLinks is a full replace, never a diff: all bridge rows of the file
// are deleted and ids inserted. Concurrent callers race; the last commit wins.
func (r *SQLiteRepo) ReplaceLinks(ctx context.Context, fileID, userID int64, ids []int64) error {
	ids = dedupeIDs(ids)
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getFile(ctx, tx, fileID, userID); err != nil {
			return err
		}
		if err := applicationsOwned(ctx, tx, userID, ids); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM file_applications WHERE file_id = ?`, fileID); err != nil {
			return fmt.Errorf("delete links: %w", err)
		}
		return insertLinks(ctx, tx, userID, models.File{ID: fileID, ApplicationIDs: ids}.Links())
	})
}

func (r *SQLiteRepo) DeleteLinks(ctx context.Context, fileID, userID int64) error {
	if _, err := r.conn.Exec(ctx, `DELETE FROM file_applications WHERE file_id IN (SELECT id FROM files WHERE id = ? AND user_id = ?)`, fileID, userID); err != nil {
		return fmt.Errorf("delete links: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) DeleteFile(ctx context.Context, id, userID int64) error {
	res, err := r.conn.Exec(ctx, `DELETE FROM files WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return affectedOrNotFound(res)
}
