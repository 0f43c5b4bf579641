package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/finbeam/guarantor-intake/internal/model"
)

// AttachmentRepo manages persistence for attachment metadata rows.
// Attachments are create/delete only; bulk deletion happens inside the
// submission delete transaction (see SubmissionRepo.Delete), so this
// repo only covers the single-row operations.
type AttachmentRepo struct {
	db *sql.DB
}

// NewAttachmentRepo constructs an AttachmentRepo with the given DB handle.
func NewAttachmentRepo(db *sql.DB) *AttachmentRepo {
	return &AttachmentRepo{db: db}
}

// Create inserts an attachment metadata record. The parent submission
// must already exist; the service layer verifies that before calling
// here, and the foreign key is the backstop. The generated id and the
// DB upload timestamp are assigned back to the struct.
func (r *AttachmentRepo) Create(ctx context.Context, a *model.Attachment) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	const q = `INSERT INTO attachments (id, filename, file_type, file_size, url, guarantor_submission_id)
		VALUES (?,?,?,?,?,?)`
	_, err := r.db.ExecContext(ctx, q,
		a.ID, a.Filename, a.FileType, a.FileSize, nullable(a.URL), a.SubmissionID)
	if err != nil {
		return err
	}
	const sel = `SELECT uploaded_at FROM attachments WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, a.ID).Scan(&a.UploadedAt)
}

// GetByID fetches one attachment, returning ErrAttachmentNotFound when
// no row matches.
func (r *AttachmentRepo) GetByID(ctx context.Context, id string) (*model.Attachment, error) {
	const q = `SELECT id, filename, file_type, file_size, url, uploaded_at, guarantor_submission_id
		FROM attachments WHERE id = ? LIMIT 1`
	var (
		a   model.Attachment
		url sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.Filename, &a.FileType,
		&a.FileSize, &url, &a.UploadedAt, &a.SubmissionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAttachmentNotFound
		}
		return nil, err
	}
	a.URL = url.String
	return &a, nil
}

// Delete removes a single attachment row. ErrAttachmentNotFound is
// returned when the id does not exist.
func (r *AttachmentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM attachments WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAttachmentNotFound
	}
	return nil
}
