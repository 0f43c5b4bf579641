package repository

// SubmissionRepo carries the list / count / aggregation queries used by
// the listing and dashboard endpoints plus the keyed CRUD operations.
// Filtering is driven by a query.Predicate built in the pure query
// package; this file only translates it into SQL.

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finbeam/guarantor-intake/internal/model"
	"github.com/finbeam/guarantor-intake/internal/query"
)

// sortColumns is the allow-list mapping API sort field names to ORDER BY
// columns. Keys cover the camelCase names the API documents plus their
// snake_case spellings, since clients have historically sent both.
// Anything else yields ErrBadSortField; caller input is never
// interpolated into SQL.
var sortColumns = map[string]string{
	"submissionTimestamp":  "gs.submission_timestamp",
	"submission_timestamp": "gs.submission_timestamp",
	"lastUpdated":          "gs.last_updated",
	"last_updated":         "gs.last_updated",
	"guarantorName":        "gs.guarantor_name",
	"guarantor_name":       "gs.guarantor_name",
	"recordStatus":         "gs.record_status",
	"record_status":        "gs.record_status",
	"dateOfBirth":          "gs.date_of_birth",
	"date_of_birth":        "gs.date_of_birth",
	"occupation":           "gs.occupation",
}

// submissionCols is the column list shared by every submission SELECT.
const submissionCols = `gs.id, gs.guarantor_name, gs.relationship_to_borrower,
		gs.street_address, gs.city, gs.state, gs.zip, gs.date_of_birth,
		gs.occupation, gs.employer_or_business, gs.linkedin_profile,
		gs.company_registration_number, gs.known_associations, gs.comments,
		gs.submission_timestamp, gs.record_status, gs.last_updated,
		gs.submitted_by_id, u.name`

// SubmissionRepo manages persistence for guarantor submissions.
type SubmissionRepo struct {
	db *sql.DB
}

// NewSubmissionRepo constructs a SubmissionRepo with the given DB handle.
func NewSubmissionRepo(db *sql.DB) *SubmissionRepo {
	return &SubmissionRepo{db: db}
}

// whereFromPredicate translates a predicate into a WHERE condition and
// its arguments. All present conditions are AND-ed; the search term
// expands into a single OR group across the four searchable columns.
// The query always joins users as u, so submitter-name conditions can
// reference u.name directly.
func whereFromPredicate(p query.Predicate) (string, []any) {
	conds := []string{}
	args := []any{}

	if s, ok := p.Search(); ok {
		like := "%" + s + "%"
		conds = append(conds, `(LOWER(gs.guarantor_name) LIKE ?
			OR LOWER(gs.relationship_to_borrower) LIKE ?
			OR LOWER(gs.occupation) LIKE ?
			OR LOWER(gs.employer_or_business) LIKE ?)`)
		args = append(args, like, like, like, like)
	}
	if st, ok := p.Status(); ok {
		conds = append(conds, "gs.record_status = ?")
		args = append(args, st)
	}
	if sb, ok := p.SubmittedBy(); ok {
		conds = append(conds, "LOWER(u.name) LIKE ?")
		args = append(args, "%"+sb+"%")
	}

	if len(conds) == 0 {
		return "1=1", args
	}
	return strings.Join(conds, " AND "), args
}

// List returns one page of submissions matching the predicate, ordered
// per the page spec with gs.id as a deterministic tie-break, each with
// its attachments eagerly loaded. The result preserves database order.
func (r *SubmissionRepo) List(ctx context.Context, p query.Predicate, spec query.PageSpec) ([]model.Submission, error) {
	col, ok := sortColumns[spec.SortBy]
	if !ok {
		return nil, ErrBadSortField
	}
	dir := "DESC"
	if spec.SortType == "asc" {
		dir = "ASC"
	}
	cond, args := whereFromPredicate(p)

	q := `SELECT ` + submissionCols + `
		FROM guarantor_submissions gs
		JOIN users u ON u.id = gs.submitted_by_id
		WHERE ` + cond + `
		ORDER BY ` + col + ` ` + dir + `, gs.id ASC
		LIMIT ? OFFSET ?`
	args = append(args, spec.Limit, spec.Offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Submission, 0, spec.Limit)
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadAttachments(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of submissions matching the predicate,
// independent of any pagination.
func (r *SubmissionRepo) Count(ctx context.Context, p query.Predicate) (int64, error) {
	cond, args := whereFromPredicate(p)
	q := `SELECT COUNT(*)
		FROM guarantor_submissions gs
		JOIN users u ON u.id = gs.submitted_by_id
		WHERE ` + cond
	var total int64
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// CountByStatus counts submissions holding exactly the given status.
func (r *SubmissionRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM guarantor_submissions WHERE record_status = ?",
		status).Scan(&n)
	return n, err
}

// Recent returns the most recent submissions (newest first, id as
// tie-break) joined with the owner's display name only. It is the
// dashboard's "most recent N" query; attachments are not loaded.
func (r *SubmissionRepo) Recent(ctx context.Context, limit int) ([]model.RecentSubmission, error) {
	const q = `SELECT gs.id, gs.guarantor_name, gs.relationship_to_borrower,
			gs.record_status, gs.submission_timestamp, u.name
		FROM guarantor_submissions gs
		JOIN users u ON u.id = gs.submitted_by_id
		ORDER BY gs.submission_timestamp DESC, gs.id ASC
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.RecentSubmission, 0, limit)
	for rows.Next() {
		var (
			rs   model.RecentSubmission
			name sql.NullString
		)
		if err := rows.Scan(&rs.ID, &rs.GuarantorName, &rs.RelationshipToBorrower,
			&rs.RecordStatus, &rs.SubmissionTimestamp, &name); err != nil {
			return nil, err
		}
		rs.SubmittedBy = name.String
		out = append(out, rs)
	}
	return out, rows.Err()
}

// GetByID retrieves one submission with its attachments. It returns
// ErrSubmissionNotFound when no row matches.
func (r *SubmissionRepo) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	q := `SELECT ` + submissionCols + `
		FROM guarantor_submissions gs
		JOIN users u ON u.id = gs.submitted_by_id
		WHERE gs.id = ? LIMIT 1`
	row := r.db.QueryRowContext(ctx, q, id)
	s, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	page := []model.Submission{s}
	if err := r.loadAttachments(ctx, page); err != nil {
		return nil, err
	}
	return &page[0], nil
}

// Create inserts a new submission. The id is generated server side and
// assigned to the struct along with the DB default status and
// timestamps. submission_timestamp is written once and never touched
// again.
func (r *SubmissionRepo) Create(ctx context.Context, s *model.Submission) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	assoc, err := json.Marshal(s.KnownAssociations)
	if err != nil {
		return err
	}
	const q = `INSERT INTO guarantor_submissions
		(id, guarantor_name, relationship_to_borrower, street_address, city, state, zip,
		 date_of_birth, occupation, employer_or_business, linkedin_profile,
		 company_registration_number, known_associations, comments, submitted_by_id)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	_, err = r.db.ExecContext(ctx, q,
		s.ID, s.GuarantorName, s.RelationshipToBorrower,
		s.StreetAddress, s.City, s.State, s.Zip,
		s.DateOfBirth, s.Occupation, s.EmployerOrBusiness,
		nullable(s.LinkedinProfile), nullable(s.CompanyRegistrationNumber),
		string(assoc), s.Comments, s.SubmittedByID)
	if err != nil {
		return err
	}
	// Re-read the row to pick up DB defaults (record_status and both
	// timestamps) and the joined submitter name.
	fresh, err := r.GetByID(ctx, s.ID)
	if err != nil {
		return err
	}
	*s = *fresh
	return nil
}

// SubmissionUpdate carries the optional fields of a partial update.
// Nil pointers leave the column untouched. LinkedinProfile and
// CompanyRegistrationNumber may be set to the empty string, which is
// stored as NULL.
type SubmissionUpdate struct {
	GuarantorName             *string
	RelationshipToBorrower    *string
	StreetAddress             *string
	City                      *string
	State                     *string
	Zip                       *string
	DateOfBirth               *time.Time
	Occupation                *string
	EmployerOrBusiness        *string
	LinkedinProfile           *string
	CompanyRegistrationNumber *string
	KnownAssociations         *[]string
	Comments                  *string
	RecordStatus              *string
}

// Update applies a partial update and bumps last_updated. It returns
// ErrSubmissionNotFound when the id does not exist. Building the SET
// clause dynamically keeps untouched columns out of the statement
// entirely.
func (r *SubmissionRepo) Update(ctx context.Context, id string, upd SubmissionUpdate) (*model.Submission, error) {
	set := []string{"last_updated = UTC_TIMESTAMP()"}
	args := []any{}

	add := func(col string, v any) {
		set = append(set, col+" = ?")
		args = append(args, v)
	}
	if upd.GuarantorName != nil {
		add("guarantor_name", *upd.GuarantorName)
	}
	if upd.RelationshipToBorrower != nil {
		add("relationship_to_borrower", *upd.RelationshipToBorrower)
	}
	if upd.StreetAddress != nil {
		add("street_address", *upd.StreetAddress)
	}
	if upd.City != nil {
		add("city", *upd.City)
	}
	if upd.State != nil {
		add("state", *upd.State)
	}
	if upd.Zip != nil {
		add("zip", *upd.Zip)
	}
	if upd.DateOfBirth != nil {
		add("date_of_birth", *upd.DateOfBirth)
	}
	if upd.Occupation != nil {
		add("occupation", *upd.Occupation)
	}
	if upd.EmployerOrBusiness != nil {
		add("employer_or_business", *upd.EmployerOrBusiness)
	}
	if upd.LinkedinProfile != nil {
		add("linkedin_profile", nullable(*upd.LinkedinProfile))
	}
	if upd.CompanyRegistrationNumber != nil {
		add("company_registration_number", nullable(*upd.CompanyRegistrationNumber))
	}
	if upd.KnownAssociations != nil {
		assoc, err := json.Marshal(*upd.KnownAssociations)
		if err != nil {
			return nil, err
		}
		add("known_associations", string(assoc))
	}
	if upd.Comments != nil {
		add("comments", *upd.Comments)
	}
	if upd.RecordStatus != nil {
		add("record_status", *upd.RecordStatus)
	}

	q := "UPDATE guarantor_submissions SET " + strings.Join(set, ", ") + " WHERE id = ?"
	args = append(args, id)
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	// RowsAffected counts matched rows because the connection sets
	// clientFoundRows (see database.dsn); a no-op update on an existing
	// id therefore still reports 1 and only a truly missing id hits 0.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrSubmissionNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes a submission and its attachments in one transaction:
// attachments first, then the parent row, so an orphaned attachment can
// never persist. It returns ErrSubmissionNotFound when the id does not
// exist; in that case nothing is deleted.
func (r *SubmissionRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM attachments WHERE guarantor_submission_id = ?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		"DELETE FROM guarantor_submissions WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSubmissionNotFound
	}
	return tx.Commit()
}

// loadAttachments fills the Attachments slice of every submission in
// page with a single IN query, preserving upload order.
func (r *SubmissionRepo) loadAttachments(ctx context.Context, page []model.Submission) error {
	if len(page) == 0 {
		return nil
	}
	idx := make(map[string]int, len(page))
	ph := make([]string, 0, len(page))
	args := make([]any, 0, len(page))
	for i := range page {
		page[i].Attachments = []model.Attachment{}
		idx[page[i].ID] = i
		ph = append(ph, "?")
		args = append(args, page[i].ID)
	}
	q := `SELECT id, filename, file_type, file_size, url, uploaded_at, guarantor_submission_id
		FROM attachments
		WHERE guarantor_submission_id IN (` + strings.Join(ph, ",") + `)
		ORDER BY uploaded_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			a   model.Attachment
			url sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.Filename, &a.FileType, &a.FileSize,
			&url, &a.UploadedAt, &a.SubmissionID); err != nil {
			return err
		}
		a.URL = url.String
		if i, ok := idx[a.SubmissionID]; ok {
			page[i].Attachments = append(page[i].Attachments, a)
		}
	}
	return rows.Err()
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanSubmission reads one submissionCols row into a model.Submission.
func scanSubmission(rs rowScanner) (model.Submission, error) {
	var (
		s        model.Submission
		linkedin sql.NullString
		regNum   sql.NullString
		owner    sql.NullString
		assoc    []byte
	)
	err := rs.Scan(&s.ID, &s.GuarantorName, &s.RelationshipToBorrower,
		&s.StreetAddress, &s.City, &s.State, &s.Zip, &s.DateOfBirth,
		&s.Occupation, &s.EmployerOrBusiness, &linkedin, &regNum,
		&assoc, &s.Comments, &s.SubmissionTimestamp, &s.RecordStatus,
		&s.LastUpdated, &s.SubmittedByID, &owner)
	if err != nil {
		return model.Submission{}, err
	}
	s.LinkedinProfile = linkedin.String
	s.CompanyRegistrationNumber = regNum.String
	s.SubmittedByName = owner.String
	s.KnownAssociations = []string{}
	if len(assoc) > 0 {
		if err := json.Unmarshal(assoc, &s.KnownAssociations); err != nil {
			return model.Submission{}, err
		}
	}
	return s, nil
}

// nullable maps "" to NULL for optional text columns.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
