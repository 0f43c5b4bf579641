package model

import "time"

// Attachment is a file-attachment metadata row from the `attachments`
// table.  An attachment always references an existing submission and is
// create/delete only; there is no update path.  The storage URL may be
// NULL while the upload pipeline is mocked.
type Attachment struct {
    ID           string    // attachments.id (char(36) UUID)
    Filename     string    // attachments.filename
    FileType     string    // attachments.file_type (declared MIME type)
    FileSize     int64     // attachments.file_size in bytes (positive)
    URL          string    // attachments.url ("" when NULL)
    UploadedAt   time.Time // attachments.uploaded_at
    SubmissionID string    // attachments.guarantor_submission_id
}
