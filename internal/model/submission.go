package model

import "time"

// Record status values for a guarantor submission.  New submissions
// default to StatusPendingVerification; the status is mutable and is
// stored verbatim, so rows written by older versions of the service
// may carry values outside this set.
const (
    StatusPendingVerification = "pending_verification"
    StatusVerified            = "verified"
    StatusRejected            = "rejected"
)

// Submission represents a guarantor background-information record as
// stored in the `guarantor_submissions` table.  The ID is a server
// generated UUID and is never reused.  SubmissionTimestamp is set once
// at creation; LastUpdated is refreshed by every mutation, so
// LastUpdated >= SubmissionTimestamp always holds.
//
// Fields:
//  ID                        – primary key (char(36) UUID).
//  GuarantorName             – full name of the guarantor.
//  RelationshipToBorrower    – free text relationship description.
//  StreetAddress/City/State/Zip – postal address, four flat columns.
//  DateOfBirth               – calendar date (DATE column, UTC midnight).
//  Occupation                – guarantor occupation.
//  EmployerOrBusiness        – employer or business name.
//  LinkedinProfile           – optional profile URL ("" when NULL).
//  CompanyRegistrationNumber – optional registration id ("" when NULL).
//  KnownAssociations         – ordered list of free-text strings (JSON column).
//  Comments                  – free text comments.
//  SubmissionTimestamp       – creation time, immutable.
//  RecordStatus              – see status constants above.
//  LastUpdated               – bumped on every mutation.
//  SubmittedByID             – owning user, immutable once created.
//  SubmittedByName           – owner display name joined from users.name.
//  Attachments               – eagerly loaded child attachments.
type Submission struct {
    ID                        string       // guarantor_submissions.id
    GuarantorName             string       // guarantor_submissions.guarantor_name
    RelationshipToBorrower    string       // guarantor_submissions.relationship_to_borrower
    StreetAddress             string       // guarantor_submissions.street_address
    City                      string       // guarantor_submissions.city
    State                     string       // guarantor_submissions.state
    Zip                       string       // guarantor_submissions.zip
    DateOfBirth               time.Time    // guarantor_submissions.date_of_birth
    Occupation                string       // guarantor_submissions.occupation
    EmployerOrBusiness        string       // guarantor_submissions.employer_or_business
    LinkedinProfile           string       // guarantor_submissions.linkedin_profile (nullable)
    CompanyRegistrationNumber string       // guarantor_submissions.company_registration_number (nullable)
    KnownAssociations         []string     // guarantor_submissions.known_associations (JSON)
    Comments                  string       // guarantor_submissions.comments
    SubmissionTimestamp       time.Time    // guarantor_submissions.submission_timestamp
    RecordStatus              string       // guarantor_submissions.record_status
    LastUpdated               time.Time    // guarantor_submissions.last_updated
    SubmittedByID             uint64       // guarantor_submissions.submitted_by_id
    SubmittedByName           string       // users.name (joined)
    Attachments               []Attachment // child rows from attachments
}

// RecentSubmission is the trimmed projection used by the dashboard:
// it joins only the owner's display name, not the full user record or
// the attachment list.
type RecentSubmission struct {
    ID                     string    // guarantor_submissions.id
    GuarantorName          string    // guarantor_submissions.guarantor_name
    RelationshipToBorrower string    // guarantor_submissions.relationship_to_borrower
    RecordStatus           string    // guarantor_submissions.record_status
    SubmissionTimestamp    time.Time // guarantor_submissions.submission_timestamp
    SubmittedBy            string    // users.name (joined)
}
