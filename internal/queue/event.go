package queue

// SubmissionReceivedEvent is published when a guarantor submission is
// successfully created. It carries enough context for downstream
// consumers to log or notify without querying the primary database.
type SubmissionReceivedEvent struct {
	SubmissionID  string `json:"submission_id"`
	GuarantorName string `json:"guarantor_name"`
	RecordStatus  string `json:"record_status"`
	SubmittedByID uint64 `json:"submitted_by_id"`
	SubmittedBy   string `json:"submitted_by"`
	ReceivedAt    string `json:"received_at"` // RFC3339
}
