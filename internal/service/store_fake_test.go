package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/finbeam/guarantor-intake/internal/model"
	"github.com/finbeam/guarantor-intake/internal/query"
	"github.com/finbeam/guarantor-intake/internal/repository"
)

// fakeStore is an in-memory SubmissionStore/AttachmentStore used by the
// service tests. Filtering is delegated to Predicate.Matches so the
// fake and the MySQL repository share one source of truth for filter
// semantics; sorting and pagination mirror the repository's ORDER BY
// with the id tie-break.
type fakeStore struct {
	mu   sync.Mutex
	subs []model.Submission          // in insertion order
	atts map[string][]model.Attachment // keyed by submission id
	seq  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{atts: map[string][]model.Attachment{}}
}

var _ SubmissionStore = (*fakeStore)(nil)

// fakeAttachmentStore adapts fakeStore to the AttachmentStore interface
// (fakeStore.Create is already taken by the submission side).
type fakeAttachmentStore struct{ s *fakeStore }

var _ AttachmentStore = fakeAttachmentStore{}

func (f fakeAttachmentStore) Create(_ context.Context, a *model.Attachment) error {
	f.s.CreateAttachment(a)
	return nil
}

func (f *fakeStore) matching(p query.Predicate) []model.Submission {
	out := []model.Submission{}
	for _, s := range f.subs {
		if p.Matches(s.GuarantorName, s.RelationshipToBorrower, s.Occupation,
			s.EmployerOrBusiness, s.RecordStatus, s.SubmittedByName) {
			out = append(out, s)
		}
	}
	return out
}

func (f *fakeStore) List(_ context.Context, p query.Predicate, spec query.PageSpec) ([]model.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rows := f.matching(p)
	var key func(s model.Submission) string
	switch spec.SortBy {
	case "submissionTimestamp", "submission_timestamp":
		key = func(s model.Submission) string { return s.SubmissionTimestamp.Format(time.RFC3339Nano) }
	case "lastUpdated", "last_updated":
		key = func(s model.Submission) string { return s.LastUpdated.Format(time.RFC3339Nano) }
	case "guarantorName", "guarantor_name":
		key = func(s model.Submission) string { return s.GuarantorName }
	default:
		return nil, repository.ErrBadSortField
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := key(rows[i]), key(rows[j])
		if a == b {
			return rows[i].ID < rows[j].ID // deterministic tie-break
		}
		if spec.SortType == "asc" {
			return a < b
		}
		return a > b
	})

	if spec.Offset >= len(rows) {
		return []model.Submission{}, nil
	}
	end := spec.Offset + spec.Limit
	if end > len(rows) {
		end = len(rows)
	}
	page := make([]model.Submission, end-spec.Offset)
	copy(page, rows[spec.Offset:end])
	for i := range page {
		page[i].Attachments = append([]model.Attachment{}, f.atts[page[i].ID]...)
	}
	return page, nil
}

func (f *fakeStore) Count(_ context.Context, p query.Predicate) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.matching(p))), nil
}

func (f *fakeStore) CountByStatus(_ context.Context, status string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, s := range f.subs {
		if s.RecordStatus == status {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) Recent(_ context.Context, limit int) ([]model.RecentSubmission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := append([]model.Submission{}, f.subs...)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].SubmissionTimestamp.Equal(rows[j].SubmissionTimestamp) {
			return rows[i].ID < rows[j].ID
		}
		return rows[i].SubmissionTimestamp.After(rows[j].SubmissionTimestamp)
	})
	if limit > len(rows) {
		limit = len(rows)
	}
	out := make([]model.RecentSubmission, 0, limit)
	for _, s := range rows[:limit] {
		out = append(out, model.RecentSubmission{
			ID:                     s.ID,
			GuarantorName:          s.GuarantorName,
			RelationshipToBorrower: s.RelationshipToBorrower,
			RecordStatus:           s.RecordStatus,
			SubmissionTimestamp:    s.SubmissionTimestamp,
			SubmittedBy:            s.SubmittedByName,
		})
	}
	return out, nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*model.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.subs {
		if s.ID == id {
			cp := s
			cp.Attachments = append([]model.Attachment{}, f.atts[id]...)
			return &cp, nil
		}
	}
	return nil, repository.ErrSubmissionNotFound
}

func (f *fakeStore) Create(_ context.Context, s *model.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	if s.ID == "" {
		s.ID = fmt.Sprintf("sub-%04d", f.seq)
	}
	if s.RecordStatus == "" {
		s.RecordStatus = model.StatusPendingVerification
	}
	if s.SubmissionTimestamp.IsZero() {
		s.SubmissionTimestamp = time.Now().UTC()
	}
	if s.LastUpdated.IsZero() {
		s.LastUpdated = s.SubmissionTimestamp
	}
	f.subs = append(f.subs, *s)
	return nil
}

func (f *fakeStore) Update(_ context.Context, id string, upd repository.SubmissionUpdate) (*model.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.subs {
		if f.subs[i].ID != id {
			continue
		}
		s := &f.subs[i]
		if upd.GuarantorName != nil {
			s.GuarantorName = *upd.GuarantorName
		}
		if upd.Comments != nil {
			s.Comments = *upd.Comments
		}
		if upd.RecordStatus != nil {
			s.RecordStatus = *upd.RecordStatus
		}
		s.LastUpdated = time.Now().UTC()
		cp := *s
		return &cp, nil
	}
	return nil, repository.ErrSubmissionNotFound
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.subs {
		if f.subs[i].ID == id {
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			delete(f.atts, id)
			return nil
		}
	}
	return repository.ErrSubmissionNotFound
}

// Create (AttachmentStore side) records attachment metadata.
func (f *fakeStore) CreateAttachment(a *model.Attachment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.atts[a.SubmissionID] = append(f.atts[a.SubmissionID], *a)
}

func (f *fakeStore) attachmentCount(submissionID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.atts[submissionID])
}
