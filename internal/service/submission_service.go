// Package service orchestrates the record store repositories behind the
// HTTP handlers: listing with filter + pagination, the dashboard
// aggregation, the two-step submission delete and attachment creation.
// Stores are consumed through small interfaces so the property tests
// can substitute an in-memory fake for the MySQL repositories.
package service

import (
	"context"
	"sync"

	"github.com/finbeam/guarantor-intake/internal/model"
	"github.com/finbeam/guarantor-intake/internal/query"
	"github.com/finbeam/guarantor-intake/internal/repository"
)

// SubmissionStore is the record-store surface the services need for
// guarantor submissions. *repository.SubmissionRepo implements it.
type SubmissionStore interface {
	List(ctx context.Context, p query.Predicate, spec query.PageSpec) ([]model.Submission, error)
	Count(ctx context.Context, p query.Predicate) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	Recent(ctx context.Context, limit int) ([]model.RecentSubmission, error)
	GetByID(ctx context.Context, id string) (*model.Submission, error)
	Create(ctx context.Context, s *model.Submission) error
	Update(ctx context.Context, id string, upd repository.SubmissionUpdate) (*model.Submission, error)
	Delete(ctx context.Context, id string) error
}

// AttachmentStore is the attachment surface consumed by the service.
// *repository.AttachmentRepo implements it.
type AttachmentStore interface {
	Create(ctx context.Context, a *model.Attachment) error
}

// ListResult is the pagination envelope returned by List: one page of
// data in store order plus the total size of the full matching set.
type ListResult struct {
	Data  []model.Submission
	Total int64
	Page  int
	Limit int
}

// SubmissionService is the single entry point for querying and
// mutating guarantor submissions.
type SubmissionService struct {
	store       SubmissionStore
	attachments AttachmentStore
}

// NewSubmissionService constructs the service with its stores.
func NewSubmissionService(store SubmissionStore, attachments AttachmentStore) *SubmissionService {
	if store == nil || attachments == nil {
		panic("nil store passed to NewSubmissionService")
	}
	return &SubmissionService{store: store, attachments: attachments}
}

// List builds the predicate once, resolves pagination, then issues the
// page fetch and the total count concurrently. Both operations use the
// identical predicate, so Total always reflects the full matching set
// regardless of the page requested. Sequential execution would produce
// the same result; the fan-out is purely a latency optimization. Store
// errors propagate unmodified, never retried.
func (s *SubmissionService) List(ctx context.Context, crit query.Criteria, page query.PageRequest) (ListResult, error) {
	pred := query.Build(crit)
	spec := query.Resolve(page)

	var (
		wg      sync.WaitGroup
		data    []model.Submission
		total   int64
		listErr error
		cntErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		data, listErr = s.store.List(ctx, pred, spec)
	}()
	go func() {
		defer wg.Done()
		total, cntErr = s.store.Count(ctx, pred)
	}()
	wg.Wait()

	if listErr != nil {
		return ListResult{}, listErr
	}
	if cntErr != nil {
		return ListResult{}, cntErr
	}
	return ListResult{Data: data, Total: total, Page: spec.Page, Limit: spec.Limit}, nil
}

// Get fetches one submission with attachments.
// repository.ErrSubmissionNotFound propagates on a miss.
func (s *SubmissionService) Get(ctx context.Context, id string) (*model.Submission, error) {
	return s.store.GetByID(ctx, id)
}

// Create stores a new submission owned by userID. The store assigns
// the id, default status and both timestamps.
func (s *SubmissionService) Create(ctx context.Context, sub *model.Submission, userID uint64) error {
	sub.SubmittedByID = userID
	return s.store.Create(ctx, sub)
}

// Update applies a partial update, bumping last_updated. A miss yields
// repository.ErrSubmissionNotFound.
func (s *SubmissionService) Update(ctx context.Context, id string, upd repository.SubmissionUpdate) (*model.Submission, error) {
	return s.store.Update(ctx, id, upd)
}

// Delete removes a submission and every attachment referencing it:
// attachments first, then the parent, so no orphan can survive the
// operation. Deleting a missing id yields ErrSubmissionNotFound and
// removes nothing.
func (s *SubmissionService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// CreateAttachment records attachment metadata against an existing
// submission. When the submission does not exist the not-found error
// propagates and no record is created.
func (s *SubmissionService) CreateAttachment(ctx context.Context, a *model.Attachment) error {
	if _, err := s.store.GetByID(ctx, a.SubmissionID); err != nil {
		return err
	}
	return s.attachments.Create(ctx, a)
}
