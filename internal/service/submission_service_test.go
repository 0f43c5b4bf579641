package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/finbeam/guarantor-intake/internal/model"
	"github.com/finbeam/guarantor-intake/internal/query"
	"github.com/finbeam/guarantor-intake/internal/repository"
)

func newTestService(t *testing.T) (*SubmissionService, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	return NewSubmissionService(store, fakeAttachmentStore{store}), store
}

// seed inserts a submission with a deterministic timestamp offset so
// ordering assertions are stable.
func seed(t *testing.T, store *fakeStore, name, status, submitter string, offset time.Duration) model.Submission {
	t.Helper()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := model.Submission{
		GuarantorName:       name,
		RecordStatus:        status,
		SubmittedByName:     submitter,
		SubmissionTimestamp: base.Add(offset),
	}
	if err := store.Create(context.Background(), &s); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return s
}

// Total must reflect the full matching set regardless of the page
// requested, and equal the size of an unpaginated fetch.
func TestListTotalIndependentOfPage(t *testing.T) {
	svc, store := newTestService(t)
	for i := 0; i < 25; i++ {
		seed(t, store, fmt.Sprintf("Guarantor %02d", i), model.StatusVerified, "alice", time.Duration(i)*time.Minute)
	}

	res, err := svc.List(context.Background(), query.Criteria{}, query.PageRequest{Page: 2, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Data) != 10 || res.Total != 25 || res.Page != 2 || res.Limit != 10 {
		t.Fatalf("unexpected envelope: len=%d total=%d page=%d limit=%d",
			len(res.Data), res.Total, res.Page, res.Limit)
	}
	if res.Total < int64(len(res.Data)) {
		t.Fatalf("total %d < page size %d", res.Total, len(res.Data))
	}

	all, err := svc.List(context.Background(), query.Criteria{}, query.PageRequest{Page: 1, Limit: 100})
	if err != nil {
		t.Fatal(err)
	}
	if int64(len(all.Data)) != res.Total {
		t.Fatalf("unpaginated fetch returned %d rows, total says %d", len(all.Data), res.Total)
	}
}

// Concatenating all pages reconstructs exactly the full matching set
// with no duplicate ids.
func TestListPagesReconstructSet(t *testing.T) {
	svc, store := newTestService(t)
	want := map[string]bool{}
	for i := 0; i < 23; i++ {
		s := seed(t, store, fmt.Sprintf("G%02d", i), model.StatusPendingVerification, "bob", time.Duration(i)*time.Second)
		want[s.ID] = true
	}

	got := map[string]bool{}
	limit := 5
	for page := 1; ; page++ {
		res, err := svc.List(context.Background(), query.Criteria{}, query.PageRequest{Page: page, Limit: limit})
		if err != nil {
			t.Fatal(err)
		}
		for _, s := range res.Data {
			if got[s.ID] {
				t.Fatalf("duplicate id %s on page %d", s.ID, page)
			}
			got[s.ID] = true
		}
		if int64(page*limit) >= res.Total {
			break
		}
	}
	if len(got) != len(want) {
		t.Fatalf("reconstructed %d ids, want %d", len(got), len(want))
	}
	for id := range want {
		if !got[id] {
			t.Fatalf("id %s missing from concatenated pages", id)
		}
	}
}

// search and status compose as an intersection.
func TestListFilterComposition(t *testing.T) {
	svc, store := newTestService(t)
	match := seed(t, store, "John Smith", model.StatusVerified, "alice", 0)
	seed(t, store, "Sarah Johnson", model.StatusVerified, "alice", time.Minute)
	seed(t, store, "John Smith", model.StatusRejected, "alice", 2*time.Minute)

	res, err := svc.List(context.Background(),
		query.Criteria{Search: "smith", Status: model.StatusVerified},
		query.PageRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Data) != 1 || res.Total != 1 {
		t.Fatalf("want exactly 1 match, got %d (total %d)", len(res.Data), res.Total)
	}
	if res.Data[0].ID != match.ID {
		t.Fatalf("matched wrong submission: %s", res.Data[0].ID)
	}
}

// An empty search string behaves like an omitted search.
func TestListEmptySearchReturnsAll(t *testing.T) {
	svc, store := newTestService(t)
	for i := 0; i < 3; i++ {
		seed(t, store, fmt.Sprintf("G%d", i), model.StatusVerified, "carol", time.Duration(i)*time.Minute)
	}
	res, err := svc.List(context.Background(), query.Criteria{Search: ""}, query.PageRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 3 || len(res.Data) != 3 {
		t.Fatalf("empty search filtered rows out: total=%d len=%d", res.Total, len(res.Data))
	}
}

// Ascending sort returns t1<t2<t3 in that order; descending reverses it.
func TestListSortStability(t *testing.T) {
	svc, store := newTestService(t)
	s1 := seed(t, store, "First", model.StatusVerified, "dora", 0)
	s2 := seed(t, store, "Second", model.StatusVerified, "dora", time.Hour)
	s3 := seed(t, store, "Third", model.StatusVerified, "dora", 2*time.Hour)

	asc, err := svc.List(context.Background(), query.Criteria{},
		query.PageRequest{SortBy: "submissionTimestamp", SortType: "asc"})
	if err != nil {
		t.Fatal(err)
	}
	if asc.Data[0].ID != s1.ID || asc.Data[1].ID != s2.ID || asc.Data[2].ID != s3.ID {
		t.Fatalf("asc order wrong: %s %s %s", asc.Data[0].ID, asc.Data[1].ID, asc.Data[2].ID)
	}

	desc, err := svc.List(context.Background(), query.Criteria{},
		query.PageRequest{SortBy: "submissionTimestamp", SortType: "desc"})
	if err != nil {
		t.Fatal(err)
	}
	if desc.Data[0].ID != s3.ID || desc.Data[2].ID != s1.ID {
		t.Fatalf("desc order wrong: %s %s %s", desc.Data[0].ID, desc.Data[1].ID, desc.Data[2].ID)
	}
}

// Unknown sort fields fail at the store, not in the pagination layer.
func TestListUnknownSortFieldFailsAtStore(t *testing.T) {
	svc, store := newTestService(t)
	seed(t, store, "G", model.StatusVerified, "eve", 0)
	_, err := svc.List(context.Background(), query.Criteria{}, query.PageRequest{SortBy: "noSuchField"})
	if !errors.Is(err, repository.ErrBadSortField) {
		t.Fatalf("want ErrBadSortField, got %v", err)
	}
}

// Deleting a submission removes every attachment referencing it;
// deleting a missing id is a distinct not-found and removes nothing.
func TestDeleteRemovesAttachments(t *testing.T) {
	svc, store := newTestService(t)
	sub := seed(t, store, "With Files", model.StatusPendingVerification, "frank", 0)
	for i := 0; i < 2; i++ {
		a := model.Attachment{
			Filename:     fmt.Sprintf("doc-%d.pdf", i),
			FileType:     "application/pdf",
			FileSize:     1024,
			SubmissionID: sub.ID,
		}
		if err := svc.CreateAttachment(context.Background(), &a); err != nil {
			t.Fatalf("create attachment: %v", err)
		}
	}
	if n := store.attachmentCount(sub.ID); n != 2 {
		t.Fatalf("want 2 attachments before delete, got %d", n)
	}

	if err := svc.Delete(context.Background(), sub.ID); err != nil {
		t.Fatal(err)
	}
	if n := store.attachmentCount(sub.ID); n != 0 {
		t.Fatalf("orphaned attachments left behind: %d", n)
	}
	if err := svc.Delete(context.Background(), sub.ID); !errors.Is(err, repository.ErrSubmissionNotFound) {
		t.Fatalf("second delete should be not-found, got %v", err)
	}
}

// Creating an attachment against a nonexistent submission fails with
// the not-found sentinel and records nothing.
func TestCreateAttachmentRequiresSubmission(t *testing.T) {
	svc, store := newTestService(t)
	a := model.Attachment{Filename: "doc.pdf", FileType: "application/pdf", FileSize: 10, SubmissionID: "missing"}
	err := svc.CreateAttachment(context.Background(), &a)
	if !errors.Is(err, repository.ErrSubmissionNotFound) {
		t.Fatalf("want ErrSubmissionNotFound, got %v", err)
	}
	if n := store.attachmentCount("missing"); n != 0 {
		t.Fatalf("attachment was recorded despite missing parent: %d", n)
	}
}

// Updates bump last_updated so the invariant
// lastUpdated >= submissionTimestamp holds after every mutation.
func TestUpdateBumpsLastUpdated(t *testing.T) {
	svc, store := newTestService(t)
	sub := seed(t, store, "Before", model.StatusPendingVerification, "gina", 0)

	name := "After"
	got, err := svc.Update(context.Background(), sub.ID, repository.SubmissionUpdate{GuarantorName: &name})
	if err != nil {
		t.Fatal(err)
	}
	if got.GuarantorName != "After" {
		t.Fatalf("update not applied: %q", got.GuarantorName)
	}
	if got.LastUpdated.Before(got.SubmissionTimestamp) {
		t.Fatalf("lastUpdated %v precedes submissionTimestamp %v", got.LastUpdated, got.SubmissionTimestamp)
	}
	if !got.SubmissionTimestamp.Equal(sub.SubmissionTimestamp) {
		t.Fatal("submissionTimestamp must be immutable")
	}
}
