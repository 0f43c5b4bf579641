// Package query builds the filter predicates and pagination specs used
// by the submission listing and dashboard endpoints. Everything in this
// package is pure: no I/O, no state, so each composition branch can be
// tested in isolation.
package query

import "strings"

// Criteria carries the optional list filters exactly as received from
// the API layer. Every field is independently optional; empty or
// whitespace-only values are treated as absent, never as "match
// nothing".
type Criteria struct {
	Search      string // free text across name/relationship/occupation/employer
	Status      string // exact record_status value, unvalidated
	SubmittedBy string // substring of the owning user's display name
}

// Predicate is the normalized, immutable filter handed to the record
// store. Both the MySQL repository and the in-memory test store derive
// their matching from the same value, so the two can never disagree on
// semantics. The zero Predicate matches every submission.
type Predicate struct {
	search      string // lower-cased search term, "" when absent
	status      string // exact status, "" when absent
	submittedBy string // lower-cased submitter substring, "" when absent
}

// Build normalizes Criteria into a Predicate. Present conditions are
// later AND-ed together by the store; the search condition itself
// expands to an OR across four submission fields. Status is passed
// through without validation: an unrecognized value simply matches no
// rows, which is a documented design choice rather than an error.
func Build(c Criteria) Predicate {
	return Predicate{
		search:      strings.ToLower(strings.TrimSpace(c.Search)),
		status:      strings.TrimSpace(c.Status),
		submittedBy: strings.ToLower(strings.TrimSpace(c.SubmittedBy)),
	}
}

// Search returns the lower-cased search term and whether it is present.
func (p Predicate) Search() (string, bool) { return p.search, p.search != "" }

// Status returns the exact-match status constraint and whether it is present.
func (p Predicate) Status() (string, bool) { return p.status, p.status != "" }

// SubmittedBy returns the lower-cased submitter-name substring and
// whether it is present.
func (p Predicate) SubmittedBy() (string, bool) { return p.submittedBy, p.submittedBy != "" }

// IsEmpty reports whether the predicate carries no constraint at all.
func (p Predicate) IsEmpty() bool {
	return p.search == "" && p.status == "" && p.submittedBy == ""
}

// Matches is the reference evaluation of the predicate against a single
// submission. The searchable fields mirror the SQL the repository
// generates: guarantor name, relationship to borrower, occupation and
// employer/business, each tested with case-insensitive containment.
// submitterName is the owning user's display name.
func (p Predicate) Matches(guarantorName, relationship, occupation, employer, status, submitterName string) bool {
	if p.search != "" {
		hit := containsFold(guarantorName, p.search) ||
			containsFold(relationship, p.search) ||
			containsFold(occupation, p.search) ||
			containsFold(employer, p.search)
		if !hit {
			return false
		}
	}
	if p.status != "" && status != p.status {
		return false
	}
	if p.submittedBy != "" && !containsFold(submitterName, p.submittedBy) {
		return false
	}
	return true
}

// containsFold reports whether needle (already lower-cased) occurs in
// haystack, ignoring case.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
