// Package repository implements the record store over MySQL. This file
// defines sentinel error values reused across repositories so that the
// service and handler layers can distinguish failure scenarios without
// string matching: not-found conditions map to HTTP 404, conflicts to
// 409 and everything else to a 5xx.
package repository

import "errors"

// ErrSubmissionNotFound is returned by keyed submission lookups,
// updates and deletes when no row matches the given id.
var ErrSubmissionNotFound = errors.New("guarantor submission not found")

// ErrAttachmentNotFound is returned when an attachment lookup finds no
// matching row.
var ErrAttachmentNotFound = errors.New("attachment not found")

// ErrUserNotFound is returned by keyed user lookups.
var ErrUserNotFound = errors.New("user not found")

// ErrBadSortField is returned when a list query names a sort field that
// is not in the allow-list. The pagination layer deliberately performs
// no validation, so the unknown name travels all the way here and the
// failure surfaces as a store-level error.
var ErrBadSortField = errors.New("unknown sort field")
