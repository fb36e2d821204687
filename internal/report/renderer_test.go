package report_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/library-portal/internal/report"
	"github.com/iliyamo/library-portal/internal/repository"
)

func Test_RenderBorrowing(t *testing.T) {
	expiry := time.Date(2026, 3, 26, 0, 0, 0, 0, time.UTC)
	rec := repository.BorrowingDetail{
		ID:                 7,
		Sequence:           "BR00007",
		BookTitle:          "The Go Programming Language",
		BookAuthor:         "Donovan & Kernighan",
		Status:             "borrowed",
		BorrowDate:         time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		ExpectedReturnDate: time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		CurrentExpiryDate:  &expiry,
		ExtensionCount:     1,
	}
	reqs := []repository.ExtensionDetail{{
		Name:                "EXT00042",
		RequestDate:         time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		OriginalExpiryDate:  time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		RequestedExpiryDate: expiry,
		ExtensionDays:       14,
		Status:              "approved",
	}}

	body, err := report.RenderBorrowing(rec, reqs)
	require.NoError(t, err)

	html := string(body)
	assert.Contains(t, html, "BR00007")
	assert.Contains(t, html, "The Go Programming Language")
	assert.Contains(t, html, "2026-03-26")
	assert.Contains(t, html, "EXT00042")
}

func Test_RenderExtension(t *testing.T) {
	reviewer := "Ada Stacks"
	reviewed := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	det := repository.ExtensionDetail{
		Name:                "EXT00042",
		BorrowingSequence:   "BR00007",
		MemberName:          "Jamie Reader",
		BookTitle:           "The Go Programming Language",
		RequestDate:         time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		OriginalExpiryDate:  time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		RequestedExpiryDate: time.Date(2026, 3, 26, 0, 0, 0, 0, time.UTC),
		ExtensionDays:       14,
		Status:              "rejected",
		ReviewerName:        &reviewer,
		ReviewDate:          &reviewed,
		RejectionReason:     "stock shortage",
	}

	body, err := report.RenderExtension(det)
	require.NoError(t, err)

	html := string(body)
	assert.Contains(t, html, "EXT00042")
	assert.Contains(t, html, "Jamie Reader")
	assert.Contains(t, html, "Ada Stacks")
	assert.Contains(t, html, "stock shortage")
}
