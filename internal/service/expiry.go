package service

import (
	"time"

	"github.com/iliyamo/library-portal/internal/model"
)

// ProjectCurrentExpiry derives a borrowing record's effective due date
// from its approval history: the new expiry date of the approved request
// with the latest review date, or the expected return date when nothing
// has been approved.  The lifecycle re-runs this inside every approving
// transaction and persists the result, so the stored value is never
// allowed to drift from its inputs.
func ProjectCurrentExpiry(expectedReturn time.Time, approved []model.ExtensionRequest) time.Time {
	current := expectedReturn
	var latest *time.Time
	for _, req := range approved {
		if req.Status != model.RequestApproved || req.NewExpiryDate == nil || req.ReviewDate == nil {
			continue
		}
		if latest == nil || req.ReviewDate.After(*latest) {
			latest = req.ReviewDate
			current = *req.NewExpiryDate
		}
	}
	return current
}
