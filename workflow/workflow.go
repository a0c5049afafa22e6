// Package workflow validates application status transitions and builds the
// atomic update documents that apply them.
package workflow

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/harshitsaini01/incentum-main-sub000/apperrors"
	"github.com/harshitsaini01/incentum-main-sub000/models"
)

// transitions lists the legal next statuses for each current status.
var transitions = map[string][]string{
	models.StatusDraft:       {models.StatusSubmitted},
	models.StatusSubmitted:   {models.StatusUnderReview, models.StatusApproved, models.StatusRejected},
	models.StatusUnderReview: {models.StatusApproved, models.StatusRejected},
	models.StatusApproved:    {models.StatusDisbursed, models.StatusClosed},
	models.StatusRejected:    {models.StatusClosed},
	models.StatusDisbursed:   {models.StatusClosed},
	models.StatusClosed:      {},
}

// ValidStatus reports whether s is a member of the status enum.
func ValidStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

// ExpandStatusFilter translates a status query value into the stored statuses
// it matches. "pending" is a legacy alias for an unsettled application.
func ExpandStatusFilter(s string) []string {
	if strings.EqualFold(s, "pending") {
		return []string{models.StatusSubmitted, models.StatusUnderReview}
	}
	return []string{s}
}

// ValidateTransition rejects statuses outside the enum and moves the state
// diagram does not allow.
func ValidateTransition(current, next string) error {
	if !ValidStatus(next) {
		return apperrors.InvalidTransition("invalid status %q", next)
	}
	for _, allowed := range transitions[current] {
		if allowed == next {
			return nil
		}
	}
	return apperrors.InvalidTransition("cannot move application from %q to %q", current, next)
}

// ValidateSubmit enforces the one mandatory-field check in the lifecycle:
// only drafts may be submitted, and the primary applicant needs a name.
func ValidateSubmit(app *models.LoanApplication) error {
	if app.Status != models.StatusDraft {
		return apperrors.InvalidTransition("only draft applications can be submitted, current status is %q", app.Status)
	}
	if strings.TrimSpace(app.PersonalDetails.FullName) == "" {
		return apperrors.ValidationFailed("applicant full name is required before submission")
	}
	return nil
}

// ValidateUpload permits user document uploads only while the application is
// a draft. After submission the record belongs to the review workflow;
// comments are the one thing users may still add.
func ValidateUpload(status string) error {
	if status != models.StatusDraft {
		return apperrors.InvalidTransition("documents can only be uploaded while the application is a draft, current status is %q", status)
	}
	return nil
}

// ValidateDelete permits deletion only while the application is a draft.
func ValidateDelete(status string) error {
	if status != models.StatusDraft {
		return apperrors.InvalidTransition("only draft applications can be deleted, current status is %q", status)
	}
	return nil
}

// ValidateApprovedAmount enforces 0 <= approved <= requested.
func ValidateApprovedAmount(approved, requested float64) error {
	if approved < 0 {
		return apperrors.ValidationFailed("approved amount cannot be negative")
	}
	if approved > requested {
		return apperrors.ValidationFailed("approved amount %.2f exceeds requested amount %.2f", approved, requested)
	}
	return nil
}

// Change describes one requested status transition.
type Change struct {
	Current         string
	Next            string
	Actor           string
	Remarks         string
	ApprovedAmount  *float64
	RequestedAmount float64
}

// BuildUpdate validates the change and returns the single update document
// that applies it: status, timestamp, optional approvedAmount, and exactly
// one statusHistory entry, all in one atomic write. tsField names the
// record's modification-timestamp field ("lastModifiedAt" canonical,
// "updatedAt" legacy).
func BuildUpdate(c Change, now time.Time, tsField string) (bson.M, error) {
	if err := ValidateTransition(c.Current, c.Next); err != nil {
		return nil, err
	}

	set := bson.M{
		"status": c.Next,
		tsField:  now,
	}

	if c.ApprovedAmount != nil {
		if c.Next != models.StatusApproved {
			return nil, apperrors.ValidationFailed("approved amount can only be set when approving")
		}
		if err := ValidateApprovedAmount(*c.ApprovedAmount, c.RequestedAmount); err != nil {
			return nil, err
		}
		set["approvedAmount"] = *c.ApprovedAmount
	}

	entry := models.StatusEntry{
		Status:    c.Next,
		UpdatedAt: now,
		UpdatedBy: c.Actor,
		Remarks:   c.Remarks,
	}

	return bson.M{
		"$set":  set,
		"$push": bson.M{"statusHistory": entry},
	}, nil
}

// BuildSubmitUpdate validates submission and returns the update that moves a
// draft to submitted, stamping submittedAt once.
func BuildSubmitUpdate(app *models.LoanApplication, now time.Time) (bson.M, error) {
	if err := ValidateSubmit(app); err != nil {
		return nil, err
	}

	set := bson.M{
		"status":         models.StatusSubmitted,
		"lastModifiedAt": now,
	}
	if app.SubmittedAt == nil {
		set["submittedAt"] = now
	}

	entry := models.StatusEntry{
		Status:    models.StatusSubmitted,
		UpdatedAt: now,
		UpdatedBy: app.UserID.Hex(),
	}

	return bson.M{
		"$set":  set,
		"$push": bson.M{"statusHistory": entry},
	}, nil
}

// BuildCommentPush appends one comment; comments never mutate status.
func BuildCommentPush(message, addedBy string, isInternal bool, now time.Time, tsField string) bson.M {
	return bson.M{
		"$set": bson.M{tsField: now},
		"$push": bson.M{"comments": models.Comment{
			Message:    message,
			AddedBy:    addedBy,
			AddedAt:    now,
			IsInternal: isInternal,
		}},
	}
}
