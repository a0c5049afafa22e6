package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshitsaini01/incentum-main-sub000/apperrors"
	"github.com/harshitsaini01/incentum-main-sub000/models"
)

func floatPtr(f float64) *float64 { return &f }

func TestValidateTransition(t *testing.T) {
	t.Run("legal forward moves", func(t *testing.T) {
		for _, tc := range [][2]string{
			{models.StatusDraft, models.StatusSubmitted},
			{models.StatusSubmitted, models.StatusUnderReview},
			{models.StatusUnderReview, models.StatusApproved},
			{models.StatusUnderReview, models.StatusRejected},
			{models.StatusApproved, models.StatusDisbursed},
			{models.StatusDisbursed, models.StatusClosed},
		} {
			assert.NoError(t, ValidateTransition(tc[0], tc[1]), "%s -> %s", tc[0], tc[1])
		}
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		err := ValidateTransition(models.StatusSubmitted, "escalated")
		require.Error(t, err)
		assert.Equal(t, apperrors.KindInvalidTransition, apperrors.KindOf(err))
	})

	t.Run("rejects backward and terminal moves", func(t *testing.T) {
		assert.Error(t, ValidateTransition(models.StatusApproved, models.StatusDraft))
		assert.Error(t, ValidateTransition(models.StatusClosed, models.StatusSubmitted))
		assert.Error(t, ValidateTransition(models.StatusRejected, models.StatusApproved))
	})
}

func TestValidateSubmit(t *testing.T) {
	base := func() *models.LoanApplication {
		return &models.LoanApplication{
			UserID: primitive.NewObjectID(),
			Status: models.StatusDraft,
			PersonalDetails: models.PersonalDetails{
				FullName: "Asha Verma",
			},
		}
	}

	t.Run("valid draft submits", func(t *testing.T) {
		assert.NoError(t, ValidateSubmit(base()))
	})

	t.Run("non-draft fails with InvalidTransition", func(t *testing.T) {
		app := base()
		app.Status = models.StatusSubmitted
		err := ValidateSubmit(app)
		require.Error(t, err)
		assert.Equal(t, apperrors.KindInvalidTransition, apperrors.KindOf(err))
	})

	t.Run("missing full name fails with ValidationFailed", func(t *testing.T) {
		app := base()
		app.PersonalDetails.FullName = "  "
		err := ValidateSubmit(app)
		require.Error(t, err)
		assert.Equal(t, apperrors.KindValidationFailed, apperrors.KindOf(err))
	})
}

func TestBuildSubmitUpdate(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	app := &models.LoanApplication{
		UserID: primitive.NewObjectID(),
		Status: models.StatusDraft,
		PersonalDetails: models.PersonalDetails{
			FullName: "Asha Verma",
		},
	}

	update, err := BuildSubmitUpdate(app, now)
	require.NoError(t, err)

	set := update["$set"].(bson.M)
	assert.Equal(t, models.StatusSubmitted, set["status"])
	assert.Equal(t, now, set["submittedAt"])

	entry := update["$push"].(bson.M)["statusHistory"].(models.StatusEntry)
	assert.Equal(t, models.StatusSubmitted, entry.Status)
	assert.Equal(t, app.UserID.Hex(), entry.UpdatedBy)
}

func TestBuildSubmitUpdate_DoesNotRestampSubmittedAt(t *testing.T) {
	earlier := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	app := &models.LoanApplication{
		Status:          models.StatusDraft,
		PersonalDetails: models.PersonalDetails{FullName: "Asha Verma"},
		SubmittedAt:     &earlier,
	}

	update, err := BuildSubmitUpdate(app, time.Now())
	require.NoError(t, err)

	set := update["$set"].(bson.M)
	_, restamped := set["submittedAt"]
	assert.False(t, restamped)
}

func TestBuildUpdate_Approval(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	t.Run("amount above requested is rejected with no update", func(t *testing.T) {
		update, err := BuildUpdate(Change{
			Current:         models.StatusUnderReview,
			Next:            models.StatusApproved,
			Actor:           "admin-1",
			ApprovedAmount:  floatPtr(600000),
			RequestedAmount: 500000,
		}, now, "lastModifiedAt")

		require.Error(t, err)
		assert.Nil(t, update)
		assert.Equal(t, apperrors.KindValidationFailed, apperrors.KindOf(err))
	})

	t.Run("negative amount is rejected", func(t *testing.T) {
		_, err := BuildUpdate(Change{
			Current:         models.StatusUnderReview,
			Next:            models.StatusApproved,
			ApprovedAmount:  floatPtr(-1),
			RequestedAmount: 500000,
		}, now, "lastModifiedAt")

		require.Error(t, err)
		assert.Equal(t, apperrors.KindValidationFailed, apperrors.KindOf(err))
	})

	t.Run("amount on a non-approval transition is rejected", func(t *testing.T) {
		_, err := BuildUpdate(Change{
			Current:        models.StatusUnderReview,
			Next:           models.StatusRejected,
			ApprovedAmount: floatPtr(100),
		}, now, "lastModifiedAt")

		require.Error(t, err)
	})

	t.Run("in-bounds approval sets amount and appends one history entry", func(t *testing.T) {
		update, err := BuildUpdate(Change{
			Current:         models.StatusUnderReview,
			Next:            models.StatusApproved,
			Actor:           "admin-1",
			Remarks:         "verified income documents",
			ApprovedAmount:  floatPtr(450000),
			RequestedAmount: 500000,
		}, now, "lastModifiedAt")

		require.NoError(t, err)
		set := update["$set"].(bson.M)
		assert.Equal(t, models.StatusApproved, set["status"])
		assert.Equal(t, 450000.0, set["approvedAmount"])
		assert.Equal(t, now, set["lastModifiedAt"])

		entry := update["$push"].(bson.M)["statusHistory"].(models.StatusEntry)
		assert.Equal(t, models.StatusApproved, entry.Status)
		assert.Equal(t, "admin-1", entry.UpdatedBy)
		assert.Equal(t, "verified income documents", entry.Remarks)
	})

	t.Run("legacy timestamp field is honored", func(t *testing.T) {
		update, err := BuildUpdate(Change{
			Current: models.StatusSubmitted,
			Next:    models.StatusUnderReview,
			Actor:   "admin-1",
		}, now, "updatedAt")

		require.NoError(t, err)
		set := update["$set"].(bson.M)
		assert.Equal(t, now, set["updatedAt"])
		_, hasCanonical := set["lastModifiedAt"]
		assert.False(t, hasCanonical)
	})
}

func TestExpandStatusFilter(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{models.StatusSubmitted, models.StatusUnderReview},
		ExpandStatusFilter("pending"))
	assert.Equal(t, []string{models.StatusApproved}, ExpandStatusFilter("approved"))
}

func TestValidateUpload(t *testing.T) {
	assert.NoError(t, ValidateUpload(models.StatusDraft))

	for _, status := range []string{
		models.StatusSubmitted,
		models.StatusUnderReview,
		models.StatusApproved,
		models.StatusClosed,
	} {
		err := ValidateUpload(status)
		require.Error(t, err, "status %s", status)
		assert.Equal(t, apperrors.KindInvalidTransition, apperrors.KindOf(err))
	}
}

func TestValidateDelete(t *testing.T) {
	assert.NoError(t, ValidateDelete(models.StatusDraft))

	err := ValidateDelete(models.StatusSubmitted)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidTransition, apperrors.KindOf(err))
}
