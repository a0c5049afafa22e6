package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshitsaini01/incentum-main-sub000/models"
	"github.com/harshitsaini01/incentum-main-sub000/workflow"
)

func canonicalFixture() models.LoanApplication {
	return models.LoanApplication{
		ID:            primitive.NewObjectID(),
		ApplicationID: "2608280001",
		UserID:        primitive.NewObjectID(),
		LoanType:      models.LoanTypeHome,
		Status:        models.StatusSubmitted,
		PersonalDetails: models.PersonalDetails{
			FullName: "Asha Verma",
			City:     "Pune",
		},
		LoanSpecificDetails: models.LoanSpecificDetails{
			LoanAmountRequired: 500000,
		},
		Documents: []models.Document{
			{DocumentID: "doc-1", DocumentType: "pan_card", FileName: "pan.pdf", FilePath: "2608280001/pan.pdf"},
		},
		CoApplicants: []models.CoApplicant{
			{
				PersonalDetails: models.PersonalDetails{FullName: "Ravi Verma"},
				Documents: []models.Document{
					{DocumentID: "doc-2", DocumentType: "aadhar_card", FileName: "aadhar.pdf", FilePath: "2608280001/aadhar.pdf"},
				},
			},
		},
		CreatedAt: time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC),
	}
}

func legacyFixture() models.Form {
	return models.Form{
		ID:            primitive.NewObjectID(),
		ApplicationID: "2401150003",
		Status:        models.StatusSubmitted,
		PersonalDetails: []models.LegacyApplicant{
			{Name: "Asha Verma", City: "Pune"},
			{Name: "Ravi Verma"},
		},
		LoanApplication: models.LegacyLoanDetails{
			LoanType:           models.LoanTypeHome,
			LoanAmountRequired: 500000,
		},
		LoanDocuments: []models.LegacyDocumentSet{
			{"pan_card": {FileName: "pan.pdf", FilePath: "legacy/pan.pdf"}},
			{"aadhar_card": {FileName: "aadhar.pdf", FilePath: "legacy/aadhar.pdf"}},
		},
		CreatedAt: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
	}
}

func TestFromApplication(t *testing.T) {
	view := FromApplication(canonicalFixture())

	assert.Equal(t, SourceCanonical, view.Source)
	assert.Equal(t, "2608280001", view.ApplicationID)
	assert.Equal(t, models.LoanTypeHome, view.LoanType)
	assert.Equal(t, 500000.0, view.LoanAmount)
	assert.Equal(t, "Asha Verma", view.PersonalDetails.FullName)

	// flattened documents include the co-applicant's, position preserved
	require.Len(t, view.Documents, 2)
	assert.Equal(t, 0, view.Documents[0].ApplicantIndex)
	assert.Equal(t, 1, view.Documents[1].ApplicantIndex)
	assert.Equal(t, "doc-2", view.Documents[1].DocumentID)

	require.Len(t, view.CoApplicants, 1)
	assert.Equal(t, "Ravi Verma", view.CoApplicants[0].PersonalDetails.FullName)
}

func TestFromForm(t *testing.T) {
	view := FromForm(legacyFixture())

	assert.Equal(t, SourceLegacy, view.Source)
	assert.Equal(t, "2401150003", view.ApplicationID)
	assert.Equal(t, models.LoanTypeHome, view.LoanType)
	assert.Equal(t, 500000.0, view.LoanAmount)

	// primary applicant comes from personalDetails[0]
	assert.Equal(t, "Asha Verma", view.PersonalDetails.FullName)

	require.Len(t, view.Documents, 2)
	assert.Equal(t, 0, view.Documents[0].ApplicantIndex)
	assert.Equal(t, "pan_card", view.Documents[0].DocumentType)
	assert.Equal(t, 1, view.Documents[1].ApplicantIndex)
	assert.Equal(t, LegacyDocumentID(1, "aadhar_card"), view.Documents[1].DocumentID)

	require.Len(t, view.CoApplicants, 1)
	assert.Equal(t, "Ravi Verma", view.CoApplicants[0].PersonalDetails.FullName)
	require.Len(t, view.CoApplicants[0].Documents, 1)
}

func TestFromForm_Defaults(t *testing.T) {
	form := models.Form{ID: primitive.NewObjectID()}
	view := FromForm(form)

	// loanAmount defaults to 0, id falls back to the surrogate id
	assert.Equal(t, 0.0, view.LoanAmount)
	assert.Equal(t, form.ID.Hex(), view.ApplicationID)
	assert.Equal(t, models.StatusSubmitted, view.Status)
}

func TestFromForm_NormalizesPendingStatus(t *testing.T) {
	// some legacy records stored the query alias "pending" as their status;
	// the normalized view must carry a real enum member so status
	// transitions on such records keep working
	for _, stored := range []string{"pending", "Pending", "PENDING"} {
		view := FromForm(models.Form{ID: primitive.NewObjectID(), Status: stored})
		assert.Equal(t, models.StatusSubmitted, view.Status, "stored %q", stored)
		assert.NoError(t, workflow.ValidateTransition(view.Status, models.StatusUnderReview))
	}
}

func TestReconciliationSymmetry(t *testing.T) {
	// equivalent data in either shape produces the same normalized contract
	fromCanonical := FromApplication(canonicalFixture())
	fromLegacy := FromForm(legacyFixture())

	assert.Equal(t, fromCanonical.LoanType, fromLegacy.LoanType)
	assert.Equal(t, fromCanonical.LoanAmount, fromLegacy.LoanAmount)
	assert.Equal(t, fromCanonical.PersonalDetails.FullName, fromLegacy.PersonalDetails.FullName)
	assert.Len(t, fromLegacy.Documents, len(fromCanonical.Documents))
}

func TestSortAndPaginate_UnifiedSet(t *testing.T) {
	views := []View{
		{ApplicationID: "c1", Source: SourceCanonical, CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), LoanAmount: 300},
		{ApplicationID: "l1", Source: SourceLegacy, CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), LoanAmount: 100},
		{ApplicationID: "c2", Source: SourceCanonical, CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), LoanAmount: 200},
		{ApplicationID: "l2", Source: SourceLegacy, CreatedAt: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), LoanAmount: 400},
	}

	t.Run("sorted across sources, newest first", func(t *testing.T) {
		SortViews(views, "createdAt", true)
		got := []string{views[0].ApplicationID, views[1].ApplicationID, views[2].ApplicationID, views[3].ApplicationID}
		assert.Equal(t, []string{"l2", "c1", "c2", "l1"}, got)
	})

	t.Run("page boundaries cut the unified order", func(t *testing.T) {
		SortViews(views, "createdAt", true)
		page, total := Paginate(views, 2, 2)
		assert.Equal(t, 4, total)
		require.Len(t, page, 2)
		assert.Equal(t, "c2", page[0].ApplicationID)
		assert.Equal(t, "l1", page[1].ApplicationID)
	})

	t.Run("sort by loan amount", func(t *testing.T) {
		SortViews(views, "loanAmount", false)
		assert.Equal(t, 100.0, views[0].LoanAmount)
		assert.Equal(t, 400.0, views[3].LoanAmount)
	})

	t.Run("page past the end is empty, total intact", func(t *testing.T) {
		page, total := Paginate(views, 9, 2)
		assert.Empty(t, page)
		assert.Equal(t, 4, total)
	})
}
