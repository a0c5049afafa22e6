package pdfreport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshitsaini01/incentum-main-sub000/models"
	"github.com/harshitsaini01/incentum-main-sub000/reconcile"
)

func TestRender(t *testing.T) {
	approved := 450000.0
	view := reconcile.View{
		Source:        reconcile.SourceCanonical,
		ApplicationID: "2608280001",
		LoanType:      models.LoanTypeHome,
		LoanAmount:    500000,
		Status:        models.StatusApproved,
		PersonalDetails: models.PersonalDetails{
			FullName: "Asha Verma",
			Email:    "asha@example.com",
			City:     "Pune",
		},
		Documents: []reconcile.DocumentView{
			{DocumentType: "pan_card", FileName: "pan.pdf"},
			{DocumentType: "salary_slip", FileName: "slip.pdf", ApplicantIndex: 1},
		},
		StatusHistory: []models.StatusEntry{
			{Status: models.StatusSubmitted, UpdatedAt: time.Now(), UpdatedBy: "user-1"},
			{Status: models.StatusApproved, UpdatedAt: time.Now(), UpdatedBy: "admin-1", Remarks: "ok"},
		},
		ApprovedAmount: &approved,
		CreatedAt:      time.Now(),
	}

	out, err := Render(view)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestRender_MinimalLegacyView(t *testing.T) {
	out, err := Render(reconcile.View{
		Source:        reconcile.SourceLegacy,
		ApplicationID: "2401150003",
		CreatedAt:     time.Now(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
