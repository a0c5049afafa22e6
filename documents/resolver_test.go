package documents

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshitsaini01/incentum-main-sub000/models"
	"github.com/harshitsaini01/incentum-main-sub000/reconcile"
)

func appFixture() *models.LoanApplication {
	return &models.LoanApplication{
		Documents: []models.Document{
			{DocumentID: "doc-main", DocumentType: "pan_card", FileName: "pan.pdf", FilePath: "2608280001/pan.pdf"},
		},
		CoApplicants: []models.CoApplicant{
			{Documents: []models.Document{
				{DocumentID: "doc-co", DocumentType: "salary_slip", FileName: "slip.pdf", FilePath: "2608280001/slip.pdf"},
			}},
		},
	}
}

func formFixture() *models.Form {
	return &models.Form{
		LoanDocuments: []models.LegacyDocumentSet{
			{"pan_card": {FileName: "legacy-pan.pdf", FilePath: "legacy/pan.pdf"}},
			{"aadhar_card": {FileName: "legacy-aadhar.pdf", FilePath: "legacy/aadhar.pdf"}},
		},
	}
}

func TestResolveByID(t *testing.T) {
	t.Run("canonical main document wins first", func(t *testing.T) {
		res, ok := ResolveByID(appFixture(), formFixture(), "doc-main")
		require.True(t, ok)
		assert.Equal(t, "pan.pdf", res.FileName)
		assert.Equal(t, 0, res.ApplicantIndex)
	})

	t.Run("falls back to legacy documents", func(t *testing.T) {
		res, ok := ResolveByID(appFixture(), formFixture(), reconcile.LegacyDocumentID(1, "aadhar_card"))
		require.True(t, ok)
		assert.Equal(t, "legacy-aadhar.pdf", res.FileName)
		assert.Equal(t, 1, res.ApplicantIndex)
	})

	t.Run("falls back to co-applicant documents", func(t *testing.T) {
		res, ok := ResolveByID(appFixture(), nil, "doc-co")
		require.True(t, ok)
		assert.Equal(t, "slip.pdf", res.FileName)
		assert.Equal(t, 1, res.ApplicantIndex)
	})

	t.Run("missing id is not found, never an error", func(t *testing.T) {
		_, ok := ResolveByID(appFixture(), formFixture(), "no-such-doc")
		assert.False(t, ok)
	})

	t.Run("nil records are tolerated", func(t *testing.T) {
		_, ok := ResolveByID(nil, nil, "doc-main")
		assert.False(t, ok)
	})
}

func TestResolveByType(t *testing.T) {
	t.Run("index 0 searches the main applicant", func(t *testing.T) {
		res, ok := ResolveByType(appFixture(), nil, "pan_card", 0)
		require.True(t, ok)
		assert.Equal(t, "pan.pdf", res.FileName)
	})

	t.Run("index 1 searches coApplicants[0]", func(t *testing.T) {
		res, ok := ResolveByType(appFixture(), nil, "salary_slip", 1)
		require.True(t, ok)
		assert.Equal(t, "slip.pdf", res.FileName)
	})

	t.Run("legacy index addresses loanDocuments directly", func(t *testing.T) {
		res, ok := ResolveByType(nil, formFixture(), "aadhar_card", 1)
		require.True(t, ok)
		assert.Equal(t, "legacy-aadhar.pdf", res.FileName)
	})

	t.Run("unknown type at a valid index is not found", func(t *testing.T) {
		_, ok := ResolveByType(appFixture(), formFixture(), "bank_statement", 0)
		assert.False(t, ok)
	})

	t.Run("out of range index is not found", func(t *testing.T) {
		_, ok := ResolveByType(appFixture(), formFixture(), "pan_card", 7)
		assert.False(t, ok)
	})
}

func TestConfinePath(t *testing.T) {
	root := t.TempDir()

	t.Run("relative path stays inside root", func(t *testing.T) {
		p, err := ConfinePath(root, "2608280001/pan.pdf")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "2608280001", "pan.pdf"), p)
	})

	t.Run("traversal is treated as not found", func(t *testing.T) {
		_, err := ConfinePath(root, "../../etc/passwd")
		assert.Error(t, err)
	})

	t.Run("absolute path outside root is treated as not found", func(t *testing.T) {
		_, err := ConfinePath(root, "/etc/passwd")
		assert.Error(t, err)
	})

	t.Run("absolute path inside root is allowed", func(t *testing.T) {
		inside := filepath.Join(root, "a", "b.pdf")
		p, err := ConfinePath(root, inside)
		require.NoError(t, err)
		assert.Equal(t, inside, p)
	})
}
