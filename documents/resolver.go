// Package documents locates a specific uploaded document among the main
// applicant's list, a legacy record's loanDocuments, and co-applicant lists.
// Resolution never fails with an error for a missing document; callers get a
// found/not-found answer and render the empty state.
package documents

import (
	"path/filepath"
	"strings"

	"github.com/harshitsaini01/incentum-main-sub000/apperrors"
	"github.com/harshitsaini01/incentum-main-sub000/models"
	"github.com/harshitsaini01/incentum-main-sub000/reconcile"
)

// Resolved is the located document's stored path and display name.
type Resolved struct {
	DocumentID     string
	DocumentType   string
	FileName       string
	FilePath       string
	ApplicantIndex int
}

// ResolveByID searches, in order: the canonical record's documents, the
// legacy record's loanDocuments (by synthesized legacy id), then each
// co-applicant's documents. First match wins. Either record may be nil.
func ResolveByID(app *models.LoanApplication, form *models.Form, docID string) (Resolved, bool) {
	if docID == "" {
		return Resolved{}, false
	}

	if app != nil {
		for _, d := range app.Documents {
			if d.DocumentID == docID {
				return fromDocument(d, 0), true
			}
		}
	}

	if form != nil {
		for i, set := range form.LoanDocuments {
			for docType, d := range set {
				if reconcile.LegacyDocumentID(i, docType) == docID {
					return fromLegacy(d, docType, i), true
				}
			}
		}
	}

	if app != nil {
		for i, ca := range app.CoApplicants {
			for _, d := range ca.Documents {
				if d.DocumentID == docID {
					return fromDocument(d, i+1), true
				}
			}
		}
	}

	return Resolved{}, false
}

// ResolveByType locates a document by (documentType, applicantIndex):
// index 0 is the main applicant, index n >= 1 is coApplicants[n-1]. For
// legacy records the index addresses loanDocuments[index] directly.
func ResolveByType(app *models.LoanApplication, form *models.Form, docType string, applicantIndex int) (Resolved, bool) {
	if applicantIndex < 0 || docType == "" {
		return Resolved{}, false
	}

	if app != nil {
		if applicantIndex == 0 {
			for _, d := range app.Documents {
				if d.DocumentType == docType {
					return fromDocument(d, 0), true
				}
			}
		} else if applicantIndex-1 < len(app.CoApplicants) {
			for _, d := range app.CoApplicants[applicantIndex-1].Documents {
				if d.DocumentType == docType {
					return fromDocument(d, applicantIndex), true
				}
			}
		}
	}

	if form != nil && applicantIndex < len(form.LoanDocuments) {
		if d, ok := form.LoanDocuments[applicantIndex][docType]; ok {
			return fromLegacy(d, docType, applicantIndex), true
		}
	}

	return Resolved{}, false
}

// ConfinePath resolves a stored document path against the upload root and
// rejects anything that escapes it. An escaping path is reported as NotFound,
// never served.
func ConfinePath(uploadRoot, storedPath string) (string, error) {
	root, err := filepath.Abs(uploadRoot)
	if err != nil {
		return "", apperrors.NotFound("document not found")
	}

	candidate := storedPath
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(root, candidate)
	}
	candidate = filepath.Clean(candidate)

	if candidate != root && !strings.HasPrefix(candidate, root+string(filepath.Separator)) {
		return "", apperrors.NotFound("document not found")
	}
	return candidate, nil
}

func fromDocument(d models.Document, applicantIndex int) Resolved {
	return Resolved{
		DocumentID:     d.DocumentID,
		DocumentType:   d.DocumentType,
		FileName:       d.FileName,
		FilePath:       d.FilePath,
		ApplicantIndex: applicantIndex,
	}
}

func fromLegacy(d models.LegacyDocument, docType string, applicantIndex int) Resolved {
	return Resolved{
		DocumentID:     reconcile.LegacyDocumentID(applicantIndex, docType),
		DocumentType:   docType,
		FileName:       d.FileName,
		FilePath:       d.FilePath,
		ApplicantIndex: applicantIndex,
	}
}
