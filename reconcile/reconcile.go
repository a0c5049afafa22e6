// Package reconcile normalizes the two persisted application shapes, the
// canonical LoanApplication and the legacy array-indexed Form, into one view
// with a stable field contract for listing, detail, PDF and document serving.
package reconcile

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harshitsaini01/incentum-main-sub000/models"
)

// Source tags which store a view came from.
type Source string

const (
	SourceCanonical Source = "canonical"
	SourceLegacy    Source = "legacy"
)

// DocumentView is one document in the flattened list. ApplicantIndex 0 is the
// primary applicant; indices >= 1 correlate back to coApplicants[index-1].
type DocumentView struct {
	DocumentID     string    `json:"documentId"`
	DocumentType   string    `json:"documentType"`
	FileName       string    `json:"fileName"`
	FilePath       string    `json:"filePath"`
	UploadedAt     time.Time `json:"uploadedAt"`
	Verified       bool      `json:"verified"`
	ApplicantIndex int       `json:"applicantIndex"`
}

type CoApplicantView struct {
	PersonalDetails   models.PersonalDetails   `json:"personalDetails"`
	EmploymentDetails models.EmploymentDetails `json:"employmentDetails"`
	Relationship      string                   `json:"relationship,omitempty"`
	Documents         []DocumentView           `json:"documents"`
}

// View is the normalized application contract shared by every consumer.
type View struct {
	Source              Source                     `json:"source"`
	ApplicationID       string                     `json:"applicationId"`
	LoanType            string                     `json:"loanType"`
	LoanAmount          float64                    `json:"loanAmount"`
	Status              string                     `json:"status"`
	CurrentStep         int                        `json:"currentStep,omitempty"`
	UserID              string                     `json:"userId"`
	PersonalDetails     models.PersonalDetails     `json:"personalDetails"`
	EmploymentDetails   models.EmploymentDetails   `json:"employmentDetails"`
	LoanSpecificDetails models.LoanSpecificDetails `json:"loanSpecificDetails"`
	Documents           []DocumentView             `json:"documents"`
	CoApplicants        []CoApplicantView          `json:"coApplicants"`
	StatusHistory       []models.StatusEntry       `json:"statusHistory"`
	Comments            []models.Comment           `json:"comments"`
	ApprovedAmount      *float64                   `json:"approvedAmount,omitempty"`
	SubmittedAt         *time.Time                 `json:"submittedAt,omitempty"`
	CreatedAt           time.Time                  `json:"createdAt"`
}

// LegacyDocumentID synthesizes a stable id for a legacy document, which has
// none of its own, from its position and type.
func LegacyDocumentID(applicantIndex int, documentType string) string {
	return fmt.Sprintf("legacy-%d-%s", applicantIndex, documentType)
}

// FromApplication normalizes a canonical record.
func FromApplication(app models.LoanApplication) View {
	docs := make([]DocumentView, 0, len(app.Documents))
	for _, d := range app.Documents {
		docs = append(docs, documentView(d, 0))
	}

	coApps := make([]CoApplicantView, 0, len(app.CoApplicants))
	for i, ca := range app.CoApplicants {
		cav := CoApplicantView{
			PersonalDetails:   ca.PersonalDetails,
			EmploymentDetails: ca.EmploymentDetails,
			Relationship:      ca.Relationship,
			Documents:         make([]DocumentView, 0, len(ca.Documents)),
		}
		for _, d := range ca.Documents {
			dv := documentView(d, i+1)
			cav.Documents = append(cav.Documents, dv)
			docs = append(docs, dv)
		}
		coApps = append(coApps, cav)
	}

	return View{
		Source:              SourceCanonical,
		ApplicationID:       app.ApplicationID,
		LoanType:            app.LoanType,
		LoanAmount:          app.LoanSpecificDetails.LoanAmountRequired,
		Status:              app.Status,
		CurrentStep:         app.CurrentStep,
		UserID:              app.UserID.Hex(),
		PersonalDetails:     app.PersonalDetails,
		EmploymentDetails:   app.EmploymentDetails,
		LoanSpecificDetails: app.LoanSpecificDetails,
		Documents:           docs,
		CoApplicants:        coApps,
		StatusHistory:       app.StatusHistory,
		Comments:            app.Comments,
		ApprovedAmount:      app.ApprovedAmount,
		SubmittedAt:         app.SubmittedAt,
		CreatedAt:           app.CreatedAt,
	}
}

// FromForm normalizes a legacy record: primary applicant view from
// personalDetails[0], loan fields from the loanApplication object, documents
// flattened from loanDocuments[] with positions preserved.
func FromForm(form models.Form) View {
	view := View{
		Source:         SourceLegacy,
		ApplicationID:  form.ApplicationID,
		LoanType:       form.LoanApplication.LoanType,
		LoanAmount:     form.LoanApplication.LoanAmountRequired,
		Status:         form.Status,
		StatusHistory:  form.StatusHistory,
		Comments:       form.Comments,
		ApprovedAmount: form.ApprovedAmount,
		CreatedAt:      form.CreatedAt,
		LoanSpecificDetails: models.LoanSpecificDetails{
			LoanAmountRequired: form.LoanApplication.LoanAmountRequired,
			TenureMonths:       form.LoanApplication.TenureMonths,
			Purpose:            form.LoanApplication.Purpose,
		},
	}
	if view.ApplicationID == "" {
		view.ApplicationID = form.ID.Hex()
	}
	if !form.UserID.IsZero() {
		view.UserID = form.UserID.Hex()
	}
	// Legacy records wrote "pending" (or nothing at all) for an unsettled
	// application; both normalize to submitted so the status enum holds.
	if view.Status == "" || strings.EqualFold(view.Status, "pending") {
		view.Status = models.StatusSubmitted
	}

	if len(form.PersonalDetails) > 0 {
		view.PersonalDetails = legacyPersonal(form.PersonalDetails[0])
	}
	if len(form.LoanApplication.Employment) > 0 {
		view.EmploymentDetails = legacyEmployment(form.LoanApplication.Employment[0])
	}

	view.Documents = flattenLegacyDocuments(form.LoanDocuments)

	// Indices >= 1 of the parallel arrays are co-applicants.
	for i := 1; i < len(form.PersonalDetails); i++ {
		cav := CoApplicantView{
			PersonalDetails: legacyPersonal(form.PersonalDetails[i]),
			Documents:       []DocumentView{},
		}
		if i < len(form.LoanApplication.Employment) {
			cav.EmploymentDetails = legacyEmployment(form.LoanApplication.Employment[i])
		}
		if i < len(form.LoanDocuments) {
			cav.Documents = legacyDocumentSetViews(form.LoanDocuments[i], i)
		}
		view.CoApplicants = append(view.CoApplicants, cav)
	}

	return view
}

func documentView(d models.Document, applicantIndex int) DocumentView {
	return DocumentView{
		DocumentID:     d.DocumentID,
		DocumentType:   d.DocumentType,
		FileName:       d.FileName,
		FilePath:       d.FilePath,
		UploadedAt:     d.UploadedAt,
		Verified:       d.Verified,
		ApplicantIndex: applicantIndex,
	}
}

func legacyPersonal(a models.LegacyApplicant) models.PersonalDetails {
	return models.PersonalDetails{
		FullName:      a.Name,
		Email:         a.Email,
		Phone:         a.Phone,
		DateOfBirth:   a.DateOfBirth,
		Gender:        a.Gender,
		MaritalStatus: a.MaritalStatus,
		FatherName:    a.FatherName,
		PanNumber:     a.PanNumber,
		AadharNumber:  a.AadharNumber,
		Address:       a.Address,
		City:          a.City,
		State:         a.State,
		Pincode:       a.Pincode,
	}
}

func legacyEmployment(e models.LegacyEmployment) models.EmploymentDetails {
	return models.EmploymentDetails{
		EmploymentType: e.EmploymentType,
		EmployerName:   e.EmployerName,
		MonthlyIncome:  e.MonthlyIncome,
		AnnualIncome:   e.AnnualIncome,
	}
}

func flattenLegacyDocuments(sets []models.LegacyDocumentSet) []DocumentView {
	docs := []DocumentView{}
	for i, set := range sets {
		docs = append(docs, legacyDocumentSetViews(set, i)...)
	}
	return docs
}

func legacyDocumentSetViews(set models.LegacyDocumentSet, applicantIndex int) []DocumentView {
	types := make([]string, 0, len(set))
	for docType := range set {
		types = append(types, docType)
	}
	sort.Strings(types) // map order is random, views are not

	views := make([]DocumentView, 0, len(set))
	for _, docType := range types {
		d := set[docType]
		views = append(views, DocumentView{
			DocumentID:     LegacyDocumentID(applicantIndex, docType),
			DocumentType:   docType,
			FileName:       d.FileName,
			FilePath:       d.FilePath,
			UploadedAt:     d.UploadedAt,
			ApplicantIndex: applicantIndex,
		})
	}
	return views
}

// SortViews orders the combined canonical+legacy list by one field. Sorting
// happens on the unified set so page boundaries are correct across sources.
func SortViews(views []View, field string, descending bool) {
	less := func(a, b View) bool { return a.CreatedAt.Before(b.CreatedAt) }

	switch strings.ToLower(field) {
	case "loanamount", "loan_amount":
		less = func(a, b View) bool { return a.LoanAmount < b.LoanAmount }
	case "status":
		less = func(a, b View) bool { return a.Status < b.Status }
	case "loantype", "loan_type":
		less = func(a, b View) bool { return a.LoanType < b.LoanType }
	case "applicationid":
		less = func(a, b View) bool { return a.ApplicationID < b.ApplicationID }
	}

	sort.SliceStable(views, func(i, j int) bool {
		if descending {
			return less(views[j], views[i])
		}
		return less(views[i], views[j])
	})
}

// Paginate slices one page out of the already-sorted unified list and returns
// it with the total count.
func Paginate(views []View, page, limit int) ([]View, int) {
	total := len(views)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	start := (page - 1) * limit
	if start >= total {
		return []View{}, total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return views[start:end], total
}
