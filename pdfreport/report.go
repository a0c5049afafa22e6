// Package pdfreport renders an application's reconciled view as a PDF report
// for admin export. It only consumes the normalized view, so canonical and
// legacy records render identically.
package pdfreport

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/harshitsaini01/incentum-main-sub000/reconcile"
)

// Render produces the PDF bytes for one application view.
func Render(view reconcile.View) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Loan Application "+view.ApplicationID, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Loan Application Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	kv(pdf, "Application ID", view.ApplicationID)
	kv(pdf, "Loan Type", view.LoanType)
	kv(pdf, "Status", view.Status)
	kv(pdf, "Requested Amount", amount(view.LoanAmount))
	if view.ApprovedAmount != nil {
		kv(pdf, "Approved Amount", amount(*view.ApprovedAmount))
	}
	kv(pdf, "Created", view.CreatedAt.Format("02 Jan 2006 15:04"))
	if view.SubmittedAt != nil {
		kv(pdf, "Submitted", view.SubmittedAt.Format("02 Jan 2006 15:04"))
	}
	pdf.Ln(4)

	section(pdf, "Primary Applicant")
	kv(pdf, "Name", view.PersonalDetails.FullName)
	kv(pdf, "Email", view.PersonalDetails.Email)
	kv(pdf, "Phone", view.PersonalDetails.Phone)
	kv(pdf, "PAN", view.PersonalDetails.PanNumber)
	kv(pdf, "Address", strings.TrimSpace(strings.Join(nonEmpty(
		view.PersonalDetails.Address,
		view.PersonalDetails.City,
		view.PersonalDetails.State,
		view.PersonalDetails.Pincode), ", ")))
	pdf.Ln(4)

	if view.EmploymentDetails.EmploymentType != "" || view.EmploymentDetails.EmployerName != "" {
		section(pdf, "Employment")
		kv(pdf, "Type", view.EmploymentDetails.EmploymentType)
		kv(pdf, "Employer", view.EmploymentDetails.EmployerName)
		if view.EmploymentDetails.MonthlyIncome > 0 {
			kv(pdf, "Monthly Income", amount(view.EmploymentDetails.MonthlyIncome))
		}
		pdf.Ln(4)
	}

	for i, ca := range view.CoApplicants {
		section(pdf, fmt.Sprintf("Co-Applicant %d", i+1))
		kv(pdf, "Name", ca.PersonalDetails.FullName)
		kv(pdf, "Relationship", ca.Relationship)
		pdf.Ln(4)
	}

	if len(view.Documents) > 0 {
		section(pdf, "Documents")
		for _, d := range view.Documents {
			owner := "primary"
			if d.ApplicantIndex > 0 {
				owner = fmt.Sprintf("co-applicant %d", d.ApplicantIndex)
			}
			pdf.Cell(0, 6, fmt.Sprintf("- %s (%s, %s)", d.DocumentType, d.FileName, owner))
			pdf.Ln(6)
		}
		pdf.Ln(4)
	}

	if len(view.StatusHistory) > 0 {
		section(pdf, "Status History")
		for _, e := range view.StatusHistory {
			line := fmt.Sprintf("%s  %s  by %s", e.UpdatedAt.Format(time.RFC822), e.Status, e.UpdatedBy)
			if e.Remarks != "" {
				line += " - " + e.Remarks
			}
			pdf.Cell(0, 6, line)
			pdf.Ln(6)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf render failed: %w", err)
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 10)
}

func kv(pdf *gofpdf.Fpdf, key, value string) {
	if value == "" {
		return
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(45, 6, key)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, value)
	pdf.Ln(6)
}

func amount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func nonEmpty(parts ...string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
