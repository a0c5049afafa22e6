package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Form is the legacy persisted shape: applicant data as parallel arrays, index
// 0 is the primary applicant. Read-reconciled on demand, never migrated.
type Form struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	ApplicationID   string               `bson:"applicationId,omitempty" json:"applicationId,omitempty"`
	UserID          primitive.ObjectID   `bson:"userId,omitempty" json:"userId,omitempty"`
	Status          string               `bson:"status,omitempty" json:"status,omitempty"`
	PersonalDetails []LegacyApplicant    `bson:"personalDetails,omitempty" json:"personalDetails,omitempty"`
	LoanApplication LegacyLoanDetails    `bson:"loanApplication,omitempty" json:"loanApplication,omitempty"`
	LoanDocuments   []LegacyDocumentSet  `bson:"loanDocuments,omitempty" json:"loanDocuments,omitempty"`
	StatusHistory   []StatusEntry        `bson:"statusHistory,omitempty" json:"statusHistory,omitempty"`
	Comments        []Comment            `bson:"comments,omitempty" json:"comments,omitempty"`
	ApprovedAmount  *float64             `bson:"approvedAmount,omitempty" json:"approvedAmount,omitempty"`
	CreatedAt       time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// LegacyApplicant is one entry of the legacy personalDetails array.
type LegacyApplicant struct {
	Name          string `bson:"name,omitempty" json:"name,omitempty"`
	Email         string `bson:"email,omitempty" json:"email,omitempty"`
	Phone         string `bson:"phone,omitempty" json:"phone,omitempty"`
	DateOfBirth   string `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	Gender        string `bson:"gender,omitempty" json:"gender,omitempty"`
	FatherName    string `bson:"fatherName,omitempty" json:"fatherName,omitempty"`
	PanNumber     string `bson:"panNumber,omitempty" json:"panNumber,omitempty"`
	AadharNumber  string `bson:"aadharNumber,omitempty" json:"aadharNumber,omitempty"`
	Address       string `bson:"address,omitempty" json:"address,omitempty"`
	City          string `bson:"city,omitempty" json:"city,omitempty"`
	State         string `bson:"state,omitempty" json:"state,omitempty"`
	Pincode       string `bson:"pincode,omitempty" json:"pincode,omitempty"`
	MaritalStatus string `bson:"maritalStatus,omitempty" json:"maritalStatus,omitempty"`
}

// LegacyLoanDetails holds the legacy loan-specific object, including
// per-applicant employment sub-objects indexed in parallel to personalDetails.
type LegacyLoanDetails struct {
	LoanType           string             `bson:"loanType,omitempty" json:"loanType,omitempty"`
	LoanAmountRequired float64            `bson:"loan_amount_required,omitempty" json:"loan_amount_required,omitempty"`
	TenureMonths       int                `bson:"tenureMonths,omitempty" json:"tenureMonths,omitempty"`
	Purpose            string             `bson:"purpose,omitempty" json:"purpose,omitempty"`
	Employment         []LegacyEmployment `bson:"employment,omitempty" json:"employment,omitempty"`
}

type LegacyEmployment struct {
	EmploymentType string  `bson:"employmentType,omitempty" json:"employmentType,omitempty"`
	EmployerName   string  `bson:"employerName,omitempty" json:"employerName,omitempty"`
	MonthlyIncome  float64 `bson:"monthlyIncome,omitempty" json:"monthlyIncome,omitempty"`
	AnnualIncome   float64 `bson:"annualIncome,omitempty" json:"annualIncome,omitempty"`
}

// LegacyDocumentSet maps documentType -> stored file for one applicant slot.
type LegacyDocumentSet map[string]LegacyDocument

type LegacyDocument struct {
	FileName   string    `bson:"fileName,omitempty" json:"fileName,omitempty"`
	FilePath   string    `bson:"filePath,omitempty" json:"filePath,omitempty"`
	UploadedAt time.Time `bson:"uploadedAt,omitempty" json:"uploadedAt,omitempty"`
}
