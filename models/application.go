package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Loan types accepted at creation.
const (
	LoanTypeHome     = "home"
	LoanTypePersonal = "personal"
	LoanTypeBusiness = "business"
	LoanTypeVehicle  = "vehicle"
	LoanTypeMortgage = "mortgage"
)

// Application statuses. "pending" is accepted as a legacy query alias for an
// unsettled application, never stored.
const (
	StatusDraft       = "draft"
	StatusSubmitted   = "submitted"
	StatusUnderReview = "under_review"
	StatusApproved    = "approved"
	StatusRejected    = "rejected"
	StatusDisbursed   = "disbursed"
	StatusClosed      = "closed"
)

type PersonalDetails struct {
	FullName      string `bson:"fullName,omitempty" json:"fullName,omitempty"`
	Email         string `bson:"email,omitempty" json:"email,omitempty"`
	Phone         string `bson:"phone,omitempty" json:"phone,omitempty"`
	DateOfBirth   string `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	Gender        string `bson:"gender,omitempty" json:"gender,omitempty"`
	MaritalStatus string `bson:"maritalStatus,omitempty" json:"maritalStatus,omitempty"`
	FatherName    string `bson:"fatherName,omitempty" json:"fatherName,omitempty"`
	PanNumber     string `bson:"panNumber,omitempty" json:"panNumber,omitempty"`
	AadharNumber  string `bson:"aadharNumber,omitempty" json:"aadharNumber,omitempty"`
	Address       string `bson:"address,omitempty" json:"address,omitempty"`
	City          string `bson:"city,omitempty" json:"city,omitempty"`
	State         string `bson:"state,omitempty" json:"state,omitempty"`
	Pincode       string `bson:"pincode,omitempty" json:"pincode,omitempty"`
}

type EmploymentDetails struct {
	EmploymentType   string  `bson:"employmentType,omitempty" json:"employmentType,omitempty"`
	EmployerName     string  `bson:"employerName,omitempty" json:"employerName,omitempty"`
	Designation      string  `bson:"designation,omitempty" json:"designation,omitempty"`
	MonthlyIncome    float64 `bson:"monthlyIncome,omitempty" json:"monthlyIncome,omitempty"`
	AnnualIncome     float64 `bson:"annualIncome,omitempty" json:"annualIncome,omitempty"`
	WorkExperience   string  `bson:"workExperience,omitempty" json:"workExperience,omitempty"`
	OfficeAddress    string  `bson:"officeAddress,omitempty" json:"officeAddress,omitempty"`
	BusinessName     string  `bson:"businessName,omitempty" json:"businessName,omitempty"`
	BusinessType     string  `bson:"businessType,omitempty" json:"businessType,omitempty"`
	YearsInBusiness  string  `bson:"yearsInBusiness,omitempty" json:"yearsInBusiness,omitempty"`
	ExistingEMIs     float64 `bson:"existingEmis,omitempty" json:"existingEmis,omitempty"`
}

type LoanSpecificDetails struct {
	LoanAmountRequired float64 `bson:"loanAmountRequired,omitempty" json:"loanAmountRequired,omitempty"`
	TenureMonths       int     `bson:"tenureMonths,omitempty" json:"tenureMonths,omitempty"`
	Purpose            string  `bson:"purpose,omitempty" json:"purpose,omitempty"`
	PropertyValue      float64 `bson:"propertyValue,omitempty" json:"propertyValue,omitempty"`
	PropertyAddress    string  `bson:"propertyAddress,omitempty" json:"propertyAddress,omitempty"`
	VehicleModel       string  `bson:"vehicleModel,omitempty" json:"vehicleModel,omitempty"`
	VehiclePrice       float64 `bson:"vehiclePrice,omitempty" json:"vehiclePrice,omitempty"`
	DownPayment        float64 `bson:"downPayment,omitempty" json:"downPayment,omitempty"`
	BusinessTurnover   float64 `bson:"businessTurnover,omitempty" json:"businessTurnover,omitempty"`
}

// Document is an uploaded file owned by exactly one application.
type Document struct {
	DocumentID   string    `bson:"documentId" json:"documentId"`
	DocumentType string    `bson:"documentType" json:"documentType"`
	FileName     string    `bson:"fileName" json:"fileName"`
	FilePath     string    `bson:"filePath" json:"filePath"`
	UploadedAt   time.Time `bson:"uploadedAt" json:"uploadedAt"`
	Verified     bool      `bson:"verified" json:"verified"`
}

// CoApplicant is a nested secondary applicant. It has no identity outside its
// parent application.
type CoApplicant struct {
	PersonalDetails   PersonalDetails   `bson:"personalDetails,omitempty" json:"personalDetails,omitempty"`
	EmploymentDetails EmploymentDetails `bson:"employmentDetails,omitempty" json:"employmentDetails,omitempty"`
	Relationship      string            `bson:"relationship,omitempty" json:"relationship,omitempty"`
	Documents         []Document        `bson:"documents,omitempty" json:"documents,omitempty"`
}

type StatusEntry struct {
	Status    string    `bson:"status" json:"status"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
	UpdatedBy string    `bson:"updatedBy" json:"updatedBy"`
	Remarks   string    `bson:"remarks,omitempty" json:"remarks,omitempty"`
}

type Comment struct {
	Message    string    `bson:"message" json:"message"`
	AddedBy    string    `bson:"addedBy" json:"addedBy"`
	AddedAt    time.Time `bson:"addedAt" json:"addedAt"`
	IsInternal bool      `bson:"isInternal" json:"isInternal"`
}

// LoanApplication is the canonical persisted shape of one application.
type LoanApplication struct {
	ID                  primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ApplicationID       string              `bson:"applicationId" json:"applicationId"`
	UserID              primitive.ObjectID  `bson:"userId" json:"userId"`
	LoanType            string              `bson:"loanType" json:"loanType"`
	Status              string              `bson:"status" json:"status"`
	CurrentStep         int                 `bson:"currentStep" json:"currentStep"`
	PersonalDetails     PersonalDetails     `bson:"personalDetails,omitempty" json:"personalDetails,omitempty"`
	EmploymentDetails   EmploymentDetails   `bson:"employmentDetails,omitempty" json:"employmentDetails,omitempty"`
	LoanSpecificDetails LoanSpecificDetails `bson:"loanSpecificDetails,omitempty" json:"loanSpecificDetails,omitempty"`
	Documents           []Document          `bson:"documents,omitempty" json:"documents,omitempty"`
	CoApplicants        []CoApplicant       `bson:"coApplicants,omitempty" json:"coApplicants,omitempty"`
	StatusHistory       []StatusEntry       `bson:"statusHistory,omitempty" json:"statusHistory,omitempty"`
	Comments            []Comment           `bson:"comments,omitempty" json:"comments,omitempty"`
	ApprovedAmount      *float64            `bson:"approvedAmount,omitempty" json:"approvedAmount,omitempty"`
	SubmittedAt         *time.Time          `bson:"submittedAt,omitempty" json:"submittedAt,omitempty"`
	CreatedAt           time.Time           `bson:"createdAt" json:"createdAt"`
	LastModifiedAt      time.Time           `bson:"lastModifiedAt" json:"lastModifiedAt"`
}

// ValidLoanType reports whether t is one of the accepted loan types.
func ValidLoanType(t string) bool {
	switch t {
	case LoanTypeHome, LoanTypePersonal, LoanTypeBusiness, LoanTypeVehicle, LoanTypeMortgage:
		return true
	}
	return false
}
