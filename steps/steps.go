// Package steps merges one wizard step's partial payload into its section of
// the application document. Saving one step never touches another section:
// every write uses dotted field paths inside a single $set.
package steps

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/harshitsaini01/incentum-main-sub000/apperrors"
	"github.com/harshitsaini01/incentum-main-sub000/models"
)

// Wizard steps.
const (
	StepPersonal     = 1
	StepLoanDetails  = 2
	StepEmployment   = 3
	StepDocuments    = 4
	StepCoApplicants = 5
)

// kind of a canonical field's value.
type kind int

const (
	kindString kind = iota
	kindNumber
	kindInt
)

type field struct {
	canonical string
	kind      kind
	// aliases lists the payload keys that may carry this field, in priority
	// order. The first non-empty value wins.
	aliases []string
}

// Historical payloads used several names for the same logical field; the
// tables below are the single place those aliases are resolved.
var personalFields = []field{
	{"fullName", kindString, []string{"fullName", "firstName", "name"}},
	{"email", kindString, []string{"email", "emailAddress"}},
	{"phone", kindString, []string{"phone", "phoneNumber", "mobile"}},
	{"dateOfBirth", kindString, []string{"dateOfBirth", "dob"}},
	{"gender", kindString, []string{"gender"}},
	{"maritalStatus", kindString, []string{"maritalStatus", "marital_status"}},
	{"fatherName", kindString, []string{"fatherName", "father_name"}},
	{"panNumber", kindString, []string{"panNumber", "pan"}},
	{"aadharNumber", kindString, []string{"aadharNumber", "aadhar"}},
	{"address", kindString, []string{"address", "permanentAddress"}},
	{"city", kindString, []string{"city"}},
	{"state", kindString, []string{"state"}},
	{"pincode", kindString, []string{"pincode", "pin_code", "zip"}},
}

var loanFields = []field{
	{"loanAmountRequired", kindNumber, []string{"loanAmountRequired", "loanAmount", "loan_amount_required"}},
	{"tenureMonths", kindInt, []string{"tenureMonths", "tenure"}},
	{"purpose", kindString, []string{"purpose", "loanPurpose"}},
	{"propertyValue", kindNumber, []string{"propertyValue"}},
	{"propertyAddress", kindString, []string{"propertyAddress"}},
	{"vehicleModel", kindString, []string{"vehicleModel"}},
	{"vehiclePrice", kindNumber, []string{"vehiclePrice"}},
	{"downPayment", kindNumber, []string{"downPayment", "down_payment"}},
	{"businessTurnover", kindNumber, []string{"businessTurnover", "annualTurnover"}},
}

var employmentFields = []field{
	{"employmentType", kindString, []string{"employmentType", "employment_type"}},
	{"employerName", kindString, []string{"employerName", "companyName"}},
	{"designation", kindString, []string{"designation"}},
	{"monthlyIncome", kindNumber, []string{"monthlyIncome", "monthly_income"}},
	{"annualIncome", kindNumber, []string{"annualIncome", "annual_income"}},
	{"workExperience", kindString, []string{"workExperience", "experience"}},
	{"officeAddress", kindString, []string{"officeAddress"}},
	{"businessName", kindString, []string{"businessName"}},
	{"businessType", kindString, []string{"businessType"}},
	{"yearsInBusiness", kindString, []string{"yearsInBusiness"}},
	{"existingEmis", kindNumber, []string{"existingEmis", "existingEMIs"}},
}

var sections = map[int]struct {
	prefix string
	fields []field
}{
	StepPersonal:    {"personalDetails", personalFields},
	StepLoanDetails: {"loanSpecificDetails", loanFields},
	StepEmployment:  {"employmentDetails", employmentFields},
}

// BuildUpdate turns one step's payload into a $set update restricted to that
// step's section. Unknown payload keys are ignored; absent fields are left
// untouched in storage.
func BuildUpdate(step int, payload map[string]interface{}, now time.Time) (bson.M, error) {
	set := bson.M{"lastModifiedAt": now, "currentStep": step}

	switch step {
	case StepPersonal, StepLoanDetails, StepEmployment:
		section := sections[step]
		for _, f := range section.fields {
			value, ok := resolve(payload, f)
			if !ok {
				continue
			}
			set[section.prefix+"."+f.canonical] = value
		}
	case StepDocuments:
		docs, err := decodeSlice[models.Document](payload["documents"])
		if err != nil {
			return nil, apperrors.ValidationFailed("invalid documents payload: %v", err)
		}
		if docs != nil {
			set["documents"] = docs
		}
	case StepCoApplicants:
		coApps, err := decodeSlice[models.CoApplicant](payload["coApplicants"])
		if err != nil {
			return nil, apperrors.ValidationFailed("invalid coApplicants payload: %v", err)
		}
		if coApps != nil {
			set["coApplicants"] = coApps
		}
	default:
		return nil, apperrors.ValidationFailed("unknown step %d, expected 1-5", step)
	}

	return bson.M{"$set": set}, nil
}

// resolve walks the alias list and returns the first usable value.
func resolve(payload map[string]interface{}, f field) (interface{}, bool) {
	for _, key := range f.aliases {
		raw, present := payload[key]
		if !present || raw == nil {
			continue
		}
		switch f.kind {
		case kindString:
			if s, ok := raw.(string); ok && strings.TrimSpace(s) != "" {
				return s, true
			}
		case kindNumber:
			if n, ok := toFloat(raw); ok {
				return n, true
			}
		case kindInt:
			if n, ok := toFloat(raw); ok {
				return int(n), true
			}
		}
	}
	return nil, false
}

func toFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		if strings.TrimSpace(v) == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

// decodeSlice converts a decoded-JSON array into typed section records.
// Returns nil when the payload key was absent.
func decodeSlice[T any](raw interface{}) ([]T, error) {
	if raw == nil {
		return nil, nil
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(buf, &out); err != nil {
		return nil, err
	}
	return out, nil
}
