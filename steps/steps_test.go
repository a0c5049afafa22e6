package steps

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/harshitsaini01/incentum-main-sub000/models"
)

func setDoc(t *testing.T, update bson.M) bson.M {
	t.Helper()
	set, ok := update["$set"].(bson.M)
	require.True(t, ok)
	return set
}

func TestBuildUpdate_PersonalStep(t *testing.T) {
	now := time.Now()

	t.Run("writes only dotted personal paths", func(t *testing.T) {
		update, err := BuildUpdate(StepPersonal, map[string]interface{}{
			"fullName": "Asha Verma",
			"city":     "Pune",
		}, now)
		require.NoError(t, err)

		set := setDoc(t, update)
		assert.Equal(t, "Asha Verma", set["personalDetails.fullName"])
		assert.Equal(t, "Pune", set["personalDetails.city"])
		assert.Equal(t, now, set["lastModifiedAt"])
		assert.Equal(t, 1, set["currentStep"])

		// no whole-section replacement, so other sections survive
		_, wholeSection := set["personalDetails"]
		assert.False(t, wholeSection)
		_, other := set["loanSpecificDetails"]
		assert.False(t, other)
	})

	t.Run("resolves aliases in priority order", func(t *testing.T) {
		update, err := BuildUpdate(StepPersonal, map[string]interface{}{
			"firstName": "From firstName",
			"name":      "From name",
		}, now)
		require.NoError(t, err)
		assert.Equal(t, "From firstName", setDoc(t, update)["personalDetails.fullName"])
	})

	t.Run("empty alias values are skipped", func(t *testing.T) {
		update, err := BuildUpdate(StepPersonal, map[string]interface{}{
			"fullName": "  ",
			"name":     "Asha Verma",
		}, now)
		require.NoError(t, err)
		assert.Equal(t, "Asha Verma", setDoc(t, update)["personalDetails.fullName"])
	})

	t.Run("unknown keys are ignored", func(t *testing.T) {
		update, err := BuildUpdate(StepPersonal, map[string]interface{}{
			"favouriteColour": "blue",
		}, now)
		require.NoError(t, err)

		set := setDoc(t, update)
		assert.Len(t, set, 2) // lastModifiedAt + currentStep only
	})
}

func TestBuildUpdate_LoanStep(t *testing.T) {
	now := time.Now()

	t.Run("numeric field from legacy snake_case alias", func(t *testing.T) {
		update, err := BuildUpdate(StepLoanDetails, map[string]interface{}{
			"loan_amount_required": 500000.0,
		}, now)
		require.NoError(t, err)
		assert.Equal(t, 500000.0, setDoc(t, update)["loanSpecificDetails.loanAmountRequired"])
	})

	t.Run("numeric field sent as string", func(t *testing.T) {
		update, err := BuildUpdate(StepLoanDetails, map[string]interface{}{
			"loanAmount": "750000",
		}, now)
		require.NoError(t, err)
		assert.Equal(t, 750000.0, setDoc(t, update)["loanSpecificDetails.loanAmountRequired"])
	})

	t.Run("tenure coerced to int", func(t *testing.T) {
		update, err := BuildUpdate(StepLoanDetails, map[string]interface{}{
			"tenure": 60.0,
		}, now)
		require.NoError(t, err)
		assert.Equal(t, 60, setDoc(t, update)["loanSpecificDetails.tenureMonths"])
	})
}

func TestBuildUpdate_CoApplicantsStep(t *testing.T) {
	update, err := BuildUpdate(StepCoApplicants, map[string]interface{}{
		"coApplicants": []interface{}{
			map[string]interface{}{
				"relationship": "spouse",
				"personalDetails": map[string]interface{}{
					"fullName": "Ravi Verma",
				},
			},
		},
	}, time.Now())
	require.NoError(t, err)

	set := setDoc(t, update)
	coApps, ok := set["coApplicants"].([]models.CoApplicant)
	require.True(t, ok)
	require.Len(t, coApps, 1)
	assert.Equal(t, "spouse", coApps[0].Relationship)
	assert.Equal(t, "Ravi Verma", coApps[0].PersonalDetails.FullName)
}

func TestBuildUpdate_InvalidStep(t *testing.T) {
	_, err := BuildUpdate(9, map[string]interface{}{}, time.Now())
	assert.Error(t, err)
}
