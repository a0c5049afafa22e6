package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harshitsaini01/incentum-main-sub000/apperrors"
	"github.com/harshitsaini01/incentum-main-sub000/models"
	"github.com/harshitsaini01/incentum-main-sub000/reconcile"
	"github.com/harshitsaini01/incentum-main-sub000/steps"
	"github.com/harshitsaini01/incentum-main-sub000/utils"
	"github.com/harshitsaini01/incentum-main-sub000/websocket"
	"github.com/harshitsaini01/incentum-main-sub000/workflow"
)

// sectionSteps maps single-shot creation payload sections onto wizard steps so
// creation and step-save share the same alias resolution.
var sectionSteps = map[string]int{
	"personalDetails":     steps.StepPersonal,
	"loanSpecificDetails": steps.StepLoanDetails,
	"employmentDetails":   steps.StepEmployment,
}

// CreateApplication starts a new application. The default path creates a
// draft; passing "submit": true creates and submits in one shot.
func CreateApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "user id required")
		return
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	loanType, _ := payload["loanType"].(string)
	if !models.ValidLoanType(loanType) {
		utils.RespondWithAppError(w, apperrors.ValidationFailed("loanType must be one of home, personal, business, vehicle, mortgage"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()

	now := time.Now()
	app := models.LoanApplication{
		ApplicationID: idGenerator.Next(ctx),
		UserID:        userID,
		LoanType:      loanType,
		Status:        models.StatusDraft,
		CurrentStep:   1,
		StatusHistory: []models.StatusEntry{
			{Status: models.StatusDraft, UpdatedAt: now, UpdatedBy: userID.Hex()},
		},
		CreatedAt:      now,
		LastModifiedAt: now,
	}

	if _, err := applicationCollection.InsertOne(ctx, app); err != nil {
		log.Printf("CreateApplication - insert failed: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	// Apply any sections included with the creation call through the same
	// merge path the wizard uses.
	for section, step := range sectionSteps {
		raw, ok := payload[section].(map[string]interface{})
		if !ok {
			continue
		}
		update, err := steps.BuildUpdate(step, raw, now)
		if err != nil {
			utils.RespondWithAppError(w, err)
			return
		}
		if _, err := applicationCollection.UpdateOne(ctx, bson.M{"applicationId": app.ApplicationID}, update); err != nil {
			log.Printf("CreateApplication - section %s merge failed: %v", section, err)
			utils.RespondWithAppError(w, err)
			return
		}
	}

	if submit, _ := payload["submit"].(bool); submit {
		if err := submitApplication(ctx, app.ApplicationID, userID.Hex()); err != nil {
			utils.RespondWithAppError(w, err)
			return
		}
	}

	created, err := findCanonical(ctx, bson.M{"applicationId": app.ApplicationID})
	if err != nil || created == nil {
		log.Printf("CreateApplication - reload failed: %v", err)
		utils.RespondWithAppError(w, apperrors.StorageUnavailable("application created but could not be reloaded"))
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, withoutInternalComments(reconcile.FromApplication(*created)))
}

// SaveStep merges one wizard step's partial payload into the owned draft.
func SaveStep(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "user id required")
		return
	}

	vars := mux.Vars(r)
	step, err := strconv.Atoi(vars["step"])
	if err != nil {
		utils.RespondWithAppError(w, apperrors.ValidationFailed("step must be a number between 1 and 5"))
		return
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()

	app, err := findCanonical(ctx, idFilter(vars["id"]))
	if err != nil {
		log.Printf("SaveStep - lookup failed: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}
	if app == nil || app.UserID != userID {
		utils.RespondWithAppError(w, apperrors.NotFound("application not found"))
		return
	}
	if app.Status != models.StatusDraft {
		utils.RespondWithAppError(w, apperrors.InvalidTransition("application is %q and can no longer be edited", app.Status))
		return
	}

	update, err := steps.BuildUpdate(step, payload, time.Now())
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.LoanApplication
	err = applicationCollection.FindOneAndUpdate(ctx, bson.M{"_id": app.ID}, update, opts).Decode(&updated)
	if err != nil {
		log.Printf("SaveStep - update failed: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, withoutInternalComments(reconcile.FromApplication(updated)))
}

// submitApplication validates and applies the draft -> submitted transition.
// The status change, submittedAt stamp and history append ride one update.
func submitApplication(ctx context.Context, applicationID, actorID string) error {
	app, err := findCanonical(ctx, bson.M{"applicationId": applicationID})
	if err != nil {
		return err
	}
	if app == nil {
		return apperrors.NotFound("application not found")
	}

	update, err := workflow.BuildSubmitUpdate(app, time.Now())
	if err != nil {
		return err
	}

	// Filter on draft so a concurrent submit cannot apply twice.
	result, err := applicationCollection.UpdateOne(ctx,
		bson.M{"_id": app.ID, "status": models.StatusDraft}, update)
	if err != nil {
		return err
	}
	if result.ModifiedCount == 0 {
		return apperrors.InvalidTransition("only draft applications can be submitted")
	}

	websocket.SendApplicationSubmitted(app.UserID.Hex(), app.ApplicationID, actorID, "")
	return nil
}

// SubmitApplication moves an owned draft to submitted.
func SubmitApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "user id required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()

	app, err := findCanonical(ctx, idFilter(mux.Vars(r)["id"]))
	if err != nil {
		log.Printf("SubmitApplication - lookup failed: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}
	if app == nil || app.UserID != userID {
		utils.RespondWithAppError(w, apperrors.NotFound("application not found"))
		return
	}

	if err := submitApplication(ctx, app.ApplicationID, userID.Hex()); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	submitted, err := findCanonical(ctx, bson.M{"_id": app.ID})
	if err != nil || submitted == nil {
		utils.RespondWithAppError(w, apperrors.StorageUnavailable("application submitted but could not be reloaded"))
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, withoutInternalComments(reconcile.FromApplication(*submitted)))
}

// ListMyApplications returns the caller's applications from both stores as
// one reconciled, date-sorted list.
func ListMyApplications(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "user id required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()

	views := []reconcile.View{}

	cursor, err := applicationCollection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		log.Printf("ListMyApplications - canonical find failed: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}
	var apps []models.LoanApplication
	if err = cursor.All(ctx, &apps); err != nil {
		log.Printf("ListMyApplications - canonical decode failed: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}
	for _, app := range apps {
		views = append(views, withoutInternalComments(reconcile.FromApplication(app)))
	}

	legacyCursor, err := formCollection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		log.Printf("ListMyApplications - legacy find failed: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}
	var forms []models.Form
	if err = legacyCursor.All(ctx, &forms); err != nil {
		log.Printf("ListMyApplications - legacy decode failed: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}
	for _, form := range forms {
		views = append(views, withoutInternalComments(reconcile.FromForm(form)))
	}

	reconcile.SortViews(views, "createdAt", true)
	utils.RespondWithJSON(w, http.StatusOK, views)
}

// GetApplication returns one owned application, reconciled.
func GetApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "user id required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()

	app, form, err := findEither(ctx, mux.Vars(r)["id"])
	if err != nil {
		log.Printf("GetApplication - lookup failed: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	view, err := reconciledView(app, form)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	if view.UserID != userID.Hex() {
		utils.RespondWithAppError(w, apperrors.NotFound("application not found"))
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, withoutInternalComments(view))
}

// DeleteApplication removes an owned draft. Anything past draft is refused.
func DeleteApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "user id required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()

	app, err := findCanonical(ctx, idFilter(mux.Vars(r)["id"]))
	if err != nil {
		log.Printf("DeleteApplication - lookup failed: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}
	if app == nil || app.UserID != userID {
		utils.RespondWithAppError(w, apperrors.NotFound("application not found"))
		return
	}

	if err := workflow.ValidateDelete(app.Status); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	// Status rides the filter so a just-submitted application survives.
	result, err := applicationCollection.DeleteOne(ctx, bson.M{"_id": app.ID, "status": models.StatusDraft})
	if err != nil {
		log.Printf("DeleteApplication - delete failed: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondWithAppError(w, apperrors.InvalidTransition("only draft applications can be deleted"))
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "application deleted"})
}

type AddCommentRequest struct {
	Message string `json:"message"`
}

// AddComment appends a user-visible comment to an owned application.
// Comments never mutate status.
func AddComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "user id required")
		return
	}
	userName, _ := r.Context().Value("userName").(string)

	var req AddCommentRequest
	if err := utils.ParseJSON(r, &req); err != nil || req.Message == "" {
		utils.RespondWithAppError(w, apperrors.ValidationFailed("message is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()

	app, err := findCanonical(ctx, idFilter(mux.Vars(r)["id"]))
	if err != nil {
		log.Printf("AddComment - lookup failed: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}
	if app == nil || app.UserID != userID {
		utils.RespondWithAppError(w, apperrors.NotFound("application not found"))
		return
	}

	update := workflow.BuildCommentPush(req.Message, userName, false, time.Now(), "lastModifiedAt")
	if _, err := applicationCollection.UpdateOne(ctx, bson.M{"_id": app.ID}, update); err != nil {
		log.Printf("AddComment - update failed: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	websocket.SendCommentAdded(app.UserID.Hex(), app.ApplicationID, false, userID.Hex(), userName)
	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"message": "comment added"})
}
