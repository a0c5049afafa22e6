package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/harshitsaini01/incentum-main-sub000/apperrors"
	"github.com/harshitsaini01/incentum-main-sub000/models"
	"github.com/harshitsaini01/incentum-main-sub000/reconcile"
	"github.com/harshitsaini01/incentum-main-sub000/utils"
	"github.com/harshitsaini01/incentum-main-sub000/websocket"
	"github.com/harshitsaini01/incentum-main-sub000/workflow"
)

// loadAllViews pulls both stores into one reconciled list. Filtering happens
// in memory so canonical and legacy records are treated uniformly and the
// sort/pagination runs over the unified set.
func loadAllViews(ctx context.Context) ([]reconcile.View, error) {
	views := []reconcile.View{}

	cursor, err := applicationCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var apps []models.LoanApplication
	if err = cursor.All(ctx, &apps); err != nil {
		return nil, err
	}
	for _, app := range apps {
		views = append(views, reconcile.FromApplication(app))
	}

	legacyCursor, err := formCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var forms []models.Form
	if err = legacyCursor.All(ctx, &forms); err != nil {
		return nil, err
	}
	for _, form := range forms {
		views = append(views, reconcile.FromForm(form))
	}

	return views, nil
}

func matchesStatus(view reconcile.View, requested string) bool {
	if requested == "" || requested == "all" {
		return true
	}
	if view.Status == requested {
		return true
	}
	for _, s := range workflow.ExpandStatusFilter(requested) {
		if view.Status == s {
			return true
		}
	}
	return false
}

// matchesSearch does a case-insensitive substring match over the fields an
// admin actually searches on.
func matchesSearch(view reconcile.View, search string) bool {
	for _, field := range []string{
		view.ApplicationID,
		view.PersonalDetails.FullName,
		view.PersonalDetails.Email,
		view.PersonalDetails.Phone,
	} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// AdminListApplications lists every application from both stores as one
// reconciled, sorted, paginated set.
func AdminListApplications(w http.ResponseWriter, r *http.Request) {
	if _, ok := principalFromContext(r); !ok {
		utils.RespondWithError(w, http.StatusForbidden, "admin access required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	views, err := loadAllViews(ctx)
	if err != nil {
		log.Printf("AdminListApplications - load failed: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	query := r.URL.Query()
	status := query.Get("status")
	loanType := query.Get("loanType")
	search := strings.ToLower(strings.TrimSpace(query.Get("search")))

	filtered := views[:0]
	for _, v := range views {
		if !matchesStatus(v, status) {
			continue
		}
		if loanType != "" && loanType != "all" && v.LoanType != loanType {
			continue
		}
		if search != "" && !matchesSearch(v, search) {
			continue
		}
		filtered = append(filtered, v)
	}

	sortBy := query.Get("sortBy")
	if sortBy == "" {
		sortBy = "createdAt"
	}
	descending := query.Get("order") != "asc"

	// Sort then slice the combined set; per-source pagination would put the
	// page boundaries in the wrong place.
	reconcile.SortViews(filtered, sortBy, descending)

	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))
	pageViews, total := reconcile.Paginate(filtered, page, limit)

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"applications": pageViews,
		"total":        total,
		"page":         page,
		"limit":        limit,
	})
}

// AdminGetApplication returns one application with internal comments intact.
func AdminGetApplication(w http.ResponseWriter, r *http.Request) {
	if _, ok := principalFromContext(r); !ok {
		utils.RespondWithError(w, http.StatusForbidden, "admin access required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()

	app, form, err := findEither(ctx, mux.Vars(r)["id"])
	if err != nil {
		log.Printf("AdminGetApplication - lookup failed: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	view, err := reconciledView(app, form)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, view)
}

type UpdateStatusRequest struct {
	Status         string   `json:"status"`
	Comments       string   `json:"comments,omitempty"`
	ApprovedAmount *float64 `json:"approvedAmount,omitempty"`
}

// AdminUpdateStatus applies a status transition to whichever store holds the
// id: canonical first, legacy only as the fallback. The transition never
// creates a record in the other store.
func AdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r)
	if !ok {
		utils.RespondWithError(w, http.StatusForbidden, "admin access required")
		return
	}

	var req UpdateStatusRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()

	app, form, err := findEither(ctx, mux.Vars(r)["id"])
	if err != nil {
		log.Printf("AdminUpdateStatus - lookup failed: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}
	if app == nil && form == nil {
		utils.RespondWithAppError(w, apperrors.NotFound("application not found"))
		return
	}

	change := workflow.Change{
		Next:           req.Status,
		Actor:          principal.AdminID,
		Remarks:        req.Comments,
		ApprovedAmount: req.ApprovedAmount,
	}

	var ownerID, applicationID, oldStatus string

	if app != nil {
		change.Current = app.Status
		change.RequestedAmount = app.LoanSpecificDetails.LoanAmountRequired
		ownerID = app.UserID.Hex()
		applicationID = app.ApplicationID
		oldStatus = app.Status

		update, err := workflow.BuildUpdate(change, time.Now(), "lastModifiedAt")
		if err != nil {
			utils.RespondWithAppError(w, err)
			return
		}
		// Current status rides the filter: a concurrent transition loses.
		result, err := applicationCollection.UpdateOne(ctx, bson.M{"_id": app.ID, "status": app.Status}, update)
		if err != nil {
			log.Printf("AdminUpdateStatus - canonical update failed: %v", err)
			utils.RespondWithAppError(w, err)
			return
		}
		if result.ModifiedCount == 0 {
			utils.RespondWithAppError(w, apperrors.InvalidTransition("application status changed concurrently, retry"))
			return
		}
	} else {
		view := reconcile.FromForm(*form)
		change.Current = view.Status
		change.RequestedAmount = view.LoanAmount
		ownerID = view.UserID
		applicationID = view.ApplicationID
		oldStatus = view.Status

		update, err := workflow.BuildUpdate(change, time.Now(), "updatedAt")
		if err != nil {
			utils.RespondWithAppError(w, err)
			return
		}
		result, err := formCollection.UpdateOne(ctx, legacyUpdateFilter(form), update)
		if err != nil {
			log.Printf("AdminUpdateStatus - legacy update failed: %v", err)
			utils.RespondWithAppError(w, err)
			return
		}
		if result.ModifiedCount == 0 {
			utils.RespondWithAppError(w, apperrors.InvalidTransition("application status changed concurrently, retry"))
			return
		}
	}

	websocket.SendStatusChange(ownerID, applicationID, oldStatus, req.Status, principal.AdminID, principal.Name)

	updatedApp, updatedForm, err := findEither(ctx, applicationID)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	view, err := reconciledView(updatedApp, updatedForm)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, view)
}

type AdminCommentRequest struct {
	Message    string `json:"message"`
	IsInternal bool   `json:"isInternal"`
}

// AdminAddComment appends an admin comment to whichever store holds the id.
func AdminAddComment(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r)
	if !ok {
		utils.RespondWithError(w, http.StatusForbidden, "admin access required")
		return
	}

	var req AdminCommentRequest
	if err := utils.ParseJSON(r, &req); err != nil || req.Message == "" {
		utils.RespondWithAppError(w, apperrors.ValidationFailed("message is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()

	app, form, err := findEither(ctx, mux.Vars(r)["id"])
	if err != nil {
		log.Printf("AdminAddComment - lookup failed: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	switch {
	case app != nil:
		update := workflow.BuildCommentPush(req.Message, principal.Name, req.IsInternal, time.Now(), "lastModifiedAt")
		if _, err := applicationCollection.UpdateOne(ctx, bson.M{"_id": app.ID}, update); err != nil {
			log.Printf("AdminAddComment - canonical update failed: %v", err)
			utils.RespondWithAppError(w, err)
			return
		}
		websocket.SendCommentAdded(app.UserID.Hex(), app.ApplicationID, req.IsInternal, principal.AdminID, principal.Name)
	case form != nil:
		update := workflow.BuildCommentPush(req.Message, principal.Name, req.IsInternal, time.Now(), "updatedAt")
		if _, err := formCollection.UpdateOne(ctx, bson.M{"_id": form.ID}, update); err != nil {
			log.Printf("AdminAddComment - legacy update failed: %v", err)
			utils.RespondWithAppError(w, err)
			return
		}
		view := reconcile.FromForm(*form)
		websocket.SendCommentAdded(view.UserID, view.ApplicationID, req.IsInternal, principal.AdminID, principal.Name)
	default:
		utils.RespondWithAppError(w, apperrors.NotFound("application not found"))
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"message": "comment added"})
}

// AdminDashboard summarizes both stores: counts by status and loan type plus
// the most recent submissions.
func AdminDashboard(w http.ResponseWriter, r *http.Request) {
	if _, ok := principalFromContext(r); !ok {
		utils.RespondWithError(w, http.StatusForbidden, "admin access required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	views, err := loadAllViews(ctx)
	if err != nil {
		log.Printf("AdminDashboard - load failed: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	byStatus := map[string]int{}
	byLoanType := map[string]int{}
	for _, v := range views {
		byStatus[v.Status]++
		if v.LoanType != "" {
			byLoanType[v.LoanType]++
		}
	}

	reconcile.SortViews(views, "createdAt", true)
	recent, _ := reconcile.Paginate(views, 1, 5)

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"total":      len(views),
		"byStatus":   byStatus,
		"byLoanType": byLoanType,
		"recent":     recent,
	})
}

// AdminVerifyDocument toggles the verified flag on a canonical document.
func AdminVerifyDocument(w http.ResponseWriter, r *http.Request) {
	if _, ok := principalFromContext(r); !ok {
		utils.RespondWithError(w, http.StatusForbidden, "admin access required")
		return
	}

	vars := mux.Vars(r)

	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()

	app, err := findCanonical(ctx, idFilter(vars["id"]))
	if err != nil {
		log.Printf("AdminVerifyDocument - lookup failed: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}
	if app == nil {
		utils.RespondWithAppError(w, apperrors.NotFound("application not found"))
		return
	}

	docID := vars["docId"]
	now := time.Now()

	// Main applicant documents use the positional operator; co-applicant
	// documents need their exact nested index.
	result, err := applicationCollection.UpdateOne(ctx,
		bson.M{"_id": app.ID, "documents.documentId": docID},
		bson.M{"$set": bson.M{"documents.$.verified": true, "lastModifiedAt": now}})
	if err != nil {
		log.Printf("AdminVerifyDocument - update failed: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}
	if result.ModifiedCount == 0 {
		for i, ca := range app.CoApplicants {
			for j, d := range ca.Documents {
				if d.DocumentID == docID {
					field := "coApplicants." + strconv.Itoa(i) + ".documents." + strconv.Itoa(j) + ".verified"
					_, err = applicationCollection.UpdateOne(ctx, bson.M{"_id": app.ID},
						bson.M{"$set": bson.M{field: true, "lastModifiedAt": now}})
					if err != nil {
						utils.RespondWithAppError(w, err)
						return
					}
					utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "document verified"})
					return
				}
			}
		}
		utils.RespondWithAppError(w, apperrors.NotFound("document not found"))
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "document verified"})
}
