package handlers

import (
	"context"
	"io"
	"log"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/harshitsaini01/incentum-main-sub000/apperrors"
	"github.com/harshitsaini01/incentum-main-sub000/config"
	"github.com/harshitsaini01/incentum-main-sub000/documents"
	"github.com/harshitsaini01/incentum-main-sub000/models"
	"github.com/harshitsaini01/incentum-main-sub000/utils"
	"github.com/harshitsaini01/incentum-main-sub000/workflow"
)

const maxUploadBytes = 10 << 20 // 10 MB

// UploadDocument accepts a multipart upload for an owned draft application.
// Legacy records do not take new uploads; the record must exist in the
// primary store.
func UploadDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.RespondWithAppError(w, apperrors.ValidationFailed("invalid multipart payload"))
		return
	}

	docType := r.FormValue("documentType")
	if docType == "" {
		utils.RespondWithAppError(w, apperrors.ValidationFailed("documentType is required"))
		return
	}

	applicantIndex := 0
	if raw := r.FormValue("applicantIndex"); raw != "" {
		idx, err := strconv.Atoi(raw)
		if err != nil || idx < 0 {
			utils.RespondWithAppError(w, apperrors.ValidationFailed("applicantIndex must be a non-negative integer"))
			return
		}
		applicantIndex = idx
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.RespondWithAppError(w, apperrors.ValidationFailed("file is required"))
		return
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		utils.RespondWithAppError(w, apperrors.ValidationFailed("file exceeds the 10 MB limit"))
		return
	}

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		log.Printf("UploadDocument - read failed: %v", err)
		utils.RespondWithAppError(w, apperrors.StorageUnavailable("failed to read upload"))
		return
	}
	if len(content) > maxUploadBytes {
		utils.RespondWithAppError(w, apperrors.ValidationFailed("file exceeds the 10 MB limit"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	app, err := findCanonical(ctx, idFilter(mux.Vars(r)["id"]))
	if err != nil {
		log.Printf("UploadDocument - lookup failed: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}
	if app == nil {
		utils.RespondWithAppError(w, apperrors.NotFound("application not found"))
		return
	}
	if app.UserID != userID {
		utils.RespondWithAppError(w, apperrors.NotFound("application not found"))
		return
	}
	if err := workflow.ValidateUpload(app.Status); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	if applicantIndex > len(app.CoApplicants) {
		utils.RespondWithAppError(w, apperrors.ValidationFailed("applicantIndex out of range"))
		return
	}

	relPath, err := fileStorage.SaveUpload(app.ApplicationID, header.Filename, content)
	if err != nil {
		log.Printf("UploadDocument - save failed for %s: %v", app.ApplicationID, err)
		utils.RespondWithAppError(w, apperrors.StorageUnavailable("failed to store upload"))
		return
	}

	doc := models.Document{
		DocumentID:   uuid.NewString(),
		DocumentType: docType,
		FileName:     header.Filename,
		FilePath:     relPath,
		UploadedAt:   time.Now(),
	}

	field := "documents"
	if applicantIndex > 0 {
		field = "coApplicants." + strconv.Itoa(applicantIndex-1) + ".documents"
	}

	update := bson.M{
		"$push": bson.M{field: doc},
		"$set":  bson.M{"lastModifiedAt": time.Now()},
	}
	if _, err := applicationCollection.UpdateOne(ctx, bson.M{"_id": app.ID}, update); err != nil {
		log.Printf("UploadDocument - update failed for %s: %v", app.ApplicationID, err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, doc)
}

// DownloadDocument serves a stored document by its id. Admins may fetch any
// document; users only their own. Every failure renders the same not-found
// shape so the route never leaks which part of the lookup missed.
func DownloadDocument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()

	app, form, err := findEither(ctx, vars["id"])
	if err != nil {
		log.Printf("DownloadDocument - lookup failed: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	if !canReadDocuments(r, app, form) {
		utils.RespondWithAppError(w, apperrors.NotFound("document not found"))
		return
	}

	resolved, found := documents.ResolveByID(app, form, vars["docId"])
	if !found {
		utils.RespondWithAppError(w, apperrors.NotFound("document not found"))
		return
	}

	serveResolved(w, resolved)
}

// GetDocumentByType serves a document addressed by documentType and
// applicantIndex query parameters instead of a stored id. Legacy records have
// no per-document ids, so this is the only stable address they offer.
func GetDocumentByType(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()

	app, form, err := findEither(ctx, mux.Vars(r)["id"])
	if err != nil {
		log.Printf("GetDocumentByType - lookup failed: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	if !canReadDocuments(r, app, form) {
		utils.RespondWithAppError(w, apperrors.NotFound("document not found"))
		return
	}

	docType := r.URL.Query().Get("documentType")
	applicantIndex := 0
	if raw := r.URL.Query().Get("applicantIndex"); raw != "" {
		idx, err := strconv.Atoi(raw)
		if err != nil || idx < 0 {
			utils.RespondWithAppError(w, apperrors.NotFound("document not found"))
			return
		}
		applicantIndex = idx
	}

	resolved, found := documents.ResolveByType(app, form, docType, applicantIndex)
	if !found {
		utils.RespondWithAppError(w, apperrors.NotFound("document not found"))
		return
	}

	serveResolved(w, resolved)
}

// canReadDocuments allows admins unconditionally and owners of the record.
func canReadDocuments(r *http.Request, app *models.LoanApplication, form *models.Form) bool {
	if app == nil && form == nil {
		return false
	}
	if _, isAdmin := principalFromContext(r); isAdmin {
		return true
	}
	userID, ok := userIDFromContext(r)
	if !ok {
		return false
	}
	if app != nil {
		return app.UserID == userID
	}
	return form.UserID == userID
}

func serveResolved(w http.ResponseWriter, resolved documents.Resolved) {
	fullPath, err := documents.ConfinePath(config.UploadDir, resolved.FilePath)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	f, err := os.Open(fullPath)
	if err != nil {
		log.Printf("serveResolved - open %s failed: %v", fullPath, err)
		utils.RespondWithAppError(w, apperrors.NotFound("document not found"))
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		utils.RespondWithAppError(w, apperrors.NotFound("document not found"))
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(resolved.FileName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	w.Header().Set("Content-Disposition", `attachment; filename="`+resolved.FileName+`"`)
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, f); err != nil {
		log.Printf("serveResolved - stream %s failed: %v", fullPath, err)
	}
}
