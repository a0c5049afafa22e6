package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/harshitsaini01/incentum-main-sub000/apperrors"
	"github.com/harshitsaini01/incentum-main-sub000/pdfreport"
	"github.com/harshitsaini01/incentum-main-sub000/utils"
)

// ExportApplicationPDF renders the reconciled application as a PDF summary.
// Admins may export any record; users only their own.
func ExportApplicationPDF(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	app, form, err := findEither(ctx, mux.Vars(r)["id"])
	if err != nil {
		log.Printf("ExportApplicationPDF - lookup failed: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	if !canReadDocuments(r, app, form) {
		utils.RespondWithAppError(w, apperrors.NotFound("application not found"))
		return
	}

	view, err := reconciledView(app, form)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	// Internal comments stay off the export unless an admin asked for it.
	if _, isAdmin := principalFromContext(r); !isAdmin {
		view = withoutInternalComments(view)
	}

	pdf, err := pdfreport.Render(view)
	if err != nil {
		log.Printf("ExportApplicationPDF - render failed for %s: %v", view.ApplicationID, err)
		utils.RespondWithAppError(w, apperrors.StorageUnavailable("failed to render PDF"))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.Header().Set("Content-Disposition", `attachment; filename="application-`+view.ApplicationID+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		log.Printf("ExportApplicationPDF - write failed: %v", err)
	}
}
