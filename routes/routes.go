package routes

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/harshitsaini01/incentum-main-sub000/handlers"
	"github.com/harshitsaini01/incentum-main-sub000/middleware"
)

// HTTP method constants for better maintainability
var (
	MethodsGetOnly    = []string{"GET", "OPTIONS"}
	MethodsPostOnly   = []string{"POST", "OPTIONS"}
	MethodsPutOnly    = []string{"PUT", "OPTIONS"}
	MethodsDeleteOnly = []string{"DELETE", "OPTIONS"}
)

// Route grouping constants
const (
	PathAPI    = "/api"
	PathAdmin  = "/api/admin"
	PathHealth = "/health"
)

func RegisterRoutes(r *mux.Router) {
	// ====================
	// HEALTH CHECK (Public)
	// ====================
	r.HandleFunc(PathHealth, handlers.HealthCheck).Methods(MethodsGetOnly...)

	// ====================
	// AUTHENTICATION ROUTES (Public - No auth required)
	// ====================
	r.HandleFunc("/api/auth/register", handlers.Register).Methods(MethodsPostOnly...)
	r.HandleFunc("/api/auth/login", handlers.Login).Methods(MethodsPostOnly...)
	r.HandleFunc("/api/auth/admin/login", handlers.AdminLogin).Methods(MethodsPostOnly...)

	// ====================
	// WEBSOCKET (token via query param)
	// ====================
	r.Handle("/ws", middleware.OptionalAuth(http.HandlerFunc(handlers.WebSocketEndpoint))).Methods("GET")

	// ====================
	// ADMIN API ROUTES (Require admin authentication)
	// ====================
	// Registered before the user subrouter so /api/admin/* never falls
	// through to the user middleware.
	adminRouter := r.PathPrefix(PathAdmin).Subrouter()
	adminRouter.Use(middleware.AdminAuthMiddleware)

	adminRouter.HandleFunc("/dashboard", handlers.AdminDashboard).Methods(MethodsGetOnly...)

	adminRouter.HandleFunc("/applications", handlers.AdminListApplications).Methods(MethodsGetOnly...)
	adminRouter.HandleFunc("/applications/{id}", handlers.AdminGetApplication).Methods(MethodsGetOnly...)
	adminRouter.HandleFunc("/applications/{id}/status", handlers.AdminUpdateStatus).Methods(MethodsPutOnly...)
	adminRouter.HandleFunc("/applications/{id}/comments", handlers.AdminAddComment).Methods(MethodsPostOnly...)
	adminRouter.HandleFunc("/applications/{id}/documents/{docId}", handlers.DownloadDocument).Methods(MethodsGetOnly...)
	adminRouter.HandleFunc("/applications/{id}/documents/{docId}/verify", handlers.AdminVerifyDocument).Methods(MethodsPutOnly...)
	adminRouter.HandleFunc("/applications/{id}/document", handlers.GetDocumentByType).Methods(MethodsGetOnly...)
	adminRouter.HandleFunc("/applications/{id}/pdf", handlers.ExportApplicationPDF).Methods(MethodsGetOnly...)

	// ====================
	// USER API ROUTES (Require user authentication)
	// ====================
	apiRouter := r.PathPrefix(PathAPI).Subrouter()
	apiRouter.Use(middleware.AuthMiddleware)

	apiRouter.HandleFunc("/applications", handlers.CreateApplication).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/applications", handlers.ListMyApplications).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/applications/{id}", handlers.GetApplication).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/applications/{id}", handlers.DeleteApplication).Methods(MethodsDeleteOnly...)
	apiRouter.HandleFunc("/applications/{id}/steps/{step:[0-9]+}", handlers.SaveStep).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/applications/{id}/submit", handlers.SubmitApplication).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/applications/{id}/comments", handlers.AddComment).Methods(MethodsPostOnly...)

	apiRouter.HandleFunc("/applications/{id}/documents", handlers.UploadDocument).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/applications/{id}/documents/{docId}", handlers.DownloadDocument).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/applications/{id}/document", handlers.GetDocumentByType).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/applications/{id}/pdf", handlers.ExportApplicationPDF).Methods(MethodsGetOnly...)

	// Debug: Print all registered routes
	r.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		t, err := route.GetPathTemplate()
		if err == nil {
			methods, _ := route.GetMethods()
			fmt.Printf("Route: %s %s\n", strings.Join(methods, ","), t)
		}
		return nil
	})
}
