package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshitsaini01/incentum-main-sub000/config"
	"github.com/harshitsaini01/incentum-main-sub000/database"
	"github.com/harshitsaini01/incentum-main-sub000/models"
	"github.com/harshitsaini01/incentum-main-sub000/utils"
)

// Context keys set by the auth middlewares.
const (
	CtxUserID    = "userID"
	CtxUserName  = "userName"
	CtxUserRole  = "userRole"
	CtxPrincipal = "principal"
)

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(authHeader, "Bearer "), true
}

// AuthMiddleware authenticates portal users (loan applicants).
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip authentication for WebSocket upgrade requests
		if r.Header.Get("Upgrade") == "websocket" {
			next.ServeHTTP(w, r)
			return
		}

		tokenString, ok := bearerToken(r)
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
			return
		}

		claims, err := utils.ValidateJWT(tokenString)
		if err != nil {
			log.Printf("AuthMiddleware: JWT validation failed: %v", err)
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		if claims.Role != "user" {
			utils.RespondWithError(w, http.StatusForbidden, "User token required")
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID in token")
			return
		}

		var user models.User
		err = database.Collection("users").FindOne(r.Context(), bson.M{"_id": userID}).Decode(&user)
		if err != nil {
			log.Printf("AuthMiddleware: user %s not found: %v", claims.UserID, err)
			utils.RespondWithError(w, http.StatusUnauthorized, "User not found")
			return
		}

		ctx := context.WithValue(r.Context(), CtxUserID, claims.UserID)
		ctx = context.WithValue(ctx, CtxUserName, user.FullName)
		ctx = context.WithValue(ctx, CtxUserRole, "user")

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminAuthMiddleware authenticates admins and resolves the acting Principal:
// a database admin record, or the env-configured bootstrap admin that has no
// admins-collection row.
func AdminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Upgrade") == "websocket" {
			next.ServeHTTP(w, r)
			return
		}

		tokenString, ok := bearerToken(r)
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
			return
		}

		claims, err := utils.ValidateJWT(tokenString)
		if err != nil {
			log.Printf("AdminAuthMiddleware: JWT validation failed: %v", err)
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		if claims.Role != "admin" {
			utils.RespondWithError(w, http.StatusForbidden, "Admin token required")
			return
		}

		var principal models.Principal
		if claims.UserID == models.BootstrapAdminID {
			principal = models.BootstrapPrincipal(config.BootstrapName)
		} else {
			adminID, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				utils.RespondWithError(w, http.StatusBadRequest, "Invalid admin ID in token")
				return
			}
			var admin models.Admin
			err = database.Collection("admins").FindOne(r.Context(), bson.M{"_id": adminID}).Decode(&admin)
			if err != nil {
				log.Printf("AdminAuthMiddleware: admin %s not found: %v", claims.UserID, err)
				utils.RespondWithError(w, http.StatusUnauthorized, "Admin not found")
				return
			}
			principal = models.DatabasePrincipal(admin)
		}

		ctx := context.WithValue(r.Context(), CtxPrincipal, principal)
		ctx = context.WithValue(ctx, CtxUserRole, "admin")

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth attaches identity when a valid token is present but lets
// unauthenticated requests through (used by the websocket endpoint).
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := bearerToken(r)
		if !ok {
			// websocket clients cannot set headers; accept a token query param
			tokenString = r.URL.Query().Get("token")
			ok = tokenString != ""
		}
		if ok {
			if claims, err := utils.ValidateJWT(tokenString); err == nil {
				ctx := context.WithValue(r.Context(), CtxUserID, claims.UserID)
				ctx = context.WithValue(ctx, CtxUserName, claims.Name)
				ctx = context.WithValue(ctx, CtxUserRole, claims.Role)
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}
