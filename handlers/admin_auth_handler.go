package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harshitsaini01/incentum-main-sub000/config"
	"github.com/harshitsaini01/incentum-main-sub000/models"
	"github.com/harshitsaini01/incentum-main-sub000/utils"
)

// AdminLogin authenticates against the admins collection, falling back to the
// bootstrap admin configured via environment. The bootstrap identity has no
// database row; its token carries the bootstrap sentinel subject.
func AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var admin models.Admin
	err := adminCollection.FindOne(ctx, bson.M{"email": req.Email}).Decode(&admin)
	if err == nil {
		if !utils.CheckPasswordHash(req.Password, admin.PasswordHash) {
			utils.RespondWithError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		issueAdminToken(w, admin.ID.Hex(), admin.Name)
		return
	}
	if err != mongo.ErrNoDocuments {
		log.Printf("AdminLogin - lookup failed: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	// No database admin with that email: check the bootstrap identity.
	if req.Email == strings.ToLower(config.BootstrapEmail) && req.Password == config.BootstrapSecret {
		issueAdminToken(w, models.BootstrapAdminID, config.BootstrapName)
		return
	}

	utils.RespondWithError(w, http.StatusUnauthorized, "invalid email or password")
}

func issueAdminToken(w http.ResponseWriter, adminID, name string) {
	token, err := utils.GenerateJWT(adminID, name, "admin")
	if err != nil {
		log.Printf("AdminLogin - token generation failed: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"admin": map[string]string{
			"id":   adminID,
			"name": name,
		},
	})
}
