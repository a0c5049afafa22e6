package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harshitsaini01/incentum-main-sub000/apperrors"
	"github.com/harshitsaini01/incentum-main-sub000/models"
	"github.com/harshitsaini01/incentum-main-sub000/utils"
)

type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a portal user account.
func Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" || strings.TrimSpace(req.FullName) == "" {
		utils.RespondWithAppError(w, apperrors.ValidationFailed("fullName, email and password are required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	count, err := userCollection.CountDocuments(ctx, bson.M{"email": req.Email})
	if err != nil {
		log.Printf("Register - duplicate check failed: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}
	if count > 0 {
		utils.RespondWithAppError(w, apperrors.Conflict("an account with email %s already exists", req.Email))
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("Register - hash failed: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	user := models.User{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	result, err := userCollection.InsertOne(ctx, user)
	if err != nil {
		log.Printf("Register - insert failed: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	userID := result.InsertedID.(primitive.ObjectID).Hex()
	token, err := utils.GenerateJWT(userID, user.FullName, "user")
	if err != nil {
		log.Printf("Register - token generation failed: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"token": token,
		"user": map[string]string{
			"id":       userID,
			"fullName": user.FullName,
			"email":    user.Email,
		},
	})
}

// Login authenticates a portal user and issues a JWT.
func Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	err := userCollection.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if err != nil {
		log.Printf("Login - lookup failed: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.FullName, "user")
	if err != nil {
		log.Printf("Login - token generation failed: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user": map[string]string{
			"id":       user.ID.Hex(),
			"fullName": user.FullName,
			"email":    user.Email,
		},
	})
}
