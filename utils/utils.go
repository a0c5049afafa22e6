// utils/utils.go
package utils

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/harshitsaini01/incentum-main-sub000/apperrors"
)

// ParseJSON decodes the request body into v.
func ParseJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]string{"error": message})
}

// RespondWithAppError maps a structured application error to HTTP. Anything
// that is not an apperrors.Error is logged and reported as an internal error.
func RespondWithAppError(w http.ResponseWriter, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Kind == apperrors.KindStorageUnavailable {
		log.Printf("internal error: %v", err)
		RespondWithJSON(w, apperrors.HTTPStatus(apperrors.KindStorageUnavailable), map[string]string{
			"kind":  string(apperrors.KindStorageUnavailable),
			"error": "internal server error",
		})
		return
	}
	RespondWithJSON(w, apperrors.HTTPStatus(appErr.Kind), map[string]string{
		"kind":  string(appErr.Kind),
		"error": appErr.Message,
	})
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
