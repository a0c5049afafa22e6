// config/config.go
package config

import (
	"log"
	"os"
	"time"
)

var (
	Port            string
	MongoURI        string
	DatabaseName    string
	JWTKey          []byte
	JWTExpiration   time.Duration
	UploadDir       string
	BootstrapEmail  string
	BootstrapSecret string
	BootstrapName   string
)

func LoadConfig() {
	Port = os.Getenv("PORT")
	if Port == "" {
		Port = "8080"
	}

	MongoURI = os.Getenv("MONGO_URI")
	if MongoURI == "" {
		MongoURI = "mongodb://localhost:27017"
	}

	DatabaseName = os.Getenv("DB_NAME")
	if DatabaseName == "" {
		DatabaseName = "incentum"
	}

	JWTKey = []byte(os.Getenv("JWT_SECRET"))
	if len(JWTKey) == 0 {
		JWTKey = []byte("secret")
	}

	expireStr := os.Getenv("JWT_EXPIRE")
	dur := 24 * time.Hour
	if expireStr != "" {
		if expireStr == "7d" {
			dur = 7 * 24 * time.Hour
		} else {
			var err error
			dur, err = time.ParseDuration(expireStr)
			if err != nil {
				log.Printf("Invalid JWT_EXPIRE: %s, using 24h", expireStr)
				dur = 24 * time.Hour
			}
		}
	}
	JWTExpiration = dur

	UploadDir = os.Getenv("UPLOAD_DIR")
	if UploadDir == "" {
		UploadDir = "./uploads"
	}

	// Bootstrap admin works without an admins-collection row.
	BootstrapEmail = os.Getenv("ADMIN_EMAIL")
	if BootstrapEmail == "" {
		BootstrapEmail = "admin@incentum.local"
	}
	BootstrapSecret = os.Getenv("ADMIN_PASSWORD")
	if BootstrapSecret == "" {
		BootstrapSecret = "admin123"
	}
	BootstrapName = os.Getenv("ADMIN_NAME")
	if BootstrapName == "" {
		BootstrapName = "Administrator"
	}
}
