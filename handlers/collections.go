package handlers

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harshitsaini01/incentum-main-sub000/appid"
	"github.com/harshitsaini01/incentum-main-sub000/database"
	"github.com/harshitsaini01/incentum-main-sub000/storage"
)

var (
	userCollection        *mongo.Collection
	adminCollection       *mongo.Collection
	applicationCollection *mongo.Collection
	formCollection        *mongo.Collection // legacy records, read-reconciled

	idGenerator *appid.Generator
	fileStorage storage.FileStorage
)

func InitCollections() {
	userCollection = database.Collection("users")
	adminCollection = database.Collection("admins")
	applicationCollection = database.Collection("loanapplications")
	formCollection = database.Collection("forms")

	idGenerator = appid.NewGenerator(appid.NewMongoStore(applicationCollection))
}

// InitStorage wires the upload store. Called from main after config loads.
func InitStorage(fs storage.FileStorage) {
	fileStorage = fs
}
