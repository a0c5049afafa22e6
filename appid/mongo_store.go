package appid

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore looks up the day's largest assigned id in the applications
// collection.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) MaxIDForPrefix(ctx context.Context, prefix string) (string, error) {
	filter := bson.M{"applicationId": bson.M{"$regex": "^" + prefix}}
	opts := options.FindOne().
		SetSort(bson.D{{Key: "applicationId", Value: -1}}).
		SetProjection(bson.M{"applicationId": 1})

	var doc struct {
		ApplicationID string `bson:"applicationId"`
	}
	err := s.coll.FindOne(ctx, filter, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return doc.ApplicationID, nil
}
