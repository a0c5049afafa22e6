package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshitsaini01/incentum-main-sub000/models"
)

func TestIDFilter(t *testing.T) {
	t.Run("plain application id", func(t *testing.T) {
		filter := idFilter("2608280001")
		assert.Equal(t, bson.M{"applicationId": "2608280001"}, filter)
	})

	t.Run("hex id matches either key", func(t *testing.T) {
		oid := primitive.NewObjectID()
		filter := idFilter(oid.Hex())

		or, ok := filter["$or"].([]bson.M)
		require.True(t, ok)
		require.Len(t, or, 2)
		assert.Equal(t, bson.M{"applicationId": oid.Hex()}, or[0])
		assert.Equal(t, bson.M{"_id": oid}, or[1])
	})
}

func TestLegacyUpdateFilter(t *testing.T) {
	t.Run("stored status rides the filter", func(t *testing.T) {
		form := &models.Form{ID: primitive.NewObjectID(), Status: models.StatusSubmitted}
		filter := legacyUpdateFilter(form)
		assert.Equal(t, bson.M{"_id": form.ID, "status": models.StatusSubmitted}, filter)
	})

	t.Run("raw legacy alias is matched verbatim", func(t *testing.T) {
		// the reconciled view says submitted, but the record on disk still
		// says pending; the guard must match the disk value
		form := &models.Form{ID: primitive.NewObjectID(), Status: "pending"}
		filter := legacyUpdateFilter(form)
		assert.Equal(t, bson.M{"_id": form.ID, "status": "pending"}, filter)
	})

	t.Run("missing status still matches", func(t *testing.T) {
		form := &models.Form{ID: primitive.NewObjectID()}
		filter := legacyUpdateFilter(form)

		assert.Equal(t, form.ID, filter["_id"])
		or, ok := filter["$or"].([]bson.M)
		require.True(t, ok)
		require.Len(t, or, 2)
		assert.Equal(t, bson.M{"status": ""}, or[0])
		assert.Equal(t, bson.M{"status": bson.M{"$exists": false}}, or[1])
	})
}
