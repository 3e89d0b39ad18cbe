package reviewRepo

import (
	"testing"
	"time"

	"homeserve/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestUpsertUpdateKeepsIdentityOnInsertOnly(t *testing.T) {
	now := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	review := &models.Review{ID: "r1", BookingID: "b1", UserID: "u1", WorkerID: "w1", Rating: 4, Comment: "tidy"}

	update := upsertUpdate(review, now)

	set := update["$set"].(bson.M)
	assert.Equal(t, 4, set["rating"])
	assert.Equal(t, "tidy", set["comment"])
	assert.Equal(t, now, set["updatedAt"])
	assert.NotContains(t, set, "id")
	assert.NotContains(t, set, "createdAt")

	onInsert := update["$setOnInsert"].(bson.M)
	assert.Equal(t, "r1", onInsert["id"])
	assert.Equal(t, "b1", onInsert["bookingId"])
	assert.Equal(t, now, onInsert["createdAt"])
}
