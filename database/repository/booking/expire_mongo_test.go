package bookingRepo

import (
	"context"
	"testing"
	"time"

	"homeserve/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestExpirePendingSkipsBookingsAcceptedMeanwhile(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("only changed bookings are returned", func(mt *mtest.T) {
		repo := &MongoBookingRepo{coll: mt.Coll}
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				bson.D{{Key: "id", Value: "b1"}},
				bson.D{{Key: "id", Value: "b2"}},
			),
			// b1 is still pending and gets expired.
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
				{Key: "id", Value: "b1"},
				{Key: "userId", Value: "u1"},
				{Key: "status", Value: models.BookingExpired},
			}}),
			// b2 was accepted after the read; the status filter no longer matches.
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
		)

		expired, err := repo.ExpirePending(context.Background(), time.Now())
		require.NoError(mt, err)
		require.Len(mt, expired, 1)
		assert.Equal(mt, "b1", expired[0].ID)
		assert.Equal(mt, models.BookingExpired, expired[0].Status)
	})

	mt.Run("nothing stale", func(mt *mtest.T) {
		repo := &MongoBookingRepo{coll: mt.Coll}
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		expired, err := repo.ExpirePending(context.Background(), time.Now())
		require.NoError(mt, err)
		assert.Empty(mt, expired)
	})
}
