package mongo

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bookshelf/library-system/internal/core/domain"
)

func TestOwnedBookFilter_MatchesIDAndOwner(t *testing.T) {
	assert.Equal(t, bson.M{"_id": "b1", "owner_id": "u1"}, ownedBookFilter("b1", "u1"))
}

func TestReturnFilter(t *testing.T) {
	event := domain.UpdateReturned{CheckoutID: "c1", BookID: "b1", ReturnedBy: "u2", ReturnedAt: time.Now()}

	assert.Equal(t, bson.M{"_id": "c1", "book_id": "b1", "active": true}, returnFilter(event))

	event.RestrictToBorrower = true
	assert.Equal(t, bson.M{"_id": "c1", "book_id": "b1", "active": true, "user_id": "u2"}, returnFilter(event))
}

func TestInsertCheckoutErr(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error index: active_checkout_per_book"}}}
	assert.True(t, errors.Is(insertCheckoutErr(dup), domain.ErrConflict))

	other := insertCheckoutErr(errors.New("connection reset"))
	assert.True(t, errors.Is(other, domain.ErrStorage))
	assert.False(t, errors.Is(other, domain.ErrConflict))
}

func TestBookPagePipeline_SkipAndLimit(t *testing.T) {
	pipeline := bookPagePipeline(domain.BookListOptions{Limit: 10, Offset: 20})
	require.Len(t, pipeline, 1)

	stage := pipeline[0][0]
	require.Equal(t, "$facet", stage.Key)
	facet := stage.Value.(bson.D)
	require.Equal(t, "total", facet[0].Key)
	require.Equal(t, "items", facet[1].Key)

	items := facet[1].Value.(bson.A)
	assert.Equal(t, bson.D{{Key: "$sort", Value: sortNewestFirst}}, items[0])
	assert.Equal(t, bson.D{{Key: "$skip", Value: int64(20)}}, items[1])
	assert.Equal(t, bson.D{{Key: "$limit", Value: int64(10)}}, items[2])
	assert.Equal(t, lookupActiveCheckout, items[3])
}

func TestCheckoutsPipeline_Order(t *testing.T) {
	pipeline := checkoutsPipeline(bson.M{"book_id": "b1"}, 1)
	require.Len(t, pipeline, 3)

	assert.Equal(t, bson.M{"book_id": "b1"}, pipeline[0][0].Value)
	assert.Equal(t, bson.D{{Key: "checked_out_at", Value: 1}, {Key: "_id", Value: 1}}, pipeline[1][0].Value)
	assert.Equal(t, "$lookup", pipeline[2][0].Key)
}
