package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/sp23/transit-system/internal/core/domain"
)

func TestAuditRepository_InsertEvent(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewAuditRepository(mt.DB)

		err := repo.InsertEvent(context.Background(), &domain.AuditEvent{
			Action:   domain.AuditStationDelete,
			ActorID:  2,
			TargetID: 4,
			At:       time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		})
		require.NoError(t, err)

		started := mt.GetStartedEvent()
		require.NotNil(t, started)
		assert.Equal(t, "insert", started.CommandName)

		docs := started.Command.Lookup("documents").Array()
		first := docs.Index(0).Value().Document()
		assert.Equal(t, "station.delete", first.Lookup("action").StringValue())
		_, hasDetail := first.Lookup("detail").StringValueOK()
		assert.False(t, hasDetail)
	})

	mt.Run("write error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key",
		}))
		repo := NewAuditRepository(mt.DB)

		err := repo.InsertEvent(context.Background(), &domain.AuditEvent{Action: domain.AuditLogin})
		assert.Error(t, err)
	})
}

func TestAuditRepository_EnsureIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("creates indexes", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "createdCollectionAutomatically", Value: true}))
		repo := NewAuditRepository(mt.DB)

		require.NoError(t, repo.EnsureIndexes(context.Background()))
		started := mt.GetStartedEvent()
		require.NotNil(t, started)
		assert.Equal(t, "createIndexes", started.CommandName)
	})
}
