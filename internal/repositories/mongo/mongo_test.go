package mongo

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/chainchat/backend/internal/models"
	"github.com/chainchat/backend/internal/repositories"
	"github.com/chainchat/backend/internal/utils"
)

func mockDB(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func freezeNow(t testing.TB, ms int64) {
	prev := now
	now = func() int64 { return ms }
	t.Cleanup(func() { now = prev })
}

func TestUserRepo(t *testing.T) {
	mt := mockDB(t)

	mt.Run("add stamps timestamps", func(mt *mtest.T) {
		freezeNow(mt.T, 1000)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		u, err := NewUserRepo(mt.DB).AddUser(context.Background(), models.NewUser{ID: "did:privy:1", Username: "satoshi"})
		require.NoError(mt, err)
		assert.Equal(mt, int64(1000), u.CreatedAt)
		assert.Equal(mt, int64(1000), u.UpdatedAt)
	})

	mt.Run("get missing", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + UsersCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := NewUserRepo(mt.DB).GetUser(context.Background(), "nobody")
		assert.ErrorIs(mt, err, utils.ErrNotFound)
	})

	mt.Run("update username unmatched", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		ok, err := NewUserRepo(mt.DB).UpdateUsername(context.Background(), "nobody", "x")
		require.NoError(mt, err)
		assert.False(mt, ok)
	})
}

func TestChatRepo(t *testing.T) {
	mt := mockDB(t)

	mt.Run("get decodes messages", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + ChatsCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "id", Value: "c1"},
			{Key: "userId", Value: "u1"},
			{Key: "messages", Value: bson.A{bson.D{{Key: "role", Value: "user"}, {Key: "content", Value: "gm"}}}},
			{Key: "tagline", Value: "hello"},
			{Key: "chain", Value: "solana"},
			{Key: "updatedAt", Value: int64(7)},
		}))

		c, err := NewChatRepo(mt.DB).GetChat(context.Background(), "c1", "u1")
		require.NoError(mt, err)
		require.Len(mt, c.Messages, 1)
		assert.JSONEq(mt, `{"role":"user","content":"gm"}`, string(c.Messages[0]))
		require.NotNil(mt, c.Chain)
		assert.Equal(mt, "solana", *c.Chain)
	})

	mt.Run("add rejects non-object messages", func(mt *mtest.T) {
		_, err := NewChatRepo(mt.DB).AddChat(context.Background(), models.NewChat{
			ID: "c1", UserID: "u1", Messages: []json.RawMessage{json.RawMessage(`"text"`)},
		})
		assert.Error(mt, err)
	})

	mt.Run("delete", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		ok, err := NewChatRepo(mt.DB).DeleteChat(context.Background(), "c1", "u1")
		require.NoError(mt, err)
		assert.True(mt, ok)
	})
}

func TestKnowledgeRelevantDecodesScore(t *testing.T) {
	mt := mockDB(t)

	mt.Run("aggregate", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + KnowledgeCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "id", Value: "k1"}, {Key: "baseUrl", Value: "https://docs.x"}, {Key: "distance", Value: 0.93}},
			bson.D{{Key: "id", Value: "k2"}, {Key: "baseUrl", Value: "https://docs.x"}, {Key: "distance", Value: 0.71}},
		))

		rows, err := NewKnowledgeRepo(mt.DB).FindRelevantKnowledge(context.Background(), []float64{0.1, 0.2})
		require.NoError(mt, err)
		require.Len(mt, rows, 2)
		assert.Equal(mt, "k1", rows[0].ID)
		assert.InDelta(mt, 0.93, rows[0].Distance, 1e-9)
	})
}

func TestRelevancePipelineStages(t *testing.T) {
	p := relevancePipeline([]float64{1, 0})
	require.Len(t, p, 5)

	stages := make([]string, 0, len(p))
	for _, s := range p {
		stages = append(stages, s[0].Key)
	}
	assert.Equal(t, []string{"$vectorSearch", "$set", "$match", "$limit", "$project"}, stages)
	assert.Equal(t, repositories.RelevanceLimit, p[3][0].Value)

	match := p[2][0].Value.(bson.D)
	assert.Equal(t, bson.D{{Key: "$gte", Value: repositories.RelevanceThreshold}}, match[0].Value)
}

func TestTokenRepo(t *testing.T) {
	mt := mockDB(t)

	mt.Run("add lowercases symbol", func(mt *mtest.T) {
		freezeNow(mt.T, 55)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		tok, err := NewTokenRepo(mt.DB).AddToken(context.Background(), models.TokenInput{ID: "mint", Symbol: "BONK"})
		require.NoError(mt, err)
		assert.Equal(mt, "bonk", tok.SymbolLower)
		assert.Equal(mt, int64(55), tok.UpdatedAt)
		assert.Equal(mt, []string{}, tok.Tags)
	})

	mt.Run("find by symbol empty", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + TokensCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		rows, err := NewTokenRepo(mt.DB).FindTokensBySymbol(context.Background(), "NOPE")
		require.NoError(mt, err)
		assert.NotNil(mt, rows)
		assert.Empty(mt, rows)
	})
}

func TestSavedTokenRepo(t *testing.T) {
	mt := mockDB(t)

	mt.Run("list for user", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + SavedTokensCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "id", Value: "t1"}, {Key: "userId", Value: "u1"}, {Key: "symbol", Value: "JUP"}, {Key: "chain", Value: "solana"}},
		))

		rows, err := NewSavedTokenRepo(mt.DB).FindSavedTokensByUserID(context.Background(), "u1")
		require.NoError(mt, err)
		require.Len(mt, rows, 1)
		assert.Equal(mt, "JUP", rows[0].Symbol)
	})

	mt.Run("insert failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))

		_, err := NewSavedTokenRepo(mt.DB).AddSavedToken(context.Background(), models.NewSavedToken{ID: "t1", UserID: "u1"})
		assert.Error(mt, err)
	})
}
