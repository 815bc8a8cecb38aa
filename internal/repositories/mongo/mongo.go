package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/chainchat/backend/internal/repositories"
	"github.com/chainchat/backend/internal/utils"
)

const (
	UsersCollection       = "users"
	ChatsCollection       = "chats"
	KnowledgeCollection   = "knowledge"
	TokensCollection      = "tokens"
	SavedTokensCollection = "savedTokens"

	// Atlas vector search index over knowledge.summaryEmbedding.
	SummaryVectorIndex = "by_summaryEmbedding"
)

func NewSet(db *mongo.Database) *repositories.Set {
	return &repositories.Set{
		Name:        "mongo",
		Users:       NewUserRepo(db),
		Chats:       NewChatRepo(db),
		Knowledge:   NewKnowledgeRepo(db),
		Tokens:      NewTokenRepo(db),
		SavedTokens: NewSavedTokenRepo(db),
	}
}

var now = func() int64 { return time.Now().UnixMilli() }

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return utils.ErrNotFound
	}
	return err
}

func all[T any](ctx context.Context, cur *mongo.Cursor, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
