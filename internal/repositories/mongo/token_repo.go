package mongo

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chainchat/backend/internal/models"
	"github.com/chainchat/backend/internal/repositories"
)

type tokenRepo struct {
	col *mongo.Collection
}

func NewTokenRepo(db *mongo.Database) repositories.Tokens {
	return &tokenRepo{col: db.Collection(TokensCollection)}
}

func (r *tokenRepo) AddToken(ctx context.Context, t models.TokenInput) (*models.Token, error) {
	doc := t.Stamp(now())
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *tokenRepo) GetToken(ctx context.Context, id string) (*models.Token, error) {
	var t models.Token
	if err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&t); err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *tokenRepo) FindTokens(ctx context.Context) ([]models.Token, error) {
	cur, err := r.col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}}),
	)
	return all[models.Token](ctx, cur, err)
}

func (r *tokenRepo) FindTokensBySymbol(ctx context.Context, symbol string) ([]models.Token, error) {
	cur, err := r.col.Find(ctx, bson.M{"symbolLower": strings.ToLower(symbol)})
	return all[models.Token](ctx, cur, err)
}

func (r *tokenRepo) DeleteToken(ctx context.Context, id string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
