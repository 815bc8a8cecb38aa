package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chainchat/backend/internal/models"
	"github.com/chainchat/backend/internal/repositories"
)

type savedTokenRepo struct {
	col *mongo.Collection
}

func NewSavedTokenRepo(db *mongo.Database) repositories.SavedTokens {
	return &savedTokenRepo{col: db.Collection(SavedTokensCollection)}
}

func (r *savedTokenRepo) AddSavedToken(ctx context.Context, t models.NewSavedToken) (*models.SavedToken, error) {
	doc := &models.SavedToken{
		ID:        t.ID,
		UserID:    t.UserID,
		Name:      t.Name,
		Symbol:    t.Symbol,
		LogoURI:   t.LogoURI,
		Chain:     t.Chain,
		UpdatedAt: now(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *savedTokenRepo) GetSavedToken(ctx context.Context, id, userID string) (*models.SavedToken, error) {
	var t models.SavedToken
	if err := r.col.FindOne(ctx, bson.M{"id": id, "userId": userID}).Decode(&t); err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *savedTokenRepo) FindSavedTokensByUserID(ctx context.Context, userID string) ([]models.SavedToken, error) {
	cur, err := r.col.Find(ctx,
		bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}}),
	)
	return all[models.SavedToken](ctx, cur, err)
}

func (r *savedTokenRepo) DeleteSavedToken(ctx context.Context, id, userID string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"id": id, "userId": userID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
