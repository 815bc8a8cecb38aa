package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/chainchat/backend/internal/models"
	"github.com/chainchat/backend/internal/repositories"
)

type userRepo struct {
	col *mongo.Collection
}

func NewUserRepo(db *mongo.Database) repositories.Users {
	return &userRepo{col: db.Collection(UsersCollection)}
}

func (r *userRepo) AddUser(ctx context.Context, u models.NewUser) (*models.User, error) {
	ts := now()
	doc := &models.User{ID: u.ID, Username: u.Username, CreatedAt: ts, UpdatedAt: ts}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *userRepo) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&u); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *userRepo) UpdateUsername(ctx context.Context, id, username string) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"username": username, "updatedAt": now()}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}
