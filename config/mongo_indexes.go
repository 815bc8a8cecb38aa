package config

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Dimension of text-embedding-004 vectors.
const EmbeddingDimensions = 768

func EnsureMongoIndexes() error {
	if MongoClient == nil {
		return errors.New("MongoClient is nil; call InitMongo() first")
	}
	db := MongoDatabase()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	byCollection := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetName("by_id").SetUnique(true)},
		},
		"chats": {
			{Keys: bson.D{{Key: "id", Value: 1}, {Key: "userId", Value: 1}}, Options: options.Index().SetName("by_id_user").SetUnique(true)},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "updatedAt", Value: -1}}, Options: options.Index().SetName("by_userId")},
		},
		"knowledge": {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetName("by_id").SetUnique(true)},
			{Keys: bson.D{{Key: "baseUrl", Value: 1}}, Options: options.Index().SetName("by_baseUrl")},
			{Keys: bson.D{{Key: "url", Value: 1}}, Options: options.Index().SetName("by_url")},
		},
		"tokens": {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetName("by_id").SetUnique(true)},
			{Keys: bson.D{{Key: "symbolLower", Value: 1}}, Options: options.Index().SetName("by_symbolLower")},
			{Keys: bson.D{{Key: "updatedAt", Value: -1}}, Options: options.Index().SetName("by_updatedAt")},
		},
		"savedTokens": {
			{Keys: bson.D{{Key: "id", Value: 1}, {Key: "userId", Value: 1}}, Options: options.Index().SetName("by_id_user").SetUnique(true)},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "updatedAt", Value: -1}}, Options: options.Index().SetName("by_userId")},
		},
	}
	for coll, models := range byCollection {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

// EnsureVectorSearchIndex creates the Atlas vector index used by
// FindRelevantKnowledge. Self-hosted servers without Atlas Search reject it.
func EnsureVectorSearchIndex(ctx context.Context) error {
	if MongoClient == nil {
		return errors.New("MongoClient is nil; call InitMongo() first")
	}

	model := mongo.SearchIndexModel{
		Definition: bson.D{{Key: "fields", Value: bson.A{
			bson.D{
				{Key: "type", Value: "vector"},
				{Key: "path", Value: "summaryEmbedding"},
				{Key: "numDimensions", Value: EmbeddingDimensions},
				{Key: "similarity", Value: "cosine"},
			},
		}}},
		Options: options.SearchIndexes().SetName("by_summaryEmbedding").SetType("vectorSearch"),
	}
	_, err := MongoDatabase().Collection("knowledge").SearchIndexes().CreateOne(ctx, model)
	return err
}
