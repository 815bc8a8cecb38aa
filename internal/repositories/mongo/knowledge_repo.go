package mongo

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/chainchat/backend/internal/models"
	"github.com/chainchat/backend/internal/repositories"
)

type knowledgeRepo struct {
	col *mongo.Collection
}

func NewKnowledgeRepo(db *mongo.Database) repositories.Knowledge {
	return &knowledgeRepo{col: db.Collection(KnowledgeCollection)}
}

func (r *knowledgeRepo) AddKnowledge(ctx context.Context, k models.KnowledgeInput) (*models.Knowledge, error) {
	doc := k.WithID(uuid.NewString())
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *knowledgeRepo) GetKnowledge(ctx context.Context, id, baseURL string) (*models.Knowledge, error) {
	var k models.Knowledge
	if err := r.col.FindOne(ctx, bson.M{"id": id, "baseUrl": baseURL}).Decode(&k); err != nil {
		return nil, notFound(err)
	}
	return &k, nil
}

func (r *knowledgeRepo) FindKnowledgeByBaseURL(ctx context.Context, baseURL string) ([]models.Knowledge, error) {
	cur, err := r.col.Find(ctx, bson.M{"baseUrl": baseURL})
	return all[models.Knowledge](ctx, cur, err)
}

func (r *knowledgeRepo) FindKnowledgeByURL(ctx context.Context, url string) ([]models.Knowledge, error) {
	cur, err := r.col.Find(ctx, bson.M{"url": url})
	return all[models.Knowledge](ctx, cur, err)
}

// relevancePipeline ranks by Atlas vector search, which already returns the
// closest first, then drops weak matches.
func relevancePipeline(vector []float64) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: SummaryVectorIndex},
			{Key: "path", Value: "summaryEmbedding"},
			{Key: "queryVector", Value: vector},
			{Key: "numCandidates", Value: repositories.RelevanceCandidates},
			{Key: "limit", Value: repositories.RelevanceCandidates},
		}}},
		{{Key: "$set", Value: bson.D{
			{Key: "distance", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
		}}},
		{{Key: "$match", Value: bson.D{
			{Key: "distance", Value: bson.D{{Key: "$gte", Value: repositories.RelevanceThreshold}}},
		}}},
		{{Key: "$limit", Value: repositories.RelevanceLimit}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "summaryEmbedding", Value: 0},
			{Key: "markdownEmbedding", Value: 0},
		}}},
	}
}

func (r *knowledgeRepo) FindRelevantKnowledge(ctx context.Context, vector []float64) ([]models.RelevantKnowledge, error) {
	cur, err := r.col.Aggregate(ctx, relevancePipeline(vector))
	return all[models.RelevantKnowledge](ctx, cur, err)
}

func (r *knowledgeRepo) UpdateKnowledgeContent(ctx context.Context, id, baseURL, markdown string, markdownEmbedding []float64) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"id": id, "baseUrl": baseURL},
		bson.M{"$set": bson.M{"markdown": markdown, "markdownEmbedding": markdownEmbedding}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *knowledgeRepo) DeleteKnowledge(ctx context.Context, id, baseURL string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"id": id, "baseUrl": baseURL})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
