package convex

import (
	"context"

	"github.com/chainchat/backend/internal/models"
	"github.com/chainchat/backend/internal/repositories"
	"github.com/chainchat/backend/internal/utils"
)

type knowledgeRepo struct {
	c Caller
}

func NewKnowledgeRepo(c Caller) repositories.Knowledge {
	return &knowledgeRepo{c: c}
}

func (r *knowledgeRepo) AddKnowledge(ctx context.Context, k models.KnowledgeInput) (*models.Knowledge, error) {
	var out *models.Knowledge
	if err := r.c.Mutation(ctx, "knowledge:addKnowledge", map[string]any{"knowledge": k}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, utils.ErrNotFound
	}
	return out, nil
}

func (r *knowledgeRepo) GetKnowledge(ctx context.Context, id, baseURL string) (*models.Knowledge, error) {
	var out *models.Knowledge
	if err := r.c.Query(ctx, "knowledge:getKnowledge", map[string]any{"id": id, "baseUrl": baseURL}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, utils.ErrNotFound
	}
	return out, nil
}

func (r *knowledgeRepo) FindKnowledgeByBaseURL(ctx context.Context, baseURL string) ([]models.Knowledge, error) {
	var out []models.Knowledge
	err := r.c.Query(ctx, "knowledge:findKnowledgeByBaseUrl", map[string]any{"baseUrl": baseURL}, &out)
	return out, err
}

func (r *knowledgeRepo) FindKnowledgeByURL(ctx context.Context, url string) ([]models.Knowledge, error) {
	var out []models.Knowledge
	err := r.c.Query(ctx, "knowledge:findKnowledgeByUrl", map[string]any{"url": url}, &out)
	return out, err
}

// The deployment scans 50 neighbours, keeps scores >= 0.65 and returns at
// most 10 with the score in "distance".
func (r *knowledgeRepo) FindRelevantKnowledge(ctx context.Context, vector []float64) ([]models.RelevantKnowledge, error) {
	var out []models.RelevantKnowledge
	err := r.c.Query(ctx, "knowledge:findRelevantKnowledge", map[string]any{"vector": vector}, &out)
	return out, err
}

func (r *knowledgeRepo) UpdateKnowledgeContent(ctx context.Context, id, baseURL, markdown string, markdownEmbedding []float64) (bool, error) {
	var ok bool
	err := r.c.Mutation(ctx, "knowledge:updateKnowledgeContent", map[string]any{
		"id":                id,
		"baseUrl":           baseURL,
		"markdown":          markdown,
		"markdownEmbedding": markdownEmbedding,
	}, &ok)
	return ok, err
}

func (r *knowledgeRepo) DeleteKnowledge(ctx context.Context, id, baseURL string) (bool, error) {
	var ok bool
	err := r.c.Mutation(ctx, "knowledge:deleteKnowledge", map[string]any{"id": id, "baseUrl": baseURL}, &ok)
	return ok, err
}
