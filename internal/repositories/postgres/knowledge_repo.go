package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chainchat/backend/internal/models"
	"github.com/chainchat/backend/internal/repositories"
)

type knowledgeRepo struct {
	db *gorm.DB
}

func NewKnowledgeRepo(db *gorm.DB) repositories.Knowledge {
	return &knowledgeRepo{db: db}
}

func (r *knowledgeRepo) AddKnowledge(ctx context.Context, k models.KnowledgeInput) (*models.Knowledge, error) {
	row := knowledgeRow{
		ID:               uuid.NewString(),
		BaseURL:          k.BaseURL,
		Name:             k.Name,
		Summary:          k.Summary,
		SummaryEmbedding: pgvector.NewVector(toFloat32(k.SummaryEmbedding)),
		Markdown:         k.Markdown,
		URL:              k.URL,
		Title:            k.Title,
		Description:      k.Description,
		Favicon:          k.Favicon,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	out := row.model()
	return &out, nil
}

func (r *knowledgeRepo) GetKnowledge(ctx context.Context, id, baseURL string) (*models.Knowledge, error) {
	var row knowledgeRow
	err := r.db.WithContext(ctx).
		Where("id = ? AND base_url = ?", id, baseURL).
		Take(&row).Error
	if err != nil {
		return nil, notFound(err)
	}
	out := row.model()
	return &out, nil
}

func (r *knowledgeRepo) FindKnowledgeByBaseURL(ctx context.Context, baseURL string) ([]models.Knowledge, error) {
	return r.find(ctx, "base_url = ?", baseURL)
}

func (r *knowledgeRepo) FindKnowledgeByURL(ctx context.Context, url string) ([]models.Knowledge, error) {
	return r.find(ctx, "url = ?", url)
}

func (r *knowledgeRepo) find(ctx context.Context, where string, arg any) ([]models.Knowledge, error) {
	var rows []knowledgeRow
	if err := r.db.WithContext(ctx).Where(where, arg).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.Knowledge, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.model())
	}
	return out, nil
}

// FindRelevantKnowledge ranks by cosine distance and reports 1 - distance
// as the similarity score.
func (r *knowledgeRepo) FindRelevantKnowledge(ctx context.Context, vector []float64) ([]models.RelevantKnowledge, error) {
	q := pgvector.NewVector(toFloat32(vector))

	var rows []relevantRow
	err := r.db.WithContext(ctx).
		Model(&knowledgeRow{}).
		Select("id, base_url, name, summary, markdown, url, title, description, favicon, 1 - (summary_embedding <=> ?) AS distance", q).
		Where("1 - (summary_embedding <=> ?) >= ?", q, repositories.RelevanceThreshold).
		Clauses(clause.OrderBy{Expression: clause.Expr{SQL: "summary_embedding <=> ?", Vars: []any{q}}}).
		Limit(repositories.RelevanceLimit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]models.RelevantKnowledge, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.model())
	}
	return out, nil
}

func (r *knowledgeRepo) UpdateKnowledgeContent(ctx context.Context, id, baseURL, markdown string, markdownEmbedding []float64) (bool, error) {
	fields := map[string]any{"markdown": markdown, "markdown_embedding": nil}
	if len(markdownEmbedding) > 0 {
		fields["markdown_embedding"] = pgvector.NewVector(toFloat32(markdownEmbedding))
	}
	return affected(r.db.WithContext(ctx).
		Model(&knowledgeRow{}).
		Where("id = ? AND base_url = ?", id, baseURL).
		Updates(fields))
}

func (r *knowledgeRepo) DeleteKnowledge(ctx context.Context, id, baseURL string) (bool, error) {
	return affected(r.db.WithContext(ctx).
		Where("id = ? AND base_url = ?", id, baseURL).
		Delete(&knowledgeRow{}))
}
