package services

import (
	"context"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/chainchat/backend/internal/models"
	"github.com/chainchat/backend/internal/repositories"
)

// Embedder turns text into a vector in the same space as the stored
// summary embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

type KnowledgeService interface {
	AddKnowledge(ctx context.Context, k models.KnowledgeInput) *models.Knowledge
	GetKnowledge(ctx context.Context, id, baseURL string) *models.Knowledge
	FindKnowledgeByBaseURL(ctx context.Context, baseURL string) []models.Knowledge
	FindKnowledgeByURL(ctx context.Context, url string) []models.Knowledge
	FindRelevantKnowledge(ctx context.Context, vector []float64) []models.RelevantKnowledge
	// SearchKnowledge embeds query and runs FindRelevantKnowledge with it.
	SearchKnowledge(ctx context.Context, query string) []models.RelevantKnowledge
	UpdateKnowledgeContent(ctx context.Context, id, baseURL, markdown string, markdownEmbedding []float64) bool
	DeleteKnowledge(ctx context.Context, id, baseURL string) bool
}

type knowledgeService struct {
	r        *router
	embedder Embedder
}

// NewKnowledgeService accepts a nil embedder; SearchKnowledge then returns
// no rows.
func NewKnowledgeService(b Backends, embedder Embedder, log logrus.FieldLogger) KnowledgeService {
	return &knowledgeService{r: newRouter(b, log), embedder: embedder}
}

func (s *knowledgeService) AddKnowledge(ctx context.Context, k models.KnowledgeInput) *models.Knowledge {
	return run(ctx, s.r, "Knowledge.AddKnowledge", primaryOnly, nil, func(ctx context.Context, st *repositories.Set) (*models.Knowledge, error) {
		return st.Knowledge.AddKnowledge(ctx, k)
	})
}

func (s *knowledgeService) GetKnowledge(ctx context.Context, id, baseURL string) *models.Knowledge {
	return run(ctx, s.r, "Knowledge.GetKnowledge", primaryOnly, nil, func(ctx context.Context, st *repositories.Set) (*models.Knowledge, error) {
		return st.Knowledge.GetKnowledge(ctx, id, baseURL)
	})
}

func (s *knowledgeService) FindKnowledgeByBaseURL(ctx context.Context, baseURL string) []models.Knowledge {
	return orEmpty(run(ctx, s.r, "Knowledge.FindKnowledgeByBaseURL", primaryOnly, nil, func(ctx context.Context, st *repositories.Set) ([]models.Knowledge, error) {
		return st.Knowledge.FindKnowledgeByBaseURL(ctx, baseURL)
	}))
}

func (s *knowledgeService) FindKnowledgeByURL(ctx context.Context, url string) []models.Knowledge {
	return orEmpty(run(ctx, s.r, "Knowledge.FindKnowledgeByURL", primaryOnly, nil, func(ctx context.Context, st *repositories.Set) ([]models.Knowledge, error) {
		return st.Knowledge.FindKnowledgeByURL(ctx, url)
	}))
}

func (s *knowledgeService) FindRelevantKnowledge(ctx context.Context, vector []float64) []models.RelevantKnowledge {
	rows := run(ctx, s.r, "Knowledge.FindRelevantKnowledge", fallThrough, nil, func(ctx context.Context, st *repositories.Set) ([]models.RelevantKnowledge, error) {
		return st.Knowledge.FindRelevantKnowledge(ctx, vector)
	})
	return rankRelevant(rows)
}

// rankRelevant keeps rows at or above the threshold, most similar first,
// whatever the backend already did.
func rankRelevant(rows []models.RelevantKnowledge) []models.RelevantKnowledge {
	out := make([]models.RelevantKnowledge, 0, len(rows))
	for _, row := range rows {
		if row.Distance >= RelevanceThreshold {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance > out[j].Distance })
	if len(out) > RelevanceLimit {
		out = out[:RelevanceLimit]
	}
	return out
}

func (s *knowledgeService) SearchKnowledge(ctx context.Context, query string) []models.RelevantKnowledge {
	query = strings.TrimSpace(query)
	if query == "" || s.embedder == nil {
		return []models.RelevantKnowledge{}
	}
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		s.r.log.WithField("op", "Knowledge.SearchKnowledge").WithError(err).Error("embed query failed")
		return []models.RelevantKnowledge{}
	}
	return s.FindRelevantKnowledge(ctx, vector)
}

func (s *knowledgeService) UpdateKnowledgeContent(ctx context.Context, id, baseURL, markdown string, markdownEmbedding []float64) bool {
	return run(ctx, s.r, "Knowledge.UpdateKnowledgeContent", fallThrough, false, func(ctx context.Context, st *repositories.Set) (bool, error) {
		return st.Knowledge.UpdateKnowledgeContent(ctx, id, baseURL, markdown, markdownEmbedding)
	})
}

func (s *knowledgeService) DeleteKnowledge(ctx context.Context, id, baseURL string) bool {
	return run(ctx, s.r, "Knowledge.DeleteKnowledge", primaryOnly, false, func(ctx context.Context, st *repositories.Set) (bool, error) {
		return st.Knowledge.DeleteKnowledge(ctx, id, baseURL)
	})
}
