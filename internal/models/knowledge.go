package models

// Knowledge is a scraped page grouped under its site's base url.
type Knowledge struct {
	ID                string    `bson:"id" json:"id"`
	BaseURL           string    `bson:"baseUrl" json:"baseUrl"`
	Name              string    `bson:"name" json:"name"`
	Summary           string    `bson:"summary" json:"summary"`
	SummaryEmbedding  []float64 `bson:"summaryEmbedding,omitempty" json:"summaryEmbedding,omitempty"`
	Markdown          string    `bson:"markdown" json:"markdown"`
	MarkdownEmbedding []float64 `bson:"markdownEmbedding,omitempty" json:"markdownEmbedding,omitempty"`
	URL               *string   `bson:"url,omitempty" json:"url,omitempty"`
	Title             *string   `bson:"title,omitempty" json:"title,omitempty"`
	Description       *string   `bson:"description,omitempty" json:"description,omitempty"`
	Favicon           *string   `bson:"favicon,omitempty" json:"favicon,omitempty"`
}

type KnowledgeInput struct {
	BaseURL          string    `json:"baseUrl"`
	Name             string    `json:"name"`
	Summary          string    `json:"summary"`
	SummaryEmbedding []float64 `json:"summaryEmbedding"`
	Markdown         string    `json:"markdown"`
	URL              *string   `json:"url,omitempty"`
	Title            *string   `json:"title,omitempty"`
	Description      *string   `json:"description,omitempty"`
	Favicon          *string   `json:"favicon,omitempty"`
}

// RelevantKnowledge carries the similarity score reported by the backend,
// higher is closer.
type RelevantKnowledge struct {
	Knowledge `bson:",inline"`
	Distance  float64 `bson:"distance" json:"distance"`
}

func (in KnowledgeInput) WithID(id string) Knowledge {
	return Knowledge{
		ID:               id,
		BaseURL:          in.BaseURL,
		Name:             in.Name,
		Summary:          in.Summary,
		SummaryEmbedding: in.SummaryEmbedding,
		Markdown:         in.Markdown,
		URL:              in.URL,
		Title:            in.Title,
		Description:      in.Description,
		Favicon:          in.Favicon,
	}
}
