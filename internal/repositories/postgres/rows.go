package postgres

import (
	"encoding/json"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"

	"github.com/chainchat/backend/internal/models"
)

type userRow struct {
	ID        string `gorm:"column:id;type:text;primaryKey"`
	Username  string `gorm:"column:username;type:text"`
	CreatedAt int64  `gorm:"column:created_at;type:bigint"`
	UpdatedAt int64  `gorm:"column:updated_at;type:bigint"`
}

func (userRow) TableName() string { return "users" }

func (r userRow) model() *models.User {
	return &models.User{ID: r.ID, Username: r.Username, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

type chatRow struct {
	ID        string         `gorm:"column:id;type:text;primaryKey"`
	UserID    string         `gorm:"column:user_id;type:text;primaryKey;index:idx_chats_user_updated,priority:1"`
	Messages  datatypes.JSON `gorm:"column:messages;type:jsonb"`
	Tagline   string         `gorm:"column:tagline;type:text"`
	Chain     *string        `gorm:"column:chain;type:text"`
	UpdatedAt int64          `gorm:"column:updated_at;type:bigint;index:idx_chats_user_updated,priority:2,sort:desc"`
}

func (chatRow) TableName() string { return "chats" }

func encodeMessages(msgs []json.RawMessage) (datatypes.JSON, error) {
	if msgs == nil {
		msgs = []json.RawMessage{}
	}
	b, err := json.Marshal(msgs)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func (r chatRow) model() (models.Chat, error) {
	msgs := []json.RawMessage{}
	if len(r.Messages) > 0 {
		if err := json.Unmarshal(r.Messages, &msgs); err != nil {
			return models.Chat{}, err
		}
	}
	return models.Chat{
		ID:        r.ID,
		UserID:    r.UserID,
		Messages:  msgs,
		Tagline:   r.Tagline,
		Chain:     r.Chain,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

// Embedding columns carry no dimension so any embedding model fits.
type knowledgeRow struct {
	ID                string           `gorm:"column:id;type:uuid;primaryKey"`
	BaseURL           string           `gorm:"column:base_url;type:text;index"`
	Name              string           `gorm:"column:name;type:text"`
	Summary           string           `gorm:"column:summary;type:text"`
	SummaryEmbedding  pgvector.Vector  `gorm:"column:summary_embedding;type:vector"`
	Markdown          string           `gorm:"column:markdown;type:text"`
	MarkdownEmbedding *pgvector.Vector `gorm:"column:markdown_embedding;type:vector"`
	URL               *string          `gorm:"column:url;type:text;index"`
	Title             *string          `gorm:"column:title;type:text"`
	Description       *string          `gorm:"column:description;type:text"`
	Favicon           *string          `gorm:"column:favicon;type:text"`
}

func (knowledgeRow) TableName() string { return "knowledge" }

func (r knowledgeRow) model() models.Knowledge {
	k := models.Knowledge{
		ID:               r.ID,
		BaseURL:          r.BaseURL,
		Name:             r.Name,
		Summary:          r.Summary,
		SummaryEmbedding: toFloat64(r.SummaryEmbedding.Slice()),
		Markdown:         r.Markdown,
		URL:              r.URL,
		Title:            r.Title,
		Description:      r.Description,
		Favicon:          r.Favicon,
	}
	if r.MarkdownEmbedding != nil {
		k.MarkdownEmbedding = toFloat64(r.MarkdownEmbedding.Slice())
	}
	return k
}

// relevantRow is the projection returned by similarity lookups.
type relevantRow struct {
	ID          string
	BaseURL     string
	Name        string
	Summary     string
	Markdown    string
	URL         *string
	Title       *string
	Description *string
	Favicon     *string
	Distance    float64
}

func (r relevantRow) model() models.RelevantKnowledge {
	return models.RelevantKnowledge{
		Knowledge: models.Knowledge{
			ID:          r.ID,
			BaseURL:     r.BaseURL,
			Name:        r.Name,
			Summary:     r.Summary,
			Markdown:    r.Markdown,
			URL:         r.URL,
			Title:       r.Title,
			Description: r.Description,
			Favicon:     r.Favicon,
		},
		Distance: r.Distance,
	}
}

type tokenRow struct {
	ID                string         `gorm:"column:id;type:text;primaryKey"`
	Name              string         `gorm:"column:name;type:text"`
	Symbol            string         `gorm:"column:symbol;type:text"`
	SymbolLower       string         `gorm:"column:symbol_lower;type:text;index"`
	Decimals          int            `gorm:"column:decimals;type:integer"`
	Tags              pq.StringArray `gorm:"column:tags;type:text[]"`
	LogoURI           string         `gorm:"column:logo_uri;type:text"`
	FreezeAuthority   *string        `gorm:"column:freeze_authority;type:text"`
	MintAuthority     *string        `gorm:"column:mint_authority;type:text"`
	PermanentDelegate *string        `gorm:"column:permanent_delegate;type:text"`
	Extensions        datatypes.JSON `gorm:"column:extensions;type:jsonb"`
	UpdatedAt         int64          `gorm:"column:updated_at;type:bigint;index"`
}

func (tokenRow) TableName() string { return "tokens" }

func newTokenRow(t models.Token) (tokenRow, error) {
	ext, err := json.Marshal(t.Extensions)
	if err != nil {
		return tokenRow{}, err
	}
	return tokenRow{
		ID:                t.ID,
		Name:              t.Name,
		Symbol:            t.Symbol,
		SymbolLower:       t.SymbolLower,
		Decimals:          t.Decimals,
		Tags:              pq.StringArray(t.Tags),
		LogoURI:           t.LogoURI,
		FreezeAuthority:   t.FreezeAuthority,
		MintAuthority:     t.MintAuthority,
		PermanentDelegate: t.PermanentDelegate,
		Extensions:        datatypes.JSON(ext),
		UpdatedAt:         t.UpdatedAt,
	}, nil
}

func (r tokenRow) model() (models.Token, error) {
	var ext models.TokenExtensions
	if len(r.Extensions) > 0 {
		if err := json.Unmarshal(r.Extensions, &ext); err != nil {
			return models.Token{}, err
		}
	}
	tags := []string(r.Tags)
	if tags == nil {
		tags = []string{}
	}
	return models.Token{
		ID:                r.ID,
		Name:              r.Name,
		Symbol:            r.Symbol,
		SymbolLower:       r.SymbolLower,
		Decimals:          r.Decimals,
		Tags:              tags,
		LogoURI:           r.LogoURI,
		FreezeAuthority:   r.FreezeAuthority,
		MintAuthority:     r.MintAuthority,
		PermanentDelegate: r.PermanentDelegate,
		Extensions:        ext,
		UpdatedAt:         r.UpdatedAt,
	}, nil
}

func tokenModels(rows []tokenRow) ([]models.Token, error) {
	out := make([]models.Token, 0, len(rows))
	for _, r := range rows {
		t, err := r.model()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Saved token ids are token mints, so the key is scoped by user.
type savedTokenRow struct {
	ID        string `gorm:"column:id;type:text;primaryKey"`
	UserID    string `gorm:"column:user_id;type:text;primaryKey;index"`
	Name      string `gorm:"column:name;type:text"`
	Symbol    string `gorm:"column:symbol;type:text"`
	LogoURI   string `gorm:"column:logo_uri;type:text"`
	Chain     string `gorm:"column:chain;type:text"`
	UpdatedAt int64  `gorm:"column:updated_at;type:bigint"`
}

func (savedTokenRow) TableName() string { return "saved_tokens" }

func (r savedTokenRow) model() models.SavedToken {
	return models.SavedToken{
		ID:        r.ID,
		UserID:    r.UserID,
		Name:      r.Name,
		Symbol:    r.Symbol,
		LogoURI:   r.LogoURI,
		Chain:     r.Chain,
		UpdatedAt: r.UpdatedAt,
	}
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}

func toFloat64(v []float32) []float64 {
	if len(v) == 0 {
		return nil
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
