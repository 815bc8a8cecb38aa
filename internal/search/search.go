// Package search keeps the Meilisearch "tokens" index used for symbol and
// name lookups.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/meilisearch/meilisearch-go"

	"github.com/chainchat/backend/internal/models"
)

const (
	TokensIndex  = "tokens"
	DefaultLimit = 10
)

var ErrNotConfigured = errors.New("meilisearch not configured")

var searchableAttributes = []string{"symbol", "name", "tags"}

// Index is the part of meilisearch.IndexManager the token index needs.
type Index interface {
	UpdateSettingsWithContext(ctx context.Context, request *meilisearch.Settings) (*meilisearch.TaskInfo, error)
	AddDocumentsWithContext(ctx context.Context, documentsPtr interface{}, primaryKey ...string) (*meilisearch.TaskInfo, error)
	SearchWithContext(ctx context.Context, query string, request *meilisearch.SearchRequest) (*meilisearch.SearchResponse, error)
}

type TokenIndex struct {
	index Index
}

// New returns an unconfigured index when host or key is empty.
func New(host, apiKey string) *TokenIndex {
	if host == "" || apiKey == "" {
		return &TokenIndex{}
	}
	client := meilisearch.New(host, meilisearch.WithAPIKey(apiKey))
	return &TokenIndex{index: client.Index(TokensIndex)}
}

func NewWithIndex(index Index) *TokenIndex {
	return &TokenIndex{index: index}
}

func (t *TokenIndex) Configured() bool { return t != nil && t.index != nil }

// Search runs a prefix query. A trailing "*" is dropped since Meilisearch
// already matches prefixes.
func (t *TokenIndex) Search(ctx context.Context, query string, limit int) ([]models.Token, error) {
	if !t.Configured() {
		return []models.Token{}, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	query = strings.TrimSuffix(query, "*")

	res, err := t.index.SearchWithContext(ctx, query, &meilisearch.SearchRequest{Limit: int64(limit)})
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(res.Hits)
	if err != nil {
		return nil, err
	}
	out := []models.Token{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Reindex pushes tokens to the index. Meilisearch applies it asynchronously;
// the returned task can be polled.
func (t *TokenIndex) Reindex(ctx context.Context, tokens []models.Token) (*meilisearch.TaskInfo, error) {
	if !t.Configured() {
		return nil, ErrNotConfigured
	}
	if _, err := t.index.UpdateSettingsWithContext(ctx, &meilisearch.Settings{SearchableAttributes: searchableAttributes}); err != nil {
		return nil, err
	}
	return t.index.AddDocumentsWithContext(ctx, tokens, "id")
}
