// Package repositories declares the per-entity store contracts shared by the
// Convex, Mongo and Postgres backends.
//
// Get methods return utils.ErrNotFound when nothing matches; update and
// delete methods report (false, nil) when no row matched.
package repositories

import (
	"context"
	"encoding/json"

	"github.com/chainchat/backend/internal/models"
)

const (
	// Minimum similarity score a knowledge row needs to be returned.
	RelevanceThreshold = 0.65
	// Maximum number of rows returned by a similarity lookup.
	RelevanceLimit = 10
	// Candidates scanned by engines that filter after ranking.
	RelevanceCandidates = 50
)

type Users interface {
	AddUser(ctx context.Context, u models.NewUser) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpdateUsername(ctx context.Context, id, username string) (bool, error)
}

type Chats interface {
	AddChat(ctx context.Context, c models.NewChat) (*models.Chat, error)
	GetChat(ctx context.Context, id, userID string) (*models.Chat, error)
	FindChatsByUser(ctx context.Context, userID string) ([]models.Chat, error)
	UpdateChatTagline(ctx context.Context, id, userID, tagline string) (bool, error)
	UpdateChatChain(ctx context.Context, id, userID, chain string) (bool, error)
	AddMessageToChat(ctx context.Context, id, userID string, message json.RawMessage) (bool, error)
	// chain is left untouched when nil.
	UpdateChatMessages(ctx context.Context, id, userID string, messages []json.RawMessage, chain *string) (bool, error)
	DeleteChat(ctx context.Context, id, userID string) (bool, error)
}

type Knowledge interface {
	AddKnowledge(ctx context.Context, k models.KnowledgeInput) (*models.Knowledge, error)
	GetKnowledge(ctx context.Context, id, baseURL string) (*models.Knowledge, error)
	FindKnowledgeByBaseURL(ctx context.Context, baseURL string) ([]models.Knowledge, error)
	FindKnowledgeByURL(ctx context.Context, url string) ([]models.Knowledge, error)
	FindRelevantKnowledge(ctx context.Context, vector []float64) ([]models.RelevantKnowledge, error)
	UpdateKnowledgeContent(ctx context.Context, id, baseURL, markdown string, markdownEmbedding []float64) (bool, error)
	DeleteKnowledge(ctx context.Context, id, baseURL string) (bool, error)
}

type Tokens interface {
	AddToken(ctx context.Context, t models.TokenInput) (*models.Token, error)
	GetToken(ctx context.Context, id string) (*models.Token, error)
	// Ordered by updatedAt, newest first.
	FindTokens(ctx context.Context) ([]models.Token, error)
	// Case-insensitive match on the symbol.
	FindTokensBySymbol(ctx context.Context, symbol string) ([]models.Token, error)
	DeleteToken(ctx context.Context, id string) (bool, error)
}

type SavedTokens interface {
	AddSavedToken(ctx context.Context, t models.NewSavedToken) (*models.SavedToken, error)
	GetSavedToken(ctx context.Context, id, userID string) (*models.SavedToken, error)
	FindSavedTokensByUserID(ctx context.Context, userID string) ([]models.SavedToken, error)
	DeleteSavedToken(ctx context.Context, id, userID string) (bool, error)
}

// Set is one physical backend answering every entity.
type Set struct {
	Name        string
	Users       Users
	Chats       Chats
	Knowledge   Knowledge
	Tokens      Tokens
	SavedTokens SavedTokens
}
