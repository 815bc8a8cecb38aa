// Package convex answers the repository contracts with the functions
// deployed under convex/ (users.ts, chats.ts, knowledge.ts, tokens.ts,
// savedTokens.ts).
package convex

import (
	"context"

	"github.com/chainchat/backend/internal/repositories"
)

// Caller is satisfied by *convex.Client.
type Caller interface {
	Query(ctx context.Context, path string, args, out any) error
	Mutation(ctx context.Context, path string, args, out any) error
}

func NewSet(c Caller) *repositories.Set {
	return &repositories.Set{
		Name:        "convex",
		Users:       NewUserRepo(c),
		Chats:       NewChatRepo(c),
		Knowledge:   NewKnowledgeRepo(c),
		Tokens:      NewTokenRepo(c),
		SavedTokens: NewSavedTokenRepo(c),
	}
}
