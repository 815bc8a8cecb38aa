package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/chainchat/backend/internal/models"
	"github.com/chainchat/backend/internal/repositories"
	"github.com/chainchat/backend/internal/utils"
)

var errDown = errors.New("store unreachable")

// memStore is an in-memory backend. When down is set every call fails.
type memStore struct {
	mu       sync.Mutex
	down     bool
	calls    int
	clock    int64
	users    map[string]models.User
	chats    map[string]models.Chat
	know     map[string]models.Knowledge
	relevant []models.RelevantKnowledge
	tokens   []models.Token
	saved    map[string]models.SavedToken
}

func newMemStore() *memStore {
	return &memStore{
		users: map[string]models.User{},
		chats: map[string]models.Chat{},
		know:  map[string]models.Knowledge{},
		saved: map[string]models.SavedToken{},
	}
}

func (m *memStore) set(name string) *repositories.Set {
	return &repositories.Set{
		Name:        name,
		Users:       memUsers{m},
		Chats:       memChats{m},
		Knowledge:   memKnowledge{m},
		Tokens:      memTokens{m},
		SavedTokens: memSaved{m},
	}
}

func (m *memStore) enter() (func(), error) {
	m.mu.Lock()
	m.calls++
	m.clock++
	if m.down {
		m.mu.Unlock()
		return nil, errDown
	}
	return m.mu.Unlock, nil
}

type memUsers struct{ m *memStore }

func (s memUsers) AddUser(_ context.Context, u models.NewUser) (*models.User, error) {
	done, err := s.m.enter()
	if err != nil {
		return nil, err
	}
	defer done()
	row := models.User{ID: u.ID, Username: u.Username, CreatedAt: s.m.clock, UpdatedAt: s.m.clock}
	s.m.users[u.ID] = row
	return &row, nil
}

func (s memUsers) GetUser(_ context.Context, id string) (*models.User, error) {
	done, err := s.m.enter()
	if err != nil {
		return nil, err
	}
	defer done()
	row, ok := s.m.users[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &row, nil
}

func (s memUsers) UpdateUsername(_ context.Context, id, username string) (bool, error) {
	done, err := s.m.enter()
	if err != nil {
		return false, err
	}
	defer done()
	row, ok := s.m.users[id]
	if !ok {
		return false, nil
	}
	row.Username = username
	row.UpdatedAt = s.m.clock
	s.m.users[id] = row
	return true, nil
}

type memChats struct{ m *memStore }

func chatKey(id, userID string) string { return userID + "/" + id }

func (s memChats) AddChat(_ context.Context, c models.NewChat) (*models.Chat, error) {
	done, err := s.m.enter()
	if err != nil {
		return nil, err
	}
	defer done()
	row := models.Chat{ID: c.ID, UserID: c.UserID, Messages: c.Messages, Tagline: c.Tagline, Chain: c.Chain, UpdatedAt: s.m.clock}
	s.m.chats[chatKey(c.ID, c.UserID)] = row
	return &row, nil
}

func (s memChats) GetChat(_ context.Context, id, userID string) (*models.Chat, error) {
	done, err := s.m.enter()
	if err != nil {
		return nil, err
	}
	defer done()
	row, ok := s.m.chats[chatKey(id, userID)]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &row, nil
}

func (s memChats) FindChatsByUser(_ context.Context, userID string) ([]models.Chat, error) {
	done, err := s.m.enter()
	if err != nil {
		return nil, err
	}
	defer done()
	var out []models.Chat
	for _, c := range s.m.chats {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s memChats) patch(id, userID string, fn func(*models.Chat)) (bool, error) {
	done, err := s.m.enter()
	if err != nil {
		return false, err
	}
	defer done()
	row, ok := s.m.chats[chatKey(id, userID)]
	if !ok {
		return false, nil
	}
	fn(&row)
	row.UpdatedAt = s.m.clock
	s.m.chats[chatKey(id, userID)] = row
	return true, nil
}

func (s memChats) UpdateChatTagline(_ context.Context, id, userID, tagline string) (bool, error) {
	return s.patch(id, userID, func(c *models.Chat) { c.Tagline = tagline })
}

func (s memChats) UpdateChatChain(_ context.Context, id, userID, chain string) (bool, error) {
	return s.patch(id, userID, func(c *models.Chat) { c.Chain = &chain })
}

func (s memChats) AddMessageToChat(_ context.Context, id, userID string, message json.RawMessage) (bool, error) {
	return s.patch(id, userID, func(c *models.Chat) { c.Messages = append(c.Messages, message) })
}

func (s memChats) UpdateChatMessages(_ context.Context, id, userID string, messages []json.RawMessage, chain *string) (bool, error) {
	return s.patch(id, userID, func(c *models.Chat) {
		c.Messages = messages
		if chain != nil {
			c.Chain = chain
		}
	})
}

func (s memChats) DeleteChat(_ context.Context, id, userID string) (bool, error) {
	done, err := s.m.enter()
	if err != nil {
		return false, err
	}
	defer done()
	if _, ok := s.m.chats[chatKey(id, userID)]; !ok {
		return false, nil
	}
	delete(s.m.chats, chatKey(id, userID))
	return true, nil
}

type memKnowledge struct{ m *memStore }

func (s memKnowledge) AddKnowledge(_ context.Context, k models.KnowledgeInput) (*models.Knowledge, error) {
	done, err := s.m.enter()
	if err != nil {
		return nil, err
	}
	defer done()
	row := k.WithID(fmt.Sprintf("k%d", len(s.m.know)+1))
	s.m.know[row.ID] = row
	return &row, nil
}

func (s memKnowledge) GetKnowledge(_ context.Context, id, baseURL string) (*models.Knowledge, error) {
	done, err := s.m.enter()
	if err != nil {
		return nil, err
	}
	defer done()
	row, ok := s.m.know[id]
	if !ok || row.BaseURL != baseURL {
		return nil, utils.ErrNotFound
	}
	return &row, nil
}

func (s memKnowledge) filter(keep func(models.Knowledge) bool) ([]models.Knowledge, error) {
	done, err := s.m.enter()
	if err != nil {
		return nil, err
	}
	defer done()
	var out []models.Knowledge
	for _, k := range s.m.know {
		if keep(k) {
			out = append(out, k)
		}
	}
	return out, nil
}

func (s memKnowledge) FindKnowledgeByBaseURL(_ context.Context, baseURL string) ([]models.Knowledge, error) {
	return s.filter(func(k models.Knowledge) bool { return k.BaseURL == baseURL })
}

func (s memKnowledge) FindKnowledgeByURL(_ context.Context, url string) ([]models.Knowledge, error) {
	return s.filter(func(k models.Knowledge) bool { return k.URL != nil && *k.URL == url })
}

// FindRelevantKnowledge returns the canned rows untouched so tests can check
// the guard applied above the store.
func (s memKnowledge) FindRelevantKnowledge(_ context.Context, _ []float64) ([]models.RelevantKnowledge, error) {
	done, err := s.m.enter()
	if err != nil {
		return nil, err
	}
	defer done()
	return append([]models.RelevantKnowledge(nil), s.m.relevant...), nil
}

func (s memKnowledge) UpdateKnowledgeContent(_ context.Context, id, baseURL, markdown string, emb []float64) (bool, error) {
	done, err := s.m.enter()
	if err != nil {
		return false, err
	}
	defer done()
	row, ok := s.m.know[id]
	if !ok || row.BaseURL != baseURL {
		return false, nil
	}
	row.Markdown = markdown
	row.MarkdownEmbedding = emb
	s.m.know[id] = row
	return true, nil
}

func (s memKnowledge) DeleteKnowledge(_ context.Context, id, baseURL string) (bool, error) {
	done, err := s.m.enter()
	if err != nil {
		return false, err
	}
	defer done()
	row, ok := s.m.know[id]
	if !ok || row.BaseURL != baseURL {
		return false, nil
	}
	delete(s.m.know, id)
	return true, nil
}

type memTokens struct{ m *memStore }

func (s memTokens) AddToken(_ context.Context, t models.TokenInput) (*models.Token, error) {
	done, err := s.m.enter()
	if err != nil {
		return nil, err
	}
	defer done()
	row := t.Stamp(s.m.clock)
	s.m.tokens = append(s.m.tokens, row)
	return &row, nil
}

func (s memTokens) GetToken(_ context.Context, id string) (*models.Token, error) {
	done, err := s.m.enter()
	if err != nil {
		return nil, err
	}
	defer done()
	for _, t := range s.m.tokens {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (s memTokens) FindTokens(_ context.Context) ([]models.Token, error) {
	done, err := s.m.enter()
	if err != nil {
		return nil, err
	}
	defer done()
	return append([]models.Token(nil), s.m.tokens...), nil
}

func (s memTokens) FindTokensBySymbol(_ context.Context, symbol string) ([]models.Token, error) {
	done, err := s.m.enter()
	if err != nil {
		return nil, err
	}
	defer done()
	var out []models.Token
	for _, t := range s.m.tokens {
		if t.SymbolLower == strings.ToLower(symbol) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s memTokens) DeleteToken(_ context.Context, id string) (bool, error) {
	done, err := s.m.enter()
	if err != nil {
		return false, err
	}
	defer done()
	for i, t := range s.m.tokens {
		if t.ID == id {
			s.m.tokens = append(s.m.tokens[:i], s.m.tokens[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type memSaved struct{ m *memStore }

func (s memSaved) AddSavedToken(_ context.Context, t models.NewSavedToken) (*models.SavedToken, error) {
	done, err := s.m.enter()
	if err != nil {
		return nil, err
	}
	defer done()
	row := models.SavedToken{ID: t.ID, UserID: t.UserID, Name: t.Name, Symbol: t.Symbol, LogoURI: t.LogoURI, Chain: t.Chain, UpdatedAt: s.m.clock}
	s.m.saved[chatKey(t.ID, t.UserID)] = row
	return &row, nil
}

func (s memSaved) GetSavedToken(_ context.Context, id, userID string) (*models.SavedToken, error) {
	done, err := s.m.enter()
	if err != nil {
		return nil, err
	}
	defer done()
	row, ok := s.m.saved[chatKey(id, userID)]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &row, nil
}

func (s memSaved) FindSavedTokensByUserID(_ context.Context, userID string) ([]models.SavedToken, error) {
	done, err := s.m.enter()
	if err != nil {
		return nil, err
	}
	defer done()
	var out []models.SavedToken
	for _, t := range s.m.saved {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s memSaved) DeleteSavedToken(_ context.Context, id, userID string) (bool, error) {
	done, err := s.m.enter()
	if err != nil {
		return false, err
	}
	defer done()
	if _, ok := s.m.saved[chatKey(id, userID)]; !ok {
		return false, nil
	}
	delete(s.m.saved, chatKey(id, userID))
	return true, nil
}
