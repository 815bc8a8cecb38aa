package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainchat/backend/internal/cache"
	"github.com/chainchat/backend/internal/models"
	"github.com/chainchat/backend/internal/providers/market"
	"github.com/chainchat/backend/internal/services"
	"github.com/chainchat/backend/internal/storage"
	"github.com/chainchat/backend/internal/utils"
	"github.com/chainchat/backend/internal/workers"
)

func init() { gin.SetMode(gin.TestMode) }

const testUser = "did:privy:abc123"

// newRouter mounts h at method/path behind a stub that authenticates as
// testUser.
func newRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Handle(method, path, func(c *gin.Context) {
		c.Set("user_id", testUser)
		c.Next()
	}, h)
	return r
}

func do(r http.Handler, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doJSON(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	return do(r, method, target, bytes.NewBufferString(body), "application/json")
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// ---- images ----

type fakeStore struct {
	key, contentType string
	body             []byte
	deleted          []string
	err              error
}

func (f *fakeStore) Upload(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.key, f.contentType = key, contentType
	f.body, _ = io.ReadAll(r)
	return "https://cdn.test/" + key, nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func multipartBody(t *testing.T, filename string, withFile bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if withFile {
		fw, err := mw.CreateFormFile("file", "local.png")
		require.NoError(t, err)
		fw.Write([]byte("png-bytes"))
	}
	if filename != "" {
		require.NoError(t, mw.WriteField("filename", filename))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadStoresUnderImages(t *testing.T) {
	store := &fakeStore{}
	r := newRouter(http.MethodPost, "/api/upload", NewImageHandler(store).Upload)

	body, ct := multipartBody(t, testUser, true)
	w := do(r, http.MethodPost, "/api/upload", body, ct)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "images/"+testUser, store.key)
	assert.Equal(t, "png-bytes", string(store.body))
	assert.Equal(t, "https://cdn.test/images/"+testUser, decode[map[string]string](t, w)["url"])
}

func TestUploadDefaultsToFileName(t *testing.T) {
	store := &fakeStore{}
	r := newRouter(http.MethodPost, "/api/upload", NewImageHandler(store).Upload)

	body, ct := multipartBody(t, "", true)
	w := do(r, http.MethodPost, "/api/upload", body, ct)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "images/local.png", store.key)
}

func TestUploadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		store := &fakeStore{}
		r := newRouter(http.MethodPost, "/api/upload", NewImageHandler(store).Upload)
		body, ct := multipartBody(t, "x.png", false)

		w := do(r, http.MethodPost, "/api/upload", body, ct)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, store.key)
	})

	t.Run("storage fault", func(t *testing.T) {
		r := newRouter(http.MethodPost, "/api/upload", NewImageHandler(&fakeStore{err: errors.New("bucket gone")}).Upload)
		body, ct := multipartBody(t, "x.png", true)

		w := do(r, http.MethodPost, "/api/upload", body, ct)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "upload failed", decode[APIError](t, w).Message)
	})
}

func TestDeleteImage(t *testing.T) {
	store := &fakeStore{}
	r := newRouter(http.MethodDelete, "/api/delete-image", NewImageHandler(store).Delete)

	w := do(r, http.MethodDelete, "/api/delete-image", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodDelete, "/api/delete-image?fileName=a.png", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"images/a.png"}, store.deleted)
	assert.Equal(t, true, decode[map[string]any](t, w)["ok"])

	store.err = errors.New("denied")
	w = do(r, http.MethodDelete, "/api/delete-image?fileName=a.png", nil, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// ---- search / tokens ----

type fakeIndex struct {
	configured bool
	reindexed  [][]models.Token
	hits       []models.Token
	query      string
	limit      int
}

func (f *fakeIndex) Configured() bool { return f.configured }

func (f *fakeIndex) Search(ctx context.Context, q string, limit int) ([]models.Token, error) {
	f.query, f.limit = q, limit
	return f.hits, nil
}

func (f *fakeIndex) Reindex(ctx context.Context, tokens []models.Token) (*meilisearch.TaskInfo, error) {
	f.reindexed = append(f.reindexed, tokens)
	return &meilisearch.TaskInfo{TaskUID: 42, IndexUID: "tokens"}, nil
}

type fakeTokens struct {
	services.TokenService
	tokens   []models.Token
	bySymbol map[string]*models.Token
}

func (f *fakeTokens) FindTokens(ctx context.Context) []models.Token { return f.tokens }

func (f *fakeTokens) GetToken(ctx context.Context, id string) *models.Token {
	for i := range f.tokens {
		if f.tokens[i].ID == id {
			return &f.tokens[i]
		}
	}
	return nil
}

func (f *fakeTokens) GetTokenBySymbol(ctx context.Context, symbol string) *models.Token {
	return f.bySymbol[symbol]
}

func TestReindexTokens(t *testing.T) {
	tokens := []models.Token{{ID: "So111", Symbol: "SOL"}, {ID: "JUP", Symbol: "JUP"}}

	t.Run("not configured", func(t *testing.T) {
		idx := &fakeIndex{}
		r := newRouter(http.MethodPost, "/r", NewSearchHandler(idx, &fakeTokens{tokens: tokens}).ReindexTokens)

		w := do(r, http.MethodPost, "/r", nil, "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Empty(t, idx.reindexed)
	})

	t.Run("no tokens", func(t *testing.T) {
		idx := &fakeIndex{configured: true}
		r := newRouter(http.MethodPost, "/r", NewSearchHandler(idx, &fakeTokens{tokens: []models.Token{}}).ReindexTokens)

		w := do(r, http.MethodPost, "/r", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"enqueuedTask":null,"count":0}`, w.Body.String())
		assert.Empty(t, idx.reindexed)
	})

	t.Run("indexes all tokens", func(t *testing.T) {
		idx := &fakeIndex{configured: true}
		r := newRouter(http.MethodPost, "/r", NewSearchHandler(idx, &fakeTokens{tokens: tokens}).ReindexTokens)

		w := do(r, http.MethodPost, "/r", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, idx.reindexed, 1)
		assert.Len(t, idx.reindexed[0], 2)

		got := decode[struct {
			EnqueuedTask meilisearch.TaskInfo `json:"enqueuedTask"`
			Count        int                  `json:"count"`
		}](t, w)
		assert.Equal(t, 2, got.Count)
		assert.Equal(t, int64(42), got.EnqueuedTask.TaskUID)
	})
}

func TestSearchTokens(t *testing.T) {
	idx := &fakeIndex{configured: true, hits: []models.Token{{ID: "BONK", Symbol: "BONK"}}}
	r := newRouter(http.MethodGet, "/s", NewSearchHandler(idx, &fakeTokens{}).SearchTokens)

	w := do(r, http.MethodGet, "/s?q=bon*&limit=3", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bon*", idx.query)
	assert.Equal(t, 3, idx.limit)
	assert.Len(t, decode[[]models.Token](t, w), 1)

	w = do(r, http.MethodGet, "/s?q=bon&limit=-1", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/s", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestTokenBySymbol(t *testing.T) {
	svc := &fakeTokens{bySymbol: map[string]*models.Token{"USDC": {ID: "EPj", Symbol: "USDC"}}}
	r := newRouter(http.MethodGet, "/tokens/symbol/:symbol", NewTokenHandler(svc).BySymbol)

	w := do(r, http.MethodGet, "/tokens/symbol/USDC", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "EPj", decode[models.Token](t, w).ID)

	w = do(r, http.MethodGet, "/tokens/symbol/NOPE", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ---- users ----

type fakeUsers struct {
	services.UserService
	ensured  models.NewUser
	renamed  string
	existing bool
}

func (f *fakeUsers) EnsureUser(ctx context.Context, id, username string) *models.User {
	f.ensured = models.NewUser{ID: id, Username: username}
	return &models.User{ID: id, Username: username, CreatedAt: 1, UpdatedAt: 1}
}

func (f *fakeUsers) UpdateUsername(ctx context.Context, id, username string) bool {
	f.renamed = username
	return f.existing
}

func TestMeCreatesUserFromDID(t *testing.T) {
	svc := &fakeUsers{}
	images := storage.ImageURLs{BaseURL: "https://cdn.test", Now: func() time.Time { return time.UnixMilli(99) }}
	r := newRouter(http.MethodGet, "/api/me", NewUserHandler(svc, images).Me)

	w := do(r, http.MethodGet, "/api/me", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc123", svc.ensured.Username)

	got := decode[map[string]any](t, w)
	assert.Equal(t, testUser, got["id"])
	assert.Equal(t, "https://cdn.test/images/did:privy:abc123?t=99", got["pfpUrl"])

	w = do(r, http.MethodGet, "/api/me?fresh=0", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://cdn.test/images/did:privy:abc123", decode[map[string]any](t, w)["pfpUrl"])
}

func TestUpdateUsername(t *testing.T) {
	svc := &fakeUsers{existing: true}
	r := newRouter(http.MethodPut, "/api/me/username", NewUserHandler(svc, storage.ImageURLs{}).UpdateUsername)

	w := doJSON(r, http.MethodPut, "/api/me/username", `{"username":"  satoshi "}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "satoshi", svc.renamed)

	w = doJSON(r, http.MethodPut, "/api/me/username", `{"username":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.existing = false
	w = doJSON(r, http.MethodPut, "/api/me/username", `{"username":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequireUserID(t *testing.T) {
	r := gin.New()
	r.GET("/api/me", NewUserHandler(&fakeUsers{}, storage.ImageURLs{}).Me)

	w := do(r, http.MethodGet, "/api/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", string(decode[APIError](t, w).Code))
}

// ---- chats ----

type fakeChats struct {
	services.ChatService
	added    *models.NewChat
	messages []json.RawMessage
	chain    *string
	ok       bool
}

func (f *fakeChats) AddChat(ctx context.Context, c models.NewChat) *models.Chat {
	f.added = &c
	return &models.Chat{ID: c.ID, UserID: c.UserID, Messages: c.Messages, Tagline: c.Tagline, Chain: c.Chain, UpdatedAt: 1}
}

func (f *fakeChats) UpdateChatMessages(ctx context.Context, id, userID string, messages []json.RawMessage, chain *string) bool {
	f.messages, f.chain = messages, chain
	return f.ok
}

func (f *fakeChats) AddMessageToChat(ctx context.Context, id, userID string, message json.RawMessage) bool {
	f.messages = append(f.messages, message)
	return f.ok
}

func (f *fakeChats) DeleteChat(ctx context.Context, id, userID string) bool { return f.ok }

func TestCreateChat(t *testing.T) {
	svc := &fakeChats{}
	r := newRouter(http.MethodPost, "/api/chats", NewChatHandler(svc).Create)

	w := doJSON(r, http.MethodPost, "/api/chats", `{"tagline":"gm","chain":"solana"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotNil(t, svc.added)
	assert.NotEmpty(t, svc.added.ID)
	assert.Equal(t, testUser, svc.added.UserID)
	assert.NotNil(t, svc.added.Messages)

	w = doJSON(r, http.MethodPost, "/api/chats", `{"tagline":"gm","chain":"dogechain"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReplaceMessagesKeepsChainWhenAbsent(t *testing.T) {
	svc := &fakeChats{ok: true}
	r := newRouter(http.MethodPut, "/api/chats/:id/messages", NewChatHandler(svc).ReplaceMessages)

	w := doJSON(r, http.MethodPut, "/api/chats/c1/messages", `{"messages":[{"role":"user","content":"hi"}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, svc.messages, 1)
	assert.Nil(t, svc.chain)

	w = doJSON(r, http.MethodPut, "/api/chats/c1/messages", `{"messages":[],"chain":"bsc"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.chain)
	assert.Equal(t, "bsc", *svc.chain)
}

func TestChatMessagesMustBeObjects(t *testing.T) {
	svc := &fakeChats{ok: true}
	h := NewChatHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", testUser) })
	r.POST("/api/chats", h.Create)
	r.POST("/api/chats/:id/messages", h.AddMessage)
	r.PUT("/api/chats/:id/messages", h.ReplaceMessages)

	for _, msg := range []string{`null`, `[1,2]`, `"gm"`, `7`, `true`} {
		t.Run(msg, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/api/chats/c1/messages", `{"message":`+msg+`}`)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, utils.CodeInvalidArgument, decode[APIError](t, w).Code)

			w = doJSON(r, http.MethodPut, "/api/chats/c1/messages", `{"messages":[{"role":"user"},`+msg+`]}`)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			w = doJSON(r, http.MethodPost, "/api/chats", `{"messages":[`+msg+`]}`)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	assert.Empty(t, svc.messages)
	assert.Nil(t, svc.added)

	w := doJSON(r, http.MethodPost, "/api/chats/c1/messages", `{"message":{"role":"assistant","content":"gm"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, svc.messages, 1)
	assert.JSONEq(t, `{"role":"assistant","content":"gm"}`, string(svc.messages[0]))
}

func TestDeleteChatMissing(t *testing.T) {
	r := newRouter(http.MethodDelete, "/api/chats/:id", NewChatHandler(&fakeChats{}).Delete)

	w := do(r, http.MethodDelete, "/api/chats/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ---- saved tokens ----

type fakeSaved struct {
	services.SavedTokenService
	added *models.NewSavedToken
}

func (f *fakeSaved) AddSavedToken(ctx context.Context, t models.NewSavedToken) *models.SavedToken {
	f.added = &t
	return &models.SavedToken{ID: t.ID, UserID: t.UserID, Name: t.Name, Symbol: t.Symbol, Chain: t.Chain, UpdatedAt: 1}
}

func TestSaveToken(t *testing.T) {
	svc := &fakeSaved{}
	r := newRouter(http.MethodPost, "/api/saved-tokens", NewSavedTokenHandler(svc).Create)

	w := doJSON(r, http.MethodPost, "/api/saved-tokens", `{"id":"So111","name":"Solana","symbol":"SOL","chain":"solana"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, testUser, svc.added.UserID)
	assert.Equal(t, "So111", svc.added.ID)

	w = doJSON(r, http.MethodPost, "/api/saved-tokens", `{"name":"Solana","symbol":"SOL"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ---- knowledge ----

type fakeKnowledge struct {
	services.KnowledgeService
	query string
}

func (f *fakeKnowledge) SearchKnowledge(ctx context.Context, q string) []models.RelevantKnowledge {
	f.query = q
	return []models.RelevantKnowledge{{Knowledge: models.Knowledge{ID: "k1"}, Distance: 0.8}}
}

func (f *fakeKnowledge) FindKnowledgeByBaseURL(ctx context.Context, baseURL string) []models.Knowledge {
	return []models.Knowledge{{ID: "k1", BaseURL: baseURL}}
}

func TestIngestEnqueues(t *testing.T) {
	var got workers.IngestJob
	enqueue := func(ctx context.Context, job workers.IngestJob) (string, error) {
		got = job
		return "1-0", nil
	}
	r := newRouter(http.MethodPost, "/ingest", NewKnowledgeHandler(&fakeKnowledge{}, enqueue).Ingest)

	w := doJSON(r, http.MethodPost, "/ingest", `{"url":"https://docs.jup.ag/swap","baseUrl":"https://docs.jup.ag/","name":"Jupiter"}`)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	assert.Equal(t, workers.IngestJob{URL: "https://docs.jup.ag/swap", BaseURL: "https://docs.jup.ag", Name: "Jupiter"}, got)
	assert.Equal(t, "1-0", decode[map[string]string](t, w)["jobId"])

	w = doJSON(r, http.MethodPost, "/ingest", `{"url":"ftp://docs.jup.ag"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestWithoutQueue(t *testing.T) {
	r := newRouter(http.MethodPost, "/ingest", NewKnowledgeHandler(&fakeKnowledge{}, nil).Ingest)

	w := doJSON(r, http.MethodPost, "/ingest", `{"url":"https://docs.jup.ag"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestKnowledgeSearchAndList(t *testing.T) {
	svc := &fakeKnowledge{}
	h := NewKnowledgeHandler(svc, nil)

	r := newRouter(http.MethodPost, "/search", h.Search)
	w := doJSON(r, http.MethodPost, "/search", `{"query":"how do I swap"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "how do I swap", svc.query)

	r = newRouter(http.MethodGet, "/knowledge", h.List)
	w = do(r, http.MethodGet, "/knowledge?baseUrl=https://docs.jup.ag", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Knowledge](t, w), 1)

	w = do(r, http.MethodGet, "/knowledge", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ---- market ----

type fakeMarket struct {
	trendingCalls int
	quoteCalls    int
	chain         string
	offset, limit int
}

func (f *fakeMarket) TrendingTokens(ctx context.Context, offset, limit int, chain string) ([]market.TrendingToken, error) {
	f.trendingCalls++
	f.chain = chain
	f.offset, f.limit = offset, limit
	return []market.TrendingToken{{Symbol: "BRETT", Rank: 1}}, nil
}

func (f *fakeMarket) TopTraders(ctx context.Context, timeFrame string, offset, limit int, chain string) ([]market.Trader, error) {
	return nil, errors.New("rate limited")
}

func (f *fakeMarket) Quote(ctx context.Context, in, out string, amount uint64) (json.RawMessage, error) {
	f.quoteCalls++
	return json.RawMessage(`{"outAmount":"12345"}`), nil
}

func TestMarketCachesResponses(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	fm := &fakeMarket{}
	h := NewMarketHandler(fm, fm, cache.NewRedisCache(rdb, "market:"), time.Minute)

	r := gin.New()
	r.GET("/trending", h.Trending)
	r.GET("/quote", h.Quote)
	r.GET("/traders", h.TopTraders)

	for i := 0; i < 2; i++ {
		w := do(r, http.MethodGet, "/trending?chain=base", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "BRETT", decode[[]market.TrendingToken](t, w)[0].Symbol)
	}
	assert.Equal(t, 1, fm.trendingCalls)
	assert.Equal(t, "base", fm.chain)

	for i := 0; i < 2; i++ {
		w := do(r, http.MethodGet, "/quote?inputMint=So111&outputMint=EPj&amount=1000", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"outAmount":"12345"}`, w.Body.String())
	}
	assert.Equal(t, 1, fm.quoteCalls)

	w := do(r, http.MethodGet, "/quote?inputMint=So111&outputMint=EPj&amount=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/traders", nil, "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestTrendingLimits(t *testing.T) {
	cases := []struct {
		query string
		limit int
		code  int
	}{
		{"", 10, http.StatusOK},
		{"?limit=0", 10, http.StatusOK},
		{"?limit=5", 5, http.StatusOK},
		{"?limit=20", 20, http.StatusOK},
		{"?limit=100000", 20, http.StatusOK},
		{"?limit=-1", 0, http.StatusBadRequest},
		{"?limit=many", 0, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			fm := &fakeMarket{}
			r := newRouter(http.MethodGet, "/trending", NewMarketHandler(fm, fm, nil, 0).Trending)

			w := do(r, http.MethodGet, "/trending"+tc.query, nil, "")
			require.Equal(t, tc.code, w.Code, w.Body.String())
			if tc.code == http.StatusOK {
				assert.Equal(t, tc.limit, fm.limit)
				assert.Equal(t, 0, fm.offset)
			} else {
				assert.Zero(t, fm.trendingCalls)
			}
		})
	}
}
