package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/chainchat/backend/internal/api/handlers"
	"github.com/chainchat/backend/internal/api/middleware"
	"github.com/chainchat/backend/internal/metrics"
)

type Deps struct {
	Images      *handlers.ImageHandler
	Search      *handlers.SearchHandler
	Tokens      *handlers.TokenHandler
	Market      *handlers.MarketHandler
	Users       *handlers.UserHandler
	Chats       *handlers.ChatHandler
	SavedTokens *handlers.SavedTokenHandler
	Knowledge   *handlers.KnowledgeHandler

	// Guards reindexing and ingestion; empty leaves them open.
	CrawlAuthCode string
	Auth          gin.HandlerFunc
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")

	api.POST("/upload", d.Images.Upload)
	api.DELETE("/delete-image", d.Images.Delete)

	api.POST("/search/reindex-tokens", middleware.RequireAuthCode(d.CrawlAuthCode), d.Search.ReindexTokens)
	api.GET("/search/tokens", d.Search.SearchTokens)

	api.GET("/tokens", d.Tokens.List)
	api.GET("/tokens/:id", d.Tokens.Get)
	api.GET("/tokens/symbol/:symbol", d.Tokens.BySymbol)

	api.GET("/market/trending", d.Market.Trending)
	api.GET("/market/top-traders", d.Market.TopTraders)
	api.GET("/market/quote", d.Market.Quote)

	// Protected routes (Privy)
	auth := api.Group("/")
	auth.Use(d.Auth)

	auth.GET("/me", d.Users.Me)
	auth.PUT("/me/username", d.Users.UpdateUsername)

	auth.POST("/chats", d.Chats.Create)
	auth.GET("/chats", d.Chats.List)
	auth.GET("/chats/:id", d.Chats.Get)
	auth.PATCH("/chats/:id/tagline", d.Chats.UpdateTagline)
	auth.PATCH("/chats/:id/chain", d.Chats.UpdateChain)
	auth.POST("/chats/:id/messages", d.Chats.AddMessage)
	auth.PUT("/chats/:id/messages", d.Chats.ReplaceMessages)
	auth.DELETE("/chats/:id", d.Chats.Delete)

	auth.POST("/saved-tokens", d.SavedTokens.Create)
	auth.GET("/saved-tokens", d.SavedTokens.List)
	auth.GET("/saved-tokens/:id", d.SavedTokens.Get)
	auth.DELETE("/saved-tokens/:id", d.SavedTokens.Delete)

	auth.POST("/knowledge/search", d.Knowledge.Search)
	auth.POST("/knowledge/ingest", middleware.RequireAuthCode(d.CrawlAuthCode), d.Knowledge.Ingest)
	auth.GET("/knowledge", d.Knowledge.List)
}
