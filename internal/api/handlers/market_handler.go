package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chainchat/backend/internal/cache"
	"github.com/chainchat/backend/internal/providers/market"
	"github.com/chainchat/backend/internal/utils"
)

const quoteTTL = 5 * time.Second

// Page sizes accepted by Birdeye.
const (
	trendingLimit    = 10
	maxTrendingLimit = 20
	tradersLimit     = 10
	maxTradersLimit  = 10
)

type MarketData interface {
	TrendingTokens(ctx context.Context, offset, limit int, chain string) ([]market.TrendingToken, error)
	TopTraders(ctx context.Context, timeFrame string, offset, limit int, chain string) ([]market.Trader, error)
}

type Quoter interface {
	Quote(ctx context.Context, inputMint, outputMint string, amount uint64) (json.RawMessage, error)
}

// MarketHandler proxies market data. Responses are cached for ttl when a
// cache is set.
type MarketHandler struct {
	data   MarketData
	quoter Quoter
	cache  cache.Cache
	ttl    time.Duration
}

func NewMarketHandler(data MarketData, quoter Quoter, c cache.Cache, ttl time.Duration) *MarketHandler {
	return &MarketHandler{data: data, quoter: quoter, cache: c, ttl: ttl}
}

func (h *MarketHandler) Trending(c *gin.Context) {
	const op = "MarketHandler.Trending"
	offset, ok := queryInt(c, op, "offset", 0)
	if !ok {
		return
	}
	limit, ok := queryLimit(c, op, trendingLimit, maxTrendingLimit)
	if !ok {
		return
	}
	chain := c.DefaultQuery("chain", market.DefaultChain)

	key := fmt.Sprintf("trending:%s:%d:%d", chain, offset, limit)
	out, err := cache.Remember(c.Request.Context(), h.cache, key, h.ttl, func(ctx context.Context) ([]market.TrendingToken, error) {
		return h.data.TrendingTokens(ctx, offset, limit, chain)
	})
	if err != nil {
		writeError(c, utils.E(utils.CodeUnavailable, op, "market data unavailable", err))
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *MarketHandler) TopTraders(c *gin.Context) {
	const op = "MarketHandler.TopTraders"
	offset, ok := queryInt(c, op, "offset", 0)
	if !ok {
		return
	}
	limit, ok := queryLimit(c, op, tradersLimit, maxTradersLimit)
	if !ok {
		return
	}
	chain := c.DefaultQuery("chain", market.DefaultChain)
	timeFrame := c.DefaultQuery("timeFrame", "1W")

	key := fmt.Sprintf("traders:%s:%s:%d:%d", chain, timeFrame, offset, limit)
	out, err := cache.Remember(c.Request.Context(), h.cache, key, h.ttl, func(ctx context.Context) ([]market.Trader, error) {
		return h.data.TopTraders(ctx, timeFrame, offset, limit, chain)
	})
	if err != nil {
		writeError(c, utils.E(utils.CodeUnavailable, op, "market data unavailable", err))
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *MarketHandler) Quote(c *gin.Context) {
	const op = "MarketHandler.Quote"
	in, out := c.Query("inputMint"), c.Query("outputMint")
	if in == "" || out == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "inputMint and outputMint are required", nil))
		return
	}
	amount, err := strconv.ParseUint(c.Query("amount"), 10, 64)
	if err != nil || amount == 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid amount", err))
		return
	}

	key := fmt.Sprintf("quote:%s:%s:%d", in, out, amount)
	q, err := cache.Remember(c.Request.Context(), h.cache, key, quoteTTL, func(ctx context.Context) (json.RawMessage, error) {
		return h.quoter.Quote(ctx, in, out, amount)
	})
	if err != nil {
		writeError(c, utils.E(utils.CodeUnavailable, op, "quote unavailable", err))
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", q)
}
