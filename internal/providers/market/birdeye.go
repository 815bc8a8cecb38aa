package market

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

type TrendingToken struct {
	Address      string  `json:"address"`
	Name         string  `json:"name"`
	Symbol       string  `json:"symbol"`
	Decimals     int     `json:"decimals"`
	LogoURI      string  `json:"logoURI"`
	Liquidity    float64 `json:"liquidity"`
	Volume24hUSD float64 `json:"volume24hUSD"`
	Price        float64 `json:"price"`
	Rank         int     `json:"rank"`
}

type Trader struct {
	Network    string  `json:"network"`
	Address    string  `json:"address"`
	PnL        float64 `json:"pnl"`
	TradeCount int     `json:"trade_count"`
	Volume     float64 `json:"volume"`
}

type BirdeyeConfig struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

type Birdeye struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewBirdeye(cfg BirdeyeConfig) *Birdeye {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBirdeyeURL
	}
	return &Birdeye{apiKey: cfg.APIKey, baseURL: strings.TrimSuffix(base, "/"), http: newHTTPClient(cfg.HTTPClient)}
}

type birdeyeEnvelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func (b *Birdeye) get(ctx context.Context, path string, q url.Values, chain string, out any) error {
	if b.apiKey == "" {
		return errors.New("BIRDEYE_API_KEY is not set")
	}
	if chain == "" {
		chain = DefaultChain
	}
	h := http.Header{}
	h.Set("X-API-KEY", b.apiKey)
	h.Set("x-chain", chain)
	if err := getJSON(ctx, b.http, b.baseURL+path+"?"+q.Encode(), h, out); err != nil {
		return fmt.Errorf("birdeye %s: %w", path, err)
	}
	return nil
}

func (b *Birdeye) TrendingTokens(ctx context.Context, offset, limit int, chain string) ([]TrendingToken, error) {
	q := url.Values{}
	q.Set("sort_by", "rank")
	q.Set("sort_type", "asc")
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))

	var env birdeyeEnvelope[struct {
		Tokens []TrendingToken `json:"tokens"`
	}]
	if err := b.get(ctx, "/defi/token_trending", q, chain, &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("birdeye trending: %s", env.Message)
	}
	if env.Data.Tokens == nil {
		return []TrendingToken{}, nil
	}
	return env.Data.Tokens, nil
}

// TopTraders lists the best performing wallets over timeFrame
// (yesterday, today or 1W).
func (b *Birdeye) TopTraders(ctx context.Context, timeFrame string, offset, limit int, chain string) ([]Trader, error) {
	if timeFrame == "" {
		timeFrame = "1W"
	}
	q := url.Values{}
	q.Set("type", timeFrame)
	q.Set("sort_by", "PnL")
	q.Set("sort_type", "desc")
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))

	var env birdeyeEnvelope[struct {
		Items []Trader `json:"items"`
	}]
	if err := b.get(ctx, "/trader/gainers-losers", q, chain, &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("birdeye top traders: %s", env.Message)
	}
	if env.Data.Items == nil {
		return []Trader{}, nil
	}
	return env.Data.Items, nil
}
