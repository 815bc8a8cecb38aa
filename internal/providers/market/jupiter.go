package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

type Jupiter struct {
	baseURL string
	http    *http.Client
}

func NewJupiter(baseURL string, hc *http.Client) *Jupiter {
	if baseURL == "" {
		baseURL = DefaultJupiterURL
	}
	return &Jupiter{baseURL: strings.TrimSuffix(baseURL, "/"), http: newHTTPClient(hc)}
}

// Quote returns the raw Jupiter quote for swapping amount (in base units)
// of inputMint into outputMint.
func (j *Jupiter) Quote(ctx context.Context, inputMint, outputMint string, amount uint64) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("inputMint", inputMint)
	q.Set("outputMint", outputMint)
	q.Set("amount", strconv.FormatUint(amount, 10))
	q.Set("slippageBps", strconv.Itoa(QuoteSlippageBps))
	q.Set("restrictIntermediateTokens", "true")

	var out json.RawMessage
	if err := getJSON(ctx, j.http, j.baseURL+"/swap/v1/quote?"+q.Encode(), nil, &out); err != nil {
		return nil, fmt.Errorf("jupiter quote: %w", err)
	}
	return out, nil
}
