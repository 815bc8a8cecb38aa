package models

import "encoding/json"

// Chat messages are opaque to the backend and stored as-is.
type Chat struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId"`
	Messages  []json.RawMessage `json:"messages"`
	Tagline   string            `json:"tagline"`
	Chain     *string           `json:"chain,omitempty"`
	UpdatedAt int64             `json:"updatedAt"`
}

type NewChat struct {
	ID       string            `json:"id"`
	UserID   string            `json:"userId"`
	Messages []json.RawMessage `json:"messages"`
	Tagline  string            `json:"tagline"`
	Chain    *string           `json:"chain,omitempty"`
}
