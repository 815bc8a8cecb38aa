package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"
)

// ObjectStore keeps publicly readable objects. Upload overwrites an
// existing key.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, r io.Reader, size int64) (publicURL string, err error)
	Delete(ctx context.Context, key string) error
}

const ImagesPrefix = "images/"

func ImageKey(name string) string { return ImagesPrefix + name }

type ImageURLs struct {
	BaseURL         string // public base, ex: https://cdn.example.com
	AzureAccountURL string
	AzureSAS        string
	Now             func() time.Time
}

// ProfileImageURL points at images/<userID>. With cacheBust a ?t=<ms>
// parameter forces a fresh fetch after an upload. Without a public base the
// legacy Azure account url and SAS are used.
func (u ImageURLs) ProfileImageURL(userID string, cacheBust bool) string {
	now := time.Now
	if u.Now != nil {
		now = u.Now
	}
	ts := fmt.Sprintf("%d", now().UnixMilli())
	id := url.PathEscape(userID)

	if base := strings.TrimSuffix(u.BaseURL, "/"); base != "" {
		s := base + "/" + ImagesPrefix + id
		if cacheBust {
			s += "?t=" + ts
		}
		return s
	}

	s := strings.TrimSuffix(u.AzureAccountURL, "/") + "/" + ImagesPrefix + id + "?sv=" + u.AzureSAS
	if cacheBust {
		s += "&t=" + ts
	}
	return s
}
