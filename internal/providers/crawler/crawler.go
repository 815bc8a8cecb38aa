// Package crawler fetches documentation pages as markdown, through
// Firecrawl when a key is configured and by plain HTTP otherwise.
package crawler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
)

const (
	DefaultFirecrawlURL = "https://api.firecrawl.dev"
	maxPageBytes        = 5 << 20
)

var (
	ErrNotConfigured = errors.New("FIRECRAWL_API_KEY is not set")
	ErrPrivateHost   = errors.New("refusing to fetch a non-public address")
)

type Page struct {
	URL         string
	Markdown    string
	Title       string
	Description string
	Favicon     string
}

type Config struct {
	APIKey  string
	BaseURL string
	// AllowDirect enables plain fetches when APIKey is empty.
	AllowDirect bool
	// HTTPClient replaces both the Firecrawl client and the guarded
	// direct-fetch client.
	HTTPClient *http.Client
}

type Crawler struct {
	cfg   Config
	http  *http.Client
	fetch *http.Client
}

func New(cfg Config) *Crawler {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultFirecrawlURL
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if hc := cfg.HTTPClient; hc != nil {
		return &Crawler{cfg: cfg, http: hc, fetch: hc}
	}
	return &Crawler{
		cfg:   cfg,
		http:  &http.Client{Timeout: 60 * time.Second},
		fetch: publicOnlyClient(),
	}
}

// publicOnlyClient dials only public unicast addresses. The check runs on
// the resolved address of every connection, redirects included.
func publicOnlyClient() *http.Client {
	dialer := &net.Dialer{Timeout: 10 * time.Second, Control: refuseNonPublic}
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.Proxy = nil
	tr.DialContext = dialer.DialContext
	return &http.Client{Timeout: 60 * time.Second, Transport: tr}
}

func refuseNonPublic(network, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip := net.ParseIP(host)
	if ip == nil || !isPublic(ip) {
		return fmt.Errorf("%w: %s", ErrPrivateHost, host)
	}
	return nil
}

func isPublic(ip net.IP) bool {
	return !(ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsMulticast())
}

func (c *Crawler) Scrape(ctx context.Context, pageURL string) (*Page, error) {
	if _, err := url.ParseRequestURI(pageURL); err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", pageURL, err)
	}
	if c.cfg.APIKey != "" {
		return c.firecrawl(ctx, pageURL)
	}
	if c.cfg.AllowDirect {
		return c.direct(ctx, pageURL)
	}
	return nil, ErrNotConfigured
}

type scrapeRequest struct {
	URL             string   `json:"url"`
	Formats         []string `json:"formats"`
	OnlyMainContent bool     `json:"onlyMainContent"`
}

type scrapeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    struct {
		Markdown string `json:"markdown"`
		Metadata struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Favicon     string `json:"favicon"`
			SourceURL   string `json:"sourceURL"`
		} `json:"metadata"`
	} `json:"data"`
}

func (c *Crawler) firecrawl(ctx context.Context, pageURL string) (*Page, error) {
	body, err := json.Marshal(scrapeRequest{URL: pageURL, Formats: []string{"markdown"}, OnlyMainContent: true})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/scrape", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("firecrawl scrape: %w", err)
	}
	defer resp.Body.Close()

	var out scrapeResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPageBytes)).Decode(&out); err != nil {
		return nil, fmt.Errorf("firecrawl scrape: http %d: %w", resp.StatusCode, err)
	}
	if resp.StatusCode >= 300 || !out.Success {
		return nil, fmt.Errorf("firecrawl scrape: http %d: %s", resp.StatusCode, out.Error)
	}

	md := out.Data.Metadata
	return &Page{
		URL:         pageURL,
		Markdown:    out.Data.Markdown,
		Title:       md.Title,
		Description: md.Description,
		Favicon:     md.Favicon,
	}, nil
}

func (c *Crawler) direct(ctx context.Context, pageURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html")

	resp, err := c.fetch.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: http %d", pageURL, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, err
	}

	markdown, err := htmltomarkdown.ConvertString(string(raw))
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", pageURL, err)
	}

	page := &Page{URL: pageURL, Markdown: strings.TrimSpace(markdown)}
	readMeta(raw, pageURL, page)
	return page, nil
}

// readMeta fills title, description and favicon from the document head.
func readMeta(raw []byte, pageURL string, page *Page) {
	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return
	}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if page.Title == "" && n.FirstChild != nil {
					page.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				if strings.EqualFold(attr(n, "name"), "description") && page.Description == "" {
					page.Description = strings.TrimSpace(attr(n, "content"))
				}
			case "link":
				rel := strings.ToLower(attr(n, "rel"))
				if strings.Contains(rel, "icon") && page.Favicon == "" {
					page.Favicon = resolve(pageURL, attr(n, "href"))
				}
			case "body":
				return
			}
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(doc)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func resolve(base, ref string) string {
	if ref == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
