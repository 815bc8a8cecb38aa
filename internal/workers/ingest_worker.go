package workers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/chainchat/backend/internal/metrics"
	"github.com/chainchat/backend/internal/models"
	"github.com/chainchat/backend/internal/providers/crawler"
	"github.com/chainchat/backend/internal/services"
)

const (
	IngestStream = "knowledge:ingest"
	IngestGroup  = "ingest-workers"

	// Summaries fall back to this many leading runes of the page.
	fallbackSummaryRunes = 500
	// Embedding input is capped to stay inside the model's token window.
	embedInputRunes = 8000
)

type Scraper interface {
	Scrape(ctx context.Context, pageURL string) (*crawler.Page, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, title, markdown string) (string, error)
}

type IngestJob struct {
	URL     string `json:"url"`
	BaseURL string `json:"baseUrl"`
	Name    string `json:"name"`
}

func (j IngestJob) values() map[string]any {
	return map[string]any{"url": j.URL, "base_url": j.BaseURL, "name": j.Name}
}

// EnqueueIngest appends job to the ingest stream and returns its entry id.
func EnqueueIngest(ctx context.Context, rdb *redis.Client, job IngestJob) (string, error) {
	if rdb == nil {
		return "", errors.New("redis is not configured")
	}
	return rdb.XAdd(ctx, &redis.XAddArgs{Stream: IngestStream, Values: job.values()}).Result()
}

type IngestWorkerPool struct {
	Redis      *redis.Client
	Knowledge  services.KnowledgeService
	Scraper    Scraper
	Summarizer Summarizer // optional
	Embedder   services.Embedder
	NumWorkers int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
}

func (p *IngestWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Knowledge == nil || p.Scraper == nil || p.Embedder == nil {
		return errors.New("IngestWorkerPool missing dependency: Redis/Knowledge/Scraper/Embedder must be set")
	}
	if p.Stream == "" {
		p.Stream = IngestStream
	}
	if p.Group == "" {
		p.Group = IngestGroup
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 2
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	if err := p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err(); err != nil && !isBusyGroup(err) {
		return fmt.Errorf("create consumer group %s on %s: %w", p.Group, p.Stream, err)
	}

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

// isBusyGroup reports the error Redis returns when the group already exists.
func isBusyGroup(err error) bool {
	return strings.HasPrefix(err.Error(), "BUSYGROUP")
}

func (p *IngestWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    5,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func (p *IngestWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	getStr := func(k string) string {
		v, ok := msg.Values[k]
		if !ok || v == nil {
			return ""
		}
		s, _ := v.(string)
		return s
	}

	job := IngestJob{URL: getStr("url"), BaseURL: getStr("base_url"), Name: getStr("name")}
	log := p.Logger.WithFields(logrus.Fields{"redis_id": msg.ID, "url": job.URL, "base_url": job.BaseURL})

	if err := p.Process(ctx, job); err != nil {
		metrics.IngestJob("failed")
		log.WithError(err).Error("ingest failed")
		return
	}
	metrics.IngestJob("done")
	log.Info("ingested")
}

// Process scrapes one page and stores it, refreshing the row when the url
// is already known.
func (p *IngestWorkerPool) Process(ctx context.Context, job IngestJob) error {
	if job.URL == "" {
		return errors.New("job has no url")
	}
	if job.BaseURL == "" {
		job.BaseURL = baseOf(job.URL)
	}

	page, err := p.Scraper.Scrape(ctx, job.URL)
	if err != nil {
		return err
	}
	if strings.TrimSpace(page.Markdown) == "" {
		return errors.New("page has no content")
	}

	summary := p.summarize(ctx, page)

	summaryEmb, err := p.Embedder.Embed(ctx, summary)
	if err != nil {
		return err
	}
	markdownEmb, err := p.Embedder.Embed(ctx, truncateRunes(page.Markdown, embedInputRunes))
	if err != nil {
		return err
	}

	if existing := p.Knowledge.FindKnowledgeByURL(ctx, job.URL); len(existing) > 0 {
		k := existing[0]
		if !p.Knowledge.UpdateKnowledgeContent(ctx, k.ID, k.BaseURL, page.Markdown, markdownEmb) {
			return errors.New("update knowledge content failed")
		}
		return nil
	}

	name := job.Name
	if name == "" {
		name = page.Title
	}
	if name == "" {
		name = job.BaseURL
	}

	k := p.Knowledge.AddKnowledge(ctx, models.KnowledgeInput{
		BaseURL:          job.BaseURL,
		Name:             name,
		Summary:          summary,
		SummaryEmbedding: summaryEmb,
		Markdown:         page.Markdown,
		URL:              &job.URL,
		Title:            optional(page.Title),
		Description:      optional(page.Description),
		Favicon:          optional(page.Favicon),
	})
	if k == nil {
		return errors.New("add knowledge failed")
	}
	if !p.Knowledge.UpdateKnowledgeContent(ctx, k.ID, k.BaseURL, page.Markdown, markdownEmb) {
		return errors.New("attach markdown embedding failed")
	}
	return nil
}

func (p *IngestWorkerPool) summarize(ctx context.Context, page *crawler.Page) string {
	if p.Summarizer != nil {
		s, err := p.Summarizer.Summarize(ctx, page.Title, page.Markdown)
		if err == nil && s != "" {
			return s
		}
		if err != nil {
			p.Logger.WithError(err).WithField("url", page.URL).Warn("summarize failed, using fallback")
		}
	}
	if d := strings.TrimSpace(page.Description); d != "" {
		return d
	}
	return truncateRunes(strings.TrimSpace(page.Markdown), fallbackSummaryRunes)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func baseOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Scheme + "://" + u.Host
}
