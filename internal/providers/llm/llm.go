package llm

import "context"

type Provider interface {
	// Summarize condenses a scraped page into a short plain-text summary.
	Summarize(ctx context.Context, title, markdown string) (string, error)
	Close() error
}
