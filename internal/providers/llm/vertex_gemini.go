package llm

import (
	"context"
	"errors"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
)

// Pages are cut to this many runes before prompting.
const maxPromptRunes = 30000

type VertexGemini struct {
	client *vertexgenai.Client
	model  *vertexgenai.GenerativeModel
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string) (*VertexGemini, error) {
	c, err := vertexgenai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	m := c.GenerativeModel(modelName)
	m.SetTemperature(0.2)
	return &VertexGemini{client: c, model: m}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

func (v *VertexGemini) Summarize(ctx context.Context, title, markdown string) (string, error) {
	resp, err := v.model.GenerateContent(ctx, vertexgenai.Text(SummaryPrompt(title, markdown)))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(vertexgenai.Text); ok {
				sb.WriteString(string(t))
			}
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", errors.New("empty summary")
	}
	return out, nil
}

func SummaryPrompt(title, markdown string) string {
	if r := []rune(markdown); len(r) > maxPromptRunes {
		markdown = string(r[:maxPromptRunes])
	}
	var sb strings.Builder
	sb.WriteString("Summarize the following documentation page in 2-4 sentences. ")
	sb.WriteString("Keep protocol names, token symbols and numbers. Reply with the summary only.\n\n")
	if title != "" {
		sb.WriteString("Title: " + title + "\n\n")
	}
	sb.WriteString(markdown)
	return sb.String()
}
