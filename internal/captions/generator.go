// Package captions calls the hosted text-generation API to draft social
// captions in the brand voice. The call never fails loudly: any upstream or
// parse problem degrades to a single placeholder caption so the caption list
// stays uniform for the caller.
package captions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// ErrCaption is the single caption returned when generation fails for any
// reason.
const ErrCaption = "Error parsing response. Please try again."

const apiVersion = "2023-06-01"

// Request carries everything the prompt needs.
type Request struct {
	Channel    string `json:"channel"`
	Context    string `json:"context"`
	Product    string `json:"product,omitempty"`
	Tone       string `json:"tone"`
	BrandVoice string `json:"brandVoice"`
}

// Generator is a client for the messages endpoint of an Anthropic-compatible
// API.
type Generator struct {
	client *resty.Client
	model  string
	log    zerolog.Logger
}

// NewGenerator builds a client for baseURL. The key is sent as x-api-key.
func NewGenerator(baseURL, apiKey, model string, log zerolog.Logger) *Generator {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", apiVersion).
		SetTimeout(60 * time.Second)
	return &Generator{client: c, model: model, log: log}
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Generate returns exactly 3 captions on success, or a single placeholder
// caption on any failure. It never returns an empty slice and never panics.
func (g *Generator) Generate(ctx context.Context, req Request) []string {
	body := messagesRequest{
		Model:     g.model,
		MaxTokens: 1000,
		Messages:  []message{{Role: "user", Content: prompt(req)}},
	}

	var out messagesResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/v1/messages")
	if err != nil {
		g.log.Warn().Err(err).Msg("caption generation request failed")
		return []string{ErrCaption}
	}
	if resp.IsError() {
		g.log.Warn().Int("status", resp.StatusCode()).Msg("caption generation upstream error")
		return []string{ErrCaption}
	}

	text := "[]"
	for _, block := range out.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	return ParseCaptions(text, g.log)
}

// ParseCaptions strips code fences from the model output and decodes the JSON
// array of captions. A malformed payload yields the placeholder instead of an
// error.
func ParseCaptions(text string, log zerolog.Logger) []string {
	clean := strings.ReplaceAll(text, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)

	var captions []string
	if err := json.Unmarshal([]byte(clean), &captions); err != nil || len(captions) == 0 {
		log.Warn().Str("text", clean).Msg("caption response was not a JSON string array")
		return []string{ErrCaption}
	}
	return captions
}

func prompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are the voice of tāst, a specialty coffee company. Generate 3 distinct social media captions for %s.\n\n", req.Channel)
	fmt.Fprintf(&b, "BRAND VOICE & GUIDELINES:\n%s\n\n", req.BrandVoice)
	fmt.Fprintf(&b, "POST CONTEXT: %s\n", req.Context)
	if req.Product != "" {
		fmt.Fprintf(&b, "PRODUCT: %s\n", req.Product)
	}
	fmt.Fprintf(&b, "TONE DIRECTION: %s\n\n", req.Tone)
	b.WriteString("Return ONLY a JSON array of 3 strings — no markdown, no explanation, no preamble. Each caption should feel distinct. For Instagram include relevant hashtags at the end.")
	return b.String()
}
