package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

var ErrMissingAPIKey = errors.New("llm API key is required")

const summarizeSystemPrompt = "You are a professional summarization assistant. " +
	"Your task is to generate a concise, accurate summary based only on the " +
	"provided video transcript. Return only one well-written paragraph. " +
	"The final output must not exceed 2000 characters, including spaces."

const summarizePrompt = "Summarize the following video transcript in 3-5 sentences. " +
	"Write a single clear paragraph. Do not add any information that is not " +
	"explicitly stated in the transcript. Ensure the response is no longer " +
	"than 2000 characters, including spaces.\n\n"

const mainPointsSystemPrompt = "You are a professional content analysis assistant. " +
	"Extract the main points from a video transcript. Return only clear bullet " +
	"points based strictly on the transcript. The final output must not exceed " +
	"2000 characters, including spaces."

const mainPointsPrompt = "From the following transcript, extract the key points as " +
	"concise bullet points. Do not include explanations, introductions, or " +
	"conclusions. Do not add any information not explicitly stated in the " +
	"transcript. Ensure the response is no longer than 2000 characters, " +
	"including spaces.\n\n"

// Client wraps the Gemini API for transcript analysis: summaries and
// key-point extraction. Plain request/response, no streaming.
type Client struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewClient creates an LLM client backed by the Gemini API.
func NewClient(ctx context.Context, apiKey, model string, logger *zap.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	logger.Debug("initialized LLM client", zap.String("model", model))
	return &Client{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// Summarize generates a one-paragraph summary of the transcript.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	c.logger.Info("generating summary", zap.Int("transcript_chars", len(text)))
	return c.generate(ctx, summarizeSystemPrompt, summarizePrompt+text)
}

// MainPoints extracts the transcript's key takeaways as bullet points.
func (c *Client) MainPoints(ctx context.Context, text string) (string, error) {
	c.logger.Info("extracting main points", zap.Int("transcript_chars", len(text)))
	return c.generate(ctx, mainPointsSystemPrompt, mainPointsPrompt+text)
}

func (c *Client) generate(ctx context.Context, system, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature:       genai.Ptr[float32](0.1),
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	out := strings.TrimSpace(resp.Text())
	if out == "" {
		return "", errors.New("model returned an empty response")
	}
	c.logger.Debug("generated response", zap.Int("chars", len(out)))
	return out, nil
}
