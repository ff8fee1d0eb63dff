package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"stock-sentiment-tracker/internal/worker/config"
	"stock-sentiment-tracker/internal/worker/dto"
	"stock-sentiment-tracker/pkg/logger"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// SentimentScorerRepository scores a piece of article text.
type SentimentScorerRepository interface {
	Score(ctx context.Context, title, snippet string) (*dto.SentimentResult, error)
	Model() string
}

type geminiScorerRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	genAiClient    *genai.Client
	requestLimiter *rate.Limiter
}

// NewGeminiScorerRepository creates a Gemini-backed sentiment scorer.
func NewGeminiScorerRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) (SentimentScorerRepository, error) {
	if cfg.Gemini.MaxRequestPerMinute <= 0 {
		return nil, fmt.Errorf("gemini max_request_per_minute must be positive")
	}
	secondsPerRequest := time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute)
	return &geminiScorerRepository{
		cfg:            cfg,
		log:            log,
		genAiClient:    genAiClient,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}, nil
}

// Model returns the identifier stored alongside scores produced by this
// scorer.
func (r *geminiScorerRepository) Model() string {
	return "gemini_fin_v1"
}

const scorePromptTemplate = `You are a financial news sentiment classifier.
Classify the sentiment of the following article toward the mentioned company.

Title: %s
Text: %s

Respond with JSON only, no markdown, in this exact shape:
{"label": "POSITIVE" | "NEUTRAL" | "NEGATIVE", "score": <float in [-1, 1]>, "confidence": <float in [0, 1]>, "topics": [<up to 3 short topic tags>]}`

// Score classifies one article's sentiment.
func (r *geminiScorerRepository) Score(ctx context.Context, title, snippet string) (*dto.SentimentResult, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	prompt := fmt.Sprintf(scorePromptTemplate, title, snippet)
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}

	resp, err := r.genAiClient.Models.GenerateContent(ctx, r.cfg.Gemini.Model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("empty response from Gemini API")
	}

	result, err := parseScoreResponse(text)
	if err != nil {
		r.log.Error("Failed to parse scorer response", logger.ErrorField(err), logger.StringField("response", text))
		return nil, err
	}
	return result, nil
}

// parseScoreResponse decodes the scorer JSON, tolerating markdown fences, and
// clamps the numeric fields into their documented ranges.
func parseScoreResponse(text string) (*dto.SentimentResult, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var result dto.SentimentResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal score response: %w", err)
	}

	switch result.Label {
	case "POSITIVE", "NEUTRAL", "NEGATIVE":
	default:
		return nil, fmt.Errorf("unexpected sentiment label: %q", result.Label)
	}

	if result.Score > 1 {
		result.Score = 1
	} else if result.Score < -1 {
		result.Score = -1
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	} else if result.Confidence < 0 {
		result.Confidence = 0
	}
	if len(result.Topics) > 3 {
		result.Topics = result.Topics[:3]
	}

	return &result, nil
}
