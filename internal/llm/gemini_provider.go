package llm

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"google.golang.org/genai"
)

const (
	providerNameGemini = "gemini"
	geminiUserRole     = "user"

	// Title generation parameters, tuned for short creative output
	titleTemperature     = 0.9
	titleTopP            = 0.8
	titleMaxOutputTokens = 20
)

// GeminiProvider implements the Provider interface using Google's Gemini API
type GeminiProvider struct {
	client *genai.Client
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{client: client}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return providerNameGemini
}

// GenerateTitle produces an album title using Gemini
func (p *GeminiProvider) GenerateTitle(ctx context.Context, request *TitleRequest) (string, error) {
	startTime := time.Now()
	log.Printf("GEMINI TITLE REQUEST STARTED (Model: %s)", request.Model)

	transaction := sentry.StartTransaction(ctx, "gemini.generate_title")
	defer transaction.Finish()

	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", providerNameGemini)

	contents := []*genai.Content{
		{
			Role:  geminiUserRole,
			Parts: []*genai.Part{{Text: request.Prompt}},
		},
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](titleTemperature),
		TopP:            genai.Ptr[float32](titleTopP),
		MaxOutputTokens: titleMaxOutputTokens,
	}

	span := transaction.StartChild("gemini.api_call")
	result, err := p.client.Models.GenerateContent(ctx, request.Model, contents, config)
	span.Finish()

	if err != nil {
		log.Printf("GEMINI TITLE REQUEST FAILED after %v: %v", time.Since(startTime), err)
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	if len(result.Candidates) == 0 {
		transaction.SetTag("success", "false")
		return "", fmt.Errorf("no candidates in Gemini response")
	}
	candidate := result.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		transaction.SetTag("success", "false")
		return "", fmt.Errorf("no parts in Gemini response")
	}

	textOutput := candidate.Content.Parts[0].Text
	if textOutput == "" {
		transaction.SetTag("success", "false")
		return "", fmt.Errorf("gemini response did not include any output text")
	}

	if result.UsageMetadata != nil {
		log.Printf("GEMINI USAGE: input=%d, output=%d, total=%d",
			result.UsageMetadata.PromptTokenCount,
			result.UsageMetadata.CandidatesTokenCount,
			result.UsageMetadata.TotalTokenCount)
	}

	log.Printf("GEMINI TITLE COMPLETED in %v", time.Since(startTime))
	transaction.SetTag("success", "true")
	return textOutput, nil
}
