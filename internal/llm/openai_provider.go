package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

const providerNameOpenAI = "openai"

// OpenAIProvider implements the Provider interface using OpenAI's Responses API
type OpenAIProvider struct {
	client *openai.Client
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIProvider{client: &client}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return providerNameOpenAI
}

// GenerateTitle produces an album title using the Responses API plain-text path
func (p *OpenAIProvider) GenerateTitle(ctx context.Context, request *TitleRequest) (string, error) {
	startTime := time.Now()
	log.Printf("OPENAI TITLE REQUEST STARTED (Model: %s)", request.Model)

	transaction := sentry.StartTransaction(ctx, "openai.generate_title")
	defer transaction.Finish()

	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", providerNameOpenAI)

	params := responses.ResponseNewParams{
		Model: request.Model,
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(request.Prompt),
		},
		Temperature: openai.Float(titleTemperature),
	}

	span := transaction.StartChild("openai.api_call")
	resp, err := p.client.Responses.New(ctx, params)
	span.Finish()

	if err != nil {
		log.Printf("OPENAI TITLE REQUEST FAILED after %v: %v", time.Since(startTime), err)
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return "", fmt.Errorf("openai request failed: %w", err)
	}

	textOutput := strings.TrimSpace(resp.OutputText())
	if textOutput == "" {
		transaction.SetTag("success", "false")
		return "", fmt.Errorf("openai response did not include any output text")
	}

	log.Printf("OPENAI USAGE: input=%d, output=%d, total=%d",
		resp.Usage.InputTokens, resp.Usage.OutputTokens, resp.Usage.TotalTokens)
	log.Printf("OPENAI TITLE COMPLETED in %v", time.Since(startTime))

	transaction.SetTag("success", "true")
	return textOutput, nil
}
