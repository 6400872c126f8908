package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/BenjaminLTakaki/coverart-api/internal/logger"
	"github.com/avast/retry-go"
	"github.com/getsentry/sentry-go"
)

const (
	enginesURL         = "https://api.stability.ai/v1/engines/list"
	generationURLTmpl  = "https://api.stability.ai/v1/generation/%s/text-to-image"
	defaultEngineID    = "stable-diffusion-xl-1024-v1-0"
	requestTimeout     = 120 * time.Second
	generationAttempts = 3

	imageWidth    = 1024
	imageHeight   = 1024
	cfgScale      = 7.0
	samples       = 1
	steps         = 30
	imageFileMode = 0o644
)

// DefaultNegativePrompt steers the model away from the usual failure modes
// of diffusion-generated artwork.
const DefaultNegativePrompt = "painting, extra fingers, mutated hands, poorly drawn hands, poorly drawn face, deformed, ugly, blurry, bad anatomy, " +
	"bad proportions, extra limbs, cloned face, skinny, glitchy, double torso, extra arms, extra hands, mangled fingers, " +
	"missing lips, ugly face, distorted face, extra legs, anime"

// StabilityClient generates cover images through the Stability AI REST API.
// The resolved engine id is cached per client; construct one and share it.
type StabilityClient struct {
	apiKey     string
	httpClient *http.Client

	engineOnce sync.Once
	engineID   string
}

// NewStabilityClient creates a client for the given API key.
func NewStabilityClient(apiKey string) *StabilityClient {
	return &StabilityClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

type textPrompt struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
}

type generationPayload struct {
	TextPrompts []textPrompt `json:"text_prompts"`
	CFGScale    float64      `json:"cfg_scale"`
	Height      int          `json:"height"`
	Width       int          `json:"width"`
	Samples     int          `json:"samples"`
	Steps       int          `json:"steps"`
}

type generationResponse struct {
	Artifacts []struct {
		Base64 string `json:"base64"`
	} `json:"artifacts"`
}

// GenerateCover runs a text-to-image generation and writes the resulting
// PNG to outputPath.
func (c *StabilityClient) GenerateCover(ctx context.Context, prompt, outputPath string) error {
	if c.apiKey == "" {
		return fmt.Errorf("missing Stability API key (set STABILITY_API_KEY)")
	}

	transaction := sentry.StartTransaction(ctx, "stability.generate")
	defer transaction.Finish()

	engineID := c.resolveEngineID(ctx)
	transaction.SetTag("engine", engineID)

	logger.Info("Generating cover image", logger.Fields{
		"engine":        engineID,
		"prompt_length": len(prompt),
	})

	payload := generationPayload{
		TextPrompts: []textPrompt{
			{Text: prompt, Weight: 1.0},
			{Text: DefaultNegativePrompt, Weight: -1.0},
		},
		CFGScale: cfgScale,
		Height:   imageHeight,
		Width:    imageWidth,
		Samples:  samples,
		Steps:    steps,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling generation payload: %w", err)
	}

	var respBody []byte
	err = retry.Do(
		func() error {
			var reqErr error
			respBody, reqErr = c.post(ctx, fmt.Sprintf(generationURLTmpl, engineID), body)
			return reqErr
		},
		retry.Attempts(generationAttempts),
		retry.Context(ctx),
		retry.RetryIf(func(err error) bool {
			// Client-side errors (bad key, content policy) will not improve
			// with another attempt.
			return !strings.Contains(err.Error(), "API error 4")
		}),
	)
	if err != nil {
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return fmt.Errorf("stability request failed: %w", err)
	}

	var result generationResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return fmt.Errorf("parsing stability response: %w", err)
	}
	if len(result.Artifacts) == 0 {
		return fmt.Errorf("no image data found in the response")
	}

	imageBytes, err := base64.StdEncoding.DecodeString(result.Artifacts[0].Base64)
	if err != nil {
		return fmt.Errorf("decoding image data: %w", err)
	}

	if err := os.WriteFile(outputPath, imageBytes, imageFileMode); err != nil {
		return fmt.Errorf("writing image to %s: %w", outputPath, err)
	}

	logger.Info("Cover image saved", logger.Fields{"output_path": outputPath})
	transaction.SetTag("success", "true")
	return nil
}

// resolveEngineID queries the engine list once per client, preferring SDXL
// engines; any failure falls back to the default engine id.
func (c *StabilityClient) resolveEngineID(ctx context.Context) string {
	c.engineOnce.Do(func() {
		c.engineID = defaultEngineID

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, enginesURL, nil)
		if err != nil {
			return
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			logger.Warn("Engine list request failed, using default engine", logger.Fields{"error": err.Error()})
			return
		}
		defer func() {
			if closeErr := resp.Body.Close(); closeErr != nil {
				logger.Warn("Failed to close response body", logger.Fields{"error": closeErr.Error()})
			}
		}()

		if resp.StatusCode != http.StatusOK {
			logger.Warn("Engine list returned non-OK status, using default engine", logger.Fields{"status": resp.StatusCode})
			return
		}

		var engines []struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&engines); err != nil {
			return
		}

		var sdEngines, sdxlEngines []string
		for _, engine := range engines {
			id := strings.ToLower(engine.ID)
			if strings.Contains(id, "stable-diffusion") {
				sdEngines = append(sdEngines, engine.ID)
				if strings.Contains(id, "xl") {
					sdxlEngines = append(sdxlEngines, engine.ID)
				}
			}
		}

		switch {
		case len(sdxlEngines) > 0:
			c.engineID = sdxlEngines[0]
		case len(sdEngines) > 0:
			c.engineID = sdEngines[0]
		}
		logger.Info("Using Stability AI engine", logger.Fields{"engine": c.engineID})
	})
	return c.engineID
}

func (c *StabilityClient) post(ctx context.Context, url string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warn("Failed to close response body", logger.Fields{"error": closeErr.Error()})
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}
