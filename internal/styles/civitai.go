package styles

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/avast/retry-go"
)

const (
	civitaiModelURLTmpl   = "https://civitai.com/api/v1/models/%s"
	civitaiRequestTimeout = 30 * time.Second
	civitaiAttempts       = 2
)

var civitaiModelIDPattern = regexp.MustCompile(`/models/(\d+)`)

// CivitaiClient fetches style-asset metadata (display name, trigger words)
// from the Civitai model API.
type CivitaiClient struct {
	httpClient *http.Client
}

// NewCivitaiClient creates a Civitai metadata client.
func NewCivitaiClient() *CivitaiClient {
	return &CivitaiClient{
		httpClient: &http.Client{Timeout: civitaiRequestTimeout},
	}
}

// AssetDetails is the metadata Civitai knows about a model.
type AssetDetails struct {
	Name         string
	Description  string
	TriggerWords []string
}

// ExtractModelID pulls the numeric model id out of a Civitai URL
// (e.g. https://civitai.com/models/12345/my-lora), or "" when absent.
func ExtractModelID(url string) string {
	match := civitaiModelIDPattern.FindStringSubmatch(url)
	if match == nil {
		return ""
	}
	return match[1]
}

// FetchDetails looks up a model by id.
func (c *CivitaiClient) FetchDetails(ctx context.Context, modelID string) (*AssetDetails, error) {
	var body []byte
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(civitaiModelURLTmpl, modelID), nil)
			if err != nil {
				return err
			}
			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("civitai API returned status %d", resp.StatusCode)
			}
			body, err = io.ReadAll(resp.Body)
			return err
		},
		retry.Attempts(civitaiAttempts),
		retry.Context(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("fetching civitai model %s: %w", modelID, err)
	}

	var payload struct {
		Name          string `json:"name"`
		Description   string `json:"description"`
		ModelVersions []struct {
			TrainedWords []string `json:"trainedWords"`
		} `json:"modelVersions"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parsing civitai response: %w", err)
	}

	details := &AssetDetails{
		Name:        payload.Name,
		Description: payload.Description,
	}
	if len(payload.ModelVersions) > 0 {
		details.TriggerWords = payload.ModelVersions[0].TrainedWords
	}
	return details, nil
}
