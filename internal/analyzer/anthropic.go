package analyzer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/pbaille/kalorien/internal/domain"
)

const (
	defaultEndpoint = "https://api.anthropic.com/v1/messages"
	defaultModel    = "claude-sonnet-4-20250514"
	defaultTimeout  = 30 * time.Second
)

// Anthropic estimates nutrition via the Anthropic messages API.
type Anthropic struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewAnthropic creates an Anthropic analyzer. The API key falls back to
// ANTHROPIC_API_KEY.
func NewAnthropic(cfg Config) (*Anthropic, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New("anthropic api key not set")
	}

	a := &Anthropic{
		apiKey:   apiKey,
		model:    cfg.Model,
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: cfg.Timeout},
	}
	if a.model == "" {
		a.model = defaultModel
	}
	if a.endpoint == "" {
		a.endpoint = defaultEndpoint
	}
	if cfg.Timeout <= 0 {
		a.client.Timeout = defaultTimeout
	}
	return a, nil
}

// Analyze sends the image and parses the estimate from the reply.
func (a *Anthropic) Analyze(ctx context.Context, img Image) (domain.NutritionEstimate, error) {
	if len(img.Data) == 0 {
		return domain.NutritionEstimate{}, ErrEmptyImage
	}

	resp, err := a.callAPI(ctx, img)
	if err != nil {
		return domain.NutritionEstimate{}, fmt.Errorf("api call: %w", err)
	}

	return parseResponse(resp)
}

const prompt = `Identify the food in this photo and estimate its nutrition for the whole portion shown.

Return a JSON object with this structure:
{"name": "dish name", "calories": 0, "protein": 0, "carbs": 0, "fat": 0}

Rules:
- "name" is a short dish name in German
- "calories" is in kcal, "protein", "carbs" and "fat" are in grams
- All numbers are non-negative

Return ONLY the JSON, no other text.`

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (a *Anthropic) callAPI(ctx context.Context, img Image) (string, error) {
	reqBody := apiRequest{
		Model:     a.model,
		MaxTokens: 512,
		Messages: []apiMessage{{
			Role: "user",
			Content: []contentBlock{
				{Type: "image", Source: &imageSource{
					Type:      "base64",
					MediaType: img.MediaType,
					Data:      base64.StdEncoding.EncodeToString(img.Data),
				}},
				{Type: "text", Text: prompt},
			},
		}},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("api error (status %d): %s", resp.StatusCode, string(body))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if apiResp.Error != nil {
		return "", fmt.Errorf("api error: %s", apiResp.Error.Message)
	}

	for _, c := range apiResp.Content {
		if c.Type == "text" {
			return c.Text, nil
		}
	}
	return "", errors.New("empty response")
}

func parseResponse(resp string) (domain.NutritionEstimate, error) {
	resp = strings.TrimSpace(resp)
	resp = strings.TrimPrefix(resp, "```json")
	resp = strings.TrimPrefix(resp, "```")
	resp = strings.TrimSuffix(resp, "```")
	resp = strings.TrimSpace(resp)

	var est domain.NutritionEstimate
	if err := json.Unmarshal([]byte(resp), &est); err != nil {
		return domain.NutritionEstimate{}, fmt.Errorf("parse json: %w (response: %s)", err, resp)
	}
	est.Name = strings.TrimSpace(est.Name)
	if err := est.Validate(); err != nil {
		return domain.NutritionEstimate{}, fmt.Errorf("invalid estimate: %w", err)
	}

	return est, nil
}
