package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultHuggingFaceURL is the hosted inference API
	DefaultHuggingFaceURL = "https://api-inference.huggingface.co"
	// DefaultHuggingFaceModel matches the model the hosted free tier serves
	DefaultHuggingFaceModel = "gpt2"

	huggingFaceTopP = 0.95
)

// HuggingFaceClient implements LLMClient using the Hugging Face inference API
type HuggingFaceClient struct {
	baseURL string
	model   string
	token   string
	client  *http.Client
}

// NewHuggingFaceClient creates a new HuggingFaceClient.
// An empty baseURL or model selects the defaults.
func NewHuggingFaceClient(baseURL, model, token string, timeout time.Duration) *HuggingFaceClient {
	if baseURL == "" {
		baseURL = DefaultHuggingFaceURL
	}
	if model == "" {
		model = DefaultHuggingFaceModel
	}
	if timeout <= 0 {
		timeout = 25 * time.Second
	}
	return &HuggingFaceClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

// Name identifies the provider in logs and metrics
func (c *HuggingFaceClient) Name() string {
	return "huggingface"
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxNewTokens   int32   `json:"max_new_tokens"`
	Temperature    float32 `json:"temperature"`
	DoSample       bool    `json:"do_sample"`
	TopP           float64 `json:"top_p"`
	ReturnFullText bool    `json:"return_full_text"`
}

type hfGeneration struct {
	GeneratedText string `json:"generated_text"`
}

type hfError struct {
	Error string `json:"error"`
}

// GenerateContent posts prompt to the model endpoint and returns the generated continuation
func (c *HuggingFaceClient) GenerateContent(ctx context.Context, prompt string, temperature float32, maxOutputTokens int32) (string, error) {
	if c.token == "" {
		return "", fmt.Errorf("HUGGINGFACE_TOKEN is not set")
	}

	body, err := json.Marshal(hfRequest{
		Inputs: prompt,
		Parameters: hfParameters{
			MaxNewTokens:   maxOutputTokens,
			Temperature:    temperature,
			DoSample:       true,
			TopP:           huggingFaceTopP,
			ReturnFullText: false,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr hfError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return "", fmt.Errorf("huggingface returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return "", fmt.Errorf("huggingface returned %d", resp.StatusCode)
	}

	var generations []hfGeneration
	if err := json.Unmarshal(data, &generations); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(generations) == 0 {
		return "", nil
	}

	// Some models echo the prompt even with return_full_text=false
	text := strings.TrimPrefix(generations[0].GeneratedText, prompt)
	return strings.TrimSpace(text), nil
}
